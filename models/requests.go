package models

// DetectEmotionRequest 情绪检测请求结构体
type DetectEmotionRequest struct {
	Image string `json:"image"`
}

// SaveSummaryRequest 仪表盘摘要保存请求结构体
type SaveSummaryRequest struct {
	Summary []SummaryItem `json:"summary"`
}

// WeeklyGoalRequest 周目标设置请求结构体
type WeeklyGoalRequest struct {
	TargetEmotion string `json:"target_emotion" binding:"required"`
	Notes         string `json:"notes"`
}

// CoachRequest AI教练对话请求结构体
type CoachRequest struct {
	Message string `json:"message" binding:"required"`
}
