package models

// SummaryItem 单个情绪的统计条目
type SummaryItem struct {
	Emotion    string  `json:"emotion"`
	Count      int     `json:"count"`
	Percentage float64 `json:"percentage"`
}

// SummaryResponse 两分钟情绪汇总响应结构体
type SummaryResponse struct {
	Total   int           `json:"total"`
	Summary []SummaryItem `json:"summary"`
}

// DetectEmotionResponse 情绪检测响应结构体
// 未检测到人脸时 Emotion/Confidence 为 null 并携带 Message
type DetectEmotionResponse struct {
	Timestamp  string   `json:"timestamp"`
	Emotion    *string  `json:"emotion"`
	Confidence *float64 `json:"confidence"`
	Message    string   `json:"message,omitempty"`
}

// RecommendationResponse 建议文案响应结构体
type RecommendationResponse struct {
	Recommendation string `json:"recommendation"`
}
