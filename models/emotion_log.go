package models

import "time"

// EmotionLog 情绪日志模型，只插入不更新
// UserID 为空表示匿名检测产生的日志
type EmotionLog struct {
	ID         string    `gorm:"type:varchar(50);primaryKey" json:"id"`
	UserID     *string   `gorm:"type:varchar(50);index" json:"user_id,omitempty"`
	Emotion    string    `gorm:"type:varchar(32)" json:"emotion"`
	Confidence *float64  `json:"confidence"`
	Timestamp  time.Time `gorm:"index" json:"timestamp"`
}
