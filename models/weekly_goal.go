package models

import "time"

// WeeklyGoal 周目标模型，每个用户每周至多一条
type WeeklyGoal struct {
	ID            string    `gorm:"type:varchar(50);primaryKey" json:"id"`
	UserID        string    `gorm:"type:varchar(50);index" json:"user_id"`
	WeekStart     time.Time `gorm:"type:date" json:"weekStart"`
	TargetEmotion string    `gorm:"type:varchar(32)" json:"targetEmotion"`
	Notes         string    `gorm:"type:text" json:"notes"`
	CreatedAt     time.Time `json:"createdAt"`
}
