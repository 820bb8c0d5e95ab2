package models

import (
	"time"
)

// User 用户模型
type User struct {
	ID           string    `gorm:"type:varchar(50);primaryKey" json:"id"`
	Username     string    `gorm:"type:varchar(64);uniqueIndex" json:"username"`
	Email        string    `gorm:"type:varchar(120);uniqueIndex" json:"email"`
	PasswordHash string    `gorm:"type:varchar(128)" json:"-"`
	CreatedAt    time.Time `json:"createdAt"`

	EmotionLogs []EmotionLog `gorm:"foreignKey:UserID" json:"-"`
	Goals       []WeeklyGoal `gorm:"foreignKey:UserID" json:"-"`
}

func (u *User) GetDisplayName() string {
	if u.Username != "" {
		return u.Username
	}
	return u.Email
}
