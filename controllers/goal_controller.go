package controllers

import (
	"net/http"
	"strings"
	"time"

	"EmoTrackGo/config"
	"EmoTrackGo/models"
	"EmoTrackGo/utils"

	"github.com/gin-gonic/gin"
)

type GoalController struct{}

// SetWeeklyGoal 设置或更新本周目标，每个用户每周至多一条
func (gc *GoalController) SetWeeklyGoal(c *gin.Context) {
	uid := c.GetString("uid")

	var req models.WeeklyGoalRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	target := strings.ToLower(strings.TrimSpace(req.TargetEmotion))
	weekStart := currentWeekStart(time.Now())

	// 开启事务
	tx := config.DB.Begin()
	defer func() {
		if r := recover(); r != nil {
			tx.Rollback()
		}
	}()

	var goal models.WeeklyGoal
	if err := tx.Where("user_id = ? AND week_start = ?", uid, weekStart).
		First(&goal).Error; err == nil {
		// 本周已有目标，覆盖更新
		goal.TargetEmotion = target
		goal.Notes = req.Notes
		if err := tx.Save(&goal).Error; err != nil {
			tx.Rollback()
			config.Logger.Errorw("周目标更新失败", "error", err, "uid", uid)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to save goal"})
			return
		}
	} else {
		goal = models.WeeklyGoal{
			ID:            utils.GenerateID(),
			UserID:        uid,
			WeekStart:     weekStart,
			TargetEmotion: target,
			Notes:         req.Notes,
			CreatedAt:     time.Now().UTC(),
		}
		if err := tx.Create(&goal).Error; err != nil {
			tx.Rollback()
			config.Logger.Errorw("周目标创建失败", "error", err, "uid", uid)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to save goal"})
			return
		}
	}

	if err := tx.Commit().Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to save goal"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Goal saved", "goal": goal})
}
