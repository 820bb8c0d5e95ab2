package controllers

import (
	"encoding/json"
	"net/http"
	"time"

	"EmoTrackGo/config"
	"EmoTrackGo/models"
	"EmoTrackGo/services"

	"github.com/gin-contrib/sessions"
	"github.com/gin-gonic/gin"
)

// dashboardSummaryKey 会话中仪表盘摘要快照的键，登出时随会话一并清除
const dashboardSummaryKey = "latest_dashboard_summary"

type SummaryController struct{}

// recentLogs 查询用户最近统计窗口内的情绪日志
func recentLogs(uid string) ([]models.EmotionLog, error) {
	windowStart := time.Now().UTC().Add(-services.SummaryWindowSeconds * time.Second)

	var logs []models.EmotionLog
	err := config.DB.Where("user_id = ? AND timestamp >= ?", uid, windowStart).Find(&logs).Error
	return logs, err
}

// SummaryTwoMin 返回最近两分钟的情绪频次汇总
func (sc *SummaryController) SummaryTwoMin(c *gin.Context) {
	uid := c.GetString("uid")

	logs, err := recentLogs(uid)
	if err != nil {
		config.Logger.Errorw("获取情绪日志失败", "error", err, "uid", uid)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal error"})
		return
	}

	c.JSON(http.StatusOK, services.SummarizeLogs(logs))
}

// SaveDashboardSummary 将前端计算的仪表盘摘要存入会话，供PDF报告复用
func (sc *SummaryController) SaveDashboardSummary(c *gin.Context) {
	var req models.SaveSummaryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	raw, err := json.Marshal(req.Summary)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal error"})
		return
	}

	session := sessions.Default(c)
	session.Set(dashboardSummaryKey, string(raw))
	if err := session.Save(); err != nil {
		config.Logger.Errorw("保存仪表盘摘要失败", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal error"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Summary saved"})
}

// Recommendation 返回基于最近两分钟主导情绪的建议文案
func (sc *SummaryController) Recommendation(c *gin.Context) {
	uid := c.GetString("uid")

	logs, err := recentLogs(uid)
	if err != nil {
		config.Logger.Errorw("获取情绪日志失败", "error", err, "uid", uid)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal error"})
		return
	}

	c.JSON(http.StatusOK, models.RecommendationResponse{
		Recommendation: services.RecommendationMessage(logs),
	})
}
