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

type ReportController struct{}

// ReportPDF 生成并下载情绪报告PDF
// 摘要表/饼图来自会话中保存的仪表盘快照，时间线来自最新查询，两者窗口可能不同
func (rc *ReportController) ReportPDF(c *gin.Context) {
	uid := c.GetString("uid")

	windowStart := time.Now().UTC().Add(-services.SummaryWindowSeconds * time.Second)
	var logs []models.EmotionLog
	if err := config.DB.Where("user_id = ? AND timestamp >= ?", uid, windowStart).
		Order("timestamp desc").Find(&logs).Error; err != nil {
		config.Logger.Errorw("获取情绪日志失败", "error", err, "uid", uid)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Report error", "details": err.Error()})
		return
	}

	if len(logs) == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "No logs available to generate report."})
		return
	}

	var user models.User
	if err := config.DB.Where("id = ?", uid).First(&user).Error; err != nil {
		config.Logger.Errorw("获取用户信息失败", "error", err, "uid", uid)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Report error", "details": err.Error()})
		return
	}

	// 最近一个周目标，允许为空
	var goal *models.WeeklyGoal
	var latestGoal models.WeeklyGoal
	if err := config.DB.Where("user_id = ?", uid).
		Order("week_start desc").First(&latestGoal).Error; err == nil {
		goal = &latestGoal
	}

	// 会话中的仪表盘摘要快照
	var summary []models.SummaryItem
	if raw, ok := sessions.Default(c).Get(dashboardSummaryKey).(string); ok && raw != "" {
		if err := json.Unmarshal([]byte(raw), &summary); err != nil {
			config.Logger.Errorw("仪表盘摘要解析失败", "error", err, "uid", uid)
			summary = nil
		}
	}

	pdfBytes, err := services.GenerateEmotionReportPDF(services.ReportInput{
		User:           &user,
		Logs:           logs,
		Goal:           goal,
		Recommendation: services.BuildRecommendation(logs, goal),
		Summary:        summary,
	})
	if err != nil {
		config.Logger.Errorw("PDF生成失败", "error", err, "uid", uid)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Report error", "details": err.Error()})
		return
	}

	c.Header("Content-Disposition", `attachment; filename="emotion_report.pdf"`)
	c.Data(http.StatusOK, "application/pdf", pdfBytes)
}
