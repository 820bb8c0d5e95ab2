package controllers

import (
	"net/http"
	"time"

	"EmoTrackGo/config"
	"EmoTrackGo/models"

	"github.com/gin-contrib/sessions"
	"github.com/gin-gonic/gin"
)

type PageController struct{}

// currentWeekStart 返回所在周的周一（UTC日期）
func currentWeekStart(now time.Time) time.Time {
	now = now.UTC()
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
	offset := (int(today.Weekday()) + 6) % 7
	return today.AddDate(0, 0, -offset)
}

// Index 首页，已登录用户直接进入仪表盘
func (pc *PageController) Index(c *gin.Context) {
	if sessions.Default(c).Get("uid") != nil {
		c.Redirect(http.StatusFound, "/dashboard")
		return
	}
	c.HTML(http.StatusOK, "index.html", gin.H{})
}

// Dashboard 仪表盘页，展示本周目标与摄像头采集界面
func (pc *PageController) Dashboard(c *gin.Context) {
	uid := c.GetString("uid")

	var user models.User
	if err := config.DB.Where("id = ?", uid).First(&user).Error; err != nil {
		config.Logger.Errorw("获取用户信息失败", "error", err, "uid", uid)
		c.Redirect(http.StatusFound, "/login")
		return
	}

	weekStart := currentWeekStart(time.Now())
	weekEnd := weekStart.AddDate(0, 0, 6)

	var goal *models.WeeklyGoal
	var weekGoal models.WeeklyGoal
	if err := config.DB.Where("user_id = ? AND week_start = ?", uid, weekStart).
		First(&weekGoal).Error; err == nil {
		goal = &weekGoal
	}

	c.HTML(http.StatusOK, "dashboard.html", gin.H{
		"username":  user.GetDisplayName(),
		"weekStart": weekStart.Format("2006-01-02"),
		"weekEnd":   weekEnd.Format("2006-01-02"),
		"goal":      goal,
		"flashes":   popFlashes(c),
	})
}

// LogoutPopup 登出确认页
func (pc *PageController) LogoutPopup(c *gin.Context) {
	c.HTML(http.StatusOK, "logout_popup.html", gin.H{})
}
