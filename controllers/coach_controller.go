package controllers

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"sync"
	"time"

	"EmoTrackGo/config"
	"EmoTrackGo/models"
	"EmoTrackGo/services"

	"github.com/gin-gonic/gin"
)

type CoachController struct {
	coachService *services.CoachService
	wg           sync.WaitGroup
}

func NewCoachController(coachService *services.CoachService) *CoachController {
	return &CoachController{coachService: coachService}
}

// SendMessage 与AI教练对话，SSE流式返回
func (cc *CoachController) SendMessage(ctx *gin.Context) {
	if !cc.coachService.Enabled() {
		ctx.JSON(http.StatusServiceUnavailable, gin.H{"error": "AI coach is not configured"})
		return
	}

	uid := ctx.GetString("uid")

	var req models.CoachRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request: " + err.Error()})
		return
	}

	// 从 Redis 中获取对话历史总结
	sessionID := fmt.Sprintf("coach:%s", uid)
	historySummary := ""
	if config.RedisClient != nil {
		if v, err := config.RedisClient.Get(ctx, sessionID).Result(); err == nil {
			historySummary = v
		}
	}

	// 设置流式响应头
	ctx.Header("Content-Type", "text/event-stream")
	ctx.Header("Cache-Control", "no-cache")
	ctx.Header("Connection", "keep-alive")
	ctx.Header("X-Accel-Buffering", "no") // 禁用 Nginx 缓冲

	stream, err := cc.coachService.GenerateReply(ctx, req.Message, historySummary)
	if err != nil {
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to generate reply"})
		return
	}

	var fullResponse strings.Builder
	for chunk := range stream {
		fullResponse.WriteString(chunk)
		ctx.SSEvent("message", chunk)
		ctx.Writer.Flush()
	}
	ctx.SSEvent("done", "")
	ctx.Writer.Flush()

	// 后台更新对话摘要，优雅关闭时统一等待
	if config.RedisClient != nil {
		cc.wg.Add(1)
		go func() {
			defer cc.wg.Done()

			summaryCtx, cancel := context.WithTimeout(context.Background(), 60*time.Second)
			defer cancel()

			summary, err := cc.coachService.GenerateSummary(summaryCtx, fullResponse.String(), historySummary)
			if err != nil {
				config.Logger.Errorw("生成对话摘要失败", "error", err, "uid", uid)
				return
			}
			if err := config.RedisClient.Set(summaryCtx, sessionID, summary, 7*24*time.Hour).Err(); err != nil {
				config.Logger.Errorw("保存对话摘要失败", "error", err, "uid", uid)
			}
		}()
	}
}

// Wait 等待所有后台摘要任务完成
func (cc *CoachController) Wait() {
	cc.wg.Wait()
	cc.coachService.Wait()
}
