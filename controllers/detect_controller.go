package controllers

import (
	"net/http"
	"strings"
	"time"

	"EmoTrackGo/config"
	"EmoTrackGo/models"
	"EmoTrackGo/services"
	"EmoTrackGo/utils"

	"github.com/gin-contrib/sessions"
	"github.com/gin-gonic/gin"
)

type DetectController struct {
	detector services.EmotionDetector
}

func NewDetectController(detector services.EmotionDetector) *DetectController {
	return &DetectController{detector: detector}
}

// DetectEmotion 处理单帧情绪检测
// 允许匿名调用，匿名检测产生的日志不归属任何用户
func (dc *DetectController) DetectEmotion(c *gin.Context) {
	var req models.DetectEmotionRequest
	if err := c.ShouldBindJSON(&req); err != nil || req.Image == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "No image received"})
		return
	}

	frame, err := utils.DecodeDataURL(req.Image)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid image payload"})
		return
	}

	faces, err := dc.detector.DetectEmotions(c.Request.Context(), frame)
	if err != nil {
		config.Logger.Errorw("detect_emotion error", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Server error"})
		return
	}

	ts := time.Now().UTC()

	if len(faces) == 0 {
		c.JSON(http.StatusOK, models.DetectEmotionResponse{
			Timestamp: ts.Format(time.RFC3339Nano),
			Message:   "No face detected",
		})
		return
	}

	// 只取第一张人脸，概率最高的情绪即主导情绪
	dominant, confidence := services.DominantScore(faces[0].Emotions)
	dominant = strings.ToLower(dominant)

	// 尽力而为地落库，失败只记日志，不影响检测响应
	var userID *string
	if uid, ok := sessions.Default(c).Get("uid").(string); ok {
		userID = &uid
	}
	emoLog := models.EmotionLog{
		ID:         utils.GenerateID(),
		UserID:     userID,
		Emotion:    dominant,
		Confidence: &confidence,
		Timestamp:  ts,
	}
	if err := config.DB.Create(&emoLog).Error; err != nil {
		config.Logger.Errorw("情绪日志保存失败", "error", err, "emotion", dominant)
	}

	c.JSON(http.StatusOK, models.DetectEmotionResponse{
		Timestamp:  ts.Format(time.RFC3339Nano),
		Emotion:    &dominant,
		Confidence: &confidence,
	})
}
