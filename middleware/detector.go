package middleware

import (
	"net/http"
	"strings"

	"EmoTrackGo/config"
	"EmoTrackGo/services"

	"github.com/gin-gonic/gin"
)

// DetectorWarmup 在处理检测请求前确保识别器单例已构造
// 对应识别模型的进程级懒加载：首个检测请求触发构造，之后只读共享
func DetectorWarmup(conf config.Config) gin.HandlerFunc {
	return func(c *gin.Context) {
		if strings.HasPrefix(c.Request.URL.Path, "/api/detect_emotion") {
			if _, err := services.LoadDetectorOnce(conf); err != nil {
				config.Logger.Errorw("表情识别客户端初始化失败", "error", err)
				c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "Server error"})
				return
			}
		}
		c.Next()
	}
}
