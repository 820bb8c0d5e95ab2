package middleware

import (
	"time"

	"EmoTrackGo/config"

	"github.com/gin-contrib/cors"
	"github.com/gin-contrib/sessions"
	"github.com/gin-contrib/sessions/cookie"
	"github.com/gin-contrib/sessions/redis"
	"github.com/gin-gonic/gin"
)

// SetupMiddleware 配置中间件
func SetupMiddleware(r *gin.Engine, conf config.Config) error {
	// CORS中间件
	r.Use(cors.New(cors.Config{
		AllowOrigins:     []string{"*"},
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept", "Authorization"},
		ExposeHeaders:    []string{"Content-Length", "Content-Disposition"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	// 日志中间件
	r.Use(RequestLogger())

	// 错误恢复中间件
	r.Use(gin.Recovery())

	// 会话中间件，配置了Redis时用Redis存储，否则退回签名Cookie
	var store sessions.Store
	if conf.RedisHost != "" {
		var err error
		store, err = redis.NewStore(10, "tcp", conf.GetRedisConnString(), conf.RedisPassword, []byte(conf.SessionSecret))
		if err != nil {
			return err
		}
	} else {
		store = cookie.NewStore([]byte(conf.SessionSecret))
	}
	store.Options(sessions.Options{
		Path:     "/",
		MaxAge:   7 * 24 * 3600,
		HttpOnly: true,
	})
	r.Use(sessions.Sessions("emotrack_session", store))

	return nil
}
