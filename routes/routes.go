package routes

import (
	"EmoTrackGo/config"
	"EmoTrackGo/controllers"
	"EmoTrackGo/middleware"
	"EmoTrackGo/services"

	"github.com/gin-gonic/gin"
)

func RegisterRoutes(r *gin.Engine, conf config.Config, coachClient *services.CoachClient) *controllers.CoachController {
	authController := controllers.AuthController{}
	pageController := controllers.PageController{}
	summaryController := controllers.SummaryController{}
	goalController := controllers.GoalController{}
	reportController := controllers.ReportController{}
	userController := controllers.UserController{}
	detectController := controllers.NewDetectController(services.NewLazyDetector(conf))
	coachService := services.NewCoachService(coachClient)
	coachController := controllers.NewCoachController(coachService)

	// 页面路由（无需认证）
	r.GET("/", pageController.Index)
	r.GET("/register", authController.ShowRegister)
	r.POST("/register", authController.Register)
	r.GET("/login", authController.ShowLogin)
	r.POST("/login", authController.Login)
	r.GET("/logout_popup", pageController.LogoutPopup)

	// 页面路由（需要登录，未登录重定向）
	pages := r.Group("/")
	pages.Use(middleware.LoginRequired())
	{
		pages.GET("/dashboard", pageController.Dashboard)
		pages.GET("/logout", authController.Logout)
		pages.GET("/report/pdf", reportController.ReportPDF)
	}

	// 检测接口允许匿名调用，匿名日志不归属用户
	r.POST("/api/detect_emotion", detectController.DetectEmotion)

	// 需要认证的API
	private := r.Group("/api")
	private.Use(middleware.AuthRequired())
	{
		private.GET("/summary_2min", summaryController.SummaryTwoMin)
		private.POST("/save_dashboard_summary", summaryController.SaveDashboardSummary)
		private.GET("/recommendation", summaryController.Recommendation)
		private.POST("/weekly_goal", goalController.SetWeeklyGoal)
		private.GET("/user", userController.GetUser)
		private.POST("/coach", coachController.SendMessage)
	}

	// 测试路由
	r.GET("/ping", func(c *gin.Context) {
		c.JSON(200, gin.H{"message": "pong"})
	})

	return coachController
}
