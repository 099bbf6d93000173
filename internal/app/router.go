package app

import (
	"lingua_backend/docs"
	"lingua_backend/internal/config"
	"lingua_backend/internal/middleware"
	"lingua_backend/internal/model"
	"lingua_backend/pkg/monitoring"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

func (a *App) registerRoutes(router *gin.Engine, c *controllers, cfg *config.Config) {
	docs.SwaggerInfo.BasePath = "/api"
	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler, ginSwagger.URL("/swagger/doc.json")))

	router.GET("/metrics", monitoring.PrometheusHandler())

	// 1. 公共路由(无需登录)
	registerPublicRoutes(router, c)

	// 2. 需要授权的路由
	authGroup := router.Group("/api")
	authGroup.Use(middleware.AuthMiddleware(&cfg.JWT))
	{
		registerLearnerRoutes(authGroup, c)

		// 3. 管理员内容维护
		registerAdminRoutes(authGroup, c)
	}
}

func registerPublicRoutes(router *gin.Engine, c *controllers) {
	public := router.Group("/api")
	{
		public.GET("/health", c.health.HealthCheck)
		public.POST("/register", c.auth.Register)
		public.POST("/login", c.auth.Login)
	}
}

func registerLearnerRoutes(rg *gin.RouterGroup, c *controllers) {
	rg.GET("/profile", c.auth.GetProfile)

	// 课程选择
	rg.GET("/courses", c.course.ListCourses)
	rg.POST("/user-progress", c.course.SelectCourse)

	// 学习页面
	rg.GET("/learn", c.learn.GetLearn)
	rg.GET("/lessons/active", c.learn.GetActiveLesson)
	rg.GET("/lessons/:id", c.learn.GetLesson)
	rg.GET("/shop", c.learn.GetShop)
	rg.GET("/quests", c.learn.GetQuests)
	rg.GET("/leaderboard", c.learn.GetLeaderboard)

	// 进度变更
	rg.POST("/challenge-progress", c.progress.CompleteChallenge)
	rg.POST("/hearts/reduce", c.progress.ReduceHearts)
	rg.POST("/hearts/refill", c.progress.RefillHearts)

	// 订阅
	rg.GET("/subscription", c.subscription.GetSubscription)
	rg.POST("/subscription/checkout", c.subscription.CreateCheckout)

	// 视图失效推送
	rg.GET("/views/ws", c.view.Connect)
}

func registerAdminRoutes(rg *gin.RouterGroup, c *controllers) {
	admin := rg.Group("/admin")
	admin.Use(middleware.RoleMiddleware(model.Admin))
	{
		admin.POST("/courses", c.admin.CreateCourse)
		admin.POST("/courses/:id/image", c.admin.UploadCourseImage)
		admin.POST("/units", c.admin.CreateUnit)
		admin.POST("/lessons", c.admin.CreateLesson)
		admin.POST("/challenges", c.admin.CreateChallenge)
	}
}
