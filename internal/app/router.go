package app

import (
	"course_progress/docs"
	"course_progress/internal/config"
	"course_progress/internal/middleware"
	"course_progress/pkg/monitoring"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

func (a *App) registerRoutes(router *gin.Engine, c *controllers, cfg *config.Config) {
	docs.SwaggerInfo.BasePath = "/api"
	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler, ginSwagger.URL("/swagger/doc.json")))

	router.GET("/metrics", monitoring.PrometheusHandler())

	// 1. 公共路由(无需登录)
	public := router.Group("/api")
	{
		public.GET("/health", c.health.HealthCheck)
	}

	// 2. 需要授权的路由
	authGroup := router.Group("/api")
	authGroup.Use(middleware.AuthMiddleware(cfg))
	{
		registerProgressRoutes(authGroup, c)
	}
}

func registerProgressRoutes(group *gin.RouterGroup, c *controllers) {
	course := group.Group("/courses/:courseId")
	{
		course.GET("/progress", c.progress.GetProgress)
		course.POST("/progress/structure", c.progress.LoadStructure)
		course.POST("/progress/refresh", c.progress.Refresh)
		course.GET("/progress/current", c.progress.GetCurrentSection)
		course.PUT("/progress/current", c.progress.SetCurrentSection)

		course.POST("/sections/:sectionId/complete", c.progress.CompleteSection)
		course.GET("/sections/:sectionId/next", c.progress.NextSection)
		course.GET("/sections/:sectionId/prev", c.progress.PrevSection)

		course.POST("/modules/:moduleId/unlock", c.progress.UnlockModule)
		course.GET("/modules/:moduleId/sections", c.progress.ModuleSections)

		course.POST("/vouchers", c.voucher.Upload)
		course.GET("/vouchers/:file", c.voucher.Download)
	}
}
