package app

import (
	"github.com/walberluis/e-learning-platform-lua-walber/docs"
	"github.com/walberluis/e-learning-platform-lua-walber/internal/config"
	"github.com/walberluis/e-learning-platform-lua-walber/internal/middleware"
	"github.com/walberluis/e-learning-platform-lua-walber/pkg/monitoring"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

func (a *App) registerRoutes(router *gin.Engine, c *controllers, repos *repositories, cfg *config.Config) {
	docs.SwaggerInfo.BasePath = "/api"
	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler, ginSwagger.URL("/swagger/doc.json")))

	router.GET("/metrics", monitoring.PrometheusHandler())

	public := router.Group("/api")
	{
		public.GET("/health", c.health.HealthCheck)
		public.POST("/register", c.auth.Register)
		public.POST("/login", c.auth.Login)
	}

	authGroup := router.Group("/api")
	authGroup.Use(middleware.AuthMiddleware(cfg), middleware.ActivityMiddleware(repos.user))
	{
		users := authGroup.Group("/users")
		{
			users.GET("/profile", c.user.GetProfile)
			users.PUT("/profile", c.user.UpdateProfile)
			users.DELETE("/profile", c.user.Delete)
			users.GET("/search", c.user.Search)
			users.GET("/analytics", c.user.GetAnalytics)
			users.GET("/learning-path", c.user.GetLearningPath)
		}

		trilhas := authGroup.Group("/trilhas")
		{
			trilhas.POST("", c.trilha.Create)
			trilhas.GET("", c.trilha.List)
			trilhas.GET("/search", c.trilha.Search)
			trilhas.GET("/popular", c.trilha.Popular)
			trilhas.POST("/progress", c.trilha.UpdateProgress)
			trilhas.GET("/:id", c.trilha.Get)
			trilhas.PUT("/:id", c.trilha.Update)
			trilhas.DELETE("/:id", c.trilha.Delete)
			trilhas.POST("/:id/enroll", c.trilha.Enroll)
			trilhas.POST("/:id/conteudos", c.trilha.AddConteudo)
			trilhas.GET("/:id/content", c.trilha.GetContent)
			trilhas.GET("/:id/progress", c.trilha.GetProgress)
			trilhas.GET("/:id/statistics", c.trilha.GetStatistics)
			trilhas.GET("/:id/completion-stats", c.trilha.GetCompletionStats)
		}

		recommendations := authGroup.Group("/recommendations")
		{
			recommendations.GET("", c.recommendation.Generate)
			recommendations.POST("/analyze", c.recommendation.Analyze)
			recommendations.GET("/popular-trilhas", c.recommendation.PopularTrilhas)
			recommendations.GET("/top-performers", c.recommendation.TopPerformers)
		}

		chatbot := authGroup.Group("/chatbot")
		{
			chatbot.POST("/chat", c.chatbot.Chat)
			chatbot.GET("/history", c.chatbot.History)
			chatbot.DELETE("/history", c.chatbot.ClearHistory)
			chatbot.POST("/quick-help", c.chatbot.QuickHelp)
			chatbot.GET("/intents", c.chatbot.SupportedIntents)
		}

		authGroup.POST("/content/upload", c.content.Upload)
	}
}
