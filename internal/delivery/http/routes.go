package http

import (
	"github.com/cyberlegal/backend/config"
	"github.com/gin-gonic/gin"
)

// SetupRouter creates and configures the Gin router
func SetupRouter(cfg *config.Config, handler *Handler) *gin.Engine {
	// Set Gin mode based on environment
	if cfg.Server.Environment == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()

	// Global middleware
	router.Use(RecoveryMiddleware())
	router.Use(LoggerMiddleware())
	router.Use(CORSMiddleware(cfg.Server.AllowedOrigins))

	// Health check endpoint
	router.GET("/health", handler.HealthCheck)

	// API v1 routes
	v1 := router.Group("/api/v1")
	v1.Use(RateLimitMiddleware(cfg.RateLimit.PerIP))
	{
		locator := v1.Group("/locator")
		{
			locator.POST("/search", handler.SearchPlaces)
			locator.POST("/geocode", handler.Geocode)
			locator.GET("/resources", handler.Resources)
			locator.GET("/sessions/:id", handler.SessionStatus)
		}

		chat := v1.Group("/chat")
		{
			chat.POST("/ask", handler.Ask)
			chat.GET("/history", handler.ListHistory)
			chat.DELETE("/history", handler.ClearHistory)
			chat.GET("/history/:id", handler.GetConversation)
			chat.DELETE("/history/:id", handler.DeleteConversation)
		}

		v1.POST("/voice", handler.ProcessVoice)
	}

	return router
}
