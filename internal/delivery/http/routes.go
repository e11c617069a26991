package http

import (
	"github.com/gin-gonic/gin"
	"github.com/goldleaf/backend/config"
	"github.com/goldleaf/backend/internal/infrastructure/metrics"
)

// SetupRouter creates and configures the Gin router
func SetupRouter(cfg *config.Config, handler *Handler, reg *metrics.Registry) *gin.Engine {
	// Set Gin mode based on environment
	if cfg.Server.Environment == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()

	// Global middleware
	router.Use(RecoveryMiddleware())
	router.Use(RequestIDMiddleware())
	router.Use(LoggerMiddleware())
	router.Use(CORSMiddleware(cfg.Server.AllowedOrigins))
	if reg != nil {
		router.Use(MetricsMiddleware(reg))
	}

	// Operational endpoints
	router.GET("/health", handler.HealthCheck)
	if reg != nil {
		router.GET("/metrics", gin.WrapH(reg.Handler()))
	}

	// Catalog API
	api := router.Group("/api")
	{
		api.GET("/products", handler.ListProducts)
		api.GET("/products/:id", handler.GetProduct)
	}

	return router
}
