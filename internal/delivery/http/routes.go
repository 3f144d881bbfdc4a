package http

import (
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/productscraper/backend/config"
	"github.com/productscraper/backend/internal/domain"
)

// SetupRouter creates and configures the Gin router
func SetupRouter(cfg *config.Config, handler *Handler, limiter domain.RateLimitStore) *gin.Engine {
	// Set Gin mode based on environment
	if cfg.Server.Environment == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()

	// ClientIP falls back to the socket peer unless the hop is a configured proxy
	if err := router.SetTrustedProxies(cfg.Server.TrustedProxies); err != nil {
		handler.logger.Error("invalid trusted proxies, trusting none", zap.Error(err))
		_ = router.SetTrustedProxies(nil)
	}

	// Global middleware
	router.Use(RecoveryMiddleware(handler.logger, cfg.IsDevelopment()))
	router.Use(RequestIDMiddleware())
	router.Use(LoggerMiddleware(handler.logger))
	router.Use(MetricsMiddleware(handler.metrics))
	router.Use(SecurityHeadersMiddleware())
	router.Use(BodyLimitMiddleware(maxBodyBytes))
	router.Use(CORSMiddleware(cfg.Server.AllowedOrigins))

	// Status and health endpoints
	router.GET("/", handler.Status)
	router.GET("/health", handler.HealthCheck)
	router.GET("/metrics", gin.WrapH(handler.metrics.Handler()))

	api := router.Group("/api")
	if limiter != nil {
		api.Use(RateLimitMiddleware(limiter, handler.metrics, handler.logger))
	}
	{
		api.GET("/sites", handler.ListSites)
		api.POST("/detect-site", handler.DetectSite)
		api.POST("/scrape", handler.Scrape)
		api.POST("/scrape-batch", handler.ScrapeBatch)
	}

	router.NoRoute(handler.NotFound)

	return router
}
