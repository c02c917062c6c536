// Package http wires the gin engine for the settlement pipeline: the
// storefront intent endpoint and the gateway webhook endpoint.
package http

import (
	"github.com/gin-gonic/gin"

	"storepay/internal/infrastructure/ratelimit"
	"storepay/internal/interfaces/http/handlers"
	"storepay/internal/interfaces/http/middleware"
	"storepay/internal/shared/config"
	"storepay/internal/shared/logger"
)

type RouterConfig struct {
	Mode    string
	Webhook *config.WebhookConfig
}

func NewRouter(
	cfg RouterConfig,
	paymentHandler *handlers.PaymentHandler,
	limiter ratelimit.RateLimiter,
	log logger.Interface,
) *gin.Engine {
	// Mode may arrive as an environment name rather than a gin mode.
	switch cfg.Mode {
	case gin.DebugMode, gin.ReleaseMode, gin.TestMode:
		gin.SetMode(cfg.Mode)
	case "production":
		gin.SetMode(gin.ReleaseMode)
	case "":
	default:
		gin.SetMode(gin.DebugMode)
	}

	engine := gin.New()
	engine.Use(middleware.Recovery())
	engine.Use(middleware.Logger(log))

	engine.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ok"})
	})

	v1 := engine.Group("/api/v1")
	{
		payments := v1.Group("/payments")
		payments.POST("/intent", paymentHandler.CreateIntent)
		payments.POST("/paystack",
			middleware.WebhookRateLimit(limiter, cfg.Webhook, log),
			paymentHandler.HandleWebhook,
		)
	}

	return engine
}
