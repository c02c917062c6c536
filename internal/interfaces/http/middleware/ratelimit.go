package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"storepay/internal/infrastructure/ratelimit"
	"storepay/internal/shared/config"
	"storepay/internal/shared/logger"
	"storepay/internal/shared/utils"
)

// WebhookRateLimit throttles webhook deliveries per client IP. Limiter
// failures fail open so a Redis outage cannot stall settlements.
func WebhookRateLimit(limiter ratelimit.RateLimiter, cfg *config.WebhookConfig, log logger.Interface) gin.HandlerFunc {
	limits := ratelimit.Limits{
		PerMinute: cfg.RateLimitPerMinute,
		PerHour:   cfg.RateLimitPerHour,
	}

	return func(c *gin.Context) {
		if limiter == nil {
			c.Next()
			return
		}

		allowed, err := limiter.Allow(c.Request.Context(), "webhook:"+c.ClientIP(), limits)
		if err != nil {
			log.Warnw("rate limiter unavailable, allowing request",
				"client_ip", c.ClientIP(),
				"error", err,
			)
			c.Next()
			return
		}

		if !allowed {
			log.Warnw("webhook delivery rate limited",
				"client_ip", c.ClientIP(),
			)
			utils.ErrorResponse(c, http.StatusTooManyRequests, "too many requests")
			c.Abort()
			return
		}

		c.Next()
	}
}
