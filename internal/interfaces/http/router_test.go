package http

import (
	"bytes"
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"

	"storepay/internal/infrastructure/ratelimit"
	"storepay/internal/interfaces/http/handlers"
	"storepay/internal/shared/config"
	"storepay/internal/shared/logger"
)

type fixedLimiter struct {
	allow bool
}

func (l fixedLimiter) Allow(ctx context.Context, key string, limits ratelimit.Limits) (bool, error) {
	return l.allow, nil
}

func (l fixedLimiter) Reset(ctx context.Context, key string) error {
	return nil
}

func newTestRouter(limiter ratelimit.RateLimiter) *gin.Engine {
	log := logger.NewLogger()
	// Handler wiring is exercised in the handlers package; these tests only
	// cover routing and middleware, which never reach the use cases.
	handler := handlers.NewPaymentHandler(nil, nil, log)

	return NewRouter(RouterConfig{
		Mode:    gin.TestMode,
		Webhook: &config.WebhookConfig{RateLimitPerMinute: 1, RateLimitPerHour: 10},
	}, handler, limiter, log)
}

func TestRouterHealthEndpoint(t *testing.T) {
	engine := newTestRouter(fixedLimiter{allow: true})

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	w := httptest.NewRecorder()
	engine.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
}

func TestRouterWebhookRateLimited(t *testing.T) {
	engine := newTestRouter(fixedLimiter{allow: false})

	req := httptest.NewRequest(http.MethodPost, "/api/v1/payments/paystack",
		bytes.NewReader([]byte(`{"event": "charge.success"}`)))
	w := httptest.NewRecorder()
	engine.ServeHTTP(w, req)

	assert.Equal(t, http.StatusTooManyRequests, w.Code)
}
