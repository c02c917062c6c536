package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"storepay/internal/application/payment/gateway"
	paymentUsecases "storepay/internal/application/payment/usecases"
	"storepay/internal/domain/channel"
	"storepay/internal/domain/order"
	vo "storepay/internal/domain/order/valueobjects"
	apperrors "storepay/internal/shared/errors"
	"storepay/internal/shared/keylock"
	"storepay/internal/shared/logger"
)

type stubChannelRepo struct {
	ch *channel.Channel
}

func (s stubChannelRepo) GetByToken(ctx context.Context, token string) (*channel.Channel, error) {
	if s.ch != nil && token == s.ch.Token() {
		return s.ch, nil
	}
	return nil, apperrors.NewNotFoundError("channel not found")
}

func (s stubChannelRepo) GetByID(ctx context.Context, id uint) (*channel.Channel, error) {
	if s.ch != nil && id == s.ch.ID() {
		return s.ch, nil
	}
	return nil, apperrors.NewNotFoundError("channel not found")
}

type stubMethodRepo struct {
	m *channel.PaymentMethod
}

func (s stubMethodRepo) GetByChannelAndHandler(ctx context.Context, channelID uint, handlerCode string) (*channel.PaymentMethod, error) {
	if s.m != nil {
		return s.m, nil
	}
	return nil, apperrors.NewNotFoundError("payment method not found")
}

type stubOrderRepo struct {
	orders map[string]*order.Order
}

func (s stubOrderRepo) Create(ctx context.Context, o *order.Order) error {
	s.orders[o.Code()] = o
	return nil
}

func (s stubOrderRepo) FindByCode(ctx context.Context, code string) (*order.Order, error) {
	return s.FindByCodeForUpdate(ctx, code)
}

func (s stubOrderRepo) FindByCodeForUpdate(ctx context.Context, code string) (*order.Order, error) {
	if o, ok := s.orders[code]; ok {
		return o, nil
	}
	return nil, apperrors.NewNotFoundError("order not found")
}

func (s stubOrderRepo) FindActiveBySession(ctx context.Context, sessionToken string) (*order.Order, error) {
	for _, o := range s.orders {
		if o.SessionToken() == sessionToken && !o.State().IsFinal() {
			return o, nil
		}
	}
	return nil, apperrors.NewNotFoundError("no active order for session")
}

func (s stubOrderRepo) SaveState(ctx context.Context, o *order.Order) error {
	return nil
}

func (s stubOrderRepo) AddSettlementRecord(ctx context.Context, o *order.Order, rec order.SettlementRecord) error {
	return nil
}

type directTxRunner struct{}

func (directTxRunner) RunInTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}

type testEnv struct {
	engine    *gin.Engine
	orderRepo stubOrderRepo
	gw        *gateway.MockGateway
}

func setupEnv(t *testing.T) *testEnv {
	t.Helper()
	gin.SetMode(gin.TestMode)

	log := logger.NewLogger()
	ch := channel.ReconstructChannel(1, "web-token", "web", "NGN", time.Now().UTC())
	method := channel.ReconstructPaymentMethod(1, 1, "paystack-ng", paymentUsecases.PaystackHandlerCode,
		map[string]string{
			"apiKey":      "sk_test_abc",
			"redirectUrl": "https://shop.example.com/confirm",
		}, true)

	channelRepo := stubChannelRepo{ch: ch}
	methodRepo := stubMethodRepo{m: method}
	orderRepo := stubOrderRepo{orders: make(map[string]*order.Order)}
	gw := gateway.NewMockGateway()
	factory := func(apiKey string) gateway.PaymentGateway { return gw }

	resolve := paymentUsecases.NewResolveMethodUseCase(methodRepo, log)
	createIntent := paymentUsecases.NewCreateIntentUseCase(orderRepo, channelRepo, resolve, factory, log)
	settle := paymentUsecases.NewSettlePaymentUseCase(channelRepo, resolve, factory, orderRepo,
		directTxRunner{}, keylock.New(), nil, log)
	ingest := paymentUsecases.NewIngestWebhookUseCase(settle, log)

	handler := NewPaymentHandler(createIntent, ingest, log)

	engine := gin.New()
	engine.POST("/api/v1/payments/intent", handler.CreateIntent)
	engine.POST("/api/v1/payments/paystack", handler.HandleWebhook)

	return &testEnv{engine: engine, orderRepo: orderRepo, gw: gw}
}

func (e *testEnv) seedOrder(t *testing.T, code string) *order.Order {
	t.Helper()
	o, err := order.NewOrder(code, "session-1", vo.NewMoney(5000, "NGN"))
	require.NoError(t, err)
	o.SetID(1)
	o.SetCustomer(&order.Customer{ID: 1, Email: "ada@example.com", FirstName: "Ada", LastName: "Obi"})
	o.SetShippingMethod("standard")
	o.SetLineCount(2)
	e.orderRepo.orders[code] = o
	return o
}

func webhookBody(t *testing.T, event, reference string) []byte {
	t.Helper()
	body, err := json.Marshal(map[string]interface{}{
		"event": event,
		"data": map[string]interface{}{
			"id":        1234567890,
			"reference": reference,
			"status":    "success",
			"amount":    5000,
			"currency":  "NGN",
			"channel":   "card",
			"metadata": map[string]string{
				"orderCode":    reference,
				"channelToken": "web-token",
			},
		},
	})
	require.NoError(t, err)
	return body
}

func TestCreateIntentEndpoint(t *testing.T) {
	env := setupEnv(t)
	env.seedOrder(t, "ORD-1001")

	body := []byte(`{"channel_token": "web-token"}`)
	req := httptest.NewRequest(http.MethodPost, "/api/v1/payments/intent", bytes.NewReader(body))
	req.Header.Set(HeaderSessionToken, "session-1")
	req.Header.Set("Content-Type", "application/json")

	w := httptest.NewRecorder()
	env.engine.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)

	var resp struct {
		Success bool                 `json:"success"`
		Data    CreateIntentResponse `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.True(t, resp.Success)
	assert.Equal(t, "ORD-1001", resp.Data.Reference)
	assert.NotEmpty(t, resp.Data.RedirectURL)
}

func TestCreateIntentEndpoint_MissingSession(t *testing.T) {
	env := setupEnv(t)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/payments/intent",
		bytes.NewReader([]byte(`{"channel_token": "web-token"}`)))
	req.Header.Set("Content-Type", "application/json")

	w := httptest.NewRecorder()
	env.engine.ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestCreateIntentEndpoint_PreconditionFailure(t *testing.T) {
	env := setupEnv(t)
	o := env.seedOrder(t, "ORD-1002")
	o.SetLineCount(0)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/payments/intent",
		bytes.NewReader([]byte(`{"channel_token": "web-token"}`)))
	req.Header.Set(HeaderSessionToken, "session-1")
	req.Header.Set("Content-Type", "application/json")

	w := httptest.NewRecorder()
	env.engine.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, 0, env.gw.InitializeCalls)
}

func TestWebhookEndpoint_ChargeSuccess(t *testing.T) {
	env := setupEnv(t)
	o := env.seedOrder(t, "ORD-2001")
	require.NoError(t, o.TransitionTo(vo.StateArrangingPayment))

	paidAt := time.Date(2026, 3, 14, 9, 30, 0, 0, time.UTC)
	env.gw.SeedVerification("ORD-2001", &gateway.VerifiedTransaction{
		Status:        gateway.StatusSuccess,
		RawStatus:     "success",
		Amount:        5000,
		Currency:      "NGN",
		Reference:     "ORD-2001",
		TransactionID: "1234567890",
		Channel:       "card",
		PaidAt:        &paidAt,
	})

	req := httptest.NewRequest(http.MethodPost, "/api/v1/payments/paystack",
		bytes.NewReader(webhookBody(t, "charge.success", "ORD-2001")))

	w := httptest.NewRecorder()
	env.engine.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, vo.StatePaymentSettled, o.State())
}

func TestWebhookEndpoint_IgnoredEvent(t *testing.T) {
	env := setupEnv(t)
	o := env.seedOrder(t, "ORD-2002")

	req := httptest.NewRequest(http.MethodPost, "/api/v1/payments/paystack",
		bytes.NewReader(webhookBody(t, "charge.failed", "ORD-2002")))

	w := httptest.NewRecorder()
	env.engine.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, vo.StateAddingItems, o.State())
	assert.Equal(t, 0, env.gw.VerifyCalls)
}

func TestWebhookEndpoint_InvalidBody(t *testing.T) {
	env := setupEnv(t)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/payments/paystack",
		bytes.NewReader([]byte("{not json")))

	w := httptest.NewRecorder()
	env.engine.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestWebhookEndpoint_UnknownOrderIsRetried(t *testing.T) {
	env := setupEnv(t)

	env.gw.SeedVerification("ORD-2003", &gateway.VerifiedTransaction{
		Status:        gateway.StatusSuccess,
		RawStatus:     "success",
		Amount:        5000,
		Currency:      "NGN",
		Reference:     "ORD-2003",
		TransactionID: "1234567890",
	})

	req := httptest.NewRequest(http.MethodPost, "/api/v1/payments/paystack",
		bytes.NewReader(webhookBody(t, "charge.success", "ORD-2003")))

	w := httptest.NewRecorder()
	env.engine.ServeHTTP(w, req)

	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
}

func TestWebhookEndpoint_MalformedNotification(t *testing.T) {
	env := setupEnv(t)

	body, err := json.Marshal(map[string]interface{}{
		"event": "charge.success",
		"data": map[string]interface{}{
			"reference": "ORD-2004",
			"metadata":  map[string]string{},
		},
	})
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/payments/paystack", bytes.NewReader(body))

	w := httptest.NewRecorder()
	env.engine.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}
