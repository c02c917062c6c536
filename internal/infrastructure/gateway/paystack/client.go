// Package paystack is the HTTP client for the Paystack transaction API. It
// implements the gateway port used by the intent and settlement paths.
package paystack

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"storepay/internal/application/payment/gateway"
	"storepay/internal/shared/biztime"
	"storepay/internal/shared/config"
	apperrors "storepay/internal/shared/errors"
	"storepay/internal/shared/logger"
)

const (
	defaultBaseURL = "https://api.paystack.co"
	requestTimeout = 10 * time.Second
	// Maximum response body size (256KB); verify payloads carry the full
	// transaction log and can get large.
	maxResponseSize = 256 << 10
)

// Client talks to the Paystack transaction API with a channel's secret key.
type Client struct {
	baseURL    string
	apiKey     string
	httpClient *http.Client
	logger     logger.Interface
}

func NewClient(baseURL, apiKey string, timeout time.Duration, logger logger.Interface) *Client {
	if baseURL == "" {
		baseURL = defaultBaseURL
	}
	if timeout <= 0 {
		timeout = requestTimeout
	}
	return &Client{
		baseURL: baseURL,
		apiKey:  apiKey,
		httpClient: &http.Client{
			Timeout: timeout,
		},
		logger: logger,
	}
}

// Ensure Client implements PaymentGateway
var _ gateway.PaymentGateway = (*Client)(nil)

// NewFactory returns a gateway factory bound to the process-level gateway
// settings. The API key varies per channel and is supplied per call.
func NewFactory(cfg *config.GatewayConfig, logger logger.Interface) gateway.Factory {
	timeout := time.Duration(cfg.TimeoutSeconds) * time.Second
	return func(apiKey string) gateway.PaymentGateway {
		return NewClient(cfg.BaseURL, apiKey, timeout, logger)
	}
}

// InitializeTransaction opens a transaction and returns the hosted checkout
// URL the shopper is redirected to.
func (c *Client) InitializeTransaction(ctx context.Context, req gateway.InitializeRequest) (*gateway.InitializeResult, error) {
	if req.Email == "" {
		return nil, apperrors.NewValidationError("payer email is required")
	}
	if req.Amount <= 0 {
		return nil, apperrors.NewValidationError("transaction amount must be positive")
	}

	payload := initializePayload{
		Email:       req.Email,
		Amount:      req.Amount,
		Currency:    req.Currency,
		Reference:   req.Reference,
		CallbackURL: req.CallbackURL,
		Metadata:    req.Metadata,
	}

	env, err := c.post(ctx, "/transaction/initialize", payload)
	if err != nil {
		return nil, err
	}

	var data initializeData
	if err := json.Unmarshal(env.Data, &data); err != nil {
		return nil, apperrors.NewGatewayRejectedError(fmt.Sprintf("failed to decode initialize response: %v", err))
	}

	c.logger.Infow("gateway transaction initialized",
		"reference", data.Reference,
	)

	return &gateway.InitializeResult{
		AuthorizationURL: data.AuthorizationURL,
		AccessCode:       data.AccessCode,
		Reference:        data.Reference,
	}, nil
}

// VerifyTransaction fetches the authoritative state of a transaction.
func (c *Client) VerifyTransaction(ctx context.Context, reference string) (*gateway.VerifiedTransaction, error) {
	env, err := c.get(ctx, "/transaction/verify/"+url.PathEscape(reference), reference)
	if err != nil {
		return nil, err
	}

	var data verifyData
	if err := json.Unmarshal(env.Data, &data); err != nil {
		return nil, apperrors.NewGatewayRejectedError(fmt.Sprintf("failed to decode verify response: %v", err))
	}

	tx := &gateway.VerifiedTransaction{
		Status:        gateway.ParseTransactionStatus(data.Status),
		RawStatus:     data.Status,
		Amount:        data.Amount,
		Currency:      data.Currency,
		Reference:     data.Reference,
		TransactionID: fmt.Sprintf("%d", data.ID),
		Channel:       data.Channel,
		Metadata:      decodeMetadata(data.Metadata),
	}

	if data.PaidAt != "" {
		if paidAt, err := biztime.ParseGatewayTime(data.PaidAt); err == nil {
			tx.PaidAt = &paidAt
		} else {
			c.logger.Warnw("unparseable paid_at on verified transaction",
				"reference", reference,
				"paid_at", data.PaidAt,
			)
		}
	}

	return tx, nil
}

func (c *Client) post(ctx context.Context, path string, payload interface{}) (*envelope, error) {
	body, err := json.Marshal(payload)
	if err != nil {
		return nil, apperrors.NewInternalError("failed to encode gateway request", err.Error())
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(body))
	if err != nil {
		return nil, apperrors.NewInternalError("failed to create gateway request", err.Error())
	}
	req.Header.Set("Content-Type", "application/json")

	return c.do(req, "")
}

func (c *Client) get(ctx context.Context, path, reference string) (*envelope, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path, nil)
	if err != nil {
		return nil, apperrors.NewInternalError("failed to create gateway request", err.Error())
	}

	return c.do(req, reference)
}

// do executes the request and unwraps the Paystack envelope. reference is
// non-empty on verify calls so a 404 can be reported precisely.
func (c *Client) do(req *http.Request, reference string) (*envelope, error) {
	req.Header.Set("Authorization", "Bearer "+c.apiKey)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, apperrors.NewGatewayUnavailableError(err.Error())
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseSize))
	if err != nil {
		return nil, apperrors.NewGatewayUnavailableError(fmt.Sprintf("failed to read response: %v", err))
	}

	if resp.StatusCode == http.StatusNotFound && reference != "" {
		return nil, apperrors.NewReferenceNotFoundError(reference)
	}
	if resp.StatusCode >= http.StatusInternalServerError {
		return nil, apperrors.NewGatewayUnavailableError(fmt.Sprintf("gateway returned status %d", resp.StatusCode))
	}

	var env envelope
	if err := json.Unmarshal(raw, &env); err != nil {
		return nil, apperrors.NewGatewayRejectedError(fmt.Sprintf("unparseable gateway response (status %d)", resp.StatusCode))
	}

	if resp.StatusCode != http.StatusOK || !env.Status {
		return nil, apperrors.NewGatewayRejectedError(fmt.Sprintf("status %d: %s", resp.StatusCode, env.Message))
	}

	return &env, nil
}
