package handlers

import (
	"encoding/json"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"

	paymentUsecases "storepay/internal/application/payment/usecases"
	apperrors "storepay/internal/shared/errors"
	"storepay/internal/shared/logger"
	"storepay/internal/shared/utils"
)

// HeaderSessionToken carries the storefront session on intent requests.
const HeaderSessionToken = "X-Session-Token"

// Webhook bodies are small; anything larger is hostile.
const maxWebhookBodySize = 512 << 10

type PaymentHandler struct {
	createIntentUC  *paymentUsecases.CreateIntentUseCase
	ingestWebhookUC *paymentUsecases.IngestWebhookUseCase
	logger          logger.Interface
}

func NewPaymentHandler(
	createIntentUC *paymentUsecases.CreateIntentUseCase,
	ingestWebhookUC *paymentUsecases.IngestWebhookUseCase,
	logger logger.Interface,
) *PaymentHandler {
	return &PaymentHandler{
		createIntentUC:  createIntentUC,
		ingestWebhookUC: ingestWebhookUC,
		logger:          logger,
	}
}

type CreateIntentRequest struct {
	ChannelToken string `json:"channel_token" binding:"required"`
}

type CreateIntentResponse struct {
	RedirectURL string `json:"redirect_url"`
	Reference   string `json:"reference"`
}

// CreateIntent opens a gateway transaction for the session's active order and
// returns the hosted checkout URL.
func (h *PaymentHandler) CreateIntent(c *gin.Context) {
	sessionToken := c.GetHeader(HeaderSessionToken)
	if sessionToken == "" {
		utils.ErrorResponse(c, http.StatusUnauthorized, "missing session token")
		return
	}

	var req CreateIntentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Errorw("failed to bind request", "error", err)
		utils.ErrorResponse(c, http.StatusBadRequest, "invalid request: "+err.Error())
		return
	}

	result, err := h.createIntentUC.Execute(c.Request.Context(), paymentUsecases.CreateIntentCommand{
		SessionToken: sessionToken,
		ChannelToken: req.ChannelToken,
	})
	if err != nil {
		h.logger.Errorw("failed to create payment intent", "error", err)
		utils.ErrorResponseWithError(c, err)
		return
	}

	utils.SuccessResponse(c, http.StatusOK, "payment intent created", CreateIntentResponse{
		RedirectURL: result.RedirectURL,
		Reference:   result.Reference,
	})
}

// HandleWebhook ingests a gateway notification. Any non-2xx answer makes the
// provider redeliver, so only retryable failures get a 5xx.
func (h *PaymentHandler) HandleWebhook(c *gin.Context) {
	body, err := io.ReadAll(io.LimitReader(c.Request.Body, maxWebhookBodySize))
	if err != nil {
		utils.ErrorResponse(c, http.StatusBadRequest, "failed to read request body")
		return
	}

	var notification paymentUsecases.WebhookNotification
	if err := json.Unmarshal(body, &notification); err != nil {
		h.logger.Warnw("undecodable webhook body",
			"client_ip", c.ClientIP(),
			"body_size", len(body),
		)
		utils.ErrorResponse(c, http.StatusBadRequest, "invalid notification body")
		return
	}

	if err := h.ingestWebhookUC.Execute(c.Request.Context(), notification); err != nil {
		h.logger.Errorw("failed to process webhook notification",
			"event", notification.Event,
			"reference", notification.Data.Reference,
			"error", err,
		)
		if apperrors.IsRetryable(err) {
			utils.ErrorResponse(c, http.StatusServiceUnavailable, "temporary failure, retry later")
			return
		}
		utils.ErrorResponseWithError(c, err)
		return
	}

	utils.SuccessResponse(c, http.StatusOK, "notification processed", nil)
}
