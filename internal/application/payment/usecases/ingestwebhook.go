package usecases

import (
	"context"

	apperrors "storepay/internal/shared/errors"
	"storepay/internal/shared/logger"
)

// EventChargeSuccess is the only gateway event that can settle an order.
const EventChargeSuccess = "charge.success"

// WebhookMetadata carries the routing claims written at intent creation.
type WebhookMetadata struct {
	OrderCode    string `json:"orderCode"`
	ChannelToken string `json:"channelToken"`
}

// WebhookData is the transaction snapshot inside a gateway notification.
// None of it is trusted for settlement; only the reference and metadata are
// used, and the transaction is re-verified against the gateway.
type WebhookData struct {
	ID        int64           `json:"id"`
	Reference string          `json:"reference"`
	Status    string          `json:"status"`
	Amount    int64           `json:"amount"`
	Currency  string          `json:"currency"`
	Channel   string          `json:"channel"`
	PaidAt    string          `json:"paid_at"`
	Metadata  WebhookMetadata `json:"metadata"`
}

// WebhookNotification is the gateway's webhook envelope.
type WebhookNotification struct {
	Event string      `json:"event"`
	Data  WebhookData `json:"data"`
}

// IngestWebhookUseCase filters incoming gateway notifications and hands
// charge successes to the settlement path.
type IngestWebhookUseCase struct {
	settle *SettlePaymentUseCase
	logger logger.Interface
}

func NewIngestWebhookUseCase(settle *SettlePaymentUseCase, logger logger.Interface) *IngestWebhookUseCase {
	return &IngestWebhookUseCase{
		settle: settle,
		logger: logger,
	}
}

// Execute processes one notification. Events other than charge.success are
// acknowledged and dropped so the provider does not redeliver them.
func (uc *IngestWebhookUseCase) Execute(ctx context.Context, n WebhookNotification) error {
	if n.Event != EventChargeSuccess {
		uc.logger.Infow("ignoring webhook event",
			"event", n.Event,
			"reference", n.Data.Reference,
		)
		return nil
	}

	if n.Data.Reference == "" {
		return apperrors.NewMalformedNotificationError("missing transaction reference")
	}
	if n.Data.Metadata.OrderCode == "" {
		return apperrors.NewMalformedNotificationError("missing orderCode in metadata")
	}
	if n.Data.Metadata.ChannelToken == "" {
		return apperrors.NewMalformedNotificationError("missing channelToken in metadata")
	}

	uc.logger.Infow("processing charge success notification",
		"reference", n.Data.Reference,
		"order_code", n.Data.Metadata.OrderCode,
	)

	return uc.settle.Execute(ctx, SettlePaymentCommand{
		Reference:    n.Data.Reference,
		ChannelToken: n.Data.Metadata.ChannelToken,
	})
}
