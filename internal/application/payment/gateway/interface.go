package gateway

import (
	"context"
	"time"
)

// TransactionStatus is the gateway-reported status of a transaction, folded
// into the four classes the settlement state machine cares about.
type TransactionStatus string

const (
	StatusSuccess TransactionStatus = "success"
	StatusPending TransactionStatus = "pending"
	StatusFailed  TransactionStatus = "failed"
	StatusOther   TransactionStatus = "other"
)

// ParseTransactionStatus folds a raw gateway status string into a
// TransactionStatus. Unknown statuses map to StatusOther and never settle.
func ParseTransactionStatus(raw string) TransactionStatus {
	switch raw {
	case "success":
		return StatusSuccess
	case "pending", "ongoing", "processing", "queued":
		return StatusPending
	case "failed", "abandoned", "reversed":
		return StatusFailed
	default:
		return StatusOther
	}
}

func (s TransactionStatus) IsSuccess() bool {
	return s == StatusSuccess
}

// InitializeRequest contains the data needed to open a transaction with the
// gateway. Amount is in the smallest currency unit. Metadata must carry the
// order code and channel token so the webhook can be routed back.
type InitializeRequest struct {
	Email       string
	Amount      int64
	Currency    string
	Reference   string
	CallbackURL string
	Metadata    map[string]interface{}
}

// InitializeResult is the gateway's answer to a transaction initialization.
type InitializeResult struct {
	AuthorizationURL string
	AccessCode       string
	Reference        string
}

// VerifiedTransaction is the result of an authoritative re-verification call.
// This is the only value trusted for deciding settlement; notification
// payloads are never.
type VerifiedTransaction struct {
	Status        TransactionStatus
	RawStatus     string
	Amount        int64
	Currency      string
	Reference     string
	TransactionID string
	Channel       string
	PaidAt        *time.Time
	Metadata      map[string]interface{}
}

// PaymentGateway is the port to the remote payment provider.
//
// VerifyTransaction is idempotent and safe to retry; it is the sole source
// of truth for settlement status.
type PaymentGateway interface {
	InitializeTransaction(ctx context.Context, req InitializeRequest) (*InitializeResult, error)
	VerifyTransaction(ctx context.Context, reference string) (*VerifiedTransaction, error)
}

// Factory builds a gateway client bound to a channel's API key. Credentials
// live per channel in the payment method configuration, so clients are
// constructed per request rather than at wiring time.
type Factory func(apiKey string) PaymentGateway
