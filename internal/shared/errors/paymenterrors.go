package errors

import (
	"fmt"
	"net/http"
)

// Payment-settlement error types
const (
	ErrorTypePreconditionFailed    ErrorType = "precondition_failed"
	ErrorTypeMethodNotConfigured   ErrorType = "method_not_configured"
	ErrorTypeGatewayUnavailable    ErrorType = "gateway_unavailable"
	ErrorTypeGatewayRejected       ErrorType = "gateway_rejected"
	ErrorTypeReferenceNotFound     ErrorType = "reference_not_found"
	ErrorTypeMalformedNotification ErrorType = "malformed_notification"
	ErrorTypeChannelNotFound       ErrorType = "channel_not_found"
	ErrorTypeOrderNotFound         ErrorType = "order_not_found"
	ErrorTypeStateTransition       ErrorType = "state_transition_failed"
	ErrorTypeSettlement            ErrorType = "settlement_failed"
)

// PaymentError wraps AppError with retry semantics for the webhook transport.
// Retryable errors must be answered with a non-2xx status so the gateway
// provider redelivers the notification later.
type PaymentError struct {
	*AppError
	Retryable bool
}

func (e *PaymentError) Error() string {
	return e.AppError.Error()
}

// Unwrap allows errors.Is and errors.As to work correctly
func (e *PaymentError) Unwrap() error {
	return e.AppError
}

// NewPreconditionFailedError reports an order that is not checkout-ready.
func NewPreconditionFailedError(detail string) *PaymentError {
	return &PaymentError{
		AppError: &AppError{
			Type:    ErrorTypePreconditionFailed,
			Message: "order is not ready for payment",
			Code:    http.StatusBadRequest,
			Details: detail,
		},
		Retryable: false,
	}
}

// NewMethodNotConfiguredError reports missing or incomplete payment method
// configuration for a channel. This is a deployment bug, fatal to the request.
func NewMethodNotConfiguredError(detail string) *PaymentError {
	return &PaymentError{
		AppError: &AppError{
			Type:    ErrorTypeMethodNotConfigured,
			Message: "payment method is not configured",
			Code:    http.StatusInternalServerError,
			Details: detail,
		},
		Retryable: false,
	}
}

// NewGatewayUnavailableError reports a transport-level failure talking to the
// payment gateway. Transient; the webhook layer signals retry via status code.
func NewGatewayUnavailableError(detail string) *PaymentError {
	return &PaymentError{
		AppError: &AppError{
			Type:    ErrorTypeGatewayUnavailable,
			Message: "payment gateway unavailable",
			Code:    http.StatusServiceUnavailable,
			Details: detail,
		},
		Retryable: true,
	}
}

// NewGatewayRejectedError reports a non-success envelope from the gateway.
func NewGatewayRejectedError(detail string) *PaymentError {
	return &PaymentError{
		AppError: &AppError{
			Type:    ErrorTypeGatewayRejected,
			Message: "payment gateway rejected the request",
			Code:    http.StatusBadGateway,
			Details: detail,
		},
		Retryable: false,
	}
}

// NewReferenceNotFoundError reports a transaction reference unknown to the gateway.
func NewReferenceNotFoundError(reference string) *PaymentError {
	return &PaymentError{
		AppError: &AppError{
			Type:    ErrorTypeReferenceNotFound,
			Message: "transaction reference not found at gateway",
			Code:    http.StatusNotFound,
			Details: fmt.Sprintf("reference %q", reference),
		},
		Retryable: false,
	}
}

// NewMalformedNotificationError reports a webhook body missing required claims.
// Integration bug; surfaced as an error rather than silently dropped.
func NewMalformedNotificationError(detail string) *PaymentError {
	return &PaymentError{
		AppError: &AppError{
			Type:    ErrorTypeMalformedNotification,
			Message: "webhook notification is malformed",
			Code:    http.StatusBadRequest,
			Details: detail,
		},
		Retryable: false,
	}
}

// NewChannelNotFoundError reports an unknown channel token. Retryable: the
// inconsistency may resolve moments later due to ordering skew.
func NewChannelNotFoundError(token string) *PaymentError {
	return &PaymentError{
		AppError: &AppError{
			Type:    ErrorTypeChannelNotFound,
			Message: "sales channel not found",
			Code:    http.StatusInternalServerError,
			Details: fmt.Sprintf("channel token %q", token),
		},
		Retryable: true,
	}
}

// NewOrderNotFoundError reports an order code unknown to the ledger. Retryable
// for the same ordering-skew reason as NewChannelNotFoundError.
func NewOrderNotFoundError(code string) *PaymentError {
	return &PaymentError{
		AppError: &AppError{
			Type:    ErrorTypeOrderNotFound,
			Message: "order not found for reference",
			Code:    http.StatusInternalServerError,
			Details: fmt.Sprintf("order code %q", code),
		},
		Retryable: true,
	}
}

// StateTransitionError reports a refused order state transition, carrying the
// attempted from/to states.
type StateTransitionError struct {
	*PaymentError
	From string
	To   string
}

func (e *StateTransitionError) Unwrap() error {
	return e.PaymentError
}

func NewStateTransitionError(orderCode, from, to string, detail string) *StateTransitionError {
	return &StateTransitionError{
		PaymentError: &PaymentError{
			AppError: &AppError{
				Type:    ErrorTypeStateTransition,
				Message: fmt.Sprintf("cannot transition order %s from %s to %s", orderCode, from, to),
				Code:    http.StatusConflict,
				Details: detail,
			},
			Retryable: false,
		},
		From: from,
		To:   to,
	}
}

// NewSettlementError reports a failure recording the settlement on the order.
func NewSettlementError(orderCode string, detail string) *PaymentError {
	return &PaymentError{
		AppError: &AppError{
			Type:    ErrorTypeSettlement,
			Message: fmt.Sprintf("failed to settle order %s", orderCode),
			Code:    http.StatusInternalServerError,
			Details: detail,
		},
		Retryable: false,
	}
}

// IsRetryable reports whether err should be answered with a retryable status
// so the gateway provider redelivers the webhook.
func IsRetryable(err error) bool {
	var pErr *PaymentError
	if As(err, &pErr) {
		return pErr.Retryable
	}
	return false
}

// IsPaymentErrorType checks whether err is a PaymentError of the given type.
func IsPaymentErrorType(err error, t ErrorType) bool {
	appErr := GetAppError(err)
	return appErr != nil && appErr.Type == t
}
