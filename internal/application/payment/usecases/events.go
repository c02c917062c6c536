package usecases

import (
	"context"
	"time"

	"github.com/zoobzio/hookz"
)

// EventOrderSettled fires once per order after the settling transaction
// commits. Redeliveries of an already-settled order do not fire it again.
const EventOrderSettled hookz.Key = "order.settled"

// SettledEvent is the payload delivered to order.settled hooks.
type SettledEvent struct {
	OrderCode     string
	Reference     string
	TransactionID string
	AmountMinor   int64
	Currency      string
	Channel       string
	SettledAt     time.Time
}

// SettledEmitter is the slice of the hook system the settlement path needs.
// *hookz.Hooks[SettledEvent] satisfies it.
type SettledEmitter interface {
	Emit(ctx context.Context, key hookz.Key, data SettledEvent) error
}
