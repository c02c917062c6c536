package channel

import "context"

type ChannelRepository interface {
	GetByToken(ctx context.Context, token string) (*Channel, error)
	GetByID(ctx context.Context, id uint) (*Channel, error)
}

type PaymentMethodRepository interface {
	// GetByChannelAndHandler returns the enabled payment method for the
	// channel whose handler code matches, or nil when none is configured.
	GetByChannelAndHandler(ctx context.Context, channelID uint, handlerCode string) (*PaymentMethod, error)
}
