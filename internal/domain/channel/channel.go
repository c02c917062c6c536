// Package channel models the sales channels orders are placed through. The
// channel token travels in the payment intent metadata so a webhook arriving
// with no session context can be routed back to the right channel.
package channel

import "time"

type Channel struct {
	id        uint
	token     string
	code      string
	currency  string
	createdAt time.Time
}

func (c *Channel) ID() uint {
	return c.id
}

func (c *Channel) Token() string {
	return c.token
}

func (c *Channel) Code() string {
	return c.code
}

func (c *Channel) Currency() string {
	return c.currency
}

func (c *Channel) CreatedAt() time.Time {
	return c.createdAt
}

// ReconstructChannel rebuilds a Channel from persistence.
func ReconstructChannel(id uint, token, code, currency string, createdAt time.Time) *Channel {
	return &Channel{
		id:        id,
		token:     token,
		code:      code,
		currency:  currency,
		createdAt: createdAt,
	}
}
