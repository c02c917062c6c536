package models

import "time"

type ChannelModel struct {
	ID        uint   `gorm:"primaryKey"`
	Token     string `gorm:"uniqueIndex;size:64;not null"`
	Code      string `gorm:"uniqueIndex;size:64;not null"`
	Currency  string `gorm:"size:10;not null;default:'NGN'"`
	CreatedAt time.Time
}

func (ChannelModel) TableName() string {
	return "channels"
}

// PaymentMethodModel stores a channel's handler configuration. Args holds the
// handler arguments (api key, redirect base URL) as a JSON document; at most
// one method per (channel, handler) pair.
type PaymentMethodModel struct {
	ID          uint   `gorm:"primaryKey"`
	ChannelID   uint   `gorm:"not null;uniqueIndex:idx_method_channel_handler,priority:1"`
	HandlerCode string `gorm:"size:64;not null;uniqueIndex:idx_method_channel_handler,priority:2"`
	Code        string `gorm:"size:64;not null"`
	Args        JSONB  `gorm:"type:jsonb"`
	Enabled     bool   `gorm:"not null;default:true;index"`
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

func (PaymentMethodModel) TableName() string {
	return "payment_methods"
}
