package models

import "time"

// SettlementRecordModel is the settlement ledger row. The unique index on
// (order_id, reference) is the database-level idempotency guarantee for
// webhook redelivery.
type SettlementRecordModel struct {
	ID            uint   `gorm:"primaryKey"`
	OrderID       uint   `gorm:"not null;uniqueIndex:idx_settlement_order_reference,priority:1"`
	Reference     string `gorm:"size:64;not null;uniqueIndex:idx_settlement_order_reference,priority:2"`
	TransactionID string `gorm:"size:128;not null"`
	MethodCode    string `gorm:"size:64;not null"`
	Channel       string `gorm:"size:32"`
	AmountMinor   int64  `gorm:"not null"`
	Currency      string `gorm:"size:10;not null"`
	PaidAt        time.Time
	Metadata      JSONB `gorm:"type:jsonb"`
	CreatedAt     time.Time
}

func (SettlementRecordModel) TableName() string {
	return "settlement_records"
}
