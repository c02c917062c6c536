package models

import (
	"database/sql/driver"
	"encoding/json"
	"time"
)

type OrderModel struct {
	ID                 uint    `gorm:"primaryKey"`
	Code               string  `gorm:"uniqueIndex;size:64;not null"`
	SessionToken       string  `gorm:"index;size:128;not null"`
	State              string  `gorm:"size:32;not null;index"`
	TotalMinor         int64   `gorm:"not null"`
	Currency           string  `gorm:"size:10;not null;default:'NGN'"`
	CustomerID         *uint   `gorm:"index"`
	CustomerEmail      *string `gorm:"size:255"`
	CustomerFirstName  *string `gorm:"size:100"`
	CustomerLastName   *string `gorm:"size:100"`
	ShippingMethodCode *string `gorm:"size:64"`
	LineCount          int     `gorm:"not null;default:0"`
	Metadata           JSONB   `gorm:"type:jsonb"`
	Version            int     `gorm:"default:0"`
	CreatedAt          time.Time
	UpdatedAt          time.Time

	Settlements []SettlementRecordModel `gorm:"foreignKey:OrderID"`
}

func (OrderModel) TableName() string {
	return "orders"
}

type JSONB map[string]interface{}

func (j JSONB) Value() (driver.Value, error) {
	if j == nil {
		return nil, nil
	}
	return json.Marshal(j)
}

func (j *JSONB) Scan(value interface{}) error {
	if value == nil {
		*j = make(map[string]interface{})
		return nil
	}

	var bytes []byte
	switch v := value.(type) {
	case []byte:
		bytes = v
	case string:
		bytes = []byte(v)
	default:
		return nil
	}

	return json.Unmarshal(bytes, j)
}
