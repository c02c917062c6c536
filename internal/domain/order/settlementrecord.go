package order

import (
	"time"

	vo "storepay/internal/domain/order/valueobjects"
)

// SettlementRecord is an immutable payment entry attached to an order once a
// transaction has been authoritatively verified. At most one record exists
// per (order, reference) pair.
type SettlementRecord struct {
	id            uint
	orderID       uint
	transactionID string
	reference     string
	methodCode    string
	channel       string
	amount        vo.Money
	paidAt        time.Time
	metadata      map[string]interface{}
	createdAt     time.Time
}

func NewSettlementRecord(
	transactionID, reference, methodCode, channel string,
	amount vo.Money,
	paidAt time.Time,
	metadata map[string]interface{},
) SettlementRecord {
	if metadata == nil {
		metadata = make(map[string]interface{})
	}
	return SettlementRecord{
		transactionID: transactionID,
		reference:     reference,
		methodCode:    methodCode,
		channel:       channel,
		amount:        amount,
		paidAt:        paidAt.UTC(),
		metadata:      metadata,
	}
}

func (r SettlementRecord) ID() uint {
	return r.id
}

func (r SettlementRecord) OrderID() uint {
	return r.orderID
}

func (r SettlementRecord) TransactionID() string {
	return r.transactionID
}

func (r SettlementRecord) Reference() string {
	return r.reference
}

func (r SettlementRecord) MethodCode() string {
	return r.methodCode
}

func (r SettlementRecord) Channel() string {
	return r.channel
}

func (r SettlementRecord) Amount() vo.Money {
	return r.amount
}

func (r SettlementRecord) PaidAt() time.Time {
	return r.paidAt
}

func (r SettlementRecord) Metadata() map[string]interface{} {
	return r.metadata
}

func (r SettlementRecord) CreatedAt() time.Time {
	return r.createdAt
}

// ReconstructSettlementRecord rebuilds a record from persistence.
func ReconstructSettlementRecord(
	id, orderID uint,
	transactionID, reference, methodCode, channel string,
	amount vo.Money,
	paidAt time.Time,
	metadata map[string]interface{},
	createdAt time.Time,
) SettlementRecord {
	if metadata == nil {
		metadata = make(map[string]interface{})
	}
	return SettlementRecord{
		id:            id,
		orderID:       orderID,
		transactionID: transactionID,
		reference:     reference,
		methodCode:    methodCode,
		channel:       channel,
		amount:        amount,
		paidAt:        paidAt,
		metadata:      metadata,
		createdAt:     createdAt,
	}
}
