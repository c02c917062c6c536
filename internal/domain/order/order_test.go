package order

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	vo "storepay/internal/domain/order/valueobjects"
)

func newTestOrder(t *testing.T) *Order {
	t.Helper()
	o, err := NewOrder("ORD-100", "session-1", vo.NewMoney(5000, "NGN"))
	require.NoError(t, err)
	return o
}

func testRecord(reference string, amountMinor int64) SettlementRecord {
	return NewSettlementRecord(
		"tx-1", reference, "paystack-ng", "card",
		vo.NewMoney(amountMinor, "NGN"),
		time.Date(2026, 3, 14, 9, 30, 0, 0, time.UTC),
		nil,
	)
}

func TestNewOrder(t *testing.T) {
	o := newTestOrder(t)

	assert.Equal(t, "ORD-100", o.Code())
	assert.Equal(t, "session-1", o.SessionToken())
	assert.Equal(t, vo.StateAddingItems, o.State())
	assert.Equal(t, int64(5000), o.Total().AmountMinor())
	assert.Equal(t, 0, o.Version())
	assert.Empty(t, o.Settlements())
}

func TestNewOrderValidation(t *testing.T) {
	_, err := NewOrder("", "session-1", vo.NewMoney(5000, "NGN"))
	assert.Error(t, err)

	_, err = NewOrder("ORD-100", "session-1", vo.NewMoney(0, "NGN"))
	assert.Error(t, err)

	_, err = NewOrder("ORD-100", "session-1", vo.NewMoney(-100, "NGN"))
	assert.Error(t, err)
}

func TestOrderStateMachine(t *testing.T) {
	tests := []struct {
		name    string
		from    vo.OrderState
		to      vo.OrderState
		allowed bool
	}{
		{"checkout starts payment", vo.StateAddingItems, vo.StateArrangingPayment, true},
		{"payment settles", vo.StateArrangingPayment, vo.StatePaymentSettled, true},
		{"payment declines", vo.StateArrangingPayment, vo.StatePaymentDeclined, true},
		{"customer returns to cart", vo.StateArrangingPayment, vo.StateAddingItems, true},
		{"declined payment retried", vo.StatePaymentDeclined, vo.StateArrangingPayment, true},
		{"cart cancelled", vo.StateAddingItems, vo.StateCancelled, true},
		{"cart cannot settle directly", vo.StateAddingItems, vo.StatePaymentSettled, false},
		{"settled is terminal", vo.StatePaymentSettled, vo.StateArrangingPayment, false},
		{"settled cannot cancel", vo.StatePaymentSettled, vo.StateCancelled, false},
		{"cancelled is terminal", vo.StateCancelled, vo.StateArrangingPayment, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.allowed, tt.from.CanTransitionTo(tt.to))
		})
	}
}

func TestTransitionTo(t *testing.T) {
	o := newTestOrder(t)

	require.NoError(t, o.TransitionTo(vo.StateArrangingPayment))
	assert.Equal(t, vo.StateArrangingPayment, o.State())
	assert.Equal(t, 1, o.Version())

	require.NoError(t, o.TransitionTo(vo.StatePaymentSettled))
	assert.Equal(t, vo.StatePaymentSettled, o.State())

	err := o.TransitionTo(vo.StateArrangingPayment)
	assert.Error(t, err)
	assert.Equal(t, vo.StatePaymentSettled, o.State())
}

func TestTransitionToSameStateIsNoOp(t *testing.T) {
	o := newTestOrder(t)

	require.NoError(t, o.TransitionTo(vo.StateAddingItems))
	assert.Equal(t, 0, o.Version())
}

func TestAttachSettlement(t *testing.T) {
	o := newTestOrder(t)
	o.SetID(7)

	attached, err := o.AttachSettlement(testRecord("ORD-100", 5000))
	require.NoError(t, err)
	assert.True(t, attached)
	require.Len(t, o.Settlements(), 1)
	assert.Equal(t, uint(7), o.Settlements()[0].OrderID())
}

func TestAttachSettlementDeduplicatesByReference(t *testing.T) {
	o := newTestOrder(t)

	attached, err := o.AttachSettlement(testRecord("ORD-100", 5000))
	require.NoError(t, err)
	require.True(t, attached)
	versionAfterFirst := o.Version()

	attached, err = o.AttachSettlement(testRecord("ORD-100", 5000))
	require.NoError(t, err)
	assert.False(t, attached)
	assert.Len(t, o.Settlements(), 1)
	assert.Equal(t, versionAfterFirst, o.Version())
}

func TestAttachSettlementRejectsNonPositiveAmount(t *testing.T) {
	o := newTestOrder(t)

	_, err := o.AttachSettlement(testRecord("ORD-100", 0))
	assert.Error(t, err)
	assert.Empty(t, o.Settlements())
}

func TestCheckoutPreconditionHelpers(t *testing.T) {
	o := newTestOrder(t)

	assert.False(t, o.HasLines())
	assert.False(t, o.HasCustomer())
	assert.False(t, o.HasShippingMethod())

	o.SetLineCount(2)
	o.SetCustomer(&Customer{ID: 1, Email: "ada@example.com", FirstName: "Ada", LastName: "Obi"})
	o.SetShippingMethod("standard")

	assert.True(t, o.HasLines())
	assert.True(t, o.HasCustomer())
	assert.True(t, o.HasShippingMethod())

	o.SetCustomer(&Customer{ID: 2})
	assert.False(t, o.HasCustomer())

	o.SetShippingMethod("")
	assert.False(t, o.HasShippingMethod())
}

func TestReconstructOrder(t *testing.T) {
	created := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	shipping := "express"
	rec := ReconstructSettlementRecord(3, 7, "tx-9", "ORD-200", "paystack-ng", "card",
		vo.NewMoney(12000, "NGN"), created, nil, created)

	o := ReconstructOrder(7, "ORD-200", "session-9", vo.StatePaymentSettled,
		vo.NewMoney(12000, "NGN"),
		&Customer{ID: 4, Email: "obi@example.com"},
		&shipping, 3,
		[]SettlementRecord{rec},
		nil, 5, created, created)

	assert.Equal(t, uint(7), o.ID())
	assert.True(t, o.State().IsSettled())
	assert.True(t, o.State().IsFinal())
	assert.Equal(t, 5, o.Version())
	require.Len(t, o.Settlements(), 1)
	assert.Equal(t, "tx-9", o.Settlements()[0].TransactionID())
	assert.NotNil(t, o.Metadata())
}

func TestMoney(t *testing.T) {
	m := vo.NewMoney(150050, "NGN")

	assert.Equal(t, int64(150050), m.AmountMinor())
	assert.InDelta(t, 1500.50, m.AmountMajor(), 0.001)
	assert.True(t, m.IsPositive())
	assert.Equal(t, "1500.50 NGN", m.String())

	assert.True(t, m.Equals(vo.NewMoney(150050, "NGN")))
	assert.False(t, m.Equals(vo.NewMoney(150050, "USD")))
	assert.False(t, m.Equals(vo.NewMoney(150000, "NGN")))

	assert.Equal(t, "NGN", vo.NewMoney(100, "").Currency())
}
