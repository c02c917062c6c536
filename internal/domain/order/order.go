package order

import (
	"fmt"
	"time"

	vo "storepay/internal/domain/order/valueobjects"
	"storepay/internal/shared/biztime"
)

// Customer is the order's customer reference as the ledger exposes it.
type Customer struct {
	ID        uint
	Email     string
	FirstName string
	LastName  string
}

// Order is the settlement pipeline's view of a ledger order. The code is
// globally unique and never changes after creation; it doubles as the
// gateway transaction reference across the whole pipeline.
type Order struct {
	id           uint
	code         string
	sessionToken string
	state        vo.OrderState
	total        vo.Money
	customer     *Customer
	shippingCode *string
	lineCount    int
	settlements  []SettlementRecord
	metadata     map[string]interface{}

	version   int
	createdAt time.Time
	updatedAt time.Time
}

func NewOrder(code, sessionToken string, total vo.Money) (*Order, error) {
	if code == "" {
		return nil, fmt.Errorf("order code is required")
	}
	if !total.IsPositive() {
		return nil, fmt.Errorf("order total must be positive")
	}

	now := biztime.NowUTC()
	return &Order{
		code:         code,
		sessionToken: sessionToken,
		state:        vo.StateAddingItems,
		total:        total,
		metadata:     make(map[string]interface{}),
		createdAt:    now,
		updatedAt:    now,
	}, nil
}

// TransitionTo moves the order to target if the state machine allows it.
// Transitioning to the current state is a no-op.
func (o *Order) TransitionTo(target vo.OrderState) error {
	if o.state == target {
		return nil
	}
	if !o.state.CanTransitionTo(target) {
		return fmt.Errorf("cannot transition order %s from %s to %s", o.code, o.state, target)
	}

	o.state = target
	o.updatedAt = biztime.NowUTC()
	o.version++

	return nil
}

// AttachSettlement records a settlement against the order. A record whose
// reference is already attached is skipped and reported via the returned
// bool, so webhook redelivery stays a no-op.
func (o *Order) AttachSettlement(rec SettlementRecord) (attached bool, err error) {
	if !rec.Amount().IsPositive() {
		return false, fmt.Errorf("settlement amount must be positive")
	}
	for _, existing := range o.settlements {
		if existing.Reference() == rec.Reference() {
			return false, nil
		}
	}

	rec.orderID = o.id
	o.settlements = append(o.settlements, rec)
	o.updatedAt = biztime.NowUTC()
	o.version++

	return true, nil
}

func (o *Order) ID() uint {
	return o.id
}

func (o *Order) Code() string {
	return o.code
}

func (o *Order) SessionToken() string {
	return o.sessionToken
}

func (o *Order) State() vo.OrderState {
	return o.state
}

func (o *Order) Total() vo.Money {
	return o.total
}

func (o *Order) Customer() *Customer {
	return o.customer
}

func (o *Order) HasCustomer() bool {
	return o.customer != nil && o.customer.Email != ""
}

func (o *Order) ShippingMethodCode() *string {
	return o.shippingCode
}

func (o *Order) HasShippingMethod() bool {
	return o.shippingCode != nil && *o.shippingCode != ""
}

func (o *Order) LineCount() int {
	return o.lineCount
}

func (o *Order) HasLines() bool {
	return o.lineCount > 0
}

func (o *Order) Settlements() []SettlementRecord {
	return o.settlements
}

func (o *Order) Metadata() map[string]interface{} {
	return o.metadata
}

// SetMetadata sets a metadata key-value pair
func (o *Order) SetMetadata(key string, value interface{}) {
	if o.metadata == nil {
		o.metadata = make(map[string]interface{})
	}
	o.metadata[key] = value
	o.updatedAt = biztime.NowUTC()
}

func (o *Order) Version() int {
	return o.version
}

func (o *Order) CreatedAt() time.Time {
	return o.createdAt
}

func (o *Order) UpdatedAt() time.Time {
	return o.updatedAt
}

// SetID sets the order ID after persistence (used by repository after Create)
func (o *Order) SetID(id uint) {
	o.id = id
}

// SetCustomer attaches the customer reference during hydration or seeding.
func (o *Order) SetCustomer(c *Customer) {
	o.customer = c
	o.updatedAt = biztime.NowUTC()
}

// SetShippingMethod attaches the selected shipping method code.
func (o *Order) SetShippingMethod(code string) {
	o.shippingCode = &code
	o.updatedAt = biztime.NowUTC()
}

// SetLineCount records the number of order lines during hydration or seeding.
func (o *Order) SetLineCount(n int) {
	o.lineCount = n
	o.updatedAt = biztime.NowUTC()
}

// ReconstructOrder rebuilds an Order from persistence.
func ReconstructOrder(
	id uint,
	code, sessionToken string,
	state vo.OrderState,
	total vo.Money,
	customer *Customer,
	shippingCode *string,
	lineCount int,
	settlements []SettlementRecord,
	metadata map[string]interface{},
	version int,
	createdAt, updatedAt time.Time,
) *Order {
	if metadata == nil {
		metadata = make(map[string]interface{})
	}
	return &Order{
		id:           id,
		code:         code,
		sessionToken: sessionToken,
		state:        state,
		total:        total,
		customer:     customer,
		shippingCode: shippingCode,
		lineCount:    lineCount,
		settlements:  settlements,
		metadata:     metadata,
		version:      version,
		createdAt:    createdAt,
		updatedAt:    updatedAt,
	}
}
