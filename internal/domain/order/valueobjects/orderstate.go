package valueobjects

// OrderState is the order's position in the checkout state machine.
type OrderState string

const (
	StateAddingItems      OrderState = "AddingItems"
	StateArrangingPayment OrderState = "ArrangingPayment"
	StatePaymentSettled   OrderState = "PaymentSettled"
	StatePaymentDeclined  OrderState = "PaymentDeclined"
	StateCancelled        OrderState = "Cancelled"
)

var allowedTransitions = map[OrderState][]OrderState{
	StateAddingItems:      {StateArrangingPayment, StateCancelled},
	StateArrangingPayment: {StatePaymentSettled, StatePaymentDeclined, StateAddingItems, StateCancelled},
	StatePaymentDeclined:  {StateArrangingPayment, StateCancelled},
}

func (s OrderState) IsValid() bool {
	switch s {
	case StateAddingItems, StateArrangingPayment, StatePaymentSettled, StatePaymentDeclined, StateCancelled:
		return true
	default:
		return false
	}
}

// IsSettled reports whether the order has reached the terminal success state.
func (s OrderState) IsSettled() bool {
	return s == StatePaymentSettled
}

// IsFinal reports whether no further transitions are allowed.
func (s OrderState) IsFinal() bool {
	return s == StatePaymentSettled || s == StateCancelled
}

// CanTransitionTo reports whether the state machine permits moving to target.
func (s OrderState) CanTransitionTo(target OrderState) bool {
	for _, t := range allowedTransitions[s] {
		if t == target {
			return true
		}
	}
	return false
}

func (s OrderState) String() string {
	return string(s)
}
