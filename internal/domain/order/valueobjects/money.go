package valueobjects

import "fmt"

// Money is a currency-aware amount in minor units (e.g. kobo, cents).
type Money struct {
	amountMinor int64
	currency    string
}

func NewMoney(amountMinor int64, currency string) Money {
	if currency == "" {
		currency = "NGN"
	}
	return Money{
		amountMinor: amountMinor,
		currency:    currency,
	}
}

func (m Money) AmountMinor() int64 {
	return m.amountMinor
}

func (m Money) Currency() string {
	return m.currency
}

func (m Money) AmountMajor() float64 {
	return float64(m.amountMinor) / 100.0
}

func (m Money) Equals(other Money) bool {
	return m.amountMinor == other.amountMinor && m.currency == other.currency
}

func (m Money) IsPositive() bool {
	return m.amountMinor > 0
}

func (m Money) String() string {
	return fmt.Sprintf("%.2f %s", m.AmountMajor(), m.currency)
}
