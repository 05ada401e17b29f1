package domain

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// Money is an immutable, non-negative monetary amount.
type Money struct {
	amount decimal.Decimal
}

// Zero is the shared zero amount.
var Zero = Money{amount: decimal.Zero}

// NewMoney validates the amount and returns a Money value.
func NewMoney(amount decimal.Decimal) (Money, error) {
	if amount.IsNegative() {
		return Money{}, fmt.Errorf("%w: money amount cannot be negative: %s", ErrInvalidPayload, amount)
	}
	return Money{amount: amount}, nil
}

// MoneyPtr is the nullable-field helper: nil in, nil out.
func MoneyPtr(amount *decimal.Decimal) (*Money, error) {
	if amount == nil {
		return nil, nil
	}
	m, err := NewMoney(*amount)
	if err != nil {
		return nil, err
	}
	return &m, nil
}

func (m Money) Amount() decimal.Decimal {
	return m.amount
}

func (m Money) Add(other Money) Money {
	return Money{amount: m.amount.Add(other.amount)}
}

// MulQuantity scales the amount by a line-item quantity.
func (m Money) MulQuantity(quantity int) Money {
	return Money{amount: m.amount.Mul(decimal.NewFromInt(int64(quantity)))}
}

func (m Money) LessThan(other Money) bool {
	return m.amount.LessThan(other.amount)
}

func (m Money) Float64() float64 {
	f, _ := m.amount.Float64()
	return f
}

func (m Money) String() string {
	return m.amount.String()
}
