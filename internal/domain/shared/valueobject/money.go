package valueobject

import (
	"errors"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
	"golang.org/x/text/currency"
)

// Currency represents a currency code (ISO 4217)
type Currency string

const (
	USD Currency = "USD"
	EUR Currency = "EUR"
	GBP Currency = "GBP"
	DKK Currency = "DKK"
	JPY Currency = "JPY"
)

// Money is a value object representing monetary amounts
// It is immutable - all operations return new Money instances
type Money struct {
	amount   decimal.Decimal
	currency Currency
}

// NewMoney creates a new Money with the specified amount and currency
func NewMoney(amount decimal.Decimal, currency Currency) (Money, error) {
	if currency == "" {
		return Money{}, errors.New("currency cannot be empty")
	}
	return Money{
		amount:   amount,
		currency: Currency(strings.ToUpper(string(currency))),
	}, nil
}

// NewMoneyFromString creates Money from a string representation
func NewMoneyFromString(amount string, currency Currency) (Money, error) {
	d, err := decimal.NewFromString(amount)
	if err != nil {
		return Money{}, fmt.Errorf("invalid amount string: %w", err)
	}
	return NewMoney(d, currency)
}

// NewMoneyFromMinorUnits creates Money from an integer count of the currency's minor unit
// (cents for EUR, whole yen for JPY).
func NewMoneyFromMinorUnits(units int64, currency Currency) (Money, error) {
	scale, err := currency.Scale()
	if err != nil {
		return Money{}, err
	}
	return NewMoney(decimal.New(units, -int32(scale)), currency)
}

// Zero returns a zero-value Money in the specified currency
func Zero(currency Currency) Money {
	return Money{amount: decimal.Zero, currency: currency}
}

// Amount returns the decimal amount
func (m Money) Amount() decimal.Decimal {
	return m.amount
}

// Currency returns the currency code
func (m Money) Currency() Currency {
	return m.currency
}

// IsZero returns true if the amount is zero
func (m Money) IsZero() bool {
	return m.amount.IsZero()
}

// Add returns a new Money with the sum of both amounts
// Returns error if currencies don't match
func (m Money) Add(other Money) (Money, error) {
	if m.currency != other.currency {
		return Money{}, fmt.Errorf("cannot add money with different currencies: %s and %s", m.currency, other.currency)
	}
	return Money{
		amount:   m.amount.Add(other.amount),
		currency: m.currency,
	}, nil
}

// MultiplyByInt returns a new Money multiplied by an integer
func (m Money) MultiplyByInt(factor int64) Money {
	return Money{
		amount:   m.amount.Mul(decimal.NewFromInt(factor)),
		currency: m.currency,
	}
}

// Equals returns true if both Money values are equal (same amount and currency)
func (m Money) Equals(other Money) bool {
	return m.currency == other.currency && m.amount.Equal(other.amount)
}

// MinorUnits returns the amount as an integer count of the currency's smallest unit,
// rounding half away from zero.
func (m Money) MinorUnits() (int64, error) {
	scale, err := m.currency.Scale()
	if err != nil {
		return 0, err
	}
	return m.amount.Shift(int32(scale)).Round(0).IntPart(), nil
}

// String returns a string representation of the Money
func (m Money) String() string {
	scale, err := m.currency.Scale()
	if err != nil {
		scale = 2
	}
	return fmt.Sprintf("%s %s", m.amount.StringFixed(int32(scale)), m.currency)
}

// Scale returns the number of decimal places of the currency's minor unit.
func (c Currency) Scale() (int, error) {
	unit, err := currency.ParseISO(string(c))
	if err != nil {
		return 0, fmt.Errorf("unknown currency %q: %w", string(c), err)
	}
	scale, _ := currency.Standard.Rounding(unit)
	return scale, nil
}
