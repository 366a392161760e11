// Package types provides common types used across the vault bank.
package types

import (
	"database/sql/driver"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/holiman/uint256"
)

// Arithmetic sentinel errors.
var (
	// ErrOverflow is returned when an addition does not fit in 256 bits.
	ErrOverflow = errors.New("types: amount overflow")

	// ErrUnderflow is returned when a subtraction would go below zero.
	ErrUnderflow = errors.New("types: amount underflow")
)

// Amount is an unsigned 256-bit monetary value in the smallest unit of
// custody. All arithmetic is checked; an Amount never wraps and never
// goes negative.
//
// The zero value is a valid Amount of zero.
type Amount struct {
	v uint256.Int
}

// NewAmount creates an Amount from a uint64.
func NewAmount(v uint64) Amount {
	var a Amount
	a.v.SetUint64(v)
	return a
}

// Zero returns the zero Amount.
func Zero() Amount { return Amount{} }

// ParseAmount parses a base-10 string into an Amount.
func ParseAmount(s string) (Amount, error) {
	var a Amount
	if err := a.v.SetFromDecimal(s); err != nil {
		return Amount{}, fmt.Errorf("types: parse amount %q: %w", s, err)
	}
	return a, nil
}

// MustParseAmount is like ParseAmount but panics on error.
// Use for hardcoded values.
func MustParseAmount(s string) Amount {
	a, err := ParseAmount(s)
	if err != nil {
		panic(err)
	}
	return a
}

// Arithmetic operations

// Add returns a+other, or ErrOverflow if the sum does not fit in 256 bits.
func (a Amount) Add(other Amount) (Amount, error) {
	var sum Amount
	if _, overflow := sum.v.AddOverflow(&a.v, &other.v); overflow {
		return Amount{}, ErrOverflow
	}
	return sum, nil
}

// Sub returns a-other, or ErrUnderflow if other exceeds a.
func (a Amount) Sub(other Amount) (Amount, error) {
	var diff Amount
	if _, underflow := diff.v.SubOverflow(&a.v, &other.v); underflow {
		return Amount{}, ErrUnderflow
	}
	return diff, nil
}

// Sum adds all amounts, or ErrOverflow if the total does not fit.
func Sum(amounts ...Amount) (Amount, error) {
	total := Zero()
	for _, a := range amounts {
		var err error
		if total, err = total.Add(a); err != nil {
			return Amount{}, err
		}
	}
	return total, nil
}

// Comparison methods

// Cmp returns -1, 0 or 1 if a is less than, equal to or greater than other.
func (a Amount) Cmp(other Amount) int { return a.v.Cmp(&other.v) }

// IsZero returns true if the amount is zero.
func (a Amount) IsZero() bool { return a.v.IsZero() }

// Equal returns true if both amounts are equal.
func (a Amount) Equal(other Amount) bool { return a.v.Eq(&other.v) }

// LessThan returns true if a is strictly less than other.
func (a Amount) LessThan(other Amount) bool { return a.v.Lt(&other.v) }

// GreaterThan returns true if a is strictly greater than other.
func (a Amount) GreaterThan(other Amount) bool { return a.v.Gt(&other.v) }

// Min returns the smaller of two amounts.
func (a Amount) Min(other Amount) Amount {
	if a.v.Lt(&other.v) {
		return a
	}
	return other
}

// Max returns the larger of two amounts.
func (a Amount) Max(other Amount) Amount {
	if a.v.Gt(&other.v) {
		return a
	}
	return other
}

// Uint64 returns the amount as a uint64 and whether it fits.
func (a Amount) Uint64() (uint64, bool) {
	if !a.v.IsUint64() {
		return 0, false
	}
	return a.v.Uint64(), true
}

// Encoding

// String returns the base-10 representation.
func (a Amount) String() string { return a.v.Dec() }

// MarshalText implements encoding.TextMarshaler.
func (a Amount) MarshalText() ([]byte, error) {
	return []byte(a.v.Dec()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (a *Amount) UnmarshalText(data []byte) error {
	if len(data) == 0 {
		*a = Amount{}
		return nil
	}
	return a.v.SetFromDecimal(string(data))
}

// MarshalJSON implements json.Marshaler. Amounts are encoded as decimal
// strings so 256-bit values survive JSON number precision limits.
func (a Amount) MarshalJSON() ([]byte, error) {
	return json.Marshal(a.v.Dec())
}

// UnmarshalJSON implements json.Unmarshaler.
func (a *Amount) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return fmt.Errorf("types: unmarshal amount: %w", err)
	}
	if s == "" {
		*a = Amount{}
		return nil
	}
	return a.v.SetFromDecimal(s)
}

// Value implements driver.Valuer for database storage. Amounts are stored
// as decimal strings to preserve the full 256-bit range.
func (a Amount) Value() (driver.Value, error) {
	return a.v.Dec(), nil
}

// Scan implements sql.Scanner for database retrieval.
func (a *Amount) Scan(src any) error {
	switch v := src.(type) {
	case nil:
		*a = Amount{}
		return nil
	case string:
		return a.UnmarshalText([]byte(v))
	case []byte:
		return a.UnmarshalText(v)
	case int64:
		if v < 0 {
			return fmt.Errorf("types: cannot scan negative value %d into Amount", v)
		}
		a.v.SetUint64(uint64(v))
		return nil
	default:
		return fmt.Errorf("types: cannot scan %T into Amount", src)
	}
}
