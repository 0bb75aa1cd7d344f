package orderbook

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

// Value is an exact price or size quoted at a fixed decimal exponent.
type Value struct {
	d   decimal.Decimal
	exp int32
}

// Precision holds the exponents prices and sizes of one pair are quoted at.
type Precision struct {
	Price int32
	Size  int32
}

// PrecisionFromTicks turns the tick size and quantity increment of a symbol
// into a Precision.
func PrecisionFromTicks(tickSize, quantityIncrement string) (Precision, error) {
	price, err := Exponent(tickSize)
	if err != nil {
		return Precision{}, fmt.Errorf("tick size: %w", err)
	}
	size, err := Exponent(quantityIncrement)
	if err != nil {
		return Precision{}, fmt.Errorf("quantity increment: %w", err)
	}
	return Precision{Price: price, Size: size}, nil
}

// ParseValue parses a non-negative decimal literal quoted at exp. The literal
// may carry at most -exp fractional digits, so none at all when exp >= 0.
func ParseValue(s string, exp int32) (Value, error) {
	intPart, fracPart, hasDot := strings.Cut(s, ".")
	if intPart == "" || (hasDot && fracPart == "") {
		return Value{}, fmt.Errorf("%w: %q", ErrMalformedDecimal, s)
	}
	if !allDigits(intPart) || !allDigits(fracPart) {
		return Value{}, fmt.Errorf("%w: %q", ErrMalformedDecimal, s)
	}
	if digits := max(-exp, 0); len(fracPart) > int(digits) {
		return Value{}, fmt.Errorf("%w: %q has more than %d fractional digits", ErrMalformedDecimal, s, digits)
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		return Value{}, fmt.Errorf("%w: %q: %v", ErrMalformedDecimal, s, err)
	}
	if exp >= 0 && !d.Shift(-exp).IsInteger() {
		return Value{}, fmt.Errorf("%w: %q is not a multiple of 1e%d", ErrMalformedDecimal, s, exp)
	}
	return Value{d: d, exp: exp}, nil
}

func allDigits(s string) bool {
	for i := 0; i < len(s); i++ {
		if s[i] < '0' || s[i] > '9' {
			return false
		}
	}
	return true
}

func (v Value) IsZero() bool {
	return v.d.IsZero()
}

func (v Value) Cmp(o Value) int {
	return v.d.Cmp(o.d)
}

func (v Value) Equal(o Value) bool {
	return v.d.Equal(o.d)
}

func (v Value) Exponent() int32 {
	return v.exp
}

// String formats v with as many fractional digits as its exponent allows.
func (v Value) String() string {
	if v.exp >= 0 {
		return v.d.StringFixed(0)
	}
	return v.d.StringFixed(-v.exp)
}

// Exponent returns k such that the power-of-ten literal s equals 10^k, e.g.
// "0.001" is -3 and "10" is 1. Only '0', '1' and a single inner '.' are
// accepted, and exactly one '1' must appear.
func Exponent(s string) (int32, error) {
	if s == "" || s[0] == '.' || s[len(s)-1] == '.' {
		return 0, fmt.Errorf("%w: %q", ErrMalformedTick, s)
	}
	one, dot := -1, len(s)
	for i := 0; i < len(s); i++ {
		switch s[i] {
		case '0':
		case '1':
			if one >= 0 {
				return 0, fmt.Errorf("%w: %q has more than one 1", ErrMalformedTick, s)
			}
			one = i
		case '.':
			if dot != len(s) {
				return 0, fmt.Errorf("%w: %q has more than one point", ErrMalformedTick, s)
			}
			dot = i
		default:
			return 0, fmt.Errorf("%w: %q", ErrMalformedTick, s)
		}
	}
	if one < 0 {
		return 0, fmt.Errorf("%w: %q has no 1", ErrMalformedTick, s)
	}
	if one < dot {
		return int32(dot - one - 1), nil
	}
	return int32(dot - one), nil
}
