// Package money quantizes amounts to a fixed number of currency decimal places.
//
// A Policy is a plain value: callers build one (usually from configuration)
// and pass it to whatever needs rounding. Nothing in this package reads or
// mutates global state, so two policies with different precision can be used
// side by side.
package money

import (
	"errors"
	"fmt"
	"math/big"
	"strings"

	"github.com/shopspring/decimal"
)

var (
	// ErrTooPrecise is returned when an amount has more fractional digits
	// than the policy allows.
	ErrTooPrecise = errors.New("amount has too many fractional digits")

	// ErrOutOfRange is returned when an amount needs more digits than the
	// policy allows.
	ErrOutOfRange = errors.New("amount out of range")
)

// Mode selects how ties and remainders are resolved when quantizing.
type Mode int

const (
	// HalfUp rounds to the nearest value, ties away from zero (1.005 -> 1.01, -1.005 -> -1.01).
	HalfUp Mode = iota
	// HalfEven rounds to the nearest value, ties to the even neighbour.
	HalfEven
	// Down truncates toward zero.
	Down
)

func (m Mode) String() string {
	switch m {
	case HalfUp:
		return "half-up"
	case HalfEven:
		return "half-even"
	case Down:
		return "down"
	default:
		return fmt.Sprintf("Mode(%d)", int(m))
	}
}

// ParseMode parses the names produced by Mode.String.
func ParseMode(s string) (Mode, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "half-up", "half_up", "halfup":
		return HalfUp, nil
	case "half-even", "half_even", "halfeven", "bankers":
		return HalfEven, nil
	case "down", "truncate":
		return Down, nil
	default:
		return 0, fmt.Errorf("unknown rounding mode %q", s)
	}
}

// Policy describes a currency's fixed-point representation.
type Policy struct {
	// Places is the number of fractional digits kept (2 for cents).
	Places int32

	// Mode is the rounding rule applied when quantizing.
	Mode Mode

	// MaxDigits is the total number of significant digits an input amount
	// may use, fractional digits included (10 with Places=2 allows up to
	// 99999999.99).
	MaxDigits int32
}

// DefaultPolicy returns two decimal places with half-up rounding.
func DefaultPolicy() Policy {
	return Policy{Places: 2, Mode: HalfUp, MaxDigits: 10}
}

// Validate reports whether the policy can be used.
func (p Policy) Validate() error {
	if p.Places < 0 {
		return fmt.Errorf("places must not be negative, got %d", p.Places)
	}
	switch p.Mode {
	case HalfUp, HalfEven, Down:
	default:
		return fmt.Errorf("unsupported rounding mode %s", p.Mode)
	}
	if p.MaxDigits <= p.Places {
		return fmt.Errorf("max digits (%d) must exceed places (%d)", p.MaxDigits, p.Places)
	}
	return nil
}

// Round quantizes d to the policy's places.
func (p Policy) Round(d decimal.Decimal) decimal.Decimal {
	return p.RoundRat(d.Rat())
}

// RoundRat quantizes an exact rational to the policy's places.
// The result is exact: no intermediate value is truncated before the final
// rounding decision.
func (p Policy) RoundRat(r *big.Rat) decimal.Decimal {
	num := new(big.Int).Mul(r.Num(), pow10(p.Places))
	den := r.Denom()

	q, rem := new(big.Int).QuoRem(num, den, new(big.Int))
	if rem.Sign() != 0 && p.awayFromZero(q, rem, den) {
		if rem.Sign() > 0 {
			q.Add(q, big.NewInt(1))
		} else {
			q.Sub(q, big.NewInt(1))
		}
	}
	return decimal.NewFromBigInt(q, -p.Places)
}

// awayFromZero decides whether a truncated quotient q with non-zero
// remainder rem/den must move one unit away from zero.
func (p Policy) awayFromZero(q, rem, den *big.Int) bool {
	if p.Mode == Down {
		return false
	}
	twice := new(big.Int).Abs(rem)
	twice.Lsh(twice, 1)
	switch twice.Cmp(den) {
	case 1:
		return true
	case -1:
		return false
	}
	// exact tie
	if p.Mode == HalfEven {
		return q.Bit(0) == 1
	}
	return true
}

// Check fails fast on amounts the policy cannot represent exactly.
//
// It works on the coefficient and exponent only: comparing against a rescaled
// value would materialize 10^|exponent|, which a short input like "1e-50000000"
// turns into millions of digits.
func (p Policy) Check(d decimal.Decimal) error {
	if d.IsZero() {
		return nil
	}

	digits := strings.TrimLeft(d.Coefficient().String(), "-")
	trimmed := strings.TrimRight(digits, "0")
	exp := int64(d.Exponent()) + int64(len(digits)-len(trimmed))

	if exp < -int64(p.Places) {
		return fmt.Errorf("%w: %s (max %d)", ErrTooPrecise, p.describe(d, len(digits)), p.Places)
	}
	if int64(len(trimmed))+exp > int64(p.MaxDigits-p.Places) {
		return fmt.Errorf("%w: %s (max %d digits)", ErrOutOfRange, p.describe(d, len(digits)), p.MaxDigits)
	}
	return nil
}

// describe renders d for an error message without expanding huge exponents.
func (p Policy) describe(d decimal.Decimal, numDigits int) string {
	exp := int64(d.Exponent())
	if exp < 0 {
		exp = -exp
	}
	if int64(numDigits)+exp <= int64(2*p.MaxDigits) {
		return d.String()
	}
	return fmt.Sprintf("%d-digit amount with exponent %d", numDigits, d.Exponent())
}

// Format renders d with exactly Places fractional digits.
func (p Policy) Format(d decimal.Decimal) string {
	return p.Round(d).StringFixed(p.Places)
}

func pow10(n int32) *big.Int {
	return new(big.Int).Exp(big.NewInt(10), big.NewInt(int64(n)), nil)
}
