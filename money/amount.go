// Package money implements the fixed-scale decimal kernel used for every
// monetary and quantity value in the engine. It wraps shopspring/decimal
// the same way the reference codebase's decimal_value package wraps it:
// a thin, nil-propagating arithmetic layer, except here arithmetic never
// silently propagates an invalid value — it returns an error instead.
package money

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// MaxIntegerDigits and MaxFractionalDigits describe the precision budget
// from §4.A: at least 15 integer and 4 fractional digits. MaxFractionalDigits
// leaves six fractional digits of headroom for intermediate division
// results before callers round to their target scale. Only the integer
// bound is enforced (checkOverflow); fractional digits are not checked.
const (
	MaxIntegerDigits    = 15
	MaxFractionalDigits = 10
)

// DefaultDivisionPrecision is the number of fractional digits a Div result
// is rounded to before being returned, per the `decimal_division_precision`
// configuration knob (§6.5). Callers needing a different precision should
// use DivPrecision.
const DefaultDivisionPrecision = 10

// ErrOverflow is the taxonomy's DecimalOverflow condition: an arithmetic
// result whose magnitude exceeds the precision budget.
type ErrOverflow struct {
	Op    string
	Value string
}

func (e ErrOverflow) Error() string {
	return fmt.Sprintf("money: %s result %s exceeds precision budget (%d integer digits)",
		e.Op, e.Value, MaxIntegerDigits)
}

// Amount is a signed fixed-point decimal value. The zero value is zero.
type Amount struct {
	d decimal.Decimal
}

// Zero is the additive identity.
var Zero = Amount{d: decimal.Zero}

// New wraps a shopspring/decimal value, checking it against the precision
// budget.
func New(d decimal.Decimal) (Amount, error) {
	a := Amount{d: d}
	if err := a.checkOverflow("New"); err != nil {
		return Amount{}, err
	}
	return a, nil
}

// NewFromInt builds an exact Amount from an integer.
func NewFromInt(v int64) Amount {
	return Amount{d: decimal.NewFromInt(v)}
}

// NewFromString parses a decimal string (integer or real form). Both forms
// decode to the same Amount for the same numeric value, satisfying the
// canonical round-trip requirement of §4.A.
func NewFromString(s string) (Amount, error) {
	d, err := decimal.NewFromString(s)
	if err != nil {
		return Amount{}, fmt.Errorf("money: invalid decimal string %q: %w", s, err)
	}
	return New(d)
}

// RequireFromString panics on a malformed string. Reserved for literals in
// tests and default configuration, never for external input.
func RequireFromString(s string) Amount {
	a, err := NewFromString(s)
	if err != nil {
		panic(err)
	}
	return a
}

func (a Amount) checkOverflow(op string) error {
	if a.d.IsZero() {
		return nil
	}
	intDigits := len(a.d.Abs().Truncate(0).String())
	if a.d.Sign() < 0 {
		intDigits--
	}
	if intDigits > MaxIntegerDigits {
		return ErrOverflow{Op: op, Value: a.d.String()}
	}
	return nil
}

// Decimal exposes the underlying shopspring/decimal value for callers that
// need to interoperate with other decimal-aware libraries (e.g. the store
// layer's driver bindings).
func (a Amount) Decimal() decimal.Decimal { return a.d }

// String returns the canonical, lossless decimal string representation
// used for persistence and fingerprinting.
func (a Amount) String() string { return a.d.String() }

// StringFixed renders the amount rounded to the given number of decimal
// places, for display purposes only (never for persistence).
func (a Amount) StringFixed(places int32) string { return a.d.StringFixed(places) }

func (a Amount) Add(b Amount) (Amount, error) {
	return New(a.d.Add(b.d))
}

func (a Amount) Sub(b Amount) (Amount, error) {
	return New(a.d.Sub(b.d))
}

func (a Amount) Mul(b Amount) (Amount, error) {
	return New(a.d.Mul(b.d))
}

// Div divides using DefaultDivisionPrecision fractional digits, rounded
// half-even (banker's rounding), per §4.A. Division by zero returns an
// error rather than a sentinel value.
func (a Amount) Div(b Amount) (Amount, error) {
	return a.DivPrecision(b, DefaultDivisionPrecision)
}

// DivPrecision divides rounding half-even to the given number of fractional
// digits, honoring the configurable `decimal_division_precision` knob.
func (a Amount) DivPrecision(b Amount, precision int32) (Amount, error) {
	if b.d.IsZero() {
		return Amount{}, fmt.Errorf("money: division by zero")
	}
	q, r := a.d.QuoRem(b.d, precision)
	// q is truncated toward zero; round half-even by comparing 2*|r| with
	// |b| scaled to one unit of the last kept digit.
	step := decimal.New(1, -precision)
	c := r.Abs().Mul(decimal.NewFromInt(2)).Cmp(b.d.Abs().Mul(step))
	if c > 0 || (c == 0 && q.Shift(precision).BigInt().Bit(0) == 1) {
		if a.d.Sign()*b.d.Sign() < 0 {
			q = q.Sub(step)
		} else {
			q = q.Add(step)
		}
	}
	return New(q)
}

func (a Amount) Neg() Amount { return Amount{d: a.d.Neg()} }

func (a Amount) Abs() Amount { return Amount{d: a.d.Abs()} }

// Sign returns -1, 0, or 1.
func (a Amount) Sign() int { return a.d.Sign() }

func (a Amount) IsZero() bool { return a.d.IsZero() }

func (a Amount) IsPositive() bool { return a.d.Sign() > 0 }

func (a Amount) IsNegative() bool { return a.d.Sign() < 0 }

func (a Amount) Equal(b Amount) bool { return a.d.Equal(b.d) }

func (a Amount) GreaterThan(b Amount) bool { return a.d.GreaterThan(b.d) }

func (a Amount) GreaterThanOrEqual(b Amount) bool { return a.d.GreaterThanOrEqual(b.d) }

func (a Amount) LessThan(b Amount) bool { return a.d.LessThan(b.d) }

func (a Amount) LessThanOrEqual(b Amount) bool { return a.d.LessThanOrEqual(b.d) }

// Max returns the greater of a and b.
func Max(a, b Amount) Amount {
	if a.GreaterThan(b) {
		return a
	}
	return b
}

// Min returns the lesser of a and b.
func Min(a, b Amount) Amount {
	if a.LessThan(b) {
		return a
	}
	return b
}

// RoundMode mirrors the rounding modes an implementation must support for
// Round (§4.A: "round(scale, mode)").
type RoundMode int

const (
	// RoundHalfEven is banker's rounding, the default for division.
	RoundHalfEven RoundMode = iota
	RoundHalfUp
	RoundDown
	RoundUp
)

// Round rounds to the given number of fractional digits using the given
// mode.
func (a Amount) Round(places int32, mode RoundMode) Amount {
	switch mode {
	case RoundHalfUp:
		return Amount{d: a.d.Round(places)}
	case RoundDown:
		return Amount{d: a.d.Truncate(places)}
	case RoundUp:
		return Amount{d: roundUp(a.d, places)}
	default:
		return Amount{d: a.d.RoundBank(places)}
	}
}

func roundUp(d decimal.Decimal, places int32) decimal.Decimal {
	truncated := d.Truncate(places)
	if truncated.Equal(d) {
		return truncated
	}
	step := decimal.New(1, -places)
	if d.Sign() < 0 {
		return truncated.Sub(step)
	}
	return truncated.Add(step)
}

// MustAdd/MustSub/MustMul/MustDiv panic on overflow/division-by-zero.
// Reserved for call sites operating on values already validated upstream
// (e.g. folding known-good persisted rows), never for arithmetic on raw
// external input.
func (a Amount) MustAdd(b Amount) Amount { return must(a.Add(b)) }
func (a Amount) MustSub(b Amount) Amount { return must(a.Sub(b)) }
func (a Amount) MustMul(b Amount) Amount { return must(a.Mul(b)) }
func (a Amount) MustDiv(b Amount) Amount { return must(a.Div(b)) }

func must(a Amount, err error) Amount {
	if err != nil {
		panic(err)
	}
	return a
}
