package money

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestAddSub(t *testing.T) {
	rq := require.New(t)

	a := RequireFromString("100.00")
	b := RequireFromString("50.50")

	sum, err := a.Add(b)
	rq.NoError(err)
	rq.Equal("150.5", sum.String())

	diff, err := a.Sub(b)
	rq.NoError(err)
	rq.Equal("49.5", diff.String())
}

func TestCanonicalRoundTrip(t *testing.T) {
	rq := require.New(t)

	intForm := RequireFromString("50")
	realForm := RequireFromString("50.00")

	rq.True(intForm.Equal(realForm))
}

func TestDivBankersRounding(t *testing.T) {
	rq := require.New(t)

	// Average cost scenario from §8.2.1: (100*10.00 + 50*15.00) / 150
	// = 1750 / 150 = 11.666... rounded to 11.67.
	totalCost := RequireFromString("1750.00")
	qty := RequireFromString("150")

	avg, err := totalCost.Div(qty)
	rq.NoError(err)
	rq.Equal("11.67", avg.Round(2, RoundHalfEven).String())
}

func TestDivisionByZero(t *testing.T) {
	rq := require.New(t)
	_, err := RequireFromString("1").Div(Zero)
	rq.Error(err)
}

func TestOverflow(t *testing.T) {
	rq := require.New(t)
	huge := "1" // plus 16 zeros below: 17 integer digits, over the 15-digit budget
	for i := 0; i < 16; i++ {
		huge += "0"
	}
	_, err := NewFromString(huge)
	rq.Error(err)
	rq.ErrorAs(err, new(ErrOverflowWrapper))
}

// ErrOverflowWrapper is an alias of ErrOverflow used as the errors.As
// target; NewFromString returns the ErrOverflow from New unwrapped.
type ErrOverflowWrapper = ErrOverflow

func TestRoundModes(t *testing.T) {
	rq := require.New(t)
	v := RequireFromString("2.345")

	rq.Equal("2.34", v.Round(2, RoundHalfEven).String())
	rq.Equal("2.35", v.Round(2, RoundHalfUp).String())
	rq.Equal("2.34", v.Round(2, RoundDown).String())
	rq.Equal("2.35", v.Round(2, RoundUp).String())
}

func TestMaxMin(t *testing.T) {
	rq := require.New(t)
	a := RequireFromString("10")
	b := RequireFromString("20")
	rq.True(Max(a, b).Equal(b))
	rq.True(Min(a, b).Equal(a))
}
