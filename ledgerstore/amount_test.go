package ledgerstore

import (
	"testing"

	"github.com/b3ledger/core/money"
	"github.com/stretchr/testify/require"
)

func TestDecodeAmountRoundTrip(t *testing.T) {
	rq := require.New(t)
	a, err := decodeAmount("1750.00")
	rq.NoError(err)
	rq.Equal("1750", a.String())
}

func TestDecodeAmountRejectsGarbage(t *testing.T) {
	rq := require.New(t)
	_, err := decodeAmount("not-a-number")
	rq.Error(err)
}

func TestDecodeAmountPtrNil(t *testing.T) {
	rq := require.New(t)
	p, err := decodeAmountPtr(nil)
	rq.NoError(err)
	rq.Nil(p)
}

func TestAmountArgNilAndValue(t *testing.T) {
	rq := require.New(t)
	rq.Nil(amountArg(nil))
	a := money.RequireFromString("10.5")
	rq.Equal("10.5", amountArg(&a))
}
