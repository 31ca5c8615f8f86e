package snapshot

import (
	"testing"
	"time"

	"github.com/b3ledger/core/bizdate"
	"github.com/b3ledger/core/model"
	"github.com/b3ledger/core/money"
	"github.com/stretchr/testify/require"
)

func tx(id string, date bizdate.Date) model.Transaction {
	q := money.RequireFromString("10")
	p := money.RequireFromString("5")
	return model.Transaction{ID: id, AssetID: "PETR4", Side: model.Buy, TradeDate: date, Quantity: q, PricePerUnit: p, TotalCost: q.MustMul(p)}
}

func TestFingerprintStableUnderReordering(t *testing.T) {
	rq := require.New(t)
	d := bizdate.New(2025, time.March, 1)
	a := tx("1", d)
	b := tx("2", d)

	fp1 := Fingerprint(d, []model.Transaction{a, b}, nil, nil)
	fp2 := Fingerprint(d, []model.Transaction{b, a}, nil, nil)
	rq.Equal(fp1, fp2)
}

func TestFingerprintChangesWithNewData(t *testing.T) {
	rq := require.New(t)
	d := bizdate.New(2025, time.March, 1)
	a := tx("1", d)
	c := tx("3", d)

	fp1 := Fingerprint(d, []model.Transaction{a}, nil, nil)
	fp2 := Fingerprint(d, []model.Transaction{a, c}, nil, nil)
	rq.NotEqual(fp1, fp2)
}

func TestFingerprintStableAcrossAsOfRepeats(t *testing.T) {
	rq := require.New(t)
	d := bizdate.New(2025, time.March, 1)
	a := tx("1", d)

	fp1 := Fingerprint(d, []model.Transaction{a}, nil, nil)
	fp2 := Fingerprint(d, []model.Transaction{a}, nil, nil)
	rq.Equal(fp1, fp2)
}
