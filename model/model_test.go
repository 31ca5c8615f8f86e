package model

import (
	"testing"
	"time"

	"github.com/b3ledger/core/bizdate"
	"github.com/b3ledger/core/money"
	"github.com/stretchr/testify/require"
)

func TestComputeTotalCostBuyAddsFees(t *testing.T) {
	rq := require.New(t)
	qty := money.RequireFromString("100")
	price := money.RequireFromString("10.00")
	fees := money.RequireFromString("5.00")

	total, err := ComputeTotalCost(Buy, qty, price, fees)
	rq.NoError(err)
	rq.Equal("1005", total.String())
}

func TestComputeTotalCostSellSubtractsFees(t *testing.T) {
	rq := require.New(t)
	qty := money.RequireFromString("100")
	price := money.RequireFromString("10.00")
	fees := money.RequireFromString("5.00")

	total, err := ComputeTotalCost(Sell, qty, price, fees)
	rq.NoError(err)
	rq.Equal("995", total.String())
}

func tx(id string, side Side, date bizdate.Date, qty string) Transaction {
	return Transaction{
		ID:        id,
		AssetID:   "PETR4",
		Side:      side,
		TradeDate: date,
		Quantity:  money.RequireFromString(qty),
	}
}

func TestDeriveDayTradeMatchesOppositeSides(t *testing.T) {
	rq := require.New(t)
	d := bizdate.New(2026, time.March, 10)
	txs := []Transaction{
		tx("1", Buy, d, "100"),
		tx("2", Sell, d, "100"),
	}
	DeriveDayTrade(txs)
	rq.True(txs[0].IsDayTrade)
	rq.True(txs[1].IsDayTrade)
}

func TestDeriveDayTradeNoMatchDifferentDates(t *testing.T) {
	rq := require.New(t)
	d1 := bizdate.New(2026, time.March, 10)
	d2 := bizdate.New(2026, time.March, 11)
	txs := []Transaction{
		tx("1", Buy, d1, "100"),
		tx("2", Sell, d2, "100"),
	}
	DeriveDayTrade(txs)
	rq.False(txs[0].IsDayTrade)
	rq.False(txs[1].IsDayTrade)
}

func TestDeriveDayTradeSameSideNoMatch(t *testing.T) {
	rq := require.New(t)
	d := bizdate.New(2026, time.March, 10)
	txs := []Transaction{
		tx("1", Buy, d, "100"),
		tx("2", Buy, d, "50"),
	}
	DeriveDayTrade(txs)
	rq.False(txs[0].IsDayTrade)
	rq.False(txs[1].IsDayTrade)
}

func TestNewTaxCategoryFundSplitsByVintage(t *testing.T) {
	rq := require.New(t)
	rq.Equal(TaxCategory("FII/SWING/PRE_2026"), NewTaxCategory(KindFII, RegimeSwing, VintagePre2026))
	rq.Equal(TaxCategory("STOCK/DAY"), NewTaxCategory(KindStock, RegimeDay, VintageNone))
	rq.True(IsFundCategory(KindFIAGRO))
	rq.False(IsFundCategory(KindStock))
}
