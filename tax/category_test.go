package tax

import (
	"testing"
	"time"

	"github.com/b3ledger/core/bizdate"
	"github.com/b3ledger/core/costbasis"
	"github.com/b3ledger/core/model"
	"github.com/b3ledger/core/money"
	"github.com/stretchr/testify/require"
)

func TestCategorizeSplitsDayAndSwingPortions(t *testing.T) {
	rq := require.New(t)
	d := bizdate.New(2025, time.March, 10)
	g := costbasis.RealizedGain{
		SaleDate: d, AssetID: "PETR4", TransactionID: "tx1",
		QuantitySold: money.RequireFromString("100"),
		CostBasis:    money.RequireFromString("1000"),
		Proceeds:     money.RequireFromString("1200"),
		Gain:         money.RequireFromString("200"),
		DayTradeQty:  money.RequireFromString("40"),
		SwingQty:     money.RequireFromString("60"),
	}
	asset := model.Asset{ID: "PETR4", Kind: model.KindStock}

	portions, err := Categorize(g, asset, model.Transaction{})
	rq.NoError(err)
	rq.Len(portions, 2)

	var day, swing *CategorizedGain
	for i := range portions {
		switch portions[i].Category {
		case model.NewTaxCategory(model.KindStock, model.RegimeDay, model.VintageNone):
			day = &portions[i]
		case model.NewTaxCategory(model.KindStock, model.RegimeSwing, model.VintageNone):
			swing = &portions[i]
		}
	}
	rq.NotNil(day)
	rq.NotNil(swing)
	rq.Equal("40", day.Quantity.String())
	rq.Equal("60", swing.Quantity.String())
	// proceeds/cost split proportionally: day gets 40/100 of 1200 and 1000
	rq.Equal("480", day.Proceeds.String())
	rq.Equal("400", day.CostBasis.String())
}

func TestCategorizeFundVintageFromEarliestBuy(t *testing.T) {
	rq := require.New(t)
	d := bizdate.New(2026, time.January, 5)
	g := costbasis.RealizedGain{
		SaleDate: d, AssetID: "HGLG11", TransactionID: "tx1",
		QuantitySold: money.RequireFromString("10"),
		CostBasis:    money.RequireFromString("1000"),
		Proceeds:     money.RequireFromString("1100"),
		Gain:         money.RequireFromString("100"),
		DayTradeQty:  money.Zero,
		SwingQty:     money.RequireFromString("10"),
	}
	asset := model.Asset{ID: "HGLG11", Kind: model.KindFII}
	issuance := bizdate.New(2024, time.June, 1)
	earliestBuy := model.Transaction{QuotaIssuanceDate: &issuance}

	portions, err := Categorize(g, asset, earliestBuy)
	rq.NoError(err)
	rq.Len(portions, 1)
	rq.Equal(model.NewTaxCategory(model.KindFII, model.RegimeSwing, model.VintagePre2026), portions[0].Category)
}

func TestCategorizeSkipsZeroPortion(t *testing.T) {
	rq := require.New(t)
	d := bizdate.New(2025, time.March, 10)
	g := costbasis.RealizedGain{
		SaleDate: d, AssetID: "PETR4", TransactionID: "tx1",
		QuantitySold: money.RequireFromString("60"),
		CostBasis:    money.RequireFromString("600"),
		Proceeds:     money.RequireFromString("660"),
		Gain:         money.RequireFromString("60"),
		DayTradeQty:  money.Zero,
		SwingQty:     money.RequireFromString("60"),
	}
	asset := model.Asset{ID: "PETR4", Kind: model.KindStock}

	portions, err := Categorize(g, asset, model.Transaction{})
	rq.NoError(err)
	rq.Len(portions, 1)
	rq.Equal(model.NewTaxCategory(model.KindStock, model.RegimeSwing, model.VintageNone), portions[0].Category)
}
