package integrity

import (
	"testing"
	"time"

	"github.com/b3ledger/core/bizdate"
	"github.com/b3ledger/core/costbasis"
	"github.com/b3ledger/core/model"
	"github.com/b3ledger/core/money"
	"github.com/b3ledger/core/overlay"
	"github.com/stretchr/testify/require"
)

func buyTx(id string, date bizdate.Date, qty, price string) model.Transaction {
	q := money.RequireFromString(qty)
	p := money.RequireFromString(price)
	return model.Transaction{ID: id, AssetID: "PETR4", Side: model.Buy, TradeDate: date, Quantity: q, PricePerUnit: p, TotalCost: q.MustMul(p)}
}

func sellTx(id string, date bizdate.Date, qty, price string) model.Transaction {
	q := money.RequireFromString(qty)
	p := money.RequireFromString(price)
	return model.Transaction{ID: id, AssetID: "PETR4", Side: model.Sell, TradeDate: date, Quantity: q, PricePerUnit: p, TotalCost: q.MustMul(p)}
}

func TestCheckBasisConservationPasses(t *testing.T) {
	rq := require.New(t)
	d1 := bizdate.New(2025, time.January, 1)
	d2 := bizdate.New(2025, time.June, 1)
	txs := []model.Transaction{buyTx("1", d1, "100", "10"), sellTx("2", d2, "40", "12")}

	result, err := overlay.Apply(txs, nil)
	rq.NoError(err)

	gains := []costbasis.RealizedGain{
		{SaleDate: d2, AssetID: "PETR4", TransactionID: "2", QuantitySold: money.RequireFromString("40"), CostBasis: money.RequireFromString("400"), Proceeds: money.RequireFromString("480"), Gain: money.RequireFromString("80")},
	}

	violations := CheckBasisConservation("PETR4", result, gains)
	rq.Empty(violations)
}

func TestCheckBasisConservationDetectsMismatch(t *testing.T) {
	rq := require.New(t)
	d1 := bizdate.New(2025, time.January, 1)
	txs := []model.Transaction{buyTx("1", d1, "100", "10")}
	result, err := overlay.Apply(txs, nil)
	rq.NoError(err)

	badGains := []costbasis.RealizedGain{
		{SaleDate: d1, AssetID: "PETR4", TransactionID: "phantom", CostBasis: money.RequireFromString("999")},
	}
	violations := CheckBasisConservation("PETR4", result, badGains)
	rq.Len(violations, 1)
	rq.Equal("basis_conservation", violations[0].Invariant)
}

func TestCheckNonNegativeQuantityPasses(t *testing.T) {
	rq := require.New(t)
	d1 := bizdate.New(2025, time.January, 1)
	d2 := bizdate.New(2025, time.June, 1)
	txs := []model.Transaction{buyTx("1", d1, "100", "10"), sellTx("2", d2, "40", "12")}
	result, err := overlay.Apply(txs, nil)
	rq.NoError(err)
	rq.Empty(CheckNonNegativeQuantity("PETR4", result))
}

func TestCheckTaxReconciliationDetectsMismatch(t *testing.T) {
	rq := require.New(t)
	gains := []costbasis.RealizedGain{{Proceeds: money.RequireFromString("100")}}
	violations := CheckTaxReconciliation("STOCK_SWING", money.RequireFromString("150"), gains)
	rq.Len(violations, 1)
	rq.Equal("tax_reconciliation", violations[0].Invariant)
}

func TestCheckTaxReconciliationPasses(t *testing.T) {
	rq := require.New(t)
	gains := []costbasis.RealizedGain{{Proceeds: money.RequireFromString("100")}, {Proceeds: money.RequireFromString("50")}}
	rq.Empty(CheckTaxReconciliation("STOCK_SWING", money.RequireFromString("150"), gains))
}

func TestCheckLossCarryforwardsNonNegativeDetectsViolation(t *testing.T) {
	rq := require.New(t)
	rows := []model.LossCarryforward{
		{Year: 2025, Month: 1, TaxCategory: "STOCK_SWING", RemainingAmount: money.RequireFromString("-10")},
		{Year: 2025, Month: 2, TaxCategory: "STOCK_SWING", RemainingAmount: money.RequireFromString("0")},
	}
	violations := CheckLossCarryforwardsNonNegative(rows)
	rq.Len(violations, 1)
}

func TestAsLedgerErrorNilWhenEmpty(t *testing.T) {
	rq := require.New(t)
	rq.NoError(AsLedgerError(nil))
}

func TestAsLedgerErrorWrapsViolations(t *testing.T) {
	rq := require.New(t)
	err := AsLedgerError([]Violation{{Invariant: "x", AssetID: "PETR4", Detail: "boom"}})
	rq.Error(err)
	rq.Contains(err.Error(), "1 invariant violation")
}
