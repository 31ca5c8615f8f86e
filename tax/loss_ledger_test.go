package tax

import (
	"testing"

	"github.com/b3ledger/core/model"
	"github.com/b3ledger/core/money"
	"github.com/stretchr/testify/require"
)

func TestLossLedgerConsumeFIFO(t *testing.T) {
	rq := require.New(t)
	stockSwing := "STOCK/SWING"
	ledger := NewLossLedger([]model.LossCarryforward{
		{Year: 2024, Month: 11, TaxCategory: stockSwing, LossAmount: money.RequireFromString("100"), RemainingAmount: money.RequireFromString("100")},
		{Year: 2025, Month: 1, TaxCategory: stockSwing, LossAmount: money.RequireFromString("50"), RemainingAmount: money.RequireFromString("50")},
	})

	remaining, applied := ledger.Consume(stockSwing, money.RequireFromString("120"))
	rq.True(remaining.IsZero())
	rq.Equal("120", applied.String())
	// oldest (2024-11) fully consumed first, then 20 of the 2025-01 row
	rq.Equal("30", ledger.RemainingByCategory(stockSwing).String())
}

func TestLossLedgerConsumeNonPositiveProfitIsNoop(t *testing.T) {
	rq := require.New(t)
	ledger := NewLossLedger(nil)
	remaining, applied := ledger.Consume("STOCK/SWING", money.RequireFromString("-50"))
	rq.Equal("-50", remaining.String())
	rq.True(applied.IsZero())
}

func TestLossLedgerRecordThenConsume(t *testing.T) {
	rq := require.New(t)
	ledger := NewLossLedger(nil)
	ledger.Record(2025, 2, "STOCK/DAY", money.RequireFromString("200"))
	remaining, applied := ledger.Consume("STOCK/DAY", money.RequireFromString("300"))
	rq.Equal("100", remaining.String())
	rq.Equal("200", applied.String())
}

func TestLossLedgerDoesNotBleedAcrossCategories(t *testing.T) {
	rq := require.New(t)
	ledger := NewLossLedger(nil)
	ledger.Record(2025, 2, "STOCK/DAY", money.RequireFromString("200"))
	remaining, applied := ledger.Consume("STOCK/SWING", money.RequireFromString("300"))
	rq.Equal("300", remaining.String())
	rq.True(applied.IsZero())
}
