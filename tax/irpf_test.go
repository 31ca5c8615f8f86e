package tax

import (
	"testing"
	"time"

	"github.com/b3ledger/core/bizdate"
	"github.com/b3ledger/core/model"
	"github.com/b3ledger/core/money"
	"github.com/stretchr/testify/require"
)

func TestBuildIRPFReportThreeSections(t *testing.T) {
	rq := require.New(t)
	stockSwing := model.NewTaxCategory(model.KindStock, model.RegimeSwing, model.VintageNone)
	monthly := map[int]map[string]MonthlyResult{
		3: {
			string(stockSwing): {
				Year: 2025, Month: 3, Category: string(stockSwing),
				GrossSales: money.RequireFromString("15000"),
				NetProfit:  money.RequireFromString("800"),
				ExemptionApplied: true,
				TaxDue:     money.Zero,
			},
		},
	}
	snapshots := []model.PositionSnapshot{
		{AssetID: "PETR4", Quantity: money.RequireFromString("100"), AverageCost: money.RequireFromString("30.00")},
	}
	exDate := bizdate.New(2025, time.May, 1)
	income := []model.IncomeEvent{
		{AssetID: "ITSA4", EventDate: exDate, Kind: model.IncomeDividend, TotalAmount: money.RequireFromString("120.00")},
		{AssetID: "HGLG11", EventDate: exDate, Kind: model.IncomeJCP, TotalAmount: money.RequireFromString("100.00"), WithholdingTax: money.RequireFromString("15.00")},
	}

	report := BuildIRPFReport(2025, monthly, snapshots, income, nil)

	rq.Len(report.Monthly, 1)
	rq.Equal(3, report.Monthly[0].Month)
	rq.Equal("Março", report.Monthly[0].MonthName)

	rq.Len(report.BensEDireitos, 1)
	rq.Equal("3000", report.BensEDireitos[0].TotalCost.String())

	rq.Len(report.Isentos, 2) // exempt swing gain + dividend
	rq.Len(report.Exclusiva, 1)
	rq.Equal("85", report.Exclusiva[0].NetAmount.String())
}
