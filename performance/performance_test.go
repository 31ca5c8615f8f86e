package performance

import (
	"context"
	"testing"
	"time"

	"github.com/b3ledger/core/bizdate"
	"github.com/b3ledger/core/costbasis"
	"github.com/b3ledger/core/model"
	"github.com/b3ledger/core/money"
	"github.com/b3ledger/core/portfolio"
	"github.com/stretchr/testify/require"
)

func TestEvaluateNoCashFlowsFallsBackToSimpleReturn(t *testing.T) {
	rq := require.New(t)
	start := bizdate.New(2025, time.January, 1)
	end := bizdate.New(2025, time.December, 31)

	values := map[string]money.Amount{
		start.String(): money.RequireFromString("1000"),
		end.String():   money.RequireFromString("1200"),
	}
	valueAt := func(ctx context.Context, d bizdate.Date) (money.Amount, error) {
		return values[d.String()], nil
	}

	report, err := Evaluate(context.Background(), start, end, valueAt, nil, nil, portfolio.PortfolioReport{})
	rq.NoError(err)
	rq.Equal("1000", report.StartValue.String())
	rq.Equal("1200", report.EndValue.String())
	rq.Equal("200", report.TotalReturn.String())
	rq.Equal("0.2", report.TWR.String())
}

func TestEvaluateWithCashFlowPartitionsTWR(t *testing.T) {
	rq := require.New(t)
	start := bizdate.New(2025, time.January, 1)
	mid := bizdate.New(2025, time.June, 1)
	end := bizdate.New(2025, time.December, 31)

	values := map[string]money.Amount{
		start.String(): money.RequireFromString("1000"),
		mid.String():   money.RequireFromString("1100"),
		end.String():   money.RequireFromString("1320"),
	}
	valueAt := func(ctx context.Context, d bizdate.Date) (money.Amount, error) {
		return values[d.String()], nil
	}
	cashFlows := []model.CashFlow{
		{FlowDate: mid, Kind: model.CashContribution, Amount: money.RequireFromString("100")},
	}

	report, err := Evaluate(context.Background(), start, end, valueAt, cashFlows, nil, portfolio.PortfolioReport{})
	rq.NoError(err)
	// sub-period 1: (1100-100-1000)/1000 = 0.0 ; sub-period 2: (1320-1100)/1100 = 0.2
	// twr = (1+0.0)*(1+0.2) - 1 = 0.2
	rq.Equal("0.2", report.TWR.String())
}

func TestEvaluateSumsRealizedGainsInRange(t *testing.T) {
	rq := require.New(t)
	start := bizdate.New(2025, time.January, 1)
	end := bizdate.New(2025, time.December, 31)
	inRange := bizdate.New(2025, time.May, 5)
	outOfRange := bizdate.New(2026, time.January, 5)

	valueAt := func(ctx context.Context, d bizdate.Date) (money.Amount, error) {
		return money.Zero, nil
	}
	gains := []costbasis.RealizedGain{
		{SaleDate: inRange, Gain: money.RequireFromString("50")},
		{SaleDate: outOfRange, Gain: money.RequireFromString("999")},
	}

	report, err := Evaluate(context.Background(), start, end, valueAt, nil, gains, portfolio.PortfolioReport{})
	rq.NoError(err)
	rq.Equal("50", report.RealizedGains.String())
}

func TestParsePeriodNamedAndCustom(t *testing.T) {
	rq := require.New(t)
	today := bizdate.New(2025, time.March, 15)
	earliest := bizdate.New(2020, time.January, 1)

	s, e, err := ParsePeriod("YTD", today, earliest)
	rq.NoError(err)
	rq.Equal(bizdate.New(2025, time.January, 1), s)
	rq.Equal(today, e)

	s, e, err = ParsePeriod("2024", today, earliest)
	rq.NoError(err)
	rq.Equal(bizdate.New(2024, time.January, 1), s)
	rq.Equal(bizdate.New(2024, time.December, 31), e)

	s, e, err = ParsePeriod("2024-06:2024-08-15", today, earliest)
	rq.NoError(err)
	rq.Equal(bizdate.New(2024, time.June, 1), s)
	rq.Equal(bizdate.New(2024, time.August, 15), e)
}
