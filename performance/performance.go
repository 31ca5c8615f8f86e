package performance

import (
	"context"
	"sort"

	"github.com/b3ledger/core/bizdate"
	"github.com/b3ledger/core/costbasis"
	"github.com/b3ledger/core/model"
	"github.com/b3ledger/core/money"
	"github.com/b3ledger/core/portfolio"
)

// ValueFunc resolves the total portfolio value as of a date. The engine
// backs it with PortfolioAt's Summary.TotalCost (cost basis), whether or
// not a price source is available; TotalMarketValue is not used.
type ValueFunc func(ctx context.Context, asOf bizdate.Date) (money.Amount, error)

// Report is the §4.I PerformanceReport.
type Report struct {
	Start           bizdate.Date
	End             bizdate.Date
	StartValue      money.Amount
	EndValue        money.Amount
	RealizedGains   money.Amount
	UnrealizedGains money.Amount
	TotalReturn     money.Amount
	TWR             money.Amount
	ByAssetKind     map[model.AssetKind]money.Amount
}

// Evaluate computes the §4.I PerformanceReport for [start, end].
// valueAt supplies portfolio value at an arbitrary date (§4.H snapshots,
// created on demand). realizedGains is every RealizedGain across all
// assets; only those with SaleDate in [start, end] are summed.
// endPositions is the as-of-end PortfolioReport, used for the
// unrealized-gains total and the by-asset-kind breakdown. cashFlows
// partitions the period for the TWR computation (§4.I).
func Evaluate(ctx context.Context, start, end bizdate.Date, valueAt ValueFunc, cashFlows []model.CashFlow, realizedGains []costbasis.RealizedGain, endPositions portfolio.PortfolioReport) (Report, error) {
	startValue, err := valueAt(ctx, start)
	if err != nil {
		return Report{}, err
	}
	endValue, err := valueAt(ctx, end)
	if err != nil {
		return Report{}, err
	}

	realized := money.Zero
	for _, g := range realizedGains {
		if !g.SaleDate.Before(start) && !g.SaleDate.After(end) {
			realized = realized.MustAdd(g.Gain)
		}
	}

	unrealized := money.Zero
	byKind := map[model.AssetKind]money.Amount{}
	for _, row := range endPositions.Positions {
		if row.UnrealizedPL != nil {
			unrealized = unrealized.MustAdd(*row.UnrealizedPL)
			byKind[row.Asset.Kind] = byKind[row.Asset.Kind].MustAdd(*row.UnrealizedPL)
		}
	}

	twr, err := timeWeightedReturn(ctx, start, end, startValue, endValue, valueAt, cashFlows)
	if err != nil {
		return Report{}, err
	}

	totalReturn := endValue.MustSub(startValue)

	return Report{
		Start: start, End: end,
		StartValue: startValue, EndValue: endValue,
		RealizedGains:   realized,
		UnrealizedGains: unrealized,
		TotalReturn:     totalReturn,
		TWR:             twr,
		ByAssetKind:     byKind,
	}, nil
}

// timeWeightedReturn implements §4.I: partition [start, end] at every
// cash-flow date within range, compute each sub-period's simple return
// adjusted for the flow, and chain them multiplicatively. With no
// in-range flows it reduces to the plain total-return ratio.
func timeWeightedReturn(ctx context.Context, start, end bizdate.Date, startValue, endValue money.Amount, valueAt ValueFunc, cashFlows []model.CashFlow) (money.Amount, error) {
	var boundaries []bizdate.Date
	var flowAt = map[string]money.Amount{}
	for _, cf := range cashFlows {
		if cf.FlowDate.Before(start) || cf.FlowDate.After(end) || cf.FlowDate.Equal(start) || cf.FlowDate.Equal(end) {
			continue
		}
		key := cf.FlowDate.String()
		signed := cf.Amount
		if cf.Kind == model.CashWithdrawal {
			signed = signed.Neg()
		}
		if existing, ok := flowAt[key]; ok {
			flowAt[key] = existing.MustAdd(signed)
		} else {
			flowAt[key] = signed
			boundaries = append(boundaries, cf.FlowDate)
		}
	}

	if len(boundaries) == 0 {
		if startValue.IsZero() {
			return money.Zero, nil
		}
		return endValue.MustSub(startValue).MustDiv(startValue), nil
	}

	sort.Slice(boundaries, func(i, j int) bool { return boundaries[i].Before(boundaries[j]) })

	points := append([]bizdate.Date{start}, boundaries...)
	points = append(points, end)

	product := money.RequireFromString("1")
	for i := 0; i < len(points)-1; i++ {
		periodStart, periodEnd := points[i], points[i+1]

		vStart := startValue
		if i > 0 {
			var err error
			vStart, err = valueAt(ctx, periodStart)
			if err != nil {
				return money.Zero, err
			}
		}
		vEnd := endValue
		if i < len(points)-2 {
			var err error
			vEnd, err = valueAt(ctx, periodEnd)
			if err != nil {
				return money.Zero, err
			}
		}

		flow := money.Zero
		if i < len(boundaries) {
			flow = flowAt[boundaries[i].String()]
		}

		if vStart.IsZero() {
			continue
		}
		r := vEnd.MustSub(flow).MustSub(vStart).MustDiv(vStart)
		onePlusR := money.RequireFromString("1").MustAdd(r)
		product = product.MustMul(onePlusR)
	}

	return product.MustSub(money.RequireFromString("1")), nil
}
