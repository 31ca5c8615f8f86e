// Package portfolio implements §4.G: the as-of-date portfolio evaluator.
// It composes the overlay and cost-basis passes over a point-in-time
// transaction/event window, optionally joins a PriceSource, and produces
// a PortfolioReport as a pure value — rendering is left to the caller,
// following the reference's own separation of PortfolioSecurityStatus
// computation (bookkeeping.go) from presentation (render.go), adapted
// here so this package stops at the structured report.
package portfolio

import (
	"context"
	"sort"

	"github.com/b3ledger/core/bizdate"
	"github.com/b3ledger/core/costbasis"
	"github.com/b3ledger/core/model"
	"github.com/b3ledger/core/money"
	"github.com/b3ledger/core/overlay"
)

// PositionRow is one asset's as-of-date composition (§4.G).
type PositionRow struct {
	Asset        model.Asset
	Quantity     money.Amount
	AverageCost  money.Amount
	TotalCost    money.Amount
	MarketPrice  *money.Amount
	MarketValue  *money.Amount
	UnrealizedPL *money.Amount
	ReturnPct    *money.Amount
}

// Summary totals the report's rows.
type Summary struct {
	TotalCost        money.Amount
	TotalMarketValue *money.Amount
	TotalUnrealizedPL *money.Amount
}

// PortfolioReport is the §4.G evaluator's output.
type PortfolioReport struct {
	AsOf      bizdate.Date
	Positions []PositionRow
	Summary   Summary
}

// PriceSource resolves a market price for an asset as of a date. A false
// second return (or a disabled source) means the caller must render the
// market columns as absent, per §4.G.
type PriceSource interface {
	Price(ctx context.Context, assetID string, asOf bizdate.Date) (money.Amount, bool, error)
}

// AssetHistory bundles one asset's raw transaction and corporate-event
// history, already asset-scoped and ordered per §3.3, as fed into Evaluate.
type AssetHistory struct {
	Asset        model.Asset
	Transactions []model.Transaction
	Events       []model.CorporateEvent
}

// Evaluate computes the §4.G PortfolioReport: restrict each asset's
// transactions to trade_date <= asOf and events to ex_date <= asOf, run
// the overlay and cost-basis passes, and (optionally) join prices.
// kindFilter, if non-nil, restricts the report to assets of that kind.
func Evaluate(ctx context.Context, asOf bizdate.Date, kindFilter *model.AssetKind, histories []AssetHistory, prices PriceSource) (PortfolioReport, error) {
	report := PortfolioReport{AsOf: asOf, Summary: Summary{TotalCost: money.Zero}}

	for _, h := range histories {
		if kindFilter != nil && h.Asset.Kind != *kindFilter {
			continue
		}

		txs := filterTxsAsOf(h.Transactions, asOf)
		events := filterEventsAsOf(h.Events, asOf)
		if len(txs) == 0 {
			continue
		}

		res, err := overlay.Apply(txs, events)
		if err != nil {
			return PortfolioReport{}, err
		}
		// Calculate walks every SELL to check reconciliation; the
		// end-of-window (qty, cost) state it needs is already in res.End.
		if _, err := costbasis.Calculate(res.Adjusted); err != nil {
			return PortfolioReport{}, err
		}

		if res.End.Quantity.IsZero() {
			continue
		}

		row := PositionRow{
			Asset:       h.Asset,
			Quantity:    res.End.Quantity,
			AverageCost: res.End.AvgPrice,
			TotalCost:   res.End.AdjustedCost,
		}

		if prices != nil {
			if price, ok, err := prices.Price(ctx, h.Asset.ID, asOf); err != nil {
				return PortfolioReport{}, err
			} else if ok {
				marketValue := price.MustMul(row.Quantity)
				unrealized := marketValue.MustSub(row.TotalCost)
				row.MarketPrice = &price
				row.MarketValue = &marketValue
				row.UnrealizedPL = &unrealized
				if !row.TotalCost.IsZero() {
					pct := unrealized.MustDiv(row.TotalCost).MustMul(money.NewFromInt(100))
					row.ReturnPct = &pct
				}
			}
		}

		report.Positions = append(report.Positions, row)
		report.Summary.TotalCost = report.Summary.TotalCost.MustAdd(row.TotalCost)
		if row.MarketValue != nil {
			if report.Summary.TotalMarketValue == nil {
				zero := money.Zero
				report.Summary.TotalMarketValue = &zero
			}
			sum := report.Summary.TotalMarketValue.MustAdd(*row.MarketValue)
			report.Summary.TotalMarketValue = &sum
		}
	}

	sort.Slice(report.Positions, func(i, j int) bool {
		a, b := report.Positions[i].Asset, report.Positions[j].Asset
		if a.Kind != b.Kind {
			return a.Kind < b.Kind
		}
		return a.Ticker < b.Ticker
	})

	if report.Summary.TotalMarketValue != nil {
		pl := report.Summary.TotalMarketValue.MustSub(report.Summary.TotalCost)
		report.Summary.TotalUnrealizedPL = &pl
	}

	return report, nil
}

func filterTxsAsOf(txs []model.Transaction, asOf bizdate.Date) []model.Transaction {
	out := make([]model.Transaction, 0, len(txs))
	for _, tx := range txs {
		if !tx.TradeDate.After(asOf) {
			out = append(out, tx)
		}
	}
	return out
}

func filterEventsAsOf(events []model.CorporateEvent, asOf bizdate.Date) []model.CorporateEvent {
	out := make([]model.CorporateEvent, 0, len(events))
	for _, e := range events {
		if !e.ExDate.After(asOf) {
			out = append(out, e)
		}
	}
	return out
}
