package tax

import (
	"sort"

	"github.com/b3ledger/core/money"
)

// MonthlyResult is one TaxCategory's aggregated outcome for a single
// calendar month (§4.F.2-4): gross sales, the net profit/loss, the
// exemption decision, and the amount still subject to tax after loss
// carry-forward consumption.
type MonthlyResult struct {
	Year            int
	Month           int
	Category        string
	GrossSales      money.Amount
	TotalCostBasis  money.Amount
	TotalProfit     money.Amount
	TotalLoss       money.Amount
	NetProfit       money.Amount
	ExemptionApplied bool
	LossApplied     money.Amount
	TaxableAmount   money.Amount
	TaxRate         money.Amount
	TaxDue          money.Amount
}

// AggregateMonth groups gains by TaxCategory and computes each category's
// monthly net profit/loss (§4.F.2), translated from
// original_source/src/tax/swing_trade.rs's per-asset-type grouping into a
// per-TaxCategory grouping (our Categorize already folds asset kind, regime,
// and vintage into the category key, so no separate asset-type grouping
// step is needed).
func AggregateMonth(year, month int, gains []CategorizedGain) map[string]MonthlyResult {
	byCategory := map[string]*MonthlyResult{}
	var order []string

	for _, g := range gains {
		if g.Quantity.IsZero() {
			continue
		}
		key := string(g.Category)
		r, ok := byCategory[key]
		if !ok {
			r = &MonthlyResult{Year: year, Month: month, Category: key,
				GrossSales: money.Zero, TotalCostBasis: money.Zero,
				TotalProfit: money.Zero, TotalLoss: money.Zero}
			byCategory[key] = r
			order = append(order, key)
		}
		r.GrossSales = r.GrossSales.MustAdd(g.Proceeds)
		r.TotalCostBasis = r.TotalCostBasis.MustAdd(g.CostBasis)
		if g.Gain.IsPositive() {
			r.TotalProfit = r.TotalProfit.MustAdd(g.Gain)
		} else if g.Gain.IsNegative() {
			r.TotalLoss = r.TotalLoss.MustAdd(g.Gain.Abs())
		}
	}

	out := make(map[string]MonthlyResult, len(order))
	for _, key := range order {
		r := byCategory[key]
		r.NetProfit = r.TotalProfit.MustSub(r.TotalLoss)
		out[key] = *r
	}
	return out
}

// ApplyExemptionAndLosses finalizes a MonthlyResult: applies the §4.F.3
// stock-swing gross-sales exemption, then consumes FIFO loss carry-forward
// (§4.F.4) against any remaining profit, and computes the final tax due at
// the category's configured rate. ledger is mutated in place (remaining
// loss balances decrease as they are consumed) and a fresh LossCarryforward
// row is appended for a month that closes with a net loss.
func ApplyExemptionAndLosses(r MonthlyResult, cfg Config, ledger *LossLedger) MonthlyResult {
	exempt := isStockSwing(r.Category) && r.GrossSales.LessThanOrEqual(cfg.StockSwingExemptionThreshold)

	var taxableBeforeLoss money.Amount
	switch {
	case exempt:
		r.ExemptionApplied = true
		taxableBeforeLoss = money.Zero
	case r.NetProfit.IsPositive():
		taxableBeforeLoss = r.NetProfit
	default:
		taxableBeforeLoss = money.Zero
	}

	lossApplied := money.Zero
	taxable := taxableBeforeLoss
	if ledger != nil && taxableBeforeLoss.IsPositive() {
		taxable, lossApplied = ledger.Consume(r.Category, taxableBeforeLoss)
	}
	r.LossApplied = lossApplied
	r.TaxableAmount = taxable

	if !exempt && r.NetProfit.IsNegative() && ledger != nil {
		ledger.Record(r.Year, r.Month, r.Category, r.NetProfit.Abs())
	}

	rate, ok := cfg.TaxRates[tcat(r.Category)]
	if !ok {
		rate = money.Zero
	}
	r.TaxRate = rate
	// §4.F.6: tax_due = round(taxable * rate, 2), banker's rounding.
	r.TaxDue = r.TaxableAmount.MustMul(rate).Round(2, money.RoundHalfEven)
	return r
}

func isStockSwing(category string) bool {
	return category == string(tcatStockSwing)
}

// SortedCategories returns a map's keys sorted for deterministic output
// ordering (report generation, tests).
func SortedCategories(byCategory map[string]MonthlyResult) []string {
	keys := make([]string, 0, len(byCategory))
	for k := range byCategory {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
