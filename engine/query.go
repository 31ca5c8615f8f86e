package engine

import (
	"context"

	"github.com/b3ledger/core/bizdate"
	"github.com/b3ledger/core/costbasis"
	"github.com/b3ledger/core/ledgerstore"
	"github.com/b3ledger/core/model"
	"github.com/b3ledger/core/money"
	"github.com/b3ledger/core/overlay"
	"github.com/b3ledger/core/performance"
	"github.com/b3ledger/core/portfolio"
	"github.com/b3ledger/core/snapshot"
	"github.com/b3ledger/core/tax"
)

// assetLedger is one asset's loaded history plus the overlay/cost-basis
// results folded from it, computed once per query and reused across the
// read facades below.
type assetLedger struct {
	history     portfolio.AssetHistory
	overlay     overlay.Result
	realized    []costbasis.RealizedGain
	earliestBuy model.Transaction
	hasEarliest bool
}

// loadAssets reads every asset and its full transaction/corporate-event
// history, then folds each through overlay and costbasis so every read
// facade below reuses the same pass.
func (e *Engine) loadAssets(ctx context.Context) (map[string]assetLedger, error) {
	assets, err := e.Store.AllAssets(e.Store.DB)
	if err != nil {
		return nil, err
	}
	renamedAway, err := e.Store.RenamedAwayAssetIDs(e.Store.DB)
	if err != nil {
		return nil, err
	}

	out := make(map[string]assetLedger, len(assets))
	for _, asset := range assets {
		// A renamed-away ancestor has no identity of its own any more —
		// its history is already folded into the descendant it renamed
		// into (historyWithAncestors); including it here too would count
		// the same holding twice.
		if renamedAway[asset.ID] {
			continue
		}
		txs, events, err := e.historyWithAncestors(asset.ID)
		if err != nil {
			return nil, err
		}

		result, err := overlay.Apply(txs, events)
		if err != nil {
			return nil, err
		}
		realized, err := costbasis.Calculate(result.Adjusted)
		if err != nil {
			return nil, err
		}

		ledger := assetLedger{
			history:  portfolio.AssetHistory{Asset: asset, Transactions: txs, Events: events},
			overlay:  result,
			realized: realized,
		}
		for _, t := range txs {
			if t.Side != model.Buy {
				continue
			}
			if !ledger.hasEarliest || t.TradeDate.Before(ledger.earliestBuy.TradeDate) {
				ledger.earliestBuy = t
				ledger.hasEarliest = true
			}
		}
		out[asset.ID] = ledger
	}
	return out, nil
}

// ancestorHistory is one renamed-away ancestor's full transaction/event
// history, paired with the symbol_links row that ties it to the
// descendant being queried.
type ancestorHistory struct {
	link   ledgerstore.SymbolLink
	txs    []model.Transaction
	events []model.CorporateEvent
}

// historyWithAncestors returns assetID's own transaction/corporate-event
// history merged with every renamed ancestor's pre-rename history (§4.D
// "symbol reassignment": a query on the descendant ticker must see the
// union of ancestor + descendant history), each merged record stamped
// with assetID so overlay.Apply folds them as one stream.
func (e *Engine) historyWithAncestors(assetID string) ([]model.Transaction, []model.CorporateEvent, error) {
	txs, err := e.Store.TransactionsByAsset(e.Store.DB, assetID)
	if err != nil {
		return nil, nil, err
	}
	events, err := e.Store.CorporateEventsByAsset(e.Store.DB, assetID)
	if err != nil {
		return nil, nil, err
	}

	chain, err := e.Store.AncestorsOf(e.Store.DB, assetID)
	if err != nil {
		return nil, nil, err
	}
	ancestors := make([]ancestorHistory, 0, len(chain))
	for _, link := range chain {
		ancestorTxs, err := e.Store.TransactionsByAsset(e.Store.DB, link.AncestorAssetID)
		if err != nil {
			return nil, nil, err
		}
		ancestorEvents, err := e.Store.CorporateEventsByAsset(e.Store.DB, link.AncestorAssetID)
		if err != nil {
			return nil, nil, err
		}
		ancestors = append(ancestors, ancestorHistory{link: link, txs: ancestorTxs, events: ancestorEvents})
	}
	mergedTxs, mergedEvents := mergeAncestorHistory(assetID, txs, events, ancestors)
	return mergedTxs, mergedEvents, nil
}

// mergeAncestorHistory folds each ancestor's pre-effective-date
// transactions and corporate events into own*, re-stamping AssetID to
// assetID so overlay.Apply treats the result as one continuous stream.
// Pulled out of historyWithAncestors as a pure function so the merge
// logic can be tested without a database.
func mergeAncestorHistory(assetID string, ownTxs []model.Transaction, ownEvents []model.CorporateEvent, ancestors []ancestorHistory) ([]model.Transaction, []model.CorporateEvent) {
	txs := ownTxs
	events := ownEvents
	for _, a := range ancestors {
		for _, t := range a.txs {
			if t.TradeDate.Before(a.link.EffectiveDate) {
				t.AssetID = assetID
				txs = append(txs, t)
			}
		}
		for _, ev := range a.events {
			if ev.ExDate.Before(a.link.EffectiveDate) {
				ev.AssetID = assetID
				events = append(events, ev)
			}
		}
	}
	return txs, events
}

// PortfolioAt implements §4.G/§4.H: the as-of-date portfolio report,
// served from the snapshot cache when the fingerprint still matches.
func (e *Engine) PortfolioAt(ctx context.Context, asOf bizdate.Date, kindFilter *model.AssetKind, prices portfolio.PriceSource) (portfolio.PortfolioReport, error) {
	ledgers, err := e.loadAssets(ctx)
	if err != nil {
		return portfolio.PortfolioReport{}, err
	}

	histories := make([]portfolio.AssetHistory, 0, len(ledgers))
	var income []model.IncomeEvent
	for _, l := range ledgers {
		histories = append(histories, l.history)
		assetIncome, err := e.Store.IncomeEventsByAsset(e.Store.DB, l.history.Asset.ID)
		if err != nil {
			return portfolio.PortfolioReport{}, err
		}
		income = append(income, assetIncome...)
	}

	svc := snapshot.Service{Store: e.Store}
	return svc.PortfolioAt(ctx, asOf, kindFilter, histories, income, prices)
}

// MonthlyTaxReport implements §4.F: categorize every realized gain whose
// sale falls in (year, month), aggregate by TaxCategory, and apply the
// exemption/loss-consumption pass. seedLosses carries any
// LossCarryforward rows open from prior months.
func (e *Engine) MonthlyTaxReport(ctx context.Context, year, month int, seedLosses []model.LossCarryforward) (map[string]tax.MonthlyResult, *tax.LossLedger, error) {
	ledgers, err := e.loadAssets(ctx)
	if err != nil {
		return nil, nil, err
	}

	var gains []tax.CategorizedGain
	for _, l := range ledgers {
		if !l.hasEarliest {
			continue
		}
		for _, rg := range l.realized {
			if rg.SaleDate.Year() != year || int(rg.SaleDate.Month()) != month {
				continue
			}
			cg, err := tax.Categorize(rg, l.history.Asset, l.earliestBuy)
			if err != nil {
				return nil, nil, err
			}
			gains = append(gains, cg...)
		}
	}

	byCategory := tax.AggregateMonth(year, month, gains)
	lossLedger := tax.NewLossLedger(seedLosses)
	for _, cat := range tax.SortedCategories(byCategory) {
		byCategory[cat] = tax.ApplyExemptionAndLosses(byCategory[cat], e.Config.Tax, lossLedger)
	}
	return byCategory, lossLedger, nil
}

// DARFPayments implements §4.F.7 for an already-computed monthly report.
func (e *Engine) DARFPayments(year, month int, results map[string]tax.MonthlyResult) []tax.DARFPayment {
	return tax.GenerateDARFPayments(year, month, results, e.Config.Tax)
}

// PerformanceReport implements §4.I over a named or custom period,
// resolved against the earliest transaction date across every asset.
// valueAt is backed by a recursive PortfolioAt(d).Summary.TotalCost
// read, reusing the §4.H cache so repeated sub-period boundary lookups
// within one TWR computation cost at most one recompute each.
func (e *Engine) PerformanceReport(ctx context.Context, period string, today bizdate.Date, prices portfolio.PriceSource) (performance.Report, error) {
	ledgers, err := e.loadAssets(ctx)
	if err != nil {
		return performance.Report{}, err
	}

	earliest := today
	found := false
	var realizedGains []costbasis.RealizedGain
	var cashFlows []model.CashFlow
	for _, l := range ledgers {
		realizedGains = append(realizedGains, l.realized...)
		for _, t := range l.history.Transactions {
			if !found || t.TradeDate.Before(earliest) {
				earliest = t.TradeDate
				found = true
			}
		}
	}

	start, end, err := performance.ParsePeriod(period, today, earliest)
	if err != nil {
		return performance.Report{}, err
	}

	endReport, err := e.PortfolioAt(ctx, end, nil, prices)
	if err != nil {
		return performance.Report{}, err
	}

	valueAt := func(ctx context.Context, d bizdate.Date) (money.Amount, error) {
		r, err := e.PortfolioAt(ctx, d, nil, prices)
		if err != nil {
			return money.Zero, err
		}
		return r.Summary.TotalCost, nil
	}

	return performance.Evaluate(ctx, start, end, valueAt, cashFlows, realizedGains, endReport)
}
