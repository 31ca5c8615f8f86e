// Package overlay implements the §4.D forward-only corporate-action
// projection: a pure function from (immutable transaction history,
// ordered corporate events) to an adjusted transaction stream and an
// end-state (quantity, adjusted_cost, avg_price). It never writes to the
// store (§4.B: "the store is never written [by overlay]; re-invocation
// on the same inputs is a no-op"), replacing the mutating
// corporate_action_adjustments design of the pre-distillation
// implementation (original_source/src/corporate_actions/mod.rs) with a
// read-time fold, in the spirit of tsiemens-acb/portfolio/bookkeeping.go's
// AddTx walk over a chronological Tx slice.
package overlay

import (
	"sort"

	"github.com/b3ledger/core/bizdate"
	"github.com/b3ledger/core/model"
	"github.com/b3ledger/core/money"
)

// AdjustedTransaction is a Transaction as seen after every corporate
// event with ex_date strictly after its trade_date has been folded in
// (§4.D: "a corporate event with ex_date = E affects every transaction t
// with t.trade_date < E").
type AdjustedTransaction struct {
	Original            model.Transaction
	EffectiveQuantity   money.Amount
	RunningQuantity     money.Amount
	RunningAdjustedCost money.Amount
}

// SyntheticTransaction is a basis-allocation side effect of an EXCHANGE
// event (§4.D "basis allocation"), to be appended to the *other* asset's
// own stream by the caller — Apply only returns it, it does not cross
// asset boundaries itself.
type SyntheticTransaction struct {
	ToAssetID     string
	EffectiveDate bizdate.Date
	Quantity      money.Amount
	UnitCost      money.Amount
	SourceEventID string
}

// EndState is the final (quantity, adjusted_cost, avg_price) after
// folding every transaction and event.
type EndState struct {
	Quantity     money.Amount
	AdjustedCost money.Amount
	AvgPrice     money.Amount
}

// CapitalReturnIncome is one CAPITAL_RETURN event's realized amount, fed
// to the tax engine's income accounting (§4.D, §4.F).
type CapitalReturnIncome struct {
	EventID string
	ExDate  bizdate.Date
	Amount  money.Amount
}

// Result is everything Apply produces for one asset's history.
type Result struct {
	Adjusted  []AdjustedTransaction
	End       EndState
	Synthetic []SyntheticTransaction
	Income    []CapitalReturnIncome
}

// Apply folds txs and events for a single asset (txs already filtered to
// this asset and its renamed ancestors, per §4.D's "symbol reassignment"
// — merging ancestor history into the descendant is the caller's job,
// typically done by the engine facade before calling Apply) into an
// adjusted stream and end state.
func Apply(txs []model.Transaction, events []model.CorporateEvent) (Result, error) {
	txs = append([]model.Transaction(nil), txs...)
	sort.SliceStable(txs, func(i, j int) bool {
		if !txs[i].TradeDate.Equal(txs[j].TradeDate) {
			return txs[i].TradeDate.Before(txs[j].TradeDate)
		}
		// Same-date transactions must net BUY-before-SELL rather than by
		// (random) ID, or a same-day SELL whose UUID happens to sort first
		// either raises a spurious InsufficientHistory (on a first-ever lot)
		// or folds against an average cost that hasn't absorbed that day's
		// BUYs yet — both change the realized result depending only on
		// UUID ordering. model.DeriveDayTrade nets the same same-date
		// BUY/SELL quantities at the boolean level; this mirrors it at the
		// fold level.
		if txs[i].Side != txs[j].Side {
			return txs[i].Side == model.Buy
		}
		return txs[i].ID < txs[j].ID
	})
	events = append([]model.CorporateEvent(nil), events...)
	sort.SliceStable(events, func(i, j int) bool {
		if !events[i].ExDate.Equal(events[j].ExDate) {
			return events[i].ExDate.Before(events[j].ExDate)
		}
		return events[i].ID < events[j].ID
	})

	f := &fold{}
	ti, ei := 0, 0
	for ti < len(txs) || ei < len(events) {
		takeEvent := false
		switch {
		case ti >= len(txs):
			takeEvent = true
		case ei >= len(events):
			takeEvent = false
		case events[ei].ExDate.Before(txs[ti].TradeDate):
			takeEvent = true
		case events[ei].ExDate.Equal(txs[ti].TradeDate):
			// ex_date = E affects transactions with trade_date < E only; a
			// same-day transaction is already post-event, so the event
			// folds in first.
			takeEvent = true
		default:
			takeEvent = false
		}

		if takeEvent {
			if err := f.applyEvent(events[ei]); err != nil {
				return Result{}, err
			}
			ei++
		} else {
			if err := f.applyTx(txs[ti]); err != nil {
				return Result{}, err
			}
			ti++
		}
	}

	return f.result(), nil
}
