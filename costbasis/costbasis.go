// Package costbasis implements the §4.E average-cost accounting pass:
// given the overlay-adjusted transaction stream for an asset, emit a
// RealizedGain per SELL. It never writes to the store; output is a slice,
// built in full before it is returned, consumed by tax and portfolio. Grounded on the running-state
// fold of tsiemens-acb/portfolio/bookkeeping.go's AddTx, generalized from
// FIFO/specific-identification-agnostic ACB to this spec's average-cost
// rule and day-trade matched-quantity reclassification.
package costbasis

import (
	"github.com/b3ledger/core/bizdate"
	"github.com/b3ledger/core/ledgererr"
	"github.com/b3ledger/core/model"
	"github.com/b3ledger/core/money"
	"github.com/b3ledger/core/overlay"
)

// RealizedGain is one SELL's cost-basis reconciliation (§4.E).
type RealizedGain struct {
	SaleDate     bizdate.Date
	AssetID      string
	TransactionID string
	QuantitySold money.Amount
	CostBasis    money.Amount
	Proceeds     money.Amount
	Gain         money.Amount
	DayTradeQty  money.Amount // portion of QuantitySold reclassified DAY
	SwingQty     money.Amount // residual portion, SWING
}

// reconcileTolerance is the "1 ulp of rounding" the spec allows when qty
// reaches zero: any |total_cost| at or below this is treated as zero.
var reconcileTolerance = money.RequireFromString("0.0000000001")

// Calculate walks the overlay-adjusted stream for one asset and emits a
// RealizedGain for every SELL, using the running (qty, cost) state overlay
// already tracked. Transactions must have IsDayTrade pre-derived by
// model.DeriveDayTrade so day-trade quantity matching (§4.E) is available.
func Calculate(adjusted []overlay.AdjustedTransaction) ([]RealizedGain, error) {
	var gains []RealizedGain
	prevQty, prevCost := money.Zero, money.Zero

	// dayTradeRemaining tracks, per trade_date, how much BUY quantity on
	// that date is still available to match against a same-day SELL —
	// the "matched minimum quantity" of §4.E. This relies on adjusted
	// already ordering same-date BUYs before SELLs (overlay.Apply's fold
	// order): a same-day SELL processed before its matching BUY would see
	// an empty pool and miss its DAY-trade portion.
	dayTradeRemaining := map[string]money.Amount{}

	for _, a := range adjusted {
		tx := a.Original
		dateKey := tx.TradeDate.String()

		if tx.Side == model.Buy {
			dayTradeRemaining[dateKey] = dayTradeRemaining[dateKey].MustAdd(a.EffectiveQuantity)
			prevQty, prevCost = a.RunningQuantity, a.RunningAdjustedCost
			continue
		}

		// SELL
		if prevQty.IsZero() {
			return nil, ledgererr.New(ledgererr.InsufficientHistory,
				"asset %s: sell on %s has no covering purchases", tx.AssetID, tx.TradeDate.String())
		}
		avg := prevCost.MustDiv(prevQty)
		costBasis := avg.MustMul(a.EffectiveQuantity)
		proceeds := tx.PricePerUnit.MustMul(a.EffectiveQuantity).MustSub(tx.Fees)
		gain := proceeds.MustSub(costBasis)

		dayQty := money.Min(dayTradeRemaining[dateKey], a.EffectiveQuantity)
		if dayQty.IsNegative() {
			dayQty = money.Zero
		}
		swingQty := a.EffectiveQuantity.MustSub(dayQty)
		if !dayQty.IsZero() {
			dayTradeRemaining[dateKey] = dayTradeRemaining[dateKey].MustSub(dayQty)
		}

		gains = append(gains, RealizedGain{
			SaleDate:      tx.TradeDate,
			AssetID:       tx.AssetID,
			TransactionID: tx.ID,
			QuantitySold:  a.EffectiveQuantity,
			CostBasis:     costBasis,
			Proceeds:      proceeds,
			Gain:          gain,
			DayTradeQty:   dayQty,
			SwingQty:      swingQty,
		})

		prevQty, prevCost = a.RunningQuantity, a.RunningAdjustedCost
		if prevQty.IsZero() && prevCost.Abs().GreaterThan(reconcileTolerance) {
			return nil, ledgererr.New(ledgererr.IntegrityError,
				"asset %s: total_cost %s did not reconcile to zero when quantity reached zero",
				tx.AssetID, prevCost.String())
		}
	}
	return gains, nil
}
