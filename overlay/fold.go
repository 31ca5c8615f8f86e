package overlay

import (
	"github.com/b3ledger/core/ledgererr"
	"github.com/b3ledger/core/model"
	"github.com/b3ledger/core/money"
)

// fold carries the running state across the merged transaction/event
// walk, mirroring the running PortfolioSecurityStatus threaded through
// tsiemens-acb's AddTx, generalized from share-count/ACB-float to
// money.Amount quantity/cost.
type fold struct {
	quantity     money.Amount
	adjustedCost money.Amount
	adjusted     []AdjustedTransaction
	synthetic    []SyntheticTransaction
	income       []CapitalReturnIncome
}

func (f *fold) avgPrice() money.Amount {
	if f.quantity.IsZero() {
		return money.Zero
	}
	return f.adjustedCost.MustDiv(f.quantity)
}

func (f *fold) applyTx(tx model.Transaction) error {
	switch tx.Side {
	case model.Buy:
		f.quantity = f.quantity.MustAdd(tx.Quantity)
		f.adjustedCost = f.adjustedCost.MustAdd(tx.TotalCost)
	case model.Sell:
		if tx.Quantity.GreaterThan(f.quantity) {
			return ledgererr.New(ledgererr.InsufficientHistory,
				"asset %s: sell of %s on %s exceeds running position %s",
				tx.AssetID, tx.Quantity.String(), tx.TradeDate.String(), f.quantity.String())
		}
		costBasis := f.avgPrice().MustMul(tx.Quantity)
		f.adjustedCost = f.adjustedCost.MustSub(costBasis)
		f.quantity = f.quantity.MustSub(tx.Quantity)
	}
	f.adjusted = append(f.adjusted, AdjustedTransaction{
		Original:          tx,
		EffectiveQuantity: tx.Quantity,
		RunningQuantity:   f.quantity,
		RunningAdjustedCost: f.adjustedCost,
	})
	return nil
}

func (f *fold) applyEvent(e model.CorporateEvent) error {
	switch e.Kind {
	case model.EventSplit:
		return f.applySplit(e)
	case model.EventCapitalReturn:
		return f.applyCapitalReturn(e)
	case model.EventRename:
		// Symbol reassignment is handled upstream by merging ancestor
		// history into the descendant's tx slice before Apply is called;
		// the event carries no numeric effect on this fold (§4.D).
		return nil
	case model.EventExchange:
		return f.applyExchange(e)
	}
	return nil
}

// applySplit scales the running quantity by the event's signed additive
// delta and retroactively rescales every prior AdjustedTransaction's
// EffectiveQuantity by the same ratio, preserving total adjusted cost
// (§3.3 invariant 5: quantity_after * avg_price_after = quantity_before *
// avg_price_before) and forward-only (§4.D: transactions at/after ex_date
// are not touched, since they haven't been folded in yet).
func (f *fold) applySplit(e model.CorporateEvent) error {
	if e.QuantityAdjustment == nil {
		return ledgererr.New(ledgererr.ConfigurationError, "split event %s missing quantity_adjustment", e.ID)
	}
	if f.quantity.IsZero() {
		return nil
	}
	newQuantity := f.quantity.MustAdd(*e.QuantityAdjustment)
	if newQuantity.IsNegative() || newQuantity.IsZero() {
		return ledgererr.New(ledgererr.IntegrityError,
			"split event %s would reduce asset %s quantity to %s", e.ID, e.AssetID, newQuantity.String())
	}
	ratio := newQuantity.MustDiv(f.quantity)
	for i := range f.adjusted {
		f.adjusted[i].EffectiveQuantity = f.adjusted[i].EffectiveQuantity.MustMul(ratio)
		f.adjusted[i].RunningQuantity = f.adjusted[i].RunningQuantity.MustMul(ratio)
	}
	f.quantity = newQuantity
	return nil
}

// applyCapitalReturn reduces adjusted cost by amount_per_unit * quantity
// at ex_date, leaving quantity unchanged, and records the amount as
// income for the tax engine (§4.D).
func (f *fold) applyCapitalReturn(e model.CorporateEvent) error {
	if e.AmountPerUnit == nil {
		return ledgererr.New(ledgererr.ConfigurationError, "capital return event %s missing amount_per_unit", e.ID)
	}
	reduction := e.AmountPerUnit.MustMul(f.quantity)
	f.adjustedCost = f.adjustedCost.MustSub(reduction)
	f.income = append(f.income, CapitalReturnIncome{EventID: e.ID, ExDate: e.ExDate, Amount: reduction})
	return nil
}

// applyExchange removes allocated_cost+cash_amount of basis from this
// asset; for a MERGER (ExchangeKind) it then zeroes quantity and adjusted
// cost (full liquidation), while a SPINOFF keeps the quantity (partial).
// It emits a SyntheticTransaction for the destination asset at unit cost
// allocated_cost/to_quantity (§4.D "basis allocation").
func (f *fold) applyExchange(e model.CorporateEvent) error {
	if e.ExchangeKind == nil || e.AllocatedCost == nil || e.CashAmount == nil || e.ToQuantity == nil {
		return ledgererr.New(ledgererr.ConfigurationError, "exchange event %s missing required fields", e.ID)
	}
	outflow := e.AllocatedCost.MustAdd(*e.CashAmount)
	f.adjustedCost = f.adjustedCost.MustSub(outflow)
	if *e.ExchangeKind == model.ExchangeMerger {
		f.quantity = money.Zero
		f.adjustedCost = money.Zero
	}

	if e.ToAssetID != nil && !e.ToQuantity.IsZero() {
		unitCost := e.AllocatedCost.MustDiv(*e.ToQuantity)
		f.synthetic = append(f.synthetic, SyntheticTransaction{
			ToAssetID:     *e.ToAssetID,
			EffectiveDate: e.ExDate,
			Quantity:      *e.ToQuantity,
			UnitCost:      unitCost,
			SourceEventID: e.ID,
		})
	}
	return nil
}

func (f *fold) result() Result {
	return Result{
		Adjusted: f.adjusted,
		End: EndState{
			Quantity:     f.quantity,
			AdjustedCost: f.adjustedCost,
			AvgPrice:     f.avgPrice(),
		},
		Synthetic: f.synthetic,
		Income:    f.income,
	}
}
