package tax

import (
	"sort"

	"github.com/b3ledger/core/model"
	"github.com/b3ledger/core/money"
)

// lossKey identifies one LossCarryforward row's natural key.
type lossKey struct {
	Year     int
	Month    int
	Category string
}

// LossLedger is an in-memory FIFO loss carry-forward table (§3.2,
// §4.F.4), translated from original_source/src/tax/loss_carryforward.rs's
// get_losses_for_category/apply_losses_to_profit/record_loss trio. It
// never mixes categories: a loss recorded under one TaxCategory can only
// offset profit in that same category (§4.F.4: "no cross-category or
// cross-vintage bleed").
type LossLedger struct {
	rows map[lossKey]*model.LossCarryforward
}

// NewLossLedger builds a ledger, optionally seeded from persisted rows
// (e.g. loaded from ledgerstore before a tax run).
func NewLossLedger(seed []model.LossCarryforward) *LossLedger {
	l := &LossLedger{rows: make(map[lossKey]*model.LossCarryforward, len(seed))}
	for _, r := range seed {
		row := r
		l.rows[lossKey{r.Year, r.Month, r.TaxCategory}] = &row
	}
	return l
}

// Consume offsets profit against the category's remaining losses in FIFO
// (oldest year/month first) order, mutating each row's RemainingAmount in
// place. Returns (profit after offset, total loss applied).
func (l *LossLedger) Consume(category string, profit money.Amount) (money.Amount, money.Amount) {
	if !profit.IsPositive() {
		return profit, money.Zero
	}

	var candidates []*model.LossCarryforward
	for k, row := range l.rows {
		if k.Category == category && row.RemainingAmount.IsPositive() {
			candidates = append(candidates, row)
		}
	}
	sort.Slice(candidates, func(i, j int) bool {
		if candidates[i].Year != candidates[j].Year {
			return candidates[i].Year < candidates[j].Year
		}
		return candidates[i].Month < candidates[j].Month
	})

	remaining := profit
	applied := money.Zero
	for _, row := range candidates {
		if !remaining.IsPositive() {
			break
		}
		amountToApply := money.Min(remaining, row.RemainingAmount)
		row.RemainingAmount = row.RemainingAmount.MustSub(amountToApply)
		remaining = remaining.MustSub(amountToApply)
		applied = applied.MustAdd(amountToApply)
	}
	return remaining, applied
}

// Record appends a new loss row for a month that closed net-negative
// (§4.F.4: "a month's net loss, per category, carries forward
// indefinitely"). A zero or negative amount is a no-op.
func (l *LossLedger) Record(year, month int, category string, lossAmount money.Amount) {
	if !lossAmount.IsPositive() {
		return
	}
	key := lossKey{year, month, category}
	l.rows[key] = &model.LossCarryforward{
		Year: year, Month: month, TaxCategory: category,
		LossAmount: lossAmount, RemainingAmount: lossAmount,
	}
}

// Rows returns every tracked loss row (consumed or not), for persistence.
func (l *LossLedger) Rows() []model.LossCarryforward {
	out := make([]model.LossCarryforward, 0, len(l.rows))
	for _, r := range l.rows {
		out = append(out, *r)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Year != out[j].Year {
			return out[i].Year < out[j].Year
		}
		if out[i].Month != out[j].Month {
			return out[i].Month < out[j].Month
		}
		return out[i].TaxCategory < out[j].TaxCategory
	})
	return out
}

// RemainingByCategory returns the current total remaining loss for a
// category, used by integrity checks and the IRPF report.
func (l *LossLedger) RemainingByCategory(category string) money.Amount {
	total := money.Zero
	for k, row := range l.rows {
		if k.Category == category {
			total = total.MustAdd(row.RemainingAmount)
		}
	}
	return total
}
