// Package integrity implements the §4.K invariant checks. Each check is a
// pure function over already-computed intermediate results (overlay
// output, realized gains, loss carryforwards, tax aggregates) rather than
// a fresh store query, so the engine facade can run them continuously
// without re-deriving state. Violations are reported as ledgererr
// IntegrityError values, grounded on the reference codebase's
// util.Assert/Assertf pattern but never os.Exit-ing — the engine is a
// library and must return the failure to its caller.
package integrity

import (
	"fmt"

	"github.com/b3ledger/core/costbasis"
	"github.com/b3ledger/core/ledgererr"
	"github.com/b3ledger/core/model"
	"github.com/b3ledger/core/money"
	"github.com/b3ledger/core/overlay"
)

// Violation is one failed invariant, with enough context to diagnose it
// without re-running the check.
type Violation struct {
	Invariant string
	AssetID   string
	Detail    string
}

func (v Violation) Error() string {
	return fmt.Sprintf("%s: asset %s: %s", v.Invariant, v.AssetID, v.Detail)
}

// AsLedgerError wraps a slice of Violations into a single ledgererr.Error,
// or returns nil if there are none.
func AsLedgerError(violations []Violation) error {
	if len(violations) == 0 {
		return nil
	}
	msgs := make([]string, len(violations))
	for i, v := range violations {
		msgs[i] = v.Error()
	}
	return ledgererr.New(ledgererr.IntegrityError, "%d invariant violation(s): %s", len(violations), joinSemicolon(msgs))
}

func joinSemicolon(parts []string) string {
	out := ""
	for i, p := range parts {
		if i > 0 {
			out += "; "
		}
		out += p
	}
	return out
}

// CheckBasisConservation enforces the §4.K basis-conservation invariant:
// the sum of BUY cost plus synthetic basis additions, minus SELL cost
// basis, CAPITAL_RETURN reductions, and EXCHANGE outflows, must equal the
// asset's current adjusted cost. result is the overlay.Result already
// computed for assetID; realizedGains is every RealizedGain for the same
// asset (whose CostBasis figures are the SELL/EXCHANGE-outflow side of
// the ledger).
func CheckBasisConservation(assetID string, result overlay.Result, realizedGains []costbasis.RealizedGain) []Violation {
	var violations []Violation

	additions := money.Zero
	for _, at := range result.Adjusted {
		if at.Original.Side == model.Buy {
			additions = additions.MustAdd(at.Original.TotalCost)
		}
	}
	for _, st := range result.Synthetic {
		additions = additions.MustAdd(st.Quantity.MustMul(st.UnitCost))
	}

	reductions := money.Zero
	for _, rg := range realizedGains {
		reductions = reductions.MustAdd(rg.CostBasis)
	}
	for _, income := range result.Income {
		reductions = reductions.MustAdd(income.Amount)
	}

	expected := additions.MustSub(reductions)
	if !expected.Equal(result.End.AdjustedCost) {
		violations = append(violations, Violation{
			Invariant: "basis_conservation",
			AssetID:   assetID,
			Detail:    fmt.Sprintf("expected adjusted_cost %s, got %s", expected.String(), result.End.AdjustedCost.String()),
		})
	}
	return violations
}

// CheckNonNegativeQuantity enforces the §4.K invariant that an asset's
// running quantity never goes negative at any point in its adjusted
// transaction stream.
func CheckNonNegativeQuantity(assetID string, result overlay.Result) []Violation {
	var violations []Violation
	for _, at := range result.Adjusted {
		if at.RunningQuantity.IsNegative() {
			violations = append(violations, Violation{
				Invariant: "non_negative_quantity",
				AssetID:   assetID,
				Detail:    fmt.Sprintf("transaction %s left running quantity %s", at.Original.ID, at.RunningQuantity.String()),
			})
		}
	}
	return violations
}

// CheckTaxReconciliation enforces §4.K's third invariant: a category's
// aggregated gross sales must equal the sum of Proceeds across the
// RealizedGain portions that were categorized into it.
func CheckTaxReconciliation(category string, grossSales money.Amount, gains []costbasis.RealizedGain) []Violation {
	sum := money.Zero
	for _, g := range gains {
		sum = sum.MustAdd(g.Proceeds)
	}
	if !sum.Equal(grossSales) {
		return []Violation{{
			Invariant: "tax_reconciliation",
			AssetID:   category,
			Detail:    fmt.Sprintf("gross_sales %s does not match realized-gain proceeds %s", grossSales.String(), sum.String()),
		}}
	}
	return nil
}

// CheckLossCarryforwardsNonNegative enforces §4.K's fourth invariant:
// every LossCarryforward's remaining amount must never be negative.
func CheckLossCarryforwardsNonNegative(rows []model.LossCarryforward) []Violation {
	var violations []Violation
	for _, row := range rows {
		if row.RemainingAmount.IsNegative() {
			violations = append(violations, Violation{
				Invariant: "loss_carryforward_non_negative",
				AssetID:   row.TaxCategory,
				Detail:    fmt.Sprintf("%d-%02d remaining_amount %s", row.Year, row.Month, row.RemainingAmount.String()),
			})
		}
	}
	return violations
}
