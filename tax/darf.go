package tax

import (
	"time"

	"github.com/b3ledger/core/bizdate"
	"github.com/b3ledger/core/model"
	"github.com/b3ledger/core/money"
)

// DARFPayment is one B3/Receita Federal payment slip (§4.F.7), generated
// from a month's categorized tax due. Categories with no configured DARF
// code (FI_INFRA distributions, exempt) are skipped rather than emitted
// with a blank code, translated from
// original_source/src/tax/darf.rs's generate_darf_payments/
// calculate_darf_due_date.
type DARFPayment struct {
	Year        int
	Month       int
	Category    string
	Code        string
	Description string
	TaxDue      money.Amount
	DueDate     bizdate.Date
}

// darfDescription gives the Portuguese label printed on the DARF slip for
// each category family; stock categories share the "Operações Comuns"
// label used by the original tool, fund categories get a fund-specific one.
func darfDescription(category string) string {
	switch {
	case isStockSwing(category), category == string(model.NewTaxCategory(model.KindStock, model.RegimeDay, model.VintageNone)):
		return "Renda Variável - Operações Comuns"
	default:
		return "Renda Variável - Fundos de Investimento"
	}
}

// GenerateDARFPayments produces one payment per category with tax due and
// a configured DARF code, due on the last business day of the month
// following the reference month (§4.F.7), rolled back from the calendar
// month-end by cfg.Calendar.
func GenerateDARFPayments(year, month int, results map[string]MonthlyResult, cfg Config) []DARFPayment {
	dueMonth := time.Month(month) + 1
	dueYear := year
	if dueMonth > time.December {
		dueMonth = time.January
		dueYear++
	}
	dueDate := bizdate.LastBusinessDayOfMonth(dueYear, dueMonth, cfg.Calendar)

	var payments []DARFPayment
	for _, category := range SortedCategories(results) {
		r := results[category]
		if !r.TaxDue.IsPositive() {
			continue
		}
		code, ok := cfg.DARFCodes[tcat(category)]
		if !ok {
			continue
		}
		payments = append(payments, DARFPayment{
			Year:        year,
			Month:       month,
			Category:    category,
			Code:        code,
			Description: darfDescription(category),
			TaxDue:      r.TaxDue,
			DueDate:     dueDate,
		})
	}
	return payments
}
