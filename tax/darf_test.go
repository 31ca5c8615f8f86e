package tax

import (
	"testing"
	"time"

	"github.com/b3ledger/core/model"
	"github.com/b3ledger/core/money"
	"github.com/stretchr/testify/require"
)

func TestGenerateDARFPaymentsSkipsZeroAndUncodedCategories(t *testing.T) {
	rq := require.New(t)
	cfg := DefaultConfig()
	stockSwing := model.NewTaxCategory(model.KindStock, model.RegimeSwing, model.VintageNone)
	fiInfraSwingPre := model.NewTaxCategory(model.KindFIInfra, model.RegimeSwing, model.VintagePre2026)

	results := map[string]MonthlyResult{
		string(stockSwing):     {Year: 2025, Month: 1, Category: string(stockSwing), TaxDue: money.RequireFromString("150")},
		string(fiInfraSwingPre): {Year: 2025, Month: 1, Category: string(fiInfraSwingPre), TaxDue: money.RequireFromString("50")},
	}

	payments := GenerateDARFPayments(2025, 1, results, cfg)
	rq.Len(payments, 1)
	rq.Equal("6015", payments[0].Code)
	rq.Equal(2025, payments[0].DueDate.Year())
	rq.Equal(time.February, payments[0].DueDate.Month())
}

func TestGenerateDARFPaymentsDueDateRollsToJanuaryNextYear(t *testing.T) {
	rq := require.New(t)
	cfg := DefaultConfig()
	stockSwing := model.NewTaxCategory(model.KindStock, model.RegimeSwing, model.VintageNone)
	results := map[string]MonthlyResult{
		string(stockSwing): {Year: 2025, Month: 12, Category: string(stockSwing), TaxDue: money.RequireFromString("10")},
	}
	payments := GenerateDARFPayments(2025, 12, results, cfg)
	rq.Len(payments, 1)
	rq.Equal(2026, payments[0].DueDate.Year())
	rq.Equal(time.January, payments[0].DueDate.Month())
}
