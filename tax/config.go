// Package tax implements §4.F: categorization, monthly aggregation,
// exemption, FIFO loss carry-forward, DARF payments, and the annual IRPF
// report. Monthly aggregation and loss consumption are translated from
// original_source/src/tax/swing_trade.rs and loss_carryforward.rs into
// the teacher's idiomatic Go shape; DARF/IRPF structure follows
// original_source/src/tax/darf.rs and irpf.rs (§12 supplemented
// features).
package tax

import (
	"github.com/b3ledger/core/bizdate"
	"github.com/b3ledger/core/model"
	"github.com/b3ledger/core/money"
)

// Config is the tax-rate and DARF-code table §6.5 requires be treated as
// configuration data, not a hardcoded switch. DefaultConfig provides the
// §4.F.5 baseline rates.
type Config struct {
	TaxRates                    map[model.TaxCategory]money.Amount
	DARFCodes                   map[model.TaxCategory]string
	StockSwingExemptionThreshold money.Amount
	DecimalDivisionPrecision    int32
	Calendar                    bizdate.Calendar
}

var (
	rate15  = money.RequireFromString("0.15")
	rate175 = money.RequireFromString("0.175")
	rate20  = money.RequireFromString("0.20")
)

// DefaultConfig returns the §4.F.5 baseline rate table: 15% stock swing,
// 20% stock day, fund categories 20%/17.5% split by pre/post-2026 quota
// vintage for SWING, 20% flat for DAY, and the default R$20,000 monthly
// stock exemption threshold.
func DefaultConfig() Config {
	rates := map[model.TaxCategory]money.Amount{
		model.NewTaxCategory(model.KindStock, model.RegimeSwing, model.VintageNone): rate15,
		model.NewTaxCategory(model.KindStock, model.RegimeDay, model.VintageNone):   rate20,
	}
	codes := map[model.TaxCategory]string{
		model.NewTaxCategory(model.KindStock, model.RegimeSwing, model.VintageNone): "6015",
		model.NewTaxCategory(model.KindStock, model.RegimeDay, model.VintageNone):   "6015",
	}
	for _, kind := range []model.AssetKind{model.KindFII, model.KindFIAGRO, model.KindFIInfra} {
		rates[model.NewTaxCategory(kind, model.RegimeSwing, model.VintagePre2026)] = rate20
		rates[model.NewTaxCategory(kind, model.RegimeSwing, model.VintagePost2026)] = rate175
		rates[model.NewTaxCategory(kind, model.RegimeDay, model.VintagePre2026)] = rate20
		rates[model.NewTaxCategory(kind, model.RegimeDay, model.VintagePost2026)] = rate20
		// FI-INFRA distributions are exempt for individuals under current
		// rules; the fund carries no DARF code (§12: "FiInfra -> None").
		if kind != model.KindFIInfra {
			codes[model.NewTaxCategory(kind, model.RegimeSwing, model.VintagePre2026)] = "6015"
			codes[model.NewTaxCategory(kind, model.RegimeSwing, model.VintagePost2026)] = "6015"
			codes[model.NewTaxCategory(kind, model.RegimeDay, model.VintagePre2026)] = "6015"
			codes[model.NewTaxCategory(kind, model.RegimeDay, model.VintagePost2026)] = "6015"
		}
	}
	return Config{
		TaxRates:                     rates,
		DARFCodes:                    codes,
		StockSwingExemptionThreshold: money.RequireFromString("20000.00"),
		DecimalDivisionPrecision:     10,
		Calendar:                     bizdate.WeekendCalendar{},
	}
}
