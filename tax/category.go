package tax

import (
	"github.com/b3ledger/core/bizdate"
	"github.com/b3ledger/core/costbasis"
	"github.com/b3ledger/core/model"
	"github.com/b3ledger/core/money"
)

// CategorizedGain is one DAY or SWING portion of a RealizedGain, scaled
// proportionally to its share of the sale's quantity, tagged with the
// TaxCategory it belongs to (§4.F categorization).
type CategorizedGain struct {
	SaleDate      bizdate.Date
	AssetID       string
	TransactionID string
	Category      model.TaxCategory
	Quantity      money.Amount
	Proceeds      money.Amount
	CostBasis     money.Amount
	Gain          money.Amount
}

// vintage determines PRE_2026/POST_2026 per §4.F: "determined by the
// BUY's quota_issuance_date, falling back to settlement_date, falling
// back to trade_date; PRE_2026 iff year <= 2025." Under average-cost
// accounting a sell has no single matching buy lot (§13 open question),
// so the caller passes the earliest BUY in the asset's history as the
// vintage-determining reference.
func vintage(earliestBuy model.Transaction) model.QuotaVintage {
	d := earliestBuy.TradeDate
	if earliestBuy.SettlementDate != nil {
		d = *earliestBuy.SettlementDate
	}
	if earliestBuy.QuotaIssuanceDate != nil {
		d = *earliestBuy.QuotaIssuanceDate
	}
	if d.Year() <= 2025 {
		return model.VintagePre2026
	}
	return model.VintagePost2026
}

// Categorize splits a RealizedGain into its DAY and SWING portions and
// assigns each the TaxCategory from (asset.Kind, regime, vintage).
// earliestBuy is the asset's first BUY transaction, used for fund-quota
// vintage per the vintage() fallback chain; it is ignored for non-fund
// kinds.
func Categorize(g costbasis.RealizedGain, asset model.Asset, earliestBuy model.Transaction) ([]CategorizedGain, error) {
	var out []CategorizedGain

	addPortion := func(regime model.TaxRegime, qty money.Amount) error {
		if qty.IsZero() {
			return nil
		}
		v := model.VintageNone
		if model.IsFundCategory(asset.Kind) {
			v = vintage(earliestBuy)
		}
		category := model.NewTaxCategory(asset.Kind, regime, v)

		proceeds, err := scale(g.Proceeds, qty, g.QuantitySold)
		if err != nil {
			return err
		}
		costBasis, err := scale(g.CostBasis, qty, g.QuantitySold)
		if err != nil {
			return err
		}
		gain, err := proceeds.Sub(costBasis)
		if err != nil {
			return err
		}
		out = append(out, CategorizedGain{
			SaleDate:      g.SaleDate,
			AssetID:       g.AssetID,
			TransactionID: g.TransactionID,
			Category:      category,
			Quantity:      qty,
			Proceeds:      proceeds,
			CostBasis:     costBasis,
			Gain:          gain,
		})
		return nil
	}

	if err := addPortion(model.RegimeDay, g.DayTradeQty); err != nil {
		return nil, err
	}
	if err := addPortion(model.RegimeSwing, g.SwingQty); err != nil {
		return nil, err
	}
	return out, nil
}

// scale prorates total by qty/totalQty, used to split a sale's proceeds
// and cost basis proportionally between its DAY and SWING portions.
func scale(total, qty, totalQty money.Amount) (money.Amount, error) {
	if totalQty.IsZero() {
		return money.Zero, nil
	}
	ratio, err := qty.Div(totalQty)
	if err != nil {
		return money.Zero, err
	}
	return total.Mul(ratio)
}

// tcatStockSwing is the one TaxCategory the §4.F.3 gross-sales exemption
// applies to ("R$20,000 for stocks only" — FII/FIAGRO/FI_INFRA and day
// trades have no exemption).
var tcatStockSwing = model.NewTaxCategory(model.KindStock, model.RegimeSwing, model.VintageNone)

// tcat recovers the typed TaxCategory from its string form for a TaxRates/
// DARFCodes map lookup.
func tcat(s string) model.TaxCategory { return model.TaxCategory(s) }
