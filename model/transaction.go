package model

import (
	"github.com/b3ledger/core/bizdate"
	"github.com/b3ledger/core/money"
)

// Side is the BUY/SELL direction of a Transaction.
type Side string

const (
	Buy  Side = "BUY"
	Sell Side = "SELL"
)

// Transaction is an immutable ledger entry. Once inserted it is never
// mutated by overlay events (§4.D is a pure read-time projection, not a
// store mutation) — corporate actions are applied at read time against
// this untouched history.
type Transaction struct {
	ID                string        `json:"id" db:"id"`
	AssetID           string        `json:"asset_id" db:"asset_id"`
	Side              Side          `json:"side" db:"side"`
	TradeDate         bizdate.Date  `json:"trade_date" db:"trade_date"`
	SettlementDate    *bizdate.Date `json:"settlement_date,omitempty" db:"settlement_date"`
	Quantity          money.Amount  `json:"quantity" db:"quantity"` // > 0
	PricePerUnit      money.Amount  `json:"price_per_unit" db:"price_per_unit"`
	TotalCost         money.Amount  `json:"total_cost" db:"total_cost"`
	Fees              money.Amount  `json:"fees" db:"fees"`                 // >= 0
	IsDayTrade        bool          `json:"is_day_trade" db:"is_day_trade"` // derived, see DeriveDayTrade
	QuotaIssuanceDate *bizdate.Date `json:"quota_issuance_date,omitempty" db:"quota_issuance_date"`
	Source            string        `json:"source" db:"source"`
	SourceRef         string        `json:"source_ref" db:"source_ref"` // importer dedup key, paired with Source
}

// DeriveDayTrade sets IsDayTrade on every transaction of a trade_date on
// which a single asset's transaction slice has both a BUY and a SELL,
// whatever their quantities; how much of each sale is day-traded (the
// matched minimum quantity) is not recorded here. txs must all share the
// same asset and be sorted by (TradeDate, ID) per the §3.3 global
// ordering invariant.
func DeriveDayTrade(txs []Transaction) {
	byDate := make(map[string][]int)
	for i, tx := range txs {
		key := tx.TradeDate.String()
		byDate[key] = append(byDate[key], i)
	}
	for _, idxs := range byDate {
		var buys, sells money.Amount
		for _, i := range idxs {
			if txs[i].Side == Buy {
				buys = buys.MustAdd(txs[i].Quantity)
			} else {
				sells = sells.MustAdd(txs[i].Quantity)
			}
		}
		if buys.IsZero() || sells.IsZero() {
			continue
		}
		matched := money.Min(buys, sells)
		if matched.IsZero() {
			continue
		}
		for _, i := range idxs {
			txs[i].IsDayTrade = true
		}
	}
}

// ComputeTotalCost applies the §3.2 convention:
// total_cost = quantity*price + (fees if BUY else -fees).
func ComputeTotalCost(side Side, quantity, price, fees money.Amount) (money.Amount, error) {
	gross, err := quantity.Mul(price)
	if err != nil {
		return money.Zero, err
	}
	if side == Buy {
		return gross.Add(fees)
	}
	return gross.Sub(fees)
}
