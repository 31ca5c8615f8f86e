package model

import (
	"github.com/b3ledger/core/bizdate"
	"github.com/b3ledger/core/money"
)

// PositionSnapshot is a memoized as-of-date position (§4.H), uniquely
// keyed by (SnapshotDate, AssetID). TxFingerprint ties the row to the
// exact ledger content it was computed from, so a later append that
// changes history invalidates it (§4.B).
type PositionSnapshot struct {
	SnapshotDate  bizdate.Date `json:"snapshot_date" db:"snapshot_date"`
	AssetID       string       `json:"asset_id" db:"asset_id"`
	Quantity      money.Amount `json:"quantity" db:"quantity"`
	AverageCost   money.Amount `json:"average_cost" db:"average_cost"`
	MarketPrice   *money.Amount `json:"market_price,omitempty" db:"market_price"`
	MarketValue   *money.Amount `json:"market_value,omitempty" db:"market_value"`
	UnrealizedPL  *money.Amount `json:"unrealized_pl,omitempty" db:"unrealized_pl"`
	TxFingerprint string       `json:"tx_fingerprint" db:"tx_fingerprint"`
	Label         *string      `json:"label,omitempty" db:"label"`
}

// CashFlowKind distinguishes external money moving into or out of the
// tracked portfolio, used by performance to partition TWR sub-periods.
type CashFlowKind string

const (
	CashContribution CashFlowKind = "CONTRIBUTION"
	CashWithdrawal   CashFlowKind = "WITHDRAWAL"
)

// CashFlow is an external contribution or withdrawal (§3.2), optionally
// tied to the asset/transaction that realized it.
type CashFlow struct {
	ID            string        `json:"id" db:"id"`
	FlowDate      bizdate.Date  `json:"flow_date" db:"flow_date"`
	Kind          CashFlowKind  `json:"kind" db:"kind"`
	Amount        money.Amount  `json:"amount" db:"amount"`
	AssetID       *string       `json:"asset_id,omitempty" db:"asset_id"`
	TransactionID *string       `json:"transaction_id,omitempty" db:"transaction_id"`
}

// LossCarryforward tracks a monthly realized loss and how much of it
// remains available to offset future gains within the same TaxCategory
// (§3.2). RemainingAmount only ever decreases, never below zero.
type LossCarryforward struct {
	Year            int          `json:"year" db:"year"`
	Month           int          `json:"month" db:"month"`
	TaxCategory     string       `json:"tax_category" db:"tax_category"`
	LossAmount      money.Amount `json:"loss_amount" db:"loss_amount"`
	RemainingAmount money.Amount `json:"remaining_amount" db:"remaining_amount"`
}

// LossSnapshot is a content-addressed, once-per-closed-year memo of the
// ending remaining loss balance for a tax category (§3.2, §4.H).
type LossSnapshot struct {
	Year           int          `json:"year" db:"year"`
	TaxCategory    string       `json:"tax_category" db:"tax_category"`
	EndingRemaining money.Amount `json:"ending_remaining" db:"ending_remaining"`
	TxFingerprint  string       `json:"tx_fingerprint" db:"tx_fingerprint"`
}
