package model

import (
	"github.com/b3ledger/core/bizdate"
	"github.com/b3ledger/core/money"
)

// EventKind discriminates the CorporateEvent tagged variant (§3.2).
type EventKind string

const (
	EventSplit         EventKind = "SPLIT"
	EventRename        EventKind = "RENAME"
	EventExchange      EventKind = "EXCHANGE"
	EventCapitalReturn EventKind = "CAPITAL_RETURN"
)

// ExchangeKind distinguishes the two Exchange sub-variants.
type ExchangeKind string

const (
	ExchangeSpinoff ExchangeKind = "SPINOFF"
	ExchangeMerger  ExchangeKind = "MERGER"
)

// CorporateEvent is the tagged variant of §3.2: exactly one of the
// per-kind payload fields is populated, selected by Kind. Carrying all
// variants as optional fields on one struct (rather than an interface)
// matches the flat, db-tag-friendly style used throughout this model
// package and keeps ledgerstore's row mapping straightforward.
type CorporateEvent struct {
	ID        string    `json:"id" db:"id"`
	AssetID   string    `json:"asset_id" db:"asset_id"`
	Kind      EventKind `json:"kind" db:"kind"`
	EventDate bizdate.Date `json:"event_date" db:"event_date"`
	ExDate    bizdate.Date `json:"ex_date" db:"ex_date"`
	Source    string    `json:"source" db:"source"`

	// SPLIT
	QuantityAdjustment *money.Amount `json:"quantity_adjustment,omitempty" db:"quantity_adjustment"`

	// RENAME
	FromAssetID *string `json:"from_asset_id,omitempty" db:"from_asset_id"`
	ToAssetID   *string `json:"to_asset_id,omitempty" db:"to_asset_id"`

	// EXCHANGE (reuses FromAssetID/ToAssetID above)
	ExchangeKind   *ExchangeKind `json:"exchange_kind,omitempty" db:"exchange_kind"`
	ToQuantity     *money.Amount `json:"to_quantity,omitempty" db:"to_quantity"`
	AllocatedCost  *money.Amount `json:"allocated_cost,omitempty" db:"allocated_cost"`
	CashAmount     *money.Amount `json:"cash_amount,omitempty" db:"cash_amount"`

	// CAPITAL_RETURN
	AmountPerUnit *money.Amount `json:"amount_per_unit,omitempty" db:"amount_per_unit"`
}
