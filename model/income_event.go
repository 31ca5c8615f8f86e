package model

import (
	"github.com/b3ledger/core/bizdate"
	"github.com/b3ledger/core/money"
)

// IncomeKind enumerates the taxable income categories distributed by
// funds and stocks (§3.2, supplemented by §4.F for vintage-split rates).
type IncomeKind string

const (
	IncomeDividend    IncomeKind = "DIVIDEND"
	IncomeJCP         IncomeKind = "JCP"
	IncomeAmortization IncomeKind = "AMORTIZATION"
)

// IncomeEvent is a per-asset income distribution.
type IncomeEvent struct {
	ID              string       `json:"id" db:"id"`
	AssetID         string       `json:"asset_id" db:"asset_id"`
	EventDate       bizdate.Date `json:"event_date" db:"event_date"`
	ExDate          *bizdate.Date `json:"ex_date,omitempty" db:"ex_date"`
	Kind            IncomeKind   `json:"kind" db:"kind"`
	AmountPerQuota  money.Amount `json:"amount_per_quota" db:"amount_per_quota"`
	TotalAmount     money.Amount `json:"total_amount" db:"total_amount"`
	WithholdingTax  money.Amount `json:"withholding_tax" db:"withholding_tax"`
	IsQuotaPre2026  bool         `json:"is_quota_pre_2026" db:"is_quota_pre_2026"`
	Source          string       `json:"source" db:"source"`
}
