// Package model defines the entities of §3.2: the shared vocabulary every
// other package reads and writes. Field and tag conventions follow
// ferreirogomes-tiquin/models (string uuid IDs, json tags, short inline
// comments on non-obvious fields); the scalar kernel types (money.Amount,
// bizdate.Date) follow tsiemens-acb's own decimal_value/date packages,
// generalized in the money and bizdate packages.
package model

// AssetKind enumerates the instrument classes carried end to end from
// registry resolution through tax categorization.
type AssetKind string

const (
	KindStock   AssetKind = "STOCK"
	KindBDR     AssetKind = "BDR"
	KindETF     AssetKind = "ETF"
	KindFII     AssetKind = "FII"
	KindFIAGRO  AssetKind = "FIAGRO"
	KindFIInfra AssetKind = "FI_INFRA"
	KindFIDC    AssetKind = "FIDC"
	KindFIP     AssetKind = "FIP"
	KindBond    AssetKind = "BOND"
	KindGovBond AssetKind = "GOV_BOND"
	KindOption  AssetKind = "OPTION"
	KindTerm    AssetKind = "TERM"
	KindUnknown AssetKind = "UNKNOWN"
)

// Asset is a traded instrument, keyed by a globally unique ticker.
// Created on first reference by an importer; kind may be refined later
// (e.g. UNKNOWN -> FII once the registry confirms it) but the asset row
// is never deleted while any transaction, event, or snapshot references
// it (§3.2).
type Asset struct {
	ID     string    `json:"id" db:"id"`
	Ticker string    `json:"ticker" db:"ticker"` // globally unique
	Kind   AssetKind `json:"kind" db:"kind"`
	Name   string    `json:"name" db:"name"`
}
