package model

// InconsistencyStatus is the lifecycle state of a deferred decision.
type InconsistencyStatus string

const (
	InconsistencyOpen     InconsistencyStatus = "OPEN"
	InconsistencyResolved InconsistencyStatus = "RESOLVED"
	InconsistencyIgnored  InconsistencyStatus = "IGNORED"
)

// InconsistencySeverity marks whether an open Inconsistency blocks
// downstream computation or is merely advisory.
type InconsistencySeverity string

const (
	SeverityBlocking InconsistencySeverity = "BLOCKING"
	SeverityWarn     InconsistencySeverity = "WARN"
)

// Inconsistency is an append-only record of a decision deferred by an
// importer or validator (§4.J), e.g. a subscription-conversion event
// arriving without a cost basis. MissingFields/Context must carry enough
// to re-offer the decision to an operator later; Resolution, once set,
// is itself a mutation that triggers snapshot invalidation.
type Inconsistency struct {
	ID            string                `json:"id" db:"id"`
	Kind          string                `json:"kind" db:"kind"`
	Status        InconsistencyStatus   `json:"status" db:"status"`
	Severity      InconsistencySeverity `json:"severity" db:"severity"`
	AssetID       *string               `json:"asset_id,omitempty" db:"asset_id"`
	TransactionID *string               `json:"transaction_id,omitempty" db:"transaction_id"`
	MissingFields []string              `json:"missing_fields" db:"missing_fields"`
	Context       string                `json:"context" db:"context"`
	Resolution    *Resolution           `json:"resolution,omitempty" db:"resolution"`
}

// ResolutionAction is how an Inconsistency was (or should be) closed.
type ResolutionAction string

const (
	ResolutionInject ResolutionAction = "INJECT"
	ResolutionIgnore ResolutionAction = "IGNORE"
	ResolutionUpdate ResolutionAction = "UPDATE"
)

// Resolution is the payload recorded against a closed Inconsistency.
type Resolution struct {
	Action        ResolutionAction `json:"action"`
	Reason        string           `json:"reason,omitempty"`
	TransactionID *string          `json:"transaction_id,omitempty"`
	EventID       *string          `json:"event_id,omitempty"`
}
