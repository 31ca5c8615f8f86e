// Package inconsistency implements §4.J: the deferred-resolution queue for
// importer input that is missing required fields. Persistence is
// ledgerstore's append-only inconsistencies table; this package supplies
// the domain-level emission and resolution orchestration on top of it,
// grounded on the reference codebase's sanity-check-then-report shape in
// portfolio/bookkeeping.go.
package inconsistency

import (
	"github.com/b3ledger/core/bizdate"
	"github.com/b3ledger/core/ledgererr"
	"github.com/b3ledger/core/ledgerstore"
	"github.com/b3ledger/core/model"
	"github.com/jmoiron/sqlx"
)

// Flag builds an OPEN Inconsistency for a record missing required fields.
// Callers append it in the same transaction as the partial record it
// describes, per §4.J's "sufficient to re-offer the decision later."
func Flag(kind string, severity model.InconsistencySeverity, assetID, transactionID *string, missingFields []string, context string) model.Inconsistency {
	return model.Inconsistency{
		Kind:          kind,
		Status:        model.InconsistencyOpen,
		Severity:      severity,
		AssetID:       assetID,
		TransactionID: transactionID,
		MissingFields: missingFields,
		Context:       context,
	}
}

// RequireFields checks each named field for emptiness and, if any are
// missing, returns a BLOCKING Inconsistency ready for AppendInconsistency.
// It is the validator-side helper importers call before deciding whether
// a RawEvent can be canonicalized outright or must be deferred.
func RequireFields(kind string, assetID, transactionID *string, context string, fields map[string]string) (model.Inconsistency, bool) {
	var missing []string
	for name, value := range fields {
		if value == "" {
			missing = append(missing, name)
		}
	}
	if len(missing) == 0 {
		return model.Inconsistency{}, false
	}
	return Flag(kind, model.SeverityBlocking, assetID, transactionID, missing, context), true
}

// ApplyResolution applies a resolution decision to the OPEN row id and
// invalidates every snapshot from earliest onward, in the same
// transaction (§4.J: "resolution is itself a mutation").
//
//   - INJECT: the caller has already appended, in the same tx, the
//     synthetic transaction or event that fills the gap; ApplyResolution
//     only marks the row RESOLVED and records what was injected.
//   - UPDATE: the caller has already corrected the existing transaction
//     or event in place, in the same tx; ApplyResolution marks the row
//     RESOLVED and records which record was corrected.
//   - IGNORE: marks the row IGNORED with reason; no other ledger data
//     changes, but since the BLOCKING row no longer suppresses affected
//     reports, snapshots from earliest onward still need recomputing.
func ApplyResolution(s *ledgerstore.Store, tx *sqlx.Tx, id string, action model.ResolutionAction, reason string, transactionID, eventID *string, earliest bizdate.Date) error {
	status, err := statusFor(action)
	if err != nil {
		return err
	}
	resolution := model.Resolution{Action: action, Reason: reason, TransactionID: transactionID, EventID: eventID}
	if err := s.ResolveInconsistency(tx, id, status, resolution); err != nil {
		return err
	}
	return s.InvalidateSnapshotsFrom(tx, earliest)
}

func statusFor(action model.ResolutionAction) (model.InconsistencyStatus, error) {
	switch action {
	case model.ResolutionInject, model.ResolutionUpdate:
		return model.InconsistencyResolved, nil
	case model.ResolutionIgnore:
		return model.InconsistencyIgnored, nil
	default:
		return "", ledgererr.New(ledgererr.ConfigurationError, "inconsistency: unknown resolution action %q", action)
	}
}

// EarliestAffectedDate returns the earliest date, looked up in
// byTransactionID, among the rows' associated transactions, or ok=false
// if none match. Rows are not filtered by status or asset; every row
// passed in is considered. Used by callers that need a snapshot-invalidation floor derived
// from the queue itself rather than a caller-supplied date.
func EarliestAffectedDate(rows []model.Inconsistency, byTransactionID map[string]bizdate.Date) (bizdate.Date, bool) {
	var earliest bizdate.Date
	found := false
	for _, row := range rows {
		if row.TransactionID == nil {
			continue
		}
		d, ok := byTransactionID[*row.TransactionID]
		if !ok {
			continue
		}
		if !found || d.Before(earliest) {
			earliest = d
			found = true
		}
	}
	return earliest, found
}
