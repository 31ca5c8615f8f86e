package ledgerstore

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/b3ledger/core/model"
	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
)

// AppendInconsistency records a deferred decision (§4.J). The queue is
// append-only; resolving a row is a separate update, never a delete.
func (s *Store) AppendInconsistency(tx *sqlx.Tx, inc model.Inconsistency) (model.Inconsistency, error) {
	if inc.ID == "" {
		inc.ID = uuid.NewString()
	}
	resolutionJSON, err := encodeResolution(inc.Resolution)
	if err != nil {
		return model.Inconsistency{}, err
	}
	_, err = tx.Exec(`
		INSERT INTO inconsistencies
			(id, kind, status, severity, asset_id, transaction_id, missing_fields, context, resolution)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9)`,
		inc.ID, inc.Kind, inc.Status, inc.Severity, inc.AssetID, inc.TransactionID,
		strings.Join(inc.MissingFields, ","), inc.Context, resolutionJSON)
	if err != nil {
		return model.Inconsistency{}, fmt.Errorf("ledgerstore: insert inconsistency: %w", err)
	}
	return inc, nil
}

// ResolveInconsistency applies a resolution payload to an existing row,
// per §4.J: "resolution is itself a mutation and therefore triggers
// snapshot invalidation" — callers must invoke InvalidateSnapshotsFrom
// themselves alongside this call, within the same transaction.
func (s *Store) ResolveInconsistency(tx *sqlx.Tx, id string, status model.InconsistencyStatus, resolution model.Resolution) error {
	resolutionJSON, err := encodeResolution(&resolution)
	if err != nil {
		return err
	}
	_, err = tx.Exec(`UPDATE inconsistencies SET status = $1, resolution = $2 WHERE id = $3`,
		status, resolutionJSON, id)
	if err != nil {
		return fmt.Errorf("ledgerstore: resolve inconsistency: %w", err)
	}
	return nil
}

// OpenInconsistencies returns every OPEN inconsistency, ordered by id for
// determinism.
func (s *Store) OpenInconsistencies(q sqlx.Queryer) ([]model.Inconsistency, error) {
	rows, err := q.Queryx(`
		SELECT id, kind, status, severity, asset_id, transaction_id, missing_fields, context, resolution
		FROM inconsistencies WHERE status = $1 ORDER BY id ASC`, model.InconsistencyOpen)
	if err != nil {
		return nil, fmt.Errorf("ledgerstore: query inconsistencies: %w", err)
	}
	defer rows.Close()
	var out []model.Inconsistency
	for rows.Next() {
		var row inconsistencyRow
		if err := rows.StructScan(&row); err != nil {
			return nil, fmt.Errorf("ledgerstore: scan inconsistency: %w", err)
		}
		inc, err := row.toModel()
		if err != nil {
			return nil, err
		}
		out = append(out, inc)
	}
	return out, rows.Err()
}

type inconsistencyRow struct {
	ID            string  `db:"id"`
	Kind          string  `db:"kind"`
	Status        string  `db:"status"`
	Severity      string  `db:"severity"`
	AssetID       *string `db:"asset_id"`
	TransactionID *string `db:"transaction_id"`
	MissingFields string  `db:"missing_fields"`
	Context       string  `db:"context"`
	Resolution    *string `db:"resolution"`
}

func (r inconsistencyRow) toModel() (model.Inconsistency, error) {
	inc := model.Inconsistency{
		ID:            r.ID,
		Kind:          r.Kind,
		Status:        model.InconsistencyStatus(r.Status),
		Severity:      model.InconsistencySeverity(r.Severity),
		AssetID:       r.AssetID,
		TransactionID: r.TransactionID,
		Context:       r.Context,
	}
	if r.MissingFields != "" {
		inc.MissingFields = strings.Split(r.MissingFields, ",")
	}
	if r.Resolution != nil {
		var res model.Resolution
		if err := json.Unmarshal([]byte(*r.Resolution), &res); err != nil {
			return model.Inconsistency{}, fmt.Errorf("ledgerstore: decode resolution: %w", err)
		}
		inc.Resolution = &res
	}
	return inc, nil
}

func encodeResolution(r *model.Resolution) (interface{}, error) {
	if r == nil {
		return nil, nil
	}
	b, err := json.Marshal(r)
	if err != nil {
		return nil, fmt.Errorf("ledgerstore: encode resolution: %w", err)
	}
	return string(b), nil
}
