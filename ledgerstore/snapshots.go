package ledgerstore

import (
	"fmt"
	"time"

	"github.com/b3ledger/core/bizdate"
	"github.com/b3ledger/core/model"
	"github.com/jmoiron/sqlx"
)

// UpsertPositionSnapshot writes or replaces the memoized snapshot for
// (snapshot_date, asset), per §4.H.
func (s *Store) UpsertPositionSnapshot(tx *sqlx.Tx, snap model.PositionSnapshot) error {
	var label interface{}
	if snap.Label != nil {
		label = *snap.Label
	}
	_, err := tx.Exec(`
		INSERT INTO position_snapshots
			(snapshot_date, asset_id, quantity, average_cost, market_price, market_value,
			 unrealized_pl, tx_fingerprint, label)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9)
		ON CONFLICT (snapshot_date, asset_id) DO UPDATE SET
			quantity = excluded.quantity, average_cost = excluded.average_cost,
			market_price = excluded.market_price, market_value = excluded.market_value,
			unrealized_pl = excluded.unrealized_pl, tx_fingerprint = excluded.tx_fingerprint,
			label = excluded.label`,
		snap.SnapshotDate.UTCTime(), snap.AssetID, snap.Quantity.String(), snap.AverageCost.String(),
		amountArg(snap.MarketPrice), amountArg(snap.MarketValue), amountArg(snap.UnrealizedPL),
		snap.TxFingerprint, label)
	if err != nil {
		return fmt.Errorf("ledgerstore: upsert position snapshot: %w", err)
	}
	return nil
}

// PositionSnapshotAt reads the memoized snapshot for (date, asset), if any.
func (s *Store) PositionSnapshotAt(q sqlx.Queryer, date bizdate.Date, assetID string) (*model.PositionSnapshot, error) {
	rows, err := q.Queryx(`
		SELECT snapshot_date, asset_id, quantity, average_cost, market_price, market_value,
		       unrealized_pl, tx_fingerprint, label
		FROM position_snapshots WHERE snapshot_date = $1 AND asset_id = $2`, date.UTCTime(), assetID)
	if err != nil {
		return nil, fmt.Errorf("ledgerstore: query position snapshot: %w", err)
	}
	defer rows.Close()
	if !rows.Next() {
		return nil, nil
	}
	var row snapshotRow
	if err := rows.StructScan(&row); err != nil {
		return nil, fmt.Errorf("ledgerstore: scan position snapshot: %w", err)
	}
	snap, err := row.toModel()
	if err != nil {
		return nil, err
	}
	return &snap, nil
}

// PositionSnapshotsAt reads every memoized snapshot row for a date, used
// to reconstruct a full PortfolioReport from cache without a per-asset
// round trip.
func (s *Store) PositionSnapshotsAt(q sqlx.Queryer, date bizdate.Date) ([]model.PositionSnapshot, error) {
	rows, err := q.Queryx(`
		SELECT snapshot_date, asset_id, quantity, average_cost, market_price, market_value,
		       unrealized_pl, tx_fingerprint, label
		FROM position_snapshots WHERE snapshot_date = $1 ORDER BY asset_id ASC`, date.UTCTime())
	if err != nil {
		return nil, fmt.Errorf("ledgerstore: query position snapshots: %w", err)
	}
	defer rows.Close()
	var out []model.PositionSnapshot
	for rows.Next() {
		var row snapshotRow
		if err := rows.StructScan(&row); err != nil {
			return nil, fmt.Errorf("ledgerstore: scan position snapshot: %w", err)
		}
		snap, err := row.toModel()
		if err != nil {
			return nil, err
		}
		out = append(out, snap)
	}
	return out, nil
}

// InvalidateSnapshotsFrom deletes all position/tax snapshots with
// snapshot_date/year >= the earliest changed date, per §4.B's invalidation
// rule. Called inside the same write transaction as the triggering append.
func (s *Store) InvalidateSnapshotsFrom(tx *sqlx.Tx, earliest bizdate.Date) error {
	if _, err := tx.Exec(`DELETE FROM position_snapshots WHERE snapshot_date >= $1`, earliest.UTCTime()); err != nil {
		return fmt.Errorf("ledgerstore: invalidate position snapshots: %w", err)
	}
	if _, err := tx.Exec(`DELETE FROM loss_snapshots WHERE year >= $1`, earliest.Year()); err != nil {
		return fmt.Errorf("ledgerstore: invalidate loss snapshots: %w", err)
	}
	return nil
}

type snapshotRow struct {
	SnapshotDate  time.Time `db:"snapshot_date"`
	AssetID       string    `db:"asset_id"`
	Quantity      string    `db:"quantity"`
	AverageCost   string    `db:"average_cost"`
	MarketPrice   *string   `db:"market_price"`
	MarketValue   *string   `db:"market_value"`
	UnrealizedPL  *string   `db:"unrealized_pl"`
	TxFingerprint string    `db:"tx_fingerprint"`
	Label         *string   `db:"label"`
}

func (r snapshotRow) toModel() (model.PositionSnapshot, error) {
	date := bizdate.FromTime(r.SnapshotDate)
	qty, err := decodeAmount(r.Quantity)
	if err != nil {
		return model.PositionSnapshot{}, err
	}
	avg, err := decodeAmount(r.AverageCost)
	if err != nil {
		return model.PositionSnapshot{}, err
	}
	marketPrice, err := decodeAmountPtr(r.MarketPrice)
	if err != nil {
		return model.PositionSnapshot{}, err
	}
	marketValue, err := decodeAmountPtr(r.MarketValue)
	if err != nil {
		return model.PositionSnapshot{}, err
	}
	unrealized, err := decodeAmountPtr(r.UnrealizedPL)
	if err != nil {
		return model.PositionSnapshot{}, err
	}
	return model.PositionSnapshot{
		SnapshotDate:  date,
		AssetID:       r.AssetID,
		Quantity:      qty,
		AverageCost:   avg,
		MarketPrice:   marketPrice,
		MarketValue:   marketValue,
		UnrealizedPL:  unrealized,
		TxFingerprint: r.TxFingerprint,
		Label:         r.Label,
	}, nil
}
