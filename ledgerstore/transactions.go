package ledgerstore

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/b3ledger/core/bizdate"
	"github.com/b3ledger/core/model"
	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
)

// IsDuplicateTransaction reports whether a row matching (asset, trade_date,
// side, quantity) already exists, per §4.B's duplicate-detection rule.
func (s *Store) IsDuplicateTransaction(q sqlx.Queryer, assetID string, tradeDate bizdate.Date, side model.Side, quantity string) (bool, error) {
	var count int
	err := sqlx.Get(q, &count,
		`SELECT count(*) FROM transactions WHERE asset_id = $1 AND trade_date = $2 AND side = $3 AND quantity = $4`,
		assetID, tradeDate.UTCTime(), side, quantity)
	return count > 0, err
}

// IsDuplicateSourceRef reports whether a transaction row already carries
// this (source, source_ref) pair, the §6.2/§7 importer dedup key (an
// importer re-submitting the same source row is skipped; there is no
// force override).
func (s *Store) IsDuplicateSourceRef(q sqlx.Queryer, source, sourceRef string) (bool, error) {
	var count int
	err := sqlx.Get(q, &count,
		`SELECT count(*) FROM transactions WHERE source = $1 AND source_ref = $2`, source, sourceRef)
	return count > 0, err
}

// AppendTransaction inserts a single transaction row. Callers run
// duplicate detection (IsDuplicateSourceRef, IsDuplicateTransaction)
// themselves, per the §7/§13 duplicate-handling decision;
// AppendTransaction itself always inserts.
func (s *Store) AppendTransaction(tx *sqlx.Tx, t model.Transaction) (model.Transaction, error) {
	if t.ID == "" {
		t.ID = uuid.NewString()
	}
	_, err := tx.Exec(`
		INSERT INTO transactions
			(id, asset_id, side, trade_date, settlement_date, quantity, price_per_unit,
			 total_cost, fees, is_day_trade, quota_issuance_date, source, source_ref)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13)`,
		t.ID, t.AssetID, t.Side, t.TradeDate.UTCTime(), dateArg(t.SettlementDate),
		t.Quantity.String(), t.PricePerUnit.String(), t.TotalCost.String(), t.Fees.String(),
		t.IsDayTrade, dateArg(t.QuotaIssuanceDate), t.Source, t.SourceRef)
	if err != nil {
		return model.Transaction{}, fmt.Errorf("ledgerstore: insert transaction: %w", err)
	}
	return t, nil
}

// dateArg converts an optional bizdate.Date into a driver-accepted value.
func dateArg(d *bizdate.Date) interface{} {
	if d == nil {
		return nil
	}
	return d.UTCTime()
}

// TransactionsByAsset returns every transaction for an asset ordered by
// (trade_date ASC, id ASC) per the §3.3 global ordering invariant.
func (s *Store) TransactionsByAsset(q sqlx.Queryer, assetID string) ([]model.Transaction, error) {
	rows, err := q.Queryx(`
		SELECT id, asset_id, side, trade_date, settlement_date, quantity, price_per_unit,
		       total_cost, fees, is_day_trade, quota_issuance_date, source, source_ref
		FROM transactions WHERE asset_id = $1 ORDER BY trade_date ASC, id ASC`, assetID)
	if err != nil {
		return nil, fmt.Errorf("ledgerstore: query transactions: %w", err)
	}
	defer rows.Close()

	var out []model.Transaction
	for rows.Next() {
		var row txRow
		if err := rows.StructScan(&row); err != nil {
			return nil, fmt.Errorf("ledgerstore: scan transaction: %w", err)
		}
		t, err := row.toModel()
		if err != nil {
			return nil, err
		}
		out = append(out, t)
	}
	return out, rows.Err()
}

// txRow mirrors model.Transaction with driver-native column types
// (time.Time dates, decimal strings) for sqlx scanning; toModel converts
// to the bizdate.Date/money.Amount domain types.
type txRow struct {
	ID                string         `db:"id"`
	AssetID           string         `db:"asset_id"`
	Side              string         `db:"side"`
	TradeDate         time.Time      `db:"trade_date"`
	SettlementDate    sql.NullTime   `db:"settlement_date"`
	Quantity          string         `db:"quantity"`
	PricePerUnit      string         `db:"price_per_unit"`
	TotalCost         string         `db:"total_cost"`
	Fees              string         `db:"fees"`
	IsDayTrade        bool           `db:"is_day_trade"`
	QuotaIssuanceDate sql.NullTime   `db:"quota_issuance_date"`
	Source            string         `db:"source"`
	SourceRef         string         `db:"source_ref"`
}

func (r txRow) toModel() (model.Transaction, error) {
	qty, err := decodeAmount(r.Quantity)
	if err != nil {
		return model.Transaction{}, err
	}
	price, err := decodeAmount(r.PricePerUnit)
	if err != nil {
		return model.Transaction{}, err
	}
	total, err := decodeAmount(r.TotalCost)
	if err != nil {
		return model.Transaction{}, err
	}
	fees, err := decodeAmount(r.Fees)
	if err != nil {
		return model.Transaction{}, err
	}
	t := model.Transaction{
		ID:           r.ID,
		AssetID:      r.AssetID,
		Side:         model.Side(r.Side),
		TradeDate:    bizdate.FromTime(r.TradeDate),
		Quantity:     qty,
		PricePerUnit: price,
		TotalCost:    total,
		Fees:         fees,
		IsDayTrade:   r.IsDayTrade,
		Source:       r.Source,
		SourceRef:    r.SourceRef,
	}
	if r.SettlementDate.Valid {
		sd := bizdate.FromTime(r.SettlementDate.Time)
		t.SettlementDate = &sd
	}
	if r.QuotaIssuanceDate.Valid {
		qd := bizdate.FromTime(r.QuotaIssuanceDate.Time)
		t.QuotaIssuanceDate = &qd
	}
	return t, nil
}
