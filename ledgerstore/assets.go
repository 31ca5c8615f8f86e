package ledgerstore

import (
	"database/sql"
	"errors"
	"fmt"

	"github.com/b3ledger/core/model"
	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
)

// UpsertAsset creates the asset on first reference or refines its Kind if
// it already exists (§3.2: "created on first reference; kind may be
// refined; never deleted while referenced"). Ticker is the natural key.
func (s *Store) UpsertAsset(tx *sqlx.Tx, a model.Asset) (model.Asset, error) {
	existing, err := s.AssetByTicker(tx, a.Ticker)
	if err == nil {
		if a.Kind != model.KindUnknown && a.Kind != existing.Kind {
			existing.Kind = a.Kind
			if _, err := tx.Exec(`UPDATE assets SET kind = $1 WHERE id = $2`, existing.Kind, existing.ID); err != nil {
				return model.Asset{}, fmt.Errorf("ledgerstore: refine asset kind: %w", err)
			}
		}
		return existing, nil
	}
	if !errors.Is(err, sql.ErrNoRows) {
		return model.Asset{}, err
	}

	a.ID = uuid.NewString()
	_, err = tx.Exec(`INSERT INTO assets (id, ticker, kind, name) VALUES ($1, $2, $3, $4)`,
		a.ID, a.Ticker, a.Kind, a.Name)
	if err != nil {
		return model.Asset{}, fmt.Errorf("ledgerstore: insert asset: %w", err)
	}
	return a, nil
}

// AssetByTicker looks up an asset by its unique ticker.
func (s *Store) AssetByTicker(q sqlx.Queryer, ticker string) (model.Asset, error) {
	var a model.Asset
	err := sqlx.Get(q, &a, `SELECT id, ticker, kind, name FROM assets WHERE ticker = $1`, ticker)
	return a, err
}

// AssetByID looks up an asset by its primary key.
func (s *Store) AssetByID(q sqlx.Queryer, id string) (model.Asset, error) {
	var a model.Asset
	err := sqlx.Get(q, &a, `SELECT id, ticker, kind, name FROM assets WHERE id = $1`, id)
	return a, err
}

// AllAssets returns every asset ordered by ticker, used by the engine
// facade to enumerate a portfolio without the caller tracking tickers.
func (s *Store) AllAssets(q sqlx.Queryer) ([]model.Asset, error) {
	var out []model.Asset
	err := sqlx.Select(q, &out, `SELECT id, ticker, kind, name FROM assets ORDER BY ticker ASC`)
	if err != nil {
		return nil, fmt.Errorf("ledgerstore: query assets: %w", err)
	}
	return out, nil
}
