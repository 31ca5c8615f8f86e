package registry

import (
	"database/sql"
	"errors"
	"fmt"

	"github.com/b3ledger/core/model"
	"github.com/jmoiron/sqlx"
)

// OverrideProvider reads explicit user overrides from the store's assets
// table (§4.C step 1): if the operator has already asserted a ticker's
// kind, that assertion always wins over any cache or heuristic.
type OverrideProvider struct {
	DB *sqlx.DB
}

func (OverrideProvider) Name() string { return "override" }

func (p OverrideProvider) Resolve(ticker string) (Resolution, bool, error) {
	var row struct {
		Kind string `db:"kind"`
		Name string `db:"name"`
	}
	err := sqlx.Get(p.DB, &row, `SELECT kind, name FROM assets WHERE ticker = $1`, ticker)
	if errors.Is(err, sql.ErrNoRows) {
		return Resolution{}, false, nil
	}
	if err != nil {
		return Resolution{}, false, fmt.Errorf("registry: override lookup: %w", err)
	}
	if model.AssetKind(row.Kind) == model.KindUnknown {
		return Resolution{}, false, nil
	}
	return Resolution{Kind: model.AssetKind(row.Kind), Name: row.Name}, true, nil
}
