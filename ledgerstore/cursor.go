package ledgerstore

import (
	"database/sql"
	"errors"
	"fmt"

	"github.com/b3ledger/core/bizdate"
	"github.com/jmoiron/sqlx"
)

// Cursor returns the ImportCursor for (source, entryType), or the zero
// Date if the importer has never advanced it.
func (s *Store) Cursor(q sqlx.Queryer, source, entryType string) (bizdate.Date, error) {
	var row struct {
		LastImported sqlNullTime `db:"last_imported_date"`
	}
	err := sqlx.Get(q, &row, `SELECT last_imported_date FROM import_cursors WHERE source = $1 AND entry_type = $2`, source, entryType)
	if errors.Is(err, sql.ErrNoRows) {
		return bizdate.Date{}, nil
	}
	if err != nil {
		return bizdate.Date{}, fmt.Errorf("ledgerstore: read cursor: %w", err)
	}
	return row.LastImported.toDate(), nil
}

// AdvanceCursor upserts ImportCursor(source, entryType) to date, the
// §6.2 "advance to the maximum date observed" step of ingest.
func (s *Store) AdvanceCursor(tx *sqlx.Tx, source, entryType string, date bizdate.Date) error {
	_, err := tx.Exec(`
		INSERT INTO import_cursors (source, entry_type, last_imported_date)
		VALUES ($1, $2, $3)
		ON CONFLICT (source, entry_type) DO UPDATE SET last_imported_date = excluded.last_imported_date
		WHERE import_cursors.last_imported_date < excluded.last_imported_date`,
		source, entryType, date.UTCTime())
	if err != nil {
		return fmt.Errorf("ledgerstore: advance cursor: %w", err)
	}
	return nil
}

// MetadataGet reads a single key from the flat Metadata table.
func (s *Store) MetadataGet(q sqlx.Queryer, key string) (string, bool, error) {
	var value string
	err := sqlx.Get(q, &value, `SELECT value FROM metadata WHERE key = $1`, key)
	if errors.Is(err, sql.ErrNoRows) {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("ledgerstore: read metadata: %w", err)
	}
	return value, true, nil
}

// MetadataSet upserts a Metadata key, used for registry TTL timestamps
// and the schema_version marker (§3.2, §4.C).
func (s *Store) MetadataSet(tx *sqlx.Tx, key, value string) error {
	_, err := tx.Exec(`
		INSERT INTO metadata (key, value) VALUES ($1, $2)
		ON CONFLICT (key) DO UPDATE SET value = excluded.value`, key, value)
	if err != nil {
		return fmt.Errorf("ledgerstore: write metadata: %w", err)
	}
	return nil
}
