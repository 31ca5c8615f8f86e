// Package ledgerstore is the persistent store of §4.B: a single ACID
// key-space with enforced foreign keys and cascade deletion, backed by
// Postgres through sqlx/lib/pq/sql-migrate. The connect-then-migrate
// shape is grounded directly on ferreirogomes-tiquin/storage/db.go,
// generalized from its token/asset tables to the full §3.2 entity set.
package ledgerstore

import (
	"database/sql"
	"fmt"

	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
	migrate "github.com/rubenv/sql-migrate"
)

// Store wraps a sqlx.DB with the single-writer discipline of §5: writes
// are serialized through the package-level writeMu (see Write), reads
// proceed unlocked.
type Store struct {
	*sqlx.DB
}

// MigrationsDir is the default location of the SQL migration files,
// matching the teacher's embedded FileMigrationSource.Dir convention.
const MigrationsDir = "./ledgerstore/migrations"

// Open connects to Postgres and applies any pending migrations.
func Open(dataSourceName string) (*Store, error) {
	db, err := sqlx.Connect("postgres", dataSourceName)
	if err != nil {
		return nil, fmt.Errorf("ledgerstore: connect: %w", err)
	}
	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("ledgerstore: ping: %w", err)
	}
	if err := runMigrations(db.DB); err != nil {
		return nil, fmt.Errorf("ledgerstore: migrate: %w", err)
	}
	return &Store{db}, nil
}

func runMigrations(db *sql.DB) error {
	migrations := &migrate.FileMigrationSource{Dir: MigrationsDir}
	if _, err := migrate.Exec(db, "postgres", migrations, migrate.Up); err != nil {
		return fmt.Errorf("applying migrations: %w", err)
	}
	return nil
}

// Close releases the underlying connection pool.
func (s *Store) Close() error {
	return s.DB.Close()
}
