package ledgerstore

import (
	"fmt"
	"sync"

	"github.com/jmoiron/sqlx"
)

// writeMu serializes every multi-table mutation through one store
// transaction at a time, per §5: "writes serialize through one store
// transaction at a time... all mutations that cross multiple tables
// execute in one atomic transaction. Partial failure rolls back every
// table." Reads never take this lock.
var writeMu sync.Mutex

// Write runs fn inside a single SQL transaction while holding the
// store's write lock, committing on success and rolling back (with the
// lock still released afterward) on any error or panic.
func (s *Store) Write(fn func(tx *sqlx.Tx) error) (err error) {
	writeMu.Lock()
	defer writeMu.Unlock()

	tx, err := s.Beginx()
	if err != nil {
		return fmt.Errorf("ledgerstore: begin transaction: %w", err)
	}
	defer func() {
		if p := recover(); p != nil {
			tx.Rollback()
			panic(p)
		}
	}()

	if err := fn(tx); err != nil {
		if rbErr := tx.Rollback(); rbErr != nil {
			return fmt.Errorf("%w (rollback also failed: %v)", err, rbErr)
		}
		return err
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("ledgerstore: commit transaction: %w", err)
	}
	return nil
}
