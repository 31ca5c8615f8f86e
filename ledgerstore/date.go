package ledgerstore

import (
	"database/sql"

	"github.com/b3ledger/core/bizdate"
)

// sqlNullTime adapts sql.NullTime for columns that are logically
// required but scanned defensively (e.g. a cursor row that may not
// exist yet).
type sqlNullTime struct {
	sql.NullTime
}

func (n sqlNullTime) toDate() bizdate.Date {
	if !n.Valid {
		return bizdate.Date{}
	}
	return bizdate.FromTime(n.Time)
}
