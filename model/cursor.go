package model

import "github.com/b3ledger/core/bizdate"

// ImportCursor records, per (source, entry_type), the last successfully
// imported date (§3.2). Importers advance it after a successful append
// so a re-run only processes newer entries.
type ImportCursor struct {
	Source         string       `json:"source" db:"source"`
	EntryType      string       `json:"entry_type" db:"entry_type"`
	LastImported   bizdate.Date `json:"last_imported_date" db:"last_imported_date"`
}

// Metadata is a flat key/value store for schema version markers and
// per-source cache TTL timestamps (§3.2, used by the registry's TTL
// cache, §4.C).
type Metadata struct {
	Key   string `json:"key" db:"key"`
	Value string `json:"value" db:"value"`
}
