// Package engine wires the store, registry, and every calculator package
// into the entry points described by §6: ingest for writes, and a small
// set of read facades (portfolio, performance, tax) for queries. No
// process-wide singletons — every entry point takes an explicit *Engine
// built from an explicit Config, mirroring the reference's own
// app.RunAcbApp (explicit config struct, injected ErrorPrinter, no
// globals) and cmd/root.go (flag values threaded into the call rather
// than read from package state).
package engine

import (
	"github.com/b3ledger/core/bizdate"
	"github.com/b3ledger/core/enginelog"
	"github.com/b3ledger/core/tax"
)

// Config is the full set of §6.5 configuration knobs, passed explicitly
// into every Engine. TaxConfig carries the rate/DARF-code table (§4.F.5);
// the remaining fields are engine-wide.
type Config struct {
	Tax tax.Config

	// SettlementDays is the default T+N used when an importer does not
	// supply an explicit settlement_date (§6.5, default 2).
	SettlementDays int

	// DisablePriceFetch skips any external price-source call during
	// portfolio evaluation; positions are reported at cost only.
	DisablePriceFetch bool

	// RegistryTTLSeconds bounds how long a cached registry.Provider
	// answer is trusted before a refresh is attempted (§6.5, default
	// 86400 = 24h).
	RegistryTTLSeconds int

	// Calendar is the business-day calendar used for settlement and DARF
	// due-date arithmetic; defaults to a weekend-only calendar.
	Calendar bizdate.Calendar

	// Sink receives progress notifications from long-running reads (§5).
	Sink enginelog.Sink
}

// DefaultConfig returns the §6.5 baseline: tax.DefaultConfig's rate
// table, T+2 settlement, a 24h registry TTL, price fetching enabled, and
// a weekend-only settlement calendar.
func DefaultConfig() Config {
	return Config{
		Tax:                tax.DefaultConfig(),
		SettlementDays:     2,
		DisablePriceFetch:  false,
		RegistryTTLSeconds: 86400,
		Calendar:           bizdate.WeekendCalendar{},
		Sink:               enginelog.NoopSink{},
	}
}
