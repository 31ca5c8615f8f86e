package engine

import (
	"github.com/b3ledger/core/ledgerstore"
	"github.com/b3ledger/core/registry"
)

// Engine is the facade wiring a store, a ticker registry, and a Config
// into the §6 entry points. Built explicitly by the host; never a
// package-level singleton.
type Engine struct {
	Store    *ledgerstore.Store
	Registry *registry.Registry
	Config   Config
}

// New builds an Engine from its three collaborators.
func New(store *ledgerstore.Store, reg *registry.Registry, cfg Config) *Engine {
	return &Engine{Store: store, Registry: reg, Config: cfg}
}
