// Package registry resolves ticker -> (kind, name) through the layered
// lookup chain of §4.C: explicit override, then cached external
// registries in priority order, then a suffix heuristic. The TTL-cache-
// then-remote-fallback shape is grounded on tsiemens-acb/fx/data.go's
// GetCadUsdRates, generalized from a single FX-rate cache to a chain of
// independently cacheable instrument providers.
package registry

import "github.com/b3ledger/core/model"

// Resolution is what a Provider returns for a ticker it recognizes.
type Resolution struct {
	Kind model.AssetKind
	Name string
}

// Provider resolves a single ticker, short-circuiting the chain on the
// first hit (ok == true). A provider that cannot resolve the ticker
// returns ok == false with no error; an error indicates the provider
// itself is broken (e.g. a network failure), which the chain logs and
// treats as a miss rather than aborting the whole lookup.
type Provider interface {
	// Name identifies the provider for Metadata TTL keys and diagnostics.
	Name() string
	Resolve(ticker string) (Resolution, bool, error)
}
