package registry

import (
	"github.com/b3ledger/core/enginelog"
	"github.com/b3ledger/core/ledgererr"
	"github.com/b3ledger/core/model"
)

// Registry resolves tickers through an ordered Provider chain,
// short-circuiting on first hit (§4.C). Additional providers (e.g. a
// future ANBIMA source) attach without any change to this type, per
// SPEC_FULL §12's open-ended registry.Provider chain.
type Registry struct {
	Providers []Provider
	Sink      enginelog.Sink
}

// New builds a Registry over an ordered provider chain. Callers
// typically pass []Provider{override, b3Cache, maisRetornoCache,
// HeuristicProvider{}} per the §4.C lookup order.
func New(providers ...Provider) *Registry {
	return &Registry{Providers: providers, Sink: enginelog.NoopSink{}}
}

// Resolve walks the provider chain in order, returning the first hit.
// If every provider misses, it returns InsufficientInformation — a
// caller may still choose to proceed with model.KindUnknown explicitly,
// but Resolve itself never guesses.
func (r *Registry) Resolve(ticker string) (Resolution, error) {
	total := len(r.Providers)
	for i, p := range r.Providers {
		res, ok, err := p.Resolve(ticker)
		r.Sink.Progress(i+1, &total)
		if err != nil {
			enginelog.Tracef("registry", "provider %s failed for %s: %v", p.Name(), ticker, err)
			continue
		}
		if ok {
			return res, nil
		}
	}
	return Resolution{}, ledgererr.New(ledgererr.InsufficientInformation, "no registry provider resolved ticker %s", ticker)
}

// ResolveOrUnknown is a convenience for ingest paths that must always
// produce an Asset even when the registry cannot confirm a kind (§4.C:
// "heuristics produce UNKNOWN when unsafe").
func (r *Registry) ResolveOrUnknown(ticker string) Resolution {
	res, err := r.Resolve(ticker)
	if err != nil {
		return Resolution{Kind: model.KindUnknown, Name: ticker}
	}
	return res
}
