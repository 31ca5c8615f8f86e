package registry

import (
	"encoding/csv"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/b3ledger/core/ledgerstore"
	"github.com/b3ledger/core/model"
	"github.com/jmoiron/sqlx"
)

// CachedCSVProvider is a TTL-cached registry source backed by a remote
// CSV instrument list (B3's instruments export, or Mais-Retorno's). The
// cache-then-remote-fallback shape — check Metadata for a fresh refresh
// timestamp, otherwise refetch and rewrite the cache — is grounded on
// tsiemens-acb/fx/data.go's GetCadUsdRates (try cache, fall back to
// remote, write-through).
type CachedCSVProvider struct {
	ProviderName string
	URL          string
	TTL          time.Duration
	Store        *ledgerstore.Store
	HTTPClient   *http.Client

	cache map[string]Resolution
}

func NewCachedCSVProvider(name, url string, ttl time.Duration, store *ledgerstore.Store) *CachedCSVProvider {
	return &CachedCSVProvider{ProviderName: name, URL: url, TTL: ttl, Store: store, HTTPClient: http.DefaultClient}
}

func (p *CachedCSVProvider) Name() string { return p.ProviderName }

func (p *CachedCSVProvider) metadataKey() string {
	return "registry_ttl:" + p.ProviderName
}

// Resolve looks up ticker in the in-memory cache, refreshing it from the
// remote CSV first if the TTL (§4.C, §6.5 registry_ttl_seconds) has
// elapsed or no cache exists yet.
func (p *CachedCSVProvider) Resolve(ticker string) (Resolution, bool, error) {
	if err := p.ensureFresh(); err != nil {
		return Resolution{}, false, err
	}
	r, ok := p.cache[ticker]
	return r, ok, nil
}

func (p *CachedCSVProvider) ensureFresh() error {
	if p.cache != nil && !p.expired() {
		return nil
	}
	if err := p.refresh(); err != nil {
		// A refresh failure with an existing (stale) cache is tolerated —
		// §4.C only requires a progress-reported lazy refresh, not that
		// every lookup block on network availability.
		if p.cache != nil {
			return nil
		}
		return err
	}
	return nil
}

func (p *CachedCSVProvider) expired() bool {
	value, ok, err := p.Store.MetadataGet(p.Store.DB, p.metadataKey())
	if err != nil || !ok {
		return true
	}
	stamp, err := time.Parse(time.RFC3339, value)
	if err != nil {
		return true
	}
	return time.Since(stamp) > p.TTL
}

func (p *CachedCSVProvider) refresh() error {
	resp, err := p.HTTPClient.Get(p.URL)
	if err != nil {
		return fmt.Errorf("registry: fetch %s: %w", p.ProviderName, err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("registry: fetch %s: status %s", p.ProviderName, resp.Status)
	}

	cache, err := parseInstrumentCSV(resp.Body)
	if err != nil {
		return fmt.Errorf("registry: parse %s: %w", p.ProviderName, err)
	}
	p.cache = cache

	return p.Store.Write(func(tx *sqlx.Tx) error {
		return p.Store.MetadataSet(tx, p.metadataKey(), time.Now().UTC().Format(time.RFC3339))
	})
}

// parseInstrumentCSV reads a 3-column ticker,kind,name CSV, the common
// shape of both the B3 instruments export and the Mais-Retorno registry
// once normalized by an upstream fetch step.
func parseInstrumentCSV(r io.Reader) (map[string]Resolution, error) {
	csvR := csv.NewReader(r)
	csvR.FieldsPerRecord = 3
	records, err := csvR.ReadAll()
	if err != nil {
		return nil, err
	}
	out := make(map[string]Resolution, len(records))
	for _, rec := range records {
		ticker := strings.TrimSpace(rec[0])
		if ticker == "" {
			continue
		}
		out[ticker] = Resolution{Kind: model.AssetKind(strings.TrimSpace(rec[1])), Name: strings.TrimSpace(rec[2])}
	}
	return out, nil
}
