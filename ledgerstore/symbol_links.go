package ledgerstore

import (
	"time"

	"github.com/b3ledger/core/bizdate"
	"github.com/b3ledger/core/ledgererr"
	"github.com/jmoiron/sqlx"
)

// SymbolLink is one RENAME's ancestor→descendant edge (§4.D "symbol
// reassignment", §9's cyclic-graph note, §11.1's symbol_links table): a
// query on descendant_asset_id's ticker must see ancestor_asset_id's
// history from before effective_date too.
type SymbolLink struct {
	AncestorAssetID   string       `db:"ancestor_asset_id"`
	DescendantAssetID string       `db:"descendant_asset_id"`
	EffectiveDate     bizdate.Date `db:"effective_date"`
}

// InsertSymbolLink records a RENAME's ancestor/descendant edge, rejecting
// self-links and anything that would close a cycle in the rename graph
// (§9: renames must form a forest, not a graph with loops).
func (s *Store) InsertSymbolLink(tx *sqlx.Tx, link SymbolLink) error {
	if link.AncestorAssetID == link.DescendantAssetID {
		return ledgererr.New(ledgererr.ConfigurationError,
			"symbol_links: cannot link asset %s to itself", link.AncestorAssetID)
	}
	links, err := allSymbolLinks(tx)
	if err != nil {
		return err
	}
	for _, id := range reachableDescendants(links, link.DescendantAssetID) {
		if id == link.AncestorAssetID {
			return ledgererr.New(ledgererr.ConfigurationError,
				"symbol_links: linking %s -> %s would close a cycle",
				link.AncestorAssetID, link.DescendantAssetID)
		}
	}
	_, err = tx.Exec(`
		INSERT INTO symbol_links (ancestor_asset_id, descendant_asset_id, effective_date)
		VALUES ($1, $2, $3)`,
		link.AncestorAssetID, link.DescendantAssetID, link.EffectiveDate.UTCTime())
	return err
}

// DescendantsOf returns every asset_id reachable by following
// descendant edges forward from assetID (assetID's own later renamed
// identities), using the same walk (reachableDescendants) that
// InsertSymbolLink's cycle check runs.
func (s *Store) DescendantsOf(q sqlx.Queryer, assetID string) ([]string, error) {
	links, err := allSymbolLinks(q)
	if err != nil {
		return nil, err
	}
	return reachableDescendants(links, assetID), nil
}

// AncestorsOf walks backward from assetID over descendant edges,
// returning every ancestor link in the chain (oldest last), for
// engine.loadAssets to merge each ancestor's pre-rename history into
// assetID's own stream.
func (s *Store) AncestorsOf(q sqlx.Queryer, assetID string) ([]SymbolLink, error) {
	links, err := allSymbolLinks(q)
	if err != nil {
		return nil, err
	}
	return ancestorChain(links, assetID), nil
}

// RenamedAwayAssetIDs returns the set of every asset_id that appears as
// an ancestor in symbol_links — an identity a RENAME has since
// superseded, whose history is only ever surfaced merged into its
// descendant (engine.historyWithAncestors), never standalone.
func (s *Store) RenamedAwayAssetIDs(q sqlx.Queryer) (map[string]bool, error) {
	links, err := allSymbolLinks(q)
	if err != nil {
		return nil, err
	}
	out := make(map[string]bool, len(links))
	for _, l := range links {
		out[l.AncestorAssetID] = true
	}
	return out, nil
}

// reachableDescendants performs a breadth-first walk over links forward
// from assetID along AncestorAssetID -> DescendantAssetID edges.
func reachableDescendants(links []SymbolLink, assetID string) []string {
	seen := map[string]bool{assetID: true}
	queue := []string{assetID}
	var out []string
	for len(queue) > 0 {
		cur := queue[0]
		queue = queue[1:]
		for _, l := range links {
			if l.AncestorAssetID == cur && !seen[l.DescendantAssetID] {
				seen[l.DescendantAssetID] = true
				out = append(out, l.DescendantAssetID)
				queue = append(queue, l.DescendantAssetID)
			}
		}
	}
	return out
}

// ancestorChain walks backward from assetID along
// DescendantAssetID -> AncestorAssetID edges, one hop per iteration,
// returning every link crossed (oldest last). Guards against a
// malformed cycle (which InsertSymbolLink should have already rejected)
// with the seen set, rather than looping forever.
func ancestorChain(links []SymbolLink, assetID string) []SymbolLink {
	var chain []SymbolLink
	cur := assetID
	seen := map[string]bool{}
	for {
		found := false
		for _, l := range links {
			if l.DescendantAssetID == cur && !seen[l.AncestorAssetID] {
				chain = append(chain, l)
				seen[l.AncestorAssetID] = true
				cur = l.AncestorAssetID
				found = true
				break
			}
		}
		if !found {
			break
		}
	}
	return chain
}

// symbolLinkRow mirrors SymbolLink with a driver-native time.Time date,
// following the txRow convention (ledgerstore/transactions.go).
type symbolLinkRow struct {
	AncestorAssetID   string    `db:"ancestor_asset_id"`
	DescendantAssetID string    `db:"descendant_asset_id"`
	EffectiveDate     time.Time `db:"effective_date"`
}

func allSymbolLinks(q sqlx.Queryer) ([]SymbolLink, error) {
	var rows []symbolLinkRow
	err := sqlx.Select(q, &rows,
		`SELECT ancestor_asset_id, descendant_asset_id, effective_date FROM symbol_links ORDER BY effective_date ASC`)
	if err != nil {
		return nil, err
	}
	links := make([]SymbolLink, len(rows))
	for i, r := range rows {
		links[i] = SymbolLink{
			AncestorAssetID:   r.AncestorAssetID,
			DescendantAssetID: r.DescendantAssetID,
			EffectiveDate:     bizdate.FromTime(r.EffectiveDate),
		}
	}
	return links, nil
}
