package snapshot

import (
	"context"

	"github.com/b3ledger/core/bizdate"
	"github.com/b3ledger/core/ledgerstore"
	"github.com/b3ledger/core/model"
	"github.com/b3ledger/core/money"
	"github.com/b3ledger/core/portfolio"
	"github.com/jmoiron/sqlx"
)

// Service implements the §4.H save/read/invalidation cycle over a
// ledgerstore.Store. Invalidation itself lives in ledgerstore
// (InvalidateSnapshotsFrom, called by the engine inside the same write
// transaction as the triggering append); this package only owns the
// fingerprint-compare-then-recompute-or-return decision.
type Service struct {
	Store *ledgerstore.Store
}

// PortfolioAt satisfies a portfolio query at asOf per §4.H's read rule:
// compute the current fingerprint, and if a stored snapshot set matches
// it, return the cached report; otherwise recompute via portfolio.Evaluate
// and upsert one row per position under the new fingerprint. The
// fingerprint covers every transaction, corporate event and income event
// passed in; they are not restricted to date <= asOf, so a later-dated
// record also changes the fingerprint of earlier as-of dates.
func (s *Service) PortfolioAt(ctx context.Context, asOf bizdate.Date, kindFilter *model.AssetKind, histories []portfolio.AssetHistory, income []model.IncomeEvent, prices portfolio.PriceSource) (portfolio.PortfolioReport, error) {
	fp := fingerprintOf(asOf, histories, income)

	if cached, ok, err := s.loadCached(asOf, fp); err != nil {
		return portfolio.PortfolioReport{}, err
	} else if ok {
		return cached, nil
	}

	report, err := portfolio.Evaluate(ctx, asOf, kindFilter, histories, prices)
	if err != nil {
		return portfolio.PortfolioReport{}, err
	}

	if err := s.save(asOf, fp, report); err != nil {
		return portfolio.PortfolioReport{}, err
	}
	return report, nil
}

func fingerprintOf(asOf bizdate.Date, histories []portfolio.AssetHistory, income []model.IncomeEvent) string {
	var txs []model.Transaction
	var events []model.CorporateEvent
	for _, h := range histories {
		txs = append(txs, h.Transactions...)
		events = append(events, h.Events...)
	}
	return Fingerprint(asOf, txs, events, income)
}

// loadCached reconstructs a PortfolioReport from persisted
// PositionSnapshot rows if every row's tx_fingerprint matches fp. The
// rebuilt Summary carries TotalCost only, and each row's Asset carries
// only its ID.
func (s *Service) loadCached(asOf bizdate.Date, fp string) (portfolio.PortfolioReport, bool, error) {
	rows, err := s.Store.PositionSnapshotsAt(s.Store.DB, asOf)
	if err != nil {
		return portfolio.PortfolioReport{}, false, err
	}
	if len(rows) == 0 {
		return portfolio.PortfolioReport{}, false, nil
	}
	for _, r := range rows {
		if r.TxFingerprint != fp {
			return portfolio.PortfolioReport{}, false, nil
		}
	}

	report := portfolio.PortfolioReport{AsOf: asOf, Summary: portfolio.Summary{TotalCost: money.Zero}}
	for _, r := range rows {
		totalCost := r.Quantity.MustMul(r.AverageCost)
		report.Positions = append(report.Positions, portfolio.PositionRow{
			Asset:        model.Asset{ID: r.AssetID},
			Quantity:     r.Quantity,
			AverageCost:  r.AverageCost,
			TotalCost:    totalCost,
			MarketPrice:  r.MarketPrice,
			MarketValue:  r.MarketValue,
			UnrealizedPL: r.UnrealizedPL,
		})
		report.Summary.TotalCost = report.Summary.TotalCost.MustAdd(totalCost)
	}
	return report, true, nil
}

func (s *Service) save(asOf bizdate.Date, fp string, report portfolio.PortfolioReport) error {
	if len(report.Positions) == 0 {
		return nil
	}
	return s.Store.Write(func(tx *sqlx.Tx) error {
		for _, row := range report.Positions {
			snap := model.PositionSnapshot{
				SnapshotDate:  asOf,
				AssetID:       row.Asset.ID,
				Quantity:      row.Quantity,
				AverageCost:   row.AverageCost,
				MarketPrice:   row.MarketPrice,
				MarketValue:   row.MarketValue,
				UnrealizedPL:  row.UnrealizedPL,
				TxFingerprint: fp,
			}
			if err := s.Store.UpsertPositionSnapshot(tx, snap); err != nil {
				return err
			}
		}
		return nil
	})
}
