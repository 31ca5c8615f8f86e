package engine

import (
	"context"
	"errors"

	"github.com/b3ledger/core/bizdate"
	"github.com/b3ledger/core/inconsistency"
	"github.com/b3ledger/core/ledgerstore"
	"github.com/b3ledger/core/model"
	"github.com/b3ledger/core/money"
	"github.com/jmoiron/sqlx"
)

// errDryRunRollback forces Store.Write's transaction to roll back after
// a dry_run ingest has finished validating, so the same code path
// produces the same IngestReport with or without dry_run, per §6.2.
var errDryRunRollback = errors.New("engine: dry_run rollback")

// RawTransaction is an importer-supplied transaction keyed by ticker
// rather than asset_id; Ingest resolves the ticker through the registry
// (§4.C) before the asset_id is known.
type RawTransaction struct {
	Ticker            string
	Side              model.Side
	TradeDate         bizdate.Date
	SettlementDate    *bizdate.Date
	Quantity          money.Amount
	PricePerUnit      money.Amount
	Fees              money.Amount
	QuotaIssuanceDate *bizdate.Date
	SourceRef         string
}

// RawCorporateEvent is an importer-supplied corporate action, keyed by
// ticker(s) rather than asset_id(s).
type RawCorporateEvent struct {
	Ticker         string
	Kind           model.EventKind
	EventDate      bizdate.Date
	ExDate         bizdate.Date
	QuantityAdjustment *money.Amount
	ToTicker       *string
	ExchangeKind   *model.ExchangeKind
	ToQuantity     *money.Amount
	AllocatedCost  *money.Amount
	CashAmount     *money.Amount
	AmountPerUnit  *money.Amount
	SourceRef      string
}

// RawIncomeEvent is an importer-supplied dividend/JCP/amortization event.
type RawIncomeEvent struct {
	Ticker         string
	EventDate      bizdate.Date
	ExDate         *bizdate.Date
	Kind           model.IncomeKind
	AmountPerQuota money.Amount
	TotalAmount    money.Amount
	WithholdingTax money.Amount
	IsQuotaPre2026 bool
	SourceRef      string
}

// RawBatch carries the transaction, corporate-event and income-event
// parts of §6.2's RawEvent union for a single ingest call. Inconsistency
// records are not accepted as input; Ingest only creates them itself
// (for an EXCHANGE event missing allocated_cost).
type RawBatch struct {
	Transactions    []RawTransaction
	CorporateEvents []RawCorporateEvent
	IncomeEvents    []RawIncomeEvent
}

// IngestReport is what Ingest always returns, dry_run or not (§6.2: "In
// dry_run, no writes occur; the same report is produced").
type IngestReport struct {
	AppendedTransactions    int
	AppendedCorporateEvents int
	AppendedIncomeEvents    int
	SkippedDuplicates       int
	NewInconsistencies      []model.Inconsistency
	EarliestNewDate         bizdate.Date
	HasEarliestNewDate      bool
	DryRun                  bool
}

// Ingest implements §6.2: canonicalize, duplicate-detect, resolve
// tickers, append non-duplicates in one transaction, advance the import
// cursor, and invalidate snapshots from the earliest newly-appended
// date. In dry_run, the same validation and report are produced inside a
// Store.Write transaction that is always rolled back, so nothing is
// persisted.
func (e *Engine) Ingest(ctx context.Context, batch RawBatch, source string, dryRun bool) (IngestReport, error) {
	report := IngestReport{DryRun: dryRun}

	run := func(tx *sqlx.Tx) error {
		for _, rt := range batch.Transactions {
			dup, err := e.Store.IsDuplicateSourceRef(tx, source, rt.SourceRef)
			if err != nil {
				return err
			}
			if dup {
				report.SkippedDuplicates++
				continue
			}

			asset, err := e.resolveAsset(tx, rt.Ticker)
			if err != nil {
				return err
			}
			keyDup, err := e.Store.IsDuplicateTransaction(tx, asset.ID, rt.TradeDate, rt.Side, rt.Quantity.String())
			if err != nil {
				return err
			}
			if keyDup {
				report.SkippedDuplicates++
				continue
			}

			totalCost, err := model.ComputeTotalCost(rt.Side, rt.Quantity, rt.PricePerUnit, rt.Fees)
			if err != nil {
				return err
			}
			settlementDate := rt.SettlementDate
			if settlementDate == nil {
				d := bizdate.AddBusinessDays(rt.TradeDate, e.Config.SettlementDays, e.Config.Calendar)
				settlementDate = &d
			}

			txn := model.Transaction{
				AssetID:           asset.ID,
				Side:              rt.Side,
				TradeDate:         rt.TradeDate,
				SettlementDate:    settlementDate,
				Quantity:          rt.Quantity,
				PricePerUnit:      rt.PricePerUnit,
				TotalCost:         totalCost,
				Fees:              rt.Fees,
				QuotaIssuanceDate: rt.QuotaIssuanceDate,
				Source:            source,
				SourceRef:         rt.SourceRef,
			}
			if _, err := e.Store.AppendTransaction(tx, txn); err != nil {
				return err
			}
			report.AppendedTransactions++
			advanceEarliest(&report, rt.TradeDate)
		}

		for _, rc := range batch.CorporateEvents {
			appended, inc, err := e.ingestCorporateEvent(tx, rc, source)
			if err != nil {
				return err
			}
			if inc != nil {
				if _, err := e.Store.AppendInconsistency(tx, *inc); err != nil {
					return err
				}
				report.NewInconsistencies = append(report.NewInconsistencies, *inc)
				continue
			}
			if appended {
				report.AppendedCorporateEvents++
				advanceEarliest(&report, rc.ExDate)
			} else {
				report.SkippedDuplicates++
			}
		}

		for _, ri := range batch.IncomeEvents {
			appended, err := e.ingestIncomeEvent(tx, ri, source)
			if err != nil {
				return err
			}
			if appended {
				report.AppendedIncomeEvents++
				advanceEarliest(&report, ri.EventDate)
			} else {
				report.SkippedDuplicates++
			}
		}

		if report.HasEarliestNewDate {
			if err := e.Store.AdvanceCursor(tx, source, "TRANSACTION", latestTradeDate(batch)); err != nil {
				return err
			}
			if err := e.Store.InvalidateSnapshotsFrom(tx, report.EarliestNewDate); err != nil {
				return err
			}
		}
		return nil
	}

	if dryRun {
		// Run the same validation logic inside a transaction that is always
		// rolled back, so dry_run never persists a write yet still surfaces
		// the same report (including any would-be inconsistencies).
		err := e.Store.Write(func(tx *sqlx.Tx) error {
			if err := run(tx); err != nil {
				return err
			}
			return errDryRunRollback
		})
		if err != nil && !errors.Is(err, errDryRunRollback) {
			return IngestReport{}, err
		}
		return report, nil
	}

	if err := e.Store.Write(run); err != nil {
		return IngestReport{}, err
	}
	return report, nil
}

func advanceEarliest(report *IngestReport, d bizdate.Date) {
	if !report.HasEarliestNewDate || d.Before(report.EarliestNewDate) {
		report.EarliestNewDate = d
		report.HasEarliestNewDate = true
	}
}

func latestTradeDate(batch RawBatch) bizdate.Date {
	var latest bizdate.Date
	found := false
	for _, rt := range batch.Transactions {
		if !found || rt.TradeDate.After(latest) {
			latest = rt.TradeDate
			found = true
		}
	}
	return latest
}

func (e *Engine) resolveAsset(tx *sqlx.Tx, ticker string) (model.Asset, error) {
	resolution, err := e.Registry.Resolve(ticker)
	kind := model.KindUnknown
	name := ticker
	if err == nil {
		kind = resolution.Kind
		name = resolution.Name
	}
	return e.Store.UpsertAsset(tx, model.Asset{Ticker: ticker, Kind: kind, Name: name})
}

// ingestCorporateEvent flags a BLOCKING Inconsistency instead of
// appending when an EXCHANGE event is missing its allocated_cost (§4.J's
// own example), and otherwise resolves the asset_id(s) and appends.
func (e *Engine) ingestCorporateEvent(tx *sqlx.Tx, rc RawCorporateEvent, source string) (appended bool, inc *model.Inconsistency, err error) {
	asset, err := e.resolveAsset(tx, rc.Ticker)
	if err != nil {
		return false, nil, err
	}

	if rc.Kind == model.EventExchange {
		allocatedCost := ""
		if rc.AllocatedCost != nil {
			allocatedCost = rc.AllocatedCost.String()
		}
		detail := "exchange event for " + rc.Ticker + " missing allocated_cost"
		if flagged, missing := inconsistency.RequireFields("EXCHANGE_MISSING_ALLOCATED_COST", &asset.ID, nil, detail,
			map[string]string{"allocated_cost": allocatedCost}); missing {
			return false, &flagged, nil
		}
	}

	existing, err := e.Store.CorporateEventsByAsset(tx, asset.ID)
	if err != nil {
		return false, nil, err
	}
	for _, ev := range existing {
		if ev.Kind == rc.Kind && ev.ExDate.Equal(rc.ExDate) {
			return false, nil, nil
		}
	}

	event := model.CorporateEvent{
		AssetID:            asset.ID,
		Kind:               rc.Kind,
		EventDate:          rc.EventDate,
		ExDate:             rc.ExDate,
		Source:             source,
		QuantityAdjustment: rc.QuantityAdjustment,
		ExchangeKind:       rc.ExchangeKind,
		ToQuantity:         rc.ToQuantity,
		AllocatedCost:      rc.AllocatedCost,
		CashAmount:         rc.CashAmount,
		AmountPerUnit:      rc.AmountPerUnit,
	}
	if rc.ToTicker != nil {
		toAsset, err := e.resolveAsset(tx, *rc.ToTicker)
		if err != nil {
			return false, nil, err
		}
		event.ToAssetID = &toAsset.ID
		if rc.Kind == model.EventRename {
			event.FromAssetID = &asset.ID
			// Record the ancestor→descendant edge so a query against the
			// new ticker can merge in the old ticker's pre-rename history
			// (§4.D "symbol reassignment").
			if err := e.Store.InsertSymbolLink(tx, ledgerstore.SymbolLink{
				AncestorAssetID:   asset.ID,
				DescendantAssetID: toAsset.ID,
				EffectiveDate:     rc.ExDate,
			}); err != nil {
				return false, nil, err
			}
		}
	}

	if _, err := e.Store.AppendCorporateEvent(tx, event); err != nil {
		return false, nil, err
	}
	return true, nil, nil
}

func (e *Engine) ingestIncomeEvent(tx *sqlx.Tx, ri RawIncomeEvent, source string) (bool, error) {
	asset, err := e.resolveAsset(tx, ri.Ticker)
	if err != nil {
		return false, err
	}

	existing, err := e.Store.IncomeEventsByAsset(tx, asset.ID)
	if err != nil {
		return false, err
	}
	for _, ev := range existing {
		if ev.Kind == ri.Kind && ev.EventDate.Equal(ri.EventDate) && ev.TotalAmount.Equal(ri.TotalAmount) {
			return false, nil
		}
	}

	income := model.IncomeEvent{
		AssetID:        asset.ID,
		EventDate:      ri.EventDate,
		ExDate:         ri.ExDate,
		Kind:           ri.Kind,
		AmountPerQuota: ri.AmountPerQuota,
		TotalAmount:    ri.TotalAmount,
		WithholdingTax: ri.WithholdingTax,
		IsQuotaPre2026: ri.IsQuotaPre2026,
		Source:         source,
	}
	if _, err := e.Store.AppendIncomeEvent(tx, income); err != nil {
		return false, err
	}
	return true, nil
}

