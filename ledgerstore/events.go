package ledgerstore

import (
	"fmt"
	"time"

	"github.com/b3ledger/core/bizdate"
	"github.com/b3ledger/core/model"
	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
)

// AppendCorporateEvent inserts a corporate action row (§4.D reads these
// back at query time; the store never mutates transactions in response).
func (s *Store) AppendCorporateEvent(tx *sqlx.Tx, e model.CorporateEvent) (model.CorporateEvent, error) {
	if e.ID == "" {
		e.ID = uuid.NewString()
	}
	_, err := tx.Exec(`
		INSERT INTO corporate_events
			(id, asset_id, kind, event_date, ex_date, source, quantity_adjustment,
			 from_asset_id, to_asset_id, exchange_kind, to_quantity, allocated_cost,
			 cash_amount, amount_per_unit)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13,$14)`,
		e.ID, e.AssetID, e.Kind, e.EventDate.UTCTime(), e.ExDate.UTCTime(), e.Source,
		amountArg(e.QuantityAdjustment), e.FromAssetID, e.ToAssetID, e.ExchangeKind,
		amountArg(e.ToQuantity), amountArg(e.AllocatedCost), amountArg(e.CashAmount),
		amountArg(e.AmountPerUnit))
	if err != nil {
		return model.CorporateEvent{}, fmt.Errorf("ledgerstore: insert corporate event: %w", err)
	}
	return e, nil
}

type corporateEventRow struct {
	ID                 string  `db:"id"`
	AssetID            string  `db:"asset_id"`
	Kind               string  `db:"kind"`
	EventDate          time.Time `db:"event_date"`
	ExDate             time.Time `db:"ex_date"`
	Source             string  `db:"source"`
	QuantityAdjustment *string `db:"quantity_adjustment"`
	FromAssetID        *string `db:"from_asset_id"`
	ToAssetID          *string `db:"to_asset_id"`
	ExchangeKind       *string `db:"exchange_kind"`
	ToQuantity         *string `db:"to_quantity"`
	AllocatedCost      *string `db:"allocated_cost"`
	CashAmount         *string `db:"cash_amount"`
	AmountPerUnit      *string `db:"amount_per_unit"`
}

func (r corporateEventRow) toModel() (model.CorporateEvent, error) {
	qtyAdj, err := decodeAmountPtr(r.QuantityAdjustment)
	if err != nil {
		return model.CorporateEvent{}, err
	}
	toQty, err := decodeAmountPtr(r.ToQuantity)
	if err != nil {
		return model.CorporateEvent{}, err
	}
	alloc, err := decodeAmountPtr(r.AllocatedCost)
	if err != nil {
		return model.CorporateEvent{}, err
	}
	cash, err := decodeAmountPtr(r.CashAmount)
	if err != nil {
		return model.CorporateEvent{}, err
	}
	perUnit, err := decodeAmountPtr(r.AmountPerUnit)
	if err != nil {
		return model.CorporateEvent{}, err
	}
	var exchangeKind *model.ExchangeKind
	if r.ExchangeKind != nil {
		ek := model.ExchangeKind(*r.ExchangeKind)
		exchangeKind = &ek
	}
	return model.CorporateEvent{
		ID:                  r.ID,
		AssetID:             r.AssetID,
		Kind:                model.EventKind(r.Kind),
		EventDate:           bizdate.FromTime(r.EventDate),
		ExDate:              bizdate.FromTime(r.ExDate),
		Source:              r.Source,
		QuantityAdjustment:  qtyAdj,
		FromAssetID:         r.FromAssetID,
		ToAssetID:           r.ToAssetID,
		ExchangeKind:        exchangeKind,
		ToQuantity:          toQty,
		AllocatedCost:       alloc,
		CashAmount:          cash,
		AmountPerUnit:       perUnit,
	}, nil
}

// CorporateEventsByAsset returns events for an asset ordered by
// (ex_date ASC, id ASC) per §4.D: "events are applied in ascending
// ex_date; ties broken by event id."
func (s *Store) CorporateEventsByAsset(q sqlx.Queryer, assetID string) ([]model.CorporateEvent, error) {
	rows, err := q.Queryx(`
		SELECT id, asset_id, kind, event_date, ex_date, source, quantity_adjustment,
		       from_asset_id, to_asset_id, exchange_kind, to_quantity, allocated_cost,
		       cash_amount, amount_per_unit
		FROM corporate_events WHERE asset_id = $1 ORDER BY ex_date ASC, id ASC`, assetID)
	if err != nil {
		return nil, fmt.Errorf("ledgerstore: query corporate events: %w", err)
	}
	defer rows.Close()
	var out []model.CorporateEvent
	for rows.Next() {
		var row corporateEventRow
		if err := rows.StructScan(&row); err != nil {
			return nil, fmt.Errorf("ledgerstore: scan corporate event: %w", err)
		}
		e, err := row.toModel()
		if err != nil {
			return nil, err
		}
		out = append(out, e)
	}
	return out, rows.Err()
}

// AppendIncomeEvent inserts a dividend/JCP/amortization distribution row.
func (s *Store) AppendIncomeEvent(tx *sqlx.Tx, e model.IncomeEvent) (model.IncomeEvent, error) {
	if e.ID == "" {
		e.ID = uuid.NewString()
	}
	_, err := tx.Exec(`
		INSERT INTO income_events
			(id, asset_id, event_date, ex_date, kind, amount_per_quota, total_amount,
			 withholding_tax, is_quota_pre_2026, source)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10)`,
		e.ID, e.AssetID, e.EventDate.UTCTime(), dateArg(e.ExDate), e.Kind,
		e.AmountPerQuota.String(), e.TotalAmount.String(), e.WithholdingTax.String(),
		e.IsQuotaPre2026, e.Source)
	if err != nil {
		return model.IncomeEvent{}, fmt.Errorf("ledgerstore: insert income event: %w", err)
	}
	return e, nil
}

// IncomeEventsByAsset returns income events for an asset ordered by
// (event_date ASC, id ASC).
func (s *Store) IncomeEventsByAsset(q sqlx.Queryer, assetID string) ([]model.IncomeEvent, error) {
	rows, err := q.Queryx(`
		SELECT id, asset_id, event_date, ex_date, kind, amount_per_quota, total_amount,
		       withholding_tax, is_quota_pre_2026, source
		FROM income_events WHERE asset_id = $1 ORDER BY event_date ASC, id ASC`, assetID)
	if err != nil {
		return nil, fmt.Errorf("ledgerstore: query income events: %w", err)
	}
	defer rows.Close()
	var out []model.IncomeEvent
	for rows.Next() {
		var row incomeEventRow
		if err := rows.StructScan(&row); err != nil {
			return nil, fmt.Errorf("ledgerstore: scan income event: %w", err)
		}
		e, err := row.toModel()
		if err != nil {
			return nil, err
		}
		out = append(out, e)
	}
	return out, rows.Err()
}

type incomeEventRow struct {
	ID               string     `db:"id"`
	AssetID          string     `db:"asset_id"`
	EventDate        time.Time  `db:"event_date"`
	ExDate           *time.Time `db:"ex_date"`
	Kind             string     `db:"kind"`
	AmountPerQuota   string     `db:"amount_per_quota"`
	TotalAmount      string     `db:"total_amount"`
	WithholdingTax   string     `db:"withholding_tax"`
	IsQuotaPre2026   bool       `db:"is_quota_pre_2026"`
	Source           string     `db:"source"`
}

func (r incomeEventRow) toModel() (model.IncomeEvent, error) {
	apq, err := decodeAmount(r.AmountPerQuota)
	if err != nil {
		return model.IncomeEvent{}, err
	}
	total, err := decodeAmount(r.TotalAmount)
	if err != nil {
		return model.IncomeEvent{}, err
	}
	wht, err := decodeAmount(r.WithholdingTax)
	if err != nil {
		return model.IncomeEvent{}, err
	}
	e := model.IncomeEvent{
		ID:             r.ID,
		AssetID:        r.AssetID,
		EventDate:      bizdate.FromTime(r.EventDate),
		Kind:           model.IncomeKind(r.Kind),
		AmountPerQuota: apq,
		TotalAmount:    total,
		WithholdingTax: wht,
		IsQuotaPre2026: r.IsQuotaPre2026,
		Source:         r.Source,
	}
	if r.ExDate != nil {
		ed := bizdate.FromTime(*r.ExDate)
		e.ExDate = &ed
	}
	return e, nil
}
