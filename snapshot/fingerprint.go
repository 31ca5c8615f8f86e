// Package snapshot implements §4.H: content-addressed memoization of
// PortfolioReports. A fingerprint is a sha256 digest over every
// transaction, corporate event, and income event whose governing date is
// on or before the as-of date, normalized to canonical decimal strings so
// the digest is stable regardless of row insertion order. Grounded on
// ledgerstore's own canonical-decimal-string convention (decodeAmount/
// Amount.String round-trip) rather than a bespoke serialization.
package snapshot

import (
	"crypto/sha256"
	"encoding/hex"
	"sort"
	"strings"

	"github.com/b3ledger/core/bizdate"
	"github.com/b3ledger/core/model"
	"github.com/b3ledger/core/money"
)

// Fingerprint computes the §4.H content hash over the given transactions,
// corporate events, and income events. Callers must have already
// restricted each slice to governing date <= asOf.
func Fingerprint(asOf bizdate.Date, txs []model.Transaction, events []model.CorporateEvent, income []model.IncomeEvent) string {
	txs = append([]model.Transaction(nil), txs...)
	sort.Slice(txs, func(i, j int) bool { return txs[i].ID < txs[j].ID })

	events = append([]model.CorporateEvent(nil), events...)
	sort.Slice(events, func(i, j int) bool { return events[i].ID < events[j].ID })

	income = append([]model.IncomeEvent(nil), income...)
	sort.Slice(income, func(i, j int) bool { return income[i].ID < income[j].ID })

	var b strings.Builder
	b.WriteString("asof:")
	b.WriteString(asOf.String())
	b.WriteByte('\n')

	for _, tx := range txs {
		b.WriteString("tx:")
		b.WriteString(tx.ID)
		b.WriteByte('|')
		b.WriteString(tx.AssetID)
		b.WriteByte('|')
		b.WriteString(string(tx.Side))
		b.WriteByte('|')
		b.WriteString(tx.TradeDate.String())
		b.WriteByte('|')
		b.WriteString(tx.Quantity.String())
		b.WriteByte('|')
		b.WriteString(tx.PricePerUnit.String())
		b.WriteByte('|')
		b.WriteString(tx.TotalCost.String())
		b.WriteByte('|')
		b.WriteString(tx.Fees.String())
		b.WriteByte('\n')
	}

	for _, e := range events {
		b.WriteString("event:")
		b.WriteString(e.ID)
		b.WriteByte('|')
		b.WriteString(e.AssetID)
		b.WriteByte('|')
		b.WriteString(string(e.Kind))
		b.WriteByte('|')
		b.WriteString(e.ExDate.String())
		b.WriteByte('|')
		b.WriteString(amountStr(e.QuantityAdjustment))
		b.WriteByte('|')
		b.WriteString(strPtr(e.ToAssetID))
		b.WriteByte('|')
		b.WriteString(amountStr(e.ToQuantity))
		b.WriteByte('|')
		b.WriteString(amountStr(e.AllocatedCost))
		b.WriteByte('|')
		b.WriteString(amountStr(e.CashAmount))
		b.WriteByte('|')
		b.WriteString(amountStr(e.AmountPerUnit))
		b.WriteByte('\n')
	}

	for _, ev := range income {
		b.WriteString("income:")
		b.WriteString(ev.ID)
		b.WriteByte('|')
		b.WriteString(ev.AssetID)
		b.WriteByte('|')
		b.WriteString(string(ev.Kind))
		b.WriteByte('|')
		b.WriteString(ev.EventDate.String())
		b.WriteByte('|')
		b.WriteString(ev.TotalAmount.String())
		b.WriteByte('|')
		b.WriteString(ev.WithholdingTax.String())
		b.WriteByte('\n')
	}

	sum := sha256.Sum256([]byte(b.String()))
	return hex.EncodeToString(sum[:])
}

func amountStr(a *money.Amount) string {
	if a == nil {
		return ""
	}
	return a.String()
}

func strPtr(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
