package tax

import (
	"github.com/b3ledger/core/model"
	"github.com/b3ledger/core/money"
)

// monthNamesPT mirrors the Portuguese month names the annual declaration
// prints alongside each monthly row.
var monthNamesPT = [...]string{
	"Janeiro", "Fevereiro", "Março", "Abril", "Maio", "Junho",
	"Julho", "Agosto", "Setembro", "Outubro", "Novembro", "Dezembro",
}

// BensEDireitosItem is one row of the "Bens e Direitos" section: a
// year-end per-asset holding valued at its average cost (not market
// value — the declaration records acquisition cost, per §4.F.8).
type BensEDireitosItem struct {
	AssetID     string
	Quantity    money.Amount
	AverageCost money.Amount
	TotalCost   money.Amount
}

// IsentosItem is one row of "Rendimentos Isentos e Não Tributáveis": an
// exempt swing-trade gain or an exempt dividend distribution.
type IsentosItem struct {
	Description string
	Amount      money.Amount
}

// ExclusivaItem is one row of "Rendimentos Sujeitos à Tributação
// Exclusiva": JCP income, net of the withholding already retained at
// source.
type ExclusivaItem struct {
	AssetID        string
	GrossAmount    money.Amount
	WithholdingTax money.Amount
	NetAmount      money.Amount
}

// MonthlyIRPFSummary is one calendar month's contribution to the annual
// declaration: totals across every TaxCategory active that month.
type MonthlyIRPFSummary struct {
	Month      int
	MonthName  string
	TotalSales money.Amount
	TotalTax   money.Amount
	ByCategory map[string]MonthlyResult
}

// IRPFReport is the annual individual income-tax declaration (§4.F.8),
// assembled from a year's MonthlyResults, the year-end PositionSnapshots,
// and the year's IncomeEvents, kept in the same three-section shape as
// original_source/src/tax/irpf.rs's Bens e Direitos / Rendimentos
// Isentos e Não Tributáveis / Rendimentos Sujeitos à Tributação
// Exclusiva breakdown.
type IRPFReport struct {
	Year             int
	Monthly          []MonthlyIRPFSummary
	BensEDireitos    []BensEDireitosItem
	Isentos          []IsentosItem
	Exclusiva        []ExclusivaItem
	LossesToCarryFwd map[string]money.Amount
}

// BuildIRPFReport assembles the annual report. monthly holds one entry
// per month of the year with sales/profit (already passed through
// ApplyExemptionAndLosses); snapshots is the year-end PositionSnapshot
// per asset; income is every IncomeEvent realized during the year.
func BuildIRPFReport(year int, monthly map[int]map[string]MonthlyResult, snapshots []model.PositionSnapshot, income []model.IncomeEvent, ledger *LossLedger) IRPFReport {
	report := IRPFReport{Year: year, LossesToCarryFwd: map[string]money.Amount{}}

	for month := 1; month <= 12; month++ {
		byCategory, ok := monthly[month]
		if !ok || len(byCategory) == 0 {
			continue
		}
		sales, tax := money.Zero, money.Zero
		for _, r := range byCategory {
			sales = sales.MustAdd(r.GrossSales)
			tax = tax.MustAdd(r.TaxDue)
		}
		report.Monthly = append(report.Monthly, MonthlyIRPFSummary{
			Month:      month,
			MonthName:  monthNamesPT[month-1],
			TotalSales: sales,
			TotalTax:   tax,
			ByCategory: byCategory,
		})

		for _, r := range byCategory {
			if r.ExemptionApplied && r.NetProfit.IsPositive() {
				report.Isentos = append(report.Isentos, IsentosItem{
					Description: "Ganho isento em operações comuns de ações (alienações até R$20.000,00/mês) - " + monthNamesPT[month-1],
					Amount:      r.NetProfit,
				})
			}
		}
	}

	for _, s := range snapshots {
		report.BensEDireitos = append(report.BensEDireitos, BensEDireitosItem{
			AssetID:     s.AssetID,
			Quantity:    s.Quantity,
			AverageCost: s.AverageCost,
			TotalCost:   s.Quantity.MustMul(s.AverageCost),
		})
	}

	for _, ev := range income {
		switch ev.Kind {
		case model.IncomeJCP:
			net := ev.TotalAmount.MustSub(ev.WithholdingTax)
			report.Exclusiva = append(report.Exclusiva, ExclusivaItem{
				AssetID:        ev.AssetID,
				GrossAmount:    ev.TotalAmount,
				WithholdingTax: ev.WithholdingTax,
				NetAmount:      net,
			})
		case model.IncomeDividend:
			report.Isentos = append(report.Isentos, IsentosItem{
				Description: "Lucros e dividendos recebidos - " + ev.AssetID + " (" + ev.EventDate.String() + ")",
				Amount:      ev.TotalAmount,
			})
		case model.IncomeAmortization:
			// Amortization reduces cost basis at the overlay layer (§4.D);
			// it is not separately declared income.
		}
	}

	if ledger != nil {
		for _, row := range ledger.Rows() {
			if row.Year == year && row.RemainingAmount.IsPositive() {
				report.LossesToCarryFwd[row.TaxCategory] = report.LossesToCarryFwd[row.TaxCategory].MustAdd(row.RemainingAmount)
			}
		}
	}

	return report
}
