package dto

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/finbooks/account_recon_app/internal/core/domain"
	"github.com/finbooks/account_recon_app/internal/utils/accounting"
)

// StatementFilter is an active search query against the statement view.
// When any field is set, grouping is suppressed and every document is shown
// as a flat, individually filtered row. This is a presentation affordance;
// it never mutates persisted state.
type StatementFilter struct {
	Query  string
	From   *time.Time
	To     *time.Time
	Amount *decimal.Decimal
}

// IsActive reports whether any filter criterion is set.
func (f *StatementFilter) IsActive() bool {
	return f.Query != "" || f.From != nil || f.To != nil || f.Amount != nil
}

// StatementResponse is the ordered statement view for one party.
type StatementResponse struct {
	Party   string                `json:"party"`
	Company string                `json:"company"`
	Rows    []domain.StatementRow `json:"rows"`
}

// ToStatementResponse rounds every row amount to two decimals for display.
// The rounding is applied to copies, the service's internal rows keep full
// precision.
func ToStatementResponse(party, company string, rows []domain.StatementRow) StatementResponse {
	out := make([]domain.StatementRow, len(rows))
	for i, row := range rows {
		switch row.Type {
		case domain.RowGroupSummary:
			g := *row.Group
			g.TotalSum = accounting.RoundForDisplay(g.TotalSum)
			g.PaidSum = accounting.RoundForDisplay(g.PaidSum)
			g.OutstandingSum = accounting.RoundForDisplay(g.OutstandingSum)
			g.RunningBalance = accounting.RoundForDisplay(g.RunningBalance)
			g.Members = roundDocumentRows(g.Members)
			out[i] = domain.StatementRow{Type: domain.RowGroupSummary, Group: &g}
		case domain.RowDocument:
			d := roundDocumentRow(*row.Document)
			out[i] = domain.StatementRow{Type: domain.RowDocument, Document: &d}
		}
	}
	return StatementResponse{Party: party, Company: company, Rows: out}
}

func roundDocumentRow(d domain.DocumentRow) domain.DocumentRow {
	d.Total = accounting.RoundForDisplay(d.Total)
	d.Paid = accounting.RoundForDisplay(d.Paid)
	d.Balance = accounting.RoundForDisplay(d.Balance)
	d.RunningBalance = accounting.RoundForDisplay(d.RunningBalance)
	return d
}

func roundDocumentRows(rows []domain.DocumentRow) []domain.DocumentRow {
	out := make([]domain.DocumentRow, len(rows))
	for i, r := range rows {
		out[i] = roundDocumentRow(r)
	}
	return out
}
