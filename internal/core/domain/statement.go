package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// StatementRowType discriminates the two kinds of statement rows.
type StatementRowType string

const (
	RowGroupSummary StatementRowType = "GROUP_SUMMARY"
	RowDocument     StatementRowType = "DOCUMENT"
)

// DocumentRow is a single document line in a statement, tagged with its
// computed balance triple and the running balance after this row.
type DocumentRow struct {
	VoucherNo      string          `json:"voucherNo"`
	Kind           DocumentKind    `json:"kind"`
	PostingDate    time.Time       `json:"postingDate"`
	Total          decimal.Decimal `json:"total"`
	Paid           decimal.Decimal `json:"paid"`
	Balance        decimal.Decimal `json:"balance"`
	RunningBalance decimal.Decimal `json:"runningBalance"`
	Description    string          `json:"description,omitempty"`
}

// GroupSummaryRow collapses a reconciliation group into one statement line.
// Members carry the per-document rows revealed on expansion; they do not
// contribute to the running balance again, OutstandingSum already does.
type GroupSummaryRow struct {
	ReconciliationID string          `json:"reconciliationId"`
	PostingDate      time.Time       `json:"postingDate"`
	TotalSum         decimal.Decimal `json:"totalSum"`
	PaidSum          decimal.Decimal `json:"paidSum"`
	OutstandingSum   decimal.Decimal `json:"outstandingSum"`
	RunningBalance   decimal.Decimal `json:"runningBalance"`
	MemberCount      int             `json:"memberCount"`
	Members          []DocumentRow   `json:"members"`
}

// StatementRow is either a group summary or a loose document row.
type StatementRow struct {
	Type     StatementRowType `json:"type"`
	Group    *GroupSummaryRow `json:"group,omitempty"`
	Document *DocumentRow     `json:"document,omitempty"`
}
