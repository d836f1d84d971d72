package domain

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

// DocumentKind is the closed set of ledger document types the engine operates on.
// It is assigned once at ingestion; the engine never re-derives it from free text.
type DocumentKind string

const (
	KindInvoice    DocumentKind = "INVOICE"
	KindCreditNote DocumentKind = "CREDIT_NOTE"
	KindDebitNote  DocumentKind = "DEBIT_NOTE"
	KindPayment    DocumentKind = "PAYMENT"
)

// IsValid reports whether k is one of the known document kinds.
func (k DocumentKind) IsValid() bool {
	switch k {
	case KindInvoice, KindCreditNote, KindDebitNote, KindPayment:
		return true
	}
	return false
}

// DocStatus is the submission state of a ledger document.
type DocStatus int

const (
	StatusDraft     DocStatus = 0
	StatusSubmitted DocStatus = 1
	StatusCancelled DocStatus = 2
)

// Allocation records part of a payment's value applied against a specific invoice.
type Allocation struct {
	InvoiceVoucherNo string          `json:"invoiceVoucherNo"`
	Amount           decimal.Decimal `json:"amount"`
}

// DocumentRef identifies a document by voucher number plus kind. The voucher
// number space is not guaranteed unique across invoice/payment collections,
// so the kind acts as a discriminator.
type DocumentRef struct {
	VoucherNo string       `json:"voucherNo"`
	Kind      DocumentKind `json:"kind"`
}

// Document is a single ledger entry for a party: an invoice, credit note,
// debit note or payment.
//
// OutstandingAmount is signed: positive for an invoice/debit note still owed,
// negative for a payment/credit note with unused amount, zero when fully
// settled or allocated.
type Document struct {
	VoucherNo         string          `json:"voucherNo"`
	Kind              DocumentKind    `json:"kind"`
	Party             string          `json:"party"`
	Company           string          `json:"company"`
	PostingDate       time.Time       `json:"postingDate"`
	GrandTotal        decimal.Decimal `json:"grandTotal"` // face value, non-negative
	OutstandingAmount decimal.Decimal `json:"outstandingAmount"`
	Status            DocStatus       `json:"docStatus"`
	ReconciliationID  *string         `json:"reconciliationId,omitempty"`
	Description       string          `json:"description,omitempty"`
	Allocations       []Allocation    `json:"allocations,omitempty"` // payments only
	AuditFields
}

// Ref returns the document's reference pair.
func (d *Document) Ref() DocumentRef {
	return DocumentRef{VoucherNo: d.VoucherNo, Kind: d.Kind}
}

// IsCancelled reports whether the document is excluded from all balance and
// reconciliation computations.
func (d *Document) IsCancelled() bool {
	return d.Status == StatusCancelled
}

// IsDebitSide reports whether the document sits on the debit side of a
// reconciliation (owed by the party) as opposed to the credit side
// (available credit or unapplied cash).
func (d *Document) IsDebitSide() bool {
	return d.Kind == KindInvoice || d.Kind == KindDebitNote
}

// IsReconcilable reports whether the document is an eligible input for
// group creation or extension: submitted, open balance, and not already
// attached to a group.
func (d *Document) IsReconcilable() bool {
	return d.Status == StatusSubmitted &&
		!d.OutstandingAmount.IsZero() &&
		d.ReconciliationID == nil
}

// Validate checks structural invariants on the document.
func (d *Document) Validate() error {
	if d.VoucherNo == "" {
		return fmt.Errorf("document voucher number is required")
	}
	if !d.Kind.IsValid() {
		return fmt.Errorf("unknown document kind %q for voucher %s", d.Kind, d.VoucherNo)
	}
	if d.GrandTotal.IsNegative() {
		return fmt.Errorf("grand total must be non-negative for voucher %s", d.VoucherNo)
	}
	// A document cannot have more open balance than its face value.
	if d.OutstandingAmount.Abs().GreaterThan(d.GrandTotal) {
		return fmt.Errorf("outstanding amount %s exceeds grand total %s for voucher %s",
			d.OutstandingAmount.String(), d.GrandTotal.String(), d.VoucherNo)
	}
	return nil
}
