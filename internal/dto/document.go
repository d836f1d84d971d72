package dto

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/finbooks/account_recon_app/internal/core/domain"
	"github.com/finbooks/account_recon_app/internal/utils/accounting"
	"github.com/finbooks/account_recon_app/internal/utils/classify"
)

// LenientDecimal is a decimal amount that tolerates dirty upstream input.
// Absent, null, or unparseable JSON values leave Valid false; conversion
// coerces those to zero instead of failing the batch.
type LenientDecimal struct {
	Value decimal.Decimal
	Valid bool
}

// NewLenientDecimal wraps a known-good amount.
func NewLenientDecimal(d decimal.Decimal) LenientDecimal {
	return LenientDecimal{Value: d, Valid: true}
}

// UnmarshalJSON never returns an error: a value that does not parse as a
// decimal is treated the same as an absent one.
func (d *LenientDecimal) UnmarshalJSON(data []byte) error {
	d.Value = decimal.Zero
	d.Valid = false
	if string(data) == "null" {
		return nil
	}
	var v decimal.Decimal
	if err := v.UnmarshalJSON(data); err != nil {
		return nil
	}
	d.Value = v
	d.Valid = true
	return nil
}

// MarshalJSON renders the amount, or null when it never parsed.
func (d LenientDecimal) MarshalJSON() ([]byte, error) {
	if !d.Valid {
		return []byte("null"), nil
	}
	return d.Value.MarshalJSON()
}

// AllocationPayload is one allocation record on an incoming payment.
type AllocationPayload struct {
	InvoiceVoucherNo string         `json:"invoiceVoucherNo" binding:"required"`
	Amount           LenientDecimal `json:"amount"`
}

// DocumentPayload is a raw ledger entry as supplied by the upstream
// accounting service. Amounts bind through LenientDecimal on purpose:
// upstream data quality is uneven, and a malformed or absent amount must
// not fail the whole ingest, it coerces to zero instead.
type DocumentPayload struct {
	VoucherNo         string              `json:"voucherNo" binding:"required"`
	Kind              domain.DocumentKind `json:"kind"`        // authoritative when present
	VoucherTypeHint   string              `json:"voucherType"` // legacy free-text hint
	IsReturn          bool                `json:"isReturn"`
	PostingDate       time.Time           `json:"postingDate" binding:"required"`
	GrandTotal        LenientDecimal      `json:"grandTotal"`
	OutstandingAmount LenientDecimal      `json:"outstandingAmount"`
	DocStatus         int                 `json:"docStatus" binding:"min=0,max=2"`
	Description       string              `json:"description"`
	Allocations       []AllocationPayload `json:"allocations" binding:"omitempty,dive"`
}

// IngestDocumentsRequest is the bulk document feed for one party.
type IngestDocumentsRequest struct {
	Documents []DocumentPayload `json:"documents" binding:"required,min=1,dive"`
}

// ToDomain converts a payload to a domain document. The returned slice names
// the numeric fields that were absent or malformed and coerced to zero;
// callers log these as computation fallbacks.
func (p *DocumentPayload) ToDomain(party, company string, now time.Time, actor string) (domain.Document, []string) {
	var coerced []string

	kind := p.Kind
	if !kind.IsValid() {
		kind = classify.Classify(p.VoucherTypeHint, p.VoucherNo, p.IsReturn)
	}

	if !p.GrandTotal.Valid {
		coerced = append(coerced, "grandTotal")
	}
	if !p.OutstandingAmount.Valid {
		coerced = append(coerced, "outstandingAmount")
	}

	allocations := make([]domain.Allocation, 0, len(p.Allocations))
	for _, a := range p.Allocations {
		if !a.Amount.Valid {
			coerced = append(coerced, "allocations.amount")
		}
		allocations = append(allocations, domain.Allocation{
			InvoiceVoucherNo: a.InvoiceVoucherNo,
			Amount:           a.Amount.Value,
		})
	}

	return domain.Document{
		VoucherNo:         p.VoucherNo,
		Kind:              kind,
		Party:             party,
		Company:           company,
		PostingDate:       p.PostingDate,
		GrandTotal:        p.GrandTotal.Value,
		OutstandingAmount: p.OutstandingAmount.Value,
		Status:            domain.DocStatus(p.DocStatus),
		Description:       p.Description,
		Allocations:       allocations,
		AuditFields: domain.AuditFields{
			CreatedAt:     now,
			CreatedBy:     actor,
			LastUpdatedAt: now,
			LastUpdatedBy: actor,
		},
	}, coerced
}

// IngestDocumentsResponse reports how many documents were stored.
type IngestDocumentsResponse struct {
	Ingested int `json:"ingested"`
}

// DocumentResponse is the display shape of a single document.
type DocumentResponse struct {
	VoucherNo         string              `json:"voucherNo"`
	Kind              domain.DocumentKind `json:"kind"`
	PostingDate       time.Time           `json:"postingDate"`
	GrandTotal        decimal.Decimal     `json:"grandTotal"`
	OutstandingAmount decimal.Decimal     `json:"outstandingAmount"`
	ReconciliationID  *string             `json:"reconciliationId,omitempty"`
	Description       string              `json:"description,omitempty"`
}

// ToDocumentResponse maps a domain document to its display shape,
// rounding amounts for presentation.
func ToDocumentResponse(d *domain.Document) DocumentResponse {
	return DocumentResponse{
		VoucherNo:         d.VoucherNo,
		Kind:              d.Kind,
		PostingDate:       d.PostingDate,
		GrandTotal:        accounting.RoundForDisplay(d.GrandTotal),
		OutstandingAmount: accounting.RoundForDisplay(d.OutstandingAmount),
		ReconciliationID:  d.ReconciliationID,
		Description:       d.Description,
	}
}

// ListDocumentsResponse is a token-paginated list of reconciliation candidates.
type ListDocumentsResponse struct {
	Documents []DocumentResponse `json:"documents"`
	NextToken *string            `json:"nextToken,omitempty"`
}
