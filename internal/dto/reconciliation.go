package dto

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/finbooks/account_recon_app/internal/core/domain"
	"github.com/finbooks/account_recon_app/internal/utils/accounting"
)

// DocumentRefPayload references a document by voucher number and kind.
type DocumentRefPayload struct {
	VoucherNo string              `json:"voucherNo" binding:"required"`
	Kind      domain.DocumentKind `json:"kind" binding:"required,dockind"`
}

// ToDomain converts the payload reference to its domain form.
func (p DocumentRefPayload) ToDomain() domain.DocumentRef {
	return domain.DocumentRef{VoucherNo: p.VoucherNo, Kind: p.Kind}
}

// ToDomainRefs converts a slice of payload references.
func ToDomainRefs(refs []DocumentRefPayload) []domain.DocumentRef {
	out := make([]domain.DocumentRef, len(refs))
	for i, r := range refs {
		out[i] = r.ToDomain()
	}
	return out
}

// CreateReconciliationRequest creates a new group from at least one debit
// and one credit document.
type CreateReconciliationRequest struct {
	Party      string               `json:"party" binding:"required"`
	Company    string               `json:"company" binding:"required"`
	DebitDocs  []DocumentRefPayload `json:"debitDocs" binding:"required,min=1,dive"`
	CreditDocs []DocumentRefPayload `json:"creditDocs" binding:"required,min=1,dive"`
}

// ExtendReconciliationRequest appends documents to an existing group.
// Either side may be empty, but not both; the service enforces that.
type ExtendReconciliationRequest struct {
	DebitDocs  []DocumentRefPayload `json:"debitDocs" binding:"omitempty,dive"`
	CreditDocs []DocumentRefPayload `json:"creditDocs" binding:"omitempty,dive"`
}

// ReconciliationGroupResponse is the display shape of a group, with its
// derived net amount and status.
type ReconciliationGroupResponse struct {
	ReconciliationID string             `json:"reconciliationId"`
	Party            string             `json:"party"`
	Company          string             `json:"company"`
	PostingDate      time.Time          `json:"postingDate"`
	NetAmount        decimal.Decimal    `json:"netAmount"`
	Status           domain.GroupStatus `json:"status"`
	MemberCount      int                `json:"memberCount"`
	Members          []DocumentResponse `json:"members,omitempty"`
}

// ToReconciliationGroupResponse maps a group plus its loaded member documents.
func ToReconciliationGroupResponse(g *domain.ReconciliationGroup, members []domain.Document, threshold decimal.Decimal) ReconciliationGroupResponse {
	net := domain.NetAmount(members)
	resp := ReconciliationGroupResponse{
		ReconciliationID: g.ReconciliationID,
		Party:            g.Party,
		Company:          g.Company,
		PostingDate:      g.PostingDate,
		NetAmount:        accounting.RoundForDisplay(net),
		Status:           domain.ClassifyNet(net, threshold),
		MemberCount:      len(g.MemberRefs),
	}
	for i := range members {
		resp.Members = append(resp.Members, ToDocumentResponse(&members[i]))
	}
	return resp
}

// ListReconciliationsResponse is a token-paginated list of groups.
type ListReconciliationsResponse struct {
	Groups    []ReconciliationGroupResponse `json:"groups"`
	NextToken *string                       `json:"nextToken,omitempty"`
}

// DissolveResponse reports the outcome of a dissolve request. When
// RequiresConfirmation is true nothing was changed; the caller must surface
// the conflicts and retry with force.
type DissolveResponse struct {
	Dissolved            []DocumentResponse `json:"dissolved"`
	Conflicts            []DocumentResponse `json:"conflicts"`
	RequiresConfirmation bool               `json:"requiresConfirmation"`
}

// ToDissolveResponse maps a dissolve outcome to its display shape.
func ToDissolveResponse(o *domain.DissolveOutcome) DissolveResponse {
	resp := DissolveResponse{
		Dissolved:            make([]DocumentResponse, 0, len(o.Dissolved)),
		Conflicts:            make([]DocumentResponse, 0, len(o.Conflicts)),
		RequiresConfirmation: o.RequiresConfirmation,
	}
	for i := range o.Dissolved {
		resp.Dissolved = append(resp.Dissolved, ToDocumentResponse(&o.Dissolved[i]))
	}
	for i := range o.Conflicts {
		resp.Conflicts = append(resp.Conflicts, ToDocumentResponse(&o.Conflicts[i]))
	}
	return resp
}
