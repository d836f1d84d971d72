package services

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/finbooks/account_recon_app/internal/apperrors"
	"github.com/finbooks/account_recon_app/internal/core/domain"
	portsrepo "github.com/finbooks/account_recon_app/internal/core/ports/repositories"
	portssvc "github.com/finbooks/account_recon_app/internal/core/ports/services"
	"github.com/finbooks/account_recon_app/internal/dto"
	"github.com/finbooks/account_recon_app/internal/middleware"
)

// reconciliationService manages creation, extension and dissolution of
// reconciliation groups.
type reconciliationService struct {
	docRepo    portsrepo.DocumentRepositoryFacade
	reconRepo  portsrepo.ReconciliationRepositoryFacade
	threshold  decimal.Decimal
	partyLocks *keyedMutex
}

// NewReconciliationService creates a new ReconciliationService. The threshold
// is the balanced/pending cutoff in the party's base currency.
func NewReconciliationService(docRepo portsrepo.DocumentRepositoryFacade, reconRepo portsrepo.ReconciliationRepositoryFacade, threshold decimal.Decimal) portssvc.ReconciliationSvcFacade {
	return &reconciliationService{
		docRepo:    docRepo,
		reconRepo:  reconRepo,
		threshold:  threshold,
		partyLocks: newKeyedMutex(),
	}
}

var _ portssvc.ReconciliationSvcFacade = (*reconciliationService)(nil)

// CreateGroup implements portssvc.ReconciliationSvcFacade.
func (s *reconciliationService) CreateGroup(ctx context.Context, req dto.CreateReconciliationRequest, creatorUserID string) (*dto.ReconciliationGroupResponse, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	if len(req.DebitDocs) == 0 || len(req.CreditDocs) == 0 {
		return nil, fmt.Errorf("%w: a reconciliation needs at least one debit and one credit document", apperrors.ErrValidation)
	}

	unlock := s.partyLocks.lock(req.Party)
	defer unlock()

	refs := append(dto.ToDomainRefs(req.DebitDocs), dto.ToDomainRefs(req.CreditDocs)...)
	docs, err := s.loadEligibleDocuments(ctx, req.Party, req.Company, refs)
	if err != nil {
		return nil, err
	}
	if err := validateSides(docs, len(req.DebitDocs)); err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	group := domain.ReconciliationGroup{
		ReconciliationID: uuid.NewString(),
		Party:            req.Party,
		Company:          req.Company,
		MemberRefs:       refs,
		PostingDate:      now,
		AuditFields: domain.AuditFields{
			CreatedAt:     now,
			CreatedBy:     creatorUserID,
			LastUpdatedAt: now,
			LastUpdatedBy: creatorUserID,
		},
	}

	if err := s.reconRepo.CreateGroup(ctx, group); err != nil {
		middleware.ReconOpErrored("create")
		return nil, err
	}
	middleware.ReconOpSucceeded("create")

	for i := range docs {
		docs[i].ReconciliationID = &group.ReconciliationID
	}
	net := domain.NetAmount(docs)
	logger.Info("Reconciliation group created",
		slog.String("reconciliation_id", group.ReconciliationID),
		slog.String("party", group.Party),
		slog.Int("member_count", len(docs)),
		slog.String("net_amount", net.String()),
	)

	resp := dto.ToReconciliationGroupResponse(&group, docs, s.threshold)
	return &resp, nil
}

// ExtendGroup implements portssvc.ReconciliationSvcFacade.
func (s *reconciliationService) ExtendGroup(ctx context.Context, reconciliationID string, req dto.ExtendReconciliationRequest, updaterUserID string) (*dto.ReconciliationGroupResponse, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	if len(req.DebitDocs) == 0 && len(req.CreditDocs) == 0 {
		return nil, fmt.Errorf("%w: no documents selected", apperrors.ErrValidation)
	}

	group, err := s.reconRepo.FindGroupByID(ctx, reconciliationID)
	if err != nil {
		return nil, err
	}

	unlock := s.partyLocks.lock(group.Party)
	defer unlock()

	refs := append(dto.ToDomainRefs(req.DebitDocs), dto.ToDomainRefs(req.CreditDocs)...)
	added, err := s.loadEligibleDocuments(ctx, group.Party, group.Company, refs)
	if err != nil {
		return nil, err
	}
	if err := validateSides(added, len(req.DebitDocs)); err != nil {
		return nil, err
	}

	if err := s.reconRepo.AttachDocuments(ctx, reconciliationID, refs); err != nil {
		middleware.ReconOpErrored("extend")
		return nil, err
	}
	middleware.ReconOpSucceeded("extend")

	group.MemberRefs = append(group.MemberRefs, refs...)
	members, err := s.docRepo.FindDocumentsByRefs(ctx, group.Party, group.Company, group.MemberRefs)
	if err != nil {
		return nil, err
	}

	logger.Info("Reconciliation group extended",
		slog.String("reconciliation_id", reconciliationID),
		slog.Int("added", len(refs)),
		slog.String("net_amount", domain.NetAmount(members).String()),
	)

	resp := dto.ToReconciliationGroupResponse(group, members, s.threshold)
	return &resp, nil
}

// DissolveGroup implements portssvc.ReconciliationSvcFacade.
//
// A payment inside the group may have been partially applied to invoices
// outside it; detaching it naively would leave those invoices' applied
// amounts inconsistent. Unforced calls therefore probe first: when conflicts
// exist, the outcome reports them and nothing is mutated. A forced call
// detaches the safe members, leaves the conflicting payments attached, and
// removes the group record.
func (s *reconciliationService) DissolveGroup(ctx context.Context, reconciliationID string, force bool) (*domain.DissolveOutcome, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	group, err := s.reconRepo.FindGroupByID(ctx, reconciliationID)
	if err != nil {
		return nil, err
	}

	unlock := s.partyLocks.lock(group.Party)
	defer unlock()

	members, err := s.docRepo.FindDocumentsByRefs(ctx, group.Party, group.Company, group.MemberRefs)
	if err != nil {
		return nil, err
	}

	memberVouchers := make(map[string]bool, len(members))
	for i := range members {
		memberVouchers[members[i].VoucherNo] = true
	}

	var safe, conflicts []domain.Document
	for i := range members {
		if isConflictingPayment(&members[i], memberVouchers) {
			conflicts = append(conflicts, members[i])
		} else {
			safe = append(safe, members[i])
		}
	}

	if len(conflicts) > 0 && !force {
		logger.Info("Dissolve blocked pending confirmation",
			slog.String("reconciliation_id", reconciliationID),
			slog.Int("conflicts", len(conflicts)),
		)
		return &domain.DissolveOutcome{Conflicts: conflicts, RequiresConfirmation: true}, nil
	}

	detach := make([]domain.DocumentRef, 0, len(safe))
	for i := range safe {
		detach = append(detach, safe[i].Ref())
	}
	if err := s.reconRepo.DetachAndDelete(ctx, reconciliationID, detach); err != nil {
		middleware.ReconOpErrored("dissolve")
		return nil, err
	}
	middleware.ReconOpSucceeded("dissolve")

	for i := range safe {
		safe[i].ReconciliationID = nil
	}
	logger.Info("Reconciliation group dissolved",
		slog.String("reconciliation_id", reconciliationID),
		slog.Int("dissolved", len(safe)),
		slog.Int("conflicts_left_attached", len(conflicts)),
		slog.Bool("forced", force),
	)

	return &domain.DissolveOutcome{Dissolved: safe, Conflicts: conflicts}, nil
}

// isConflictingPayment reports whether the document is a payment with an
// allocation reaching an invoice outside the group's member list.
func isConflictingPayment(doc *domain.Document, memberVouchers map[string]bool) bool {
	if doc.Kind != domain.KindPayment {
		return false
	}
	for _, alloc := range doc.Allocations {
		if !memberVouchers[alloc.InvoiceVoucherNo] {
			return true
		}
	}
	return false
}

// GetGroup implements portssvc.ReconciliationSvcFacade.
func (s *reconciliationService) GetGroup(ctx context.Context, reconciliationID string) (*dto.ReconciliationGroupResponse, error) {
	group, err := s.reconRepo.FindGroupByID(ctx, reconciliationID)
	if err != nil {
		return nil, err
	}
	members, err := s.docRepo.FindDocumentsByRefs(ctx, group.Party, group.Company, group.MemberRefs)
	if err != nil {
		return nil, err
	}
	resp := dto.ToReconciliationGroupResponse(group, members, s.threshold)
	return &resp, nil
}

// ListGroups implements portssvc.ReconciliationSvcFacade.
func (s *reconciliationService) ListGroups(ctx context.Context, party, company string, status *domain.GroupStatus, limit int, nextToken *string) (*dto.ListReconciliationsResponse, error) {
	groups, next, err := s.reconRepo.ListGroupsByParty(ctx, party, company, limit, nextToken)
	if err != nil {
		return nil, err
	}

	resp := &dto.ListReconciliationsResponse{Groups: make([]dto.ReconciliationGroupResponse, 0, len(groups)), NextToken: next}
	for i := range groups {
		members, err := s.docRepo.FindDocumentsByRefs(ctx, groups[i].Party, groups[i].Company, groups[i].MemberRefs)
		if err != nil {
			return nil, err
		}
		groupResp := dto.ToReconciliationGroupResponse(&groups[i], members, s.threshold)
		if status != nil && groupResp.Status != *status {
			continue
		}
		resp.Groups = append(resp.Groups, groupResp)
	}
	return resp, nil
}

// loadEligibleDocuments fetches the referenced documents and enforces the
// eligibility preconditions: every reference resolves, everything is
// submitted, nothing is fully settled, nothing already belongs to a group.
func (s *reconciliationService) loadEligibleDocuments(ctx context.Context, party, company string, refs []domain.DocumentRef) ([]domain.Document, error) {
	fetched, err := s.docRepo.FindDocumentsByRefs(ctx, party, company, refs)
	if err != nil {
		return nil, err
	}

	byRef := make(map[domain.DocumentRef]domain.Document, len(fetched))
	for i := range fetched {
		byRef[fetched[i].Ref()] = fetched[i]
	}

	// Rebuild in reference order; validateSides relies on it.
	docs := make([]domain.Document, 0, len(refs))
	seen := make(map[domain.DocumentRef]bool, len(refs))
	for _, ref := range refs {
		if seen[ref] {
			return nil, fmt.Errorf("%w: document %s (%s) referenced twice", apperrors.ErrValidation, ref.VoucherNo, ref.Kind)
		}
		seen[ref] = true
		doc, ok := byRef[ref]
		if !ok {
			return nil, fmt.Errorf("%w: document %s (%s) not found", apperrors.ErrValidation, ref.VoucherNo, ref.Kind)
		}
		docs = append(docs, doc)
	}

	for i := range docs {
		doc := &docs[i]
		if doc.Status != domain.StatusSubmitted {
			return nil, fmt.Errorf("%w: document %s is not submitted", apperrors.ErrValidation, doc.VoucherNo)
		}
		if doc.ReconciliationID != nil {
			return nil, fmt.Errorf("%w: document %s", apperrors.ErrAlreadyReconciled, doc.VoucherNo)
		}
		if doc.OutstandingAmount.IsZero() {
			return nil, fmt.Errorf("%w: document %s has no outstanding amount", apperrors.ErrValidation, doc.VoucherNo)
		}
	}
	return docs, nil
}

// validateSides checks that the selected debit documents actually carry a
// positive outstanding amount and the credit documents a negative one. The
// first debitCount documents correspond to the request's debit list;
// loadEligibleDocuments preserves reference order.
func validateSides(docs []domain.Document, debitCount int) error {
	for i := range docs {
		if i < debitCount {
			if docs[i].OutstandingAmount.IsNegative() {
				return fmt.Errorf("%w: document %s is not a debit document", apperrors.ErrValidation, docs[i].VoucherNo)
			}
		} else if docs[i].OutstandingAmount.IsPositive() {
			return fmt.Errorf("%w: document %s is not a credit document", apperrors.ErrValidation, docs[i].VoucherNo)
		}
	}
	return nil
}
