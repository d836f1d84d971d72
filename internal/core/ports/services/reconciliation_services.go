package services

import (
	"context"

	"github.com/finbooks/account_recon_app/internal/core/domain"
	"github.com/finbooks/account_recon_app/internal/dto"
)

// ReconciliationSvcFacade manages the lifecycle of reconciliation groups.
type ReconciliationSvcFacade interface {
	// CreateGroup creates a new group from at least one debit and one credit
	// document, tagging every member atomically. Over/under-allocated groups
	// are legal; they surface as pending.
	CreateGroup(ctx context.Context, req dto.CreateReconciliationRequest, creatorUserID string) (*dto.ReconciliationGroupResponse, error)

	// ExtendGroup appends further documents to an existing group and
	// re-derives its net amount.
	ExtendGroup(ctx context.Context, reconciliationID string, req dto.ExtendReconciliationRequest, updaterUserID string) (*dto.ReconciliationGroupResponse, error)

	// DissolveGroup detaches a group's members. Unforced calls are a pure
	// probe when conflicts exist: the outcome carries the conflicting
	// payments and nothing is mutated. Callers must surface the conflicts to
	// a human before retrying with force.
	DissolveGroup(ctx context.Context, reconciliationID string, force bool) (*domain.DissolveOutcome, error)

	// GetGroup retrieves one group with its members and derived status.
	GetGroup(ctx context.Context, reconciliationID string) (*dto.ReconciliationGroupResponse, error)

	// ListGroups retrieves groups for a party, optionally filtered to
	// pending or balanced ones.
	ListGroups(ctx context.Context, party, company string, status *domain.GroupStatus, limit int, nextToken *string) (*dto.ListReconciliationsResponse, error)
}
