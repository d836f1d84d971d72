package repositories

import (
	"context"

	"github.com/finbooks/account_recon_app/internal/core/domain"
)

// ReconciliationReader defines read operations for reconciliation groups.
type ReconciliationReader interface {
	// FindGroupByID retrieves a group by its unique identifier.
	FindGroupByID(ctx context.Context, reconciliationID string) (*domain.ReconciliationGroup, error)

	// ListGroupsByParty retrieves a token-paginated list of groups for a
	// party, ordered by posting date. A limit <= 0 retrieves all groups.
	ListGroupsByParty(ctx context.Context, party, company string, limit int, nextToken *string) ([]domain.ReconciliationGroup, *string, error)
}

// ReconciliationWriter defines write operations for reconciliation groups.
// Every method is all-or-nothing: the attachment state of each target
// document is re-validated under a row lock inside the same database
// transaction that performs the write, and the whole operation fails with
// apperrors.ErrConcurrentModification if any target was claimed concurrently.
type ReconciliationWriter interface {
	// CreateGroup persists a new group and tags all its member documents.
	CreateGroup(ctx context.Context, group domain.ReconciliationGroup) error

	// AttachDocuments appends additional documents to an existing group.
	AttachDocuments(ctx context.Context, reconciliationID string, refs []domain.DocumentRef) error

	// DetachAndDelete clears the reconciliation tag on the given members and
	// removes the group record. Members not listed keep their tag.
	DetachAndDelete(ctx context.Context, reconciliationID string, detach []domain.DocumentRef) error
}

// ReconciliationRepositoryFacade combines all reconciliation repository interfaces.
type ReconciliationRepositoryFacade interface {
	ReconciliationReader
	ReconciliationWriter
}
