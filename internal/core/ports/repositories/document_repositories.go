package repositories

import (
	"context"

	"github.com/finbooks/account_recon_app/internal/core/domain"
)

// DocumentReader defines read operations for ledger document data.
type DocumentReader interface {
	// FindDocumentsByRefs retrieves the documents matching the given
	// voucherNo+kind references for a party. Missing references are simply
	// absent from the result; callers decide whether that is an error.
	FindDocumentsByRefs(ctx context.Context, party, company string, refs []domain.DocumentRef) ([]domain.Document, error)

	// ListDocumentsByParty retrieves every non-draft ledger document for a
	// party, the raw feed the statement view is built from.
	ListDocumentsByParty(ctx context.Context, party, company string) ([]domain.Document, error)

	// ListReconciliationCandidates retrieves a token-paginated list of
	// documents eligible for reconciliation: submitted, nonzero outstanding,
	// not attached to any group.
	ListReconciliationCandidates(ctx context.Context, party, company string, limit int, nextToken *string) ([]domain.Document, *string, error)
}

// DocumentWriter defines write operations for ledger document data.
type DocumentWriter interface {
	// UpsertDocuments stores the given documents, replacing any existing
	// rows with the same voucherNo+kind. Reconciliation tags on existing
	// rows are preserved.
	UpsertDocuments(ctx context.Context, docs []domain.Document) error
}

// DocumentRepositoryFacade combines all document repository interfaces.
type DocumentRepositoryFacade interface {
	DocumentReader
	DocumentWriter
}
