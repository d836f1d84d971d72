package services

import (
	"context"

	"github.com/finbooks/account_recon_app/internal/dto"
)

// DocumentSvcFacade covers ingestion of the raw document feed and listing of
// reconciliation candidates.
type DocumentSvcFacade interface {
	// IngestDocuments stores a batch of raw ledger documents for a party,
	// classifying untyped input and coercing malformed numerics to zero.
	IngestDocuments(ctx context.Context, party, company string, req dto.IngestDocumentsRequest) (*dto.IngestDocumentsResponse, error)

	// ListCandidates retrieves documents eligible for reconciliation.
	ListCandidates(ctx context.Context, party, company string, limit int, nextToken *string) (*dto.ListDocumentsResponse, error)
}
