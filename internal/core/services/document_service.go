package services

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/finbooks/account_recon_app/internal/apperrors"
	"github.com/finbooks/account_recon_app/internal/core/domain"
	portsrepo "github.com/finbooks/account_recon_app/internal/core/ports/repositories"
	portssvc "github.com/finbooks/account_recon_app/internal/core/ports/services"
	"github.com/finbooks/account_recon_app/internal/dto"
	"github.com/finbooks/account_recon_app/internal/middleware"
)

// documentService ingests the raw document feed and lists reconciliation
// candidates.
type documentService struct {
	docRepo portsrepo.DocumentRepositoryFacade
}

// NewDocumentService creates a new DocumentService.
func NewDocumentService(docRepo portsrepo.DocumentRepositoryFacade) portssvc.DocumentSvcFacade {
	return &documentService{docRepo: docRepo}
}

var _ portssvc.DocumentSvcFacade = (*documentService)(nil)

// IngestDocuments implements portssvc.DocumentSvcFacade. Malformed numeric
// fields coerce to zero rather than failing the batch; each coercion is
// logged and counted so upstream data quality issues stay visible.
func (s *documentService) IngestDocuments(ctx context.Context, party, company string, req dto.IngestDocumentsRequest) (*dto.IngestDocumentsResponse, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	if party == "" || company == "" {
		return nil, fmt.Errorf("%w: party and company are required", apperrors.ErrValidation)
	}

	now := time.Now().UTC()
	converted := make([]domain.Document, 0, len(req.Documents))
	for i := range req.Documents {
		doc, coerced := req.Documents[i].ToDomain(party, company, now, "ledger-feed")
		if len(coerced) > 0 {
			middleware.ComputationFallbacks.Add(float64(len(coerced)))
			logger.Warn("Malformed numeric field coerced to zero",
				slog.String("voucher_no", doc.VoucherNo),
				slog.String("fields", strings.Join(coerced, ",")),
			)
		}
		if err := doc.Validate(); err != nil {
			return nil, fmt.Errorf("%w: %v", apperrors.ErrValidation, err)
		}
		converted = append(converted, doc)
	}

	if err := s.docRepo.UpsertDocuments(ctx, converted); err != nil {
		return nil, err
	}

	logger.Info("Document feed ingested",
		slog.String("party", party),
		slog.Int("count", len(converted)),
	)
	return &dto.IngestDocumentsResponse{Ingested: len(converted)}, nil
}

// ListCandidates implements portssvc.DocumentSvcFacade.
func (s *documentService) ListCandidates(ctx context.Context, party, company string, limit int, nextToken *string) (*dto.ListDocumentsResponse, error) {
	docs, next, err := s.docRepo.ListReconciliationCandidates(ctx, party, company, limit, nextToken)
	if err != nil {
		return nil, err
	}

	resp := &dto.ListDocumentsResponse{Documents: make([]dto.DocumentResponse, 0, len(docs)), NextToken: next}
	for i := range docs {
		resp.Documents = append(resp.Documents, dto.ToDocumentResponse(&docs[i]))
	}
	return resp, nil
}
