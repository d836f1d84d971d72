package services

import (
	"context"

	"github.com/finbooks/account_recon_app/internal/core/domain"
	"github.com/finbooks/account_recon_app/internal/dto"
)

// StatementSvcFacade builds the ordered, running-balance statement view.
type StatementSvcFacade interface {
	// BuildStatement produces the displayed rows for a party: group
	// summaries first (chronological), then loose documents in posting-date
	// order, with a single running-balance accumulator across all of them.
	BuildStatement(ctx context.Context, party, company string) ([]domain.StatementRow, error)

	// BuildFilteredStatement produces the flat, filtered view used while a
	// search query is active: grouping suppressed, every document shown
	// individually, running balance recomputed against the filtered set only.
	BuildFilteredStatement(ctx context.Context, party, company string, filter dto.StatementFilter) ([]domain.StatementRow, error)
}
