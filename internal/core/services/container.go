package services

import (
	"github.com/shopspring/decimal"

	portsrepo "github.com/finbooks/account_recon_app/internal/core/ports/repositories"
	portssvc "github.com/finbooks/account_recon_app/internal/core/ports/services"
)

// NewContainer creates a new service container with properly initialized
// dependencies. The threshold is the balanced/pending cutoff for
// reconciliation groups.
func NewContainer(repos *portsrepo.RepositoryProvider, threshold decimal.Decimal) *portssvc.ServiceContainer {
	return &portssvc.ServiceContainer{
		Document:       NewDocumentService(repos.DocumentRepo),
		Statement:      NewStatementService(repos.DocumentRepo, repos.ReconciliationRepo),
		Reconciliation: NewReconciliationService(repos.DocumentRepo, repos.ReconciliationRepo, threshold),
	}
}
