package repositories

// RepositoryProvider holds all the repositories the services depend on.
type RepositoryProvider struct {
	DocumentRepo       DocumentRepositoryFacade
	ReconciliationRepo ReconciliationRepositoryFacade
}
