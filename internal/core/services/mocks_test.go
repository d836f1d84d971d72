package services_test

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/finbooks/account_recon_app/internal/core/domain"
	portsrepo "github.com/finbooks/account_recon_app/internal/core/ports/repositories"
)

// --- Mock DocumentRepository ---

type MockDocumentRepository struct {
	mock.Mock
}

var _ portsrepo.DocumentRepositoryFacade = (*MockDocumentRepository)(nil)

func (m *MockDocumentRepository) FindDocumentsByRefs(ctx context.Context, party, company string, refs []domain.DocumentRef) ([]domain.Document, error) {
	args := m.Called(ctx, party, company, refs)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Document), args.Error(1)
}

func (m *MockDocumentRepository) ListDocumentsByParty(ctx context.Context, party, company string) ([]domain.Document, error) {
	args := m.Called(ctx, party, company)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Document), args.Error(1)
}

func (m *MockDocumentRepository) ListReconciliationCandidates(ctx context.Context, party, company string, limit int, nextToken *string) ([]domain.Document, *string, error) {
	args := m.Called(ctx, party, company, limit, nextToken)
	if args.Get(0) == nil {
		return nil, nil, args.Error(2)
	}
	var token *string
	if args.Get(1) != nil {
		t := args.Get(1).(string)
		token = &t
	}
	return args.Get(0).([]domain.Document), token, args.Error(2)
}

func (m *MockDocumentRepository) UpsertDocuments(ctx context.Context, docs []domain.Document) error {
	args := m.Called(ctx, docs)
	return args.Error(0)
}

// --- Mock ReconciliationRepository ---

type MockReconciliationRepository struct {
	mock.Mock
}

var _ portsrepo.ReconciliationRepositoryFacade = (*MockReconciliationRepository)(nil)

func (m *MockReconciliationRepository) FindGroupByID(ctx context.Context, reconciliationID string) (*domain.ReconciliationGroup, error) {
	args := m.Called(ctx, reconciliationID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.ReconciliationGroup), args.Error(1)
}

func (m *MockReconciliationRepository) ListGroupsByParty(ctx context.Context, party, company string, limit int, nextToken *string) ([]domain.ReconciliationGroup, *string, error) {
	args := m.Called(ctx, party, company, limit, nextToken)
	if args.Get(0) == nil {
		return nil, nil, args.Error(2)
	}
	var token *string
	if args.Get(1) != nil {
		t := args.Get(1).(string)
		token = &t
	}
	return args.Get(0).([]domain.ReconciliationGroup), token, args.Error(2)
}

func (m *MockReconciliationRepository) CreateGroup(ctx context.Context, group domain.ReconciliationGroup) error {
	args := m.Called(ctx, group)
	return args.Error(0)
}

func (m *MockReconciliationRepository) AttachDocuments(ctx context.Context, reconciliationID string, refs []domain.DocumentRef) error {
	args := m.Called(ctx, reconciliationID, refs)
	return args.Error(0)
}

func (m *MockReconciliationRepository) DetachAndDelete(ctx context.Context, reconciliationID string, detach []domain.DocumentRef) error {
	args := m.Called(ctx, reconciliationID, detach)
	return args.Error(0)
}
