package handlers_test

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"

	"github.com/finbooks/account_recon_app/internal/apperrors"
	"github.com/finbooks/account_recon_app/internal/core/domain"
	portssvc "github.com/finbooks/account_recon_app/internal/core/ports/services"
	"github.com/finbooks/account_recon_app/internal/dto"
	"github.com/finbooks/account_recon_app/internal/handlers"
	"github.com/finbooks/account_recon_app/pkg/config"
)

// --- Mock ReconciliationService ---

type MockReconciliationService struct {
	mock.Mock
}

var _ portssvc.ReconciliationSvcFacade = (*MockReconciliationService)(nil)

func (m *MockReconciliationService) CreateGroup(ctx context.Context, req dto.CreateReconciliationRequest, creatorUserID string) (*dto.ReconciliationGroupResponse, error) {
	args := m.Called(ctx, req, creatorUserID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*dto.ReconciliationGroupResponse), args.Error(1)
}

func (m *MockReconciliationService) ExtendGroup(ctx context.Context, reconciliationID string, req dto.ExtendReconciliationRequest, updaterUserID string) (*dto.ReconciliationGroupResponse, error) {
	args := m.Called(ctx, reconciliationID, req, updaterUserID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*dto.ReconciliationGroupResponse), args.Error(1)
}

func (m *MockReconciliationService) DissolveGroup(ctx context.Context, reconciliationID string, force bool) (*domain.DissolveOutcome, error) {
	args := m.Called(ctx, reconciliationID, force)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.DissolveOutcome), args.Error(1)
}

func (m *MockReconciliationService) GetGroup(ctx context.Context, reconciliationID string) (*dto.ReconciliationGroupResponse, error) {
	args := m.Called(ctx, reconciliationID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*dto.ReconciliationGroupResponse), args.Error(1)
}

func (m *MockReconciliationService) ListGroups(ctx context.Context, party, company string, status *domain.GroupStatus, limit int, nextToken *string) (*dto.ListReconciliationsResponse, error) {
	args := m.Called(ctx, party, company, status, limit, nextToken)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*dto.ListReconciliationsResponse), args.Error(1)
}

// --- Test Suite ---

type ReconciliationHandlerTestSuite struct {
	suite.Suite
	router      *gin.Engine
	mockService *MockReconciliationService
}

func (suite *ReconciliationHandlerTestSuite) SetupTest() {
	gin.SetMode(gin.TestMode)
	suite.mockService = new(MockReconciliationService)

	suite.router = gin.New()
	cfg := &config.Config{IsProduction: true}
	services := &portssvc.ServiceContainer{Reconciliation: suite.mockService}
	handlers.RegisterRoutes(suite.router, cfg, services)
}

func (suite *ReconciliationHandlerTestSuite) performRequest(method, path string, body any) *httptest.ResponseRecorder {
	var buf bytes.Buffer
	if body != nil {
		suite.Require().NoError(json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	suite.router.ServeHTTP(w, req)
	return w
}

// --- Test Cases ---

func (suite *ReconciliationHandlerTestSuite) TestCreateGroup_Success() {
	reqBody := dto.CreateReconciliationRequest{
		Party:      "ACME",
		Company:    "FinBooks",
		DebitDocs:  []dto.DocumentRefPayload{{VoucherNo: "SINV-001", Kind: domain.KindInvoice}},
		CreditDocs: []dto.DocumentRefPayload{{VoucherNo: "PAY-001", Kind: domain.KindPayment}},
	}
	expected := &dto.ReconciliationGroupResponse{
		ReconciliationID: "rec-1",
		Party:            "ACME",
		Company:          "FinBooks",
		NetAmount:        decimal.Zero,
		Status:           domain.GroupBalanced,
		MemberCount:      2,
	}
	suite.mockService.On("CreateGroup", mock.Anything, reqBody, mock.AnythingOfType("string")).
		Return(expected, nil).Once()

	w := suite.performRequest(http.MethodPost, "/api/v1/reconciliations", reqBody)

	suite.Equal(http.StatusCreated, w.Code)
	var got dto.ReconciliationGroupResponse
	suite.Require().NoError(json.Unmarshal(w.Body.Bytes(), &got))
	suite.Equal("rec-1", got.ReconciliationID)
	suite.Equal(domain.GroupBalanced, got.Status)
	suite.mockService.AssertExpectations(suite.T())
}

func (suite *ReconciliationHandlerTestSuite) TestCreateGroup_InvalidKindRejectedByBinding() {
	body := map[string]any{
		"party":      "ACME",
		"company":    "FinBooks",
		"debitDocs":  []map[string]any{{"voucherNo": "SINV-001", "kind": "JOURNAL"}},
		"creditDocs": []map[string]any{{"voucherNo": "PAY-001", "kind": "PAYMENT"}},
	}

	w := suite.performRequest(http.MethodPost, "/api/v1/reconciliations", body)

	suite.Equal(http.StatusBadRequest, w.Code)
	suite.mockService.AssertNotCalled(suite.T(), "CreateGroup", mock.Anything, mock.Anything, mock.Anything)
}

func (suite *ReconciliationHandlerTestSuite) TestCreateGroup_ConflictMapsTo409() {
	reqBody := dto.CreateReconciliationRequest{
		Party:      "ACME",
		Company:    "FinBooks",
		DebitDocs:  []dto.DocumentRefPayload{{VoucherNo: "SINV-001", Kind: domain.KindInvoice}},
		CreditDocs: []dto.DocumentRefPayload{{VoucherNo: "PAY-001", Kind: domain.KindPayment}},
	}
	suite.mockService.On("CreateGroup", mock.Anything, reqBody, mock.AnythingOfType("string")).
		Return(nil, fmt.Errorf("%w: document SINV-001", apperrors.ErrAlreadyReconciled)).Once()

	w := suite.performRequest(http.MethodPost, "/api/v1/reconciliations", reqBody)

	suite.Equal(http.StatusConflict, w.Code)
}

func (suite *ReconciliationHandlerTestSuite) TestGetGroup_NotFound() {
	suite.mockService.On("GetGroup", mock.Anything, "rec-missing").
		Return(nil, apperrors.ErrNotFound).Once()

	w := suite.performRequest(http.MethodGet, "/api/v1/reconciliations/rec-missing", nil)

	suite.Equal(http.StatusNotFound, w.Code)
}

func (suite *ReconciliationHandlerTestSuite) TestDissolveGroup_ForceQueryParam() {
	outcome := &domain.DissolveOutcome{
		Dissolved: []domain.Document{{VoucherNo: "SINV-001", Kind: domain.KindInvoice}},
	}
	suite.mockService.On("DissolveGroup", mock.Anything, "rec-1", true).
		Return(outcome, nil).Once()

	w := suite.performRequest(http.MethodDelete, "/api/v1/reconciliations/rec-1?force=true", nil)

	suite.Equal(http.StatusOK, w.Code)
	var got dto.DissolveResponse
	suite.Require().NoError(json.Unmarshal(w.Body.Bytes(), &got))
	suite.False(got.RequiresConfirmation)
	suite.Len(got.Dissolved, 1)
	suite.mockService.AssertExpectations(suite.T())
}

func (suite *ReconciliationHandlerTestSuite) TestDissolveGroup_ConfirmationRequired() {
	outcome := &domain.DissolveOutcome{
		Conflicts:            []domain.Document{{VoucherNo: "PAY-001", Kind: domain.KindPayment}},
		RequiresConfirmation: true,
	}
	suite.mockService.On("DissolveGroup", mock.Anything, "rec-1", false).
		Return(outcome, nil).Once()

	w := suite.performRequest(http.MethodDelete, "/api/v1/reconciliations/rec-1", nil)

	suite.Equal(http.StatusOK, w.Code)
	var got dto.DissolveResponse
	suite.Require().NoError(json.Unmarshal(w.Body.Bytes(), &got))
	suite.True(got.RequiresConfirmation)
	suite.Len(got.Conflicts, 1)
	suite.Empty(got.Dissolved)
}

func (suite *ReconciliationHandlerTestSuite) TestDissolveGroup_MalformedForceRejected() {
	w := suite.performRequest(http.MethodDelete, "/api/v1/reconciliations/rec-1?force=yes", nil)

	suite.Equal(http.StatusBadRequest, w.Code)
	suite.mockService.AssertNotCalled(suite.T(), "DissolveGroup", mock.Anything, mock.Anything, mock.Anything)
}

func (suite *ReconciliationHandlerTestSuite) TestListGroups_InvalidStatusRejected() {
	w := suite.performRequest(http.MethodGet, "/api/v1/reconciliations?party=ACME&company=FinBooks&status=SETTLED", nil)

	suite.Equal(http.StatusBadRequest, w.Code)
	suite.mockService.AssertNotCalled(suite.T(), "ListGroups",
		mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func (suite *ReconciliationHandlerTestSuite) TestListGroups_PassesStatusFilter() {
	pending := domain.GroupPending
	expected := &dto.ListReconciliationsResponse{
		Groups: []dto.ReconciliationGroupResponse{{ReconciliationID: "rec-1", Status: domain.GroupPending}},
	}
	suite.mockService.On("ListGroups", mock.Anything, "ACME", "FinBooks", &pending, 10, (*string)(nil)).
		Return(expected, nil).Once()

	w := suite.performRequest(http.MethodGet, "/api/v1/reconciliations?party=ACME&company=FinBooks&status=PENDING&limit=10", nil)

	suite.Equal(http.StatusOK, w.Code)
	var got dto.ListReconciliationsResponse
	suite.Require().NoError(json.Unmarshal(w.Body.Bytes(), &got))
	suite.Require().Len(got.Groups, 1)
	suite.Equal("rec-1", got.Groups[0].ReconciliationID)
}

func TestReconciliationHandlerTestSuite(t *testing.T) {
	suite.Run(t, new(ReconciliationHandlerTestSuite))
}
