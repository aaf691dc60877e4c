package services

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"lawpractice-service/internal/models"
	"lawpractice-service/internal/repository"
)

// MockCaseRepository is a mock implementation of CaseRepository
type MockCaseRepository struct {
	mock.Mock
}

var _ repository.CaseRepository = (*MockCaseRepository)(nil)

func (m *MockCaseRepository) Create(ctx context.Context, c *models.Case) error {
	args := m.Called(ctx, c)
	if args.Error(0) == nil {
		c.ID = uuid.New()
	}
	return args.Error(0)
}

func (m *MockCaseRepository) GetByID(ctx context.Context, firmID, id uuid.UUID) (*models.Case, error) {
	args := m.Called(ctx, firmID, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Case), args.Error(1)
}

func (m *MockCaseRepository) GetByNumber(ctx context.Context, firmID uuid.UUID, caseNumber string) (*models.Case, error) {
	args := m.Called(ctx, firmID, caseNumber)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Case), args.Error(1)
}

func (m *MockCaseRepository) List(ctx context.Context, firmID uuid.UUID, status models.CaseStatus, page, limit int) ([]models.Case, int64, error) {
	args := m.Called(ctx, firmID, status, page, limit)
	return args.Get(0).([]models.Case), args.Get(1).(int64), args.Error(2)
}

func (m *MockCaseRepository) Update(ctx context.Context, c *models.Case) error {
	args := m.Called(ctx, c)
	return args.Error(0)
}

func (m *MockCaseRepository) Delete(ctx context.Context, firmID, id uuid.UUID) error {
	args := m.Called(ctx, firmID, id)
	return args.Error(0)
}

func (m *MockCaseRepository) AssignLawyer(ctx context.Context, firmID, caseID, lawyerID uuid.UUID) error {
	args := m.Called(ctx, firmID, caseID, lawyerID)
	return args.Error(0)
}

func (m *MockCaseRepository) UnassignLawyer(ctx context.Context, firmID, caseID, lawyerID uuid.UUID) error {
	args := m.Called(ctx, firmID, caseID, lawyerID)
	return args.Error(0)
}

func (m *MockCaseRepository) CreateDocument(ctx context.Context, doc *models.CaseDocument) error {
	args := m.Called(ctx, doc)
	return args.Error(0)
}

func (m *MockCaseRepository) ListDocuments(ctx context.Context, firmID, caseID uuid.UUID) ([]models.CaseDocument, error) {
	args := m.Called(ctx, firmID, caseID)
	return args.Get(0).([]models.CaseDocument), args.Error(1)
}

func (m *MockCaseRepository) DeleteDocument(ctx context.Context, firmID, caseID, docID uuid.UUID) error {
	args := m.Called(ctx, firmID, caseID, docID)
	return args.Error(0)
}

func newTestCaseService(caseRepo *MockCaseRepository, clientRepo *MockClientRepository) *CaseService {
	logger := logrus.New()
	logger.SetLevel(logrus.PanicLevel)
	return NewCaseService(caseRepo, clientRepo, nil, logger)
}

func TestCreateCaseOpensWithDefaults(t *testing.T) {
	caseRepo := new(MockCaseRepository)
	clientRepo := new(MockClientRepository)
	svc := newTestCaseService(caseRepo, clientRepo)

	firmID := uuid.New()
	clientID := uuid.New()
	clientRepo.On("GetByID", mock.Anything, firmID, clientID).Return(&models.Client{ID: clientID, FirmID: firmID}, nil)
	caseRepo.On("GetByNumber", mock.Anything, firmID, "2026-0042").Return(nil, repository.ErrNotFound)
	caseRepo.On("Create", mock.Anything, mock.AnythingOfType("*models.Case")).Return(nil)

	req := &models.CreateCaseRequest{ClientID: clientID, CaseNumber: "2026-0042", Title: "Estate of Doe"}
	created, err := svc.Create(context.Background(), firmID, req, uuid.New())

	assert.NoError(t, err)
	assert.Equal(t, models.CaseStatusOpen, created.Status)
	assert.False(t, created.OpenedAt.IsZero())
	assert.Nil(t, created.ClosedAt)
	caseRepo.AssertExpectations(t)
}

func TestCreateCaseRejectsDuplicateNumber(t *testing.T) {
	caseRepo := new(MockCaseRepository)
	clientRepo := new(MockClientRepository)
	svc := newTestCaseService(caseRepo, clientRepo)

	firmID := uuid.New()
	clientID := uuid.New()
	clientRepo.On("GetByID", mock.Anything, firmID, clientID).Return(&models.Client{ID: clientID, FirmID: firmID}, nil)
	caseRepo.On("GetByNumber", mock.Anything, firmID, "2026-0042").Return(&models.Case{CaseNumber: "2026-0042"}, nil)

	req := &models.CreateCaseRequest{ClientID: clientID, CaseNumber: "2026-0042", Title: "Duplicate"}
	_, err := svc.Create(context.Background(), firmID, req, uuid.New())

	assert.ErrorIs(t, err, ErrDuplicateCaseNumber)
	caseRepo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestCreateCaseRejectsForeignClient(t *testing.T) {
	caseRepo := new(MockCaseRepository)
	clientRepo := new(MockClientRepository)
	svc := newTestCaseService(caseRepo, clientRepo)

	firmID := uuid.New()
	clientID := uuid.New()
	clientRepo.On("GetByID", mock.Anything, firmID, clientID).Return(nil, repository.ErrNotFound)

	req := &models.CreateCaseRequest{ClientID: clientID, CaseNumber: "2026-0001", Title: "Cross-firm"}
	_, err := svc.Create(context.Background(), firmID, req, uuid.New())

	assert.ErrorIs(t, err, repository.ErrNotFound)
}

func TestChangeStatusRejectsUnknownValue(t *testing.T) {
	caseRepo := new(MockCaseRepository)
	svc := newTestCaseService(caseRepo, new(MockClientRepository))

	_, err := svc.ChangeStatus(context.Background(), uuid.New(), uuid.New(), models.CaseStatus("Archived"), uuid.New())

	assert.ErrorIs(t, err, ErrInvalidStatus)
	caseRepo.AssertNotCalled(t, "GetByID", mock.Anything, mock.Anything, mock.Anything)
}

func TestChangeStatusSameStatusIsNoOp(t *testing.T) {
	caseRepo := new(MockCaseRepository)
	svc := newTestCaseService(caseRepo, new(MockClientRepository))

	firmID := uuid.New()
	caseID := uuid.New()
	existing := &models.Case{ID: caseID, FirmID: firmID, Status: models.CaseStatusOpen}
	caseRepo.On("GetByID", mock.Anything, firmID, caseID).Return(existing, nil)

	updated, err := svc.ChangeStatus(context.Background(), firmID, caseID, models.CaseStatusOpen, uuid.New())

	assert.NoError(t, err)
	assert.Equal(t, models.CaseStatusOpen, updated.Status)
	caseRepo.AssertNotCalled(t, "Update", mock.Anything, mock.Anything)
}

func TestChangeStatusClosingStampsClosedAt(t *testing.T) {
	caseRepo := new(MockCaseRepository)
	svc := newTestCaseService(caseRepo, new(MockClientRepository))

	firmID := uuid.New()
	caseID := uuid.New()
	existing := &models.Case{ID: caseID, FirmID: firmID, Status: models.CaseStatusOpen, OpenedAt: time.Now().Add(-48 * time.Hour)}
	caseRepo.On("GetByID", mock.Anything, firmID, caseID).Return(existing, nil)
	caseRepo.On("Update", mock.Anything, existing).Return(nil)

	updated, err := svc.ChangeStatus(context.Background(), firmID, caseID, models.CaseStatusClosed, uuid.New())

	assert.NoError(t, err)
	assert.Equal(t, models.CaseStatusClosed, updated.Status)
	assert.NotNil(t, updated.ClosedAt)
	caseRepo.AssertExpectations(t)
}

func TestChangeStatusReopeningClearsClosedAt(t *testing.T) {
	caseRepo := new(MockCaseRepository)
	svc := newTestCaseService(caseRepo, new(MockClientRepository))

	firmID := uuid.New()
	caseID := uuid.New()
	closedAt := time.Now().Add(-24 * time.Hour)
	originalOpenedAt := time.Now().Add(-30 * 24 * time.Hour)
	existing := &models.Case{
		ID:       caseID,
		FirmID:   firmID,
		Status:   models.CaseStatusClosed,
		OpenedAt: originalOpenedAt,
		ClosedAt: &closedAt,
	}
	caseRepo.On("GetByID", mock.Anything, firmID, caseID).Return(existing, nil)
	caseRepo.On("Update", mock.Anything, existing).Return(nil)

	updated, err := svc.ChangeStatus(context.Background(), firmID, caseID, models.CaseStatusOpen, uuid.New())

	assert.NoError(t, err)
	assert.Equal(t, models.CaseStatusOpen, updated.Status)
	assert.Nil(t, updated.ClosedAt)
	assert.True(t, updated.OpenedAt.After(originalOpenedAt))
}

func TestChangeStatusBetweenOpenStatesKeepsTimestamps(t *testing.T) {
	caseRepo := new(MockCaseRepository)
	svc := newTestCaseService(caseRepo, new(MockClientRepository))

	firmID := uuid.New()
	caseID := uuid.New()
	openedAt := time.Now().Add(-72 * time.Hour)
	existing := &models.Case{ID: caseID, FirmID: firmID, Status: models.CaseStatusOpen, OpenedAt: openedAt}
	caseRepo.On("GetByID", mock.Anything, firmID, caseID).Return(existing, nil)
	caseRepo.On("Update", mock.Anything, existing).Return(nil)

	updated, err := svc.ChangeStatus(context.Background(), firmID, caseID, models.CaseStatusOnHold, uuid.New())

	assert.NoError(t, err)
	assert.Equal(t, models.CaseStatusOnHold, updated.Status)
	assert.Equal(t, openedAt, updated.OpenedAt)
	assert.Nil(t, updated.ClosedAt)
}

func TestChangeStatusUnknownCase(t *testing.T) {
	caseRepo := new(MockCaseRepository)
	svc := newTestCaseService(caseRepo, new(MockClientRepository))

	firmID := uuid.New()
	caseID := uuid.New()
	caseRepo.On("GetByID", mock.Anything, firmID, caseID).Return(nil, repository.ErrNotFound)

	_, err := svc.ChangeStatus(context.Background(), firmID, caseID, models.CaseStatusClosed, uuid.New())

	assert.ErrorIs(t, err, repository.ErrNotFound)
}
