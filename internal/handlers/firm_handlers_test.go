package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"testing"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"lawpractice-service/internal/models"
	"lawpractice-service/internal/repository"
)

// MockFirmRepository is a mock implementation of FirmRepository
type MockFirmRepository struct {
	mock.Mock
}

var _ repository.FirmRepository = (*MockFirmRepository)(nil)

func (m *MockFirmRepository) CreateWithAdmin(ctx context.Context, firm *models.Firm, adminUserID uuid.UUID) error {
	args := m.Called(ctx, firm, adminUserID)
	if args.Error(0) == nil {
		firm.ID = uuid.New()
	}
	return args.Error(0)
}

func (m *MockFirmRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.Firm, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Firm), args.Error(1)
}

func (m *MockFirmRepository) GetBySubdomain(ctx context.Context, subdomain string) (*models.Firm, error) {
	args := m.Called(ctx, subdomain)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Firm), args.Error(1)
}

func (m *MockFirmRepository) List(ctx context.Context, page, limit int) ([]models.Firm, int64, error) {
	args := m.Called(ctx, page, limit)
	return args.Get(0).([]models.Firm), args.Get(1).(int64), args.Error(2)
}

func (m *MockFirmRepository) Update(ctx context.Context, firm *models.Firm) error {
	args := m.Called(ctx, firm)
	return args.Error(0)
}

func (m *MockFirmRepository) Delete(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockFirmRepository) ListAdminFirms(ctx context.Context, userID uuid.UUID) ([]models.AdminFirm, error) {
	args := m.Called(ctx, userID)
	return args.Get(0).([]models.AdminFirm), args.Error(1)
}

func (m *MockFirmRepository) GetCurrentAdminFirm(ctx context.Context, userID uuid.UUID) (*models.AdminFirm, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.AdminFirm), args.Error(1)
}

func (m *MockFirmRepository) SetCurrentFirm(ctx context.Context, userID, firmID uuid.UUID) error {
	args := m.Called(ctx, userID, firmID)
	return args.Error(0)
}

func newTestFirmHandler(firmRepo *MockFirmRepository) *FirmHandler {
	logger := logrus.New()
	logger.SetLevel(logrus.PanicLevel)
	return NewFirmHandler(firmRepo, nil, logger)
}

func TestCreateFirm(t *testing.T) {
	firmRepo := new(MockFirmRepository)
	handler := newTestFirmHandler(firmRepo)

	firmRepo.On("GetBySubdomain", mock.Anything, "acme-law").Return(nil, repository.ErrNotFound)
	firmRepo.On("CreateWithAdmin", mock.Anything, mock.AnythingOfType("*models.Firm"), mock.Anything).Return(nil)

	req := models.CreateFirmRequest{Name: "Acme Law"}
	c, w := newScopedContext(t, http.MethodPost, "/api/v1/firms", req, uuid.Nil)
	handler.CreateFirm(c)

	assert.Equal(t, http.StatusCreated, w.Code)

	var resp models.FirmResponse
	assert.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.True(t, resp.Success)
	assert.Equal(t, "acme-law", resp.Data.Subdomain)
	assert.Equal(t, models.FirmStatusActive, resp.Data.Status)
	firmRepo.AssertExpectations(t)
}

func TestCreateFirmDuplicateSubdomain(t *testing.T) {
	firmRepo := new(MockFirmRepository)
	handler := newTestFirmHandler(firmRepo)

	taken := &models.Firm{ID: uuid.New(), Name: "Acme Law", Subdomain: "acme-law"}
	firmRepo.On("GetBySubdomain", mock.Anything, "acme-law").Return(taken, nil)

	// A differently-spelled name that slugs to the same subdomain
	req := models.CreateFirmRequest{Name: "Acme  Law!"}
	c, w := newScopedContext(t, http.MethodPost, "/api/v1/firms", req, uuid.Nil)
	handler.CreateFirm(c)

	assert.Equal(t, http.StatusConflict, w.Code)

	var resp models.ErrorResponse
	assert.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "CONFLICT", resp.Error.Code)
	assert.Equal(t, "subdomain", resp.Error.Field)
	firmRepo.AssertNotCalled(t, "CreateWithAdmin", mock.Anything, mock.Anything, mock.Anything)
}
