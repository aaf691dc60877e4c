package handlers

import (
	"context"
	"net/http"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"lawpractice-service/internal/models"
	"lawpractice-service/internal/repository"
)

// MockRBACRepository is a mock implementation of RBACRepository
type MockRBACRepository struct {
	mock.Mock
}

var _ repository.RBACRepository = (*MockRBACRepository)(nil)

func (m *MockRBACRepository) GetRoleByName(ctx context.Context, firmID *uuid.UUID, name string) (*models.Role, error) {
	args := m.Called(ctx, firmID, name)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Role), args.Error(1)
}

func (m *MockRBACRepository) GetRoleByID(ctx context.Context, firmID uuid.UUID, id uuid.UUID) (*models.Role, error) {
	args := m.Called(ctx, firmID, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Role), args.Error(1)
}

func (m *MockRBACRepository) ListRoles(ctx context.Context, firmID uuid.UUID, page, limit int) ([]models.Role, int64, error) {
	args := m.Called(ctx, firmID, page, limit)
	return args.Get(0).([]models.Role), args.Get(1).(int64), args.Error(2)
}

func (m *MockRBACRepository) CreateRole(ctx context.Context, role *models.Role) error {
	args := m.Called(ctx, role)
	if args.Error(0) == nil {
		role.ID = uuid.New()
	}
	return args.Error(0)
}

func (m *MockRBACRepository) UpdateRole(ctx context.Context, role *models.Role) error {
	args := m.Called(ctx, role)
	return args.Error(0)
}

func (m *MockRBACRepository) DeleteRole(ctx context.Context, firmID uuid.UUID, id uuid.UUID) error {
	args := m.Called(ctx, firmID, id)
	return args.Error(0)
}

func (m *MockRBACRepository) SetRolePermissions(ctx context.Context, roleID uuid.UUID, permissionIDs []uuid.UUID) error {
	args := m.Called(ctx, roleID, permissionIDs)
	return args.Error(0)
}

func (m *MockRBACRepository) ListPermissions(ctx context.Context) ([]models.Permission, error) {
	args := m.Called(ctx)
	return args.Get(0).([]models.Permission), args.Error(1)
}

func (m *MockRBACRepository) EnsurePermission(ctx context.Context, name, displayName, resource, action string) (*models.Permission, error) {
	args := m.Called(ctx, name, displayName, resource, action)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Permission), args.Error(1)
}

func (m *MockRBACRepository) EnsureSystemRole(ctx context.Context, name string, permissionNames []string) error {
	args := m.Called(ctx, name, permissionNames)
	return args.Error(0)
}

func (m *MockRBACRepository) CreateAuditLog(ctx context.Context, entry *models.AccessAuditLog) error {
	args := m.Called(ctx, entry)
	return args.Error(0)
}

func (m *MockRBACRepository) ListAuditLogs(ctx context.Context, firmID *uuid.UUID, page, limit int) ([]models.AccessAuditLog, int64, error) {
	args := m.Called(ctx, firmID, page, limit)
	return args.Get(0).([]models.AccessAuditLog), args.Get(1).(int64), args.Error(2)
}

func newTestRoleHandler(rbacRepo *MockRBACRepository) *RoleHandler {
	logger := logrus.New()
	logger.SetLevel(logrus.PanicLevel)
	return NewRoleHandler(rbacRepo, nil, logger)
}

// expectAuditLog wires the CreateAuditLog expectation and returns a channel
// that receives the written entry. Audit writes happen off the request
// goroutine.
func expectAuditLog(rbacRepo *MockRBACRepository) <-chan *models.AccessAuditLog {
	audited := make(chan *models.AccessAuditLog, 1)
	rbacRepo.On("CreateAuditLog", mock.Anything, mock.AnythingOfType("*models.AccessAuditLog")).
		Run(func(args mock.Arguments) {
			audited <- args.Get(1).(*models.AccessAuditLog)
		}).
		Return(nil)
	return audited
}

func waitForAuditLog(t *testing.T, audited <-chan *models.AccessAuditLog) *models.AccessAuditLog {
	t.Helper()
	select {
	case entry := <-audited:
		return entry
	case <-time.After(2 * time.Second):
		t.Fatal("no audit log entry was written")
		return nil
	}
}

func TestCreateRoleWritesAuditEntry(t *testing.T) {
	rbacRepo := new(MockRBACRepository)
	handler := newTestRoleHandler(rbacRepo)

	firmID := uuid.New()
	created := &models.Role{FirmID: &firmID, Name: "Paralegal"}
	rbacRepo.On("CreateRole", mock.Anything, mock.AnythingOfType("*models.Role")).Return(nil)
	rbacRepo.On("GetRoleByID", mock.Anything, firmID, mock.Anything).Return(created, nil)
	audited := expectAuditLog(rbacRepo)

	req := models.CreateRoleRequest{Name: "Paralegal"}
	c, w := newScopedContext(t, http.MethodPost, "/api/v1/roles", req, firmID)
	handler.CreateRole(c)

	assert.Equal(t, http.StatusCreated, w.Code)

	entry := waitForAuditLog(t, audited)
	require.NotNil(t, entry)
	assert.Equal(t, "role_created", entry.Action)
	require.NotNil(t, entry.FirmID)
	assert.Equal(t, firmID, *entry.FirmID)
	assert.Nil(t, entry.OldValue)
	assert.Contains(t, string(entry.NewValue), "Paralegal")
}

func TestUpdateRoleAuditCapturesOldAndNewValues(t *testing.T) {
	rbacRepo := new(MockRBACRepository)
	handler := newTestRoleHandler(rbacRepo)

	firmID := uuid.New()
	roleID := uuid.New()
	role := &models.Role{ID: roleID, FirmID: &firmID, Name: "Paralegal"}
	rbacRepo.On("GetRoleByID", mock.Anything, firmID, roleID).Return(role, nil)
	rbacRepo.On("UpdateRole", mock.Anything, mock.AnythingOfType("*models.Role")).Return(nil)
	audited := expectAuditLog(rbacRepo)

	newName := "Senior Paralegal"
	req := models.UpdateRoleRequest{Name: &newName}
	c, w := newScopedContext(t, http.MethodPut, "/api/v1/roles/"+roleID.String(), req, firmID)
	c.Params = gin.Params{{Key: "id", Value: roleID.String()}}
	handler.UpdateRole(c)

	assert.Equal(t, http.StatusOK, w.Code)

	entry := waitForAuditLog(t, audited)
	require.NotNil(t, entry)
	assert.Equal(t, "role_updated", entry.Action)
	require.NotNil(t, entry.EntityID)
	assert.Equal(t, roleID, *entry.EntityID)
	assert.Contains(t, string(entry.OldValue), `"Paralegal"`)
	assert.Contains(t, string(entry.NewValue), "Senior Paralegal")
	assert.False(t, strings.Contains(string(entry.OldValue), "Senior"))
}

func TestDeleteRoleWritesAuditEntry(t *testing.T) {
	rbacRepo := new(MockRBACRepository)
	handler := newTestRoleHandler(rbacRepo)

	firmID := uuid.New()
	roleID := uuid.New()
	role := &models.Role{ID: roleID, FirmID: &firmID, Name: "Paralegal"}
	rbacRepo.On("GetRoleByID", mock.Anything, firmID, roleID).Return(role, nil)
	rbacRepo.On("DeleteRole", mock.Anything, firmID, roleID).Return(nil)
	audited := expectAuditLog(rbacRepo)

	c, w := newScopedContext(t, http.MethodDelete, "/api/v1/roles/"+roleID.String(), nil, firmID)
	c.Params = gin.Params{{Key: "id", Value: roleID.String()}}
	handler.DeleteRole(c)

	assert.Equal(t, http.StatusOK, w.Code)

	entry := waitForAuditLog(t, audited)
	require.NotNil(t, entry)
	assert.Equal(t, "role_deleted", entry.Action)
	assert.Contains(t, string(entry.OldValue), "Paralegal")
	assert.Nil(t, entry.NewValue)
}
