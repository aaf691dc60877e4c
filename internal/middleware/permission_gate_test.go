package middleware

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

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

func newGateContext(t *testing.T, role string, firmID uuid.UUID) (*gin.Context, *httptest.ResponseRecorder) {
	t.Helper()
	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodGet, "/api/v1/cases", nil)
	c.Set("user_id", uuid.New().String())
	c.Set("user_role", role)
	c.Set("firm_id", firmID.String())
	return c, w
}

func roleWith(name string, permissions ...string) *models.Role {
	role := &models.Role{ID: uuid.New(), Name: name}
	for _, p := range permissions {
		role.Permissions = append(role.Permissions, models.Permission{ID: uuid.New(), Name: p})
	}
	return role
}

func errorCode(t *testing.T, w *httptest.ResponseRecorder) string {
	t.Helper()
	var resp models.ErrorResponse
	assert.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	return resp.Error.Code
}

func TestPermissionGateSuperAdminBypass(t *testing.T) {
	rbacRepo := new(MockRBACRepository)
	gate := NewPermissionGate(rbacRepo, nil)

	c, w := newGateContext(t, string(models.RoleSuperAdmin), uuid.New())
	gate.RequirePermission("cases:delete")(c)

	assert.False(t, c.IsAborted())
	assert.Equal(t, http.StatusOK, w.Code)
	rbacRepo.AssertNotCalled(t, "GetRoleByName", mock.Anything, mock.Anything, mock.Anything)
}

func TestPermissionGateGrantsMatchingPermission(t *testing.T) {
	rbacRepo := new(MockRBACRepository)
	gate := NewPermissionGate(rbacRepo, nil)

	firmID := uuid.New()
	rbacRepo.On("GetRoleByName", mock.Anything, mock.Anything, "Lawyer").
		Return(roleWith("Lawyer", "cases:view", "cases:create"), nil)

	c, w := newGateContext(t, "Lawyer", firmID)
	gate.RequirePermission("cases:view")(c)

	assert.False(t, c.IsAborted())
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestPermissionGateAnyPermissionOrSemantics(t *testing.T) {
	rbacRepo := new(MockRBACRepository)
	gate := NewPermissionGate(rbacRepo, nil)

	// Role holds only the second of the two required permissions
	rbacRepo.On("GetRoleByName", mock.Anything, mock.Anything, "Paralegal").
		Return(roleWith("Paralegal", "cases:edit"), nil)

	c, w := newGateContext(t, "Paralegal", uuid.New())
	gate.RequireAnyPermission("cases:assign", "cases:edit")(c)

	assert.False(t, c.IsAborted())
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestPermissionGateWildcardPermission(t *testing.T) {
	rbacRepo := new(MockRBACRepository)
	gate := NewPermissionGate(rbacRepo, nil)

	rbacRepo.On("GetRoleByName", mock.Anything, mock.Anything, "Office Manager").
		Return(roleWith("Office Manager", "cases:*"), nil)

	c, w := newGateContext(t, "Office Manager", uuid.New())
	gate.RequirePermission("cases:delete")(c)

	assert.False(t, c.IsAborted())
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestPermissionGateDeniesMissingPermission(t *testing.T) {
	rbacRepo := new(MockRBACRepository)
	gate := NewPermissionGate(rbacRepo, nil)

	rbacRepo.On("GetRoleByName", mock.Anything, mock.Anything, "Client").
		Return(roleWith("Client", "cases:view", "documents:view"), nil)
	rbacRepo.On("CreateAuditLog", mock.Anything, mock.Anything).Return(nil).Maybe()

	c, w := newGateContext(t, "Client", uuid.New())
	gate.RequirePermission("cases:delete")(c)

	assert.True(t, c.IsAborted())
	assert.Equal(t, http.StatusForbidden, w.Code)
	assert.Equal(t, ErrCodeForbidden, errorCode(t, w))
}

func TestPermissionGateRoleNotFound(t *testing.T) {
	rbacRepo := new(MockRBACRepository)
	gate := NewPermissionGate(rbacRepo, nil)

	rbacRepo.On("GetRoleByName", mock.Anything, mock.Anything, "Ghost Role").
		Return(nil, repository.ErrNotFound)
	rbacRepo.On("CreateAuditLog", mock.Anything, mock.Anything).Return(nil).Maybe()

	c, w := newGateContext(t, "Ghost Role", uuid.New())
	gate.RequirePermission("cases:view")(c)

	assert.True(t, c.IsAborted())
	assert.Equal(t, http.StatusForbidden, w.Code)
	assert.Equal(t, ErrCodeRoleNotFound, errorCode(t, w))
}

func TestPermissionGateMissingUserContext(t *testing.T) {
	rbacRepo := new(MockRBACRepository)
	gate := NewPermissionGate(rbacRepo, nil)

	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodGet, "/api/v1/cases", nil)

	gate.RequirePermission("cases:view")(c)

	assert.True(t, c.IsAborted())
	assert.Equal(t, http.StatusForbidden, w.Code)
}
