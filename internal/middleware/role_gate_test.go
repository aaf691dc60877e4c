package middleware

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"

	"lawpractice-service/internal/models"
)

func newRoleContext(t *testing.T, role string) (*gin.Context, *httptest.ResponseRecorder) {
	t.Helper()
	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodGet, "/api/v1/firms", nil)
	if role != "" {
		c.Set("user_role", role)
	}
	return c, w
}

func TestRequireRoleExactMatch(t *testing.T) {
	c, w := newRoleContext(t, "Firm Admin")
	RequireFirmAdmin()(c)

	assert.False(t, c.IsAborted())
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestRequireRoleNoHierarchy(t *testing.T) {
	// Role comparison is exact string equality: Super Admin does not satisfy
	// a Firm Admin requirement.
	c, w := newRoleContext(t, "Super Admin")
	RequireFirmAdmin()(c)

	assert.True(t, c.IsAborted())
	assert.Equal(t, http.StatusForbidden, w.Code)
}

func TestRequireRoleCaseSensitive(t *testing.T) {
	c, w := newRoleContext(t, "firm admin")
	RequireFirmAdmin()(c)

	assert.True(t, c.IsAborted())
	assert.Equal(t, http.StatusForbidden, w.Code)
}

func TestRequireRoleAnyOfSeveral(t *testing.T) {
	c, w := newRoleContext(t, "Lawyer")
	RequireRole(models.RoleFirmAdmin, models.RoleLawyer)(c)

	assert.False(t, c.IsAborted())
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestRequireRoleMissingRole(t *testing.T) {
	c, w := newRoleContext(t, "")
	RequireSuperAdmin()(c)

	assert.True(t, c.IsAborted())
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestRequireRoleDenialListsRequiredRoles(t *testing.T) {
	c, w := newRoleContext(t, "Client")
	RequireRole(models.RoleFirmAdmin, models.RoleSuperAdmin)(c)

	assert.Equal(t, http.StatusForbidden, w.Code)

	var resp models.ErrorResponse
	assert.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, ErrCodeForbidden, resp.Error.Code)
	assert.NotNil(t, resp.Error.Details)
	required := (*resp.Error.Details)["required_roles"].([]interface{})
	assert.Len(t, required, 2)
}
