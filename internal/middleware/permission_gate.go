package middleware

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"lawpractice-service/internal/cache"
	"lawpractice-service/internal/models"
	"lawpractice-service/internal/repository"
)

// PermissionGate provides permission-based authorization. The principal's
// role name is resolved to a Role row with its permission set; access is
// granted when the set intersects the required permissions.
type PermissionGate struct {
	rbacRepo  repository.RBACRepository
	roleCache *cache.RoleCache
	logger    *logrus.Entry
}

// NewPermissionGate creates a new permission gate
func NewPermissionGate(rbacRepo repository.RBACRepository, roleCache *cache.RoleCache) *PermissionGate {
	return &PermissionGate{
		rbacRepo:  rbacRepo,
		roleCache: roleCache,
		logger:    logrus.WithField("component", "permission_gate"),
	}
}

// RequirePermission middleware that requires a specific permission
func (g *PermissionGate) RequirePermission(permission string) gin.HandlerFunc {
	return g.RequireAnyPermission(permission)
}

// RequireAnyPermission middleware that grants access when the principal's
// role holds at least one of the listed permissions. Super Admin bypasses
// the check entirely.
func (g *PermissionGate) RequireAnyPermission(permissions ...string) gin.HandlerFunc {
	return func(c *gin.Context) {
		userRole := c.GetString("user_role")
		userID := GetUserUUID(c)

		if userID == uuid.Nil || userRole == "" {
			g.forbidden(c, "User context not found", permissions)
			return
		}

		// Super Admin bypasses permission checks
		if userRole == string(models.RoleSuperAdmin) {
			c.Next()
			return
		}

		role := g.resolveRole(c, userRole)
		if role == nil {
			g.logPermissionDenied(c, strings.Join(permissions, ","), "role not found")
			c.JSON(http.StatusForbidden, models.ErrorResponse{
				Success: false,
				Error: models.Error{
					Code:    ErrCodeRoleNotFound,
					Message: "No role definition found for your role",
					Field:   "role",
				},
			})
			c.Abort()
			return
		}

		for _, permission := range permissions {
			if g.hasPermission(role, permission) {
				c.Next()
				return
			}
		}

		g.logPermissionDenied(c, strings.Join(permissions, ","), "insufficient permissions")
		g.forbidden(c, "Insufficient permissions", permissions)
	}
}

// resolveRole loads the role (with permissions) for the principal, cache
// first. Firm-scoped custom roles shadow the built-in roles.
func (g *PermissionGate) resolveRole(c *gin.Context, roleName string) *models.Role {
	ctx := c.Request.Context()
	firmID := getFirmIDPtr(c)

	if g.roleCache != nil {
		cached, err := g.roleCache.Get(ctx, firmID, roleName)
		if err == nil && cached != nil {
			return cached
		}
	}

	role, err := g.rbacRepo.GetRoleByName(ctx, firmID, roleName)
	if err != nil {
		return nil
	}

	if g.roleCache != nil && role != nil {
		// Cache asynchronously to not block the request
		go func() {
			_ = g.roleCache.Set(context.Background(), firmID, roleName, role)
		}()
	}

	return role
}

func (g *PermissionGate) hasPermission(role *models.Role, permission string) bool {
	for _, p := range role.Permissions {
		if p.Name == permission {
			return true
		}
		// Wildcard permissions: "cases:*" matches "cases:view"
		if strings.HasSuffix(p.Name, ":*") {
			prefix := strings.TrimSuffix(p.Name, ":*")
			if strings.HasPrefix(permission, prefix+":") {
				return true
			}
		}
	}
	return false
}

func (g *PermissionGate) forbidden(c *gin.Context, message string, requiredAny []string) {
	response := models.ErrorResponse{
		Success: false,
		Error: models.Error{
			Code:    ErrCodeForbidden,
			Message: message,
		},
	}

	if len(requiredAny) > 0 {
		response.Error.Field = "permissions"
		details := make(models.JSON)
		details["required_any"] = requiredAny
		response.Error.Details = &details
	}

	c.JSON(http.StatusForbidden, response)
	c.Abort()
}

func (g *PermissionGate) logPermissionDenied(c *gin.Context, permission, reason string) {
	userID := GetUserUUID(c)
	userRole := c.GetString("user_role")
	requestID := c.GetString("request_id")

	entry := &models.AccessAuditLog{
		FirmID:    getFirmIDPtr(c),
		UserID:    &userID,
		UserRole:  stringPtr(userRole),
		Action:    "permission_denied",
		Resource:  stringPtr(c.Request.URL.Path),
		IPAddress: stringPtr(c.ClientIP()),
		UserAgent: stringPtr(c.GetHeader("User-Agent")),
		RequestID: stringPtr(requestID),
		NewValue:  nil,
		CreatedAt: time.Now(),
	}

	// Log asynchronously to not block the response
	go func() {
		_ = g.rbacRepo.CreateAuditLog(context.Background(), entry)
	}()

	g.logger.WithFields(logrus.Fields{
		"user_id":    userID,
		"role":       userRole,
		"permission": permission,
		"reason":     reason,
		"path":       c.Request.URL.Path,
	}).Warn("Permission denied")
}

// getFirmIDPtr reads the resolved firm scope from context, nil when absent
func getFirmIDPtr(c *gin.Context) *uuid.UUID {
	firmIDStr := c.GetString("firm_id")
	if firmIDStr == "" {
		return nil
	}
	firmID, err := uuid.Parse(firmIDStr)
	if err != nil {
		return nil
	}
	return &firmID
}

func stringPtr(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
