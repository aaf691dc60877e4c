package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"lawpractice-service/internal/models"
)

// RequireRole allows the request through only when the principal's role is
// exactly one of the listed roles. Role names carry no hierarchy: "Super
// Admin" does not imply "Firm Admin".
func RequireRole(roles ...models.UserRole) gin.HandlerFunc {
	return func(c *gin.Context) {
		userRole := c.GetString("user_role")
		if userRole == "" {
			c.JSON(http.StatusUnauthorized, models.ErrorResponse{
				Success: false,
				Error: models.Error{
					Code:    ErrCodeUnauthorized,
					Message: "Authentication required",
				},
			})
			c.Abort()
			return
		}

		for _, role := range roles {
			if userRole == string(role) {
				c.Next()
				return
			}
		}

		details := make(models.JSON)
		required := make([]string, len(roles))
		for i, role := range roles {
			required[i] = string(role)
		}
		details["required_roles"] = required

		c.JSON(http.StatusForbidden, models.ErrorResponse{
			Success: false,
			Error: models.Error{
				Code:    ErrCodeForbidden,
				Message: "Insufficient role",
				Field:   "role",
				Details: &details,
			},
		})
		c.Abort()
	}
}

// RequireFirmAdmin requires the Firm Admin role
func RequireFirmAdmin() gin.HandlerFunc {
	return RequireRole(models.RoleFirmAdmin)
}

// RequireSuperAdmin requires the Super Admin role
func RequireSuperAdmin() gin.HandlerFunc {
	return RequireRole(models.RoleSuperAdmin)
}
