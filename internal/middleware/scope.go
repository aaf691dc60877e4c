package middleware

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"lawpractice-service/internal/models"
	"lawpractice-service/internal/services"
)

// FirmScope resolves the firm a request operates on and stores it in the
// context as firm_id (string) and firm (*models.Firm). Runs after RequireAuth
// and before permission gates and handlers.
func FirmScope(resolver *services.ScopeResolver) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID := GetUserUUID(c)
		userRole := c.GetString("user_role")

		if userID == uuid.Nil || userRole == "" {
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

		explicitFirmID := c.GetHeader("X-Firm-ID")
		if explicitFirmID == "" {
			explicitFirmID = c.Query("firmId")
		}

		firm, err := resolver.Resolve(c.Request.Context(), userID, models.UserRole(userRole), explicitFirmID)
		if err != nil {
			var scopeErr *services.ScopeError
			if errors.As(err, &scopeErr) {
				c.JSON(scopeErr.StatusCode, models.ErrorResponse{
					Success: false,
					Error: models.Error{
						Code:    scopeErr.Code,
						Message: scopeErr.Message,
					},
				})
				c.Abort()
				return
			}

			c.JSON(http.StatusInternalServerError, models.ErrorResponse{
				Success: false,
				Error: models.Error{
					Code:    ErrCodeInternalServer,
					Message: "Failed to resolve firm scope",
				},
			})
			c.Abort()
			return
		}

		c.Set("firm_id", firm.ID.String())
		c.Set("firm", firm)

		c.Next()
	}
}

// GetFirmUUID resolves the scoped firm's UUID from context
func GetFirmUUID(c *gin.Context) uuid.UUID {
	firmIDStr := c.GetString("firm_id")
	if firmIDStr == "" {
		return uuid.Nil
	}
	firmID, err := uuid.Parse(firmIDStr)
	if err != nil {
		return uuid.Nil
	}
	return firmID
}
