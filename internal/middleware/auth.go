package middleware

import (
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"lawpractice-service/internal/models"
	"lawpractice-service/internal/repository"
)

// SessionClaims are the JWT claims carried in the session cookie
type SessionClaims struct {
	UserID string `json:"user_id"`
	Role   string `json:"role"`
	Email  string `json:"email"`
	jwt.RegisteredClaims
}

// AuthMiddleware resolves the authenticated principal from the session cookie
type AuthMiddleware struct {
	userRepo   repository.UserRepository
	jwtSecret  []byte
	cookieName string
	logger     *logrus.Entry
}

// NewAuthMiddleware creates a new auth middleware
func NewAuthMiddleware(userRepo repository.UserRepository, jwtSecret, cookieName string, logger *logrus.Logger) *AuthMiddleware {
	return &AuthMiddleware{
		userRepo:   userRepo,
		jwtSecret:  []byte(jwtSecret),
		cookieName: cookieName,
		logger:     logger.WithField("component", "auth_middleware"),
	}
}

// IssueSessionToken signs a session JWT for the user
func IssueSessionToken(user *models.User, jwtSecret string, lifetime time.Duration) (string, time.Time, error) {
	expiresAt := time.Now().Add(lifetime)
	claims := SessionClaims{
		UserID: user.ID.String(),
		Role:   string(user.Role),
		Email:  user.Email,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   user.ID.String(),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
			ExpiresAt: jwt.NewNumericDate(expiresAt),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte(jwtSecret))
	if err != nil {
		return "", time.Time{}, err
	}
	return signed, expiresAt, nil
}

// RequireAuth validates the session token and loads the principal. The role
// embedded in the token is only a hint; the canonical role is re-read from
// the users table on every request.
func (m *AuthMiddleware) RequireAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		tokenString := m.extractToken(c)
		if tokenString == "" {
			m.unauthorized(c, "Authentication required")
			return
		}

		claims := &SessionClaims{}
		token, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (interface{}, error) {
			if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
			}
			return m.jwtSecret, nil
		})
		if err != nil || !token.Valid {
			m.unauthorized(c, "Invalid or expired session")
			return
		}

		userID, err := uuid.Parse(claims.UserID)
		if err != nil {
			m.unauthorized(c, "Invalid session")
			return
		}

		user, err := m.userRepo.GetByID(c.Request.Context(), userID)
		if err != nil {
			m.unauthorized(c, "Invalid session")
			return
		}
		if !user.IsActive {
			m.unauthorized(c, "Account is deactivated")
			return
		}

		c.Set("user_id", user.ID.String())
		c.Set("user_role", string(user.Role))
		c.Set("user_email", user.Email)

		c.Next()
	}
}

// extractToken reads the session cookie, falling back to a bearer token for
// non-browser clients.
func (m *AuthMiddleware) extractToken(c *gin.Context) string {
	if cookie, err := c.Cookie(m.cookieName); err == nil && cookie != "" {
		return cookie
	}

	authHeader := c.GetHeader("Authorization")
	if strings.HasPrefix(authHeader, "Bearer ") {
		return strings.TrimPrefix(authHeader, "Bearer ")
	}

	return ""
}

func (m *AuthMiddleware) unauthorized(c *gin.Context, message string) {
	c.JSON(http.StatusUnauthorized, models.ErrorResponse{
		Success: false,
		Error: models.Error{
			Code:    ErrCodeUnauthorized,
			Message: message,
		},
	})
	c.Abort()
}

// GetUserUUID resolves the authenticated user's UUID from context
func GetUserUUID(c *gin.Context) uuid.UUID {
	userIDStr := c.GetString("user_id")
	if userIDStr == "" {
		return uuid.Nil
	}
	userID, err := uuid.Parse(userIDStr)
	if err != nil {
		return uuid.Nil
	}
	return userID
}
