package handlers

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"golang.org/x/crypto/bcrypt"

	"lawpractice-service/internal/config"
	"lawpractice-service/internal/middleware"
	"lawpractice-service/internal/models"
	"lawpractice-service/internal/repository"
	"lawpractice-service/internal/validation"
)

// AuthHandler handles login, logout and session introspection
type AuthHandler struct {
	userRepo repository.UserRepository
	rbacRepo repository.RBACRepository
	cfg      *config.Config
	logger   *logrus.Entry
}

// NewAuthHandler creates a new AuthHandler
func NewAuthHandler(userRepo repository.UserRepository, rbacRepo repository.RBACRepository, cfg *config.Config, logger *logrus.Logger) *AuthHandler {
	return &AuthHandler{
		userRepo: userRepo,
		rbacRepo: rbacRepo,
		cfg:      cfg,
		logger:   logger.WithField("component", "auth_handler"),
	}
}

// Login authenticates a user and sets the session cookie
// @Summary Login
// @Description Authenticate with email and password; sets the session cookie
// @Tags auth
// @Accept json
// @Produce json
// @Param request body models.LoginRequest true "Credentials"
// @Success 200 {object} models.LoginResponse
// @Failure 401 {object} models.ErrorResponse
// @Router /api/v1/auth/login [post]
func (h *AuthHandler) Login(c *gin.Context) {
	var req models.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, err.Error())
		return
	}

	user, err := h.userRepo.GetByEmail(c.Request.Context(), req.Email)
	if err != nil {
		h.auditLogin(c, nil, req.Email, false, "unknown email")
		h.invalidCredentials(c)
		return
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.Password)); err != nil {
		h.auditLogin(c, user, req.Email, false, "wrong password")
		h.invalidCredentials(c)
		return
	}

	if !user.IsActive {
		h.auditLogin(c, user, req.Email, false, "account deactivated")
		c.JSON(http.StatusUnauthorized, models.ErrorResponse{
			Success: false,
			Error:   models.Error{Code: "UNAUTHORIZED", Message: "Account is deactivated"},
		})
		return
	}

	lifetime := time.Duration(h.cfg.SessionDays) * 24 * time.Hour
	token, expiresAt, err := middleware.IssueSessionToken(user, h.cfg.JWTSecret, lifetime)
	if err != nil {
		h.logger.WithError(err).Error("Failed to sign session token")
		respondInternal(c, "Failed to create session")
		return
	}

	h.setSessionCookie(c, token, int(lifetime.Seconds()))

	_ = h.userRepo.TouchLastLogin(c.Request.Context(), user.ID)
	h.auditLogin(c, user, req.Email, true, "")

	c.JSON(http.StatusOK, models.LoginResponse{
		Success:   true,
		Token:     token,
		ExpiresAt: expiresAt,
		User:      user.ToDTO(),
	})
}

// Logout clears the session cookie
// @Summary Logout
// @Tags auth
// @Produce json
// @Success 200 {object} models.MessageResponse
// @Router /api/v1/auth/logout [post]
func (h *AuthHandler) Logout(c *gin.Context) {
	h.setSessionCookie(c, "", -1)
	c.JSON(http.StatusOK, models.MessageResponse{
		Success: true,
		Message: "Logged out",
	})
}

// Me returns the authenticated principal
// @Summary Current user
// @Tags auth
// @Produce json
// @Success 200 {object} models.UserResponse
// @Failure 401 {object} models.ErrorResponse
// @Router /api/v1/auth/me [get]
func (h *AuthHandler) Me(c *gin.Context) {
	userID := middleware.GetUserUUID(c)
	user, err := h.userRepo.GetByID(c.Request.Context(), userID)
	if err != nil {
		respondNotFound(c, "User")
		return
	}

	c.JSON(http.StatusOK, models.UserResponse{
		Success: true,
		Data:    user.ToDTO(),
	})
}

// Register creates a new firm admin account. Firms are created separately
// after login.
// @Summary Register
// @Tags auth
// @Accept json
// @Produce json
// @Param request body models.RegisterRequest true "Registration data"
// @Success 201 {object} models.UserResponse
// @Failure 409 {object} models.ErrorResponse
// @Router /api/v1/auth/register [post]
func (h *AuthHandler) Register(c *gin.Context) {
	var req models.RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, err.Error())
		return
	}

	if err := validation.ValidateEmail(req.Email); err != nil {
		respondValidation(c, "email", "Invalid email format")
		return
	}

	if _, err := h.userRepo.GetByEmail(c.Request.Context(), req.Email); err == nil {
		respondConflict(c, "email", "An account with this email already exists")
		return
	} else if !errors.Is(err, repository.ErrNotFound) {
		respondInternal(c, "Failed to create account")
		return
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		respondInternal(c, "Failed to create account")
		return
	}

	user := &models.User{
		Email:        req.Email,
		PasswordHash: string(hash),
		FirstName:    req.FirstName,
		LastName:     req.LastName,
		Role:         models.RoleFirmAdmin,
		IsActive:     true,
	}

	if err := h.userRepo.Create(c.Request.Context(), user); err != nil {
		if repository.IsUniqueViolation(err) {
			respondConflict(c, "email", "An account with this email already exists")
			return
		}
		h.logger.WithError(err).Error("Failed to create user")
		respondInternal(c, "Failed to create account")
		return
	}

	c.JSON(http.StatusCreated, models.UserResponse{
		Success: true,
		Data:    user.ToDTO(),
	})
}

// setSessionCookie writes (or clears, with maxAge < 0) the session cookie
func (h *AuthHandler) setSessionCookie(c *gin.Context, token string, maxAge int) {
	secure := h.cfg.Environment == "production"
	if secure {
		c.SetSameSite(http.SameSiteNoneMode)
	} else {
		c.SetSameSite(http.SameSiteLaxMode)
	}
	c.SetCookie(h.cfg.CookieName, token, maxAge, "/", h.cfg.CookieDomain, secure, true)
}

// auditLogin records the attempt asynchronously
func (h *AuthHandler) auditLogin(c *gin.Context, user *models.User, email string, success bool, reason string) {
	action := "login_success"
	if !success {
		action = "login_failure"
	}

	entry := &models.AccessAuditLog{
		Action:    action,
		Resource:  strPtr("auth:" + email),
		IPAddress: strPtr(c.ClientIP()),
		UserAgent: strPtr(c.GetHeader("User-Agent")),
		CreatedAt: time.Now(),
	}
	if user != nil {
		entry.UserID = &user.ID
		role := string(user.Role)
		entry.UserRole = &role
	}
	if requestID := c.GetString("request_id"); requestID != "" {
		entry.RequestID = &requestID
	}

	go func() {
		_ = h.rbacRepo.CreateAuditLog(context.Background(), entry)
	}()

	if !success {
		h.logger.WithFields(logrus.Fields{
			"email":  email,
			"reason": reason,
			"ip":     c.ClientIP(),
		}).Warn("Login failed")
	}
}

func (h *AuthHandler) invalidCredentials(c *gin.Context) {
	c.JSON(http.StatusUnauthorized, models.ErrorResponse{
		Success: false,
		Error:   models.Error{Code: "UNAUTHORIZED", Message: "Invalid email or password"},
	})
}
