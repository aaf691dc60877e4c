package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"gorm.io/datatypes"

	"lawpractice-service/internal/cache"
	"lawpractice-service/internal/middleware"
	"lawpractice-service/internal/models"
	"lawpractice-service/internal/repository"
)

// RoleHandler handles custom role management, the permission catalog and the
// access audit log
type RoleHandler struct {
	rbacRepo  repository.RBACRepository
	roleCache *cache.RoleCache
	logger    *logrus.Entry
}

// NewRoleHandler creates a new RoleHandler
func NewRoleHandler(rbacRepo repository.RBACRepository, roleCache *cache.RoleCache, logger *logrus.Logger) *RoleHandler {
	return &RoleHandler{
		rbacRepo:  rbacRepo,
		roleCache: roleCache,
		logger:    logger.WithField("component", "role_handler"),
	}
}

// CreateRole creates a custom role for the scoped firm
// @Summary Create role
// @Tags roles
// @Accept json
// @Produce json
// @Param request body models.CreateRoleRequest true "Role data"
// @Success 201 {object} models.RoleResponse
// @Failure 409 {object} models.ErrorResponse
// @Router /api/v1/roles [post]
func (h *RoleHandler) CreateRole(c *gin.Context) {
	firmID := middleware.GetFirmUUID(c)

	var req models.CreateRoleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, err.Error())
		return
	}

	permissionIDs, ok := h.parsePermissionIDs(c, req.PermissionIDs)
	if !ok {
		return
	}

	role := &models.Role{
		FirmID:      &firmID,
		Name:        req.Name,
		Description: req.Description,
	}

	if err := h.rbacRepo.CreateRole(c.Request.Context(), role); err != nil {
		if repository.IsUniqueViolation(err) {
			respondConflict(c, "name", "A role with this name already exists in this firm")
			return
		}
		h.logger.WithError(err).Error("Failed to create role")
		respondInternal(c, "Failed to create role")
		return
	}

	if len(permissionIDs) > 0 {
		if err := h.rbacRepo.SetRolePermissions(c.Request.Context(), role.ID, permissionIDs); err != nil {
			h.logger.WithError(err).Error("Failed to set role permissions")
			respondInternal(c, "Failed to set role permissions")
			return
		}
	}

	created, err := h.rbacRepo.GetRoleByID(c.Request.Context(), firmID, role.ID)
	if err != nil {
		respondInternal(c, "Failed to load role")
		return
	}

	h.auditRoleChange(c, "role_created", firmID, role.ID, nil, created)
	h.invalidateFirmRoles(firmID)

	c.JSON(http.StatusCreated, models.RoleResponse{Success: true, Data: created})
}

// ListRoles lists the firm's custom roles and the built-in roles
// @Summary List roles
// @Tags roles
// @Produce json
// @Success 200 {object} models.RoleListResponse
// @Router /api/v1/roles [get]
func (h *RoleHandler) ListRoles(c *gin.Context) {
	firmID := middleware.GetFirmUUID(c)
	page, limit := getPagination(c)

	roles, total, err := h.rbacRepo.ListRoles(c.Request.Context(), firmID, page, limit)
	if err != nil {
		respondInternal(c, "Failed to list roles")
		return
	}

	c.JSON(http.StatusOK, models.RoleListResponse{
		Success:    true,
		Data:       roles,
		Pagination: repository.BuildPagination(page, limit, total),
	})
}

// GetRole returns a role with its permission set
// @Summary Get role
// @Tags roles
// @Produce json
// @Param id path string true "Role ID"
// @Success 200 {object} models.RoleResponse
// @Failure 404 {object} models.ErrorResponse
// @Router /api/v1/roles/{id} [get]
func (h *RoleHandler) GetRole(c *gin.Context) {
	firmID := middleware.GetFirmUUID(c)
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	role, err := h.rbacRepo.GetRoleByID(c.Request.Context(), firmID, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			respondNotFound(c, "Role")
			return
		}
		respondInternal(c, "Failed to get role")
		return
	}

	c.JSON(http.StatusOK, models.RoleResponse{Success: true, Data: role})
}

// UpdateRole updates a custom role's name or description. Built-in roles are
// immutable.
// @Summary Update role
// @Tags roles
// @Accept json
// @Produce json
// @Param id path string true "Role ID"
// @Param request body models.UpdateRoleRequest true "Fields to update"
// @Success 200 {object} models.RoleResponse
// @Failure 404 {object} models.ErrorResponse
// @Router /api/v1/roles/{id} [put]
func (h *RoleHandler) UpdateRole(c *gin.Context) {
	firmID := middleware.GetFirmUUID(c)
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	var req models.UpdateRoleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, err.Error())
		return
	}

	role, err := h.rbacRepo.GetRoleByID(c.Request.Context(), firmID, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			respondNotFound(c, "Role")
			return
		}
		respondInternal(c, "Failed to get role")
		return
	}

	if role.IsSystem {
		c.JSON(http.StatusForbidden, models.ErrorResponse{
			Success: false,
			Error:   models.Error{Code: "FORBIDDEN", Message: "Built-in roles cannot be modified"},
		})
		return
	}

	before := *role
	oldName := role.Name
	if req.Name != nil {
		role.Name = *req.Name
	}
	if req.Description != nil {
		role.Description = req.Description
	}

	if err := h.rbacRepo.UpdateRole(c.Request.Context(), role); err != nil {
		if repository.IsUniqueViolation(err) {
			respondConflict(c, "name", "A role with this name already exists in this firm")
			return
		}
		respondInternal(c, "Failed to update role")
		return
	}

	h.auditRoleChange(c, "role_updated", firmID, role.ID, &before, role)
	h.invalidateRoleName(firmID, oldName)
	h.invalidateRoleName(firmID, role.Name)

	c.JSON(http.StatusOK, models.RoleResponse{Success: true, Data: role})
}

// DeleteRole deletes a custom role. Built-in roles cannot be deleted.
// @Summary Delete role
// @Tags roles
// @Produce json
// @Param id path string true "Role ID"
// @Success 200 {object} models.MessageResponse
// @Failure 404 {object} models.ErrorResponse
// @Router /api/v1/roles/{id} [delete]
func (h *RoleHandler) DeleteRole(c *gin.Context) {
	firmID := middleware.GetFirmUUID(c)
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	role, err := h.rbacRepo.GetRoleByID(c.Request.Context(), firmID, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			respondNotFound(c, "Role")
			return
		}
		respondInternal(c, "Failed to get role")
		return
	}

	if err := h.rbacRepo.DeleteRole(c.Request.Context(), firmID, id); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			respondNotFound(c, "Role")
			return
		}
		respondInternal(c, "Failed to delete role")
		return
	}

	h.auditRoleChange(c, "role_deleted", firmID, id, role, nil)
	h.invalidateRoleName(firmID, role.Name)

	c.JSON(http.StatusOK, models.MessageResponse{Success: true, Message: "Role deleted"})
}

// SetRolePermissions replaces a custom role's permission set
// @Summary Set role permissions
// @Tags roles
// @Accept json
// @Produce json
// @Param id path string true "Role ID"
// @Param request body models.SetRolePermissionsRequest true "Permission IDs"
// @Success 200 {object} models.RoleResponse
// @Failure 404 {object} models.ErrorResponse
// @Router /api/v1/roles/{id}/permissions [put]
func (h *RoleHandler) SetRolePermissions(c *gin.Context) {
	firmID := middleware.GetFirmUUID(c)
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	var req models.SetRolePermissionsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, err.Error())
		return
	}

	permissionIDs, ok := h.parsePermissionIDs(c, req.PermissionIDs)
	if !ok {
		return
	}

	role, err := h.rbacRepo.GetRoleByID(c.Request.Context(), firmID, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			respondNotFound(c, "Role")
			return
		}
		respondInternal(c, "Failed to get role")
		return
	}

	if role.IsSystem {
		c.JSON(http.StatusForbidden, models.ErrorResponse{
			Success: false,
			Error:   models.Error{Code: "FORBIDDEN", Message: "Built-in roles cannot be modified"},
		})
		return
	}

	if err := h.rbacRepo.SetRolePermissions(c.Request.Context(), id, permissionIDs); err != nil {
		h.logger.WithError(err).Error("Failed to set role permissions")
		respondInternal(c, "Failed to set role permissions")
		return
	}

	updated, err := h.rbacRepo.GetRoleByID(c.Request.Context(), firmID, id)
	if err != nil {
		respondInternal(c, "Failed to load role")
		return
	}

	h.auditRoleChange(c, "role_permissions_changed", firmID, id, role, updated)
	h.invalidateRoleName(firmID, role.Name)

	c.JSON(http.StatusOK, models.RoleResponse{Success: true, Data: updated})
}

// ListPermissions returns the permission catalog
// @Summary List permissions
// @Tags roles
// @Produce json
// @Success 200 {object} models.PermissionListResponse
// @Router /api/v1/permissions [get]
func (h *RoleHandler) ListPermissions(c *gin.Context) {
	permissions, err := h.rbacRepo.ListPermissions(c.Request.Context())
	if err != nil {
		respondInternal(c, "Failed to list permissions")
		return
	}

	c.JSON(http.StatusOK, models.PermissionListResponse{Success: true, Data: permissions})
}

// ListAuditLogs returns the firm's access audit log, newest first
// @Summary List access audit log
// @Tags audit
// @Produce json
// @Success 200 {object} models.AuditListResponse
// @Router /api/v1/audit/access [get]
func (h *RoleHandler) ListAuditLogs(c *gin.Context) {
	firmID := middleware.GetFirmUUID(c)
	page, limit := getPagination(c)

	entries, total, err := h.rbacRepo.ListAuditLogs(c.Request.Context(), &firmID, page, limit)
	if err != nil {
		respondInternal(c, "Failed to list audit logs")
		return
	}

	c.JSON(http.StatusOK, models.AuditListResponse{
		Success:    true,
		Data:       entries,
		Pagination: repository.BuildPagination(page, limit, total),
	})
}

// parsePermissionIDs parses string IDs into UUIDs, responding 400 on a bad one
func (h *RoleHandler) parsePermissionIDs(c *gin.Context, raw []string) ([]uuid.UUID, bool) {
	ids := make([]uuid.UUID, 0, len(raw))
	for _, s := range raw {
		id, err := uuid.Parse(s)
		if err != nil {
			respondValidation(c, "permissionIds", "Invalid permission ID: "+s)
			return nil, false
		}
		ids = append(ids, id)
	}
	return ids, true
}

// auditRoleChange records a role mutation in the access audit log with
// before/after snapshots
func (h *RoleHandler) auditRoleChange(c *gin.Context, action string, firmID, roleID uuid.UUID, oldValue, newValue interface{}) {
	userID := middleware.GetUserUUID(c)
	userRole := c.GetString("user_role")

	entry := &models.AccessAuditLog{
		FirmID:    &firmID,
		UserID:    &userID,
		Action:    action,
		Resource:  strPtr(c.Request.URL.Path),
		EntityID:  &roleID,
		IPAddress: strPtr(c.ClientIP()),
		UserAgent: strPtr(c.GetHeader("User-Agent")),
		CreatedAt: time.Now(),
	}
	if userRole != "" {
		entry.UserRole = &userRole
	}
	if requestID := c.GetString("request_id"); requestID != "" {
		entry.RequestID = &requestID
	}
	if oldValue != nil {
		if data, err := json.Marshal(oldValue); err == nil {
			entry.OldValue = datatypes.JSON(data)
		}
	}
	if newValue != nil {
		if data, err := json.Marshal(newValue); err == nil {
			entry.NewValue = datatypes.JSON(data)
		}
	}

	// Log asynchronously to not block the response
	go func() {
		if err := h.rbacRepo.CreateAuditLog(context.Background(), entry); err != nil {
			h.logger.WithError(err).Warn("Failed to write audit log entry")
		}
	}()
}

// invalidateRoleName drops the cached lookup for one role name in the firm
func (h *RoleHandler) invalidateRoleName(firmID uuid.UUID, name string) {
	if h.roleCache == nil {
		return
	}
	go func() {
		if err := h.roleCache.Invalidate(context.Background(), &firmID, name); err != nil {
			h.logger.WithError(err).Warn("Failed to invalidate role cache")
		}
	}()
}

// invalidateFirmRoles drops every cached role lookup for the firm
func (h *RoleHandler) invalidateFirmRoles(firmID uuid.UUID) {
	if h.roleCache == nil {
		return
	}
	go func() {
		if err := h.roleCache.InvalidateFirm(context.Background(), firmID); err != nil {
			h.logger.WithError(err).Warn("Failed to invalidate role cache")
		}
	}()
}
