package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// ============================================================================
// PERMISSIONS
// ============================================================================

// Permission represents a granular permission, named resource:action
type Permission struct {
	ID          uuid.UUID `json:"id" gorm:"type:uuid;primary_key;default:gen_random_uuid()"`
	Name        string    `json:"name" gorm:"uniqueIndex;not null"` // e.g. 'cases:create'
	DisplayName string    `json:"displayName" gorm:"not null"`
	Description *string   `json:"description,omitempty"`
	Resource    string    `json:"resource" gorm:"not null;index"` // e.g. 'cases'
	Action      string    `json:"action" gorm:"not null"`         // e.g. 'create'
	CreatedAt   time.Time `json:"createdAt"`
}

func (Permission) TableName() string {
	return "permissions"
}

// ============================================================================
// ROLES
// ============================================================================

// Role represents a named role with assigned permissions. Built-in roles have
// a nil FirmID and is_system set; custom roles belong to a single firm.
type Role struct {
	ID          uuid.UUID       `json:"id" gorm:"type:uuid;primary_key;default:gen_random_uuid()"`
	FirmID      *uuid.UUID      `json:"firmId,omitempty" gorm:"type:uuid;index;uniqueIndex:idx_firm_role_name"`
	Name        string          `json:"name" gorm:"not null;uniqueIndex:idx_firm_role_name"`
	Description *string         `json:"description,omitempty"`
	IsSystem    bool            `json:"isSystem" gorm:"default:false"`
	CreatedAt   time.Time       `json:"createdAt"`
	UpdatedAt   time.Time       `json:"updatedAt"`
	DeletedAt   *gorm.DeletedAt `json:"deletedAt,omitempty" gorm:"index"`

	// Relationships
	Permissions []Permission `json:"permissions,omitempty" gorm:"many2many:role_permissions;foreignKey:ID;joinForeignKey:RoleID;References:ID;joinReferences:PermissionID"`
}

func (Role) TableName() string {
	return "roles"
}

// HasAnyPermission reports whether the role grants at least one of the given
// permission names.
func (r *Role) HasAnyPermission(names ...string) bool {
	for _, p := range r.Permissions {
		for _, name := range names {
			if p.Name == name {
				return true
			}
		}
	}
	return false
}

// RolePermission represents the junction between roles and permissions
type RolePermission struct {
	ID           uuid.UUID `json:"id" gorm:"type:uuid;primary_key;default:gen_random_uuid()"`
	RoleID       uuid.UUID `json:"roleId" gorm:"type:uuid;not null;uniqueIndex:idx_role_permission"`
	PermissionID uuid.UUID `json:"permissionId" gorm:"type:uuid;not null;uniqueIndex:idx_role_permission"`
	GrantedAt    time.Time `json:"grantedAt" gorm:"default:now()"`
}

func (RolePermission) TableName() string {
	return "role_permissions"
}

// CreateRoleRequest represents a request to create a custom role
type CreateRoleRequest struct {
	Name          string   `json:"name" binding:"required"`
	Description   *string  `json:"description,omitempty"`
	PermissionIDs []string `json:"permissionIds,omitempty"`
}

// UpdateRoleRequest represents a request to update a role
type UpdateRoleRequest struct {
	Name        *string `json:"name,omitempty"`
	Description *string `json:"description,omitempty"`
}

// SetRolePermissionsRequest replaces a role's permission set
type SetRolePermissionsRequest struct {
	PermissionIDs []string `json:"permissionIds" binding:"required"`
}

// RoleResponse represents a role API response
type RoleResponse struct {
	Success bool    `json:"success"`
	Data    *Role   `json:"data,omitempty"`
	Message *string `json:"message,omitempty"`
}

// RoleListResponse represents a list of roles API response
type RoleListResponse struct {
	Success    bool            `json:"success"`
	Data       []Role          `json:"data"`
	Pagination *PaginationInfo `json:"pagination,omitempty"`
}

// PermissionListResponse represents a list of permissions API response
type PermissionListResponse struct {
	Success bool         `json:"success"`
	Data    []Permission `json:"data"`
}

// ============================================================================
// ACCESS AUDIT LOG
// ============================================================================

// AccessAuditLog represents an audit record for authorization decisions and
// RBAC-relevant mutations
type AccessAuditLog struct {
	ID        uuid.UUID      `json:"id" gorm:"type:uuid;primary_key;default:gen_random_uuid()"`
	FirmID    *uuid.UUID     `json:"firmId,omitempty" gorm:"type:uuid;index"`
	UserID    *uuid.UUID     `json:"userId,omitempty" gorm:"type:uuid;index"`
	UserRole  *string        `json:"userRole,omitempty"`
	Action    string         `json:"action" gorm:"not null;index"` // 'permission_denied', 'login_success', ...
	Resource  *string        `json:"resource,omitempty"`
	EntityID  *uuid.UUID     `json:"entityId,omitempty" gorm:"type:uuid"`
	OldValue  datatypes.JSON `json:"oldValue,omitempty" gorm:"type:jsonb"`
	NewValue  datatypes.JSON `json:"newValue,omitempty" gorm:"type:jsonb"`
	IPAddress *string        `json:"ipAddress,omitempty"`
	UserAgent *string        `json:"userAgent,omitempty"`
	RequestID *string        `json:"requestId,omitempty"`
	CreatedAt time.Time      `json:"createdAt"`
}

func (AccessAuditLog) TableName() string {
	return "access_audit_log"
}

// AuditListResponse represents a list of audit log entries API response
type AuditListResponse struct {
	Success    bool             `json:"success"`
	Data       []AccessAuditLog `json:"data"`
	Pagination *PaginationInfo  `json:"pagination,omitempty"`
}
