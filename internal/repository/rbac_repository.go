package repository

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"lawpractice-service/internal/models"
)

// RBACRepository handles database operations for roles, permissions and the
// access audit log
type RBACRepository interface {
	GetRoleByName(ctx context.Context, firmID *uuid.UUID, name string) (*models.Role, error)
	GetRoleByID(ctx context.Context, firmID uuid.UUID, id uuid.UUID) (*models.Role, error)
	ListRoles(ctx context.Context, firmID uuid.UUID, page, limit int) ([]models.Role, int64, error)
	CreateRole(ctx context.Context, role *models.Role) error
	UpdateRole(ctx context.Context, role *models.Role) error
	DeleteRole(ctx context.Context, firmID uuid.UUID, id uuid.UUID) error
	SetRolePermissions(ctx context.Context, roleID uuid.UUID, permissionIDs []uuid.UUID) error

	ListPermissions(ctx context.Context) ([]models.Permission, error)
	EnsurePermission(ctx context.Context, name, displayName, resource, action string) (*models.Permission, error)
	EnsureSystemRole(ctx context.Context, name string, permissionNames []string) error

	CreateAuditLog(ctx context.Context, entry *models.AccessAuditLog) error
	ListAuditLogs(ctx context.Context, firmID *uuid.UUID, page, limit int) ([]models.AccessAuditLog, int64, error)
}

type rbacRepository struct {
	db *gorm.DB
}

// NewRBACRepository creates a new RBACRepository
func NewRBACRepository(db *gorm.DB) RBACRepository {
	return &rbacRepository{db: db}
}

// GetRoleByName resolves a role by name with its permission set loaded.
// Firm-specific roles shadow built-in system roles of the same name.
func (r *rbacRepository) GetRoleByName(ctx context.Context, firmID *uuid.UUID, name string) (*models.Role, error) {
	var role models.Role
	query := r.db.WithContext(ctx).Preload("Permissions")
	if firmID != nil {
		query = query.
			Where("(firm_id = ? OR firm_id IS NULL) AND name = ?", *firmID, name).
			Order("firm_id NULLS LAST") // prefer the firm-specific role
	} else {
		query = query.Where("firm_id IS NULL AND name = ?", name)
	}
	err := query.First(&role).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &role, nil
}

func (r *rbacRepository) GetRoleByID(ctx context.Context, firmID uuid.UUID, id uuid.UUID) (*models.Role, error) {
	var role models.Role
	err := r.db.WithContext(ctx).
		Preload("Permissions").
		Where("id = ? AND (firm_id = ? OR firm_id IS NULL)", id, firmID).
		First(&role).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &role, nil
}

// ListRoles returns the firm's custom roles plus the built-in system roles
func (r *rbacRepository) ListRoles(ctx context.Context, firmID uuid.UUID, page, limit int) ([]models.Role, int64, error) {
	var roles []models.Role
	var total int64

	query := r.db.WithContext(ctx).Model(&models.Role{}).
		Where("firm_id = ? OR firm_id IS NULL", firmID)

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	err := query.
		Preload("Permissions").
		Order("is_system DESC, name ASC").
		Limit(limit).
		Offset((page - 1) * limit).
		Find(&roles).Error

	return roles, total, err
}

func (r *rbacRepository) CreateRole(ctx context.Context, role *models.Role) error {
	return r.db.WithContext(ctx).Create(role).Error
}

func (r *rbacRepository) UpdateRole(ctx context.Context, role *models.Role) error {
	return r.db.WithContext(ctx).Omit("Permissions").Save(role).Error
}

// DeleteRole removes a firm's custom role. System roles cannot be deleted.
func (r *rbacRepository) DeleteRole(ctx context.Context, firmID uuid.UUID, id uuid.UUID) error {
	result := r.db.WithContext(ctx).
		Where("id = ? AND firm_id = ? AND is_system = false", id, firmID).
		Delete(&models.Role{})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// SetRolePermissions replaces the role's permission set atomically
func (r *rbacRepository) SetRolePermissions(ctx context.Context, roleID uuid.UUID, permissionIDs []uuid.UUID) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("role_id = ?", roleID).Delete(&models.RolePermission{}).Error; err != nil {
			return err
		}
		for _, pid := range permissionIDs {
			rp := models.RolePermission{RoleID: roleID, PermissionID: pid}
			if err := tx.Create(&rp).Error; err != nil {
				return err
			}
		}
		return nil
	})
}

func (r *rbacRepository) ListPermissions(ctx context.Context) ([]models.Permission, error) {
	var permissions []models.Permission
	err := r.db.WithContext(ctx).
		Order("resource ASC, action ASC").
		Find(&permissions).Error
	return permissions, err
}

// EnsurePermission creates the permission if it does not exist yet
func (r *rbacRepository) EnsurePermission(ctx context.Context, name, displayName, resource, action string) (*models.Permission, error) {
	permission := models.Permission{
		Name:        name,
		DisplayName: displayName,
		Resource:    resource,
		Action:      action,
	}
	err := r.db.WithContext(ctx).
		Where("name = ?", name).
		FirstOrCreate(&permission).Error
	if err != nil {
		return nil, err
	}
	return &permission, nil
}

// EnsureSystemRole creates the built-in role if missing and grants it the
// named permissions. Existing grants are left untouched.
func (r *rbacRepository) EnsureSystemRole(ctx context.Context, name string, permissionNames []string) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		role := models.Role{Name: name, IsSystem: true}
		if err := tx.Where("name = ? AND firm_id IS NULL", name).FirstOrCreate(&role).Error; err != nil {
			return err
		}

		for _, permName := range permissionNames {
			var permission models.Permission
			if err := tx.Where("name = ?", permName).First(&permission).Error; err != nil {
				return err
			}
			rp := models.RolePermission{RoleID: role.ID, PermissionID: permission.ID}
			if err := tx.Where("role_id = ? AND permission_id = ?", role.ID, permission.ID).
				FirstOrCreate(&rp).Error; err != nil {
				return err
			}
		}
		return nil
	})
}

func (r *rbacRepository) CreateAuditLog(ctx context.Context, entry *models.AccessAuditLog) error {
	return r.db.WithContext(ctx).Create(entry).Error
}

func (r *rbacRepository) ListAuditLogs(ctx context.Context, firmID *uuid.UUID, page, limit int) ([]models.AccessAuditLog, int64, error) {
	var entries []models.AccessAuditLog
	var total int64

	query := r.db.WithContext(ctx).Model(&models.AccessAuditLog{})
	if firmID != nil {
		query = query.Where("firm_id = ?", *firmID)
	}

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	err := query.
		Order("created_at DESC").
		Limit(limit).
		Offset((page - 1) * limit).
		Find(&entries).Error

	return entries, total, err
}
