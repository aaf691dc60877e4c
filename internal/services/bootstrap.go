package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/sirupsen/logrus"
	"golang.org/x/crypto/bcrypt"

	"lawpractice-service/internal/models"
	"lawpractice-service/internal/repository"
)

// permissionSeed is one permission definition for bootstrap
type permissionSeed struct {
	name        string
	displayName string
	resource    string
	action      string
}

var permissionSeeds = []permissionSeed{
	{"lawyers:view", "View Lawyers", "lawyers", "view"},
	{"lawyers:create", "Create Lawyers", "lawyers", "create"},
	{"lawyers:edit", "Edit Lawyers", "lawyers", "edit"},
	{"lawyers:delete", "Delete Lawyers", "lawyers", "delete"},
	{"clients:view", "View Clients", "clients", "view"},
	{"clients:create", "Create Clients", "clients", "create"},
	{"clients:edit", "Edit Clients", "clients", "edit"},
	{"clients:delete", "Delete Clients", "clients", "delete"},
	{"cases:view", "View Cases", "cases", "view"},
	{"cases:create", "Create Cases", "cases", "create"},
	{"cases:edit", "Edit Cases", "cases", "edit"},
	{"cases:delete", "Delete Cases", "cases", "delete"},
	{"cases:assign", "Assign Case Team", "cases", "assign"},
	{"documents:view", "View Documents", "documents", "view"},
	{"documents:create", "Attach Documents", "documents", "create"},
	{"documents:delete", "Delete Documents", "documents", "delete"},
	{"audit:view", "View Audit Log", "audit", "view"},
}

// rolePermissionSeeds maps the built-in roles to their default grants.
// Super Admin needs no grants: the permission gate bypasses it.
var rolePermissionSeeds = map[string][]string{
	string(models.RoleSuperAdmin): {},
	string(models.RoleFirmAdmin): {
		"lawyers:view", "lawyers:create", "lawyers:edit", "lawyers:delete",
		"clients:view", "clients:create", "clients:edit", "clients:delete",
		"cases:view", "cases:create", "cases:edit", "cases:delete", "cases:assign",
		"documents:view", "documents:create", "documents:delete",
		"audit:view",
	},
	string(models.RoleLawyer): {
		"lawyers:view",
		"clients:view", "clients:create", "clients:edit",
		"cases:view", "cases:create", "cases:edit",
		"documents:view", "documents:create",
	},
	string(models.RoleClient): {
		"cases:view",
		"documents:view",
	},
}

// Bootstrapper seeds the fixed permission catalog, the built-in roles and the
// initial super admin account at startup. All operations are idempotent.
type Bootstrapper struct {
	rbacRepo repository.RBACRepository
	userRepo repository.UserRepository
	logger   *logrus.Entry
}

// NewBootstrapper creates a new Bootstrapper
func NewBootstrapper(rbacRepo repository.RBACRepository, userRepo repository.UserRepository, logger *logrus.Logger) *Bootstrapper {
	return &Bootstrapper{
		rbacRepo: rbacRepo,
		userRepo: userRepo,
		logger:   logger.WithField("component", "bootstrap"),
	}
}

// Run seeds permissions and built-in roles, then the super admin if
// credentials are configured.
func (b *Bootstrapper) Run(ctx context.Context, superAdminEmail, superAdminPassword string) error {
	for _, seed := range permissionSeeds {
		if _, err := b.rbacRepo.EnsurePermission(ctx, seed.name, seed.displayName, seed.resource, seed.action); err != nil {
			return fmt.Errorf("failed to seed permission %s: %w", seed.name, err)
		}
	}

	for roleName, permissions := range rolePermissionSeeds {
		if err := b.rbacRepo.EnsureSystemRole(ctx, roleName, permissions); err != nil {
			return fmt.Errorf("failed to seed role %s: %w", roleName, err)
		}
	}

	b.logger.Info("Permission catalog and built-in roles seeded")

	if superAdminEmail != "" && superAdminPassword != "" {
		if err := b.ensureSuperAdmin(ctx, superAdminEmail, superAdminPassword); err != nil {
			return err
		}
	}

	return nil
}

func (b *Bootstrapper) ensureSuperAdmin(ctx context.Context, email, password string) error {
	_, err := b.userRepo.GetByEmail(ctx, email)
	if err == nil {
		return nil // already exists
	}
	if !errors.Is(err, repository.ErrNotFound) {
		return err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("failed to hash super admin password: %w", err)
	}

	user := &models.User{
		Email:        email,
		PasswordHash: string(hash),
		FirstName:    "Super",
		LastName:     "Admin",
		Role:         models.RoleSuperAdmin,
		IsActive:     true,
	}
	if err := b.userRepo.Create(ctx, user); err != nil {
		return fmt.Errorf("failed to create super admin: %w", err)
	}

	b.logger.WithField("email", email).Info("Super admin account created")
	return nil
}
