package models

import (
	"time"

	"github.com/google/uuid"
)

// UserRole represents a user's role name. The four built-in roles are fixed
// strings; custom role names are free-form and resolved through the roles table.
type UserRole string

const (
	RoleSuperAdmin UserRole = "Super Admin"
	RoleFirmAdmin  UserRole = "Firm Admin"
	RoleLawyer     UserRole = "Lawyer"
	RoleClient     UserRole = "Client"
)

// User represents an authenticated principal
type User struct {
	ID           uuid.UUID  `json:"id" gorm:"type:uuid;primary_key;default:gen_random_uuid()"`
	Email        string     `json:"email" gorm:"uniqueIndex;not null"`
	PasswordHash string     `json:"-" gorm:"not null"`
	FirstName    string     `json:"firstName" gorm:"not null"`
	LastName     string     `json:"lastName" gorm:"not null"`
	Role         UserRole   `json:"role" gorm:"not null;index"`
	IsActive     bool       `json:"isActive" gorm:"default:true"`
	LastLoginAt  *time.Time `json:"lastLoginAt,omitempty"`
	CreatedAt    time.Time  `json:"createdAt"`
	UpdatedAt    time.Time  `json:"updatedAt"`
}

func (User) TableName() string {
	return "users"
}

// UserInfoDTO is a safe response DTO for user information
type UserInfoDTO struct {
	ID          uuid.UUID  `json:"id"`
	Email       string     `json:"email"`
	FirstName   string     `json:"firstName"`
	LastName    string     `json:"lastName"`
	Role        UserRole   `json:"role"`
	IsActive    bool       `json:"isActive"`
	LastLoginAt *time.Time `json:"lastLoginAt,omitempty"`
	CreatedAt   time.Time  `json:"createdAt"`
}

// ToDTO converts a User model to a safe UserInfoDTO
func (u *User) ToDTO() *UserInfoDTO {
	return &UserInfoDTO{
		ID:          u.ID,
		Email:       u.Email,
		FirstName:   u.FirstName,
		LastName:    u.LastName,
		Role:        u.Role,
		IsActive:    u.IsActive,
		LastLoginAt: u.LastLoginAt,
		CreatedAt:   u.CreatedAt,
	}
}

// LoginRequest represents a login request
type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

// LoginResponse represents a login response. The session token is also set as
// an HTTP-only cookie; it is echoed here for non-browser clients.
type LoginResponse struct {
	Success   bool         `json:"success"`
	Token     string       `json:"token"`
	ExpiresAt time.Time    `json:"expiresAt"`
	User      *UserInfoDTO `json:"user"`
}

// RegisterRequest represents a firm-admin self-registration request
type RegisterRequest struct {
	Email     string `json:"email" binding:"required,email"`
	Password  string `json:"password" binding:"required,min=8"`
	FirstName string `json:"firstName" binding:"required"`
	LastName  string `json:"lastName" binding:"required"`
}

// UserResponse represents a single user API response
type UserResponse struct {
	Success bool         `json:"success"`
	Data    *UserInfoDTO `json:"data,omitempty"`
	Message *string      `json:"message,omitempty"`
}
