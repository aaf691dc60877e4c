package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// FirmStatus represents the lifecycle status of a firm
type FirmStatus string

const (
	FirmStatusActive     FirmStatus = "active"
	FirmStatusSuspended  FirmStatus = "suspended"
	FirmStatusTerminated FirmStatus = "terminated"
)

// FirmPlan represents the subscription plan of a firm
type FirmPlan string

const (
	FirmPlanFree    FirmPlan = "Free"
	FirmPlanBasic   FirmPlan = "Basic"
	FirmPlanPremium FirmPlan = "Premium"
)

// Firm represents a law firm tenant
type Firm struct {
	ID        uuid.UUID       `json:"id" gorm:"type:uuid;primary_key;default:gen_random_uuid()"`
	Name      string          `json:"name" gorm:"not null"`
	Subdomain string          `json:"subdomain" gorm:"uniqueIndex;not null"`
	Status    FirmStatus      `json:"status" gorm:"default:'active';index"`
	Plan      FirmPlan        `json:"plan" gorm:"default:'Free'"`
	MaxUsers  int             `json:"maxUsers" gorm:"default:5"`
	MaxCases  int             `json:"maxCases" gorm:"default:50"`
	Address   *string         `json:"address,omitempty"`
	Phone     *string         `json:"phone,omitempty"`
	Email     *string         `json:"email,omitempty"`
	CreatedAt time.Time       `json:"createdAt"`
	UpdatedAt time.Time       `json:"updatedAt"`
	DeletedAt *gorm.DeletedAt `json:"deletedAt,omitempty" gorm:"index"`
}

func (Firm) TableName() string {
	return "firms"
}

// AdminFirm represents the binding between a firm admin user and a firm.
// A user may administer several firms; exactly one binding per user carries
// is_current and decides which firm their requests are scoped to.
type AdminFirm struct {
	ID        uuid.UUID `json:"id" gorm:"type:uuid;primary_key;default:gen_random_uuid()"`
	UserID    uuid.UUID `json:"userId" gorm:"type:uuid;not null;uniqueIndex:idx_admin_firm"`
	FirmID    uuid.UUID `json:"firmId" gorm:"type:uuid;not null;uniqueIndex:idx_admin_firm"`
	IsCurrent bool      `json:"isCurrent" gorm:"default:false;index"`
	CreatedAt time.Time `json:"createdAt"`

	// Relationships
	Firm *Firm `json:"firm,omitempty" gorm:"foreignKey:FirmID"`
	User *User `json:"user,omitempty" gorm:"foreignKey:UserID"`
}

func (AdminFirm) TableName() string {
	return "admin_firms"
}

// CreateFirmRequest represents a request to create a firm
type CreateFirmRequest struct {
	Name     string    `json:"name" binding:"required"`
	Plan     *FirmPlan `json:"plan,omitempty"`
	MaxUsers *int      `json:"maxUsers,omitempty"`
	MaxCases *int      `json:"maxCases,omitempty"`
	Address  *string   `json:"address,omitempty"`
	Phone    *string   `json:"phone,omitempty"`
	Email    *string   `json:"email,omitempty"`
}

// UpdateFirmRequest represents a request to update a firm
type UpdateFirmRequest struct {
	Name     *string     `json:"name,omitempty"`
	Status   *FirmStatus `json:"status,omitempty"`
	Plan     *FirmPlan   `json:"plan,omitempty"`
	MaxUsers *int        `json:"maxUsers,omitempty"`
	MaxCases *int        `json:"maxCases,omitempty"`
	Address  *string     `json:"address,omitempty"`
	Phone    *string     `json:"phone,omitempty"`
	Email    *string     `json:"email,omitempty"`
}

// FirmResponse represents a firm API response
type FirmResponse struct {
	Success bool    `json:"success"`
	Data    *Firm   `json:"data,omitempty"`
	Message *string `json:"message,omitempty"`
}

// FirmListResponse represents a list of firms API response
type FirmListResponse struct {
	Success    bool            `json:"success"`
	Data       []Firm          `json:"data"`
	Pagination *PaginationInfo `json:"pagination,omitempty"`
}
