package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Client represents a client of a firm. Like Lawyer, UserID links to the
// authenticated principal when the client has portal access.
type Client struct {
	ID        uuid.UUID       `json:"id" gorm:"type:uuid;primary_key;default:gen_random_uuid()"`
	FirmID    uuid.UUID       `json:"firmId" gorm:"type:uuid;not null;index;uniqueIndex:idx_client_firm_email"`
	UserID    *uuid.UUID      `json:"userId,omitempty" gorm:"type:uuid;index"`
	FirstName string          `json:"firstName" gorm:"not null"`
	LastName  string          `json:"lastName" gorm:"not null"`
	Email     string          `json:"email" gorm:"not null;uniqueIndex:idx_client_firm_email"`
	Phone     *string         `json:"phone,omitempty"`
	Company   *string         `json:"company,omitempty"`
	Address   *string         `json:"address,omitempty"`
	Notes     *string         `json:"notes,omitempty"`
	IsActive  bool            `json:"isActive" gorm:"default:true"`
	CreatedAt time.Time       `json:"createdAt"`
	UpdatedAt time.Time       `json:"updatedAt"`
	DeletedAt *gorm.DeletedAt `json:"deletedAt,omitempty" gorm:"index"`

	// Relationships
	Firm  *Firm  `json:"firm,omitempty" gorm:"foreignKey:FirmID"`
	Cases []Case `json:"cases,omitempty" gorm:"foreignKey:ClientID"`
}

func (Client) TableName() string {
	return "clients"
}

// CreateClientRequest represents a request to create a client
type CreateClientRequest struct {
	FirstName string  `json:"firstName" binding:"required"`
	LastName  string  `json:"lastName" binding:"required"`
	Email     string  `json:"email" binding:"required"`
	Phone     *string `json:"phone,omitempty"`
	Company   *string `json:"company,omitempty"`
	Address   *string `json:"address,omitempty"`
	Notes     *string `json:"notes,omitempty"`
}

// UpdateClientRequest represents a request to update a client
type UpdateClientRequest struct {
	FirstName *string `json:"firstName,omitempty"`
	LastName  *string `json:"lastName,omitempty"`
	Email     *string `json:"email,omitempty"`
	Phone     *string `json:"phone,omitempty"`
	Company   *string `json:"company,omitempty"`
	Address   *string `json:"address,omitempty"`
	Notes     *string `json:"notes,omitempty"`
	IsActive  *bool   `json:"isActive,omitempty"`
}

// ClientResponse represents a client API response
type ClientResponse struct {
	Success bool    `json:"success"`
	Data    *Client `json:"data,omitempty"`
	Message *string `json:"message,omitempty"`
}

// ClientListResponse represents a list of clients API response
type ClientListResponse struct {
	Success    bool            `json:"success"`
	Data       []Client        `json:"data"`
	Pagination *PaginationInfo `json:"pagination,omitempty"`
}
