package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Lawyer represents a lawyer belonging to a firm. UserID links the row to the
// authenticated principal; it stays nil until the lawyer activates an account.
type Lawyer struct {
	ID         uuid.UUID       `json:"id" gorm:"type:uuid;primary_key;default:gen_random_uuid()"`
	FirmID     uuid.UUID       `json:"firmId" gorm:"type:uuid;not null;index;uniqueIndex:idx_lawyer_firm_email"`
	UserID     *uuid.UUID      `json:"userId,omitempty" gorm:"type:uuid;index"`
	FirstName  string          `json:"firstName" gorm:"not null"`
	LastName   string          `json:"lastName" gorm:"not null"`
	Email      string          `json:"email" gorm:"not null;uniqueIndex:idx_lawyer_firm_email"`
	Phone      *string         `json:"phone,omitempty"`
	BarNumber  *string         `json:"barNumber,omitempty"`
	Specialty  *string         `json:"specialty,omitempty"`
	HourlyRate *float64        `json:"hourlyRate,omitempty" gorm:"type:decimal(10,2)"`
	IsActive   bool            `json:"isActive" gorm:"default:true"`
	CreatedAt  time.Time       `json:"createdAt"`
	UpdatedAt  time.Time       `json:"updatedAt"`
	DeletedAt  *gorm.DeletedAt `json:"deletedAt,omitempty" gorm:"index"`

	// Relationships
	Firm  *Firm  `json:"firm,omitempty" gorm:"foreignKey:FirmID"`
	Cases []Case `json:"cases,omitempty" gorm:"many2many:case_lawyers;foreignKey:ID;joinForeignKey:LawyerID;References:ID;joinReferences:CaseID"`
}

func (Lawyer) TableName() string {
	return "lawyers"
}

// CreateLawyerRequest represents a request to create a lawyer
type CreateLawyerRequest struct {
	FirstName  string   `json:"firstName" binding:"required"`
	LastName   string   `json:"lastName" binding:"required"`
	Email      string   `json:"email" binding:"required"`
	Phone      *string  `json:"phone,omitempty"`
	BarNumber  *string  `json:"barNumber,omitempty"`
	Specialty  *string  `json:"specialty,omitempty"`
	HourlyRate *float64 `json:"hourlyRate,omitempty"`
}

// UpdateLawyerRequest represents a request to update a lawyer
type UpdateLawyerRequest struct {
	FirstName  *string  `json:"firstName,omitempty"`
	LastName   *string  `json:"lastName,omitempty"`
	Email      *string  `json:"email,omitempty"`
	Phone      *string  `json:"phone,omitempty"`
	BarNumber  *string  `json:"barNumber,omitempty"`
	Specialty  *string  `json:"specialty,omitempty"`
	HourlyRate *float64 `json:"hourlyRate,omitempty"`
	IsActive   *bool    `json:"isActive,omitempty"`
}

// LawyerResponse represents a lawyer API response
type LawyerResponse struct {
	Success bool    `json:"success"`
	Data    *Lawyer `json:"data,omitempty"`
	Message *string `json:"message,omitempty"`
}

// LawyerListResponse represents a list of lawyers API response
type LawyerListResponse struct {
	Success    bool            `json:"success"`
	Data       []Lawyer        `json:"data"`
	Pagination *PaginationInfo `json:"pagination,omitempty"`
}
