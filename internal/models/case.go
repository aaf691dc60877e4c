package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// CaseStatus represents the lifecycle status of a case
type CaseStatus string

const (
	CaseStatusOpen   CaseStatus = "Open"
	CaseStatusOnHold CaseStatus = "On Hold"
	CaseStatusAppeal CaseStatus = "Appeal"
	CaseStatusClosed CaseStatus = "Closed"
)

// ValidCaseStatuses lists every accepted case status value
var ValidCaseStatuses = []CaseStatus{
	CaseStatusOpen,
	CaseStatusOnHold,
	CaseStatusAppeal,
	CaseStatusClosed,
}

// IsValid reports whether the status is one of the accepted values
func (s CaseStatus) IsValid() bool {
	for _, v := range ValidCaseStatuses {
		if s == v {
			return true
		}
	}
	return false
}

// Case represents a legal case belonging to a firm
type Case struct {
	ID           uuid.UUID       `json:"id" gorm:"type:uuid;primary_key;default:gen_random_uuid()"`
	FirmID       uuid.UUID       `json:"firmId" gorm:"type:uuid;not null;index;uniqueIndex:idx_case_firm_number"`
	ClientID     uuid.UUID       `json:"clientId" gorm:"type:uuid;not null;index"`
	CaseNumber   string          `json:"caseNumber" gorm:"not null;uniqueIndex:idx_case_firm_number"`
	Title        string          `json:"title" gorm:"not null"`
	Description  *string         `json:"description,omitempty"`
	Status       CaseStatus      `json:"status" gorm:"default:'Open';index"`
	PracticeArea *string         `json:"practiceArea,omitempty"`
	CourtName    *string         `json:"courtName,omitempty"`
	OpenedAt     time.Time       `json:"openedAt"`
	ClosedAt     *time.Time      `json:"closedAt,omitempty"`
	CreatedAt    time.Time       `json:"createdAt"`
	UpdatedAt    time.Time       `json:"updatedAt"`
	DeletedAt    *gorm.DeletedAt `json:"deletedAt,omitempty" gorm:"index"`

	// Relationships
	Firm      *Firm          `json:"firm,omitempty" gorm:"foreignKey:FirmID"`
	Client    *Client        `json:"client,omitempty" gorm:"foreignKey:ClientID"`
	Lawyers   []Lawyer       `json:"lawyers,omitempty" gorm:"many2many:case_lawyers;foreignKey:ID;joinForeignKey:CaseID;References:ID;joinReferences:LawyerID"`
	Documents []CaseDocument `json:"documents,omitempty" gorm:"foreignKey:CaseID"`
}

func (Case) TableName() string {
	return "cases"
}

// CaseLawyer represents the junction between cases and assigned lawyers
type CaseLawyer struct {
	ID         uuid.UUID `json:"id" gorm:"type:uuid;primary_key;default:gen_random_uuid()"`
	CaseID     uuid.UUID `json:"caseId" gorm:"type:uuid;not null;uniqueIndex:idx_case_lawyer"`
	LawyerID   uuid.UUID `json:"lawyerId" gorm:"type:uuid;not null;uniqueIndex:idx_case_lawyer"`
	AssignedAt time.Time `json:"assignedAt" gorm:"default:now()"`
}

func (CaseLawyer) TableName() string {
	return "case_lawyers"
}

// CaseDocument represents document metadata attached to a case. Only metadata
// is stored; blob storage is out of scope.
type CaseDocument struct {
	ID          uuid.UUID  `json:"id" gorm:"type:uuid;primary_key;default:gen_random_uuid()"`
	FirmID      uuid.UUID  `json:"firmId" gorm:"type:uuid;not null;index"`
	CaseID      uuid.UUID  `json:"caseId" gorm:"type:uuid;not null;index"`
	Name        string     `json:"name" gorm:"not null"`
	ContentType *string    `json:"contentType,omitempty"`
	SizeBytes   *int64     `json:"sizeBytes,omitempty"`
	StorageKey  *string    `json:"storageKey,omitempty"`
	UploadedBy  *uuid.UUID `json:"uploadedBy,omitempty" gorm:"type:uuid"`
	CreatedAt   time.Time  `json:"createdAt"`
}

func (CaseDocument) TableName() string {
	return "case_documents"
}

// CreateCaseRequest represents a request to create a case
type CreateCaseRequest struct {
	ClientID     uuid.UUID `json:"clientId" binding:"required"`
	CaseNumber   string    `json:"caseNumber" binding:"required"`
	Title        string    `json:"title" binding:"required"`
	Description  *string   `json:"description,omitempty"`
	PracticeArea *string   `json:"practiceArea,omitempty"`
	CourtName    *string   `json:"courtName,omitempty"`
}

// UpdateCaseRequest represents a request to update a case's attributes.
// Status changes go through the dedicated status endpoint.
type UpdateCaseRequest struct {
	Title        *string    `json:"title,omitempty"`
	Description  *string    `json:"description,omitempty"`
	PracticeArea *string    `json:"practiceArea,omitempty"`
	CourtName    *string    `json:"courtName,omitempty"`
	ClientID     *uuid.UUID `json:"clientId,omitempty"`
}

// UpdateCaseStatusRequest represents a case status transition request
type UpdateCaseStatusRequest struct {
	Status CaseStatus `json:"status" binding:"required"`
}

// CreateCaseDocumentRequest represents a request to attach document metadata
type CreateCaseDocumentRequest struct {
	Name        string  `json:"name" binding:"required"`
	ContentType *string `json:"contentType,omitempty"`
	SizeBytes   *int64  `json:"sizeBytes,omitempty"`
	StorageKey  *string `json:"storageKey,omitempty"`
}

// CaseResponse represents a case API response
type CaseResponse struct {
	Success bool    `json:"success"`
	Data    *Case   `json:"data,omitempty"`
	Message *string `json:"message,omitempty"`
}

// CaseListResponse represents a list of cases API response
type CaseListResponse struct {
	Success    bool            `json:"success"`
	Data       []Case          `json:"data"`
	Pagination *PaginationInfo `json:"pagination,omitempty"`
}

// CaseDocumentResponse represents a case document API response
type CaseDocumentResponse struct {
	Success bool          `json:"success"`
	Data    *CaseDocument `json:"data,omitempty"`
	Message *string       `json:"message,omitempty"`
}

// CaseDocumentListResponse represents a list of case documents API response
type CaseDocumentListResponse struct {
	Success bool           `json:"success"`
	Data    []CaseDocument `json:"data"`
}
