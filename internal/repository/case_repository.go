package repository

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"lawpractice-service/internal/models"
)

var (
	// ErrAlreadyAssigned is returned when a lawyer is already on the case team
	ErrAlreadyAssigned = errors.New("lawyer already assigned to case")
)

// CaseRepository handles database operations for cases, case assignments and
// case documents
type CaseRepository interface {
	Create(ctx context.Context, c *models.Case) error
	GetByID(ctx context.Context, firmID, id uuid.UUID) (*models.Case, error)
	GetByNumber(ctx context.Context, firmID uuid.UUID, caseNumber string) (*models.Case, error)
	List(ctx context.Context, firmID uuid.UUID, status models.CaseStatus, page, limit int) ([]models.Case, int64, error)
	Update(ctx context.Context, c *models.Case) error
	Delete(ctx context.Context, firmID, id uuid.UUID) error

	AssignLawyer(ctx context.Context, firmID, caseID, lawyerID uuid.UUID) error
	UnassignLawyer(ctx context.Context, firmID, caseID, lawyerID uuid.UUID) error

	CreateDocument(ctx context.Context, doc *models.CaseDocument) error
	ListDocuments(ctx context.Context, firmID, caseID uuid.UUID) ([]models.CaseDocument, error)
	DeleteDocument(ctx context.Context, firmID, caseID, docID uuid.UUID) error
}

type caseRepository struct {
	db *gorm.DB
}

// NewCaseRepository creates a new CaseRepository
func NewCaseRepository(db *gorm.DB) CaseRepository {
	return &caseRepository{db: db}
}

func (r *caseRepository) Create(ctx context.Context, c *models.Case) error {
	return r.db.WithContext(ctx).Create(c).Error
}

func (r *caseRepository) GetByID(ctx context.Context, firmID, id uuid.UUID) (*models.Case, error) {
	var c models.Case
	err := r.db.WithContext(ctx).
		Preload("Client").
		Preload("Lawyers").
		Where("id = ? AND firm_id = ?", id, firmID).
		First(&c).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &c, nil
}

func (r *caseRepository) GetByNumber(ctx context.Context, firmID uuid.UUID, caseNumber string) (*models.Case, error) {
	var c models.Case
	err := r.db.WithContext(ctx).
		Where("firm_id = ? AND case_number = ?", firmID, caseNumber).
		First(&c).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &c, nil
}

func (r *caseRepository) List(ctx context.Context, firmID uuid.UUID, status models.CaseStatus, page, limit int) ([]models.Case, int64, error) {
	var cases []models.Case
	var total int64

	query := r.db.WithContext(ctx).Model(&models.Case{}).
		Where("firm_id = ?", firmID)

	if status != "" {
		query = query.Where("status = ?", status)
	}

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	err := query.
		Preload("Client").
		Order("opened_at DESC").
		Limit(limit).
		Offset((page - 1) * limit).
		Find(&cases).Error

	return cases, total, err
}

func (r *caseRepository) Update(ctx context.Context, c *models.Case) error {
	return r.db.WithContext(ctx).Omit("Client", "Lawyers", "Documents").Save(c).Error
}

func (r *caseRepository) Delete(ctx context.Context, firmID, id uuid.UUID) error {
	result := r.db.WithContext(ctx).
		Where("id = ? AND firm_id = ?", id, firmID).
		Delete(&models.Case{})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// AssignLawyer adds a lawyer to the case team. Both the case and the lawyer
// must belong to the firm.
func (r *caseRepository) AssignLawyer(ctx context.Context, firmID, caseID, lawyerID uuid.UUID) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var count int64
		if err := tx.Model(&models.Case{}).
			Where("id = ? AND firm_id = ?", caseID, firmID).
			Count(&count).Error; err != nil {
			return err
		}
		if count == 0 {
			return ErrNotFound
		}

		if err := tx.Model(&models.Lawyer{}).
			Where("id = ? AND firm_id = ?", lawyerID, firmID).
			Count(&count).Error; err != nil {
			return err
		}
		if count == 0 {
			return ErrNotFound
		}

		if err := tx.Model(&models.CaseLawyer{}).
			Where("case_id = ? AND lawyer_id = ?", caseID, lawyerID).
			Count(&count).Error; err != nil {
			return err
		}
		if count > 0 {
			return ErrAlreadyAssigned
		}

		assignment := models.CaseLawyer{CaseID: caseID, LawyerID: lawyerID}
		return tx.Create(&assignment).Error
	})
}

func (r *caseRepository) UnassignLawyer(ctx context.Context, firmID, caseID, lawyerID uuid.UUID) error {
	var count int64
	if err := r.db.WithContext(ctx).Model(&models.Case{}).
		Where("id = ? AND firm_id = ?", caseID, firmID).
		Count(&count).Error; err != nil {
		return err
	}
	if count == 0 {
		return ErrNotFound
	}

	result := r.db.WithContext(ctx).
		Where("case_id = ? AND lawyer_id = ?", caseID, lawyerID).
		Delete(&models.CaseLawyer{})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *caseRepository) CreateDocument(ctx context.Context, doc *models.CaseDocument) error {
	var count int64
	if err := r.db.WithContext(ctx).Model(&models.Case{}).
		Where("id = ? AND firm_id = ?", doc.CaseID, doc.FirmID).
		Count(&count).Error; err != nil {
		return err
	}
	if count == 0 {
		return ErrNotFound
	}
	return r.db.WithContext(ctx).Create(doc).Error
}

func (r *caseRepository) ListDocuments(ctx context.Context, firmID, caseID uuid.UUID) ([]models.CaseDocument, error) {
	var docs []models.CaseDocument
	err := r.db.WithContext(ctx).
		Where("firm_id = ? AND case_id = ?", firmID, caseID).
		Order("created_at DESC").
		Find(&docs).Error
	return docs, err
}

func (r *caseRepository) DeleteDocument(ctx context.Context, firmID, caseID, docID uuid.UUID) error {
	result := r.db.WithContext(ctx).
		Where("id = ? AND firm_id = ? AND case_id = ?", docID, firmID, caseID).
		Delete(&models.CaseDocument{})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}
