package repository

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"lawpractice-service/internal/models"
)

// LawyerRepository handles database operations for lawyers
type LawyerRepository interface {
	Create(ctx context.Context, lawyer *models.Lawyer) error
	GetByID(ctx context.Context, firmID, id uuid.UUID) (*models.Lawyer, error)
	GetByEmail(ctx context.Context, firmID uuid.UUID, email string) (*models.Lawyer, error)
	GetByUserID(ctx context.Context, userID uuid.UUID) (*models.Lawyer, error)
	List(ctx context.Context, firmID uuid.UUID, search string, page, limit int) ([]models.Lawyer, int64, error)
	Update(ctx context.Context, lawyer *models.Lawyer) error
	Delete(ctx context.Context, firmID, id uuid.UUID) error
}

type lawyerRepository struct {
	db *gorm.DB
}

// NewLawyerRepository creates a new LawyerRepository
func NewLawyerRepository(db *gorm.DB) LawyerRepository {
	return &lawyerRepository{db: db}
}

func (r *lawyerRepository) Create(ctx context.Context, lawyer *models.Lawyer) error {
	return r.db.WithContext(ctx).Create(lawyer).Error
}

func (r *lawyerRepository) GetByID(ctx context.Context, firmID, id uuid.UUID) (*models.Lawyer, error) {
	var lawyer models.Lawyer
	err := r.db.WithContext(ctx).
		Where("id = ? AND firm_id = ?", id, firmID).
		First(&lawyer).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &lawyer, nil
}

func (r *lawyerRepository) GetByEmail(ctx context.Context, firmID uuid.UUID, email string) (*models.Lawyer, error) {
	var lawyer models.Lawyer
	err := r.db.WithContext(ctx).
		Where("firm_id = ? AND LOWER(email) = LOWER(?)", firmID, email).
		First(&lawyer).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &lawyer, nil
}

// GetByUserID maps an authenticated principal to their lawyer row. Used by
// scope resolution, so it is deliberately not firm-scoped.
func (r *lawyerRepository) GetByUserID(ctx context.Context, userID uuid.UUID) (*models.Lawyer, error) {
	var lawyer models.Lawyer
	err := r.db.WithContext(ctx).Where("user_id = ?", userID).First(&lawyer).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &lawyer, nil
}

func (r *lawyerRepository) List(ctx context.Context, firmID uuid.UUID, search string, page, limit int) ([]models.Lawyer, int64, error) {
	var lawyers []models.Lawyer
	var total int64

	query := r.db.WithContext(ctx).Model(&models.Lawyer{}).
		Where("firm_id = ?", firmID)

	if search != "" {
		pattern := "%" + search + "%"
		query = query.Where("first_name ILIKE ? OR last_name ILIKE ? OR email ILIKE ?", pattern, pattern, pattern)
	}

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	err := query.
		Order("last_name ASC, first_name ASC").
		Limit(limit).
		Offset((page - 1) * limit).
		Find(&lawyers).Error

	return lawyers, total, err
}

func (r *lawyerRepository) Update(ctx context.Context, lawyer *models.Lawyer) error {
	return r.db.WithContext(ctx).Save(lawyer).Error
}

func (r *lawyerRepository) Delete(ctx context.Context, firmID, id uuid.UUID) error {
	result := r.db.WithContext(ctx).
		Where("id = ? AND firm_id = ?", id, firmID).
		Delete(&models.Lawyer{})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}
