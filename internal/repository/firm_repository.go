package repository

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"lawpractice-service/internal/models"
)

// FirmRepository handles database operations for firms and admin-firm bindings
type FirmRepository interface {
	CreateWithAdmin(ctx context.Context, firm *models.Firm, adminUserID uuid.UUID) error
	GetByID(ctx context.Context, id uuid.UUID) (*models.Firm, error)
	GetBySubdomain(ctx context.Context, subdomain string) (*models.Firm, error)
	List(ctx context.Context, page, limit int) ([]models.Firm, int64, error)
	Update(ctx context.Context, firm *models.Firm) error
	Delete(ctx context.Context, id uuid.UUID) error

	ListAdminFirms(ctx context.Context, userID uuid.UUID) ([]models.AdminFirm, error)
	GetCurrentAdminFirm(ctx context.Context, userID uuid.UUID) (*models.AdminFirm, error)
	SetCurrentFirm(ctx context.Context, userID, firmID uuid.UUID) error
}

type firmRepository struct {
	db *gorm.DB
}

// NewFirmRepository creates a new FirmRepository
func NewFirmRepository(db *gorm.DB) FirmRepository {
	return &firmRepository{db: db}
}

// CreateWithAdmin inserts the firm and its admin binding in one transaction;
// a failure on either insert rolls both back. The new binding becomes current
// when the admin has no current firm yet.
func (r *firmRepository) CreateWithAdmin(ctx context.Context, firm *models.Firm, adminUserID uuid.UUID) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(firm).Error; err != nil {
			return err
		}

		var currentCount int64
		if err := tx.Model(&models.AdminFirm{}).
			Where("user_id = ? AND is_current = true", adminUserID).
			Count(&currentCount).Error; err != nil {
			return err
		}

		binding := models.AdminFirm{
			UserID:    adminUserID,
			FirmID:    firm.ID,
			IsCurrent: currentCount == 0,
		}
		return tx.Create(&binding).Error
	})
}

func (r *firmRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.Firm, error) {
	var firm models.Firm
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&firm).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &firm, nil
}

func (r *firmRepository) GetBySubdomain(ctx context.Context, subdomain string) (*models.Firm, error) {
	var firm models.Firm
	err := r.db.WithContext(ctx).Where("subdomain = ?", subdomain).First(&firm).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &firm, nil
}

func (r *firmRepository) List(ctx context.Context, page, limit int) ([]models.Firm, int64, error) {
	var firms []models.Firm
	var total int64

	query := r.db.WithContext(ctx).Model(&models.Firm{})
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	err := query.
		Order("created_at DESC").
		Limit(limit).
		Offset((page - 1) * limit).
		Find(&firms).Error

	return firms, total, err
}

func (r *firmRepository) Update(ctx context.Context, firm *models.Firm) error {
	return r.db.WithContext(ctx).Save(firm).Error
}

func (r *firmRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result := r.db.WithContext(ctx).Delete(&models.Firm{}, "id = ?", id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *firmRepository) ListAdminFirms(ctx context.Context, userID uuid.UUID) ([]models.AdminFirm, error) {
	var bindings []models.AdminFirm
	err := r.db.WithContext(ctx).
		Preload("Firm").
		Where("user_id = ?", userID).
		Order("created_at ASC").
		Find(&bindings).Error
	return bindings, err
}

// GetCurrentAdminFirm returns the binding flagged as current, falling back to
// the earliest binding when none is flagged.
func (r *firmRepository) GetCurrentAdminFirm(ctx context.Context, userID uuid.UUID) (*models.AdminFirm, error) {
	var binding models.AdminFirm
	err := r.db.WithContext(ctx).
		Preload("Firm").
		Where("user_id = ?", userID).
		Order("is_current DESC, created_at ASC").
		First(&binding).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &binding, nil
}

// SetCurrentFirm flips the current flag to the given firm. Fails with
// ErrNotFound when the user has no binding for that firm.
func (r *firmRepository) SetCurrentFirm(ctx context.Context, userID, firmID uuid.UUID) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var binding models.AdminFirm
		if err := tx.Where("user_id = ? AND firm_id = ?", userID, firmID).First(&binding).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrNotFound
			}
			return err
		}

		if err := tx.Model(&models.AdminFirm{}).
			Where("user_id = ?", userID).
			Update("is_current", false).Error; err != nil {
			return err
		}

		return tx.Model(&models.AdminFirm{}).
			Where("id = ?", binding.ID).
			Update("is_current", true).Error
	})
}
