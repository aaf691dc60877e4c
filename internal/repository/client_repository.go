package repository

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"lawpractice-service/internal/models"
)

// ClientRepository handles database operations for clients
type ClientRepository interface {
	Create(ctx context.Context, client *models.Client) error
	GetByID(ctx context.Context, firmID, id uuid.UUID) (*models.Client, error)
	GetByEmail(ctx context.Context, firmID uuid.UUID, email string) (*models.Client, error)
	GetByUserID(ctx context.Context, userID uuid.UUID) (*models.Client, error)
	List(ctx context.Context, firmID uuid.UUID, search string, page, limit int) ([]models.Client, int64, error)
	Update(ctx context.Context, client *models.Client) error
	Delete(ctx context.Context, firmID, id uuid.UUID) error
}

type clientRepository struct {
	db *gorm.DB
}

// NewClientRepository creates a new ClientRepository
func NewClientRepository(db *gorm.DB) ClientRepository {
	return &clientRepository{db: db}
}

func (r *clientRepository) Create(ctx context.Context, client *models.Client) error {
	return r.db.WithContext(ctx).Create(client).Error
}

func (r *clientRepository) GetByID(ctx context.Context, firmID, id uuid.UUID) (*models.Client, error) {
	var client models.Client
	err := r.db.WithContext(ctx).
		Where("id = ? AND firm_id = ?", id, firmID).
		First(&client).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &client, nil
}

func (r *clientRepository) GetByEmail(ctx context.Context, firmID uuid.UUID, email string) (*models.Client, error) {
	var client models.Client
	err := r.db.WithContext(ctx).
		Where("firm_id = ? AND LOWER(email) = LOWER(?)", firmID, email).
		First(&client).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &client, nil
}

// GetByUserID maps an authenticated principal to their client row. Used by
// scope resolution, so it is deliberately not firm-scoped.
func (r *clientRepository) GetByUserID(ctx context.Context, userID uuid.UUID) (*models.Client, error) {
	var client models.Client
	err := r.db.WithContext(ctx).Where("user_id = ?", userID).First(&client).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &client, nil
}

func (r *clientRepository) List(ctx context.Context, firmID uuid.UUID, search string, page, limit int) ([]models.Client, int64, error) {
	var clients []models.Client
	var total int64

	query := r.db.WithContext(ctx).Model(&models.Client{}).
		Where("firm_id = ?", firmID)

	if search != "" {
		pattern := "%" + search + "%"
		query = query.Where("first_name ILIKE ? OR last_name ILIKE ? OR email ILIKE ? OR company ILIKE ?",
			pattern, pattern, pattern, pattern)
	}

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	err := query.
		Order("last_name ASC, first_name ASC").
		Limit(limit).
		Offset((page - 1) * limit).
		Find(&clients).Error

	return clients, total, err
}

func (r *clientRepository) Update(ctx context.Context, client *models.Client) error {
	return r.db.WithContext(ctx).Save(client).Error
}

func (r *clientRepository) Delete(ctx context.Context, firmID, id uuid.UUID) error {
	result := r.db.WithContext(ctx).
		Where("id = ? AND firm_id = ?", id, firmID).
		Delete(&models.Client{})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}
