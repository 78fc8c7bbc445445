package tours

import (
	"context"
	"errors"
	"math"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

var ErrTourNotFound = errors.New("tour not found")

type Repository interface {
	Create(ctx context.Context, tour *Tour) error
	GetByID(ctx context.Context, id uuid.UUID) (*Tour, error)
	// GetActiveByIDs returns the subset of the given tours that are active,
	// preserving no particular order. Used for linked-tour selection.
	GetActiveByIDs(ctx context.Context, ids []uuid.UUID) ([]Tour, error)
	List(ctx context.Context, query TourListQuery) ([]Tour, int64, error)
	Update(ctx context.Context, tour *Tour) error
	UpdateFeatures(ctx context.Context, id uuid.UUID, features BookingFeatures, updatedBy uuid.UUID) error
	Delete(ctx context.Context, id uuid.UUID) error
}

type repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) Create(ctx context.Context, tour *Tour) error {
	return r.db.WithContext(ctx).Create(tour).Error
}

func (r *repository) GetByID(ctx context.Context, id uuid.UUID) (*Tour, error) {
	var tour Tour
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&tour).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrTourNotFound
		}
		return nil, err
	}
	return &tour, nil
}

func (r *repository) GetActiveByIDs(ctx context.Context, ids []uuid.UUID) ([]Tour, error) {
	if len(ids) == 0 {
		return nil, nil
	}

	var tours []Tour
	err := r.db.WithContext(ctx).
		Where("id IN ?", ids).
		Where("status = ?", StatusActive).
		Find(&tours).Error
	return tours, err
}

func (r *repository) List(ctx context.Context, query TourListQuery) ([]Tour, int64, error) {
	var tours []Tour
	var totalCount int64

	if query.Page <= 0 {
		query.Page = 1
	}
	if query.Limit <= 0 {
		query.Limit = 10
	}

	baseQuery := r.db.WithContext(ctx).Model(&Tour{})

	if query.Status != "" {
		baseQuery = baseQuery.Where("status = ?", query.Status)
	}
	if query.Search != "" {
		baseQuery = baseQuery.Where("name ILIKE ?", "%"+query.Search+"%")
	}

	if err := baseQuery.Count(&totalCount).Error; err != nil {
		return nil, 0, err
	}

	offset := (query.Page - 1) * query.Limit
	err := baseQuery.
		Order("created_at DESC").
		Offset(offset).
		Limit(query.Limit).
		Find(&tours).Error

	return tours, totalCount, err
}

func (r *repository) Update(ctx context.Context, tour *Tour) error {
	result := r.db.WithContext(ctx).
		Model(&Tour{}).
		Where("id = ?", tour.ID).
		Select("name", "description", "base_price", "charter_price", "capacity",
			"status", "image_url", "features", "updated_by", "updated_at").
		Updates(tour)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrTourNotFound
	}
	return nil
}

func (r *repository) UpdateFeatures(ctx context.Context, id uuid.UUID, features BookingFeatures, updatedBy uuid.UUID) error {
	result := r.db.WithContext(ctx).
		Model(&Tour{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{
			"features":   features,
			"updated_by": updatedBy,
			"updated_at": time.Now(),
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrTourNotFound
	}
	return nil
}

func (r *repository) Delete(ctx context.Context, id uuid.UUID) error {
	result := r.db.WithContext(ctx).Where("id = ?", id).Delete(&Tour{})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrTourNotFound
	}
	return nil
}

// CalculateTotalPages is a pagination helper
func CalculateTotalPages(totalCount int64, limit int) int {
	if limit <= 0 {
		return 0
	}
	return int(math.Ceil(float64(totalCount) / float64(limit)))
}
