package bookings

import (
	"context"
	"errors"
	"math"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type Repository interface {
	Create(ctx context.Context, booking *Booking) error
	GetByID(ctx context.Context, id uuid.UUID) (*Booking, error)
	List(ctx context.Context, query BookingListQuery) ([]Booking, int64, error)
	ListByUser(ctx context.Context, userID uuid.UUID, query BookingListQuery) ([]Booking, int64, error)
	UpdateStatus(ctx context.Context, id uuid.UUID, status Status) error
	CountByTour(ctx context.Context, tourID uuid.UUID, status Status) (int64, error)
}

type repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) Create(ctx context.Context, booking *Booking) error {
	return r.db.WithContext(ctx).Create(booking).Error
}

func (r *repository) GetByID(ctx context.Context, id uuid.UUID) (*Booking, error) {
	var booking Booking
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&booking).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrBookingNotFound
		}
		return nil, err
	}
	return &booking, nil
}

func (r *repository) List(ctx context.Context, query BookingListQuery) ([]Booking, int64, error) {
	return r.list(ctx, r.db.WithContext(ctx).Model(&Booking{}), query)
}

func (r *repository) ListByUser(ctx context.Context, userID uuid.UUID, query BookingListQuery) ([]Booking, int64, error) {
	tx := r.db.WithContext(ctx).Model(&Booking{}).Where("user_id = ?", userID)
	return r.list(ctx, tx, query)
}

func (r *repository) list(ctx context.Context, tx *gorm.DB, query BookingListQuery) ([]Booking, int64, error) {
	if query.Status != "" {
		tx = tx.Where("status = ?", query.Status)
	}
	if query.TourID != "" {
		tx = tx.Where("tour_id = ?", query.TourID)
	}

	var total int64
	if err := tx.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var bookings []Booking
	offset := (query.Page - 1) * query.PageSize
	err := tx.Order("created_at DESC").
		Offset(offset).
		Limit(query.PageSize).
		Find(&bookings).Error
	if err != nil {
		return nil, 0, err
	}
	return bookings, total, nil
}

func (r *repository) UpdateStatus(ctx context.Context, id uuid.UUID, status Status) error {
	result := r.db.WithContext(ctx).
		Model(&Booking{}).
		Where("id = ?", id).
		Update("status", status)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrBookingNotFound
	}
	return nil
}

func (r *repository) CountByTour(ctx context.Context, tourID uuid.UUID, status Status) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&Booking{}).
		Where("tour_id = ? AND status = ?", tourID, status).
		Count(&count).Error
	return count, err
}

// CalculateTotalPages computes pagination metadata
func CalculateTotalPages(total int64, pageSize int) int {
	return int(math.Ceil(float64(total) / float64(pageSize)))
}
