package discounts

import (
	"context"
	"errors"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

var ErrDiscountNotFound = errors.New("discount not found")

type Repository interface {
	Create(ctx context.Context, discount *Discount) error
	GetByCode(ctx context.Context, code string) (*Discount, error)
	GetByID(ctx context.Context, id uuid.UUID) (*Discount, error)
	List(ctx context.Context) ([]Discount, error)
	Update(ctx context.Context, discount *Discount) error
	// IncrementUsage bumps used_count atomically at the row level.
	IncrementUsage(ctx context.Context, id uuid.UUID) error
	Delete(ctx context.Context, id uuid.UUID) error
}

type repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) Create(ctx context.Context, discount *Discount) error {
	discount.Code = normalizeCode(discount.Code)
	return r.db.WithContext(ctx).Create(discount).Error
}

func (r *repository) GetByCode(ctx context.Context, code string) (*Discount, error) {
	var discount Discount
	err := r.db.WithContext(ctx).
		Where("code = ?", normalizeCode(code)).
		First(&discount).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrDiscountNotFound
		}
		return nil, err
	}
	return &discount, nil
}

func (r *repository) GetByID(ctx context.Context, id uuid.UUID) (*Discount, error) {
	var discount Discount
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&discount).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrDiscountNotFound
		}
		return nil, err
	}
	return &discount, nil
}

func (r *repository) List(ctx context.Context) ([]Discount, error) {
	var discounts []Discount
	err := r.db.WithContext(ctx).Order("created_at DESC").Find(&discounts).Error
	return discounts, err
}

func (r *repository) Update(ctx context.Context, discount *Discount) error {
	result := r.db.WithContext(ctx).
		Model(&Discount{}).
		Where("id = ?", discount.ID).
		Select("value", "min_order_amount", "max_uses", "expires_at",
			"applicable_tour_ids", "active", "updated_at").
		Updates(discount)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrDiscountNotFound
	}
	return nil
}

func (r *repository) IncrementUsage(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).
		Model(&Discount{}).
		Where("id = ?", id).
		UpdateColumn("used_count", gorm.Expr("used_count + 1")).Error
}

func (r *repository) Delete(ctx context.Context, id uuid.UUID) error {
	result := r.db.WithContext(ctx).Where("id = ?", id).Delete(&Discount{})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrDiscountNotFound
	}
	return nil
}

func normalizeCode(code string) string {
	return strings.ToUpper(strings.TrimSpace(code))
}
