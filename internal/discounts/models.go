package discounts

import (
	"database/sql/driver"
	"encoding/json"
	"errors"
	"time"

	"github.com/google/uuid"
)

type DiscountType string

const (
	DiscountTypePercentage DiscountType = "percentage"
	DiscountTypeFixed      DiscountType = "fixed"
)

func (t DiscountType) IsValid() bool {
	return t == DiscountTypePercentage || t == DiscountTypeFixed
}

// TourIDList is stored as jsonb; an empty list means the code applies to
// every tour.
type TourIDList []string

func (l TourIDList) Value() (driver.Value, error) {
	if l == nil {
		l = TourIDList{}
	}
	return json.Marshal(l)
}

func (l *TourIDList) Scan(value interface{}) error {
	if value == nil {
		*l = TourIDList{}
		return nil
	}
	bytes, ok := value.([]byte)
	if !ok {
		return errors.New("type assertion to []byte failed")
	}
	return json.Unmarshal(bytes, l)
}

func (TourIDList) GormDataType() string {
	return "jsonb"
}

// Discount is a code-activated reduction applied to a booking subtotal.
type Discount struct {
	ID                uuid.UUID    `json:"id" gorm:"type:uuid;default:uuid_generate_v4();primaryKey"`
	Code              string       `json:"code" gorm:"uniqueIndex;not null;size:64"`
	Type              DiscountType `json:"type" gorm:"type:varchar(20);not null"`
	Value             float64      `json:"value" gorm:"not null;check:value >= 0"`
	MinOrderAmount    float64      `json:"min_order_amount" gorm:"default:0"`
	MaxUses           int          `json:"max_uses" gorm:"default:0"` // 0 = unlimited
	UsedCount         int          `json:"used_count" gorm:"default:0"`
	ExpiresAt         *time.Time   `json:"expires_at,omitempty"`
	ApplicableTourIDs TourIDList   `json:"applicable_tour_ids" gorm:"type:jsonb"`
	Active            bool         `json:"active" gorm:"default:true"`
	CreatedAt         time.Time    `json:"created_at" gorm:"autoCreateTime"`
	UpdatedAt         time.Time    `json:"updated_at" gorm:"autoUpdateTime"`
}

func (Discount) TableName() string {
	return "discounts"
}

// IsExpired reports whether the code's activity window has passed.
func (d *Discount) IsExpired() bool {
	return d.ExpiresAt != nil && time.Now().After(*d.ExpiresAt)
}

// IsExhausted reports whether the usage cap has been reached.
func (d *Discount) IsExhausted() bool {
	return d.MaxUses > 0 && d.UsedCount >= d.MaxUses
}

// AppliesToTour checks tour applicability; an empty list applies everywhere.
func (d *Discount) AppliesToTour(tourID string) bool {
	if len(d.ApplicableTourIDs) == 0 {
		return true
	}
	for _, id := range d.ApplicableTourIDs {
		if id == tourID {
			return true
		}
	}
	return false
}

// AmountFor computes the reduction for a given subtotal. A percentage is
// taken of the subtotal; a fixed amount is capped at the subtotal so the
// total never goes negative.
func (d *Discount) AmountFor(subtotal float64) float64 {
	switch d.Type {
	case DiscountTypePercentage:
		return subtotal * d.Value / 100
	case DiscountTypeFixed:
		if d.Value > subtotal {
			return subtotal
		}
		return d.Value
	default:
		return 0
	}
}

type CreateDiscountRequest struct {
	Code              string     `json:"code" binding:"required,min=2,max=64"`
	Type              string     `json:"type" binding:"required,oneof=percentage fixed"`
	Value             float64    `json:"value" binding:"required,min=0"`
	MinOrderAmount    float64    `json:"min_order_amount" binding:"min=0"`
	MaxUses           int        `json:"max_uses" binding:"min=0"`
	ExpiresAt         *time.Time `json:"expires_at"`
	ApplicableTourIDs []string   `json:"applicable_tour_ids"`
}

type UpdateDiscountRequest struct {
	Value             *float64   `json:"value" binding:"omitempty,min=0"`
	MinOrderAmount    *float64   `json:"min_order_amount" binding:"omitempty,min=0"`
	MaxUses           *int       `json:"max_uses" binding:"omitempty,min=0"`
	ExpiresAt         *time.Time `json:"expires_at"`
	ApplicableTourIDs []string   `json:"applicable_tour_ids"`
	Active            *bool      `json:"active"`
}

// ValidateRequest asks whether a code applies to a given tour and subtotal.
type ValidateRequest struct {
	Code     string  `json:"code" binding:"required"`
	TourID   string  `json:"tour_id" binding:"required,uuid"`
	Subtotal float64 `json:"subtotal" binding:"min=0"`
}

// ValidateResponse reports the outcome of a lookup. An inapplicable code is
// "not applied", never an error.
type ValidateResponse struct {
	Valid    bool      `json:"valid"`
	Reason   string    `json:"reason,omitempty"`
	Discount *Discount `json:"discount,omitempty"`
	Amount   float64   `json:"amount"`
}
