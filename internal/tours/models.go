package tours

import (
	"time"

	"github.com/google/uuid"
)

// Tour is the bookable item: a tour or yacht charter with a per-person base
// price, an optional full-charter override price, and the booking-features
// configuration document driving the booking dialog.
type Tour struct {
	ID          uuid.UUID `json:"id" gorm:"type:uuid;default:uuid_generate_v4();primaryKey"`
	Name        string    `json:"name" gorm:"not null;size:255"`
	Description string    `json:"description" gorm:"type:text"`
	BasePrice   float64   `json:"base_price" gorm:"not null;check:base_price >= 0"`
	// CharterPrice, when set to a positive number, switches the tour into
	// full-charter mode: a flat price replacing all per-guest pricing.
	CharterPrice *float64        `json:"charter_price,omitempty"`
	Capacity     int             `json:"capacity" gorm:"not null;check:capacity > 0"`
	Status       Status          `json:"status" gorm:"type:varchar(20);default:'draft'"`
	ImageURL     string          `json:"image_url" gorm:"size:500"`
	Features     BookingFeatures `json:"features" gorm:"type:jsonb"`

	CreatedBy uuid.UUID  `json:"created_by" gorm:"type:uuid;not null"`
	UpdatedBy *uuid.UUID `json:"updated_by" gorm:"type:uuid"`
	CreatedAt time.Time  `json:"created_at" gorm:"autoCreateTime"`
	UpdatedAt time.Time  `json:"updated_at" gorm:"autoUpdateTime"`
}

// TableName specifies the table name for GORM
func (Tour) TableName() string {
	return "tours"
}

// IsFullCharter reports whether the flat override price is active.
func (t *Tour) IsFullCharter() bool {
	return t.CharterPrice != nil && *t.CharterPrice > 0
}

type TourResponse struct {
	ID           uuid.UUID       `json:"id"`
	Name         string          `json:"name"`
	Description  string          `json:"description"`
	BasePrice    float64         `json:"base_price"`
	CharterPrice *float64        `json:"charter_price,omitempty"`
	Capacity     int             `json:"capacity"`
	Status       Status          `json:"status"`
	ImageURL     string          `json:"image_url"`
	Features     BookingFeatures `json:"features"`
	CreatedAt    time.Time       `json:"created_at"`
	UpdatedAt    time.Time       `json:"updated_at"`
}

func (t *Tour) ToResponse() TourResponse {
	return TourResponse{
		ID:           t.ID,
		Name:         t.Name,
		Description:  t.Description,
		BasePrice:    t.BasePrice,
		CharterPrice: t.CharterPrice,
		Capacity:     t.Capacity,
		Status:       t.Status,
		ImageURL:     t.ImageURL,
		Features:     t.Features,
		CreatedAt:    t.CreatedAt,
		UpdatedAt:    t.UpdatedAt,
	}
}

type CreateTourRequest struct {
	Name         string           `json:"name" binding:"required,min=3,max=255"`
	Description  string           `json:"description" binding:"max=5000"`
	BasePrice    float64          `json:"base_price" binding:"required,min=0"`
	CharterPrice *float64         `json:"charter_price" binding:"omitempty,min=0"`
	Capacity     int              `json:"capacity" binding:"required,min=1,max=1000"`
	ImageURL     string           `json:"image_url" binding:"omitempty,url"`
	Features     *BookingFeatures `json:"features"`
}

type UpdateTourRequest struct {
	Name         *string  `json:"name" binding:"omitempty,min=3,max=255"`
	Description  *string  `json:"description" binding:"omitempty,max=5000"`
	BasePrice    *float64 `json:"base_price" binding:"omitempty,min=0"`
	CharterPrice *float64 `json:"charter_price" binding:"omitempty,min=0"`
	Capacity     *int     `json:"capacity" binding:"omitempty,min=1,max=1000"`
	Status       *string  `json:"status" binding:"omitempty,oneof=draft active inactive"`
	ImageURL     *string  `json:"image_url" binding:"omitempty,url"`
}

type TourListQuery struct {
	Page   int    `form:"page" binding:"omitempty,min=1"`
	Limit  int    `form:"limit" binding:"omitempty,min=1,max=100"`
	Search string `form:"search"`
	Status string `form:"status" binding:"omitempty,oneof=draft active inactive"`
}

type PaginatedTours struct {
	Tours      []TourResponse `json:"tours"`
	TotalCount int64          `json:"total_count"`
	Page       int            `json:"page"`
	Limit      int            `json:"limit"`
	TotalPages int            `json:"total_pages"`
}

// Feature editor requests. Each list operation targets an entry by index,
// matching the editor's splice semantics.

type UpdateFeaturesRequest struct {
	Features BookingFeatures `json:"features" binding:"required"`
}

type UpdateGuestCategoryRequest struct {
	Index    int           `json:"index" binding:"min=0"`
	Category GuestCategory `json:"category" binding:"required"`
}

type AddAddonRequest struct {
	Name        string  `json:"name" binding:"required,max=255"`
	UnitPrice   float64 `json:"unit_price" binding:"min=0"`
	Description string  `json:"description" binding:"max=1000"`
}

type UpdateAddonRequest struct {
	Index       int     `json:"index" binding:"min=0"`
	Name        string  `json:"name" binding:"required,max=255"`
	UnitPrice   float64 `json:"unit_price" binding:"min=0"`
	Description string  `json:"description" binding:"max=1000"`
}

type RemoveByIndexRequest struct {
	Index int `json:"index" binding:"min=0"`
}

type UpdateVehicleRequest struct {
	Index   int             `json:"index" binding:"min=0"`
	Vehicle TransferVehicle `json:"vehicle" binding:"required"`
}

type InfoItemRequest struct {
	List  InfoList `json:"list" binding:"required,oneof=cancellation_info what_to_bring good_to_know"`
	Index int      `json:"index" binding:"min=0"`
	Item  InfoItem `json:"item"`
}
