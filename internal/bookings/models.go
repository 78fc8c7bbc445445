package bookings

import (
	"database/sql/driver"
	"encoding/json"
	"errors"
	"time"

	"github.com/google/uuid"
)

// GuestCounts maps a guest category name to its count, stored as jsonb.
// Category names are the stable key; nothing depends on list positions.
type GuestCounts map[string]int

func (g GuestCounts) Value() (driver.Value, error) {
	if g == nil {
		g = GuestCounts{}
	}
	return json.Marshal(g)
}

func (g *GuestCounts) Scan(value interface{}) error {
	if value == nil {
		*g = GuestCounts{}
		return nil
	}
	bytes, ok := value.([]byte)
	if !ok {
		return errors.New("type assertion to []byte failed")
	}
	return json.Unmarshal(bytes, g)
}

func (GuestCounts) GormDataType() string {
	return "jsonb"
}

// Total sums the party size across categories.
func (g GuestCounts) Total() int {
	total := 0
	for _, count := range g {
		if count > 0 {
			total += count
		}
	}
	return total
}

// Booking is the persisted record created once at confirmation. After
// creation only its status changes, and only through admin transitions.
type Booking struct {
	ID       uuid.UUID `json:"id" gorm:"type:uuid;primaryKey"`
	TourID   uuid.UUID `json:"tour_id" gorm:"type:uuid;not null;index"`
	TourName string    `json:"tour_name" gorm:"not null"`
	Date     time.Time `json:"date" gorm:"not null;index"`

	GuestCounts GuestCounts `json:"guest_counts" gorm:"type:jsonb"`
	Quantity    int         `json:"quantity" gorm:"default:0"`

	CustomerName  string `json:"customer_name" gorm:"not null"`
	CustomerEmail string `json:"customer_email" gorm:"not null;index"`
	CustomerPhone string `json:"customer_phone" gorm:"not null"`

	// SpecialRequests carries bracketed machine tags followed by the
	// customer's free text.
	SpecialRequests string `json:"special_requests" gorm:"type:text"`

	TotalPrice  float64     `json:"total_price" gorm:"not null"`
	Status      Status      `json:"status" gorm:"type:varchar(20);not null;index;default:'PENDING'"`
	BookingType BookingType `json:"booking_type" gorm:"type:varchar(20);not null;default:'PER_PERSON'"`

	DiscountID *uuid.UUID `json:"discount_id,omitempty" gorm:"type:uuid"`

	// UserID is set when an authenticated customer submits; guests leave it
	// empty.
	UserID *uuid.UUID `json:"user_id,omitempty" gorm:"type:uuid;index"`

	CreatedAt time.Time `json:"created_at" gorm:"autoCreateTime"`
	UpdatedAt time.Time `json:"updated_at" gorm:"autoUpdateTime"`
}

func (Booking) TableName() string {
	return "bookings"
}

// ---- Workflow requests ----

type CreateSessionRequest struct {
	TourID string `json:"tour_id" binding:"required,uuid"`
}

// UpdateSelectionsRequest patches the current step's selections. Only the
// fields sent change; addon toggles are applied one id at a time.
type UpdateSelectionsRequest struct {
	Date         *string         `json:"date,omitempty"` // YYYY-MM-DD
	GuestCounts  map[string]int  `json:"guest_counts,omitempty"`
	Quantity     *int            `json:"quantity,omitempty"`
	ToggleAddon  *int            `json:"toggle_addon,omitempty"`
	Travel       *string         `json:"travel,omitempty"`
	Deck         *string         `json:"deck,omitempty"`
	VehicleIndex *int            `json:"vehicle_index,omitempty"`
	DiscountCode *string         `json:"discount_code,omitempty"`
	SwitchTourID *string         `json:"switch_tour_id,omitempty" binding:"omitempty,uuid"`
}

type UpdateDetailsRequest struct {
	Name            string `json:"name"`
	Email           string `json:"email"`
	Phone           string `json:"phone"`
	SpecialRequests string `json:"special_requests"`
}

type UpdateStatusRequest struct {
	Status string `json:"status" binding:"required,oneof=CONFIRMED CANCELLED"`
}

type BookingListQuery struct {
	Page     int    `form:"page,default=1" binding:"min=1"`
	PageSize int    `form:"page_size,default=20" binding:"min=1,max=100"`
	Status   string `form:"status" binding:"omitempty,oneof=PENDING CONFIRMED CANCELLED"`
	TourID   string `form:"tour_id" binding:"omitempty,uuid"`
}

type PaginatedBookings struct {
	Bookings   []Booking `json:"bookings"`
	Total      int64     `json:"total"`
	Page       int       `json:"page"`
	PageSize   int       `json:"page_size"`
	TotalPages int       `json:"total_pages"`
}
