package analytics

import (
	"time"

	"github.com/google/uuid"
)

// DashboardAnalytics is the admin overview: totals plus recent trends.
type DashboardAnalytics struct {
	Overview     OverviewMetrics  `json:"overview"`
	TopTours     []TourPerformance `json:"top_tours"`
	DailyTrend   []DailyStats      `json:"daily_trend"`
	GeneratedAt  time.Time         `json:"generated_at"`
}

type OverviewMetrics struct {
	TotalTours        int64   `json:"total_tours"`
	ActiveTours       int64   `json:"active_tours"`
	TotalBookings     int64   `json:"total_bookings"`
	PendingBookings   int64   `json:"pending_bookings"`
	ConfirmedBookings int64   `json:"confirmed_bookings"`
	CancelledBookings int64   `json:"cancelled_bookings"`
	TotalRevenue      float64 `json:"total_revenue"`
}

// TourAnalytics summarizes one tour's booking and revenue figures.
type TourAnalytics struct {
	TourID            uuid.UUID `json:"tour_id"`
	TourName          string    `json:"tour_name"`
	TotalBookings     int64     `json:"total_bookings"`
	ConfirmedBookings int64     `json:"confirmed_bookings"`
	CancelledBookings int64     `json:"cancelled_bookings"`
	TotalRevenue      float64   `json:"total_revenue"`
	AverageOrderValue float64   `json:"average_order_value"`
}

type TourPerformance struct {
	TourID        uuid.UUID `json:"tour_id"`
	TourName      string    `json:"tour_name"`
	TotalBookings int64     `json:"total_bookings"`
	TotalRevenue  float64   `json:"total_revenue"`
}

type DailyStats struct {
	Date          string  `json:"date"`
	TotalBookings int64   `json:"total_bookings"`
	Revenue       float64 `json:"revenue"`
}
