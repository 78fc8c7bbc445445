package analytics

import (
	"context"
	"fmt"
	"time"

	"charterly/internal/bookings"
	"charterly/internal/tours"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type Repository interface {
	GetOverviewMetrics(ctx context.Context) (*OverviewMetrics, error)
	GetTourAnalytics(ctx context.Context, tourID uuid.UUID) (*TourAnalytics, error)
	GetTopTours(ctx context.Context, limit int) ([]TourPerformance, error)
	GetDailyStats(ctx context.Context, days int) ([]DailyStats, error)
}

type repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) GetOverviewMetrics(ctx context.Context) (*OverviewMetrics, error) {
	var metrics OverviewMetrics
	db := r.db.WithContext(ctx)

	if err := db.Model(&tours.Tour{}).Count(&metrics.TotalTours).Error; err != nil {
		return nil, fmt.Errorf("failed to count tours: %w", err)
	}
	if err := db.Model(&tours.Tour{}).Where("status = ?", tours.StatusActive).Count(&metrics.ActiveTours).Error; err != nil {
		return nil, fmt.Errorf("failed to count active tours: %w", err)
	}
	if err := db.Model(&bookings.Booking{}).Count(&metrics.TotalBookings).Error; err != nil {
		return nil, fmt.Errorf("failed to count bookings: %w", err)
	}

	statusCounts := []struct {
		Status string
		Count  int64
	}{}
	err := db.Model(&bookings.Booking{}).
		Select("status, COUNT(*) as count").
		Group("status").
		Scan(&statusCounts).Error
	if err != nil {
		return nil, fmt.Errorf("failed to count bookings by status: %w", err)
	}
	for _, sc := range statusCounts {
		switch bookings.Status(sc.Status) {
		case bookings.StatusPending:
			metrics.PendingBookings = sc.Count
		case bookings.StatusConfirmed:
			metrics.ConfirmedBookings = sc.Count
		case bookings.StatusCancelled:
			metrics.CancelledBookings = sc.Count
		}
	}

	// Revenue counts confirmed bookings only
	err = db.Model(&bookings.Booking{}).
		Where("status = ?", bookings.StatusConfirmed).
		Select("COALESCE(SUM(total_price), 0)").
		Scan(&metrics.TotalRevenue).Error
	if err != nil {
		return nil, fmt.Errorf("failed to sum revenue: %w", err)
	}

	return &metrics, nil
}

func (r *repository) GetTourAnalytics(ctx context.Context, tourID uuid.UUID) (*TourAnalytics, error) {
	var tour tours.Tour
	err := r.db.WithContext(ctx).Where("id = ?", tourID).First(&tour).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, tours.ErrTourNotFound
		}
		return nil, err
	}

	analytics := &TourAnalytics{TourID: tour.ID, TourName: tour.Name}
	db := r.db.WithContext(ctx).Model(&bookings.Booking{}).Where("tour_id = ?", tourID)

	if err := db.Session(&gorm.Session{}).Count(&analytics.TotalBookings).Error; err != nil {
		return nil, fmt.Errorf("failed to count tour bookings: %w", err)
	}
	if err := db.Session(&gorm.Session{}).Where("status = ?", bookings.StatusConfirmed).Count(&analytics.ConfirmedBookings).Error; err != nil {
		return nil, fmt.Errorf("failed to count confirmed bookings: %w", err)
	}
	if err := db.Session(&gorm.Session{}).Where("status = ?", bookings.StatusCancelled).Count(&analytics.CancelledBookings).Error; err != nil {
		return nil, fmt.Errorf("failed to count cancelled bookings: %w", err)
	}
	err = db.Session(&gorm.Session{}).
		Where("status = ?", bookings.StatusConfirmed).
		Select("COALESCE(SUM(total_price), 0)").
		Scan(&analytics.TotalRevenue).Error
	if err != nil {
		return nil, fmt.Errorf("failed to sum tour revenue: %w", err)
	}

	if analytics.ConfirmedBookings > 0 {
		analytics.AverageOrderValue = analytics.TotalRevenue / float64(analytics.ConfirmedBookings)
	}
	return analytics, nil
}

func (r *repository) GetTopTours(ctx context.Context, limit int) ([]TourPerformance, error) {
	var top []TourPerformance
	err := r.db.WithContext(ctx).
		Model(&bookings.Booking{}).
		Select("tour_id, tour_name, COUNT(*) as total_bookings, COALESCE(SUM(total_price), 0) as total_revenue").
		Where("status = ?", bookings.StatusConfirmed).
		Group("tour_id, tour_name").
		Order("total_revenue DESC").
		Limit(limit).
		Scan(&top).Error
	if err != nil {
		return nil, fmt.Errorf("failed to get top tours: %w", err)
	}
	return top, nil
}

func (r *repository) GetDailyStats(ctx context.Context, days int) ([]DailyStats, error) {
	since := time.Now().AddDate(0, 0, -days)

	var stats []DailyStats
	err := r.db.WithContext(ctx).
		Model(&bookings.Booking{}).
		Select("DATE(created_at)::text as date, COUNT(*) as total_bookings, COALESCE(SUM(total_price), 0) as revenue").
		Where("created_at >= ?", since).
		Group("DATE(created_at)").
		Order("date ASC").
		Scan(&stats).Error
	if err != nil {
		return nil, fmt.Errorf("failed to get daily stats: %w", err)
	}
	return stats, nil
}
