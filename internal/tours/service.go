package tours

import (
	"context"
	"fmt"
	"time"

	"charterly/internal/shared/constants"
	"charterly/pkg/cache"

	"github.com/google/uuid"
)

type Service interface {
	SetCacheService(cacheService cache.Service)

	// Public reads
	GetTourByID(ctx context.Context, id uuid.UUID) (*TourResponse, error)
	GetLinkedTours(ctx context.Context, id uuid.UUID) ([]TourResponse, error)
	ListTours(ctx context.Context, query TourListQuery) (*PaginatedTours, error)

	// Admin CRUD
	CreateTour(ctx context.Context, userID uuid.UUID, req CreateTourRequest) (*TourResponse, error)
	UpdateTour(ctx context.Context, id, userID uuid.UUID, req UpdateTourRequest) (*TourResponse, error)
	DeleteTour(ctx context.Context, id uuid.UUID) error

	// Feature editor operations
	ReplaceFeatures(ctx context.Context, id, userID uuid.UUID, features BookingFeatures) (*TourResponse, error)
	ResetFeatures(ctx context.Context, id, userID uuid.UUID) (*TourResponse, error)
	EditFeatures(ctx context.Context, id, userID uuid.UUID, edit func(*BookingFeatures) error) (*TourResponse, error)
}

type service struct {
	repo         Repository
	cacheService cache.Service
	cacheTTL     time.Duration
}

func NewService(repo Repository) Service {
	return &service{
		repo:     repo,
		cacheTTL: 15 * time.Minute,
	}
}

// SetCacheService injects the cache service dependency
func (s *service) SetCacheService(cacheService cache.Service) {
	s.cacheService = cacheService
}

func (s *service) GetTourByID(ctx context.Context, id uuid.UUID) (*TourResponse, error) {
	key := fmt.Sprintf(constants.KeyTourByID, id)

	if s.cacheService != nil {
		var cached TourResponse
		if err := s.cacheService.Get(ctx, key, &cached); err == nil {
			return &cached, nil
		}
	}

	tour, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	tour.Features.Normalize()

	resp := tour.ToResponse()
	if s.cacheService != nil {
		_ = s.cacheService.Set(ctx, key, resp, s.cacheTTL)
	}
	return &resp, nil
}

// GetLinkedTours resolves the tours offered as alternate selections in the
// booking dialog, filtered to active status.
func (s *service) GetLinkedTours(ctx context.Context, id uuid.UUID) ([]TourResponse, error) {
	key := fmt.Sprintf(constants.KeyLinkedTours, id)

	if s.cacheService != nil {
		var cached []TourResponse
		if err := s.cacheService.Get(ctx, key, &cached); err == nil {
			return cached, nil
		}
	}

	tour, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	tour.Features.Normalize()

	var ids []uuid.UUID
	for _, raw := range tour.Features.LinkedTourIDs {
		linkedID, err := uuid.Parse(raw)
		if err != nil {
			continue
		}
		ids = append(ids, linkedID)
	}

	linked, err := s.repo.GetActiveByIDs(ctx, ids)
	if err != nil {
		return nil, err
	}

	responses := make([]TourResponse, 0, len(linked))
	for i := range linked {
		linked[i].Features.Normalize()
		responses = append(responses, linked[i].ToResponse())
	}

	if s.cacheService != nil {
		_ = s.cacheService.Set(ctx, key, responses, s.cacheTTL)
	}
	return responses, nil
}

func (s *service) ListTours(ctx context.Context, query TourListQuery) (*PaginatedTours, error) {
	if query.Page <= 0 {
		query.Page = 1
	}
	if query.Limit <= 0 {
		query.Limit = 10
	}

	key := fmt.Sprintf(constants.KeyTourList,
		fmt.Sprintf("%d:%d:%s:%s", query.Page, query.Limit, query.Search, query.Status))

	if s.cacheService != nil {
		var cached PaginatedTours
		if err := s.cacheService.Get(ctx, key, &cached); err == nil {
			return &cached, nil
		}
	}

	tours, totalCount, err := s.repo.List(ctx, query)
	if err != nil {
		return nil, err
	}

	responses := make([]TourResponse, 0, len(tours))
	for i := range tours {
		tours[i].Features.Normalize()
		responses = append(responses, tours[i].ToResponse())
	}

	result := &PaginatedTours{
		Tours:      responses,
		TotalCount: totalCount,
		Page:       query.Page,
		Limit:      query.Limit,
		TotalPages: CalculateTotalPages(totalCount, query.Limit),
	}

	if s.cacheService != nil {
		_ = s.cacheService.Set(ctx, key, result, s.cacheTTL)
	}
	return result, nil
}

func (s *service) CreateTour(ctx context.Context, userID uuid.UUID, req CreateTourRequest) (*TourResponse, error) {
	features := DefaultFeatures()
	if req.Features != nil {
		features = *req.Features
	}
	features.Normalize()

	tour := &Tour{
		Name:         req.Name,
		Description:  req.Description,
		BasePrice:    req.BasePrice,
		CharterPrice: req.CharterPrice,
		Capacity:     req.Capacity,
		Status:       StatusDraft,
		ImageURL:     req.ImageURL,
		Features:     features,
		CreatedBy:    userID,
	}

	if err := s.repo.Create(ctx, tour); err != nil {
		return nil, err
	}

	s.invalidateCache(ctx)
	resp := tour.ToResponse()
	return &resp, nil
}

func (s *service) UpdateTour(ctx context.Context, id, userID uuid.UUID, req UpdateTourRequest) (*TourResponse, error) {
	tour, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if req.Name != nil {
		tour.Name = *req.Name
	}
	if req.Description != nil {
		tour.Description = *req.Description
	}
	if req.BasePrice != nil {
		tour.BasePrice = *req.BasePrice
	}
	if req.CharterPrice != nil {
		tour.CharterPrice = req.CharterPrice
	}
	if req.Capacity != nil {
		tour.Capacity = *req.Capacity
	}
	if req.Status != nil {
		tour.Status = Status(*req.Status)
	}
	if req.ImageURL != nil {
		tour.ImageURL = *req.ImageURL
	}
	tour.UpdatedBy = &userID
	tour.Features.Normalize()

	if err := s.repo.Update(ctx, tour); err != nil {
		return nil, err
	}

	s.invalidateCache(ctx)
	resp := tour.ToResponse()
	return &resp, nil
}

func (s *service) DeleteTour(ctx context.Context, id uuid.UUID) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}
	s.invalidateCache(ctx)
	return nil
}

// ReplaceFeatures overwrites the whole configuration document, normalizing at
// the boundary so downstream readers never see an inconsistent document.
func (s *service) ReplaceFeatures(ctx context.Context, id, userID uuid.UUID, features BookingFeatures) (*TourResponse, error) {
	features.Normalize()
	return s.persistFeatures(ctx, id, userID, features)
}

func (s *service) ResetFeatures(ctx context.Context, id, userID uuid.UUID) (*TourResponse, error) {
	return s.persistFeatures(ctx, id, userID, DefaultFeatures())
}

// EditFeatures loads the document, applies one editor operation, and persists
// the result. Editor operations themselves cannot fail remotely; persistence
// failures leave the stored document untouched and are reported to the caller
// for retry.
func (s *service) EditFeatures(ctx context.Context, id, userID uuid.UUID, edit func(*BookingFeatures) error) (*TourResponse, error) {
	tour, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	features := tour.Features
	features.Normalize()
	if err := edit(&features); err != nil {
		return nil, err
	}

	return s.persistFeatures(ctx, id, userID, features)
}

func (s *service) persistFeatures(ctx context.Context, id, userID uuid.UUID, features BookingFeatures) (*TourResponse, error) {
	if err := s.repo.UpdateFeatures(ctx, id, features, userID); err != nil {
		return nil, err
	}

	s.invalidateCache(ctx)

	tour, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	tour.Features.Normalize()
	resp := tour.ToResponse()
	return &resp, nil
}

func (s *service) invalidateCache(ctx context.Context) {
	if s.cacheService == nil {
		return
	}
	_ = s.cacheService.DeletePattern(ctx, constants.PatternToursAll)
}
