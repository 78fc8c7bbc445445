package discounts

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"charterly/internal/shared/constants"
	"charterly/pkg/cache"

	"github.com/google/uuid"
)

// Rejection reasons surfaced to the booking dialog. Every one of them means
// "not applied, try another code", never a fatal failure.
const (
	ReasonNotFound     = "code not found"
	ReasonInactive     = "code is inactive"
	ReasonExpired      = "code has expired"
	ReasonExhausted    = "code has reached its usage limit"
	ReasonMinOrder     = "order total is below the code's minimum"
	ReasonInapplicable = "code does not apply to this tour"
)

type Service interface {
	SetCacheService(cacheService cache.Service)

	// Validate resolves a code against a tour and subtotal. Lookup failures
	// of every kind come back as a not-applied response; only infrastructure
	// errors are returned as errors.
	Validate(ctx context.Context, req ValidateRequest) (*ValidateResponse, error)

	// RecordUse bumps the usage counter after a successful booking submit.
	RecordUse(ctx context.Context, id uuid.UUID) error

	// Admin CRUD
	Create(ctx context.Context, req CreateDiscountRequest) (*Discount, error)
	Get(ctx context.Context, id uuid.UUID) (*Discount, error)
	List(ctx context.Context) ([]Discount, error)
	Update(ctx context.Context, id uuid.UUID, req UpdateDiscountRequest) (*Discount, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

type service struct {
	repo         Repository
	cacheService cache.Service
	cacheTTL     time.Duration
}

func NewService(repo Repository) Service {
	return &service{
		repo:     repo,
		cacheTTL: 5 * time.Minute,
	}
}

// SetCacheService injects the cache service dependency
func (s *service) SetCacheService(cacheService cache.Service) {
	s.cacheService = cacheService
}

func (s *service) Validate(ctx context.Context, req ValidateRequest) (*ValidateResponse, error) {
	discount, err := s.getByCode(ctx, req.Code)
	if err != nil {
		if errors.Is(err, ErrDiscountNotFound) {
			return &ValidateResponse{Valid: false, Reason: ReasonNotFound}, nil
		}
		return nil, err
	}

	if reason := s.rejectionReason(discount, req); reason != "" {
		return &ValidateResponse{Valid: false, Reason: reason}, nil
	}

	return &ValidateResponse{
		Valid:    true,
		Discount: discount,
		Amount:   discount.AmountFor(req.Subtotal),
	}, nil
}

func (s *service) rejectionReason(d *Discount, req ValidateRequest) string {
	switch {
	case !d.Active:
		return ReasonInactive
	case d.IsExpired():
		return ReasonExpired
	case d.IsExhausted():
		return ReasonExhausted
	case req.Subtotal < d.MinOrderAmount:
		return ReasonMinOrder
	case !d.AppliesToTour(req.TourID):
		return ReasonInapplicable
	}
	return ""
}

// getByCode resolves a code through the cache. The cached copy carries the
// usage counter, so every write path invalidates it, RecordUse included, to
// keep the exhaustion check honest.
func (s *service) getByCode(ctx context.Context, code string) (*Discount, error) {
	key := fmt.Sprintf(constants.KeyDiscountByCode, strings.ToUpper(strings.TrimSpace(code)))

	if s.cacheService != nil {
		var cached Discount
		if err := s.cacheService.Get(ctx, key, &cached); err == nil {
			return &cached, nil
		}
	}

	discount, err := s.repo.GetByCode(ctx, code)
	if err != nil {
		return nil, err
	}

	if s.cacheService != nil {
		_ = s.cacheService.Set(ctx, key, discount, s.cacheTTL)
	}
	return discount, nil
}

func (s *service) RecordUse(ctx context.Context, id uuid.UUID) error {
	if err := s.repo.IncrementUsage(ctx, id); err != nil {
		return err
	}
	s.invalidateCache(ctx)
	return nil
}

func (s *service) Create(ctx context.Context, req CreateDiscountRequest) (*Discount, error) {
	discount := &Discount{
		Code:              req.Code,
		Type:              DiscountType(req.Type),
		Value:             req.Value,
		MinOrderAmount:    req.MinOrderAmount,
		MaxUses:           req.MaxUses,
		ExpiresAt:         req.ExpiresAt,
		ApplicableTourIDs: TourIDList(req.ApplicableTourIDs),
		Active:            true,
	}

	if err := s.repo.Create(ctx, discount); err != nil {
		return nil, err
	}
	s.invalidateCache(ctx)
	return discount, nil
}

func (s *service) Get(ctx context.Context, id uuid.UUID) (*Discount, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *service) List(ctx context.Context) ([]Discount, error) {
	return s.repo.List(ctx)
}

func (s *service) Update(ctx context.Context, id uuid.UUID, req UpdateDiscountRequest) (*Discount, error) {
	discount, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if req.Value != nil {
		discount.Value = *req.Value
	}
	if req.MinOrderAmount != nil {
		discount.MinOrderAmount = *req.MinOrderAmount
	}
	if req.MaxUses != nil {
		discount.MaxUses = *req.MaxUses
	}
	if req.ExpiresAt != nil {
		discount.ExpiresAt = req.ExpiresAt
	}
	if req.ApplicableTourIDs != nil {
		discount.ApplicableTourIDs = TourIDList(req.ApplicableTourIDs)
	}
	if req.Active != nil {
		discount.Active = *req.Active
	}

	if err := s.repo.Update(ctx, discount); err != nil {
		return nil, err
	}
	s.invalidateCache(ctx)
	return discount, nil
}

func (s *service) Delete(ctx context.Context, id uuid.UUID) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}
	s.invalidateCache(ctx)
	return nil
}

func (s *service) invalidateCache(ctx context.Context) {
	if s.cacheService == nil {
		return
	}
	_ = s.cacheService.DeletePattern(ctx, constants.PatternDiscounts)
}
