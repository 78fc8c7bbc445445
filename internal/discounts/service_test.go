package discounts

import (
	"context"
	"encoding/json"
	"strings"
	"testing"
	"time"

	"charterly/pkg/cache"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeDiscountRepo struct {
	byCode      map[string]*Discount
	usageCalls  int
	codeLookups int
}

func newFakeDiscountRepo(discounts ...*Discount) *fakeDiscountRepo {
	repo := &fakeDiscountRepo{byCode: make(map[string]*Discount)}
	for _, d := range discounts {
		repo.byCode[d.Code] = d
	}
	return repo
}

func (r *fakeDiscountRepo) Create(ctx context.Context, d *Discount) error { return nil }

func (r *fakeDiscountRepo) GetByCode(ctx context.Context, code string) (*Discount, error) {
	r.codeLookups++
	d, ok := r.byCode[normalizeCode(code)]
	if !ok {
		return nil, ErrDiscountNotFound
	}
	return d, nil
}

func (r *fakeDiscountRepo) GetByID(ctx context.Context, id uuid.UUID) (*Discount, error) {
	for _, d := range r.byCode {
		if d.ID == id {
			return d, nil
		}
	}
	return nil, ErrDiscountNotFound
}

func (r *fakeDiscountRepo) List(ctx context.Context) ([]Discount, error) { return nil, nil }

func (r *fakeDiscountRepo) Update(ctx context.Context, d *Discount) error { return nil }

func (r *fakeDiscountRepo) IncrementUsage(ctx context.Context, id uuid.UUID) error {
	r.usageCalls++
	return nil
}

func (r *fakeDiscountRepo) Delete(ctx context.Context, id uuid.UUID) error { return nil }

type memoryCache struct {
	entries map[string][]byte
}

func newMemoryCache() *memoryCache {
	return &memoryCache{entries: make(map[string][]byte)}
}

func (c *memoryCache) Get(ctx context.Context, key string, dest interface{}) error {
	data, ok := c.entries[key]
	if !ok {
		return cache.ErrCacheMiss
	}
	return json.Unmarshal(data, dest)
}

func (c *memoryCache) Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error {
	data, err := json.Marshal(value)
	if err != nil {
		return err
	}
	c.entries[key] = data
	return nil
}

func (c *memoryCache) Delete(ctx context.Context, key string) error {
	delete(c.entries, key)
	return nil
}

func (c *memoryCache) DeletePattern(ctx context.Context, pattern string) error {
	prefix := strings.TrimSuffix(pattern, "*")
	for key := range c.entries {
		if strings.HasPrefix(key, prefix) {
			delete(c.entries, key)
		}
	}
	return nil
}

func (c *memoryCache) Exists(ctx context.Context, key string) bool {
	_, ok := c.entries[key]
	return ok
}

func (c *memoryCache) GetOrSet(ctx context.Context, key string, ttl time.Duration, fetcher func() (interface{}, error), dest interface{}) error {
	if err := c.Get(ctx, key, dest); err == nil {
		return nil
	}
	value, err := fetcher()
	if err != nil {
		return err
	}
	if err := c.Set(ctx, key, value, ttl); err != nil {
		return err
	}
	return c.Get(ctx, key, dest)
}

func (c *memoryCache) Ping(ctx context.Context) error { return nil }

func TestValidatePercentageDiscount(t *testing.T) {
	discount := &Discount{
		ID:     uuid.New(),
		Code:   "SUMMER10",
		Type:   DiscountTypePercentage,
		Value:  10,
		Active: true,
	}
	svc := NewService(newFakeDiscountRepo(discount))

	result, err := svc.Validate(context.Background(), ValidateRequest{
		Code:     "summer10",
		TourID:   uuid.NewString(),
		Subtotal: 200,
	})
	require.NoError(t, err)
	require.True(t, result.Valid)
	assert.Equal(t, 20.0, result.Amount)
}

func TestValidateFixedDiscountCappedAtSubtotal(t *testing.T) {
	discount := &Discount{
		ID:     uuid.New(),
		Code:   "FLAT50",
		Type:   DiscountTypeFixed,
		Value:  50,
		Active: true,
	}
	svc := NewService(newFakeDiscountRepo(discount))

	result, err := svc.Validate(context.Background(), ValidateRequest{
		Code:     "FLAT50",
		TourID:   uuid.NewString(),
		Subtotal: 30,
	})
	require.NoError(t, err)
	require.True(t, result.Valid)
	assert.Equal(t, 30.0, result.Amount)
}

func TestValidateRejections(t *testing.T) {
	tourID := uuid.NewString()
	otherTourID := uuid.NewString()
	expired := time.Now().Add(-time.Hour)

	tests := []struct {
		name     string
		discount *Discount
		req      ValidateRequest
		reason   string
	}{
		{
			name:   "unknown code",
			req:    ValidateRequest{Code: "NOPE", TourID: tourID, Subtotal: 100},
			reason: ReasonNotFound,
		},
		{
			name:     "inactive",
			discount: &Discount{ID: uuid.New(), Code: "OFF", Type: DiscountTypePercentage, Value: 5, Active: false},
			req:      ValidateRequest{Code: "OFF", TourID: tourID, Subtotal: 100},
			reason:   ReasonInactive,
		},
		{
			name:     "expired",
			discount: &Discount{ID: uuid.New(), Code: "OLD", Type: DiscountTypePercentage, Value: 5, Active: true, ExpiresAt: &expired},
			req:      ValidateRequest{Code: "OLD", TourID: tourID, Subtotal: 100},
			reason:   ReasonExpired,
		},
		{
			name:     "exhausted",
			discount: &Discount{ID: uuid.New(), Code: "GONE", Type: DiscountTypePercentage, Value: 5, Active: true, MaxUses: 3, UsedCount: 3},
			req:      ValidateRequest{Code: "GONE", TourID: tourID, Subtotal: 100},
			reason:   ReasonExhausted,
		},
		{
			name:     "below minimum order",
			discount: &Discount{ID: uuid.New(), Code: "BIG", Type: DiscountTypePercentage, Value: 5, Active: true, MinOrderAmount: 500},
			req:      ValidateRequest{Code: "BIG", TourID: tourID, Subtotal: 100},
			reason:   ReasonMinOrder,
		},
		{
			name:     "wrong tour",
			discount: &Discount{ID: uuid.New(), Code: "YACHT", Type: DiscountTypePercentage, Value: 5, Active: true, ApplicableTourIDs: TourIDList{otherTourID}},
			req:      ValidateRequest{Code: "YACHT", TourID: tourID, Subtotal: 100},
			reason:   ReasonInapplicable,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := newFakeDiscountRepo()
			if tt.discount != nil {
				repo.byCode[tt.discount.Code] = tt.discount
			}
			svc := NewService(repo)

			result, err := svc.Validate(context.Background(), tt.req)
			require.NoError(t, err)
			assert.False(t, result.Valid)
			assert.Equal(t, tt.reason, result.Reason)
		})
	}
}

func TestValidateUnlimitedUsesNeverExhausts(t *testing.T) {
	discount := &Discount{
		ID:        uuid.New(),
		Code:      "FOREVER",
		Type:      DiscountTypePercentage,
		Value:     5,
		Active:    true,
		MaxUses:   0,
		UsedCount: 10000,
	}
	svc := NewService(newFakeDiscountRepo(discount))

	result, err := svc.Validate(context.Background(), ValidateRequest{
		Code:     "FOREVER",
		TourID:   uuid.NewString(),
		Subtotal: 100,
	})
	require.NoError(t, err)
	assert.True(t, result.Valid)
}

func TestRecordUse(t *testing.T) {
	repo := newFakeDiscountRepo()
	svc := NewService(repo)

	require.NoError(t, svc.RecordUse(context.Background(), uuid.New()))
	assert.Equal(t, 1, repo.usageCalls)
}

func TestValidateCachesCodeLookup(t *testing.T) {
	discount := &Discount{
		ID:     uuid.New(),
		Code:   "SUMMER10",
		Type:   DiscountTypePercentage,
		Value:  10,
		Active: true,
	}
	repo := newFakeDiscountRepo(discount)
	svc := NewService(repo)
	svc.SetCacheService(newMemoryCache())

	req := ValidateRequest{Code: "summer10", TourID: uuid.NewString(), Subtotal: 200}

	result, err := svc.Validate(context.Background(), req)
	require.NoError(t, err)
	require.True(t, result.Valid)

	// Second lookup is served from the cache.
	result, err = svc.Validate(context.Background(), req)
	require.NoError(t, err)
	require.True(t, result.Valid)
	assert.Equal(t, 1, repo.codeLookups)

	// Recording a use invalidates the cached copy, so the usage counter
	// seen by the exhaustion check is never stale.
	require.NoError(t, svc.RecordUse(context.Background(), discount.ID))

	_, err = svc.Validate(context.Background(), req)
	require.NoError(t, err)
	assert.Equal(t, 2, repo.codeLookups)
}
