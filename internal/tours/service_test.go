package tours

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

type fakeTourRepo struct {
	tours     map[uuid.UUID]*Tour
	getCalls  int
	listCalls int
}

func newFakeTourRepo(seeded ...*Tour) *fakeTourRepo {
	repo := &fakeTourRepo{tours: make(map[uuid.UUID]*Tour)}
	for _, tour := range seeded {
		repo.tours[tour.ID] = tour
	}
	return repo
}

func (r *fakeTourRepo) Create(ctx context.Context, tour *Tour) error {
	r.tours[tour.ID] = tour
	return nil
}

func (r *fakeTourRepo) GetByID(ctx context.Context, id uuid.UUID) (*Tour, error) {
	r.getCalls++
	tour, ok := r.tours[id]
	if !ok {
		return nil, ErrTourNotFound
	}
	copied := *tour
	return &copied, nil
}

func (r *fakeTourRepo) GetActiveByIDs(ctx context.Context, ids []uuid.UUID) ([]Tour, error) {
	var result []Tour
	for _, id := range ids {
		if tour, ok := r.tours[id]; ok && tour.Status == StatusActive {
			result = append(result, *tour)
		}
	}
	return result, nil
}

func (r *fakeTourRepo) List(ctx context.Context, query TourListQuery) ([]Tour, int64, error) {
	r.listCalls++
	var result []Tour
	for _, tour := range r.tours {
		result = append(result, *tour)
	}
	return result, int64(len(result)), nil
}

func (r *fakeTourRepo) Update(ctx context.Context, tour *Tour) error {
	r.tours[tour.ID] = tour
	return nil
}

func (r *fakeTourRepo) UpdateFeatures(ctx context.Context, id uuid.UUID, features BookingFeatures, updatedBy uuid.UUID) error {
	tour, ok := r.tours[id]
	if !ok {
		return ErrTourNotFound
	}
	tour.Features = features
	tour.UpdatedBy = &updatedBy
	return nil
}

func (r *fakeTourRepo) Delete(ctx context.Context, id uuid.UUID) error {
	delete(r.tours, id)
	return nil
}

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

func activeTour(name string) *Tour {
	features := DefaultFeatures()
	return &Tour{
		ID:        uuid.New(),
		Name:      name,
		BasePrice: 100,
		Capacity:  10,
		Status:    StatusActive,
		Features:  features,
	}
}

func TestListToursCachedUntilWrite(t *testing.T) {
	tour := activeTour("Sunset Cruise")
	repo := newFakeTourRepo(tour)
	svc := NewService(repo)
	svc.SetCacheService(newMemoryCache())

	query := TourListQuery{Page: 1, Limit: 10}

	first, err := svc.ListTours(context.Background(), query)
	require.NoError(t, err)
	require.Len(t, first.Tours, 1)

	// Second read is served from the cache.
	second, err := svc.ListTours(context.Background(), query)
	require.NoError(t, err)
	assert.Equal(t, first.TotalCount, second.TotalCount)
	assert.Equal(t, 1, repo.listCalls)

	// Any tour write invalidates every tour key.
	newName := "Sunrise Cruise"
	_, err = svc.UpdateTour(context.Background(), tour.ID, uuid.New(), UpdateTourRequest{Name: &newName})
	require.NoError(t, err)

	_, err = svc.ListTours(context.Background(), query)
	require.NoError(t, err)
	assert.Equal(t, 2, repo.listCalls)
}

func TestLinkedToursCached(t *testing.T) {
	linked := activeTour("Jet Ski Safari")
	main := activeTour("Sunset Cruise")
	main.Features.LinkedTourIDs = []string{linked.ID.String()}

	repo := newFakeTourRepo(main, linked)
	svc := NewService(repo)
	svc.SetCacheService(newMemoryCache())

	first, err := svc.GetLinkedTours(context.Background(), main.ID)
	require.NoError(t, err)
	require.Len(t, first, 1)
	assert.Equal(t, linked.ID, first[0].ID)

	callsAfterFirst := repo.getCalls
	second, err := svc.GetLinkedTours(context.Background(), main.ID)
	require.NoError(t, err)
	require.Len(t, second, 1)
	assert.Equal(t, callsAfterFirst, repo.getCalls, "cached read must not hit the repository")
}

func TestGetTourByIDMissesWithoutCache(t *testing.T) {
	repo := newFakeTourRepo()
	svc := NewService(repo)

	_, err := svc.GetTourByID(context.Background(), uuid.New())
	assert.ErrorIs(t, err, ErrTourNotFound)
}
