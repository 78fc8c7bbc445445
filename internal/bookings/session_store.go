package bookings

import (
	"context"
	"errors"
	"fmt"
	"time"

	"charterly/internal/shared/constants"
	"charterly/pkg/cache"

	"github.com/google/uuid"
)

// SessionStore keeps in-progress booking sessions in Redis so the workflow
// survives across stateless API requests. Sessions expire after the
// configured TTL; an expired session means the customer starts over.
type SessionStore interface {
	Create(ctx context.Context, session *Session) error
	Get(ctx context.Context, id string) (*Session, error)
	Save(ctx context.Context, session *Session) error
	Delete(ctx context.Context, id string) error
}

type sessionStore struct {
	cache cache.Service
	ttl   time.Duration
}

func NewSessionStore(cacheService cache.Service, ttl time.Duration) SessionStore {
	return &sessionStore{cache: cacheService, ttl: ttl}
}

func (s *sessionStore) Create(ctx context.Context, session *Session) error {
	if session.ID == "" {
		session.ID = uuid.NewString()
	}
	return s.Save(ctx, session)
}

func (s *sessionStore) Get(ctx context.Context, id string) (*Session, error) {
	var session Session
	key := fmt.Sprintf(constants.KeyBookingSession, id)
	if err := s.cache.Get(ctx, key, &session); err != nil {
		if errors.Is(err, cache.ErrCacheMiss) {
			return nil, ErrSessionNotFound
		}
		return nil, err
	}
	return &session, nil
}

// Save rewrites the session and refreshes its TTL, so an active customer
// keeps their session alive.
func (s *sessionStore) Save(ctx context.Context, session *Session) error {
	key := fmt.Sprintf(constants.KeyBookingSession, session.ID)
	return s.cache.Set(ctx, key, session, s.ttl)
}

func (s *sessionStore) Delete(ctx context.Context, id string) error {
	return s.cache.Delete(ctx, fmt.Sprintf(constants.KeyBookingSession, id))
}
