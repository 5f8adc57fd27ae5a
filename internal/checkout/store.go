package checkout

import (
	"context"
	"errors"
	"time"

	"smartlodge/pkg/cache"
)

// ErrSessionNotFound is returned for unknown or expired session ids.
var ErrSessionNotFound = errors.New("checkout session not found")

// SessionKey is the Redis key holding a session's JSON document.
func SessionKey(sessionID string) string {
	return "checkout:" + sessionID
}

// ConfirmationKey is the Redis key holding the confirmation mirror that
// the success screen reads after the draft is gone.
func ConfirmationKey(sessionID string) string {
	return "checkout:" + sessionID + ":confirmation"
}

// Store persists checkout sessions. Last write wins; sessions expire with
// the configured TTL unless confirmed or abandoned earlier.
type Store interface {
	Save(ctx context.Context, session *CheckoutSession) error
	Get(ctx context.Context, sessionID string) (*CheckoutSession, error)
	Delete(ctx context.Context, sessionID string) error
}

type store struct {
	cache cache.Service
	ttl   time.Duration
}

func NewStore(cacheService cache.Service, ttl time.Duration) Store {
	return &store{
		cache: cacheService,
		ttl:   ttl,
	}
}

func (s *store) Save(ctx context.Context, session *CheckoutSession) error {
	session.UpdatedAt = time.Now()
	return s.cache.Set(ctx, SessionKey(session.ID), session, s.ttl)
}

func (s *store) Get(ctx context.Context, sessionID string) (*CheckoutSession, error) {
	var session CheckoutSession
	if err := s.cache.Get(ctx, SessionKey(sessionID), &session); err != nil {
		if errors.Is(err, cache.ErrCacheMiss) {
			return nil, ErrSessionNotFound
		}
		return nil, err
	}
	return &session, nil
}

func (s *store) Delete(ctx context.Context, sessionID string) error {
	return s.cache.Delete(ctx, SessionKey(sessionID))
}
