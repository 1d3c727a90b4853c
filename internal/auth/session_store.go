package auth

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"medtracker/internal/cache"
)

const sessionKeyPrefix = "session:"

// SessionStoreInterface defines the interface for session storage operations.
type SessionStoreInterface interface {
	Save(ctx context.Context, sess *Session) error
	Get(ctx context.Context, id string) (*Session, error)
	Delete(ctx context.Context, id string) error
}

// SessionStore keeps sessions in Redis, one key per session, expiring with it.
type SessionStore struct {
	cache *cache.Client
}

// Ensure SessionStore implements SessionStoreInterface
var _ SessionStoreInterface = (*SessionStore)(nil)

// NewSessionStore creates a new session store.
func NewSessionStore(cache *cache.Client) *SessionStore {
	return &SessionStore{cache: cache}
}

// Save stores the session until its expiry.
func (s *SessionStore) Save(ctx context.Context, sess *Session) error {
	ttl := time.Until(sess.ExpiresAt)
	if ttl <= 0 {
		return fmt.Errorf("session %s already expired", sess.ID)
	}

	payload, err := json.Marshal(sess)
	if err != nil {
		return fmt.Errorf("marshal session: %w", err)
	}
	if err := s.cache.Set(ctx, sessionKeyPrefix+sess.ID, payload, ttl); err != nil {
		return fmt.Errorf("store session: %w", err)
	}
	return nil
}

// Get returns the session, or nil without error when it does not exist.
func (s *SessionStore) Get(ctx context.Context, id string) (*Session, error) {
	data, err := s.cache.Get(ctx, sessionKeyPrefix+id)
	if err != nil || data == nil {
		return nil, err
	}

	var sess Session
	if err := json.Unmarshal(data, &sess); err != nil {
		return nil, fmt.Errorf("unmarshal session: %w", err)
	}
	return &sess, nil
}

// Delete removes a session. Deleting an unknown session is a no-op.
func (s *SessionStore) Delete(ctx context.Context, id string) error {
	return s.cache.Delete(ctx, sessionKeyPrefix+id)
}
