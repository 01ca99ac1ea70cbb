package booking

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// Store persists wizard selections in Redis, one JSON blob per session.
type Store struct {
	redis *redis.Client
	ttl   time.Duration
}

// NewStore creates a selection store. Entries expire after ttl so abandoned
// sessions clean themselves up; ttl <= 0 means no expiry.
func NewStore(redisClient *redis.Client, ttl time.Duration) *Store {
	return &Store{redis: redisClient, ttl: ttl}
}

func (s *Store) key(sessionID string) string {
	return fmt.Sprintf("booking:selection:%s", sessionID)
}

// Load retrieves the session's selection, returning a fresh one if none is
// stored yet.
func (s *Store) Load(ctx context.Context, sessionID string) (*Selection, error) {
	data, err := s.redis.Get(ctx, s.key(sessionID)).Bytes()
	if err == redis.Nil {
		return NewSelection(), nil
	}
	if err != nil {
		return nil, fmt.Errorf("booking: load selection: %w", err)
	}

	var sel Selection
	if err := json.Unmarshal(data, &sel); err != nil {
		return nil, fmt.Errorf("booking: unmarshal selection: %w", err)
	}
	return &sel, nil
}

// Save writes the selection back, refreshing the TTL.
func (s *Store) Save(ctx context.Context, sessionID string, sel *Selection) error {
	data, err := json.Marshal(sel)
	if err != nil {
		return fmt.Errorf("booking: marshal selection: %w", err)
	}
	if err := s.redis.Set(ctx, s.key(sessionID), data, s.ttl).Err(); err != nil {
		return fmt.Errorf("booking: save selection: %w", err)
	}
	return nil
}

// Delete removes the session's selection entirely.
func (s *Store) Delete(ctx context.Context, sessionID string) error {
	if err := s.redis.Del(ctx, s.key(sessionID)).Err(); err != nil {
		return fmt.Errorf("booking: delete selection: %w", err)
	}
	return nil
}
