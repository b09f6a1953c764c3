package cache

import (
	"context"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"
)

// Blob key prefixes
const (
	PrefixHistory = "history:"
	PrefixDraft   = "draft:"
)

// Drafts expire if untouched; history snapshots are kept until cleared.
const TTLDraft = 7 * 24 * time.Hour

var (
	// ErrUnavailable indicates the backing store cannot be reached (or no
	// client was configured at all)
	ErrUnavailable = errors.New("blob store unavailable")
	// ErrNotFound indicates no blob exists under the key
	ErrNotFound = errors.New("blob not found")
)

// Store is a named-blob persistence service. Callers keep their own
// serialization; the store only moves opaque bytes.
type Store interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, data []byte, ttl time.Duration) error
	Delete(ctx context.Context, key string) error
	IsAvailable() bool
	Ping(ctx context.Context) error
}

// redisStore Redis-backed blob store
type redisStore struct {
	client *redis.Client
}

// NewStore creates a Redis blob store. A nil client yields a store that
// reports ErrUnavailable on every operation, letting callers degrade.
func NewStore(client *redis.Client) Store {
	return &redisStore{client: client}
}

// IsAvailable reports whether a Redis client is configured
func (s *redisStore) IsAvailable() bool {
	return s.client != nil
}

// Ping verifies the Redis connection
func (s *redisStore) Ping(ctx context.Context) error {
	if s.client == nil {
		return ErrUnavailable
	}
	return s.client.Ping(ctx).Err()
}

// Get fetches a blob by key
func (s *redisStore) Get(ctx context.Context, key string) ([]byte, error) {
	if s.client == nil {
		return nil, ErrUnavailable
	}
	data, err := s.client.Get(ctx, key).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return data, nil
}

// Set stores a blob under key. ttl of 0 means no expiry.
func (s *redisStore) Set(ctx context.Context, key string, data []byte, ttl time.Duration) error {
	if s.client == nil {
		return ErrUnavailable
	}
	return s.client.Set(ctx, key, data, ttl).Err()
}

// Delete removes a blob. Deleting a missing key is not an error.
func (s *redisStore) Delete(ctx context.Context, key string) error {
	if s.client == nil {
		return ErrUnavailable
	}
	return s.client.Del(ctx, key).Err()
}

// HistoryKey builds the per-user history blob key
func HistoryKey(userID string) string {
	return PrefixHistory + userID
}

// DraftKey builds the per-user form draft blob key
func DraftKey(userID string) string {
	return PrefixDraft + userID
}
