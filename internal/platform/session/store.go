// Package session holds the ephemeral per-sitting exclusion lists in
// redis. A sitting is bounded by its exclusion set: the IDs already shown
// are appended here and threaded back into the selection engines by the
// HTTP handlers. Nothing in this package is durable; keys expire after a
// period of inactivity and losing one only restarts a sitting.
package session

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

// Store tracks which IDs were already shown in the current sitting.
type Store interface {
	// Members returns the IDs recorded under the given sitting key.
	Members(ctx context.Context, key string) ([]uuid.UUID, error)

	// Add records an ID under the given sitting key and refreshes the
	// key's idle expiry.
	Add(ctx context.Context, key string, id uuid.UUID) error

	// Clear drops the sitting, ending it.
	Clear(ctx context.Context, key string) error
}

// StudyKey is the sitting key for flashcard study, scoped per user and
// topic.
func StudyKey(userID, topicID uuid.UUID) string {
	return fmt.Sprintf("sitting:study:%s:%s", userID, topicID)
}

// NotebookKey is the sitting key for notebook review. The notebook has no
// topic partitioning, so the key is per user only.
func NotebookKey(userID uuid.UUID) string {
	return fmt.Sprintf("sitting:notebook:%s", userID)
}

// RedisStore implements Store over a redis set per sitting.
type RedisStore struct {
	client *redis.Client
	ttl    time.Duration
}

// NewRedisStore creates a redis-backed sitting store. Keys idle longer
// than ttl expire on their own.
func NewRedisStore(client *redis.Client, ttl time.Duration) *RedisStore {
	if client == nil {
		panic("client cannot be nil")
	}

	return &RedisStore{client: client, ttl: ttl}
}

var _ Store = (*RedisStore)(nil)

// Members implements Store.Members.
func (s *RedisStore) Members(ctx context.Context, key string) ([]uuid.UUID, error) {
	raw, err := s.client.SMembers(ctx, key).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to read sitting %q: %w", key, err)
	}

	ids := make([]uuid.UUID, 0, len(raw))
	for _, r := range raw {
		id, err := uuid.Parse(r)
		if err != nil {
			// Skip corrupt members.
			continue
		}
		ids = append(ids, id)
	}

	return ids, nil
}

// Add implements Store.Add.
func (s *RedisStore) Add(ctx context.Context, key string, id uuid.UUID) error {
	pipe := s.client.TxPipeline()
	pipe.SAdd(ctx, key, id.String())
	pipe.Expire(ctx, key, s.ttl)
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("failed to record sitting member %q: %w", key, err)
	}

	return nil
}

// Clear implements Store.Clear.
func (s *RedisStore) Clear(ctx context.Context, key string) error {
	if err := s.client.Del(ctx, key).Err(); err != nil {
		return fmt.Errorf("failed to clear sitting %q: %w", key, err)
	}

	return nil
}
