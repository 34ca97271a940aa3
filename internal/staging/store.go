// Package staging keeps in-progress purchases in Redis, keyed by the buyer's
// session. A staged selection never holds seats; it is a private scratchpad
// that only becomes visible to the rest of the system at commit time.
package staging

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/cankorkmaz/cinegrid/internal/domain"
	"github.com/redis/go-redis/v9"
)

// DefaultTTL bounds how long an abandoned staging record lingers. Expiry
// needs no seat cleanup because staged seats were never held.
const DefaultTTL = 30 * time.Minute

type RedisStore struct {
	redis redis.UniversalClient
	ttl   time.Duration
}

func NewRedisStore(client redis.UniversalClient, ttl time.Duration) *RedisStore {
	if ttl <= 0 {
		ttl = DefaultTTL
	}

	return &RedisStore{
		redis: client,
		ttl:   ttl,
	}
}

// Put stores the staging record for a session, overwriting any prior
// unconsummated one.
func (s *RedisStore) Put(ctx context.Context, sessionID string, staging *domain.Staging) error {
	payload, err := json.Marshal(staging)
	if err != nil {
		return fmt.Errorf("failed to marshal staging record: %w", err)
	}

	err = s.redis.Set(ctx, stagingKey(sessionID), payload, s.ttl).Err()
	if err != nil {
		return fmt.Errorf("failed to store staging record: %w", err)
	}

	return nil
}

func (s *RedisStore) Get(ctx context.Context, sessionID string) (*domain.Staging, error) {
	payload, err := s.redis.Get(ctx, stagingKey(sessionID)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, domain.ErrStagingNotFound
		}

		return nil, fmt.Errorf("failed to fetch staging record: %w", err)
	}

	var staging domain.Staging

	err = json.Unmarshal(payload, &staging)
	if err != nil {
		return nil, fmt.Errorf("failed to unmarshal staging record: %w", err)
	}

	return &staging, nil
}

// Delete drops the staging record. Deleting a missing record is a no-op so
// discard can be retried freely.
func (s *RedisStore) Delete(ctx context.Context, sessionID string) error {
	return s.redis.Del(ctx, stagingKey(sessionID)).Err()
}

func stagingKey(sessionID string) string {
	return fmt.Sprintf("staging:%s", sessionID)
}
