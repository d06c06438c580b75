package store

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/ecotrip/orchestrator/domain"
)

const (
	// Redis key prefixes
	sessionKeyPrefix  = "session:"
	snapshotKeyPrefix = "snapshot:"
	// Default TTL for session keys (24 hours)
	defaultSessionTTL = 24 * time.Hour
	// Attempts for the WATCH-based read-modify-write before giving up
	maxUpdateRetries = 3
)

// RedisStore implements Store using Redis. Session keys expire after the
// configured TTL and the TTL is refreshed on every read and write; snapshot
// keys never expire.
type RedisStore struct {
	client *redis.Client
	ttl    time.Duration
}

var _ Store = (*RedisStore)(nil)

// NewRedisStore creates a new Redis-backed store.
func NewRedisStore(client *redis.Client, ttl time.Duration) *RedisStore {
	if ttl <= 0 {
		ttl = defaultSessionTTL
	}
	return &RedisStore{
		client: client,
		ttl:    ttl,
	}
}

// Get retrieves a session by ID, returning (nil, nil) when absent.
// Refreshes the TTL on every read.
func (s *RedisStore) Get(ctx context.Context, sessionID string) (*domain.Session, error) {
	key := sessionKeyPrefix + sessionID
	val, err := s.client.Get(ctx, key).Result()
	if err == redis.Nil {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get session: %w", err)
	}

	var session domain.Session
	if err := json.Unmarshal([]byte(val), &session); err != nil {
		return nil, fmt.Errorf("failed to decode session: %w", err)
	}

	// Refresh TTL on read; a failed refresh is not fatal.
	_ = s.client.Expire(ctx, key, s.ttl).Err()

	return &session, nil
}

// Put stores the full session record, replacing any previous one.
func (s *RedisStore) Put(ctx context.Context, session *domain.Session) error {
	data, err := json.Marshal(session)
	if err != nil {
		return fmt.Errorf("failed to encode session: %w", err)
	}

	if err := s.client.Set(ctx, sessionKeyPrefix+session.SessionID, data, s.ttl).Err(); err != nil {
		return fmt.Errorf("failed to put session: %w", err)
	}
	return nil
}

// Update merges the patch into the stored record using WATCH/MULTI/EXEC,
// creating a fresh record when absent, and refreshes last_active. The
// transaction is retried a bounded number of times on write conflict.
func (s *RedisStore) Update(ctx context.Context, sessionID string, patch *Patch) (*domain.Session, error) {
	key := sessionKeyPrefix + sessionID

	var updated *domain.Session
	apply := func(tx *redis.Tx) error {
		session := domain.NewSession(sessionID, "")
		val, err := tx.Get(ctx, key).Result()
		switch {
		case err == redis.Nil:
			// Fresh record
		case err != nil:
			return err
		default:
			session = &domain.Session{}
			if err := json.Unmarshal([]byte(val), session); err != nil {
				return err
			}
		}

		patch.Apply(session)

		data, err := json.Marshal(session)
		if err != nil {
			return err
		}

		_, err = tx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
			pipe.Set(ctx, key, data, s.ttl)
			return nil
		})
		if err != nil {
			return err
		}

		updated = session
		return nil
	}

	var err error
	for i := 0; i < maxUpdateRetries; i++ {
		err = s.client.Watch(ctx, apply, key)
		if err != redis.TxFailedErr {
			break
		}
	}
	if err != nil {
		return nil, fmt.Errorf("failed to update session: %w", err)
	}

	return updated, nil
}

// Delete removes a session record.
func (s *RedisStore) Delete(ctx context.Context, sessionID string) error {
	if err := s.client.Del(ctx, sessionKeyPrefix+sessionID).Err(); err != nil {
		return fmt.Errorf("failed to delete session: %w", err)
	}
	return nil
}

// PutSnapshot stores the snapshot at key without expiry, replacing any
// previous one.
func (s *RedisStore) PutSnapshot(ctx context.Context, key string, snap *domain.Snapshot) error {
	data, err := json.Marshal(snap)
	if err != nil {
		return fmt.Errorf("failed to encode snapshot: %w", err)
	}

	if err := s.client.Set(ctx, snapshotKeyPrefix+key, data, 0).Err(); err != nil {
		return fmt.Errorf("failed to put snapshot: %w", err)
	}
	return nil
}

// GetSnapshot retrieves a snapshot by key, returning (nil, nil) when absent.
func (s *RedisStore) GetSnapshot(ctx context.Context, key string) (*domain.Snapshot, error) {
	val, err := s.client.Get(ctx, snapshotKeyPrefix+key).Result()
	if err == redis.Nil {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get snapshot: %w", err)
	}

	var snap domain.Snapshot
	if err := json.Unmarshal([]byte(val), &snap); err != nil {
		return nil, fmt.Errorf("failed to decode snapshot: %w", err)
	}

	return &snap, nil
}

// Close closes the Redis client.
func (s *RedisStore) Close() error {
	return s.client.Close()
}
