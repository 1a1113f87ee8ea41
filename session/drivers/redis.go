package drivers

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/creastat/docstore"
	"github.com/creastat/docstore/log"
	"github.com/creastat/docstore/session"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

const (
	// Redis key prefix for sessions
	sessionKeyPrefix = "session:"
)

// RedisStore implements session.Store using Redis. Merges run as an
// optimistic WATCH/MULTI/EXEC loop so that several processes can share one
// session watermark.
type RedisStore struct {
	client     *redis.Client
	ttl        time.Duration
	maxRetries int
	logger     *zap.Logger
}

// NewRedisStore creates a new Redis-based session store.
func NewRedisStore(client *redis.Client, opts ...session.StoreOption) *RedisStore {
	config := session.NewConfig(opts...)

	return &RedisStore{
		client:     client,
		ttl:        config.RedisTTL,
		maxRetries: config.MaxRetries,
		logger:     config.Logger.With(zap.String("store", string(session.StoreTypeRedis))),
	}
}

// Get implements session.Store.
// Returns nil if the session is not found (not an error).
// Refreshes TTL on every read.
func (s *RedisStore) Get(ctx context.Context, id string) (*session.Record, error) {
	key := s.key(id)
	val, err := s.client.Get(ctx, key).Bytes()
	if err == redis.Nil {
		return nil, nil // Not found
	}
	if err != nil {
		return nil, err
	}

	var record session.Record
	if err := json.Unmarshal(val, &record); err != nil {
		return nil, err
	}

	// Refresh TTL on read
	if err := s.client.Expire(ctx, key, s.ttl).Err(); err != nil {
		log.WithContext(ctx, s.logger).Debug("could not refresh session ttl", zap.String("key", key), zap.Error(err))
	}

	return &record, nil
}

// Merge implements session.Store.
// Concurrent merges on the same key make WATCH fail the transaction; the
// merge is then recomputed from the new stored value. Token merges commute,
// so the order in which writers win does not matter. Returns
// session.ErrVersionConflict once the retry budget is spent.
func (s *RedisStore) Merge(ctx context.Context, id string, token docstore.SessionToken) (*session.Record, error) {
	logger := log.WithContext(ctx, s.logger).With(zap.String("operation", "Merge"), zap.String("session", id))
	key := s.key(id)

	for attempt := 0; attempt < s.maxRetries; attempt++ {
		var result *session.Record

		err := s.client.Watch(ctx, func(tx *redis.Tx) error {
			record, err := s.load(ctx, tx, key)
			if err != nil {
				return err
			}

			now := time.Now()

			if record == nil {
				record = session.NewRecord(id, token, now)
			} else if !record.Apply(token, now) {
				result = record
				return nil
			}

			val, err := json.Marshal(record)
			if err != nil {
				return err
			}

			_, err = tx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
				pipe.Set(ctx, key, val, s.ttl)
				return nil
			})
			if err != nil {
				return err
			}

			result = record
			return nil
		}, key)

		if errors.Is(err, redis.TxFailedErr) {
			logger.Debug("optimistic merge conflict, retrying", zap.Int("attempt", attempt+1))
			continue
		}
		if err != nil {
			return nil, err
		}

		return result, nil
	}

	logger.Warn("gave up merging session token", zap.Int("attempts", s.maxRetries))

	return nil, session.ErrVersionConflict
}

func (s *RedisStore) load(ctx context.Context, tx *redis.Tx, key string) (*session.Record, error) {
	val, err := tx.Get(ctx, key).Bytes()
	if err == redis.Nil {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	var record session.Record
	if err := json.Unmarshal(val, &record); err != nil {
		return nil, err
	}

	return &record, nil
}

// Delete implements session.Store.
func (s *RedisStore) Delete(ctx context.Context, id string) error {
	return s.client.Del(ctx, s.key(id)).Err()
}

// Close implements session.Store.
func (s *RedisStore) Close() error {
	return s.client.Close()
}

// key constructs the Redis key for a session ID.
func (s *RedisStore) key(id string) string {
	return sessionKeyPrefix + id
}

var _ session.Store = (*RedisStore)(nil)
