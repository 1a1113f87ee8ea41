package session

import (
	"time"

	"github.com/redis/go-redis/v9"
	bolt "go.etcd.io/bbolt"
	"go.uber.org/zap"
)

const (
	// DefaultRedisTTL is the TTL of redis session keys.
	DefaultRedisTTL = 24 * time.Hour
	// DefaultMaxRetries bounds optimistic merge attempts.
	DefaultMaxRetries = 16
)

// StoreOption is a functional option for configuring a session store.
type StoreOption func(*Config)

// Config holds configuration for session stores.
type Config struct {
	RedisClient *redis.Client
	RedisTTL    time.Duration
	MaxRetries  int
	BoltDB      *bolt.DB
	BoltPath    string
	Logger      *zap.Logger
}

// NewConfig applies opts over the defaults.
func NewConfig(opts ...StoreOption) Config {
	config := Config{
		RedisTTL:   DefaultRedisTTL,
		MaxRetries: DefaultMaxRetries,
	}

	for _, opt := range opts {
		opt(&config)
	}

	if config.RedisTTL <= 0 {
		config.RedisTTL = DefaultRedisTTL
	}
	if config.MaxRetries <= 0 {
		config.MaxRetries = DefaultMaxRetries
	}
	if config.Logger == nil {
		config.Logger = zap.L()
	}

	return config
}

// WithRedisClient sets the Redis client for the Redis store.
func WithRedisClient(client *redis.Client) StoreOption {
	return func(c *Config) {
		c.RedisClient = client
	}
}

// WithRedisTTL sets the TTL for Redis keys.
func WithRedisTTL(ttl time.Duration) StoreOption {
	return func(c *Config) {
		c.RedisTTL = ttl
	}
}

// WithMaxRetries sets how many times a conflicting optimistic merge is
// retried before ErrVersionConflict is returned.
func WithMaxRetries(n int) StoreOption {
	return func(c *Config) {
		c.MaxRetries = n
	}
}

// WithBoltDB uses an already open bbolt database. The store does not close it.
func WithBoltDB(db *bolt.DB) StoreOption {
	return func(c *Config) {
		c.BoltDB = db
	}
}

// WithBoltPath opens (and owns) a bbolt database at path.
func WithBoltPath(path string) StoreOption {
	return func(c *Config) {
		c.BoltPath = path
	}
}

// WithLogger sets the logger.
func WithLogger(logger *zap.Logger) StoreOption {
	return func(c *Config) {
		c.Logger = logger
	}
}
