package client

import (
	"fmt"
	"io"
	"time"

	"github.com/creastat/docstore"
	"github.com/creastat/docstore/routing"
	"github.com/creastat/docstore/session"
	"github.com/creastat/docstore/session/drivers"
	"github.com/creastat/docstore/supabase"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
	"gopkg.in/yaml.v2"
)

// Config is the file form of a client setup.
//
//	endpoint: https://account.documents.example.com
//	account_id: acct-1
//	default_consistency: Session
//	partition_key_ranges: 4
//	session_token_policy: drop
//	session_store:
//	  type: redis
//	  redis:
//	    addr: localhost:6379
//	    ttl: 24h
type Config struct {
	Endpoint  string `yaml:"endpoint"`
	AccountID string `yaml:"account_id"`
	// DefaultConsistency is used when no Supabase account source is
	// configured.
	DefaultConsistency string         `yaml:"default_consistency"`
	Supabase           SupabaseConfig `yaml:"supabase"`
	// PartitionKeyRanges splits the hash space uniformly. 0 disables routing.
	PartitionKeyRanges int                `yaml:"partition_key_ranges"`
	SessionTokenPolicy SessionTokenPolicy `yaml:"session_token_policy"`
	SessionStore       SessionStoreConfig `yaml:"session_store"`
}

// SupabaseConfig locates the account configuration table.
type SupabaseConfig struct {
	URL      string        `yaml:"url"`
	APIKey   string        `yaml:"api_key"`
	CacheTTL time.Duration `yaml:"cache_ttl"`
}

// SessionStoreConfig selects and configures the session store driver.
type SessionStoreConfig struct {
	Type       session.StoreType `yaml:"type"`
	MaxRetries int               `yaml:"max_retries"`
	Redis      RedisConfig       `yaml:"redis"`
	BoltPath   string            `yaml:"bolt_path"`
}

// RedisConfig configures the redis session store.
type RedisConfig struct {
	Addr     string        `yaml:"addr"`
	Password string        `yaml:"password"`
	DB       int           `yaml:"db"`
	TTL      time.Duration `yaml:"ttl"`
}

// LoadConfig decodes a YAML configuration.
func LoadConfig(r io.Reader) (Config, error) {
	var cfg Config

	if err := yaml.NewDecoder(r).Decode(&cfg); err != nil {
		return Config{}, fmt.Errorf("%w: %v", docstore.ErrInvalidConfig, err)
	}

	if cfg.SessionStore.Type == "" {
		cfg.SessionStore.Type = session.StoreTypeMemory
	}

	return cfg, cfg.Validate()
}

// Validate checks the configuration without connecting to anything.
func (cfg Config) Validate() error {
	if cfg.Endpoint == "" {
		return fmt.Errorf("%w: endpoint is required", docstore.ErrInvalidConfig)
	}

	if cfg.Supabase.URL == "" {
		if _, err := docstore.ParseConsistencyLevel(cfg.DefaultConsistency); err != nil {
			return fmt.Errorf("%w: default_consistency: %v", docstore.ErrInvalidConfig, err)
		}
	}

	if cfg.PartitionKeyRanges < 0 {
		return fmt.Errorf("%w: partition_key_ranges must not be negative", docstore.ErrInvalidConfig)
	}

	return nil
}

// Accounts returns the account provider described by cfg.
func (cfg Config) Accounts(logger *zap.Logger) (docstore.AccountProvider, error) {
	if cfg.Supabase.URL != "" {
		return supabase.New(supabase.Config{
			URL:      cfg.Supabase.URL,
			APIKey:   cfg.Supabase.APIKey,
			CacheTTL: cfg.Supabase.CacheTTL,
			Logger:   logger,
		})
	}

	level, err := docstore.ParseConsistencyLevel(cfg.DefaultConsistency)
	if err != nil {
		return nil, err
	}

	return docstore.StaticAccount(level), nil
}

// OpenSessionStore creates the session store described by cfg.
func (cfg Config) OpenSessionStore(logger *zap.Logger) (session.Store, error) {
	opts := []session.StoreOption{
		session.WithLogger(logger),
		session.WithMaxRetries(cfg.SessionStore.MaxRetries),
	}

	switch cfg.SessionStore.Type {
	case session.StoreTypeRedis:
		opts = append(opts,
			session.WithRedisClient(redis.NewClient(&redis.Options{
				Addr:     cfg.SessionStore.Redis.Addr,
				Password: cfg.SessionStore.Redis.Password,
				DB:       cfg.SessionStore.Redis.DB,
			})),
			session.WithRedisTTL(cfg.SessionStore.Redis.TTL))
	case session.StoreTypeBolt:
		opts = append(opts, session.WithBoltPath(cfg.SessionStore.BoltPath))
	}

	return drivers.NewStore(cfg.SessionStore.Type, opts...)
}

// NewFromConfig creates a Client and the session store configured for it.
// The caller owns the returned store.
func NewFromConfig(cfg Config, doer Doer, logger *zap.Logger) (*Client, session.Store, error) {
	if err := cfg.Validate(); err != nil {
		return nil, nil, err
	}

	if logger == nil {
		logger = zap.L()
	}

	accounts, err := cfg.Accounts(logger)
	if err != nil {
		return nil, nil, err
	}

	var routes *routing.RangeMap
	if cfg.PartitionKeyRanges > 0 {
		if routes, err = routing.UniformRanges(cfg.PartitionKeyRanges); err != nil {
			return nil, nil, err
		}
	}

	c, err := New(Options{
		Endpoint:           cfg.Endpoint,
		AccountID:          cfg.AccountID,
		Accounts:           accounts,
		Doer:               doer,
		Routes:             routes,
		SessionTokenPolicy: cfg.SessionTokenPolicy,
		Logger:             logger,
	})
	if err != nil {
		return nil, nil, err
	}

	store, err := cfg.OpenSessionStore(logger)
	if err != nil {
		return nil, nil, err
	}

	return c, store, nil
}
