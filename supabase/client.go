package supabase

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/creastat/docstore"
	"github.com/creastat/docstore/log"
	"github.com/supabase-community/supabase-go"
	"go.uber.org/zap"
)

const accountsTable = "database_accounts"

// Config holds Supabase connection configuration
type Config struct {
	URL      string
	APIKey   string
	CacheTTL time.Duration // Default: 5 minutes
	Logger   *zap.Logger
}

// accountQuerier fetches account rows by ID.
type accountQuerier interface {
	queryAccounts(ctx context.Context, accountID string) ([]Account, error)
}

// postgrestQuerier reads accounts through the Supabase REST API.
type postgrestQuerier struct {
	client *supabase.Client
}

func (q *postgrestQuerier) queryAccounts(ctx context.Context, accountID string) ([]Account, error) {
	var accounts []Account
	_, err := q.client.From(accountsTable).
		Select("*", "", false).
		Eq("id", accountID).
		ExecuteTo(&accounts)

	if err != nil {
		return nil, err
	}

	return accounts, nil
}

// Client implements the Store interface using Supabase
type Client struct {
	querier  accountQuerier
	cache    *cache
	cacheTTL time.Duration
	logger   *zap.Logger
}

// cache provides thread-safe caching of account rows
type cache struct {
	mu   sync.RWMutex
	byID map[string]*cacheEntry[*Account]
}

type cacheEntry[T any] struct {
	value     T
	expiresAt time.Time
}

// New creates a new Supabase client
func New(cfg Config) (*Client, error) {
	if cfg.URL == "" {
		return nil, fmt.Errorf("%w: supabase URL is required", docstore.ErrInvalidConfig)
	}
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("%w: supabase API key is required", docstore.ErrInvalidConfig)
	}

	client, err := supabase.NewClient(cfg.URL, cfg.APIKey, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create supabase client: %w", err)
	}

	return newClient(&postgrestQuerier{client: client}, cfg), nil
}

func newClient(querier accountQuerier, cfg Config) *Client {
	if cfg.CacheTTL == 0 {
		cfg.CacheTTL = 5 * time.Minute
	}
	if cfg.Logger == nil {
		cfg.Logger = zap.L()
	}

	return &Client{
		querier:  querier,
		cacheTTL: cfg.CacheTTL,
		logger:   cfg.Logger,
		cache: &cache{
			byID: make(map[string]*cacheEntry[*Account]),
		},
	}
}

// GetAccount retrieves a database account by ID
func (c *Client) GetAccount(ctx context.Context, accountID string) (*Account, error) {
	logger := log.WithContext(ctx, c.logger).With(zap.String("operation", "GetAccount"), zap.String("account", accountID))

	// Check cache first
	if cached := c.getFromCache(accountID); cached != nil {
		return cached.clone(), nil
	}

	logger.Debug("account cache miss")

	accounts, err := c.querier.queryAccounts(ctx, accountID)
	if err != nil {
		return nil, fmt.Errorf("failed to get account: %w", err)
	}

	if len(accounts) == 0 {
		return nil, fmt.Errorf("%w: %s", docstore.ErrAccountNotFound, accountID)
	}

	account := accounts[0]

	c.addToCache(accountID, &account)

	return account.clone(), nil
}

// DefaultConsistency implements docstore.AccountProvider
func (c *Client) DefaultConsistency(ctx context.Context, accountID string) (docstore.ConsistencyLevel, error) {
	account, err := c.GetAccount(ctx, accountID)
	if err != nil {
		return docstore.ConsistencyUnset, err
	}

	level, err := account.DefaultConsistency()
	if err != nil {
		return docstore.ConsistencyUnset, fmt.Errorf("account %s: %w", accountID, err)
	}

	return level, nil
}

// Invalidate drops a cached account so that the next lookup hits Supabase.
func (c *Client) Invalidate(accountID string) {
	c.cache.mu.Lock()
	defer c.cache.mu.Unlock()

	delete(c.cache.byID, accountID)
}

// Close closes the Supabase client
func (c *Client) Close() error {
	// Supabase client doesn't require explicit close
	return nil
}

// getFromCache retrieves an account from cache by ID
func (c *Client) getFromCache(key string) *Account {
	c.cache.mu.RLock()
	defer c.cache.mu.RUnlock()

	if e, ok := c.cache.byID[key]; ok {
		if time.Now().Before(e.expiresAt) {
			return e.value
		}
	}
	return nil
}

// addToCache adds an account to cache
func (c *Client) addToCache(key string, account *Account) {
	c.cache.mu.Lock()
	defer c.cache.mu.Unlock()

	c.cache.byID[key] = &cacheEntry[*Account]{
		value:     account,
		expiresAt: time.Now().Add(c.cacheTTL),
	}
}

// Compile-time check that Client implements Store
var _ Store = (*Client)(nil)
