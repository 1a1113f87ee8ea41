package supabase

import (
	"context"
	"slices"
	"time"

	"github.com/creastat/docstore"
)

// Store provides access to database account configuration kept in Supabase.
type Store interface {
	docstore.AccountProvider

	// GetAccount retrieves a database account by ID.
	// Returns docstore.ErrAccountNotFound if there is no such account.
	GetAccount(ctx context.Context, accountID string) (*Account, error)

	// Close closes the Supabase client and releases resources
	Close() error
}

// Account represents a database account row
type Account struct {
	ID                      string    `json:"id"`
	Name                    string    `json:"name"`
	Endpoint                string    `json:"endpoint"`
	DefaultConsistencyLevel string    `json:"default_consistency_level"`
	ReadRegions             []string  `json:"read_regions"`
	CreatedAt               time.Time `json:"created_at"`
	UpdatedAt               time.Time `json:"updated_at"`
}

// clone returns a copy that shares nothing with a.
func (a *Account) clone() *Account {
	cp := *a
	cp.ReadRegions = slices.Clone(a.ReadRegions)
	return &cp
}

// DefaultConsistency parses the account's configured default level.
func (a *Account) DefaultConsistency() (docstore.ConsistencyLevel, error) {
	return docstore.ParseConsistencyLevel(a.DefaultConsistencyLevel)
}
