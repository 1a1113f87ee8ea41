package docstore

import "context"

// AccountProvider supplies account level configuration.
type AccountProvider interface {
	// DefaultConsistency returns the consistency level the account is
	// configured with. Returns ErrAccountNotFound for an unknown account.
	DefaultConsistency(ctx context.Context, accountID string) (ConsistencyLevel, error)
}

// StaticAccount is an AccountProvider that returns the same default for
// every account.
type StaticAccount ConsistencyLevel

// DefaultConsistency implements AccountProvider.
func (s StaticAccount) DefaultConsistency(ctx context.Context, accountID string) (ConsistencyLevel, error) {
	level := ConsistencyLevel(s)
	if !level.IsValid() {
		return ConsistencyUnset, ErrInvalidConsistencyLevel
	}
	return level, nil
}

var _ AccountProvider = StaticAccount(Session)
