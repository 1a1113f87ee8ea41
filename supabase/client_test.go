package supabase

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/creastat/docstore"
	"go.uber.org/zap/zaptest"
)

type fakeQuerier struct {
	mu       sync.Mutex
	accounts map[string]Account
	calls    int
	err      error
}

func (q *fakeQuerier) queryAccounts(ctx context.Context, accountID string) ([]Account, error) {
	q.mu.Lock()
	defer q.mu.Unlock()

	q.calls++

	if q.err != nil {
		return nil, q.err
	}

	account, ok := q.accounts[accountID]
	if !ok {
		return []Account{}, nil
	}

	return []Account{account}, nil
}

func TestDefaultConsistency(t *testing.T) {
	querier := &fakeQuerier{accounts: map[string]Account{
		"acct-session": {ID: "acct-session", DefaultConsistencyLevel: "Session"},
		"acct-strong":  {ID: "acct-strong", DefaultConsistencyLevel: "strong"},
		"acct-broken":  {ID: "acct-broken", DefaultConsistencyLevel: "Linearizable"},
	}}
	client := newClient(querier, Config{Logger: zaptest.NewLogger(t)})

	testCases := map[string]struct {
		accountID string
		result    docstore.ConsistencyLevel
		err       error
	}{
		"session":       {accountID: "acct-session", result: docstore.Session},
		"strong":        {accountID: "acct-strong", result: docstore.Strong},
		"unknown-level": {accountID: "acct-broken", err: docstore.ErrInvalidConsistencyLevel},
		"missing":       {accountID: "acct-missing", err: docstore.ErrAccountNotFound},
	}

	for name, testCase := range testCases {
		t.Run(name, func(t *testing.T) {
			level, err := client.DefaultConsistency(context.Background(), testCase.accountID)

			if !errors.Is(err, testCase.err) {
				t.Fatalf("expected err to be %#v, got %#v", testCase.err, err)
			}
			if level != testCase.result {
				t.Fatalf("expected %s, got %s", testCase.result, level)
			}
		})
	}
}

func TestAccountCache(t *testing.T) {
	querier := &fakeQuerier{accounts: map[string]Account{
		"acct": {ID: "acct", DefaultConsistencyLevel: "Eventual"},
	}}
	client := newClient(querier, Config{CacheTTL: time.Hour})
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		if _, err := client.GetAccount(ctx, "acct"); err != nil {
			t.Fatalf("expected err to be nil, got %#v", err)
		}
	}

	if querier.calls != 1 {
		t.Fatalf("expected 1 query, got %d", querier.calls)
	}

	client.Invalidate("acct")

	if _, err := client.GetAccount(ctx, "acct"); err != nil {
		t.Fatalf("expected err to be nil, got %#v", err)
	}

	if querier.calls != 2 {
		t.Fatalf("expected 2 queries, got %d", querier.calls)
	}

	// misses are not cached
	for i := 0; i < 2; i++ {
		client.GetAccount(ctx, "other")
	}

	if querier.calls != 4 {
		t.Fatalf("expected 4 queries, got %d", querier.calls)
	}
}

func TestGetAccountReturnsCopy(t *testing.T) {
	querier := &fakeQuerier{accounts: map[string]Account{
		"acct": {ID: "acct", DefaultConsistencyLevel: "Eventual", ReadRegions: []string{"west"}},
	}}
	client := newClient(querier, Config{CacheTTL: time.Hour})
	ctx := context.Background()

	// the first call fills the cache, the second is served from it
	for i := 0; i < 2; i++ {
		account, err := client.GetAccount(ctx, "acct")
		if err != nil {
			t.Fatalf("expected err to be nil, got %#v", err)
		}

		account.DefaultConsistencyLevel = "Strong"
		account.ReadRegions[0] = "east"
	}

	level, err := client.DefaultConsistency(ctx, "acct")
	if err != nil {
		t.Fatalf("expected err to be nil, got %#v", err)
	}
	if level != docstore.Eventual {
		t.Fatalf("expected the cached account to stay Eventual, got %s", level)
	}

	account, _ := client.GetAccount(ctx, "acct")
	if account.ReadRegions[0] != "west" {
		t.Fatalf("expected cached read regions to be unchanged, got %v", account.ReadRegions)
	}

	if querier.calls != 1 {
		t.Fatalf("expected 1 query, got %d", querier.calls)
	}
}

func TestAccountCacheExpiry(t *testing.T) {
	querier := &fakeQuerier{accounts: map[string]Account{
		"acct": {ID: "acct", DefaultConsistencyLevel: "Eventual"},
	}}
	client := newClient(querier, Config{CacheTTL: time.Nanosecond})

	client.GetAccount(context.Background(), "acct")
	time.Sleep(time.Millisecond)
	client.GetAccount(context.Background(), "acct")

	if querier.calls != 2 {
		t.Fatalf("expected an expired entry to be refetched, got %d queries", querier.calls)
	}
}

func TestQueryError(t *testing.T) {
	boom := errors.New("boom")
	client := newClient(&fakeQuerier{err: boom}, Config{})

	if _, err := client.DefaultConsistency(context.Background(), "acct"); !errors.Is(err, boom) {
		t.Fatalf("expected wrapped query error, got %#v", err)
	}
}

func TestNewRequiresConfig(t *testing.T) {
	if _, err := New(Config{APIKey: "k"}); !errors.Is(err, docstore.ErrInvalidConfig) {
		t.Fatalf("expected ErrInvalidConfig, got %#v", err)
	}
	if _, err := New(Config{URL: "https://example.supabase.co"}); !errors.Is(err, docstore.ErrInvalidConfig) {
		t.Fatalf("expected ErrInvalidConfig, got %#v", err)
	}
}
