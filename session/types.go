package session

import (
	"time"

	"github.com/creastat/docstore"
)

// StoreType represents the type of session store.
type StoreType string

const (
	StoreTypeMemory StoreType = "memory"
	StoreTypeRedis  StoreType = "redis"
	StoreTypeBolt   StoreType = "bolt"
)

// Record is the persisted state of one logical session.
// Token is serialized in its wire form.
type Record struct {
	ID        string                `json:"id"`
	Token     docstore.SessionToken `json:"token"`
	Version   int64                 `json:"version"` // Monotonically increasing, bumped on every token change
	CreatedAt time.Time             `json:"created_at"`
	UpdatedAt time.Time             `json:"updated_at"`
}

// NewRecord returns the first version of a session record.
func NewRecord(id string, token docstore.SessionToken, now time.Time) *Record {
	return &Record{
		ID:        id,
		Token:     token,
		Version:   1,
		CreatedAt: now,
		UpdatedAt: now,
	}
}

// Apply merges token into r and reports whether the stored token changed.
func (r *Record) Apply(token docstore.SessionToken, now time.Time) bool {
	merged := r.Token.Merge(token)

	if merged.Equal(r.Token) {
		return false
	}

	r.Token = merged
	r.Version++
	r.UpdatedAt = now

	return true
}
