package drivers

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/creastat/docstore"
	"github.com/creastat/docstore/session"
	bolt "go.etcd.io/bbolt"
)

var sessionsBucket = []byte("sessions")

// BoltStore implements session.Store on a local bbolt file, for sessions
// that must survive a process restart without a shared server. bbolt runs
// one read-write transaction at a time, which makes Merge atomic.
type BoltStore struct {
	db     *bolt.DB
	ownsDB bool
}

// NewBoltStore creates a bbolt-backed session store on an open database.
func NewBoltStore(db *bolt.DB) (*BoltStore, error) {
	err := db.Update(func(tx *bolt.Tx) error {
		_, err := tx.CreateBucketIfNotExists(sessionsBucket)
		return err
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create sessions bucket: %w", err)
	}

	return &BoltStore{db: db}, nil
}

// OpenBoltStore opens the database file at path and creates a store that
// closes it on Close.
func OpenBoltStore(path string) (*BoltStore, error) {
	db, err := bolt.Open(path, 0600, &bolt.Options{Timeout: time.Second})
	if err != nil {
		return nil, fmt.Errorf("failed to open bolt database: %w", err)
	}

	store, err := NewBoltStore(db)
	if err != nil {
		db.Close()
		return nil, err
	}

	store.ownsDB = true

	return store, nil
}

// Get implements session.Store.
// Returns nil if the session is not found (not an error).
func (s *BoltStore) Get(ctx context.Context, id string) (*session.Record, error) {
	var record *session.Record

	err := s.db.View(func(tx *bolt.Tx) error {
		var err error
		record, err = getRecord(tx, id)
		return err
	})
	if err != nil {
		return nil, err
	}

	return record, nil
}

// Merge implements session.Store.
func (s *BoltStore) Merge(ctx context.Context, id string, token docstore.SessionToken) (*session.Record, error) {
	var record *session.Record

	err := s.db.Update(func(tx *bolt.Tx) error {
		stored, err := getRecord(tx, id)
		if err != nil {
			return err
		}

		now := time.Now()

		if stored == nil {
			stored = session.NewRecord(id, token, now)
		} else if !stored.Apply(token, now) {
			record = stored
			return nil
		}

		val, err := json.Marshal(stored)
		if err != nil {
			return err
		}

		if err := tx.Bucket(sessionsBucket).Put([]byte(id), val); err != nil {
			return err
		}

		record = stored
		return nil
	})
	if err != nil {
		return nil, err
	}

	return record, nil
}

func getRecord(tx *bolt.Tx, id string) (*session.Record, error) {
	// val is only valid for the life of the transaction
	val := tx.Bucket(sessionsBucket).Get([]byte(id))
	if val == nil {
		return nil, nil
	}

	var record session.Record
	if err := json.Unmarshal(val, &record); err != nil {
		return nil, err
	}

	return &record, nil
}

// Delete implements session.Store.
func (s *BoltStore) Delete(ctx context.Context, id string) error {
	return s.db.Update(func(tx *bolt.Tx) error {
		return tx.Bucket(sessionsBucket).Delete([]byte(id))
	})
}

// Close implements session.Store.
func (s *BoltStore) Close() error {
	if !s.ownsDB {
		return nil
	}
	return s.db.Close()
}

var _ session.Store = (*BoltStore)(nil)
