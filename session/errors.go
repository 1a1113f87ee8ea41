package session

import (
	"errors"

	"github.com/creastat/docstore"
)

// Common errors for session store operations.
var (
	ErrInvalidConfig    = docstore.ErrInvalidConfig
	ErrInvalidStoreType = errors.New("invalid store type")
	ErrVersionConflict  = errors.New("session version conflict")
	ErrClosed           = errors.New("session store closed")
)
