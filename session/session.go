package session

import (
	"context"
	"strings"

	"github.com/creastat/docstore"
	"github.com/creastat/docstore/log"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// NewID returns a fresh session ID.
func NewID() string {
	return uuid.NewString()
}

// Session is one logical causal chain of reads, e.g. one user session. Its
// watermark lives in a Store so that it can be shared by concurrent readers
// and by several processes.
type Session struct {
	id     string
	store  Store
	logger *zap.Logger
}

// New returns a handle on the session with this ID. An empty ID gets a
// fresh one. A nil logger uses zap.L().
func New(id string, store Store, logger *zap.Logger) *Session {
	if id == "" {
		id = NewID()
	}

	if logger == nil {
		logger = zap.L()
	}

	return &Session{
		id:     id,
		store:  store,
		logger: logger.With(zap.String("session", id)),
	}
}

// ID returns the session ID.
func (s *Session) ID() string {
	return s.id
}

// Token returns a snapshot of the current watermark. A session that has not
// observed any response yet has the empty token.
func (s *Session) Token(ctx context.Context) (docstore.SessionToken, error) {
	record, err := s.store.Get(ctx, s.id)
	if err != nil {
		return docstore.SessionToken{}, err
	}

	if record == nil {
		return docstore.SessionToken{}, nil
	}

	return record.Token, nil
}

// Observe merges the session token header of a response into the session.
// An empty header is a no-op. If the header cannot be parsed a
// *docstore.SessionTokenParseError is returned and the stored watermark is
// left untouched.
func (s *Session) Observe(ctx context.Context, header string) (docstore.SessionToken, error) {
	logger := log.WithContext(ctx, s.logger).With(zap.String("operation", "Observe"))

	if strings.TrimSpace(header) == "" {
		logger.Debug("no session token in response")

		return s.Token(ctx)
	}

	token, err := docstore.ParseSessionToken(header)
	if err != nil {
		logger.Debug("error", zap.Error(err))

		return docstore.SessionToken{}, err
	}

	return s.Merge(ctx, token)
}

// Merge joins token into the session watermark and returns the result.
func (s *Session) Merge(ctx context.Context, token docstore.SessionToken) (docstore.SessionToken, error) {
	logger := log.WithContext(ctx, s.logger).With(zap.String("operation", "Merge"))

	record, err := s.store.Merge(ctx, s.id, token)
	if err != nil {
		logger.Debug("error", zap.Error(err))

		return docstore.SessionToken{}, err
	}

	logger.Debug("merged session token", zap.Int64("version", record.Version), zap.Int("partitions", record.Token.Len()))

	return record.Token, nil
}

// End discards the session watermark.
func (s *Session) End(ctx context.Context) error {
	return s.store.Delete(ctx, s.id)
}
