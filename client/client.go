// Package client reads single documents from a partitioned document store
// while keeping the caller's session watermark up to date.
package client

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"

	"github.com/creastat/docstore"
	"github.com/creastat/docstore/log"
	"github.com/creastat/docstore/routing"
	"github.com/creastat/docstore/session"
	"github.com/creastat/docstore/wire"
	"go.uber.org/zap"
)

// Doer sends HTTP requests. *http.Client implements it.
type Doer interface {
	Do(req *http.Request) (*http.Response, error)
}

// SessionTokenPolicy decides what happens when a response carries a session
// token that cannot be parsed.
type SessionTokenPolicy string

const (
	// DropWatermark logs the bad token and returns the data; the session
	// keeps its previous watermark.
	DropWatermark SessionTokenPolicy = "drop"
	// FailOnParseError returns the response together with the parse error.
	FailOnParseError SessionTokenPolicy = "fail"
)

// StatusError is returned for responses other than 200 and 304.
type StatusError struct {
	StatusCode int
	ActivityID string
	Body       []byte
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("document read failed with status %d (activity %s)", e.StatusCode, e.ActivityID)
}

// Options configures a Client.
type Options struct {
	// Endpoint is the account endpoint URL.
	Endpoint string
	// AccountID identifies the account whose default consistency applies.
	AccountID string
	// Accounts supplies the account default consistency level.
	Accounts docstore.AccountProvider
	// Doer sends requests. Defaults to http.DefaultClient.
	Doer Doer
	// Routes maps partition keys to range IDs. Optional.
	Routes *routing.RangeMap
	// SessionTokenPolicy defaults to DropWatermark.
	SessionTokenPolicy SessionTokenPolicy
	Logger             *zap.Logger
}

// Client reads documents. It is safe for concurrent use; concurrent reads
// in one session may complete in any order.
type Client struct {
	builder   *wire.Builder
	doer      Doer
	accounts  docstore.AccountProvider
	accountID string
	routes    *routing.RangeMap
	policy    SessionTokenPolicy
	logger    *zap.Logger
}

// Response is the outcome of one read.
type Response struct {
	StatusCode int
	// Body is empty when NotModified is set.
	Body          []byte
	ETag          string
	NotModified   bool
	RequestCharge float64
	ActivityID    string
	// SessionToken is the session watermark after this response was merged.
	SessionToken docstore.SessionToken
	// SessionTokenErr is set when the response's session token could not be
	// parsed and was dropped.
	SessionTokenErr error
}

// Decode unmarshals the document body into v.
func (r *Response) Decode(v any) error {
	return json.Unmarshal(r.Body, v)
}

// New creates a Client.
func New(opts Options) (*Client, error) {
	if opts.Accounts == nil {
		return nil, fmt.Errorf("%w: an account provider is required", docstore.ErrInvalidConfig)
	}

	builder, err := wire.NewBuilder(opts.Endpoint)
	if err != nil {
		return nil, err
	}

	switch opts.SessionTokenPolicy {
	case "":
		opts.SessionTokenPolicy = DropWatermark
	case DropWatermark, FailOnParseError:
	default:
		return nil, fmt.Errorf("%w: unknown session token policy %q", docstore.ErrInvalidConfig, opts.SessionTokenPolicy)
	}

	if opts.Doer == nil {
		opts.Doer = http.DefaultClient
	}

	if opts.Logger == nil {
		opts.Logger = zap.L()
	}

	return &Client{
		builder:   builder,
		doer:      opts.Doer,
		accounts:  opts.Accounts,
		accountID: opts.AccountID,
		routes:    opts.Routes,
		policy:    opts.SessionTokenPolicy,
		logger:    opts.Logger.With(zap.String("account", opts.AccountID)),
	}, nil
}

// Read fetches the document at addr in partition pk. A logger attached to
// ctx with log.WithLogger replaces the client's logger for this read.
//
// sess may be nil for reads that do not take part in a session. When the
// effective consistency level is Session and no token was passed with
// docstore.WithSessionToken, the session's current watermark is attached,
// narrowed to the routed partition key range when routing is configured.
// Negotiation errors are returned before any request is sent.
//
// The session token of every response, including error responses, is merged
// into sess. If that token is unparseable the outcome follows the client's
// SessionTokenPolicy. If the session store fails, the response is returned
// together with the error.
func (c *Client) Read(ctx context.Context, sess *session.Session, addr docstore.DocumentAddress, pk docstore.PartitionKey, opts ...docstore.ReadOption) (*Response, error) {
	logger, ctx := log.LoggerFromContext(ctx, c.logger)
	ctx = log.WithFields(ctx, zap.Stringer("document", addr))
	logger = log.WithContext(ctx, logger).With(zap.String("operation", "Read"))

	if err := addr.Validate(); err != nil {
		return nil, err
	}

	accountDefault, err := c.accounts.DefaultConsistency(ctx, c.accountID)
	if err != nil {
		return nil, fmt.Errorf("could not load account default consistency: %w", err)
	}

	options := docstore.NewReadRequestOptions(pk, opts...)

	var rangeID string
	if c.routes != nil && !pk.IsZero() {
		rangeID = c.routes.Lookup(pk)
	}

	level, err := docstore.Effective(accountDefault, options.ConsistencyLevel)
	if err != nil {
		logger.Debug("negotiation failed", zap.Error(err))

		return nil, err
	}

	if level == docstore.Session && sess != nil && options.SessionToken == nil {
		token, err := sess.Token(ctx)
		if err != nil {
			return nil, fmt.Errorf("could not read session token: %w", err)
		}

		if rangeID != "" {
			token = token.Scope(rangeID)
		}

		options.SessionToken = &token
	}

	req, err := options.Resolve(accountDefault)
	if err != nil {
		logger.Debug("negotiation failed", zap.Error(err))

		return nil, err
	}

	httpReq, err := c.builder.Build(ctx, addr, req, rangeID)
	if err != nil {
		return nil, err
	}

	logger.Debug("sending read",
		zap.Stringer("consistency", req.ConsistencyLevel()),
		zap.String("range", rangeID),
		zap.String("activity", httpReq.Header.Get(wire.HeaderActivityID)))

	httpResp, err := c.doer.Do(httpReq)
	if err != nil {
		return nil, err
	}
	defer httpResp.Body.Close()

	meta := wire.ParseResponse(httpResp)

	resp := &Response{
		StatusCode:    meta.StatusCode,
		ETag:          meta.ETag,
		NotModified:   meta.NotModified,
		RequestCharge: meta.RequestCharge,
		ActivityID:    meta.ActivityID,
	}

	if !meta.NotModified {
		resp.Body, err = io.ReadAll(httpResp.Body)
		if err != nil {
			return nil, fmt.Errorf("could not read response body: %w", err)
		}
	}

	if sess != nil {
		if err := c.observe(ctx, logger, sess, meta.SessionToken, resp); err != nil {
			return resp, err
		}
	}

	if meta.StatusCode != http.StatusOK && !meta.NotModified {
		return resp, &StatusError{StatusCode: meta.StatusCode, ActivityID: meta.ActivityID, Body: resp.Body}
	}

	return resp, nil
}

func (c *Client) observe(ctx context.Context, logger *zap.Logger, sess *session.Session, header string, resp *Response) error {
	token, err := sess.Observe(ctx, header)

	switch {
	case err == nil:
		resp.SessionToken = token
		return nil
	case errors.Is(err, docstore.ErrSessionTokenParse):
		resp.SessionTokenErr = err

		if c.policy == FailOnParseError {
			return err
		}

		logger.Warn("dropping unparseable session token", zap.Error(err))

		// the previous watermark still holds
		resp.SessionToken, err = sess.Token(ctx)
		if err != nil {
			return fmt.Errorf("could not read session token: %w", err)
		}

		return nil
	}

	return fmt.Errorf("could not merge session token: %w", err)
}
