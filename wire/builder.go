package wire

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"github.com/creastat/docstore"
	"github.com/google/uuid"
)

// Builder turns resolved read requests into HTTP requests against one
// account endpoint.
type Builder struct {
	endpoint *url.URL
}

// NewBuilder creates a Builder for an account endpoint such as
// "https://account.documents.example.com".
func NewBuilder(endpoint string) (*Builder, error) {
	u, err := url.Parse(endpoint)
	if err != nil {
		return nil, fmt.Errorf("%w: endpoint: %v", docstore.ErrInvalidConfig, err)
	}

	if (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return nil, fmt.Errorf("%w: endpoint %q is not an absolute http(s) url", docstore.ErrInvalidConfig, endpoint)
	}

	u.Path = strings.TrimSuffix(u.Path, "/")

	return &Builder{endpoint: u}, nil
}

// Build creates the GET request for addr. rangeID is the partition key range
// the key was routed to, or "" when the caller does not route.
//
// The consistency header is only sent when the effective level differs from
// the account default. The session token and If-None-Match headers are sent
// exactly when the descriptor carries them.
func (b *Builder) Build(ctx context.Context, addr docstore.DocumentAddress, req docstore.ReadRequest, rangeID string) (*http.Request, error) {
	if err := addr.Validate(); err != nil {
		return nil, err
	}

	u := *b.endpoint
	u.Path = u.Path + "/" + addr.ResourceLink()

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
	if err != nil {
		return nil, err
	}

	h := httpReq.Header
	h.Set(HeaderVersion, APIVersion)
	h.Set(HeaderActivityID, uuid.NewString())
	h.Set(HeaderPartitionKey, req.PartitionKey().HeaderValue())

	if rangeID != "" {
		h.Set(HeaderPartitionKeyRangeID, rangeID)
	}

	if req.Overridden() {
		h.Set(HeaderConsistencyLevel, req.ConsistencyLevel().String())
	}

	if token, ok := req.SessionToken(); ok {
		h.Set(HeaderSessionToken, token)
	}

	if etag, ok := req.IfNoneMatch(); ok {
		h.Set(HeaderIfNoneMatch, etag)
	}

	return httpReq, nil
}
