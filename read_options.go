package docstore

// ReadRequestOptions holds the caller's inputs for reading one document.
// The zero value apart from PartitionKey means "use the account default,
// no session state, unconditional read". Options are consumed once by
// Resolve and never mutated by it.
type ReadRequestOptions struct {
	// PartitionKey is mandatory.
	PartitionKey PartitionKey
	// ConsistencyLevel overrides the account default for this request.
	// It may only weaken the guarantee.
	ConsistencyLevel ConsistencyLevel
	// SessionToken is the caller's current session watermark. nil on a cold
	// session.
	SessionToken *SessionToken
	// IfNoneMatch is an entity tag; the document is only returned if it no
	// longer matches.
	IfNoneMatch *string
}

// ReadOption overrides a single field of ReadRequestOptions.
type ReadOption func(*ReadRequestOptions)

// WithConsistencyLevel sets a per-request consistency override.
func WithConsistencyLevel(level ConsistencyLevel) ReadOption {
	return func(o *ReadRequestOptions) {
		o.ConsistencyLevel = level
	}
}

// WithSessionToken sets the session watermark to present.
func WithSessionToken(token SessionToken) ReadOption {
	return func(o *ReadRequestOptions) {
		o.SessionToken = &token
	}
}

// WithIfNoneMatch makes the read conditional on the document having changed
// since etag.
func WithIfNoneMatch(etag string) ReadOption {
	return func(o *ReadRequestOptions) {
		o.IfNoneMatch = &etag
	}
}

// NewReadRequestOptions starts from the default options for pk and applies
// opts in order.
func NewReadRequestOptions(pk PartitionKey, opts ...ReadOption) ReadRequestOptions {
	o := ReadRequestOptions{PartitionKey: pk}

	for _, opt := range opts {
		opt(&o)
	}

	return o
}

// Resolve negotiates the request parameters against the account default.
//
// The effective consistency level is computed by Effective. The session
// token is attached only when the effective level is Session and the
// caller has a non-empty token; a missing token on a cold session is not an
// error. The If-None-Match precondition is carried verbatim regardless of
// consistency. Resolve performs no I/O and returns no descriptor on error.
func (o ReadRequestOptions) Resolve(accountDefault ConsistencyLevel) (ReadRequest, error) {
	if o.PartitionKey.IsZero() {
		return ReadRequest{}, ErrMissingPartitionKey
	}

	level, err := Effective(accountDefault, o.ConsistencyLevel)
	if err != nil {
		return ReadRequest{}, err
	}

	req := ReadRequest{
		partitionKey:   o.PartitionKey,
		level:          level,
		accountDefault: accountDefault,
	}

	if level == Session && o.SessionToken != nil {
		req.sessionToken, req.hasSessionToken = o.SessionToken.HeaderValue()
	}

	if o.IfNoneMatch != nil {
		req.ifNoneMatch = *o.IfNoneMatch
		req.hasIfNoneMatch = true
	}

	return req, nil
}
