package docstore

// ReadRequest is the resolved, immutable descriptor of one document read,
// ready to be mapped onto transport headers.
type ReadRequest struct {
	partitionKey    PartitionKey
	level           ConsistencyLevel
	accountDefault  ConsistencyLevel
	sessionToken    string
	hasSessionToken bool
	ifNoneMatch     string
	hasIfNoneMatch  bool
}

// PartitionKey returns the routing key.
func (r ReadRequest) PartitionKey() PartitionKey {
	return r.partitionKey
}

// ConsistencyLevel returns the effective consistency level.
func (r ReadRequest) ConsistencyLevel() ConsistencyLevel {
	return r.level
}

// Overridden reports whether the effective level differs from the account
// default, in which case it has to be sent explicitly.
func (r ReadRequest) Overridden() bool {
	return r.level != r.accountDefault
}

// SessionToken returns the session header value, if one is attached.
func (r ReadRequest) SessionToken() (string, bool) {
	return r.sessionToken, r.hasSessionToken
}

// IfNoneMatch returns the conditional precondition, if one is attached.
func (r ReadRequest) IfNoneMatch() (string, bool) {
	return r.ifNoneMatch, r.hasIfNoneMatch
}
