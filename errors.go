package docstore

import (
	"errors"
	"fmt"
)

// Common errors for read negotiation and session state.
var (
	ErrConsistencyUpgradeRejected = errors.New("consistency upgrade rejected")
	ErrInvalidConsistencyLevel    = errors.New("invalid consistency level")
	ErrInvalidPartitionKey        = errors.New("invalid partition key")
	ErrMissingPartitionKey        = errors.New("missing partition key")
	ErrInvalidAddress             = errors.New("invalid document address")
	ErrSessionTokenParse          = errors.New("session token parse error")
	ErrAccountNotFound            = errors.New("account not found")
	ErrInvalidConfig              = errors.New("invalid configuration")
)

// ConsistencyUpgradeError is returned when a per-request override asks for a
// stronger guarantee than the account default permits.
type ConsistencyUpgradeError struct {
	Default  ConsistencyLevel
	Override ConsistencyLevel
}

func (e *ConsistencyUpgradeError) Error() string {
	return fmt.Sprintf("%s: override %s is stronger than account default %s",
		ErrConsistencyUpgradeRejected, e.Override, e.Default)
}

func (e *ConsistencyUpgradeError) Unwrap() error {
	return ErrConsistencyUpgradeRejected
}

// PartitionKeyError describes why a partition key could not be constructed.
// Index is -1 when the failure is not tied to a single component.
type PartitionKeyError struct {
	Index  int
	Reason string
}

func (e *PartitionKeyError) Error() string {
	if e.Index < 0 {
		return fmt.Sprintf("%s: %s", ErrInvalidPartitionKey, e.Reason)
	}
	return fmt.Sprintf("%s: component %d: %s", ErrInvalidPartitionKey, e.Index, e.Reason)
}

func (e *PartitionKeyError) Unwrap() error {
	return ErrInvalidPartitionKey
}

// SessionTokenParseError is returned when a session token received from the
// wire (or read back from a session store) cannot be parsed.
type SessionTokenParseError struct {
	Token  string
	Reason string
}

func (e *SessionTokenParseError) Error() string {
	return fmt.Sprintf("%s: %q: %s", ErrSessionTokenParse, e.Token, e.Reason)
}

func (e *SessionTokenParseError) Unwrap() error {
	return ErrSessionTokenParse
}
