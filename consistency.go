package docstore

import (
	"fmt"
	"strings"
)

// ConsistencyLevel is a guarantee strength supported by the store.
// The zero value means "unset" and is only meaningful as an absent override.
type ConsistencyLevel int

// Levels are declared weakest first so that a larger value is a stronger
// guarantee.
const (
	ConsistencyUnset ConsistencyLevel = iota
	Eventual
	ConsistentPrefix
	Session
	BoundedStaleness
	Strong
)

var consistencyNames = map[ConsistencyLevel]string{
	Eventual:         "Eventual",
	ConsistentPrefix: "ConsistentPrefix",
	Session:          "Session",
	BoundedStaleness: "BoundedStaleness",
	Strong:           "Strong",
}

// ParseConsistencyLevel parses a wire name, ignoring case.
func ParseConsistencyLevel(s string) (ConsistencyLevel, error) {
	for level, name := range consistencyNames {
		if strings.EqualFold(name, strings.TrimSpace(s)) {
			return level, nil
		}
	}
	return ConsistencyUnset, fmt.Errorf("%w: %q", ErrInvalidConsistencyLevel, s)
}

// String returns the wire name of the level.
func (c ConsistencyLevel) String() string {
	if name, ok := consistencyNames[c]; ok {
		return name
	}
	if c == ConsistencyUnset {
		return "Unset"
	}
	return fmt.Sprintf("ConsistencyLevel(%d)", int(c))
}

// IsValid reports whether c is one of the five defined levels.
func (c ConsistencyLevel) IsValid() bool {
	_, ok := consistencyNames[c]
	return ok
}

// IsSet reports whether c carries a value.
func (c ConsistencyLevel) IsSet() bool {
	return c != ConsistencyUnset
}

// Compare returns -1, 0 or 1 when c is weaker than, as strong as, or
// stronger than o.
func (c ConsistencyLevel) Compare(o ConsistencyLevel) int {
	switch {
	case c < o:
		return -1
	case c > o:
		return 1
	}
	return 0
}

// StrongerThan reports whether c is a strictly stronger guarantee than o.
func (c ConsistencyLevel) StrongerThan(o ConsistencyLevel) bool {
	return c.Compare(o) > 0
}

// MarshalText implements encoding.TextMarshaler.
func (c ConsistencyLevel) MarshalText() ([]byte, error) {
	if !c.IsValid() {
		return nil, fmt.Errorf("%w: %d", ErrInvalidConsistencyLevel, int(c))
	}
	return []byte(c.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (c *ConsistencyLevel) UnmarshalText(text []byte) error {
	level, err := ParseConsistencyLevel(string(text))
	if err != nil {
		return err
	}
	*c = level
	return nil
}

// Effective returns the consistency level that applies to one request.
//
// An unset override yields the account default. An override that is weaker
// than or equal to the default is honoured as is. An override stronger than
// the default is rejected locally with a *ConsistencyUpgradeError.
func Effective(accountDefault, override ConsistencyLevel) (ConsistencyLevel, error) {
	if !accountDefault.IsValid() {
		return ConsistencyUnset, fmt.Errorf("%w: account default %s", ErrInvalidConsistencyLevel, accountDefault)
	}
	if !override.IsSet() {
		return accountDefault, nil
	}
	if !override.IsValid() {
		return ConsistencyUnset, fmt.Errorf("%w: override %s", ErrInvalidConsistencyLevel, override)
	}
	if override.StrongerThan(accountDefault) {
		return ConsistencyUnset, &ConsistencyUpgradeError{Default: accountDefault, Override: override}
	}
	return override, nil
}
