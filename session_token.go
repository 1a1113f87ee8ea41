package docstore

import (
	"sort"
	"strconv"
	"strings"
	"unicode"
)

const (
	segmentSeparator  = ","
	sequenceSeparator = ":"
)

// SessionToken records the highest sequence number observed per partition.
// It is immutable: Merge and Scope return new tokens. The zero value is the
// empty token and the identity element of Merge.
type SessionToken struct {
	seqs map[string]int64
}

// NewSessionToken builds a token from a partition to sequence number map.
// Negative sequence numbers and invalid partition ids are rejected.
func NewSessionToken(seqs map[string]int64) (SessionToken, error) {
	if len(seqs) == 0 {
		return SessionToken{}, nil
	}

	cp := make(map[string]int64, len(seqs))

	for partition, seq := range seqs {
		if reason := checkPartitionID(partition); reason != "" {
			return SessionToken{}, &SessionTokenParseError{Token: partition, Reason: reason}
		}
		if seq < 0 {
			return SessionToken{}, &SessionTokenParseError{Token: partition, Reason: "negative sequence number"}
		}
		cp[partition] = seq
	}

	return SessionToken{seqs: cp}, nil
}

// ParseSessionToken parses the wire form "p1:3,p2:7". The empty string is
// the empty token. A partition repeated within one value keeps its largest
// sequence number.
func ParseSessionToken(s string) (SessionToken, error) {
	s = strings.TrimSpace(s)

	if s == "" {
		return SessionToken{}, nil
	}

	seqs := make(map[string]int64)

	for _, segment := range strings.Split(s, segmentSeparator) {
		segment = strings.TrimSpace(segment)

		i := strings.LastIndex(segment, sequenceSeparator)
		if i < 0 {
			return SessionToken{}, &SessionTokenParseError{Token: s, Reason: "segment " + strconv.Quote(segment) + " has no sequence number"}
		}

		partition, rawSeq := segment[:i], segment[i+1:]

		if reason := checkPartitionID(partition); reason != "" {
			return SessionToken{}, &SessionTokenParseError{Token: s, Reason: reason}
		}

		seq, err := strconv.ParseInt(rawSeq, 10, 64)
		if err != nil || seq < 0 {
			return SessionToken{}, &SessionTokenParseError{Token: s, Reason: "invalid sequence number " + strconv.Quote(rawSeq)}
		}

		if cur, ok := seqs[partition]; !ok || seq > cur {
			seqs[partition] = seq
		}
	}

	return SessionToken{seqs: seqs}, nil
}

func checkPartitionID(partition string) string {
	if partition == "" {
		return "empty partition id"
	}
	if strings.ContainsAny(partition, segmentSeparator+sequenceSeparator) {
		return "partition id " + strconv.Quote(partition) + " contains a separator"
	}
	if strings.IndexFunc(partition, unicode.IsSpace) >= 0 {
		return "partition id " + strconv.Quote(partition) + " contains whitespace"
	}
	return ""
}

// Merge joins two tokens: every partition present in either keeps the larger
// sequence number. Merge is commutative, associative and idempotent, and
// never fails.
func (t SessionToken) Merge(o SessionToken) SessionToken {
	if len(o.seqs) == 0 {
		return t
	}
	if len(t.seqs) == 0 {
		return o
	}

	merged := make(map[string]int64, len(t.seqs)+len(o.seqs))

	for partition, seq := range t.seqs {
		merged[partition] = seq
	}

	for partition, seq := range o.seqs {
		if cur, ok := merged[partition]; !ok || seq > cur {
			merged[partition] = seq
		}
	}

	return SessionToken{seqs: merged}
}

// Get returns the sequence number observed for a partition.
func (t SessionToken) Get(partition string) (int64, bool) {
	seq, ok := t.seqs[partition]
	return seq, ok
}

// Len returns the number of partitions in the token.
func (t SessionToken) Len() int {
	return len(t.seqs)
}

// IsEmpty reports whether the token carries no watermark.
func (t SessionToken) IsEmpty() bool {
	return len(t.seqs) == 0
}

// Partitions returns the partition ids in sorted order.
func (t SessionToken) Partitions() []string {
	partitions := make([]string, 0, len(t.seqs))

	for partition := range t.seqs {
		partitions = append(partitions, partition)
	}

	sort.Strings(partitions)

	return partitions
}

// Map returns a copy of the token contents.
func (t SessionToken) Map() map[string]int64 {
	cp := make(map[string]int64, len(t.seqs))

	for partition, seq := range t.seqs {
		cp[partition] = seq
	}

	return cp
}

// Equal reports whether both tokens hold the same watermarks.
func (t SessionToken) Equal(o SessionToken) bool {
	if len(t.seqs) != len(o.seqs) {
		return false
	}

	for partition, seq := range t.seqs {
		if other, ok := o.seqs[partition]; !ok || other != seq {
			return false
		}
	}

	return true
}

// Scope narrows the token to a single partition when the token has an entry
// for it. Otherwise the whole token is returned, since the store resolves
// unknown partitions itself.
func (t SessionToken) Scope(partition string) SessionToken {
	seq, ok := t.seqs[partition]
	if !ok {
		return t
	}
	return SessionToken{seqs: map[string]int64{partition: seq}}
}

// HeaderValue returns the wire form of the token, or false for an empty
// token so that no empty header is ever attached.
func (t SessionToken) HeaderValue() (string, bool) {
	if t.IsEmpty() {
		return "", false
	}
	return t.String(), true
}

// String returns the wire form with partitions in sorted order.
func (t SessionToken) String() string {
	var b strings.Builder

	for i, partition := range t.Partitions() {
		if i > 0 {
			b.WriteString(segmentSeparator)
		}
		b.WriteString(partition)
		b.WriteString(sequenceSeparator)
		b.WriteString(strconv.FormatInt(t.seqs[partition], 10))
	}

	return b.String()
}

// MarshalText implements encoding.TextMarshaler.
func (t SessionToken) MarshalText() ([]byte, error) {
	return []byte(t.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (t *SessionToken) UnmarshalText(text []byte) error {
	parsed, err := ParseSessionToken(string(text))
	if err != nil {
		return err
	}
	*t = parsed
	return nil
}
