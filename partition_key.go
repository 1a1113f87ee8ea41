package docstore

import (
	"bytes"
	"encoding/binary"
	"encoding/json"
	"fmt"
	"math"
	"unicode/utf8"

	"github.com/cespare/xxhash/v2"
)

// PartitionKeyFormatVersion is the leading byte of every canonical form.
const PartitionKeyFormatVersion byte = 0x01

// maxSafeInteger is the largest integer a float64 represents exactly.
const maxSafeInteger = 1 << 53

// Type markers of the canonical form. Their numeric order is the
// cross-type sort order of component values.
const (
	markerFalse  byte = 0x02
	markerTrue   byte = 0x03
	markerNumber byte = 0x05
	markerString byte = 0x08
)

type componentKind uint8

const (
	kindString componentKind = iota + 1
	kindNumber
	kindBool
)

type component struct {
	kind componentKind
	str  string
	num  float64
	b    bool
}

// PartitionKey is an ordered sequence of scalar values that selects one
// logical partition. It is immutable; the zero value is not a valid key.
type PartitionKey struct {
	components []component
	canonical  string
}

// NewPartitionKey builds a key from string, bool, integer and floating point
// values. Integers and floats are the same logical number when equal, so 1
// and 1.0 produce the same key.
func NewPartitionKey(values ...any) (PartitionKey, error) {
	if len(values) == 0 {
		return PartitionKey{}, &PartitionKeyError{Index: -1, Reason: "no components"}
	}

	components := make([]component, len(values))

	for i, v := range values {
		c, err := toComponent(v)
		if err != nil {
			return PartitionKey{}, &PartitionKeyError{Index: i, Reason: err.Error()}
		}
		components[i] = c
	}

	return PartitionKey{
		components: components,
		canonical:  string(encodeComponents(components)),
	}, nil
}

func toComponent(v any) (component, error) {
	switch x := v.(type) {
	case string:
		if !utf8.ValidString(x) {
			return component{}, fmt.Errorf("string is not valid UTF-8")
		}
		return component{kind: kindString, str: x}, nil
	case bool:
		return component{kind: kindBool, b: x}, nil
	case int:
		return intComponent(int64(x))
	case int8:
		return intComponent(int64(x))
	case int16:
		return intComponent(int64(x))
	case int32:
		return intComponent(int64(x))
	case int64:
		return intComponent(x)
	case uint:
		return uintComponent(uint64(x))
	case uint8:
		return uintComponent(uint64(x))
	case uint16:
		return uintComponent(uint64(x))
	case uint32:
		return uintComponent(uint64(x))
	case uint64:
		return uintComponent(x)
	case float32:
		return floatComponent(float64(x))
	case float64:
		return floatComponent(x)
	case nil:
		return component{}, fmt.Errorf("nil is not a supported value")
	}
	return component{}, fmt.Errorf("unsupported type %T", v)
}

func intComponent(i int64) (component, error) {
	if i > maxSafeInteger || i < -maxSafeInteger {
		return component{}, fmt.Errorf("integer %d is not exactly representable", i)
	}
	return component{kind: kindNumber, num: float64(i)}, nil
}

func uintComponent(u uint64) (component, error) {
	if u > maxSafeInteger {
		return component{}, fmt.Errorf("integer %d is not exactly representable", u)
	}
	return component{kind: kindNumber, num: float64(u)}, nil
}

func floatComponent(f float64) (component, error) {
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return component{}, fmt.Errorf("number %v is not finite", f)
	}
	// -0 and +0 are the same logical number
	if f == 0 {
		f = 0
	}
	return component{kind: kindNumber, num: f}, nil
}

func encodeComponents(components []component) []byte {
	var buf bytes.Buffer

	buf.WriteByte(PartitionKeyFormatVersion)

	for _, c := range components {
		switch c.kind {
		case kindBool:
			if c.b {
				buf.WriteByte(markerTrue)
			} else {
				buf.WriteByte(markerFalse)
			}
		case kindNumber:
			var n [8]byte

			buf.WriteByte(markerNumber)
			binary.BigEndian.PutUint64(n[:], orderedFloatBits(c.num))
			buf.Write(n[:])
		case kindString:
			buf.WriteByte(markerString)
			buf.Write(binary.AppendUvarint(nil, uint64(len(c.str))))
			buf.WriteString(c.str)
		}
	}

	return buf.Bytes()
}

// orderedFloatBits maps a float64 onto a uint64 whose unsigned order matches
// the numeric order.
func orderedFloatBits(f float64) uint64 {
	bits := math.Float64bits(f)

	if bits&(1<<63) != 0 {
		return ^bits
	}

	return bits | 1<<63
}

// IsZero reports whether pk is the zero value.
func (pk PartitionKey) IsZero() bool {
	return len(pk.components) == 0
}

// Len returns the number of components.
func (pk PartitionKey) Len() int {
	return len(pk.components)
}

// Values returns a copy of the component values as string, float64 or bool.
func (pk PartitionKey) Values() []any {
	values := make([]any, len(pk.components))

	for i, c := range pk.components {
		switch c.kind {
		case kindString:
			values[i] = c.str
		case kindNumber:
			values[i] = c.num
		case kindBool:
			values[i] = c.b
		}
	}

	return values
}

// CanonicalForm returns the versioned binary serialization of the key. Keys
// with the same logical values always produce the same canonical form and
// different keys never share one.
func (pk PartitionKey) CanonicalForm() []byte {
	return []byte(pk.canonical)
}

// Hash returns the routing hash of the canonical form.
func (pk PartitionKey) Hash() uint64 {
	return xxhash.Sum64String(pk.canonical)
}

// Equal reports whether two keys route to the same logical partition.
func (pk PartitionKey) Equal(o PartitionKey) bool {
	return pk.canonical == o.canonical
}

// HeaderValue returns the key as a JSON array, e.g. ["tenant",42,true].
func (pk PartitionKey) HeaderValue() string {
	b, err := json.Marshal(pk.Values())
	if err != nil {
		// components are strings, finite floats and bools only
		panic(fmt.Sprintf("docstore: marshal partition key: %v", err))
	}
	return string(b)
}

func (pk PartitionKey) String() string {
	if pk.IsZero() {
		return "[]"
	}
	return pk.HeaderValue()
}
