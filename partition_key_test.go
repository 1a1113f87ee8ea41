package docstore_test

import (
	"bytes"
	"errors"
	"math"
	"testing"

	"github.com/creastat/docstore"
	"github.com/google/go-cmp/cmp"
	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
)

func mustPartitionKey(t testing.TB, values ...any) docstore.PartitionKey {
	t.Helper()

	pk, err := docstore.NewPartitionKey(values...)
	if err != nil {
		t.Fatalf("expected err to be nil, got %#v", err)
	}

	return pk
}

func TestNewPartitionKeyErrors(t *testing.T) {
	testCases := map[string]struct {
		values []any
		index  int
	}{
		"no-components":   {values: nil, index: -1},
		"nil-component":   {values: []any{"a", nil}, index: 1},
		"struct":          {values: []any{struct{}{}}, index: 0},
		"slice":           {values: []any{"a", true, []string{"b"}}, index: 2},
		"nan":             {values: []any{math.NaN()}, index: 0},
		"inf":             {values: []any{math.Inf(-1)}, index: 0},
		"unsafe-int":      {values: []any{int64(1<<53 + 1)}, index: 0},
		"unsafe-uint":     {values: []any{uint64(math.MaxUint64)}, index: 0},
		"negative-unsafe": {values: []any{int64(-(1<<53 + 1))}, index: 0},
		"invalid-utf8":    {values: []any{"a", "\xff"}, index: 1},
		"truncated-utf8":  {values: []any{"\xe2\x82"}, index: 0},
	}

	for name, testCase := range testCases {
		t.Run(name, func(t *testing.T) {
			_, err := docstore.NewPartitionKey(testCase.values...)

			if !errors.Is(err, docstore.ErrInvalidPartitionKey) {
				t.Fatalf("expected ErrInvalidPartitionKey, got %#v", err)
			}

			var pkErr *docstore.PartitionKeyError
			if !errors.As(err, &pkErr) {
				t.Fatalf("expected *PartitionKeyError, got %#v", err)
			}
			if pkErr.Index != testCase.index {
				t.Fatalf("expected index %d, got %d", testCase.index, pkErr.Index)
			}
		})
	}
}

func TestPartitionKeyEquivalence(t *testing.T) {
	testCases := map[string]struct {
		a     []any
		b     []any
		equal bool
	}{
		"same-string":           {a: []any{"tenant"}, b: []any{"tenant"}, equal: true},
		"int-and-float":         {a: []any{1}, b: []any{1.0}, equal: true},
		"int-widths":            {a: []any{int8(7), uint32(7)}, b: []any{int64(7), float32(7)}, equal: true},
		"zero-signs":            {a: []any{0.0}, b: []any{math.Copysign(0, -1)}, equal: true},
		"number-vs-string":      {a: []any{1}, b: []any{"1"}},
		"bool-vs-string":        {a: []any{true}, b: []any{"true"}},
		"true-vs-false":         {a: []any{true}, b: []any{false}},
		"component-boundaries":  {a: []any{"ab", "c"}, b: []any{"a", "bc"}},
		"prefix":                {a: []any{"a"}, b: []any{"a", ""}},
		"order":                 {a: []any{"a", 1}, b: []any{1, "a"}},
		"empty-string-vs-false": {a: []any{""}, b: []any{false}},
	}

	for name, testCase := range testCases {
		t.Run(name, func(t *testing.T) {
			a := mustPartitionKey(t, testCase.a...)
			b := mustPartitionKey(t, testCase.b...)

			if a.Equal(b) != testCase.equal {
				t.Fatalf("expected Equal to be %v for %s and %s", testCase.equal, a, b)
			}
			if bytes.Equal(a.CanonicalForm(), b.CanonicalForm()) != testCase.equal {
				t.Fatalf("expected canonical forms equality to be %v", testCase.equal)
			}
			if testCase.equal && a.Hash() != b.Hash() {
				t.Fatalf("expected equal keys to hash equally")
			}
		})
	}
}

func TestPartitionKeyCanonicalForm(t *testing.T) {
	pk := mustPartitionKey(t, "a", true, 2)

	expected := []byte{
		docstore.PartitionKeyFormatVersion,
		0x08, 0x01, 'a',
		0x03,
		0x05, 0xc0, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00,
	}

	if diff := cmp.Diff(expected, pk.CanonicalForm()); diff != "" {
		t.Fatal(diff)
	}

	if pk.HeaderValue() != `["a",true,2]` {
		t.Fatalf("expected header value %q, got %q", `["a",true,2]`, pk.HeaderValue())
	}

	if diff := cmp.Diff([]any{"a", true, 2.0}, pk.Values()); diff != "" {
		t.Fatal(diff)
	}
}

func TestPartitionKeyProperties(t *testing.T) {
	properties := gopter.NewProperties(gopter.DefaultTestParameters())

	properties.Property("canonical form is stable", prop.ForAll(
		func(values []string) bool {
			if len(values) == 0 {
				return true
			}

			a, errA := docstore.NewPartitionKey(toAny(values)...)
			b, errB := docstore.NewPartitionKey(toAny(values)...)

			return errA == nil && errB == nil && bytes.Equal(a.CanonicalForm(), b.CanonicalForm()) && a.Hash() == b.Hash()
		},
		gen.SliceOf(gen.AnyString()),
	))

	properties.Property("different keys never share a canonical form", prop.ForAll(
		func(a, b []string) bool {
			if len(a) == 0 || len(b) == 0 {
				return true
			}

			pkA, _ := docstore.NewPartitionKey(toAny(a)...)
			pkB, _ := docstore.NewPartitionKey(toAny(b)...)

			return pkA.Equal(pkB) == cmp.Equal(a, b)
		},
		gen.SliceOf(gen.AlphaString()),
		gen.SliceOf(gen.AlphaString()),
	))

	properties.Property("numbers keep their order", prop.ForAll(
		func(x, y float64) bool {
			a, _ := docstore.NewPartitionKey(x)
			b, _ := docstore.NewPartitionKey(y)

			c := bytes.Compare(a.CanonicalForm(), b.CanonicalForm())

			switch {
			case x < y:
				return c < 0
			case x > y:
				return c > 0
			}
			return c == 0
		},
		gen.Float64Range(-1e12, 1e12),
		gen.Float64Range(-1e12, 1e12),
	))

	properties.TestingRun(t)
}

func toAny(values []string) []any {
	result := make([]any, len(values))

	for i, v := range values {
		result[i] = v
	}

	return result
}

func TestPartitionKeyZeroValue(t *testing.T) {
	var pk docstore.PartitionKey

	if !pk.IsZero() {
		t.Fatalf("expected zero value to report IsZero")
	}
	if pk.String() != "[]" {
		t.Fatalf("expected %q, got %q", "[]", pk.String())
	}
}
