package routing_test

import (
	"errors"
	"fmt"
	"math"
	"testing"

	"github.com/creastat/docstore"
	"github.com/creastat/docstore/routing"
)

func TestNewRangeMapErrors(t *testing.T) {
	testCases := map[string][]routing.Range{
		"empty":          nil,
		"no-zero":        {{ID: "a", MinInclusive: 10}},
		"duplicate-id":   {{ID: "a", MinInclusive: 0}, {ID: "a", MinInclusive: 10}},
		"duplicate-min":  {{ID: "a", MinInclusive: 0}, {ID: "b", MinInclusive: 0}},
		"empty-range-id": {{ID: "", MinInclusive: 0}},
	}

	for name, ranges := range testCases {
		t.Run(name, func(t *testing.T) {
			if _, err := routing.NewRangeMap(ranges); !errors.Is(err, routing.ErrInvalidRanges) {
				t.Fatalf("expected ErrInvalidRanges, got %#v", err)
			}
		})
	}
}

func TestLookupHash(t *testing.T) {
	rm, err := routing.NewRangeMap([]routing.Range{
		{ID: "c", MinInclusive: 1 << 63},
		{ID: "a", MinInclusive: 0},
		{ID: "b", MinInclusive: 1000},
	})
	if err != nil {
		t.Fatalf("expected err to be nil, got %#v", err)
	}

	testCases := map[uint64]string{
		0:              "a",
		999:            "a",
		1000:           "b",
		1<<63 - 1:      "b",
		1 << 63:        "c",
		math.MaxUint64: "c",
	}

	for hash, expected := range testCases {
		if id := rm.LookupHash(hash); id != expected {
			t.Errorf("hash %d: expected %q, got %q", hash, expected, id)
		}
	}
}

func TestLookupIsStable(t *testing.T) {
	rm, err := routing.UniformRanges(16)
	if err != nil {
		t.Fatalf("expected err to be nil, got %#v", err)
	}

	if rm.Len() != 16 {
		t.Fatalf("expected 16 ranges, got %d", rm.Len())
	}

	seen := map[string]bool{}

	for i := 0; i < 2000; i++ {
		a, _ := docstore.NewPartitionKey(fmt.Sprintf("tenant-%d", i), i)
		b, _ := docstore.NewPartitionKey(fmt.Sprintf("tenant-%d", i), float64(i))

		if rm.Lookup(a) != rm.Lookup(b) {
			t.Fatalf("expected equal keys to route to the same range")
		}

		seen[rm.Lookup(a)] = true
	}

	if len(seen) != 16 {
		t.Fatalf("expected keys to spread over all ranges, got %d", len(seen))
	}
}

func TestSingleRange(t *testing.T) {
	pk, _ := docstore.NewPartitionKey("x")

	if id := routing.SingleRange("0").Lookup(pk); id != "0" {
		t.Fatalf("expected %q, got %q", "0", id)
	}

	if _, err := routing.UniformRanges(0); !errors.Is(err, routing.ErrInvalidRanges) {
		t.Fatalf("expected ErrInvalidRanges, got %#v", err)
	}
}
