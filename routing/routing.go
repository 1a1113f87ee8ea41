// Package routing maps partition keys onto the physical partition key
// ranges of a container.
//
// The hash space of PartitionKey.Hash is split into contiguous ranges. Each
// range is identified by an ID and starts at its MinInclusive; it ends where
// the next range starts. Session tokens are tracked per range ID.
package routing

import (
	"errors"
	"fmt"

	"github.com/creastat/docstore"
	"github.com/emirpasic/gods/maps/treemap"
	"github.com/emirpasic/gods/utils"
)

// ErrInvalidRanges is returned when a set of ranges does not tile the hash
// space.
var ErrInvalidRanges = errors.New("invalid partition key ranges")

// Range is one partition key range.
type Range struct {
	ID           string
	MinInclusive uint64
}

// RangeMap resolves partition keys to range IDs. It is immutable after
// construction and safe for concurrent use.
type RangeMap struct {
	ranges *treemap.Map
	n      int
}

// NewRangeMap builds a RangeMap. The ranges must cover the whole hash space,
// so one of them has to start at 0. IDs and start points must be unique.
func NewRangeMap(ranges []Range) (*RangeMap, error) {
	if len(ranges) == 0 {
		return nil, fmt.Errorf("%w: no ranges", ErrInvalidRanges)
	}

	m := treemap.NewWith(utils.UInt64Comparator)
	ids := make(map[string]struct{}, len(ranges))

	for _, r := range ranges {
		if r.ID == "" {
			return nil, fmt.Errorf("%w: empty range id", ErrInvalidRanges)
		}
		if _, ok := ids[r.ID]; ok {
			return nil, fmt.Errorf("%w: duplicate range id %q", ErrInvalidRanges, r.ID)
		}
		if _, ok := m.Get(r.MinInclusive); ok {
			return nil, fmt.Errorf("%w: two ranges start at %d", ErrInvalidRanges, r.MinInclusive)
		}

		ids[r.ID] = struct{}{}
		m.Put(r.MinInclusive, r.ID)
	}

	if _, ok := m.Get(uint64(0)); !ok {
		return nil, fmt.Errorf("%w: no range starts at 0", ErrInvalidRanges)
	}

	return &RangeMap{ranges: m, n: len(ranges)}, nil
}

// SingleRange returns a RangeMap with one range covering everything.
func SingleRange(id string) *RangeMap {
	m := treemap.NewWith(utils.UInt64Comparator)
	m.Put(uint64(0), id)

	return &RangeMap{ranges: m, n: 1}
}

// UniformRanges splits the hash space into n equal ranges with IDs "0".."n-1".
func UniformRanges(n int) (*RangeMap, error) {
	if n <= 0 {
		return nil, fmt.Errorf("%w: %d ranges", ErrInvalidRanges, n)
	}

	width := ^uint64(0)/uint64(n) + 1
	ranges := make([]Range, n)

	for i := range ranges {
		ranges[i] = Range{ID: fmt.Sprint(i), MinInclusive: uint64(i) * width}
	}

	return NewRangeMap(ranges)
}

// Len returns the number of ranges.
func (rm *RangeMap) Len() int {
	return rm.n
}

// LookupHash returns the ID of the range holding hash.
func (rm *RangeMap) LookupHash(hash uint64) string {
	// a range starts at 0, so Floor always finds one
	_, id := rm.ranges.Floor(hash)

	return id.(string)
}

// Lookup returns the ID of the range holding pk.
func (rm *RangeMap) Lookup(pk docstore.PartitionKey) string {
	return rm.LookupHash(pk.Hash())
}
