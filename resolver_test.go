package fks

import (
	"testing"

	"github.com/opencoff/go-fks/internal/testutil"
)

func TestResolveProducesConsistentLayout(t *testing.T) {
	assert := testutil.Assert(t)

	data := make([]Pair[uint32, uint32], 64)
	for i := range data {
		data[i] = Pair[uint32, uint32]{Key: uint32(i), Value: uint32(i * i)}
	}

	res, err := resolve(data, 1, DefaultMinLoadFactor, NewMSPSmallIntHasher[uint32])
	assert(err == nil, "resolve failed: %s", err)
	assert(len(res.buckets) == int(res.l1.NumBuckets()), "bucket slice length mismatch")

	total := 0
	for _, b := range res.buckets {
		total += int(b.numSlots)
	}
	assert(total == res.numSlots, "bucket numSlots don't sum to resolveResult.numSlots: %d vs %d", total, res.numSlots)

	slots := fillSlots(data, res.l1, res.buckets, res.numSlots)
	assert(len(slots) == res.numSlots, "fillSlots returned wrong length")

	seen := make(map[uint32]bool)
	for _, kv := range data {
		found := false
		for _, p := range slots {
			if p.Key == kv.Key && p.Value == kv.Value {
				found = true
				break
			}
		}
		assert(found, "key %d missing from filled slots", kv.Key)
		seen[kv.Key] = true
	}
	assert(len(seen) == len(data), "not all input keys were placed")
}

func TestNumCollisionsAccounting(t *testing.T) {
	assert := testutil.Assert(t)
	m := buildWordMap(t, 9)

	occupied := 0
	for i := 0; i < m.NumSlots(); i++ {
		if m.SlotOccupied(i) {
			occupied++
		}
	}

	nc := m.NumCollisions()
	assert(nc >= 0, "NumCollisions negative: %d", nc)
	assert(nc == m.NumSlots()-occupied, "collision accounting inconsistent: exp %d, saw %d", m.NumSlots()-occupied, nc)
	assert(occupied == m.Len(), "occupied slot count %d != Len() %d", occupied, m.Len())
}

func TestMapString(t *testing.T) {
	assert := testutil.Assert(t)
	m := buildWordMap(t, 3)

	s := m.String()
	assert(len(s) > 0, "String() returned empty string")
}
