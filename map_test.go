package fks

import (
	"testing"

	"github.com/opencoff/go-fks/internal/testutil"
)

var words = []string{
	"alpha", "bravo", "charlie", "delta", "echo", "foxtrot", "golf",
	"hotel", "india", "juliet", "kilo", "lima", "mike", "november",
	"oscar", "papa", "quebec", "romeo", "sierra", "tango", "uniform",
	"victor", "whiskey", "xray", "yankee", "zulu",
}

func buildWordMap(t *testing.T, seed uint64) *Map[string, int, *MSPStringHasher] {
	t.Helper()
	assert := testutil.Assert(t)

	data := make([]Pair[string, int], len(words))
	for i, w := range words {
		data[i] = Pair[string, int]{Key: w, Value: i}
	}

	m, err := BuildRuntime(data, seed, NewMSPStringHasher)
	assert(err == nil, "BuildRuntime failed: %s", err)
	return m
}

func TestMapGetAllKeys(t *testing.T) {
	assert := testutil.Assert(t)
	m := buildWordMap(t, 1)

	for i, w := range words {
		v, ok := m.Get(w)
		assert(ok, "key %q not found", w)
		assert(v == i, "key %q: exp value %d, saw %d", w, i, v)
	}
}

func TestMapGetMissingKey(t *testing.T) {
	assert := testutil.Assert(t)
	m := buildWordMap(t, 1)

	for _, w := range []string{"", "notaword", "alphabet", "zulud"} {
		_, ok := m.Get(w)
		assert(!ok, "unexpected hit for key %q", w)
	}
}

func TestMapLenAndLoadFactor(t *testing.T) {
	assert := testutil.Assert(t)
	m := buildWordMap(t, 1)

	assert(m.Len() == len(words), "Len() = %d, want %d", m.Len(), len(words))
	assert(!m.IsEmpty(), "IsEmpty() true for non-empty map")
	assert(m.NumSlots() >= m.Len(), "NumSlots %d < Len %d", m.NumSlots(), m.Len())

	lf := m.LoadFactor()
	assert(lf > 0 && lf <= 1, "load factor out of (0,1]: %v", lf)
}

func TestMapDeterministicAcrossBuilds(t *testing.T) {
	assert := testutil.Assert(t)

	m1 := buildWordMap(t, 42)
	m2 := buildWordMap(t, 42)

	assert(m1.NumSlots() == m2.NumSlots(), "slot counts diverged for identical seed: %d vs %d", m1.NumSlots(), m2.NumSlots())
	for _, w := range words {
		v1, ok1 := m1.Get(w)
		v2, ok2 := m2.Get(w)
		assert(ok1 && ok2 && v1 == v2, "identical seed produced different lookup for %q", w)
	}
}

func TestMapSingletonKeySkipsL2(t *testing.T) {
	assert := testutil.Assert(t)

	data := []Pair[uint16, string]{{Key: 7, Value: "seven"}}
	m, err := BuildRuntime(data, 1, NewMSPSmallIntHasher[uint16])
	assert(err == nil, "build failed: %s", err)

	v, ok := m.Get(7)
	assert(ok, "singleton key not found")
	assert(v == "seven", "singleton value mismatch: %s", v)

	_, ok = m.Get(8)
	assert(!ok, "unrelated key found in singleton map")
}

func TestMapEmptyInput(t *testing.T) {
	assert := testutil.Assert(t)

	m, err := BuildRuntime([]Pair[uint16, string]{}, 1, NewMSPSmallIntHasher[uint16])
	assert(err == nil, "build failed on empty input: %s", err)
	assert(m.IsEmpty(), "IsEmpty() false for empty map")
	assert(m.Len() == 0, "Len() != 0 for empty map")

	_, ok := m.Get(0)
	assert(!ok, "lookup on empty map unexpectedly succeeded")
}

// alwaysZeroHasher is a pathological hasher that maps every key to bucket
// zero, forcing the L2 resolver to exhaust its retry budget on any bucket
// holding more than one key with distinct identities.
type alwaysZeroHasher struct{ n uint32 }

func newAlwaysZeroHasher(seed uint64, numBuckets uint32) *alwaysZeroHasher {
	return &alwaysZeroHasher{n: numBuckets}
}
func (h *alwaysZeroHasher) Hash(v uint16) uint32 { return 0 }
func (h *alwaysZeroHasher) NumBuckets() uint32   { return h.n }

func TestResolveBucketExhaustsRetryBudget(t *testing.T) {
	assert := testutil.Assert(t)

	data := []Pair[uint16, int]{{Key: 1, Value: 1}, {Key: 2, Value: 2}}
	rng := newPRNG(1)
	keys := newKeySet(2)
	keys.set(0)
	keys.set(1)

	_, err := resolveBucket[uint16, int, *alwaysZeroHasher](rng, data, keys, 0, newAlwaysZeroHasher)
	assert(err == ErrUnableToFindHashFunction, "exp ErrUnableToFindHashFunction, saw %v", err)
}
