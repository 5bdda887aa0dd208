package fks

import "fmt"

// Map is a static (immutable) perfect hash map built by BuildRuntime or a
// cmd/fksgen-generated constructor (spec §3, "Static map"). Lookup costs at
// most two hash evaluations and two slice indirections (spec's I1); buckets
// realizing exactly one slot skip the L2 hash entirely (spec's B2).
type Map[K comparable, V any, H Hasher[K]] struct {
	l1      H
	l1Seed  uint64
	buckets []bucket[K, H]
	slots   []Pair[K, V]
	n       int
}

// Get looks up key and reports whether it was present. A key never inserted
// at build time may alias onto an occupied or empty slot (spec's I4, "no
// membership test"); Get compares the stored key before returning ok=true.
func (m *Map[K, V, H]) Get(key K) (V, bool) {
	var zero V
	b := int(m.l1.Hash(key))
	bk := &m.buckets[b]

	var idx int
	var rel uint32
	switch bk.numSlots {
	case 0:
		return zero, false
	case 1:
		idx = bk.offset
	default:
		rel = bk.hasher.Hash(key)
		idx = bk.offset + int(rel)
	}

	if bk.numSlots > 1 && !bk.occ.isSet(rel) {
		return zero, false
	}

	slot := &m.slots[idx]
	if slot.Key != key {
		return zero, false
	}
	return slot.Value, true
}

// Len reports the number of keys stored, i.e. the input count N, not the
// realized slot count (spec's Open Question on len() semantics — resolved
// in favor of N; see NumSlots for the realized count).
func (m *Map[K, V, H]) Len() int { return m.n }

// IsEmpty reports whether the map holds zero keys.
func (m *Map[K, V, H]) IsEmpty() bool { return m.n == 0 }

// NumSlots returns the total realized slot count across every bucket.
func (m *Map[K, V, H]) NumSlots() int { return len(m.slots) }

// LoadFactor is Len() / NumSlots(); in (0, 1] for a non-empty map and 0 for
// a map with no slots.
func (m *Map[K, V, H]) LoadFactor() float64 {
	if len(m.slots) == 0 {
		return 0
	}
	return float64(m.n) / float64(len(m.slots))
}

// NumCollisions counts slots realized but never assigned a key: the
// fragmentation cost of two-level resolution (spec's diagnostic metric).
func (m *Map[K, V, H]) NumCollisions() int {
	occupied := 0
	for bi := range m.buckets {
		bk := &m.buckets[bi]
		if bk.numSlots == 0 {
			continue
		}
		if bk.numSlots == 1 {
			occupied++
			continue
		}
		occupied += bk.occ.countOnes()
	}
	return len(m.slots) - occupied
}

func (m *Map[K, V, H]) String() string {
	return fmt.Sprintf("fks.Map{n=%d, slots=%d, buckets=%d, load=%.3f}",
		m.n, len(m.slots), len(m.buckets), m.LoadFactor())
}

// The accessors below expose just enough of a Map's resolved layout for a
// caller to persist it (fksdb does exactly this) and rebuild an identical
// instance later via NewMapFromLayout, without the fks package needing to
// know anything about a file format. This mirrors the teacher's
// Chd.MarshalBinary/UnmarshalBinaryMmap split, adapted to Go generics: what
// gets persisted is the scalar seeds construction drew, not a hasher's
// expanded internal state, since newHasher(seed, n) reproduces that state
// exactly (spec's R1).

// L1Seed returns the scalar seed the L1 hasher was constructed from.
func (m *Map[K, V, H]) L1Seed() uint64 { return m.l1Seed }

// NumBuckets returns the L1 bucket count.
func (m *Map[K, V, H]) NumBuckets() int { return len(m.buckets) }

// BucketLayout returns bucket i's resolved offset, slot count, occupancy
// mask and originating seed (0 for an unoccupied bucket).
func (m *Map[K, V, H]) BucketLayout(i int) (offset int, numSlots uint32, occ uint32, seed uint64) {
	bk := &m.buckets[i]
	return bk.offset, bk.numSlots, uint32(bk.occ), bk.seed
}

// Slot returns the raw (key, value) pair stored at global slot index i,
// regardless of whether that slot is occupied — callers must consult
// BucketLayout's occ mask (or SlotOccupied) to know which slots to persist.
func (m *Map[K, V, H]) Slot(i int) (K, V) {
	p := &m.slots[i]
	return p.Key, p.Value
}

// SlotOccupied reports whether global slot index i holds a real key, using
// the same occupied/1-slot/empty classification Get uses.
func (m *Map[K, V, H]) SlotOccupied(i int) bool {
	for bi := range m.buckets {
		bk := &m.buckets[bi]
		if i < bk.offset || i >= bk.offset+int(bk.numSlots) {
			continue
		}
		if bk.numSlots == 1 {
			return true
		}
		return bk.occ.isSet(uint32(i - bk.offset))
	}
	return false
}

// NewMapFromLayout rebuilds a Map from a previously persisted layout
// (L1Seed/NumBuckets/BucketLayout/Slot), reconstructing every hasher via
// newHasher rather than deserializing hasher state directly.
func NewMapFromLayout[K comparable, V any, H Hasher[K]](
	l1Seed uint64,
	numL1Buckets uint32,
	bucketOffsets []int,
	bucketNumSlots []uint32,
	bucketOcc []uint32,
	bucketSeeds []uint64,
	slots []Pair[K, V],
	n int,
	newHasher HasherFactory[K, H],
) *Map[K, V, H] {
	l1 := newHasher(l1Seed, numL1Buckets)

	buckets := make([]bucket[K, H], numL1Buckets)
	for i := range buckets {
		var h H
		if bucketNumSlots[i] > 0 {
			h = newHasher(bucketSeeds[i], bucketNumSlots[i])
		}
		buckets[i] = bucket[K, H]{
			offset:   bucketOffsets[i],
			occ:      occupancy(bucketOcc[i]),
			numSlots: bucketNumSlots[i],
			seed:     bucketSeeds[i],
			hasher:   h,
		}
	}

	return &Map[K, V, H]{
		l1:      l1,
		l1Seed:  l1Seed,
		buckets: buckets,
		slots:   slots,
		n:       n,
	}
}
