package fks

import "math/bits"

// occupancy is a fixed-capacity bit set of width 32, wide enough to mark
// which of a bucket's L2 slots are occupied (num_slots never exceeds 32,
// since maxKeysPerBucket is 5 and the realized L2 range is the next power
// of two of the key count — at most 8). Generalized from the teacher's
// bitVector (bitvector.go), which backs an unbounded []uint64 instead: our
// per-bucket mask never needs more than one machine word.
type occupancy uint32

// set marks bit i.
func (o *occupancy) set(i uint32) {
	*o |= occupancy(1) << i
}

// clear clears bit i.
func (o *occupancy) clear(i uint32) {
	*o &^= occupancy(1) << i
}

// isSet reports whether bit i is set.
func (o occupancy) isSet(i uint32) bool {
	return o&(occupancy(1)<<i) != 0
}

// countOnes returns the number of set bits.
func (o occupancy) countOnes() int {
	return bits.OnesCount32(uint32(o))
}

// keySet is a bit set over the input key indices for one L1 bucket, sized to
// the total input count N. Generalized from bitVector the same way as
// occupancy, but kept word-sliced since N can be arbitrarily large (the
// teacher's bitVector already has exactly this shape — see bitvector.go).
type keySet struct {
	v []uint64
}

// newKeySet creates a keySet able to hold at least size bits, all clear.
func newKeySet(size int) *keySet {
	words := (size + 63) / 64
	return &keySet{v: make([]uint64, words)}
}

func (k *keySet) set(i int) {
	k.v[i/64] |= uint64(1) << uint(i%64)
}

func (k *keySet) isSet(i int) bool {
	return k.v[i/64]&(uint64(1)<<uint(i%64)) != 0
}

// countOnes returns the total number of set bits across the set.
func (k *keySet) countOnes() int {
	n := 0
	for _, w := range k.v {
		n += bits.OnesCount64(w)
	}
	return n
}

// iterOnes calls fn for each set bit index, in ascending order, stopping
// early if fn returns false.
func (k *keySet) iterOnes(fn func(i int) bool) {
	for wi, w := range k.v {
		for w != 0 {
			tz := bits.TrailingZeros64(w)
			if !fn(wi*64 + tz) {
				return
			}
			w &= w - 1
		}
	}
}
