package fks

import (
	"testing"

	"github.com/opencoff/go-fks/internal/testutil"
)

func TestOccupancy(t *testing.T) {
	assert := testutil.Assert(t)

	var o occupancy
	for i := uint32(0); i < 32; i++ {
		if i%2 == 0 {
			o.set(i)
		}
	}

	for i := uint32(0); i < 32; i++ {
		want := i%2 == 0
		assert(o.isSet(i) == want, "bit %d: exp %v saw %v", i, want, o.isSet(i))
	}
	assert(o.countOnes() == 16, "exp 16 set bits, saw %d", o.countOnes())

	o.clear(0)
	assert(!o.isSet(0), "bit 0 still set after clear")
	assert(o.countOnes() == 15, "exp 15 set bits after clear, saw %d", o.countOnes())
}

func TestKeySet(t *testing.T) {
	assert := testutil.Assert(t)

	ks := newKeySet(200)
	for i := 0; i < 200; i += 3 {
		ks.set(i)
	}

	var seen []int
	ks.iterOnes(func(i int) bool {
		seen = append(seen, i)
		return true
	})

	assert(len(seen) == ks.countOnes(), "iterOnes count %d != countOnes %d", len(seen), ks.countOnes())
	for _, i := range seen {
		assert(i%3 == 0, "unexpected set bit %d", i)
	}
}

func TestKeySetIterOnesEarlyExit(t *testing.T) {
	assert := testutil.Assert(t)

	ks := newKeySet(10)
	ks.set(1)
	ks.set(5)
	ks.set(8)

	var seen []int
	ks.iterOnes(func(i int) bool {
		seen = append(seen, i)
		return false
	})

	assert(len(seen) == 1, "exp early exit after 1 callback, saw %d", len(seen))
	assert(seen[0] == 1, "exp first set bit 1, saw %d", seen[0])
}
