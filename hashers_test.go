package fks

import (
	"testing"

	"github.com/opencoff/go-fks/internal/testutil"
)

func TestBitsForBuckets(t *testing.T) {
	assert := testutil.Assert(t)

	cases := []struct {
		r    uint32
		bits uint32
	}{
		{0, 0}, {1, 0}, {2, 1}, {3, 2}, {4, 2}, {5, 3}, {8, 3}, {9, 4}, {1000, 10},
	}
	for _, c := range cases {
		got := bitsForBuckets(c.r)
		assert(got == c.bits, "bitsForBuckets(%d) = %d, want %d", c.r, got, c.bits)
		assert(numBucketsForBits(got) >= c.r, "realized range %d < requested %d", numBucketsForBits(got), c.r)
	}
}

func TestMSPSmallIntHasherInRange(t *testing.T) {
	assert := testutil.Assert(t)

	h := NewMSPSmallIntHasher[uint16](1, 100)
	max := h.NumBuckets()
	for v := uint16(0); v < 5000; v++ {
		got := h.Hash(v)
		assert(got < max, "hash %d out of range [0,%d)", got, max)
	}
}

func TestMSPInt64HasherDeterministic(t *testing.T) {
	assert := testutil.Assert(t)

	h1 := NewMSPInt64Hasher[uint64](77, 50)
	h2 := NewMSPInt64Hasher[uint64](77, 50)

	for v := uint64(0); v < 1000; v++ {
		assert(h1.Hash(v) == h2.Hash(v), "same seed diverged for key %d", v)
	}
}

func TestMSP128HasherUint128(t *testing.T) {
	assert := testutil.Assert(t)

	h := NewMSP128Hasher[Uint128](5, 64)
	max := h.NumBuckets()

	for i := uint64(0); i < 200; i++ {
		v := Uint128{Hi: i, Lo: i * 31}
		got := h.Hash(v)
		assert(got < max, "out of range: %d", got)
	}
}

func TestMSPBytesAndStringHasherAgree(t *testing.T) {
	assert := testutil.Assert(t)

	bh := NewMSPBytesHasher(9, 32)
	sh := NewMSPStringHasher(9, 32)

	s := "perfect hashing"
	assert(bh.Hash([]byte(s)) == sh.Hash(s), "bytes and string hashers disagree for identical content")
}

func TestMSPUint64ArrayHasher(t *testing.T) {
	assert := testutil.Assert(t)

	h := NewMSPUint64ArrayHasher(1, 16, 4)
	max := h.NumBuckets()

	got := h.Hash([]uint64{1, 2, 3, 4})
	assert(got < max, "out of range: %d", got)

	got2 := h.Hash([]uint64{1, 2, 3, 5})
	assert(got != got2 || max == 1, "changing last element left hash unchanged")
}

func TestMSP128ArrayHasher(t *testing.T) {
	assert := testutil.Assert(t)

	h := NewMSP128ArrayHasher[Uint128](1, 16, 3)
	max := h.NumBuckets()

	arr := []Uint128{{Hi: 1, Lo: 2}, {Hi: 3, Lo: 4}, {Hi: 5, Lo: 6}}
	got := h.Hash(arr)
	assert(got < max, "out of range: %d", got)

	arr2 := []Uint128{{Hi: 1, Lo: 2}, {Hi: 3, Lo: 4}, {Hi: 5, Lo: 7}}
	got2 := h.Hash(arr2)
	assert(got != got2 || max == 1, "changing last element left hash unchanged")

	h2 := NewMSP128ArrayHasher[Uint128](1, 16, 3)
	assert(h.Hash(arr) == h2.Hash(arr), "same seed diverged for identical array")
}

func TestMSPOptionHasherNoneVsSome(t *testing.T) {
	assert := testutil.Assert(t)

	h := NewMSPOptionHasher[uint16, *MSPSmallIntHasher[uint16]](3, 16, NewMSPSmallIntHasher[uint16])

	none := h.Hash(None[uint16]())
	some := h.Hash(Some[uint16](7))
	max := h.NumBuckets()

	assert(none < max, "None out of range: %d", none)
	assert(some < max, "Some out of range: %d", some)
}

func TestXXH3HasherInRangeAndDeterministic(t *testing.T) {
	assert := testutil.Assert(t)

	h1 := NewXXH3Int64Hasher[uint64](55, 40)
	h2 := NewXXH3Int64Hasher[uint64](55, 40)
	max := h1.NumBuckets()

	for v := uint64(0); v < 500; v++ {
		g1, g2 := h1.Hash(v), h2.Hash(v)
		assert(g1 == g2, "same seed diverged for key %d", v)
		assert(g1 < max, "out of range: %d", g1)
	}
}
