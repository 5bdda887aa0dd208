package fks

import (
	"testing"

	"github.com/opencoff/go-fks/internal/testutil"
)

func TestMultiplyShiftInRange(t *testing.T) {
	assert := testutil.Assert(t)

	seed := [2]uint64{fillArray(2, 7)[0], fillArray(2, 7)[1]}
	for _, bits := range []uint32{0, 1, 3, 8, 16} {
		max := numBucketsForBits(bits)
		for v := uint32(0); v < 1000; v++ {
			h := multiplyShift(v, bits, seed)
			assert(h < max, "multiplyShift(%d, %d) = %d out of range [0,%d)", v, bits, h, max)
		}
	}
}

func TestPairMultiplyShiftInRange(t *testing.T) {
	assert := testutil.Assert(t)

	var seed [3]uint64
	copy(seed[:], fillArray(3, 99))
	for _, bits := range []uint32{0, 2, 10, 20} {
		max := numBucketsForBits(bits)
		for v := uint64(0); v < 1000; v++ {
			h := pairMultiplyShift(v, bits, seed)
			assert(h < max, "pairMultiplyShift(%d, %d) = %d out of range [0,%d)", v, bits, h, max)
		}
	}
}

func TestPairMultiplyShiftU128InRange(t *testing.T) {
	assert := testutil.Assert(t)

	var seed [5]uint64
	copy(seed[:], fillArray(5, 7))
	bits := uint32(12)
	max := numBucketsForBits(bits)

	p := newPRNG(1)
	for i := 0; i < 1000; i++ {
		hi, lo := p.next(), p.next()
		h := pairMultiplyShiftU128(hi, lo, bits, seed)
		assert(h < max, "pairMultiplyShiftU128 out of range: %d", h)
	}
}

func TestPairMultiplyShiftVectorU64Deterministic(t *testing.T) {
	assert := testutil.Assert(t)

	hdr := fillArray(1, 5)[0]
	tbl := fillArray(9, 5)[1:]
	bits := uint32(6)

	v := []uint64{1, 2, 3, 4}
	h1 := pairMultiplyShiftVectorU64(v, bits, hdr, tbl)
	h2 := pairMultiplyShiftVectorU64(v, bits, hdr, tbl)
	assert(h1 == h2, "vector kernel not deterministic: %d vs %d", h1, h2)
	assert(h1 < numBucketsForBits(bits), "vector kernel out of range: %d", h1)
}

func TestPairMultiplyShiftVectorU8Dispatch(t *testing.T) {
	assert := testutil.Assert(t)

	hdr := fillArray(1, 3)[0]
	tbl := fillArray(30, 3)[1:]
	bits := uint32(5)
	max := numBucketsForBits(bits)

	for _, n := range []int{0, 1, 4, 8, 9, 32, 100} {
		data := make([]byte, n)
		for i := range data {
			data[i] = byte(i * 7)
		}
		h := pairMultiplyShiftVectorU8(data, bits, hdr, tbl)
		assert(h < max, "len %d: out of range %d", n, h)
	}
}

func TestPolynomialEmptyInput(t *testing.T) {
	assert := testutil.Assert(t)

	seed := newPolynomialSeed(42)
	bits := uint32(10)
	h1 := polynomial(nil, bits, seed)
	h2 := polynomial([]byte{}, bits, seed)
	assert(h1 == h2, "nil vs empty slice diverged: %d vs %d", h1, h2)
	assert(h1 < numBucketsForBits(bits), "out of range: %d", h1)
}

func TestPolynomialDeterministicAndSensitive(t *testing.T) {
	assert := testutil.Assert(t)

	seed := newPolynomialSeed(7)
	bits := uint32(12)

	a := []byte("the quick brown fox")
	b := []byte("the quick brown fog")

	h1 := polynomial(a, bits, seed)
	h2 := polynomial(a, bits, seed)
	assert(h1 == h2, "polynomial hash not deterministic")

	h3 := polynomial(b, bits, seed)
	assert(h1 != h3 || numBucketsForBits(bits) == 1, "single-byte change produced identical hash (allowed only when range is 1)")
}

func TestPolynomialLongInputSpansMultipleChunks(t *testing.T) {
	assert := testutil.Assert(t)

	seed := newPolynomialSeed(123)
	bits := uint32(14)

	long := make([]byte, 1000)
	for i := range long {
		long[i] = byte(i)
	}

	h := polynomial(long, bits, seed)
	assert(h < numBucketsForBits(bits), "out of range: %d", h)
}
