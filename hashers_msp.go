package fks

// This file implements the default, multiply-shift-based hasher family
// (spec §4.4). Each concrete type below is a from_seed/hash/num_buckets
// triple for one slice of the supported key-type family; small- and
// fixed-width integers share one generic implementation via Go's numeric
// type-constraint unions, the same way the original's per-type modules
// (hashing/hashers/msp/{smallint,int64,bigint,string}.rs) share one kernel
// across several Rust primitive types.

// smallIntKind covers every fixed-width key type ≤ 32 bits — spec's "small
// int ≤32b" category. Go's pointer-width int/uint are not included; they are
// covered by int64Kind below on every target.
type smallIntKind interface {
	~uint8 | ~int8 | ~uint16 | ~int16 | ~uint32 | ~int32
}

// MSPSmallIntHasher hashes any ≤32-bit integer key type via multiply-shift.
type MSPSmallIntHasher[T smallIntKind] struct {
	numBits uint32
	seed    [2]uint64
}

// NewMSPSmallIntHasher derives the hasher state from seed (spec's from_seed).
func NewMSPSmallIntHasher[T smallIntKind](seed uint64, numBuckets uint32) *MSPSmallIntHasher[T] {
	w := fillArray(2, seed)
	return &MSPSmallIntHasher[T]{
		numBits: bitsForBuckets(numBuckets),
		seed:    [2]uint64{w[0], w[1]},
	}
}

func (h *MSPSmallIntHasher[T]) Hash(v T) uint32 {
	return multiplyShift(uint32(v), h.numBits, h.seed)
}

func (h *MSPSmallIntHasher[T]) NumBuckets() uint32 { return numBucketsForBits(h.numBits) }

// int64Kind covers 64-bit integer key types, including Go's pointer-width
// int/uint — spec's "64b int" category, plus usize/isize (on every target,
// including 32-bit ones).
type int64Kind interface {
	~uint64 | ~int64 | ~uint | ~int
}

// MSPInt64Hasher hashes any 64-bit integer key type via pair-multiply-shift.
type MSPInt64Hasher[T int64Kind] struct {
	numBits uint32
	seed    [3]uint64
}

func NewMSPInt64Hasher[T int64Kind](seed uint64, numBuckets uint32) *MSPInt64Hasher[T] {
	w := fillArray(3, seed)
	return &MSPInt64Hasher[T]{
		numBits: bitsForBuckets(numBuckets),
		seed:    [3]uint64{w[0], w[1], w[2]},
	}
}

func (h *MSPInt64Hasher[T]) Hash(v T) uint32 {
	return pairMultiplyShift(uint64(v), h.numBits, h.seed)
}

func (h *MSPInt64Hasher[T]) NumBuckets() uint32 { return numBucketsForBits(h.numBits) }

// MSP128Hasher hashes a 128-bit key type (Uint128 or Int128) by pairing its
// four 32-bit limbs.
type MSP128Hasher[T halves128] struct {
	numBits uint32
	seed    [5]uint64
}

func NewMSP128Hasher[T halves128](seed uint64, numBuckets uint32) *MSP128Hasher[T] {
	w := fillArray(5, seed)
	var s [5]uint64
	copy(s[:], w)
	return &MSP128Hasher[T]{numBits: bitsForBuckets(numBuckets), seed: s}
}

func (h *MSP128Hasher[T]) Hash(v T) uint32 {
	hi, lo := v.halves()
	return pairMultiplyShiftU128(hi, lo, h.numBits, h.seed)
}

func (h *MSP128Hasher[T]) NumBuckets() uint32 { return numBucketsForBits(h.numBits) }

// MSPBytesHasher hashes an unbounded byte string (spec's "unbounded byte
// string" category) via polynomial/Mersenne-prime hashing. Also the L2
// per-bucket hasher of choice whenever K is string-like, since bucket sizes
// are always small and bounded regardless of key length.
type MSPBytesHasher struct {
	numBits uint32
	seed    *polynomialSeed
}

func NewMSPBytesHasher(seed uint64, numBuckets uint32) *MSPBytesHasher {
	return &MSPBytesHasher{
		numBits: bitsForBuckets(numBuckets),
		seed:    newPolynomialSeed(seed),
	}
}

func (h *MSPBytesHasher) Hash(v []byte) uint32 {
	return polynomial(v, h.numBits, h.seed)
}

func (h *MSPBytesHasher) NumBuckets() uint32 { return numBucketsForBits(h.numBits) }

// MSPStringHasher is MSPBytesHasher specialized for the string key type, the
// common case for dictionary-style maps (spec §8 S1).
type MSPStringHasher struct {
	inner *MSPBytesHasher
}

func NewMSPStringHasher(seed uint64, numBuckets uint32) *MSPStringHasher {
	return &MSPStringHasher{inner: NewMSPBytesHasher(seed, numBuckets)}
}

func (h *MSPStringHasher) Hash(v string) uint32 { return h.inner.Hash([]byte(v)) }
func (h *MSPStringHasher) NumBuckets() uint32   { return h.inner.NumBuckets() }

// MSPUint64ArrayHasher hashes a fixed-size array of uint64 values (spec's
// "fixed-size array of those" category, specialized to the u64 element
// kind) via the vector pair-multiply-shift kernel.
type MSPUint64ArrayHasher struct {
	numBits uint32
	hdr     uint64
	tbl     []uint64
}

// NewMSPUint64ArrayHasher derives a seed table sized for arrays of up to
// maxLen elements; calling Hash with a longer slice is a contract break.
func NewMSPUint64ArrayHasher(seed uint64, numBuckets uint32, maxLen int) *MSPUint64ArrayHasher {
	w := fillArray(1+2*maxLen, seed)
	return &MSPUint64ArrayHasher{
		numBits: bitsForBuckets(numBuckets),
		hdr:     w[0],
		tbl:     w[1:],
	}
}

func (h *MSPUint64ArrayHasher) Hash(v []uint64) uint32 {
	return pairMultiplyShiftVectorU64(v, h.numBits, h.hdr, h.tbl)
}

func (h *MSPUint64ArrayHasher) NumBuckets() uint32 { return numBucketsForBits(h.numBits) }

// MSP128ArrayHasher hashes a fixed-size array of 128-bit key values (spec's
// "fixed-size array of those" category, specialized to the u128/i128 element
// kind) via the vector pair-multiply-shift kernel's 128-bit flattening.
type MSP128ArrayHasher[T halves128] struct {
	numBits uint32
	hdr     uint64
	tbl     []uint64
}

// NewMSP128ArrayHasher derives a seed table sized for arrays of up to maxLen
// elements; calling Hash with a longer slice is a contract break. Each
// 128-bit element flattens to two u64 words, so the table needs twice the
// stride NewMSPUint64ArrayHasher uses for the same maxLen.
func NewMSP128ArrayHasher[T halves128](seed uint64, numBuckets uint32, maxLen int) *MSP128ArrayHasher[T] {
	w := fillArray(1+4*maxLen, seed)
	return &MSP128ArrayHasher[T]{
		numBits: bitsForBuckets(numBuckets),
		hdr:     w[0],
		tbl:     w[1:],
	}
}

func (h *MSP128ArrayHasher[T]) Hash(v []T) uint32 {
	his := make([]uint64, len(v))
	los := make([]uint64, len(v))
	for i, e := range v {
		his[i], los[i] = e.halves()
	}
	return pairMultiplyShiftVectorU128(his, los, h.numBits, h.hdr, h.tbl)
}

func (h *MSP128ArrayHasher[T]) NumBuckets() uint32 { return numBucketsForBits(h.numBits) }

// MSPByteArrayHasher hashes a fixed-size byte array via the specialized u8
// vector kernel (spec's pair_multiply_shift_vector_u8).
type MSPByteArrayHasher struct {
	numBits uint32
	hdr     uint64
	tbl     []uint64
}

func NewMSPByteArrayHasher(seed uint64, numBuckets uint32, maxLen int) *MSPByteArrayHasher {
	words := 1 + 2*((maxLen+7)/8)
	w := fillArray(words, seed)
	return &MSPByteArrayHasher{
		numBits: bitsForBuckets(numBuckets),
		hdr:     w[0],
		tbl:     w[1:],
	}
}

func (h *MSPByteArrayHasher) Hash(v []byte) uint32 {
	return pairMultiplyShiftVectorU8(v, h.numBits, h.hdr, h.tbl)
}

func (h *MSPByteArrayHasher) NumBuckets() uint32 { return numBucketsForBits(h.numBits) }

// MSPOptionHasher composes spec §4.4's Option<T> scheme over any inner
// Hasher[T]: Hash(None) tags with 0, Hash(Some(v)) tags with 1 and folds in
// the inner hash, and the two are combined via pair-multiply-shift so that
// None and every Some(v) land independently across the output range.
type MSPOptionHasher[T any, H Hasher[T]] struct {
	numBits      uint32
	tagSeed      [2]uint64
	combinerSeed [3]uint64
	inner        H
}

func NewMSPOptionHasher[T any, H Hasher[T]](seed uint64, numBuckets uint32, innerFactory HasherFactory[T, H]) *MSPOptionHasher[T, H] {
	p := newPRNG(seed)
	innerSeed := p.next()
	tagSeed := [2]uint64{p.next(), p.next()}
	combinerSeed := [3]uint64{p.next(), p.next(), p.next()}

	return &MSPOptionHasher[T, H]{
		numBits:      bitsForBuckets(numBuckets),
		tagSeed:      tagSeed,
		combinerSeed: combinerSeed,
		inner:        innerFactory(innerSeed, numBuckets),
	}
}

func (h *MSPOptionHasher[T, H]) Hash(v Optional[T]) uint32 {
	var isSome uint32
	var innerHash uint32
	if v.Present {
		isSome = 1
		innerHash = h.inner.Hash(v.Value)
	}
	tag := multiplyShift(isSome, h.numBits, h.tagSeed)
	combined := uint64(tag)<<32 | uint64(innerHash)
	return pairMultiplyShift(combined, h.numBits, h.combinerSeed)
}

func (h *MSPOptionHasher[T, H]) NumBuckets() uint32 { return numBucketsForBits(h.numBits) }
