package fks

import "encoding/binary"

// This file implements the alternative XXH3-based hasher family spec §4.4
// sanctions as a substitute for the multiply-shift family. It covers the
// same key-type categories as hashers_msp.go, built on the xxh3Mix/xxh3Bytes
// kernels in kernels_xxh3.go instead of multiplyShift/polynomial.

// XXH3SmallIntHasher hashes any ≤32-bit integer key type via XXH3.
type XXH3SmallIntHasher[T smallIntKind] struct {
	numBits uint32
	seed    uint64
}

func NewXXH3SmallIntHasher[T smallIntKind](seed uint64, numBuckets uint32) *XXH3SmallIntHasher[T] {
	return &XXH3SmallIntHasher[T]{numBits: bitsForBuckets(numBuckets), seed: seed}
}

func (h *XXH3SmallIntHasher[T]) Hash(v T) uint32 {
	return xxh3Mix(uint64(uint32(v)), h.numBits, h.seed)
}

func (h *XXH3SmallIntHasher[T]) NumBuckets() uint32 { return numBucketsForBits(h.numBits) }

// XXH3Int64Hasher hashes a 64-bit integer key type via XXH3.
type XXH3Int64Hasher[T int64Kind] struct {
	numBits uint32
	seed    uint64
}

func NewXXH3Int64Hasher[T int64Kind](seed uint64, numBuckets uint32) *XXH3Int64Hasher[T] {
	return &XXH3Int64Hasher[T]{numBits: bitsForBuckets(numBuckets), seed: seed}
}

func (h *XXH3Int64Hasher[T]) Hash(v T) uint32 {
	return xxh3Mix(uint64(v), h.numBits, h.seed)
}

func (h *XXH3Int64Hasher[T]) NumBuckets() uint32 { return numBucketsForBits(h.numBits) }

// XXH3_128Hasher hashes a 128-bit key type (Uint128 or Int128) via XXH3 over
// its 16-byte little-endian encoding.
type XXH3_128Hasher[T halves128] struct {
	numBits uint32
	seed    uint64
}

func NewXXH3_128Hasher[T halves128](seed uint64, numBuckets uint32) *XXH3_128Hasher[T] {
	return &XXH3_128Hasher[T]{numBits: bitsForBuckets(numBuckets), seed: seed}
}

func (h *XXH3_128Hasher[T]) Hash(v T) uint32 {
	hi, lo := v.halves()
	var buf [16]byte
	binary.LittleEndian.PutUint64(buf[0:8], lo)
	binary.LittleEndian.PutUint64(buf[8:16], hi)
	return xxh3Bytes(buf[:], h.numBits, h.seed)
}

func (h *XXH3_128Hasher[T]) NumBuckets() uint32 { return numBucketsForBits(h.numBits) }

// XXH3BytesHasher hashes an unbounded byte string via XXH3.
type XXH3BytesHasher struct {
	numBits uint32
	seed    uint64
}

func NewXXH3BytesHasher(seed uint64, numBuckets uint32) *XXH3BytesHasher {
	return &XXH3BytesHasher{numBits: bitsForBuckets(numBuckets), seed: seed}
}

func (h *XXH3BytesHasher) Hash(v []byte) uint32 { return xxh3Bytes(v, h.numBits, h.seed) }
func (h *XXH3BytesHasher) NumBuckets() uint32    { return numBucketsForBits(h.numBits) }

// XXH3StringHasher is XXH3BytesHasher specialized for the string key type.
type XXH3StringHasher struct {
	inner *XXH3BytesHasher
}

func NewXXH3StringHasher(seed uint64, numBuckets uint32) *XXH3StringHasher {
	return &XXH3StringHasher{inner: NewXXH3BytesHasher(seed, numBuckets)}
}

func (h *XXH3StringHasher) Hash(v string) uint32 { return h.inner.Hash([]byte(v)) }
func (h *XXH3StringHasher) NumBuckets() uint32   { return h.inner.NumBuckets() }

// XXH3Uint64ArrayHasher hashes a fixed-size array of uint64 values via XXH3
// over its little-endian byte encoding.
type XXH3Uint64ArrayHasher struct {
	numBits uint32
	seed    uint64
}

func NewXXH3Uint64ArrayHasher(seed uint64, numBuckets uint32) *XXH3Uint64ArrayHasher {
	return &XXH3Uint64ArrayHasher{numBits: bitsForBuckets(numBuckets), seed: seed}
}

func (h *XXH3Uint64ArrayHasher) Hash(v []uint64) uint32 {
	buf := make([]byte, 8*len(v))
	for i, x := range v {
		binary.LittleEndian.PutUint64(buf[i*8:], x)
	}
	return xxh3Bytes(buf, h.numBits, h.seed)
}

func (h *XXH3Uint64ArrayHasher) NumBuckets() uint32 { return numBucketsForBits(h.numBits) }

// XXH3ByteArrayHasher hashes a fixed-size byte array via XXH3 directly.
type XXH3ByteArrayHasher struct {
	numBits uint32
	seed    uint64
}

func NewXXH3ByteArrayHasher(seed uint64, numBuckets uint32) *XXH3ByteArrayHasher {
	return &XXH3ByteArrayHasher{numBits: bitsForBuckets(numBuckets), seed: seed}
}

func (h *XXH3ByteArrayHasher) Hash(v []byte) uint32 { return xxh3Bytes(v, h.numBits, h.seed) }
func (h *XXH3ByteArrayHasher) NumBuckets() uint32   { return numBucketsForBits(h.numBits) }

// XXH3OptionHasher composes spec §4.4's Option<T> scheme over any inner
// Hasher[T], mirroring MSPOptionHasher but combining via XXH3 instead of
// pair-multiply-shift.
type XXH3OptionHasher[T any, H Hasher[T]] struct {
	numBits uint32
	tagSeed uint64
	combSeed uint64
	inner   H
}

func NewXXH3OptionHasher[T any, H Hasher[T]](seed uint64, numBuckets uint32, innerFactory HasherFactory[T, H]) *XXH3OptionHasher[T, H] {
	p := newPRNG(seed)
	innerSeed := p.next()
	tagSeed := p.next()
	combSeed := p.next()

	return &XXH3OptionHasher[T, H]{
		numBits:  bitsForBuckets(numBuckets),
		tagSeed:  tagSeed,
		combSeed: combSeed,
		inner:    innerFactory(innerSeed, numBuckets),
	}
}

func (h *XXH3OptionHasher[T, H]) Hash(v Optional[T]) uint32 {
	var isSome uint64
	var innerHash uint32
	if v.Present {
		isSome = 1
		innerHash = h.inner.Hash(v.Value)
	}
	tag := xxh3Mix(isSome, h.numBits, h.tagSeed)
	combined := uint64(tag)<<32 | uint64(innerHash)
	return xxh3Mix(combined, h.numBits, h.combSeed)
}

func (h *XXH3OptionHasher[T, H]) NumBuckets() uint32 { return numBucketsForBits(h.numBits) }
