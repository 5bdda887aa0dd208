package fks

import "math/bits"

// Hasher is the capability set every typed hasher in the family exposes:
// hash a value of type T into [0, NumBuckets()). Implementations are value
// types constructed via a from-seed factory (see the NewMSP*Hasher /
// NewXXH3*Hasher constructors in hashers_msp.go and hashers_xxh3.go) rather
// than through this interface, so the resolver
// and the static map can be parameterized on a concrete hasher type and get
// static dispatch (spec §9: "avoid type erasure on the lookup path").
type Hasher[T any] interface {
	Hash(value T) uint32
	NumBuckets() uint32
}

// HasherFactory builds a new hasher instance from a 64-bit seed and a
// requested bucket count. This stands in for spec §4's "from_seed"
// operation; Go has no static-method-on-type-parameter facility, so the
// resolver and builder take the factory as an explicit function value.
type HasherFactory[T any, H Hasher[T]] func(seed uint64, numBuckets uint32) H

// Optional represents spec §4.4's Option<T> key wrapper: Go has no sum type
// for this, so Present discriminates the two cases explicitly (never a
// sentinel zero Value).
type Optional[T any] struct {
	Value   T
	Present bool
}

// Some builds a present Optional.
func Some[T any](v T) Optional[T] { return Optional[T]{Value: v, Present: true} }

// None builds an absent Optional.
func None[T any]() Optional[T] { return Optional[T]{} }

// bitsForBuckets maps a requested bucket count to num_bits: 0 if r<=1,
// ceil(log2 r) otherwise. The realized range 2^num_bits can exceed r; every
// caller must use the realized value, never r itself.
//
// This resolves the spec's own internal tension between its general
// data-model mapping (which special-cases r=1 to 1 bit / 2 buckets) and its
// L2-resolution formula (2^ceil(log2 n_i), which for n_i=1 gives exactly 1
// slot) in favor of the latter: it is what makes the single-slot lookup
// fast path (spec's B2, "single-slot fast path returns without L2 hashing")
// reachable at all, and it is what B2 tests for.
func bitsForBuckets(r uint32) uint32 {
	if r <= 1 {
		return 0
	}
	return uint32(bits.Len32(r - 1))
}

func numBucketsForBits(b uint32) uint32 {
	return 1 << b
}

// halves128 is implemented by the two 128-bit key representations (Uint128,
// Int128) so a single generic hasher can cover both: their bit pattern is
// all that strong universality over the hash kernel cares about, not their
// numeric interpretation.
type halves128 interface {
	halves() (hi, lo uint64)
}

// Uint128 is an unsigned 128-bit key, stored as two 64-bit halves since Go
// has no native 128-bit integer type.
type Uint128 struct {
	Hi, Lo uint64
}

func (v Uint128) halves() (hi, lo uint64) { return v.Hi, v.Lo }

// Int128 is a signed 128-bit key, stored as the two's-complement bit pattern
// split into halves. Hashing only ever consumes the bit pattern, so the sign
// interpretation never enters the kernel.
type Int128 struct {
	Hi, Lo uint64
}

func (v Int128) halves() (hi, lo uint64) { return v.Hi, v.Lo }
