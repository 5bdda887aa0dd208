package fks

import (
	"crypto/rand"
	"encoding/binary"
)

// prng is a 64-bit xorshift generator. It is deterministic given a non-zero
// seed, and is the only source of randomness the resolver and the hasher
// family are allowed to use — every trial seed the resolver draws, and every
// per-instance hasher seed derived from it, traces back to one prng.
type prng struct {
	state uint64
}

// newPRNG creates a xorshift generator seeded with a non-zero value. A zero
// seed is a contract break (the all-zero state never advances) and is
// remapped to a fixed non-zero value rather than silently producing a
// degenerate stream.
func newPRNG(seed uint64) *prng {
	if seed == 0 {
		seed = 0x9e3779b97f4a7c15
	}
	return &prng{state: seed}
}

// next advances the generator and returns the new state.
func (p *prng) next() uint64 {
	x := p.state
	x ^= x << 13
	x ^= x >> 7
	x ^= x << 17
	p.state = x
	return x
}

// fillArray pulls n words from a freshly seeded generator. Used wherever a
// fixed-size seed payload needs to be derived from a single u64 seed.
func fillArray(n int, seed uint64) []uint64 {
	p := newPRNG(seed)
	out := make([]uint64, n)
	for i := range out {
		out[i] = p.next()
	}
	return out
}

// NewSeed draws a random 64-bit seed from the operating system's CSPRNG, for
// callers who don't need deterministic, reproducible tables (see
// BuildRuntime's seed parameter for the deterministic case).
func NewSeed() uint64 {
	var b [8]byte
	if _, err := rand.Read(b[:]); err != nil {
		panic("fks: can't read crypto/rand")
	}
	v := binary.BigEndian.Uint64(b[:])
	if v == 0 {
		v = 1
	}
	return v
}
