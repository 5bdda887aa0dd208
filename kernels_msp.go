package fks

import "math/big"

// extractTop returns the top numBits bits of a 64-bit accumulator, the
// common tail of every kernel in this file. A logical right shift, never an
// arithmetic one — h is always treated as unsigned. Go defines shifts whose
// count equals or exceeds the operand width as producing zero, which is
// exactly what we want for numBits == 0 (the single-bucket case, spec I5/B2).
func extractTop(h uint64, numBits uint32) uint32 {
	return uint32(h >> (64 - numBits))
}

// multiplyShift hashes a 32-bit value via Dietzfelbinger's multiply-add-shift
// scheme. seed[0] must be non-zero for the strong-universality guarantee to
// hold; the resolver never draws a zero seed[0] because seeds come from the
// PRNG (vanishingly unlikely to be zero, and irrelevant for correctness: a
// zero seed[0] just degrades to seed[1] for every input, which the resolver
// would reject on the very next collision check).
func multiplyShift(v uint32, numBits uint32, seed [2]uint64) uint32 {
	h := seed[0]*uint64(v) + seed[1]
	return extractTop(h, numBits)
}

// pairMultiplyShift hashes a 64-bit value via Thorup's pair-multiply-shift
// scheme.
func pairMultiplyShift(v uint64, numBits uint32, seed [3]uint64) uint32 {
	h := (seed[0] + v) * (seed[1] + (v >> 32))
	h += seed[2]
	return extractTop(h, numBits)
}

// pairMultiplyShiftU128 hashes a 128-bit value (given as hi/lo halves) by
// pairing its four 32-bit limbs.
func pairMultiplyShiftU128(hi, lo uint64, numBits uint32, seed [5]uint64) uint32 {
	a := lo & 0xffffffff
	b := lo >> 32
	c := hi & 0xffffffff
	d := hi >> 32

	h := (seed[0]+a)*(seed[1]+b) + (seed[2]+c)*(seed[3]+d) + seed[4]
	return extractTop(h, numBits)
}

// pairMultiplyShiftVectorU64 hashes a fixed-length vector of 64-bit words.
// seedTbl must hold at least 2*len(xs) entries.
func pairMultiplyShiftVectorU64(xs []uint64, numBits uint32, seedHdr uint64, seedTbl []uint64) uint32 {
	sum := seedHdr
	for i, x := range xs {
		hi := x >> 32
		lo := x & 0xffffffff
		sum += (seedTbl[2*i] + hi) * (seedTbl[2*i+1] + lo)
	}
	return extractTop(sum, numBits)
}

// pairMultiplyShiftVectorU128 hashes a fixed-length vector of 128-bit words,
// given as parallel hi/lo slices. Flattens each 128-bit element into its two
// 64-bit halves and reuses the u64 vector kernel's pairing scheme with twice
// the seed-table stride (4 seed words per element instead of 2), matching
// spec's "4 seed words per 128-bit element" without a separate
// implementation.
func pairMultiplyShiftVectorU128(his, los []uint64, numBits uint32, seedHdr uint64, seedTbl []uint64) uint32 {
	flat := make([]uint64, 0, 2*len(his))
	for i := range his {
		flat = append(flat, los[i], his[i])
	}
	return pairMultiplyShiftVectorU64(flat, numBits, seedHdr, seedTbl)
}

// pairMultiplyShiftVectorU8 hashes a fixed-length byte array, dispatching to
// the 32-bit or 64-bit scalar kernel for short inputs and to the u64 vector
// kernel (reinterpreting the bytes as little-endian 64-bit words, zero-padding
// the tail) for longer ones. seedTbl must hold at least 2*ceil(len/8) entries,
// and at least one for an empty input.
func pairMultiplyShiftVectorU8(data []byte, numBits uint32, seedHdr uint64, seedTbl []uint64) uint32 {
	n := len(data)
	switch {
	case n <= 4:
		var buf [4]byte
		copy(buf[:], data)
		v := le32(buf[:])
		return multiplyShift(v, numBits, [2]uint64{seedTbl[0], seedHdr})

	case n <= 8:
		var buf [8]byte
		copy(buf[:], data)
		v := le64(buf[:])
		return pairMultiplyShift(v, numBits, [3]uint64{seedTbl[0], seedTbl[1], seedHdr})

	default:
		words := make([]uint64, (n+7)/8)
		var buf [8]byte
		for i := range words {
			for j := range buf {
				buf[j] = 0
			}
			copy(buf[:], data[i*8:min(n, i*8+8)])
			words[i] = le64(buf[:])
		}
		return pairMultiplyShiftVectorU64(words, numBits, seedHdr, seedTbl)
	}
}

func le32(b []byte) uint32 {
	return uint32(b[0]) | uint32(b[1])<<8 | uint32(b[2])<<16 | uint32(b[3])<<24
}

func le64(b []byte) uint64 {
	var v uint64
	for i := 0; i < 8; i++ {
		v |= uint64(b[i]) << (8 * i)
	}
	return v
}

func min(a, b int) int {
	if a < b {
		return a
	}
	return b
}

// mersennePrime is 2^89 - 1, the fixed modulus polynomial hashing reduces
// against (spec's P, P_E = 89).
var mersennePrime = new(big.Int).Sub(new(big.Int).Lsh(big.NewInt(1), 89), big.NewInt(1))

// polynomialSeed is the seed payload for the polynomial kernel: a Horner
// multiplier a, an additive constant b (both < mersennePrime), and two
// independent 65-word chunk-hashing seeds (header + 64 table entries each).
type polynomialSeed struct {
	a, b big.Int
	h1   [65]uint64
	h2   [65]uint64
}

// newPolynomialSeed derives a's, b's and H1/H2's values from the PRNG.
func newPolynomialSeed(seed uint64) *polynomialSeed {
	p := newPRNG(seed)
	ps := &polynomialSeed{}

	// a must land in [1, P-1]; b in [0, P-1]. Draw two 64-bit words each
	// and reduce modulo P, rejecting the all-zero draw for a.
	for {
		hi := p.next() & ((1 << 25) - 1)
		lo := p.next()
		v := wide89(hi, lo)
		v.Mod(v, mersennePrime)
		if v.Sign() != 0 {
			ps.a = *v
			break
		}
	}
	{
		hi := p.next() & ((1 << 25) - 1)
		lo := p.next()
		v := wide89(hi, lo)
		v.Mod(v, mersennePrime)
		ps.b = *v
	}
	for i := range ps.h1 {
		ps.h1[i] = p.next()
	}
	for i := range ps.h2 {
		ps.h2[i] = p.next()
	}
	return ps
}

func wide89(hi, lo uint64) *big.Int {
	v := new(big.Int).Lsh(new(big.Int).SetUint64(hi), 64)
	v.Or(v, new(big.Int).SetUint64(lo))
	return v
}

// chunkHash hashes one 256-byte chunk (the tail chunk may be shorter and is
// zero-padded) into a 64-bit value: 32 little-endian u64 words hashed twice,
// with seeds H1 and H2, the results concatenated.
func chunkHash(chunk []byte, h1, h2 []uint64) uint64 {
	var words [32]uint64
	var buf [8]byte
	for i := 0; i < 32; i++ {
		for j := range buf {
			buf[j] = 0
		}
		start := i * 8
		if start < len(chunk) {
			copy(buf[:], chunk[start:min(len(chunk), start+8)])
		}
		words[i] = le64(buf[:])
	}

	hash1 := pairMultiplyShiftVectorU64(words[:], 32, h1[0], h1[1:])
	hash2 := pairMultiplyShiftVectorU64(words[:], 32, h2[0], h2[1:])
	return uint64(hash1)<<32 | uint64(hash2)
}

// modMersenne reduces x modulo mersennePrime using the fast fold-and-add
// trick, iterating until the result is fully reduced (a single fold can
// leave a value equal to P or slightly above it when the input spans more
// than 2*89 bits, as acc*a does).
func modMersenne(x *big.Int) *big.Int {
	for x.Cmp(mersennePrime) > 0 {
		lo := new(big.Int).And(x, mersennePrime)
		hi := new(big.Int).Rsh(x, 89)
		x = lo.Add(lo, hi)
	}
	if x.Cmp(mersennePrime) == 0 {
		x = new(big.Int)
	}
	return x
}

// polynomial hashes an unbounded byte string via Horner's rule over
// 256-byte-chunk hashes, modulo the Mersenne prime 2^89-1.
func polynomial(data []byte, numBits uint32, seed *polynomialSeed) uint32 {
	if len(data) == 0 {
		return extractTopBig(&seed.b, numBits)
	}

	acc := new(big.Int)
	for off := 0; off < len(data); off += 256 {
		end := min(len(data), off+256)
		ch := chunkHash(data[off:end], seed.h1[:], seed.h2[:])

		acc.Mul(acc, &seed.a)
		acc.Add(acc, new(big.Int).SetUint64(ch))
		acc = modMersenne(acc)
	}

	acc.Mul(acc, &seed.a)
	acc = modMersenne(acc)

	return extractTopBig(acc, numBits)
}

// extractTopBig extracts the top numBits bits of an 89-bit accumulator.
func extractTopBig(v *big.Int, numBits uint32) uint32 {
	shifted := new(big.Int).Rsh(v, uint(89-numBits))
	return uint32(shifted.Uint64())
}
