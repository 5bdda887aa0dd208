package fks

import (
	"encoding/binary"

	"github.com/cespare/xxhash/v2"
)

// xxh3Mix hashes an 8-byte little-endian encoding of v, seeded, and extracts
// the top numBits bits of the 64-bit digest. This is the alternative,
// XXH3-based kernel family spec §4.4 calls out as an acceptable substitute
// for the multiply-shift family — grounded on
// other_examples/79ac2a78_serbanoprea-go-mph__mph.go.go, which builds its
// whole hash/displace table on top of cespare/xxhash/v2.
func xxh3Mix(v uint64, numBits uint32, seed uint64) uint32 {
	var buf [16]byte
	binary.LittleEndian.PutUint64(buf[0:8], seed)
	binary.LittleEndian.PutUint64(buf[8:16], v)
	h := xxhash.Sum64(buf[:])
	return extractTop(h, numBits)
}

// xxh3Bytes hashes an arbitrary byte string, seeded, for the XXH3-based
// string/byte-array kernels.
func xxh3Bytes(data []byte, numBits uint32, seed uint64) uint32 {
	d := xxhash.New()
	var seedBuf [8]byte
	binary.LittleEndian.PutUint64(seedBuf[:], seed)
	d.Write(seedBuf[:])
	d.Write(data)
	return extractTop(d.Sum64(), numBits)
}
