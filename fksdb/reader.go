// reader.go -- query interface for a previously frozen fksdb database
//
// Adapted from the teacher's dbreader.go: same header/metadata verification
// sequence and mmap'd metadata table, rewired to rebuild an fks.Map via
// fks.NewMapFromLayout instead of Chd.UnmarshalBinaryMmap, and an ARC cache
// of decoded records exactly as the teacher uses golang-lru.

package fksdb

import (
	"crypto/sha512"
	"crypto/subtle"
	"encoding/binary"
	"fmt"
	"io"
	"os"
	"syscall"

	"github.com/dchest/siphash"
	lru "github.com/opencoff/golang-lru"

	"github.com/opencoff/go-fks"
)

// DBReader is the query interface for a database built with DBWriter. The
// only meaningful operation is Find/Lookup.
type DBReader struct {
	m *fks.Map[uint64, record, *fks.MSPInt64Hasher[uint64]]

	cache *lru.ARCCache

	mmap []byte
	fd   *os.File
	fn   string

	nkeys uint64
	salt  []byte
}

// NewDBReader opens fn and prepares it for querying, caching up to cache
// decoded records in memory (default 128 if cache <= 0).
func NewDBReader(fn string, cache int) (rd *DBReader, err error) {
	fd, err := os.Open(fn)
	if err != nil {
		return nil, err
	}

	if cache <= 0 {
		cache = 128
	}

	rd = &DBReader{
		salt: make([]byte, 16),
		fd:   fd,
		fn:   fn,
	}

	st, err := fd.Stat()
	if err != nil {
		return nil, fmt.Errorf("%s: can't stat: %w", fn, err)
	}
	if st.Size() < (64 + 32) {
		return nil, fmt.Errorf("%s: %w", fn, ErrCorrupt)
	}

	var hdrb [64]byte
	if _, err = io.ReadFull(fd, hdrb[:]); err != nil {
		return nil, fmt.Errorf("%s: can't read header: %w", fn, err)
	}

	l1Seed, numBuckets, metaOff, err := rd.decodeHeader(hdrb[:], st.Size())
	if err != nil {
		return nil, err
	}

	if err = rd.verifyChecksum(hdrb[:], metaOff, st.Size()); err != nil {
		return nil, err
	}

	rd.cache, err = lru.NewARC(cache)
	if err != nil {
		return nil, err
	}

	mmapsz := st.Size() - int64(metaOff) - 32
	bs, err := syscall.Mmap(int(fd.Fd()), int64(metaOff), int(mmapsz), syscall.PROT_READ, syscall.MAP_PRIVATE)
	if err != nil {
		return nil, fmt.Errorf("%s: can't mmap %d bytes at off %d: %w", fn, mmapsz, metaOff, err)
	}
	rd.mmap = bs

	bucketTblSz := uint64(numBuckets) * bucketRecSize
	if uint64(len(bs)) < bucketTblSz {
		syscall.Munmap(bs)
		return nil, fmt.Errorf("%s: %w", fn, ErrCorrupt)
	}
	bucketRecs := bsToBucketSlice(bs[:bucketTblSz])

	offsets := make([]int, numBuckets)
	numSlotsArr := make([]uint32, numBuckets)
	occArr := make([]uint32, numBuckets)
	seedArr := make([]uint64, numBuckets)
	totalSlots := 0
	for i, b := range bucketRecs {
		offsets[i] = int(b.Offset)
		numSlotsArr[i] = uint32(b.NumSlots)
		occArr[i] = uint32(b.Occ)
		seedArr[i] = b.Seed
		totalSlots += int(b.NumSlots)
	}

	slotTblSz := uint64(totalSlots) * slotRecSize
	if uint64(len(bs)) < bucketTblSz+slotTblSz {
		syscall.Munmap(bs)
		return nil, fmt.Errorf("%s: %w", fn, ErrCorrupt)
	}
	slotRecs := bsToSlotSlice(bs[bucketTblSz : bucketTblSz+slotTblSz])

	slots := make([]fks.Pair[uint64, record], totalSlots)
	for i := range slotRecs {
		slots[i] = fks.Pair[uint64, record]{
			Key:   slotRecs[i].Key,
			Value: record{off: slotRecs[i].RecOffset, vlen: uint32(slotRecs[i].RecVLen)},
		}
	}

	rd.m = fks.NewMapFromLayout[uint64, record](
		l1Seed, numBuckets,
		offsets, numSlotsArr, occArr, seedArr,
		slots, int(rd.nkeys),
		fks.NewMSPInt64Hasher[uint64],
	)

	return rd, nil
}

// Len returns the number of distinct keys in the DB.
func (rd *DBReader) Len() int { return int(rd.nkeys) }

// Close releases the mmap'd region and underlying file descriptor.
func (rd *DBReader) Close() {
	syscall.Munmap(rd.mmap)
	rd.fd.Close()
	rd.cache.Purge()
	rd.m = nil
	rd.fd = nil
	rd.salt = nil
	rd.fn = ""
}

// Lookup looks up key and returns its value, or ok=false if absent.
func (rd *DBReader) Lookup(key uint64) ([]byte, bool) {
	v, err := rd.Find(key)
	if err != nil {
		return nil, false
	}
	return v, true
}

// Find looks up key and returns its value, or an error if the key is absent,
// disk i/o fails, or the record's checksum doesn't verify.
func (rd *DBReader) Find(key uint64) ([]byte, error) {
	if v, ok := rd.cache.Get(key); ok {
		return v.([]byte), nil
	}

	r, ok := rd.m.Get(key)
	if !ok {
		return nil, ErrNoKey
	}

	val, err := rd.decodeRecord(r.off, r.vlen)
	if err != nil {
		return nil, err
	}

	rd.cache.Add(key, val)
	return val, nil
}

func (rd *DBReader) decodeRecord(off uint64, vlen uint32) ([]byte, error) {
	if _, err := rd.fd.Seek(int64(off), 0); err != nil {
		return nil, err
	}

	data := make([]byte, vlen+8)
	if _, err := io.ReadFull(rd.fd, data); err != nil {
		return nil, err
	}

	be := binary.BigEndian
	csum := be.Uint64(data[:8])

	var o [8]byte
	be.PutUint64(o[:], off)

	h := siphash.New(rd.salt)
	h.Write(o[:])
	h.Write(data[8:])
	exp := h.Sum64()

	if csum != exp {
		return nil, fmt.Errorf("%s: corrupted record at off %d (exp %#x, saw %#x)", rd.fn, off, exp, csum)
	}
	return data[8:], nil
}

func (rd *DBReader) verifyChecksum(hdrb []byte, metaOff uint64, sz int64) error {
	h := sha512.New512_256()
	h.Write(hdrb)

	remsz := sz - int64(metaOff) - 32
	if _, err := rd.fd.Seek(int64(metaOff), 0); err != nil {
		return err
	}

	nw, err := io.CopyN(h, rd.fd, remsz)
	if err != nil {
		return fmt.Errorf("%s: metadata i/o error: %w", rd.fn, err)
	}
	if nw != remsz {
		return fmt.Errorf("%s: partial read verifying checksum, exp %d saw %d", rd.fn, remsz, nw)
	}

	var expsum [32]byte
	if _, err := rd.fd.Seek(sz-32, 0); err != nil {
		return err
	}
	if _, err = io.ReadFull(rd.fd, expsum[:]); err != nil {
		return fmt.Errorf("%s: checksum i/o error: %w", rd.fn, err)
	}

	csum := h.Sum(nil)
	if subtle.ConstantTimeCompare(csum, expsum[:]) != 1 {
		return fmt.Errorf("%s: checksum failure; exp %#x, saw %#x", rd.fn, expsum, csum)
	}

	_, err = rd.fd.Seek(int64(metaOff), 0)
	return err
}

func (rd *DBReader) decodeHeader(b []byte, sz int64) (l1Seed uint64, numBuckets uint32, metaOff uint64, err error) {
	if string(b[:4]) != "FKSD" {
		return 0, 0, 0, fmt.Errorf("%s: bad file magic", rd.fn)
	}

	be := binary.BigEndian
	i := 8
	copy(rd.salt, b[i:i+16])
	i += 16
	rd.nkeys = be.Uint64(b[i : i+8])
	i += 8
	l1Seed = be.Uint64(b[i : i+8])
	i += 8
	numBuckets = uint32(be.Uint64(b[i : i+8]))
	i += 8
	metaOff = be.Uint64(b[i : i+8])

	if metaOff < 64 || metaOff >= uint64(sz-32) {
		return 0, 0, 0, fmt.Errorf("%s: %w", rd.fn, ErrCorrupt)
	}

	return l1Seed, numBuckets, metaOff, nil
}
