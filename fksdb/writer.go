// writer.go -- constant DB built on top of the fks two-level perfect hash
//
// Adapted from the teacher's dbwriter.go: same overall file shape (fixed
// header, siphash-checksummed records, page-aligned metadata, SHA512-256
// trailer), rewired to wrap fks.Map[uint64, ...] instead of Chd and to
// persist that map's bucket/slot layout (via fks.Map's exported
// NumBuckets/BucketLayout/Slot accessors) instead of a single MarshalBinary
// call, since fks.Map is generic and has no serialization method of its own.

package fksdb

import (
	"crypto/rand"
	"crypto/sha512"
	"encoding/binary"
	"fmt"
	"io"
	"os"

	"github.com/dchest/siphash"

	"github.com/opencoff/go-fks"
)

// Most data is serialized as big-endian integers. The exception is the
// bucket/slot metadata table, which is mmap'd into the process as-is and so
// is written in host-native (little-endian, on every platform this package
// targets) layout; see byteslice.go.

// DBWriter builds a read-only constant database keyed by uint64, using the
// fks two-level perfect hash for O(1) lookup. Values are arbitrary byte
// strings. Each record is protected by a distinct siphash-2-4 checksum and
// the database metadata is protected by a SHA512-256 trailer checksum.
//
// The on-disk layout:
//   - 64 byte header (big-endian): magic "FKSD", flags, 16-byte siphash
//     salt, nkeys, l1Seed, numBuckets, metadata table file offset.
//   - Records, back to back: 8-byte siphash checksum followed by the
//     value bytes.
//   - Padding to the next page boundary.
//   - Bucket table: numBuckets bucketRec entries (offset, numSlots, occ,
//     seed), little-endian / host-native.
//   - Slot table: numSlots slotRec entries (key, record offset, record
//     length), little-endian / host-native.
//   - 32 bytes of SHA512-256 trailer checksum, covering the header, bucket
//     table and slot table (not the record bytes, which are individually
//     checksummed already).
type DBWriter struct {
	fd *os.File

	keymap map[uint64]*record
	order  []uint64

	salt []byte

	off uint64

	fntmp  string
	fn     string
	frozen bool
}

type record struct {
	off  uint64
	vlen uint32
}

// NewDBWriter prepares file fn to hold a constant DB. Once Freeze succeeds,
// readers open it with NewDBReader.
func NewDBWriter(fn string) (*DBWriter, error) {
	var rnd [4]byte
	if _, err := rand.Read(rnd[:]); err != nil {
		return nil, err
	}
	tmp := fmt.Sprintf("%s.tmp.%x", fn, rnd)

	fd, err := os.OpenFile(tmp, os.O_RDWR|os.O_CREATE|os.O_TRUNC, 0600)
	if err != nil {
		return nil, err
	}

	salt := make([]byte, 16)
	if _, err := rand.Read(salt); err != nil {
		fd.Close()
		os.Remove(tmp)
		return nil, err
	}

	w := &DBWriter{
		fd:     fd,
		keymap: make(map[uint64]*record),
		salt:   salt,
		off:    64,
		fn:     fn,
		fntmp:  tmp,
	}

	var z [64]byte
	if _, err := writeAll(fd, z[:]); err != nil {
		return nil, err
	}

	return w, nil
}

// Len returns the number of distinct keys added so far.
func (w *DBWriter) Len() int { return len(w.keymap) }

// Add adds a single key/value pair. Duplicate keys are rejected.
func (w *DBWriter) Add(key uint64, val []byte) error {
	if w.frozen {
		return ErrFrozen
	}
	return w.addRecord(key, val)
}

// AddKeyVals adds a batch of key/value pairs, stopping at the first error.
// Returns the number of records actually added.
func (w *DBWriter) AddKeyVals(keys []uint64, vals [][]byte) (int, error) {
	if w.frozen {
		return 0, ErrFrozen
	}

	n := len(keys)
	if len(vals) < n {
		n = len(vals)
	}

	z := 0
	for i := 0; i < n; i++ {
		if err := w.addRecord(keys[i], vals[i]); err != nil {
			return z, err
		}
		z++
	}
	return z, nil
}

func (w *DBWriter) addRecord(key uint64, val []byte) error {
	if uint64(len(val)) > uint64(1<<32)-1 {
		return ErrValueTooLarge
	}
	if _, ok := w.keymap[key]; ok {
		return ErrExists
	}

	r := &record{off: w.off, vlen: uint32(len(val))}
	w.keymap[key] = r
	w.order = append(w.order, key)

	if err := w.writeRecord(val, r.off); err != nil {
		return err
	}

	return nil
}

func (w *DBWriter) writeRecord(val []byte, off uint64) error {
	var o, c [8]byte
	be := binary.BigEndian
	be.PutUint64(o[:], off)

	h := siphash.New(w.salt)
	h.Write(o[:])
	h.Write(val)
	be.PutUint64(c[:], h.Sum64())

	if _, err := writeAll(w.fd, c[:]); err != nil {
		return err
	}
	if _, err := writeAll(w.fd, val); err != nil {
		return err
	}

	w.off += uint64(len(val)) + 8
	return nil
}

// Freeze builds the perfect hash, writes the remaining sections and closes
// the database file. seed makes the resulting layout reproducible (spec's
// R1); minLoadFactor is the L1 resolver's retry floor (fks.DefaultMinLoadFactor
// if zero).
func (w *DBWriter) Freeze(seed uint64, minLoadFactor float32) (err error) {
	defer func() {
		if err != nil {
			w.fd.Close()
			os.Remove(w.fntmp)
		}
	}()

	if w.frozen {
		return ErrFrozen
	}
	if minLoadFactor == 0 {
		minLoadFactor = fks.DefaultMinLoadFactor
	}

	pairs := make([]fks.Pair[uint64, record], 0, len(w.order))
	for _, k := range w.order {
		pairs = append(pairs, fks.Pair[uint64, record]{Key: k, Value: *w.keymap[k]})
	}

	m, err := fks.BuildRuntimeWithMinLoadFactor(pairs, seed, minLoadFactor, fks.NewMSPInt64Hasher[uint64])
	if err != nil {
		return ErrMPHFail
	}

	h := sha512.New512_256()
	tee := io.MultiWriter(w.fd, h)

	pgsz := uint64(os.Getpagesize())
	pgszM1 := pgsz - 1
	metaOff := (w.off + pgszM1) &^ pgszM1
	if metaOff > w.off {
		if _, err = writeAll(w.fd, make([]byte, metaOff-w.off)); err != nil {
			return err
		}
		w.off = metaOff
	}

	var ehdr [64]byte
	be := binary.BigEndian
	copy(ehdr[:4], []byte{'F', 'K', 'S', 'D'})
	i := 8
	i += copy(ehdr[i:], w.salt)
	be.PutUint64(ehdr[i:i+8], uint64(m.Len()))
	i += 8
	be.PutUint64(ehdr[i:i+8], m.L1Seed())
	i += 8
	be.PutUint64(ehdr[i:i+8], uint64(m.NumBuckets()))
	i += 8
	be.PutUint64(ehdr[i:i+8], metaOff)

	h.Write(ehdr[:])

	if err = w.writeMetadata(tee, m); err != nil {
		return err
	}

	cksum := h.Sum(nil)
	if _, err = writeAll(w.fd, cksum); err != nil {
		return err
	}

	if _, err = w.fd.Seek(0, 0); err != nil {
		return err
	}
	if _, err = writeAll(w.fd, ehdr[:]); err != nil {
		return err
	}

	w.frozen = true
	w.fd.Sync()
	w.fd.Close()

	return os.Rename(w.fntmp, w.fn)
}

func (w *DBWriter) writeMetadata(tee io.Writer, m *fks.Map[uint64, record, *fks.MSPInt64Hasher[uint64]]) error {
	numBuckets := m.NumBuckets()
	buckets := make([]bucketRec, numBuckets)
	for i := 0; i < numBuckets; i++ {
		offset, numSlots, occ, seed := m.BucketLayout(i)
		buckets[i] = bucketRec{
			Offset:   uint64(offset),
			NumSlots: uint64(numSlots),
			Occ:      uint64(occ),
			Seed:     seed,
		}
	}
	if _, err := writeAll(tee, bucketsToByteSlice(buckets)); err != nil {
		return err
	}
	w.off += uint64(len(buckets)) * bucketRecSize

	numSlots := m.NumSlots()
	slots := make([]slotRec, numSlots)
	for i := 0; i < numSlots; i++ {
		if !m.SlotOccupied(i) {
			continue
		}
		key, val := m.Slot(i)
		slots[i] = slotRec{Key: key, RecOffset: val.off, RecVLen: uint64(val.vlen)}
	}
	if _, err := writeAll(tee, slotsToByteSlice(slots)); err != nil {
		return err
	}
	w.off += uint64(len(slots)) * slotRecSize

	return nil
}

// Abort discards the in-progress database file.
func (w *DBWriter) Abort() {
	w.fd.Close()
	os.Remove(w.fntmp)
}

func writeAll(w io.Writer, buf []byte) (int, error) {
	n, err := w.Write(buf)
	if err != nil {
		return 0, err
	}
	if n != len(buf) {
		return n, errShortWrite(n)
	}
	return n, nil
}
