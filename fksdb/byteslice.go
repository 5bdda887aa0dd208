// byteslice.go -- reinterpret mmap'd bytes as fixed-layout record slices
//
// Adapted from the teacher's mmap.go (bsToUint64Slice/u64sToByteSlice):
// same reflect.SliceHeader reinterpretation idiom, generalized from bare
// uint16/32/64 slices to the fixed-width bucketRec/slotRec structs this
// package persists, so the on-disk bucket and slot tables can be mmap'd and
// read without a copy.

package fksdb

import (
	"reflect"
	"unsafe"
)

// bucketRec is one L1 bucket's persisted layout. Every field is a uint64 so
// the struct has no compiler-inserted padding and its in-memory layout is
// exactly 32 bytes, little-endian on every platform this package supports.
type bucketRec struct {
	Offset   uint64
	NumSlots uint64
	Occ      uint64
	Seed     uint64
}

// slotRec is one realized slot's persisted (key, record pointer) pair.
type slotRec struct {
	Key       uint64
	RecOffset uint64
	RecVLen   uint64
}

const bucketRecSize = 32
const slotRecSize = 24

func bsToBucketSlice(b []byte) []bucketRec {
	n := len(b) / bucketRecSize
	bh := (*reflect.SliceHeader)(unsafe.Pointer(&b))
	var v []bucketRec
	sh := (*reflect.SliceHeader)(unsafe.Pointer(&v))
	sh.Data = bh.Data
	sh.Len = n
	sh.Cap = n
	return v
}

func bucketsToByteSlice(b []bucketRec) []byte {
	n := len(b)
	bh := (*reflect.SliceHeader)(unsafe.Pointer(&b))
	var v []byte
	sh := (*reflect.SliceHeader)(unsafe.Pointer(&v))
	sh.Data = bh.Data
	sh.Len = n * bucketRecSize
	sh.Cap = n * bucketRecSize
	return v
}

func bsToSlotSlice(b []byte) []slotRec {
	n := len(b) / slotRecSize
	bh := (*reflect.SliceHeader)(unsafe.Pointer(&b))
	var v []slotRec
	sh := (*reflect.SliceHeader)(unsafe.Pointer(&v))
	sh.Data = bh.Data
	sh.Len = n
	sh.Cap = n
	return v
}

func slotsToByteSlice(b []slotRec) []byte {
	n := len(b)
	bh := (*reflect.SliceHeader)(unsafe.Pointer(&b))
	var v []byte
	sh := (*reflect.SliceHeader)(unsafe.Pointer(&v))
	sh.Data = bh.Data
	sh.Len = n * slotRecSize
	sh.Cap = n * slotRecSize
	return v
}
