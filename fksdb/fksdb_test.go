// fksdb_test.go -- test suite for the fksdb constant database
//
// Adapted from the teacher's db_test.go: same build-then-read-back shape,
// rewired for fksdb's DBWriter/DBReader.

package fksdb

import (
	"fmt"
	"os"
	"testing"

	"github.com/opencoff/go-fasthash"

	"github.com/opencoff/go-fks"
	"github.com/opencoff/go-fks/internal/testutil"
)

var keyw = []string{
	"expectoration",
	"mizzenmastman",
	"stockfather",
	"pictorialness",
	"villainous",
	"unquality",
	"sized",
	"Tarahumari",
	"endocrinotherapy",
	"quicksandy",
	"heretics",
	"pediment",
	"spleen's",
	"Shepard's",
	"paralyzed",
	"megahertzes",
	"Richardson's",
	"mechanics's",
	"Springfield",
	"burlesques",
}

func TestDBRoundTrip(t *testing.T) {
	assert := testutil.Assert(t)

	fn := fmt.Sprintf("%s/fksdb%d.db", os.TempDir(), os.Getpid())
	defer os.Remove(fn)

	wr, err := NewDBWriter(fn)
	assert(err == nil, "can't create db: %s", err)

	hseed := fks.NewSeed()
	kvmap := make(map[uint64]string)
	for _, s := range keyw {
		h := fasthash.Hash64(hseed, []byte(s))
		err = wr.Add(h, []byte(s))
		assert(err == nil, "can't add key %#x: %s", h, err)
		kvmap[h] = s
	}

	err = wr.Freeze(fks.NewSeed(), 0.9)
	assert(err == nil, "freeze failed: %s", err)

	rd, err := NewDBReader(fn, 10)
	assert(err == nil, "read failed: %s", err)
	defer rd.Close()

	assert(rd.Len() == len(kvmap), "Len() = %d, want %d", rd.Len(), len(kvmap))

	for h, v := range kvmap {
		s, err := rd.Find(h)
		assert(err == nil, "can't find key %#x: %s", h, err)
		assert(string(s) == v, "key %#x: value mismatch; exp %s, saw %s", h, v, string(s))
	}

	for i := uint64(0); i < 10; i++ {
		if _, ok := kvmap[i]; ok {
			continue
		}
		_, err := rd.Find(i)
		assert(err != nil, "whoa: found key %d that was never added", i)
	}
}

func TestDBDuplicateKeyRejected(t *testing.T) {
	assert := testutil.Assert(t)

	fn := fmt.Sprintf("%s/fksdb-dup%d.db", os.TempDir(), os.Getpid())
	defer os.Remove(fn)

	wr, err := NewDBWriter(fn)
	assert(err == nil, "can't create db: %s", err)
	defer wr.Abort()

	assert(wr.Add(1, []byte("a")) == nil, "first add failed")
	assert(wr.Add(1, []byte("b")) == ErrExists, "duplicate key not rejected")
}

func TestDBEmptyValue(t *testing.T) {
	assert := testutil.Assert(t)

	fn := fmt.Sprintf("%s/fksdb-empty%d.db", os.TempDir(), os.Getpid())
	defer os.Remove(fn)

	wr, err := NewDBWriter(fn)
	assert(err == nil, "can't create db: %s", err)

	assert(wr.Add(1, nil) == nil, "add with empty value failed")
	assert(wr.Add(2, []byte("two")) == nil, "add failed")

	err = wr.Freeze(fks.NewSeed(), 0.9)
	assert(err == nil, "freeze failed: %s", err)

	rd, err := NewDBReader(fn, 4)
	assert(err == nil, "read failed: %s", err)
	defer rd.Close()

	v, ok := rd.Lookup(1)
	assert(ok, "empty-value key not found")
	assert(len(v) == 0, "expected empty value, got %q", v)

	v, ok = rd.Lookup(2)
	assert(ok, "second key not found")
	assert(string(v) == "two", "unexpected value: %q", v)
}
