// text.go -- read key/value pairs from text or CSV files
//
// Adapted from the teacher's example/text.go: same scanner/channel shape
// and fasthash-based key derivation, rewired to collect into a plain slice
// instead of writing straight into a DBWriter, since fksgen needs every
// pair in hand before it can call fks.BuildRuntime.

package main

import (
	"bufio"
	"encoding/csv"
	"io"
	"os"
	"strings"

	"github.com/opencoff/go-fasthash"
)

type kv struct {
	key uint64
	val []byte
}

// ReadTextFile reads fn, where each line is "key<delim>value", into a slice
// of (hash(key), value) pairs. Blank lines and lines starting with '#' are
// skipped.
func ReadTextFile(fn string, delim string) ([]kv, error) {
	fd, err := os.Open(fn)
	if err != nil {
		return nil, err
	}
	defer fd.Close()

	return ReadTextStream(fd, delim)
}

func ReadTextStream(fd io.Reader, delim string) ([]kv, error) {
	if len(delim) == 0 {
		delim = " \t"
	}

	var out []kv
	sc := bufio.NewScanner(bufio.NewReader(fd))
	for sc.Scan() {
		s := strings.TrimSpace(sc.Text())
		if len(s) == 0 || s[0] == '#' {
			continue
		}

		var k, v string
		if i := strings.IndexAny(s, delim); i > 0 {
			k = s[:i]
			v = strings.TrimLeft(s[i:], delim)
		} else {
			k = s
		}

		out = append(out, makeKV(k, v))
	}
	return out, sc.Err()
}

// ReadCSVFile reads fn as CSV, using fields kwfield/valfield as key/value.
func ReadCSVFile(fn string, comma, comment rune, kwfield, valfield int) ([]kv, error) {
	fd, err := os.Open(fn)
	if err != nil {
		return nil, err
	}
	defer fd.Close()

	return ReadCSVStream(fd, comma, comment, kwfield, valfield)
}

func ReadCSVStream(fd io.Reader, comma, comment rune, kwfield, valfield int) ([]kv, error) {
	if kwfield < 0 {
		kwfield = 0
	}
	if valfield < 0 {
		valfield = 1
	}
	max := kwfield
	if valfield > max {
		max = valfield
	}
	max++

	cr := csv.NewReader(fd)
	cr.Comma = comma
	cr.Comment = comment
	cr.FieldsPerRecord = -1
	cr.TrimLeadingSpace = true

	var out []kv
	for {
		rec, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return out, err
		}
		if len(rec) < max {
			continue
		}
		out = append(out, makeKV(rec[kwfield], rec[valfield]))
	}
	return out, nil
}

func makeKV(key, val string) kv {
	h := fasthash.Hash64(0, []byte(key))
	return kv{key: h, val: []byte(val)}
}
