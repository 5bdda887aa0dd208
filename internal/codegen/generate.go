// Package codegen emits Go source for cmd/fksgen's build-time table
// generator: the spec's "build-time builder" (C8) realized as generated
// source rather than a const-eval twin of the resolver, since Go has no
// const-expression facility for the structures involved (spec §9's
// explicitly sanctioned fallback). The emitted code calls
// fks.NewMapFromLayout with literal arrays baked in at generation time, so
// the generated table is produced by the exact same resolver and hasher
// code the runtime builder uses — the runtime/build-time equivalence
// property (spec P6) holds automatically rather than needing a second,
// hand-synchronized implementation.
package codegen

import (
	"bytes"
	"fmt"
	"go/format"
	"strconv"
	"text/template"
)

// BucketEntry is one persisted L1 bucket (mirrors fksdb's bucketRec).
type BucketEntry struct {
	Offset   int
	NumSlots uint32
	Occ      uint32
	Seed     uint64
}

// SlotEntry is one persisted (key, value) slot.
type SlotEntry struct {
	Key   uint64
	Value []byte
}

// Input is everything the template needs to emit a complete, self-contained
// Go source file for one generated table.
type Input struct {
	Package    string
	VarName    string
	L1Seed     uint64
	NumBuckets uint32
	N          int
	Buckets    []BucketEntry
	Slots      []SlotEntry
}

var tmpl = template.Must(template.New("fksgen").Funcs(template.FuncMap{
	"quote": strconv.Quote,
}).Parse(`// Code generated by fksgen. DO NOT EDIT.

package {{.Package}}

import "github.com/opencoff/go-fks"

var {{.VarName}} = fks.NewMapFromLayout[uint64, []byte](
	{{.L1Seed}},
	{{.NumBuckets}},
	[]int{ {{range .Buckets}}{{.Offset}}, {{end}} },
	[]uint32{ {{range .Buckets}}{{.NumSlots}}, {{end}} },
	[]uint32{ {{range .Buckets}}{{.Occ}}, {{end}} },
	[]uint64{ {{range .Buckets}}{{.Seed}}, {{end}} },
	[]fks.Pair[uint64, []byte]{
		{{- range .Slots}}
		{Key: {{.Key}}, Value: []byte({{quote (printf "%s" .Value)}})},
		{{- end}}
	},
	{{.N}},
	fks.NewMSPInt64Hasher[uint64],
)

// Lookup returns the value stored under key, and whether it was found.
func Lookup(key uint64) ([]byte, bool) {
	return {{.VarName}}.Get(key)
}
`))

// Generate renders in as a formatted Go source file.
func Generate(in Input) ([]byte, error) {
	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, in); err != nil {
		return nil, fmt.Errorf("codegen: template execution failed: %w", err)
	}

	out, err := format.Source(buf.Bytes())
	if err != nil {
		return nil, fmt.Errorf("codegen: generated source doesn't parse: %w", err)
	}
	return out, nil
}
