// fksgen -- generate a Go source file containing a compile-time FKS table
//
// Adapted from the teacher's example/mphdb.go: same flag/usage shape and
// txt/csv dispatch, rewired to emit Go source via internal/codegen instead
// of writing a DBWriter-based binary constant database.

package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/opencoff/go-fks"
	"github.com/opencoff/go-fks/internal/codegen"

	flag "github.com/opencoff/pflag"
)

func main() {
	var load float64
	var pkg, varName string
	var seed uint64

	usage := fmt.Sprintf("%s [options] OUTPUT.go [INPUT ...]", os.Args[0])

	flag.Float64VarP(&load, "load", "l", 0.5, "Use `L` as the minimum hash table load factor")
	flag.StringVarP(&pkg, "package", "p", "main", "Emit the generated file under package `NAME`")
	flag.StringVarP(&varName, "var", "n", "Table", "Name the generated map variable `NAME`")
	flag.Uint64VarP(&seed, "seed", "s", 0, "Use `SEED` as the resolver seed (0 picks a random one)")
	flag.Usage = func() {
		fmt.Printf("fksgen - generate a build-time FKS perfect-hash table from txt or CSV files\nUsage: %s\n", usage)
		flag.PrintDefaults()
	}

	flag.Parse()
	args := flag.Args()

	if len(args) < 1 {
		die("No output file name!\nUsage: %s\n", usage)
	}

	outfn := args[0]
	args = args[1:]

	var pairs []kv
	if len(args) > 0 {
		for _, f := range args {
			var add []kv
			var err error

			switch {
			case strings.HasSuffix(f, ".txt"):
				add, err = ReadTextFile(f, " \t")

			case strings.HasSuffix(f, ".csv"):
				add, err = ReadCSVFile(f, ',', '#', 0, 1)

			default:
				warn("Don't know how to add %s", f)
				continue
			}

			if err != nil {
				warn("can't add %s: %s", f, err)
				continue
			}

			fmt.Printf("+ %s: %d records\n", f, len(add))
			pairs = append(pairs, add...)
		}
	} else {
		var err error
		pairs, err = ReadTextStream(os.Stdin, " \t")
		if err != nil {
			die("can't add STDIN: %s", err)
		}
		fmt.Printf("+ <STDIN>: %d records\n", len(pairs))
	}

	if len(pairs) == 0 {
		die("no keys to build a table from")
	}

	if seed == 0 {
		seed = fks.NewSeed()
	}

	in, err := build(pairs, pkg, varName, float32(load), seed)
	if err != nil {
		die("can't build table: %s", err)
	}

	src, err := codegen.Generate(*in)
	if err != nil {
		die("can't generate source: %s", err)
	}

	if err := os.WriteFile(outfn, src, 0o644); err != nil {
		die("can't write %s: %s", outfn, err)
	}

	fmt.Printf("%s: %d keys, %d buckets\n", outfn, in.N, in.NumBuckets)
}

// build resolves pairs into an in-memory fks.Map and flattens its layout
// into a codegen.Input, using the exact same builder the runtime path uses
// so the generated table and a runtime-built one are equivalent by
// construction. seed is caller-supplied so two runs over the same input and
// seed always produce a byte-identical generated table.
func build(pairs []kv, pkg, varName string, minLoadFactor float32, seed uint64) (*codegen.Input, error) {
	data := make([]fks.Pair[uint64, []byte], len(pairs))
	for i, p := range pairs {
		data[i] = fks.Pair[uint64, []byte]{Key: p.key, Value: p.val}
	}

	m, err := fks.BuildRuntimeWithMinLoadFactor(data, seed, minLoadFactor, fks.NewMSPInt64Hasher[uint64])
	if err != nil {
		return nil, err
	}

	nb := m.NumBuckets()
	buckets := make([]codegen.BucketEntry, nb)
	for i := 0; i < nb; i++ {
		offset, numSlots, occ, seed := m.BucketLayout(i)
		buckets[i] = codegen.BucketEntry{Offset: offset, NumSlots: numSlots, Occ: occ, Seed: seed}
	}

	ns := m.NumSlots()
	slots := make([]codegen.SlotEntry, ns)
	for i := 0; i < ns; i++ {
		k, v := m.Slot(i)
		if !m.SlotOccupied(i) {
			continue
		}
		slots[i] = codegen.SlotEntry{Key: k, Value: v}
	}

	return &codegen.Input{
		Package:    pkg,
		VarName:    varName,
		L1Seed:     m.L1Seed(),
		NumBuckets: uint32(nb),
		N:          m.Len(),
		Buckets:    buckets,
		Slots:      slots,
	}, nil
}

func die(f string, v ...interface{}) {
	warn(f, v...)
	os.Exit(1)
}

func warn(f string, v ...interface{}) {
	z := fmt.Sprintf("%s: %s", os.Args[0], f)
	s := fmt.Sprintf(z, v...)
	if n := len(s); n == 0 || s[n-1] != '\n' {
		s += "\n"
	}

	os.Stderr.WriteString(s)
	os.Stderr.Sync()
}
