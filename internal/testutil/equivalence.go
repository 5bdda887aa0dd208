package testutil

import "fmt"

// HashFamily produces a hash function for the given seed/requested-bucket
// pair, plus the realized bucket count, exactly like the Rust original's
// HashFunctionFamily<K> type alias (o1_testing/src/equivalence.rs).
type HashFamily[K any] func(seed uint64, numBuckets uint32) (hash func(K) uint32, realized uint32)

// AssertHasherEquivalent verifies two hash function families resolve to
// the same bucket count and agree on every (seed, key) trial — the Go
// counterpart of the original's equivalence()/hasher_equivalence! macro.
// Intended use here is checking that cmd/fksgen's generated constant-table
// lookup agrees with the runtime resolver it was derived from (spec's P6).
func AssertHasherEquivalent[K any](
	family1, family2 HashFamily[K],
	genKey func() K,
	rawNumBuckets uint32,
	seeds []uint64,
) error {
	_, n1 := family1(0, rawNumBuckets)
	_, n2 := family2(0, rawNumBuckets)
	if n1 != n2 {
		return fmt.Errorf("hash families resolve different bucket counts: %d vs %d", n1, n2)
	}

	for _, seed := range seeds {
		h1, _ := family1(seed, rawNumBuckets)
		h2, _ := family2(seed, rawNumBuckets)

		key := genKey()
		v1 := h1(key)
		v2 := h2(key)
		if v1 != v2 {
			return fmt.Errorf("hash families disagree for seed %d, key %v: %d vs %d", seed, key, v1, v2)
		}
	}

	return nil
}
