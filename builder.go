package fks

// DefaultMinLoadFactor is the lowest load factor the L1 resolver will fall
// back to before giving up (spec §4.5); callers needing a different floor
// use BuildRuntimeWithMinLoadFactor.
const DefaultMinLoadFactor = 0.5

// BuildRuntime constructs a static perfect hash map from data at runtime
// (spec's C5/C6 "runtime builder"). seed makes construction reproducible:
// the same data, seed and newHasher always resolve to the same layout
// (spec's R1). newHasher selects the hasher family — pass one of the
// NewMSP*Hasher constructors (partially applied to fix the key-type
// parameter) or an XXH3 equivalent from hashers_xxh3.go.
func BuildRuntime[K comparable, V any, H Hasher[K]](
	data []Pair[K, V],
	seed uint64,
	newHasher HasherFactory[K, H],
) (*Map[K, V, H], error) {
	return BuildRuntimeWithMinLoadFactor(data, seed, DefaultMinLoadFactor, newHasher)
}

// BuildRuntimeWithMinLoadFactor is BuildRuntime with an explicit floor on
// the L1 load factor the resolver is willing to retry down to.
func BuildRuntimeWithMinLoadFactor[K comparable, V any, H Hasher[K]](
	data []Pair[K, V],
	seed uint64,
	minLoadFactor float32,
	newHasher HasherFactory[K, H],
) (*Map[K, V, H], error) {
	res, err := resolve(data, seed, minLoadFactor, newHasher)
	if err != nil {
		return nil, err
	}

	slots := fillSlots(data, res.l1, res.buckets, res.numSlots)

	return &Map[K, V, H]{
		l1:      res.l1,
		l1Seed:  res.l1Seed,
		buckets: res.buckets,
		slots:   slots,
		n:       len(data),
	}, nil
}
