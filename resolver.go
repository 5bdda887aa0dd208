package fks

import "math"

// Trial budgets and the per-bucket occupancy cap (spec §4.5): the resolver
// is Las Vegas — these bound its worst case rather than guarantee success.
const (
	maxKeysPerBucket = 5
	maxL1Trials      = 999
	maxL2Trials      = 999
)

// Pair is one key/value input to the resolver and the static map it builds.
type Pair[K any, V any] struct {
	Key   K
	Value V
}

// bucket is one L1 slot's descriptor (spec §3's "Bucket descriptor"). seed
// is the scalar draw that produced hasher via newHasher; fksdb persists it
// (rather than the hasher's own expanded state) so a bucket can be rebuilt
// by calling newHasher(seed, numSlots) again on read-back, matching spec's
// determinism guarantee (R1).
type bucket[K any, H Hasher[K]] struct {
	offset   int
	occ      occupancy
	numSlots uint32
	seed     uint64
	hasher   H
}

// resolveResult is the fully resolved L1/L2 layout: an L1 hasher, one bucket
// descriptor per L1 output value, and the total slot count every bucket's
// offsets were laid out against. Shared by the runtime builder (builder.go)
// and the build-time generator (cmd/fksgen), so both always run the exact
// same resolution code — see SPEC_FULL.md's note on why that makes the
// runtime/build-time equivalence property (spec P6) trivially true here.
type resolveResult[K any, V any, H Hasher[K]] struct {
	l1       H
	l1Seed   uint64
	buckets  []bucket[K, H]
	numSlots int
}

// resolve runs the two-level FKS construction (spec §4.5) to completion or
// returns ErrUnableToFindHashFunction.
func resolve[K comparable, V any, H Hasher[K]](
	data []Pair[K, V],
	seed uint64,
	minLoadFactor float32,
	newHasher HasherFactory[K, H],
) (*resolveResult[K, V, H], error) {
	rng := newPRNG(seed)

	l1, l1Seed, bucketKeys, err := resolveL1(rng, data, minLoadFactor, newHasher)
	if err != nil {
		return nil, err
	}

	numBuckets := int(l1.NumBuckets())
	buckets := make([]bucket[K, H], numBuckets)
	offset := 0

	for i := 0; i < numBuckets; i++ {
		b, err := resolveBucket(rng, data, bucketKeys[i], offset, newHasher)
		if err != nil {
			return nil, err
		}
		buckets[i] = b
		offset += int(b.numSlots)
	}

	return &resolveResult[K, V, H]{l1: l1, l1Seed: l1Seed, buckets: buckets, numSlots: offset}, nil
}

// resolveL1 finds an L1 hash function whose worst-case bucket occupancy is
// within maxKeysPerBucket, retrying at MAX_L1_TRIALS per load factor and
// lowering the load factor by 0.05 on exhaustion, down to minLoadFactor
// (spec §4.5, "L1 resolution").
func resolveL1[K comparable, V any, H Hasher[K]](
	rng *prng,
	data []Pair[K, V],
	minLoadFactor float32,
	newHasher HasherFactory[K, H],
) (H, uint64, []*keySet, error) {
	var zero H
	loadFactor := float32(1.0)

	for loadFactor >= minLoadFactor {
		bReq := uint32(math.Ceil(float64(len(data)) / float64(loadFactor)))

		for trial := 0; trial < maxL1Trials; trial++ {
			seed := rng.next()
			h := newHasher(seed, bReq)
			numBuckets := int(h.NumBuckets())

			bucketKeys := make([]*keySet, numBuckets)
			for i := range bucketKeys {
				bucketKeys[i] = newKeySet(len(data))
			}

			for i, kv := range data {
				b := int(h.Hash(kv.Key))
				bucketKeys[b].set(i)
			}

			maxOcc := 0
			for _, ks := range bucketKeys {
				if n := ks.countOnes(); n > maxOcc {
					maxOcc = n
				}
			}

			if maxOcc <= maxKeysPerBucket {
				return h, seed, bucketKeys, nil
			}
		}

		loadFactor -= 0.05
	}

	return zero, 0, nil, ErrUnableToFindHashFunction
}

// resolveBucket finds a collision-free L2 hash function for the keys
// assigned to one L1 bucket (spec §4.5, "L2 resolution"). An unoccupied
// bucket is installed without drawing any seed.
func resolveBucket[K comparable, V any, H Hasher[K]](
	rng *prng,
	data []Pair[K, V],
	keys *keySet,
	offset int,
	newHasher HasherFactory[K, H],
) (bucket[K, H], error) {
	n := keys.countOnes()
	if n == 0 {
		var zero H
		return bucket[K, H]{offset: offset, hasher: zero}, nil
	}

	for trial := 0; trial < maxL2Trials; trial++ {
		seed := rng.next()
		h := newHasher(seed, uint32(n))

		var occ occupancy
		collided := false
		keys.iterOnes(func(idx int) bool {
			slot := h.Hash(data[idx].Key)
			if occ.isSet(slot) {
				collided = true
				return false
			}
			occ.set(slot)
			return true
		})

		if !collided {
			return bucket[K, H]{
				offset:   offset,
				occ:      occ,
				numSlots: h.NumBuckets(),
				seed:     seed,
				hasher:   h,
			}, nil
		}
	}

	var zero H
	return bucket[K, H]{hasher: zero}, ErrUnableToFindHashFunction
}

// fillSlots places every input pair at its resolved slot (spec §4.5, "Slot
// fill"). Cells belonging to no input key are left at their zero value and
// are never read by lookup (I3/I4).
func fillSlots[K comparable, V any, H Hasher[K]](data []Pair[K, V], l1 H, buckets []bucket[K, H], numSlots int) []Pair[K, V] {
	slots := make([]Pair[K, V], numSlots)
	for _, kv := range data {
		b := int(l1.Hash(kv.Key))
		bk := &buckets[b]

		var idx int
		if bk.numSlots <= 1 {
			idx = bk.offset
		} else {
			idx = bk.offset + int(bk.hasher.Hash(kv.Key))
		}
		slots[idx] = kv
	}
	return slots
}
