package dedup

import (
	"encoding/binary"
	"fmt"
	"hash/fnv"
	"math"
)

const (
	// DefaultFingerprintSize balances estimate precision against
	// memory: the Jaccard estimate's standard error shrinks as
	// O(1/sqrt(K)).
	DefaultFingerprintSize = 64

	// quantizationStep buckets embedding values before hashing so
	// that whitespace-level float jitter lands in the same bucket.
	quantizationStep = 0.05
)

// Fingerprint is a fixed-size MinHash sketch of one article's
// embedding. Fingerprints from different generators (different size
// or seed) are incomparable.
type Fingerprint []uint64

// Generator derives fingerprints from embedding vectors. All
// fingerprints in a run must come from one generator so the hash
// family is seeded identically.
type Generator struct {
	size  int
	seeds []uint64
}

func NewGenerator(size int, seed uint64) (*Generator, error) {
	if size < 1 {
		return nil, fmt.Errorf("fingerprint size must be >= 1, got %d", size)
	}

	seeds := make([]uint64, size)
	state := seed
	for i := range seeds {
		state = splitmix64(state)
		seeds[i] = state
	}
	return &Generator{size: size, seeds: seeds}, nil
}

// Fingerprint reduces the vector to a set of quantized
// (dimension, bucket) elements and minimizes each of the K seeded
// hash functions over that set.
func (g *Generator) Fingerprint(vector []float64) (Fingerprint, error) {
	if g == nil {
		return nil, fmt.Errorf("fingerprint generator is not initialized")
	}
	if len(vector) == 0 {
		return nil, fmt.Errorf("cannot fingerprint an empty vector")
	}

	elements := make([]uint64, 0, len(vector))
	for dim, value := range vector {
		if math.IsNaN(value) || math.IsInf(value, 0) {
			return nil, fmt.Errorf("vector has non-finite value at index %d", dim)
		}
		bucket := int64(math.Floor(value / quantizationStep))
		elements = append(elements, hashElement(dim, bucket))
	}

	fingerprint := make(Fingerprint, g.size)
	for k, seed := range g.seeds {
		minimum := uint64(math.MaxUint64)
		for _, element := range elements {
			if h := splitmix64(element ^ seed); h < minimum {
				minimum = h
			}
		}
		fingerprint[k] = minimum
	}
	return fingerprint, nil
}

// EstimateJaccard returns the fraction of matching positions, an
// unbiased estimate of the Jaccard similarity of the underlying sets.
func EstimateJaccard(a, b Fingerprint) float64 {
	if len(a) == 0 || len(a) != len(b) {
		return 0
	}
	matches := 0
	for i := range a {
		if a[i] == b[i] {
			matches++
		}
	}
	return float64(matches) / float64(len(a))
}

func hashElement(dim int, bucket int64) uint64 {
	var buf [16]byte
	binary.LittleEndian.PutUint64(buf[0:8], uint64(dim))
	binary.LittleEndian.PutUint64(buf[8:16], uint64(bucket))
	hasher := fnv.New64a()
	_, _ = hasher.Write(buf[:])
	return hasher.Sum64()
}

// splitmix64 is a fast, well-mixed 64-bit permutation used both to
// derive the per-position seeds and as the per-element hash family.
func splitmix64(x uint64) uint64 {
	x += 0x9e3779b97f4a7c15
	x = (x ^ (x >> 30)) * 0xbf58476d1ce4e5b9
	x = (x ^ (x >> 27)) * 0x94d049bb133111eb
	return x ^ (x >> 31)
}
