package dedup

import (
	"encoding/binary"
	"fmt"
	"hash/fnv"
	"sort"
)

// LSHIndex buckets fingerprints by band signature: b bands of r
// consecutive positions each (b*r = K). Two articles become
// candidates when any band hashes identically, the standard
// AND-then-OR construction.
type LSHIndex struct {
	bands int
	rows  int

	tables   []map[uint64][]int64
	inserted map[int64]struct{}
}

func NewLSHIndex(fingerprintSize, bands int) (*LSHIndex, error) {
	if bands < 1 || fingerprintSize < 1 || fingerprintSize%bands != 0 {
		return nil, fmt.Errorf("bands (%d) must divide fingerprint size (%d)", bands, fingerprintSize)
	}

	tables := make([]map[uint64][]int64, bands)
	for i := range tables {
		tables[i] = make(map[uint64][]int64)
	}
	return &LSHIndex{
		bands:    bands,
		rows:     fingerprintSize / bands,
		tables:   tables,
		inserted: make(map[int64]struct{}),
	}, nil
}

// Insert adds a fingerprint under the given article id. Re-inserting
// an id is a no-op, so insertion order fixes first-occurrence
// precedence once.
func (idx *LSHIndex) Insert(articleID int64, fingerprint Fingerprint) error {
	if len(fingerprint) != idx.bands*idx.rows {
		return fmt.Errorf("fingerprint size %d does not match index layout %dx%d", len(fingerprint), idx.bands, idx.rows)
	}
	if _, exists := idx.inserted[articleID]; exists {
		return nil
	}
	idx.inserted[articleID] = struct{}{}

	for band := 0; band < idx.bands; band++ {
		signature := bandSignature(fingerprint, band, idx.rows)
		idx.tables[band][signature] = append(idx.tables[band][signature], articleID)
	}
	return nil
}

// Query returns the ids sharing at least one band signature with the
// fingerprint, in ascending order. The querying article's own id is
// never included.
func (idx *LSHIndex) Query(articleID int64, fingerprint Fingerprint) ([]int64, error) {
	if len(fingerprint) != idx.bands*idx.rows {
		return nil, fmt.Errorf("fingerprint size %d does not match index layout %dx%d", len(fingerprint), idx.bands, idx.rows)
	}

	seen := make(map[int64]struct{})
	for band := 0; band < idx.bands; band++ {
		signature := bandSignature(fingerprint, band, idx.rows)
		for _, candidate := range idx.tables[band][signature] {
			if candidate == articleID {
				continue
			}
			seen[candidate] = struct{}{}
		}
	}

	candidates := make([]int64, 0, len(seen))
	for candidate := range seen {
		candidates = append(candidates, candidate)
	}
	sort.Slice(candidates, func(i, j int) bool { return candidates[i] < candidates[j] })
	return candidates, nil
}

// Len reports how many distinct article ids the index holds.
func (idx *LSHIndex) Len() int {
	return len(idx.inserted)
}

func bandSignature(fingerprint Fingerprint, band, rows int) uint64 {
	hasher := fnv.New64a()
	var buf [8]byte
	binary.LittleEndian.PutUint64(buf[:], uint64(band))
	_, _ = hasher.Write(buf[:])
	for _, value := range fingerprint[band*rows : (band+1)*rows] {
		binary.LittleEndian.PutUint64(buf[:], value)
		_, _ = hasher.Write(buf[:])
	}
	return hasher.Sum64()
}
