package dedup

import (
	"reflect"
	"testing"
)

func constantFingerprint(size int, value uint64) Fingerprint {
	fingerprint := make(Fingerprint, size)
	for i := range fingerprint {
		fingerprint[i] = value
	}
	return fingerprint
}

func TestLSHIndexFindsSharedBand(t *testing.T) {
	t.Parallel()

	index, err := NewLSHIndex(16, 4)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	shared := constantFingerprint(16, 7)
	// Same first band as shared, every other band different.
	partial := constantFingerprint(16, 9)
	copy(partial[:4], shared[:4])
	unrelated := constantFingerprint(16, 1234)

	for id, fingerprint := range map[int64]Fingerprint{1: shared, 2: partial, 3: unrelated} {
		if err := index.Insert(id, fingerprint); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
	}

	candidates, err := index.Query(1, shared)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !reflect.DeepEqual(candidates, []int64{2}) {
		t.Fatalf("unexpected candidates: %v", candidates)
	}
}

func TestLSHIndexExcludesSelf(t *testing.T) {
	t.Parallel()

	index, err := NewLSHIndex(16, 4)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	fingerprint := constantFingerprint(16, 42)
	if err := index.Insert(5, fingerprint); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	candidates, err := index.Query(5, fingerprint)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(candidates) != 0 {
		t.Fatalf("expected no candidates for a lone article, got %v", candidates)
	}
}

func TestLSHIndexInsertIsIdempotent(t *testing.T) {
	t.Parallel()

	index, err := NewLSHIndex(16, 4)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	fingerprint := constantFingerprint(16, 3)
	for i := 0; i < 3; i++ {
		if err := index.Insert(1, fingerprint); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
	}
	if err := index.Insert(2, fingerprint); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if index.Len() != 2 {
		t.Fatalf("unexpected index size: %d", index.Len())
	}
	candidates, err := index.Query(2, fingerprint)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !reflect.DeepEqual(candidates, []int64{1}) {
		t.Fatalf("expected a single candidate entry, got %v", candidates)
	}
}

func TestLSHIndexRejectsBadLayout(t *testing.T) {
	t.Parallel()

	if _, err := NewLSHIndex(16, 5); err == nil {
		t.Fatalf("expected error when bands do not divide size")
	}

	index, err := NewLSHIndex(16, 4)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := index.Insert(1, constantFingerprint(8, 1)); err == nil {
		t.Fatalf("expected error for wrong fingerprint size")
	}
	if _, err := index.Query(1, constantFingerprint(8, 1)); err == nil {
		t.Fatalf("expected error for wrong fingerprint size")
	}
}
