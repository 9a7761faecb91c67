package dedup

import (
	"math"
	"testing"
)

func TestFingerprintIsDeterministic(t *testing.T) {
	t.Parallel()

	generator, err := NewGenerator(64, 1)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	vector := []float64{0.12, -0.4, 0.33, 0.91, -0.07}
	first, err := generator.Fingerprint(vector)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	second, err := generator.Fingerprint(vector)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(first) != 64 {
		t.Fatalf("unexpected fingerprint size: %d", len(first))
	}
	for i := range first {
		if first[i] != second[i] {
			t.Fatalf("fingerprints differ at position %d", i)
		}
	}
}

func TestFingerprintQuantizationAbsorbsJitter(t *testing.T) {
	t.Parallel()

	generator, err := NewGenerator(64, 1)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	base := []float64{0.11, -0.39, 0.32, 0.91}
	jittered := []float64{0.112, -0.388, 0.322, 0.912}

	a, err := generator.Fingerprint(base)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	b, err := generator.Fingerprint(jittered)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if got := EstimateJaccard(a, b); got != 1 {
		t.Fatalf("expected jitter inside one quantization bucket to match exactly, got %g", got)
	}
}

func TestFingerprintSeparatesDistinctVectors(t *testing.T) {
	t.Parallel()

	generator, err := NewGenerator(64, 1)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	a, err := generator.Fingerprint([]float64{0.9, 0.8, 0.7, 0.6, 0.5, 0.4})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	b, err := generator.Fingerprint([]float64{-0.9, -0.8, -0.7, -0.6, -0.5, -0.4})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if got := EstimateJaccard(a, b); got > 0.5 {
		t.Fatalf("expected disjoint element sets to estimate low, got %g", got)
	}
}

func TestFingerprintRejectsBadInput(t *testing.T) {
	t.Parallel()

	generator, err := NewGenerator(64, 1)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if _, err := generator.Fingerprint(nil); err == nil {
		t.Fatalf("expected error for empty vector")
	}
	if _, err := generator.Fingerprint([]float64{0.1, math.NaN()}); err == nil {
		t.Fatalf("expected error for NaN value")
	}
	if _, err := generator.Fingerprint([]float64{math.Inf(1)}); err == nil {
		t.Fatalf("expected error for infinite value")
	}
}

func TestNewGeneratorRejectsBadSize(t *testing.T) {
	t.Parallel()

	if _, err := NewGenerator(0, 1); err == nil {
		t.Fatalf("expected error for zero size")
	}
}

func TestEstimateJaccardMismatchedSizes(t *testing.T) {
	t.Parallel()

	if got := EstimateJaccard(Fingerprint{1, 2}, Fingerprint{1}); got != 0 {
		t.Fatalf("expected 0 for mismatched sizes, got %g", got)
	}
	if got := EstimateJaccard(nil, nil); got != 0 {
		t.Fatalf("expected 0 for empty fingerprints, got %g", got)
	}
}
