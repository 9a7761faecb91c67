package similarity

import (
	"math"
	"testing"
)

func TestNgramVectorIsNormalized(t *testing.T) {
	t.Parallel()

	vector := NgramVector("john smith", 2, 4)
	if len(vector) == 0 {
		t.Fatalf("expected a non-empty vector")
	}

	var sumSquares float64
	for _, weight := range vector {
		sumSquares += weight * weight
	}
	if math.Abs(sumSquares-1) > 1e-9 {
		t.Fatalf("expected unit norm, got %g", sumSquares)
	}
}

func TestNgramVectorPadsWordBoundaries(t *testing.T) {
	t.Parallel()

	vector := NgramVector("ab", 2, 2)
	for _, gram := range []string{" a", "ab", "b "} {
		if _, ok := vector[gram]; !ok {
			t.Fatalf("expected boundary-padded gram %q, got %v", gram, vector)
		}
	}
}

func TestNgramVectorEmptyAndInvalid(t *testing.T) {
	t.Parallel()

	if vector := NgramVector("   ", 2, 4); vector != nil {
		t.Fatalf("expected nil vector for blank text, got %v", vector)
	}
	if vector := NgramVector("john", 3, 2); vector != nil {
		t.Fatalf("expected nil vector for inverted range, got %v", vector)
	}
}

func TestCosine(t *testing.T) {
	t.Parallel()

	a := NgramVector("john smith", 2, 4)
	b := NgramVector("john smith", 2, 4)
	if got := Cosine(a, b); math.Abs(got-1) > 1e-9 {
		t.Fatalf("expected identical texts to score 1, got %g", got)
	}

	c := NgramVector("zzzz qqqq", 2, 4)
	if got := Cosine(a, c); got > 0.2 {
		t.Fatalf("expected dissimilar texts to score low, got %g", got)
	}

	left := Cosine(a, c)
	right := Cosine(c, a)
	if left != right {
		t.Fatalf("expected symmetry, got %g vs %g", left, right)
	}

	if got := Cosine(nil, a); got != 0 {
		t.Fatalf("expected 0 for empty vector, got %g", got)
	}
}

func TestTokenJaccard(t *testing.T) {
	t.Parallel()

	if got := TokenJaccard("john smith", "john smith"); got != 1 {
		t.Fatalf("expected identical token sets to score 1, got %g", got)
	}
	if got := TokenJaccard("john smith", "jane smith"); math.Abs(got-1.0/3.0) > 1e-9 {
		t.Fatalf("expected 1/3 overlap, got %g", got)
	}
	if got := TokenJaccard("john", ""); got != 0 {
		t.Fatalf("expected 0 against empty text, got %g", got)
	}
}
