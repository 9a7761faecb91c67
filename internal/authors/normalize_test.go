package authors

import "testing"

func testNormalizer() *Normalizer {
	return NewNormalizer([]string{"van", "von", "de", "della"})
}

func TestNormalizeCommaReorder(t *testing.T) {
	t.Parallel()

	n := testNormalizer()
	if got := n.Normalize("Smith, John"); got != "John Smith" {
		t.Fatalf("unexpected normalization: %q", got)
	}
	if got := n.Normalize("Smith, John, Albert"); got != "John Albert Smith" {
		t.Fatalf("unexpected normalization: %q", got)
	}
}

func TestNormalizeCasing(t *testing.T) {
	t.Parallel()

	n := testNormalizer()
	if got := n.Normalize("JOHN SMITH"); got != "John Smith" {
		t.Fatalf("unexpected normalization: %q", got)
	}
	if got := n.Normalize("john smith"); got != "John Smith" {
		t.Fatalf("unexpected normalization: %q", got)
	}
	if got := n.Normalize("Ronald McDonald"); got != "Ronald McDonald" {
		t.Fatalf("expected mixed case to survive, got %q", got)
	}
}

func TestNormalizeParticles(t *testing.T) {
	t.Parallel()

	if got := testNormalizer().Normalize("Ludwig VAN Beethoven"); got != "Ludwig van Beethoven" {
		t.Fatalf("unexpected normalization: %q", got)
	}
}

func TestNormalizePunctuation(t *testing.T) {
	t.Parallel()

	n := testNormalizer()
	if got := n.Normalize("J. Smith"); got != "J Smith" {
		t.Fatalf("unexpected normalization: %q", got)
	}
	if got := n.Normalize("anne-marie o'brien"); got != "Anne-marie O'brien" {
		t.Fatalf("unexpected normalization: %q", got)
	}
	if got := n.Normalize("  john   smith  "); got != "John Smith" {
		t.Fatalf("expected whitespace collapse, got %q", got)
	}
}

func TestNormalizeDegenerateInput(t *testing.T) {
	t.Parallel()

	n := testNormalizer()
	if got := n.Normalize("..."); got != "" {
		t.Fatalf("expected punctuation-only input to normalize empty, got %q", got)
	}
	if got := n.Normalize(","); got != "" {
		t.Fatalf("expected comma-only input to normalize empty, got %q", got)
	}
}
