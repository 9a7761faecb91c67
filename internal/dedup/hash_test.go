package dedup

import (
	"bytes"
	"testing"
)

func TestContentHashStableUnderCosmeticEdits(t *testing.T) {
	t.Parallel()

	base := ContentHash("The quick brown fox jumps over the lazy dog.")
	reflowed := ContentHash("  The quick   brown fox\njumps over the lazy dog.  ")
	recased := ContentHash("THE QUICK BROWN FOX JUMPS OVER THE LAZY DOG.")

	if !bytes.Equal(base, reflowed) {
		t.Fatalf("expected whitespace reflow to keep the hash")
	}
	if !bytes.Equal(base, recased) {
		t.Fatalf("expected case change to keep the hash")
	}
}

func TestContentHashChangesWithContent(t *testing.T) {
	t.Parallel()

	if bytes.Equal(ContentHash("first article"), ContentHash("second article")) {
		t.Fatalf("expected different texts to hash differently")
	}
}
