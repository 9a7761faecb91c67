package authors

import (
	"reflect"
	"testing"
)

func TestClusterMergesNameVariants(t *testing.T) {
	t.Parallel()

	clusters := NewClusterer(0.85).Cluster([]string{"John Smith", "J Smith", "Mary Jones"})
	if len(clusters) != 2 {
		t.Fatalf("expected 2 clusters, got %d: %v", len(clusters), clusters)
	}
	want := []string{"John Smith", "J Smith"}
	if !reflect.DeepEqual(clusters[0].Members, want) {
		t.Fatalf("unexpected first cluster: got %v want %v", clusters[0].Members, want)
	}
	if !reflect.DeepEqual(clusters[1].Members, []string{"Mary Jones"}) {
		t.Fatalf("unexpected second cluster: %v", clusters[1].Members)
	}
}

func TestClusterTransitiveClosure(t *testing.T) {
	t.Parallel()

	// Threshold 0.99 disables cosine links; every link here is an
	// initials abbreviation, and the variants collapse into one identity.
	clusters := NewClusterer(0.99).Cluster([]string{"John Albert Smith", "J A Smith", "J Smith"})
	if len(clusters) != 1 {
		t.Fatalf("expected one cluster via chaining, got %d: %v", len(clusters), clusters)
	}
	if len(clusters[0].Members) != 3 {
		t.Fatalf("expected 3 members, got %v", clusters[0].Members)
	}
}

func TestClusterCosineLink(t *testing.T) {
	t.Parallel()

	// No initials abbreviation here, so the link is purely n-gram
	// cosine at a permissive threshold.
	clusters := NewClusterer(0.5).Cluster([]string{"John Smith", "Jon Smith"})
	if len(clusters) != 1 {
		t.Fatalf("expected one cluster from cosine link, got %d: %v", len(clusters), clusters)
	}
}

func TestClusterKeepsDistinctPeopleApart(t *testing.T) {
	t.Parallel()

	clusters := NewClusterer(0.85).Cluster([]string{"Alice Walker", "Boris Petrov", "Chen Wei"})
	if len(clusters) != 3 {
		t.Fatalf("expected 3 singleton clusters, got %d: %v", len(clusters), clusters)
	}
}

func TestClusterEmptyInput(t *testing.T) {
	t.Parallel()

	if clusters := NewClusterer(0.85).Cluster(nil); clusters != nil {
		t.Fatalf("expected nil clusters for empty input, got %v", clusters)
	}
}

func TestInitialsCompatible(t *testing.T) {
	t.Parallel()

	if !initialsCompatible("J Smith", "John Smith") {
		t.Fatalf("expected initial form to match full form")
	}
	if !initialsCompatible("John Smith", "J Smith") {
		t.Fatalf("expected symmetry")
	}
	if initialsCompatible("J Smith", "John Doe") {
		t.Fatalf("expected different last names to reject")
	}
	if initialsCompatible("Smith", "John Smith") {
		t.Fatalf("expected single-token name to reject")
	}
	if initialsCompatible("M Smith", "John Smith") {
		t.Fatalf("expected mismatched initial to reject")
	}
}
