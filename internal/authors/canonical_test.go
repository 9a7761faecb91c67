package authors

import "testing"

func TestSelectCanonicalPrefersSpelledOutName(t *testing.T) {
	t.Parallel()

	cluster := Cluster{Members: []string{"John Albert Smith", "J Smith", "John Smith"}}
	if got := SelectCanonical(cluster); got != "John Smith" {
		t.Fatalf("unexpected canonical name: %q", got)
	}
}

func TestSelectCanonicalFallsBackToInitialForm(t *testing.T) {
	t.Parallel()

	cluster := Cluster{Members: []string{"J A Smith", "J Smith"}}
	if got := SelectCanonical(cluster); got != "J Smith" {
		t.Fatalf("unexpected canonical name: %q", got)
	}
}

func TestSelectCanonicalTieBreaksOnFirstEncountered(t *testing.T) {
	t.Parallel()

	cluster := Cluster{Members: []string{"Anna Lind", "Nils Berg"}}
	if got := SelectCanonical(cluster); got != "Anna Lind" {
		t.Fatalf("expected first member on equal length, got %q", got)
	}
}

func TestSelectCanonicalSingleton(t *testing.T) {
	t.Parallel()

	if got := SelectCanonical(Cluster{Members: []string{"Mary Jones"}}); got != "Mary Jones" {
		t.Fatalf("unexpected canonical name: %q", got)
	}
}
