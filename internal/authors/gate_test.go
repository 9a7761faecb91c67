package authors

import "testing"

func testGate() *Gate {
	return NewGate([]string{"editorial", "staff", "press", "university", "board"}, 5, 6)
}

func TestGatePassesCleanName(t *testing.T) {
	t.Parallel()

	gate := testGate()
	if gate.ShouldExtract("Jane Doe") {
		t.Fatalf("expected clean single name to pass the gate")
	}
	if gate.ShouldExtract("Jane Doe; John Roe") {
		t.Fatalf("expected clean semicolon list to pass the gate")
	}
}

func TestGateFiresOnKeyword(t *testing.T) {
	t.Parallel()

	gate := testGate()
	if !gate.ShouldExtract("Editorial Board") {
		t.Fatalf("expected keyword field to fire the gate")
	}
	if !gate.ShouldExtract("Stanford University News Office") {
		t.Fatalf("expected keyword field to fire the gate")
	}
}

func TestGateFiresOnAllUpper(t *testing.T) {
	t.Parallel()

	if !testGate().ShouldExtract("JOHN SMITH") {
		t.Fatalf("expected all-caps field to fire the gate")
	}
}

func TestGateFiresOnLength(t *testing.T) {
	t.Parallel()

	gate := testGate()
	if !gate.ShouldExtract("Jo") {
		t.Fatalf("expected too-short field to fire the gate")
	}
	if !gate.ShouldExtract("one two three four five six seven") {
		t.Fatalf("expected too-many-tokens field to fire the gate")
	}
}

func TestGateFiresOnDelimiters(t *testing.T) {
	t.Parallel()

	gate := testGate()
	if !gate.ShouldExtract("Jane Doe / John Roe") {
		t.Fatalf("expected slash delimiter to fire the gate")
	}
	if !gate.ShouldExtract("Jane Doe and John Roe") {
		t.Fatalf("expected \"and\" delimiter to fire the gate")
	}
	if gate.ShouldExtract("Sandy Alexander") {
		t.Fatalf("expected \"and\" inside a word not to fire the gate")
	}
}

func TestGateIgnoresBlankInput(t *testing.T) {
	t.Parallel()

	if testGate().ShouldExtract("   ") {
		t.Fatalf("expected blank field to pass the gate")
	}
}
