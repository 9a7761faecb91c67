package authors

import "testing"

func testValidator() *Validator {
	return NewValidator([]string{"foundation", "team", "board", "staff", "editorial", "press", "guest"})
}

func TestValidatorAcceptsPlainNames(t *testing.T) {
	t.Parallel()

	v := testValidator()
	if !v.IsValid("Jane Doe") {
		t.Fatalf("expected plain name to be valid")
	}
	if !v.IsValid("John Newsome") {
		t.Fatalf("expected name containing no junk term to be valid")
	}
}

func TestValidatorRejectsSingleToken(t *testing.T) {
	t.Parallel()

	if testValidator().IsValid("Smith") {
		t.Fatalf("expected single-token name to be invalid")
	}
}

func TestValidatorRejectsAllUpper(t *testing.T) {
	t.Parallel()

	if testValidator().IsValid("JOHN SMITH") {
		t.Fatalf("expected all-caps name to be invalid")
	}
}

func TestValidatorRejectsForbiddenCharacters(t *testing.T) {
	t.Parallel()

	v := testValidator()
	for _, name := range []string{"Jane | Doe", "Jane / Doe", "Jane # Doe"} {
		if v.IsValid(name) {
			t.Fatalf("expected %q to be invalid", name)
		}
	}
}

func TestValidatorRejectsJunkTerms(t *testing.T) {
	t.Parallel()

	v := testValidator()
	if v.IsValid("Editorial Board") {
		t.Fatalf("expected organizational name to be invalid")
	}
	if v.IsValid("Guest Contributor") {
		t.Fatalf("expected organizational name to be invalid")
	}
}

func TestValidatorRejectsBlank(t *testing.T) {
	t.Parallel()

	if testValidator().IsValid("   ") {
		t.Fatalf("expected blank name to be invalid")
	}
}
