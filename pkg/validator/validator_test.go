package validator

import "testing"

func TestValidator(t *testing.T) {
	v := New()
	if !v.Valid() {
		t.Fatal("new validator must be valid")
	}

	v.Check(true, "name", "must be provided")
	v.Check(false, "lat", "must be between -90 and 90")
	v.Check(false, "lat", "second message")

	if v.Valid() {
		t.Fatal("expected invalid")
	}
	if got := v.Errors["lat"]; got != "must be between -90 and 90" {
		t.Fatalf("first error must win, got %q", got)
	}
	if _, ok := v.Errors["name"]; ok {
		t.Fatal("passing check must not record an error")
	}
}

func TestHelpers(t *testing.T) {
	if !PermittedValue("a", "a", "b") || PermittedValue("c", "a", "b") {
		t.Fatal("PermittedValue mismatch")
	}
	if !Between(90, -90, 90) || Between(90.1, -90, 90) {
		t.Fatal("Between mismatch")
	}
}
