package passhash

import (
	"errors"
	"strings"
	"testing"
)

func TestHashAndVerify(t *testing.T) {
	encoded, err := HashWithIters("s3cret-admin-token", 1000)
	if err != nil {
		t.Fatalf("hash: %v", err)
	}
	if !strings.HasPrefix(encoded, "pbkdf2_sha256$1000$") {
		t.Fatalf("unexpected encoding %q", encoded)
	}

	ok, err := Verify("s3cret-admin-token", encoded)
	if err != nil || !ok {
		t.Fatalf("expected match, got %v %v", ok, err)
	}
	ok, err = Verify("wrong", encoded)
	if err != nil || ok {
		t.Fatalf("expected mismatch, got %v %v", ok, err)
	}
}

func TestHashIsSalted(t *testing.T) {
	a, _ := HashWithIters("same", 10)
	b, _ := HashWithIters("same", 10)
	if a == b {
		t.Fatal("two hashes of the same secret must differ")
	}
}

func TestVerifyMalformed(t *testing.T) {
	for _, encoded := range []string{
		"",
		"bcrypt$10$abc",
		"pbkdf2_sha256$abc$c2FsdA$a2V5",
		"pbkdf2_sha256$10$c2FsdA",
		"pbkdf2_sha256$10$!!$a2V5",
	} {
		if _, err := Verify("x", encoded); !errors.Is(err, ErrMalformedHash) {
			t.Errorf("Verify(%q) error = %v, want ErrMalformedHash", encoded, err)
		}
	}
}
