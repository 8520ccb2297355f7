package application

import (
	"errors"
	"strings"
	"testing"
)

// Hashing tests use deliberately cheap parameters to keep the suite fast.
var testArgon2idParams = Argon2idParams{
	Memory:      8 * 1024,
	Iterations:  1,
	Parallelism: 1,
	SaltLength:  16,
	KeyLength:   32,
}

func TestPasswordHashRoundTrip(t *testing.T) {
	t.Parallel()

	hash, err := CreatePasswordHash("s3cret-pass", testArgon2idParams)
	if err != nil {
		t.Fatalf("expected success, got %v", err)
	}
	if !strings.HasPrefix(hash, "$argon2id$v=") {
		t.Fatalf("unexpected hash encoding: %q", hash)
	}

	if err := VerifyPassword(hash, "s3cret-pass"); err != nil {
		t.Fatalf("expected the password to verify, got %v", err)
	}
	if err := VerifyPassword(hash, "wrong-pass"); !errors.Is(err, ErrInvalidCredentials) {
		t.Fatalf("expected ErrInvalidCredentials, got %v", err)
	}
}

func TestPasswordHashesAreSalted(t *testing.T) {
	t.Parallel()

	first, err := CreatePasswordHash("same-password", testArgon2idParams)
	if err != nil {
		t.Fatalf("expected success, got %v", err)
	}
	second, err := CreatePasswordHash("same-password", testArgon2idParams)
	if err != nil {
		t.Fatalf("expected success, got %v", err)
	}
	if first == second {
		t.Fatal("expected distinct hashes for the same password")
	}
}

func TestVerifyPasswordRejectsMalformedHashes(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name string
		hash string
	}{
		{"empty", ""},
		{"plain text", "not-a-hash"},
		{"wrong algorithm", "$bcrypt$v=19$m=8192,t=1,p=1$c2FsdA$aGFzaA"},
		{"missing sections", "$argon2id$v=19$m=8192,t=1,p=1"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			if err := VerifyPassword(tc.hash, "anything"); !errors.Is(err, ErrInvalidPasswordHash) {
				t.Fatalf("expected ErrInvalidPasswordHash, got %v", err)
			}
		})
	}
}

func TestVerifyPasswordRejectsIncompatibleVersion(t *testing.T) {
	t.Parallel()

	hash, err := CreatePasswordHash("s3cret-pass", testArgon2idParams)
	if err != nil {
		t.Fatalf("expected success, got %v", err)
	}
	downgraded := strings.Replace(hash, "$v=19$", "$v=18$", 1)

	if err := VerifyPassword(downgraded, "s3cret-pass"); !errors.Is(err, ErrIncompatiblePasswordVersion) {
		t.Fatalf("expected ErrIncompatiblePasswordVersion, got %v", err)
	}
}
