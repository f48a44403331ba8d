package security_test

import (
	"testing"

	"github.com/leavehub/leavehub/internal/security"
)

func TestHashAndCheckPassword(t *testing.T) {
	hash, err := security.HashPassword("correct horse")

	if err != nil {
		t.Fatalf("HashPassword: %v", err)
	}

	if hash == "correct horse" {
		t.Fatalf("hash equals the plaintext")
	}

	if err := security.CheckPassword(hash, "correct horse"); err != nil {
		t.Errorf("CheckPassword rejected the right password: %v", err)
	}

	if err := security.CheckPassword(hash, "battery staple"); err == nil {
		t.Errorf("CheckPassword accepted the wrong password")
	}
}

func TestHashPasswordIsSalted(t *testing.T) {
	first, err := security.HashPassword("correct horse")

	if err != nil {
		t.Fatalf("HashPassword: %v", err)
	}

	second, err := security.HashPassword("correct horse")

	if err != nil {
		t.Fatalf("HashPassword: %v", err)
	}

	if first == second {
		t.Errorf("two hashes of the same password are identical")
	}
}
