package auth

import (
	"testing"
)

func TestHashAndCheckPassword(t *testing.T) {
	hash, err := HashPassword("s3cret-password")
	if err != nil {
		t.Fatalf("HashPassword: %v", err)
	}
	if hash == "s3cret-password" {
		t.Fatal("HashPassword should not return the plaintext")
	}

	if !CheckPassword(hash, "s3cret-password") {
		t.Error("CheckPassword should accept the original password")
	}
	if CheckPassword(hash, "wrong-password") {
		t.Error("CheckPassword should reject a wrong password")
	}
	if CheckPassword("not-a-hash", "s3cret-password") {
		t.Error("CheckPassword should reject a malformed hash")
	}
}
