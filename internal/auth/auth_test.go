package auth

import (
	"testing"
	"time"
)

func TestHashAndCheckPassword(t *testing.T) {
	hash, err := HashPassword("s3cret-pass")
	if err != nil {
		t.Fatalf("hash error: %v", err)
	}
	if hash == "s3cret-pass" {
		t.Fatal("hash must not equal the plaintext")
	}
	if !CheckPassword(hash, "s3cret-pass") {
		t.Fatal("correct password rejected")
	}
	if CheckPassword(hash, "wrong") {
		t.Fatal("wrong password accepted")
	}
}

func TestIssueAndVerifyToken(t *testing.T) {
	tok, err := IssueToken("test-secret", "user-123", RoleSuperadmin, time.Minute)
	if err != nil {
		t.Fatalf("issue error: %v", err)
	}
	claims, err := VerifyToken("test-secret", tok)
	if err != nil {
		t.Fatalf("verify error: %v", err)
	}
	if claims.Subject != "user-123" {
		t.Fatalf("subject=%q, expected user-123", claims.Subject)
	}
	if claims.Role != RoleSuperadmin {
		t.Fatalf("role=%q, expected %q", claims.Role, RoleSuperadmin)
	}
}

func TestVerifyToken_WrongSecret(t *testing.T) {
	tok, err := IssueToken("secret-a", "user-123", "", time.Minute)
	if err != nil {
		t.Fatalf("issue error: %v", err)
	}
	if _, err := VerifyToken("secret-b", tok); err == nil {
		t.Fatal("token signed with another secret must be rejected")
	}
}

func TestVerifyToken_Expired(t *testing.T) {
	tok, err := IssueToken("test-secret", "user-123", "", -time.Minute)
	if err != nil {
		t.Fatalf("issue error: %v", err)
	}
	if _, err := VerifyToken("test-secret", tok); err == nil {
		t.Fatal("expired token must be rejected")
	}
}

func TestVerifyToken_Garbage(t *testing.T) {
	if _, err := VerifyToken("test-secret", "not.a.token"); err == nil {
		t.Fatal("garbage token must be rejected")
	}
}
