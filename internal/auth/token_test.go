// ABOUTME: Unit tests for JWT token generation and verification
// ABOUTME: Covers round-trips, expiry, tampered signatures, and malformed input

package auth

import (
	"errors"
	"strings"
	"testing"
	"time"
)

var testSecret = []byte("test-secret-key-for-jwt-signing!")

func TestNewJWTVerifier_ShortSecret(t *testing.T) {
	_, err := NewJWTVerifier([]byte("short"))
	if !errors.Is(err, ErrSecretTooShort) {
		t.Errorf("NewJWTVerifier() error = %v, want ErrSecretTooShort", err)
	}
}

func TestJWTVerifier_RoundTrip(t *testing.T) {
	verifier, err := NewJWTVerifier(testSecret)
	if err != nil {
		t.Fatalf("NewJWTVerifier() error = %v", err)
	}

	token, err := verifier.Generate("alice", time.Hour)
	if err != nil {
		t.Fatalf("Generate() error = %v", err)
	}

	subject, err := verifier.Verify(token)
	if err != nil {
		t.Fatalf("Verify() error = %v", err)
	}
	if subject != "alice" {
		t.Errorf("Verify() = %q, want %q", subject, "alice")
	}
}

func TestJWTVerifier_ExpiredToken(t *testing.T) {
	verifier, err := NewJWTVerifier(testSecret)
	if err != nil {
		t.Fatalf("NewJWTVerifier() error = %v", err)
	}

	// Correctly signed, expired an hour ago
	token, err := verifier.Generate("alice", -time.Hour)
	if err != nil {
		t.Fatalf("Generate() error = %v", err)
	}

	_, err = verifier.Verify(token)
	if !errors.Is(err, ErrTokenExpired) {
		t.Errorf("Verify() error = %v, want ErrTokenExpired", err)
	}
}

func TestJWTVerifier_BadSignature(t *testing.T) {
	verifier, err := NewJWTVerifier(testSecret)
	if err != nil {
		t.Fatalf("NewJWTVerifier() error = %v", err)
	}

	other, err := NewJWTVerifier([]byte("a-completely-different-secret-ok!"))
	if err != nil {
		t.Fatalf("NewJWTVerifier() error = %v", err)
	}
	token, err := other.Generate("alice", time.Hour)
	if err != nil {
		t.Fatalf("Generate() error = %v", err)
	}

	_, err = verifier.Verify(token)
	if !errors.Is(err, ErrBadSignature) {
		t.Errorf("Verify() error = %v, want ErrBadSignature", err)
	}
}

func TestJWTVerifier_TamperedPayload(t *testing.T) {
	verifier, err := NewJWTVerifier(testSecret)
	if err != nil {
		t.Fatalf("NewJWTVerifier() error = %v", err)
	}

	token, err := verifier.Generate("alice", time.Hour)
	if err != nil {
		t.Fatalf("Generate() error = %v", err)
	}

	// Swap the payload segment for a different (valid base64) one
	parts := strings.Split(token, ".")
	if len(parts) != 3 {
		t.Fatalf("unexpected token shape: %q", token)
	}
	forged, err := verifier.Generate("mallory", time.Hour)
	if err != nil {
		t.Fatalf("Generate() error = %v", err)
	}
	forgedParts := strings.Split(forged, ".")
	tampered := parts[0] + "." + forgedParts[1] + "." + parts[2]

	if _, err := verifier.Verify(tampered); !errors.Is(err, ErrBadSignature) {
		t.Errorf("Verify() error = %v, want ErrBadSignature", err)
	}
}

func TestJWTVerifier_Malformed(t *testing.T) {
	verifier, err := NewJWTVerifier(testSecret)
	if err != nil {
		t.Fatalf("NewJWTVerifier() error = %v", err)
	}

	tests := []struct {
		name  string
		token string
	}{
		{name: "empty token", token: ""},
		{name: "garbage token", token: "not-a-jwt-token"},
		{name: "bogus segments", token: "header.payload.signature"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := verifier.Verify(tt.token)
			if !errors.Is(err, ErrTokenMalformed) {
				t.Errorf("Verify(%q) error = %v, want ErrTokenMalformed", tt.token, err)
			}
		})
	}
}

func TestJWTVerifier_ErrorsAreDistinct(t *testing.T) {
	// The three token errors collapse to "anonymous" for request
	// handling but must stay distinguishable for observability.
	if errors.Is(ErrTokenExpired, ErrBadSignature) ||
		errors.Is(ErrTokenExpired, ErrTokenMalformed) ||
		errors.Is(ErrBadSignature, ErrTokenMalformed) {
		t.Error("token errors must not alias each other")
	}
}
