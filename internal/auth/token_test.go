package auth

import (
	"errors"
	"testing"
	"time"
)

const testUserID = "3f6c2b1a-77aa-4f10-bd4e-8a20cf94d1ce"

func withSecret(t *testing.T, value string) {
	t.Helper()
	ResetSecretForTests()
	t.Setenv(secretEnvVariable, value)
	t.Cleanup(ResetSecretForTests)
}

func TestGenerateAndValidateToken(t *testing.T) {
	withSecret(t, "unit-test-secret")

	token, err := GenerateToken(testUserID, "User@Example.ORG", time.Hour)
	if err != nil {
		t.Fatalf("GenerateToken: %v", err)
	}

	claims, err := ParseAndValidate(token)
	if err != nil {
		t.Fatalf("ParseAndValidate: %v", err)
	}
	if claims.Subject != testUserID {
		t.Fatalf("unexpected subject: %s", claims.Subject)
	}
	if claims.Email != "user@example.org" {
		t.Fatalf("expected lowercased email, got %q", claims.Email)
	}
}

func TestGenerateTokenRequiresSecret(t *testing.T) {
	withSecret(t, "")

	_, err := GenerateToken(testUserID, "user@example.org", time.Hour)
	if !errors.Is(err, errMissingSecret) {
		t.Fatalf("expected missing-secret error, got %v", err)
	}
}

func TestParseAndValidateRejectsGarbage(t *testing.T) {
	withSecret(t, "unit-test-secret")

	for _, token := range []string{"", "   ", "not.a.jwt"} {
		if _, err := ParseAndValidate(token); !errors.Is(err, ErrInvalidToken) {
			t.Fatalf("token %q: expected ErrInvalidToken, got %v", token, err)
		}
	}
}

func TestParseAndValidateRejectsWrongSecret(t *testing.T) {
	withSecret(t, "first-secret")
	token, err := GenerateToken(testUserID, "user@example.org", time.Hour)
	if err != nil {
		t.Fatalf("GenerateToken: %v", err)
	}

	withSecret(t, "second-secret")
	if _, err := ParseAndValidate(token); !errors.Is(err, ErrInvalidToken) {
		t.Fatalf("expected ErrInvalidToken after secret rotation, got %v", err)
	}
}

func TestParseAndValidateRejectsNonUUIDSubject(t *testing.T) {
	withSecret(t, "unit-test-secret")

	token, err := GenerateToken("service-account", "svc@example.org", time.Hour)
	if err != nil {
		t.Fatalf("GenerateToken: %v", err)
	}
	if _, err := ParseAndValidate(token); !errors.Is(err, ErrInvalidToken) {
		t.Fatalf("expected ErrInvalidToken for non-UUID subject, got %v", err)
	}
}

func TestPasswordRoundTrip(t *testing.T) {
	hash, err := HashPassword("correct horse battery staple")
	if err != nil {
		t.Fatalf("HashPassword: %v", err)
	}
	if err := VerifyPassword(hash, "correct horse battery staple"); err != nil {
		t.Fatalf("VerifyPassword: %v", err)
	}
	if err := VerifyPassword(hash, "wrong password"); err == nil {
		t.Fatal("expected mismatch error")
	}
}
