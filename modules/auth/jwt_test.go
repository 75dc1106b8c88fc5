package auth

import (
	"errors"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

const testSecret = "test-secret-key"

func TestTokenVerifier_Verify(t *testing.T) {
	verifier := NewTokenVerifier(JWTConfig{SecretKey: testSecret})

	t.Run("round trip", func(t *testing.T) {
		token, err := verifier.Generate("user-42", "u@example.com", "User FortyTwo")
		if err != nil {
			t.Fatalf("Generate() error = %v", err)
		}

		claims, err := verifier.Verify(token)
		if err != nil {
			t.Fatalf("Verify() error = %v", err)
		}
		if claims.Subject != "user-42" {
			t.Errorf("expected subject %q, got %q", "user-42", claims.Subject)
		}
		if claims.Email != "u@example.com" {
			t.Errorf("expected email %q, got %q", "u@example.com", claims.Email)
		}
		if claims.Name != "User FortyTwo" {
			t.Errorf("expected name %q, got %q", "User FortyTwo", claims.Name)
		}
	})

	t.Run("wrong secret rejected", func(t *testing.T) {
		other := NewTokenVerifier(JWTConfig{SecretKey: "different-secret"})
		token, err := other.Generate("user-42", "", "")
		if err != nil {
			t.Fatalf("Generate() error = %v", err)
		}

		if _, err := verifier.Verify(token); !errors.Is(err, ErrInvalidToken) {
			t.Errorf("expected ErrInvalidToken, got %v", err)
		}
	})

	t.Run("garbage rejected", func(t *testing.T) {
		if _, err := verifier.Verify("not.a.token"); !errors.Is(err, ErrInvalidToken) {
			t.Errorf("expected ErrInvalidToken, got %v", err)
		}
	})

	t.Run("expired token rejected", func(t *testing.T) {
		past := time.Now().Add(-time.Hour)
		claims := JWTClaims{
			RegisteredClaims: jwt.RegisteredClaims{
				Subject:   "user-42",
				ExpiresAt: jwt.NewNumericDate(past),
				IssuedAt:  jwt.NewNumericDate(past.Add(-time.Minute)),
			},
		}
		token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(testSecret))
		if err != nil {
			t.Fatalf("failed to sign token: %v", err)
		}

		if _, err := verifier.Verify(token); !errors.Is(err, ErrExpiredToken) {
			t.Errorf("expected ErrExpiredToken, got %v", err)
		}
	})

	t.Run("missing subject rejected", func(t *testing.T) {
		claims := JWTClaims{
			RegisteredClaims: jwt.RegisteredClaims{
				ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
			},
		}
		token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(testSecret))
		if err != nil {
			t.Fatalf("failed to sign token: %v", err)
		}

		if _, err := verifier.Verify(token); !errors.Is(err, ErrInvalidToken) {
			t.Errorf("expected ErrInvalidToken, got %v", err)
		}
	})
}

func TestTokenVerifier_Issuer(t *testing.T) {
	issuing := NewTokenVerifier(JWTConfig{SecretKey: testSecret, Issuer: "idp.example.com"})
	checking := NewTokenVerifier(JWTConfig{SecretKey: testSecret, Issuer: "other.example.com"})

	token, err := issuing.Generate("user-42", "", "")
	if err != nil {
		t.Fatalf("Generate() error = %v", err)
	}

	if _, err := issuing.Verify(token); err != nil {
		t.Errorf("expected matching issuer to verify, got %v", err)
	}
	if _, err := checking.Verify(token); !errors.Is(err, ErrInvalidToken) {
		t.Errorf("expected issuer mismatch to fail, got %v", err)
	}
}
