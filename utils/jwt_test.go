package utils

import (
	"testing"

	"github.com/golang-jwt/jwt/v5"
)

func TestGenerateJWT_RoundTrip(t *testing.T) {
	t.Setenv("JWT_SECRET", "test-secret")

	tok, err := GenerateJWT(42, "user@example.com")
	if err != nil {
		t.Fatalf("GenerateJWT error: %v", err)
	}

	parsed, err := jwt.Parse(tok, func(token *jwt.Token) (interface{}, error) {
		return []byte("test-secret"), nil
	})
	if err != nil || !parsed.Valid {
		t.Fatalf("parse error: %v", err)
	}

	claims, ok := parsed.Claims.(jwt.MapClaims)
	if !ok {
		t.Fatalf("unexpected claims type %T", parsed.Claims)
	}
	if id, _ := claims["userId"].(float64); uint(id) != 42 {
		t.Fatalf("userId claim mismatch: got %v want 42", claims["userId"])
	}
	if email, _ := claims["email"].(string); email != "user@example.com" {
		t.Fatalf("email claim mismatch: got %q", email)
	}
}

func TestPasswordHashing(t *testing.T) {
	hash, err := HashPassword("hunter2hunter2")
	if err != nil {
		t.Fatalf("HashPassword error: %v", err)
	}
	if !CheckPasswordHash("hunter2hunter2", hash) {
		t.Fatalf("correct password rejected")
	}
	if CheckPasswordHash("wrong-password", hash) {
		t.Fatalf("wrong password accepted")
	}
}
