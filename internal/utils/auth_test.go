package utils

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/xelth-com/swiftlog/internal/models"
)

const testSecret = "test-secret-key-12345"

func TestPasswordHashing(t *testing.T) {
	hash, err := HashPassword("admin")
	if err != nil {
		t.Fatalf("HashPassword: %v", err)
	}
	if hash == "admin" || hash == "" {
		t.Fatalf("unexpected hash %q", hash)
	}

	cases := map[string]bool{"admin": true, "Admin": false, "": false}
	for pw, want := range cases {
		if got := CheckPasswordHash(pw, hash); got != want {
			t.Errorf("CheckPasswordHash(%q) = %v, want %v", pw, got, want)
		}
	}
}

func TestTokenPair(t *testing.T) {
	user := &models.User{ID: "op-7", Name: "Operador Teste", Email: "op@swiftlog", Role: "Gerente de Logística"}

	access, refresh, err := GenerateTokens(user, testSecret)
	if err != nil {
		t.Fatalf("GenerateTokens: %v", err)
	}

	claims, err := ValidateToken(access, testSecret)
	if err != nil {
		t.Fatalf("ValidateToken(access): %v", err)
	}
	if claims["type"] != "access" || claims["id"] != user.ID || claims["role"] != user.Role {
		t.Errorf("unexpected access claims %v", claims)
	}

	claims, err = ValidateToken(refresh, testSecret)
	if err != nil {
		t.Fatalf("ValidateToken(refresh): %v", err)
	}
	if claims["type"] != "refresh" || claims["id"] != user.ID {
		t.Errorf("unexpected refresh claims %v", claims)
	}
	if _, ok := claims["email"]; ok {
		t.Error("refresh token should not carry profile claims")
	}
}

func TestValidateToken_Rejects(t *testing.T) {
	expired, _ := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"id":  "op-7",
		"exp": time.Now().Add(-time.Minute).Unix(),
	}).SignedString([]byte(testSecret))
	unsigned, _ := jwt.NewWithClaims(jwt.SigningMethodNone, jwt.MapClaims{"id": "op-7"}).
		SignedString(jwt.UnsafeAllowNoneSignatureType)
	valid, _, _ := GenerateTokens(&models.User{ID: "op-7"}, testSecret)

	tests := []struct {
		name   string
		token  string
		secret string
	}{
		{"wrong key", valid, "other-key"},
		{"expired", expired, testSecret},
		{"none algorithm", unsigned, testSecret},
		{"garbage", "not.a.token", testSecret},
	}
	for _, tt := range tests {
		if _, err := ValidateToken(tt.token, tt.secret); err == nil {
			t.Errorf("%s: expected rejection", tt.name)
		}
	}
}

func TestGenerateTokens_EmptySecret(t *testing.T) {
	if _, _, err := GenerateTokens(&models.User{ID: "u"}, ""); err == nil {
		t.Error("empty secret should be rejected")
	}
}
