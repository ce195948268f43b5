package auth

import (
	"strings"
	"testing"

	"crimecity-server/internal/shared/config"
)

func configureSecret(t *testing.T, secret string) {
	t.Helper()
	prev := config.GlobalConfig
	config.GlobalConfig = &config.Config{Auth: config.AuthConfig{JWTSecret: secret}}
	t.Cleanup(func() { config.GlobalConfig = prev })
}

func TestJWTRoundTrip(t *testing.T) {
	configureSecret(t, "0123456789abcdef0123456789abcdef")

	token, err := GenerateJWT(42, "vinny", "vinny@example.com", "user")
	if err != nil {
		t.Fatal(err)
	}

	claims, err := ValidateJWT(token)
	if err != nil {
		t.Fatal(err)
	}
	if claims.PlayerID != 42 || claims.Username != "vinny" || claims.Role != "user" {
		t.Errorf("claims = %+v", claims)
	}
	if claims.Subject != "player_42" {
		t.Errorf("subject = %q, want player_42", claims.Subject)
	}
}

func TestValidateJWTRejectsTampering(t *testing.T) {
	configureSecret(t, "0123456789abcdef0123456789abcdef")

	token, err := GenerateJWT(42, "vinny", "vinny@example.com", "user")
	if err != nil {
		t.Fatal(err)
	}

	parts := strings.Split(token, ".")
	tampered := parts[0] + "." + parts[1] + "." + "AAAA" + parts[2][4:]
	if _, err := ValidateJWT(tampered); err == nil {
		t.Error("tampered token accepted")
	}
}

func TestValidateJWTRejectsWrongSecret(t *testing.T) {
	configureSecret(t, "0123456789abcdef0123456789abcdef")
	token, err := GenerateJWT(42, "vinny", "vinny@example.com", "user")
	if err != nil {
		t.Fatal(err)
	}

	configureSecret(t, "ffffffffffffffffffffffffffffffff")
	if _, err := ValidateJWT(token); err == nil {
		t.Error("token signed with a different secret accepted")
	}
}

func TestJWTRequiresStrongSecret(t *testing.T) {
	configureSecret(t, "short")
	if _, err := GenerateJWT(1, "a", "a@example.com", "user"); err == nil {
		t.Error("short secret accepted")
	}

	configureSecret(t, "")
	if _, err := GenerateJWT(1, "a", "a@example.com", "user"); err == nil {
		t.Error("empty secret accepted")
	}
}
