package utils

import (
	"strings"
	"testing"
	"time"
)

func TestGenerateAndParseToken(t *testing.T) {
	token, exp, err := GenerateToken(42, "dispatch", "staff", time.Hour)
	if err != nil {
		t.Fatalf("GenerateToken: %v", err)
	}
	if time.Until(exp) < 55*time.Minute {
		t.Errorf("expiry too close: %v", exp)
	}

	claims, err := ParseToken(token)
	if err != nil {
		t.Fatalf("ParseToken: %v", err)
	}
	if claims.UserId != 42 || claims.Username != "dispatch" || claims.Role != "staff" {
		t.Errorf("claims mismatch: %+v", claims)
	}
}

func TestParseTokenRejectsTampered(t *testing.T) {
	token, _, err := GenerateToken(7, "client-a", "client", time.Hour)
	if err != nil {
		t.Fatalf("GenerateToken: %v", err)
	}

	parts := strings.Split(token, ".")
	if len(parts) != 3 {
		t.Fatalf("unexpected token shape: %d parts", len(parts))
	}
	tampered := parts[0] + "." + parts[1] + ".AAAA" + parts[2][4:]
	if _, err := ParseToken(tampered); err == nil {
		t.Error("tampered token accepted")
	}
}

func TestParseTokenRejectsExpired(t *testing.T) {
	token, _, err := GenerateToken(7, "client-a", "client", -time.Minute)
	if err != nil {
		t.Fatalf("GenerateToken: %v", err)
	}
	if _, err := ParseToken(token); err == nil {
		t.Error("expired token accepted")
	}
}

func TestIsAdmin(t *testing.T) {
	cases := []struct {
		role string
		want bool
	}{
		{"admin", true},
		{"staff", true},
		{"client", false},
		{"", false},
	}
	for _, tc := range cases {
		c := Claims{Role: tc.role}
		if got := c.IsAdmin(); got != tc.want {
			t.Errorf("IsAdmin(%q) = %v, want %v", tc.role, got, tc.want)
		}
	}
}
