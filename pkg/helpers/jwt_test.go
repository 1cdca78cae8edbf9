package helpers

import (
	"strings"
	"testing"
	"time"
)

func testManager(ttl time.Duration) *JWTManager {
	return &JWTManager{Secret: []byte("unit-test-secret"), TTL: ttl}
}

func TestJWTManager_RoundTrip(t *testing.T) {
	t.Parallel()
	m := testManager(time.Hour)

	token, exp, err := m.GenerateSessionToken("user-1", "ada@example.com", "Ada Lovelace")
	if err != nil {
		t.Fatalf("generate: %v", err)
	}
	if time.Until(exp) > time.Hour || time.Until(exp) < 59*time.Minute {
		t.Errorf("expiry %v away, want ~1h", time.Until(exp))
	}

	claims, err := m.ParseSessionToken(token)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if claims.UserID() != "user-1" {
		t.Errorf("UserID = %s, want user-1", claims.UserID())
	}
	if claims.Email != "ada@example.com" {
		t.Errorf("Email = %s", claims.Email)
	}
	if claims.Name != "Ada Lovelace" {
		t.Errorf("Name = %s", claims.Name)
	}
}

func TestJWTManager_Expired(t *testing.T) {
	t.Parallel()
	m := testManager(-time.Minute)

	token, _, err := m.GenerateSessionToken("user-1", "ada@example.com", "Ada")
	if err != nil {
		t.Fatalf("generate: %v", err)
	}
	if _, err := m.ParseSessionToken(token); err != ErrInvalidToken {
		t.Errorf("err = %v, want ErrInvalidToken", err)
	}
}

func TestJWTManager_WrongSecret(t *testing.T) {
	t.Parallel()
	m := testManager(time.Hour)
	other := &JWTManager{Secret: []byte("a-different-secret"), TTL: time.Hour}

	token, _, err := m.GenerateSessionToken("user-1", "ada@example.com", "Ada")
	if err != nil {
		t.Fatalf("generate: %v", err)
	}
	if _, err := other.ParseSessionToken(token); err != ErrInvalidToken {
		t.Errorf("err = %v, want ErrInvalidToken", err)
	}
}

func TestJWTManager_Tampered(t *testing.T) {
	t.Parallel()
	m := testManager(time.Hour)

	token, _, err := m.GenerateSessionToken("user-1", "ada@example.com", "Ada")
	if err != nil {
		t.Fatalf("generate: %v", err)
	}
	parts := strings.Split(token, ".")
	if len(parts) != 3 {
		t.Fatalf("unexpected token shape: %s", token)
	}
	tampered := parts[0] + ".eyJzdWIiOiJ1c2VyLTIifQ." + parts[2]
	if _, err := m.ParseSessionToken(tampered); err != ErrInvalidToken {
		t.Errorf("err = %v, want ErrInvalidToken", err)
	}
	if _, err := m.ParseSessionToken("not-a-token"); err != ErrInvalidToken {
		t.Errorf("garbage err = %v, want ErrInvalidToken", err)
	}
}
