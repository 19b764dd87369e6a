package helpers

import (
	"testing"
	"time"
)

func newTestJWT() *JWTManager {
	return NewJWTManager("access-secret", "refresh-secret", 3*time.Hour, 168*time.Hour)
}

func TestAccessTokenRoundTrip(t *testing.T) {
	m := newTestJWT()

	token, exp, err := m.GenerateAccessToken("user-123")
	if err != nil {
		t.Fatalf("generate: %v", err)
	}
	if until := time.Until(exp); until < 2*time.Hour+59*time.Minute || until > 3*time.Hour {
		t.Errorf("expiry %v away, want about 3h", until)
	}

	claims, err := m.ParseAccessToken(token)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if claims.UserID != "user-123" {
		t.Errorf("uid = %q", claims.UserID)
	}
}

func TestTokenSecretsAreSeparate(t *testing.T) {
	m := newTestJWT()

	access, _, err := m.GenerateAccessToken("user-123")
	if err != nil {
		t.Fatal(err)
	}
	refresh, _, err := m.GenerateRefreshToken("user-123")
	if err != nil {
		t.Fatal(err)
	}

	if _, err := m.ParseRefreshToken(access); err == nil {
		t.Error("access token accepted as refresh token")
	}
	if _, err := m.ParseAccessToken(refresh); err == nil {
		t.Error("refresh token accepted as access token")
	}
}

func TestParseRejectsTamperedToken(t *testing.T) {
	m := newTestJWT()
	token, _, err := m.GenerateAccessToken("user-123")
	if err != nil {
		t.Fatal(err)
	}
	other := NewJWTManager("different-secret", "refresh-secret", time.Hour, time.Hour)
	if _, err := other.ParseAccessToken(token); err == nil {
		t.Error("token signed with another secret accepted")
	}
}
