package auth

import (
	"errors"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

const testSecret = "test-secret-at-least-32-chars-long-for-security"

func TestMintAndVerify_RoundTripsRole(t *testing.T) {
	m := NewMinter(testSecret, "subdash", time.Minute)
	v := NewVerifier(testSecret, "subdash")

	for _, role := range []string{"admin", "user", ""} {
		tok, err := m.Mint("user_123", role)
		if err != nil {
			t.Fatalf("Mint: %v", err)
		}
		id, err := v.Verify(tok)
		if err != nil {
			t.Fatalf("Verify: %v", err)
		}
		if !id.Loaded || !id.SignedIn || id.UserID != "user_123" {
			t.Fatalf("unexpected identity: %+v", id)
		}
		want := role
		if want == "" {
			want = RoleUser
		}
		if id.Role != want {
			t.Fatalf("role = %q; want %q", id.Role, want)
		}
		if id.IsAdmin() != (want == RoleAdmin) {
			t.Fatalf("IsAdmin = %v for role %q", id.IsAdmin(), want)
		}
	}
}

func TestMint_EmptySubjectGetsUUID(t *testing.T) {
	tok, err := NewMinter(testSecret, "", 0).Mint("", "user")
	if err != nil {
		t.Fatalf("Mint: %v", err)
	}
	id, err := NewVerifier(testSecret, "").Verify(tok)
	if err != nil {
		t.Fatalf("Verify: %v", err)
	}
	if len(id.UserID) != 36 {
		t.Fatalf("expected uuid subject, got %q", id.UserID)
	}
}

func TestVerify_PublicMetadataRole(t *testing.T) {
	c := claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   "user_9",
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Minute)),
		},
	}
	c.PublicMetadata.Role = "admin"
	tok, err := jwt.NewWithClaims(jwt.SigningMethodHS256, c).SignedString([]byte(testSecret))
	if err != nil {
		t.Fatalf("sign: %v", err)
	}
	id, err := NewVerifier(testSecret, "").Verify(tok)
	if err != nil {
		t.Fatalf("Verify: %v", err)
	}
	if !id.IsAdmin() {
		t.Fatalf("expected admin from public_metadata, got %+v", id)
	}
}

func TestVerify_Rejects(t *testing.T) {
	expired := NewMinter(testSecret, "subdash", time.Minute)
	expired.now = func() time.Time { return time.Now().Add(-time.Hour) }

	tokWrongIssuer, _ := NewMinter(testSecret, "other", time.Minute).Mint("u", "user")
	tokWrongSecret, _ := NewMinter("another-secret-another-secret-another", "subdash", time.Minute).Mint("u", "user")
	tokExpired, _ := expired.Mint("u", "user")
	tokNone, _ := jwt.NewWithClaims(jwt.SigningMethodNone, jwt.RegisteredClaims{Subject: "u"}).SignedString(jwt.UnsafeAllowNoneSignatureType)

	v := NewVerifier(testSecret, "subdash")
	for name, tok := range map[string]string{
		"empty":    "",
		"garbage":  "not.a.jwt",
		"issuer":   tokWrongIssuer,
		"secret":   tokWrongSecret,
		"expired":  tokExpired,
		"alg none": tokNone,
	} {
		if _, err := v.Verify(tok); !errors.Is(err, ErrInvalidToken) {
			t.Fatalf("%s: expected ErrInvalidToken, got %v", name, err)
		}
	}
}

func TestIdentity_Allows(t *testing.T) {
	if Anonymous().Allows(RoleUser, RoleAdmin) {
		t.Fatalf("anonymous must not pass a role gate")
	}
	u := NewIdentity("u1", "USER ")
	if u.Role != RoleUser || !u.Allows(RoleUser, RoleAdmin) || u.Allows(RoleAdmin) {
		t.Fatalf("unexpected gate result for %+v", u)
	}
	if !NewIdentity("a1", "admin").Allows(RoleAdmin) {
		t.Fatalf("admin must pass admin gate")
	}
}
