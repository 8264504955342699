package token

import (
	"errors"
	"strings"
	"testing"
	"time"
)

func newTestCodec(t *testing.T, mutate func(*Config)) *Codec {
	t.Helper()

	cfg := Config{
		Secret:     []byte("test-secret-32-bytes-long-enough"),
		Issuer:     "authgate-test",
		SessionTTL: time.Hour,
		StateTTL:   10 * time.Minute,
	}
	if mutate != nil {
		mutate(&cfg)
	}
	return NewCodec(cfg)
}

func TestStateRoundTrip(t *testing.T) {
	codec := newTestCodec(t, nil)

	signed, err := codec.SignState("n1", "https://app.example/cb")
	if err != nil {
		t.Fatalf("sign state failed: %v", err)
	}

	claims, err := codec.VerifyState(signed)
	if err != nil {
		t.Fatalf("verify state failed: %v", err)
	}
	if claims.Nonce != "n1" {
		t.Fatalf("expected nonce n1, got %q", claims.Nonce)
	}
	if claims.RedirectTarget != "https://app.example/cb" {
		t.Fatalf("expected redirect target preserved, got %q", claims.RedirectTarget)
	}
}

func TestSessionRoundTrip(t *testing.T) {
	codec := newTestCodec(t, nil)

	signed, err := codec.SignSession("user-1")
	if err != nil {
		t.Fatalf("sign session failed: %v", err)
	}

	claims, err := codec.VerifySession(signed)
	if err != nil {
		t.Fatalf("verify session failed: %v", err)
	}
	if claims.UserID != "user-1" {
		t.Fatalf("expected user-1, got %q", claims.UserID)
	}
}

func TestExpiredStateCarriesExpiry(t *testing.T) {
	codec := newTestCodec(t, func(cfg *Config) {
		cfg.StateTTL = time.Millisecond
	})

	signed, err := codec.SignState("n1", "https://app.example/cb")
	if err != nil {
		t.Fatalf("sign state failed: %v", err)
	}

	time.Sleep(20 * time.Millisecond)

	_, err = codec.VerifyState(signed)
	if !errors.Is(err, ErrTokenExpired) {
		t.Fatalf("expected ErrTokenExpired, got %v", err)
	}

	var expired *ExpiredError
	if !errors.As(err, &expired) {
		t.Fatalf("expected *ExpiredError, got %T", err)
	}
	if expired.ExpiredAt.IsZero() {
		t.Fatal("expected original expiry timestamp to be carried")
	}
	if time.Since(expired.ExpiredAt) > time.Minute {
		t.Fatalf("expiry timestamp implausible: %v", expired.ExpiredAt)
	}
}

func TestTamperedTokenIsInvalidNotExpired(t *testing.T) {
	codec := newTestCodec(t, nil)

	signed, err := codec.SignSession("user-1")
	if err != nil {
		t.Fatalf("sign session failed: %v", err)
	}

	tampered := signed[:len(signed)-4] + "AAAA"
	_, err = codec.VerifySession(tampered)
	if !errors.Is(err, ErrTokenInvalid) {
		t.Fatalf("expected ErrTokenInvalid, got %v", err)
	}
	if errors.Is(err, ErrTokenExpired) {
		t.Fatal("tampered token must not classify as expired")
	}
}

func TestWrongSecretRejected(t *testing.T) {
	codec := newTestCodec(t, nil)
	other := newTestCodec(t, func(cfg *Config) {
		cfg.Secret = []byte("another-secret-entirely-differs!")
	})

	signed, err := codec.SignSession("user-1")
	if err != nil {
		t.Fatalf("sign session failed: %v", err)
	}

	if _, err := other.VerifySession(signed); !errors.Is(err, ErrTokenInvalid) {
		t.Fatalf("expected ErrTokenInvalid, got %v", err)
	}
}

func TestMissingSecretFailsOperationOnly(t *testing.T) {
	codec := newTestCodec(t, func(cfg *Config) {
		cfg.Secret = nil
	})

	if _, err := codec.SignSession("user-1"); !errors.Is(err, ErrSecretMissing) {
		t.Fatalf("expected ErrSecretMissing on sign, got %v", err)
	}
	if _, err := codec.VerifySession("whatever"); !errors.Is(err, ErrSecretMissing) {
		t.Fatalf("expected ErrSecretMissing on verify, got %v", err)
	}
}

func TestMalformedStructureIsInvalid(t *testing.T) {
	codec := newTestCodec(t, nil)

	for _, bad := range []string{"", "not-a-token", "a.b", strings.Repeat("x", 64)} {
		if _, err := codec.VerifyState(bad); !errors.Is(err, ErrTokenInvalid) {
			t.Fatalf("expected ErrTokenInvalid for %q, got %v", bad, err)
		}
	}
}
