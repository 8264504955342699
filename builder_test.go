package authgate

import (
	"context"
	"testing"

	"github.com/MrEthical07/authgate/token"
)

func TestBuildRequiresStoreAndProvider(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Token.SigningSecret = []byte("builder-test-secret")
	cfg.Cache.Enabled = false

	if _, err := New().WithConfig(cfg).WithProvider(&fakeProvider{}).Build(); err == nil {
		t.Fatal("expected error without a user store")
	}
	if _, err := New().WithConfig(cfg).WithUserStore(newTestStore()).Build(); err == nil {
		t.Fatal("expected error without a provider")
	}
}

func TestBuildRejectsInvalidConfig(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Token.SigningSecret = []byte("builder-test-secret")
	cfg.Token.StateTTL = 0

	_, err := New().
		WithConfig(cfg).
		WithUserStore(newTestStore()).
		WithProvider(&fakeProvider{}).
		Build()
	if err == nil {
		t.Fatal("expected config validation error")
	}
}

func TestBuilderConsumedOnce(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Token.SigningSecret = []byte("builder-test-secret")
	cfg.Cache.Enabled = false

	b := New().
		WithConfig(cfg).
		WithUserStore(newTestStore()).
		WithProvider(&fakeProvider{})

	if _, err := b.Build(); err != nil {
		t.Fatalf("first build failed: %v", err)
	}
	if _, err := b.Build(); err == nil {
		t.Fatal("expected error on second build")
	}
}

func TestBuildWithoutRedisFallsBackToNoop(t *testing.T) {
	store := newTestStore()
	user := store.put(UserRecord{Email: "a@example.com", Role: RoleOwner})

	cfg := DefaultConfig()
	cfg.Token.SigningSecret = []byte("builder-test-secret")
	// Cache stays enabled but no client is supplied; role checks must still
	// resolve through the store.

	gw, err := New().
		WithConfig(cfg).
		WithUserStore(store).
		WithProvider(&fakeProvider{}).
		Build()
	if err != nil {
		t.Fatalf("build failed: %v", err)
	}

	codec := token.NewCodec(token.Config{Secret: []byte("builder-test-secret")})
	sess, err := codec.SignSession(user.ID)
	if err != nil {
		t.Fatalf("sign session: %v", err)
	}

	res, err := gw.AuthorizeRoles(context.Background(), sess, RoleOwner)
	if err != nil {
		t.Fatalf("authorize failed: %v", err)
	}
	if res.Role != RoleOwner {
		t.Fatalf("expected role from store, got %q", res.Role)
	}
}
