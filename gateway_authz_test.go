package authgate

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/MrEthical07/authgate/cache"
	"github.com/MrEthical07/authgate/token"
)

func signTestSession(t *testing.T, userID string) string {
	t.Helper()

	codec := token.NewCodec(token.Config{Secret: []byte("flow-test-secret")})
	tok, err := codec.SignSession(userID)
	if err != nil {
		t.Fatalf("sign session: %v", err)
	}
	return tok
}

func TestAuthorizeRolesServesCachedProjection(t *testing.T) {
	store := newTestStore()
	user := store.put(UserRecord{Email: "a@example.com", Role: RoleStudent})
	gw, _ := newRedisGateway(t, store, &fakeProvider{})

	sess := signTestSession(t, user.ID)

	// First call populates the cache from the store.
	res, err := gw.AuthorizeRoles(context.Background(), sess, RoleStudent)
	if err != nil {
		t.Fatalf("authorize failed: %v", err)
	}
	if res.Role != RoleStudent {
		t.Fatalf("expected resolved role student, got %q", res.Role)
	}

	// A direct store mutation is invisible until the projection expires.
	role := RoleOwner
	if _, err := store.Update(context.Background(), user.ID, UserUpdate{Role: &role}); err != nil {
		t.Fatalf("store update failed: %v", err)
	}

	res, err = gw.AuthorizeRoles(context.Background(), sess, RoleStudent)
	if err != nil {
		t.Fatalf("authorize failed: %v", err)
	}
	if res.Role != RoleStudent {
		t.Fatalf("expected stale cached role, got %q", res.Role)
	}
}

func TestAuthorizeRolesInvalidateForcesRefetch(t *testing.T) {
	store := newTestStore()
	user := store.put(UserRecord{Email: "a@example.com", Role: RoleStudent})
	gw, _ := newRedisGateway(t, store, &fakeProvider{})

	sess := signTestSession(t, user.ID)

	if _, err := gw.AuthorizeRoles(context.Background(), sess, RoleStudent); err != nil {
		t.Fatalf("authorize failed: %v", err)
	}

	role := RoleAdmin
	if _, err := store.Update(context.Background(), user.ID, UserUpdate{Role: &role}); err != nil {
		t.Fatalf("store update failed: %v", err)
	}
	if ok := gw.InvalidateRole(context.Background(), user.ID); !ok {
		t.Fatal("invalidate must succeed with a live backend")
	}

	res, err := gw.AuthorizeRoles(context.Background(), sess, RoleOwner, RoleAdmin)
	if err != nil {
		t.Fatalf("authorize after invalidation failed: %v", err)
	}
	if res.Role != RoleAdmin {
		t.Fatalf("expected refreshed role admin, got %q", res.Role)
	}
}

func TestAuthorizeRolesInsufficientRoleForbidden(t *testing.T) {
	store := newTestStore()
	user := store.put(UserRecord{Email: "a@example.com", Role: RoleStudent})
	gw := newFlowGateway(t, store, &fakeProvider{}, nil)

	_, err := gw.AuthorizeRoles(context.Background(), signTestSession(t, user.ID), RoleOwner, RoleAdmin)
	if !errors.Is(err, ErrForbiddenRole) {
		t.Fatalf("expected ErrForbiddenRole, got %v", err)
	}
	if KindOf(err) != KindForbidden {
		t.Fatalf("expected forbidden kind, got %v", KindOf(err))
	}
}

func TestAuthorizeRolesStoreFailureIsNotForbidden(t *testing.T) {
	store := newTestStore()
	user := store.put(UserRecord{Email: "a@example.com", Role: RoleOwner})
	gw := newFlowGateway(t, store, &fakeProvider{}, nil)

	store.findErr = errors.New("store unavailable")

	_, err := gw.AuthorizeRoles(context.Background(), signTestSession(t, user.ID), RoleOwner)
	if !errors.Is(err, ErrRoleUnavailable) {
		t.Fatalf("expected ErrRoleUnavailable, got %v", err)
	}
	if errors.Is(err, ErrForbiddenRole) {
		t.Fatal("a lookup failure must stay distinguishable from forbidden")
	}
	if KindOf(err) != KindInternal {
		t.Fatalf("expected internal kind, got %v", KindOf(err))
	}
}

func TestAuthorizeRolesCacheDownFallsBackToStore(t *testing.T) {
	store := newTestStore()
	user := store.put(UserRecord{Email: "a@example.com", Role: RoleOwner})
	gw, mr := newRedisGateway(t, store, &fakeProvider{})

	mr.Close()

	res, err := gw.AuthorizeRoles(context.Background(), signTestSession(t, user.ID), RoleOwner)
	if err != nil {
		t.Fatalf("cache outage must not break authorization: %v", err)
	}
	if res.Role != RoleOwner {
		t.Fatalf("expected role from store, got %q", res.Role)
	}
}

func TestAuthorizeRolesNoRequiredRolesSkipsLookup(t *testing.T) {
	store := newTestStore()
	user := store.put(UserRecord{Email: "a@example.com", Role: RoleStudent})
	gw := newFlowGateway(t, store, &fakeProvider{}, nil)

	store.findErr = errors.New("store unavailable")

	res, err := gw.AuthorizeRoles(context.Background(), signTestSession(t, user.ID))
	if err != nil {
		t.Fatalf("authentication-only path must not hit the store: %v", err)
	}
	if res.UserID != user.ID {
		t.Fatalf("expected subject %q, got %q", user.ID, res.UserID)
	}
	if res.Role != "" {
		t.Fatal("no role may be resolved without a required set")
	}
}

func TestAuthenticateExpiredToken(t *testing.T) {
	gw := newFlowGateway(t, newTestStore(), &fakeProvider{}, nil)

	codec := token.NewCodec(token.Config{Secret: []byte("flow-test-secret"), SessionTTL: time.Millisecond})
	sess, err := codec.SignSession("u1")
	if err != nil {
		t.Fatalf("sign session: %v", err)
	}
	time.Sleep(20 * time.Millisecond)

	_, err = gw.Authenticate(context.Background(), sess)
	if !errors.Is(err, token.ErrTokenExpired) {
		t.Fatalf("expected expired token error, got %v", err)
	}

	var expired *token.ExpiredError
	if !errors.As(err, &expired) {
		t.Fatalf("expected expiry timestamp on error, got %v", err)
	}
	if expired.ExpiredAt.IsZero() {
		t.Fatal("expiry timestamp must be populated")
	}
}

func TestAuthenticateTamperedToken(t *testing.T) {
	gw := newFlowGateway(t, newTestStore(), &fakeProvider{}, nil)

	codec := token.NewCodec(token.Config{Secret: []byte("some-other-secret")})
	sess, err := codec.SignSession("u1")
	if err != nil {
		t.Fatalf("sign session: %v", err)
	}

	_, err = gw.Authenticate(context.Background(), sess)
	if !errors.Is(err, token.ErrTokenInvalid) {
		t.Fatalf("expected invalid token error, got %v", err)
	}
	if errors.Is(err, token.ErrTokenExpired) {
		t.Fatal("a bad signature must not read as expiry")
	}
}

func TestAuthenticateRejectsStateTokenAsSession(t *testing.T) {
	gw := newFlowGateway(t, newTestStore(), &fakeProvider{}, nil)

	// Same secret signs both token kinds, so a state token parses as a
	// session token with an empty subject. It must read as invalid, not as
	// an authenticated subject with an empty id.
	codec := token.NewCodec(token.Config{Secret: []byte("flow-test-secret")})
	state, err := codec.SignState("nonce-1", "https://app.example/cb")
	if err != nil {
		t.Fatalf("sign state: %v", err)
	}

	_, err = gw.Authenticate(context.Background(), state)
	if !errors.Is(err, token.ErrTokenInvalid) {
		t.Fatalf("expected invalid token error, got %v", err)
	}
	if KindOf(err) != KindUnauthorized {
		t.Fatalf("expected unauthorized kind, got %v", KindOf(err))
	}

	if _, err := gw.AuthorizeRoles(context.Background(), state, RoleOwner); !errors.Is(err, token.ErrTokenInvalid) {
		t.Fatalf("role gate must reject a state token, got %v", err)
	}
}

func TestPrimeRoleCacheServesWithoutStore(t *testing.T) {
	store := newTestStore()
	user := store.put(UserRecord{Email: "a@example.com", Role: RoleAdmin})
	gw, _ := newRedisGateway(t, store, &fakeProvider{})

	if ok := gw.PrimeRoleCache(context.Background(), user.ID, RoleAdmin); !ok {
		t.Fatal("priming must succeed with a live backend")
	}

	// The primed projection must satisfy the gate without a store read.
	store.findErr = errors.New("store unavailable")

	res, err := gw.AuthorizeRoles(context.Background(), signTestSession(t, user.ID), RoleAdmin)
	if err != nil {
		t.Fatalf("authorize failed: %v", err)
	}
	if res.Role != RoleAdmin {
		t.Fatalf("expected primed role admin, got %q", res.Role)
	}
}

func TestRoleCacheKeyShape(t *testing.T) {
	store := newTestStore()
	user := store.put(UserRecord{Email: "a@example.com", Role: RoleStudent})
	gw, mr := newRedisGateway(t, store, &fakeProvider{})

	if _, err := gw.AuthorizeRoles(context.Background(), signTestSession(t, user.ID), RoleStudent); err != nil {
		t.Fatalf("authorize failed: %v", err)
	}

	key := "authgate:" + cache.UserProfileKey(user.ID)
	if !mr.Exists(key) {
		t.Fatalf("expected projection under %q, keys: %v", key, mr.Keys())
	}

	ttl := mr.TTL(key)
	if ttl <= 0 || ttl > time.Minute {
		t.Fatalf("expected role TTL within (0, 60s], got %v", ttl)
	}
}

func TestCheckOwnData(t *testing.T) {
	if err := CheckOwnData(AuthResult{}, "u1"); !errors.Is(err, ErrNoBearerToken) {
		t.Fatalf("empty subject must be rejected, got %v", err)
	}
	if err := CheckOwnData(AuthResult{UserID: "u1"}, "u2"); !errors.Is(err, ErrOwnDataOnly) {
		t.Fatalf("expected ErrOwnDataOnly, got %v", err)
	}
	if err := CheckOwnData(AuthResult{UserID: "u1"}, "u1"); err != nil {
		t.Fatalf("owner access must pass, got %v", err)
	}
}
