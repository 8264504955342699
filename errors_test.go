package authgate

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/MrEthical07/authgate/token"
)

func TestKindOf(t *testing.T) {
	cases := []struct {
		name string
		err  error
		want Kind
	}{
		{"missing code", ErrMissingCode, KindBadRequest},
		{"missing state", ErrMissingState, KindBadRequest},
		{"invalid state", ErrInvalidState, KindBadRequest},
		{"state payload", ErrStatePayload, KindBadRequest},
		{"invalid redirect", ErrInvalidRedirect, KindBadRequest},
		{"exchange failed", ErrExchangeFailed, KindBadRequest},
		{"email not verified", ErrEmailNotVerified, KindBadRequest},
		{"no bearer token", ErrNoBearerToken, KindUnauthorized},
		{"token expired", token.ErrTokenExpired, KindUnauthorized},
		{"token invalid", token.ErrTokenInvalid, KindUnauthorized},
		{"forbidden role", ErrForbiddenRole, KindForbidden},
		{"own data only", ErrOwnDataOnly, KindForbidden},
		{"user not found", ErrUserNotFound, KindNotFound},
		{"role unavailable", ErrRoleUnavailable, KindInternal},
		{"unknown", errors.New("disk on fire"), KindInternal},
		{"nil", nil, KindInternal},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := KindOf(tc.err); got != tc.want {
				t.Fatalf("KindOf(%v) = %v, want %v", tc.err, got, tc.want)
			}
		})
	}
}

func TestKindOfSeesThroughWrapping(t *testing.T) {
	wrapped := fmt.Errorf("%w: signature mismatch", ErrInvalidState)
	if got := KindOf(wrapped); got != KindBadRequest {
		t.Fatalf("wrapped sentinel must classify, got %v", got)
	}

	// A store failure wrapped in ErrRoleUnavailable stays internal even
	// though the inner error is a not-found.
	lookup := fmt.Errorf("%w: %v", ErrRoleUnavailable, ErrUserNotFound)
	if got := KindOf(lookup); got != KindInternal {
		t.Fatalf("role lookup failure must stay internal, got %v", got)
	}
}

func TestHTTPStatus(t *testing.T) {
	cases := []struct {
		err  error
		want int
	}{
		{ErrMissingCode, http.StatusBadRequest},
		{ErrNoBearerToken, http.StatusUnauthorized},
		{token.ErrTokenExpired, http.StatusUnauthorized},
		{ErrForbiddenRole, http.StatusForbidden},
		{ErrOwnDataOnly, http.StatusForbidden},
		{ErrUserNotFound, http.StatusNotFound},
		{ErrRoleUnavailable, http.StatusInternalServerError},
		{errors.New("unknown"), http.StatusInternalServerError},
	}

	for _, tc := range cases {
		if got := HTTPStatus(tc.err); got != tc.want {
			t.Fatalf("HTTPStatus(%v) = %d, want %d", tc.err, got, tc.want)
		}
	}
}

func TestExpiredErrorMatchesSentinel(t *testing.T) {
	expired := &token.ExpiredError{}
	if !errors.Is(expired, token.ErrTokenExpired) {
		t.Fatal("ExpiredError must match the expiry sentinel")
	}
	if KindOf(expired) != KindUnauthorized {
		t.Fatalf("expected unauthorized kind, got %v", KindOf(expired))
	}
}
