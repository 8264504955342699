package middleware

import (
	"context"
	"net/http"
	"strings"

	authgate "github.com/MrEthical07/authgate"
)

type authResultContextKey struct{}

// AuthResultFromContext returns the validated authentication result stored by
// [Authenticated] or [RequireRoles], or false when no guard ran upstream.
func AuthResultFromContext(ctx context.Context) (authgate.AuthResult, bool) {
	res, ok := ctx.Value(authResultContextKey{}).(authgate.AuthResult)
	return res, ok
}

// Authenticated returns middleware that verifies the bearer session token and
// injects the authentication result into the request context. No role lookup
// is performed.
//
// Authenticated does not mutate shared global state and can be used
// concurrently once constructed.
func Authenticated(gw *authgate.Gateway) func(http.Handler) http.Handler {
	return guard(gw)
}

// RequireRoles returns middleware that verifies the bearer session token and
// rejects the request unless the caller's authoritative role matches one of
// the listed roles. Role resolution may consult the cache but always falls
// back to the user store.
//
// RequireRoles does not mutate shared global state and can be used
// concurrently once constructed.
func RequireRoles(gw *authgate.Gateway, roles ...authgate.Role) func(http.Handler) http.Handler {
	return guard(gw, roles...)
}

func guard(gw *authgate.Gateway, roles ...authgate.Role) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if gw == nil {
				RespondError(w, authgate.ErrGatewayNotReady)
				return
			}

			token, ok := bearerToken(r.Header.Get("Authorization"))
			if !ok {
				RespondError(w, authgate.ErrNoBearerToken)
				return
			}

			res, err := gw.AuthorizeRoles(r.Context(), token, roles...)
			if err != nil {
				RespondError(w, err)
				return
			}

			ctx := context.WithValue(r.Context(), authResultContextKey{}, res)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

func bearerToken(value string) (string, bool) {
	const bearer = "Bearer "
	if !strings.HasPrefix(value, bearer) {
		return "", false
	}

	token := value[len(bearer):]
	if token == "" {
		return "", false
	}

	return token, true
}
