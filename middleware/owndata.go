package middleware

import (
	"net/http"

	"github.com/gorilla/mux"

	authgate "github.com/MrEthical07/authgate"
)

// OwnData returns middleware that rejects the request unless the route
// variable named param equals the authenticated caller's user ID. It must run
// after [Authenticated] or [RequireRoles] so the result is already in the
// request context.
func OwnData(param string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			res, ok := AuthResultFromContext(r.Context())
			if !ok {
				RespondError(w, authgate.ErrNoBearerToken)
				return
			}

			if err := authgate.CheckOwnData(res, mux.Vars(r)[param]); err != nil {
				RespondError(w, err)
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}
