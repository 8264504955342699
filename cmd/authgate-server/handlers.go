package main

import (
	"encoding/json"
	"net/http"

	"github.com/gorilla/mux"

	authgate "github.com/MrEthical07/authgate"
	"github.com/MrEthical07/authgate/metrics/export/prometheus"
	"github.com/MrEthical07/authgate/middleware"
)

type userResponse struct {
	ID       string        `json:"id"`
	Email    string        `json:"email"`
	Name     string        `json:"name"`
	Picture  string        `json:"picture,omitempty"`
	Role     authgate.Role `json:"role"`
	GoogleID string        `json:"googleId,omitempty"`
}

func newRouter(gw *authgate.Gateway, store authgate.UserStore) *mux.Router {
	router := mux.NewRouter()

	router.HandleFunc("/auth/google", beginAuth(gw)).Methods(http.MethodGet)
	router.HandleFunc("/auth/google/callback", completeAuth(gw)).Methods(http.MethodGet)

	authed := middleware.Authenticated(gw)
	elevated := middleware.RequireRoles(gw, authgate.RoleOwner, authgate.RoleAdmin)

	router.Handle("/users/me", authed(currentUser(gw, store))).Methods(http.MethodGet)
	router.Handle("/users/{id}", authed(middleware.OwnData("id")(userByID(store)))).Methods(http.MethodGet)
	router.Handle("/users/{id}/role", elevated(changeRole(gw, store))).Methods(http.MethodPut)

	router.Handle("/metrics", prometheus.NewPrometheusExporter(gw).Handler()).Methods(http.MethodGet)
	router.HandleFunc("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
	}).Methods(http.MethodGet)

	return router
}

func beginAuth(gw *authgate.Gateway) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		authURL, err := gw.BeginAuth(r.Context(), r.URL.Query().Get("redirect_uri"))
		if err != nil {
			middleware.RespondError(w, err)
			return
		}
		http.Redirect(w, r, authURL, http.StatusFound)
	}
}

func completeAuth(gw *authgate.Gateway) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		redirect, err := gw.CompleteAuth(r.Context(), r.URL.Query().Get("code"), r.URL.Query().Get("state"))
		if err != nil {
			middleware.RespondError(w, err)
			return
		}
		http.Redirect(w, r, redirect.URL(), http.StatusFound)
	}
}

func currentUser(gw *authgate.Gateway, store authgate.UserStore) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		res, ok := middleware.AuthResultFromContext(r.Context())
		if !ok {
			middleware.RespondError(w, authgate.ErrNoBearerToken)
			return
		}

		user, err := store.FindByID(r.Context(), res.UserID)
		if err != nil {
			middleware.RespondError(w, err)
			return
		}

		// The record is already in hand, so the role projection can be
		// refreshed without a second store read.
		gw.PrimeRoleCache(r.Context(), user.ID, user.Role)
		writeUser(w, user)
	})
}

func userByID(store authgate.UserStore) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		user, err := store.FindByID(r.Context(), mux.Vars(r)["id"])
		if err != nil {
			middleware.RespondError(w, err)
			return
		}
		writeUser(w, user)
	})
}

func changeRole(gw *authgate.Gateway, store authgate.UserStore) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var body struct {
			Role authgate.Role `json:"role"`
		}
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil || !body.Role.Valid() {
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusBadRequest)
			_ = json.NewEncoder(w).Encode(map[string]any{"success": false, "message": "Invalid role"})
			return
		}

		id := mux.Vars(r)["id"]
		user, err := store.Update(r.Context(), id, authgate.UserUpdate{Role: &body.Role})
		if err != nil {
			middleware.RespondError(w, err)
			return
		}

		gw.InvalidateRole(r.Context(), id)
		writeUser(w, user)
	})
}

func writeUser(w http.ResponseWriter, user authgate.UserRecord) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(userResponse{
		ID:       user.ID,
		Email:    user.Email,
		Name:     user.Name,
		Picture:  user.Picture,
		Role:     user.Role,
		GoogleID: user.GoogleID,
	})
}
