package provider

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"golang.org/x/oauth2"

	"github.com/MrEthical07/authgate"
)

const (
	googleAuthURL     = "https://accounts.google.com/o/oauth2/v2/auth"
	googleTokenURL    = "https://oauth2.googleapis.com/token"
	googleUserInfoURL = "https://openidconnect.googleapis.com/v1/userinfo"

	maxUserInfoBody = 1 << 20
)

// GoogleConfig defines a public type used by the provider adapters.
//
// GoogleConfig instances are intended to be configured during initialization and then treated as immutable unless documented otherwise.
type GoogleConfig struct {
	ClientID     string
	ClientSecret string
	// RedirectURI is the backend callback registered with Google, sent as
	// the redirect_uri parameter. It is distinct from the client redirect
	// target bound into the state token.
	RedirectURI string
	Scopes      []string

	// Endpoint and UserInfoURL override the Google endpoints. Zero values
	// select the real ones; tests point them at local servers.
	Endpoint    oauth2.Endpoint
	UserInfoURL string
}

// Google implements the gateway's Provider port for Google's OAuth2
// authorization-code flow.
//
// Google instances are intended to be configured during initialization and then treated as immutable unless documented otherwise.
type Google struct {
	oauth       oauth2.Config
	userInfoURL string
}

// NewGoogle describes the newgoogle operation and its observable behavior.
//
// NewGoogle does not mutate shared global state and can be used concurrently when the receiver and dependencies are concurrently safe.
func NewGoogle(cfg GoogleConfig) *Google {
	endpoint := cfg.Endpoint
	if endpoint.AuthURL == "" {
		endpoint.AuthURL = googleAuthURL
	}
	if endpoint.TokenURL == "" {
		endpoint.TokenURL = googleTokenURL
	}

	scopes := cfg.Scopes
	if len(scopes) == 0 {
		scopes = []string{"openid", "email", "profile"}
	}

	userInfoURL := cfg.UserInfoURL
	if userInfoURL == "" {
		userInfoURL = googleUserInfoURL
	}

	return &Google{
		oauth: oauth2.Config{
			ClientID:     cfg.ClientID,
			ClientSecret: cfg.ClientSecret,
			RedirectURL:  cfg.RedirectURI,
			Scopes:       scopes,
			Endpoint:     endpoint,
		},
		userInfoURL: userInfoURL,
	}
}

// AuthCodeURL builds the Google authorization URL carrying the opaque signed
// state, requesting offline access with an explicit consent prompt.
//
// AuthCodeURL does not mutate shared global state and can be used concurrently when the receiver and dependencies are concurrently safe.
func (g *Google) AuthCodeURL(state string) string {
	return g.oauth.AuthCodeURL(state,
		oauth2.AccessTypeOffline,
		oauth2.SetAuthURLParam("prompt", "consent"),
	)
}

// Exchange trades an authorization code for tokens and resolves the identity
// assertion from the userinfo endpoint.
//
// Exchange may return an error when input validation, dependency calls, or security checks fail.
func (g *Google) Exchange(ctx context.Context, code string) (authgate.Identity, error) {
	tok, err := g.oauth.Exchange(ctx, code)
	if err != nil {
		return authgate.Identity{}, fmt.Errorf("exchange authorization code: %w", err)
	}

	return g.fetchUserInfo(ctx, tok)
}

func (g *Google) fetchUserInfo(ctx context.Context, tok *oauth2.Token) (authgate.Identity, error) {
	client := g.oauth.Client(ctx, tok)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, g.userInfoURL, nil)
	if err != nil {
		return authgate.Identity{}, fmt.Errorf("build userinfo request: %w", err)
	}

	resp, err := client.Do(req)
	if err != nil {
		return authgate.Identity{}, fmt.Errorf("fetch userinfo: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxUserInfoBody))
	if err != nil {
		return authgate.Identity{}, fmt.Errorf("read userinfo response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return authgate.Identity{}, fmt.Errorf("userinfo returned %d: %s", resp.StatusCode, body)
	}

	var payload struct {
		Sub           string `json:"sub"`
		Email         string `json:"email"`
		Name          string `json:"name"`
		Picture       string `json:"picture"`
		EmailVerified bool   `json:"email_verified"`
	}
	if err := json.Unmarshal(body, &payload); err != nil {
		return authgate.Identity{}, fmt.Errorf("decode userinfo response: %w", err)
	}
	if payload.Sub == "" || payload.Email == "" {
		return authgate.Identity{}, fmt.Errorf("userinfo response missing subject or email")
	}

	return authgate.Identity{
		Subject:       payload.Sub,
		Email:         payload.Email,
		Name:          payload.Name,
		Picture:       payload.Picture,
		EmailVerified: payload.EmailVerified,
	}, nil
}
