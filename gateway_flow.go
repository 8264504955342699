package authgate

import (
	"context"
	"fmt"
	"net/url"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// BeginAuth starts the authorization-code flow. It validates the desired
// redirect target against the configured allow-list, binds a fresh nonce and
// the target into a signed short-lived state token, and returns the provider
// authorization URL the user agent must be redirected to.
//
// An empty redirectTarget falls back to the configured default. When a
// non-empty allow-list is configured the target must exactly match an entry;
// otherwise the flow is rejected with [ErrInvalidRedirect] before any token
// is generated.
//
// BeginAuth may return an error when input validation, dependency calls, or security checks fail.
func (g *Gateway) BeginAuth(ctx context.Context, redirectTarget string) (string, error) {
	target := redirectTarget
	if target == "" {
		target = g.config.Redirect.DefaultTarget
	}

	if len(g.config.Redirect.AllowList) > 0 && !contains(g.config.Redirect.AllowList, target) {
		g.logger.Warn("rejected client redirect target", zap.String("redirect_uri", target))
		g.metrics.Inc(MetricFlowRejected)
		return "", ErrInvalidRedirect
	}

	nonce := uuid.NewString()
	state, err := g.codec.SignState(nonce, target)
	if err != nil {
		return "", fmt.Errorf("sign state token: %w", err)
	}

	g.logger.Debug("signed state token for oauth flow", zap.String("nonce", nonce))
	g.metrics.Inc(MetricFlowInitiated)
	return g.provider.AuthCodeURL(state), nil
}

// CompleteAuth finishes the authorization-code flow from the provider
// callback: it validates code and state, exchanges the code for a verified
// identity assertion, resolves or creates the local user record, and issues
// a session token.
//
// The session token carries only the local user identifier. The role is
// never embedded; it is re-derived authoritatively on every gated request.
//
// CompleteAuth may return an error when input validation, dependency calls, or security checks fail.
func (g *Gateway) CompleteAuth(ctx context.Context, code, state string) (AuthRedirect, error) {
	if code == "" {
		g.metrics.Inc(MetricFlowRejected)
		return AuthRedirect{}, ErrMissingCode
	}
	if state == "" {
		g.metrics.Inc(MetricFlowRejected)
		return AuthRedirect{}, ErrMissingState
	}

	claims, err := g.codec.VerifyState(state)
	if err != nil {
		g.logger.Warn("invalid or expired state token", zap.Error(err))
		g.metrics.Inc(MetricFlowRejected)
		return AuthRedirect{}, fmt.Errorf("%w: %v", ErrInvalidState, err)
	}
	if claims.RedirectTarget == "" {
		g.metrics.Inc(MetricFlowRejected)
		return AuthRedirect{}, ErrStatePayload
	}

	identity, err := g.provider.Exchange(ctx, code)
	if err != nil {
		g.logger.Warn("authorization code exchange failed", zap.Error(err))
		g.metrics.Inc(MetricFlowRejected)
		return AuthRedirect{}, fmt.Errorf("%w: %v", ErrExchangeFailed, err)
	}

	if !identity.EmailVerified {
		g.metrics.Inc(MetricFlowRejected)
		return AuthRedirect{}, ErrEmailNotVerified
	}

	user, err := g.resolveUser(ctx, identity)
	if err != nil {
		g.metrics.Inc(MetricFlowRejected)
		return AuthRedirect{}, err
	}

	sessionToken, err := g.codec.SignSession(user.ID)
	if err != nil {
		g.metrics.Inc(MetricFlowRejected)
		return AuthRedirect{}, fmt.Errorf("sign session token: %w", err)
	}

	g.touchLastLogin(ctx, user.ID)

	g.logger.Info("oauth flow completed, issuing session token", zap.String("user_id", user.ID))
	g.metrics.Inc(MetricFlowCompleted)
	return AuthRedirect{
		Target: claims.RedirectTarget,
		Token:  sessionToken,
		State:  state,
	}, nil
}

// resolveUser looks up the local record for a verified identity, creating or
// backfilling it as needed. The very first user ever created is granted the
// highest privilege tier; every later new user gets the default tier.
func (g *Gateway) resolveUser(ctx context.Context, identity Identity) (UserRecord, error) {
	user, err := g.store.FindByEmail(ctx, identity.Email)
	if err == nil {
		return g.linkIdentity(ctx, user, identity)
	}
	if KindOf(err) != KindNotFound {
		return UserRecord{}, fmt.Errorf("find user by email: %w", err)
	}

	count, err := g.store.Count(ctx)
	if err != nil {
		return UserRecord{}, fmt.Errorf("count users: %w", err)
	}
	role := RoleStudent
	if count == 0 {
		role = RoleOwner
	}

	created, err := g.store.Create(ctx, CreateUserInput{
		Email:    identity.Email,
		Name:     identity.Name,
		Picture:  identity.Picture,
		Role:     role,
		GoogleID: identity.Subject,
	})
	if err != nil {
		return UserRecord{}, fmt.Errorf("create user: %w", err)
	}

	g.logger.Info("created new user via oauth",
		zap.String("user_id", created.ID),
		zap.String("role", string(role)))
	g.metrics.Inc(MetricUserCreated)
	return created, nil
}

// linkIdentity backfills the provider-linked identifier on an existing record
// and refreshes display name and avatar when the provider's values differ.
// Fields are never overwritten to an empty value.
func (g *Gateway) linkIdentity(ctx context.Context, user UserRecord, identity Identity) (UserRecord, error) {
	if user.GoogleID != "" {
		return user, nil
	}

	update := UserUpdate{GoogleID: &identity.Subject}
	if identity.Name != "" && identity.Name != user.Name {
		update.Name = &identity.Name
	}
	if identity.Picture != "" && identity.Picture != user.Picture {
		update.Picture = &identity.Picture
	}

	updated, err := g.store.Update(ctx, user.ID, update)
	if err != nil {
		return UserRecord{}, fmt.Errorf("link provider identity: %w", err)
	}

	g.metrics.Inc(MetricUserLinked)
	return updated, nil
}

// touchLastLogin is best-effort: a failed timestamp update never fails the
// flow.
func (g *Gateway) touchLastLogin(ctx context.Context, userID string) {
	now := time.Now()
	if _, err := g.store.Update(ctx, userID, UserUpdate{LastLogin: &now}); err != nil {
		g.logger.Warn("failed to update last login", zap.String("user_id", userID), zap.Error(err))
	}
}

// URL renders the client redirect with the session token in the URL fragment
// rather than the query string, so the token never reaches server logs, and
// echoes back the original opaque state value.
//
// URL does not mutate shared global state and can be used concurrently when the receiver and dependencies are concurrently safe.
func (r AuthRedirect) URL() string {
	return r.Target +
		"#access_token=" + url.QueryEscape(r.Token) +
		"&token_type=Bearer" +
		"&state=" + url.QueryEscape(r.State)
}

func contains(list []string, value string) bool {
	for _, entry := range list {
		if entry == value {
			return true
		}
	}
	return false
}
