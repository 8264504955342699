package authgate

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/MrEthical07/authgate/cache"
	"github.com/MrEthical07/authgate/token"
)

// roleProjection is the minimal cached copy of the authoritative record used
// by role checks. It is a TTL-bounded cache entry, never a source of truth.
type roleProjection struct {
	ID   string `json:"id"`
	Role Role   `json:"role"`
}

// Authenticate verifies a bearer session token and returns the authenticated
// subject. It performs no role resolution; use [Gateway.AuthorizeRoles] for
// routes that declare a required role set.
//
// Token expiry and invalidity are distinguishable via the token package
// errors, but both classify as KindUnauthorized.
//
// Authenticate may return an error when input validation, dependency calls, or security checks fail.
func (g *Gateway) Authenticate(ctx context.Context, sessionToken string) (AuthResult, error) {
	claims, err := g.codec.VerifySession(sessionToken)
	if err != nil {
		if errors.Is(err, token.ErrTokenExpired) {
			g.metrics.Inc(MetricAuthExpired)
		} else {
			g.metrics.Inc(MetricAuthInvalid)
		}
		return AuthResult{}, err
	}

	// State and session tokens share a signing secret. A state token decodes
	// with an empty subject, so an empty UserID marks a token of the wrong
	// kind and must be rejected here, not downstream.
	if claims.UserID == "" {
		g.metrics.Inc(MetricAuthInvalid)
		return AuthResult{}, fmt.Errorf("%w: missing subject", token.ErrTokenInvalid)
	}

	g.metrics.Inc(MetricAuthSuccess)
	return AuthResult{UserID: claims.UserID}, nil
}

// AuthorizeRoles authenticates the bearer token and then resolves the
// caller's authoritative role, requiring membership in the given set.
//
// The role is read through the cache's get-or-populate pattern: a cache hit
// serves the TTL-bounded projection, a miss (including any cache backend
// failure) falls back to the user store and repopulates. The role-set check
// itself is fail-closed: a missing or insufficient role denies access, and a
// store failure during resolution surfaces as an internal error rather than
// a forbidden.
//
// AuthorizeRoles may return an error when input validation, dependency calls, or security checks fail.
func (g *Gateway) AuthorizeRoles(ctx context.Context, sessionToken string, required ...Role) (AuthResult, error) {
	start := time.Now()
	result, err := g.Authenticate(ctx, sessionToken)
	if err != nil {
		return AuthResult{}, err
	}
	if len(required) == 0 {
		return result, nil
	}

	role, err := g.resolveRole(ctx, result.UserID)
	if err != nil {
		g.metrics.Inc(MetricRoleLookupFailure)
		g.logger.Error("failed to fetch authoritative role",
			zap.String("user_id", result.UserID), zap.Error(err))
		return AuthResult{}, fmt.Errorf("%w: %v", ErrRoleUnavailable, err)
	}

	g.metrics.Observe(MetricAuthorizeLatency, time.Since(start))

	if !role.In(required...) {
		g.logger.Warn("forbidden: insufficient role",
			zap.String("user_id", result.UserID),
			zap.String("actual", string(role)))
		g.metrics.Inc(MetricRoleForbidden)
		return AuthResult{}, ErrForbiddenRole
	}

	result.Role = role
	return result, nil
}

func (g *Gateway) resolveRole(ctx context.Context, userID string) (Role, error) {
	projection, hit, err := cache.GetOrSet(ctx, g.cache, cache.UserProfileKey(userID), g.config.Cache.RoleTTL,
		func(ctx context.Context) (roleProjection, error) {
			user, err := g.store.FindByID(ctx, userID)
			if err != nil {
				return roleProjection{}, err
			}
			return roleProjection{ID: user.ID, Role: user.Role}, nil
		})
	if err != nil {
		return "", err
	}

	if hit {
		g.metrics.Inc(MetricRoleCacheHit)
	} else {
		g.metrics.Inc(MetricRoleCacheMiss)
	}
	return projection.Role, nil
}

// InvalidateRole deletes the cached role projection for a subject. Call it
// after any role mutation. Best-effort and fire-and-forget: on failure the
// stale entry remains visible for at most its TTL, a bounded-staleness
// window the role-set check still runs against.
func (g *Gateway) InvalidateRole(ctx context.Context, userID string) bool {
	ok := g.cache.Delete(ctx, cache.UserProfileKey(userID))
	if ok {
		g.metrics.Inc(MetricRoleCacheInvalidated)
	} else {
		g.logger.Warn("failed to invalidate role cache", zap.String("user_id", userID))
	}
	return ok
}

// PrimeRoleCache stores a fresh role projection for a subject, bounded by the
// configured role TTL. Used by self-fetch handlers that already hold the
// authoritative record.
func (g *Gateway) PrimeRoleCache(ctx context.Context, userID string, role Role) bool {
	return cache.Set(ctx, g.cache, cache.UserProfileKey(userID),
		roleProjection{ID: userID, Role: role}, g.config.Cache.RoleTTL)
}

// CheckOwnData denies access when the authenticated subject is not the owner
// of the named resource. It assumes authentication already ran; an empty
// subject is rejected, not granted.
//
// CheckOwnData may return an error when input validation, dependency calls, or security checks fail.
func CheckOwnData(result AuthResult, resourceID string) error {
	if result.UserID == "" {
		return ErrNoBearerToken
	}
	if result.UserID != resourceID {
		return ErrOwnDataOnly
	}
	return nil
}
