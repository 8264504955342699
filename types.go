package authgate

import (
	"context"
	"time"
)

// Role represents a privilege tier in the user-record store.
//
// Role instances are intended to be configured during initialization and then treated as immutable unless documented otherwise.
type Role string

const (
	// RoleOwner is an exported constant or variable used by the gateway.
	RoleOwner Role = "owner"
	// RoleAdmin is an exported constant or variable used by the gateway.
	RoleAdmin Role = "admin"
	// RoleStudent is an exported constant or variable used by the gateway.
	RoleStudent Role = "student"
)

// Valid reports whether r is one of the known privilege tiers.
//
// Valid does not mutate shared global state and can be used concurrently when the receiver and dependencies are concurrently safe.
func (r Role) Valid() bool {
	switch r {
	case RoleOwner, RoleAdmin, RoleStudent:
		return true
	default:
		return false
	}
}

// In reports whether r is a member of the given role set.
//
// In does not mutate shared global state and can be used concurrently when the receiver and dependencies are concurrently safe.
func (r Role) In(roles ...Role) bool {
	for _, candidate := range roles {
		if r == candidate {
			return true
		}
	}
	return false
}

// UserRecord is the full account record returned by [UserStore]. The store
// remains the sole source of truth for Role; cached projections of it are
// TTL-bounded copies.
type UserRecord struct {
	ID        string
	Email     string
	Name      string
	Picture   string
	Role      Role
	GoogleID  string
	LastLogin time.Time
	CreatedAt time.Time
	UpdatedAt time.Time
}

// CreateUserInput carries the fields for [UserStore.Create].
//
// CreateUserInput instances are intended to be configured during initialization and then treated as immutable unless documented otherwise.
type CreateUserInput struct {
	Email    string
	Name     string
	Picture  string
	Role     Role
	GoogleID string
}

// UserUpdate is a partial update for [UserStore.Update]. Nil fields are left
// untouched; the store never overwrites a field to an empty value through
// this type unless the caller explicitly sets a pointer to one.
type UserUpdate struct {
	Name      *string
	Picture   *string
	GoogleID  *string
	Role      *Role
	LastLogin *time.Time
}

// UserStore is the interface callers must implement to integrate authgate
// with their user database. It is the authoritative source for roles; the
// gateway only ever reads it directly or through a TTL-bounded cache entry.
//
// FindByEmail and FindByID return [ErrUserNotFound] (possibly wrapped) when
// no record matches.
type UserStore interface {
	FindByEmail(ctx context.Context, email string) (UserRecord, error)
	FindByID(ctx context.Context, id string) (UserRecord, error)
	Create(ctx context.Context, input CreateUserInput) (UserRecord, error)
	Update(ctx context.Context, id string, update UserUpdate) (UserRecord, error)
	Count(ctx context.Context) (int64, error)
}

// Identity is the verified assertion returned by a [Provider] after a
// successful authorization-code exchange.
type Identity struct {
	Subject       string
	Email         string
	Name          string
	Picture       string
	EmailVerified bool
}

// Provider adapts one identity provider's authorization-code flow. The
// gateway treats it as an external collaborator: AuthCodeURL embeds the
// opaque signed state, Exchange trades the callback code for a verified
// identity assertion.
type Provider interface {
	AuthCodeURL(state string) string
	Exchange(ctx context.Context, code string) (Identity, error)
}

// AuthResult is returned by [Gateway.Authenticate] and
// [Gateway.AuthorizeRoles]. Role is populated only when a role restriction
// was resolved; it is the authoritative value, never a token claim.
type AuthResult struct {
	UserID string
	Role   Role
}

// AuthRedirect is the terminal result of a completed OAuth flow.
//
// AuthRedirect instances are intended to be configured during initialization and then treated as immutable unless documented otherwise.
type AuthRedirect struct {
	Target string
	Token  string
	State  string
}
