package authgate

import (
	"errors"
	"net/http"

	"github.com/MrEthical07/authgate/token"
)

var (
	// ErrInvalidRedirect is an exported constant or variable used by the gateway.
	ErrInvalidRedirect = errors.New("Invalid redirect_uri")
	// ErrMissingCode is an exported constant or variable used by the gateway.
	ErrMissingCode = errors.New("Missing authorization code")
	// ErrMissingState is an exported constant or variable used by the gateway.
	ErrMissingState = errors.New("Missing state")
	// ErrInvalidState is an exported constant or variable used by the gateway.
	ErrInvalidState = errors.New("Invalid or expired state")
	// ErrStatePayload is an exported constant or variable used by the gateway.
	ErrStatePayload = errors.New("Invalid state payload")
	// ErrExchangeFailed is an exported constant or variable used by the gateway.
	ErrExchangeFailed = errors.New("Failed to exchange authorization code for tokens")
	// ErrEmailNotVerified is an exported constant or variable used by the gateway.
	ErrEmailNotVerified = errors.New("Google email not verified")
	// ErrNoBearerToken is an exported constant or variable used by the gateway.
	ErrNoBearerToken = errors.New("No bearer token provided")
	// ErrForbiddenRole is an exported constant or variable used by the gateway.
	ErrForbiddenRole = errors.New("Forbidden: insufficient role")
	// ErrOwnDataOnly is an exported constant or variable used by the gateway.
	ErrOwnDataOnly = errors.New("Access denied. You can only access your own data.")
	// ErrUserNotFound is an exported constant or variable used by the gateway.
	ErrUserNotFound = errors.New("user not found")
	// ErrRoleUnavailable is an exported constant or variable used by the gateway.
	ErrRoleUnavailable = errors.New("authoritative role lookup failed")
	// ErrGatewayNotReady is an exported constant or variable used by the gateway.
	ErrGatewayNotReady = errors.New("gateway not initialized")
)

// Kind classifies gateway errors into the stable status classes the HTTP
// layer presents to callers.
//
// Kind instances are intended to be configured during initialization and then treated as immutable unless documented otherwise.
type Kind uint8

const (
	// KindInternal is an exported constant or variable used by the gateway.
	KindInternal Kind = iota
	// KindBadRequest is an exported constant or variable used by the gateway.
	KindBadRequest
	// KindUnauthorized is an exported constant or variable used by the gateway.
	KindUnauthorized
	// KindForbidden is an exported constant or variable used by the gateway.
	KindForbidden
	// KindNotFound is an exported constant or variable used by the gateway.
	KindNotFound
)

// KindOf maps an error returned by any Gateway operation to its taxonomy
// class. Unknown errors classify as KindInternal so that collaborator
// failures never leak as client faults.
//
// KindOf does not mutate shared global state and can be used concurrently when the receiver and dependencies are concurrently safe.
func KindOf(err error) Kind {
	switch {
	case err == nil:
		return KindInternal
	case errors.Is(err, ErrMissingCode),
		errors.Is(err, ErrMissingState),
		errors.Is(err, ErrInvalidState),
		errors.Is(err, ErrStatePayload),
		errors.Is(err, ErrInvalidRedirect),
		errors.Is(err, ErrExchangeFailed),
		errors.Is(err, ErrEmailNotVerified):
		return KindBadRequest
	case errors.Is(err, ErrNoBearerToken),
		errors.Is(err, token.ErrTokenExpired),
		errors.Is(err, token.ErrTokenInvalid):
		return KindUnauthorized
	case errors.Is(err, ErrForbiddenRole),
		errors.Is(err, ErrOwnDataOnly):
		return KindForbidden
	case errors.Is(err, ErrUserNotFound):
		return KindNotFound
	default:
		return KindInternal
	}
}

// HTTPStatus returns the HTTP status code for an error's taxonomy class.
//
// HTTPStatus does not mutate shared global state and can be used concurrently when the receiver and dependencies are concurrently safe.
func HTTPStatus(err error) int {
	switch KindOf(err) {
	case KindBadRequest:
		return http.StatusBadRequest
	case KindUnauthorized:
		return http.StatusUnauthorized
	case KindForbidden:
		return http.StatusForbidden
	case KindNotFound:
		return http.StatusNotFound
	default:
		return http.StatusInternalServerError
	}
}
