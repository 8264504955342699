package middleware

import (
	"encoding/json"
	"errors"
	"net/http"

	authgate "github.com/MrEthical07/authgate"
)

type errorEnvelope struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}

// RespondError writes a JSON error envelope with the HTTP status derived from
// the error's classification. Wrapped detail beyond the sentinel message is
// not exposed to the client.
func RespondError(w http.ResponseWriter, err error) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(authgate.HTTPStatus(err))
	_ = json.NewEncoder(w).Encode(errorEnvelope{Success: false, Message: clientMessage(err)})
}

func clientMessage(err error) string {
	if err == nil {
		return "Internal server error"
	}

	for _, sentinel := range []error{
		authgate.ErrNoBearerToken,
		authgate.ErrForbiddenRole,
		authgate.ErrOwnDataOnly,
		authgate.ErrInvalidRedirect,
		authgate.ErrMissingCode,
		authgate.ErrMissingState,
		authgate.ErrInvalidState,
		authgate.ErrStatePayload,
		authgate.ErrExchangeFailed,
		authgate.ErrEmailNotVerified,
		authgate.ErrUserNotFound,
	} {
		if errors.Is(err, sentinel) {
			return sentinel.Error()
		}
	}

	switch authgate.KindOf(err) {
	case authgate.KindUnauthorized:
		return "Unauthorized"
	case authgate.KindForbidden:
		return "Forbidden"
	case authgate.KindBadRequest:
		return "Bad request"
	case authgate.KindNotFound:
		return "Not found"
	default:
		return "Internal server error"
	}
}
