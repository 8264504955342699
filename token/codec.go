package token

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// ErrTokenInvalid is an exported constant or variable used by the token codec.
var ErrTokenInvalid = errors.New("invalid token")

// ErrTokenExpired is an exported constant or variable used by the token codec.
// Verification failures caused by expiry match it via errors.Is; the concrete
// [*ExpiredError] carries the original expiry timestamp for errors.As.
var ErrTokenExpired = errors.New("token expired")

// ErrSecretMissing is an exported constant or variable used by the token codec.
// It marks a configuration error: the operation fails, the process does not.
var ErrSecretMissing = errors.New("signing secret not configured")

// ExpiredError reports a token rejected because it is past expiry.
//
// ExpiredError instances are intended to be configured during initialization and then treated as immutable unless documented otherwise.
type ExpiredError struct {
	ExpiredAt time.Time
}

func (e *ExpiredError) Error() string {
	return fmt.Sprintf("token expired at %s", e.ExpiredAt.Format(time.RFC3339))
}

// Is reports that an ExpiredError matches [ErrTokenExpired].
func (e *ExpiredError) Is(target error) bool {
	return target == ErrTokenExpired
}

// Config defines a public type used by the token codec.
//
// Config instances are intended to be configured during initialization and then treated as immutable unless documented otherwise.
type Config struct {
	Secret []byte
	Issuer string
	// SessionTTL bounds session tokens; defaults to one hour.
	SessionTTL time.Duration
	// StateTTL bounds OAuth state tokens; defaults to ten minutes. State
	// tokens must stay short-lived to bound the flow replay window.
	StateTTL time.Duration
	Leeway   time.Duration
}

// Codec defines a public type used by the token codec.
//
// Codec instances are intended to be configured during initialization and then treated as immutable unless documented otherwise.
type Codec struct {
	config Config
}

// StateClaims binds a single-use nonce to the client redirect target for the
// duration of one OAuth flow.
type StateClaims struct {
	Nonce          string `json:"nonce"`
	RedirectTarget string `json:"redirect_uri"`
	jwt.RegisteredClaims
}

// SessionClaims identifies an authenticated subject. It deliberately carries
// no role: roles are resolved from the user store on every gated request.
type SessionClaims struct {
	UserID string `json:"userId"`
	jwt.RegisteredClaims
}

// NewCodec describes the newcodec operation and its observable behavior.
//
// NewCodec does not mutate shared global state and can be used concurrently when the receiver and dependencies are concurrently safe.
func NewCodec(cfg Config) *Codec {
	if cfg.SessionTTL <= 0 {
		cfg.SessionTTL = time.Hour
	}
	if cfg.StateTTL <= 0 {
		cfg.StateTTL = 10 * time.Minute
	}
	return &Codec{config: cfg}
}

// SignState describes the signstate operation and its observable behavior.
//
// SignState may return an error when input validation, dependency calls, or security checks fail.
// SignState does not mutate shared global state and can be used concurrently when the receiver and dependencies are concurrently safe.
func (c *Codec) SignState(nonce, redirectTarget string) (string, error) {
	claims := StateClaims{
		Nonce:            nonce,
		RedirectTarget:   redirectTarget,
		RegisteredClaims: c.registered(c.config.StateTTL),
	}
	return c.sign(claims)
}

// SignSession describes the signsession operation and its observable behavior.
//
// SignSession may return an error when input validation, dependency calls, or security checks fail.
// SignSession does not mutate shared global state and can be used concurrently when the receiver and dependencies are concurrently safe.
func (c *Codec) SignSession(userID string) (string, error) {
	claims := SessionClaims{
		UserID:           userID,
		RegisteredClaims: c.registered(c.config.SessionTTL),
	}
	return c.sign(claims)
}

// VerifyState describes the verifystate operation and its observable behavior.
//
// VerifyState may return an error when input validation, dependency calls, or security checks fail.
// VerifyState does not mutate shared global state and can be used concurrently when the receiver and dependencies are concurrently safe.
func (c *Codec) VerifyState(tokenStr string) (*StateClaims, error) {
	claims := &StateClaims{}
	if err := c.verify(tokenStr, claims); err != nil {
		return nil, err
	}
	return claims, nil
}

// VerifySession describes the verifysession operation and its observable behavior.
//
// VerifySession may return an error when input validation, dependency calls, or security checks fail.
// VerifySession does not mutate shared global state and can be used concurrently when the receiver and dependencies are concurrently safe.
func (c *Codec) VerifySession(tokenStr string) (*SessionClaims, error) {
	claims := &SessionClaims{}
	if err := c.verify(tokenStr, claims); err != nil {
		return nil, err
	}
	return claims, nil
}

func (c *Codec) registered(ttl time.Duration) jwt.RegisteredClaims {
	now := time.Now()
	claims := jwt.RegisteredClaims{
		ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		IssuedAt:  jwt.NewNumericDate(now),
	}
	if c.config.Issuer != "" {
		claims.Issuer = c.config.Issuer
	}
	return claims
}

func (c *Codec) sign(claims jwt.Claims) (string, error) {
	if len(c.config.Secret) == 0 {
		return "", ErrSecretMissing
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(c.config.Secret)
}

func (c *Codec) verify(tokenStr string, claims jwt.Claims) error {
	if len(c.config.Secret) == 0 {
		return ErrSecretMissing
	}

	options := []jwt.ParserOption{
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
	}
	if c.config.Leeway > 0 {
		options = append(options, jwt.WithLeeway(c.config.Leeway))
	}
	if c.config.Issuer != "" {
		options = append(options, jwt.WithIssuer(c.config.Issuer))
	}

	parser := jwt.NewParser(options...)
	parsed, err := parser.ParseWithClaims(tokenStr, claims, func(t *jwt.Token) (interface{}, error) {
		return c.config.Secret, nil
	})
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return &ExpiredError{ExpiredAt: expiryOf(claims)}
		}
		return fmt.Errorf("%w: %v", ErrTokenInvalid, err)
	}
	if !parsed.Valid {
		return ErrTokenInvalid
	}
	return nil
}

// expiryOf pulls the expiry out of claims that were decoded before the
// validation step rejected them. golang-jwt populates claims even on expiry
// failures, so a zero time here means the token was also malformed.
func expiryOf(claims jwt.Claims) time.Time {
	exp, err := claims.GetExpirationTime()
	if err != nil || exp == nil {
		return time.Time{}
	}
	return exp.Time
}
