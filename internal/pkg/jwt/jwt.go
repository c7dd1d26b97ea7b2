package jwt

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

var (
	// ErrInvalidSigningMethod is returned when the token is not HS512.
	ErrInvalidSigningMethod = errors.New("invalid JWT signing method")

	// ErrSigningKeyTooShort is returned when the HS512 key is under 64 bytes.
	ErrSigningKeyTooShort = errors.New("HS512 signing key must be at least 64 bytes (512 bits)")

	// ErrTokenExpired is returned when the token is past its expiry.
	ErrTokenExpired = errors.New("JWT token has expired")

	// ErrInvalidToken is returned for malformed tokens, bad signatures and purpose mismatches.
	ErrInvalidToken = errors.New("invalid token")
)

// JWT mints and checks purpose-scoped tokens.
type JWT interface {
	Generate(subject, purpose string) (string, Claims, error)
	Verify(token, purpose string) (Claims, error)
}

type clocker interface {
	Now() time.Time
}

type generator interface {
	Generate() string
}

// Config defines the inputs for building a JWT implementation.
type Config struct {
	Secret    []byte
	Issuer    string
	Audiences []string
	TTL       time.Duration
	Clock     clocker
	// ID produces the jti of each token.
	ID generator
}

// Claims are the registered claims plus the purpose the token was minted for.
type Claims struct {
	jwt.RegisteredClaims
	Purpose string `json:"purpose"`
}
