package jwt

import (
	"context"
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

var (
	ErrInvalidSigningMethod = errors.New("invalid JWT signing method")
	ErrSigningKeyTooShort   = errors.New("HS512 signing key must be at least 64 bytes (512 bits)")
	ErrTokenExpired         = errors.New("JWT token has expired")
	ErrInvalidToken         = errors.New("invalid token")
	ErrMissingRole          = errors.New("token carries no role id")
)

// JWT issues and verifies role scoped tokens.
type JWT interface {
	Generate(sub Principal) (string, error)
	Verify(tokenStr string) (Claims, error)
}

type clocker interface {
	Now() time.Time
}

type generator interface {
	Generate() string
}

type jwtContextKey struct{}

type Config struct {
	Secret    []byte
	Issuer    string
	Audiences []string
	TTL       time.Duration
	Clock     clocker
	UUID      generator
}

// Principal is the caller. A user holds one role id per
// role they act in, so the inbox and preferences are keyed by RoleID.
type Principal struct {
	UserID     string `json:"user_id"`
	IdentityID string `json:"identity_id"`
	Role       string `json:"role"`
	RoleID     string `json:"role_id"`
}

type Claims struct {
	jwt.RegisteredClaims
	Principal
}

func GetAuth(ctx context.Context) *Claims {
	clm, ok := ctx.Value(jwtContextKey{}).(Claims)
	if !ok {
		return nil
	}

	return &clm
}

func SetAuth(ctx context.Context, clm Claims) context.Context {
	return context.WithValue(ctx, jwtContextKey{}, clm)
}
