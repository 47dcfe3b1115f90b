package auth

import (
	"context"
	"time"

	"github.com/frahmantamala/grievance-management/internal/core/identity"
	"github.com/frahmantamala/grievance-management/internal/core/role"
	"github.com/golang-jwt/jwt/v5"
)

const (
	TokenTypeAccess  = "access"
	TokenTypeRefresh = "refresh"

	issuer = "grievance-management"
)

// Credentials is what login needs from the account store.
type Credentials struct {
	AccountID    string
	PasswordHash string
	IsActive     bool
}

// Principal is an account as seen by the authentication layer. Role and
// unit are always read from the store, never trusted from a token.
type Principal struct {
	Identity *identity.Identity
	IsActive bool
}

// UserRepository returns internal.ErrAccountNotFound for unknown accounts.
type UserRepository interface {
	GetCredentials(ctx context.Context, email string) (*Credentials, error)
	GetPrincipal(ctx context.Context, accountID string) (*Principal, error)
}

type PasswordChecker interface {
	CheckPassword(hash, password string) error
}

// TokenGenerator creates and validates signed tokens.
type TokenGenerator interface {
	GenerateAccessToken(p *identity.Identity) (token string, claims *Claims, err error)
	GenerateRefreshToken(p *identity.Identity) (token string, claims *Claims, err error)
	ValidateAccessToken(tokenString string) (*Claims, error)
	ValidateRefreshToken(tokenString string) (*Claims, error)
}

// TokenBlacklist records revoked token ids until they expire.
type TokenBlacklist interface {
	Revoke(ctx context.Context, jti string, expiresAt time.Time) error
	IsRevoked(ctx context.Context, jti string) (bool, error)
}

type AuthTokens struct {
	AccessToken  string    `json:"access_token"`
	RefreshToken string    `json:"refresh_token"`
	TokenType    string    `json:"token_type"`
	ExpiresAt    time.Time `json:"expires_at"`
}

// Claims represents JWT token claims. RegisteredClaims.ID carries the jti
// used for revocation.
type Claims struct {
	UserID    string    `json:"user_id"`
	Email     string    `json:"email"`
	Role      role.Role `json:"role"`
	TokenType string    `json:"token_type"`
	jwt.RegisteredClaims
}
