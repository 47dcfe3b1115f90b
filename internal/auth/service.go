package auth

import (
	"context"
	"errors"
	"log/slog"

	"github.com/frahmantamala/grievance-management/internal"
	"github.com/frahmantamala/grievance-management/internal/account"
	"github.com/frahmantamala/grievance-management/internal/core/identity"
)

// Service is the main auth service with dependencies
type Service struct {
	users     UserRepository
	passwords PasswordChecker
	tokens    TokenGenerator
	blacklist TokenBlacklist
	logger    *slog.Logger
}

// NewService creates a new auth service
func NewService(users UserRepository, passwords PasswordChecker, tokens TokenGenerator, blacklist TokenBlacklist, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	if blacklist == nil {
		blacklist = NewMemoryBlacklist()
	}
	return &Service{
		users:     users,
		passwords: passwords,
		tokens:    tokens,
		blacklist: blacklist,
		logger:    logger,
	}
}

// Authenticate validates credentials and returns tokens. Unknown emails and
// wrong passwords are indistinguishable to the caller.
func (s *Service) Authenticate(ctx context.Context, dto LoginDTO) (AuthTokens, error) {
	if err := dto.Validate(); err != nil {
		return AuthTokens{}, err
	}

	creds, err := s.users.GetCredentials(ctx, account.NormalizeEmail(dto.Email))
	if err != nil {
		if errors.Is(err, internal.ErrAccountNotFound) {
			return AuthTokens{}, internal.ErrInvalidCredentials
		}
		return AuthTokens{}, err
	}

	if err := s.passwords.CheckPassword(creds.PasswordHash, dto.Password); err != nil {
		s.logger.Warn("login failed", "account_id", creds.AccountID)
		return AuthTokens{}, internal.ErrInvalidCredentials
	}
	if !creds.IsActive {
		return AuthTokens{}, internal.ErrUserInactive
	}

	p, err := s.principal(ctx, creds.AccountID)
	if err != nil {
		return AuthTokens{}, err
	}

	s.logger.Info("login succeeded", "account_id", p.ID)
	return s.issue(p)
}

// RefreshTokens exchanges a refresh token for a new pair. The presented
// refresh token is revoked so it cannot be replayed.
func (s *Service) RefreshTokens(ctx context.Context, refreshToken string) (AuthTokens, error) {
	if err := (RefreshTokenDTO{RefreshToken: refreshToken}).Validate(); err != nil {
		return AuthTokens{}, err
	}

	claims, err := s.tokens.ValidateRefreshToken(refreshToken)
	if err != nil {
		return AuthTokens{}, err
	}
	if err := s.checkRevoked(ctx, claims); err != nil {
		return AuthTokens{}, err
	}

	p, err := s.principal(ctx, claims.UserID)
	if err != nil {
		return AuthTokens{}, err
	}

	if err := s.blacklist.Revoke(ctx, claims.ID, claims.ExpiresAt.Time); err != nil {
		s.logger.Error("failed to revoke refresh token", "error", err, "account_id", p.ID)
		return AuthTokens{}, err
	}
	return s.issue(p)
}

// ValidateAccessToken resolves a bearer token to the caller's current
// identity. Role and unit come from the store, so role changes apply to
// tokens already issued.
func (s *Service) ValidateAccessToken(ctx context.Context, tokenString string) (*identity.Identity, error) {
	claims, err := s.tokens.ValidateAccessToken(tokenString)
	if err != nil {
		return nil, err
	}
	if err := s.checkRevoked(ctx, claims); err != nil {
		return nil, err
	}
	return s.principal(ctx, claims.UserID)
}

// Logout revokes the access token until it would have expired anyway.
func (s *Service) Logout(ctx context.Context, tokenString string) error {
	claims, err := s.tokens.ValidateAccessToken(tokenString)
	if err != nil {
		return err
	}
	if err := s.checkRevoked(ctx, claims); err != nil {
		return err
	}
	if err := s.blacklist.Revoke(ctx, claims.ID, claims.ExpiresAt.Time); err != nil {
		s.logger.Error("failed to revoke access token", "error", err, "account_id", claims.UserID)
		return err
	}
	s.logger.Info("logout", "account_id", claims.UserID)
	return nil
}

func (s *Service) checkRevoked(ctx context.Context, claims *Claims) error {
	revoked, err := s.blacklist.IsRevoked(ctx, claims.ID)
	if err != nil {
		s.logger.Error("token blacklist unavailable", "error", err)
		return err
	}
	if revoked {
		return internal.ErrTokenRevoked
	}
	return nil
}

func (s *Service) principal(ctx context.Context, accountID string) (*identity.Identity, error) {
	p, err := s.users.GetPrincipal(ctx, accountID)
	if err != nil {
		if errors.Is(err, internal.ErrAccountNotFound) {
			return nil, internal.ErrInvalidToken
		}
		return nil, err
	}
	if !p.IsActive {
		return nil, internal.ErrUserInactive
	}
	return p.Identity, nil
}

func (s *Service) issue(p *identity.Identity) (AuthTokens, error) {
	access, accessClaims, err := s.tokens.GenerateAccessToken(p)
	if err != nil {
		return AuthTokens{}, internal.NewInternalError("Failed to issue token", err)
	}
	refresh, _, err := s.tokens.GenerateRefreshToken(p)
	if err != nil {
		return AuthTokens{}, internal.NewInternalError("Failed to issue token", err)
	}
	return AuthTokens{
		AccessToken:  access,
		RefreshToken: refresh,
		TokenType:    "Bearer",
		ExpiresAt:    accessClaims.ExpiresAt.Time,
	}, nil
}
