package auth_test

import (
	"context"
	"errors"
	"sync"
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"golang.org/x/crypto/bcrypt"

	"github.com/frahmantamala/grievance-management/internal"
	"github.com/frahmantamala/grievance-management/internal/auth"
	"github.com/frahmantamala/grievance-management/internal/core/identity"
	"github.com/frahmantamala/grievance-management/internal/core/role"
	"github.com/frahmantamala/grievance-management/pkg/logger"
)

const (
	accessSecret  = "access-secret-access-secret-0123456789"
	refreshSecret = "refresh-secret-refresh-secret-0123456789"
)

type storedUser struct {
	identity *identity.Identity
	hash     string
	active   bool
}

type mockUserRepository struct {
	mu    sync.Mutex
	users map[string]*storedUser
	err   error
}

func (m *mockUserRepository) put(id *identity.Identity, hash string, active bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.users[id.ID] = &storedUser{identity: id, hash: hash, active: active}
}

func (m *mockUserRepository) GetCredentials(ctx context.Context, email string) (*auth.Credentials, error) {
	if m.err != nil {
		return nil, m.err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, u := range m.users {
		if u.identity.Email == email {
			return &auth.Credentials{AccountID: u.identity.ID, PasswordHash: u.hash, IsActive: u.active}, nil
		}
	}
	return nil, internal.ErrAccountNotFound
}

func (m *mockUserRepository) GetPrincipal(ctx context.Context, accountID string) (*auth.Principal, error) {
	if m.err != nil {
		return nil, m.err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	u, ok := m.users[accountID]
	if !ok {
		return nil, internal.ErrAccountNotFound
	}
	cp := *u.identity
	return &auth.Principal{Identity: &cp, IsActive: u.active}, nil
}

type failingBlacklist struct{}

func (failingBlacklist) Revoke(ctx context.Context, jti string, expiresAt time.Time) error {
	return errors.New("redis down")
}

func (failingBlacklist) IsRevoked(ctx context.Context, jti string) (bool, error) {
	return false, errors.New("redis down")
}

var _ = Describe("Auth Service", func() {
	var (
		ctx       context.Context
		users     *mockUserRepository
		hasher    *auth.BcryptHasher
		tokens    *auth.JWTTokenGenerator
		blacklist *auth.MemoryBlacklist
		service   *auth.Service
		pat       *identity.Identity
	)

	BeforeEach(func() {
		ctx = context.Background()
		users = &mockUserRepository{users: map[string]*storedUser{}}
		hasher = auth.NewBcryptHasher(bcrypt.MinCost)
		tokens = auth.NewJWTTokenGenerator(accessSecret, refreshSecret, 15*time.Minute, time.Hour)
		blacklist = auth.NewMemoryBlacklist()
		service = auth.NewService(users, hasher, tokens, blacklist, logger.Silent())

		hash, err := hasher.HashPassword("password123")
		Expect(err).NotTo(HaveOccurred())
		pat = &identity.Identity{ID: "user-1", Email: "pat@example.com", Name: "Pat", Role: role.User, Unit: "Alpha"}
		users.put(pat, hash, true)
	})

	login := func() auth.AuthTokens {
		tokens, err := service.Authenticate(ctx, auth.LoginDTO{Email: "pat@example.com", Password: "password123"})
		Expect(err).NotTo(HaveOccurred())
		return tokens
	}

	Describe("Authenticate", func() {
		It("issues an access and a refresh token", func() {
			t := login()
			Expect(t.AccessToken).NotTo(BeEmpty())
			Expect(t.RefreshToken).NotTo(BeEmpty())
			Expect(t.TokenType).To(Equal("Bearer"))
			Expect(t.ExpiresAt).To(BeTemporally("~", time.Now().Add(15*time.Minute), time.Minute))
		})

		It("normalizes the email", func() {
			_, err := service.Authenticate(ctx, auth.LoginDTO{Email: "  PAT@Example.com ", Password: "password123"})
			Expect(err).NotTo(HaveOccurred())
		})

		It("rejects a wrong password and an unknown email the same way", func() {
			_, err := service.Authenticate(ctx, auth.LoginDTO{Email: "pat@example.com", Password: "wrong-password"})
			Expect(err).To(MatchError(internal.ErrInvalidCredentials))

			_, err = service.Authenticate(ctx, auth.LoginDTO{Email: "nobody@example.com", Password: "password123"})
			Expect(err).To(MatchError(internal.ErrInvalidCredentials))
		})

		It("rejects inactive accounts", func() {
			hash, _ := hasher.HashPassword("password123")
			users.put(pat, hash, false)
			_, err := service.Authenticate(ctx, auth.LoginDTO{Email: "pat@example.com", Password: "password123"})
			Expect(err).To(MatchError(internal.ErrUserInactive))
		})

		It("requires both fields", func() {
			_, err := service.Authenticate(ctx, auth.LoginDTO{Email: "pat@example.com"})
			appErr, ok := internal.IsAppError(err)
			Expect(ok).To(BeTrue())
			Expect(appErr.Type).To(Equal(internal.ErrorTypeValidation))
		})

		It("passes through store failures", func() {
			users.err = errors.New("db down")
			_, err := service.Authenticate(ctx, auth.LoginDTO{Email: "pat@example.com", Password: "password123"})
			Expect(err).To(MatchError("db down"))
		})
	})

	Describe("ValidateAccessToken", func() {
		It("resolves the identity from the store", func() {
			t := login()
			id, err := service.ValidateAccessToken(ctx, t.AccessToken)
			Expect(err).NotTo(HaveOccurred())
			Expect(id).To(Equal(pat))
		})

		It("picks up a role change without a new token", func() {
			t := login()
			promoted := *pat
			promoted.Role = role.Supervisor
			hash, _ := hasher.HashPassword("password123")
			users.put(&promoted, hash, true)

			id, err := service.ValidateAccessToken(ctx, t.AccessToken)
			Expect(err).NotTo(HaveOccurred())
			Expect(id.Role).To(Equal(role.Supervisor))
		})

		It("rejects a refresh token used as access token", func() {
			t := login()
			_, err := service.ValidateAccessToken(ctx, t.RefreshToken)
			Expect(err).To(MatchError(internal.ErrInvalidToken))
		})

		It("rejects tokens of deleted accounts", func() {
			t := login()
			users.mu.Lock()
			delete(users.users, pat.ID)
			users.mu.Unlock()
			_, err := service.ValidateAccessToken(ctx, t.AccessToken)
			Expect(err).To(MatchError(internal.ErrInvalidToken))
		})

		It("rejects tokens of deactivated accounts", func() {
			t := login()
			hash, _ := hasher.HashPassword("password123")
			users.put(pat, hash, false)
			_, err := service.ValidateAccessToken(ctx, t.AccessToken)
			Expect(err).To(MatchError(internal.ErrUserInactive))
		})

		It("fails closed when the blacklist is unavailable", func() {
			t := login()
			service = auth.NewService(users, hasher, tokens, failingBlacklist{}, logger.Silent())
			_, err := service.ValidateAccessToken(ctx, t.AccessToken)
			Expect(err).To(MatchError("redis down"))
		})
	})

	Describe("Logout", func() {
		It("revokes the access token", func() {
			t := login()
			Expect(service.Logout(ctx, t.AccessToken)).To(Succeed())
			Expect(blacklist.Len()).To(Equal(1))

			_, err := service.ValidateAccessToken(ctx, t.AccessToken)
			Expect(err).To(MatchError(internal.ErrTokenRevoked))
		})

		It("cannot log out twice", func() {
			t := login()
			Expect(service.Logout(ctx, t.AccessToken)).To(Succeed())
			Expect(service.Logout(ctx, t.AccessToken)).To(MatchError(internal.ErrTokenRevoked))
		})

		It("leaves other sessions alone", func() {
			first := login()
			second := login()
			Expect(service.Logout(ctx, first.AccessToken)).To(Succeed())
			_, err := service.ValidateAccessToken(ctx, second.AccessToken)
			Expect(err).NotTo(HaveOccurred())
		})

		It("rejects garbage", func() {
			Expect(service.Logout(ctx, "not-a-jwt")).To(MatchError(internal.ErrInvalidToken))
		})
	})

	Describe("RefreshTokens", func() {
		It("issues a new pair and revokes the used refresh token", func() {
			t := login()
			next, err := service.RefreshTokens(ctx, t.RefreshToken)
			Expect(err).NotTo(HaveOccurred())
			Expect(next.AccessToken).NotTo(Equal(t.AccessToken))

			_, err = service.RefreshTokens(ctx, t.RefreshToken)
			Expect(err).To(MatchError(internal.ErrTokenRevoked))

			_, err = service.RefreshTokens(ctx, next.RefreshToken)
			Expect(err).NotTo(HaveOccurred())
		})

		It("rejects an access token", func() {
			t := login()
			_, err := service.RefreshTokens(ctx, t.AccessToken)
			Expect(err).To(MatchError(internal.ErrInvalidToken))
		})

		It("requires a token", func() {
			_, err := service.RefreshTokens(ctx, "")
			appErr, ok := internal.IsAppError(err)
			Expect(ok).To(BeTrue())
			Expect(appErr.Type).To(Equal(internal.ErrorTypeValidation))
		})
	})
})
