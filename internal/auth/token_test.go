package auth_test

import (
	"time"

	"github.com/golang-jwt/jwt/v5"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/frahmantamala/grievance-management/internal"
	"github.com/frahmantamala/grievance-management/internal/auth"
	"github.com/frahmantamala/grievance-management/internal/core/identity"
	"github.com/frahmantamala/grievance-management/internal/core/role"
)

var _ = Describe("JWTTokenGenerator", func() {
	var (
		gen *auth.JWTTokenGenerator
		who *identity.Identity
	)

	BeforeEach(func() {
		gen = auth.NewJWTTokenGenerator(accessSecret, refreshSecret, 15*time.Minute, time.Hour)
		who = &identity.Identity{ID: "admin-1", Email: "admin@example.com", Role: role.Admin}
	})

	It("round-trips access claims", func() {
		token, issued, err := gen.GenerateAccessToken(who)
		Expect(err).NotTo(HaveOccurred())

		claims, err := gen.ValidateAccessToken(token)
		Expect(err).NotTo(HaveOccurred())
		Expect(claims.UserID).To(Equal("admin-1"))
		Expect(claims.Role).To(Equal(role.Admin))
		Expect(claims.TokenType).To(Equal(auth.TokenTypeAccess))
		Expect(claims.ID).To(Equal(issued.ID))
		Expect(claims.ID).NotTo(BeEmpty())
	})

	It("gives every token its own id", func() {
		_, a, err := gen.GenerateAccessToken(who)
		Expect(err).NotTo(HaveOccurred())
		_, b, err := gen.GenerateAccessToken(who)
		Expect(err).NotTo(HaveOccurred())
		Expect(a.ID).NotTo(Equal(b.ID))
	})

	It("signs refresh tokens with their own secret", func() {
		token, _, err := gen.GenerateRefreshToken(who)
		Expect(err).NotTo(HaveOccurred())

		_, err = gen.ValidateAccessToken(token)
		Expect(err).To(MatchError(internal.ErrInvalidToken))

		claims, err := gen.ValidateRefreshToken(token)
		Expect(err).NotTo(HaveOccurred())
		Expect(claims.TokenType).To(Equal(auth.TokenTypeRefresh))
	})

	It("reports expiry", func() {
		expired := &auth.JWTTokenGenerator{
			AccessTokenSecret:  []byte(accessSecret),
			RefreshTokenSecret: []byte(refreshSecret),
			AccessTokenTTL:     -time.Minute,
			RefreshTokenTTL:    time.Hour,
		}
		token, _, err := expired.GenerateAccessToken(who)
		Expect(err).NotTo(HaveOccurred())

		_, err = gen.ValidateAccessToken(token)
		Expect(err).To(MatchError(internal.ErrTokenExpired))
	})

	It("rejects tokens signed with another secret", func() {
		other := auth.NewJWTTokenGenerator("another-access-secret-0123456789abcdef", refreshSecret, time.Minute, time.Hour)
		token, _, err := other.GenerateAccessToken(who)
		Expect(err).NotTo(HaveOccurred())

		_, err = gen.ValidateAccessToken(token)
		Expect(err).To(MatchError(internal.ErrInvalidToken))
	})

	It("rejects the none algorithm", func() {
		claims := auth.Claims{
			UserID:    "admin-1",
			TokenType: auth.TokenTypeAccess,
			RegisteredClaims: jwt.RegisteredClaims{
				ID:        "jti",
				Issuer:    "grievance-management",
				ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Minute)),
			},
		}
		token, err := jwt.NewWithClaims(jwt.SigningMethodNone, claims).SignedString(jwt.UnsafeAllowNoneSignatureType)
		Expect(err).NotTo(HaveOccurred())

		_, err = gen.ValidateAccessToken(token)
		Expect(err).To(MatchError(internal.ErrInvalidToken))
	})
})

var _ = Describe("BcryptHasher", func() {
	It("verifies the original password only", func() {
		h := auth.NewBcryptHasher(4)
		hash, err := h.HashPassword("password123")
		Expect(err).NotTo(HaveOccurred())
		Expect(hash).NotTo(Equal("password123"))
		Expect(h.CheckPassword(hash, "password123")).To(Succeed())
		Expect(h.CheckPassword(hash, "password124")).NotTo(Succeed())
	})
})
