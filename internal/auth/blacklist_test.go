package auth_test

import (
	"context"
	"time"

	"github.com/go-redis/redis/v8"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/frahmantamala/grievance-management/internal/auth"
)

var _ = Describe("MemoryBlacklist", func() {
	var (
		ctx context.Context
		bl  *auth.MemoryBlacklist
	)

	BeforeEach(func() {
		ctx = context.Background()
		bl = auth.NewMemoryBlacklist()
	})

	It("reports revoked ids", func() {
		Expect(bl.Revoke(ctx, "jti-1", time.Now().Add(time.Minute))).To(Succeed())
		Expect(bl.IsRevoked(ctx, "jti-1")).To(BeTrue())
		Expect(bl.IsRevoked(ctx, "jti-2")).To(BeFalse())
	})

	It("ignores ids that already expired", func() {
		Expect(bl.Revoke(ctx, "old", time.Now().Add(-time.Second))).To(Succeed())
		Expect(bl.Len()).To(Equal(0))
	})

	It("forgets ids once they expire", func() {
		Expect(bl.Revoke(ctx, "short", time.Now().Add(50*time.Millisecond))).To(Succeed())
		Eventually(func() bool {
			revoked, _ := bl.IsRevoked(ctx, "short")
			return revoked
		}, time.Second, 10*time.Millisecond).Should(BeFalse())
		Expect(bl.Len()).To(Equal(0))
	})
})

var _ = Describe("RedisBlacklist", func() {
	It("surfaces connection failures", func() {
		client := redis.NewClient(&redis.Options{
			Addr:        "127.0.0.1:1",
			DialTimeout: 100 * time.Millisecond,
			MaxRetries:  -1,
		})
		DeferCleanup(client.Close)

		bl := auth.NewRedisBlacklist(client, "")
		_, err := bl.IsRevoked(context.Background(), "jti")
		Expect(err).To(HaveOccurred())
		Expect(bl.Revoke(context.Background(), "jti", time.Now().Add(time.Minute))).NotTo(Succeed())
	})

	It("skips tokens that are already expired", func() {
		client := redis.NewClient(&redis.Options{Addr: "127.0.0.1:1", MaxRetries: -1})
		DeferCleanup(client.Close)

		bl := auth.NewRedisBlacklist(client, "test:")
		Expect(bl.Revoke(context.Background(), "jti", time.Now().Add(-time.Minute))).To(Succeed())
	})
})
