package cmd

import (
	"os"
	"path/filepath"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/frahmantamala/grievance-management/internal"
)

const sampleConfig = `
http_server:
  port: 9090
  allowed_origins: "http://localhost:3000"
  read_header_timeout: 5s
  read_timeout: 15s
database:
  driver: sqlite
  source: "file:dev.db?_foreign_keys=on"
  max_open_conns: 1
  max_idle_conns: 1
security:
  jwt_access_secret: "0123456789abcdef0123456789abcdef"
  jwt_refresh_secret: "fedcba9876543210fedcba9876543210"
  access_token_duration: 15m
  refresh_token_duration: 168h
  bcrypt_cost: 10
observability:
  logging:
    level: info
    format: json
`

var _ = Describe("loadConfig", func() {
	var dir string

	BeforeEach(func() {
		dir = GinkgoT().TempDir()
	})

	It("reads config.yml from the given directory", func() {
		Expect(os.WriteFile(filepath.Join(dir, "config.yml"), []byte(sampleConfig), 0o600)).To(Succeed())

		cfg, err := loadConfig(dir)
		Expect(err).NotTo(HaveOccurred())
		Expect(cfg.Server.Port).To(Equal(9090))
		Expect(cfg.Server.Origins()).To(Equal([]string{"http://localhost:3000"}))
		Expect(cfg.Database.DriverName()).To(Equal(internal.DriverSQLite))
		Expect(cfg.Security.RefreshTokenDuration.Hours()).To(Equal(168.0))
		Expect(cfg.Bootstrap.Enabled()).To(BeFalse())
	})

	It("rejects a config that fails validation", func() {
		invalid := sampleConfig + "bootstrap:\n  admin_email: root@example.com\n"
		Expect(os.WriteFile(filepath.Join(dir, "config.yml"), []byte(invalid), 0o600)).To(Succeed())

		_, err := loadConfig(dir)
		Expect(err).To(MatchError(ContainSubstring("admin_email and admin_password must be set together")))
	})

	It("fails when no config file exists", func() {
		_, err := loadConfig(dir)
		Expect(err).To(MatchError(ContainSubstring("error reading config")))
	})
})
