package cmd

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/frahmantamala/grievance-management/internal"
	"github.com/frahmantamala/grievance-management/internal/account"
	"github.com/frahmantamala/grievance-management/internal/audit"
	"github.com/frahmantamala/grievance-management/internal/grievancetype"
)

func testConfig() *internal.Config {
	return &internal.Config{
		Server: internal.ServerConfig{
			AllowedOrigins: "*",
		},
		Database: internal.DatabaseConfig{
			Driver:       internal.DriverSQLite,
			Source:       ":memory:",
			MaxOpenConns: 1,
			MaxIdleConns: 1,
		},
		Security: internal.SecurityConfig{
			JWTAccessSecret:      strings.Repeat("a", 32),
			JWTRefreshSecret:     strings.Repeat("r", 32),
			AccessTokenDuration:  15 * time.Minute,
			RefreshTokenDuration: time.Hour,
			BCryptCost:           4,
		},
		Bootstrap: internal.BootstrapConfig{
			AdminEmail:    "root@example.com",
			AdminPassword: "rootpassword",
			AdminName:     "Root",
		},
		Observability: internal.ObservabilityConfig{
			Logging: internal.LoggingConfig{Level: "error", Format: "text"},
		},
	}
}

var _ = Describe("HTTP server wiring", func() {
	var (
		ctx  context.Context
		deps *Dependencies
		srv  *httptest.Server
	)

	BeforeEach(func() {
		ctx = context.Background()
		cfg := testConfig()
		Expect(cfg.Validate()).To(Succeed())

		var err error
		deps, err = initializeDependencies(ctx, cfg)
		Expect(err).NotTo(HaveOccurred())
		DeferCleanup(deps.Close)

		Expect(migrate(ctx, deps.DB.DB, cfg.Database, false, "")).To(Succeed())
		Expect(bootstrapAdmin(ctx, deps.Accounts, cfg.Bootstrap)).To(Succeed())
		Expect(setupRoutes(ctx, deps)).To(Succeed())

		srv = httptest.NewServer(deps.Router)
		DeferCleanup(srv.Close)
	})

	call := func(method, path, token string, body any) (int, map[string]any) {
		var buf bytes.Buffer
		if body != nil {
			Expect(json.NewEncoder(&buf).Encode(body)).To(Succeed())
		}
		req, err := http.NewRequest(method, srv.URL+path, &buf)
		Expect(err).NotTo(HaveOccurred())
		req.Header.Set("Content-Type", "application/json")
		if token != "" {
			req.Header.Set("Authorization", "Bearer "+token)
		}
		resp, err := http.DefaultClient.Do(req)
		Expect(err).NotTo(HaveOccurred())
		defer resp.Body.Close()

		var out map[string]any
		_ = json.NewDecoder(resp.Body).Decode(&out)
		return resp.StatusCode, out
	}

	callList := func(path, token string) (int, []map[string]any) {
		req, err := http.NewRequest(http.MethodGet, srv.URL+path, nil)
		Expect(err).NotTo(HaveOccurred())
		req.Header.Set("Authorization", "Bearer "+token)
		resp, err := http.DefaultClient.Do(req)
		Expect(err).NotTo(HaveOccurred())
		defer resp.Body.Close()

		var out []map[string]any
		_ = json.NewDecoder(resp.Body).Decode(&out)
		return resp.StatusCode, out
	}

	login := func(email, password string) string {
		status, body := call(http.MethodPost, "/api/v1/auth/login", "", map[string]string{
			"email": email, "password": password,
		})
		Expect(status).To(Equal(http.StatusOK))
		Expect(body["access_token"]).NotTo(BeEmpty())
		return body["access_token"].(string)
	}

	register := func(token string, dto account.RegisterDTO) string {
		status, body := call(http.MethodPost, "/api/v1/auth/register", token, dto)
		Expect(status).To(Equal(http.StatusCreated))
		return body["id"].(string)
	}

	grievanceBody := func(unit string) map[string]string {
		return map[string]string{
			"title":             "Workplace Conditions - Equipment Issue",
			"description":       "Radios fail in the cold",
			"redress_sought":    "Replace the radios",
			"submitter_name":    "Pat Smith",
			"service_number":    "A12345",
			"rank":              "Cpl",
			"email":             "pat.smith@forces.gc.ca",
			"phone":             "613-555-1234",
			"unit":              unit,
			"position":          "Operator",
			"grievance_type":    "Workplace Conditions",
			"grievance_subtype": "Equipment",
		}
	}

	It("reports healthy dependencies", func() {
		status, body := call(http.MethodGet, "/api/v1/health", "", nil)
		Expect(status).To(Equal(http.StatusOK))
		Expect(body["status"]).To(Equal("healthy"))

		status, _ = call(http.MethodGet, "/openapi.yml", "", nil)
		Expect(status).To(Equal(http.StatusOK))
	})

	It("serves the migrated grievance type catalog to signed-in callers", func() {
		status, _ := call(http.MethodGet, "/api/v1/grievance-types", "", nil)
		Expect(status).To(Equal(http.StatusUnauthorized))

		admin := login("root@example.com", "rootpassword")
		status, body := call(http.MethodGet, "/api/v1/grievance-types", admin, nil)
		Expect(status).To(Equal(http.StatusOK))
		Expect(body["grievance_types"]).To(HaveLen(len(grievancetype.Defaults)))

		types, err := deps.GrievanceTypes.ListTypes(ctx)
		Expect(err).NotTo(HaveOccurred())
		Expect(types).To(Equal(grievancetype.Defaults))
	})

	It("bootstraps the admin only once", func() {
		Expect(bootstrapAdmin(ctx, deps.Accounts, internal.BootstrapConfig{
			AdminEmail: "other@example.com", AdminPassword: "otherpassword",
		})).To(Succeed())

		status, _ := call(http.MethodPost, "/api/v1/auth/login", "", map[string]string{
			"email": "other@example.com", "password": "otherpassword",
		})
		Expect(status).To(Equal(http.StatusUnauthorized))
	})

	It("enforces grievance visibility end to end", func() {
		admin := login("root@example.com", "rootpassword")

		register(admin, account.RegisterDTO{
			Email: "sup.alpha@example.com", Password: "password123", Name: "Sup Alpha", Unit: "Alpha", Role: "supervisor",
		})
		register(admin, account.RegisterDTO{
			Email: "sup.bravo@example.com", Password: "password123", Name: "Sup Bravo", Unit: "Bravo", Role: "supervisor",
		})
		ownerID := register("", account.RegisterDTO{
			Email: "owner@example.com", Password: "password123", Name: "Owner", Unit: "Alpha",
		})
		register("", account.RegisterDTO{
			Email: "peer@example.com", Password: "password123", Name: "Peer", Unit: "Alpha",
		})

		// anonymous callers cannot self-promote
		status, _ := call(http.MethodPost, "/api/v1/auth/register", "", account.RegisterDTO{
			Email: "sneaky@example.com", Password: "password123", Role: "supervisor",
		})
		Expect(status).To(Equal(http.StatusForbidden))

		owner := login("owner@example.com", "password123")
		peer := login("peer@example.com", "password123")
		supAlpha := login("sup.alpha@example.com", "password123")
		supBravo := login("sup.bravo@example.com", "password123")

		status, created := call(http.MethodPost, "/api/v1/grievances", owner, grievanceBody("Alpha"))
		Expect(status).To(Equal(http.StatusCreated))
		Expect(created["status"]).To(Equal("pending"))
		Expect(created["user_id"]).To(Equal(ownerID))
		id := created["id"].(string)

		status, items := callList("/api/v1/grievances", supAlpha)
		Expect(status).To(Equal(http.StatusOK))
		Expect(items).To(HaveLen(1))

		for _, token := range []string{supBravo, peer} {
			status, items = callList("/api/v1/grievances", token)
			Expect(status).To(Equal(http.StatusOK))
			Expect(items).To(BeEmpty())

			status, _ = call(http.MethodGet, "/api/v1/grievances/"+id, token, nil)
			Expect(status).To(Equal(http.StatusForbidden))
		}

		status, _ = call(http.MethodGet, "/api/v1/grievances/does-not-exist", supBravo, nil)
		Expect(status).To(Equal(http.StatusNotFound))

		status, updated := call(http.MethodPatch, "/api/v1/grievances/"+id, supAlpha, map[string]string{
			"status": "in_progress",
			"unit":   "Bravo",
		})
		Expect(status).To(Equal(http.StatusOK))
		Expect(updated["status"]).To(Equal("in_progress"))
		Expect(updated["unit"]).To(Equal("Alpha"))

		status, _ = call(http.MethodPost, "/api/v1/grievances/"+id+"/notes", supAlpha, map[string]string{
			"content": "Initial review completed.",
		})
		Expect(status).To(Equal(http.StatusCreated))

		status, read := call(http.MethodGet, "/api/v1/grievances/"+id, owner, nil)
		Expect(status).To(Equal(http.StatusOK))
		Expect(read["notes"]).To(HaveLen(1))

		status, _ = call(http.MethodDelete, "/api/v1/grievances/"+id, peer, nil)
		Expect(status).To(Equal(http.StatusForbidden))
		status, _ = call(http.MethodDelete, "/api/v1/grievances/"+id, owner, nil)
		Expect(status).To(Equal(http.StatusNoContent))

		status, _ = call(http.MethodGet, "/api/v1/grievances/"+id, admin, nil)
		Expect(status).To(Equal(http.StatusNotFound))

		entries, err := deps.Audit.List(ctx, operator, audit.ListFilter{SubjectType: "grievance", SubjectID: id})
		Expect(err).NotTo(HaveOccurred())
		Expect(entries).To(HaveLen(4))
	})

	It("gates user administration by role", func() {
		admin := login("root@example.com", "rootpassword")
		userID := register("", account.RegisterDTO{
			Email: "member@example.com", Password: "password123", Unit: "Alpha",
		})
		member := login("member@example.com", "password123")

		status, _ := callList("/api/v1/users/all", member)
		Expect(status).To(Equal(http.StatusForbidden))

		status, _ = call(http.MethodPatch, "/api/v1/users/me", member, map[string]string{
			"name": "Member", "role": "admin",
		})
		Expect(status).To(Equal(http.StatusOK))

		status, me := call(http.MethodGet, "/api/v1/users/me", member, nil)
		Expect(status).To(Equal(http.StatusOK))
		Expect(me["role"]).To(Equal("user"))
		Expect(me["name"]).To(Equal("Member"))

		status, promoted := call(http.MethodPatch, "/api/v1/users/"+userID, admin, map[string]string{"role": "supervisor"})
		Expect(status).To(Equal(http.StatusOK))
		Expect(promoted["role"]).To(Equal("supervisor"))

		// the role is read per request, so the old token already carries the promotion
		status, items := callList("/api/v1/users/all", member)
		Expect(status).To(Equal(http.StatusOK))
		Expect(items).To(HaveLen(2))

		status, _ = call(http.MethodGet, "/api/v1/audit", member, nil)
		Expect(status).To(Equal(http.StatusForbidden))
	})

	It("rejects a token after logout", func() {
		register("", account.RegisterDTO{Email: "leaver@example.com", Password: "password123"})
		token := login("leaver@example.com", "password123")

		status, _ := call(http.MethodPost, "/api/v1/auth/logout", token, nil)
		Expect(status).To(Equal(http.StatusNoContent))

		status, _ = call(http.MethodGet, "/api/v1/users/me", token, nil)
		Expect(status).To(Equal(http.StatusUnauthorized))
	})
})
