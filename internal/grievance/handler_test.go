package grievance_test

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"

	"github.com/go-chi/chi"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/frahmantamala/grievance-management/internal"
	"github.com/frahmantamala/grievance-management/internal/core/identity"
	"github.com/frahmantamala/grievance-management/internal/grievance"
	"github.com/frahmantamala/grievance-management/pkg/logger"
)

type errorEnvelope struct {
	Error struct {
		Type    string `json:"type"`
		Code    string `json:"code"`
		Message string `json:"message"`
	} `json:"error"`
}

var _ = Describe("Handler", func() {
	var (
		repo   *mockRepository
		router chi.Router
		caller *identity.Identity
	)

	BeforeEach(func() {
		repo = newMockRepository()
		service := grievance.NewService(repo, repo, nil, logger.Silent())
		handler := grievance.NewHandler(service)

		caller = alphaUser
		router = chi.NewRouter()
		router.Use(func(next http.Handler) http.Handler {
			return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				if caller != nil {
					r = r.WithContext(internal.ContextWithIdentity(r.Context(), caller))
				}
				next.ServeHTTP(w, r)
			})
		})
		router.Route("/grievances", handler.Routes)
	})

	do := func(method, path string, body interface{}) *httptest.ResponseRecorder {
		var buf bytes.Buffer
		if body != nil {
			Expect(json.NewEncoder(&buf).Encode(body)).To(Succeed())
		}
		req := httptest.NewRequest(method, path, &buf)
		req.Header.Set("Content-Type", "application/json")
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)
		return w
	}

	decodeError := func(w *httptest.ResponseRecorder) errorEnvelope {
		var env errorEnvelope
		Expect(json.NewDecoder(w.Body).Decode(&env)).To(Succeed())
		return env
	}

	seed := func(owner *identity.Identity, unit string) *grievance.Grievance {
		svc := grievance.NewService(repo, repo, nil, logger.Silent())
		g, err := svc.CreateGrievance(context.Background(), owner, validCreateDTO(unit))
		Expect(err).NotTo(HaveOccurred())
		return g
	}

	It("creates a grievance owned by the caller", func() {
		w := do(http.MethodPost, "/grievances", validCreateDTO("Alpha"))
		Expect(w.Code).To(Equal(http.StatusCreated))
		Expect(w.Header().Get("Content-Type")).To(ContainSubstring("application/json"))

		var g grievance.Grievance
		Expect(json.NewDecoder(w.Body).Decode(&g)).To(Succeed())
		Expect(g.OwnerID).To(Equal(alphaUser.ID))
		Expect(g.Status).To(Equal(grievance.StatusPending))
	})

	It("returns 400 with field details for invalid input", func() {
		dto := validCreateDTO("Alpha")
		dto.Unit = ""
		w := do(http.MethodPost, "/grievances", dto)
		Expect(w.Code).To(Equal(http.StatusBadRequest))
		Expect(decodeError(w).Error.Type).To(Equal(string(internal.ErrorTypeValidation)))
	})

	It("returns 400 for a malformed body", func() {
		req := httptest.NewRequest(http.MethodPost, "/grievances", bytes.NewBufferString("{not json"))
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)
		Expect(w.Code).To(Equal(http.StatusBadRequest))
	})

	It("returns 401 without an identity", func() {
		caller = nil
		w := do(http.MethodGet, "/grievances", nil)
		Expect(w.Code).To(Equal(http.StatusUnauthorized))
	})

	It("maps missing and hidden grievances to 404 and 403", func() {
		g := seed(otherAlphaUser, "Alpha")

		w := do(http.MethodGet, "/grievances/does-not-exist", nil)
		Expect(w.Code).To(Equal(http.StatusNotFound))
		Expect(decodeError(w).Error.Code).To(Equal(string(internal.ErrCodeGrievanceNotFound)))

		w = do(http.MethodGet, "/grievances/"+g.ID, nil)
		Expect(w.Code).To(Equal(http.StatusForbidden))
	})

	It("lists only visible grievances", func() {
		mine := seed(alphaUser, "Alpha")
		seed(otherAlphaUser, "Alpha")

		w := do(http.MethodGet, "/grievances", nil)
		Expect(w.Code).To(Equal(http.StatusOK))

		var items []grievance.Grievance
		Expect(json.NewDecoder(w.Body).Decode(&items)).To(Succeed())
		Expect(items).To(HaveLen(1))
		Expect(items[0].ID).To(Equal(mine.ID))
	})

	It("lists an owner's grievances through the user route", func() {
		theirs := seed(otherAlphaUser, "Alpha")
		caller = alphaSuper

		w := do(http.MethodGet, "/grievances/user/"+otherAlphaUser.ID, nil)
		Expect(w.Code).To(Equal(http.StatusOK))

		var items []grievance.Grievance
		Expect(json.NewDecoder(w.Body).Decode(&items)).To(Succeed())
		Expect(items).To(HaveLen(1))
		Expect(items[0].ID).To(Equal(theirs.ID))
	})

	It("updates through PATCH and PUT", func() {
		g := seed(alphaUser, "Alpha")

		w := do(http.MethodPatch, "/grievances/"+g.ID, map[string]string{"status": "resolved"})
		Expect(w.Code).To(Equal(http.StatusOK))

		w = do(http.MethodPut, "/grievances/"+g.ID, map[string]string{"title": "Renamed", "unit": "Bravo"})
		Expect(w.Code).To(Equal(http.StatusOK))

		var got grievance.Grievance
		Expect(json.NewDecoder(w.Body).Decode(&got)).To(Succeed())
		Expect(got.Title).To(Equal("Renamed"))
		Expect(got.Unit).To(Equal("Alpha"))
		Expect(got.Status).To(Equal(grievance.StatusResolved))
	})

	It("rejects an unknown status with 400", func() {
		g := seed(alphaUser, "Alpha")
		w := do(http.MethodPatch, "/grievances/"+g.ID, map[string]string{"status": "archived"})
		Expect(w.Code).To(Equal(http.StatusBadRequest))
	})

	It("forbids supervisor deletes and allows owner deletes", func() {
		g := seed(alphaUser, "Alpha")

		caller = alphaSuper
		w := do(http.MethodDelete, "/grievances/"+g.ID, nil)
		Expect(w.Code).To(Equal(http.StatusForbidden))

		caller = alphaUser
		w = do(http.MethodDelete, "/grievances/"+g.ID, nil)
		Expect(w.Code).To(Equal(http.StatusNoContent))

		w = do(http.MethodGet, "/grievances/"+g.ID, nil)
		Expect(w.Code).To(Equal(http.StatusNotFound))
	})

	It("creates and lists notes", func() {
		g := seed(alphaUser, "Alpha")
		repo.names[alphaSuper.ID] = alphaSuper.Email

		caller = alphaSuper
		w := do(http.MethodPost, "/grievances/"+g.ID+"/notes", grievance.CreateNoteDTO{Content: "On it"})
		Expect(w.Code).To(Equal(http.StatusCreated))

		var note grievance.NoteView
		Expect(json.NewDecoder(w.Body).Decode(&note)).To(Succeed())
		Expect(note.AuthorName).To(Equal(alphaSuper.Email))

		w = do(http.MethodGet, "/grievances/"+g.ID+"/notes", nil)
		Expect(w.Code).To(Equal(http.StatusOK))

		var notes []grievance.NoteView
		Expect(json.NewDecoder(w.Body).Decode(&notes)).To(Succeed())
		Expect(notes).To(HaveLen(1))
		Expect(notes[0].Content).To(Equal("On it"))
	})
})
