package router

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"

	"github.com/s4sachin/dynamic-form-builder/internal/handler"
	mw "github.com/s4sachin/dynamic-form-builder/internal/middleware"
)

// Options configures the cross-cutting behaviour of the router.
type Options struct {
	// Dev admits any localhost origin through CORS.
	Dev        bool
	CORSOrigin string
	// SubmitLimiter guards submission creation. Nil disables rate limiting.
	SubmitLimiter mw.Limiter
}

// Handlers groups the endpoint handlers. A nil Admin handler leaves the
// admin routes unmounted.
type Handlers struct {
	Forms       *handler.FormHandler
	Submissions *handler.SubmissionHandler
	Health      *handler.HealthHandler
	OpenAPI     *handler.OpenAPIHandler
	Admin       *handler.AdminHandler
}

func New(opts Options, h Handlers) *chi.Mux {
	r := chi.NewRouter()

	// Global middleware
	r.Use(chimw.RequestID)
	r.Use(chimw.RealIP)
	r.Use(mw.Recovery)
	r.Use(mw.Logger)
	r.Use(mw.CORS(opts.Dev, opts.CORSOrigin))

	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusNotFound)
		_, _ = w.Write([]byte(`{"success":false,"error":"Not found"}` + "\n"))
	})

	r.Route("/api", func(r chi.Router) {
		r.Get("/health", h.Health.Health)
		r.Get("/form-schema", h.Forms.Get)
		r.Get("/openapi.json", h.OpenAPI.Document)

		// Submissions
		r.Get("/submissions", h.Submissions.List)
		r.With(mw.RateLimit(opts.SubmitLimiter)).Post("/submissions", h.Submissions.Create)

		if h.Admin != nil {
			r.Post("/admin/schema-cache/invalidate", h.Admin.InvalidateSchemaCache)
		}
	})

	return r
}
