package http

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"go.uber.org/zap"

	"github.com/MrJamesThe3rd/mandi/internal/auth"
	authHandler "github.com/MrJamesThe3rd/mandi/internal/http/auth"
	"github.com/MrJamesThe3rd/mandi/internal/http/claim"
	"github.com/MrJamesThe3rd/mandi/internal/http/export"
	"github.com/MrJamesThe3rd/mandi/internal/http/invoice"
	"github.com/MrJamesThe3rd/mandi/internal/http/job"
	"github.com/MrJamesThe3rd/mandi/internal/http/respond"
	"github.com/MrJamesThe3rd/mandi/internal/http/truck"
	"github.com/MrJamesThe3rd/mandi/internal/http/vehicle"
	"github.com/MrJamesThe3rd/mandi/internal/user"
)

type Handlers struct {
	Invoices *invoice.Handler
	Claims   *claim.Handler
	Trucks   *truck.Handler
	Vehicles *vehicle.Handler
	Auth     *authHandler.Handler
	Jobs     *job.Handler
	Export   *export.Handler
}

type Options struct {
	Tokens         *auth.Tokens
	AllowedOrigins []string
	// MediaDir is served under /media when uploads are kept on local disk.
	MediaDir string
	Logger   *zap.Logger
}

func New(h Handlers, opts Options) http.Handler {
	if opts.Logger == nil {
		opts.Logger = zap.NewNop()
	}

	router := chi.NewRouter()

	router.Use(middleware.RequestID)
	router.Use(middleware.RealIP)
	router.Use(accessLog(opts.Logger))
	router.Use(middleware.Recoverer)
	router.Use(cors.Handler(cors.Options{
		AllowedOrigins:   opts.AllowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		ExposedHeaders:   []string{"Content-Disposition"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	router.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		respond.JSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})

	if opts.MediaDir != "" {
		router.Handle("/media/*", http.StripPrefix("/media/", http.FileServer(http.Dir(opts.MediaDir))))
	}

	router.Route("/api/v1", func(r chi.Router) {
		r.Route("/invoices", h.Invoices.Routes)
		r.Route("/claim-requests", h.Claims.Routes)
		r.Route("/trucks", h.Trucks.Routes)
		r.Route("/vehicle-condition", func(r chi.Router) {
			r.Use(middleware.AllowContentType("application/json"))
			h.Vehicles.Routes(r)
		})
		r.Route("/auth", func(r chi.Router) {
			r.Use(middleware.AllowContentType("application/json"))
			h.Auth.Routes(r)
		})

		r.Route("/admin", func(r chi.Router) {
			r.Use(auth.Middleware(opts.Tokens, user.RoleAdmin))

			r.Route("/invoices", func(r chi.Router) {
				r.Route("/export", func(r chi.Router) {
					r.Use(middleware.AllowContentType("application/json"))
					h.Export.Routes(r)
				})
				h.Invoices.AdminRoutes(r)
			})
			r.Route("/claim-requests", h.Claims.AdminRoutes)
			r.Route("/trucks", h.Trucks.AdminRoutes)
			r.Route("/jobs", h.Jobs.Routes)
		})
	})

	return router
}
