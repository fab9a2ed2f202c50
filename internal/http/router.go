package http

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"github.com/MrJamesThe3rd/bakery/internal/book"
	"github.com/MrJamesThe3rd/bakery/internal/http/auth"
	"github.com/MrJamesThe3rd/bakery/internal/http/calculator"
	"github.com/MrJamesThe3rd/bakery/internal/http/delivery"
	"github.com/MrJamesThe3rd/bakery/internal/http/export"
	"github.com/MrJamesThe3rd/bakery/internal/http/importcsv"
	"github.com/MrJamesThe3rd/bakery/internal/http/metrics"
	"github.com/MrJamesThe3rd/bakery/internal/http/purchase"
	"github.com/MrJamesThe3rd/bakery/internal/http/registry"
	"github.com/MrJamesThe3rd/bakery/internal/http/snapshot"
	"github.com/MrJamesThe3rd/bakery/internal/http/summary"
	"github.com/MrJamesThe3rd/bakery/internal/http/transaction"
	"github.com/MrJamesThe3rd/bakery/internal/importer"
)

type Options struct {
	// JWTSecret enables bearer auth on /api/v1 when set.
	JWTSecret      string
	AllowedOrigins []string
}

// New wires every handler over b.
func New(b *book.Book, opts Options) http.Handler {
	var (
		deliveriesV1   = delivery.NewHandler(b)
		transactionsV1 = transaction.NewHandler(b)
		summaryV1      = summary.NewHandler(b)
		purchasesV1    = purchase.NewHandler(b)
		calculatorV1   = calculator.NewHandler(b)
		registryV1     = registry.NewHandler(b)
		snapshotsV1    = snapshot.NewHandler(b)
		importV1       = importcsv.NewHandler(importer.NewService(), b)
		exportV1       = export.NewHandler(b)
	)

	router := chi.NewRouter()

	router.Use(middleware.Logger)
	router.Use(middleware.Recoverer)
	router.Use(metrics.Middleware)
	router.Use(cors.Handler(cors.Options{
		AllowedOrigins:   opts.AllowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		ExposedHeaders:   []string{"Content-Disposition"},
		AllowCredentials: false,
		MaxAge:           300,
	}))

	router.Handle("/metrics", metrics.Handler())
	router.Get("/health", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
	})

	router.Route("/api/v1", func(r chi.Router) {
		if opts.JWTSecret != "" {
			r.Use(auth.Middleware(opts.JWTSecret))
		}

		r.Route("/deliveries", func(r chi.Router) {
			r.Use(middleware.AllowContentType("application/json"))
			deliveriesV1.Routes(r)
		})

		r.Route("/transactions", func(r chi.Router) {
			r.Use(middleware.AllowContentType("application/json"))
			transactionsV1.Routes(r)
		})

		r.Route("/summary", summaryV1.Routes)
		r.Route("/baseline", func(r chi.Router) {
			r.Use(middleware.AllowContentType("application/json"))
			summaryV1.BaselineRoutes(r)
		})

		r.Route("/purchases", func(r chi.Router) {
			r.Use(middleware.AllowContentType("application/json"))
			purchasesV1.Routes(r)
		})

		r.Route("/calculator", func(r chi.Router) {
			r.Use(middleware.AllowContentType("application/json"))
			calculatorV1.Routes(r)
		})

		r.Route("/registry", func(r chi.Router) {
			r.Use(middleware.AllowContentType("application/json"))
			registryV1.Routes(r)
		})

		r.Route("/snapshots", func(r chi.Router) {
			r.Use(middleware.AllowContentType("application/json"))
			snapshotsV1.Routes(r)
		})

		r.Route("/import", importV1.Routes)
		r.Route("/export", exportV1.Routes)
	})

	return router
}
