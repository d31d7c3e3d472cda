package http

import (
	"crypto/subtle"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/Yemresalcan/E-commerceAPI-sub000/internal/service"
	apperrors "github.com/Yemresalcan/E-commerceAPI-sub000/pkg/errors"
	"github.com/Yemresalcan/E-commerceAPI-sub000/pkg/health"
	"github.com/Yemresalcan/E-commerceAPI-sub000/pkg/middleware"
)

// RouterConfig carries the deployment knobs the router needs.
type RouterConfig struct {
	Environment string
	PprofCIDRs  []string

	// AdminToken guards the admin routes when set. An empty token leaves
	// them open for gateway-fronted deployments.
	AdminToken string
}

// NewRouter creates a chi router with all search routes registered.
func NewRouter(
	searchService *service.SearchService,
	healthHandler *health.Handler,
	cfg RouterConfig,
	logger *slog.Logger,
) http.Handler {
	r := chi.NewRouter()

	corsCfg := middleware.DefaultCORSConfig()
	corsCfg.Environment = cfg.Environment
	r.Use(middleware.CORS(corsCfg))
	r.Use(middleware.Recovery(logger))
	r.Use(chimw.Compress(5))
	r.Use(chimw.Timeout(30 * time.Second))
	r.Use(middleware.Tracing("search"))
	r.Use(middleware.RequestLogging(logger))
	// Request-scoped logger so error responses carry correlation and trace IDs.
	r.Use(middleware.RequestLogger(logger))
	r.Use(middleware.PrometheusMetrics("search"))

	r.Get("/health/live", healthHandler.LivenessHandler())
	r.Get("/health/ready", healthHandler.ReadinessHandler())
	r.Get("/metrics", func(w http.ResponseWriter, r *http.Request) {
		promhttp.Handler().ServeHTTP(w, r)
	})

	if cfg.Environment == "development" {
		middleware.RegisterPprof(r, cfg.PprofCIDRs, logger)
	}

	productHandler := NewProductHandler(searchService, logger)
	orderHandler := NewOrderHandler(searchService, logger)
	customerHandler := NewCustomerHandler(searchService, logger)
	adminHandler := NewAdminHandler(searchService, logger)

	r.Route("/api/v1/search", func(r chi.Router) {
		r.With(middleware.CacheControl(60)).Get("/suggest", productHandler.Suggest)

		r.Route("/products", func(r chi.Router) {
			r.Get("/", productHandler.Search)
			r.Get("/{id}", productHandler.Get)
			r.Get("/{id}/similar", productHandler.Similar)
		})
		r.Get("/orders", orderHandler.Search)
		r.Get("/customers", customerHandler.Search)

		r.Route("/admin", func(r chi.Router) {
			if cfg.AdminToken != "" {
				r.Use(middleware.Auth(adminTokenValidator(cfg.AdminToken)))
				r.Use(middleware.RequireRole("admin"))
			}
			r.Post("/bulk", adminHandler.BulkIndex)
			r.Post("/reindex", adminHandler.Reindex)
			r.Post("/indices/{entity}/recreate", adminHandler.RecreateIndex)
		})
	})

	return r
}

// adminTokenValidator accepts the shared admin bearer token. The search
// service does not issue tokens of its own; operator access uses a single
// secret rotated via SEARCH_ADMIN_TOKEN.
func adminTokenValidator(token string) middleware.TokenValidator {
	return func(presented string) (*middleware.Claims, error) {
		if subtle.ConstantTimeCompare([]byte(presented), []byte(token)) != 1 {
			return nil, apperrors.Unauthorized("invalid admin token")
		}
		return &middleware.Claims{UserID: "admin", Role: "admin"}, nil
	}
}
