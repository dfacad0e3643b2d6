package app

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"

	"github.com/cofre-app/cofre/internal/auth"
	"github.com/cofre-app/cofre/internal/observability"
	"github.com/cofre-app/cofre/internal/pages"
	"github.com/cofre-app/cofre/internal/platform/upstream"
	"github.com/cofre-app/cofre/internal/proxy"
	"github.com/cofre-app/cofre/internal/summary"
	"github.com/cofre-app/cofre/internal/upload"
	"github.com/cofre-app/cofre/web"
)

// RouterParams groups dependencies for building the HTTP router.
type RouterParams struct {
	Logger         *slog.Logger
	Config         *Config
	Client         *upstream.Client
	AuthHandler    *auth.Handler
	UploadHandler  *upload.Handler
	SummaryHandler *summary.Handler
	PagesHandler   *pages.Handler
	Metrics        *observability.Metrics
}

// NewRouter constructs the chi.Router with Cofre defaults.
func NewRouter(params RouterParams) http.Handler {
	r := chi.NewRouter()

	for _, mw := range MiddlewareStack(MiddlewareConfig{
		Logger:  params.Logger,
		Config:  params.Config,
		Metrics: params.Metrics,
	}) {
		r.Use(mw)
	}

	r.Use(chimw.Logger)

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{"status":"ok"}`))
	})

	if params.Metrics != nil {
		r.Handle("/metrics", params.Metrics.Handler())
	}

	r.Handle("/static/*", http.FileServer(http.FS(web.Static)))

	r.Route("/api", func(api chi.Router) {
		api.Route("/auth", params.AuthHandler.MountRoutes)
		api.Route("/upload", params.UploadHandler.MountRoutes)
		for _, res := range proxy.Resources {
			res := res
			handler := proxy.NewHandler(params.Logger, params.Client, res)
			api.Route("/"+res.Name, func(r chi.Router) {
				if res.Aggregates && params.SummaryHandler != nil {
					params.SummaryHandler.MountRoutes(r, res.Path)
				}
				handler.MountRoutes(r)
			})
		}
	})

	if params.PagesHandler != nil {
		params.PagesHandler.MountRoutes(r)
	}

	return r
}
