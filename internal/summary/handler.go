// Package summary proxies the chart aggregation endpoints (debt and
// transaction summaries and stats) with a short-lived Redis response cache
// in front of the upstream.
package summary

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"net/url"

	"github.com/go-chi/chi/v5"

	"github.com/cofre-app/cofre/internal/auth"
	"github.com/cofre-app/cofre/internal/platform/cache"
	"github.com/cofre-app/cofre/internal/platform/httpx"
	"github.com/cofre-app/cofre/internal/platform/upstream"
	"github.com/cofre-app/cofre/internal/proxy"
)

// Aggregation query parameters forwarded upstream.
var forwardedParams = []string{"period", "start_date", "end_date", "date_field"}

// Handler serves the summary and stats routes for one resource.
type Handler struct {
	logger *slog.Logger
	client *upstream.Client
	cache  *cache.ResponseCache
}

// NewHandler constructs a Handler instance. cache may be nil, in which case
// every request goes upstream.
func NewHandler(logger *slog.Logger, client *upstream.Client, responses *cache.ResponseCache) *Handler {
	return &Handler{logger: logger, client: client, cache: responses}
}

// MountRoutes registers /summary and /stats on a resource subrouter,
// forwarding to the matching paths under upstreamBase.
func (h *Handler) MountRoutes(r chi.Router, upstreamBase string) {
	r.Get("/summary", h.aggregate(upstreamBase+"/summary"))
	r.Get("/stats", h.aggregate(upstreamBase+"/stats"))
}

func (h *Handler) aggregate(path string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		token := auth.TokenFromRequest(r)
		if token == "" {
			httpx.RespondError(w, httpx.Unauthorized())
			return
		}

		values := url.Values{}
		for _, key := range forwardedParams {
			if v := r.URL.Query().Get(key); v != "" {
				values.Set(key, v)
			}
		}

		key := "summary:" + path + "?" + values.Encode()
		if body, ok := h.cache.Get(r.Context(), key); ok {
			httpx.Data(w, http.StatusOK, json.RawMessage(body))
			return
		}

		res, err := h.client.Do(r.Context(), http.MethodGet, path, values, nil, token)
		if err != nil {
			normalized := proxy.NormalizeFault(err)
			h.logger.Error("aggregate failed", slog.String("path", path), slog.Int("status", normalized.StatusCode))
			httpx.RespondError(w, normalized)
			return
		}

		body := res.Body
		if len(body) == 0 {
			body = []byte("null")
		}
		h.cache.Set(r.Context(), key, body)
		httpx.Data(w, http.StatusOK, json.RawMessage(body))
	}
}
