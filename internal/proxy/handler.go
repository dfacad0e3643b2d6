// Package proxy forwards resource CRUD requests to the upstream API and
// translates responses into the uniform envelope.
package proxy

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"net/url"

	"github.com/go-chi/chi/v5"

	"github.com/cofre-app/cofre/internal/auth"
	"github.com/cofre-app/cofre/internal/platform/httpx"
	"github.com/cofre-app/cofre/internal/platform/upstream"
	"github.com/cofre-app/cofre/internal/query"
)

// Child is a nested list under a resource, e.g. an invoice's transactions.
type Child struct {
	Segment    string
	FilterKeys []string
}

// Resource configures one proxied resource. Aggregates marks resources that
// also expose /summary and /stats routes.
type Resource struct {
	Name       string // route segment under /api
	Path       string // upstream path
	FilterKeys []string
	Protected  bool
	Aggregates bool
	Children   []Child
}

// Handler proxies one resource's verbs.
type Handler struct {
	logger *slog.Logger
	client *upstream.Client
	res    Resource
}

// NewHandler constructs a Handler instance.
func NewHandler(logger *slog.Logger, client *upstream.Client, res Resource) *Handler {
	return &Handler{logger: logger, client: client, res: res}
}

// MountRoutes registers the resource routes on the provided router.
func (h *Handler) MountRoutes(r chi.Router) {
	r.Get("/", h.list)
	r.Post("/", h.create)
	r.Put("/{id}", h.update)
	r.Delete("/{id}", h.delete)
	for _, child := range h.res.Children {
		r.Get("/{id}/"+child.Segment, h.childList(child))
	}
}

func (h *Handler) token(r *http.Request) (string, *httpx.Error) {
	if !h.res.Protected {
		return auth.TokenFromRequest(r), nil
	}
	token := auth.TokenFromRequest(r)
	if token == "" {
		return "", httpx.Unauthorized()
	}
	return token, nil
}

// forwardQuery keeps only the list parameters and the resource's filter
// keys, preserving repeated filter values.
func forwardQuery(incoming url.Values, filterKeys []string) url.Values {
	values := url.Values{}
	for _, key := range []string{query.ParamPage, query.ParamPageSize, query.ParamOrderBy, query.ParamOrderDirection, query.ParamSearch} {
		if v := incoming.Get(key); v != "" {
			values.Set(key, v)
		}
	}
	for _, key := range filterKeys {
		for _, v := range incoming[key] {
			values.Add(key, v)
		}
	}
	return values
}

func (h *Handler) list(w http.ResponseWriter, r *http.Request) {
	token, authErr := h.token(r)
	if authErr != nil {
		httpx.RespondError(w, authErr)
		return
	}

	values := forwardQuery(r.URL.Query(), h.res.FilterKeys)
	res, err := h.client.Do(r.Context(), http.MethodGet, h.res.Path, values, nil, token)
	if err != nil {
		h.respondFault(w, "list "+h.res.Name, err)
		return
	}
	httpx.List(w, rawData(res.Body), res.Total())
}

func (h *Handler) childList(child Child) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		token, authErr := h.token(r)
		if authErr != nil {
			httpx.RespondError(w, authErr)
			return
		}

		id := chi.URLParam(r, "id")
		values := forwardQuery(r.URL.Query(), child.FilterKeys)
		path := h.res.Path + "/" + id + "/" + child.Segment
		res, err := h.client.Do(r.Context(), http.MethodGet, path, values, nil, token)
		if err != nil {
			h.respondFault(w, "list "+h.res.Name+" "+child.Segment, err)
			return
		}
		httpx.List(w, rawData(res.Body), res.Total())
	}
}

func (h *Handler) create(w http.ResponseWriter, r *http.Request) {
	h.mutate(w, r, http.MethodPost, h.res.Path)
}

func (h *Handler) update(w http.ResponseWriter, r *http.Request) {
	h.mutate(w, r, http.MethodPut, h.res.Path+"/"+chi.URLParam(r, "id"))
}

// mutate forwards the request body verbatim; the upstream owns validation of
// resource payloads.
func (h *Handler) mutate(w http.ResponseWriter, r *http.Request, method, path string) {
	token, authErr := h.token(r)
	if authErr != nil {
		httpx.RespondError(w, authErr)
		return
	}

	res, err := h.client.DoRaw(r.Context(), method, path, nil, "application/json", r.Body, token)
	if err != nil {
		h.respondFault(w, method+" "+h.res.Name, err)
		return
	}
	httpx.Data(w, http.StatusOK, rawData(res.Body))
}

func (h *Handler) delete(w http.ResponseWriter, r *http.Request) {
	token, authErr := h.token(r)
	if authErr != nil {
		httpx.RespondError(w, authErr)
		return
	}

	id := chi.URLParam(r, "id")
	res, err := h.client.Do(r.Context(), http.MethodDelete, h.res.Path+"/"+id, nil, nil, token)
	if err != nil {
		h.respondFault(w, "delete "+h.res.Name, err)
		return
	}
	httpx.Data(w, http.StatusOK, rawData(res.Body))
}

func (h *Handler) respondFault(w http.ResponseWriter, op string, err error) {
	normalized := NormalizeFault(err)
	h.logger.Error(op+" failed", slog.Int("status", normalized.StatusCode), slog.String("message", normalized.StatusMessage))
	httpx.RespondError(w, normalized)
}

// NormalizeFault converts an upstream failure into the normalized error,
// applying the generic fallbacks.
func NormalizeFault(err error) *httpx.Error {
	var fault *upstream.Fault
	if errors.As(err, &fault) {
		return fault.Normalize()
	}
	return httpx.Normalize(err)
}

// rawData re-emits the upstream body without re-encoding. Empty bodies
// become JSON null.
func rawData(body []byte) json.RawMessage {
	if len(body) == 0 {
		return json.RawMessage("null")
	}
	return json.RawMessage(body)
}
