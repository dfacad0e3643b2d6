// Package pages serves the server-rendered table views on top of the list
// fetcher and the table configuration.
package pages

import (
	"fmt"
	"log/slog"
	"math"
	"net/http"
	"net/url"

	"github.com/go-chi/chi/v5"

	"github.com/cofre-app/cofre/internal/auth"
	"github.com/cofre-app/cofre/internal/list"
	"github.com/cofre-app/cofre/internal/platform/httpx"
	"github.com/cofre-app/cofre/internal/platform/upstream"
	"github.com/cofre-app/cofre/internal/proxy"
	"github.com/cofre-app/cofre/internal/query"
	"github.com/cofre-app/cofre/internal/table"
	"github.com/cofre-app/cofre/internal/view"
)

// Handler renders the HTML pages.
type Handler struct {
	logger    *slog.Logger
	templates *view.Engine
	client    *upstream.Client
	pageSize  int
}

// NewHandler constructs a Handler instance.
func NewHandler(logger *slog.Logger, templates *view.Engine, client *upstream.Client, pageSize int) *Handler {
	return &Handler{logger: logger, templates: templates, client: client, pageSize: pageSize}
}

// MountRoutes registers the page routes on the provided router.
func (h *Handler) MountRoutes(r chi.Router) {
	r.Get("/", h.home)
	r.Get("/login", h.showLogin)
	for _, def := range table.Definitions {
		def := def
		r.Get("/"+def.Resource, h.showTable(def))
		r.Post("/"+def.Resource+"/{id}/delete", h.handleDelete(def))
	}
	r.Get("/invoices/{id}/transactions", h.showInvoiceTransactions)
}

// Views passed to the table template.

type headerView struct {
	Label     string
	Sortable  bool
	Active    bool
	Direction string
	Href      string
}

type actionView struct {
	Label    string
	Href     string
	Endpoint string
	Danger   bool
}

type rowView struct {
	ID      string
	Cells   []table.Cell
	Actions []actionView
}

type paginationView struct {
	Page       int
	TotalPages int
	Total      int
	PrevHref   string
	NextHref   string
}

type tableView struct {
	Definition table.Definition
	Headers    []headerView
	Rows       []rowView
	Pagination paginationView
	Search     string
	SearchHref string
}

func (h *Handler) home(w http.ResponseWriter, r *http.Request) {
	h.render(w, "pages/home.html", view.TemplateData{
		Title:       "Cofre",
		CurrentPath: r.URL.Path,
		Flash:       popFlash(w, r),
		Data:        table.Definitions,
	})
}

func (h *Handler) showLogin(w http.ResponseWriter, r *http.Request) {
	h.render(w, "pages/login.html", view.TemplateData{
		Title:       "Entrar",
		CurrentPath: r.URL.Path,
	})
}

func (h *Handler) showTable(def table.Definition) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		h.renderTable(w, r, def, proxy.UpstreamPath(def.Resource), "/"+def.Resource, def.Title)
	}
}

func (h *Handler) showInvoiceTransactions(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	upstreamPath := proxy.UpstreamPath("invoices") + "/" + id + "/transactions"
	basePath := "/invoices/" + id + "/transactions"
	h.renderTable(w, r, table.Transactions, upstreamPath, basePath, "Transações da Fatura")
}

func (h *Handler) renderTable(w http.ResponseWriter, r *http.Request, def table.Definition, upstreamPath, basePath, title string) {
	token := auth.TokenFromRequest(r)
	if token == "" {
		http.Redirect(w, r, "/login", http.StatusSeeOther)
		return
	}

	codec := query.Codec{DefaultPageSize: h.pageSize, FilterKeys: def.FilterKeys}
	q := codec.Decode(r.URL.Query())

	// Keep the address bar canonical: re-encode the decoded state and
	// replace the URL when default-valued fields were spelled out.
	if canonical := codec.Encode(q).Encode(); canonical != knownParams(codec, r.URL.Query()).Encode() {
		target := basePath
		if canonical != "" {
			target += "?" + canonical
		}
		http.Redirect(w, r, target, http.StatusFound)
		return
	}

	fetcher := list.NewFetcher(h.client, upstreamPath, nil)
	if err := fetcher.Fetch(r.Context(), q, token); err != nil {
		h.renderError(w, r, err)
		return
	}
	snap := fetcher.Snapshot()

	headers := make([]headerView, 0, len(def.Columns))
	for _, header := range table.Headers(q, def.Columns) {
		headers = append(headers, headerView{
			Label:     header.Label,
			Sortable:  header.Sortable,
			Active:    header.Active,
			Direction: header.Direction,
			Href:      hrefFor(basePath, codec, header.Target),
		})
	}

	rows := make([]rowView, 0, len(snap.Items))
	for _, item := range snap.Items {
		id := rowID(item)
		cells := make([]table.Cell, 0, len(def.Columns))
		for _, col := range def.Columns {
			cells = append(cells, col.Render(item))
		}
		rows = append(rows, rowView{ID: id, Cells: cells, Actions: h.rowActions(def, id)})
	}

	totalPages := 0
	if q.PageSize > 0 {
		totalPages = int(math.Ceil(float64(snap.Total) / float64(q.PageSize)))
	}
	pagination := paginationView{Page: q.Page, TotalPages: totalPages, Total: snap.Total}
	if q.Page > 1 {
		pagination.PrevHref = hrefFor(basePath, codec, q.WithPage(q.Page-1))
	}
	if q.Page < totalPages {
		pagination.NextHref = hrefFor(basePath, codec, q.WithPage(q.Page+1))
	}

	h.render(w, "pages/table.html", view.TemplateData{
		Title:       title,
		CurrentPath: r.URL.Path,
		Flash:       popFlash(w, r),
		Data: tableView{
			Definition: def,
			Headers:    headers,
			Rows:       rows,
			Pagination: pagination,
			Search:     q.Search,
			SearchHref: basePath,
		},
	})
}

// rowActions maps the contextual menu onto links and form endpoints the
// template can render.
func (h *Handler) rowActions(def table.Definition, id string) []actionView {
	cfg := table.ActionConfig{Resource: def.Resource, ID: id}
	if def.NavHref != nil {
		cfg.NavLabel = def.NavLabel
		cfg.NavHref = def.NavHref(id)
	}

	views := make([]actionView, 0, 4)
	for _, action := range table.RowActions(cfg) {
		av := actionView{Label: action.Label, Href: action.Href, Danger: action.Danger}
		if action.Danger {
			av.Endpoint = "/" + def.Resource + "/" + id + "/delete"
		}
		views = append(views, av)
	}
	return views
}

func (h *Handler) handleDelete(def table.Definition) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		token := auth.TokenFromRequest(r)
		if token == "" {
			http.Redirect(w, r, "/login", http.StatusSeeOther)
			return
		}

		id := chi.URLParam(r, "id")
		cfg := table.ActionConfig{
			Resource:      def.Resource,
			ID:            id,
			Notifier:      flashNotifier{w: w},
			Deleter:       upstreamDeleter{client: h.client, token: token},
			DeleteSuccess: def.DeleteSuccess,
			DeleteFailure: def.DeleteFailure,
		}
		for _, action := range table.RowActions(cfg) {
			if action.Danger && action.Run != nil {
				action.Run(r.Context())
			}
		}

		http.Redirect(w, r, "/"+def.Resource, http.StatusSeeOther)
	}
}

func (h *Handler) renderError(w http.ResponseWriter, r *http.Request, err error) {
	normalized := httpx.Normalize(err)
	w.WriteHeader(normalized.StatusCode)
	h.render(w, "pages/error.html", view.TemplateData{
		Title:       "Erro",
		CurrentPath: r.URL.Path,
		Data:        normalized,
	})
}

func (h *Handler) render(w http.ResponseWriter, name string, data view.TemplateData) {
	if err := h.templates.Render(w, name, data); err != nil {
		h.logger.Error("render "+name, slog.Any("error", err))
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
	}
}

// hrefFor builds a page link for a list state, omitting default-valued
// fields.
func hrefFor(basePath string, codec query.Codec, q query.ListQuery) string {
	encoded := codec.Encode(q).Encode()
	if encoded == "" {
		return basePath
	}
	return basePath + "?" + encoded
}

// knownParams strips a raw query down to the keys the codec owns.
func knownParams(codec query.Codec, values url.Values) url.Values {
	known := url.Values{}
	for _, key := range []string{query.ParamPage, query.ParamPageSize, query.ParamOrderBy, query.ParamOrderDirection, query.ParamSearch} {
		for _, v := range values[key] {
			known.Add(key, v)
		}
	}
	for _, key := range codec.FilterKeys {
		for _, v := range values[key] {
			known.Add(key, v)
		}
	}
	return known
}

func rowID(item map[string]any) string {
	switch id := item["id"].(type) {
	case string:
		return id
	case float64:
		return fmt.Sprintf("%.0f", id)
	default:
		return ""
	}
}
