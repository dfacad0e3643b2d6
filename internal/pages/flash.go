package pages

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"net/http"

	"github.com/cofre-app/cofre/internal/platform/httpx"
	"github.com/cofre-app/cofre/internal/platform/upstream"
	"github.com/cofre-app/cofre/internal/proxy"
	"github.com/cofre-app/cofre/internal/view"
)

const flashCookie = "cofre_flash"

// flashNotifier carries row-action confirmations across the post-redirect-get
// cycle in a short-lived cookie.
type flashNotifier struct {
	w http.ResponseWriter
}

func (n flashNotifier) Success(title, description string) {
	writeFlash(n.w, view.Flash{Kind: "success", Title: title, Description: description})
}

func (n flashNotifier) Error(title, description string) {
	writeFlash(n.w, view.Flash{Kind: "error", Title: title, Description: description})
}

func writeFlash(w http.ResponseWriter, flash view.Flash) {
	payload, err := json.Marshal(flash)
	if err != nil {
		return
	}
	http.SetCookie(w, &http.Cookie{
		Name:     flashCookie,
		Value:    base64.URLEncoding.EncodeToString(payload),
		Path:     "/",
		MaxAge:   60,
		HttpOnly: true,
	})
}

// popFlash reads and expires the pending flash, if any.
func popFlash(w http.ResponseWriter, r *http.Request) *view.Flash {
	cookie, err := r.Cookie(flashCookie)
	if err != nil {
		return nil
	}
	http.SetCookie(w, &http.Cookie{Name: flashCookie, Value: "", Path: "/", MaxAge: -1, HttpOnly: true})

	payload, err := base64.URLEncoding.DecodeString(cookie.Value)
	if err != nil {
		return nil
	}
	var flash view.Flash
	if err := json.Unmarshal(payload, &flash); err != nil {
		return nil
	}
	return &flash
}

// upstreamDeleter backs the delete row action with the upstream API.
type upstreamDeleter struct {
	client *upstream.Client
	token  string
}

func (d upstreamDeleter) Delete(ctx context.Context, resource, id string) error {
	path := proxy.UpstreamPath(resource)
	if path == "" {
		return httpx.NewError(http.StatusNotFound, "Recurso desconhecido", nil)
	}
	if _, err := d.client.Do(ctx, http.MethodDelete, path+"/"+id, nil, nil, d.token); err != nil {
		return proxy.NormalizeFault(err)
	}
	return nil
}
