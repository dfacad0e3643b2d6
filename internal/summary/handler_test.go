package summary_test

import (
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/go-chi/chi/v5"
	"github.com/redis/go-redis/v9"

	"github.com/cofre-app/cofre/internal/auth"
	"github.com/cofre-app/cofre/internal/platform/cache"
	"github.com/cofre-app/cofre/internal/platform/upstream"
	"github.com/cofre-app/cofre/internal/summary"
)

func newSummaryRouter(t *testing.T, backend http.HandlerFunc, responses *cache.ResponseCache) http.Handler {
	t.Helper()
	server := httptest.NewServer(backend)
	t.Cleanup(server.Close)

	client := upstream.New(server.URL, time.Second)
	handler := summary.NewHandler(slog.New(slog.NewTextHandler(io.Discard, nil)), client, responses)

	r := chi.NewRouter()
	r.Route("/api/debts", func(r chi.Router) {
		handler.MountRoutes(r, "/api/v1/debts")
	})
	return r
}

func newTestCache(t *testing.T) *cache.ResponseCache {
	t.Helper()
	mini := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mini.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	return cache.NewResponseCache(client, time.Minute)
}

func TestSummaryCachesUpstreamResponse(t *testing.T) {
	calls := 0
	var gotPath, gotQuery string
	router := newSummaryRouter(t, func(w http.ResponseWriter, r *http.Request) {
		calls++
		gotPath = r.URL.Path
		gotQuery = r.URL.RawQuery
		_, _ = w.Write([]byte(`{"total":150.5}`))
	}, newTestCache(t))

	for i := 0; i < 2; i++ {
		req := httptest.NewRequest(http.MethodGet, "/api/debts/summary?period=month&start_date=2024-01-01&ignored=x", nil)
		req.AddCookie(&http.Cookie{Name: auth.CookieName, Value: "tok"})
		res := httptest.NewRecorder()
		router.ServeHTTP(res, req)

		if res.Code != http.StatusOK {
			t.Fatalf("request %d: expected 200, got %d", i, res.Code)
		}
		if !strings.Contains(res.Body.String(), `"total":150.5`) {
			t.Fatalf("request %d: unexpected body: %s", i, res.Body.String())
		}
	}

	if calls != 1 {
		t.Fatalf("expected one upstream call, got %d", calls)
	}
	if gotPath != "/api/v1/debts/summary" {
		t.Fatalf("unexpected upstream path: %s", gotPath)
	}
	if strings.Contains(gotQuery, "ignored") {
		t.Fatalf("unexpected forwarded parameter: %s", gotQuery)
	}
	if !strings.Contains(gotQuery, "period=month") || !strings.Contains(gotQuery, "start_date=2024-01-01") {
		t.Fatalf("aggregation params not forwarded: %s", gotQuery)
	}
}

func TestSummaryDistinctQueriesAreDistinctEntries(t *testing.T) {
	calls := 0
	router := newSummaryRouter(t, func(w http.ResponseWriter, r *http.Request) {
		calls++
		_, _ = w.Write([]byte(`{}`))
	}, newTestCache(t))

	for _, target := range []string{"/api/debts/summary?period=month", "/api/debts/summary?period=year", "/api/debts/stats?period=month"} {
		req := httptest.NewRequest(http.MethodGet, target, nil)
		req.AddCookie(&http.Cookie{Name: auth.CookieName, Value: "tok"})
		res := httptest.NewRecorder()
		router.ServeHTTP(res, req)
		if res.Code != http.StatusOK {
			t.Fatalf("%s: expected 200, got %d", target, res.Code)
		}
	}

	if calls != 3 {
		t.Fatalf("expected three upstream calls, got %d", calls)
	}
}

func TestSummaryWithoutCacheStillWorks(t *testing.T) {
	calls := 0
	router := newSummaryRouter(t, func(w http.ResponseWriter, r *http.Request) {
		calls++
		_, _ = w.Write([]byte(`{"count":3}`))
	}, nil)

	for i := 0; i < 2; i++ {
		req := httptest.NewRequest(http.MethodGet, "/api/debts/stats", nil)
		req.AddCookie(&http.Cookie{Name: auth.CookieName, Value: "tok"})
		res := httptest.NewRecorder()
		router.ServeHTTP(res, req)
		if res.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d", res.Code)
		}
	}

	if calls != 2 {
		t.Fatalf("expected every request upstream without cache, got %d calls", calls)
	}
}

func TestSummaryRequiresCredential(t *testing.T) {
	called := false
	router := newSummaryRouter(t, func(w http.ResponseWriter, r *http.Request) {
		called = true
	}, nil)

	req := httptest.NewRequest(http.MethodGet, "/api/debts/summary", nil)
	res := httptest.NewRecorder()
	router.ServeHTTP(res, req)

	if res.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", res.Code)
	}
	if called {
		t.Fatal("upstream must not be called without a credential")
	}
}

func TestSummaryUpstreamErrorNotCached(t *testing.T) {
	calls := 0
	router := newSummaryRouter(t, func(w http.ResponseWriter, r *http.Request) {
		calls++
		if calls == 1 {
			w.WriteHeader(http.StatusInternalServerError)
			return
		}
		_, _ = w.Write([]byte(`{"ok":true}`))
	}, newTestCache(t))

	req := httptest.NewRequest(http.MethodGet, "/api/debts/summary", nil)
	req.AddCookie(&http.Cookie{Name: auth.CookieName, Value: "tok"})
	res := httptest.NewRecorder()
	router.ServeHTTP(res, req)
	if res.Code != http.StatusInternalServerError {
		t.Fatalf("expected 500, got %d", res.Code)
	}

	req = httptest.NewRequest(http.MethodGet, "/api/debts/summary", nil)
	req.AddCookie(&http.Cookie{Name: auth.CookieName, Value: "tok"})
	res = httptest.NewRecorder()
	router.ServeHTTP(res, req)
	if res.Code != http.StatusOK {
		t.Fatalf("expected 200 after retry, got %d", res.Code)
	}
	if calls != 2 {
		t.Fatalf("failure must not be cached; got %d calls", calls)
	}
}
