package list

import (
	"context"
	"net/http"
	"net/http/httptest"
	"net/url"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cofre-app/cofre/internal/platform/upstream"
	"github.com/cofre-app/cofre/internal/query"
)

func testQuery() query.ListQuery {
	codec := query.Codec{DefaultPageSize: 10}
	return codec.New()
}

func TestFetchSuccess(t *testing.T) {
	var gotQuery, gotAuth string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotQuery = r.URL.RawQuery
		gotAuth = r.Header.Get("Authorization")
		w.Header().Set(upstream.TotalHeader, "25")
		_, _ = w.Write([]byte(`[{"id":"1","title":"Mercado"},{"id":"2","title":"Luz"}]`))
	}))
	defer server.Close()

	fetcher := NewFetcher(upstream.New(server.URL, time.Second), "/api/v1/debts", nil)
	require.Equal(t, StatusIdle, fetcher.Snapshot().Status)

	err := fetcher.Fetch(context.Background(), testQuery(), "tok")
	require.NoError(t, err)

	assert.Equal(t, "Bearer tok", gotAuth)
	assert.Contains(t, gotQuery, "page=1")
	assert.Contains(t, gotQuery, "page_size=10")

	snap := fetcher.Snapshot()
	assert.Equal(t, StatusSuccess, snap.Status)
	assert.Equal(t, 25, snap.Total)
	require.Len(t, snap.Items, 2)
	assert.Equal(t, "Mercado", snap.Items[0]["title"])
	assert.Nil(t, snap.Err)
}

func TestFetchMergesExtraFilters(t *testing.T) {
	var gotQuery url.Values
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotQuery = r.URL.Query()
		_, _ = w.Write([]byte(`[]`))
	}))
	defer server.Close()

	extra := url.Values{"invoice_id": []string{"inv-7"}}
	fetcher := NewFetcher(upstream.New(server.URL, time.Second), "/api/v1/debts", extra)
	require.NoError(t, fetcher.Fetch(context.Background(), testQuery(), "tok"))

	assert.Equal(t, "inv-7", gotQuery.Get("invoice_id"))
}

func TestFetchErrorIsNormalized(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusForbidden)
		_, _ = w.Write([]byte(`{"message":"sem permissão"}`))
	}))
	defer server.Close()

	fetcher := NewFetcher(upstream.New(server.URL, time.Second), "/api/v1/debts", nil)
	err := fetcher.Fetch(context.Background(), testQuery(), "tok")
	require.Error(t, err)

	snap := fetcher.Snapshot()
	assert.Equal(t, StatusError, snap.Status)
	require.NotNil(t, snap.Err)
	assert.Equal(t, http.StatusForbidden, snap.Err.StatusCode)
	assert.Equal(t, "sem permissão", snap.Err.StatusMessage)
}

func TestFetchStaleResponseDiscarded(t *testing.T) {
	release := make(chan struct{})
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Query().Get("page") == "1" {
			<-release
			w.Header().Set(upstream.TotalHeader, "50")
			_, _ = w.Write([]byte(`[{"id":"old"}]`))
			return
		}
		w.Header().Set(upstream.TotalHeader, "50")
		_, _ = w.Write([]byte(`[{"id":"new"}]`))
	}))
	defer server.Close()

	fetcher := NewFetcher(upstream.New(server.URL, 5*time.Second), "/api/v1/debts", nil)

	var wg sync.WaitGroup
	wg.Add(1)
	var slowErr error
	go func() {
		defer wg.Done()
		slowErr = fetcher.Fetch(context.Background(), testQuery(), "tok")
	}()

	// Give the slow fetch time to register its sequence before the newer
	// one is issued.
	time.Sleep(50 * time.Millisecond)
	require.NoError(t, fetcher.Fetch(context.Background(), testQuery().WithPage(2), "tok"))

	close(release)
	wg.Wait()

	assert.ErrorIs(t, slowErr, ErrStale)
	snap := fetcher.Snapshot()
	assert.Equal(t, StatusSuccess, snap.Status)
	require.Len(t, snap.Items, 1)
	assert.Equal(t, "new", snap.Items[0]["id"], "stale completion must not overwrite newer state")
}
