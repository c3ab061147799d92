package client

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/dmitrijs2005/stocksentry/internal/client/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCreateUser_ReturnsPlainTextID(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodPost, r.Method)
		require.Equal(t, "/user", r.URL.Path)

		var p map[string]string
		require.NoError(t, json.NewDecoder(r.Body).Decode(&p))
		assert.Equal(t, "alice@example.com", p["email"])

		_, _ = w.Write([]byte("backend-uuid-1\n"))
	}))
	defer srv.Close()

	c := NewStockSentryClient(srv.URL)
	id, err := c.CreateUser(context.Background(), &models.User{
		Name: "Alice", Email: "alice@example.com", PhoneNumber: "555-0100",
	})
	require.NoError(t, err)
	assert.Equal(t, "backend-uuid-1", id)
}

func TestUpsertWatchlist_SendsWireForm(t *testing.T) {
	var got map[string]any
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/watchlist/upsert", r.URL.Path)
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	c := NewStockSentryClient(srv.URL)
	err := c.UpsertWatchlist(context.Background(), &models.Watchlist{
		ID: "w1", UserID: "u1", Name: "Tech",
		Symbols:   []string{"AAPL", "MSFT"},
		SyncState: models.SyncStatePendingUpsert,
	})
	require.NoError(t, err)

	assert.Equal(t, "w1", got["id"])
	assert.Equal(t, "u1", got["userId"])
	assert.Equal(t, "Tech", got["name"])
	assert.Equal(t, []any{"AAPL", "MSFT"}, got["symbols"])
	// local sync state never crosses the wire
	_, hasState := got["syncState"]
	assert.False(t, hasState)
}

func TestDeleteWatchlist_NotFoundIsSuccess(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodDelete, r.Method)
		w.WriteHeader(http.StatusNotFound)
	}))
	defer srv.Close()

	c := NewStockSentryClient(srv.URL)
	assert.NoError(t, c.DeleteWatchlist(context.Background(), "gone"))
}

func TestDo_MapsStatusesToTypedErrors(t *testing.T) {
	tests := []struct {
		status int
		want   error
	}{
		{http.StatusInternalServerError, ErrUnavailable},
		{http.StatusBadGateway, ErrUnavailable},
		{http.StatusRequestTimeout, ErrUnavailable},
		{http.StatusTooManyRequests, ErrUnavailable},
		{http.StatusUnauthorized, ErrUnauthorized},
		{http.StatusForbidden, ErrUnauthorized},
		{http.StatusBadRequest, ErrRejected},
		{http.StatusConflict, ErrRejected},
	}

	for _, tc := range tests {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(tc.status)
		}))

		c := NewStockSentryClient(srv.URL)
		err := c.Health(context.Background())
		assert.ErrorIs(t, err, tc.want, "status %d", tc.status)

		srv.Close()
	}
}

func TestDo_TransportErrorIsUnavailable(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	srv.Close() // connection refused from here on

	c := NewStockSentryClient(srv.URL)
	err := c.Health(context.Background())
	assert.ErrorIs(t, err, ErrUnavailable)
}

func TestListWatchlists_DecodesAndMarksSynced(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/watchlist/u1", r.URL.Path)
		_, _ = w.Write([]byte(`[{"id":"w1","userId":"u1","name":"Tech","symbols":["AAPL"]}]`))
	}))
	defer srv.Close()

	c := NewStockSentryClient(srv.URL)
	lists, err := c.ListWatchlists(context.Background(), "u1")
	require.NoError(t, err)
	require.Len(t, lists, 1)
	assert.Equal(t, "w1", lists[0].ID)
	assert.Equal(t, models.SyncStateSynced, lists[0].SyncState)
}

func TestGetSharedWatchlist_PassesOTPAndUser(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/watchlist/share/123456", r.URL.Path)
		require.Equal(t, "u1", r.URL.Query().Get("userId"))
		_, _ = w.Write([]byte(`{"id":"w9","userId":"u2","name":"Shared","symbols":["TSLA"]}`))
	}))
	defer srv.Close()

	c := NewStockSentryClient(srv.URL)
	w, err := c.GetSharedWatchlist(context.Background(), "123456", "u1")
	require.NoError(t, err)
	assert.Equal(t, "w9", w.ID)
	assert.Equal(t, []string{"TSLA"}, w.Symbols)
}

func TestGetNews_Decodes(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/news/AAPL", r.URL.Path)
		_, _ = w.Write([]byte(`{"status":"ok","totalResults":1,"articles":[{"title":"t","url":"http://x"}]}`))
	}))
	defer srv.Close()

	c := NewStockSentryClient(srv.URL)
	news, err := c.GetNews(context.Background(), "AAPL")
	require.NoError(t, err)
	assert.Equal(t, 1, news.TotalResults)
	require.Len(t, news.Articles, 1)
	assert.Equal(t, "t", news.Articles[0].Title)
}
