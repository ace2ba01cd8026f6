package collector

import (
	"context"
	"math"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"ChartDesk/internal/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRESTFetcher_FetchDaily(t *testing.T) {
	var auth, symbol, limit string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		auth = r.Header.Get("Authorization")
		symbol, limit = r.URL.Query().Get("symbol"), r.URL.Query().Get("limit")
		w.Write([]byte(`[
			{"timestamp":1704153600,"open":10,"high":11,"low":9,"close":10.5,"volume":100},
			{"timestamp":1704240000,"open":10.5,"high":12,"low":10,"close":11,"volume":null}
		]`))
	}))
	defer srv.Close()

	f := NewRESTFetcher(srv.URL, "secret", "", time.Second)
	bars, err := f.FetchDaily(context.Background(), "2330.TW", model.Recent2Y)
	require.NoError(t, err)
	assert.Equal(t, "Bearer secret", auth)
	assert.Equal(t, "2330.TW", symbol)
	assert.Equal(t, "527", limit)
	require.Len(t, bars, 2)
	assert.Equal(t, time.Date(2024, 1, 2, 0, 0, 0, 0, time.UTC), bars[0].Time)
	assert.True(t, math.IsNaN(bars[1].Volume))
}

func TestRESTFetcher_Empty(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Empty(t, r.URL.Query().Get("limit"), "max period sends no limit")
		w.Write([]byte(`[]`))
	}))
	defer srv.Close()

	f := NewRESTFetcher(srv.URL, "", "", time.Second)
	_, err := f.FetchDaily(context.Background(), "X", model.Max)
	assert.ErrorIs(t, err, model.ErrNotFound)
}
