package hubspot

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type page struct {
	size int
	next string
}

// pagedServer serves pages keyed by the request cursor ("" for the first).
func pagedServer(t *testing.T, pages map[string]page, calls *atomic.Int32) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		var req SearchRequest
		if !assert.NoError(t, json.NewDecoder(r.Body).Decode(&req)) {
			w.WriteHeader(http.StatusBadRequest)
			return
		}

		p, ok := pages[req.After]
		if !ok {
			w.WriteHeader(http.StatusBadRequest)
			return
		}

		results := make([]string, p.size)
		for i := range results {
			results[i] = fmt.Sprintf(`{"id":"%d"}`, i)
		}
		paging := ""
		if p.next != "" {
			paging = fmt.Sprintf(`,"paging":{"next":{"after":%q}}`, p.next)
		}
		// A misleading total must be ignored.
		fmt.Fprintf(w, `{"total":9999,"results":[%s]%s}`, strings.Join(results, ","), paging)
	}))
	t.Cleanup(srv.Close)
	return srv
}

func TestCountTickets_SumsPages(t *testing.T) {
	t.Parallel()
	var calls atomic.Int32
	srv := pagedServer(t, map[string]page{
		"":    {size: 100, next: "100"},
		"100": {size: 100, next: "200"},
		"200": {size: 37},
	}, &calls)

	got, err := CountTickets(context.Background(), newTestClient(srv), "P1", "S1")

	require.NoError(t, err)
	assert.Equal(t, 237, got)
	assert.Equal(t, int32(3), calls.Load())
}

func TestCountTickets_EmptyFirstPage(t *testing.T) {
	t.Parallel()
	var calls atomic.Int32
	srv := pagedServer(t, map[string]page{"": {size: 0}}, &calls)

	got, err := CountTickets(context.Background(), newTestClient(srv), "P1", "S1")

	require.NoError(t, err)
	assert.Equal(t, 0, got)
	assert.Equal(t, int32(1), calls.Load())
}

func TestCountTickets_FailureDiscardsPartialTotal(t *testing.T) {
	t.Parallel()
	var calls atomic.Int32
	// Second cursor has no page, so the server answers 400.
	srv := pagedServer(t, map[string]page{
		"": {size: 100, next: "missing"},
	}, &calls)

	got, err := CountTickets(context.Background(), newTestClient(srv), "P1", "S7")

	require.Error(t, err)
	assert.Equal(t, 0, got)

	var cf *CountFetchError
	require.True(t, errors.As(err, &cf))
	assert.Equal(t, "S7", cf.StageID)

	var se *StatusError
	require.True(t, errors.As(err, &se))
	assert.Equal(t, http.StatusBadRequest, se.StatusCode)
}

func TestCountTickets_PageLimit(t *testing.T) {
	t.Parallel()
	var calls atomic.Int32
	srv := pagedServer(t, map[string]page{
		"":  {size: 100, next: "a"},
		"a": {size: 100, next: ""},
	}, &calls)
	// Endless cursor chain.
	loop := pagedServer(t, map[string]page{
		"":     {size: 1, next: "loop"},
		"loop": {size: 1, next: "loop"},
	}, &calls)

	got, err := CountTickets(context.Background(), newTestClient(srv), "P1", "S1", WithMaxPages(2))
	require.NoError(t, err)
	assert.Equal(t, 200, got)

	_, err = CountTickets(context.Background(), newTestClient(loop), "P1", "S1", WithMaxPages(5))
	var pl *PageLimitError
	require.True(t, errors.As(err, &pl))
	assert.Equal(t, 5, pl.MaxPages)
	assert.Equal(t, "S1", pl.StageID)
}

func TestWithMaxPages_IgnoresNonPositive(t *testing.T) {
	cfg := countConfig{maxPages: defaultMaxPages}
	WithMaxPages(0)(&cfg)
	WithMaxPages(-3)(&cfg)
	assert.Equal(t, defaultMaxPages, cfg.maxPages)
}
