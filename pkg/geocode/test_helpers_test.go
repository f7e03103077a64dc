package geocode

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"
	"golang.org/x/time/rate"
)

// newTestLimiter creates a rate limiter that effectively does not limit for tests.
func newTestLimiter() *rate.Limiter {
	return rate.NewLimiter(rate.Inf, 1)
}

// newTestGeocoder returns a geocoder that talks to a test server.
func newTestGeocoder(t *testing.T, handler http.HandlerFunc) *geocoder {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return &geocoder{
		httpClient: srv.Client(),
		limiter:    newTestLimiter(),
		baseURL:    srv.URL,
		userAgent:  "test-agent",
	}
}

// newTestCache opens an in-memory cache.
func newTestCache(t *testing.T) *Cache {
	t.Helper()
	c, err := OpenCache(context.Background(), ":memory:", 0)
	require.NoError(t, err)
	t.Cleanup(func() { c.Close() }) //nolint:errcheck
	return c
}

// stubClient is a scripted Client.
type stubClient struct {
	calls   int
	results map[string]*Result
	err     error
}

func (s *stubClient) Geocode(_ context.Context, query string) (*Result, error) {
	s.calls++
	if s.err != nil {
		return nil, s.err
	}
	if r, ok := s.results[query]; ok {
		return r, nil
	}
	return &Result{Matched: false, Source: "stub"}, nil
}
