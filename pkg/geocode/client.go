// Package geocode resolves free-text place names to coordinates via the
// Nominatim search API, with an optional SQLite-backed result cache.
package geocode

import (
	"context"
	"net/http"
	"strings"
	"time"

	"golang.org/x/time/rate"
)

const (
	defaultBaseURL   = "https://nominatim.openstreetmap.org"
	defaultUserAgent = "roster-cli/1.0"
)

// Client geocodes a free-text query. A query with no match is not an error:
// it returns a Result with Matched false.
type Client interface {
	Geocode(ctx context.Context, query string) (*Result, error)
}

// Result holds the best match for a query.
type Result struct {
	Latitude    float64
	Longitude   float64
	DisplayName string
	Source      string // "nominatim" or "cache"
	Matched     bool
}

// Option configures the geocoder.
type Option func(*geocoder)

// WithHTTPClient sets a custom HTTP client.
func WithHTTPClient(hc *http.Client) Option {
	return func(g *geocoder) {
		g.httpClient = hc
	}
}

// WithTimeout sets the per-request timeout of the default HTTP client.
func WithTimeout(d time.Duration) Option {
	return func(g *geocoder) {
		if d > 0 {
			g.httpClient = &http.Client{Timeout: d}
		}
	}
}

// WithRateLimit sets the requests-per-second rate limit. Nominatim's public
// usage policy allows at most one request per second.
func WithRateLimit(rps float64) Option {
	return func(g *geocoder) {
		burst := int(rps)
		if burst < 1 {
			burst = 1
		}
		g.limiter = rate.NewLimiter(rate.Limit(rps), burst)
	}
}

// WithBaseURL points the client at a different Nominatim deployment.
func WithBaseURL(u string) Option {
	return func(g *geocoder) {
		if u != "" {
			g.baseURL = strings.TrimRight(u, "/")
		}
	}
}

// WithUserAgent sets the User-Agent header Nominatim requires.
func WithUserAgent(ua string) Option {
	return func(g *geocoder) {
		if ua != "" {
			g.userAgent = ua
		}
	}
}

// WithEmail sets the contact address sent with each request.
func WithEmail(email string) Option {
	return func(g *geocoder) {
		g.email = email
	}
}

type geocoder struct {
	httpClient *http.Client
	limiter    *rate.Limiter
	baseURL    string
	userAgent  string
	email      string
}

// NewClient creates a Nominatim-backed Client with the given options.
func NewClient(opts ...Option) Client {
	g := &geocoder{
		httpClient: &http.Client{Timeout: 10 * time.Second},
		limiter:    rate.NewLimiter(1, 1),
		baseURL:    defaultBaseURL,
		userAgent:  defaultUserAgent,
	}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

// normalizeQuery collapses whitespace so equivalent queries share cache keys.
func normalizeQuery(q string) string {
	return strings.Join(strings.Fields(q), " ")
}
