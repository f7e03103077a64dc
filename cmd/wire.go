package main

import (
	"context"
	"io"
	"time"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/sells-group/roster-cli/internal/config"
	"github.com/sells-group/roster-cli/internal/dataset"
	"github.com/sells-group/roster-cli/internal/enrich"
	"github.com/sells-group/roster-cli/internal/fetcher"
	"github.com/sells-group/roster-cli/internal/geo"
	"github.com/sells-group/roster-cli/internal/pipeline"
	"github.com/sells-group/roster-cli/internal/resilience"
	"github.com/sells-group/roster-cli/internal/roster"
	"github.com/sells-group/roster-cli/pkg/geocode"
)

type nopCloser struct{}

func (nopCloser) Close() error { return nil }

func initStore(c *config.Config) (*dataset.FileStore, error) {
	st, err := dataset.NewFileStore(c.Output.Dir, c.Output.DatasetFile, c.Output.SlicesDir)
	if err != nil {
		return nil, eris.Wrap(err, "init store")
	}
	return st, nil
}

func initRosterClient(c *config.Config) *roster.Client {
	f := fetcher.NewHTTPFetcher(fetcher.HTTPOptions{
		UserAgent:  c.API.UserAgent,
		Timeout:    time.Duration(c.API.TimeoutSecs) * time.Second,
		RatePerSec: c.API.RatePerSec,
	})
	return roster.NewClient(f, roster.Options{
		BaseURL:      c.API.BaseURL,
		DefaultLimit: c.Fetch.Limit,
		Seasons:      roster.NewSeasons(c.Seasons.Overrides()),
	})
}

func cacheTTL(c *config.Config) time.Duration {
	return time.Duration(c.Geocode.CacheTTLDays) * 24 * time.Hour
}

// initGeocoder builds the Nominatim client, wrapped in the SQLite cache when
// enabled. The returned closer releases the cache.
func initGeocoder(ctx context.Context, c *config.Config) (geocode.Client, io.Closer, error) {
	g := c.Geocode
	client := geocode.NewClient(
		geocode.WithBaseURL(g.BaseURL),
		geocode.WithUserAgent(g.UserAgent),
		geocode.WithEmail(g.Email),
		geocode.WithTimeout(time.Duration(g.TimeoutSecs)*time.Second),
		geocode.WithRateLimit(g.RatePerSec),
	)
	if !g.CacheEnabled {
		return client, nopCloser{}, nil
	}

	cache, err := geocode.OpenCache(ctx, g.CachePath, cacheTTL(c))
	if err != nil {
		return nil, nil, eris.Wrap(err, "init geocode cache")
	}
	zap.L().Debug("geocode cache enabled", zap.String("path", g.CachePath))
	return geocode.NewCachedClient(client, cache), cache, nil
}

func retryConfig(c *config.Config) resilience.RetryConfig {
	rc := resilience.DefaultRetryConfig()
	rc.MaxAttempts = c.Geocode.MaxAttempts
	rc.InitialBackoff = time.Duration(c.Geocode.InitialBackoffMs) * time.Millisecond
	rc.Multiplier = c.Geocode.Multiplier
	return rc
}

// initRunner wires a fetch-capable pipeline runner.
func initRunner(ctx context.Context, c *config.Config, st pipeline.Store) (*pipeline.Runner, io.Closer, error) {
	gc, closer, err := initGeocoder(ctx, c)
	if err != nil {
		return nil, nil, err
	}
	resolver := geo.NewResolver(gc, retryConfig(c))
	return pipeline.NewRunner(initRosterClient(c), enrich.New(resolver), st), closer, nil
}
