// Package roster fetches season standings and team rosters from the US
// Squash resources API.
package roster

import (
	"context"
	"encoding/json"
	"net/url"
	"strings"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/sells-group/roster-cli/internal/fetcher"
	"github.com/sells-group/roster-cli/internal/model"
)

const (
	// DefaultBaseURL is the public resources API root.
	DefaultBaseURL = "https://api.ussquash.com/resources"
	// DefaultLimit is the record-count cutoff used when a caller passes <= 0.
	DefaultLimit = 200
)

// Options configures a Client.
type Options struct {
	BaseURL      string
	DefaultLimit int
	Seasons      Seasons
}

// Client retrieves raw player records for a season.
type Client struct {
	fetcher      fetcher.Fetcher
	baseURL      string
	defaultLimit int
	seasons      Seasons
}

// NewClient returns a Client reading through f.
func NewClient(f fetcher.Fetcher, opts Options) *Client {
	if opts.BaseURL == "" {
		opts.BaseURL = DefaultBaseURL
	}
	if opts.DefaultLimit <= 0 {
		opts.DefaultLimit = DefaultLimit
	}
	if opts.Seasons.ids == nil {
		opts.Seasons = DefaultSeasons()
	}
	return &Client{
		fetcher:      f,
		baseURL:      strings.TrimRight(opts.BaseURL, "/"),
		defaultLimit: opts.DefaultLimit,
		seasons:      opts.Seasons,
	}
}

// Seasons returns the client's season table.
func (c *Client) Seasons() Seasons { return c.seasons }

// FetchSeason returns the raw records of (year, division), walking teams in
// API order and stopping once at least limit records have been collected.
// The last team is never truncated. A limit <= 0 uses the default.
func (c *Client) FetchSeason(ctx context.Context, year string, division model.Division, limit int) ([]model.RawRecord, error) {
	seasonID, ok := c.seasons.Lookup(division, year)
	if !ok {
		return nil, eris.Wrapf(ErrUnknownSeason, "roster: %s %s", division, year)
	}
	if limit <= 0 {
		limit = c.defaultLimit
	}

	log := zap.L().With(
		zap.String("year", year),
		zap.String("division", string(division)),
		zap.String("season_id", seasonID),
	)

	teams, err := c.fetchTeams(ctx, year, division, seasonID)
	if err != nil {
		return nil, err
	}
	log.Info("roster: fetched standings", zap.Int("teams", len(teams)))

	var records []model.RawRecord
	for i, team := range teams {
		players, err := c.fetchPlayers(ctx, year, division, team)
		if err != nil {
			return nil, err
		}
		records = append(records, players...)

		log.Debug("roster: fetched team",
			zap.String("team_id", team.TeamID.String()),
			zap.String("team", team.TeamName.String()),
			zap.Int("players", len(players)),
			zap.Int("total", len(records)),
		)

		if len(records) >= limit {
			if skipped := len(teams) - i - 1; skipped > 0 {
				log.Info("roster: record limit reached",
					zap.Int("limit", limit),
					zap.Int("records", len(records)),
					zap.Int("teams_skipped", skipped),
				)
			}
			break
		}
	}

	return records, nil
}

func (c *Client) fetchTeams(ctx context.Context, year string, division model.Division, seasonID string) ([]model.Team, error) {
	u := c.baseURL + "/divisions/standings/" + url.PathEscape(seasonID)

	var teams []model.Team
	err := fetcher.GetJSONArray(ctx, c.fetcher, u, func(i int, raw json.RawMessage) error {
		var team model.Team
		if err := decodeValid(raw, &team); err != nil {
			zap.L().Warn("roster: dropping standings entry",
				zap.String("year", year),
				zap.String("division", string(division)),
				zap.Int("index", i),
				zap.Error(err),
			)
			return nil
		}
		teams = append(teams, team)
		return nil
	})
	if err != nil {
		return nil, &TransportError{Year: year, Division: division, URL: u, Err: err}
	}
	return teams, nil
}

func (c *Client) fetchPlayers(ctx context.Context, year string, division model.Division, team model.Team) ([]model.RawRecord, error) {
	u := c.baseURL + "/teams/" + url.PathEscape(team.TeamID.String()) + "/players"

	var players []model.RawRecord
	err := fetcher.GetJSONArray(ctx, c.fetcher, u, func(i int, raw json.RawMessage) error {
		var rec model.RawRecord
		if err := decodeValid(raw, &rec); err != nil {
			zap.L().Warn("roster: rejecting player record",
				zap.String("year", year),
				zap.String("division", string(division)),
				zap.String("team_id", team.TeamID.String()),
				zap.Int("index", i),
				zap.Error(err),
			)
			return nil
		}
		players = append(players, rec)
		return nil
	})
	if err != nil {
		return nil, &TransportError{Year: year, Division: division, URL: u, Err: err}
	}
	return players, nil
}
