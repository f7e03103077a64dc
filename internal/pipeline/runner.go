// Package pipeline runs a roster sync: fetch each requested season, enrich its
// records, write the audit slice, and fold everything into the combined
// dataset.
package pipeline

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/sells-group/roster-cli/internal/dataset"
	"github.com/sells-group/roster-cli/internal/model"
	"github.com/sells-group/roster-cli/internal/roster"
)

// SeasonFetcher downloads the raw records of one season.
type SeasonFetcher interface {
	FetchSeason(ctx context.Context, year string, division model.Division, limit int) ([]model.RawRecord, error)
	Seasons() roster.Seasons
}

// RecordEnricher turns a raw record into a player.
type RecordEnricher interface {
	Enrich(ctx context.Context, raw model.RawRecord) (model.Player, error)
}

// Store persists the combined dataset and the per-season audit slices.
type Store interface {
	Load() (ds model.Dataset, found bool, err error)
	Save(ds model.Dataset) error
	WriteSlice(slice model.YearSlice) (string, error)
	ReadSlices(divisions []model.Division, years []string) ([]model.YearSlice, error)
}

// Options selects what a run covers.
type Options struct {
	Divisions []model.Division
	// Years to process. Empty means every year in the season table
	// (fetch mode) or every audit file present (combine mode).
	Years []string
	// Limit is the per-season record budget. Zero uses the fetcher default.
	Limit int
	// CombineOnly rebuilds the dataset from audit files without fetching.
	CombineOnly bool
}

// Runner executes sync runs.
type Runner struct {
	fetcher  SeasonFetcher
	enricher RecordEnricher
	store    Store

	newID func() string
	now   func() time.Time
}

// NewRunner returns a Runner. fetcher and enricher may be nil when the runner
// is only used in combine-only mode.
func NewRunner(fetcher SeasonFetcher, enricher RecordEnricher, store Store) *Runner {
	return &Runner{
		fetcher:  fetcher,
		enricher: enricher,
		store:    store,
		newID:    func() string { return uuid.New().String() },
		now:      time.Now,
	}
}

// Run executes one sync. Season-level failures and rejected records are
// recorded in the report; only dataset I/O failures are returned.
func (r *Runner) Run(ctx context.Context, opts Options) (*Report, error) {
	divisions := opts.Divisions
	if len(divisions) == 0 {
		divisions = model.Divisions
	}

	report := &Report{RunID: r.newID(), CombineOnly: opts.CombineOnly}
	start := r.now()
	log := zap.L().With(zap.String("run_id", report.RunID))

	ds, found, err := r.store.Load()
	if err != nil {
		return nil, eris.Wrap(err, "pipeline: load dataset")
	}
	if !found && !opts.CombineOnly {
		ds, err = r.bootstrap(ds, report)
		if err != nil {
			return nil, err
		}
		if report.Bootstrapped > 0 {
			log.Info("pipeline: bootstrapped dataset from audit files",
				zap.Int("slices", report.Bootstrapped))
		}
	}

	if opts.CombineOnly {
		slices, err := r.store.ReadSlices(divisions, opts.Years)
		if err != nil {
			return nil, eris.Wrap(err, "pipeline: read audit slices")
		}
		for _, s := range slices {
			ds = r.fold(ds, s, report)
		}
	} else {
		if r.fetcher == nil || r.enricher == nil {
			return nil, eris.New("pipeline: fetch mode requires a fetcher and an enricher")
		}
		for _, div := range divisions {
			years := opts.Years
			if len(years) == 0 {
				years = r.fetcher.Seasons().Years(div)
			}
			for _, year := range years {
				if err := ctx.Err(); err != nil {
					return nil, eris.Wrap(err, "pipeline: run cancelled")
				}
				slice, ok := r.fetchSlice(ctx, log, year, div, opts.Limit, report)
				if !ok {
					continue
				}
				ds = r.fold(ds, slice, report)
			}
		}
	}

	if err := r.store.Save(ds); err != nil {
		return nil, eris.Wrap(err, "pipeline: save dataset")
	}

	report.Duration = r.now().Sub(start)
	log.Info("pipeline: run complete",
		zap.Int("merged", len(report.Merged)),
		zap.Int("skipped", len(report.Skipped)),
		zap.Int("dropped", len(report.Dropped)),
		zap.Duration("duration", report.Duration),
	)
	return report, nil
}

// fetchSlice fetches and enriches one season. ok is false when the season
// was skipped.
func (r *Runner) fetchSlice(ctx context.Context, log *zap.Logger, year string, div model.Division, limit int, report *Report) (model.YearSlice, bool) {
	log = log.With(zap.String("year", year), zap.String("division", string(div)))

	raws, err := r.fetcher.FetchSeason(ctx, year, div, limit)
	if err != nil {
		reason := SkipTransport
		if eris.Is(err, roster.ErrUnknownSeason) {
			reason = SkipUnknownSeason
		}
		log.Warn("pipeline: skipping season", zap.String("reason", string(reason)), zap.Error(err))
		report.Skipped = append(report.Skipped, Skip{Year: year, Division: div, Reason: reason, Err: err.Error()})
		return model.YearSlice{}, false
	}

	players := make([]model.Player, 0, len(raws))
	for _, raw := range raws {
		p, err := r.enricher.Enrich(ctx, raw)
		if err != nil {
			name := raw.Player.String()
			log.Warn("pipeline: dropping record", zap.String("player", name), zap.Error(err))
			report.Dropped = append(report.Dropped, Drop{Year: year, Division: div, Player: name, Err: err.Error()})
			continue
		}
		players = append(players, p)
	}

	slice := model.YearSlice{Year: year, Division: div, Players: players}
	path, err := r.store.WriteSlice(slice)
	if err != nil {
		// The audit file is a convenience copy; the combined dataset is still updated.
		log.Warn("pipeline: write audit slice", zap.Error(err))
	} else {
		log.Info("pipeline: season fetched", zap.Int("players", len(players)), zap.String("audit", path))
	}
	return slice, true
}

// bootstrap seeds an absent combined dataset with every audit file on disk.
func (r *Runner) bootstrap(ds model.Dataset, report *Report) (model.Dataset, error) {
	slices, err := r.store.ReadSlices(model.Divisions, nil)
	if err != nil {
		return ds, eris.Wrap(err, "pipeline: bootstrap from audit slices")
	}
	report.Bootstrapped = len(slices)
	return dataset.MergeAll(ds, slices...), nil
}

func (r *Runner) fold(ds model.Dataset, slice model.YearSlice, report *Report) model.Dataset {
	_, replaced := ds.Find(slice.Division, slice.Year)
	report.Merged = append(report.Merged, Merged{
		Year:     slice.Year,
		Division: slice.Division,
		Players:  len(slice.Players),
		Replaced: replaced,
	})
	return dataset.Merge(ds, slice)
}
