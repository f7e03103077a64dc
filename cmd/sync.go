package main

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"

	"github.com/sells-group/roster-cli/internal/config"
	"github.com/sells-group/roster-cli/internal/model"
	"github.com/sells-group/roster-cli/internal/pipeline"
)

var syncCmd = &cobra.Command{
	Use:   "sync [years...]",
	Short: "Fetch seasons and merge them into the combined dataset",
	Long: "Fetches the given seasons (every known season when none are given), enriches each record, " +
		"writes per-season audit files, and merges them into the combined dataset. " +
		"With --combine-only the dataset is rebuilt from existing audit files without fetching.",
	RunE: func(cmd *cobra.Command, args []string) error {
		division, _ := cmd.Flags().GetString("division")
		limit, _ := cmd.Flags().GetInt("limit")
		combineOnly, _ := cmd.Flags().GetBool("combine-only")

		opts, err := syncOptions(cfg, division, limit, combineOnly, args)
		if err != nil {
			return err
		}
		return runSync(cmd.Context(), cfg, opts, os.Stdout)
	},
}

// syncOptions merges flags over the configured fetch defaults.
func syncOptions(c *config.Config, division string, limit int, combineOnly bool, years []string) (pipeline.Options, error) {
	if division == "" {
		division = c.Fetch.Division
	}
	divisions, err := model.ParseDivisionSelector(division)
	if err != nil {
		return pipeline.Options{}, eris.Wrap(err, "sync: --division")
	}
	if limit < 0 {
		return pipeline.Options{}, eris.Errorf("sync: --limit must not be negative, got %d", limit)
	}
	if limit == 0 {
		limit = c.Fetch.Limit
	}
	return pipeline.Options{
		Divisions:   divisions,
		Years:       years,
		Limit:       limit,
		CombineOnly: combineOnly,
	}, nil
}

func runSync(ctx context.Context, c *config.Config, opts pipeline.Options, out io.Writer) error {
	mode := config.ModeSync
	if opts.CombineOnly {
		mode = config.ModeCombine
	}
	if err := c.Validate(mode); err != nil {
		return err
	}

	st, err := initStore(c)
	if err != nil {
		return err
	}

	var runner *pipeline.Runner
	if opts.CombineOnly {
		runner = pipeline.NewRunner(nil, nil, st)
	} else {
		r, closer, err := initRunner(ctx, c, st)
		if err != nil {
			return err
		}
		defer closer.Close() //nolint:errcheck
		runner = r
	}

	report, err := runner.Run(ctx, opts)
	if err != nil {
		return eris.Wrap(err, "sync")
	}

	fmt.Fprint(out, report.Format())
	fmt.Fprintf(out, "Dataset: %s\n", st.DatasetPath())
	return nil
}

func init() {
	syncCmd.Flags().String("division", "", "division to process: men, women or both (default from fetch.division)")
	syncCmd.Flags().Int("limit", 0, "per-season record budget (default from fetch.limit)")
	syncCmd.Flags().Bool("combine-only", false, "rebuild the dataset from audit files without fetching")
	rootCmd.AddCommand(syncCmd)
}
