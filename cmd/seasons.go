package main

import (
	"io"
	"os"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/sells-group/roster-cli/internal/model"
	"github.com/sells-group/roster-cli/internal/roster"
)

var seasonsCmd = &cobra.Command{
	Use:   "seasons",
	Short: "Print the year to season id table",
	RunE: func(cmd *cobra.Command, _ []string) error {
		division, _ := cmd.Flags().GetString("division")
		divisions, err := model.ParseDivisionSelector(division)
		if err != nil {
			return eris.Wrap(err, "seasons: --division")
		}
		return writeSeasons(os.Stdout, roster.NewSeasons(cfg.Seasons.Overrides()), divisions)
	},
}

// writeSeasons renders the season table as YAML keyed by division then year.
func writeSeasons(w io.Writer, seasons roster.Seasons, divisions []model.Division) error {
	table := make(map[string]map[string]string, len(divisions))
	for _, d := range divisions {
		table[string(d)] = seasons.Table(d)
	}

	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(table); err != nil {
		return eris.Wrap(err, "seasons: encode yaml")
	}
	return enc.Close()
}

func init() {
	seasonsCmd.Flags().String("division", "both", "division to list: men, women or both")
	rootCmd.AddCommand(seasonsCmd)
}
