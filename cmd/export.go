package main

import (
	"fmt"
	"io"
	"os"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"

	"github.com/sells-group/roster-cli/internal/config"
	"github.com/sells-group/roster-cli/internal/dataset"
	"github.com/sells-group/roster-cli/internal/model"
)

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export the combined dataset",
}

// -- export geojson --

var exportGeoJSONCmd = &cobra.Command{
	Use:   "geojson",
	Short: "Write geocoded players as a GeoJSON FeatureCollection",
	RunE: func(cmd *cobra.Command, _ []string) error {
		division, _ := cmd.Flags().GetString("division")
		year, _ := cmd.Flags().GetString("year")
		output, _ := cmd.Flags().GetString("output")
		all, _ := cmd.Flags().GetBool("include-unlocated")

		divisions, err := model.ParseDivisionSelector(division)
		if err != nil {
			return eris.Wrap(err, "export geojson: --division")
		}
		filter := dataset.ExportFilter{Divisions: divisions, Year: year, IncludeUnlocated: all}

		if output == "" || output == "-" {
			return exportGeoJSON(cfg, filter, os.Stdout)
		}
		f, err := os.Create(output)
		if err != nil {
			return eris.Wrap(err, "export geojson: create output")
		}
		defer f.Close() //nolint:errcheck
		if err := exportGeoJSON(cfg, filter, f); err != nil {
			return err
		}
		fmt.Fprintf(os.Stderr, "Wrote %s\n", output)
		return f.Close()
	},
}

func exportGeoJSON(c *config.Config, filter dataset.ExportFilter, w io.Writer) error {
	if err := c.Validate(config.ModeExport); err != nil {
		return err
	}
	st, err := initStore(c)
	if err != nil {
		return err
	}
	ds, found, err := st.Load()
	if err != nil {
		return eris.Wrap(err, "export geojson")
	}
	if !found {
		return eris.Errorf("export geojson: no dataset at %s", st.DatasetPath())
	}

	data, err := dataset.ExportGeoJSON(ds, filter)
	if err != nil {
		return err
	}
	if _, err := w.Write(data); err != nil {
		return eris.Wrap(err, "export geojson: write")
	}
	return nil
}

func init() {
	exportGeoJSONCmd.Flags().String("division", "both", "division to export: men, women or both")
	exportGeoJSONCmd.Flags().String("year", "", "only export this season")
	exportGeoJSONCmd.Flags().StringP("output", "o", "", "output file (default stdout)")
	exportGeoJSONCmd.Flags().Bool("include-unlocated", false, "include players left at (0, 0)")

	exportCmd.AddCommand(exportGeoJSONCmd)
	rootCmd.AddCommand(exportCmd)
}
