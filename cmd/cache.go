package main

import (
	"fmt"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"

	"github.com/sells-group/roster-cli/internal/config"
	"github.com/sells-group/roster-cli/pkg/geocode"
)

var cacheCmd = &cobra.Command{
	Use:   "cache",
	Short: "Manage the geocode cache",
}

// -- cache prune --

var cachePruneCmd = &cobra.Command{
	Use:   "prune",
	Short: "Delete expired geocode cache entries",
	RunE: func(cmd *cobra.Command, _ []string) error {
		ctx := cmd.Context()
		if err := cfg.Validate(config.ModeCache); err != nil {
			return err
		}

		cache, err := geocode.OpenCache(ctx, cfg.Geocode.CachePath, cacheTTL(cfg))
		if err != nil {
			return err
		}
		defer cache.Close() //nolint:errcheck

		n, err := cache.Prune(ctx)
		if err != nil {
			return eris.Wrap(err, "cache prune")
		}
		fmt.Printf("Pruned %d expired entries from %s\n", n, cfg.Geocode.CachePath)
		return nil
	},
}

func init() {
	cacheCmd.AddCommand(cachePruneCmd)
	rootCmd.AddCommand(cacheCmd)
}
