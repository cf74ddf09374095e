package main

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"
)

var errNoSQLite = errors.New("cache stats and clear need the sqlite backend")

func newCacheCmd(configPath *string) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "cache",
		Short: "Manage the chart cache",
	}

	statsCmd := &cobra.Command{
		Use:   "stats",
		Short: "Show cache statistics",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := contextOrBackground(cmd)
			a, err := newApp(ctx, *configPath, appOptions{})
			if err != nil {
				return err
			}
			defer a.Close()
			if a.sqlite == nil {
				return errNoSQLite
			}

			stats, err := a.sqlite.Stats(ctx)
			if err != nil {
				return err
			}
			fmt.Printf("Entries: %d\nHits:    %d\nMisses:  %d\n", stats.Entries, stats.Hits, stats.Misses)
			return nil
		},
	}

	var expiredOnly bool
	clearCmd := &cobra.Command{
		Use:   "clear",
		Short: "Clear cache entries",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := contextOrBackground(cmd)
			a, err := newApp(ctx, *configPath, appOptions{})
			if err != nil {
				return err
			}
			defer a.Close()
			if a.sqlite == nil {
				return errNoSQLite
			}

			if err := a.sqlite.Clear(ctx, expiredOnly); err != nil {
				return err
			}
			if expiredOnly {
				fmt.Println("Expired cache entries cleared.")
			} else {
				fmt.Println("All cache entries cleared.")
			}
			return nil
		},
	}
	clearCmd.Flags().BoolVar(&expiredOnly, "expired", false, "only clear expired entries")

	cmd.AddCommand(statsCmd, clearCmd)
	return cmd
}
