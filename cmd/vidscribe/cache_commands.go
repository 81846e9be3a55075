package main

import (
	"fmt"
	"strconv"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"vidscribe/internal/cache"
)

func newCacheCommand(ctx *commandContext) *cobra.Command {
	cacheCmd := &cobra.Command{
		Use:   "cache",
		Short: "Inspect or clear the transcript cache",
	}
	cacheCmd.AddCommand(newCacheStatsCommand(ctx))
	cacheCmd.AddCommand(newCacheClearCommand(ctx))
	return cacheCmd
}

func openCache(ctx *commandContext) (*cache.Store, error) {
	cfg, err := ctx.ensureConfig()
	if err != nil {
		return nil, err
	}
	logger, err := ctx.logger()
	if err != nil {
		return nil, err
	}
	return cache.New(cfg.Cache.Path, cfg.Cache.TTLDays, cache.WithLogger(logger)), nil
}

func newCacheStatsCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "stats",
		Short: "Show cache location, size, and entry ages",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := openCache(ctx)
			if err != nil {
				return err
			}
			stats, err := store.Stats(cmd.Context())
			if err != nil {
				return err
			}
			cfg := ctx.configValue()
			rows := [][]string{
				{"Path", stats.Path},
				{"Enabled", yesNo(cfg.Cache.Enabled)},
				{"Entries", strconv.Itoa(stats.Entries)},
				{"Size", humanize.Bytes(uint64(max(stats.SizeBytes, 0)))},
				{"TTL", ttlLabel(store.TTLDays())},
				{"Oldest", ageLabel(stats.Oldest)},
				{"Newest", ageLabel(stats.Newest)},
			}
			fmt.Fprintln(cmd.OutOrStdout(), renderTable([]string{"Cache", "Value"}, rows, nil))
			return nil
		},
	}
}

func newCacheClearCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "clear",
		Short: "Delete every cached transcript",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := openCache(ctx)
			if err != nil {
				return err
			}
			removed, err := store.Clear(cmd.Context())
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Cleared %d cached transcript(s)\n", removed)
			return nil
		},
	}
}

func ttlLabel(days int) string {
	if days == 1 {
		return "1 day"
	}
	return fmt.Sprintf("%d days", days)
}

func ageLabel(t time.Time) string {
	if t.IsZero() {
		return "-"
	}
	return fmt.Sprintf("%s (%s)", t.Local().Format("2006-01-02 15:04"), humanize.Time(t))
}
