package cli

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/rshade/loadcalc/internal/config"
	"github.com/rshade/loadcalc/internal/engine/cache"
)

// ErrCacheDisabled is returned by the cache commands when caching is off.
var ErrCacheDisabled = errors.New("cache is disabled; set cache.enabled: true or LOADCALC_CACHE_ENABLED=true")

// cacheStore opens the configured store for the cache commands.
func cacheStore() (*cache.FileStore, error) {
	store, err := openStore(config.GetGlobalConfig())
	if err != nil {
		return nil, err
	}
	if store == nil {
		return nil, ErrCacheDisabled
	}
	return store, nil
}

// NewCacheStatsCmd creates "cache stats".
func NewCacheStatsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "stats",
		Short: "Show the number and size of cached estimates",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			store, err := cacheStore()
			if err != nil {
				return err
			}
			st, err := store.Stats()
			if err != nil {
				return err
			}
			cmd.Printf("Directory: %s\nEntries:   %d\nSize:      %d bytes\nTTL:       %ds\n",
				st.Dir, st.Entries, st.Bytes, st.TTLSeconds)
			return nil
		},
	}
}

// NewCacheClearCmd creates "cache clear".
func NewCacheClearCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "clear",
		Short: "Remove every cached estimate",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			store, err := cacheStore()
			if err != nil {
				return err
			}
			n, err := store.Clear()
			if err != nil {
				return fmt.Errorf("clearing cache: %w", err)
			}
			cmd.Printf("Removed %d cached estimate(s)\n", n)
			return nil
		},
	}
}

// NewCachePruneCmd creates "cache prune".
func NewCachePruneCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "prune",
		Short: "Remove expired or unreadable cached estimates",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			store, err := cacheStore()
			if err != nil {
				return err
			}
			n, err := store.Prune()
			if err != nil {
				return fmt.Errorf("pruning cache: %w", err)
			}
			cmd.Printf("Pruned %d cached estimate(s)\n", n)
			return nil
		},
	}
}
