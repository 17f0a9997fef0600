package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/charapi/charapi/internal/registry"
)

func newCacheCmd() *cobra.Command {
	var configPath string

	cmd := &cobra.Command{
		Use:   "cache",
		Short: "Inspect and manage the on-disk response cache",
	}
	cmd.PersistentFlags().StringVar(&configPath, "config", "", "Path to config file (default: find .charapi/config.yaml upward)")

	stats := &cobra.Command{
		Use:   "stats",
		Short: "Show cache entry counts and size",
		RunE: func(cmd *cobra.Command, args []string) error {
			cache, err := openCacheForAdmin(configPath)
			if err != nil {
				return err
			}
			s, err := cache.Stats()
			if err != nil {
				return fmt.Errorf("reading cache stats: %w", err)
			}
			fmt.Printf("Entries:  %d\n", s.Entries)
			fmt.Printf("Expired:  %d\n", s.Expired)
			fmt.Printf("Errors:   %d\n", s.Errors)
			fmt.Printf("Size:     %d bytes\n", s.Bytes)
			return nil
		},
	}

	clear := &cobra.Command{
		Use:   "clear",
		Short: "Remove all cached responses",
		RunE: func(cmd *cobra.Command, args []string) error {
			cache, err := openCacheForAdmin(configPath)
			if err != nil {
				return err
			}
			n, err := cache.Clear()
			if err != nil {
				return fmt.Errorf("clearing cache: %w", err)
			}
			fmt.Printf("Removed %d entries\n", n)
			return nil
		},
	}

	cleanup := &cobra.Command{
		Use:   "cleanup",
		Short: "Remove expired and corrupt cache entries",
		RunE: func(cmd *cobra.Command, args []string) error {
			cache, err := openCacheForAdmin(configPath)
			if err != nil {
				return err
			}
			n, err := cache.Cleanup()
			if err != nil {
				return fmt.Errorf("cleaning cache: %w", err)
			}
			fmt.Printf("Removed %d entries\n", n)
			return nil
		},
	}

	cmd.AddCommand(stats, clear, cleanup)
	return cmd
}

// openCacheForAdmin opens the cache directory even when caching is disabled
// in config, so stale state can still be inspected and removed.
func openCacheForAdmin(configPath string) (*registry.Cache, error) {
	cfg, cfgPath, err := loadConfig(configPath)
	if err != nil {
		return nil, err
	}
	return registry.NewCache(
		cfg.CacheDir(cfgPath),
		time.Duration(cfg.Caching.DefaultTTLHours)*time.Hour,
		time.Duration(cfg.Caching.ErrorTTLHours)*time.Hour,
	), nil
}
