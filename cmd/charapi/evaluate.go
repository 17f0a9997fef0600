package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/cobra"

	"github.com/charapi/charapi/internal/archive"
	"github.com/charapi/charapi/internal/manualdata"
	"github.com/charapi/charapi/internal/registry"
	"github.com/charapi/charapi/pkg/config"
	"github.com/charapi/charapi/pkg/evaluate"
	"github.com/charapi/charapi/pkg/surface"
)

func newEvaluateCmd() *cobra.Command {
	var (
		configPath string
		format     string
		mockMode   bool
		noCache    bool
		doArchive  bool
	)

	cmd := &cobra.Command{
		Use:   "evaluate <ein>",
		Short: "Evaluate one organization by EIN",
		Long:  `Fetches filing and directory data for the organization, scores it, and renders a report.`,
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runEvaluate(cmd.Context(), evaluateOpts{
				ein:        args[0],
				configPath: configPath,
				format:     format,
				mockMode:   mockMode,
				noCache:    noCache,
				doArchive:  doArchive,
			})
		},
	}

	cmd.Flags().StringVar(&configPath, "config", "", "Path to config file (default: find .charapi/config.yaml upward)")
	cmd.Flags().StringVar(&format, "format", "terminal", "Output format: terminal, json, or markdown")
	cmd.Flags().BoolVar(&mockMode, "mock", false, "Use built-in fixture data instead of live services")
	cmd.Flags().BoolVar(&noCache, "no-cache", false, "Bypass the on-disk response cache")
	cmd.Flags().BoolVar(&doArchive, "archive", false, "Store the report in the configured archive backend")

	return cmd
}

type evaluateOpts struct {
	ein        string
	configPath string
	format     string
	mockMode   bool
	noCache    bool
	doArchive  bool
}

func runEvaluate(ctx context.Context, opts evaluateOpts) error {
	cfg, cfgPath, err := loadConfig(opts.configPath)
	if err != nil {
		return err
	}

	evaluator := buildEvaluator(cfg, cfgPath, opts.mockMode, opts.noCache)
	result, err := evaluator.Evaluate(ctx, opts.ein)
	if err != nil {
		return fmt.Errorf("evaluating %s: %w", opts.ein, err)
	}

	if opts.doArchive {
		storage, err := archive.NewStorage(ctx, cfg.Archive)
		if err != nil {
			return fmt.Errorf("opening archive storage: %w", err)
		}
		ref, err := archive.NewArchiver(storage).Archive(ctx, result)
		if err != nil {
			return fmt.Errorf("archiving report: %w", err)
		}
		fmt.Fprintf(os.Stderr, "Report archived: %s\n", ref)
	}

	return surface.ForFormat(opts.format).Render(os.Stdout, result)
}

// loadConfig resolves the effective configuration. An explicit path must
// load cleanly; otherwise the nearest .charapi/config.yaml is used, falling
// back to defaults when none exists.
func loadConfig(explicit string) (*config.Config, string, error) {
	if explicit != "" {
		cfg, err := config.Load(explicit)
		if err != nil {
			return nil, "", err
		}
		return cfg, explicit, nil
	}

	cwd, err := os.Getwd()
	if err != nil {
		return nil, "", fmt.Errorf("getting working directory: %w", err)
	}
	cfgPath := config.FindConfigFile(cwd)
	if cfgPath == "" {
		return config.DefaultConfig(), "", nil
	}
	cfg, err := config.Load(cfgPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Warning: failed to load config: %v\n", err)
		return config.DefaultConfig(), "", nil
	}
	return cfg, cfgPath, nil
}

func buildEvaluator(cfg *config.Config, cfgPath string, mockMode, noCache bool) *evaluate.Evaluator {
	manual := manualdata.NewStore(resolveDataPath(cfg.ManualData.Path, cfgPath))

	if mockMode || cfg.MockMode {
		return evaluate.NewEvaluator(cfg, registry.NewMockFilingsClient(), registry.NewMockDirectoryClient(), manual)
	}

	cache := openCache(cfg, cfgPath, noCache)
	filings := registry.NewProPublicaClient(cfg.ProPublica, cache)
	directory := registry.NewCharityAPIClient(cfg.CharityAPI, cache)
	return evaluate.NewEvaluator(cfg, filings, directory, manual)
}

// openCache returns the response cache, or nil when caching is off.
// A nil *registry.Cache is inert, so clients take it unconditionally.
func openCache(cfg *config.Config, cfgPath string, disabled bool) *registry.Cache {
	if disabled || !cfg.Caching.Enabled {
		return nil
	}
	cache := registry.NewCache(
		cfg.CacheDir(cfgPath),
		time.Duration(cfg.Caching.DefaultTTLHours)*time.Hour,
		time.Duration(cfg.Caching.ErrorTTLHours)*time.Hour,
	)
	if cfg.Caching.CleanupOnStartup {
		if n, err := cache.Cleanup(); err == nil && n > 0 {
			fmt.Fprintf(os.Stderr, "Cache cleanup removed %d stale entries\n", n)
		}
	}
	return cache
}

// resolveDataPath resolves a relative data path against the config file's
// directory when a config file is in play.
func resolveDataPath(path, cfgPath string) string {
	if path == "" || filepath.IsAbs(path) || cfgPath == "" {
		return path
	}
	return filepath.Join(filepath.Dir(cfgPath), path)
}

func firstNonEmpty(vals ...string) string {
	for _, v := range vals {
		if v != "" {
			return v
		}
	}
	return ""
}
