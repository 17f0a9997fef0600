package main

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/charapi/charapi/pkg/surface"
)

func newBatchCmd() *cobra.Command {
	var (
		configPath string
		format     string
		mockMode   bool
		noCache    bool
		einsFile   string
	)

	cmd := &cobra.Command{
		Use:   "batch [ein...]",
		Short: "Evaluate several organizations in one run",
		Long:  `Evaluates each EIN given as an argument or listed in a file, one per line.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runBatch(cmd.Context(), batchOpts{
				eins:       args,
				configPath: configPath,
				format:     format,
				mockMode:   mockMode,
				noCache:    noCache,
				einsFile:   einsFile,
			})
		},
	}

	cmd.Flags().StringVar(&configPath, "config", "", "Path to config file (default: find .charapi/config.yaml upward)")
	cmd.Flags().StringVar(&format, "format", "json", "Output format: terminal, json, or markdown")
	cmd.Flags().BoolVar(&mockMode, "mock", false, "Use built-in fixture data instead of live services")
	cmd.Flags().BoolVar(&noCache, "no-cache", false, "Bypass the on-disk response cache")
	cmd.Flags().StringVar(&einsFile, "file", "", "Read EINs from a file, one per line")

	return cmd
}

type batchOpts struct {
	eins       []string
	configPath string
	format     string
	mockMode   bool
	noCache    bool
	einsFile   string
}

func runBatch(ctx context.Context, opts batchOpts) error {
	eins := opts.eins
	if opts.einsFile != "" {
		fromFile, err := readEINsFile(opts.einsFile)
		if err != nil {
			return err
		}
		eins = append(eins, fromFile...)
	}
	if len(eins) == 0 {
		return fmt.Errorf("no EINs given; pass them as arguments or via --file")
	}

	cfg, cfgPath, err := loadConfig(opts.configPath)
	if err != nil {
		return err
	}
	evaluator := buildEvaluator(cfg, cfgPath, opts.mockMode, opts.noCache)

	results, err := evaluator.EvaluateBatch(ctx, eins)
	if err != nil {
		return fmt.Errorf("batch evaluation: %w", err)
	}

	format := firstNonEmpty(opts.format, "json")
	if format == "json" {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(results)
	}

	renderer := surface.ForFormat(format)
	for i, result := range results {
		if i > 0 {
			fmt.Println()
		}
		if err := renderer.Render(os.Stdout, result); err != nil {
			return err
		}
	}
	return nil
}

// readEINsFile reads one EIN per line, skipping blanks and # comments.
func readEINsFile(path string) ([]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening EIN list: %w", err)
	}
	defer f.Close()

	var eins []string
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		eins = append(eins, line)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("reading EIN list: %w", err)
	}
	return eins, nil
}
