package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/charapi/charapi/internal/archive"
	"github.com/charapi/charapi/pkg/surface"
)

func newHistoryCmd() *cobra.Command {
	var (
		configPath string
		showKey    string
		format     string
	)

	cmd := &cobra.Command{
		Use:   "history <ein>",
		Short: "List archived reports for an organization",
		Long:  `Lists report keys stored in the archive backend, or renders one with --show.`,
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ein := ""
			if len(args) > 0 {
				ein = args[0]
			}
			return runHistory(cmd.Context(), ein, configPath, showKey, format)
		},
	}

	cmd.Flags().StringVar(&configPath, "config", "", "Path to config file (default: find .charapi/config.yaml upward)")
	cmd.Flags().StringVar(&showKey, "show", "", "Render the archived report stored under this key")
	cmd.Flags().StringVar(&format, "format", "terminal", "Output format for --show: terminal, json, or markdown")

	return cmd
}

func runHistory(ctx context.Context, ein, configPath, showKey, format string) error {
	cfg, _, err := loadConfig(configPath)
	if err != nil {
		return err
	}

	storage, err := archive.NewStorage(ctx, cfg.Archive)
	if err != nil {
		return fmt.Errorf("opening archive storage: %w", err)
	}
	archiver := archive.NewArchiver(storage)

	if showKey != "" {
		result, err := archiver.Load(ctx, showKey)
		if err != nil {
			return fmt.Errorf("loading archived report: %w", err)
		}
		return surface.ForFormat(format).Render(os.Stdout, result)
	}

	if ein == "" {
		return fmt.Errorf("an EIN is required unless --show is given")
	}

	keys, err := archiver.History(ctx, ein)
	if err != nil {
		return fmt.Errorf("listing archived reports: %w", err)
	}
	if len(keys) == 0 {
		fmt.Println("No archived reports.")
		return nil
	}
	for _, key := range keys {
		fmt.Println(key)
	}
	return nil
}
