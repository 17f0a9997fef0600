package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/charapi/charapi/internal/registry"
	"github.com/charapi/charapi/pkg/evaluate"
)

func newSearchCmd() *cobra.Command {
	var (
		configPath string
		mockMode   bool
		jsonOut    bool
	)

	cmd := &cobra.Command{
		Use:   "search <query>",
		Short: "Find organizations by name",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runSearch(cmd.Context(), strings.Join(args, " "), configPath, mockMode, jsonOut)
		},
	}

	cmd.Flags().StringVar(&configPath, "config", "", "Path to config file (default: find .charapi/config.yaml upward)")
	cmd.Flags().BoolVar(&mockMode, "mock", false, "Use built-in fixture data instead of live services")
	cmd.Flags().BoolVar(&jsonOut, "json", false, "Emit results as JSON")

	return cmd
}

func runSearch(ctx context.Context, query, configPath string, mockMode, jsonOut bool) error {
	cfg, cfgPath, err := loadConfig(configPath)
	if err != nil {
		return err
	}

	var orgs []evaluate.Organization
	if mockMode || cfg.MockMode {
		orgs, err = registry.NewMockFilingsClient().SearchOrganizations(ctx, query)
	} else {
		cache := openCache(cfg, cfgPath, false)
		orgs, err = registry.NewProPublicaClient(cfg.ProPublica, cache).SearchOrganizations(ctx, query)
	}
	if err != nil {
		return fmt.Errorf("searching for %q: %w", query, err)
	}

	if jsonOut {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(orgs)
	}

	if len(orgs) == 0 {
		fmt.Println("No organizations found.")
		return nil
	}
	for _, org := range orgs {
		fmt.Printf("%-12s %s\n", org.EIN, org.Name)
	}
	return nil
}
