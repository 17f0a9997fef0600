// Package main provides the charapi CLI entry point.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var version = "dev"

func main() {
	rootCmd := &cobra.Command{
		Use:   "charapi",
		Short: "Charity trustworthiness evaluation",
		Long: `CharAPI evaluates the trustworthiness of charitable organizations by
combining IRS filing data, directory classifications, and manually curated
financials into a scored report.`,
		Version: version,
	}

	rootCmd.AddCommand(
		newEvaluateCmd(),
		newBatchCmd(),
		newSearchCmd(),
		newSectorsCmd(),
		newHistoryCmd(),
		newCacheCmd(),
	)

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
