package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/charapi/charapi/pkg/evaluate"
)

func newSectorsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "sectors",
		Short: "List NTEE sector letters and their names",
		Run: func(cmd *cobra.Command, args []string) {
			for _, letter := range evaluate.SectorLetters() {
				fmt.Printf("%s  %s\n", letter, evaluate.SectorName(letter))
			}
		},
	}
}
