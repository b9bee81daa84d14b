package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newStatsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "stats",
		Short: "Show catalog statistics",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withDeps(func(d *Deps) error {
				stats, err := d.SearchHandler.HandleStats(cmd.Context())
				if err != nil {
					return fmt.Errorf("collecting stats: %w", err)
				}

				fmt.Printf("Medicines:          %d\n", stats.Total)
				fmt.Printf("With generic name:  %d\n", stats.WithGeneric)
				fmt.Printf("With brand name:    %d\n", stats.WithBrand)
				fmt.Printf("With common names:  %d\n", stats.WithCommonNames)

				if len(stats.TopPopular) > 0 {
					fmt.Println("\nMost popular:")
					for i, m := range stats.TopPopular {
						fmt.Printf("  %d. %s (popularity %d)\n", i+1, m.Name, m.PopularityScore)
					}
				}
				return nil
			})
		},
	}
}
