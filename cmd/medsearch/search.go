package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/ersonp/medsearch-core/internal/domain/entities"
)

func newSearchCmd() *cobra.Command {
	var (
		searchType string
		limit      int
		offset     int
		minScore   float64
	)

	cmd := &cobra.Command{
		Use:   "search <query>",
		Short: "Search medicines by name",
		Long:  "Searches the medicine catalog using exact, fuzzy, and word-overlap matching.",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withDeps(func(d *Deps) error {
				page, err := d.SearchHandler.HandleSearch(cmd.Context(), args[0], searchType, limit, offset, minScore)
				if err != nil {
					return fmt.Errorf("searching medicines: %w", err)
				}

				if page.Total == 0 {
					fmt.Println("No medicines found.")
					return nil
				}

				fmt.Printf("Found %d medicines (showing %d):\n\n", page.Total, len(page.Results))
				printResults(page.Results, page.Offset)
				return nil
			})
		},
	}

	cmd.Flags().StringVarP(&searchType, "type", "t", "hybrid", "Search type (hybrid, fuzzy, query)")
	cmd.Flags().IntVarP(&limit, "limit", "l", 10, "Maximum number of results")
	cmd.Flags().IntVarP(&offset, "offset", "o", 0, "Number of results to skip")
	cmd.Flags().Float64Var(&minScore, "min-score", 0, "Drop results scoring above this value (0 disables)")

	return cmd
}

func printResults(results []entities.ScoredResult, offset int) {
	for i, r := range results {
		m := r.Medicine
		fmt.Printf("%d. %s", offset+i+1, m.Name)
		if m.GenericName != "" {
			fmt.Printf(" (%s)", m.GenericName)
		}
		fmt.Printf(" [%s, score %.2f]\n", r.MatchType, r.Score)
		if m.Manufacturer != "" {
			fmt.Printf("   Manufacturer: %s\n", m.Manufacturer)
		}
		if m.Description != "" {
			fmt.Printf("   %s\n", m.Description)
		}
	}
}
