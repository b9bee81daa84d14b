package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/ersonp/medsearch-core/internal/domain/services"
)

func newAISearchCmd() *cobra.Command {
	var (
		limit    int
		minScore float64
	)

	cmd := &cobra.Command{
		Use:   "aisearch <query>",
		Short: "Search medicines with AI assistance",
		Long: "Asks the configured AI service for medicines matching a free-text query. " +
			"Falls back to local fuzzy search when the service is unavailable.",
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withDeps(func(d *Deps) error {
				result, err := d.AISearchHandler.Handle(cmd.Context(), args[0], limit, minScore)
				if err != nil {
					return fmt.Errorf("ai search: %w", err)
				}

				if result.Source == services.SourceFallback {
					fmt.Println("AI service unavailable, showing local fuzzy matches:")
				}

				if len(result.Results) == 0 {
					fmt.Println("No medicines found.")
					return nil
				}

				fmt.Printf("Found %d medicines (source: %s):\n\n", len(result.Results), result.Source)
				printResults(result.Results, 0)
				return nil
			})
		},
	}

	cmd.Flags().IntVarP(&limit, "limit", "l", 10, "Maximum number of results")
	cmd.Flags().Float64Var(&minScore, "min-score", 0, "Minimum AI relevance score (negative disables)")

	return cmd
}
