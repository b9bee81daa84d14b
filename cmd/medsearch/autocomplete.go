package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newAutocompleteCmd() *cobra.Command {
	var limit int

	cmd := &cobra.Command{
		Use:   "autocomplete <prefix>",
		Short: "Suggest medicine names for a partial query",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withDeps(func(d *Deps) error {
				if limit <= 0 {
					limit = d.Config.Search.AutocompleteLimit
				}

				results, err := d.SearchHandler.HandleAutocomplete(cmd.Context(), args[0], limit)
				if err != nil {
					return fmt.Errorf("autocompleting: %w", err)
				}

				if len(results) == 0 {
					fmt.Println("No suggestions.")
					return nil
				}

				for _, r := range results {
					fmt.Println(r.Medicine.Name)
				}
				return nil
			})
		},
	}

	cmd.Flags().IntVarP(&limit, "limit", "l", 0, "Maximum number of suggestions (default from config)")

	return cmd
}
