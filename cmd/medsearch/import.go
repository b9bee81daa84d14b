package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/ersonp/medsearch-core/internal/application/handlers"
)

func newImportCmd() *cobra.Command {
	var (
		format string
		dryRun bool
	)

	cmd := &cobra.Command{
		Use:   "import <file>",
		Short: "Bulk import medicines from a JSON or CSV file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withDeps(func(d *Deps) error {
				result, err := d.ImportHandler.Handle(cmd.Context(), args[0], handlers.ImportOptions{
					Format: format,
					DryRun: dryRun,
				})
				if err != nil {
					return fmt.Errorf("importing medicines: %w", err)
				}

				if dryRun {
					fmt.Printf("Dry run: %d of %d records would be imported\n", result.Imported, result.Requested)
				} else {
					fmt.Printf("Imported %d of %d records\n", result.Imported, result.Requested)
				}

				if result.Skipped > 0 {
					fmt.Printf("Skipped %d records:\n", result.Skipped)
					for _, e := range result.Errors {
						fmt.Printf("  - %s\n", e.Error())
					}
				}
				return nil
			})
		},
	}

	cmd.Flags().StringVarP(&format, "format", "f", "auto", "Input format (json, csv, auto)")
	cmd.Flags().BoolVar(&dryRun, "dry-run", false, "Validate without saving")

	return cmd
}
