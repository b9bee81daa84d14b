package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newListCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List all active medicines",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withDeps(func(d *Deps) error {
				medicines, err := d.MedicineHandler.HandleList(cmd.Context())
				if err != nil {
					return fmt.Errorf("listing medicines: %w", err)
				}

				if len(medicines) == 0 {
					fmt.Println("No medicines in the catalog.")
					return nil
				}

				fmt.Printf("%d active medicines:\n\n", len(medicines))
				for _, m := range medicines {
					fmt.Printf("  %s", m.Name)
					if m.GenericName != "" {
						fmt.Printf(" (%s)", m.GenericName)
					}
					fmt.Printf("  popularity=%d  id=%s\n", m.PopularityScore, m.ID)
				}
				return nil
			})
		},
	}
}
