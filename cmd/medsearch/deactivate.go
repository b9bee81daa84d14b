package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newDeactivateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "deactivate <id>",
		Short: "Remove a medicine from search without deleting it",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withDeps(func(d *Deps) error {
				if err := d.MedicineHandler.HandleDeactivate(cmd.Context(), args[0]); err != nil {
					return fmt.Errorf("deactivating medicine: %w", err)
				}

				fmt.Printf("Deactivated medicine %s\n", args[0])
				return nil
			})
		},
	}
}
