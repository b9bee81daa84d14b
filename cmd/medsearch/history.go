package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/ersonp/medsearch-core/internal/domain/services"
)

var validActions = []string{
	services.ActionCreated,
	services.ActionUpdated,
	services.ActionDeactivated,
	services.ActionImported,
}

func newHistoryCmd() *cobra.Command {
	var limit int

	cmd := &cobra.Command{
		Use:   "history <action>",
		Short: "Show recent audit log entries for an action",
		Long:  fmt.Sprintf("Shows the audit trail for one action type. Valid actions: %v", validActions),
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if !isValidAction(args[0]) {
				return fmt.Errorf("invalid action %q, valid actions: %v", args[0], validActions)
			}

			return withDeps(func(d *Deps) error {
				entries, err := d.MedicineHandler.HandleHistory(cmd.Context(), args[0], limit)
				if err != nil {
					return fmt.Errorf("reading audit log: %w", err)
				}

				if len(entries) == 0 {
					fmt.Println("No audit entries found.")
					return nil
				}

				for _, e := range entries {
					fmt.Printf("%s  %s", e.CreatedAt.Format("2006-01-02 15:04:05"), e.Action)
					if e.MedicineID != "" {
						fmt.Printf("  medicine=%s", e.MedicineID)
					}
					if name, ok := e.Details["name"]; ok {
						fmt.Printf("  name=%v", name)
					}
					fmt.Println()
				}
				return nil
			})
		},
	}

	cmd.Flags().IntVarP(&limit, "limit", "l", 20, "Maximum number of entries")

	return cmd
}

func isValidAction(action string) bool {
	for _, valid := range validActions {
		if action == valid {
			return true
		}
	}
	return false
}
