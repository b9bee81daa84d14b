package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/ersonp/medsearch-core/internal/infrastructure/config"
)

func newInitCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "init",
		Short: "Initialize a medsearch workspace in the current directory",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cwd, err := os.Getwd()
			if err != nil {
				return fmt.Errorf("getting current directory: %w", err)
			}

			if err := config.WriteDefault(cwd); err != nil {
				return err
			}

			fmt.Printf("Initialized medsearch workspace in %s\n", config.ConfigDir(cwd))
			fmt.Println("Edit config.yaml or set OPENAI_API_KEY to enable AI search.")
			return nil
		},
	}
}
