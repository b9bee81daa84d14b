// Package main provides the entry point for the medsearch CLI application.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
)

var (
	version       = "0.1.0-dev"
	globalVerbose bool
)

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	if err := run(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func run(ctx context.Context) error {
	rootCmd := &cobra.Command{
		Use:     "medsearch",
		Short:   "A medicine name search and autocomplete engine",
		Version: version,
	}

	rootCmd.PersistentFlags().BoolVarP(&globalVerbose, "verbose", "v", false, "Enable debug logging")

	rootCmd.AddCommand(
		newInitCmd(),
		newSearchCmd(),
		newAutocompleteCmd(),
		newAISearchCmd(),
		newAddCmd(),
		newUpdateCmd(),
		newDeactivateCmd(),
		newListCmd(),
		newImportCmd(),
		newStatsCmd(),
		newHistoryCmd(),
	)

	return rootCmd.ExecuteContext(ctx)
}
