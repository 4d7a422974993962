// Package cmd implements the CLI commands for doclake using Cobra.
package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "doclake",
	Short: "doclake ingests documents from web sources into object storage",
	Long: `doclake is a document-ingestion pipeline: it discovers candidate files on
a source page, downloads them, extracts tables from PDFs and lands the
results in partitioned staging and raw storage zones.

Usage:
  doclake run --job job.json [flags]`,
}

// Execute runs the root command.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
