package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
)

var importCmd = &cobra.Command{
	Use:   "import <file>",
	Short: "Reconcile a subject sheet (.csv, .tsv, .txt or .xlsx)",
	Long: `Import reads a subject sheet and reconciles every row into subjects and plan
assignments in a single transaction. Any failing row rolls the whole run back and is
reported with its row number.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		f, err := os.Open(args[0])
		if err != nil {
			return fmt.Errorf("open %s: %w", args[0], err)
		}
		defer f.Close()

		result, err := container.Imports.Import(cmd.Context(), f, filepath.Base(args[0]))
		if err != nil {
			return err
		}
		return printJSON(cmd.OutOrStdout(), result)
	},
}

func init() {
	rootCmd.AddCommand(importCmd)
}
