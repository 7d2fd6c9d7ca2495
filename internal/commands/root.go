package commands

import (
	"github.com/spf13/cobra"

	"github.com/cleared-dev/categorizer/internal/buildinfo"
	"github.com/cleared-dev/categorizer/internal/config"
)

// NewRootCommand creates the root CLI command with all subcommands registered.
func NewRootCommand() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:     "categorizer",
		Short:   "Categorize bank statement transactions by keyword",
		Long:    "categorizer appends a Categorization column to a statement by matching each Description against an ordered keyword table. The first matching keyword wins.",
		Version: buildinfo.String(),
		CompletionOptions: cobra.CompletionOptions{
			DisableDefaultCmd: true,
		},
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	rootCmd.PersistentFlags().String("config", config.FileName, "config file")

	rootCmd.AddCommand(
		newInitCommand(),
		newCategorizeCommand(),
		newBatchCommand(),
		newRulesCommand(),
		newRunsCommand(),
		newServeCommand(),
	)

	return rootCmd
}
