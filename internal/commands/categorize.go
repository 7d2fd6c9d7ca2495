package commands

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/cleared-dev/categorizer/internal/categorize"
	"github.com/cleared-dev/categorizer/internal/model"
)

type categorizeFlags struct {
	overrides
	out     string
	preview int
}

func newCategorizeCommand() *cobra.Command {
	var flags categorizeFlags

	cmd := &cobra.Command{
		Use:   "categorize <statement>",
		Short: "Categorize a statement (.xlsx or .csv) and write the result",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runCategorize(cmd, args[0], flags)
		},
	}

	flags.overrides.register(cmd)
	cmd.Flags().StringVarP(&flags.out, "out", "o", "", "output file, .xlsx or .csv (default from config)")
	cmd.Flags().IntVar(&flags.preview, "preview", 0, "print the first N uploaded and categorized rows")

	return cmd
}

func runCategorize(cmd *cobra.Command, path string, flags categorizeFlags) error {
	a, err := newApp(cmd, flags.overrides)
	if err != nil {
		return err
	}

	outPath := flags.out
	if outPath == "" {
		outPath = a.cfg.Output.FileName
	}
	if a.registry.ForPath(outPath) == nil {
		return codeError(ExitFailure, "unsupported output format %q (want .xlsx or .csv)", outPath)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("%w: reading %s: %w", model.ErrSourceUnavailable, path, err)
	}

	res, err := a.svc.Run(cmd.Context(), categorize.Upload{Name: filepath.Base(path), Data: data})
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	if flags.preview > 0 {
		fmt.Fprintln(out, "Uploaded:")
		if err := printTable(out, res.Input.Head(flags.preview)); err != nil {
			return err
		}
		fmt.Fprintln(out, "\nCategorized:")
		if err := printTable(out, res.Output.Head(flags.preview)); err != nil {
			return err
		}
		fmt.Fprintln(out)
	}

	if err := a.writeTable(outPath, res.Output); err != nil {
		return err
	}

	if err := printSummary(out, res.Summary); err != nil {
		return err
	}
	fmt.Fprintf(out, "Wrote %s (run %s)\n", outPath, res.RunID)
	return nil
}
