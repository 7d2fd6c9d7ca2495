package commands

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/cleared-dev/categorizer/internal/categorize"
	"github.com/cleared-dev/categorizer/internal/gitops"
	"github.com/cleared-dev/categorizer/internal/inbox"
)

type batchFlags struct {
	overrides
	jobs   int
	keep   bool
	commit bool
}

// batchResult is the outcome for one inbox file.
type batchResult struct {
	file    inbox.FileInfo
	output  string
	summary categorize.Summary
	err     error
}

func newBatchCommand() *cobra.Command {
	var flags batchFlags

	cmd := &cobra.Command{
		Use:   "batch [directory]",
		Short: "Categorize every statement in the project's import directory",
		Long:  "batch categorizes each .xlsx or .csv file in <directory>/import, writes the results to <directory>/exports and moves the originals to import/processed. Without --config it reads <directory>/categorizer.yaml.",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			dir := "."
			if len(args) > 0 {
				dir = args[0]
			}
			absDir, err := filepath.Abs(dir)
			if err != nil {
				return fmt.Errorf("resolving path: %w", err)
			}
			return runBatch(cmd, absDir, flags)
		},
	}

	flags.overrides.register(cmd)
	cmd.Flags().IntVarP(&flags.jobs, "jobs", "j", 4, "statements to categorize in parallel")
	cmd.Flags().BoolVar(&flags.keep, "keep", false, "leave processed statements in the import directory")
	cmd.Flags().BoolVar(&flags.commit, "commit", false, "commit exports and the import directory to git afterwards")

	return cmd
}

func runBatch(cmd *cobra.Command, root string, flags batchFlags) error {
	flags.root = root
	a, err := newApp(cmd, flags.overrides)
	if err != nil {
		return err
	}

	files, err := inbox.Scan(root)
	if err != nil {
		return err
	}
	out := cmd.OutOrStdout()
	if len(files) == 0 {
		fmt.Fprintf(out, "No statements in %s\n", filepath.Join(root, inbox.ImportDir))
		return nil
	}

	// Fail once up front rather than once per file.
	ctx := cmd.Context()
	if _, err := a.loader.LoadRuleTable(ctx); err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Join(root, inbox.ExportDir), 0o755); err != nil {
		return fmt.Errorf("creating export dir: %w", err)
	}

	results := make([]batchResult, len(files))
	var g errgroup.Group
	g.SetLimit(max(flags.jobs, 1))
	for i, f := range files {
		g.Go(func() error {
			// Per-file failures are reported in the results table.
			results[i] = a.categorizeFile(cmd, root, f, flags.keep)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return err
	}

	tw := newTabWriter(out)
	fmt.Fprintln(tw, "File\tRows\tMatched\tUncategorized\tOutput")
	failed := 0
	for _, r := range results {
		if r.err != nil {
			failed++
			fmt.Fprintf(tw, "%s\t-\t-\t-\terror: %s\n", r.file.Name, strings.ReplaceAll(r.err.Error(), "\n", "; "))
			continue
		}
		rel, err := filepath.Rel(root, r.output)
		if err != nil {
			rel = r.output
		}
		fmt.Fprintf(tw, "%s\t%d\t%d\t%d\t%s\n", r.file.Name, r.summary.Rows, r.summary.Matched, r.summary.Uncategorized, rel)
	}
	if err := tw.Flush(); err != nil {
		return err
	}

	if flags.commit && failed < len(files) {
		if err := commitBatch(out, root, a, len(files)-failed); err != nil {
			return err
		}
	}

	if failed > 0 {
		return codeError(ExitFailure, "%d of %d statements failed", failed, len(files))
	}
	return nil
}

func commitBatch(out io.Writer, root string, a *app, n int) error {
	if !gitops.IsRepo(root) {
		return codeError(ExitFailure, "%s is not a git repository (run init --git)", root)
	}
	author := gitops.Author{Name: a.cfg.Git.AuthorName, Email: a.cfg.Git.AuthorEmail}
	hash, err := gitops.CommitAll(root, fmt.Sprintf("batch: categorize %d statement(s)", n), author,
		inbox.ExportDir, inbox.ImportDir)
	if err != nil {
		return fmt.Errorf("committing batch: %w", err)
	}
	if hash != "" {
		fmt.Fprintf(out, "Committed %s\n", hash)
	}
	return nil
}

func (a *app) categorizeFile(cmd *cobra.Command, root string, f inbox.FileInfo, keep bool) batchResult {
	res := batchResult{file: f, output: inbox.ExportPath(root, f.Name)}

	data, err := os.ReadFile(f.Path)
	if err != nil {
		res.err = fmt.Errorf("reading %s: %w", f.Name, err)
		return res
	}

	run, err := a.svc.Run(cmd.Context(), categorize.Upload{Name: f.Name, Data: data})
	if err != nil {
		a.log.Warn().Err(err).Str("file", f.Name).Msg("Skipping statement")
		res.err = err
		return res
	}
	res.summary = run.Summary

	if err := a.writeTable(res.output, run.Output); err != nil {
		res.err = err
		return res
	}
	if !keep {
		stored, err := inbox.MarkProcessed(root, f.Name)
		if err != nil {
			res.err = err
			return res
		}
		if stored != f.Name {
			a.log.Info().Str("file", f.Name).Str("stored_as", stored).Msg("Processed name already taken")
		}
	}
	return res
}
