package commands

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/cleared-dev/categorizer/internal/runlog"
)

func newRunsCommand() *cobra.Command {
	var limit int

	cmd := &cobra.Command{
		Use:   "runs",
		Short: "List recent categorization runs from the run log",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runRuns(cmd, limit)
		},
	}

	cmd.Flags().IntVarP(&limit, "limit", "n", 20, "show at most N most recent runs (0 for all)")

	return cmd
}

func runRuns(cmd *cobra.Command, limit int) error {
	a, err := newApp(cmd, overrides{})
	if err != nil {
		return err
	}
	out := cmd.OutOrStdout()
	if a.cfg.RunLog.Path == "" {
		fmt.Fprintln(out, "Run log is disabled")
		return nil
	}

	entries, err := runlog.Read(a.cfg.RunLog.Path)
	if err != nil {
		return err
	}
	if len(entries) == 0 {
		fmt.Fprintln(out, "No runs recorded")
		return nil
	}
	if limit > 0 && len(entries) > limit {
		entries = entries[len(entries)-limit:]
	}

	tw := newTabWriter(out)
	fmt.Fprintln(tw, "Time\tRun\tInput\tFormat\tRows\tMatched\tUncategorized")
	for _, e := range entries {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%d\t%d\t%d\n",
			e.Timestamp.Local().Format(time.DateTime), e.RunID, e.Input, e.Format,
			e.Rows, e.Matched, e.Uncategorized)
	}
	return tw.Flush()
}
