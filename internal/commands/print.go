package commands

import (
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"github.com/cleared-dev/categorizer/internal/categorize"
	"github.com/cleared-dev/categorizer/internal/model"
)

func newTabWriter(w io.Writer) *tabwriter.Writer {
	return tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
}

// printTable writes t as aligned text columns.
func printTable(w io.Writer, t *model.Table) error {
	tw := newTabWriter(w)
	fmt.Fprintln(tw, strings.Join(t.Columns, "\t"))
	cells := make([]string, len(t.Columns))
	for _, row := range t.Rows {
		for i, v := range row {
			cells[i] = v.String()
		}
		fmt.Fprintln(tw, strings.Join(cells, "\t"))
	}
	return tw.Flush()
}

// printSummary writes per-category counts followed by a totals line.
func printSummary(w io.Writer, s categorize.Summary) error {
	tw := newTabWriter(w)
	fmt.Fprintln(tw, "Category\tRows")
	for _, c := range s.ByCategory {
		fmt.Fprintf(tw, "%s\t%d\n", c.Category, c.Rows)
	}
	if err := tw.Flush(); err != nil {
		return err
	}
	_, err := fmt.Fprintf(w, "%d rows: %d matched, %d uncategorized\n", s.Rows, s.Matched, s.Uncategorized)
	return err
}
