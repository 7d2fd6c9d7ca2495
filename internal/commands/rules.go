package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/cleared-dev/categorizer/internal/rules"
)

type rulesFlags struct {
	overrides
	categories bool
	out        string
}

func newRulesCommand() *cobra.Command {
	var flags rulesFlags

	cmd := &cobra.Command{
		Use:   "rules",
		Short: "Show the keyword rule table in match order",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runRules(cmd, flags)
		},
	}

	flags.overrides.register(cmd)
	cmd.Flags().BoolVar(&flags.categories, "categories", false, "list distinct categories only")
	cmd.Flags().StringVarP(&flags.out, "out", "o", "", "also write the loaded rules to a .xlsx or .csv file")

	return cmd
}

func runRules(cmd *cobra.Command, flags rulesFlags) error {
	a, err := newApp(cmd, flags.overrides)
	if err != nil {
		return err
	}

	rt, err := a.loader.LoadRuleTable(cmd.Context())
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	categories := rt.Categories()
	if flags.categories {
		for _, c := range categories {
			fmt.Fprintln(out, c)
		}
	} else {
		tw := newTabWriter(out)
		fmt.Fprintln(tw, "#\tKey Word\tCategory")
		for i, r := range rt.Rules() {
			fmt.Fprintf(tw, "%d\t%s\t%s\n", i+1, r.Keyword, r.Category)
		}
		if err := tw.Flush(); err != nil {
			return err
		}
		fmt.Fprintf(out, "%d rules, %d categories from %s\n", rt.Len(), len(categories), a.loader.Source())
	}

	if flags.out != "" {
		if err := a.writeTable(flags.out, rules.ToTable(rt.Rules())); err != nil {
			return err
		}
	}
	return nil
}
