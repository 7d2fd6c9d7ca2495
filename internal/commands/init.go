package commands

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/cleared-dev/categorizer/internal/config"
	"github.com/cleared-dev/categorizer/internal/gitops"
	"github.com/cleared-dev/categorizer/internal/inbox"
	"github.com/cleared-dev/categorizer/internal/rules"
	"github.com/cleared-dev/categorizer/internal/tabular"
)

// starterRulesPath is where init writes the starter rule table.
var starterRulesPath = filepath.Join("rules", "master.csv")

func newInitCommand() *cobra.Command {
	var force, useGit bool

	cmd := &cobra.Command{
		Use:   "init [directory]",
		Short: "Initialize a categorizer project with a config and starter rules",
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

			return runInit(cmd.OutOrStdout(), absDir, force, useGit)
		},
	}

	cmd.Flags().BoolVar(&force, "force", false, "overwrite an existing config and rule table")
	cmd.Flags().BoolVar(&useGit, "git", false, "initialize a git repository and commit the project")

	return cmd
}

func runInit(out io.Writer, dir string, force, useGit bool) error {
	cfgPath := filepath.Join(dir, config.FileName)
	if _, err := os.Stat(cfgPath); err == nil && !force {
		return codeError(ExitFailure, "%s already exists (use --force to overwrite)", cfgPath)
	}

	// Create directory structure.
	dirs := []string{
		"rules",
		"logs",
		inbox.ImportDir,
		inbox.ProcessedDir,
		inbox.ExportDir,
	}
	for _, d := range dirs {
		if err := os.MkdirAll(filepath.Join(dir, d), 0o755); err != nil {
			return fmt.Errorf("creating directory %s: %w", d, err)
		}
	}

	// Write categorizer.yaml.
	cfg := config.Default()
	cfg.Rules.Source = starterRulesPath
	if err := config.Save(cfgPath, cfg); err != nil {
		return fmt.Errorf("writing config: %w", err)
	}

	// Write the starter rule table.
	f, err := os.Create(filepath.Join(dir, starterRulesPath))
	if err != nil {
		return fmt.Errorf("writing rules: %w", err)
	}
	if err := (&tabular.CSV{}).Write(f, rules.ToTable(rules.StarterRules())); err != nil {
		f.Close()
		return fmt.Errorf("writing rules: %w", err)
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("writing rules: %w", err)
	}

	// Write .gitignore.
	gitignore := "logs/\n"
	if err := os.WriteFile(filepath.Join(dir, ".gitignore"), []byte(gitignore), 0o644); err != nil {
		return fmt.Errorf("writing .gitignore: %w", err)
	}

	// Write import/.gitkeep.
	if err := os.WriteFile(filepath.Join(dir, inbox.ImportDir, ".gitkeep"), []byte{}, 0o644); err != nil {
		return fmt.Errorf("writing .gitkeep: %w", err)
	}

	fmt.Fprintf(out, "Initialized categorizer project at %s (%d starter rules in %s)\n",
		dir, len(rules.StarterRules()), starterRulesPath)

	if !useGit {
		return nil
	}
	if !gitops.IsRepo(dir) {
		if err := gitops.Init(dir); err != nil {
			return err
		}
	}
	author := gitops.Author{Name: cfg.Git.AuthorName, Email: cfg.Git.AuthorEmail}
	hash, err := gitops.CommitAll(dir, "init: categorizer project", author)
	if err != nil {
		return fmt.Errorf("initial commit: %w", err)
	}
	if hash != "" {
		fmt.Fprintf(out, "Committed %s\n", hash)
	}
	return nil
}
