package commands

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/cleared-dev/categorizer/internal/categorize"
	"github.com/cleared-dev/categorizer/internal/config"
	"github.com/cleared-dev/categorizer/internal/logger"
	"github.com/cleared-dev/categorizer/internal/model"
	"github.com/cleared-dev/categorizer/internal/rules"
	"github.com/cleared-dev/categorizer/internal/runlog"
	"github.com/cleared-dev/categorizer/internal/tabular"
)

// overrides are per-invocation settings that win over the config file.
type overrides struct {
	rulesSource string
	rulesSheet  string
	// root is the project directory a command works on; its config file is
	// used when --config is not given.
	root string
}

func (o *overrides) register(cmd *cobra.Command) {
	cmd.Flags().StringVar(&o.rulesSource, "rules", "", "rule table location (path, URL, gs:// or sqlite://)")
	cmd.Flags().StringVar(&o.rulesSheet, "sheet", "", "sheet to read from a workbook rule table")
}

// app is the wired set of components a command runs against.
type app struct {
	cfg      *config.Config
	log      zerolog.Logger
	loader   *rules.Loader
	registry *tabular.Registry
	svc      *categorize.Service
}

// configPath is --config when set, otherwise the project root's config file
// for commands that work on a project directory.
func configPath(cmd *cobra.Command, root string) (string, error) {
	path, err := cmd.Flags().GetString("config")
	if err != nil {
		return "", err
	}
	if root != "" && !cmd.Flags().Changed("config") {
		return filepath.Join(root, config.FileName), nil
	}
	return path, nil
}

// newApp loads configuration and wires the rule loader and categorization
// service. A missing config file falls back to defaults; relative paths in
// a config file are relative to that file.
func newApp(cmd *cobra.Command, o overrides) (*app, error) {
	path, err := configPath(cmd, o.root)
	if err != nil {
		return nil, err
	}

	cfg, err := config.Load(path)
	switch {
	case errors.Is(err, os.ErrNotExist):
		cfg = config.Default()
	case err != nil:
		return nil, codeError(ExitFailure, "loading %s: %s", path, err)
	default:
		cfg.ResolvePaths(filepath.Dir(path))
	}
	cfg.ApplyEnv(os.Getenv)
	if o.rulesSource != "" {
		cfg.Rules.Source = o.rulesSource
	}
	if o.rulesSheet != "" {
		cfg.Rules.Sheet = o.rulesSheet
	}
	if err := cfg.Validate(); err != nil {
		return nil, codeError(ExitFailure, "invalid config: %s", err)
	}

	log, err := logger.New(cfg.Log.Level, cfg.Log.Format, cmd.ErrOrStderr())
	if err != nil {
		return nil, codeError(ExitFailure, "configuring logger: %s", err)
	}

	src, err := rules.NewSource(cfg.Rules.Source, rules.Options{
		Sheet:   cfg.Rules.Sheet,
		Timeout: cfg.Rules.Timeout,
	})
	if err != nil {
		return nil, codeError(ExitFailure, "rule source: %s", err)
	}
	loader := rules.NewLoader(src, log)

	var rec categorize.Recorder
	if cfg.RunLog.Path != "" {
		rec = &runlog.File{Path: cfg.RunLog.Path}
	}

	registry := tabular.DefaultRegistry()
	return &app{
		cfg:      cfg,
		log:      log,
		loader:   loader,
		registry: registry,
		svc:      categorize.NewService(loader, registry.Codecs(), rec, log),
	}, nil
}

// writeTable encodes t to path, picking the format from the extension.
func (a *app) writeTable(path string, t *model.Table) error {
	codec := a.registry.ForPath(path)
	if codec == nil {
		return codeError(ExitFailure, "unsupported output format %q (want .xlsx or .csv)", path)
	}
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating %s: %w", path, err)
	}
	if err := codec.Write(f, t); err != nil {
		f.Close()
		return fmt.Errorf("writing %s: %w", path, err)
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("closing %s: %w", path, err)
	}
	return nil
}
