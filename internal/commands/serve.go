package commands

import (
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/cleared-dev/categorizer/internal/server"
)

type serveFlags struct {
	overrides
	addr string
}

func newServeCommand() *cobra.Command {
	var flags serveFlags

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the upload, preview and download API over HTTP",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServe(cmd, flags)
		},
	}

	flags.overrides.register(cmd)
	cmd.Flags().StringVar(&flags.addr, "addr", "", "listen address (default from config)")

	return cmd
}

func runServe(cmd *cobra.Command, flags serveFlags) error {
	a, err := newApp(cmd, flags.overrides)
	if err != nil {
		return err
	}
	addr := flags.addr
	if addr == "" {
		addr = a.cfg.Server.Addr
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Requests retry the load while the source stays unavailable.
	if _, err := a.loader.LoadRuleTable(ctx); err != nil {
		a.log.Warn().Err(err).Msg("Rule table not loaded at startup")
	}

	srv := server.New(a.svc, server.Options{
		MaxUploadBytes: a.cfg.MaxUploadBytes(),
		PreviewRows:    a.cfg.Server.PreviewRows,
		FileName:       a.cfg.Output.FileName,
	}, a.log)
	return srv.ListenAndServe(ctx, addr)
}
