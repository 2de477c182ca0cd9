package main

import (
	"fmt"
	"log/slog"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/spboyer/tagx/internal/report"
	"github.com/spboyer/tagx/internal/session"
	"github.com/spboyer/tagx/internal/webserver"
)

func newServeCommand(opts *rootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve extraction sessions over a local HTTP API",
		Long: `Serve extraction sessions over a local HTTP API.

The server binds to 127.0.0.1 only. Each client creates a session, selects a
text file and a stop word file by path, runs the extraction and optionally
saves the tags on the server's file system.

Endpoints:
  GET    /api/health
  POST   /api/sessions
  GET    /api/sessions/{id}
  DELETE /api/sessions/{id}
  PUT    /api/sessions/{id}/text        {"path": "..."}
  PUT    /api/sessions/{id}/stopwords   {"path": "..."}
  POST   /api/sessions/{id}/extract
  POST   /api/sessions/{id}/save        {"path": "..."}`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			port := opts.cfg.Server.Port
			if cmd.Flags().Changed("port") {
				port, _ = cmd.Flags().GetInt("port")
			}
			if port < 1 || port > 65535 {
				return fmt.Errorf("invalid port %d", port)
			}

			extractOpts, stopOpts, err := opts.extractOptions(cmd)
			if err != nil {
				return err
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			sopts := session.Options{
				Extract:   extractOpts,
				StopWords: stopOpts,
				Save:      report.Options{Format: report.FormatLines},
			}
			store, err := opts.openHistory(ctx, cmd)
			if err != nil {
				return err
			}
			if store != nil {
				defer store.Close() //nolint:errcheck
				sopts.Recorder = store
			}

			srv := webserver.New(webserver.Config{
				Port:    port,
				Session: sopts,
				Logger:  slog.Default(),
			})
			fmt.Fprintf(cmd.ErrOrStderr(), "tagx API: http://%s/api\n", srv.Addr())
			return srv.ListenAndServe(ctx)
		},
	}
	cmd.Flags().Int("port", 0, "Port to listen on (default from config, else 8420)")
	addExtractFlags(cmd)
	addHistoryFlag(cmd)
	return cmd
}
