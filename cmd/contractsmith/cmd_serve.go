package main

import (
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/hupe1980/contractsmith/server"
)

var serveAddr string

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the HTTP API",
	Long: `Serves the engine over HTTP until interrupted.

  POST   /chats/{chatID}/exchanges         {"form": {...}} or {"skip": true}, answers text/event-stream
  GET    /chats/{chatID}/turns             committed transcript
  GET    /chats/{chatID}/artifacts/{name}  generated contract (?version=N)
  DELETE /exchanges/{id}                   cancel a running exchange`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		a, err := newApp(ctx, cfg, logger, verbose)
		if err != nil {
			return err
		}

		addr := cfg.Server.Addr
		if serveAddr != "" {
			addr = serveAddr
		}

		srv := server.New(a.engine, func(o *server.Options) {
			o.SessionStore = a.sessions
			o.ArtifactStore = a.artifacts
			o.Logger = logger
		})

		return srv.ListenAndServe(ctx, addr)
	},
}

func init() {
	serveCmd.Flags().StringVar(&serveAddr, "addr", "", "Listen address (overrides server.addr)")
}
