package main

import (
	"net/http"

	"github.com/metalagman/axiom/internal/ai"
	"github.com/metalagman/axiom/internal/db"
	"github.com/metalagman/axiom/internal/web"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
)

func serveCmd() *cobra.Command {
	var listen string
	cmd := &cobra.Command{
		Use:          "serve",
		Short:        "Start the HTTP API and run browser",
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			if listen != "" {
				cfg.Server.Listen = listen
			}

			storeDB, closeFn, err := openDB(cfg)
			if err != nil {
				return err
			}
			defer closeFn()

			var aiClient *ai.Client
			if ai.Available() {
				aiClient, err = ai.New(cmd.Context(), cfg.AI.Model)
				if err != nil {
					log.Warn().Err(err).Msg("ai client unavailable")
				}
			}

			server := web.NewServer(db.NewStore(storeDB), aiClient, cfg.Sweep.N, cfg.Sweep.Seed)
			log.Info().Str("listen", cfg.Server.Listen).Bool("ai", aiClient != nil).Msg("starting server")
			return http.ListenAndServe(cfg.Server.Listen, server.Routes())
		},
	}
	cmd.Flags().StringVar(&listen, "listen", "", "listen address (overrides config)")
	return cmd
}
