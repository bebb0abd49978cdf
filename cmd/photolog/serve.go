package main

import (
	"github.com/spf13/cobra"

	"github.com/dmitrymomot/uploads/pkg/httpserver"
	"github.com/dmitrymomot/uploads/pkg/logger"
)

func newServeCmd(envFiles *[]string) *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the photolog HTTP server",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()

			cfg, settings, err := loadConfig(*envFiles)
			if err != nil {
				return err
			}
			log := newLogger(cfg)

			a, err := newApp(ctx, cfg, settings, log)
			if err != nil {
				log.ErrorContext(ctx, "startup failed", logger.Error(err))
				return err
			}

			srv := httpserver.NewFromConfig(cfg.HTTP, httpserver.WithLogger(log))
			return srv.Run(ctx, a.routes())
		},
	}
}
