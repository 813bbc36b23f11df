package main

import (
	"github.com/spf13/cobra"

	"moviesuggest/internal/logging"
	"moviesuggest/internal/server"
)

func newServeCommand(ctx *commandContext) *cobra.Command {
	var bind string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			logger, err := ctx.logger("stdout")
			if err != nil {
				return err
			}
			svc, err := buildService(cfg, logger)
			if err != nil {
				return err
			}

			opts := server.OptionsFromConfig(cfg)
			if bind != "" {
				opts.Bind = bind
			}
			srv, err := server.New(opts, svc, logger)
			if err != nil {
				return err
			}

			runCtx := cmd.Context()
			if err := srv.Start(runCtx); err != nil {
				return err
			}
			logger.Info("moviesuggest ready",
				logging.String("address", srv.Addr()),
				logging.String("gemini_model", cfg.Gemini.Model),
				logging.Int("max_concurrency", cfg.Suggest.MaxConcurrency),
			)
			<-runCtx.Done()
			srv.Stop()
			logger.Info("moviesuggest stopped")
			return nil
		},
	}

	cmd.Flags().StringVar(&bind, "bind", "", "Override the configured listen address")
	return cmd
}
