package cli

import (
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/nuritravel/go-docx-enhancer/internal/server"
)

func newServeCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP enhancement service",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, log, err := setup()
			if err != nil {
				return err
			}
			defer func() {
				_ = log.Sync()
			}()

			if cfg.Webhook.URL == "" {
				log.Warn("no webhook URL configured; /api/enhance will fail until one is set")
			}
			log.Info("starting service",
				zap.String("addr", cfg.Server.Addr),
				zap.String("defaultPolicy", cfg.Policy.Default))

			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			return server.New(cfg, log).Run(ctx)
		},
	}
}
