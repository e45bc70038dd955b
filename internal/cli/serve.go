package cli

import (
	"context"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"apidash/internal/mockgen"
	"apidash/internal/mockserver"
)

func newServeCmd(cfgFile *string) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the mock backend",
		Long:  "Serve the mock API endpoints (sim-info, register, billing, generate-mock) until interrupted.",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, log, err := loadConfig(cfgFile, cmd)
			if err != nil {
				return err
			}

			ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			srv := mockserver.New(mockserver.Config{Port: cfg.Port}, mockgen.New(), log)
			log.WithField("port", cfg.Port).Info("mock backend listening")
			return srv.ListenAndServe(ctx)
		},
	}

	cmd.Flags().Int("port", 0, "port to listen on")
	return cmd
}
