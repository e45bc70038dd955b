package cli

import (
	"github.com/spf13/cobra"
	"golang.org/x/time/rate"

	"apidash/internal/auth"
	"apidash/internal/httpclient"
	"apidash/internal/mockgen"
	"apidash/internal/runner"
	"apidash/internal/tui"
)

func newTUICmd(cfgFile *string) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "tui",
		Short: "Interactive terminal dashboard",
		Long:  "Browse categories, run them, send custom requests, and generate mock payloads interactively.",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, log, err := loadConfig(cfgFile, cmd)
			if err != nil {
				return err
			}

			cat, err := loadCatalog(cfg)
			if err != nil {
				return err
			}

			opts := runner.Options{
				Catalog:      cat,
				Client:       httpclient.NewClient(cfg.Timeout),
				ProxyPrefix:  cfg.ProxyPrefix,
				MaxBodyBytes: cfg.MaxBodyBytes,
			}
			if cfg.Rate > 0 {
				opts.Pacer = rate.NewLimiter(rate.Limit(cfg.Rate), 1)
			}
			if cfg.Auth.StaticToken != "" {
				opts.Auth = auth.NewStaticTokenProvider(cfg.Auth.StaticToken)
			}

			return tui.Run(tui.Deps{
				Catalog:   cat,
				Runner:    runner.New(opts),
				Generator: mockgen.New(),
				Log:       log,
			})
		},
	}

	cmd.Flags().String("base-url", "", "base URL prepended to relative catalog entries")
	cmd.Flags().String("catalog-file", "", "catalog YAML file (built-in catalog when empty)")
	cmd.Flags().Duration("timeout", 0, "per-request timeout")
	cmd.Flags().Int("rate", 0, "max requests per second (0 = unlimited)")
	cmd.Flags().String("proxy-prefix", "", "proxy prefix for the custom call transport retry")
	return cmd
}
