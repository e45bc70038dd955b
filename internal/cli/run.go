package cli

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"golang.org/x/time/rate"

	"apidash/internal/analytics"
	"apidash/internal/auth"
	"apidash/internal/catalog"
	"apidash/internal/config"
	"apidash/internal/dashboard"
	"apidash/internal/export"
	"apidash/internal/httpclient"
	"apidash/internal/metrics"
	"apidash/internal/output"
	"apidash/internal/runner"
	"apidash/internal/threshold"
	"apidash/internal/tracing"
)

func newRunCmd(cfgFile *string) *cobra.Command {
	var (
		customMethod string
		customURL    string
		customBody   string
	)

	cmd := &cobra.Command{
		Use:   "run [category...]",
		Short: "Run catalog categories and report results",
		Long: `Run the named categories sequentially, or every category when none are given.
With --url a single custom request is sent instead.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, log, err := loadConfig(cfgFile, cmd)
			if err != nil {
				return err
			}
			if customMethod != "" && customURL == "" {
				return fmt.Errorf("--method requires --url")
			}
			return runCatalog(cmd.Context(), cfg, log, args, customMethod, customURL, customBody)
		},
	}

	cmd.Flags().String("base-url", "", "base URL prepended to relative catalog entries")
	cmd.Flags().String("catalog-file", "", "catalog YAML file (built-in catalog when empty)")
	cmd.Flags().Duration("timeout", 0, "per-request timeout")
	cmd.Flags().Int("rate", 0, "max requests per second (0 = unlimited)")
	cmd.Flags().String("proxy-prefix", "", "proxy prefix for the custom call transport retry")
	cmd.Flags().Bool("json-output", false, "emit the report as JSON")
	cmd.Flags().String("html-output", "", "write an HTML report to this path")
	cmd.Flags().String("excel-output", "", "write an Excel workbook to this path")
	cmd.Flags().String("pdf-output", "", "write a PDF report to this path")
	cmd.Flags().Bool("dashboard", false, "show a live terminal dashboard during the run")
	cmd.Flags().StringSlice("thresholds", nil, "pass/fail gates, e.g. 'api_call_failed:count == 0'")
	cmd.Flags().StringVar(&customMethod, "method", "", "custom request method")
	cmd.Flags().StringVar(&customURL, "url", "", "custom request URL")
	cmd.Flags().StringVar(&customBody, "body", "", "custom request JSON body")

	return cmd
}

func runCatalog(ctx context.Context, cfg *config.Config, log *logrus.Logger, categories []string, customMethod, customURL, customBody string) error {
	if ctx == nil {
		ctx = context.Background()
	}
	ctx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cat, err := loadCatalog(cfg)
	if err != nil {
		return err
	}

	provider, err := tracing.Init(ctx, tracing.Config{
		Enabled:     cfg.Tracing.Enabled,
		Endpoint:    cfg.Tracing.Endpoint,
		Protocol:    cfg.Tracing.Protocol,
		Insecure:    cfg.Tracing.Insecure,
		ServiceName: cfg.Tracing.ServiceName,
		SampleRate:  cfg.Tracing.SampleRate,
	})
	if err != nil {
		return err
	}
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = provider.Shutdown(shutdownCtx)
	}()

	collector := metrics.NewCollector()
	opts := runner.Options{
		Catalog:       cat,
		Client:        httpclient.NewClient(cfg.Timeout),
		ProxyPrefix:   cfg.ProxyPrefix,
		Collector:     collector,
		FailureLogger: logrusFailureLogger{log},
		MaxBodyBytes:  cfg.MaxBodyBytes,
	}
	if provider.Enabled() {
		opts.Tracer = provider.Tracer()
	}
	if cfg.Rate > 0 {
		opts.Pacer = rate.NewLimiter(rate.Limit(cfg.Rate), 1)
	}
	if cfg.Auth.StaticToken != "" {
		opts.Auth = auth.NewStaticTokenProvider(cfg.Auth.StaticToken)
	}
	r := runner.New(opts)

	var dash *dashboard.Dashboard
	if cfg.Dashboard && customURL == "" {
		dash, err = dashboard.New(collector, dashboard.RunConfig{
			BaseURL:     cfg.BaseURL,
			Categories:  categories,
			Rate:        cfg.Rate,
			Timeout:     cfg.Timeout,
			ProxyPrefix: cfg.ProxyPrefix,
			ConfigFile:  cfg.ConfigFile,
		}, stop)
		if err != nil {
			return err
		}
		dash.Start()
	}

	collector.Start()
	runErr := dispatch(ctx, r, categories, customMethod, customURL, customBody)

	if dash != nil {
		dash.Stop()
	}

	if runErr != nil && ctx.Err() == nil {
		return runErr
	}

	snap := r.Store().Snapshot()
	report := output.Report{
		GeneratedAt: time.Now(),
		Stats:       collector.Stats(collector.Elapsed()),
		Summaries:   analytics.Summarize(snap),
		Rows:        analytics.Flatten(snap),
	}

	if err := writeOutputs(cfg, cat, snap, report, log); err != nil {
		return err
	}

	return applyThresholds(cfg.Thresholds, report.Stats)
}

func dispatch(ctx context.Context, r *runner.Runner, categories []string, customMethod, customURL, customBody string) error {
	if customURL != "" {
		r.RunCustom(ctx, customMethod, customURL, customBody)
		return nil
	}
	if len(categories) == 0 {
		return r.RunAll(ctx)
	}
	for _, category := range categories {
		if err := r.RunCategory(ctx, category); err != nil {
			return err
		}
	}
	return nil
}

func loadCatalog(cfg *config.Config) (*catalog.Catalog, error) {
	var cat *catalog.Catalog
	var err error
	if cfg.CatalogFile != "" {
		cat, err = catalog.Load(cfg.CatalogFile)
		if err != nil {
			return nil, err
		}
	} else {
		cat = catalog.Default()
	}
	if cfg.BaseURL != "" {
		cat = cat.WithBaseURL(cfg.BaseURL)
	}
	return cat, nil
}

func writeOutputs(cfg *config.Config, cat *catalog.Catalog, snap runner.Snapshot, report output.Report, log *logrus.Logger) error {
	if cfg.JSONOutput {
		if err := output.PrintJSONReport(os.Stdout, report); err != nil {
			return err
		}
	} else {
		output.PrintReport(os.Stdout, report)
	}

	if cfg.HTMLOutput != "" {
		f, err := os.Create(cfg.HTMLOutput)
		if err != nil {
			return fmt.Errorf("create HTML report: %w", err)
		}
		if err := output.GenerateHTMLReport(f, report); err != nil {
			f.Close()
			return err
		}
		if err := f.Close(); err != nil {
			return err
		}
		log.WithField("path", cfg.HTMLOutput).Info("HTML report written")
	}

	if cfg.ExcelOutput != "" {
		n, err := export.WriteExcel(cfg.ExcelOutput, cat, snap)
		if err != nil {
			return err
		}
		log.WithFields(logrus.Fields{"path": cfg.ExcelOutput, "rows": n}).Info("Excel workbook written")
	}

	if cfg.PDFOutput != "" {
		if err := export.WritePDF(cfg.PDFOutput, report.Summaries, report.Rows); err != nil {
			return err
		}
		log.WithField("path", cfg.PDFOutput).Info("PDF report written")
	}

	return nil
}

func applyThresholds(specs []string, stats metrics.Stats) error {
	thresholds, err := threshold.ParseMultiple(specs)
	if err != nil {
		return err
	}
	results := threshold.Evaluate(thresholds, stats)
	if len(results) == 0 {
		return nil
	}

	var failed []string
	for _, res := range results {
		fmt.Println(res.Message)
		if !res.Pass {
			failed = append(failed, res.Threshold.Raw)
		}
	}
	if len(failed) > 0 {
		return fmt.Errorf("thresholds failed: %s", strings.Join(failed, "; "))
	}
	return nil
}

type logrusFailureLogger struct {
	log *logrus.Logger
}

func (l logrusFailureLogger) LogFailure(name string, err error) {
	if l.log == nil {
		return
	}
	l.log.WithField("api", name).WithError(err).Warn("call failed")
}
