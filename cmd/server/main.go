package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"golang.org/x/sync/errgroup"

	"github.com/diewo77/go-proformas/i18n"
	"github.com/diewo77/go-proformas/internal/api"
	"github.com/diewo77/go-proformas/internal/config"
	"github.com/diewo77/go-proformas/internal/metrics"
	"github.com/diewo77/go-proformas/internal/services"
	"github.com/diewo77/go-proformas/view"
)

var (
	configPath string
	reportLang string

	cfg    *config.Config
	logger *zap.Logger
)

var rootCmd = &cobra.Command{
	Use:   "proformas",
	Short: "Proforma web front for the workshop billing backend",
	Long: `proformas serves the proforma screens (create, history, reports)
over the remote GraphQL backend.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		// Load environment variables from .env file
		_ = godotenv.Load()

		var err error
		if configPath != "" {
			cfg, err = config.LoadFile(configPath)
			if err != nil {
				return err
			}
		} else {
			cfg = config.Load()
		}

		logger, err = newLogger(cfg.App)
		if err != nil {
			return fmt.Errorf("failed to initialize logger: %w", err)
		}
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		if logger != nil {
			_ = logger.Sync()
		}
	},
}

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the web front",
	RunE:  runServe,
}

var reportCmd = &cobra.Command{
	Use:   "report",
	Short: "Print the proforma totals",
	RunE:  runReport,
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "", "YAML config file (env vars still win)")
	reportCmd.Flags().StringVar(&reportLang, "lang", i18n.Default, "Output language (es, en)")

	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(reportCmd)
}

func main() {
	if err := rootCmd.ExecuteContext(context.Background()); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// newLogger builds a production zap logger, or a development one when DEV is set.
func newLogger(app config.AppConfig) (*zap.Logger, error) {
	zc := zap.NewProductionConfig()
	if app.Dev {
		zc = zap.NewDevelopmentConfig()
	}
	level := zapcore.InfoLevel
	if app.LogLevel != "" {
		if err := level.UnmarshalText([]byte(app.LogLevel)); err != nil {
			return nil, fmt.Errorf("log level %q: %w", app.LogLevel, err)
		}
	}
	zc.Level = zap.NewAtomicLevelAt(level)
	return zc.Build()
}

// newAPIClient connects to the backend described by cfg.
func newAPIClient(cfg *config.Config, log *zap.Logger, rec *metrics.Recorder) *api.Client {
	return api.New(api.Options{
		GraphQLURL:   cfg.API.GraphQLURL,
		DocumentBase: cfg.API.DocumentBase,
		HTTPClient:   &http.Client{Timeout: cfg.API.TimeoutDuration()},
		CacheTTL:     cfg.API.CacheTTL(),
		Metrics:      rec,
		Logger:       log,
	})
}

func runServe(cmd *cobra.Command, args []string) error {
	if cfg.App.Dev {
		// view reads DEV to skip the template cache
		_ = os.Setenv("DEV", "1")
	}
	view.SetAppInfo(cfg.App.Name, cfg.App.Version)

	rec := metrics.New()
	app := NewApp(cfg, newAPIClient(cfg, logger, rec), logger, rec)

	srv := &http.Server{
		Addr:         cfg.Server.Addr(),
		Handler:      app,
		ReadTimeout:  time.Duration(cfg.Server.ReadTimeout) * time.Second,
		WriteTimeout: time.Duration(cfg.Server.WriteTimeout) * time.Second,
		IdleTimeout:  time.Duration(cfg.Server.IdleTimeout) * time.Second,
	}

	parent := cmd.Context()
	if parent == nil {
		parent = context.Background()
	}
	ctx, stop := signal.NotifyContext(parent, os.Interrupt, syscall.SIGTERM)
	defer stop()

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		logger.Info("server starting",
			zap.String("addr", srv.Addr),
			zap.String("backend", cfg.API.GraphQLURL),
			zap.Bool("dev", cfg.App.Dev))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("listen: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		logger.Info("shutdown signal received")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("shutdown: %w", err)
		}
		logger.Info("server stopped gracefully")
		return nil
	})
	return g.Wait()
}

func runReport(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	client := newAPIClient(cfg, logger, nil)
	rep, err := services.NewProformaService(client).Report(ctx)
	if err != nil {
		return err
	}

	lang := reportLang
	if !i18n.Supported(lang) {
		lang = i18n.Default
	}
	currency := i18n.T(lang, "currency")
	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "%s: %s %s\n", i18n.T(lang, "reports.total_generated"), view.Money(rep.Generated), currency)
	fmt.Fprintf(out, "%s: %s %s\n", i18n.T(lang, "reports.pending"), view.Money(rep.Pending), currency)
	fmt.Fprintf(out, "%s: %s %s\n", i18n.T(lang, "reports.collected"), view.Money(rep.Collected), currency)
	fmt.Fprintf(out, "%s: %d\n", i18n.T(lang, "reports.jobs"), rep.Count)
	return nil
}
