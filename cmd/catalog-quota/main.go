package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/spf13/pflag"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/iwvelando/catalog-quota/internal/catalog"
	"github.com/iwvelando/catalog-quota/internal/config"
	"github.com/iwvelando/catalog-quota/internal/engine"
	"github.com/iwvelando/catalog-quota/internal/metrics"
	"github.com/iwvelando/catalog-quota/internal/server"
	"github.com/iwvelando/catalog-quota/pkg/constants"
	"github.com/iwvelando/catalog-quota/pkg/output"
	"github.com/iwvelando/catalog-quota/pkg/validation"
)

// version is set at build time with -ldflags "-X main.version=...".
var version = "dev"

// initializeLogger creates a zap logger based on configuration and CLI override
func initializeLogger(loggingConfig config.LoggingConfig, logLevelOverride string) (*zap.Logger, error) {
	level := loggingConfig.Level
	if logLevelOverride != "" {
		level = logLevelOverride
	}
	if level == "" {
		level = "info"
	}

	var zapLevel zapcore.Level
	switch level {
	case "debug":
		zapLevel = zapcore.DebugLevel
	case "info":
		zapLevel = zapcore.InfoLevel
	case "warn", "warning":
		zapLevel = zapcore.WarnLevel
	case "error":
		zapLevel = zapcore.ErrorLevel
	default:
		return nil, fmt.Errorf("invalid log level: %s", level)
	}

	format := loggingConfig.Format
	if format == "" {
		format = "json"
	}

	var zapConfig zap.Config
	switch format {
	case "console":
		zapConfig = zap.NewDevelopmentConfig()
	case "json":
		zapConfig = zap.NewProductionConfig()
	default:
		return nil, fmt.Errorf("invalid log format: %s", format)
	}
	zapConfig.Level = zap.NewAtomicLevelAt(zapLevel)

	// Reports go to stdout, so logs never share it.
	zapConfig.OutputPaths = []string{"stderr"}
	zapConfig.ErrorOutputPaths = []string{"stderr"}

	if loggingConfig.OutputFile != "" {
		if dir := filepath.Dir(loggingConfig.OutputFile); dir != "." {
			if err := os.MkdirAll(dir, 0755); err != nil {
				return nil, fmt.Errorf("failed to create log directory %s: %v", dir, err)
			}
		}

		if file, err := os.OpenFile(loggingConfig.OutputFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644); err != nil {
			return nil, fmt.Errorf("failed to open log file %s: %v", loggingConfig.OutputFile, err)
		} else {
			_ = file.Close()
		}

		zapConfig.OutputPaths = []string{loggingConfig.OutputFile}
		zapConfig.ErrorOutputPaths = []string{loggingConfig.OutputFile}
	}

	return zapConfig.Build()
}

// mergeLogging lets the server configuration override the fields it sets.
func mergeLogging(base, override config.LoggingConfig) config.LoggingConfig {
	if override.Level != "" {
		base.Level = override.Level
	}
	if override.Format != "" {
		base.Format = override.Format
	}
	if override.OutputFile != "" {
		base.OutputFile = override.OutputFile
	}
	return base
}

func main() {
	flags := pflag.NewFlagSet(constants.ProgramName, pflag.ExitOnError)
	configLocation := flags.String("config", constants.DefaultConfigFile, "path to configuration file")
	flags.String("output-format", "", "type of output override: pretty, csv")
	logLevel := flags.String("log-level", "", "log level override (debug, info, warn, error)")
	serve := flags.Bool("serve", false, "serve the HTTP API instead of printing a report")
	serverConfigLocation := flags.String("server-config", constants.DefaultServerConfigFile, "path to server configuration file")
	showVersion := flags.Bool("version", false, "print the version and exit")
	_ = flags.Parse(os.Args[1:])

	if *showVersion {
		fmt.Println(version)
		return
	}

	conf, err := config.LoadConfigurationWithFlags(*configLocation, flags)
	if err != nil {
		fmt.Fprintf(os.Stderr, "{\"op\": \"main\", \"level\": \"fatal\", \"msg\": \"failed to load configuration at %s\", \"error\": \"%v\"}\n", *configLocation, err)
		os.Exit(1)
	}

	var serverConf *server.Config
	loggingConf := conf.Logging
	if *serve {
		serverConf, err = server.LoadConfig(*serverConfigLocation)
		if err != nil {
			fmt.Fprintf(os.Stderr, "{\"op\": \"main\", \"level\": \"fatal\", \"msg\": \"failed to load server configuration at %s\", \"error\": \"%v\"}\n", *serverConfigLocation, err)
			os.Exit(1)
		}
		loggingConf = mergeLogging(loggingConf, serverConf.Logging)
	}

	logger, err := initializeLogger(loggingConf, *logLevel)
	if err != nil {
		fmt.Fprintf(os.Stderr, "{\"op\": \"main\", \"level\": \"fatal\", \"msg\": \"failed to initialize logger\", \"error\": \"%v\"}\n", err)
		os.Exit(1)
	}
	defer func() {
		_ = logger.Sync()
	}()

	if err := validation.ValidateOutputFormat(conf.Output.Format); err != nil {
		logger.Fatal(err.Error(),
			zap.String("op", "main"),
		)
	}

	for _, warning := range conf.ValidateConfiguration() {
		logger.Warn("Configuration warning: "+warning,
			zap.String("op", "main"),
		)
	}

	calc, err := conf.ToCalculator()
	if err != nil {
		logger.Fatal("failed to build the quota calculator",
			zap.String("op", "main"),
			zap.Error(err),
		)
	}

	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	m := metrics.NewPipelineMetrics(registry)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	products, err := catalog.Load(ctx, logger, conf.ToSource(), m)
	if err != nil {
		logger.Fatal("failed to load catalog",
			zap.String("op", "main"),
			zap.Error(err),
		)
	}

	eng, err := engine.New(logger, products, calc, append(conf.EngineOptions(), engine.WithMetrics(m))...)
	if err != nil {
		logger.Fatal("failed to build catalog engine",
			zap.String("op", "main"),
			zap.Error(err),
		)
	}

	if *serve {
		if err := runServer(ctx, logger, eng, serverConf, registry); err != nil {
			logger.Fatal("server stopped",
				zap.String("op", "main"),
				zap.Error(err),
			)
		}
		return
	}

	view, err := eng.Run(conf.ToAppState())
	if err != nil {
		logger.Fatal("failed to render catalog view",
			zap.String("op", "main"),
			zap.Error(err),
		)
	}

	switch conf.Output.Format {
	case constants.OutputFormatPretty:
		err = output.PrettyFormat(os.Stdout, view, conf.Output.CurrencySymbol)
	case constants.OutputFormatCSV:
		err = output.CsvFormat(os.Stdout, view)
	}
	if err != nil {
		logger.Fatal("failed to write output",
			zap.String("op", "main"),
			zap.Error(err),
		)
	}
}

// runServer serves the HTTP API until ctx is cancelled, then drains in-flight requests.
func runServer(ctx context.Context, logger *zap.Logger, eng *engine.Engine, cfg *server.Config, registry *prometheus.Registry) error {
	opts := server.Options{
		MaxBodySize: cfg.BodySizeBytes(),
		Version:     version,
	}
	if !cfg.DisableMetrics {
		opts.Gatherer = registry
	}
	srv := &http.Server{
		Addr:              cfg.Address,
		Handler:           server.NewHandler(logger, eng, opts),
		ReadHeaderTimeout: cfg.ReadHeaderTimeout,
		WriteTimeout:      cfg.WriteTimeout,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("serving catalog API",
			zap.String("op", "main.runServer"),
			zap.String("address", cfg.Address),
		)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()
	logger.Info("shutting down catalog API",
		zap.String("op", "main.runServer"),
	)
	return srv.Shutdown(shutdownCtx)
}
