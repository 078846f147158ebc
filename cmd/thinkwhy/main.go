package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/spf13/cobra"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"

	"ThinkWhy/internal/config"
	"ThinkWhy/internal/telemetry"
)

var (
	configPath string
	debug      bool
)

// runtime bundles what every subcommand needs
type runtime struct {
	cfg     config.Config
	logger  *slog.Logger
	tracer  trace.Tracer
	meter   metric.Meter
	cleanup func()
}

func setup(ctx context.Context) (*runtime, error) {
	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, err
	}
	if debug {
		cfg.Debug = true
	}

	logger, logFile, err := telemetry.InitLogger(cfg.LogDir, cfg.Debug)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize logger: %w", err)
	}
	tracer, meter, shutdown, err := telemetry.InitTelemetry(ctx, cfg.LogDir)
	if err != nil {
		logFile.Close()
		return nil, fmt.Errorf("failed to initialize telemetry: %w", err)
	}
	if cfg.Debug {
		logger.Info("Debug mode enabled")
	}

	return &runtime{
		cfg:    cfg,
		logger: logger,
		tracer: tracer,
		meter:  meter,
		cleanup: func() {
			shutdown()
			logFile.Close()
		},
	}, nil
}

func newRootCmd(in io.Reader, out io.Writer) *cobra.Command {
	root := &cobra.Command{
		Use:           "thinkwhy",
		Short:         "Social media post optimizer and news search",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.PersistentFlags().StringVar(&configPath, "config", "", "Path to a TOML config file")
	root.PersistentFlags().BoolVar(&debug, "debug", false, "Enable debug logging")
	root.SetIn(in)
	root.SetOut(out)

	root.AddCommand(newPostCmd(), newNewsCmd(), newModelsCmd())
	return root
}

func main() {
	if err := newRootCmd(os.Stdin, os.Stdout).ExecuteContext(context.Background()); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
