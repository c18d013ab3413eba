package main

import (
	"context"
	"fmt"
	"io"
	"log"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/UnknownOlympus/gazetteer/internal/config"
	"github.com/UnknownOlympus/gazetteer/internal/download"
	"github.com/UnknownOlympus/gazetteer/internal/export"
	"github.com/UnknownOlympus/gazetteer/internal/metrics"
	"github.com/UnknownOlympus/gazetteer/internal/models"
	"github.com/UnknownOlympus/gazetteer/internal/repository"
	"github.com/UnknownOlympus/gazetteer/internal/service"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/urfave/cli/v2"
)

// Constants for different environment types.
const (
	envLocal = "local"
	envDev   = "development"
	envProd  = "production"
)

// main is the entry point of the application.
func main() {
	log.SetFlags(0)

	// Cancel the run when an interrupt signal is received.
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Load application configuration.
	cfg := config.MustLoad()

	if err := newApp(cfg).RunContext(ctx, os.Args); err != nil {
		stop()
		log.Fatal(err)
	}
}

// newApp builds the command line application. Flag defaults come from cfg.
func newApp(cfg *config.Config) *cli.App {
	return &cli.App{
		Name:  "gazetteer",
		Usage: "Download GeoNames places for a country and export them to a GIS format",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:     "country",
				Aliases:  []string{"c"},
				Usage:    "ISO-3166 two letter country code, e.g. ZA",
				Required: true,
			},
			&cli.StringFlag{
				Name:    "feature",
				Aliases: []string{"f"},
				Usage:   "GeoNames feature code, e.g. PPL (default: all features)",
			},
			&cli.StringFlag{
				Name:  "format",
				Usage: "Output format, one of " + export.FormatNames(),
				Value: string(export.FormatGeoJSON),
			},
			&cli.StringFlag{
				Name:  "data-dir",
				Usage: "Directory the GeoNames archive is extracted into",
				Value: cfg.Source.DataDir,
			},
			&cli.StringFlag{
				Name:  "output-dir",
				Usage: "Directory receiving the exported file",
				Value: cfg.OutputDir,
			},
			&cli.StringFlag{
				Name:  "source-url",
				Usage: "URL of the GeoNames zip archive",
				Value: cfg.Source.URL,
			},
		},
		Action: func(c *cli.Context) error {
			cfg.Source.DataDir = c.String("data-dir")
			cfg.Source.URL = c.String("source-url")
			cfg.OutputDir = c.String("output-dir")

			query := models.Query{
				Country: strings.ToUpper(c.String("country")),
				Feature: strings.ToUpper(c.String("feature")),
			}
			format := strings.ToLower(c.String("format"))

			saved, err := run(c.Context, cfg, query, format, c.App.ErrWriter)
			if err != nil {
				return err
			}

			_, err = fmt.Fprintf(c.App.Writer, "Saved %s to %s\n", strings.ToUpper(format), saved)
			return err
		},
	}
}

// run wires the pipeline from cfg, executes it once and returns the saved path.
func run(ctx context.Context, cfg *config.Config, query models.Query, format string, logOut io.Writer) (string, error) {
	// Set up the logger based on the environment.
	logger := setupLogger(cfg.Env, logOut)

	// Create a separate registry for the run metrics.
	reg := prometheus.NewRegistry()
	appMetrics := metrics.NewMetrics(reg)

	// Publishing is optional and only enabled by a database URL.
	var repo repository.Interface
	if cfg.Database.URL != "" {
		dtb, err := repository.NewDatabase(ctx, cfg.Database.URL)
		if err != nil {
			return "", fmt.Errorf("failed to connect to DB: %w", err)
		}
		defer dtb.Close()

		repo = repository.NewRepository(dtb, logger, cfg.Database.Table)
		logger.InfoContext(ctx, "Publishing to database enabled", "table", cfg.Database.Table)
	}

	pipeline := service.NewPipeline(
		logger,
		download.NewDownloader(cfg.Source, logger, appMetrics),
		export.NewExporter(cfg.OutputDir, logger, appMetrics),
		repo,
		appMetrics,
	)

	saved, err := pipeline.Run(ctx, query, format)

	if cfg.MetricsFile != "" {
		if errWrite := prometheus.WriteToTextfile(cfg.MetricsFile, reg); errWrite != nil {
			logger.ErrorContext(ctx, "Failed to write metrics file", "path", cfg.MetricsFile, "error", errWrite)
		}
	}

	return saved, err
}

// setupLogger initializes and returns a logger based on the environment provided.
func setupLogger(env string, w io.Writer) *slog.Logger {
	var log *slog.Logger

	switch env {
	case envLocal:
		log = slog.New(
			slog.NewTextHandler(w, &slog.HandlerOptions{
				Level:     slog.LevelDebug,
				AddSource: true,
			}),
		)
	case envDev:
		log = slog.New(
			slog.NewTextHandler(w, &slog.HandlerOptions{
				Level:     slog.LevelInfo,
				AddSource: false,
			}),
		)
	case envProd:
		log = slog.New(
			slog.NewJSONHandler(w, &slog.HandlerOptions{
				Level:     slog.LevelWarn,
				AddSource: false,
				ReplaceAttr: dropTime,
			}),
		)
	default:
		log = slog.New(
			slog.NewJSONHandler(w, &slog.HandlerOptions{
				Level:     slog.LevelError,
				AddSource: false,
				ReplaceAttr: dropTime,
			}),
		)

		log.Error(
			"The env parameter was not specified or was invalid. Logging will be minimal, by default.",
			slog.String("available_envs", "local, development, production"))
	}

	return log
}

// dropTime removes the timestamp from structured records; the collector adds its own.
func dropTime(_ []string, a slog.Attr) slog.Attr {
	if a.Key == slog.TimeKey {
		return slog.Attr{}
	}
	return a
}
