package service

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/UnknownOlympus/gazetteer/internal/export"
	"github.com/UnknownOlympus/gazetteer/internal/geonames"
	"github.com/UnknownOlympus/gazetteer/internal/metrics"
	"github.com/UnknownOlympus/gazetteer/internal/models"
	"github.com/UnknownOlympus/gazetteer/internal/repository"
)

// Stage names used for logging and the stage duration metric.
const (
	StageDownload = "download"
	StageLoad     = "load"
	StageExport   = "export"
	StagePublish  = "publish"
)

// Acquirer makes the GeoNames dump available locally and returns its path.
type Acquirer interface {
	Ensure(ctx context.Context) (string, error)
}

// Pipeline runs acquisition, transformation and export once per call,
// followed by an optional publish to the database.
type Pipeline struct {
	log      *slog.Logger         // Logger for logging pipeline progress
	source   Acquirer             // Source of the tab-separated dump
	exporter *export.Exporter     // Writer of the output artifact
	repo     repository.Interface // Optional PostGIS target, nil disables publishing
	metrics  *metrics.Metrics     // Metrics for stage durations, may be nil
}

// NewPipeline creates a new Pipeline. repo may be nil.
func NewPipeline(
	log *slog.Logger,
	source Acquirer,
	exporter *export.Exporter,
	repo repository.Interface,
	metrics *metrics.Metrics,
) *Pipeline {
	return &Pipeline{
		log:      log,
		source:   source,
		exporter: exporter,
		repo:     repo,
		metrics:  metrics,
	}
}

// Run exports the places selected by q in the given format and returns the saved path.
// The format is validated before any download starts, and any failing stage aborts
// the run without attempting the later ones. Partial outputs are left in place.
func (p *Pipeline) Run(ctx context.Context, q models.Query, format string) (string, error) {
	f, err := export.ParseFormat(format)
	if err != nil {
		return "", err
	}

	var path string
	err = p.stage(ctx, StageDownload, func() error {
		var errEnsure error
		path, errEnsure = p.source.Ensure(ctx)
		return errEnsure
	})
	if err != nil {
		return "", fmt.Errorf("failed to acquire geonames dump: %w", err)
	}

	var coll *models.Collection
	err = p.stage(ctx, StageLoad, func() error {
		var errLoad error
		coll, errLoad = geonames.Load(ctx, path, q, p.log, p.metrics)
		return errLoad
	})
	if err != nil {
		return "", fmt.Errorf("failed to load places: %w", err)
	}

	var saved string
	err = p.stage(ctx, StageExport, func() error {
		var errExport error
		saved, errExport = p.exporter.Export(ctx, coll, q, f)
		return errExport
	})
	if err != nil {
		return "", fmt.Errorf("failed to export places: %w", err)
	}

	if p.repo != nil {
		if err = p.stage(ctx, StagePublish, func() error { return p.publish(ctx, q, coll) }); err != nil {
			return "", fmt.Errorf("failed to publish places: %w", err)
		}
	}

	return saved, nil
}

func (p *Pipeline) publish(ctx context.Context, q models.Query, coll *models.Collection) error {
	if err := p.repo.EnsureSchema(ctx); err != nil {
		return err
	}

	n, err := p.repo.ReplacePlaces(ctx, q, coll.Places)
	if err != nil {
		return err
	}

	if p.metrics != nil {
		p.metrics.PlacesPublished.Add(float64(n))
	}
	return nil
}

// stage runs fn and records its duration.
func (p *Pipeline) stage(ctx context.Context, name string, fn func() error) error {
	start := time.Now()
	p.log.DebugContext(ctx, "Stage started", "stage", name)

	err := fn()

	elapsed := time.Since(start)
	if p.metrics != nil {
		p.metrics.StageSeconds.WithLabelValues(name).Observe(elapsed.Seconds())
	}
	if err != nil {
		p.log.ErrorContext(ctx, "Stage failed", "stage", name, "error", err)
		return err
	}
	p.log.DebugContext(ctx, "Stage finished", "stage", name, "duration", elapsed)
	return nil
}
