package export

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/UnknownOlympus/gazetteer/internal/metrics"
	"github.com/UnknownOlympus/gazetteer/internal/models"
)

// Exporter writes collections into an output directory.
type Exporter struct {
	dir     string
	log     *slog.Logger
	metrics *metrics.Metrics // may be nil
}

// NewExporter creates an Exporter writing into dir.
func NewExporter(dir string, log *slog.Logger, m *metrics.Metrics) *Exporter {
	return &Exporter{dir: dir, log: log, metrics: m}
}

// OutputPath returns the path of the artifact for q in format f,
// e.g. "output/ZA_ALL_geonames.geojson".
func OutputPath(dir string, q models.Query, f Format) string {
	return filepath.Join(dir, q.BaseName()+"."+f.Extension())
}

// Export writes c in format f and returns the saved path. The format is
// resolved before anything touches the filesystem.
func (e *Exporter) Export(ctx context.Context, c *models.Collection, q models.Query, f Format) (string, error) {
	w, err := NewWriter(f)
	if err != nil {
		return "", err
	}

	if err = os.MkdirAll(e.dir, 0o755); err != nil {
		return "", fmt.Errorf("failed to create output directory: %w", err)
	}

	path := OutputPath(e.dir, q, f)
	e.log.InfoContext(ctx, "Writing output", "format", f.Container(), "path", path, "features", c.Len())
	if err = w.Write(ctx, path, c); err != nil {
		return "", fmt.Errorf("failed to write %s: %w", f.Container(), err)
	}

	if e.metrics != nil {
		e.metrics.FeaturesWritten.WithLabelValues(string(f)).Add(float64(c.Len()))
	}
	e.log.InfoContext(ctx, "Saved output", "path", path)

	return path, nil
}
