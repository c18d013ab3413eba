package geonames

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"github.com/UnknownOlympus/gazetteer/internal/metrics"
	"github.com/UnknownOlympus/gazetteer/internal/models"
)

// ctxCheckInterval is how many rows are read between context checks.
const ctxCheckInterval = 100_000

// NewPlace attaches a point built from the record's (longitude, latitude) pair.
func NewPlace(r models.Record) models.Place {
	return models.Place{Record: r, Geometry: r.Coordinates().Point()}
}

// NewCollection wraps records into a geometry-attached collection in EPSG:4326.
func NewCollection(records []models.Record) *models.Collection {
	places := make([]models.Place, 0, len(records))
	for _, r := range records {
		places = append(places, NewPlace(r))
	}
	return &models.Collection{CRS: models.CRS84, Places: places}
}

// Load reads the dump at path and returns the places selected by q, in file order.
// m may be nil.
func Load(
	ctx context.Context,
	path string,
	q models.Query,
	log *slog.Logger,
	m *metrics.Metrics,
) (*models.Collection, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open geonames dump: %w", err)
	}
	defer f.Close()

	log.InfoContext(ctx, "Reading GeoNames data", "path", path)
	if q.Feature != "" {
		log.InfoContext(ctx, "Filtering records", "country", q.Country, "feature_code", q.Feature)
	} else {
		log.InfoContext(ctx, "Filtering records (all features)", "country", q.Country)
	}

	filters := QueryFilters(q)
	coll := &models.Collection{CRS: models.CRS84}
	read := 0

	s := NewScanner(f)
	for s.Scan() {
		read++
		if read%ctxCheckInterval == 0 {
			if err = ctx.Err(); err != nil {
				return nil, err
			}
		}
		r := s.Record()
		if applyFilters(&r, filters) {
			coll.Places = append(coll.Places, NewPlace(r))
		}
	}
	if err = s.Err(); err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", path, err)
	}

	if m != nil {
		m.RecordsRead.Add(float64(read))
		m.RecordsMatched.Add(float64(coll.Len()))
	}
	log.InfoContext(ctx, "Records selected", "read", read, "matched", coll.Len())

	return coll, nil
}
