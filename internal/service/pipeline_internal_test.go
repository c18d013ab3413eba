package service

import (
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/Flaque/filet"
	"github.com/UnknownOlympus/gazetteer/internal/export"
	"github.com/UnknownOlympus/gazetteer/internal/metrics"
	"github.com/UnknownOlympus/gazetteer/internal/models"
	"github.com/UnknownOlympus/gazetteer/test/mocks"
	"github.com/jonas-p/go-shp"
	"github.com/paulmach/orb"
	"github.com/paulmach/orb/geojson"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

var dump = strings.Join([]string{
	"993800\tJohannesburg\tJohannesburg\tEgoli,Joburg\t-26.20227\t28.04363\tP\tPPLA\tZA\t\t06\t\t\t\t957441\t\t1767\tAfrica/Johannesburg\t2019-09-05",
	"184745\tNairobi\tNairobi\tNBO\t-1.28333\t36.81667\tP\tPPLC\tKE\t\t05\t\t\t\t2750547\t\t1691\tAfrica/Nairobi\t2020-01-01",
	"3369157\tCape Town\tCape Town\t\t-33.92584\t18.42322\tP\tPPLA\tZA\t\t11\tCPT\t\t\t3433441\t\t7\tAfrica/Johannesburg\t2019-09-05",
	"5128581\tNew York City\tNew York City\tNYC\t40.71427\t-74.00597\tP\tPPL\tUS\t\tNY\t\t\t\t8804190\t10\t57\tAmerica/New_York\t2022-04-01",
	"4140963\tWashington\tWashington\tDC\t38.89511\t-77.03637\tP\tPPLC\tUS\t\tDC\t001\t\t\t689545\t\t6\tAmerica/New_York\t2022-10-21",
	"5391959\tSan Francisco\tSan Francisco\tSF\t37.77493\t-122.41942\tP\tPPL\tUS\t\tCA\t075\t\t\t864816\t16\t28\tAmerica/Los_Angeles\t2022-02-01",
}, "\n") + "\n"

type fixture struct {
	source  *mocks.Acquirer
	repo    *mocks.Interface
	metrics *metrics.Metrics
	outDir  string
	path    string
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	dir := filet.TmpDir(t, "")
	path := filepath.Join(dir, "allCountries.txt")
	filet.File(t, path, dump)

	return &fixture{
		source:  mocks.NewAcquirer(t),
		repo:    mocks.NewInterface(t),
		metrics: metrics.NewMetrics(prometheus.NewRegistry()),
		outDir:  filepath.Join(dir, "output"),
		path:    path,
	}
}

func (f *fixture) pipeline(withRepo bool) *Pipeline {
	logger := slog.New(slog.NewTextHandler(os.Stdout, nil))
	exporter := export.NewExporter(f.outDir, logger, f.metrics)
	if withRepo {
		return NewPipeline(logger, f.source, exporter, f.repo, f.metrics)
	}
	return NewPipeline(logger, f.source, exporter, nil, f.metrics)
}

func TestPipeline_Run(t *testing.T) {
	defer filet.CleanUp(t)
	ctx := t.Context()

	t.Run("ZA without feature to geojson", func(t *testing.T) {
		f := newFixture(t)
		f.source.On("Ensure", ctx).Return(f.path, nil).Once()

		saved, err := f.pipeline(false).Run(ctx, models.Query{Country: "ZA"}, "geojson")

		require.NoError(t, err)
		assert.Equal(t, filepath.Join(f.outDir, "ZA_ALL_geonames.geojson"), saved)

		data, err := os.ReadFile(saved)
		require.NoError(t, err)
		fc, err := geojson.UnmarshalFeatureCollection(data)
		require.NoError(t, err)
		require.Len(t, fc.Features, 2)
		for _, feat := range fc.Features {
			assert.Equal(t, "ZA", feat.Properties["country_code"])
			lat, _ := feat.Properties["latitude"].(float64)
			lon, _ := feat.Properties["longitude"].(float64)
			assert.Equal(t, orb.Point{lon, lat}, feat.Geometry)
		}
		assert.Equal(t, "Johannesburg", fc.Features[0].Properties["name"])
		assert.Equal(t, "Cape Town", fc.Features[1].Properties["name"])

		assert.InDelta(t, 6, testutil.ToFloat64(f.metrics.RecordsRead), 0)
		assert.InDelta(t, 2, testutil.ToFloat64(f.metrics.RecordsMatched), 0)
		assert.Equal(t, 3, testutil.CollectAndCount(f.metrics.StageSeconds))
	})

	t.Run("US PPL to shapefile with sidecars", func(t *testing.T) {
		f := newFixture(t)
		f.source.On("Ensure", ctx).Return(f.path, nil).Once()

		saved, err := f.pipeline(false).Run(ctx, models.Query{Country: "US", Feature: "PPL"}, "shp")

		require.NoError(t, err)
		assert.Equal(t, filepath.Join(f.outDir, "US_PPL_geonames.shp"), saved)
		for _, sidecar := range export.ShapefileSidecars(saved) {
			assert.FileExists(t, sidecar)
		}

		r, err := shp.Open(saved)
		require.NoError(t, err)
		defer r.Close()

		fields := r.Fields()
		col := map[string]int{}
		for i, field := range fields {
			col[field.String()] = i
		}
		var names []string
		for r.Next() {
			row, _ := r.Shape()
			assert.Equal(t, "US", r.ReadAttribute(row, col[export.DBFName("country_code")]))
			assert.Equal(t, "PPL", r.ReadAttribute(row, col[export.DBFName("feature_code")]))
			names = append(names, r.ReadAttribute(row, col["name"]))
		}
		assert.Equal(t, []string{"New York City", "San Francisco"}, names)
	})

	t.Run("unsupported format writes nothing and skips the download", func(t *testing.T) {
		f := newFixture(t)

		saved, err := f.pipeline(false).Run(ctx, models.Query{Country: "ZA"}, "csv")

		require.ErrorIs(t, err, export.ErrUnsupportedFormat)
		assert.Empty(t, saved)
		assert.NoDirExists(t, f.outDir)
		f.source.AssertNotCalled(t, "Ensure", mock.Anything)
	})

	t.Run("download failure aborts before export", func(t *testing.T) {
		f := newFixture(t)
		f.source.On("Ensure", ctx).Return("", assert.AnError).Once()

		saved, err := f.pipeline(false).Run(ctx, models.Query{Country: "ZA"}, "kml")

		require.ErrorIs(t, err, assert.AnError)
		assert.ErrorContains(t, err, "failed to acquire geonames dump")
		assert.Empty(t, saved)
		assert.NoDirExists(t, f.outDir)
		assert.Equal(t, 1, testutil.CollectAndCount(f.metrics.StageSeconds))
	})

	t.Run("malformed dump aborts before export", func(t *testing.T) {
		f := newFixture(t)
		filet.File(t, f.path, "1\tonly\tthree\n")
		f.source.On("Ensure", ctx).Return(f.path, nil).Once()

		saved, err := f.pipeline(false).Run(ctx, models.Query{Country: "ZA"}, "gpkg")

		require.Error(t, err)
		assert.ErrorContains(t, err, "failed to load places")
		assert.Empty(t, saved)
		assert.NoDirExists(t, f.outDir)
	})

	t.Run("publishes exported places", func(t *testing.T) {
		f := newFixture(t)
		query := models.Query{Country: "US", Feature: "PPL"}
		f.source.On("Ensure", ctx).Return(f.path, nil).Once()
		f.repo.On("EnsureSchema", ctx).Return(nil).Once()
		f.repo.On("ReplacePlaces", ctx, query, mock.MatchedBy(func(places []models.Place) bool {
			return len(places) == 2 && places[0].Name == "New York City"
		})).Return(2, nil).Once()

		saved, err := f.pipeline(true).Run(ctx, query, "kml")

		require.NoError(t, err)
		assert.FileExists(t, saved)
		assert.InDelta(t, 2, testutil.ToFloat64(f.metrics.PlacesPublished), 0)
		assert.Equal(t, 4, testutil.CollectAndCount(f.metrics.StageSeconds))
	})

	t.Run("schema failure fails the run", func(t *testing.T) {
		f := newFixture(t)
		f.source.On("Ensure", ctx).Return(f.path, nil).Once()
		f.repo.On("EnsureSchema", ctx).Return(assert.AnError).Once()

		saved, err := f.pipeline(true).Run(ctx, models.Query{Country: "ZA"}, "geojson")

		require.ErrorIs(t, err, assert.AnError)
		assert.ErrorContains(t, err, "failed to publish places")
		assert.Empty(t, saved)
		f.repo.AssertNotCalled(t, "ReplacePlaces", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("publish failure fails the run", func(t *testing.T) {
		f := newFixture(t)
		f.source.On("Ensure", ctx).Return(f.path, nil).Once()
		f.repo.On("EnsureSchema", ctx).Return(nil).Once()
		f.repo.On("ReplacePlaces", ctx, models.Query{Country: "ZA"}, mock.Anything).Return(0, assert.AnError).Once()

		_, err := f.pipeline(true).Run(ctx, models.Query{Country: "ZA"}, "geojson")

		require.ErrorIs(t, err, assert.AnError)
		assert.Zero(t, testutil.ToFloat64(f.metrics.PlacesPublished))
	})
}
