package geonames_test

import (
	"context"
	"log/slog"
	"path/filepath"
	"strings"
	"testing"

	"github.com/Flaque/filet"
	"github.com/UnknownOlympus/gazetteer/internal/geonames"
	"github.com/UnknownOlympus/gazetteer/internal/metrics"
	"github.com/UnknownOlympus/gazetteer/internal/models"
	"github.com/paulmach/orb"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad(t *testing.T) {
	logger := slog.Default()
	defer filet.CleanUp(t)

	dir := filet.TmpDir(t, "")
	path := filepath.Join(dir, "allCountries.txt")
	filet.File(t, path, sampleDump)

	t.Run("country without feature code", func(t *testing.T) {
		reg := prometheus.NewRegistry()
		m := metrics.NewMetrics(reg)

		coll, err := geonames.Load(t.Context(), path, models.Query{Country: "ZA"}, logger, m)

		require.NoError(t, err)
		assert.Equal(t, "EPSG:4326", coll.CRS)
		require.Equal(t, 3, coll.Len())
		for _, p := range coll.Places {
			assert.Equal(t, "ZA", p.CountryCode)
			assert.Equal(t, orb.Point{p.Longitude, p.Latitude}, p.Geometry)
		}
		assert.Equal(t, orb.Point{28.04363, -26.20227}, coll.Places[0].Geometry)
		assert.InDelta(t, 7, testutil.ToFloat64(m.RecordsRead), 0)
		assert.InDelta(t, 3, testutil.ToFloat64(m.RecordsMatched), 0)
	})

	t.Run("country and feature code", func(t *testing.T) {
		coll, err := geonames.Load(t.Context(), path, models.Query{Country: "US", Feature: "PPL"}, logger, nil)

		require.NoError(t, err)
		require.Equal(t, 2, coll.Len())
		assert.Equal(t, "New York City", coll.Places[0].Name)
		assert.Equal(t, "San Francisco", coll.Places[1].Name)
	})

	t.Run("same result as filtering everything in memory", func(t *testing.T) {
		q := models.Query{Country: "US", Feature: "PPL"}
		coll, err := geonames.Load(t.Context(), path, q, logger, nil)
		require.NoError(t, err)

		records, err := geonames.ReadAll(strings.NewReader(sampleDump))
		require.NoError(t, err)
		want := geonames.NewCollection(geonames.Apply(records, geonames.QueryFilters(q)...))

		assert.Equal(t, want, coll)
	})

	t.Run("no match yields an empty collection", func(t *testing.T) {
		coll, err := geonames.Load(t.Context(), path, models.Query{Country: "FR"}, logger, nil)

		require.NoError(t, err)
		assert.Equal(t, 0, coll.Len())
	})

	t.Run("missing file", func(t *testing.T) {
		coll, err := geonames.Load(t.Context(), filepath.Join(dir, "missing.txt"), models.Query{Country: "ZA"}, logger, nil)

		require.Nil(t, coll)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "failed to open geonames dump")
	})

	t.Run("malformed dump", func(t *testing.T) {
		bad := filepath.Join(dir, "bad.txt")
		filet.File(t, bad, "1\tonly\tthree\n")

		coll, err := geonames.Load(t.Context(), bad, models.Query{Country: "ZA"}, logger, nil)

		require.Nil(t, coll)
		require.ErrorIs(t, err, geonames.ErrFieldCount)
	})

	t.Run("cancelled context", func(t *testing.T) {
		big := filepath.Join(dir, "big.txt")
		filet.File(t, big, strings.Repeat(sampleDump, 20_000))
		ctx, cancel := context.WithCancel(t.Context())
		cancel()

		_, err := geonames.Load(ctx, big, models.Query{Country: "ZA"}, logger, nil)

		require.ErrorIs(t, err, context.Canceled)
	})
}
