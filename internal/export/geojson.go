package export

import (
	"context"
	"encoding/json"
	"fmt"
	"math"
	"os"
	"path/filepath"
	"strings"

	"github.com/UnknownOlympus/gazetteer/internal/models"
	"github.com/paulmach/orb"
	"github.com/paulmach/orb/geojson"
)

// crs84URN is how GeoJSON names the lon/lat WGS84 reference system.
const crs84URN = "urn:ogc:def:crs:OGC:1.3:CRS84"

// GeoJSONWriter writes a collection as one GeoJSON FeatureCollection.
type GeoJSONWriter struct{}

func (GeoJSONWriter) Write(_ context.Context, path string, c *models.Collection) error {
	fc := geojson.NewFeatureCollection()
	fc.ExtraMembers = geojson.Properties{
		"name": strings.TrimSuffix(filepath.Base(path), filepath.Ext(path)),
		"crs": map[string]any{
			"type":       "name",
			"properties": map[string]any{"name": crs84URN},
		},
	}

	for i := range c.Places {
		p := &c.Places[i]
		f := geojson.NewFeature(featureGeometry(p.Geometry))
		for _, col := range Schema {
			f.Properties[col.Name] = jsonValue(col.Value(p))
		}
		fc.Append(f)
	}

	data, err := json.MarshalIndent(fc, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal GeoJSON: %w", err)
	}

	if err = os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("failed to write output file: %w", err)
	}
	return nil
}

// featureGeometry returns nil for points with a missing ordinate, which is
// encoded as "geometry": null.
func featureGeometry(p orb.Point) orb.Geometry {
	if math.IsNaN(p.X()) || math.IsNaN(p.Y()) {
		return nil
	}
	return p
}

// jsonValue maps NaN to nil since JSON has no representation for it.
func jsonValue(v any) any {
	if f, ok := v.(float64); ok && math.IsNaN(f) {
		return nil
	}
	return v
}
