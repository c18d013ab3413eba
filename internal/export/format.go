package export

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/UnknownOlympus/gazetteer/internal/models"
)

// Format represents an output container format.
type Format string

const (
	// FormatGeoJSON writes a single GeoJSON FeatureCollection.
	FormatGeoJSON Format = "geojson"
	// FormatGeoPackage writes a GeoPackage with one "geonames" layer.
	FormatGeoPackage Format = "gpkg"
	// FormatShapefile writes an ESRI Shapefile and its sidecar files.
	FormatShapefile Format = "shp"
	// FormatKML writes a KML document.
	FormatKML Format = "kml"
)

// ErrUnsupportedFormat is returned for format keys outside Formats().
var ErrUnsupportedFormat = errors.New("unsupported format")

// Writer serializes a collection to path.
type Writer interface {
	Write(ctx context.Context, path string, c *models.Collection) error
}

// formatInfo describes one entry of the format lookup table.
type formatInfo struct {
	Container string // Container is the human readable container name.
	Extension string // Extension is the file extension, without the dot.
	Driver    string // Driver is the GDAL/OGR driver name of the container.
	newWriter func() Writer
}

// formatOrder fixes the order formats are listed in help and error messages.
var formatOrder = []Format{FormatGeoJSON, FormatGeoPackage, FormatShapefile, FormatKML}

var formats = map[Format]formatInfo{
	FormatGeoJSON: {
		Container: "GeoJSON", Extension: "geojson", Driver: "GeoJSON",
		newWriter: func() Writer { return GeoJSONWriter{} },
	},
	FormatGeoPackage: {
		Container: "GeoPackage", Extension: "gpkg", Driver: "GPKG",
		newWriter: func() Writer { return GeoPackageWriter{Layer: LayerName} },
	},
	FormatShapefile: {
		Container: "ESRI Shapefile", Extension: "shp", Driver: "ESRI Shapefile",
		newWriter: func() Writer { return ShapefileWriter{} },
	},
	FormatKML: {
		Container: "KML", Extension: "kml", Driver: "KML",
		newWriter: func() Writer { return KMLWriter{} },
	},
}

// Formats returns the recognized format keys.
func Formats() []Format {
	return append([]Format(nil), formatOrder...)
}

// FormatNames returns the recognized format keys joined by ", ".
func FormatNames() string {
	names := make([]string, 0, len(formatOrder))
	for _, f := range formatOrder {
		names = append(names, string(f))
	}
	return strings.Join(names, ", ")
}

// ParseFormat validates a format key. Keys are matched exactly.
func ParseFormat(key string) (Format, error) {
	f := Format(key)
	if _, ok := formats[f]; !ok {
		return "", fmt.Errorf("%w %q: choose from %s", ErrUnsupportedFormat, key, FormatNames())
	}
	return f, nil
}

// Extension returns the file extension of f without the dot.
func (f Format) Extension() string {
	return formats[f].Extension
}

// Container returns the container name of f, e.g. "ESRI Shapefile".
func (f Format) Container() string {
	return formats[f].Container
}

// Driver returns the OGR driver identifier of f.
func (f Format) Driver() string {
	return formats[f].Driver
}

// NewWriter creates the writer for the given format.
// It returns an error wrapping ErrUnsupportedFormat for unknown formats.
func NewWriter(f Format) (Writer, error) {
	s, ok := formats[f]
	if !ok {
		return nil, fmt.Errorf("%w %q: choose from %s", ErrUnsupportedFormat, string(f), FormatNames())
	}
	return s.newWriter(), nil
}
