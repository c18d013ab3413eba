package export

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/UnknownOlympus/gazetteer/internal/models"
	"github.com/twpayne/go-kml"
)

// KMLWriter writes a KML document with one placemark per place. Attributes are
// carried as typed SchemaData against a single Schema.
type KMLWriter struct{}

func (KMLWriter) Write(_ context.Context, path string, c *models.Collection) error {
	layer := strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))

	fields := make([]kml.Element, 0, len(Schema))
	for _, col := range Schema {
		fields = append(fields, kml.SimpleField(col.Name, kmlType(col.Kind)))
	}

	folder := make([]kml.Element, 0, len(c.Places)+1)
	folder = append(folder, kml.Name(layer))
	for i := range c.Places {
		p := &c.Places[i]
		data := make([]kml.Element, 0, len(Schema))
		for _, col := range Schema {
			data = append(data, kml.SimpleData(col.Name, formatValue(col.Value(p))))
		}
		folder = append(folder, kml.Placemark(
			kml.Name(p.Name),
			kml.ExtendedData(kml.SchemaData("#"+layer, data...)),
			kml.Point(kml.Coordinates(kml.Coordinate{Lon: p.Geometry.Lon(), Lat: p.Geometry.Lat()})),
		))
	}

	doc := kml.KML(kml.Document(
		kml.Schema(layer, layer, fields...),
		kml.Folder(folder...),
	))

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create output file: %w", err)
	}
	if err = doc.WriteIndent(f, "", "  "); err != nil {
		f.Close()
		return fmt.Errorf("failed to encode KML: %w", err)
	}
	return f.Close()
}

func kmlType(k Kind) string {
	switch k {
	case KindInteger:
		return "int"
	case KindReal:
		return "double"
	default:
		return "string"
	}
}
