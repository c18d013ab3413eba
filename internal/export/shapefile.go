package export

import (
	"context"
	"fmt"
	"os"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/UnknownOlympus/gazetteer/internal/models"
	"github.com/jonas-p/go-shp"
)

const (
	dbfNameLength   = 10  // dBase field names are limited to 10 characters
	dbfStringLength = 254 // longest dBase character field
	dbfIntLength    = 18
	dbfRealLength   = 24
	dbfRealDecimals = 15
)

// esriWGS84 is the .prj content for longitude/latitude WGS84.
const esriWGS84 = `GEOGCS["GCS_WGS_1984",DATUM["D_WGS_1984",SPHEROID["WGS_1984",6378137.0,298.257223563]],` +
	`PRIMEM["Greenwich",0.0],UNIT["Degree",0.0174532925199433]]`

// ShapefileWriter writes a point shapefile (.shp, .shx, .dbf) plus .prj and .cpg sidecars.
// Field names are truncated to 10 characters and text values to 254 bytes.
type ShapefileWriter struct{}

func (ShapefileWriter) Write(_ context.Context, path string, c *models.Collection) error {
	w, err := shp.Create(path, shp.POINT)
	if err != nil {
		return fmt.Errorf("failed to create shapefile: %w", err)
	}

	fields := make([]shp.Field, 0, len(Schema))
	for _, col := range Schema {
		fields = append(fields, dbfField(col))
	}
	if err = w.SetFields(fields); err != nil {
		w.Close()
		return fmt.Errorf("failed to set dbf fields: %w", err)
	}

	for i := range c.Places {
		p := &c.Places[i]
		row := int(w.Write(&shp.Point{X: p.Geometry.X(), Y: p.Geometry.Y()}))
		for j, col := range Schema {
			if err = w.WriteAttribute(row, j, dbfValue(fields[j], col.Value(p))); err != nil {
				w.Close()
				return fmt.Errorf("geonameid %d: failed to write %s: %w", p.GeonameID, col.Name, err)
			}
		}
	}
	w.Close()

	base := strings.TrimSuffix(path, ".shp")
	if err = os.WriteFile(base+".prj", []byte(esriWGS84), 0o644); err != nil {
		return fmt.Errorf("failed to write projection file: %w", err)
	}
	if err = os.WriteFile(base+".cpg", []byte("UTF-8"), 0o644); err != nil {
		return fmt.Errorf("failed to write code page file: %w", err)
	}
	return nil
}

// ShapefileSidecars returns every file ShapefileWriter creates for path.
func ShapefileSidecars(path string) []string {
	base := strings.TrimSuffix(path, ".shp")
	return []string{base + ".shp", base + ".shx", base + ".dbf", base + ".prj", base + ".cpg"}
}

// DBFName returns the dBase field name used for a column.
func DBFName(name string) string {
	if len(name) > dbfNameLength {
		return name[:dbfNameLength]
	}
	return name
}

func dbfField(col Column) shp.Field {
	name := DBFName(col.Name)
	switch col.Kind {
	case KindInteger:
		return shp.NumberField(name, dbfIntLength)
	case KindReal:
		return shp.FloatField(name, dbfRealLength, dbfRealDecimals)
	default:
		return shp.StringField(name, dbfStringLength)
	}
}

// dbfValue renders a column value as a dBase record field padded with spaces to
// the field size: text left-aligned, numbers right-aligned. go-shp writes the
// bytes as given and leaves the rest of the field zeroed.
func dbfValue(field shp.Field, v any) string {
	size := int(field.Size)
	var text string
	switch v := v.(type) {
	case int64:
		text = strconv.FormatInt(v, 10)
	case float64:
		text = strconv.FormatFloat(v, 'f', int(field.Precision), 64)
	case string:
		return padRight(truncateUTF8(v, size), size)
	}
	if len(text) > size {
		return text
	}
	return strings.Repeat(" ", size-len(text)) + text
}

// padRight pads s with spaces to n bytes.
func padRight(s string, n int) string {
	if len(s) >= n {
		return s
	}
	return s + strings.Repeat(" ", n-len(s))
}

// truncateUTF8 cuts s to at most n bytes without splitting a rune.
func truncateUTF8(s string, n int) string {
	if len(s) <= n {
		return s
	}
	for n > 0 && !utf8.RuneStart(s[n]) {
		n--
	}
	return s[:n]
}
