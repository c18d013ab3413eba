package export

import (
	"strconv"

	"github.com/UnknownOlympus/gazetteer/internal/models"
)

// LayerName is the table name used inside GeoPackage files.
const LayerName = "geonames"

// Kind is the storage type of an attribute column.
type Kind int

const (
	KindString Kind = iota
	KindInteger
	KindReal
)

// Column is one attribute carried next to the geometry in every output format.
type Column struct {
	Name  string
	Kind  Kind
	Value func(p *models.Place) any // returns string, int64 or float64 according to Kind
}

// Schema lists the attribute columns in source order.
var Schema = []Column{
	{"geonameid", KindInteger, func(p *models.Place) any { return p.GeonameID }},
	{"name", KindString, func(p *models.Place) any { return p.Name }},
	{"asciiname", KindString, func(p *models.Place) any { return p.ASCIIName }},
	{"alternatenames", KindString, func(p *models.Place) any { return p.AlternateNames }},
	{"latitude", KindReal, func(p *models.Place) any { return p.Latitude }},
	{"longitude", KindReal, func(p *models.Place) any { return p.Longitude }},
	{"feature_class", KindString, func(p *models.Place) any { return p.FeatureClass }},
	{"feature_code", KindString, func(p *models.Place) any { return p.FeatureCode }},
	{"country_code", KindString, func(p *models.Place) any { return p.CountryCode }},
	{"cc2", KindString, func(p *models.Place) any { return p.CC2 }},
	{"admin1_code", KindString, func(p *models.Place) any { return p.Admin1Code }},
	{"admin2_code", KindString, func(p *models.Place) any { return p.Admin2Code }},
	{"admin3_code", KindString, func(p *models.Place) any { return p.Admin3Code }},
	{"admin4_code", KindString, func(p *models.Place) any { return p.Admin4Code }},
	{"population", KindInteger, func(p *models.Place) any { return p.Population }},
	{"elevation", KindString, func(p *models.Place) any { return p.Elevation }},
	{"dem", KindInteger, func(p *models.Place) any { return p.DEM }},
	{"timezone", KindString, func(p *models.Place) any { return p.Timezone }},
	{"modification_date", KindString, func(p *models.Place) any { return p.ModificationDate }},
}

// formatValue renders a column value as text.
func formatValue(v any) string {
	switch v := v.(type) {
	case string:
		return v
	case int64:
		return strconv.FormatInt(v, 10)
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64)
	default:
		return ""
	}
}
