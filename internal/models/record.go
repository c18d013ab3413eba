package models

// Record is one row of the GeoNames dump. The column order matches the
// tab-separated source file.
type Record struct {
	GeonameID        int64   // integer id of the record in the geonames database
	Name             string  // name of the geographical point (utf8)
	ASCIIName        string  // name in plain ascii characters
	AlternateNames   string  // comma separated alternate names
	Latitude         float64 // latitude in decimal degrees (wgs84)
	Longitude        float64 // longitude in decimal degrees (wgs84)
	FeatureClass     string  // feature class, see https://www.geonames.org/export/codes.html
	FeatureCode      string  // feature code, see https://www.geonames.org/export/codes.html
	CountryCode      string  // ISO-3166 2-letter country code
	CC2              string  // alternate country codes, comma separated
	Admin1Code       string  // first-level administrative division
	Admin2Code       string  // second-level administrative division
	Admin3Code       string  // third-level administrative division
	Admin4Code       string  // fourth-level administrative division
	Population       int64   // population, zero when unknown
	Elevation        string  // elevation in meters, kept as text since it is often empty
	DEM              int64   // digital elevation model in meters
	Timezone         string  // iana timezone id
	ModificationDate string  // date of last modification, yyyy-MM-dd
}

// Coordinates returns the record position.
func (r Record) Coordinates() Coordinates {
	return Coordinates{Longitude: r.Longitude, Latitude: r.Latitude}
}
