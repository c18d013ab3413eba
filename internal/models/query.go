package models

// AllFeatures is the file name placeholder used when no feature code is requested.
const AllFeatures = "ALL"

// Query selects records by exact country code and an optional exact feature code.
type Query struct {
	Country string // Country is the ISO-3166 2-letter country code, required.
	Feature string // Feature is the GeoNames feature code, empty for all features.
}

// FeatureOrAll returns the feature code, or AllFeatures when none was requested.
func (q Query) FeatureOrAll() string {
	if q.Feature == "" {
		return AllFeatures
	}
	return q.Feature
}

// BaseName returns the output file name without extension, e.g. "ZA_ALL_geonames".
func (q Query) BaseName() string {
	return q.Country + "_" + q.FeatureOrAll() + "_geonames"
}
