package geonames

import "github.com/UnknownOlympus/gazetteer/internal/models"

// Filter reports whether a record is wanted.
type Filter func(*models.Record) bool

// FilterCountry keeps records whose country code equals code exactly.
func FilterCountry(code string) Filter {
	return func(r *models.Record) bool {
		return r.CountryCode == code
	}
}

// FilterFeatureCode keeps records whose feature code equals code exactly.
func FilterFeatureCode(code string) Filter {
	return func(r *models.Record) bool {
		return r.FeatureCode == code
	}
}

// QueryFilters returns the filters selecting q: the country always, the
// feature code only when one was requested.
func QueryFilters(q models.Query) []Filter {
	filters := []Filter{FilterCountry(q.Country)}
	if q.Feature != "" {
		filters = append(filters, FilterFeatureCode(q.Feature))
	}
	return filters
}

// Apply returns the records passing every filter, in input order.
func Apply(records []models.Record, filters ...Filter) []models.Record {
	var out []models.Record
	for i := range records {
		if applyFilters(&records[i], filters) {
			out = append(out, records[i])
		}
	}
	return out
}

func applyFilters(r *models.Record, filters []Filter) bool {
	for _, f := range filters {
		if !f(r) {
			return false
		}
	}
	return true
}
