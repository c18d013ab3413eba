package export_test

import (
	"github.com/UnknownOlympus/gazetteer/internal/models"
	"github.com/paulmach/orb"
)

func place(id int64, name, country, feature string, lat, lon float64) models.Place {
	return models.Place{
		Record: models.Record{
			GeonameID:        id,
			Name:             name,
			ASCIIName:        name,
			Latitude:         lat,
			Longitude:        lon,
			FeatureClass:     "P",
			FeatureCode:      feature,
			CountryCode:      country,
			Population:       1000 * id,
			Elevation:        "",
			DEM:              12,
			Timezone:         "Etc/UTC",
			ModificationDate: "2022-04-01",
		},
		Geometry: orb.Point{lon, lat},
	}
}

func sampleCollection() *models.Collection {
	return &models.Collection{
		CRS: models.CRS84,
		Places: []models.Place{
			place(993800, "Johannesburg", "ZA", "PPLA", -26.20227, 28.04363),
			place(3369157, "Cape Town", "ZA", "PPLA", -33.92584, 18.42322),
			place(1000501, "Kaapstad Ñoño", "ZA", "PPL", -33.9625, 18.40361),
		},
	}
}
