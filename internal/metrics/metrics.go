package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

type Metrics struct {
	DownloadedBytes prometheus.Counter
	RecordsRead     prometheus.Counter
	RecordsMatched  prometheus.Counter
	FeaturesWritten *prometheus.CounterVec
	PlacesPublished prometheus.Counter
	StageSeconds    *prometheus.HistogramVec
}

func NewMetrics(reg prometheus.Registerer) *Metrics {
	return &Metrics{
		DownloadedBytes: promauto.With(reg).NewCounter(prometheus.CounterOpts{
			Name: "gazetteer_downloaded_bytes_total",
			Help: "Total number of archive bytes downloaded from the GeoNames server.",
		}),
		RecordsRead: promauto.With(reg).NewCounter(prometheus.CounterOpts{
			Name: "gazetteer_records_read_total",
			Help: "Total number of rows parsed from the GeoNames dump.",
		}),
		RecordsMatched: promauto.With(reg).NewCounter(prometheus.CounterOpts{
			Name: "gazetteer_records_matched_total",
			Help: "Total number of rows that passed the country and feature filters.",
		}),
		FeaturesWritten: promauto.With(reg).NewCounterVec(prometheus.CounterOpts{
			Name: "gazetteer_features_written_total",
			Help: "Total number of features written to an output artifact.",
		}, []string{"format"}),
		PlacesPublished: promauto.With(reg).NewCounter(prometheus.CounterOpts{
			Name: "gazetteer_places_published_total",
			Help: "Total number of places published to PostGIS.",
		}),
		StageSeconds: promauto.With(reg).NewHistogramVec(prometheus.HistogramOpts{
			Name:    "gazetteer_stage_duration_seconds",
			Help:    "Duration of each pipeline stage.",
			Buckets: prometheus.ExponentialBuckets(0.01, 4, 10),
		}, []string{"stage"}),
	}
}
