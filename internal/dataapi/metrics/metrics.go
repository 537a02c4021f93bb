package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

const MetricPrefix = "dataapi_"

var RequestsTotalCounter = prometheus.NewCounter(prometheus.CounterOpts{
	Name: MetricPrefix + "requests_total",
	Help: "Total number of incoming requests",
})

var CountCacheHitsCounter = prometheus.NewCounter(prometheus.CounterOpts{
	Name: MetricPrefix + "count_cache_hits_total",
	Help: "Count queries answered from the in-memory cache",
})

var CountCacheMissesCounter = prometheus.NewCounter(prometheus.CounterOpts{
	Name: MetricPrefix + "count_cache_misses_total",
	Help: "Count queries that required a store round trip",
})

var StoreQueriesTotalCounter = prometheus.NewCounter(prometheus.CounterOpts{
	Name: MetricPrefix + "store_queries_total",
	Help: "Total number of pages fetched from the document store",
})

var StoreRequestChargeHistogram = prometheus.NewHistogram(prometheus.HistogramOpts{
	Name:    MetricPrefix + "store_request_charge",
	Help:    "Request charge reported by the document store per page fetch",
	Buckets: prometheus.ExponentialBuckets(1, 2, 12),
})

func ExposeApiMetrics() {
	prometheus.MustRegister(
		RequestsTotalCounter,
		CountCacheHitsCounter,
		CountCacheMissesCounter,
		StoreQueriesTotalCounter,
		StoreRequestChargeHistogram,
	)
}
