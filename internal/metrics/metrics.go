// Package metrics holds the service-wide prometheus counters.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	CacheHits = promauto.NewCounter(prometheus.CounterOpts{
		Name: "rodent_cache_hits_total",
		Help: "Payload cache lookups served without network activity.",
	})
	CacheMisses = promauto.NewCounter(prometheus.CounterOpts{
		Name: "rodent_cache_misses_total",
		Help: "Payload cache lookups that required a fetch.",
	})
	FetchRequests = promauto.NewCounter(prometheus.CounterOpts{
		Name: "rodent_fetch_requests_total",
		Help: "HTTP requests issued against the dataset API.",
	})
	FetchRetries = promauto.NewCounter(prometheus.CounterOpts{
		Name: "rodent_fetch_retries_total",
		Help: "Dataset requests retried after a transient failure.",
	})
	FetchFailures = promauto.NewCounter(prometheus.CounterOpts{
		Name: "rodent_fetch_failures_total",
		Help: "Dataset fetches that ended in a terminal error.",
	})
	RowsDropped = promauto.NewCounter(prometheus.CounterOpts{
		Name: "rodent_normalize_dropped_rows_total",
		Help: "Raw rows dropped during normalization for unparsable timestamps.",
	})
)

func Handler() http.Handler {
	return promhttp.Handler()
}
