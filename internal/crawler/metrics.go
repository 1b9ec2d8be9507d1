package crawler

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	pagesFetched = promauto.NewCounter(prometheus.CounterOpts{
		Name: "webminer_crawler_pages_fetched_total",
		Help: "Pages fetched and persisted.",
	})
	fetchErrors = promauto.NewCounter(prometheus.CounterOpts{
		Name: "webminer_crawler_fetch_errors_total",
		Help: "Fetches abandoned after retries.",
	})
	frontierDepth = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "webminer_crawler_frontier_depth",
		Help: "URLs currently waiting in the frontier.",
	})
)
