package pipeline

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	filesProcessed = promauto.NewCounter(prometheus.CounterOpts{
		Name: "webminer_pipeline_files_processed_total",
		Help: "HTML files successfully processed.",
	})
	fileErrors = promauto.NewCounter(prometheus.CounterOpts{
		Name: "webminer_pipeline_file_errors_total",
		Help: "HTML files that failed processing and were skipped.",
	})
	recordsFiltered = promauto.NewCounter(prometheus.CounterOpts{
		Name: "webminer_pipeline_records_filtered_total",
		Help: "Records dropped by the active filter.",
	})
	exportFailures = promauto.NewCounter(prometheus.CounterOpts{
		Name: "webminer_pipeline_export_failures_total",
		Help: "Export attempts that returned an error.",
	})
)
