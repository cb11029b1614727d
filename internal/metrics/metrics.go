package metrics

import (
	"fmt"
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	log "github.com/sirupsen/logrus"
)

var (
	ErrorsCounter = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "jobfeed_errors_total",
			Help: "Total number of occurred errors.",
		},
		[]string{"type"},
	)
	RequestsCounter = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "jobfeed_http_requests_total",
			Help: "Total number of handled HTTP requests.",
		},
		[]string{"endpoint", "status"},
	)
	CacheHitsCounter = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "jobfeed_result_cache_hits_total",
			Help: "Total number of result cache hits.",
		},
	)
	CacheMissesCounter = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "jobfeed_result_cache_misses_total",
			Help: "Total number of result cache misses.",
		},
	)
	PipelineStepDuration = prometheus.NewSummaryVec(
		prometheus.SummaryOpts{
			Name:       "jobfeed_pipeline_step_duration_seconds",
			Help:       "Duration of each step in the retrieval and ranking pipeline.",
			Objectives: map[float64]float64{0.5: 0.05, 0.9: 0.01, 0.99: 0.001},
		},
		[]string{"step"},
	)
	RankedJobsCounter = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "jobfeed_ranked_jobs_total",
			Help: "Total number of jobs returned by the ranking pipeline.",
		},
	)
	OracleFallbacksCounter = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "jobfeed_oracle_fallbacks_total",
			Help: "Total number of jobs scored with the neutral default after oracle failure.",
		},
	)
)

func StartMetricsServer(port int) {

	prometheus.MustRegister(ErrorsCounter)
	prometheus.MustRegister(RequestsCounter)
	prometheus.MustRegister(CacheHitsCounter)
	prometheus.MustRegister(CacheMissesCounter)
	prometheus.MustRegister(PipelineStepDuration)
	prometheus.MustRegister(RankedJobsCounter)
	prometheus.MustRegister(OracleFallbacksCounter)

	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())
	go func() {
		log.Fatal(http.ListenAndServe(fmt.Sprintf(":%d", port), mux))
	}()
}
