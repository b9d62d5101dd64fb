package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	log "github.com/sirupsen/logrus"
)

var (
	ErrorsCounter = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "jobboard_errors_total",
			Help: "Total number of occurred errors.",
		},
		[]string{"type"},
	)
	APIRequests = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "jobboard_api_requests_total",
			Help: "Jobs API requests by operation and outcome.",
		},
		[]string{"operation", "outcome"},
	)
	APIRequestDuration = prometheus.NewSummaryVec(
		prometheus.SummaryOpts{
			Name:       "jobboard_api_request_duration_seconds",
			Help:       "Duration of jobs API requests.",
			Objectives: map[float64]float64{0.5: 0.05, 0.9: 0.01, 0.99: 0.001},
		},
		[]string{"operation"},
	)
	StaleResponsesDiscarded = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "jobboard_stale_responses_discarded_total",
			Help: "Listing responses dropped because a newer request had been issued.",
		},
	)
	FavoritesToggles = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "jobboard_favorites_toggles_total",
			Help: "Favorite toggles by direction.",
		},
		[]string{"direction"},
	)
	ApplicationsSubmitted = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "jobboard_applications_submitted_total",
			Help: "Total number of accepted job applications.",
		},
	)
)

func StartMetricsServer(address string) {

	prometheus.MustRegister(ErrorsCounter)
	prometheus.MustRegister(APIRequests)
	prometheus.MustRegister(APIRequestDuration)
	prometheus.MustRegister(StaleResponsesDiscarded)
	prometheus.MustRegister(FavoritesToggles)
	prometheus.MustRegister(ApplicationsSubmitted)

	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())
	go func() {
		log.Fatal(http.ListenAndServe(address, mux))
	}()
}
