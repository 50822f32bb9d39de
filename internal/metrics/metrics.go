package metrics

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
)

var (
	once sync.Once

	planMutations = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "kanso",
			Name:      "plan_mutations_total",
			Help:      "Count of plan mutations by operation and outcome.",
		},
		[]string{"operation", "outcome"},
	)

	summaryJobs = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "kanso",
			Name:      "summary_jobs_total",
			Help:      "Count of weekly summary recomputations by outcome.",
		},
		[]string{"outcome"},
	)

	httpRequests = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "kanso",
			Name:      "http_requests_total",
			Help:      "Count of HTTP requests by route, method and status.",
		},
		[]string{"route", "method", "status"},
	)

	httpDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "kanso",
			Name:      "http_request_duration_seconds",
			Help:      "HTTP request latency.",
			Buckets:   prometheus.DefBuckets,
		},
		[]string{"route", "method"},
	)
)

// Register registers metrics (idempotent).
func Register() {
	once.Do(func() {
		prometheus.MustRegister(planMutations, summaryJobs, httpRequests, httpDuration)
	})
}

func IncPlanMutation(operation string, err error) {
	outcome := "ok"
	if err != nil {
		outcome = "error"
	}
	planMutations.WithLabelValues(operation, outcome).Inc()
}

func IncSummaryJob(outcome string) {
	summaryJobs.WithLabelValues(outcome).Inc()
}

func ObserveRequest(route, method, status string, seconds float64) {
	httpRequests.WithLabelValues(route, method, status).Inc()
	httpDuration.WithLabelValues(route, method).Observe(seconds)
}
