package main

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

const metricsNamespace = "ojmate"

var (
	// 1ms -> 60s: local runs are dominated by compile + process startup
	runTimeBuckets = []float64{
		0.001, 0.005, 0.010, 0.025, 0.050, 0.1, 0.25, 0.5, 1, 2, 5, 10, 30, 60,
	}

	sampleTestCount = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: metricsNamespace,
		Name:      "sample_test_total",
		Help:      "Number of sample-test runs by language and status",
	}, []string{"language", "status"})

	sampleTestTimeHist = prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: metricsNamespace,
		Name:      "sample_test_seconds",
		Help:      "Histogram for the sample-test wall time",
		Buckets:   runTimeBuckets,
	}, []string{"language", "status"})
)

func init() {
	prometheus.MustRegister(sampleTestCount, sampleTestTimeHist)
}

// observeSampleTest feeds one finished or failed run into the collectors.
func observeSampleTest(language, status string, duration time.Duration) {
	sampleTestCount.WithLabelValues(language, status).Inc()
	sampleTestTimeHist.WithLabelValues(language, status).Observe(duration.Seconds())
}
