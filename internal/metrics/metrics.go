// Package metrics defines prometheus metrics to expose
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	RPCDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "iris_api_rpc_duration_seconds",
			Help:    "Total time taken for one RPC dispatch in seconds",
			Buckets: []float64{.005, .01, .025, .05, .1, .25, .5, 1, 2.5, 5, 10, 30},
		},
		[]string{"method"},
	)

	RPCRequests = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "iris_api_rpc_requests_total",
			Help: "Total number of RPC requests dispatched",
		},
		[]string{"method", "status"},
	)

	CaptureFailures = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "iris_api_capture_failures_total",
			Help: "Total number of failed camera acquisitions",
		},
	)

	InvokeDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "iris_api_invoke_duration_seconds",
			Help:    "Inference engine invocation time in seconds",
			Buckets: []float64{.001, .005, .01, .025, .05, .1, .25, .5, 1, 2.5},
		},
	)

	PendingBodies = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "iris_api_pending_bodies",
			Help: "Request bodies currently being reassembled",
		},
	)

	ResponseCodes = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "iris_api_response_codes_total",
			Help: "Total number of HTTP responses by path and status code",
		},
		[]string{"path", "status"},
	)
)
