package instrument

import (
	"context"
	"errors"
	"fmt"
	"strconv"

	"github.com/code42/code42-go/internal/constants"
	"github.com/code42/code42-go/pkg/code42"
	"github.com/prometheus/client_golang/prometheus"
)

// MetricsInstrumenter records request counts and latencies.
type MetricsInstrumenter struct {
	requests *prometheus.CounterVec
	duration *prometheus.HistogramVec
}

// NewMetricsInstrumenter registers the request metrics with reg. Registering
// twice with the same registry reuses the existing collectors.
func NewMetricsInstrumenter(reg prometheus.Registerer) (*MetricsInstrumenter, error) {
	requests := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: constants.MetricsNamespace,
			Name:      "requests_total",
			Help:      "Total number of requests sent to the server",
		},
		[]string{"method", "status"},
	)

	duration := prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: constants.MetricsNamespace,
			Name:      "request_duration_seconds",
			Help:      "Request latency in seconds",
			Buckets:   []float64{.005, .01, .025, .05, .1, .25, .5, 1, 2.5, 5, 10},
		},
		[]string{"method"},
	)

	requests, err := register(reg, requests)
	if err != nil {
		return nil, err
	}

	duration, err = register(reg, duration)
	if err != nil {
		return nil, err
	}

	return &MetricsInstrumenter{requests: requests, duration: duration}, nil
}

func register[C prometheus.Collector](reg prometheus.Registerer, collector C) (C, error) {
	err := reg.Register(collector)
	if err == nil {
		return collector, nil
	}

	var already prometheus.AlreadyRegisteredError
	if errors.As(err, &already) {
		if existing, ok := already.ExistingCollector.(C); ok {
			return existing, nil
		}
	}

	return collector, fmt.Errorf("registering metrics: %w", err)
}

// Instrument implements code42.Instrumenter.
func (m *MetricsInstrumenter) Instrument(_ context.Context, event *code42.Event) {
	status := "error"
	if event.Response != nil {
		status = strconv.Itoa(event.Response.StatusCode)
	}

	m.requests.WithLabelValues(event.Method, status).Inc()
	m.duration.WithLabelValues(event.Method).Observe(event.Duration.Seconds())
}
