package otel

import (
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/metric"
)

const meterName = "briefdeck"

// Metrics holds the acquisition pipeline's metric instruments.
type Metrics struct {
	AcquisitionsStarted   metric.Int64Counter
	AcquisitionsCompleted metric.Int64Counter
	FallbacksServed       metric.Int64Counter
	RouteAttempts         metric.Int64Counter
	RouteLatency          metric.Float64Histogram
	AcquisitionDuration   metric.Float64Histogram
}

// NewMetrics creates all metric instruments on the global meter provider.
func NewMetrics() (*Metrics, error) {
	meter := otel.Meter(meterName)
	m := &Metrics{}
	var err error

	m.AcquisitionsStarted, err = meter.Int64Counter("briefdeck.acquisitions.started",
		metric.WithDescription("Number of acquisitions started"))
	if err != nil {
		return nil, err
	}

	m.AcquisitionsCompleted, err = meter.Int64Counter("briefdeck.acquisitions.completed",
		metric.WithDescription("Number of acquisitions completed"))
	if err != nil {
		return nil, err
	}

	m.FallbacksServed, err = meter.Int64Counter("briefdeck.acquisitions.fallbacks",
		metric.WithDescription("Number of acquisitions served from fallback data"))
	if err != nil {
		return nil, err
	}

	m.RouteAttempts, err = meter.Int64Counter("briefdeck.routes.attempts",
		metric.WithDescription("Number of upstream route attempts"))
	if err != nil {
		return nil, err
	}

	m.RouteLatency, err = meter.Float64Histogram("briefdeck.routes.latency_seconds",
		metric.WithDescription("Upstream route attempt latency in seconds"))
	if err != nil {
		return nil, err
	}

	m.AcquisitionDuration, err = meter.Float64Histogram("briefdeck.acquisition.duration_seconds",
		metric.WithDescription("End-to-end acquisition duration in seconds"))
	if err != nil {
		return nil, err
	}

	return m, nil
}
