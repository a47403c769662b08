package otel

import (
	"context"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
)

const tracerName = "briefdeck"

// StartAcquisitionSpan starts a span covering one full acquisition.
func StartAcquisitionSpan(ctx context.Context, acquisitionID, platform, projectID string) (context.Context, trace.Span) {
	return otel.Tracer(tracerName).Start(ctx, "acquisition",
		trace.WithAttributes(
			attribute.String("acquisition.id", acquisitionID),
			attribute.String("acquisition.platform", platform),
			attribute.String("acquisition.project_id", projectID),
		),
	)
}

// StartRouteSpan starts a span for a single upstream route attempt.
func StartRouteSpan(ctx context.Context, route string) (context.Context, trace.Span) {
	return otel.Tracer(tracerName).Start(ctx, "route",
		trace.WithAttributes(attribute.String("route.name", route)),
	)
}

// RecordRouteOutcome annotates a route span with the attempt's classified
// result.
func RecordRouteOutcome(span trace.Span, outcome string, statusCode int) {
	span.SetAttributes(
		attribute.String("route.outcome", outcome),
		attribute.Int("route.status_code", statusCode),
	)
}
