package tracing

import (
	"context"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
)

// StartReportSpan wraps one report assembly so degraded metrics show up
// against the request trace.
func StartReportSpan(ctx context.Context, report, period string) (context.Context, trace.Span) {
	ctx, span := Tracer().Start(ctx, "report.assemble."+report,
		trace.WithSpanKind(trace.SpanKindInternal),
	)
	span.SetAttributes(
		attribute.String("report.name", report),
		attribute.String("report.period", period),
	)
	return ctx, span
}

// StartTransitionSpan wraps one application status transition.
func StartTransitionSpan(ctx context.Context, applicationID, next string) (context.Context, trace.Span) {
	ctx, span := Tracer().Start(ctx, "lifecycle.transition",
		trace.WithSpanKind(trace.SpanKindInternal),
	)
	span.SetAttributes(
		attribute.String("application.id", applicationID),
		attribute.String("application.next_status", next),
	)
	return ctx, span
}
