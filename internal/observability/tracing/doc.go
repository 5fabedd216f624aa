// Package tracing provides OpenTelemetry tracing integration.
//
// Features:
//   - HTTP server middleware with W3C trace context propagation
//   - A shared tracer for spans around the feed pipeline and content API calls
//   - Optional OTLP/HTTP export, enabled by OTEL_EXPORTER_OTLP_ENDPOINT
//
// Example usage:
//
//	shutdown, err := tracing.Setup(ctx, "guardian-rss", version)
//	if err != nil {
//	    logger.Warn("tracing disabled", slog.Any("error", err))
//	}
//	defer shutdown(context.Background())
//
//	ctx, span := tracing.GetTracer().Start(ctx, "feed.Handle")
//	defer span.End()
package tracing
