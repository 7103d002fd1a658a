// Package tracing wires OpenTelemetry into newshub.
//
// Setup installs a tracer provider that exports spans over OTLP/HTTP when
// OTEL_EXPORTER_OTLP_ENDPOINT is set, and only the W3C propagator otherwise.
// Middleware starts one server span per HTTP request:
//
//	shutdown, err := tracing.Setup(ctx, tracing.LoadConfig("newshub-api", version))
//	defer shutdown(context.Background())
//	handler = tracing.Middleware(pathutil.NormalizePath)(handler)
//
// Background jobs open spans with StartSpan.
package tracing
