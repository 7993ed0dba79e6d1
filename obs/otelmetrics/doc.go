// Package otelmetrics implements cachekit.MetricsCollector using
// OpenTelemetry, so cache operation counts can be exported to Prometheus,
// Jaeger, Datadog, or any other OTEL-compatible backend.
//
// Usage:
//
//	exporter, _ := prometheus.New()
//	provider := sdkmetric.NewMeterProvider(sdkmetric.WithReader(exporter))
//	collector, err := otelmetrics.New(provider)
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	cache, _ := cachekit.New(backend, cachekit.Config{
//	    Name:    "sessions",
//	    Metrics: collector,
//	})
//
// Every cache operation that calls into a MetricsCollector method
// increments a matching OTEL counter, named cachekit_<event>_total and
// labeled by cache name.
package otelmetrics
