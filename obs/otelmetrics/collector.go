package otelmetrics

import (
	"context"
	"errors"

	"github.com/agilira/cachekit"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

// Collector implements cachekit.MetricsCollector by incrementing OTEL
// counters. Safe for concurrent use; the underlying OTEL instruments are
// thread-safe.
type Collector struct {
	hits        metric.Int64Counter
	misses      metric.Int64Counter
	puts        metric.Int64Counter
	removes     metric.Int64Counter
	evictions   metric.Int64Counter
	expirations metric.Int64Counter
}

// Options configures a Collector.
type Options struct {
	// MeterName names the OTEL meter. Default: "github.com/agilira/cachekit".
	MeterName string
}

// Option is a functional option for New.
type Option func(*Options)

// WithMeterName overrides the default meter name.
func WithMeterName(name string) Option {
	return func(o *Options) { o.MeterName = name }
}

// New creates a Collector backed by provider. Returns an error if any
// instrument fails to register.
func New(provider metric.MeterProvider, opts ...Option) (*Collector, error) {
	if provider == nil {
		return nil, errors.New("otelmetrics: meter provider cannot be nil")
	}
	options := Options{MeterName: "github.com/agilira/cachekit"}
	for _, opt := range opts {
		opt(&options)
	}
	meter := provider.Meter(options.MeterName)

	c := &Collector{}
	var err error
	if c.hits, err = meter.Int64Counter("cachekit_hits_total", metric.WithDescription("Total cache hits")); err != nil {
		return nil, err
	}
	if c.misses, err = meter.Int64Counter("cachekit_misses_total", metric.WithDescription("Total cache misses")); err != nil {
		return nil, err
	}
	if c.puts, err = meter.Int64Counter("cachekit_puts_total", metric.WithDescription("Total cache puts")); err != nil {
		return nil, err
	}
	if c.removes, err = meter.Int64Counter("cachekit_removes_total", metric.WithDescription("Total explicit removes")); err != nil {
		return nil, err
	}
	if c.evictions, err = meter.Int64Counter("cachekit_evictions_total", metric.WithDescription("Total capacity evictions")); err != nil {
		return nil, err
	}
	if c.expirations, err = meter.Int64Counter("cachekit_expirations_total", metric.WithDescription("Total TTL expirations")); err != nil {
		return nil, err
	}
	return c, nil
}

func (c *Collector) RecordHit(name, key string)       { c.hits.Add(context.Background(), 1, attrs(name)) }
func (c *Collector) RecordMiss(name, key string)      { c.misses.Add(context.Background(), 1, attrs(name)) }
func (c *Collector) RecordPut(name, key string)       { c.puts.Add(context.Background(), 1, attrs(name)) }
func (c *Collector) RecordRemove(name, key string)    { c.removes.Add(context.Background(), 1, attrs(name)) }
func (c *Collector) RecordEviction(name, key string)   { c.evictions.Add(context.Background(), 1, attrs(name)) }
func (c *Collector) RecordExpiration(name, key string) { c.expirations.Add(context.Background(), 1, attrs(name)) }

func attrs(cacheName string) metric.AddOption {
	return metric.WithAttributes(attribute.String("cache", cacheName))
}

var _ cachekit.MetricsCollector = (*Collector)(nil)
