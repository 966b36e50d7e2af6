// Package trace wires optional OpenTelemetry tracing for highlight
// cascades. It is off by default; when enabled it exports spans to a JSONL
// file or stdout so slow rescans can be inspected offline.
package trace

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/exporters/stdout/stdouttrace"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/trace"
	"go.opentelemetry.io/otel/trace/noop"

	"github.com/Wraith29/harmony/internal/log"
)

// Config configures the tracing subsystem.
type Config struct {
	// Enabled controls whether tracing is active. When false a no-op
	// tracer with zero overhead is used.
	Enabled bool `mapstructure:"enabled"`

	// Exporter selects the export backend: "none", "file" or "stdout".
	Exporter string `mapstructure:"exporter"`

	// FilePath is the output file for the "file" exporter.
	FilePath string `mapstructure:"file_path"`

	// SampleRate controls the fraction of traces to sample (0.0 to 1.0).
	SampleRate float64 `mapstructure:"sample_rate"`
}

// DefaultConfig returns tracing defaults: disabled, file exporter, full
// sampling when turned on.
func DefaultConfig() Config {
	return Config{
		Enabled:    false,
		Exporter:   "file",
		SampleRate: 1.0,
	}
}

// Provider manages the OpenTelemetry tracer provider lifecycle.
type Provider struct {
	provider *sdktrace.TracerProvider
	tracer   trace.Tracer
	enabled  bool
}

// NewProvider creates and configures the trace provider.
func NewProvider(cfg Config) (*Provider, error) {
	if !cfg.Enabled {
		return &Provider{
			tracer:  noop.NewTracerProvider().Tracer("noop"),
			enabled: false,
		}, nil
	}

	var (
		exporter sdktrace.SpanExporter
		err      error
	)
	switch cfg.Exporter {
	case "file":
		if cfg.FilePath == "" {
			return nil, fmt.Errorf("file_path required for file exporter")
		}
		exporter, err = newFileExporter(cfg.FilePath)
		if err != nil {
			return nil, fmt.Errorf("create file exporter: %w", err)
		}
	case "stdout":
		exporter, err = stdouttrace.New(stdouttrace.WithPrettyPrint())
		if err != nil {
			return nil, fmt.Errorf("create stdout exporter: %w", err)
		}
	case "none", "":
		exporter = nil
	default:
		return nil, fmt.Errorf("unsupported exporter type: %s", cfg.Exporter)
	}

	// NewSchemaless avoids schema version conflicts with resource.Default().
	res := resource.NewSchemaless(
		attribute.String("service.name", "harmony"),
	)

	sampleRate := cfg.SampleRate
	if sampleRate <= 0 {
		sampleRate = 1.0
	}
	sampler := sdktrace.ParentBased(
		sdktrace.TraceIDRatioBased(sampleRate),
	)

	opts := []sdktrace.TracerProviderOption{
		sdktrace.WithResource(res),
		sdktrace.WithSampler(sampler),
	}
	if exporter != nil {
		opts = append(opts, sdktrace.WithBatcher(exporter))
	}

	tp := sdktrace.NewTracerProvider(opts...)
	otel.SetTracerProvider(tp)
	log.Info(log.CatTrace, "tracing enabled", "exporter", cfg.Exporter, "sample_rate", sampleRate)

	return &Provider{
		provider: tp,
		tracer:   tp.Tracer("harmony"),
		enabled:  true,
	}, nil
}

// Tracer returns the tracer to instrument with.
func (p *Provider) Tracer() trace.Tracer {
	return p.tracer
}

// Enabled reports whether real tracing is active.
func (p *Provider) Enabled() bool {
	return p.enabled
}

// Shutdown flushes pending spans and releases resources.
func (p *Provider) Shutdown(ctx context.Context) error {
	if p.provider == nil {
		return nil
	}
	return p.provider.Shutdown(ctx)
}

// newFileExporter writes spans as JSON lines to the given path, creating
// parent directories as needed.
func newFileExporter(path string) (sdktrace.SpanExporter, error) {
	cleanPath := filepath.Clean(path)
	if err := os.MkdirAll(filepath.Dir(cleanPath), 0o750); err != nil {
		return nil, fmt.Errorf("create trace directory: %w", err)
	}

	f, err := os.OpenFile(cleanPath, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o600) // #nosec G304 -- path is cleaned above
	if err != nil {
		return nil, fmt.Errorf("open trace file: %w", err)
	}
	return stdouttrace.New(stdouttrace.WithWriter(f))
}
