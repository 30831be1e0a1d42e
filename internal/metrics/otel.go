package metrics

import (
	"context"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/exporters/otlp/otlpmetric/otlpmetrichttp"
	promexporter "go.opentelemetry.io/otel/exporters/prometheus"
	"go.opentelemetry.io/otel/metric"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/resource"
	semconv "go.opentelemetry.io/otel/semconv/v1.24.0"
)

var (
	promReaderFactory = prometheusComponents
	otlpReaderFactory = buildOTLPReader
	instrumentFactory = newOtelInstruments
)

// TelemetryConfig controls how metrics are exported.
type TelemetryConfig struct {
	Enabled      bool
	ServiceName  string
	OtlpEndpoint string
	OtlpInsecure bool
}

// Setup configures OpenTelemetry metrics with a Prometheus exporter and optional OTLP exporter.
// It returns a Recorder, the Prometheus HTTP handler, and a shutdown function.
func Setup(ctx context.Context, cfg TelemetryConfig) (*Recorder, http.Handler, func(context.Context) error, error) {
	if !cfg.Enabled {
		return NewRecorder(), nil, func(context.Context) error { return nil }, nil
	}

	if cfg.ServiceName == "" {
		cfg.ServiceName = "ttx-service"
	}

	promReader, promHandler, err := promReaderFactory()
	if err != nil {
		return nil, nil, nil, err
	}

	opts := []sdkmetric.Option{sdkmetric.WithReader(promReader)}

	if cfg.OtlpEndpoint != "" {
		otlpReader, err := otlpReaderFactory(ctx, cfg.OtlpEndpoint, cfg.OtlpInsecure)
		if err != nil {
			return nil, nil, nil, err
		}
		opts = append(opts, sdkmetric.WithReader(otlpReader))
	}

	res, err := resource.New(ctx,
		resource.WithAttributes(semconv.ServiceName(cfg.ServiceName)),
	)
	if err != nil {
		return nil, nil, nil, err
	}

	opts = append(opts, sdkmetric.WithResource(res))

	provider := sdkmetric.NewMeterProvider(opts...)

	otelInst, err := instrumentFactory(provider)
	if err != nil {
		return nil, nil, nil, err
	}

	rec := newRecorder(otelInst)
	shutdown := func(c context.Context) error {
		return provider.Shutdown(c)
	}

	return rec, promHandler, shutdown, nil
}

func buildOTLPReader(ctx context.Context, endpoint string, insecure bool) (sdkmetric.Reader, error) {
	otlpOpts := []otlpmetrichttp.Option{otlpmetrichttp.WithEndpoint(endpoint)}
	if insecure {
		otlpOpts = append(otlpOpts, otlpmetrichttp.WithInsecure())
	}
	otlpExp, err := otlpmetrichttp.New(ctx, otlpOpts...)
	if err != nil {
		return nil, err
	}
	return sdkmetric.NewPeriodicReader(otlpExp, sdkmetric.WithInterval(15*time.Second)), nil
}

type otelInstruments struct {
	ctx              context.Context
	meter            metric.Meter
	requests         metric.Int64Counter
	requestLatencyMs metric.Float64Histogram
	commands         metric.Int64Counter
	commandErrors    metric.Int64Counter
	votes            metric.Int64Counter
	voteErrors       metric.Int64Counter
	scores           metric.Int64Counter
	scoreErrors      metric.Int64Counter
	archiveSweeps    metric.Int64Counter
	archiveErrors    metric.Int64Counter
	archiveLatencyMs metric.Float64Histogram
}

func prometheusComponents() (sdkmetric.Reader, http.Handler, error) {
	reg := prometheus.NewRegistry()
	promExp, err := promexporter.New(promexporter.WithRegisterer(reg))
	if err != nil {
		return nil, nil, err
	}
	return promExp, promhttp.HandlerFor(reg, promhttp.HandlerOpts{}), nil
}

func newOtelInstruments(provider metric.MeterProvider) (*otelInstruments, error) {
	meter := provider.Meter("ttx-service")
	ctx := context.Background()

	requests, err := meter.Int64Counter("http_requests_total")
	if err != nil {
		return nil, err
	}
	requestLatency, err := meter.Float64Histogram("http_request_duration_ms")
	if err != nil {
		return nil, err
	}
	commands, err := meter.Int64Counter("game_commands_total")
	if err != nil {
		return nil, err
	}
	commandErrors, err := meter.Int64Counter("game_command_errors_total")
	if err != nil {
		return nil, err
	}
	votes, err := meter.Int64Counter("votes_submitted_total")
	if err != nil {
		return nil, err
	}
	voteErrors, err := meter.Int64Counter("vote_errors_total")
	if err != nil {
		return nil, err
	}
	scores, err := meter.Int64Counter("decisions_scored_total")
	if err != nil {
		return nil, err
	}
	scoreErrors, err := meter.Int64Counter("score_errors_total")
	if err != nil {
		return nil, err
	}
	archiveSweeps, err := meter.Int64Counter("archive_sweeps_total")
	if err != nil {
		return nil, err
	}
	archiveErrors, err := meter.Int64Counter("archive_sweep_errors_total")
	if err != nil {
		return nil, err
	}
	archiveLatency, err := meter.Float64Histogram("archive_sweep_duration_ms")
	if err != nil {
		return nil, err
	}

	return &otelInstruments{
		ctx:              ctx,
		meter:            meter,
		requests:         requests,
		requestLatencyMs: requestLatency,
		commands:         commands,
		commandErrors:    commandErrors,
		votes:            votes,
		voteErrors:       voteErrors,
		scores:           scores,
		scoreErrors:      scoreErrors,
		archiveSweeps:    archiveSweeps,
		archiveErrors:    archiveErrors,
		archiveLatencyMs: archiveLatency,
	}, nil
}

func (o *otelInstruments) recordHTTPRequest(method, path string, status int, duration time.Duration) {
	if o == nil {
		return
	}
	attrs := []attribute.KeyValue{
		attribute.String(AttrMethod, method),
		attribute.String(AttrPath, path),
		attribute.Int(AttrStatus, status),
	}
	o.recordCounter(o.requests, 1, attrs...)
	o.recordHistogram(o.requestLatencyMs, float64(duration.Milliseconds()), attrs...)
}

func (o *otelInstruments) recordCommand(name string, err error) {
	if o == nil {
		return
	}
	attrs := []attribute.KeyValue{
		attribute.String(AttrCommand, name),
		attribute.String(AttrOutcome, outcome(err)),
	}
	o.recordCounter(o.commands, 1, attrs...)
	if err != nil {
		o.recordCounter(o.commandErrors, 1, attribute.String(AttrCommand, name))
	}
}

func (o *otelInstruments) recordVote(err error) {
	if o == nil {
		return
	}
	o.recordCounter(o.votes, 1, attribute.String(AttrOutcome, outcome(err)))
	if err != nil {
		o.recordCounter(o.voteErrors, 1)
	}
}

func (o *otelInstruments) recordScore(err error) {
	if o == nil {
		return
	}
	o.recordCounter(o.scores, 1, attribute.String(AttrOutcome, outcome(err)))
	if err != nil {
		o.recordCounter(o.scoreErrors, 1)
	}
}

func (o *otelInstruments) recordArchiveSweep(duration time.Duration, err error) {
	if o == nil {
		return
	}
	o.recordCounter(o.archiveSweeps, 1)
	if err != nil {
		o.recordCounter(o.archiveErrors, 1)
	}
	o.recordHistogram(o.archiveLatencyMs, float64(duration.Milliseconds()))
}

func (o *otelInstruments) recordCounter(counter metric.Int64Counter, value int64, attrs ...attribute.KeyValue) {
	if counter == nil {
		return
	}
	counter.Add(o.ctx, value, metric.WithAttributes(attrs...))
}

func (o *otelInstruments) recordHistogram(hist metric.Float64Histogram, value float64, attrs ...attribute.KeyValue) {
	if hist == nil {
		return
	}
	hist.Record(o.ctx, value, metric.WithAttributes(attrs...))
}
