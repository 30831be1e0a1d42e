package config

import "time"

const (
	envPort             = "PORT"
	envDataPath         = "DATA_PATH"
	envScenarioDir      = "SCENARIO_DIR"
	envLogLevel         = "LOG_LEVEL"
	envLogFormat        = "LOG_FORMAT"
	envScoreboardEvents = "SCOREBOARD_RECENT_EVENTS"
	envMetricsPort      = "METRICS_PORT"
	envMetricsOn        = "METRICS_ENABLED"
	envOtelEndpoint     = "OTEL_EXPORTER_OTLP_ENDPOINT"
	envOtelService      = "OTEL_SERVICE_NAME"
	envOtelInsecure     = "OTEL_EXPORTER_OTLP_INSECURE"
	envArchiveOn        = "ARCHIVE_ENABLED"
	envArchiveDir       = "ARCHIVE_DIR"
	envArchiveInterval  = "ARCHIVE_SWEEP_INTERVAL"
	envArchiveKeep      = "ARCHIVE_KEEP"

	defaultPort             = "4000"
	defaultLogLevel         = "info"
	defaultLogFormat        = "text"
	defaultScoreboardEvents = 10
	defaultMetricsPort      = "9090"
	defaultArchiveOn        = true
	defaultArchiveDir       = "data/reports"
	// Sweep cadence; finished games archive on the next pass.
	defaultArchiveInterval = 5 * time.Minute
	defaultArchiveKeep     = 50
)
