package config

// Config holds runtime configuration for the server.
type Config struct {
	Port                   string
	DataPath               string
	ScenarioDir            string
	LogLevel               string
	LogFormat              string
	ScoreboardRecentEvents int
	Metrics                MetricsConfig
	Archive                ArchiveConfig
}

// Load reads configuration from environment variables with sensible defaults.
func Load() Config {
	return Config{
		Port:                   envOrDefault(envPort, defaultPort),
		DataPath:               envOrDefault(envDataPath, ""),
		ScenarioDir:            envOrDefault(envScenarioDir, ""),
		LogLevel:               envOrDefault(envLogLevel, defaultLogLevel),
		LogFormat:              envOrDefault(envLogFormat, defaultLogFormat),
		ScoreboardRecentEvents: intEnvOrDefault(envScoreboardEvents, defaultScoreboardEvents),
		Metrics:                loadMetrics(),
		Archive:                loadArchive(),
	}
}
