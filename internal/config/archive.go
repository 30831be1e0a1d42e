package config

import "time"

// ArchiveConfig controls the after-action report archiver.
type ArchiveConfig struct {
	Enabled  bool
	Dir      string
	Interval time.Duration // delay between archive sweeps
	Keep     int           // newest archives retained per prune
}

func loadArchive() ArchiveConfig {
	return ArchiveConfig{
		Enabled:  boolEnvOrDefault(envArchiveOn, defaultArchiveOn),
		Dir:      envOrDefault(envArchiveDir, defaultArchiveDir),
		Interval: durationEnvOrDefault(envArchiveInterval, defaultArchiveInterval),
		Keep:     intEnvOrDefault(envArchiveKeep, defaultArchiveKeep),
	}
}
