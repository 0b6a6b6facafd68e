package config

import "strings"

// ApplyDefaults fills unspecified configuration fields with sensible
// defaults. Zero values are replaced; explicit values are preserved.
func ApplyDefaults(cfg *Config) {
	applyLoggingDefaults(&cfg.Logging)
	applyTelemetryDefaults(&cfg.Telemetry)
	applyMetricsDefaults(&cfg.Metrics)
	applyLRSDefaults(&cfg.LRS)
	applyLayoutDefaults(&cfg.LayoutRAID1)
	applyIODefaults(&cfg.IO)
}

func applyLoggingDefaults(cfg *LoggingConfig) {
	if cfg.Level == "" {
		cfg.Level = "INFO"
	}
	cfg.Level = strings.ToUpper(cfg.Level)

	if cfg.Format == "" {
		cfg.Format = "text"
	}
	if cfg.Output == "" {
		cfg.Output = "stdout"
	}
}

func applyTelemetryDefaults(cfg *TelemetryConfig) {
	if cfg.Endpoint == "" {
		cfg.Endpoint = "localhost:4317"
	}
	if cfg.SampleRate == 0 {
		cfg.SampleRate = 1.0
	}
}

func applyMetricsDefaults(cfg *MetricsConfig) {
	if cfg.Port == 0 {
		cfg.Port = 9090
	}
}

func applyLRSDefaults(cfg *LRSConfig) {
	if cfg.SyncTimeMs == 0 {
		cfg.SyncTimeMs = 1000
	}
	if cfg.SyncNbReq == 0 {
		cfg.SyncNbReq = 5
	}
	if cfg.SyncWsizeKB == 0 {
		cfg.SyncWsizeKB = 1 << 20 // 1 MiB
	}
}

func applyLayoutDefaults(cfg *LayoutRAID1Config) {
	if cfg.ReplCount == 0 {
		cfg.ReplCount = 2
	}
}

func applyIODefaults(cfg *IOConfig) {
	if cfg.IOBlockSize == 0 {
		cfg.IOBlockSize = 1 << 20 // 1 MiB
	}
}

// GetDefaultConfig returns a Config populated entirely with defaults,
// used when no config file, env var, or flag supplies a value, and as
// the baseline for tests.
func GetDefaultConfig() *Config {
	cfg := &Config{}
	ApplyDefaults(cfg)
	return cfg
}
