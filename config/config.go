// Package config loads the Phobos DSS configuration: logging,
// telemetry, the catalog connection string, and the small set of
// tunables the spec exposes through PHOBOS_<SECTION>_<name>
// environment variables.
//
// Configuration sources (in order of precedence):
//  1. Environment variables (PHOBOS_*)
//  2. Configuration file (YAML)
//  3. Default values (lowest priority)
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"time"

	"github.com/mitchellh/mapstructure"
	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"

	"github.com/cea-hpc/phobos-dss/internal/bytesize"
)

// Config is the full set of static configuration for a Phobos DSS
// process.
type Config struct {
	// Logging controls log output behavior.
	Logging LoggingConfig `mapstructure:"logging" yaml:"logging"`

	// Telemetry controls OpenTelemetry distributed tracing.
	Telemetry TelemetryConfig `mapstructure:"telemetry" yaml:"telemetry"`

	// Metrics configures the Prometheus metrics registry.
	Metrics MetricsConfig `mapstructure:"metrics" yaml:"metrics"`

	// DSS holds the catalog connection descriptor (spec §6 `dss.connect_string`).
	DSS DSSConfig `mapstructure:"dss" yaml:"dss"`

	// LRS holds local resource scheduler sync tunables.
	LRS LRSConfig `mapstructure:"lrs" yaml:"lrs"`

	// LayoutRAID1 holds the RAID1 layout's replication tunable.
	LayoutRAID1 LayoutRAID1Config `mapstructure:"layout_raid1" yaml:"layout_raid1"`

	// IO holds I/O block sizing tunables.
	IO IOConfig `mapstructure:"io" yaml:"io"`

	// TapeModel lists tape drive models this installation supports.
	TapeModel TapeModelConfig `mapstructure:"tape_model" yaml:"tape_model"`
}

// LoggingConfig controls logging behavior.
type LoggingConfig struct {
	// Level is the minimum log level to output.
	// Valid values: DEBUG, INFO, WARN, ERROR (case-insensitive, normalized to uppercase).
	Level string `mapstructure:"level" validate:"required,oneof=DEBUG INFO WARN ERROR debug info warn error" yaml:"level"`

	// Format specifies the log output format: text or json.
	Format string `mapstructure:"format" validate:"required,oneof=text json" yaml:"format"`

	// Output specifies where logs are written: stdout, stderr, or a file path.
	Output string `mapstructure:"output" validate:"required" yaml:"output"`
}

// TelemetryConfig controls OpenTelemetry distributed tracing.
type TelemetryConfig struct {
	// Enabled controls whether distributed tracing is enabled.
	Enabled bool `mapstructure:"enabled" yaml:"enabled"`

	// Endpoint is the OTLP collector endpoint (host:port).
	Endpoint string `mapstructure:"endpoint" yaml:"endpoint"`

	// Insecure controls whether to use an insecure (non-TLS) connection.
	Insecure bool `mapstructure:"insecure" yaml:"insecure"`

	// SampleRate controls the trace sampling rate (0.0 to 1.0).
	SampleRate float64 `mapstructure:"sample_rate" validate:"omitempty,gte=0,lte=1" yaml:"sample_rate"`
}

// MetricsConfig configures the Prometheus metrics registry.
type MetricsConfig struct {
	// Enabled controls whether metrics are collected at all.
	Enabled bool `mapstructure:"enabled" yaml:"enabled"`

	// Port is the HTTP port the metrics endpoint listens on, when a
	// caller exposes one.
	Port int `mapstructure:"port" validate:"omitempty,min=1,max=65535" yaml:"port"`
}

// DSSConfig is the `dss` configuration section (spec §6).
type DSSConfig struct {
	// ConnectString is the catalog connection descriptor, e.g. a
	// libpq-style Postgres DSN. Override: PHOBOS_DSS_connect_string.
	ConnectString string `mapstructure:"connect_string" validate:"required" yaml:"connect_string"`
}

// LRSConfig is the `lrs` configuration section (spec §6).
type LRSConfig struct {
	// SyncTimeMs bounds, in milliseconds, how long the scheduler
	// batches writes before flushing. Override: PHOBOS_LRS_sync_time_ms.
	SyncTimeMs int `mapstructure:"sync_time_ms" validate:"omitempty,gt=0" yaml:"sync_time_ms"`

	// SyncNbReq bounds how many requests the scheduler batches before
	// flushing. Override: PHOBOS_LRS_sync_nb_req.
	SyncNbReq int `mapstructure:"sync_nb_req" validate:"omitempty,gt=0" yaml:"sync_nb_req"`

	// SyncWsizeKB bounds the write size the scheduler batches before
	// flushing. Override: PHOBOS_LRS_sync_wsize_kb.
	SyncWsizeKB bytesize.ByteSize `mapstructure:"sync_wsize_kb" yaml:"sync_wsize_kb"`
}

// LayoutRAID1Config is the `layout_raid1` configuration section (spec §6).
type LayoutRAID1Config struct {
	// ReplCount is the number of mirrored copies a RAID1 layout keeps.
	// Override: PHOBOS_LAYOUT_RAID1_repl_count.
	ReplCount int `mapstructure:"repl_count" validate:"omitempty,gt=0" yaml:"repl_count"`
}

// IOConfig is the `io` configuration section (spec §6).
type IOConfig struct {
	// IOBlockSize is the I/O transfer block size. Override:
	// PHOBOS_IO_io_block_size.
	IOBlockSize bytesize.ByteSize `mapstructure:"io_block_size" yaml:"io_block_size"`
}

// TapeModelConfig is the `tape_model` configuration section (spec §6).
type TapeModelConfig struct {
	// SupportedList enumerates the tape drive models this installation
	// recognises. Override: PHOBOS_TAPE_MODEL_supported_list (comma-separated).
	SupportedList []string `mapstructure:"supported_list" yaml:"supported_list"`
}

// envBindings pairs each leaf config key with the literal environment
// variable name spec §6 assigns it. Viper's automatic PHOBOS_<key>
// uppercasing would not reproduce these mixed-case names, so each is
// bound explicitly rather than derived.
var envBindings = map[string]string{
	"dss.connect_string":        "PHOBOS_DSS_connect_string",
	"lrs.sync_time_ms":          "PHOBOS_LRS_sync_time_ms",
	"lrs.sync_nb_req":           "PHOBOS_LRS_sync_nb_req",
	"lrs.sync_wsize_kb":         "PHOBOS_LRS_sync_wsize_kb",
	"layout_raid1.repl_count":   "PHOBOS_LAYOUT_RAID1_repl_count",
	"io.io_block_size":          "PHOBOS_IO_io_block_size",
	"tape_model.supported_list": "PHOBOS_TAPE_MODEL_supported_list",
}

// Load loads configuration from file, environment and defaults.
//
// configPath may be empty, in which case the default location
// ($XDG_CONFIG_HOME/phobos-dss/config.yaml) is searched; its absence
// is not an error, defaults apply instead.
func Load(configPath string) (*Config, error) {
	v := viper.New()
	setupViper(v, configPath)

	if _, err := readConfigFile(v); err != nil {
		return nil, err
	}

	cfg := &Config{}
	if err := v.Unmarshal(cfg, viper.DecodeHook(configDecodeHooks())); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	ApplyDefaults(cfg)

	if err := Validate(cfg); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}
	return cfg, nil
}

// SaveConfig writes cfg to path in YAML, creating parent directories
// as needed.
func SaveConfig(cfg *Config, path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}
	if err := os.WriteFile(path, data, 0600); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}
	return nil
}

// setupViper wires environment variable and config-file search.
func setupViper(v *viper.Viper, configPath string) {
	v.SetEnvPrefix("PHOBOS")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	for key, env := range envBindings {
		_ = v.BindEnv(key, env)
	}

	if configPath != "" {
		v.SetConfigFile(configPath)
		return
	}
	v.AddConfigPath(getConfigDir())
	v.SetConfigName("config")
	v.SetConfigType("yaml")
}

// readConfigFile reads the configuration file if one is present,
// reporting (found, error).
func readConfigFile(v *viper.Viper) (bool, error) {
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); ok {
			return false, nil
		}
		if os.IsNotExist(err) {
			return false, nil
		}
		return false, fmt.Errorf("failed to read config file: %w", err)
	}
	return true, nil
}

// configDecodeHooks composes the ByteSize and time.Duration decode hooks.
func configDecodeHooks() mapstructure.DecodeHookFunc {
	return mapstructure.ComposeDecodeHookFunc(
		byteSizeDecodeHook(),
		durationDecodeHook(),
	)
}

func byteSizeDecodeHook() mapstructure.DecodeHookFunc {
	return func(from reflect.Type, to reflect.Type, data any) (any, error) {
		if to != reflect.TypeOf(bytesize.ByteSize(0)) {
			return data, nil
		}
		switch v := data.(type) {
		case string:
			return bytesize.ParseByteSize(v)
		case int:
			return bytesize.ByteSize(v), nil
		case int64:
			return bytesize.ByteSize(v), nil
		case uint64:
			return bytesize.ByteSize(v), nil
		case float64:
			return bytesize.ByteSize(v), nil
		default:
			return data, nil
		}
	}
}

func durationDecodeHook() mapstructure.DecodeHookFunc {
	return func(from reflect.Type, to reflect.Type, data any) (any, error) {
		if to != reflect.TypeOf(time.Duration(0)) {
			return data, nil
		}
		switch v := data.(type) {
		case string:
			return time.ParseDuration(v)
		case int:
			return time.Duration(v) * time.Millisecond, nil
		case int64:
			return time.Duration(v) * time.Millisecond, nil
		case float64:
			return time.Duration(v) * time.Millisecond, nil
		default:
			return data, nil
		}
	}
}

// getConfigDir returns the configuration directory, honoring
// XDG_CONFIG_HOME.
func getConfigDir() string {
	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		return filepath.Join(xdg, "phobos-dss")
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "."
	}
	return filepath.Join(home, ".config", "phobos-dss")
}

// GetDefaultConfigPath returns the default configuration file path.
func GetDefaultConfigPath() string {
	return filepath.Join(getConfigDir(), "config.yaml")
}
