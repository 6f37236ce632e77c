package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// DumpConfig holds the accumulator parameters for one dump source.
type DumpConfig struct {
	Capacity int    `yaml:"capacity"`
	Instance uint8  `yaml:"instance"`
	Mode     string `yaml:"mode"`
}

// ProbeConfig holds the live-capture parameters.
type ProbeConfig struct {
	Interface   string `yaml:"interface"`
	DevicePort  uint16 `yaml:"device_port"`
	SnapshotLen int32  `yaml:"snapshot_len"`
	Promiscuous bool   `yaml:"promiscuous"`
}

// NATSConfig holds the transport parameters shared by probe and collector.
type NATSConfig struct {
	URL     string `yaml:"url"`
	Subject string `yaml:"subject"`
}

// ClickHouseConfig holds the connection parameters for the frame store.
type ClickHouseConfig struct {
	Host     string `yaml:"host"`
	Port     int    `yaml:"port"`
	Database string `yaml:"database"`
	Username string `yaml:"username"`
	Password string `yaml:"password"`
}

// WriterDef defines a single frame writer on the collector.
type WriterDef struct {
	Type       string           `yaml:"type"` // "clickhouse" or "file"
	Enabled    bool             `yaml:"enabled"`
	Path       string           `yaml:"path"`       // file writer root
	BatchSize  int              `yaml:"batch_size"` // clickhouse insert batch
	ClickHouse ClickHouseConfig `yaml:"clickhouse"`
}

// CollectorConfig holds the fan-out parameters for the collector daemon.
type CollectorConfig struct {
	NumWorkers  int         `yaml:"num_workers"`
	ChannelSize int         `yaml:"channel_size"`
	Writers     []WriterDef `yaml:"writers"`
}

// RedisConfig holds the latest-frame cache parameters.
type RedisConfig struct {
	Addr string `yaml:"addr"`
	TTL  string `yaml:"ttl"`
}

// APIConfig holds the HTTP query server parameters.
type APIConfig struct {
	ListenAddr string `yaml:"listen_addr"`
}

// TelemetryConfig holds the metrics endpoint parameters.
type TelemetryConfig struct {
	MetricsAddr string `yaml:"metrics_addr"`
}

// Config is the top-level configuration struct for the entire application.
type Config struct {
	Dump      DumpConfig      `yaml:"dump"`
	Probe     ProbeConfig     `yaml:"probe"`
	NATS      NATSConfig      `yaml:"nats"`
	Collector CollectorConfig `yaml:"collector"`
	Redis     RedisConfig     `yaml:"redis"`
	API       APIConfig       `yaml:"api"`
	Telemetry TelemetryConfig `yaml:"telemetry"`
}

// LoadConfig reads the configuration from a YAML file and returns a Config struct.
func LoadConfig(filePath string) (*Config, error) {
	data, err := os.ReadFile(filePath)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	var cfg Config
	err = yaml.Unmarshal(data, &cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to unmarshal config YAML: %w", err)
	}

	if cfg.Dump.Capacity <= 0 {
		return nil, fmt.Errorf("dump capacity must be positive, got %d", cfg.Dump.Capacity)
	}

	return &cfg, nil
}
