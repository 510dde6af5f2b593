package utils

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/caarlos0/env/v11"
	"gopkg.in/yaml.v3"
)

// ─── Sensor-level configs ───────────────────────────────────────────────

type MotionConfig struct {
	Enabled       bool `yaml:"enabled" toml:"enabled" env:"MOTION_SENSOR_ENABLED"`
	UpdateRateHz  int  `yaml:"update_rate_hz" toml:"update_rate_hz" env:"MOTION_SENSOR_RATE_HZ"`
	ChannelBuffer int  `yaml:"channel_buffer" toml:"channel_buffer"`
}

type OrientationConfig struct {
	Enabled       bool `yaml:"enabled" toml:"enabled" env:"MOTION_ORIENTATION_ENABLED"`
	UpdateRateHz  int  `yaml:"update_rate_hz" toml:"update_rate_hz" env:"MOTION_ORIENTATION_RATE_HZ"`
	ChannelBuffer int  `yaml:"channel_buffer" toml:"channel_buffer"`
}

// SourceConfig selects where motion events come from: "simulate" or "replay".
type SourceConfig struct {
	Kind       string `yaml:"kind" toml:"kind" env:"MOTION_SOURCE"`
	ReplayPath string `yaml:"replay_path" toml:"replay_path" env:"MOTION_REPLAY_PATH"`
	Loop       bool   `yaml:"loop" toml:"loop"`
}

type DisplayConfig struct {
	FPS               int `yaml:"fps" toml:"fps"`
	NotificationTTLMs int `yaml:"notification_ttl_ms" toml:"notification_ttl_ms"`
	StatsIntervalSec  int `yaml:"stats_interval_seconds" toml:"stats_interval_seconds"`
}

type SimulationConfig struct {
	DurationSeconds int `yaml:"duration_seconds" toml:"duration_seconds" env:"MOTION_DURATION_SECONDS"`
}

// SensorsConfig is the top-level structure for sensors.yaml / sensors.toml.
type SensorsConfig struct {
	Sensors struct {
		Motion            MotionConfig      `yaml:"motion" toml:"motion"`
		Orientation       OrientationConfig `yaml:"orientation" toml:"orientation"`
		RequirePermission bool              `yaml:"require_permission" toml:"require_permission" env:"MOTION_REQUIRE_PERMISSION"`
	} `yaml:"sensors" toml:"sensors"`
	Source     SourceConfig     `yaml:"source" toml:"source"`
	Display    DisplayConfig    `yaml:"display" toml:"display"`
	Simulation SimulationConfig `yaml:"simulation" toml:"simulation"`
}

// ─── Storage configs ────────────────────────────────────────────────────

type CSVStorageConfig struct {
	BufferSizeKB int `yaml:"buffer_size_kb" toml:"buffer_size_kb"`
}

type RecordingConfig struct {
	Mode      string `yaml:"mode" toml:"mode" env:"MOTION_RECORDING_MODE"`
	ChunkSize int    `yaml:"chunk_size" toml:"chunk_size" env:"MOTION_CHUNK_SIZE"`
}

type StorageConfig struct {
	Storage struct {
		BaseDir    string           `yaml:"base_dir" toml:"base_dir" env:"MOTION_OUTPUT_DIR"`
		FilePrefix string           `yaml:"file_prefix" toml:"file_prefix"`
		CSV        CSVStorageConfig `yaml:"csv" toml:"csv"`
		Overwrite  bool             `yaml:"overwrite" toml:"overwrite"`
	} `yaml:"storage" toml:"storage"`
	Recording RecordingConfig `yaml:"recording" toml:"recording"`
}

// ─── Defaults ───────────────────────────────────────────────────────────

const DefaultChunkSize = 1000

// DefaultSensorsConfig returns a simulated motion + orientation setup.
func DefaultSensorsConfig() *SensorsConfig {
	cfg := &SensorsConfig{}
	cfg.Sensors.Motion.Enabled = true
	cfg.Sensors.Orientation.Enabled = true
	cfg.Source.Kind = "simulate"
	cfg.applyDefaults()
	return cfg
}

// DefaultStorageConfig writes chunked CSVs into ./recordings.
func DefaultStorageConfig() *StorageConfig {
	cfg := &StorageConfig{}
	cfg.applyDefaults()
	return cfg
}

func (c *SensorsConfig) applyDefaults() {
	if c.Sensors.Motion.UpdateRateHz <= 0 {
		c.Sensors.Motion.UpdateRateHz = 60
	}
	if c.Sensors.Motion.ChannelBuffer <= 0 {
		c.Sensors.Motion.ChannelBuffer = 512
	}
	if c.Sensors.Orientation.UpdateRateHz <= 0 {
		c.Sensors.Orientation.UpdateRateHz = 30
	}
	if c.Sensors.Orientation.ChannelBuffer <= 0 {
		c.Sensors.Orientation.ChannelBuffer = 64
	}
	if c.Source.Kind == "" {
		c.Source.Kind = "simulate"
	}
	if c.Display.FPS <= 0 {
		c.Display.FPS = 60
	}
	if c.Display.NotificationTTLMs <= 0 {
		c.Display.NotificationTTLMs = 3000
	}
	if c.Display.StatsIntervalSec <= 0 {
		c.Display.StatsIntervalSec = 5
	}
}

func (c *StorageConfig) applyDefaults() {
	if c.Storage.BaseDir == "" {
		c.Storage.BaseDir = "recordings"
	}
	if c.Storage.FilePrefix == "" {
		c.Storage.FilePrefix = "motion-data"
	}
	if c.Storage.CSV.BufferSizeKB <= 0 {
		c.Storage.CSV.BufferSizeKB = 64
	}
	if c.Recording.Mode == "" {
		c.Recording.Mode = "chunked"
	}
	if c.Recording.ChunkSize <= 0 {
		c.Recording.ChunkSize = DefaultChunkSize
	}
}

// Validate rejects combinations the pipeline cannot run with.
func (c *SensorsConfig) Validate() error {
	switch c.Source.Kind {
	case "simulate":
	case "replay":
		if c.Source.ReplayPath == "" {
			return fmt.Errorf("source.replay_path is required when source.kind=replay")
		}
	default:
		return fmt.Errorf("unknown source.kind %q", c.Source.Kind)
	}
	return nil
}

// ─── Loaders ────────────────────────────────────────────────────────────

// LoadSensorsConfig reads sensors.yaml (or .toml). An empty path yields
// the defaults. Environment overrides are applied last.
func LoadSensorsConfig(path string) (*SensorsConfig, error) {
	cfg := DefaultSensorsConfig()
	if path != "" {
		if err := decodeFile(path, cfg); err != nil {
			return nil, fmt.Errorf("sensors config: %w", err)
		}
	}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("sensors config env: %w", err)
	}
	cfg.applyDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("sensors config: %w", err)
	}
	return cfg, nil
}

// LoadStorageConfig reads storage.yaml (or .toml). An empty path yields
// the defaults. Environment overrides are applied last.
func LoadStorageConfig(path string) (*StorageConfig, error) {
	cfg := DefaultStorageConfig()
	if path != "" {
		if err := decodeFile(path, cfg); err != nil {
			return nil, fmt.Errorf("storage config: %w", err)
		}
	}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("storage config env: %w", err)
	}
	cfg.applyDefaults()
	return cfg, nil
}

func decodeFile(path string, out any) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read %s: %w", path, err)
	}
	switch strings.ToLower(filepath.Ext(path)) {
	case ".toml":
		if _, err := toml.Decode(string(data), out); err != nil {
			return fmt.Errorf("parse %s: %w", path, err)
		}
	default:
		if err := yaml.Unmarshal(data, out); err != nil {
			return fmt.Errorf("parse %s: %w", path, err)
		}
	}
	return nil
}
