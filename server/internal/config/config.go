package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/obsidianstack/graphcast/internal/logging"
)

// Default values for the server configuration.
const (
	DefaultHTTPPort    = 8080
	DefaultWSPath      = "/"
	DefaultDataPath    = "/tmp/openagi_data.json"
	DefaultInterval    = time.Second
	DefaultSendBuffer  = 16
	DefaultMetricsPath = "/metrics"
	minInterval        = 10 * time.Millisecond
)

// Environment variables that override values from the file.
const (
	EnvDataPath = "GRAPHCAST_DATA_PATH"
	EnvHTTPPort = "GRAPHCAST_HTTP_PORT"
	EnvInterval = "GRAPHCAST_INTERVAL"
)

// Config holds the configuration parsed from the `server:` section of
// config.yaml. Other top-level keys are ignored.
type Config struct {
	Server ServerConfig `yaml:"server"`
}

// ServerConfig holds all graphcast-server settings.
type ServerConfig struct {
	// HTTPPort is the port the WebSocket endpoint, REST API and metrics listen on.
	HTTPPort int `yaml:"http_port"`

	// WSPath is where viewers connect (default "/").
	WSPath string `yaml:"ws_path"`

	// UIDir optionally serves a pre-built browser viewer from this directory.
	UIDir string `yaml:"ui_dir"`

	Data      DataConfig      `yaml:"data"`
	Broadcast BroadcastConfig `yaml:"broadcast"`
	Metrics   MetricsConfig   `yaml:"metrics"`
	Log       LogConfig       `yaml:"log"`
}

// DataConfig describes the polled graph file.
type DataConfig struct {
	// Path is the JSON file re-read on every tick.
	Path string `yaml:"path"`

	// Interval is the time between refresh+broadcast ticks.
	Interval time.Duration `yaml:"interval"`

	// Watch adds an fsnotify watch that triggers an extra refresh as soon as
	// the file is written. The interval poll keeps running either way.
	Watch bool `yaml:"watch"`
}

// BroadcastConfig controls fan-out to viewers.
type BroadcastConfig struct {
	// SendOnConnect pushes the held snapshot to a viewer as soon as it connects
	// instead of waiting for the next tick.
	SendOnConnect bool `yaml:"send_on_connect"`

	// Buffer is the per-viewer outgoing message buffer depth. A viewer whose
	// buffer is full is skipped for that tick.
	Buffer int `yaml:"buffer"`
}

// MetricsConfig controls the Prometheus endpoint.
type MetricsConfig struct {
	Enabled bool   `yaml:"enabled"`
	Path    string `yaml:"path"`
}

// LogConfig controls the slog handler and optional rotating file output.
type LogConfig = logging.Config

// Load reads the config file at path, applies environment overrides and
// validates the result. An empty path yields the defaults (plus overrides).
func Load(path string) (*Config, error) {
	cfg := defaults()

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("server config: read %q: %w", path, err)
		}
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("server config: parse yaml: %w", err)
		}
	}

	if err := applyEnv(cfg); err != nil {
		return nil, fmt.Errorf("server config: %w", err)
	}

	if err := validate(cfg); err != nil {
		return nil, fmt.Errorf("server config: %w", err)
	}

	return cfg, nil
}

// defaults returns a Config pre-populated with default values.
func defaults() *Config {
	return &Config{
		Server: ServerConfig{
			HTTPPort: DefaultHTTPPort,
			WSPath:   DefaultWSPath,
			Data: DataConfig{
				Path:     DefaultDataPath,
				Interval: DefaultInterval,
			},
			Broadcast: BroadcastConfig{
				Buffer: DefaultSendBuffer,
			},
			Metrics: MetricsConfig{
				Enabled: true,
				Path:    DefaultMetricsPath,
			},
			Log: logging.Defaults(),
		},
	}
}

// applyEnv overrides file values with GRAPHCAST_* environment variables.
func applyEnv(cfg *Config) error {
	if v := os.Getenv(EnvDataPath); v != "" {
		cfg.Server.Data.Path = v
	}
	if v := os.Getenv(EnvHTTPPort); v != "" {
		port, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("%s=%q: %w", EnvHTTPPort, v, err)
		}
		cfg.Server.HTTPPort = port
	}
	if v := os.Getenv(EnvInterval); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			return fmt.Errorf("%s=%q: %w", EnvInterval, v, err)
		}
		cfg.Server.Data.Interval = d
	}
	return nil
}

// validate checks structural constraints on the parsed configuration.
func validate(cfg *Config) error {
	s := cfg.Server
	if s.HTTPPort <= 0 || s.HTTPPort > 65535 {
		return fmt.Errorf("server.http_port %d is out of range [1, 65535]", s.HTTPPort)
	}
	if err := checkRoute("server.ws_path", s.WSPath); err != nil {
		return err
	}
	if s.Data.Path == "" {
		return fmt.Errorf("server.data.path is required")
	}
	if s.Data.Interval < minInterval {
		return fmt.Errorf("server.data.interval %v is below the %v minimum", s.Data.Interval, minInterval)
	}
	if s.Broadcast.Buffer <= 0 {
		return fmt.Errorf("server.broadcast.buffer must be positive")
	}
	if s.Metrics.Enabled {
		if err := checkRoute("server.metrics.path", s.Metrics.Path); err != nil {
			return err
		}
		if s.Metrics.Path == s.WSPath {
			return fmt.Errorf("server.metrics.path and server.ws_path must differ")
		}
		if s.Metrics.Path == "/" && s.UIDir != "" {
			return fmt.Errorf("server.metrics.path / is taken by server.ui_dir")
		}
	}
	switch strings.ToLower(s.Log.Level) {
	case "debug", "info", "warn", "error", "":
	default:
		return fmt.Errorf("server.log.level %q unknown: want debug|info|warn|error", s.Log.Level)
	}
	return nil
}

// apiPrefix is the subtree the REST API is mounted on.
const apiPrefix = "/api/"

// checkRoute rejects paths that cannot be mounted next to the API subtree.
func checkRoute(field, path string) error {
	if !strings.HasPrefix(path, "/") {
		return fmt.Errorf("%s %q must start with /", field, path)
	}
	if strings.ContainsAny(path, " \t{}") {
		return fmt.Errorf("%s %q contains whitespace or braces", field, path)
	}
	if path == strings.TrimSuffix(apiPrefix, "/") || strings.HasPrefix(path, apiPrefix) {
		return fmt.Errorf("%s %q overlaps the %s API routes", field, path, apiPrefix)
	}
	return nil
}
