package config

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/viper"
)

// MIN_SCAN_INTERVAL_MS guards the decode cadence: anything faster than this
// saturates the decoder without making the scanner feel more responsive.
const MIN_SCAN_INTERVAL_MS = 100

type ScanConfig struct {
	// Decode tick period in milliseconds.
	IntervalMS int `mapstructure:"interval_ms"`
	// How long one scan result stays on screen, in milliseconds.
	ResultTTLMS int `mapstructure:"result_ttl_ms"`
	// Facing preference when no device is pinned: "user" or "environment".
	Facing string `mapstructure:"facing"`
	// Optional camera preset file and the preset name to apply from it.
	PresetFile string `mapstructure:"preset_file"`
	Preset     string `mapstructure:"preset"`
	// Directories exposed as capture devices by the image-dir driver.
	FrameDirs []string `mapstructure:"frame_dirs"`
	// Whether the image-dir driver wraps around after the last frame.
	LoopFrames bool `mapstructure:"loop_frames"`
}

type ConsoleConfig struct {
	// Listen address of the local operator console.
	Listen string `mapstructure:"listen"`
}

type Config struct {
	// EventSphere backend base URL, e.g. https://eventsphere.example.com
	APIBaseURL string `mapstructure:"api_base_url"`
	// Bearer token of the operator account. Must be set for any command
	// that talks to the backend.
	APIToken string `mapstructure:"api_token"`
	// Default event to operate on when a command names none.
	EventID int64 `mapstructure:"event_id"`
	// Secret for signing the station id that tags journal records.
	StationSecret string `mapstructure:"station_secret"`
	LogLevel      string `mapstructure:"log_level"`

	Scan    ScanConfig    `mapstructure:"scan"`
	Console ConsoleConfig `mapstructure:"console"`
	Storage Storage       `mapstructure:"storage"`
}

var Cfg *Config

// Check if running in Docker container by checking for the presence of /.dockerenv file
func runningInDocker() bool {
	if _, err := os.Stat("/.dockerenv"); err == nil {
		return true
	}
	return false
}

func getConfigPath() string {
	if runningInDocker() {
		return "/app/instance"
	}
	return "./instance"
}

// LoadConfig reads configuration from the optional config file and
// environment variables and returns a Config struct.
func LoadConfig(configFile ...string) (*Config, error) {
	var cfg Config

	v := viper.New()
	v.SetConfigName("config")
	v.AddConfigPath(getConfigPath())
	v.AddConfigPath(".")
	v.SetEnvPrefix("")

	if len(configFile) > 0 {
		for _, path := range configFile {
			v.SetConfigFile(path)
		}
	}

	for k, val := range Defaults() {
		v.SetDefault(k, val)
	}

	// Load configuration from environment variables
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		// Missing config file is fine, env and defaults carry the rest.
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("unable to read config file: %v", err)
		}
	}

	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unable to decode into struct: %v", err)
	}

	// Clamp an overly aggressive decode cadence instead of failing.
	if cfg.Scan.IntervalMS < MIN_SCAN_INTERVAL_MS {
		slog.Warn("SCAN.INTERVAL_MS below minimum, clamping", slog.Int("actual", cfg.Scan.IntervalMS), slog.Int("min", MIN_SCAN_INTERVAL_MS))
		cfg.Scan.IntervalMS = MIN_SCAN_INTERVAL_MS
	}

	// Convert relative sqlite path to the instance folder
	if cfg.Storage.SQLite != nil {
		if cfg.Storage.SQLite.Path == ":memory:" {
			// In-memory database, do nothing
		} else if !os.IsPathSeparator(cfg.Storage.SQLite.Path[0]) {
			cfg.Storage.SQLite.Path = fmt.Sprintf("%s/%s", getConfigPath(), cfg.Storage.SQLite.Path)
		}
	}

	if cfg.APIToken == "" {
		slog.Warn("API token is not set. Backend calls will be rejected.")
	}

	return &cfg, nil
}
