package app

import (
	"errors"
	"fmt"
	"io/fs"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"

	"github.com/bnema/dockhand/internal/adapters/out/telemetry"
	"github.com/bnema/dockhand/pkg/bytesize"
	"github.com/bnema/dockhand/pkg/duration"
)

// Config holds the application configuration.
type Config struct {
	Server struct {
		URL         string `mapstructure:"url"`
		InsecureTLS bool   `mapstructure:"insecure_tls"`
		Timeout     string `mapstructure:"timeout"` // e.g. "30s", "2m"
	} `mapstructure:"server"`

	Session struct {
		Path string `mapstructure:"path"` // defaults to {config_dir}/session.toml
	} `mapstructure:"session"`

	Stream struct {
		MaxFrameSize     string `mapstructure:"max_frame_size"` // e.g. "1MB"
		HandshakeTimeout string `mapstructure:"handshake_timeout"`
	} `mapstructure:"stream"`

	Events struct {
		BufferSize int `mapstructure:"buffer_size"`
	} `mapstructure:"events"`

	Logging struct {
		Level  string `mapstructure:"level"`
		Format string `mapstructure:"format"`
		File   struct {
			Enabled    bool   `mapstructure:"enabled"`
			Path       string `mapstructure:"path"`
			MaxSize    int    `mapstructure:"max_size"`
			MaxBackups int    `mapstructure:"max_backups"`
			MaxAge     int    `mapstructure:"max_age"`
		} `mapstructure:"file"`
	} `mapstructure:"logging"`

	Telemetry telemetry.Config `mapstructure:"telemetry"`
}

// Options are the command line overrides applied on top of the config file.
type Options struct {
	ConfigPath string
	ServerURL  string
	LogLevel   string
	Version    string
}

// limits are the parsed forms of the human readable config values.
type limits struct {
	requestTimeout   time.Duration
	handshakeTimeout time.Duration
	maxFrameSize     int64
}

// initConfig loads configuration from file, environment and overrides.
func initConfig(opts Options) (*viper.Viper, Config, error) {
	v := viper.New()
	if err := loadConfig(v, opts.ConfigPath); err != nil {
		return nil, Config{}, fmt.Errorf("failed to load config: %w", err)
	}

	if opts.ServerURL != "" {
		v.Set("server.url", opts.ServerURL)
	}
	if opts.LogLevel != "" {
		v.Set("logging.level", opts.LogLevel)
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, Config{}, fmt.Errorf("failed to unmarshal config: %w", err)
	}
	cfg.Server.URL = strings.TrimRight(strings.TrimSpace(cfg.Server.URL), "/")
	if cfg.Server.URL == "" {
		return nil, Config{}, errors.New("server.url is required")
	}

	return v, cfg, nil
}

// loadConfig sets defaults, reads the optional config file and binds DOCKHAND_* variables.
// A .env file in the working directory is loaded first so it can feed the environment.
func loadConfig(v *viper.Viper, configPath string) error {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("failed to read .env: %w", err)
	}

	v.SetDefault("server.url", "http://localhost:8080")
	v.SetDefault("server.insecure_tls", false)
	v.SetDefault("server.timeout", "30s")
	v.SetDefault("session.path", "")
	v.SetDefault("stream.max_frame_size", "1MB")
	v.SetDefault("stream.handshake_timeout", "10s")
	v.SetDefault("events.buffer_size", 100)
	v.SetDefault("logging.level", "warn")
	v.SetDefault("logging.format", "console")
	v.SetDefault("logging.file.enabled", false)
	v.SetDefault("logging.file.max_size", 10)
	v.SetDefault("logging.file.max_backups", 3)
	v.SetDefault("logging.file.max_age", 28)
	v.SetDefault("telemetry.enabled", false)
	v.SetDefault("telemetry.interval", "60s")

	ConfigureViper(v, configPath)

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return fmt.Errorf("failed to read config file: %w", err)
		}
	}

	v.SetEnvPrefix("DOCKHAND")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	return nil
}

// limits parses the timeouts and the stream frame size.
func (c Config) limits() (limits, error) {
	var l limits
	var err error

	if l.requestTimeout, err = duration.Parse(c.Server.Timeout); err != nil {
		return limits{}, fmt.Errorf("invalid server.timeout: %w", err)
	}
	if l.handshakeTimeout, err = duration.Parse(c.Stream.HandshakeTimeout); err != nil {
		return limits{}, fmt.Errorf("invalid stream.handshake_timeout: %w", err)
	}
	if l.maxFrameSize, err = bytesize.Parse(c.Stream.MaxFrameSize); err != nil {
		return limits{}, fmt.Errorf("invalid stream.max_frame_size: %w", err)
	}
	if l.maxFrameSize <= 0 {
		return limits{}, fmt.Errorf("invalid stream.max_frame_size: must be positive")
	}
	return l, nil
}
