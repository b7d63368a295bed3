package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

type Config struct {
	Server  ServerConfig  `mapstructure:"server"`
	Fetcher FetcherConfig `mapstructure:"fetcher"`
	Export  ExportConfig  `mapstructure:"export"`
	Log     LogConfig     `mapstructure:"log"`
}

type ServerConfig struct {
	Port           int           `mapstructure:"port"`
	ReadTimeout    time.Duration `mapstructure:"read_timeout"`
	WriteTimeout   time.Duration `mapstructure:"write_timeout"`
	AllowedOrigins []string      `mapstructure:"allowed_origins"`
	SessionTTL     time.Duration `mapstructure:"session_ttl"`
	PruneInterval  time.Duration `mapstructure:"prune_interval"`
}

type FetcherConfig struct {
	Timeout     time.Duration `mapstructure:"timeout"`
	UserAgent   string        `mapstructure:"user_agent"`
	MaxBodySize int           `mapstructure:"max_body_size"`
}

type ExportConfig struct {
	FileName string `mapstructure:"file_name"`
}

type LogConfig struct {
	Dir   string `mapstructure:"dir"`
	Level string `mapstructure:"level"`
}

// LoadConfig reads config.yaml from the working directory or ./config, or from
// path when it is set. Environment variables prefixed with SITEMAP_EXPLORER_
// override file values, e.g. SITEMAP_EXPLORER_FETCHER_TIMEOUT=5s.
func LoadConfig(path string) (*Config, error) {
	v := viper.New()

	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		v.AddConfigPath("./config")
	}

	setDefaults(v)

	v.SetEnvPrefix("SITEMAP_EXPLORER")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
	}

	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("unable to decode config: %w", err)
	}

	if err := config.Validate(); err != nil {
		return nil, err
	}

	return &config, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("server.port", 8080)
	v.SetDefault("server.read_timeout", "15s")
	v.SetDefault("server.write_timeout", "15s")
	v.SetDefault("server.allowed_origins", []string{"*"})
	v.SetDefault("server.session_ttl", "1h")
	v.SetDefault("server.prune_interval", "5m")

	v.SetDefault("fetcher.timeout", "10s")
	v.SetDefault("fetcher.user_agent", "Sitemap Explorer Bot v1.0")
	v.SetDefault("fetcher.max_body_size", 0)

	v.SetDefault("export.file_name", "sitemap_urls.csv")

	v.SetDefault("log.dir", "")
	v.SetDefault("log.level", "info")
}

// Validate checks the values viper cannot check on its own.
func (c *Config) Validate() error {
	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		return fmt.Errorf("server.port must be between 1 and 65535, got %d", c.Server.Port)
	}
	if c.Fetcher.Timeout <= 0 {
		return fmt.Errorf("fetcher.timeout must be positive")
	}
	if c.Fetcher.MaxBodySize < 0 {
		return fmt.Errorf("fetcher.max_body_size must not be negative")
	}
	if c.Server.SessionTTL <= 0 {
		return fmt.Errorf("server.session_ttl must be positive")
	}
	if c.Server.PruneInterval <= 0 {
		return fmt.Errorf("server.prune_interval must be positive")
	}
	switch strings.ToLower(c.Log.Level) {
	case "debug", "info", "error":
	default:
		return fmt.Errorf("log.level must be one of debug, info, error; got %q", c.Log.Level)
	}
	if c.Export.FileName == "" {
		return fmt.Errorf("export.file_name must not be empty")
	}
	return nil
}
