// Package config loads server settings from defaults, an optional config
// file, TIMESHEET_* environment variables and command-line flags, in that
// order of increasing precedence.
package config

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

const (
	StoreSQLite = "sqlite"
	StoreMemory = "memory"
)

type Config struct {
	Port        int      `mapstructure:"port"`
	Store       string   `mapstructure:"store"` // sqlite or memory
	DBPath      string   `mapstructure:"db"`
	LogLevel    string   `mapstructure:"log_level"`
	CORSOrigins []string `mapstructure:"cors_origins"`
}

// Defaults returns the built-in values for every key.
func Defaults() map[string]any {
	return map[string]any{
		"port":         8080,
		"store":        StoreSQLite,
		"db":           "timesheets.db",
		"log_level":    "info",
		"cors_origins": []string{"http://localhost:5173", "http://localhost:8080"},
	}
}

// Flags declares the command-line flags that override configuration.
func Flags() *pflag.FlagSet {
	fs := pflag.NewFlagSet("server", pflag.ContinueOnError)
	fs.String("config", "", "config file (default is ./config.yaml if present)")
	fs.Int("port", 8080, "HTTP server port")
	fs.String("store", StoreSQLite, "storage backend: sqlite or memory")
	fs.String("db", "timesheets.db", "SQLite database path (\":memory:\" for in-memory)")
	fs.String("log-level", "info", "log level: debug, info, warn, error")
	return fs
}

// Load resolves configuration. fs may be nil when no flags apply.
func Load(fs *pflag.FlagSet) (*Config, error) {
	v := viper.New()
	for k, val := range Defaults() {
		v.SetDefault(k, val)
	}

	v.SetEnvPrefix("TIMESHEET")
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()

	var cfgFile string
	if fs != nil {
		for _, key := range []string{"port", "store", "db"} {
			if err := v.BindPFlag(key, fs.Lookup(key)); err != nil {
				return nil, fmt.Errorf("bind flag %s: %w", key, err)
			}
		}
		if err := v.BindPFlag("log_level", fs.Lookup("log-level")); err != nil {
			return nil, fmt.Errorf("bind flag log-level: %w", err)
		}
		cfgFile, _ = fs.GetString("config")
	}

	if cfgFile != "" {
		v.SetConfigFile(cfgFile)
	} else {
		v.SetConfigName("config")
		v.AddConfigPath(".")
	}
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if cfgFile != "" || !errors.As(err, &notFound) {
			return nil, fmt.Errorf("read config: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unable to decode into struct: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Config) Validate() error {
	if c.Port <= 0 || c.Port > 65535 {
		return fmt.Errorf("invalid port %d", c.Port)
	}
	switch c.Store {
	case StoreSQLite:
		if c.DBPath == "" {
			return errors.New("db path is required for the sqlite store")
		}
	case StoreMemory:
	default:
		return fmt.Errorf("unknown store %q (want %s or %s)", c.Store, StoreSQLite, StoreMemory)
	}
	if _, err := ParseLevel(c.LogLevel); err != nil {
		return err
	}
	return nil
}

// ParseLevel maps a log_level string to a slog level.
func ParseLevel(s string) (slog.Level, error) {
	var level slog.Level
	if err := level.UnmarshalText([]byte(s)); err != nil {
		return 0, fmt.Errorf("invalid log level %q", s)
	}
	return level, nil
}

// Logger builds the process logger at the configured level.
func (c *Config) Logger() *slog.Logger {
	level, err := ParseLevel(c.LogLevel)
	if err != nil {
		level = slog.LevelInfo
	}
	return slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: level}))
}
