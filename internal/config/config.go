// Package config loads settings from the environment and an optional .env file.
// Every key carries the STUDYLOG_ prefix, e.g. STUDYLOG_BACKEND=redis.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

const (
	EnvDevelopment = "development"
	EnvProduction  = "production"

	BackendSQLite = "sqlite"
	BackendRedis  = "redis"
	BackendMemory = "memory"

	envPrefix  = "STUDYLOG"
	defaultEnv = ".env"
	appDir     = "studylog"
)

type Config struct {
	Env     string
	Backend string
	DBPath  string

	Redis RedisConfig
	Log   LogConfig

	ExportDir string
	// PDFFont is an optional UTF-8 TrueType font for PDF exports.
	PDFFont string

	// IdleTimeout pauses a running stopwatch after no input; zero disables it.
	IdleTimeout     time.Duration
	DefaultDuration int
}

type RedisConfig struct {
	Addr     string
	Password string
	DB       int
	Prefix   string
	Timeout  time.Duration
}

type LogConfig struct {
	Level  string
	Format string
	File   string
}

// Load reads envFile (".env" when empty) into the process environment, then
// resolves every key against defaults. A missing default .env is not an error.
// The result is not validated; callers apply their overrides, then Validate.
func Load(envFile string) (*Config, error) {
	explicit := envFile != ""
	if !explicit {
		envFile = defaultEnv
	}
	if err := godotenv.Load(envFile); err != nil {
		if explicit || !errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("load env file: %w", err)
		}
	}

	v := viper.New()
	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	setDefaults(v)

	cfg := &Config{
		Env:     v.GetString("ENV"),
		Backend: strings.ToLower(v.GetString("BACKEND")),
		DBPath:  v.GetString("DB_PATH"),
		Redis: RedisConfig{
			Addr:     v.GetString("REDIS_ADDR"),
			Password: v.GetString("REDIS_PASSWORD"),
			DB:       v.GetInt("REDIS_DB"),
			Prefix:   v.GetString("REDIS_PREFIX"),
			Timeout:  parseDuration(v.GetString("REDIS_TIMEOUT"), 2*time.Second),
		},
		Log: LogConfig{
			Level:  v.GetString("LOG_LEVEL"),
			Format: strings.ToLower(v.GetString("LOG_FORMAT")),
			File:   v.GetString("LOG_FILE"),
		},
		ExportDir:       v.GetString("EXPORT_DIR"),
		PDFFont:         v.GetString("PDF_FONT"),
		IdleTimeout:     parseDuration(v.GetString("IDLE_TIMEOUT"), 0),
		DefaultDuration: v.GetInt("DEFAULT_DURATION"),
	}

	return cfg, nil
}

// Validate reports the first setting that cannot be used.
func (c *Config) Validate() error {
	switch c.Backend {
	case BackendSQLite:
		if c.DBPath == "" {
			return errors.New("config: sqlite backend needs STUDYLOG_DB_PATH")
		}
	case BackendRedis:
		if c.Redis.Addr == "" {
			return errors.New("config: redis backend needs STUDYLOG_REDIS_ADDR")
		}
	case BackendMemory:
	default:
		return fmt.Errorf("config: unknown backend %q", c.Backend)
	}

	switch c.Log.Format {
	case "json", "console":
	default:
		return fmt.Errorf("config: unknown log format %q", c.Log.Format)
	}

	if c.DefaultDuration < 1 {
		return fmt.Errorf("config: default duration must be at least 1 minute, got %d", c.DefaultDuration)
	}
	if c.IdleTimeout < 0 {
		return fmt.Errorf("config: negative idle timeout %s", c.IdleTimeout)
	}
	return nil
}

func setDefaults(v *viper.Viper) {
	dataDir := userDir()

	v.SetDefault("ENV", EnvDevelopment)
	v.SetDefault("BACKEND", BackendSQLite)
	v.SetDefault("DB_PATH", filepath.Join(dataDir, "studylog.db"))

	v.SetDefault("REDIS_ADDR", "localhost:6379")
	v.SetDefault("REDIS_PASSWORD", "")
	v.SetDefault("REDIS_DB", 0)
	v.SetDefault("REDIS_PREFIX", "studylog:")
	v.SetDefault("REDIS_TIMEOUT", "2s")

	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("LOG_FORMAT", "json")
	v.SetDefault("LOG_FILE", filepath.Join(dataDir, "studylog.log"))

	home, err := os.UserHomeDir()
	if err != nil {
		home = "."
	}
	v.SetDefault("EXPORT_DIR", home)
	v.SetDefault("PDF_FONT", "")

	v.SetDefault("IDLE_TIMEOUT", "0")
	v.SetDefault("DEFAULT_DURATION", 30)
}

func userDir() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		dir = "."
	}
	return filepath.Join(dir, appDir)
}

func parseDuration(raw string, fallback time.Duration) time.Duration {
	if raw == "" {
		return fallback
	}

	d, err := time.ParseDuration(raw)
	if err != nil {
		return fallback
	}

	return d
}
