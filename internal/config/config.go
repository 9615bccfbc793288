// Package config handles configuration loading from files, defaults, and environment variables.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
	"github.com/pelletier/go-toml/v2"

	"github.com/javiermolinar/agenda/internal/logging"
	"github.com/javiermolinar/agenda/internal/schedule"
)

// Storage backends.
const (
	BackendSQLite   = "sqlite"
	BackendRedis    = "redis"
	BackendPostgres = "postgres"
)

// DotEnvPath is the optional .env file read before environment overrides.
var DotEnvPath = ".env"

// Config holds the application configuration.
type Config struct {
	Schedule ScheduleConfig `toml:"schedule"`
	Storage  StorageConfig  `toml:"storage"`
	UI       UIConfig       `toml:"ui"`
	Log      LogConfig      `toml:"log"`
}

// ScheduleConfig holds the provider identity and the settings used for a new schedule.
type ScheduleConfig struct {
	Provider         string `toml:"provider"`           // email or account id; empty means anonymous
	DurationOnline   int    `toml:"duration_online"`    // minutes
	DurationInPerson int    `toml:"duration_in_person"` // minutes
	BufferMinutes    int    `toml:"buffer_minutes"`
	DefaultModality  string `toml:"default_modality"` // "online" or "in_person"
	PreferredStart   string `toml:"preferred_start"`  // e.g., "09:00", where manual adds start looking
}

// StorageConfig holds persistence settings.
type StorageConfig struct {
	Backend       string `toml:"backend"` // "sqlite", "redis", "postgres"
	DBPath        string `toml:"db_path"`
	RedisAddr     string `toml:"redis_addr"`
	RedisPassword string `toml:"redis_password"`
	RedisDB       int    `toml:"redis_db"`
	PostgresURL   string `toml:"postgres_url"`
}

// UIConfig holds TUI settings.
type UIConfig struct {
	Theme string `toml:"theme"` // "mocha", "latte"
}

// LogConfig holds logging settings.
type LogConfig struct {
	Level string `toml:"level"` // debug, info, warn, error
	File  string `toml:"file"`
}

// Default returns the default configuration.
func Default() *Config {
	settings := schedule.DefaultSettings()
	return &Config{
		Schedule: ScheduleConfig{
			DurationOnline:   settings.DurationOnline,
			DurationInPerson: settings.DurationInPerson,
			BufferMinutes:    settings.BufferMinutes,
			DefaultModality:  string(schedule.ModalityOnline),
			PreferredStart:   "09:00",
		},
		Storage: StorageConfig{
			Backend:   BackendSQLite,
			DBPath:    defaultDBPath(),
			RedisAddr: "localhost:6379",
		},
		UI: UIConfig{
			Theme: "mocha",
		},
		Log: LogConfig{
			Level: "warn",
		},
	}
}

// defaultDBPath returns the default database path.
func defaultDBPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return "agenda.db"
	}
	return filepath.Join(home, ".local", "share", "agenda", "agenda.db")
}

// DefaultConfigPath returns the default config file path.
func DefaultConfigPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return "config.toml"
	}
	return filepath.Join(home, ".config", "agenda", "config.toml")
}

// Load loads configuration from the default path, merging with defaults and env vars.
func Load() (*Config, error) {
	return LoadFrom(DefaultConfigPath())
}

// LoadFrom loads configuration from the specified path.
// It starts with defaults, overlays file config if it exists, then applies
// overrides from .env and the process environment (the environment wins).
func LoadFrom(path string) (*Config, error) {
	cfg := Default()

	if err := loadFromFile(path, cfg); err != nil {
		return nil, err
	}

	dotenv, err := readDotEnv(DotEnvPath)
	if err != nil {
		return nil, err
	}
	if err := applyEnvOverrides(cfg, lookupEnv(dotenv)); err != nil {
		return nil, err
	}

	cfg.Storage.DBPath = expandPath(cfg.Storage.DBPath)
	cfg.Log.File = expandPath(cfg.Log.File)

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return cfg, nil
}

// loadFromFile loads config from a file if it exists.
func loadFromFile(path string, cfg *Config) error {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil // File doesn't exist, use defaults
		}
		return fmt.Errorf("reading config file: %w", err)
	}

	if err := toml.Unmarshal(data, cfg); err != nil {
		return fmt.Errorf("parsing config file: %w", err)
	}

	return nil
}

// readDotEnv reads KEY=value pairs from path. A missing file is not an error.
func readDotEnv(path string) (map[string]string, error) {
	if path == "" {
		return nil, nil
	}
	values, err := godotenv.Read(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, nil
		}
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}
	return values, nil
}

// lookupEnv returns a getter that prefers the process environment over dotenv.
func lookupEnv(dotenv map[string]string) func(string) string {
	return func(key string) string {
		if v := os.Getenv(key); v != "" {
			return v
		}
		return dotenv[key]
	}
}

// applyEnvOverrides applies environment variable overrides to the config.
func applyEnvOverrides(cfg *Config, getenv func(string) string) error {
	// Schedule overrides
	if v := getenv("AGENDA_PROVIDER"); v != "" {
		cfg.Schedule.Provider = v
	}
	if err := envInt(getenv, "AGENDA_DURATION_ONLINE", &cfg.Schedule.DurationOnline); err != nil {
		return err
	}
	if err := envInt(getenv, "AGENDA_DURATION_IN_PERSON", &cfg.Schedule.DurationInPerson); err != nil {
		return err
	}
	if err := envInt(getenv, "AGENDA_BUFFER_MINUTES", &cfg.Schedule.BufferMinutes); err != nil {
		return err
	}
	if v := getenv("AGENDA_DEFAULT_MODALITY"); v != "" {
		cfg.Schedule.DefaultModality = v
	}
	if v := getenv("AGENDA_PREFERRED_START"); v != "" {
		cfg.Schedule.PreferredStart = v
	}

	// Storage overrides
	if v := getenv("AGENDA_STORAGE_BACKEND"); v != "" {
		cfg.Storage.Backend = v
	}
	if v := getenv("AGENDA_DB_PATH"); v != "" {
		cfg.Storage.DBPath = v
	}
	if v := getenv("AGENDA_REDIS_ADDR"); v != "" {
		cfg.Storage.RedisAddr = v
	}
	if v := getenv("AGENDA_REDIS_PASSWORD"); v != "" {
		cfg.Storage.RedisPassword = v
	}
	if err := envInt(getenv, "AGENDA_REDIS_DB", &cfg.Storage.RedisDB); err != nil {
		return err
	}
	if v := getenv("AGENDA_POSTGRES_URL"); v != "" {
		cfg.Storage.PostgresURL = v
	}

	// UI overrides
	if v := getenv("AGENDA_UI_THEME"); v != "" {
		cfg.UI.Theme = v
	}

	// Log overrides
	if v := getenv("AGENDA_LOG_LEVEL"); v != "" {
		cfg.Log.Level = v
	}
	if v := getenv("AGENDA_LOG_FILE"); v != "" {
		cfg.Log.File = v
	}
	return nil
}

func envInt(getenv func(string) string, key string, dst *int) error {
	v := getenv(key)
	if v == "" {
		return nil
	}
	n, err := strconv.Atoi(strings.TrimSpace(v))
	if err != nil {
		return fmt.Errorf("%s must be an integer, got %q", key, v)
	}
	*dst = n
	return nil
}

// expandPath expands ~ to the user's home directory.
func expandPath(path string) string {
	if strings.HasPrefix(path, "~/") {
		home, err := os.UserHomeDir()
		if err != nil {
			return path
		}
		return filepath.Join(home, path[2:])
	}
	return path
}

// Validate checks if the configuration is valid.
func (c *Config) Validate() error {
	if err := c.Settings().Validate(); err != nil {
		return err
	}
	if _, err := schedule.ParseModality(c.Schedule.DefaultModality); err != nil {
		return fmt.Errorf("default_modality: %w", err)
	}
	if _, err := schedule.TimeToMinutes(c.Schedule.PreferredStart); err != nil {
		return fmt.Errorf("preferred_start: %w", err)
	}

	switch c.Storage.Backend {
	case BackendSQLite:
		if c.Storage.DBPath == "" {
			return errors.New("db_path must be set")
		}
	case BackendRedis:
		if c.Storage.RedisAddr == "" {
			return errors.New("redis_addr must be set for the redis backend")
		}
		if c.Storage.RedisDB < 0 {
			return errors.New("redis_db must not be negative")
		}
	case BackendPostgres:
		if c.Storage.PostgresURL == "" {
			return errors.New("postgres_url must be set for the postgres backend")
		}
	default:
		return fmt.Errorf("invalid storage backend: %q", c.Storage.Backend)
	}

	if _, err := logging.ParseLevel(c.Log.Level); err != nil {
		return err
	}
	return nil
}

// Settings returns the schedule settings used when no state is stored yet.
func (c *Config) Settings() schedule.Settings {
	return schedule.Settings{
		DurationOnline:   c.Schedule.DurationOnline,
		DurationInPerson: c.Schedule.DurationInPerson,
		BufferMinutes:    c.Schedule.BufferMinutes,
	}
}

// Modality returns the configured default modality, falling back to online.
func (c *Config) Modality() schedule.Modality {
	m, err := schedule.ParseModality(c.Schedule.DefaultModality)
	if err != nil {
		return schedule.ModalityOnline
	}
	return m
}

// PreferredStartMin returns preferred_start in minutes since midnight.
func (c *Config) PreferredStartMin() int {
	m, err := schedule.TimeToMinutes(c.Schedule.PreferredStart)
	if err != nil {
		return 0
	}
	return m
}

// Key returns the storage key for the configured provider.
func (c *Config) Key() string {
	return schedule.KeyFor(c.Schedule.Provider)
}

// Save writes the configuration to the default path.
func (c *Config) Save() error {
	return c.SaveTo(DefaultConfigPath())
}

// SaveTo writes the configuration to the specified path.
func (c *Config) SaveTo(path string) error {
	// Ensure directory exists
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("creating config directory: %w", err)
	}

	data, err := toml.Marshal(c)
	if err != nil {
		return fmt.Errorf("marshaling config: %w", err)
	}

	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("writing config file: %w", err)
	}

	return nil
}
