package config

import (
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/knadh/koanf/parsers/toml/v2"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
)

var (
	ErrConfigFileNotFound    = errors.New("could not find config file in any config path")
	ErrConfigVersionMissing  = errors.New("config file is missing version field")
	ErrConfigVersionMismatch = errors.New("config file version mismatch")
)

// RepositoryVersion is the repository version tag for config file references.
const RepositoryVersion = "v0.1.0"

// Current version of the config file.
const (
	CurrentCommonVersion = 1
	CurrentBotVersion    = 1
)

// Supported database drivers.
const (
	DriverPostgres = "postgres"
	DriverSQLite   = "sqlite"
)

// Config represents the entire application configuration.
type Config struct {
	Common CommonConfig `koanf:"common"`
	Bot    BotConfig    `koanf:"bot"`
}

// CommonConfig contains configuration shared by every command.
type CommonConfig struct {
	// Version of the common config.
	Version   int       `koanf:"version"`
	Debug     Debug     `koanf:"debug"`
	Retry     Retry     `koanf:"retry"`
	Database  Database  `koanf:"database"`
	Redis     Redis     `koanf:"redis"`
	Telemetry Telemetry `koanf:"telemetry"`
}

// BotConfig contains Discord bot specific configuration.
type BotConfig struct {
	// Version of the bot config.
	Version int `koanf:"version"`
	// Request timeout in milliseconds.
	RequestTimeout int `koanf:"request_timeout"`
	// Discord configuration.
	Discord Discord `koanf:"discord"`
	// Moderation defaults.
	Moderation Moderation `koanf:"moderation"`
}

// Debug contains debug-related configuration.
type Debug struct {
	// Log level (debug, info, warn, error).
	LogLevel string `koanf:"log_level"`
	// Maximum log sessions to keep.
	MaxLogsToKeep int `koanf:"max_logs_to_keep"`
}

// Retry contains retry configuration.
type Retry struct {
	// Maximum retry attempts.
	MaxRetries uint64 `koanf:"max_retries"`
	// Initial retry delay in milliseconds.
	Delay int `koanf:"delay"`
	// Maximum retry delay in milliseconds.
	MaxDelay int `koanf:"max_delay"`
}

// Database contains database connection configuration.
type Database struct {
	// Driver is either "postgres" or "sqlite".
	Driver string `koanf:"driver"`
	// Full connection string; overrides the discrete PostgreSQL fields.
	DSN string `koanf:"dsn" env:"FROST_DATABASE_DSN"`
	// Database hostname.
	Host string `koanf:"host"`
	// Database port.
	Port int `koanf:"port"`
	// Database username.
	User string `koanf:"user"`
	// Database password.
	Password string `koanf:"password" env:"FROST_DATABASE_PASSWORD"`
	// Database name.
	DBName string `koanf:"db_name"`
	// Path of the SQLite file, or ":memory:".
	SQLitePath string `koanf:"sqlite_path"`
	// Maximum open connections.
	MaxOpenConns int `koanf:"max_open_conns"`
	// Maximum idle connections.
	MaxIdleConns int `koanf:"max_idle_conns"`
	// Connection lifetime in minutes.
	MaxLifetime int `koanf:"max_lifetime"`
	// Idle timeout in minutes.
	MaxIdleTime int `koanf:"max_idle_time"`
}

// Redis contains Redis connection configuration.
type Redis struct {
	// Use Redis for cross-process member locks.
	Enabled bool `koanf:"enabled"`
	// Redis hostname.
	Host string `koanf:"host"`
	// Redis port.
	Port int `koanf:"port"`
	// Redis username.
	Username string `koanf:"username"`
	// Redis password.
	Password string `koanf:"password" env:"FROST_REDIS_PASSWORD"`
	// Disable client-side caching for servers without CLIENT TRACKING.
	DisableCache bool `koanf:"disable_cache"`
}

// Telemetry contains tracing and metrics configuration.
type Telemetry struct {
	// Uptrace DSN; tracing is disabled when empty.
	UptraceDSN string `koanf:"uptrace_dsn" env:"FROST_UPTRACE_DSN"`
	// Address of the Prometheus metrics endpoint; disabled when empty.
	MetricsAddr string `koanf:"metrics_addr"`
}

// Discord contains Discord bot configuration.
type Discord struct {
	// Discord bot token for authentication.
	Token string `koanf:"token" env:"FROST_DISCORD_TOKEN"`
	// Prefix of message commands.
	Prefix string `koanf:"prefix"`
}

// Moderation contains defaults used when a guild has no settings of its own.
type Moderation struct {
	// Self-mute length in minutes for members invoking mute without rights.
	SelfMuteMinutes int `koanf:"self_mute_minutes"`
	// Minutes between expiry sweeps.
	SweepIntervalMinutes int `koanf:"sweep_interval_minutes"`
	// Member lock lifetime in seconds.
	LockTTL int `koanf:"lock_ttl"`
	// Names of roles treated as moderator roles when a guild has none configured.
	ModRoleNames []string `koanf:"mod_role_names"`
}

// SQLiteDSN returns the driver connection string for the SQLite file.
func (d *Database) SQLiteDSN() string {
	if d.SQLitePath == "" || d.SQLitePath == ":memory:" {
		return ":memory:"
	}
	return "file:" + d.SQLitePath + "?_pragma=busy_timeout(5000)&_pragma=journal_mode(WAL)"
}

// Name returns a short name of the database for tracing.
func (d *Database) Name() string {
	if d.Driver == DriverSQLite {
		return "sqlite"
	}
	if d.DBName == "" {
		return "frost"
	}
	return d.DBName
}

// SelfMuteDuration returns the default self-mute length.
func (m *Moderation) SelfMuteDuration() time.Duration {
	if m.SelfMuteMinutes <= 0 {
		return 20 * time.Minute
	}
	return time.Duration(m.SelfMuteMinutes) * time.Minute
}

// SweepInterval returns the default time between expiry sweeps.
func (m *Moderation) SweepInterval() time.Duration {
	if m.SweepIntervalMinutes <= 0 {
		return 5 * time.Minute
	}
	return time.Duration(m.SweepIntervalMinutes) * time.Minute
}

// LockDuration returns how long a member lock is held at most.
func (m *Moderation) LockDuration() time.Duration {
	if m.LockTTL <= 0 {
		return 30 * time.Second
	}
	return time.Duration(m.LockTTL) * time.Second
}

// DefaultSearchPaths returns the directories searched for config files.
func DefaultSearchPaths() ([]string, error) {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return nil, fmt.Errorf("failed to get home directory: %w", err)
	}

	return []string{
		".frost",
		homeDir + "/.frost/config",
		"/etc/frost/config",
		"/app/config",
		"config",
		".",
	}, nil
}

// LoadConfig loads the configuration from the default search paths.
func LoadConfig() (*Config, string, error) {
	paths, err := DefaultSearchPaths()
	if err != nil {
		return nil, "", err
	}
	return LoadConfigFrom(paths)
}

// LoadConfigFrom loads common.toml and bot.toml from the first path containing each,
// then applies environment overrides. It returns the path the first file came from.
func LoadConfigFrom(configPaths []string) (*Config, string, error) {
	k := koanf.New(".")

	var usedConfigPath string

	configFiles := []string{"common", "bot"}
	for _, configName := range configFiles {
		configLoaded := false

		for _, path := range configPaths {
			configPath := fmt.Sprintf("%s/%s.toml", path, configName)
			if _, err := os.Stat(configPath); err != nil {
				continue
			}

			// Each file is nested under its own name
			sub := koanf.New(".")
			if err := sub.Load(file.Provider(configPath), toml.Parser()); err != nil {
				return nil, "", fmt.Errorf("failed to parse %s: %w", configPath, err)
			}
			if err := k.MergeAt(sub, configName); err != nil {
				return nil, "", fmt.Errorf("failed to merge %s: %w", configPath, err)
			}

			configLoaded = true
			if usedConfigPath == "" {
				usedConfigPath = path
			}

			break
		}

		if !configLoaded {
			return nil, "", fmt.Errorf("%w: %s.toml", ErrConfigFileNotFound, configName)
		}
	}

	var config Config
	if err := k.Unmarshal("", &config); err != nil {
		return nil, "", fmt.Errorf("error unmarshaling config: %w", err)
	}

	// Secrets may come from the environment instead of the files
	if err := env.Parse(&config); err != nil {
		return nil, "", fmt.Errorf("parse env: %w", err)
	}

	// Check versions for each config file
	if err := checkConfigVersion("common", config.Common.Version, CurrentCommonVersion); err != nil {
		return nil, "", err
	}

	if err := checkConfigVersion("bot", config.Bot.Version, CurrentBotVersion); err != nil {
		return nil, "", err
	}

	return &config, usedConfigPath, nil
}

// checkConfigVersion checks if the config file version is correct.
func checkConfigVersion(name string, current, expected int) error {
	if current == 0 {
		return fmt.Errorf("%w: %s.toml", ErrConfigVersionMissing, name)
	}

	if current != expected {
		return fmt.Errorf(
			"%w: %s.toml (got: %d, expected: %d)\n"+
				"Please update your config file from: https://github.com/robalyx/frost/tree/%s/config/%s.toml",
			ErrConfigVersionMismatch,
			name,
			current,
			expected,
			RepositoryVersion,
			name,
		)
	}

	return nil
}
