package config_test

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/robalyx/frost/internal/setup/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const commonTOML = `
version = 1

[debug]
log_level = "debug"
max_logs_to_keep = 3

[database]
driver = "sqlite"
sqlite_path = "frost.db"

[redis]
enabled = false
`

const botTOML = `
version = 1
request_timeout = 5000

[discord]
token = "file-token"
prefix = "!"

[moderation]
self_mute_minutes = 15
sweep_interval_minutes = 2
`

func writeConfig(t *testing.T, files map[string]string) string {
	t.Helper()

	dir := t.TempDir()
	for name, content := range files {
		require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(content), 0o600))
	}
	return dir
}

func TestLoadConfigFrom(t *testing.T) {
	t.Parallel()

	dir := writeConfig(t, map[string]string{"common.toml": commonTOML, "bot.toml": botTOML})

	cfg, used, err := config.LoadConfigFrom([]string{t.TempDir(), dir})
	require.NoError(t, err)
	assert.Equal(t, dir, used)

	assert.Equal(t, "debug", cfg.Common.Debug.LogLevel)
	assert.Equal(t, 3, cfg.Common.Debug.MaxLogsToKeep)
	assert.Equal(t, config.DriverSQLite, cfg.Common.Database.Driver)
	assert.Equal(t, "!", cfg.Bot.Discord.Prefix)
	assert.Equal(t, 15*time.Minute, cfg.Bot.Moderation.SelfMuteDuration())
	assert.Equal(t, 2*time.Minute, cfg.Bot.Moderation.SweepInterval())
	assert.Equal(t, 30*time.Second, cfg.Bot.Moderation.LockDuration())
}

func TestLoadConfigFromMissingFile(t *testing.T) {
	t.Parallel()

	dir := writeConfig(t, map[string]string{"common.toml": commonTOML})

	_, _, err := config.LoadConfigFrom([]string{dir})
	require.ErrorIs(t, err, config.ErrConfigFileNotFound)
}

func TestLoadConfigFromVersionChecks(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		bot     string
		wantErr error
	}{
		{name: "missing version", bot: "request_timeout = 1\n", wantErr: config.ErrConfigVersionMissing},
		{name: "wrong version", bot: "version = 99\n", wantErr: config.ErrConfigVersionMismatch},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			dir := writeConfig(t, map[string]string{"common.toml": commonTOML, "bot.toml": tt.bot})

			_, _, err := config.LoadConfigFrom([]string{dir})
			require.ErrorIs(t, err, tt.wantErr)
		})
	}
}

func TestLoadConfigFromEnvOverride(t *testing.T) {
	t.Setenv("FROST_DISCORD_TOKEN", "env-token")
	t.Setenv("FROST_DATABASE_DSN", "postgres://frost@localhost/frost")

	dir := writeConfig(t, map[string]string{"common.toml": commonTOML, "bot.toml": botTOML})

	cfg, _, err := config.LoadConfigFrom([]string{dir})
	require.NoError(t, err)
	assert.Equal(t, "env-token", cfg.Bot.Discord.Token)
	assert.Equal(t, "postgres://frost@localhost/frost", cfg.Common.Database.DSN)
}

func TestModerationDefaults(t *testing.T) {
	t.Parallel()

	var m config.Moderation
	assert.Equal(t, 20*time.Minute, m.SelfMuteDuration())
	assert.Equal(t, 5*time.Minute, m.SweepInterval())
}

func TestSQLiteDSN(t *testing.T) {
	t.Parallel()

	assert.Equal(t, ":memory:", (&config.Database{}).SQLiteDSN())
	assert.Equal(t, ":memory:", (&config.Database{SQLitePath: ":memory:"}).SQLiteDSN())
	assert.Contains(t, (&config.Database{SQLitePath: "data/frost.db"}).SQLiteDSN(), "file:data/frost.db?")
}
