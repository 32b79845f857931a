package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/edgard/armastatus/internal/domain/model"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.json")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))
	return path
}

const minimalDiscord = `{
  "discord": {"token": "abc", "channel_id": "123"},
  "server": {"address": "arma.example.com", "game_port": 2302},
  "organizations": [
    {"tag": "TAG1", "name": "Red Team", "priority": 1, "color": "0;31"},
    {"tag": "TAG2", "name": "Blue Team", "priority": 5, "color": "0;34"}
  ]
}`

func TestLoadConfig_Defaults(t *testing.T) {
	t.Parallel()

	cfg, err := LoadConfig(writeConfig(t, minimalDiscord))
	require.NoError(t, err)

	assert.Equal(t, "info", cfg.Logger.Level)
	assert.Equal(t, PlatformDiscord, cfg.Chat.Platform)
	assert.Equal(t, 2303, cfg.Server.QueryPort)
	assert.Equal(t, 5*time.Second, cfg.Server.QueryTimeout)
	assert.Equal(t, "file", cfg.State.Driver)
	assert.Equal(t, DefaultFileStatePath, cfg.State.Path)
	assert.Equal(t, "#00ff00", cfg.Display.Color)
	assert.Equal(t, "Unknown", cfg.Display.AuthorName)
	assert.Equal(t, "Players online", cfg.Display.Labels.Players)
	assert.True(t, cfg.Scheduler.SingleFlight)

	refresh := cfg.Scheduler.Tasks[TaskStatusRefresh]
	assert.True(t, refresh.Enabled)
	assert.Equal(t, 20*time.Second, refresh.Interval)
	assert.Equal(t, "0 4 * * *", cfg.Scheduler.Tasks[TaskSQLMaintenance].Schedule)

	assert.Equal(t, "123", cfg.ChannelID())
	assert.Equal(t, []model.OrgMapping{
		{Tag: "TAG1", Name: "Red Team", Priority: 1, Color: "0;31"},
		{Tag: "TAG2", Name: "Blue Team", Priority: 5, Color: "0;34"},
	}, cfg.Mappings())
}

func TestLoadConfig_AnsiColorKey(t *testing.T) {
	t.Parallel()

	cfg, err := LoadConfig(writeConfig(t, `{
  "discord": {"token": "abc", "channel_id": "123"},
  "server": {"address": "arma.example.com", "game_port": 2302},
  "organizations": [
    {"tag": "TAG1", "name": "Red Team", "priority": 1, "ansiColor": "0;31"},
    {"tag": "TAG2", "name": "Blue Team", "priority": 5, "color": "0;34", "ansiColor": "0;35"},
    {"tag": "TAG3", "name": "Green Team"}
  ]
}`))
	require.NoError(t, err)

	assert.Equal(t, []model.OrgMapping{
		{Tag: "TAG1", Name: "Red Team", Priority: 1, Color: "0;31"},
		{Tag: "TAG2", Name: "Blue Team", Priority: 5, Color: "0;34"},
		{Tag: "TAG3", Name: "Green Team"},
	}, cfg.Mappings())
}

func TestLoadConfig_Overrides(t *testing.T) {
	t.Parallel()

	cfg, err := LoadConfig(writeConfig(t, `{
  "logger": {"level": "debug", "json": true},
  "chat": {"platform": "telegram"},
  "telegram": {"token": "tg", "chat_id": "@arma"},
  "server": {"address": "10.0.0.5", "game_port": 2402, "query_port": 2500, "query_timeout": "2s"},
  "state": {"driver": "sqlite"},
  "scheduler": {"single_flight": false, "tasks": {"status_refresh": {"enabled": true, "schedule": "*/30 * * * * *"}}}
}`))
	require.NoError(t, err)

	assert.True(t, cfg.Logger.JSON)
	assert.Equal(t, 2500, cfg.Server.QueryPort)
	assert.Equal(t, 2*time.Second, cfg.Server.QueryTimeout)
	assert.Equal(t, DefaultSQLiteStatePath, cfg.State.Path)
	assert.False(t, cfg.Scheduler.SingleFlight)
	assert.Equal(t, "*/30 * * * * *", cfg.Scheduler.Tasks[TaskStatusRefresh].Schedule)
	assert.Equal(t, "@arma", cfg.ChannelID())
}

func TestLoadConfig_EnvOverride(t *testing.T) {
	t.Setenv("ARMASTATUS_DISCORD_TOKEN", "from-env")

	cfg, err := LoadConfig(writeConfig(t, `{
  "discord": {"channel_id": "123"},
  "server": {"address": "arma.example.com", "game_port": 2302}
}`))
	require.NoError(t, err)
	assert.Equal(t, "from-env", cfg.Discord.Token)
}

func TestLoadConfig_Errors(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		body string
	}{
		{name: "invalid json", body: `{"server":`},
		{name: "missing server address", body: `{"discord": {"token": "a", "channel_id": "1"}, "server": {"game_port": 2302}}`},
		{name: "port out of range", body: `{"discord": {"token": "a", "channel_id": "1"}, "server": {"address": "h", "game_port": 70000}}`},
		{name: "discord without token", body: `{"discord": {"channel_id": "1"}, "server": {"address": "h", "game_port": 2302}}`},
		{name: "telegram without chat", body: `{"chat": {"platform": "telegram"}, "telegram": {"token": "t"}, "server": {"address": "h", "game_port": 2302}}`},
		{name: "unknown platform", body: `{"chat": {"platform": "irc"}, "server": {"address": "h", "game_port": 2302}}`},
		{name: "bad color", body: `{"discord": {"token": "a", "channel_id": "1"}, "server": {"address": "h", "game_port": 2302}, "display": {"color": "green"}}`},
		{name: "organization without tag", body: `{"discord": {"token": "a", "channel_id": "1"}, "server": {"address": "h", "game_port": 2302}, "organizations": [{"name": "x"}]}`},
		{name: "unknown state driver", body: `{"discord": {"token": "a", "channel_id": "1"}, "server": {"address": "h", "game_port": 2302}, "state": {"driver": "redis"}}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			_, err := LoadConfig(writeConfig(t, tt.body))
			require.Error(t, err)
			assert.ErrorIs(t, err, ErrConfiguration)
		})
	}
}

func TestLoadConfig_MissingFile(t *testing.T) {
	t.Parallel()

	_, err := LoadConfig(filepath.Join(t.TempDir(), "nope.json"))
	assert.ErrorIs(t, err, ErrConfiguration)
}

func TestDisplayConfig_ColorValue(t *testing.T) {
	t.Parallel()

	tests := map[string]int{
		"#00ff00": 0x00ff00,
		"#fff":    0xffffff,
		"#1e90ff": 0x1e90ff,
	}
	for in, want := range tests {
		got, err := DisplayConfig{Color: in}.ColorValue()
		require.NoError(t, err, in)
		assert.Equal(t, want, got, in)
	}

	_, err := DisplayConfig{Color: "#zzz"}.ColorValue()
	assert.Error(t, err)
}

func TestValidateTask(t *testing.T) {
	t.Parallel()

	assert.NoError(t, validateTask("a", TaskConfig{}))
	assert.NoError(t, validateTask("a", TaskConfig{Enabled: true, Interval: time.Second}))
	assert.NoError(t, validateTask("a", TaskConfig{Enabled: true, Interval: time.Second, Schedule: "* * * * *"}))
	assert.Error(t, validateTask("a", TaskConfig{Enabled: true}))
	assert.Error(t, validateTask("a", TaskConfig{Enabled: true, Interval: -time.Second}))
}
