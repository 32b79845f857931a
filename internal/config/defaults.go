package config

import (
	"time"

	"github.com/spf13/viper"

	"github.com/edgard/armastatus/internal/embed"
)

// EnvPrefix is the prefix of environment overrides, e.g.
// ARMASTATUS_DISCORD_TOKEN.
const EnvPrefix = "ARMASTATUS"

const (
	PlatformDiscord  = "discord"
	PlatformTelegram = "telegram"

	DefaultFileStatePath   = "serverMessageId.txt"
	DefaultSQLiteStatePath = "armastatus.db"

	// Arma 3 answers Steam queries on the game port + 1.
	queryPortOffset = 1
)

// Task names known to the scheduler.
const (
	TaskStatusRefresh  = "status_refresh"
	TaskSQLMaintenance = "sql_maintenance"
)

func setDefaults(v *viper.Viper) {
	labels := embed.DefaultLabels()

	v.SetDefault("logger.level", "info")
	v.SetDefault("logger.json", false)

	v.SetDefault("chat.platform", PlatformDiscord)

	// Registered so that AutomaticEnv can fill them.
	v.SetDefault("discord.token", "")
	v.SetDefault("discord.channel_id", "")
	v.SetDefault("telegram.token", "")
	v.SetDefault("telegram.chat_id", "")
	v.SetDefault("server.address", "")
	v.SetDefault("server.game_port", 0)
	v.SetDefault("server.query_port", 0)

	v.SetDefault("server.query_timeout", 5*time.Second)

	v.SetDefault("display.author_name", labels.Unknown)
	v.SetDefault("display.author_avatar_url", "")
	v.SetDefault("display.contact_address", "")
	v.SetDefault("display.title", "General information")
	v.SetDefault("display.color", "#00ff00")
	v.SetDefault("display.labels.server_name", labels.ServerName)
	v.SetDefault("display.labels.connect", labels.Connect)
	v.SetDefault("display.labels.contact", labels.Contact)
	v.SetDefault("display.labels.status", labels.Status)
	v.SetDefault("display.labels.players", labels.Players)
	v.SetDefault("display.labels.map", labels.Map)
	v.SetDefault("display.labels.online", labels.Online)
	v.SetDefault("display.labels.offline", labels.Offline)
	v.SetDefault("display.labels.unknown", labels.Unknown)

	v.SetDefault("state.driver", "file")
	v.SetDefault("state.path", "")
	v.SetDefault("state.key", "status")

	v.SetDefault("scheduler.single_flight", true)
	v.SetDefault("scheduler.tasks."+TaskStatusRefresh+".enabled", true)
	v.SetDefault("scheduler.tasks."+TaskStatusRefresh+".interval", 20*time.Second)
	v.SetDefault("scheduler.tasks."+TaskSQLMaintenance+".enabled", true)
	v.SetDefault("scheduler.tasks."+TaskSQLMaintenance+".schedule", "0 4 * * *")
}

// applyDerivedDefaults fills values whose default depends on other values.
func applyDerivedDefaults(cfg *Config) {
	if cfg.Server.QueryPort == 0 && cfg.Server.GamePort > 0 {
		cfg.Server.QueryPort = cfg.Server.GamePort + queryPortOffset
	}
	if cfg.State.Path == "" {
		cfg.State.Path = DefaultFileStatePath
		if cfg.State.Driver == "sqlite" {
			cfg.State.Path = DefaultSQLiteStatePath
		}
	}
}
