// Package config loads, defaults and validates the bot configuration.
// Values come from a JSON (or YAML/TOML) file, overridden by ARMASTATUS_*
// environment variables.
package config

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/viper"

	"github.com/edgard/armastatus/internal/domain/model"
)

// ErrConfiguration marks every error returned by LoadConfig.
var ErrConfiguration = errors.New("configuration error")

// Config is the full application configuration.
type Config struct {
	Logger        LoggerConfig         `mapstructure:"logger"`
	Chat          ChatConfig           `mapstructure:"chat"`
	Discord       DiscordConfig        `mapstructure:"discord"`
	Telegram      TelegramConfig       `mapstructure:"telegram"`
	Server        ServerConfig         `mapstructure:"server"`
	Display       DisplayConfig        `mapstructure:"display"`
	Organizations []OrganizationConfig `mapstructure:"organizations" validate:"dive"`
	State         StateConfig          `mapstructure:"state"`
	Scheduler     SchedulerConfig      `mapstructure:"scheduler"`
}

type LoggerConfig struct {
	Level string `mapstructure:"level" validate:"oneof=debug info warn error"`
	JSON  bool   `mapstructure:"json"`
}

type ChatConfig struct {
	Platform string `mapstructure:"platform" validate:"oneof=discord telegram"`
}

type DiscordConfig struct {
	Token     string `mapstructure:"token"`
	ChannelID string `mapstructure:"channel_id"`
}

type TelegramConfig struct {
	Token  string `mapstructure:"token"`
	ChatID string `mapstructure:"chat_id"`
}

// ServerConfig locates the game server. QueryPort is the Steam query port,
// GamePort the port players connect to.
type ServerConfig struct {
	Address      string        `mapstructure:"address"       validate:"required"`
	GamePort     int           `mapstructure:"game_port"     validate:"required,min=1,max=65535"`
	QueryPort    int           `mapstructure:"query_port"    validate:"min=1,max=65535"`
	QueryTimeout time.Duration `mapstructure:"query_timeout" validate:"min=100ms,max=1m"`
}

type DisplayConfig struct {
	AuthorName      string       `mapstructure:"author_name"`
	AuthorAvatarURL string       `mapstructure:"author_avatar_url" validate:"omitempty,url"`
	ContactAddress  string       `mapstructure:"contact_address"`
	Title           string       `mapstructure:"title"`
	Color           string       `mapstructure:"color"             validate:"hexcolor"`
	Labels          LabelsConfig `mapstructure:"labels"`
}

// LabelsConfig holds the captions and status words shown on the card.
type LabelsConfig struct {
	ServerName string `mapstructure:"server_name"`
	Connect    string `mapstructure:"connect"`
	Contact    string `mapstructure:"contact"`
	Status     string `mapstructure:"status"`
	Players    string `mapstructure:"players"`
	Map        string `mapstructure:"map"`
	Online     string `mapstructure:"online"`
	Offline    string `mapstructure:"offline"`
	Unknown    string `mapstructure:"unknown"`
}

// OrganizationConfig maps a name tag to a roster section. AnsiColor is the
// key older config files use for Color; Color wins when both are set.
type OrganizationConfig struct {
	Tag       string `mapstructure:"tag"       validate:"required"`
	Name      string `mapstructure:"name"      validate:"required"`
	Priority  int    `mapstructure:"priority"`
	Color     string `mapstructure:"color"`
	AnsiColor string `mapstructure:"ansicolor"`
}

type StateConfig struct {
	Driver string `mapstructure:"driver" validate:"oneof=file sqlite"`
	Path   string `mapstructure:"path"`
	Key    string `mapstructure:"key"    validate:"required"`
}

type SchedulerConfig struct {
	SingleFlight bool                  `mapstructure:"single_flight"`
	Tasks        map[string]TaskConfig `mapstructure:"tasks"`
}

// TaskConfig schedules one task on a cron Schedule or, when Schedule is
// empty, every Interval.
type TaskConfig struct {
	Enabled  bool          `mapstructure:"enabled"`
	Interval time.Duration `mapstructure:"interval"`
	Schedule string        `mapstructure:"schedule"`
}

// LoadConfig reads the file at path, applies defaults and environment
// overrides, and validates the result.
func LoadConfig(path string) (*Config, error) {
	v := viper.New()
	setDefaults(v)

	v.SetConfigFile(path)
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("%w: failed to read config file %s: %w", ErrConfiguration, path, err)
	}

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("%w: failed to parse config: %w", ErrConfiguration, err)
	}

	applyDerivedDefaults(cfg)

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrConfiguration, err)
	}

	return cfg, nil
}

// ColorValue returns Display.Color as a 0xRRGGBB integer.
func (c DisplayConfig) ColorValue() (int, error) {
	hex := strings.TrimPrefix(c.Color, "#")
	if len(hex) == 3 {
		hex = string([]byte{hex[0], hex[0], hex[1], hex[1], hex[2], hex[2]})
	}
	n, err := strconv.ParseInt(hex, 16, 32)
	if err != nil {
		return 0, fmt.Errorf("invalid display color %q: %w", c.Color, err)
	}
	return int(n), nil
}

// Mappings converts the organization list, preserving order.
func (c *Config) Mappings() []model.OrgMapping {
	out := make([]model.OrgMapping, 0, len(c.Organizations))
	for _, o := range c.Organizations {
		color := o.Color
		if color == "" {
			color = o.AnsiColor
		}
		out = append(out, model.OrgMapping{Tag: o.Tag, Name: o.Name, Priority: o.Priority, Color: color})
	}
	return out
}

// ChannelID returns the destination of the status message for the
// configured platform.
func (c *Config) ChannelID() string {
	if c.Chat.Platform == PlatformTelegram {
		return c.Telegram.ChatID
	}
	return c.Discord.ChannelID
}
