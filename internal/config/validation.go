package config

import (
	"errors"
	"fmt"

	"github.com/go-playground/validator/v10"
)

// Validate checks struct tags, then the rules that span several fields.
func (c *Config) Validate() error {
	if err := validator.New().Struct(c); err != nil {
		return fmt.Errorf("validation failed: %w", err)
	}

	var errs []error

	switch c.Chat.Platform {
	case PlatformDiscord:
		if c.Discord.Token == "" {
			errs = append(errs, errors.New("discord.token is required for the discord platform"))
		}
		if c.Discord.ChannelID == "" {
			errs = append(errs, errors.New("discord.channel_id is required for the discord platform"))
		}
	case PlatformTelegram:
		if c.Telegram.Token == "" {
			errs = append(errs, errors.New("telegram.token is required for the telegram platform"))
		}
		if c.Telegram.ChatID == "" {
			errs = append(errs, errors.New("telegram.chat_id is required for the telegram platform"))
		}
	}

	if _, err := c.Display.ColorValue(); err != nil {
		errs = append(errs, err)
	}

	for name, task := range c.Scheduler.Tasks {
		if err := validateTask(name, task); err != nil {
			errs = append(errs, err)
		}
	}

	return errors.Join(errs...)
}

func validateTask(name string, task TaskConfig) error {
	if !task.Enabled {
		return nil
	}
	switch {
	case task.Schedule != "":
		return nil
	case task.Interval < 0:
		return fmt.Errorf("scheduler task %s: interval must be positive", name)
	case task.Interval == 0 && task.Schedule == "":
		return fmt.Errorf("scheduler task %s: enabled without interval or schedule", name)
	}
	return nil
}
