// Package main contains the entrypoint for the Arma 3 server status bot.
package main

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/pflag"

	"github.com/edgard/armastatus/internal/bot"
	"github.com/edgard/armastatus/internal/bot/tasks"
	"github.com/edgard/armastatus/internal/chat"
	"github.com/edgard/armastatus/internal/chat/discord"
	"github.com/edgard/armastatus/internal/chat/telegram"
	"github.com/edgard/armastatus/internal/config"
	"github.com/edgard/armastatus/internal/embed"
	"github.com/edgard/armastatus/internal/logger"
	"github.com/edgard/armastatus/internal/query"
	"github.com/edgard/armastatus/internal/state"
	"github.com/edgard/armastatus/internal/tracker"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	exitCode := run(ctx)
	stop()
	os.Exit(exitCode)
}

// publisher is a chat client that can both hold a connection and publish.
type publisher interface {
	chat.Publisher
	chat.Connection
}

// run wires config, logger, state, query, chat and scheduler together and
// blocks until ctx is cancelled. It returns the process exit code.
func run(ctx context.Context) int {
	configPath := pflag.StringP("config", "c", "./config.json", "Path to configuration file")
	pflag.Parse()

	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		slog.Error("Failed to load .env file", "error", err)
		return 1
	}

	cfg, err := config.LoadConfig(*configPath)
	if err != nil {
		slog.Error("Failed to load configuration", "path", *configPath, "error", err)
		return 1
	}

	log := logger.NewLogger(cfg.Logger.Level, cfg.Logger.JSON)
	log.Info("Logger initialized", "level", cfg.Logger.Level, "json", cfg.Logger.JSON)

	store, closeStore, err := state.Open(state.Options{
		Driver:    cfg.State.Driver,
		Path:      cfg.State.Path,
		Key:       cfg.State.Key,
		ChannelID: cfg.ChannelID(),
	}, log)
	if err != nil {
		log.Error("Failed to open state store", "driver", cfg.State.Driver, "path", cfg.State.Path, "error", err)
		return 1
	}
	defer closeStore()

	pub, err := newPublisher(cfg, log)
	if err != nil {
		log.Error("Failed to create chat publisher", "platform", cfg.Chat.Platform, "error", err)
		return 1
	}

	displayOpts, err := displayOptions(cfg)
	if err != nil {
		log.Error("Invalid display configuration", "error", err)
		return 1
	}

	querier := query.NewQuerier(query.Target{
		Host:      cfg.Server.Address,
		GamePort:  cfg.Server.GamePort,
		QueryPort: cfg.Server.QueryPort,
	}, cfg.Server.QueryTimeout, log)

	trk := tracker.New(querier, pub, store, tracker.Options{
		Mappings: cfg.Mappings(),
		Display:  displayOpts,
	}, log)

	taskMap := tasks.RegisterAllTasks(tasks.TaskDeps{
		Logger:  log,
		Tracker: trk,
		Store:   store,
	})
	sched, err := bot.NewScheduler(log, &cfg.Scheduler, taskMap)
	if err != nil {
		log.Error("Failed to create scheduler", "error", err)
		return 1
	}

	app := bot.NewBot(log, pub, trk, sched)

	log.Info("Starting bot...", "platform", cfg.Chat.Platform, "server", cfg.Server.Address, "query_port", cfg.Server.QueryPort)
	runErr := app.Run(ctx)
	log.Info("Bot run loop finished. Initiating shutdown...")

	if runErr != nil && !errors.Is(runErr, context.Canceled) {
		log.Error("Bot stopped due to error", "error", runErr)
		// Allow logs to flush before exiting on error
		time.Sleep(time.Second)
		return 1
	}

	log.Info("Bot stopped gracefully.")
	return 0
}

func newPublisher(cfg *config.Config, log *slog.Logger) (publisher, error) {
	switch cfg.Chat.Platform {
	case config.PlatformDiscord:
		p, err := discord.NewPublisher(cfg.Discord.Token, cfg.Discord.ChannelID, log)
		if err != nil {
			return nil, err
		}
		return p, nil
	case config.PlatformTelegram:
		p, err := telegram.NewPublisher(cfg.Telegram.Token, cfg.Telegram.ChatID, log)
		if err != nil {
			return nil, err
		}
		return p, nil
	default:
		return nil, fmt.Errorf("unsupported chat platform %q", cfg.Chat.Platform)
	}
}

func displayOptions(cfg *config.Config) (embed.Options, error) {
	color, err := cfg.Display.ColorValue()
	if err != nil {
		return embed.Options{}, err
	}
	l := cfg.Display.Labels
	return embed.Options{
		AuthorName:     cfg.Display.AuthorName,
		AuthorIconURL:  cfg.Display.AuthorAvatarURL,
		ContactAddress: cfg.Display.ContactAddress,
		Title:          cfg.Display.Title,
		Color:          color,
		Labels: embed.Labels{
			ServerName: l.ServerName,
			Connect:    l.Connect,
			Contact:    l.Contact,
			Status:     l.Status,
			Players:    l.Players,
			Map:        l.Map,
			Online:     l.Online,
			Offline:    l.Offline,
			Unknown:    l.Unknown,
		},
	}, nil
}
