// Package main contains the entrypoint for the chat bot application.
package main

import (
	"context"
	"errors"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/ostuni/ripbot/internal/bot"
	"github.com/ostuni/ripbot/internal/config"
	"github.com/ostuni/ripbot/internal/database"
	"github.com/ostuni/ripbot/internal/handlers"
	"github.com/ostuni/ripbot/internal/logger"
	"github.com/ostuni/ripbot/internal/matcher"
	"github.com/ostuni/ripbot/internal/moderation"
	"github.com/ostuni/ripbot/internal/opgg"
	"github.com/ostuni/ripbot/internal/render"
	"github.com/ostuni/ripbot/internal/throttle"
	"github.com/ostuni/ripbot/internal/twitch"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	exitCode := run(ctx)
	stop()
	os.Exit(exitCode)
}

// run initializes and starts all application components, handles graceful
// shutdown, and returns an exit code (0 for success, 1 for failure).
func run(ctx context.Context) int {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("Failed to load configuration", "error", err)
		return 1
	}

	log := logger.NewLogger(cfg.Log.Level, cfg.Log.Format)
	log.Info("Logger initialized", "level", cfg.Log.Level, "format", cfg.Log.Format)

	db, err := database.NewDB(cfg.Database.Path)
	if err != nil {
		log.Error("Failed to connect to database", "path", cfg.Database.Path, "error", err)
		return 1
	}
	defer database.CloseDB(db)
	store := database.NewStore(db, log)

	helixClient, err := twitch.NewHelix(twitch.HelixConfig{
		ClientID:      cfg.Twitch.ClientID,
		ClientSecret:  cfg.Twitch.ClientSecret,
		AccessToken:   cfg.Twitch.AccessToken,
		RefreshToken:  cfg.Twitch.RefreshToken,
		BroadcasterID: cfg.Twitch.BroadcasterID,
		BotUserID:     cfg.Twitch.BotUserID,
	}, log)
	if err != nil {
		log.Error("Failed to create helix client", "error", err)
		return 1
	}

	chat := twitch.NewChat(cfg.Twitch.BotLogin, cfg.Twitch.AccessToken, cfg.Twitch.Channel, log)

	deps := handlers.Deps{
		Matcher:     matcher.New(store, log),
		Renderer:    render.New(cfg.Location()),
		Throttle:    throttle.New(cfg.Throttle.Window),
		Sender:      chat,
		Predictions: helixClient,
		Summoners:   opgg.NewClient(cfg.OpGG.BaseURL, log),
		Champions:   store,
		Logger:      log,
	}

	var moderator handlers.Moderator
	if cfg.Moderation.Enabled {
		moderator = moderation.NewFilter(helixClient, helixClient,
			cfg.Moderation.MaxEmoji, cfg.Moderation.MaxNonASCIIPct, log)
	}

	router := handlers.NewRouter(moderator, []handlers.Handler{
		handlers.NewNpc(deps),
		handlers.NewGamba(deps),
		handlers.NewGg(deps),
		handlers.NewSniffa(deps),
		handlers.NewTheGrind(deps),
	}, log)

	sched, err := bot.NewScheduler(log)
	if err != nil {
		log.Error("Failed to create scheduler", "error", err)
		return 1
	}
	sched.AddTask("validate_credentials", time.Hour, helixClient.ValidateCredentials)

	app := bot.NewBot(log, db, chat, router, sched)

	log.Info("Starting bot...")
	runErr := app.Run(ctx)
	log.Info("Bot run loop finished. Initiating shutdown...")

	if runErr != nil && !errors.Is(runErr, context.Canceled) {
		log.Error("Bot stopped due to error", "error", runErr)
		time.Sleep(time.Second)
		return 1
	}

	log.Info("Bot stopped gracefully.")
	time.Sleep(time.Second)
	return 0
}
