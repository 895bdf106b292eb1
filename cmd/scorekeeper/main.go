package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/jonboulle/clockwork"
	"github.com/joho/godotenv"
	"github.com/omarshaarawi/scorekeeper/internal/api/espn"
	"github.com/omarshaarawi/scorekeeper/internal/api/mlb"
	"github.com/omarshaarawi/scorekeeper/internal/bot"
	"github.com/omarshaarawi/scorekeeper/internal/config"
	"github.com/omarshaarawi/scorekeeper/internal/repository"
	"github.com/omarshaarawi/scorekeeper/internal/repository/badgerdb"
	"github.com/omarshaarawi/scorekeeper/internal/repository/memory"
	"github.com/omarshaarawi/scorekeeper/internal/resolver"
	"github.com/omarshaarawi/scorekeeper/internal/scheduler"
	"github.com/omarshaarawi/scorekeeper/internal/service"
)

func main() {
	if err := run(); err != nil {
		slog.Error("Error running application", "error", err)
		os.Exit(1)
	}
}

func run() error {
	if err := godotenv.Load(); err != nil {
		slog.Error("Error loading .env file", "error", err)
	}

	cfg, err := config.New()
	if err != nil {
		return err
	}
	location, err := cfg.Schedule.Location()
	if err != nil {
		return err
	}

	store, closeStore, err := openStore(cfg.Storage)
	if err != nil {
		return err
	}
	defer func() {
		if err := closeStore(); err != nil {
			slog.Error("Error closing store", "error", err)
		}
	}()

	espnAPI := espn.NewAPI(espn.NewClient(cfg.ESPNAPI))
	mlbClient := mlb.NewClient(cfg.MLBAPI)

	clock := clockwork.NewRealClock()
	calendar := resolver.Calendar{Clock: clock, Location: location, CutoffHour: cfg.Schedule.CutoffHour}
	logger := slog.Default()

	favorites := service.NewFavoritesService(
		store,
		resolver.NewSoccer(espnAPI, calendar, logger),
		resolver.NewTeamPage(espnAPI, mlbClient, calendar, logger),
		service.Options{Key: cfg.Storage.Key, Clock: clock, Logger: logger},
	)
	defer favorites.Wait()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	loaded := favorites.Load(ctx)
	slog.Info("Loaded favorites", "count", len(loaded), "backend", cfg.Storage.Backend)

	telegramBot, err := bot.NewTelegramBot(cfg.TelegramBot.Token, cfg.TelegramBot.ChatID, favorites)
	if err != nil {
		return err
	}

	var notify func(string) error
	if cfg.TelegramBot.ChatID != 0 {
		notify = telegramBot.SendMessage
	}
	sched, err := scheduler.NewScheduler(favorites, notify, cfg.Schedule.RefreshCron, location)
	if err != nil {
		return err
	}

	if err := sched.Start(); err != nil {
		return err
	}
	defer func() {
		err := sched.Stop()
		if err != nil {
			slog.Error("Error stopping scheduler", "error", err)
		}
	}()

	http.HandleFunc("/", healthCheckHandler)

	go func() {
		if err := http.ListenAndServe(":80", nil); err != nil {
			slog.Error("Error starting HTTP server", "error", err)
		}
	}()

	botDone := goJoined("telegram bot", func() error { return telegramBot.Start(ctx) })

	<-ctx.Done()
	slog.Info("Shutting down gracefully...")

	// the bot may still be handling a command; it must finish before the
	// deferred Wait and store close run
	<-botDone
	return nil
}

// goJoined runs fn on its own goroutine. The returned channel is closed once
// fn has returned.
func goJoined(name string, fn func() error) <-chan struct{} {
	done := make(chan struct{})
	go func() {
		defer close(done)
		if err := fn(); err != nil {
			slog.Error("Error running "+name, "error", err)
		}
	}()
	return done
}

func openStore(cfg config.Storage) (repository.Store, func() error, error) {
	switch cfg.Backend {
	case config.BackendMemory:
		return memory.NewRepository(), func() error { return nil }, nil
	case config.BackendBadger:
		db, err := badgerdb.Open(cfg.Path)
		if err != nil {
			return nil, nil, err
		}
		return db, db.Close, nil
	default:
		return nil, nil, fmt.Errorf("unknown storage backend %q", cfg.Backend)
	}
}

func healthCheckHandler(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
}
