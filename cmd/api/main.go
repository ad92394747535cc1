package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"github.com/zenstudent/backend/internal/config"
	"github.com/zenstudent/backend/internal/handler"
	profileHandler "github.com/zenstudent/backend/internal/handler/profile"
	"github.com/zenstudent/backend/internal/service/ai"
	"github.com/zenstudent/backend/internal/service/crisis"
	"github.com/zenstudent/backend/internal/service/exercise"
	"github.com/zenstudent/backend/internal/service/mood"
	"github.com/zenstudent/backend/internal/service/notify"
	profileService "github.com/zenstudent/backend/internal/service/profile"
	"github.com/zenstudent/backend/internal/service/reminder"
	"github.com/zenstudent/backend/internal/service/session"
	"github.com/zenstudent/backend/internal/store"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Load .env file
	if err := godotenv.Load(); err != nil {
		log.Printf("warning: failed to load .env file: %v", err)
		log.Println("continuing with system environment variables only")
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load configuration: %v", err)
	}

	kv, cleanup, err := openStore(cfg.Store)
	if err != nil {
		log.Fatalf("failed to open store: %v", err)
	}
	defer cleanup()

	profiles := profileService.NewManager(kv)
	if err := profiles.Load(ctx); err != nil {
		log.Fatalf("failed to load profile: %v", err)
	}

	dispatcher := notify.LogDispatcher{}
	crisisCtrl := crisis.NewController(dispatcher, cfg.Companion.CrisisNoticeTimeout)

	var responder session.Responder = ai.FallbackResponder{}
	if cfg.AI.Enabled() {
		aiResponder, err := ai.NewResponder(ctx, cfg.AI)
		if err != nil {
			log.Printf("warning: failed to initialize AI responder: %v", err)
			log.Println("continuing with static fallback replies")
		} else {
			log.Println("AI responder initialized successfully")
			responder = aiResponder
		}
	} else {
		log.Println("Ark credentials not configured, replies use static fallback")
	}

	coordinator := session.NewCoordinator(kv, responder, crisisCtrl, profiles, cfg.Companion.HistoryWindow)
	if err := coordinator.Load(ctx); err != nil {
		log.Fatalf("failed to load message log: %v", err)
	}

	ledger := mood.NewLedger(kv, cfg.Companion.MoodCapacity, cfg.Companion.MoodMinScore, cfg.Companion.MoodMaxScore)
	if err := ledger.Load(ctx); err != nil {
		log.Fatalf("failed to load mood ledger: %v", err)
	}

	exercises := exercise.NewManager(exercise.NewSequencer(time.Second))
	defer exercises.Stop()

	var rescheduler profileHandler.Rescheduler
	if cfg.Companion.ReminderEnabled {
		scheduler := reminder.NewScheduler(profiles, dispatcher)
		if err := scheduler.Start(); err != nil {
			log.Printf("warning: failed to start check-in reminder: %v", err)
		} else {
			log.Println("Check-in reminder scheduled")
			rescheduler = scheduler
			defer scheduler.Stop()
		}
	} else {
		log.Println("Check-in reminder disabled by configuration")
	}

	router := handler.NewRouter(coordinator, ledger, profiles, crisisCtrl, exercises, rescheduler)

	startServer(ctx, cfg.Server, router)
}

func openStore(cfg config.StoreConfig) (store.KV, func(), error) {
	if cfg.SQLitePath == "" {
		log.Println("ZEN_SQLITE_PATH not set, state is kept in memory only")
		return store.NewMemoryStore(), func() {}, nil
	}

	sqliteStore, err := store.NewSQLiteStore(cfg.SQLitePath)
	if err != nil {
		return nil, nil, err
	}
	log.Printf("SQLite store opened at %s", cfg.SQLitePath)
	return sqliteStore, func() { _ = sqliteStore.Close() }, nil
}

func startServer(ctx context.Context, serverCfg config.ServerConfig, router http.Handler) {
	addr := serverCfg.Addr
	srv := &http.Server{
		Addr:              addr,
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
		IdleTimeout:       120 * time.Second,
	}

	log.Printf("ZenStudent backend listening on %s", addr)
	if err := runServer(ctx, srv); err != nil {
		log.Fatalf("server error: %v", err)
	}
}

func runServer(ctx context.Context, srv *http.Server) error {
	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.ListenAndServe()
	}()

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		_ = srv.Shutdown(shutdownCtx)
		err := <-errCh
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	}
}
