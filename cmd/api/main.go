package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-co-op/gocron/v2"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/xelth-com/swiftlog/internal/ai"
	"github.com/xelth-com/swiftlog/internal/config"
	"github.com/xelth-com/swiftlog/internal/database"
	"github.com/xelth-com/swiftlog/internal/handlers"
	"github.com/xelth-com/swiftlog/internal/notify"
	"github.com/xelth-com/swiftlog/internal/services/logistics"
	"github.com/xelth-com/swiftlog/internal/store"
	"github.com/xelth-com/swiftlog/internal/websocket"
)

func main() {
	// 1. Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to load configuration")
	}
	if cfg.IsDevelopment() {
		log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.Kitchen})
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// 2. Initialize database (Detects Embedded vs External automatically)
	db, err := database.Connect(cfg.Database)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to connect to database")
	}
	// Note: db.Close() is called manually in the shutdown sequence below

	// 3. Auto-Migrate Schema
	log.Info().Msg("🚀 Synchronizing database schema...")
	if err := db.Migrate(); err != nil {
		log.Warn().Err(err).Msg("⚠️  Migration warning")
	} else {
		log.Info().Msg("✅ Schema synchronized successfully")
	}

	// 4. Live updates and optional integrations
	hub := websocket.NewHub()
	go hub.Run(ctx)

	opts := logistics.Options{
		DefaultBranch:   cfg.DefaultBranch,
		Location:        cfg.Location,
		WhatsAppBaseURL: cfg.Notify.WhatsAppBaseURL,
		Publisher:       hub,
	}
	if cfg.Notify.TelegramToken != "" {
		tg, err := notify.NewTelegramNotifier(cfg.Notify.TelegramToken, cfg.Notify.TelegramChatID)
		if err != nil {
			log.Warn().Err(err).Msg("⚠️  Telegram: disabled")
		} else {
			opts.Sender = tg
			log.Info().Msg("✅ Telegram: operations chat connected")
		}
	}

	deps := handlers.Deps{Hub: hub, JWTSecret: cfg.JWTSecret, Ping: db.Ping}
	if cfg.AI.GeminiAPIKey != "" {
		gemini, err := ai.NewGeminiClient(ctx, cfg.AI.GeminiAPIKey, cfg.AI.GeminiModel)
		if err != nil {
			log.Warn().Err(err).Msg("⚠️  AI: disabled")
		} else {
			defer gemini.Close()
			deps.Extractor = gemini
			deps.Assistant = gemini
			log.Info().Str("model", cfg.AI.GeminiModel).Msg("✅ AI: Gemini client ready")
		}
	} else {
		log.Info().Msg("ℹ️  AI: GEMINI_API_KEY not set, extraction endpoints disabled")
	}

	// 5. Load dashboard state
	svc := logistics.NewService(store.NewGormStore(db.DB), opts)
	if err := svc.Load(ctx); err != nil {
		db.Close()
		log.Fatal().Err(err).Msg("Failed to load dashboard state")
	}
	deps.Service = svc

	// 6. Periodic reload so writes by other operators show up
	scheduler, err := gocron.NewScheduler()
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to create scheduler")
	}
	_, err = scheduler.NewJob(
		gocron.DurationJob(cfg.Scheduler.ReloadInterval),
		gocron.NewTask(func() {
			if err := svc.Reload(ctx); err != nil {
				log.Error().Err(err).Msg("❌ Scheduled reload failed")
			}
		}),
		gocron.WithSingletonMode(gocron.LimitModeReschedule),
	)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to schedule reload")
	}
	scheduler.Start()
	log.Info().Dur("interval", cfg.Scheduler.ReloadInterval).Msg("⏰ Reload scheduler started")

	// 7. Start server with graceful shutdown
	router := handlers.NewRouter(deps)
	server := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		log.Info().Str("port", cfg.Port).Str("env", cfg.NodeEnv).Msg("🚀 SwiftLog server starting")
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("Failed to start server")
		}
	}()

	<-ctx.Done()
	log.Warn().Msg("⚠️  Shutdown signal received, shutting down gracefully...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("HTTP server shutdown error")
	}
	if err := scheduler.Shutdown(); err != nil {
		log.Error().Err(err).Msg("Scheduler shutdown error")
	}

	// Close database (this also stops embedded PostgreSQL)
	log.Info().Msg("🛑 Closing database connection...")
	if err := db.Close(); err != nil {
		log.Error().Err(err).Msg("Database close error")
	}

	log.Info().Msg("✅ Shutdown complete")
}
