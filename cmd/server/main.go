package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"

	"github.com/nikhilv/ai-chat-relay/internal/ai"
	"github.com/nikhilv/ai-chat-relay/internal/config"
	"github.com/nikhilv/ai-chat-relay/internal/logging"
	"github.com/nikhilv/ai-chat-relay/internal/messaging"
	"github.com/nikhilv/ai-chat-relay/internal/relay"
	"github.com/nikhilv/ai-chat-relay/internal/store"
)

func main() {
	cfg := config.Load()
	logger := logging.New(cfg.LogFile)
	defer logger.Sync()
	ctx := context.Background()

	// ── PostgreSQL ────────────────────────────────────────────
	pgPool, err := pgxpool.New(ctx, cfg.PostgresDSN)
	if err != nil {
		logger.Fatal("postgres connect", zap.Error(err))
	}
	defer pgPool.Close()
	pgStore := store.NewPostgresStore(pgPool)
	if err := pgStore.Migrate(ctx); err != nil {
		logger.Fatal("postgres migrate", zap.Error(err))
	}

	// ── Stream Chat ──────────────────────────────────────────
	directory, err := messaging.New(cfg.StreamAPIKey, cfg.StreamAPISecret)
	if err != nil {
		logger.Fatal("stream connect", zap.Error(err))
	}

	// ── Gemini ───────────────────────────────────────────────
	gemini, err := ai.New(ctx, cfg.GeminiAPIKey, cfg.GeminiModel)
	if err != nil {
		logger.Fatal("gemini connect", zap.Error(err))
	}

	// ── Handlers ─────────────────────────────────────────────
	handler := relay.NewHandler(pgStore, pgStore, directory, gemini, logger)

	// ── Router ───────────────────────────────────────────────
	r := chi.NewRouter()
	r.Use(chimw.RequestID)
	r.Use(chimw.RealIP)
	r.Use(chimw.Logger)
	r.Use(chimw.Recoverer)
	r.Use(chimw.Timeout(cfg.RequestTimeout))
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{cfg.AllowedOrigin},
		AllowedMethods:   []string{"POST", "OPTIONS"},
		AllowedHeaders:   []string{"Content-Type"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	// Health check
	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"status":"ok"}`))
	})

	r.Post("/register-user", handler.RegisterUser)
	r.Post("/chat", handler.Chat)
	r.Post("/chat-history", handler.History)

	// ── Server ───────────────────────────────────────────────
	srv := &http.Server{
		Addr:         cfg.BindAddr + ":" + cfg.Port,
		Handler:      r,
		ReadTimeout:  cfg.RequestTimeout,
		WriteTimeout: cfg.RequestTimeout,
	}

	go func() {
		logger.Info("backend listening", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("server error", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("shutting down")
	shutCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()
	srv.Shutdown(shutCtx)
}
