// The genai service delivers AI-generated feedback and chat replies based on
// users' weekly self-reflection reports.
package main

import (
	"context"
	"database/sql"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	_ "github.com/lib/pq"

	"github.com/opsontherocks/genai-service/internal/auth"
	"github.com/opsontherocks/genai-service/internal/config"
	"github.com/opsontherocks/genai-service/internal/llm"
	"github.com/opsontherocks/genai-service/internal/logging"
	"github.com/opsontherocks/genai-service/internal/server"
	"github.com/opsontherocks/genai-service/internal/storage/postgres"
)

func main() {
	// Local development reads a .env file; in deployment the environment is
	// injected by the platform and the file is absent.
	_ = godotenv.Load()

	cfg := config.FromEnv()
	log := logging.New(cfg.LogLevel, cfg.LogFormat)

	if err := cfg.Validate(); err != nil {
		log.WithError(err).Fatal("invalid configuration")
	}

	db, err := openDatabase(cfg.DatabaseURL)
	if err != nil {
		log.WithError(err).Fatal("failed to connect to database")
	}
	defer db.Close()

	completer, err := llm.New(llm.Config{
		BaseURL: cfg.OpenAIBaseURL,
		APIKey:  cfg.OpenAIAPIKey,
	})
	if err != nil {
		log.WithError(err).Fatal("failed to create completion client")
	}

	store := postgres.New(db)
	verifier := auth.NewVerifier(cfg.JWTSecret, log)
	handler := server.NewHandler(log, store, completer, server.Models{
		Chat:     cfg.ChatModel,
		Feedback: cfg.FeedbackModel,
	})

	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Port),
		Handler:      handler.Router(verifier, cfg.AllowedOrigins, log),
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 90 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Infof("genai service listening on %s", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- err
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-errCh:
		log.WithError(err).Fatal("server failed")
	case sig := <-stop:
		log.Infof("received %s, shutting down", sig)
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.WithError(err).Warn("graceful shutdown failed")
	}
}

func openDatabase(dsn string) (*sql.DB, error) {
	db, err := sql.Open("postgres", dsn)
	if err != nil {
		return nil, err
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, err
	}

	return db, nil
}
