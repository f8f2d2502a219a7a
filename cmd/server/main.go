package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/jmokaya/mindscreen/internal/api"
	"github.com/jmokaya/mindscreen/internal/config"
	"github.com/jmokaya/mindscreen/internal/domain"
	"github.com/jmokaya/mindscreen/internal/llm"
	"github.com/jmokaya/mindscreen/internal/llm/gemini"
	"github.com/jmokaya/mindscreen/internal/repository/redis"
	"github.com/jmokaya/mindscreen/internal/resources"
	"github.com/jmokaya/mindscreen/internal/safety"
	"github.com/jmokaya/mindscreen/internal/service"
	"github.com/jmokaya/mindscreen/internal/session"
)

func main() {
	// Load .env file - try multiple locations
	envPaths := []string{".env", "../.env", "../../.env"}
	for _, p := range envPaths {
		if err := godotenv.Load(p); err == nil {
			break
		}
	}

	// Setup logger
	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix
	if os.Getenv("ENV") != "production" {
		log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})
	}

	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to load configuration")
	}
	if level, err := zerolog.ParseLevel(cfg.Logging.Level); err == nil {
		zerolog.SetGlobalLevel(level)
	}

	log.Info().
		Str("host", cfg.Server.Host).
		Int("port", cfg.Server.Port).
		Msg("Starting screening conversation server")

	// Session store with background reaper
	store := session.NewStore(
		session.WithTTL(cfg.Session.Timeout),
		session.WithMaxSessions(cfg.Session.MaxSessions),
		session.WithReapInterval(cfg.Session.ReapInterval),
	)

	// Safety classifier
	monitor := safety.NewMonitor(
		safety.WithExtraTriggers(cfg.Safety.ExtraTriggers),
		safety.WithExtraWarnings(cfg.Safety.ExtraWarnings),
		safety.WithNegationMaxLen(cfg.Safety.IdeationNegationMaxLen),
	)

	// Collaborator: Gemini when configured, fallback-only otherwise
	fallback := llm.NewFallback()
	var collaborator domain.Collaborator
	if cfg.LLM.Gemini.APIKey != "" {
		provider := gemini.NewProvider(cfg.LLM.Gemini)
		collaborator = provider
		log.Info().Str("model", provider.DefaultModel()).Msg("Gemini collaborator registered")
	} else {
		log.Warn().Msg("GEMINI_API_KEY is empty, running with local fallback only")
	}

	// Emergency resources
	crisisResources := resources.NewManager(cfg.Resources.ConfigPath)

	conversationService := service.NewConversationService(
		store,
		monitor,
		collaborator,
		fallback,
		crisisResources,
		cfg.LLM.Timeout,
	)

	// Optional Redis for rate limiting
	var redisClient *redis.Client
	if cfg.Redis.Enabled {
		redisClient, err = redis.NewClient(cfg.Redis)
		if err != nil {
			log.Fatal().Err(err).Msg("Failed to connect to Redis")
		}
		defer redisClient.Close()
	}

	router := api.NewRouter(cfg, conversationService, store, redisClient)

	server := &http.Server{
		Addr:         fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port),
		Handler:      router,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	// Start server in goroutine
	go func() {
		log.Info().Msgf("Server listening on %s", server.Addr)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("Server failed")
		}
	}()

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("Shutting down server...")

	shutdownTimeout := cfg.Server.ShutdownTimeout
	if shutdownTimeout <= 0 {
		shutdownTimeout = 15 * time.Second
	}
	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		log.Error().Err(err).Msg("Server forced to shutdown")
	}

	// Stop the reaper and clear sessions synchronously.
	conversationService.Shutdown()

	log.Info().Msg("Server stopped")
}
