package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/rs/zerolog/log"

	"github.com/jmokaya/mindscreen/internal/api/handler"
	customMiddleware "github.com/jmokaya/mindscreen/internal/api/middleware"
	"github.com/jmokaya/mindscreen/internal/config"
	"github.com/jmokaya/mindscreen/internal/repository/redis"
	"github.com/jmokaya/mindscreen/internal/service"
	"github.com/jmokaya/mindscreen/internal/session"
)

// NewRouter creates and configures the HTTP router
func NewRouter(
	cfg *config.Config,
	conversationService *service.ConversationService,
	store *session.Store,
	redisClient *redis.Client,
) http.Handler {
	r := chi.NewRouter()

	// Global middleware
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(customMiddleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(cfg.Server.MiddlewareTimeout))

	// CORS
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"*"},
		AllowedMethods:   []string{"GET", "POST", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Content-Type"},
		ExposedHeaders:   []string{"X-Request-ID"},
		AllowCredentials: false,
		MaxAge:           300,
	}))

	sessionHandler := handler.NewSessionHandler(conversationService)
	messageHandler := handler.NewMessageHandler(conversationService)

	r.Route("/api/v1", func(r chi.Router) {
		r.Get("/health", handler.HealthCheck)
		r.Get("/stats", handler.Stats(store))

		r.Group(func(r chi.Router) {
			if redisClient != nil {
				rateLimiter := redis.NewRateLimiter(
					redisClient,
					cfg.RateLimit.RequestsPerMinute,
					cfg.RateLimit.Burst,
				)
				r.Use(customMiddleware.NewRateLimitMiddleware(rateLimiter).Limit)
				log.Info().
					Int("requests_per_minute", cfg.RateLimit.RequestsPerMinute).
					Msg("rate limiting enabled")
			}

			r.Route("/sessions", func(r chi.Router) {
				r.Post("/", sessionHandler.Create)

				r.Route("/{sessionID}", func(r chi.Router) {
					r.Get("/", sessionHandler.Get)
					r.Delete("/", sessionHandler.Delete)
					r.Get("/history", sessionHandler.History)
					r.Post("/messages", messageHandler.Send)
					r.Post("/reset", sessionHandler.Reset)
				})
			})
		})
	})

	return r
}
