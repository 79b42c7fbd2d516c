package main

import (
	"context"
	"encoding/json"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/openai/openai-go"
	"github.com/openai/openai-go/option"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/hireloop/interview-core-go/internal/analyzer"
	"github.com/hireloop/interview-core-go/internal/config"
	"github.com/hireloop/interview-core-go/internal/database"
	"github.com/hireloop/interview-core-go/internal/handler"
	"github.com/hireloop/interview-core-go/internal/middleware"
	"github.com/hireloop/interview-core-go/internal/redisclient"
	"github.com/hireloop/interview-core-go/internal/repository"
	"github.com/hireloop/interview-core-go/internal/service"
	"github.com/hireloop/interview-core-go/internal/stream"
	"github.com/hireloop/interview-core-go/internal/transport"
)

func main() {
	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})

	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load config")
	}
	if err := cfg.Validate(); err != nil {
		log.Fatal().Err(err).Msg("invalid config")
	}

	setLogLevel(cfg.LogLevel)

	db, err := database.Connect(cfg.DatabaseURL)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to database")
	}
	defer db.Close()

	ctx, cancel := context.WithTimeout(context.Background(), config.DBPingTimeout)
	if err := db.Ping(ctx); err != nil {
		log.Fatal().Err(err).Msg("failed to ping database")
	}
	cancel()
	log.Info().Msg("database connected")

	redisClient, err := redisclient.NewClient(cfg.RedisURL)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to redis")
	}
	defer redisClient.Close()
	log.Info().Msg("redis connected")

	sessionRepo := repository.NewSessionRepository(db.DB)
	participantRepo := repository.NewParticipantRepository(db.DB)
	membershipRepo := repository.NewMembershipRepository(db.DB)
	suggestionRepo := repository.NewSuggestionRepository(db.DB)
	skillRepo := repository.NewSkillEvaluationRepository(db.DB)

	minter := transport.NewTokenMinter(cfg.TransportAPIKey, cfg.TransportAPISecret, cfg.CredentialTTL())
	provider := transport.NewClient(cfg.TransportUSEastURL, cfg.TransportAPSouthURL, minter)

	openaiClient := openai.NewClient(option.WithAPIKey(cfg.OpenAIAPIKey))
	suggestionAnalyzer := analyzer.NewOpenAI(&openaiClient, func(o *analyzer.Options) {
		o.Model = cfg.OpenAIModel
	})

	broker := stream.NewBroker(redisClient)
	defer broker.Close()

	regionService := service.NewRegionService(sessionRepo, provider)
	registryService := service.NewRegistryService(provider)
	lifecycleService := service.NewLifecycleService(sessionRepo)
	skillTracker := service.NewSkillTracker(skillRepo, redisClient)
	admissionService := service.NewAdmissionService(
		sessionRepo, participantRepo, membershipRepo,
		regionService, registryService, lifecycleService, minter, provider,
	)
	suggestionService := service.NewSuggestionService(
		sessionRepo, suggestionRepo, suggestionAnalyzer, skillTracker, provider, broker,
	)

	bodyLimitMiddleware := middleware.NewBodyLimitMiddleware(0)
	suggestRateLimit := middleware.NewSuggestRateLimitMiddleware(redisClient.Client, cfg.SuggestRatePerMin)

	sessionHandler := handler.NewSessionHandler(admissionService, registryService, skillTracker, sessionRepo, participantRepo)
	suggestionHandler := handler.NewSuggestionHandler(suggestionService)
	eventsHandler := handler.NewEventsHandler(broker)

	r := chi.NewRouter()

	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(middleware.RequestLogger)
	r.Use(chimiddleware.Recoverer)
	r.Use(chimiddleware.Timeout(config.ServerRequestTimeout))
	r.Use(bodyLimitMiddleware.Handler)

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		json.NewEncoder(w).Encode(map[string]any{
			"status":    "ok",
			"timestamp": time.Now().UnixMilli(),
		})
	})

	r.Route("/v1", func(r chi.Router) {
		r.Route("/sessions/{sessionID}", func(r chi.Router) {
			r.Post("/join", sessionHandler.Join)
			r.Get("/participants", sessionHandler.ListParticipants)
			r.Get("/skills", sessionHandler.Skills)
			r.Delete("/room", sessionHandler.DeleteRoom)
			r.With(suggestRateLimit.Handler).Post("/suggestions", suggestionHandler.Generate)
			r.Get("/suggestions", suggestionHandler.List)
			r.Get("/suggestions/events", eventsHandler.ServeHTTP)
		})
		r.Route("/suggestions", func(r chi.Router) {
			r.Mount("/", suggestionHandler.Routes())
		})
	})

	server := &http.Server{
		Addr:         cfg.Addr(),
		Handler:      r,
		ReadTimeout:  config.ServerReadTimeout,
		WriteTimeout: 0,
		IdleTimeout:  config.ServerIdleTimeout,
	}

	go func() {
		log.Info().Str("addr", cfg.Addr()).Msg("starting server")
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("server error")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info().Msg("shutting down server")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), config.ServerShutdownTimeout)
	defer shutdownCancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("server forced to shutdown")
	}

	log.Info().Msg("server stopped")
}

func setLogLevel(level string) {
	switch level {
	case "debug":
		zerolog.SetGlobalLevel(zerolog.DebugLevel)
	case "info":
		zerolog.SetGlobalLevel(zerolog.InfoLevel)
	case "warn":
		zerolog.SetGlobalLevel(zerolog.WarnLevel)
	case "error":
		zerolog.SetGlobalLevel(zerolog.ErrorLevel)
	default:
		zerolog.SetGlobalLevel(zerolog.InfoLevel)
	}
}
