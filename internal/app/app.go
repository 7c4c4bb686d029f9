package app

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
	"github.com/spf13/viper"

	"mediai/backend/internal/api"
	"mediai/backend/internal/auth"
	"mediai/backend/internal/config"
	"mediai/backend/internal/database"
	"mediai/backend/internal/llm"
	"mediai/backend/internal/logger"
	"mediai/backend/internal/metrics"
	"mediai/backend/internal/ratelimit"
	"mediai/backend/internal/repository"
	"mediai/backend/internal/service"
	"mediai/backend/internal/stream"
)

const shutdownTimeout = 10 * time.Second

// App holds the wired server and the resources it owns.
type App struct {
	Config  *config.Config
	DB      *sql.DB
	Server  *http.Server
	Metrics *metrics.Metrics
	Limiter ratelimit.Limiter

	// memoryLimiter is set for the in-memory backend and needs sweeping.
	memoryLimiter *ratelimit.MemoryLimiter
	redis         *redis.Client
}

// Run loads the configuration, serves HTTP until ctx is done and then shuts
// down gracefully.
func Run(ctx context.Context) error {
	cfg, err := config.LoadConfig()
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	logger.Setup(cfg.LogLevel, cfg.LogFormat)
	logConfigSource()

	app, err := NewApp(cfg)
	if err != nil {
		return err
	}
	defer app.Close()

	workersCtx, stopWorkers := context.WithCancel(ctx)
	defer stopWorkers()
	app.StartWorkers(workersCtx)

	serveErr := make(chan error, 1)
	go func() {
		log.Info().Int("port", cfg.AppPort).Msg("Starting server")
		if err := app.Server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serveErr <- err
		}
		close(serveErr)
	}()

	select {
	case err := <-serveErr:
		if err != nil {
			return fmt.Errorf("server failed: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	log.Info().Msg("Shutting down server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := app.Server.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("graceful shutdown failed: %w", err)
	}
	return nil
}

// NewApp wires every layer from cfg. The caller owns the returned App and
// must Close it.
func NewApp(cfg *config.Config) (*App, error) {
	db, err := database.InitDB(cfg.DatabasePath)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize database: %w", err)
	}
	log.Info().Str("path", cfg.DatabasePath).Msg("Successfully connected to SQLite database.")

	app := &App{Config: cfg, DB: db, Metrics: metrics.NewMetrics()}

	if err := app.setupLimiter(); err != nil {
		_ = db.Close()
		return nil, err
	}

	if cfg.JWTSecret == "" {
		log.Warn().Msg("JWT_SECRET is empty; every authenticated request will be rejected")
	}
	if cfg.UsesCompletions() {
		log.Info().Str("base_url", cfg.LLMBaseURL).Str("model", cfg.LLMModel).Msg("Replies are generated by the completions API")
	} else {
		log.Info().Msg("No LLM API key configured; using canned replies")
	}

	completionOpts := llm.CompletionOptions{
		BaseURL:     cfg.LLMBaseURL,
		APIKey:      cfg.LLMAPIKey,
		Model:       cfg.LLMModel,
		MaxTokens:   cfg.LLMMaxTokens,
		Temperature: cfg.LLMTemperature,
		HTTPClient:  &http.Client{Timeout: cfg.LLMTimeout},
		OnFallback:  app.Metrics.RecordGeneratorFallback,
	}
	medical := llm.NewSelector(llm.MedicalPersona, completionOpts)
	nutrition := llm.NewSelector(llm.NutritionPersona, completionOpts)

	emitter := stream.NewEmitter(cfg.StreamChunkSize, cfg.StreamChunkDelay)
	emitter.OnFailure = app.Metrics.RecordStreamFailure

	repo := repository.NewSQLiteRepository(db)
	userRepo := repository.NewSQLiteUserRepository(db)

	chatService := service.NewChatService(repo, medical, nutrition, app.Limiter, app.Metrics)
	userService := service.NewUserService(userRepo)
	adminService := service.NewAdminService(userRepo)

	router := api.NewRouter(api.Handlers{
		Chat:    api.NewChatHandler(chatService, emitter),
		User:    api.NewUserHandler(userService),
		Admin:   api.NewAdminHandler(adminService),
		Auth:    auth.NewMiddleware(auth.NewTokens(cfg.JWTSecret), userRepo),
		Metrics: app.Metrics,
	})

	app.Server = &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.AppPort),
		Handler:           router,
		ReadHeaderTimeout: 20 * time.Second,
		WriteTimeout:      0, // Disabled for streaming endpoints
		IdleTimeout:       120 * time.Second,
	}
	return app, nil
}

func (a *App) setupLimiter() error {
	switch a.Config.RateLimitBackend {
	case "redis":
		rdb := redis.NewClient(&redis.Options{Addr: a.Config.RedisAddr})
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := rdb.Ping(ctx).Err(); err != nil {
			_ = rdb.Close()
			return fmt.Errorf("failed to connect to redis at %s: %w", a.Config.RedisAddr, err)
		}
		log.Info().Str("addr", a.Config.RedisAddr).Msg("Public chat quotas are stored in Redis.")
		a.redis = rdb
		a.Limiter = ratelimit.NewRedisLimiter(rdb, a.Config.PublicMessageLimit, a.Config.PublicResetWindow)
	case "", "memory":
		a.memoryLimiter = ratelimit.NewMemoryLimiter(a.Config.PublicMessageLimit, a.Config.PublicResetWindow)
		a.Limiter = a.memoryLimiter
	default:
		return fmt.Errorf("unknown RATE_LIMIT_BACKEND %q", a.Config.RateLimitBackend)
	}
	return nil
}

// StartWorkers launches the background tasks the App owns. They stop when
// ctx is done.
func (a *App) StartWorkers(ctx context.Context) {
	if a.memoryLimiter != nil && a.Config.RateLimitSweepInterval > 0 {
		go a.memoryLimiter.Run(ctx, a.Config.RateLimitSweepInterval)
	}
}

// Close releases the database and the Redis connection.
func (a *App) Close() {
	if a.redis != nil {
		if err := a.redis.Close(); err != nil {
			log.Error().Err(err).Msg("Failed to close redis connection")
		}
	}
	if err := a.DB.Close(); err != nil {
		log.Error().Err(err).Msg("Failed to close database connection")
	}
}

func logConfigSource() {
	configFileUsed := viper.ConfigFileUsed()
	if configFileUsed != "" {
		log.Info().Str("file", configFileUsed).Msg("Successfully loaded configuration from file.")
	} else {
		log.Info().Msg("Configuration file not found. Using environment variables and defaults.")
	}
}
