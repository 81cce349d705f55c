// Package server defines the core Server struct that composes the app's main dependencies.
//
// It owns the lifecycle of the configuration, the logger and optional New
// Relic service, the database pool, the optional Redis client with its
// lookup cache and job worker, and the http.Server.
package server

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/deppfellow/countyhealth/internal/cache"
	"github.com/deppfellow/countyhealth/internal/config"
	"github.com/deppfellow/countyhealth/internal/database"
	"github.com/deppfellow/countyhealth/internal/lib/job"
	"github.com/newrelic/go-agent/v3/integrations/nrredis-v9"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	loggerPkg "github.com/deppfellow/countyhealth/internal/logger"
)

const redisPingTimeout = 5 * time.Second

// Server is the application container that holds shared resources.
//
// Redis, Cache and Job are nil when no Redis address is configured.
type Server struct {
	Config        *config.Config
	Logger        *zerolog.Logger
	LoggerService *loggerPkg.LoggerService
	DB            *database.Database
	Redis         *redis.Client
	Cache         *cache.LookupCache
	Job           *job.JobService
	httpServer    *http.Server
}

// New constructs a Server and initializes core dependencies.
//
// The database is mandatory. Redis is optional: an unreachable Redis is
// logged and the service keeps answering from PostgreSQL alone.
func New(cfg *config.Config, logger *zerolog.Logger, loggerService *loggerPkg.LoggerService) (*Server, error) {
	db, err := database.New(cfg, logger, loggerService)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize database: %w", err)
	}

	server := &Server{
		Config:        cfg,
		Logger:        logger,
		LoggerService: loggerService,
		DB:            db,
	}

	if cfg.Redis.Address == "" {
		logger.Info().Msg("redis not configured, cache and job worker disabled")
		return server, nil
	}

	redisClient := redis.NewClient(&redis.Options{
		Addr: cfg.Redis.Address,
	})

	if loggerService.GetApplication() != nil {
		redisClient.AddHook(nrredis.NewHook(redisClient.Options()))
	}

	ctx, cancel := context.WithTimeout(context.Background(), redisPingTimeout)
	defer cancel()

	if err := redisClient.Ping(ctx).Err(); err != nil {
		logger.Error().Err(err).Msg("Failed to connect to Redis, continuing without Redis")
	}

	server.Redis = redisClient
	server.Cache = cache.New(redisClient, cfg.Cache, logger)

	jobService := job.NewJobService(logger, cfg.Redis.Address)
	if server.Cache != nil {
		jobService.InitHandlers(server.Cache)
	}

	if err := jobService.Start(); err != nil {
		db.Close()
		_ = redisClient.Close()
		return nil, fmt.Errorf("failed to start job server: %w", err)
	}
	server.Job = jobService

	return server, nil
}

// SetupHTTPServer configures the internal net/http server around handler.
func (s *Server) SetupHTTPServer(handler http.Handler) {
	s.httpServer = &http.Server{
		Addr:         ":" + s.Config.Server.Port,
		Handler:      handler,
		ReadTimeout:  time.Duration(s.Config.Server.ReadTimeout) * time.Second,
		WriteTimeout: time.Duration(s.Config.Server.WriteTimeout) * time.Second,
		IdleTimeout:  time.Duration(s.Config.Server.IdleTimeout) * time.Second,
	}
}

// Start runs the HTTP server. It blocks until the server stops; a graceful
// Shutdown makes it return http.ErrServerClosed.
func (s *Server) Start() error {
	if s.httpServer == nil {
		return errors.New("HTTP server not initialized")
	}

	s.Logger.Info().
		Str("port", s.Config.Server.Port).
		Str("env", s.Config.Primary.Env).
		Msg("starting server")

	return s.httpServer.ListenAndServe()
}

// Shutdown stops accepting requests, waits for in-flight ones until ctx
// expires, then releases the job worker, Redis and the database pool.
func (s *Server) Shutdown(ctx context.Context) error {
	var shutdownErr error

	if s.httpServer != nil {
		if err := s.httpServer.Shutdown(ctx); err != nil {
			shutdownErr = fmt.Errorf("failed to shutdown HTTP server: %w", err)
		}
	}

	if s.Job != nil {
		s.Job.Stop()
	}

	if s.Redis != nil {
		if err := s.Redis.Close(); err != nil {
			s.Logger.Warn().Err(err).Msg("failed to close redis client")
		}
	}

	if s.DB != nil {
		s.DB.Close()
	}

	return shutdownErr
}
