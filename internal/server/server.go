package server

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"kasir-backoffice/internal/cache"
	"kasir-backoffice/internal/catalog"
	"kasir-backoffice/internal/config"
	custommiddleware "kasir-backoffice/internal/middleware"
	"kasir-backoffice/internal/remote"
	"kasir-backoffice/internal/transport"

	"github.com/go-chi/chi/v5"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

type Server struct {
	*http.Server
	config *config.Config
	logger *zap.Logger
	store  *catalog.Store
	redis  *redis.Client
}

func NewServer(cfg *config.Config, logger *zap.Logger, redisClient *redis.Client) *Server {
	// Create router
	router := chi.NewRouter()

	// Add basic middleware
	router.Use(custommiddleware.DefaultMiddlewareStack()...)
	router.Use(custommiddleware.CORSMiddleware(cfg.CORS.AllowedOrigins, cfg.Server.Env == "development"))
	router.Use(custommiddleware.LoggingMiddleware(logger))
	router.Use(custommiddleware.ErrorHandlingMiddleware(logger))
	router.Use(custommiddleware.RateLimitMiddleware(redisClient, custommiddleware.RateLimitConfig{
		RequestsPerWindow: cfg.RateLimit.Requests,
		Window:            time.Duration(cfg.RateLimit.Window) * time.Second,
		KeyPrefix:         "ratelimit",
	}, logger))

	// Initialize the remote client and the durable cache
	remoteClient := remote.NewClient(cfg.Remote.BaseURL, time.Duration(cfg.Remote.TimeoutSeconds)*time.Second)
	snapshotCache := cache.NewRedisCache(redisClient)

	// Initialize the store
	store := catalog.NewStore(remoteClient, snapshotCache, logger, cfg.Cache.Namespace)

	// Health check endpoint
	router.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		if err := snapshotCache.Ping(r.Context()); err != nil {
			w.WriteHeader(http.StatusServiceUnavailable)
			w.Write([]byte(`{"status":"degraded","cache":"down"}`))
			return
		}
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(`{"status":"ok"}`))
	})

	// Initialize handlers and register routes
	catalogHandler := transport.NewCatalogHandler(store, logger)
	catalogHandler.RegisterRoutes(router)

	server := &Server{
		Server: &http.Server{
			Addr:         fmt.Sprintf(":%s", cfg.Server.Port),
			Handler:      router,
			IdleTimeout:  time.Minute,
			ReadTimeout:  10 * time.Second,
			WriteTimeout: 30 * time.Second,
		},
		config: cfg,
		logger: logger,
		store:  store,
		redis:  redisClient,
	}

	return server
}

// Store exposes the catalog store for bootstrap loading.
func (s *Server) Store() *catalog.Store {
	return s.store
}

func (s *Server) Close() error {
	s.logger.Info("Closing server resources")

	// Let in-flight stock pushes finish before dropping the Redis connection
	s.store.Wait()

	if s.redis != nil {
		if err := s.redis.Close(); err != nil {
			s.logger.Error("Failed to close redis connection", zap.Error(err))
		}
	}

	s.logger.Sync()
	return nil
}

// Bootstrap restores the cached snapshot, then tries a remote load. A remote
// failure is not fatal; the cached snapshot keeps the back office usable.
func (s *Server) Bootstrap(ctx context.Context) {
	s.store.RestoreFromCache(ctx)

	if err := s.store.Load(ctx); err != nil {
		s.logger.Warn("Initial remote load failed, serving cached snapshot", zap.Error(err))
	}
}
