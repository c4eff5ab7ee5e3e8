package server

import (
	"fmt"
	"net/http"
	"time"

	"shopline/internal/config"
	"shopline/internal/database"
	custommiddleware "shopline/internal/middleware"
	"shopline/internal/repository"
	"shopline/internal/service"
	"shopline/internal/transport"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

type Server struct {
	*http.Server
	config *config.Config
	logger *zap.Logger
	db     *database.Service
}

func NewServer(cfg *config.Config, logger *zap.Logger, db *database.Service) *Server {
	// Create router
	router := chi.NewRouter()

	// Add basic middleware
	router.Use(middleware.RequestID)
	router.Use(middleware.RealIP)
	router.Use(middleware.Recoverer)
	router.Use(middleware.Compress(5))
	router.Use(custommiddleware.LoggingMiddleware(logger))
	router.Use(custommiddleware.ErrorHandlingMiddleware(logger))
	router.Use(custommiddleware.CORSMiddleware(nil, cfg.Server.Env != "production"))

	// Rate limiting is opt-in: enabled only when a Redis host is configured
	if cfg.Redis.Host != "" {
		redisClient := redis.NewClient(&redis.Options{
			Addr:     fmt.Sprintf("%s:%s", cfg.Redis.Host, cfg.Redis.Port),
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		router.Use(custommiddleware.RateLimitMiddleware(redisClient, custommiddleware.RateLimitConfig{
			RequestsPerWindow: 100,
			Window:            time.Minute,
			KeyPrefix:         "ratelimit",
		}, logger))
	}

	// Service endpoints
	router.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		custommiddleware.RespondWithJSON(w, http.StatusOK, db.Health(r.Context()))
	})
	router.Get("/", func(w http.ResponseWriter, r *http.Request) {
		custommiddleware.RespondWithJSON(w, http.StatusOK, map[string]string{
			"message": "E-Commerce API",
			"version": "1.0.0",
		})
	})

	// Initialize repositories
	userRepo := repository.NewUserRepository(db.DB())
	categoryRepo := repository.NewCategoryRepository(db.DB())
	productRepo := repository.NewProductRepository(db.DB())
	orderRepo := repository.NewOrderRepository(db.DB())
	orderItemRepo := repository.NewOrderItemRepository(db.DB())

	// Initialize services
	userService := service.NewUserService(userRepo)
	orderService := service.NewOrderService(orderRepo, orderItemRepo)

	// Initialize handlers and register routes
	transport.NewUserHandler(userService, logger).RegisterRoutes(router)
	transport.NewCategoryHandler(categoryRepo, logger).RegisterRoutes(router)
	transport.NewProductHandler(productRepo, logger).RegisterRoutes(router)
	transport.NewOrderHandler(orderService, logger).RegisterRoutes(router)

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
		db:     db,
	}

	return server
}

func (s *Server) Close() error {
	s.logger.Info("Closing server resources")

	// Close database connection pool
	if s.db != nil {
		if err := s.db.Close(); err != nil {
			s.logger.Error("Failed to close database connection", zap.Error(err))
		}
	}

	s.logger.Sync()
	return nil
}
