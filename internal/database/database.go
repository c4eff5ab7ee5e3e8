package database

import (
	"context"
	"database/sql"
	"fmt"
	"strconv"
	"time"

	"shopline/internal/config"

	_ "github.com/jackc/pgx/v5/stdlib"
)

// Service wraps the pooled database handle. database/sql hands each
// statement a pooled connection and returns it on every exit path, so
// no transaction can span more than one checkout.
type Service struct {
	db *sql.DB
}

// New opens the connection pool and verifies the database is reachable
func New(cfg config.DatabaseConfig) (*Service, error) {
	db, err := sql.Open("pgx", cfg.DSN())
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	db.SetMaxOpenConns(25)
	db.SetMaxIdleConns(25)
	db.SetConnMaxLifetime(5 * time.Minute)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	return &Service{db: db}, nil
}

// DB exposes the underlying pool for repositories and migrations
func (s *Service) DB() *sql.DB {
	return s.db
}

// Health reports connectivity and pool statistics
func (s *Service) Health(ctx context.Context) map[string]string {
	ctx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()

	health := make(map[string]string)

	if err := s.db.PingContext(ctx); err != nil {
		health["status"] = "down"
		health["error"] = err.Error()
		return health
	}

	stats := s.db.Stats()
	health["status"] = "up"
	health["open_connections"] = strconv.Itoa(stats.OpenConnections)
	health["in_use"] = strconv.Itoa(stats.InUse)
	health["idle"] = strconv.Itoa(stats.Idle)

	return health
}

// Close releases the pool
func (s *Service) Close() error {
	return s.db.Close()
}
