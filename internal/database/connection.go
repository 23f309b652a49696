// internal/database/connection.go
package database

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	_ "github.com/lib/pq"
	"go.uber.org/zap"

	"escpos-printer-service/internal/config"
)

const contextTimeout = 5 * time.Second

// DB wraps *sql.DB with the connection-pool settings and logger the audit
// sink needs. Only ever holds connection metadata per SPEC_FULL.md §10b —
// receipt content never reaches this package.
type DB struct {
	*sql.DB
	logger *zap.Logger
}

// NewConnection opens and verifies a Postgres connection for the audit
// sink, using the pool sizing from config.AuditConfig.
func NewConnection(cfg *config.AuditConfig, logger *zap.Logger) (*DB, error) {
	dsn := fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		cfg.Host, cfg.Port, cfg.User, cfg.Password, cfg.DBName, cfg.SSLMode)

	sqlDB, err := sql.Open("postgres", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	sqlDB.SetMaxOpenConns(cfg.MaxOpenConns)
	sqlDB.SetMaxIdleConns(cfg.MaxIdleConns)
	sqlDB.SetConnMaxLifetime(cfg.MaxLifetime)

	if err := sqlDB.Ping(); err != nil {
		sqlDB.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	logger.Info("audit database connection established",
		zap.String("host", cfg.Host),
		zap.Int("port", cfg.Port),
		zap.String("dbname", cfg.DBName),
	)

	return &DB{DB: sqlDB, logger: logger}, nil
}

// HealthCheck verifies the connection is reachable.
func (d *DB) HealthCheck() error {
	ctx, cancel := context.WithTimeout(context.Background(), contextTimeout)
	defer cancel()
	return d.PingContext(ctx)
}

// GetStats returns the underlying pool's statistics.
func (d *DB) GetStats() sql.DBStats {
	return d.Stats()
}

// Close closes the underlying connection pool.
func (d *DB) Close() error {
	return d.DB.Close()
}
