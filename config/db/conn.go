package db

import (
	"context"
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/staynest/booking/logger"
)

var DB *pgxpool.Pool

const (
	defaultMaxConns = 10
	defaultMinConns = 2
)

// envConns reads a pool-size env var, falling back when unset or invalid.
func envConns(name string, fallback int32) int32 {
	raw := os.Getenv(name)
	if raw == "" {
		return fallback
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n < 1 {
		logger.WarnLogger.Warnf("Invalid %s %q, using %d", name, raw, fallback)
		return fallback
	}
	return int32(n)
}

// poolConfig builds the pool configuration from DATABASE_URL plus the
// optional DB_MAX_CONNS / DB_MIN_CONNS sizing knobs.
func poolConfig(dsn string) (*pgxpool.Config, error) {
	cfg, err := pgxpool.ParseConfig(dsn)
	if err != nil {
		return nil, fmt.Errorf("unable to parse DATABASE_URL: %w", err)
	}

	cfg.MaxConns = envConns("DB_MAX_CONNS", defaultMaxConns)
	cfg.MinConns = envConns("DB_MIN_CONNS", defaultMinConns)
	if cfg.MinConns > cfg.MaxConns {
		cfg.MinConns = cfg.MaxConns
	}
	cfg.MaxConnLifetime = time.Hour
	cfg.MaxConnIdleTime = 30 * time.Minute
	return cfg, nil
}

func Connect() {
	dsn := os.Getenv("DATABASE_URL")
	if dsn == "" {
		logger.ErrorLogger.Error("DATABASE_URL not set")
		fmt.Println("DATABASE_URL not set")
		os.Exit(1)
	}

	cfg, err := poolConfig(dsn)
	if err != nil {
		logger.ErrorLogger.Errorf("Database configuration error: %v", err)
		os.Exit(1)
	}

	start := time.Now()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	pool, err := pgxpool.NewWithConfig(ctx, cfg)
	if err != nil {
		logger.ErrorLogger.Errorf("Database connection error: %v", err)
		fmt.Println("Database connection error:", err)
		os.Exit(1)
	}

	// Ping asynchronously so a cold database does not block startup.
	go func() {
		pingCtx, pingCancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer pingCancel()

		if err := pool.Ping(pingCtx); err != nil {
			logger.WarnLogger.Warnf("Database cold start or unreachable: %v", err)
		} else {
			logger.InfoLogger.Infof("Database ready (ping ok in %v)", time.Since(start))
		}
	}()

	DB = pool
	logger.InfoLogger.Infof("Connected to PostgreSQL pool (max %d, min %d conns, async ping).",
		cfg.MaxConns, cfg.MinConns)
}

func Close() {
	if DB != nil {
		DB.Close()
		logger.InfoLogger.Info("Disconnected from PostgreSQL.")
	}
}
