package main

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
	_ "github.com/jackc/pgx/v5/stdlib"
	_ "github.com/mattn/go-sqlite3"
	"github.com/pioloLlanos/live/service/database"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
)

// openDatabase opens the pool selected by cfg.DB.Driver. No connection is attempted here: reachability is what the
// liveness probe reports.
func openDatabase(ctx context.Context, cfg WebAPIConfiguration, logger logrus.FieldLogger) (database.AppDatabase, error) {
	logger = logger.WithField("driver", cfg.DB.Driver)

	switch cfg.DB.Driver {
	case "sqlite3":
		logger.WithField("filename", cfg.DB.Filename).Info("opening SQLite database")
		return openSQL("sqlite3", cfg.DB.Filename, cfg.DB.MaxOpenConns)
	case "pgx":
		logger.Info("opening PostgreSQL database/sql pool")
		return openSQL("pgx", cfg.DB.URL, cfg.DB.MaxOpenConns)
	case "pgxpool":
		logger.Info("opening PostgreSQL pgx pool")
		pcfg, err := pgxpool.ParseConfig(cfg.DB.URL)
		if err != nil {
			return nil, fmt.Errorf("parsing PostgreSQL URL: %w", err)
		}
		if cfg.DB.MaxOpenConns > 0 {
			pcfg.MaxConns = int32(cfg.DB.MaxOpenConns)
		}
		pool, err := pgxpool.NewWithConfig(ctx, pcfg)
		if err != nil {
			return nil, fmt.Errorf("opening pgx pool: %w", err)
		}
		return database.NewPostgres(pool)
	case "redis":
		logger.Info("opening Redis pool")
		opts, err := redis.ParseURL(cfg.DB.URL)
		if err != nil {
			return nil, fmt.Errorf("parsing Redis URL: %w", err)
		}
		if cfg.DB.MaxOpenConns > 0 {
			opts.PoolSize = cfg.DB.MaxOpenConns
		}
		return database.NewRedis(redis.NewClient(opts))
	default:
		return nil, fmt.Errorf("unknown database driver %q", cfg.DB.Driver)
	}
}

func openSQL(driver string, dsn string, maxOpen int) (database.AppDatabase, error) {
	dbconn, err := sql.Open(driver, dsn)
	if err != nil {
		return nil, fmt.Errorf("opening %s: %w", driver, err)
	}
	dbconn.SetMaxOpenConns(maxOpen)
	return database.New(dbconn)
}
