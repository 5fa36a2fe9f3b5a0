package database

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5/pgxpool"
)

type pgdb struct {
	pool *pgxpool.Pool
}

// NewPostgres returns a new instance of AppDatabase backed by a native pgx pool.
func NewPostgres(pool *pgxpool.Pool) (AppDatabase, error) {
	if pool == nil {
		return nil, errors.New("database is required")
	}

	return &pgdb{pool: pool}, nil
}

func (db *pgdb) Acquire(ctx context.Context) (Conn, error) {
	c, err := db.pool.Acquire(ctx)
	if err != nil {
		return nil, acquireError("checkout", err)
	}

	if err := c.Ping(ctx); err != nil {
		c.Release()
		return nil, acquireError("ping", err)
	}

	return newConn(c.Release), nil
}

func (db *pgdb) Close() error {
	db.pool.Close()
	return nil
}
