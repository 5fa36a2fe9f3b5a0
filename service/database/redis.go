package database

import (
	"context"
	"errors"

	"github.com/redis/go-redis/v9"
)

type redisdb struct {
	client *redis.Client
}

// NewRedis returns a new instance of AppDatabase backed by a Redis client pool.
func NewRedis(client *redis.Client) (AppDatabase, error) {
	if client == nil {
		return nil, errors.New("database is required")
	}

	return &redisdb{client: client}, nil
}

func (db *redisdb) Acquire(ctx context.Context) (Conn, error) {
	// Conn pins a pool connection lazily, on the first command
	c := db.client.Conn()
	if err := c.Ping(ctx).Err(); err != nil {
		_ = c.Close()
		return nil, acquireError("ping", err)
	}

	return newConn(func() { _ = c.Close() }), nil
}

func (db *redisdb) Close() error {
	return db.client.Close()
}
