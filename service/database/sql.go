package database

import (
	"context"
	"database/sql"
	"errors"
)

// sqldb is an AppDatabase backed by a database/sql pool.
type sqldb struct {
	c *sql.DB
}

// New returns a new instance of AppDatabase based on the database/sql pool passed as argument.
func New(db *sql.DB) (AppDatabase, error) {
	if db == nil {
		return nil, errors.New("database is required")
	}

	return &sqldb{
		c: db,
	}, nil
}

func (db *sqldb) Acquire(ctx context.Context) (Conn, error) {
	c, err := db.c.Conn(ctx)
	if err != nil {
		return nil, acquireError("checkout", err)
	}

	// database/sql may hand back an idle connection, so check it's still alive
	if err := c.PingContext(ctx); err != nil {
		_ = c.Close()
		return nil, acquireError("ping", err)
	}

	return newConn(func() { _ = c.Close() }), nil
}

func (db *sqldb) Close() error {
	return db.c.Close()
}
