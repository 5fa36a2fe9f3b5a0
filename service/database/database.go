/*
Package database is the connection provider used by the API. It hides the pooling library behind AppDatabase, so the
same liveness logic works with any database/sql driver, a native pgx pool, or a Redis pool.

To use this package, open the pool with its own library and pass it to the matching constructor:

	dbconn, err := sql.Open("sqlite3", cfg.DB.Filename)
	if err != nil {
		return fmt.Errorf("opening SQLite: %w", err)
	}
	db, err := database.New(dbconn)
	if err != nil {
		return fmt.Errorf("creating AppDatabase: %w", err)
	}

The returned AppDatabase owns the pool: AppDatabase.Close closes it.
*/
package database

import (
	"context"
	"errors"
	"fmt"
	"sync"
)

// ErrAcquire is returned (wrapped) by AppDatabase.Acquire whenever a connection can't be obtained, whatever the cause.
var ErrAcquire = errors.New("connection acquisition failed")

// Conn is a connection checked out of the pool.
type Conn interface {
	// Release gives the connection back to the pool. It's safe to call it more than once.
	Release()
}

// AppDatabase is the high level interface for the DB
type AppDatabase interface {
	// Acquire checks out one connection and verifies that it can reach the database. The caller must Release it.
	Acquire(ctx context.Context) (Conn, error)

	// Close closes the underlying pool
	Close() error
}

// conn adapts a pool specific release function to Conn.
type conn struct {
	once    sync.Once
	release func()
}

func newConn(release func()) *conn {
	return &conn{release: release}
}

func (c *conn) Release() {
	c.once.Do(c.release)
}

// acquireError wraps err in ErrAcquire, keeping err in the chain.
func acquireError(op string, err error) error {
	return fmt.Errorf("%w: %s: %w", ErrAcquire, op, err)
}
