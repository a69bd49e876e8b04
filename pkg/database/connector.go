package database

import (
	"context"
	"database/sql/driver"
	"fmt"
	"math/rand"
	"strings"
	"time"
)

// openConnector returns the driver's own connector when it has one. The
// modernc driver doesn't implement driver.DriverContext, so it is wrapped in
// a connector that opens dsn on every Connect.
func openConnector(drv driver.Driver, dsn string) (driver.Connector, error) {
	if drvCtx, ok := drv.(driver.DriverContext); ok {
		return drvCtx.OpenConnector(dsn)
	}
	return &dsnConnector{dsn: dsn, driver: drv}, nil
}

type dsnConnector struct {
	dsn    string
	driver driver.Driver
}

func (dc *dsnConnector) Connect(_ context.Context) (driver.Conn, error) {
	return dc.driver.Open(dc.dsn)
}

func (dc *dsnConnector) Driver() driver.Driver {
	return dc.driver
}

// sqliteConnector wraps the SQLite driver connector. Every new connection
// gets the per-connection pragmas applied, and statements executed directly
// on the connection are retried while SQLite reports the database as busy.
type sqliteConnector struct {
	connector   driver.Connector
	maxRetries  int
	busyTimeout time.Duration
}

func newSQLiteConnector(connector driver.Connector, maxRetries int, busyTimeout time.Duration) *sqliteConnector {
	return &sqliteConnector{
		connector:   connector,
		maxRetries:  maxRetries,
		busyTimeout: busyTimeout,
	}
}

func (sc *sqliteConnector) Connect(ctx context.Context) (driver.Conn, error) {
	conn, err := sc.connector.Connect(ctx)
	if err != nil {
		return nil, err
	}

	// foreign_keys and busy_timeout are connection scoped in SQLite, so they
	// can't be set once on the pool.
	pragmas := []string{
		"PRAGMA foreign_keys = ON",
		fmt.Sprintf("PRAGMA busy_timeout = %d", sc.busyTimeout.Milliseconds()),
	}
	if execer, ok := conn.(driver.ExecerContext); ok {
		for _, pragma := range pragmas {
			if _, err := execer.ExecContext(ctx, pragma, nil); err != nil {
				conn.Close()
				return nil, err
			}
		}
	}

	return &busyRetryConn{Conn: conn, maxRetries: sc.maxRetries}, nil
}

func (sc *sqliteConnector) Driver() driver.Driver {
	return sc.connector.Driver()
}

// busyRetryConn retries BeginTx, ExecContext and QueryContext on SQLITE_BUSY.
// Prepared statements are passed through untouched.
type busyRetryConn struct {
	driver.Conn
	maxRetries int
}

func (c *busyRetryConn) BeginTx(ctx context.Context, opts driver.TxOptions) (driver.Tx, error) {
	beginner, ok := c.Conn.(driver.ConnBeginTx)
	if !ok {
		return c.Conn.Begin() //nolint:staticcheck // fallback for drivers without BeginTx
	}
	var tx driver.Tx
	err := withBusyRetry(ctx, c.maxRetries, func() error {
		var err error
		tx, err = beginner.BeginTx(ctx, opts)
		return err
	})
	return tx, err
}

func (c *busyRetryConn) ExecContext(ctx context.Context, query string, args []driver.NamedValue) (driver.Result, error) {
	execer, ok := c.Conn.(driver.ExecerContext)
	if !ok {
		return nil, driver.ErrSkip
	}
	var result driver.Result
	err := withBusyRetry(ctx, c.maxRetries, func() error {
		var err error
		result, err = execer.ExecContext(ctx, query, args)
		return err
	})
	return result, err
}

func (c *busyRetryConn) QueryContext(ctx context.Context, query string, args []driver.NamedValue) (driver.Rows, error) {
	queryer, ok := c.Conn.(driver.QueryerContext)
	if !ok {
		return nil, driver.ErrSkip
	}
	var rows driver.Rows
	err := withBusyRetry(ctx, c.maxRetries, func() error {
		var err error
		rows, err = queryer.QueryContext(ctx, query, args)
		return err
	})
	return rows, err
}

func (c *busyRetryConn) PrepareContext(ctx context.Context, query string) (driver.Stmt, error) {
	if preparer, ok := c.Conn.(driver.ConnPrepareContext); ok {
		return preparer.PrepareContext(ctx, query)
	}
	return c.Conn.Prepare(query)
}

func (c *busyRetryConn) ResetSession(ctx context.Context) error {
	if resetter, ok := c.Conn.(driver.SessionResetter); ok {
		return resetter.ResetSession(ctx)
	}
	return nil
}

func (c *busyRetryConn) IsValid() bool {
	if validator, ok := c.Conn.(driver.Validator); ok {
		return validator.IsValid()
	}
	return true
}

// isBusyError matches the busy/locked errors of both mattn/go-sqlite3 and
// modernc.org/sqlite, which sqliteshim may pick between.
func isBusyError(err error) bool {
	if err == nil {
		return false
	}
	msg := err.Error()
	for _, marker := range []string{"database is locked", "database table is locked", "SQLITE_BUSY", "SQLITE_LOCKED"} {
		if strings.Contains(msg, marker) {
			return true
		}
	}
	return false
}

func withBusyRetry(ctx context.Context, maxRetries int, fn func() error) error {
	const (
		baseDelay = 25 * time.Millisecond
		maxDelay  = time.Second
	)

	var err error
	for attempt := 0; ; attempt++ {
		err = fn()
		if err == nil || !isBusyError(err) || attempt >= maxRetries {
			return err
		}

		delay := baseDelay << attempt
		if delay > maxDelay {
			delay = maxDelay
		}
		delay += time.Duration(rand.Int63n(int64(delay/4) + 1))

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(delay):
		}
	}
}
