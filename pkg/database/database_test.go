package database

import (
	"context"
	"database/sql/driver"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/HarishV14/Local-library/pkg/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIsBusyError(t *testing.T) {
	t.Parallel()

	assert.False(t, isBusyError(nil))
	assert.True(t, isBusyError(errors.New("database is locked")))
	assert.True(t, isBusyError(errors.New("database table is locked")))
	assert.True(t, isBusyError(errors.New("sqlite: step: SQLITE_BUSY")))
	assert.True(t, isBusyError(errors.New("SQLITE_LOCKED: locked")))
	assert.False(t, isBusyError(errors.New("UNIQUE constraint failed: books.isbn")))
}

func TestWithBusyRetry(t *testing.T) {
	t.Parallel()

	t.Run("retries until success", func(t *testing.T) {
		t.Parallel()
		calls := 0
		err := withBusyRetry(context.Background(), 3, func() error {
			calls++
			if calls < 3 {
				return errors.New("database is locked")
			}
			return nil
		})
		require.NoError(t, err)
		assert.Equal(t, 3, calls)
	})

	t.Run("does not retry other errors", func(t *testing.T) {
		t.Parallel()
		calls := 0
		err := withBusyRetry(context.Background(), 3, func() error {
			calls++
			return errors.New("no such table: books")
		})
		require.Error(t, err)
		assert.Equal(t, 1, calls)
	})

	t.Run("gives up after max retries", func(t *testing.T) {
		t.Parallel()
		calls := 0
		err := withBusyRetry(context.Background(), 2, func() error {
			calls++
			return errors.New("SQLITE_BUSY")
		})
		require.Error(t, err)
		assert.Equal(t, 3, calls)
	})

	t.Run("stops when the context is cancelled", func(t *testing.T) {
		t.Parallel()
		ctx, cancel := context.WithCancel(context.Background())
		cancel()
		err := withBusyRetry(ctx, 5, func() error {
			return errors.New("SQLITE_BUSY")
		})
		assert.ErrorIs(t, err, context.Canceled)
	})
}

func TestNew_EnablesForeignKeys(t *testing.T) {
	t.Parallel()

	cfg := config.NewForTest()
	cfg.DatabaseBusyTimeout = 1500 * time.Millisecond

	db, err := New(cfg)
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	var foreignKeys int
	err = db.QueryRow("PRAGMA foreign_keys").Scan(&foreignKeys)
	require.NoError(t, err)
	assert.Equal(t, 1, foreignKeys)

	var busyTimeout int
	err = db.QueryRow("PRAGMA busy_timeout").Scan(&busyTimeout)
	require.NoError(t, err)
	assert.Equal(t, 1500, busyTimeout)
}

func TestNew_FileDatabase(t *testing.T) {
	t.Parallel()

	cfg := config.NewForTest()
	cfg.DatabaseFilePath = filepath.Join(t.TempDir(), "library.db")

	db, err := New(cfg)
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	_, err = db.Exec("CREATE TABLE parents (id INTEGER PRIMARY KEY)")
	require.NoError(t, err)
	_, err = db.Exec("CREATE TABLE children (id INTEGER PRIMARY KEY, parent_id INTEGER REFERENCES parents (id))")
	require.NoError(t, err)
	_, err = db.Exec("INSERT INTO children (parent_id) VALUES (42)")
	assert.True(t, IsForeignKeyViolation(err), "got %v", err)

	var journalMode string
	err = db.QueryRow("PRAGMA journal_mode").Scan(&journalMode)
	require.NoError(t, err)
	assert.Equal(t, "wal", journalMode)
}

// openOnlyDriver implements driver.Driver without driver.DriverContext.
type openOnlyDriver struct {
	opened []string
}

func (d *openOnlyDriver) Open(dsn string) (driver.Conn, error) {
	d.opened = append(d.opened, dsn)
	return nil, errors.New("not connected")
}

func TestOpenConnector_WrapsOpenOnlyDriver(t *testing.T) {
	t.Parallel()

	drv := &openOnlyDriver{}
	connector, err := openConnector(drv, "catalog.db")
	require.NoError(t, err)
	assert.Same(t, drv, connector.Driver())

	_, err = connector.Connect(context.Background())
	assert.EqualError(t, err, "not connected")
	assert.Equal(t, []string{"catalog.db"}, drv.opened)
}

func TestConstraintErrors(t *testing.T) {
	t.Parallel()
	assert.True(t, IsUniqueViolation(errors.New("constraint failed: UNIQUE constraint failed: books.isbn (2067)")))
	assert.False(t, IsUniqueViolation(errors.New("no such table: books")))
	assert.False(t, IsUniqueViolation(nil))
	assert.True(t, IsForeignKeyViolation(errors.New("FOREIGN KEY constraint failed")))
	assert.False(t, IsForeignKeyViolation(nil))
}
