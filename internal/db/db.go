// Package db opens the relational store behind the database backend.
package db

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"sync"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib" // registers "pgx"
	"github.com/rs/zerolog/log"
	_ "modernc.org/sqlite" // registers "sqlite"
)

type Dialect string

const (
	Postgres Dialect = "postgres"
	SQLite   Dialect = "sqlite"
)

// Placeholder returns the n-th (1-based) bind parameter.
func (d Dialect) Placeholder(n int) string {
	if d == Postgres {
		return "$" + strconv.Itoa(n)
	}
	return "?"
}

// Now is the column default used for created_at.
func (d Dialect) Now() string {
	if d == Postgres {
		return "now()"
	}
	return "CURRENT_TIMESTAMP"
}

// DB wraps *sql.DB with its dialect and a keepalive loop that pings the
// server at a fixed interval. database/sql replaces broken connections on
// its own; the pings only surface outages in the log early.
type DB struct {
	*sql.DB
	Dialect Dialect

	stop      chan struct{}
	closeOnce sync.Once
}

// ParseDriver accepts the configured driver name and a few aliases.
func ParseDriver(name string) (Dialect, string, error) {
	switch strings.ToLower(name) {
	case "sqlite", "sqlite3", "":
		return SQLite, "sqlite", nil
	case "postgres", "postgresql", "pgx":
		return Postgres, "pgx", nil
	}
	return "", "", fmt.Errorf("db: unsupported driver %q", name)
}

// Open connects and verifies the connection with a ping. keepalive <= 0
// disables the background pings.
func Open(ctx context.Context, driver, dsn string, keepalive time.Duration) (*DB, error) {
	dialect, sqlDriver, err := ParseDriver(driver)
	if err != nil {
		return nil, err
	}
	if dialect == SQLite {
		if err := ensureDir(dsn); err != nil {
			return nil, err
		}
	}

	sqlDB, err := sql.Open(sqlDriver, dsn)
	if err != nil {
		return nil, fmt.Errorf("db: open %s: %w", dialect, err)
	}
	if dialect == SQLite {
		// One connection: in-memory databases are per connection and SQLite
		// serializes writers anyway.
		sqlDB.SetMaxOpenConns(1)
	}
	if err := sqlDB.PingContext(ctx); err != nil {
		_ = sqlDB.Close()
		return nil, fmt.Errorf("db: ping %s: %w", dialect, err)
	}

	d := &DB{DB: sqlDB, Dialect: dialect, stop: make(chan struct{})}
	if keepalive > 0 {
		go d.keepalive(keepalive)
	}
	return d, nil
}

func ensureDir(dsn string) error {
	if dsn == "" || strings.HasPrefix(dsn, ":memory:") || strings.HasPrefix(dsn, "file:") {
		return nil
	}
	dir := filepath.Dir(dsn)
	if err := os.MkdirAll(dir, 0o750); err != nil && !errors.Is(err, os.ErrExist) {
		return fmt.Errorf("db: create dir %s: %w", dir, err)
	}
	return nil
}

func (d *DB) keepalive(every time.Duration) {
	ticker := time.NewTicker(every)
	defer ticker.Stop()
	for {
		select {
		case <-d.stop:
			return
		case <-ticker.C:
			ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			if err := d.PingContext(ctx); err != nil {
				log.Warn().Err(err).Str("dialect", string(d.Dialect)).Msg("Database ping failed")
			}
			cancel()
		}
	}
}

// Close stops the keepalive loop and closes the pool. Safe to call twice.
func (d *DB) Close() error {
	var err error
	d.closeOnce.Do(func() {
		close(d.stop)
		err = d.DB.Close()
	})
	return err
}
