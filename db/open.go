// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package db

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"strings"

	_ "github.com/lib/pq"
	_ "modernc.org/sqlite" // pure go sqlite driver
)

// ErrDatabaseNotFound is returned when a SQLite path does not exist.
var ErrDatabaseNotFound = errors.New("database file not found")

// Open connects to the mentorship database and checks the required tables.
// SQLite files are opened read-only and must already exist.
func Open(ctx context.Context, databaseURL, databaseType string) (*sql.DB, error) {
	driver, dsn, err := dataSource(databaseURL, databaseType)
	if err != nil {
		return nil, err
	}

	conn, err := sql.Open(driver, dsn)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", driver, err)
	}

	if err := conn.PingContext(ctx); err != nil {
		conn.Close()
		return nil, fmt.Errorf("ping %s: %w", driver, err)
	}

	if err := CheckSchema(ctx, conn, databaseType); err != nil {
		conn.Close()
		return nil, err
	}

	return conn, nil
}

func dataSource(databaseURL, databaseType string) (driver, dsn string, err error) {
	switch databaseType {
	case "postgres":
		return "postgres", databaseURL, nil
	case "", "sqlite":
	default:
		return "", "", fmt.Errorf("unsupported database type %q", databaseType)
	}

	path := strings.TrimPrefix(databaseURL, "file:")
	if i := strings.IndexByte(path, '?'); i >= 0 {
		path = path[:i]
	}
	if _, err := os.Stat(path); err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return "", "", fmt.Errorf("%w: %s", ErrDatabaseNotFound, path)
		}
		return "", "", fmt.Errorf("stat database: %w", err)
	}

	return "sqlite", "file:" + path + "?mode=ro", nil
}
