package db

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/stdlib"
	"github.com/jmoiron/sqlx"
	_ "modernc.org/sqlite"
)

// helper to read env with default
func getenv(key, def string) string {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	return v
}

// Postgres opens a pooled Postgres connection through the pgx stdlib
// adapter and verifies connectivity before returning.
func Postgres(dsn string) (*sqlx.DB, error) {
	// Parse DSN → pgx config struct
	cfg, err := pgx.ParseConfig(dsn)
	if err != nil {
		return nil, fmt.Errorf("db: failed to parse DSN: %w", err)
	}

	// Fail fast on startup if PG is unreachable
	cfg.ConnectTimeout = 5 * time.Second

	// Create sql.DB using pgx's stdlib adapter
	sqlDB := stdlib.OpenDB(*cfg)

	// Wrap in sqlx for named queries & struct scanning
	db := sqlx.NewDb(sqlDB, "pgx")

	// ---- Connection Pool Settings ----
	maxOpen, _ := strconv.Atoi(getenv("DB_MAX_OPEN", "25"))
	maxIdle, _ := strconv.Atoi(getenv("DB_MAX_IDLE", "25"))
	lifetime, _ := strconv.Atoi(getenv("DB_MAX_LIFETIME", "300")) // seconds

	db.SetMaxOpenConns(maxOpen)
	db.SetMaxIdleConns(maxIdle)
	db.SetConnMaxLifetime(time.Duration(lifetime) * time.Second)

	// ---- Connectivity Check ----
	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("db: failed to connect to Postgres: %w", err)
	}

	// ---- Health Check Query ----
	var tmp int
	if err := db.QueryRow("SELECT 1").Scan(&tmp); err != nil {
		return nil, fmt.Errorf("db: health check failed: %w", err)
	}

	return db, nil
}

// SQLite opens (creating if needed) the database file at path using the
// cgo-free modernc driver. The pool is capped at one connection since
// SQLite permits a single writer.
func SQLite(path string) (*sqlx.DB, error) {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, fmt.Errorf("db: create data dir: %w", err)
		}
	}

	conn, err := sqlx.Connect("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("db: open sqlite file %s: %w", path, err)
	}

	conn.SetMaxOpenConns(1)

	return conn, nil
}
