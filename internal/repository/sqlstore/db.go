// Package sqlstore implements the repositories on top of database/sql via
// sqlx. The same queries run on PostgreSQL (lib/pq) and SQLite
// (modernc.org/sqlite); they are written with '?' and rebound per driver.
package sqlstore

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
	_ "modernc.org/sqlite"
)

const (
	DriverPostgres = "postgres"
	DriverSQLite   = "sqlite"
)

func init() {
	sqlx.BindDriver(DriverSQLite, sqlx.QUESTION)
}

// Open connects to the database and creates the tables if needed. For
// sqlite, dsn is a file path or ":memory:".
func Open(ctx context.Context, driver, dsn string) (*sqlx.DB, error) {
	switch driver {
	case DriverSQLite:
		return openSQLite(dsn)
	case DriverPostgres:
		db, err := sqlx.Open(DriverPostgres, dsn)
		if err != nil {
			return nil, fmt.Errorf("failed to open database: %w", err)
		}
		pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
		defer cancel()
		if err := db.PingContext(pingCtx); err != nil {
			db.Close()
			return nil, fmt.Errorf("failed to connect to database: %w", err)
		}
		if err := InitializeDatabase(db); err != nil {
			db.Close()
			return nil, err
		}
		return db, nil
	default:
		return nil, fmt.Errorf("unsupported database driver: %s", driver)
	}
}

func openSQLite(path string) (*sqlx.DB, error) {
	if path != ":memory:" && !strings.HasPrefix(path, "file:") {
		if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
			return nil, fmt.Errorf("failed to create database directory: %w", err)
		}
	}

	db, err := sqlx.Open(DriverSQLite, sqliteDSN(path))
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	// a single connection keeps :memory: databases shared and serializes writers
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)

	if err := InitializeDatabase(db); err != nil {
		db.Close()
		return nil, err
	}
	return db, nil
}

// sqliteDSN appends the driver options to path, keeping any query the
// caller already put on a file: URI.
func sqliteDSN(path string) string {
	sep := "?"
	if strings.Contains(path, "?") {
		sep = "&"
	}
	return path + sep + "_time_format=sqlite&_pragma=foreign_keys(1)"
}

func InitializeDatabase(db *sqlx.DB) error {
	// sqlite orders by its implicit rowid instead
	seq := "\n\t\t\tseq BIGSERIAL,"
	if db.DriverName() == DriverSQLite {
		seq = ""
	}

	tables := []string{
		`CREATE TABLE IF NOT EXISTS emails (
			id VARCHAR(255) PRIMARY KEY,` + seq + `
			sender TEXT NOT NULL,
			recipients TEXT,
			subject TEXT NOT NULL,
			body TEXT NOT NULL,
			received_at TIMESTAMP NOT NULL,
			created_at TIMESTAMP NOT NULL
		)`,
		`CREATE TABLE IF NOT EXISTS email_processing (
			id VARCHAR(255) PRIMARY KEY,
			email_id VARCHAR(255) UNIQUE NOT NULL REFERENCES emails(id) ON DELETE CASCADE,
			category VARCHAR(32),
			tasks_json TEXT NOT NULL,
			draft_json TEXT,
			updated_at TIMESTAMP NOT NULL
		)`,
		`CREATE TABLE IF NOT EXISTS prompts (
			prompt_key VARCHAR(255) PRIMARY KEY,
			text TEXT NOT NULL,
			updated_at TIMESTAMP NOT NULL
		)`,
		`CREATE TABLE IF NOT EXISTS drafts (
			id VARCHAR(255) PRIMARY KEY,
			email_id VARCHAR(255) NOT NULL,
			subject TEXT NOT NULL,
			body TEXT NOT NULL,
			created_at TIMESTAMP NOT NULL
		)`,
		`CREATE INDEX IF NOT EXISTS idx_emails_received_at ON emails (received_at)`,
	}

	for _, table := range tables {
		_, err := db.Exec(table)
		if err != nil {
			return fmt.Errorf("failed to create table: %w", err)
		}
	}

	return nil
}

// orderColumn is the insertion-order tie breaker for emails.
func orderColumn(db *sqlx.DB) string {
	if db.DriverName() == DriverSQLite {
		return "rowid"
	}
	return "seq"
}
