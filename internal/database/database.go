package database

import (
	"database/sql"
	"fmt"
	"net/url"
	"sync"

	"github.com/rs/zerolog/log"
	_ "modernc.org/sqlite"

	"github.com/saltyorg/contentdb/internal/config"
)

// db wraps the SQLite database connection
type db struct {
	conn *sql.DB
	path string
	mu   sync.RWMutex
}

// New opens the database at path and returns the Manager entrypoint
func New(path string) (*Manager, error) {
	busy := config.GetTimeouts().Busy.Milliseconds()

	// SQLite connection with WAL mode for concurrent readers. Times are written
	// in SQLite's own format so zoned values parse back on read.
	dsn := fmt.Sprintf("file:%s?_pragma=journal_mode(WAL)&_pragma=busy_timeout(%d)&_pragma=foreign_keys(1)&_time_format=sqlite",
		(&url.URL{Path: path}).EscapedPath(), busy)

	conn, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	// Test connection
	if err := conn.Ping(); err != nil {
		conn.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	// SQLite with WAL mode supports concurrent reads but serializes writes
	conn.SetMaxOpenConns(10)
	conn.SetMaxIdleConns(5)

	log.Debug().Str("path", path).Msg("Database connection established")

	return newManager(&db{
		conn: conn,
		path: path,
	}), nil
}

// Path returns the database file path
func (db *db) Path() string {
	return db.path
}

// Close closes the underlying connection pool
func (db *db) Close() error {
	if db == nil || db.conn == nil {
		return nil
	}
	log.Debug().Str("path", db.path).Msg("Closing database connection")
	return db.conn.Close()
}

// Transaction wraps a function in a database transaction
func (db *db) Transaction(fn func(*sql.Tx) error) error {
	db.mu.Lock()
	defer db.mu.Unlock()

	tx, err := db.begin()
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}

	if err := fn(tx); err != nil {
		if rbErr := tx.Rollback(); rbErr != nil {
			log.Error().Err(rbErr).Msg("Failed to rollback transaction")
		}
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}

	return nil
}
