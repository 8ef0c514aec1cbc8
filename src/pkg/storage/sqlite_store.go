package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"outliner/local-app/src/pkg/log"

	_ "github.com/mattn/go-sqlite3"
)

const (
	schemaQuery = `
		CREATE TABLE IF NOT EXISTS kv_store (
			key TEXT PRIMARY KEY,
			value TEXT NOT NULL,
			created DATETIME NOT NULL,
			updated DATETIME NOT NULL
		);
	`
	getQuery    = "SELECT value FROM kv_store WHERE key = ?"
	setQuery    = "INSERT INTO kv_store (key, value, created, updated) VALUES (?, ?, ?, ?) ON CONFLICT(key) DO UPDATE SET value = excluded.value, updated = excluded.updated"
	removeQuery = "DELETE FROM kv_store WHERE key = ?"
	keysQuery   = "SELECT key FROM kv_store ORDER BY key"
)

// SQLStore implements KVStore on a single SQL table
type SQLStore struct {
	db     *sql.DB
	logger *log.Logger
}

// OpenSQLite opens (creating if needed) the SQLite database file and its schema
func OpenSQLite(dataSourceName string, logger *log.Logger) (*SQLStore, error) {
	logger.Info(context.Background(), "Opening SQLite database", log.Fields{"dbPath": filepath.Base(dataSourceName)})

	// Ensure the directory for the database file exists
	dbDir := filepath.Dir(dataSourceName)
	if err := os.MkdirAll(dbDir, 0755); err != nil {
		logger.Error(context.Background(), "Failed to create database directory", log.Fields{"error": err, "directory": dbDir})
		return nil, fmt.Errorf("failed to create database directory '%s': %w", dbDir, err)
	}

	// Open the database connection with additional parameters
	db, err := sql.Open("sqlite3", dataSourceName+"?_journal_mode=WAL")
	if err != nil {
		logger.Error(context.Background(), "Failed to open SQLite database", log.Fields{"error": err})
		return nil, fmt.Errorf("failed to open SQLite database: %w", err)
	}

	// Set pragmas for better performance and reliability
	if _, err := db.Exec("PRAGMA synchronous = NORMAL"); err != nil {
		db.Close()
		logger.Error(context.Background(), "Failed to set SQLite synchronous pragma", log.Fields{"error": err})
		return nil, fmt.Errorf("failed to set SQLite synchronous pragma: %w", err)
	}

	// Verify the connection
	if err := db.Ping(); err != nil {
		db.Close()
		logger.Error(context.Background(), "Failed to verify database connection", log.Fields{"error": err})
		return nil, fmt.Errorf("failed to verify database connection: %w", err)
	}

	store, err := NewSQLStore(db, logger)
	if err != nil {
		db.Close()
		return nil, err
	}

	logger.Info(context.Background(), "SQLite database opened successfully", nil)
	return store, nil
}

// NewSQLStore wraps an open database and initializes the schema
func NewSQLStore(db *sql.DB, logger *log.Logger) (*SQLStore, error) {
	s := &SQLStore{db: db, logger: logger}
	if err := s.initSchema(); err != nil {
		return nil, err
	}
	return s, nil
}

// initSchema initializes the database schema
func (s *SQLStore) initSchema() error {
	s.logger.Info(context.Background(), "Initializing database schema", nil)

	if _, err := s.db.Exec(schemaQuery); err != nil {
		s.logger.Error(context.Background(), "Failed to create tables", log.Fields{"error": err})
		return fmt.Errorf("failed to create tables: %w", err)
	}

	s.logger.Info(context.Background(), "Database schema initialized successfully", nil)
	return nil
}

// Get retrieves the value stored under key
func (s *SQLStore) Get(ctx context.Context, key string) (string, error) {
	s.logger.Debug(ctx, "Querying", log.Fields{"query": getQuery, "key": key})

	var value string
	err := s.db.QueryRowContext(ctx, getQuery, key).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return "", notFound(key)
	}
	if err != nil {
		s.logger.Error(ctx, "Failed to read value", log.Fields{"error": err, "key": key})
		return "", accessError("get", key, err)
	}
	return value, nil
}

// Set inserts or replaces the value stored under key
func (s *SQLStore) Set(ctx context.Context, key, value string) error {
	s.logger.Debug(ctx, "Executing query", log.Fields{"query": setQuery, "key": key})

	now := time.Now()
	if _, err := s.db.ExecContext(ctx, setQuery, key, value, now, now); err != nil {
		s.logger.Error(ctx, "Failed to write value", log.Fields{"error": err, "key": key})
		return accessError("set", key, err)
	}
	return nil
}

// Remove deletes the value stored under key
func (s *SQLStore) Remove(ctx context.Context, key string) error {
	s.logger.Debug(ctx, "Executing query", log.Fields{"query": removeQuery, "key": key})

	if _, err := s.db.ExecContext(ctx, removeQuery, key); err != nil {
		s.logger.Error(ctx, "Failed to remove value", log.Fields{"error": err, "key": key})
		return accessError("remove", key, err)
	}
	return nil
}

// Keys lists stored keys in ascending order
func (s *SQLStore) Keys(ctx context.Context) ([]string, error) {
	rows, err := s.db.QueryContext(ctx, keysQuery)
	if err != nil {
		s.logger.Error(ctx, "Failed to list keys", log.Fields{"error": err})
		return nil, accessError("keys", "", err)
	}
	defer rows.Close()

	var keys []string
	for rows.Next() {
		var key string
		if err := rows.Scan(&key); err != nil {
			return nil, accessError("keys", "", err)
		}
		keys = append(keys, key)
	}
	if err := rows.Err(); err != nil {
		return nil, accessError("keys", "", err)
	}
	return keys, nil
}

// Close closes the connection to the database
func (s *SQLStore) Close() error {
	s.logger.Info(context.Background(), "Closing SQLite database", nil)
	if err := s.db.Close(); err != nil {
		s.logger.Error(context.Background(), "Failed to close SQLite database", log.Fields{"error": err})
		return fmt.Errorf("failed to close SQLite database: %w", err)
	}
	return nil
}
