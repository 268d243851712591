// Package storage provides access to the exported Ethopy experiment
// database. The acquisition system writes per-lab SQLite snapshots; all
// queries in this repository run against such a snapshot through
// database/sql.
package storage

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"

	_ "modernc.org/sqlite" // Pure Go SQLite driver

	"github.com/ef-lab/ethopy-analysis/internal/logging"
)

// DB represents a database connection with transaction helpers
type DB struct {
	conn   *sql.DB
	logger *logging.Logger
	dbPath string
}

// Open opens an existing experiment database snapshot.
// The file must already exist; use Create for tests and demo databases.
func Open(path string, logger *logging.Logger) (*DB, error) {
	if !fileExists(path) {
		return nil, fmt.Errorf("experiment database not found at %s", path)
	}
	return open(path, logger)
}

// Create opens the database at path, creating the file and the experiment
// schema when absent. Used by `init --demo` and by tests.
func Create(path string, logger *logging.Logger) (*DB, error) {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, fmt.Errorf("failed to create database directory: %w", err)
		}
	}

	db, err := open(path, logger)
	if err != nil {
		return nil, err
	}

	if err := db.EnsureSchema(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to initialize schema: %w", err)
	}
	return db, nil
}

func open(path string, logger *logging.Logger) (*DB, error) {
	conn, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	// Pragmas for performance and reliability
	pragmas := []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA synchronous=NORMAL",
		"PRAGMA foreign_keys=ON",
		"PRAGMA busy_timeout=5000",
		"PRAGMA cache_size=-64000", // 64MB cache
		"PRAGMA temp_store=MEMORY",
	}

	for _, pragma := range pragmas {
		if _, err := conn.Exec(pragma); err != nil {
			conn.Close()
			return nil, fmt.Errorf("failed to set pragma: %w", err)
		}
	}

	logger.Debug("Opened experiment database", map[string]interface{}{
		"path": path,
	})

	return &DB{
		conn:   conn,
		logger: logger,
		dbPath: path,
	}, nil
}

func fileExists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}

// Close closes the database connection
func (db *DB) Close() error {
	if db.conn != nil {
		return db.conn.Close()
	}
	return nil
}

// Conn returns the underlying sql.DB connection
func (db *DB) Conn() *sql.DB {
	return db.conn
}

// Path returns the database file path
func (db *DB) Path() string {
	return db.dbPath
}

// WithTx executes a function within a transaction.
// If the function returns an error, the transaction is rolled back.
func (db *DB) WithTx(fn func(*sql.Tx) error) error {
	tx, err := db.conn.Begin()
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}

	defer func() {
		if p := recover(); p != nil {
			_ = tx.Rollback()
			panic(p)
		}
	}()

	if err := fn(tx); err != nil {
		if rbErr := tx.Rollback(); rbErr != nil {
			return fmt.Errorf("rollback failed: %v (original error: %w)", rbErr, err)
		}
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}

// TableExists reports whether a table is present in the snapshot.
func (db *DB) TableExists(name string) (bool, error) {
	var n int
	err := db.conn.QueryRow(
		`SELECT COUNT(*) FROM sqlite_master WHERE type = 'table' AND name = ?`, name,
	).Scan(&n)
	if err != nil {
		return false, fmt.Errorf("failed to check table %s: %w", name, err)
	}
	return n > 0, nil
}

// ChildTables returns the tables whose names extend base with an
// underscore suffix, e.g. cond_grating -> cond_grating_movie. Condition
// classes store optional parameter groups in such child tables.
func (db *DB) ChildTables(base string) ([]string, error) {
	rows, err := db.conn.Query(
		`SELECT name FROM sqlite_master WHERE type = 'table' AND name LIKE ? || '_%' ORDER BY name`,
		base,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list child tables of %s: %w", base, err)
	}
	defer rows.Close()

	var children []string
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, err
		}
		children = append(children, name)
	}
	return children, rows.Err()
}

// TableColumns returns the column names of a table in declared order.
func (db *DB) TableColumns(name string) ([]string, error) {
	rows, err := db.conn.Query(fmt.Sprintf(`PRAGMA table_info(%q)`, name))
	if err != nil {
		return nil, fmt.Errorf("failed to read columns of %s: %w", name, err)
	}
	defer rows.Close()

	var cols []string
	for rows.Next() {
		var (
			cid        int
			colName    string
			colType    string
			notNull    int
			defaultVal sql.NullString
			pk         int
		)
		if err := rows.Scan(&cid, &colName, &colType, &notNull, &defaultVal, &pk); err != nil {
			return nil, err
		}
		cols = append(cols, colName)
	}
	return cols, rows.Err()
}
