package database

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
	_ "github.com/mattn/go-sqlite3"
)

// Config describes where the vocabulary database lives
type Config struct {
	// Driver is "sqlite3" (default) or "postgres"
	Driver string
	// Path is the sqlite database file, ignored for postgres
	Path string
	// DSN is the postgres connection string, ignored for sqlite
	DSN string
}

// DB wraps the database handle shared by the repositories
type DB struct {
	*sqlx.DB
}

// Connect opens the database and initializes the schema
func Connect(cfg Config) (*DB, error) {
	driver := cfg.Driver
	if driver == "" {
		driver = "sqlite3"
	}

	var db *sqlx.DB
	var err error

	switch driver {
	case "sqlite3":
		path := cfg.Path
		if path == "" {
			path = filepath.Join("data", "vocab.db")
		}
		if path != ":memory:" {
			if dir := filepath.Dir(path); dir != "." {
				if err := os.MkdirAll(dir, 0755); err != nil {
					return nil, fmt.Errorf("failed to create data directory: %v", err)
				}
			}
		}
		db, err = sqlx.Connect("sqlite3", path)
		if err != nil {
			return nil, fmt.Errorf("failed to connect to database: %v", err)
		}
		if _, err := db.Exec("PRAGMA foreign_keys = ON"); err != nil {
			return nil, fmt.Errorf("failed to enable foreign keys: %v", err)
		}
		// SQLite doesn't support multiple writers
		db.SetMaxOpenConns(1)
		db.SetMaxIdleConns(1)
	case "postgres":
		db, err = sqlx.Connect("postgres", cfg.DSN)
		if err != nil {
			return nil, fmt.Errorf("failed to connect to database: %v", err)
		}
	default:
		return nil, fmt.Errorf("unsupported database driver: %s", driver)
	}

	d := &DB{DB: db}
	if err := d.initializeSchema(); err != nil {
		db.Close()
		return nil, err
	}
	return d, nil
}

// Close closes the database connection
func (d *DB) Close() error {
	if d.DB != nil {
		return d.DB.Close()
	}
	return nil
}

// initializeSchema creates necessary tables if they don't exist
func (d *DB) initializeSchema() error {
	serial := "INTEGER PRIMARY KEY AUTOINCREMENT"
	if d.DriverName() == "postgres" {
		serial = "SERIAL PRIMARY KEY"
	}

	// Main vocabulary table: one row per canonical word form
	_, err := d.Exec(`
		CREATE TABLE IF NOT EXISTS vocab (
			word TEXT PRIMARY KEY,
			pos TEXT,
			is_regular BOOLEAN,
			translation TEXT,
			difficulty INTEGER NOT NULL DEFAULT 3
		)
	`)
	if err != nil {
		return fmt.Errorf("failed to create vocab table: %v", err)
	}

	_, err = d.Exec(fmt.Sprintf(`
		CREATE TABLE IF NOT EXISTS tags (
			tag_id %s,
			tag_name TEXT UNIQUE NOT NULL,
			description TEXT
		)
	`, serial))
	if err != nil {
		return fmt.Errorf("failed to create tags table: %v", err)
	}

	_, err = d.Exec(`
		CREATE TABLE IF NOT EXISTS word_tags (
			word TEXT NOT NULL,
			tag_id INTEGER NOT NULL,
			PRIMARY KEY (word, tag_id),
			FOREIGN KEY (word) REFERENCES vocab (word) ON DELETE CASCADE,
			FOREIGN KEY (tag_id) REFERENCES tags (tag_id) ON DELETE CASCADE
		)
	`)
	if err != nil {
		return fmt.Errorf("failed to create word_tags table: %v", err)
	}

	// Session-scoped staging area for candidates awaiting review
	_, err = d.Exec(`
		CREATE TABLE IF NOT EXISTS staged_candidates (
			surface_form TEXT NOT NULL,
			lemma TEXT NOT NULL,
			pos TEXT,
			translation TEXT,
			is_regular BOOLEAN,
			session_id TEXT NOT NULL,
			created_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP,
			PRIMARY KEY (lemma, session_id)
		)
	`)
	if err != nil {
		return fmt.Errorf("failed to create staged_candidates table: %v", err)
	}

	return nil
}

// nullable converts "" to NULL so optional text columns stay NULL instead
// of accumulating empty strings
func nullable(s string) interface{} {
	if s == "" {
		return nil
	}
	return s
}
