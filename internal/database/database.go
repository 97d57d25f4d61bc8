package database

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "github.com/mattn/go-sqlite3"
)

// DeletionDB manages the SQLite database for deletion history
type DeletionDB struct {
	db *sql.DB
}

// DeletionRecord represents a single recorded deletion event
type DeletionRecord struct {
	ID           int64
	Timestamp    time.Time
	Action       string // DELETE, DRY_RUN, or ERROR
	Path         string
	FileName     string
	ObjectType   string // file or directory
	Size         int64
	ErrorMessage string
}

// NewDeletionDB creates a new database connection and initializes schema
func NewDeletionDB(dbPath string) (*DeletionDB, error) {
	// Create parent directory if it doesn't exist
	dir := filepath.Dir(dbPath)
	if dir != "" && dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, fmt.Errorf("failed to create database directory %s: %w", dir, err)
		}
	}

	db, err := sql.Open("sqlite3", dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	d := &DeletionDB{db: db}
	if err := d.initSchema(); err != nil {
		db.Close()
		return nil, err
	}
	return d, nil
}

func (d *DeletionDB) initSchema() error {
	schema := `
	CREATE TABLE IF NOT EXISTS deletions (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		timestamp DATETIME NOT NULL,
		action TEXT NOT NULL,
		path TEXT NOT NULL,
		file_name TEXT NOT NULL,
		object_type TEXT NOT NULL,
		size INTEGER NOT NULL,
		error_message TEXT,
		created_at DATETIME DEFAULT CURRENT_TIMESTAMP
	);
	CREATE INDEX IF NOT EXISTS idx_deletions_timestamp ON deletions(timestamp);
	CREATE INDEX IF NOT EXISTS idx_deletions_action ON deletions(action);
	CREATE INDEX IF NOT EXISTS idx_deletions_path ON deletions(path);
	`
	if _, err := d.db.Exec(schema); err != nil {
		return fmt.Errorf("failed to initialize schema: %w", err)
	}
	return nil
}

// RecordDeletion records one processed pipeline event. Implements
// pipeline.Recorder.
func (d *DeletionDB) RecordDeletion(action, path, objectType string, size int64, errMsg string) error {
	query := `
	INSERT INTO deletions (timestamp, action, path, file_name, object_type, size, error_message)
	VALUES (?, ?, ?, ?, ?, ?, ?)
	`
	_, err := d.db.Exec(query, time.Now(), action, path, filepath.Base(path), objectType, size, errMsg)
	if err != nil {
		return fmt.Errorf("failed to record deletion: %w", err)
	}
	return nil
}

// Close closes the database connection
func (d *DeletionDB) Close() error {
	return d.db.Close()
}

// GetDatabaseStats returns record count and database size
func (d *DeletionDB) GetDatabaseStats() (map[string]interface{}, error) {
	dbStats := make(map[string]interface{})

	var totalRecords int64
	if err := d.db.QueryRow("SELECT COUNT(*) FROM deletions").Scan(&totalRecords); err != nil {
		return nil, err
	}
	dbStats["total_records"] = totalRecords

	var pageCount, pageSize int64
	if err := d.db.QueryRow("PRAGMA page_count").Scan(&pageCount); err != nil {
		return nil, err
	}
	if err := d.db.QueryRow("PRAGMA page_size").Scan(&pageSize); err != nil {
		return nil, err
	}
	dbStats["database_size_bytes"] = pageCount * pageSize

	return dbStats, nil
}
