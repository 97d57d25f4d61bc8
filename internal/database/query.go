package database

import (
	"database/sql"
	"time"
)

// GetRecentDeletions returns the N most recent deletion events
func (d *DeletionDB) GetRecentDeletions(limit int) ([]DeletionRecord, error) {
	query := `
	SELECT id, timestamp, action, path, file_name, object_type, size, error_message
	FROM deletions
	ORDER BY timestamp DESC
	LIMIT ?
	`
	return d.queryDeletions(query, limit)
}

// GetLargestDeletions returns the N largest removed items by size
func (d *DeletionDB) GetLargestDeletions(limit int) ([]DeletionRecord, error) {
	query := `
	SELECT id, timestamp, action, path, file_name, object_type, size, error_message
	FROM deletions
	WHERE action = 'DELETE'
	ORDER BY size DESC
	LIMIT ?
	`
	return d.queryDeletions(query, limit)
}

// GetDeletionsByAction returns deletions filtered by action type
func (d *DeletionDB) GetDeletionsByAction(action string) ([]DeletionRecord, error) {
	query := `
	SELECT id, timestamp, action, path, file_name, object_type, size, error_message
	FROM deletions
	WHERE action = ?
	ORDER BY timestamp DESC
	`
	return d.queryDeletions(query, action)
}

// GetDeletionsByPath returns deletions matching a path pattern
func (d *DeletionDB) GetDeletionsByPath(pathPattern string) ([]DeletionRecord, error) {
	query := `
	SELECT id, timestamp, action, path, file_name, object_type, size, error_message
	FROM deletions
	WHERE path LIKE ?
	ORDER BY timestamp DESC
	`
	return d.queryDeletions(query, pathPattern)
}

// GetTotalSpaceFreed returns total bytes freed in a time range
func (d *DeletionDB) GetTotalSpaceFreed(start, end time.Time) (int64, error) {
	query := `
	SELECT COALESCE(SUM(size), 0)
	FROM deletions
	WHERE action = 'DELETE' AND timestamp BETWEEN ? AND ?
	`
	var total int64
	err := d.db.QueryRow(query, start, end).Scan(&total)
	return total, err
}

func (d *DeletionDB) queryDeletions(query string, args ...interface{}) ([]DeletionRecord, error) {
	rows, err := d.db.Query(query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var records []DeletionRecord
	for rows.Next() {
		var r DeletionRecord
		var errMsg sql.NullString
		if err := rows.Scan(&r.ID, &r.Timestamp, &r.Action, &r.Path, &r.FileName, &r.ObjectType, &r.Size, &errMsg); err != nil {
			return nil, err
		}
		r.ErrorMessage = errMsg.String
		records = append(records, r)
	}
	return records, rows.Err()
}
