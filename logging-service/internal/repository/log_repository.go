package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"
)

// LogEntry is a persisted audit record.
type LogEntry struct {
	ID          int64     `json:"id"`
	Message     string    `json:"message"`
	MessageType string    `json:"messageType"`
	Endpoint    string    `json:"endpoint"`
	DateTime    time.Time `json:"dateTime"`
	ConsumedAt  time.Time `json:"consumedAt"`
}

type LogRepository struct {
	db *sql.DB
}

func NewLogRepository(db *sql.DB) *LogRepository {
	return &LogRepository{db: db}
}

func (r *LogRepository) Create(ctx context.Context, entry *LogEntry) error {
	query := `
		INSERT INTO log_entries (message, message_type, endpoint, date_time, consumed_at)
		VALUES ($1, $2, $3, $4, $5)
	`
	_, err := r.db.ExecContext(ctx, query,
		entry.Message, entry.MessageType, entry.Endpoint, entry.DateTime, entry.ConsumedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to store log entry: %w", err)
	}
	return nil
}

// ListRecent returns the newest entries, for the inspection endpoint.
func (r *LogRepository) ListRecent(ctx context.Context, limit int) ([]LogEntry, error) {
	query := `
		SELECT id, message, message_type, endpoint, date_time, consumed_at
		FROM log_entries
		ORDER BY consumed_at DESC
		LIMIT $1
	`
	rows, err := r.db.QueryContext(ctx, query, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list log entries: %w", err)
	}
	defer rows.Close()

	var entries []LogEntry
	for rows.Next() {
		var entry LogEntry
		if err := rows.Scan(
			&entry.ID, &entry.Message, &entry.MessageType, &entry.Endpoint,
			&entry.DateTime, &entry.ConsumedAt,
		); err != nil {
			return nil, fmt.Errorf("failed to scan log entry: %w", err)
		}
		entries = append(entries, entry)
	}
	return entries, rows.Err()
}
