package store

import (
	"context"
	"fmt"
	"time"
)

// VisitorMetric is a privacy-conscious page view record.
type VisitorMetric struct {
	ID        int64     `json:"id"`
	HashedIP  string    `json:"hashed_ip"`
	UserAgent string    `json:"user_agent"`
	Path      string    `json:"path"`
	Timestamp time.Time `json:"timestamp"`
}

// VisitorRetention is how long visitor records are kept.
const VisitorRetention = 365 * 24 * time.Hour

// RecordVisit stores one page view.
func (d *DB) RecordVisit(ctx context.Context, v VisitorMetric) error {
	if v.Timestamp.IsZero() {
		v.Timestamp = time.Now()
	}
	_, err := d.ExecContext(ctx, `
		INSERT INTO visitors (hashed_ip, user_agent, path, timestamp)
		VALUES (?, ?, ?, ?)`,
		v.HashedIP, v.UserAgent, v.Path, formatTime(v.Timestamp))
	if err != nil {
		return fmt.Errorf("recording visit: %w", err)
	}
	return nil
}

// CleanupVisitors deletes visitor records older than before and returns how
// many were removed.
func (d *DB) CleanupVisitors(ctx context.Context, before time.Time) (int64, error) {
	res, err := d.ExecContext(ctx, `DELETE FROM visitors WHERE timestamp < ?`, formatTime(before))
	if err != nil {
		return 0, fmt.Errorf("cleaning visitors: %w", err)
	}
	n, _ := res.RowsAffected()
	return n, nil
}

// RecentVisitors returns the newest visitor records first.
func (d *DB) RecentVisitors(ctx context.Context, limit int) ([]VisitorMetric, error) {
	rows, err := d.QueryContext(ctx, `
		SELECT id, hashed_ip, user_agent, path, timestamp
		FROM visitors
		ORDER BY timestamp DESC, id DESC
		LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("querying visitors: %w", err)
	}
	defer rows.Close()

	var out []VisitorMetric
	for rows.Next() {
		var v VisitorMetric
		var ts string
		if err := rows.Scan(&v.ID, &v.HashedIP, &v.UserAgent, &v.Path, &ts); err != nil {
			return nil, fmt.Errorf("scanning visitor: %w", err)
		}
		v.Timestamp = parseTime(ts)
		out = append(out, v)
	}
	return out, rows.Err()
}
