package store

import (
	"context"
	"fmt"
	"time"
)

// Stats summarizes the site for the admin dashboard.
type Stats struct {
	TotalVisitors    int64           `json:"total_visitors"`
	UniqueVisitors   int64           `json:"unique_visitors"`
	VisitorsToday    int64           `json:"visitors_today"`
	VisitorsThisWeek int64           `json:"visitors_this_week"`
	TotalMessages    int64           `json:"total_messages"`
	FailedMessages   int64           `json:"failed_messages"`
	TopPaths         []PathCount     `json:"top_paths"`
	RecentVisitors   []VisitorMetric `json:"recent_visitors"`
	RecentMessages   []Message       `json:"recent_messages"`
}

// PathCount is the number of views of a path.
type PathCount struct {
	Path  string `json:"path"`
	Views int64  `json:"views"`
}

// Stats computes dashboard statistics relative to now.
func (d *DB) Stats(ctx context.Context, now time.Time) (*Stats, error) {
	stats := &Stats{}
	now = now.UTC()
	startOfDay := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)

	counts := []struct {
		dst   *int64
		query string
		args  []any
	}{
		{&stats.TotalVisitors, `SELECT COUNT(*) FROM visitors`, nil},
		{&stats.UniqueVisitors, `SELECT COUNT(DISTINCT hashed_ip) FROM visitors`, nil},
		{&stats.VisitorsToday, `SELECT COUNT(*) FROM visitors WHERE timestamp >= ?`, []any{formatTime(startOfDay)}},
		{&stats.VisitorsThisWeek, `SELECT COUNT(*) FROM visitors WHERE timestamp >= ?`, []any{formatTime(now.Add(-7 * 24 * time.Hour))}},
		{&stats.TotalMessages, `SELECT COUNT(*) FROM messages`, nil},
		{&stats.FailedMessages, `SELECT COUNT(*) FROM messages WHERE status = 'failed'`, nil},
	}
	for _, c := range counts {
		if err := d.QueryRowContext(ctx, c.query, c.args...).Scan(c.dst); err != nil {
			return nil, fmt.Errorf("stats: %w", err)
		}
	}

	var err error
	if stats.TopPaths, err = d.topPaths(ctx, 10); err != nil {
		return nil, err
	}
	if stats.RecentVisitors, err = d.RecentVisitors(ctx, 50); err != nil {
		return nil, err
	}
	if stats.RecentMessages, err = d.RecentMessages(ctx, 10); err != nil {
		return nil, err
	}
	return stats, nil
}

func (d *DB) topPaths(ctx context.Context, limit int) ([]PathCount, error) {
	rows, err := d.QueryContext(ctx, `
		SELECT path, COUNT(*) AS views
		FROM visitors
		GROUP BY path
		ORDER BY views DESC, path ASC
		LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("stats: top paths: %w", err)
	}
	defer rows.Close()

	var out []PathCount
	for rows.Next() {
		var pc PathCount
		if err := rows.Scan(&pc.Path, &pc.Views); err != nil {
			return nil, fmt.Errorf("stats: scanning path: %w", err)
		}
		out = append(out, pc)
	}
	return out, rows.Err()
}
