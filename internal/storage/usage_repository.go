package storage

import (
	"context"
	"database/sql"
	"time"

	"github.com/ad/telegram-lead-admin/internal/domain"
)

// UsageRepository maintains per-identifier dispatch counters
type UsageRepository struct {
	queue *DBQueue
}

// NewUsageRepository creates a new UsageRepository
func NewUsageRepository(queue *DBQueue) *UsageRepository {
	return &UsageRepository{queue: queue}
}

// Record increments the dispatch counter for an identifier and updates last-seen
func (r *UsageRepository) Record(ctx context.Context, identifier string, at time.Time) error {
	return r.queue.Execute(ctx, func(db *sql.DB) error {
		_, err := db.ExecContext(ctx,
			`INSERT INTO callback_usage (identifier, count, failures, last_seen)
			 VALUES (?, 1, 0, ?)
			 ON CONFLICT(identifier) DO UPDATE SET
			   count = count + 1,
			   last_seen = excluded.last_seen`,
			identifier, at,
		)
		return err
	})
}

// RecordFailure increments the failure counter for an identifier
func (r *UsageRepository) RecordFailure(ctx context.Context, identifier string, at time.Time) error {
	return r.queue.Execute(ctx, func(db *sql.DB) error {
		_, err := db.ExecContext(ctx,
			`INSERT INTO callback_usage (identifier, count, failures, last_seen)
			 VALUES (?, 0, 1, ?)
			 ON CONFLICT(identifier) DO UPDATE SET
			   failures = failures + 1,
			   last_seen = excluded.last_seen`,
			identifier, at,
		)
		return err
	})
}

// Top retrieves the most dispatched identifiers, busiest first
func (r *UsageRepository) Top(ctx context.Context, limit int) ([]*domain.UsageStat, error) {
	var stats []*domain.UsageStat

	err := r.queue.Execute(ctx, func(db *sql.DB) error {
		rows, err := db.QueryContext(ctx,
			`SELECT identifier, count, failures, last_seen
			 FROM callback_usage ORDER BY count DESC, identifier LIMIT ?`,
			limit,
		)
		if err != nil {
			return err
		}
		defer func() { _ = rows.Close() }()

		for rows.Next() {
			var stat domain.UsageStat
			if err := rows.Scan(&stat.Identifier, &stat.Count, &stat.Failures, &stat.LastSeen); err != nil {
				return err
			}
			stats = append(stats, &stat)
		}

		return rows.Err()
	})

	if err != nil {
		return nil, err
	}
	return stats, nil
}
