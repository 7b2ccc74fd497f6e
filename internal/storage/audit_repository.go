package storage

import (
	"context"
	"database/sql"
	"time"

	"github.com/ad/telegram-lead-admin/internal/domain"
)

// AuditRepository provides read access to the segment-change audit log.
// Entries are appended by LeadRepository.SetSegment inside the same
// transaction that performs the segment change.
type AuditRepository struct {
	queue *DBQueue
}

// NewAuditRepository creates a new AuditRepository
func NewAuditRepository(queue *DBQueue) *AuditRepository {
	return &AuditRepository{queue: queue}
}

// ListByLead retrieves all audit entries for a lead, oldest first
func (r *AuditRepository) ListByLead(ctx context.Context, leadID string) ([]*domain.AuditEntry, error) {
	var entries []*domain.AuditEntry

	err := r.queue.Execute(ctx, func(db *sql.DB) error {
		rows, err := db.QueryContext(ctx,
			`SELECT id, lead_id, old_segment, new_segment, admin_user_id, timestamp
			 FROM audit_log WHERE lead_id = ? ORDER BY id`,
			leadID,
		)
		if err != nil {
			return err
		}
		defer func() { _ = rows.Close() }()

		for rows.Next() {
			var entry domain.AuditEntry
			if err := rows.Scan(
				&entry.ID, &entry.LeadID, &entry.OldSegment,
				&entry.NewSegment, &entry.AdminID, &entry.Timestamp,
			); err != nil {
				return err
			}
			entries = append(entries, &entry)
		}

		return rows.Err()
	})

	if err != nil {
		return nil, err
	}
	return entries, nil
}

// CountSince counts audit entries recorded at or after the given time
func (r *AuditRepository) CountSince(ctx context.Context, since time.Time) (int64, error) {
	var count int64

	err := r.queue.Execute(ctx, func(db *sql.DB) error {
		return db.QueryRowContext(ctx,
			`SELECT COUNT(*) FROM audit_log WHERE timestamp >= ?`, since,
		).Scan(&count)
	})

	if err != nil {
		return 0, err
	}
	return count, nil
}
