package storage

import (
	"context"
	"database/sql"
	"encoding/json"
	"time"

	"github.com/ad/telegram-lead-admin/internal/domain"
)

// LeadRepository handles lead data operations
type LeadRepository struct {
	queue *DBQueue
}

// NewLeadRepository creates a new LeadRepository
func NewLeadRepository(queue *DBQueue) *LeadRepository {
	return &LeadRepository{queue: queue}
}

const leadColumns = `id, name, username, segment, primary_issue, scores_json, answers_json,
	created_at, processed, processed_at, urgent, urgent_at`

// scanLead scans one lead row from either *sql.Row or *sql.Rows
func scanLead(scan func(dest ...any) error) (*domain.Lead, error) {
	var lead domain.Lead
	var scoresJSON, answersJSON string
	var processed, urgent int
	var processedAt, urgentAt sql.NullTime

	if err := scan(
		&lead.ID, &lead.Name, &lead.Username, &lead.Analysis.Segment,
		&lead.Analysis.PrimaryIssue, &scoresJSON, &answersJSON,
		&lead.CreatedAt, &processed, &processedAt, &urgent, &urgentAt,
	); err != nil {
		return nil, err
	}

	if err := json.Unmarshal([]byte(scoresJSON), &lead.Analysis.Scores); err != nil {
		return nil, err
	}
	if err := json.Unmarshal([]byte(answersJSON), &lead.Answers); err != nil {
		return nil, err
	}

	lead.Processed = processed != 0
	if processedAt.Valid {
		t := processedAt.Time
		lead.ProcessedAt = &t
	}
	lead.Urgent = urgent != 0
	if urgentAt.Valid {
		t := urgentAt.Time
		lead.UrgentAt = &t
	}

	return &lead, nil
}

// Get retrieves a lead by ID, returning (nil, nil) when absent
func (r *LeadRepository) Get(ctx context.Context, id string) (*domain.Lead, error) {
	var lead *domain.Lead

	err := r.queue.Execute(ctx, func(db *sql.DB) error {
		row := db.QueryRowContext(ctx,
			`SELECT `+leadColumns+` FROM leads WHERE id = ?`, id)

		var err error
		lead, err = scanLead(row.Scan)
		return err
	})

	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return lead, nil
}

// Put inserts or replaces a lead and keeps segment_index in sync
func (r *LeadRepository) Put(ctx context.Context, lead *domain.Lead) error {
	if err := lead.Validate(); err != nil {
		return err
	}

	return r.queue.Execute(ctx, func(db *sql.DB) error {
		scoresJSON, err := json.Marshal(lead.Analysis.Scores)
		if err != nil {
			return err
		}
		answers := lead.Answers
		if answers == nil {
			answers = map[string]any{}
		}
		answersJSON, err := json.Marshal(answers)
		if err != nil {
			return err
		}

		tx, err := db.BeginTx(ctx, nil)
		if err != nil {
			return err
		}
		defer func() { _ = tx.Rollback() }()

		var processedAt, urgentAt interface{}
		if lead.ProcessedAt != nil {
			processedAt = *lead.ProcessedAt
		}
		if lead.UrgentAt != nil {
			urgentAt = *lead.UrgentAt
		}

		_, err = tx.ExecContext(ctx,
			`INSERT OR REPLACE INTO leads
			 (id, name, username, segment, primary_issue, scores_json, answers_json,
			  created_at, processed, processed_at, urgent, urgent_at)
			 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
			lead.ID, lead.Name, lead.Username, lead.Analysis.Segment,
			lead.Analysis.PrimaryIssue, scoresJSON, answersJSON,
			lead.CreatedAt, boolToInt(lead.Processed), processedAt,
			boolToInt(lead.Urgent), urgentAt,
		)
		if err != nil {
			return err
		}

		_, err = tx.ExecContext(ctx,
			`INSERT OR REPLACE INTO segment_index (lead_id, segment) VALUES (?, ?)`,
			lead.ID, lead.Analysis.Segment,
		)
		if err != nil {
			return err
		}

		return tx.Commit()
	})
}

// ListAll retrieves all leads in original storage order
func (r *LeadRepository) ListAll(ctx context.Context) ([]*domain.Lead, error) {
	var leads []*domain.Lead

	err := r.queue.Execute(ctx, func(db *sql.DB) error {
		rows, err := db.QueryContext(ctx,
			`SELECT `+leadColumns+` FROM leads ORDER BY rowid`)
		if err != nil {
			return err
		}
		defer func() { _ = rows.Close() }()

		for rows.Next() {
			lead, err := scanLead(rows.Scan)
			if err != nil {
				return err
			}
			leads = append(leads, lead)
		}

		return rows.Err()
	})

	if err != nil {
		return nil, err
	}
	return leads, nil
}

// GetSegment reads the current segment for a lead from the segment index
func (r *LeadRepository) GetSegment(ctx context.Context, id string) (domain.Segment, bool, error) {
	var segment domain.Segment

	err := r.queue.Execute(ctx, func(db *sql.DB) error {
		return db.QueryRowContext(ctx,
			`SELECT segment FROM segment_index WHERE lead_id = ?`, id,
		).Scan(&segment)
	})

	if err == sql.ErrNoRows {
		return "", false, nil
	}
	if err != nil {
		return "", false, err
	}
	return segment, true, nil
}

// SetSegment changes a lead's segment. The lead record, the segment index and
// the audit log are all written in a single transaction, so no intermediate
// state where the two segment copies diverge is ever observable. Setting the
// segment a lead already has is not an error and still appends an audit entry.
func (r *LeadRepository) SetSegment(ctx context.Context, id string, segment domain.Segment, adminID int64, now time.Time) error {
	if !segment.Valid() {
		return domain.ErrInvalidSegment
	}

	return r.queue.Execute(ctx, func(db *sql.DB) error {
		tx, err := db.BeginTx(ctx, nil)
		if err != nil {
			return err
		}
		defer func() { _ = tx.Rollback() }()

		var oldSegment domain.Segment
		err = tx.QueryRowContext(ctx,
			`SELECT segment FROM leads WHERE id = ?`, id,
		).Scan(&oldSegment)
		if err == sql.ErrNoRows {
			return domain.ErrLeadNotFound
		}
		if err != nil {
			return err
		}

		if _, err := tx.ExecContext(ctx,
			`UPDATE leads SET segment = ? WHERE id = ?`, segment, id,
		); err != nil {
			return err
		}

		if _, err := tx.ExecContext(ctx,
			`INSERT OR REPLACE INTO segment_index (lead_id, segment) VALUES (?, ?)`,
			id, segment,
		); err != nil {
			return err
		}

		if _, err := tx.ExecContext(ctx,
			`INSERT INTO audit_log (lead_id, old_segment, new_segment, admin_user_id, timestamp)
			 VALUES (?, ?, ?, ?, ?)`,
			id, oldSegment, segment, adminID, now,
		); err != nil {
			return err
		}

		return tx.Commit()
	})
}

// SetProcessed sets or clears the processed flag. Clearing reopens the lead.
func (r *LeadRepository) SetProcessed(ctx context.Context, id string, processed bool, now time.Time) error {
	return r.setFlag(ctx, id, "processed", "processed_at", processed, now)
}

// SetUrgent sets or clears the urgent-processing flag
func (r *LeadRepository) SetUrgent(ctx context.Context, id string, urgent bool, now time.Time) error {
	return r.setFlag(ctx, id, "urgent", "urgent_at", urgent, now)
}

func (r *LeadRepository) setFlag(ctx context.Context, id, flagCol, atCol string, value bool, now time.Time) error {
	return r.queue.Execute(ctx, func(db *sql.DB) error {
		var at interface{}
		if value {
			at = now
		}

		result, err := db.ExecContext(ctx,
			`UPDATE leads SET `+flagCol+` = ?, `+atCol+` = ? WHERE id = ?`,
			boolToInt(value), at, id,
		)
		if err != nil {
			return err
		}

		affected, err := result.RowsAffected()
		if err != nil {
			return err
		}
		if affected == 0 {
			return domain.ErrLeadNotFound
		}
		return nil
	})
}

// DeleteOlderThan removes leads created before the cutoff together with
// their segment index rows, returning the number of leads removed
func (r *LeadRepository) DeleteOlderThan(ctx context.Context, cutoff time.Time) (int64, error) {
	var deleted int64

	err := r.queue.Execute(ctx, func(db *sql.DB) error {
		tx, err := db.BeginTx(ctx, nil)
		if err != nil {
			return err
		}
		defer func() { _ = tx.Rollback() }()

		if _, err := tx.ExecContext(ctx,
			`DELETE FROM segment_index
			 WHERE lead_id IN (SELECT id FROM leads WHERE created_at < ?)`, cutoff,
		); err != nil {
			return err
		}

		result, err := tx.ExecContext(ctx,
			`DELETE FROM leads WHERE created_at < ?`, cutoff)
		if err != nil {
			return err
		}

		deleted, err = result.RowsAffected()
		if err != nil {
			return err
		}

		return tx.Commit()
	})

	if err != nil {
		return 0, err
	}
	return deleted, nil
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
