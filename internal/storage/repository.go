package storage

import (
	"context"
	"time"

	"github.com/ad/telegram-lead-admin/internal/domain"
)

// LeadRepositoryInterface defines the interface for lead store operations
type LeadRepositoryInterface interface {
	Get(ctx context.Context, id string) (*domain.Lead, error)
	Put(ctx context.Context, lead *domain.Lead) error
	ListAll(ctx context.Context) ([]*domain.Lead, error)
	GetSegment(ctx context.Context, id string) (domain.Segment, bool, error)
	SetSegment(ctx context.Context, id string, segment domain.Segment, adminID int64, now time.Time) error
	SetProcessed(ctx context.Context, id string, processed bool, now time.Time) error
	SetUrgent(ctx context.Context, id string, urgent bool, now time.Time) error
	DeleteOlderThan(ctx context.Context, cutoff time.Time) (int64, error)
}

// AuditRepositoryInterface defines the interface for audit log operations
type AuditRepositoryInterface interface {
	ListByLead(ctx context.Context, leadID string) ([]*domain.AuditEntry, error)
	CountSince(ctx context.Context, since time.Time) (int64, error)
}

// UsageRepositoryInterface defines the interface for callback usage counters
type UsageRepositoryInterface interface {
	Record(ctx context.Context, identifier string, at time.Time) error
	RecordFailure(ctx context.Context, identifier string, at time.Time) error
	Top(ctx context.Context, limit int) ([]*domain.UsageStat, error)
}
