package domain

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
)

// BotInterface defines the interface for bot operations needed by MaintenanceService
type BotInterface interface {
	SendMessage(ctx context.Context, params *bot.SendMessageParams) (*models.Message, error)
}

// AuditRepository interface for audit log operations
type AuditRepository interface {
	ListByLead(ctx context.Context, leadID string) ([]*AuditEntry, error)
	CountSince(ctx context.Context, since time.Time) (int64, error)
}

// MaintenanceService runs the periodic jobs that share the lead store with
// callback dispatch: an hourly health check, a daily summary message to the
// administrator, and a weekly retention sweep. All store access goes through
// the same serialized repository layer as dispatch.
type MaintenanceService struct {
	bot           BotInterface
	leadRepo      LeadRepository
	auditRepo     AuditRepository
	analytics     *Analytics
	adminID       int64
	retentionDays int
	summaryHour   int
	timezone      *time.Location
	logger        Logger

	lastSummaryDay string
	lastSweepDay   string
}

// NewMaintenanceService creates a new MaintenanceService
func NewMaintenanceService(
	b BotInterface,
	leadRepo LeadRepository,
	auditRepo AuditRepository,
	analytics *Analytics,
	adminID int64,
	retentionDays int,
	summaryHour int,
	timezone *time.Location,
	logger Logger,
) *MaintenanceService {
	return &MaintenanceService{
		bot:           b,
		leadRepo:      leadRepo,
		auditRepo:     auditRepo,
		analytics:     analytics,
		adminID:       adminID,
		retentionDays: retentionDays,
		summaryHour:   summaryHour,
		timezone:      timezone,
		logger:        logger,
	}
}

// StartScheduler starts the maintenance scheduler with hourly ticks
func (ms *MaintenanceService) StartScheduler(ctx context.Context) error {
	go ms.runScheduler(ctx)
	ms.logger.Info("maintenance scheduler started",
		"retention_days", ms.retentionDays, "summary_hour", ms.summaryHour)
	return nil
}

// runScheduler runs the scheduler loop until the context is cancelled
func (ms *MaintenanceService) runScheduler(ctx context.Context) {
	ticker := time.NewTicker(1 * time.Hour)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			ms.logger.Info("maintenance scheduler stopped")
			return
		case <-ticker.C:
			ms.tick(ctx, time.Now())
		}
	}
}

// tick runs whichever jobs are due at the given time
func (ms *MaintenanceService) tick(ctx context.Context, now time.Time) {
	local := now.In(ms.timezone)
	day := local.Format("2006-01-02")

	ms.healthCheck(ctx)

	if local.Hour() >= ms.summaryHour && ms.lastSummaryDay != day {
		if err := ms.RunDailySummary(ctx, now); err != nil {
			ms.logger.Error("daily summary failed", "error", err)
		} else {
			ms.lastSummaryDay = day
		}
	}

	if local.Weekday() == time.Sunday && ms.lastSweepDay != day {
		if _, err := ms.RunRetentionSweep(ctx, now); err != nil {
			ms.logger.Error("retention sweep failed", "error", err)
		} else {
			ms.lastSweepDay = day
		}
	}
}

// healthCheck logs basic store vitals
func (ms *MaintenanceService) healthCheck(ctx context.Context) {
	leads, err := ms.leadRepo.ListAll(ctx)
	if err != nil {
		ms.logger.Error("health check failed to list leads", "error", err)
		return
	}

	unprocessed := 0
	for _, lead := range leads {
		if !lead.Processed {
			unprocessed++
		}
	}

	ms.logger.Info("health check", "leads", len(leads), "unprocessed", unprocessed)
}

// RunDailySummary sends a lead digest for the current day to the administrator
func (ms *MaintenanceService) RunDailySummary(ctx context.Context, now time.Time) error {
	groups, err := ms.analytics.TodayBySegment(ctx, now, ms.timezone)
	if err != nil {
		return err
	}

	total := 0
	var lines []string
	for _, g := range groups {
		n := len(g.Leads) + g.More
		total += n
		lines = append(lines, fmt.Sprintf("%s: %d", g.Segment, n))
	}

	changes, err := ms.auditRepo.CountSince(ctx, now.Add(-24*time.Hour))
	if err != nil {
		ms.logger.Warn("failed to count audit entries for summary", "error", err)
	}

	text := fmt.Sprintf("Daily summary %s\nNew leads: %d\n%s\nSegment changes: %d",
		now.In(ms.timezone).Format("2006-01-02"), total, strings.Join(lines, "\n"), changes)

	_, err = ms.bot.SendMessage(ctx, &bot.SendMessageParams{
		ChatID: ms.adminID,
		Text:   text,
	})
	if err != nil {
		ms.logger.Error("failed to send daily summary", "error", err)
		return err
	}

	ms.logger.Info("daily summary sent", "new_leads", total)
	return nil
}

// RunRetentionSweep deletes leads older than the configured retention window
func (ms *MaintenanceService) RunRetentionSweep(ctx context.Context, now time.Time) (int64, error) {
	cutoff := now.AddDate(0, 0, -ms.retentionDays)
	deleted, err := ms.leadRepo.DeleteOlderThan(ctx, cutoff)
	if err != nil {
		ms.logger.Error("retention sweep failed", "cutoff", cutoff, "error", err)
		return 0, err
	}

	ms.logger.Info("retention sweep completed", "deleted", deleted, "cutoff", cutoff)
	return deleted, nil
}
