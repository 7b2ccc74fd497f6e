package domain

import (
	"context"
	"sort"
	"time"
)

const (
	// Display limits based on requirements
	HotLeadsLimit      = 10
	TodayLeadsPerGroup = 3
	TopIssuesLimit     = 5
)

// LeadRepository interface for lead store operations
type LeadRepository interface {
	Get(ctx context.Context, id string) (*Lead, error) // (nil, nil) when absent
	Put(ctx context.Context, lead *Lead) error
	ListAll(ctx context.Context) ([]*Lead, error) // original storage order
	GetSegment(ctx context.Context, id string) (Segment, bool, error)
	SetSegment(ctx context.Context, id string, segment Segment, adminID int64, now time.Time) error
	SetProcessed(ctx context.Context, id string, processed bool, now time.Time) error
	SetUrgent(ctx context.Context, id string, urgent bool, now time.Time) error
	DeleteOlderThan(ctx context.Context, cutoff time.Time) (int64, error)
}

// SegmentGroup is one segment bucket of the today view
type SegmentGroup struct {
	Segment Segment
	Leads   []*Lead // at most TodayLeadsPerGroup entries
	More    int     // leads beyond the per-group display limit
}

// IssueCount is one row of the top-issues breakdown
type IssueCount struct {
	Issue string
	Count int
}

// SegmentCount is one row of the segment breakdown
type SegmentCount struct {
	Segment Segment
	Count   int
}

// Analytics computes aggregate views over the lead store
type Analytics struct {
	leadRepo LeadRepository
	logger   Logger
}

// NewAnalytics creates a new Analytics
func NewAnalytics(leadRepo LeadRepository, logger Logger) *Analytics {
	return &Analytics{
		leadRepo: leadRepo,
		logger:   logger,
	}
}

// HotLeads returns the freshest hot-segment leads, newest first.
// Ties on CreatedAt keep the original storage order (stable sort).
func (a *Analytics) HotLeads(ctx context.Context, limit int) ([]*Lead, error) {
	leads, err := a.leadRepo.ListAll(ctx)
	if err != nil {
		a.logger.Error("failed to list leads", "error", err)
		return nil, err
	}

	hot := make([]*Lead, 0, len(leads))
	for _, lead := range leads {
		if lead.Analysis.Segment == SegmentHot {
			hot = append(hot, lead)
		}
	}

	sort.SliceStable(hot, func(i, j int) bool {
		return hot[i].CreatedAt.After(hot[j].CreatedAt)
	})

	if len(hot) > limit {
		hot = hot[:limit]
	}
	return hot, nil
}

// TodayBySegment returns leads created on the current calendar day in loc,
// grouped by segment. Groups appear in the order their first lead was stored;
// each group carries at most TodayLeadsPerGroup leads plus an overflow count.
func (a *Analytics) TodayBySegment(ctx context.Context, now time.Time, loc *time.Location) ([]SegmentGroup, error) {
	leads, err := a.leadRepo.ListAll(ctx)
	if err != nil {
		a.logger.Error("failed to list leads", "error", err)
		return nil, err
	}

	year, month, day := now.In(loc).Date()

	var groups []SegmentGroup
	index := make(map[Segment]int)
	for _, lead := range leads {
		y, m, d := lead.CreatedAt.In(loc).Date()
		if y != year || m != month || d != day {
			continue
		}

		seg := lead.Analysis.Segment
		i, ok := index[seg]
		if !ok {
			i = len(groups)
			index[seg] = i
			groups = append(groups, SegmentGroup{Segment: seg})
		}
		if len(groups[i].Leads) < TodayLeadsPerGroup {
			groups[i].Leads = append(groups[i].Leads, lead)
		} else {
			groups[i].More++
		}
	}

	return groups, nil
}

// TopIssues counts primary-issue occurrences across all leads and returns
// the most frequent ones, ties broken by first-seen order.
func (a *Analytics) TopIssues(ctx context.Context, limit int) ([]IssueCount, error) {
	leads, err := a.leadRepo.ListAll(ctx)
	if err != nil {
		a.logger.Error("failed to list leads", "error", err)
		return nil, err
	}

	var issues []IssueCount
	index := make(map[string]int)
	for _, lead := range leads {
		issue := lead.Analysis.PrimaryIssue
		if issue == "" {
			continue
		}
		i, ok := index[issue]
		if !ok {
			i = len(issues)
			index[issue] = i
			issues = append(issues, IssueCount{Issue: issue})
		}
		issues[i].Count++
	}

	sort.SliceStable(issues, func(i, j int) bool {
		return issues[i].Count > issues[j].Count
	})

	if len(issues) > limit {
		issues = issues[:limit]
	}
	return issues, nil
}

// AverageScore returns the arithmetic mean of all present total scores and
// the number of leads that carried one. Leads without a total score are
// excluded from both numerator and denominator; an empty set yields 0.
func (a *Analytics) AverageScore(ctx context.Context) (float64, int, error) {
	leads, err := a.leadRepo.ListAll(ctx)
	if err != nil {
		a.logger.Error("failed to list leads", "error", err)
		return 0, 0, err
	}

	sum := 0
	count := 0
	for _, lead := range leads {
		if lead.Analysis.Scores.Total == nil {
			continue
		}
		sum += *lead.Analysis.Scores.Total
		count++
	}

	if count == 0 {
		return 0, 0, nil
	}
	return float64(sum) / float64(count), count, nil
}

// SegmentBreakdown counts leads per segment, segments in first-seen order
func (a *Analytics) SegmentBreakdown(ctx context.Context) ([]SegmentCount, error) {
	leads, err := a.leadRepo.ListAll(ctx)
	if err != nil {
		a.logger.Error("failed to list leads", "error", err)
		return nil, err
	}

	var counts []SegmentCount
	index := make(map[Segment]int)
	for _, lead := range leads {
		seg := lead.Analysis.Segment
		i, ok := index[seg]
		if !ok {
			i = len(counts)
			index[seg] = i
			counts = append(counts, SegmentCount{Segment: seg})
		}
		counts[i].Count++
	}

	return counts, nil
}

// UnprocessedLeads returns leads not yet marked processed, oldest first
func (a *Analytics) UnprocessedLeads(ctx context.Context, limit int) ([]*Lead, error) {
	leads, err := a.leadRepo.ListAll(ctx)
	if err != nil {
		a.logger.Error("failed to list leads", "error", err)
		return nil, err
	}

	open := make([]*Lead, 0, len(leads))
	for _, lead := range leads {
		if !lead.Processed {
			open = append(open, lead)
		}
	}

	sort.SliceStable(open, func(i, j int) bool {
		return open[i].CreatedAt.Before(open[j].CreatedAt)
	})

	if len(open) > limit {
		open = open[:limit]
	}
	return open, nil
}
