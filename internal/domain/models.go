package domain

import (
	"errors"
	"time"
)

// Validation errors
var (
	ErrEmptyLeadID        = errors.New("lead ID cannot be empty")
	ErrEmptyLeadName      = errors.New("lead name cannot be empty")
	ErrInvalidSegment     = errors.New("invalid segment code")
	ErrZeroCreatedAt      = errors.New("lead creation time must be set")
	ErrInvalidAdminID     = errors.New("admin user ID must be set")
	ErrLeadNotFound       = errors.New("lead not found")
	ErrInvalidAuditTarget = errors.New("audit entry must reference a lead")
)

// Segment represents the urgency/interest classification of a lead
type Segment string

const (
	SegmentHot     Segment = "hot"
	SegmentWarm    Segment = "warm"
	SegmentCold    Segment = "cold"
	SegmentNurture Segment = "nurture"
)

// Segments lists all known segment codes in display order
var Segments = []Segment{SegmentHot, SegmentWarm, SegmentCold, SegmentNurture}

// Valid reports whether the segment is one of the known codes
func (s Segment) Valid() bool {
	switch s {
	case SegmentHot, SegmentWarm, SegmentCold, SegmentNurture:
		return true
	}
	return false
}

// ParseSegment parses a segment code from its string form
func ParseSegment(s string) (Segment, error) {
	seg := Segment(s)
	if !seg.Valid() {
		return "", ErrInvalidSegment
	}
	return seg, nil
}

// Scores holds the numeric sub-scores produced by lead analysis.
// Total is nil when the scoring step of the survey was skipped; such
// leads are excluded from average-score calculations entirely.
type Scores struct {
	Interest int  `json:"interest"`
	Urgency  int  `json:"urgency"`
	Budget   int  `json:"budget"`
	Total    *int `json:"total,omitempty"`
}

// AnalysisResult is the outcome of analyzing a lead's survey answers
type AnalysisResult struct {
	Segment      Segment `json:"segment"`
	Scores       Scores  `json:"scores"`
	PrimaryIssue string  `json:"primary_issue"`
}

// Lead represents a prospective customer captured via the questionnaire
type Lead struct {
	ID          string // numeric Telegram ID serialized as string
	Name        string
	Username    string // optional, without the @ prefix
	Analysis    AnalysisResult
	Answers     map[string]any // question code -> string, []string or number
	CreatedAt   time.Time      // immutable once set
	Processed   bool
	ProcessedAt *time.Time
	Urgent      bool
	UrgentAt    *time.Time
}

// AuditEntry records a segment change performed by an administrator
type AuditEntry struct {
	ID         int64
	LeadID     string
	OldSegment Segment
	NewSegment Segment
	AdminID    int64
	Timestamp  time.Time
}

// UsageStat is an observability counter for a single callback identifier
type UsageStat struct {
	Identifier string
	Count      int64
	Failures   int64
	LastSeen   time.Time
}

// Logger defines the logging interface used across the domain
type Logger interface {
	Debug(msg string, args ...interface{})
	Info(msg string, args ...interface{})
	Warn(msg string, args ...interface{})
	Error(msg string, args ...interface{})
}

// Validation methods

// Validate validates a Lead
func (l *Lead) Validate() error {
	if l.ID == "" {
		return ErrEmptyLeadID
	}
	if l.Name == "" {
		return ErrEmptyLeadName
	}
	if !l.Analysis.Segment.Valid() {
		return ErrInvalidSegment
	}
	if l.CreatedAt.IsZero() {
		return ErrZeroCreatedAt
	}
	return nil
}

// Validate validates an AuditEntry
func (e *AuditEntry) Validate() error {
	if e.LeadID == "" {
		return ErrInvalidAuditTarget
	}
	if !e.NewSegment.Valid() {
		return ErrInvalidSegment
	}
	if e.AdminID == 0 {
		return ErrInvalidAdminID
	}
	return nil
}
