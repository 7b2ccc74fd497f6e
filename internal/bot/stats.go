package bot

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/ad/telegram-lead-admin/internal/domain"
	"github.com/ad/telegram-lead-admin/internal/locale"
)

// StatsModule owns the aggregate report views
type StatsModule struct {
	resp      *responder
	views     *views
	analytics *domain.Analytics
	localizer locale.Localizer
	logger    domain.Logger
	routes    map[string]routeFunc
}

// NewStatsModule creates a new StatsModule
func NewStatsModule(
	b Messenger,
	views *views,
	analytics *domain.Analytics,
	localizer locale.Localizer,
	logger domain.Logger,
) *StatsModule {
	m := &StatsModule{
		resp:      newResponder(b, logger),
		views:     views,
		analytics: analytics,
		localizer: localizer,
		logger:    logger,
	}
	m.routes = map[string]routeFunc{
		cbStats:         m.showMenu,
		cbStatsSegments: m.showSegments,
		cbStatsIssues:   m.showIssues,
		cbStatsAverage:  m.showAverage,
	}
	return m
}

func (m *StatsModule) Name() string { return "stats" }

// TryHandle claims only the module's static identifiers
func (m *StatsModule) TryHandle(ctx context.Context, req *CallbackRequest) (bool, error) {
	handler, ok := m.routes[req.Data]
	if !ok {
		return false, nil
	}
	return true, handler(ctx, req)
}

func (m *StatsModule) showMenu(ctx context.Context, req *CallbackRequest) error {
	m.resp.reply(ctx, req, m.localizer.MustLocalize(locale.StatsMenuTitle), m.views.statsMenuKeyboard())
	return nil
}

func (m *StatsModule) showSegments(ctx context.Context, req *CallbackRequest) error {
	counts, err := m.analytics.SegmentBreakdown(ctx)
	if err != nil {
		return err
	}

	if len(counts) == 0 {
		m.resp.reply(ctx, req, m.localizer.MustLocalize(locale.StatsNoData), m.views.statsMenuKeyboard())
		return nil
	}

	lines := []string{m.localizer.MustLocalize(locale.StatsSegmentsTitle)}
	for _, c := range counts {
		lines = append(lines, m.localizer.MustLocalizeWithTemplate(locale.StatsCountRow,
			m.views.segmentLabel(c.Segment), strconv.Itoa(c.Count)))
	}

	m.resp.reply(ctx, req, strings.Join(lines, "\n"), m.views.statsMenuKeyboard())
	return nil
}

func (m *StatsModule) showIssues(ctx context.Context, req *CallbackRequest) error {
	issues, err := m.analytics.TopIssues(ctx, domain.TopIssuesLimit)
	if err != nil {
		return err
	}

	if len(issues) == 0 {
		m.resp.reply(ctx, req, m.localizer.MustLocalize(locale.StatsNoData), m.views.statsMenuKeyboard())
		return nil
	}

	lines := []string{m.localizer.MustLocalize(locale.StatsIssuesTitle)}
	for _, issue := range issues {
		lines = append(lines, m.localizer.MustLocalizeWithTemplate(locale.StatsCountRow,
			issue.Issue, strconv.Itoa(issue.Count)))
	}

	m.resp.reply(ctx, req, strings.Join(lines, "\n"), m.views.statsMenuKeyboard())
	return nil
}

func (m *StatsModule) showAverage(ctx context.Context, req *CallbackRequest) error {
	average, scored, err := m.analytics.AverageScore(ctx)
	if err != nil {
		return err
	}

	if scored == 0 {
		m.resp.reply(ctx, req, m.localizer.MustLocalize(locale.StatsNoData), m.views.statsMenuKeyboard())
		return nil
	}

	text := m.localizer.MustLocalizeWithTemplate(locale.StatsAverageText,
		fmt.Sprintf("%.1f", average), strconv.Itoa(scored))
	m.resp.reply(ctx, req, text, m.views.statsMenuKeyboard())
	return nil
}
