package bot

import (
	"context"
	"strconv"
	"strings"
	"time"

	"github.com/ad/telegram-lead-admin/internal/domain"
	"github.com/ad/telegram-lead-admin/internal/locale"
)

// unprocessedLeadsLimit bounds the unprocessed view the same way the hot
// view is bounded, to keep keyboards within Telegram's row limits
const unprocessedLeadsLimit = 10

// LeadsModule owns the lead list views
type LeadsModule struct {
	resp      *responder
	views     *views
	analytics *domain.Analytics
	localizer locale.Localizer
	timezone  *time.Location
	logger    domain.Logger
	routes    map[string]routeFunc
}

// NewLeadsModule creates a new LeadsModule
func NewLeadsModule(
	b Messenger,
	views *views,
	analytics *domain.Analytics,
	localizer locale.Localizer,
	timezone *time.Location,
	logger domain.Logger,
) *LeadsModule {
	m := &LeadsModule{
		resp:      newResponder(b, logger),
		views:     views,
		analytics: analytics,
		localizer: localizer,
		timezone:  timezone,
		logger:    logger,
	}
	m.routes = map[string]routeFunc{
		cbLeads:            m.showMenu,
		cbLeadsHot:         m.showHot,
		cbLeadsToday:       m.showToday,
		cbLeadsUnprocessed: m.showUnprocessed,
	}
	return m
}

func (m *LeadsModule) Name() string { return "leads" }

// TryHandle claims only the module's static identifiers
func (m *LeadsModule) TryHandle(ctx context.Context, req *CallbackRequest) (bool, error) {
	handler, ok := m.routes[req.Data]
	if !ok {
		return false, nil
	}
	return true, handler(ctx, req)
}

func (m *LeadsModule) showMenu(ctx context.Context, req *CallbackRequest) error {
	m.resp.reply(ctx, req, m.localizer.MustLocalize(locale.LeadsMenuTitle), m.views.leadsMenuKeyboard())
	return nil
}

func (m *LeadsModule) showHot(ctx context.Context, req *CallbackRequest) error {
	leads, err := m.analytics.HotLeads(ctx, domain.HotLeadsLimit)
	if err != nil {
		return err
	}

	if len(leads) == 0 {
		m.resp.reply(ctx, req, m.localizer.MustLocalize(locale.LeadsEmpty), m.views.leadsMenuKeyboard())
		return nil
	}

	lines := []string{m.localizer.MustLocalize(locale.LeadsHotTitle)}
	for _, lead := range leads {
		lines = append(lines, m.views.leadLine(lead))
	}

	m.resp.reply(ctx, req, strings.Join(lines, "\n"),
		m.views.leadListKeyboard(leads, locale.ButtonBackToLeads, cbLeads))
	return nil
}

func (m *LeadsModule) showToday(ctx context.Context, req *CallbackRequest) error {
	groups, err := m.analytics.TodayBySegment(ctx, time.Now(), m.timezone)
	if err != nil {
		return err
	}

	if len(groups) == 0 {
		m.resp.reply(ctx, req, m.localizer.MustLocalize(locale.LeadsEmpty), m.views.leadsMenuKeyboard())
		return nil
	}

	lines := []string{m.localizer.MustLocalize(locale.LeadsTodayTitle)}
	var shown []*domain.Lead
	for _, group := range groups {
		total := len(group.Leads) + group.More
		lines = append(lines, "")
		lines = append(lines, m.localizer.MustLocalizeWithTemplate(locale.TodaySegmentHeader,
			m.views.segmentLabel(group.Segment), strconv.Itoa(total)))
		for _, lead := range group.Leads {
			lines = append(lines, m.views.leadLine(lead))
			shown = append(shown, lead)
		}
		if group.More > 0 {
			lines = append(lines, m.localizer.MustLocalizeWithTemplate(locale.LeadsMoreLine, strconv.Itoa(group.More)))
		}
	}

	m.resp.reply(ctx, req, strings.Join(lines, "\n"),
		m.views.leadListKeyboard(shown, locale.ButtonBackToLeads, cbLeads))
	return nil
}

func (m *LeadsModule) showUnprocessed(ctx context.Context, req *CallbackRequest) error {
	leads, err := m.analytics.UnprocessedLeads(ctx, unprocessedLeadsLimit)
	if err != nil {
		return err
	}

	if len(leads) == 0 {
		m.resp.reply(ctx, req, m.localizer.MustLocalize(locale.LeadsEmpty), m.views.leadsMenuKeyboard())
		return nil
	}

	lines := []string{m.localizer.MustLocalize(locale.LeadsUnprocessedTitle)}
	for _, lead := range leads {
		lines = append(lines, m.views.leadLine(lead))
	}

	m.resp.reply(ctx, req, strings.Join(lines, "\n"),
		m.views.leadListKeyboard(leads, locale.ButtonBackToLeads, cbLeads))
	return nil
}
