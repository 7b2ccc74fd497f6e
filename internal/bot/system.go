package bot

import (
	"context"
	"strconv"
	"strings"
	"time"

	"github.com/ad/telegram-lead-admin/internal/domain"
	"github.com/ad/telegram-lead-admin/internal/locale"

	"github.com/go-telegram/bot/models"
)

// systemUsageLimit bounds the busiest-callbacks list
const systemUsageLimit = 5

// UsageReader reads the dispatch counters for the diagnostics view
type UsageReader interface {
	Top(ctx context.Context, limit int) ([]*domain.UsageStat, error)
}

// SystemModule owns the diagnostics views
type SystemModule struct {
	resp      *responder
	views     *views
	leadRepo  domain.LeadRepository
	usage     UsageReader
	localizer locale.Localizer
	logger    domain.Logger
	startedAt time.Time
	routes    map[string]routeFunc
}

// NewSystemModule creates a new SystemModule
func NewSystemModule(
	b Messenger,
	views *views,
	leadRepo domain.LeadRepository,
	usage UsageReader,
	localizer locale.Localizer,
	logger domain.Logger,
	startedAt time.Time,
) *SystemModule {
	m := &SystemModule{
		resp:      newResponder(b, logger),
		views:     views,
		leadRepo:  leadRepo,
		usage:     usage,
		localizer: localizer,
		logger:    logger,
		startedAt: startedAt,
	}
	m.routes = map[string]routeFunc{
		cbSystem:      m.showDiagnostics,
		cbSystemUsage: m.showUsage,
	}
	return m
}

func (m *SystemModule) Name() string { return "system" }

// TryHandle claims only the module's static identifiers
func (m *SystemModule) TryHandle(ctx context.Context, req *CallbackRequest) (bool, error) {
	handler, ok := m.routes[req.Data]
	if !ok {
		return false, nil
	}
	return true, handler(ctx, req)
}

func (m *SystemModule) showDiagnostics(ctx context.Context, req *CallbackRequest) error {
	leads, err := m.leadRepo.ListAll(ctx)
	if err != nil {
		return err
	}

	unprocessed := 0
	for _, lead := range leads {
		if !lead.Processed {
			unprocessed++
		}
	}

	uptime := time.Since(m.startedAt).Round(time.Second)

	lines := []string{
		m.localizer.MustLocalize(locale.SystemTitle),
		m.localizer.MustLocalizeWithTemplate(locale.SystemUptime, uptime.String()),
		m.localizer.MustLocalizeWithTemplate(locale.SystemLeads, strconv.Itoa(len(leads))),
		m.localizer.MustLocalizeWithTemplate(locale.SystemUnprocessed, strconv.Itoa(unprocessed)),
	}

	keyboard := m.views.backToMainKeyboard()
	keyboard.InlineKeyboard = append([][]models.InlineKeyboardButton{{{
		Text:         m.localizer.MustLocalize(locale.ButtonSystemUsage),
		CallbackData: cbSystemUsage,
	}}}, keyboard.InlineKeyboard...)

	m.resp.reply(ctx, req, strings.Join(lines, "\n"), keyboard)
	return nil
}

func (m *SystemModule) showUsage(ctx context.Context, req *CallbackRequest) error {
	stats, err := m.usage.Top(ctx, systemUsageLimit)
	if err != nil {
		return err
	}

	if len(stats) == 0 {
		m.resp.reply(ctx, req, m.localizer.MustLocalize(locale.SystemUsageEmpty), m.views.backToMainKeyboard())
		return nil
	}

	lines := []string{m.localizer.MustLocalize(locale.SystemUsageTitle)}
	for _, stat := range stats {
		lines = append(lines, m.localizer.MustLocalizeWithTemplate(locale.SystemUsageRow,
			stat.Identifier,
			strconv.FormatInt(stat.Count, 10),
			strconv.FormatInt(stat.Failures, 10)))
	}

	m.resp.reply(ctx, req, strings.Join(lines, "\n"), m.views.backToMainKeyboard())
	return nil
}
