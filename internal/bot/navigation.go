package bot

import (
	"context"

	"github.com/ad/telegram-lead-admin/internal/domain"
	"github.com/ad/telegram-lead-admin/internal/locale"
)

// routeFunc handles one static callback identifier
type routeFunc func(ctx context.Context, req *CallbackRequest) error

// NavigationModule owns the main panel and the help view
type NavigationModule struct {
	resp      *responder
	views     *views
	localizer locale.Localizer
	logger    domain.Logger
	routes    map[string]routeFunc
}

// NewNavigationModule creates a new NavigationModule
func NewNavigationModule(b Messenger, views *views, localizer locale.Localizer, logger domain.Logger) *NavigationModule {
	m := &NavigationModule{
		resp:      newResponder(b, logger),
		views:     views,
		localizer: localizer,
		logger:    logger,
	}
	m.routes = map[string]routeFunc{
		cbMain:    m.showMainPanel,
		cbRefresh: m.showMainPanel,
		cbHelp:    m.showHelp,
	}
	return m
}

func (m *NavigationModule) Name() string { return "navigation" }

// TryHandle claims only the module's static identifiers
func (m *NavigationModule) TryHandle(ctx context.Context, req *CallbackRequest) (bool, error) {
	handler, ok := m.routes[req.Data]
	if !ok {
		return false, nil
	}
	return true, handler(ctx, req)
}

func (m *NavigationModule) showMainPanel(ctx context.Context, req *CallbackRequest) error {
	text := m.localizer.MustLocalize(locale.MainPanelTitle) + "\n\n" +
		m.localizer.MustLocalize(locale.MainPanelText)
	m.resp.reply(ctx, req, text, m.views.mainKeyboard())
	return nil
}

func (m *NavigationModule) showHelp(ctx context.Context, req *CallbackRequest) error {
	m.resp.reply(ctx, req, m.localizer.MustLocalize(locale.HelpText), m.views.backToMainKeyboard())
	return nil
}
