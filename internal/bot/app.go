package bot

import (
	"time"

	"github.com/ad/telegram-lead-admin/internal/config"
	"github.com/ad/telegram-lead-admin/internal/domain"
	"github.com/ad/telegram-lead-admin/internal/locale"
)

// UsageStore records and reads per-identifier dispatch counters
type UsageStore interface {
	UsageRecorder
	UsageReader
}

// App bundles the admin surface: the slash-command handlers and the
// callback router with its modules wired in priority order.
type App struct {
	Router   *Router
	Commands *CommandHandler
}

// NewApp wires the full dispatch pipeline. Module order is fixed:
// navigation, stats, leads, system.
func NewApp(
	b Messenger,
	cfg *config.Config,
	leadRepo domain.LeadRepository,
	analytics *domain.Analytics,
	usage UsageStore,
	localizer locale.Localizer,
	logger domain.Logger,
) *App {
	v := newViews(localizer, cfg.Timezone)

	modules := []Module{
		NewNavigationModule(b, v, localizer, logger),
		NewStatsModule(b, v, analytics, localizer, logger),
		NewLeadsModule(b, v, analytics, localizer, cfg.Timezone, logger),
		NewSystemModule(b, v, leadRepo, usage, localizer, logger, time.Now()),
	}

	actions := NewActionSet(b, v, leadRepo, localizer, logger, cfg.AdminUserID)

	return &App{
		Router:   NewRouter(b, modules, actions, usage, cfg, localizer, logger),
		Commands: NewCommandHandler(b, v, localizer, logger, cfg.AdminUserID),
	}
}
