package bot

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/ad/telegram-lead-admin/internal/config"
	"github.com/ad/telegram-lead-admin/internal/domain"
	"github.com/ad/telegram-lead-admin/internal/locale"

	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
)

// CallbackRequest carries one inbound callback through dispatch
type CallbackRequest struct {
	UserID     int64
	ChatID     int64
	MessageID  int
	CallbackID string
	Data       string
}

// Module recognizes a fixed set of static callback identifiers.
// TryHandle returns (false, nil) when the identifier is not one of the
// module's routes; once a module claims an identifier, its error is final
// and is never offered to the remaining modules.
type Module interface {
	Name() string
	TryHandle(ctx context.Context, req *CallbackRequest) (bool, error)
}

// UsageRecorder counts dispatches per raw callback identifier
type UsageRecorder interface {
	Record(ctx context.Context, identifier string, at time.Time) error
	RecordFailure(ctx context.Context, identifier string, at time.Time) error
}

// DispatchResult is the outcome of routing one callback
type DispatchResult int

const (
	DispatchUnauthorized DispatchResult = iota
	DispatchHandled
	DispatchFailed
	DispatchUnknown
)

// Router authorizes inbound callbacks and dispatches them to modules in a
// fixed priority order, falling back to the parameterized action table.
// Every dispatch produces exactly one outbound display operation.
type Router struct {
	resp      *responder
	views     *views
	modules   []Module
	actions   *ActionSet
	usage     UsageRecorder
	config    *config.Config
	localizer locale.Localizer
	logger    domain.Logger
}

// NewRouter creates a new Router. Module order is dispatch priority.
func NewRouter(
	b Messenger,
	modules []Module,
	actions *ActionSet,
	usage UsageRecorder,
	cfg *config.Config,
	localizer locale.Localizer,
	logger domain.Logger,
) *Router {
	return &Router{
		resp:      newResponder(b, logger),
		views:     newViews(localizer, cfg.Timezone),
		modules:   modules,
		actions:   actions,
		usage:     usage,
		config:    cfg,
		localizer: localizer,
		logger:    logger,
	}
}

// HandleCallback adapts a Telegram callback query update into a dispatch
func (r *Router) HandleCallback(ctx context.Context, _ *bot.Bot, update *models.Update) {
	if update.CallbackQuery == nil {
		return
	}

	callback := update.CallbackQuery
	req := &CallbackRequest{
		UserID:     callback.From.ID,
		CallbackID: callback.ID,
		Data:       callback.Data,
	}
	if callback.Message.Message != nil {
		req.ChatID = callback.Message.Message.Chat.ID
		req.MessageID = callback.Message.Message.ID
	}

	r.Dispatch(ctx, req)
}

// Dispatch routes one callback to completion and reports the outcome
func (r *Router) Dispatch(ctx context.Context, req *CallbackRequest) DispatchResult {
	now := time.Now()

	if req.UserID != r.config.AdminUserID {
		r.logger.Warn("unauthorized callback", "user_id", req.UserID, "data", req.Data)
		r.rejectUnauthorized(ctx, req)
		return DispatchUnauthorized
	}

	r.acknowledge(ctx, req)

	if err := r.usage.Record(ctx, req.Data, now); err != nil {
		r.logger.Warn("failed to record callback usage", "data", req.Data, "error", err)
	}

	for _, module := range r.modules {
		handled, err := r.tryModule(ctx, module, req)
		if err != nil {
			r.countFailure(ctx, req, now)
			r.logger.Error("module failed", "module", module.Name(), "data", req.Data, "error", err)
			r.resp.reply(ctx, req, r.localizer.MustLocalize(locale.ErrorGeneric), r.views.backToMainKeyboard())
			return DispatchFailed
		}
		if handled {
			return DispatchHandled
		}
	}

	return r.dispatchFallback(ctx, req, now)
}

// tryModule calls a module, converting panics into handler failures
func (r *Router) tryModule(ctx context.Context, module Module, req *CallbackRequest) (handled bool, err error) {
	defer func() {
		if rec := recover(); rec != nil {
			handled = true
			err = fmt.Errorf("module %s panicked: %v", module.Name(), rec)
		}
	}()
	return module.TryHandle(ctx, req)
}

// dispatchFallback decodes a parameterized identifier once no static route claims it
func (r *Router) dispatchFallback(ctx context.Context, req *CallbackRequest, now time.Time) DispatchResult {
	parsed, err := ParseActionCallback(req.Data)
	if err != nil {
		r.logger.Warn("unroutable callback", "data", req.Data, "error", err)
		r.resp.reply(ctx, req, r.localizer.MustLocalize(locale.ErrorUnknownCommand), r.views.backToMainKeyboard())
		return DispatchUnknown
	}

	err = r.actions.Handle(ctx, req, parsed)
	switch {
	case errors.Is(err, ErrUnknownAction):
		r.logger.Warn("unknown parameterized action", "action", parsed.Action, "target_id", parsed.TargetID)
		r.resp.reply(ctx, req, r.localizer.MustLocalize(locale.ErrorNotRecognized), r.views.backToMainKeyboard())
		return DispatchUnknown
	case err != nil:
		r.countFailure(ctx, req, now)
		r.logger.Error("action failed", "action", parsed.Action, "target_id", parsed.TargetID, "error", err)
		r.resp.reply(ctx, req, r.localizer.MustLocalize(locale.ErrorGeneric), r.views.backToMainKeyboard())
		return DispatchFailed
	}

	return DispatchHandled
}

// acknowledge answers the callback query so the client stops its spinner
func (r *Router) acknowledge(ctx context.Context, req *CallbackRequest) {
	_, err := r.resp.bot.AnswerCallbackQuery(ctx, &bot.AnswerCallbackQueryParams{
		CallbackQueryID: req.CallbackID,
	})
	if err != nil {
		r.logger.Warn("failed to answer callback query", "callback_id", req.CallbackID, "error", err)
	}
}

// rejectUnauthorized acknowledges a callback from a non-admin principal.
// No module runs and the lead store is never touched. A rejection message
// is sent only when configured.
func (r *Router) rejectUnauthorized(ctx context.Context, req *CallbackRequest) {
	_, err := r.resp.bot.AnswerCallbackQuery(ctx, &bot.AnswerCallbackQueryParams{
		CallbackQueryID: req.CallbackID,
		Text:            r.localizer.MustLocalize(locale.ErrorUnauthorized),
		ShowAlert:       true,
	})
	if err != nil {
		r.logger.Warn("failed to answer unauthorized callback", "callback_id", req.CallbackID, "error", err)
	}

	if r.config.NotifyUnauthorized && req.ChatID != 0 {
		_, err := r.resp.bot.SendMessage(ctx, &bot.SendMessageParams{
			ChatID: req.ChatID,
			Text:   r.localizer.MustLocalize(locale.ErrorUnauthorized),
		})
		if err != nil {
			r.logger.Warn("failed to send unauthorized notice", "chat_id", req.ChatID, "error", err)
		}
	}
}

// countFailure records a handler failure for the identifier
func (r *Router) countFailure(ctx context.Context, req *CallbackRequest, now time.Time) {
	if err := r.usage.RecordFailure(ctx, req.Data, now); err != nil {
		r.logger.Warn("failed to record callback failure", "data", req.Data, "error", err)
	}
}
