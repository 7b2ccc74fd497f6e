package bot

import (
	"context"

	"github.com/ad/telegram-lead-admin/internal/domain"
	"github.com/ad/telegram-lead-admin/internal/locale"

	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
)

// CommandHandler serves the slash commands that open the admin panel.
// Commands are admin-gated the same way callbacks are: a non-admin sender
// gets a rejection message and nothing else.
type CommandHandler struct {
	bot       Messenger
	views     *views
	localizer locale.Localizer
	logger    domain.Logger
	adminID   int64
}

// NewCommandHandler creates a new CommandHandler
func NewCommandHandler(b Messenger, views *views, localizer locale.Localizer, logger domain.Logger, adminID int64) *CommandHandler {
	return &CommandHandler{
		bot:       b,
		views:     views,
		localizer: localizer,
		logger:    logger,
		adminID:   adminID,
	}
}

// requireAdmin checks the sender and replies with a rejection when the
// message is not from the configured admin
func (h *CommandHandler) requireAdmin(ctx context.Context, update *models.Update) bool {
	if update.Message == nil || update.Message.From == nil {
		return false
	}

	if update.Message.From.ID != h.adminID {
		h.logger.Warn("unauthorized admin command attempt", "user_id", update.Message.From.ID)
		_, err := h.bot.SendMessage(ctx, &bot.SendMessageParams{
			ChatID: update.Message.Chat.ID,
			Text:   h.localizer.MustLocalize(locale.ErrorUnauthorized),
		})
		if err != nil {
			h.logger.Error("failed to send unauthorized message", "error", err)
		}
		return false
	}

	return true
}

// HandleStart handles the /start command
func (h *CommandHandler) HandleStart(ctx context.Context, _ *bot.Bot, update *models.Update) {
	if !h.requireAdmin(ctx, update) {
		return
	}

	text := h.localizer.MustLocalize(locale.StartWelcome) + "\n\n" +
		h.localizer.MustLocalize(locale.MainPanelText)
	h.send(ctx, update.Message.Chat.ID, text, h.views.mainKeyboard())
}

// HandleHelp handles the /help command
func (h *CommandHandler) HandleHelp(ctx context.Context, _ *bot.Bot, update *models.Update) {
	if !h.requireAdmin(ctx, update) {
		return
	}

	h.send(ctx, update.Message.Chat.ID, h.localizer.MustLocalize(locale.HelpText), h.views.backToMainKeyboard())
}

// HandleAdmin handles the /admin command and opens the main panel
func (h *CommandHandler) HandleAdmin(ctx context.Context, _ *bot.Bot, update *models.Update) {
	if !h.requireAdmin(ctx, update) {
		return
	}

	text := h.localizer.MustLocalize(locale.MainPanelTitle) + "\n\n" +
		h.localizer.MustLocalize(locale.MainPanelText)
	h.send(ctx, update.Message.Chat.ID, text, h.views.mainKeyboard())
}

func (h *CommandHandler) send(ctx context.Context, chatID int64, text string, keyboard *models.InlineKeyboardMarkup) {
	_, err := h.bot.SendMessage(ctx, &bot.SendMessageParams{
		ChatID:      chatID,
		Text:        text,
		ReplyMarkup: keyboard,
	})
	if err != nil {
		h.logger.Error("failed to send command response", "chat_id", chatID, "error", err)
	}
}
