package bot

import (
	"context"

	"github.com/ad/telegram-lead-admin/internal/domain"

	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
)

// Messenger defines the messaging endpoint operations the router and its
// modules need. *bot.Bot satisfies it; tests substitute a recorder.
type Messenger interface {
	SendMessage(ctx context.Context, params *bot.SendMessageParams) (*models.Message, error)
	EditMessageText(ctx context.Context, params *bot.EditMessageTextParams) (*models.Message, error)
	AnswerCallbackQuery(ctx context.Context, params *bot.AnswerCallbackQueryParams) (bool, error)
}

// responder performs the single outbound display operation of a dispatch:
// it edits the message the tapped keyboard was attached to, or sends a new
// message when there is nothing to edit. Messaging endpoint errors are
// logged but not surfaced, so a failed edit never triggers a second
// outbound operation for the same callback.
type responder struct {
	bot    Messenger
	logger domain.Logger
}

func newResponder(b Messenger, logger domain.Logger) *responder {
	return &responder{bot: b, logger: logger}
}

func (r *responder) reply(ctx context.Context, req *CallbackRequest, text string, keyboard *models.InlineKeyboardMarkup) {
	r.replyMode(ctx, req, text, keyboard, "")
}

func (r *responder) replyMode(ctx context.Context, req *CallbackRequest, text string, keyboard *models.InlineKeyboardMarkup, parseMode models.ParseMode) {
	if req.MessageID != 0 {
		_, err := r.bot.EditMessageText(ctx, &bot.EditMessageTextParams{
			ChatID:      req.ChatID,
			MessageID:   req.MessageID,
			Text:        text,
			ReplyMarkup: keyboard,
			ParseMode:   parseMode,
		})
		if err != nil {
			r.logger.Warn("failed to edit message", "chat_id", req.ChatID, "message_id", req.MessageID, "error", err)
		}
		return
	}

	_, err := r.bot.SendMessage(ctx, &bot.SendMessageParams{
		ChatID:      req.ChatID,
		Text:        text,
		ReplyMarkup: keyboard,
		ParseMode:   parseMode,
	})
	if err != nil {
		r.logger.Warn("failed to send message", "chat_id", req.ChatID, "error", err)
	}
}
