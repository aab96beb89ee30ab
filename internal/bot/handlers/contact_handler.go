package handlers

import (
	"context"
	"log/slog"

	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
)

// NewContactHandler returns a handler for the /contact command. It puts the
// user into compose mode; the user's next text message is submitted to the
// administrators.
func NewContactHandler(deps HandlerDeps) bot.HandlerFunc {
	return contactHandler{deps}.Handle
}

type contactHandler struct {
	deps HandlerDeps
}

func (h contactHandler) Handle(ctx context.Context, b *bot.Bot, update *models.Update) {
	log := h.deps.Logger.With("handler", "contact")

	if update.Message == nil || update.Message.From == nil {
		log.WarnContext(ctx, "Contact handler received update with nil message or sender", "update_id", update.ID)
		return
	}

	userID := update.Message.From.ID
	chatID := update.Message.Chat.ID

	blocked, err := h.deps.Store.IsUserBlocked(ctx, userID)
	if err != nil {
		log.ErrorContext(ctx, "Failed to check blocked status", "error", err, "user_id", userID)
		h.sendText(ctx, b, chatID, h.deps.Config.Messages.GeneralError, log)
		return
	}
	if blocked {
		log.InfoContext(ctx, "Blocked user attempted contact", "user_id", userID)
		h.sendText(ctx, b, chatID, h.deps.Config.Messages.ContactBlocked, log)
		return
	}

	h.deps.Sessions.BeginCompose(userID)
	log.InfoContext(ctx, "User entered compose mode", "user_id", userID)
	h.sendText(ctx, b, chatID, h.deps.Config.Messages.ContactPrompt, log)
}

func (h contactHandler) sendText(ctx context.Context, b *bot.Bot, chatID int64, text string, log *slog.Logger) {
	if _, err := b.SendMessage(ctx, &bot.SendMessageParams{ChatID: chatID, Text: text}); err != nil {
		log.ErrorContext(ctx, "Failed to send contact response", "error", err, "chat_id", chatID)
	}
}

// NewCancelHandler returns a handler for the /cancel command, which clears
// any in-progress compose or reply session for the sender.
func NewCancelHandler(deps HandlerDeps) bot.HandlerFunc {
	return cancelHandler{deps}.Handle
}

type cancelHandler struct {
	deps HandlerDeps
}

func (h cancelHandler) Handle(ctx context.Context, b *bot.Bot, update *models.Update) {
	log := h.deps.Logger.With("handler", "cancel")

	if update.Message == nil || update.Message.From == nil {
		return
	}

	userID := update.Message.From.ID
	h.deps.Sessions.ClearCompose(userID)
	if h.deps.Config.Telegram.IsAdmin(userID) {
		h.deps.Sessions.ClearReply(userID)
	}

	log.InfoContext(ctx, "Cleared sessions on cancel", "user_id", userID)
	if _, err := b.SendMessage(ctx, &bot.SendMessageParams{
		ChatID: update.Message.Chat.ID,
		Text:   "🏠 Cancelled.",
	}); err != nil {
		log.ErrorContext(ctx, "Failed to send cancel confirmation", "error", err, "chat_id", update.Message.Chat.ID)
	}
}
