package handlers

import (
	"context"

	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"

	"github.com/isrelgetu251-dotcom/Telee-b/internal/database"
	"github.com/isrelgetu251-dotcom/Telee-b/internal/format"
)

// NewMessagesHandler returns a handler for the /messages command, which
// lists pending user messages for the admin.
func NewMessagesHandler(deps HandlerDeps) bot.HandlerFunc {
	return messagesHandler{deps}.Handle
}

type messagesHandler struct {
	deps HandlerDeps
}

func (h messagesHandler) Handle(ctx context.Context, b *bot.Bot, update *models.Update) {
	log := h.deps.Logger.With("handler", "messages")

	if update.Message == nil || update.Message.From == nil {
		return
	}
	chatID := update.Message.Chat.ID

	pending, err := h.deps.Store.GetPendingMessages(ctx, database.DefaultHistoryLimit)
	if err != nil {
		log.ErrorContext(ctx, "Failed to fetch pending messages", "error", err)
		if _, sendErr := b.SendMessage(ctx, &bot.SendMessageParams{
			ChatID: chatID,
			Text:   h.deps.Config.Messages.GeneralError,
		}); sendErr != nil {
			log.ErrorContext(ctx, "Failed to send error notice", "error", sendErr, "chat_id", chatID)
		}
		return
	}

	if _, err := b.SendMessage(ctx, &bot.SendMessageParams{
		ChatID:    chatID,
		Text:      format.PendingList(pending),
		ParseMode: models.ParseModeMarkdown,
	}); err != nil {
		log.ErrorContext(ctx, "Failed to send pending list", "error", err, "chat_id", chatID)
	}
}
