package handlers

import (
	"context"

	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"

	"github.com/isrelgetu251-dotcom/Telee-b/internal/format"
)

// NewStatsHandler returns a handler for the /stats command, which shows
// per-status message counts.
func NewStatsHandler(deps HandlerDeps) bot.HandlerFunc {
	return statsHandler{deps}.Handle
}

type statsHandler struct {
	deps HandlerDeps
}

func (h statsHandler) Handle(ctx context.Context, b *bot.Bot, update *models.Update) {
	log := h.deps.Logger.With("handler", "stats")

	if update.Message == nil || update.Message.From == nil {
		return
	}
	chatID := update.Message.Chat.ID

	counts, err := h.deps.Store.CountByStatus(ctx)
	if err != nil {
		log.ErrorContext(ctx, "Failed to count messages", "error", err)
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
		Text:      format.Stats(counts),
		ParseMode: models.ParseModeMarkdown,
	}); err != nil {
		log.ErrorContext(ctx, "Failed to send stats", "error", err, "chat_id", chatID)
	}
}
