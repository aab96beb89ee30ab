package handlers

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"

	"github.com/isrelgetu251-dotcom/Telee-b/internal/database"
	"github.com/isrelgetu251-dotcom/Telee-b/internal/format"
	"github.com/isrelgetu251-dotcom/Telee-b/internal/text"
)

// NewTextHandler returns the default handler for plain text messages. It
// routes the text by conversational state: an admin with an active reply
// session is completing a quick reply, a user in compose mode is submitting
// a message to the admins, anything else gets the welcome hint.
func NewTextHandler(deps HandlerDeps) bot.HandlerFunc {
	return textHandler{deps}.Handle
}

type textHandler struct {
	deps HandlerDeps
}

func (h textHandler) Handle(ctx context.Context, b *bot.Bot, update *models.Update) {
	log := h.deps.Logger.With("handler", "text")

	if update.Message == nil || update.Message.From == nil {
		return
	}

	content := update.Message.Text
	if content == "" || strings.HasPrefix(content, "/") {
		// Unknown command, nothing to route.
		return
	}

	userID := update.Message.From.ID
	chatID := update.Message.Chat.ID

	if h.deps.Config.Telegram.IsAdmin(userID) {
		if r, ok := h.deps.Sessions.TakeReply(userID); ok {
			dispatchReply(ctx, b, h.deps, log, userID, chatID, r.MessageID, content)
			return
		}
		if h.deps.Sessions.TakeCompose(userID) {
			h.submitToAdmins(ctx, b, update, content, log)
			return
		}
		// No active session: the quick-reply prompt was stale or expired.
		sendPlain(ctx, b, log, chatID, h.deps.Config.Messages.NothingToReply)
		return
	}

	if h.deps.Sessions.TakeCompose(userID) {
		h.submitToAdmins(ctx, b, update, content, log)
		return
	}

	sendPlain(ctx, b, log, chatID, h.deps.Config.Messages.Welcome)
}

// submitToAdmins validates and stores a user's message, then fans it out to
// every configured admin with the action keyboard attached.
func (h textHandler) submitToAdmins(ctx context.Context, b *bot.Bot, update *models.Update, content string, log *slog.Logger) {
	from := update.Message.From
	chatID := update.Message.Chat.ID
	msgs := h.deps.Config.Messages

	blocked, err := h.deps.Store.IsUserBlocked(ctx, from.ID)
	if err != nil {
		log.ErrorContext(ctx, "Failed to check blocked status", "error", err, "user_id", from.ID)
		sendPlain(ctx, b, log, chatID, msgs.GeneralError)
		return
	}
	if blocked {
		log.InfoContext(ctx, "Dropped submission from blocked user", "user_id", from.ID)
		sendPlain(ctx, b, log, chatID, msgs.ContactBlocked)
		return
	}

	cleaned, err := text.Sanitize(content, h.deps.Config.Moderation.SpamWords)
	if err != nil {
		log.InfoContext(ctx, "Rejected submission", "user_id", from.ID, "reason", err)
		sendPlain(ctx, b, log, chatID, fmt.Sprintf(msgs.ContactRejected, err))
		return
	}

	if err := h.deps.Store.UpsertUser(ctx, &database.User{
		UserID:    from.ID,
		Username:  from.Username,
		FirstName: from.FirstName,
		JoinedAt:  time.Now().UTC(),
	}); err != nil {
		log.ErrorContext(ctx, "Failed to upsert user on submission", "error", err, "user_id", from.ID)
	}

	stored, err := h.deps.Store.CreateMessage(ctx, from.ID, cleaned)
	if err != nil {
		log.ErrorContext(ctx, "Failed to store admin message", "error", err, "user_id", from.ID)
		sendPlain(ctx, b, log, chatID, msgs.GeneralError)
		return
	}

	notification, keyboard := format.Notification(stored)
	delivered := 0
	for _, adminID := range h.deps.Config.Telegram.AdminUserIDs {
		if _, err := b.SendMessage(ctx, &bot.SendMessageParams{
			ChatID:      adminID,
			Text:        notification,
			ParseMode:   models.ParseModeMarkdown,
			ReplyMarkup: keyboard,
		}); err != nil {
			log.ErrorContext(ctx, "Failed to notify admin",
				"error", err, "admin_id", adminID, "message_id", stored.ID)
			continue
		}
		delivered++
	}

	log.InfoContext(ctx, "Admin message submitted",
		"message_id", stored.ID, "user_id", from.ID, "admins_notified", delivered)
	sendPlain(ctx, b, log, chatID, msgs.ContactAccepted)
}
