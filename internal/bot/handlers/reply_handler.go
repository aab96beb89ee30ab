package handlers

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strconv"
	"strings"

	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"

	"github.com/isrelgetu251-dotcom/Telee-b/internal/database"
)

// NewReplyCommandHandler returns a handler for the legacy
// "/reply <message_id> <text>" command. It bypasses the session tracker and
// records the reply directly, producing the same persisted result as the
// quick-reply flow for the same inputs.
func NewReplyCommandHandler(deps HandlerDeps) bot.HandlerFunc {
	return replyCommandHandler{deps}.Handle
}

type replyCommandHandler struct {
	deps HandlerDeps
}

func (h replyCommandHandler) Handle(ctx context.Context, b *bot.Bot, update *models.Update) {
	log := h.deps.Logger.With("handler", "reply_command")

	if update.Message == nil || update.Message.From == nil {
		return
	}
	adminID := update.Message.From.ID
	chatID := update.Message.Chat.ID

	// "/reply <message_id> <text>" — the reply text is the raw remainder so
	// both reply paths store byte-identical content.
	parts := strings.SplitN(update.Message.Text, " ", 3)
	if len(parts) < 3 || strings.TrimSpace(parts[2]) == "" {
		sendPlain(ctx, b, log, chatID, "Usage: /reply <message_id> <your reply>")
		return
	}

	messageID, err := strconv.ParseInt(parts[1], 10, 64)
	if err != nil {
		sendPlain(ctx, b, log, chatID, "Invalid message ID. It must be a number.")
		return
	}

	dispatchReply(ctx, b, h.deps, log, adminID, chatID, messageID, parts[2])
}

// dispatchReply records a reply to messageID, delivers it anonymously to the
// sending user, and confirms the outcome to the admin. It is shared by the
// quick-reply flow and the legacy /reply command. Store no-ops (message gone
// or already resolved) are reported as informational notices, never errors.
func dispatchReply(ctx context.Context, b *bot.Bot, deps HandlerDeps, log *slog.Logger, adminID, adminChatID, messageID int64, replyText string) {
	msgs := deps.Config.Messages

	msg, err := deps.Store.GetMessage(ctx, messageID)
	if err != nil {
		if errors.Is(err, database.ErrNotFound) {
			sendPlain(ctx, b, log, adminChatID, fmt.Sprintf("ℹ️ Message #%d does not exist.", messageID))
			return
		}
		log.ErrorContext(ctx, "Failed to load message for reply", "error", err, "message_id", messageID)
		sendPlain(ctx, b, log, adminChatID, msgs.GeneralError)
		return
	}

	ok, err := deps.Store.RecordReply(ctx, messageID, adminID, replyText)
	if err != nil {
		log.ErrorContext(ctx, "Failed to record reply", "error", err, "message_id", messageID)
		sendPlain(ctx, b, log, adminChatID, msgs.GeneralError)
		return
	}
	if !ok {
		log.InfoContext(ctx, "Reply refused, message no longer pending", "message_id", messageID)
		sendPlain(ctx, b, log, adminChatID, msgs.AlreadyResolved)
		return
	}

	log.InfoContext(ctx, "Reply recorded",
		"message_id", messageID, "admin_id", adminID, "user_id", msg.UserID)

	// Deliver anonymously: the user sees the reply text, not the admin.
	if _, err := b.SendMessage(ctx, &bot.SendMessageParams{
		ChatID: msg.UserID,
		Text:   fmt.Sprintf(msgs.ReplyReceived, replyText),
	}); err != nil {
		log.ErrorContext(ctx, "Failed to deliver reply to user",
			"error", err, "message_id", messageID, "user_id", msg.UserID)
		sendPlain(ctx, b, log, adminChatID, "⚠️ Reply recorded, but delivery to the user failed.")
		return
	}

	sendPlain(ctx, b, log, adminChatID, msgs.ReplySent)
}

// sendPlain sends a plain-text message and logs delivery failures.
func sendPlain(ctx context.Context, b *bot.Bot, log *slog.Logger, chatID int64, text string) {
	if _, err := b.SendMessage(ctx, &bot.SendMessageParams{ChatID: chatID, Text: text}); err != nil {
		log.ErrorContext(ctx, "Failed to send message", "error", err, "chat_id", chatID)
	}
}
