package handlers

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"

	"github.com/isrelgetu251-dotcom/Telee-b/internal/database"
	"github.com/isrelgetu251-dotcom/Telee-b/internal/format"
)

const historyDraftDepth = 5

// NewCallbackHandler returns the dispatcher for the admin inline actions.
// Every callback is answered exactly once, with a toast describing the
// outcome; store no-ops surface as informational toasts, never as errors.
func NewCallbackHandler(deps HandlerDeps) bot.HandlerFunc {
	return callbackHandler{deps}.Handle
}

type callbackHandler struct {
	deps HandlerDeps
}

func (h callbackHandler) Handle(ctx context.Context, b *bot.Bot, update *models.Update) {
	log := h.deps.Logger.With("handler", "callback")

	cq := update.CallbackQuery
	if cq == nil {
		return
	}

	action, err := ParseAction(cq.Data)
	if err != nil {
		log.WarnContext(ctx, "Unparseable callback data", "data", cq.Data, "error", err)
		h.answer(ctx, b, log, cq.ID, "Unknown action.")
		return
	}

	log = log.With("admin_id", cq.From.ID, "action_id", action.ID)

	switch action.Kind {
	case ActionReply:
		h.handleReply(ctx, b, log, cq, action.ID)
	case ActionHistory:
		h.handleHistory(ctx, b, log, cq, action.ID)
	case ActionRead:
		h.handleRead(ctx, b, log, cq, action.ID)
	case ActionIgnore:
		h.handleIgnore(ctx, b, log, cq, action.ID)
	}
}

// handleReply starts a quick-reply session for the message and prompts the
// admin for the reply text, optionally with a Gemini-suggested draft.
func (h callbackHandler) handleReply(ctx context.Context, b *bot.Bot, log *slog.Logger, cq *models.CallbackQuery, messageID int64) {
	msg, err := h.deps.Store.GetMessage(ctx, messageID)
	if err != nil {
		if errors.Is(err, database.ErrNotFound) {
			h.answer(ctx, b, log, cq.ID, fmt.Sprintf("Message #%d does not exist.", messageID))
			return
		}
		log.ErrorContext(ctx, "Failed to load message for quick reply", "error", err)
		h.answer(ctx, b, log, cq.ID, h.deps.Config.Messages.GeneralError)
		return
	}

	if msg.Status != database.StatusPending {
		h.answer(ctx, b, log, cq.ID, h.deps.Config.Messages.AlreadyResolved)
		return
	}

	h.deps.Sessions.BeginReply(cq.From.ID, msg.UserID, msg.ID)
	log.InfoContext(ctx, "Quick-reply session started", "user_id", msg.UserID)

	// Acknowledge before drafting; the draft call can take seconds.
	h.answer(ctx, b, log, cq.ID, "")

	draft := h.draftReply(ctx, log, msg.UserID)
	h.editOrigin(ctx, b, log, cq, format.QuickReplyPrompt(msg.ID, draft))
}

// handleHistory sends the user's recent message history to the admin.
func (h callbackHandler) handleHistory(ctx context.Context, b *bot.Bot, log *slog.Logger, cq *models.CallbackQuery, userID int64) {
	history, err := h.deps.Store.GetHistory(ctx, userID, database.DefaultHistoryLimit)
	if err != nil {
		log.ErrorContext(ctx, "Failed to load message history", "error", err)
		h.answer(ctx, b, log, cq.ID, h.deps.Config.Messages.GeneralError)
		return
	}

	h.answer(ctx, b, log, cq.ID, "")
	if _, err := b.SendMessage(ctx, &bot.SendMessageParams{
		ChatID:    h.originChatID(cq),
		Text:      format.History(userID, history),
		ParseMode: models.ParseModeMarkdown,
	}); err != nil {
		log.ErrorContext(ctx, "Failed to send history", "error", err)
	}
}

// handleRead marks the message as read.
func (h callbackHandler) handleRead(ctx context.Context, b *bot.Bot, log *slog.Logger, cq *models.CallbackQuery, messageID int64) {
	ok, err := h.deps.Store.MarkRead(ctx, messageID)
	if err != nil {
		log.ErrorContext(ctx, "Failed to mark message as read", "error", err)
		h.answer(ctx, b, log, cq.ID, h.deps.Config.Messages.GeneralError)
		return
	}
	if !ok {
		h.answer(ctx, b, log, cq.ID, h.deps.Config.Messages.AlreadyResolved)
		return
	}

	log.InfoContext(ctx, "Message marked as read")
	h.answer(ctx, b, log, cq.ID, "✅ Message marked as read.")
	h.editOrigin(ctx, b, log, cq,
		fmt.Sprintf("✅ *Message \\#%d marked as read*", messageID))
}

// handleIgnore dismisses every pending message from the user and blocks the
// user so future submissions are refused. An in-progress quick reply
// targeting the same user is left untouched.
func (h callbackHandler) handleIgnore(ctx context.Context, b *bot.Bot, log *slog.Logger, cq *models.CallbackQuery, userID int64) {
	count, err := h.deps.Store.IgnoreUserMessages(ctx, userID)
	if err != nil {
		log.ErrorContext(ctx, "Failed to ignore user messages", "error", err)
		h.answer(ctx, b, log, cq.ID, h.deps.Config.Messages.GeneralError)
		return
	}

	if err := h.deps.Store.SetUserBlocked(ctx, userID, true); err != nil {
		log.ErrorContext(ctx, "Failed to block ignored user", "error", err, "user_id", userID)
	}

	log.InfoContext(ctx, "User ignored", "user_id", userID, "dismissed", count)
	h.answer(ctx, b, log, cq.ID, fmt.Sprintf("🔇 User ignored, %d pending dismissed.", count))
	h.editOrigin(ctx, b, log, cq,
		fmt.Sprintf("🔇 *User* `%d` *ignored*\n\n%d pending messages dismissed\\. Future messages from this user will be refused\\.", userID, count))
}

// draftReply asks Gemini for a suggested reply based on the user's recent
// history. Failures degrade to an empty draft.
func (h callbackHandler) draftReply(ctx context.Context, log *slog.Logger, userID int64) string {
	if h.deps.GeminiClient == nil {
		return ""
	}

	history, err := h.deps.Store.GetHistory(ctx, userID, historyDraftDepth)
	if err != nil {
		log.WarnContext(ctx, "Skipping reply draft, history unavailable", "error", err)
		return ""
	}

	draft, err := h.deps.GeminiClient.GenerateReplyDraft(ctx, history)
	if err != nil {
		log.WarnContext(ctx, "Skipping reply draft, generation failed", "error", err)
		return ""
	}
	return draft
}

// answer acknowledges the callback query, optionally with a toast.
func (h callbackHandler) answer(ctx context.Context, b *bot.Bot, log *slog.Logger, callbackQueryID, toast string) {
	if _, err := b.AnswerCallbackQuery(ctx, &bot.AnswerCallbackQueryParams{
		CallbackQueryID: callbackQueryID,
		Text:            toast,
	}); err != nil {
		log.ErrorContext(ctx, "Failed to answer callback query", "error", err)
	}
}

// editOrigin rewrites the notification message the callback came from. When
// the origin message is inaccessible the text is sent as a new message to
// the acting admin instead.
func (h callbackHandler) editOrigin(ctx context.Context, b *bot.Bot, log *slog.Logger, cq *models.CallbackQuery, markdownText string) {
	if m := cq.Message.Message; m != nil {
		if _, err := b.EditMessageText(ctx, &bot.EditMessageTextParams{
			ChatID:    m.Chat.ID,
			MessageID: m.ID,
			Text:      markdownText,
			ParseMode: models.ParseModeMarkdown,
		}); err != nil {
			log.ErrorContext(ctx, "Failed to edit origin message", "error", err)
		}
		return
	}

	if _, err := b.SendMessage(ctx, &bot.SendMessageParams{
		ChatID:    cq.From.ID,
		Text:      markdownText,
		ParseMode: models.ParseModeMarkdown,
	}); err != nil {
		log.ErrorContext(ctx, "Failed to send fallback message", "error", err)
	}
}

// originChatID returns the chat the callback originated from, falling back
// to the acting admin's private chat.
func (h callbackHandler) originChatID(cq *models.CallbackQuery) int64 {
	if m := cq.Message.Message; m != nil {
		return m.Chat.ID
	}
	return cq.From.ID
}
