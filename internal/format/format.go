// Package format renders admin messages, history listings, and statistics
// into MarkdownV2 text plus the applicable inline actions. Rendering is pure:
// the same input always produces the same output and nothing is mutated.
package format

import (
	"fmt"
	"strings"

	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"

	"github.com/isrelgetu251-dotcom/Telee-b/internal/database"
)

// Callback data prefixes for the admin inline actions. The numeric suffix is
// a message ID for reply/read and a user ID for history/ignore.
const (
	CallbackReplyPrefix   = "admin_reply_"
	CallbackHistoryPrefix = "admin_history_"
	CallbackReadPrefix    = "admin_read_"
	CallbackIgnorePrefix  = "admin_ignore_"
)

const timeLayout = "2006-01-02 15:04"

const (
	contentPreviewLen = 100
	historyContentLen = 80
	historyReplyLen   = 50
)

// Notification renders a stored message for delivery to an admin, returning
// the MarkdownV2 text and the inline keyboard with the actions applicable to
// the message's current status. Pending messages offer reply, history, read,
// and ignore; resolved messages offer only history.
func Notification(msg *database.AdminMessage) (string, *models.InlineKeyboardMarkup) {
	var b strings.Builder
	fmt.Fprintf(&b, "📨 *New message \\#%d*\n", msg.ID)
	fmt.Fprintf(&b, "From: `%d`\n", msg.UserID)
	fmt.Fprintf(&b, "Time: %s\n", bot.EscapeMarkdown(msg.CreatedAt.Format(timeLayout)))
	fmt.Fprintf(&b, "Status: %s\n\n", statusLabel(msg.Status))
	b.WriteString(bot.EscapeMarkdown(msg.Content))

	return b.String(), Keyboard(msg)
}

// Keyboard returns the inline actions applicable to the message's status.
func Keyboard(msg *database.AdminMessage) *models.InlineKeyboardMarkup {
	historyButton := models.InlineKeyboardButton{
		Text:         "📜 History",
		CallbackData: fmt.Sprintf("%s%d", CallbackHistoryPrefix, msg.UserID),
	}

	if msg.Status != database.StatusPending {
		return &models.InlineKeyboardMarkup{
			InlineKeyboard: [][]models.InlineKeyboardButton{{historyButton}},
		}
	}

	return &models.InlineKeyboardMarkup{
		InlineKeyboard: [][]models.InlineKeyboardButton{
			{
				{
					Text:         "💬 Reply",
					CallbackData: fmt.Sprintf("%s%d", CallbackReplyPrefix, msg.ID),
				},
				historyButton,
			},
			{
				{
					Text:         "✅ Mark read",
					CallbackData: fmt.Sprintf("%s%d", CallbackReadPrefix, msg.ID),
				},
				{
					Text:         "🔇 Ignore user",
					CallbackData: fmt.Sprintf("%s%d", CallbackIgnorePrefix, msg.UserID),
				},
			},
		},
	}
}

// History renders a user's message history, newest first, one compact block
// per entry with the reply text included for replied messages.
func History(userID int64, messages []database.AdminMessage) string {
	if len(messages) == 0 {
		return fmt.Sprintf("📜 No message history for user `%d`\\.", userID)
	}

	var b strings.Builder
	fmt.Fprintf(&b, "📜 *Message history for user* `%d`\n\n", userID)
	for _, msg := range messages {
		fmt.Fprintf(&b, "*\\#%d* · %s · %s\n",
			msg.ID,
			bot.EscapeMarkdown(msg.CreatedAt.Format(timeLayout)),
			statusLabel(msg.Status))
		fmt.Fprintf(&b, "%s\n", bot.EscapeMarkdown(Truncate(msg.Content, historyContentLen)))
		if msg.Status == database.StatusReplied && msg.ReplyContent.Valid {
			fmt.Fprintf(&b, "↳ %s\n", bot.EscapeMarkdown(Truncate(msg.ReplyContent.String, historyReplyLen)))
		}
		b.WriteString("\n")
	}

	return strings.TrimRight(b.String(), "\n")
}

// PendingList renders the admin inbox of pending messages with the legacy
// /reply command hint for each entry.
func PendingList(messages []database.AdminMessage) string {
	if len(messages) == 0 {
		return "✅ No pending user messages\\."
	}

	var b strings.Builder
	b.WriteString("📨 *Pending user messages*\n\n")
	for _, msg := range messages {
		fmt.Fprintf(&b, "*\\#%d* from `%d` · %s\n",
			msg.ID, msg.UserID, bot.EscapeMarkdown(msg.CreatedAt.Format(timeLayout)))
		fmt.Fprintf(&b, "%s\n", bot.EscapeMarkdown(Truncate(msg.Content, contentPreviewLen)))
		fmt.Fprintf(&b, "Reply with: `/reply %d your text`\n\n", msg.ID)
	}

	return strings.TrimRight(b.String(), "\n")
}

// Stats renders per-status message counts.
func Stats(counts map[database.Status]int64) string {
	var b strings.Builder
	b.WriteString("📊 *Message stats*\n\n")
	fmt.Fprintf(&b, "• Pending: %d\n", counts[database.StatusPending])
	fmt.Fprintf(&b, "• Replied: %d\n", counts[database.StatusReplied])
	fmt.Fprintf(&b, "• Read: %d\n", counts[database.StatusRead])
	fmt.Fprintf(&b, "• Ignored: %d", counts[database.StatusIgnored])
	return b.String()
}

// QuickReplyPrompt renders the prompt an admin sees after tapping the reply
// button. The optional draft is a suggested reply the admin may copy.
func QuickReplyPrompt(messageID int64, draft string) string {
	var b strings.Builder
	fmt.Fprintf(&b, "💬 *Quick reply to message \\#%d*\n\n", messageID)
	b.WriteString("Type your reply\\. It will be sent anonymously to the user\\.")
	if draft != "" {
		b.WriteString("\n\nSuggested draft:\n")
		b.WriteString(bot.EscapeMarkdown(draft))
	}
	return b.String()
}

// Truncate shortens s to at most maxLen characters, appending an ellipsis
// when something was cut.
func Truncate(s string, maxLen int) string {
	if len(s) <= maxLen {
		return s
	}
	if maxLen <= 3 {
		return "..."
	}
	return s[:maxLen-3] + "..."
}

func statusLabel(status database.Status) string {
	switch status {
	case database.StatusPending:
		return "⏳ pending"
	case database.StatusReplied:
		return "✅ replied"
	case database.StatusRead:
		return "👁 read"
	case database.StatusIgnored:
		return "🔇 ignored"
	default:
		return string(status)
	}
}
