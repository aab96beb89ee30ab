package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/jmoiron/sqlx"
)

// ErrNotFound is returned when a requested record does not exist.
var ErrNotFound = errors.New("record not found")

// DefaultHistoryLimit caps how many messages a history request returns
// when the caller does not specify a limit.
const DefaultHistoryLimit = 10

// Store defines the data access operations for admin messages and users.
// Mutating operations on messages are single-predicate updates: the
// lifecycle invariant (pending moves exactly once to a resolved state) is
// enforced by the WHERE status = 'pending' clause, so a no-op transition
// reports (false, nil) rather than an error.
type Store interface {
	// Ping checks the database connection.
	Ping(ctx context.Context) error

	// CreateMessage inserts a new pending message from userID and returns it.
	CreateMessage(ctx context.Context, userID int64, content string) (*AdminMessage, error)

	// GetMessage retrieves a message by ID. Returns ErrNotFound if absent.
	GetMessage(ctx context.Context, messageID int64) (*AdminMessage, error)

	// MarkRead transitions a pending message to read. Returns false if the
	// message does not exist or is no longer pending.
	MarkRead(ctx context.Context, messageID int64) (bool, error)

	// RecordReply transitions a pending message to replied, recording the
	// reply text, the replying admin, and the reply time. Returns false if
	// the message does not exist or is no longer pending.
	RecordReply(ctx context.Context, messageID, adminID int64, reply string) (bool, error)

	// IgnoreUserMessages transitions every pending message from userID to
	// ignored and returns the number of rows affected.
	IgnoreUserMessages(ctx context.Context, userID int64) (int64, error)

	// GetHistory returns up to limit messages from userID, newest first,
	// regardless of status.
	GetHistory(ctx context.Context, userID int64, limit int) ([]AdminMessage, error)

	// GetPendingMessages returns up to limit pending messages across all
	// users, newest first.
	GetPendingMessages(ctx context.Context, limit int) ([]AdminMessage, error)

	// CountByStatus returns the number of messages in each status.
	CountByStatus(ctx context.Context) (map[Status]int64, error)

	// UpsertUser inserts or updates a user record, preserving the original
	// join date and blocked flag on update.
	UpsertUser(ctx context.Context, user *User) error

	// IsUserBlocked reports whether userID is blocked. Unknown users are
	// not blocked.
	IsUserBlocked(ctx context.Context, userID int64) (bool, error)

	// SetUserBlocked sets the blocked flag for userID.
	SetUserBlocked(ctx context.Context, userID int64, blocked bool) error

	// RunSQLMaintenance performs database maintenance tasks like VACUUM.
	RunSQLMaintenance(ctx context.Context) error
}

// sqlxStore provides an implementation of the Store interface using sqlx.
type sqlxStore struct {
	db     *sqlx.DB
	logger *slog.Logger
}

// NewStore creates a new Store implementation backed by sqlx.
// It requires a connected sqlx.DB instance and a logger.
func NewStore(db *sqlx.DB, logger *slog.Logger) Store {
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return &sqlxStore{
		db:     db,
		logger: logger.With("component", "store"),
	}
}

// Ping checks the database connection.
func (s *sqlxStore) Ping(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

// CreateMessage inserts a new pending message and returns the stored record.
func (s *sqlxStore) CreateMessage(ctx context.Context, userID int64, content string) (*AdminMessage, error) {
	if userID == 0 {
		return nil, fmt.Errorf("message must have a non-zero user_id")
	}
	if content == "" {
		return nil, fmt.Errorf("message must have non-empty content")
	}

	msg := &AdminMessage{
		UserID:    userID,
		Content:   content,
		Status:    StatusPending,
		CreatedAt: time.Now().UTC(),
	}

	query := `
        INSERT INTO admin_messages (user_id, content, status, created_at)
        VALUES (:user_id, :content, :status, :created_at);
    `

	result, err := s.db.NamedExecContext(ctx, query, msg)
	if err != nil {
		s.logger.ErrorContext(ctx, "Error saving admin message", "user_id", userID, "error", err)
		return nil, fmt.Errorf("failed to save message from user %d: %w", userID, err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		s.logger.WarnContext(ctx, "Could not retrieve last insert ID after saving message",
			"user_id", userID, "error", err)
	} else {
		msg.ID = id
	}

	s.logger.DebugContext(ctx, "Admin message saved successfully",
		"user_id", userID, "message_id", msg.ID)
	return msg, nil
}

// GetMessage retrieves a message by ID.
func (s *sqlxStore) GetMessage(ctx context.Context, messageID int64) (*AdminMessage, error) {
	var msg AdminMessage
	query := `
        SELECT id, user_id, content, status, created_at, reply_content, replied_by, replied_at
        FROM admin_messages
        WHERE id = ?;
    `

	err := s.db.GetContext(ctx, &msg, query, messageID)
	switch {
	case errors.Is(err, sql.ErrNoRows):
		return nil, fmt.Errorf("message %d: %w", messageID, ErrNotFound)
	case err != nil:
		s.logger.ErrorContext(ctx, "Error getting admin message", "message_id", messageID, "error", err)
		return nil, fmt.Errorf("failed to get message %d: %w", messageID, err)
	}

	return &msg, nil
}

// MarkRead transitions a pending message to read.
func (s *sqlxStore) MarkRead(ctx context.Context, messageID int64) (bool, error) {
	query := `UPDATE admin_messages SET status = ? WHERE id = ? AND status = ?;`

	result, err := s.db.ExecContext(ctx, query, StatusRead, messageID, StatusPending)
	if err != nil {
		s.logger.ErrorContext(ctx, "Error marking message as read", "message_id", messageID, "error", err)
		return false, fmt.Errorf("failed to mark message %d as read: %w", messageID, err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("failed to read affected rows for message %d: %w", messageID, err)
	}

	s.logger.DebugContext(ctx, "Mark read result", "message_id", messageID, "affected", affected)
	return affected == 1, nil
}

// RecordReply transitions a pending message to replied.
func (s *sqlxStore) RecordReply(ctx context.Context, messageID, adminID int64, reply string) (bool, error) {
	if reply == "" {
		return false, fmt.Errorf("reply content cannot be empty")
	}

	query := `
        UPDATE admin_messages
        SET status = ?, reply_content = ?, replied_by = ?, replied_at = ?
        WHERE id = ? AND status = ?;
    `

	result, err := s.db.ExecContext(ctx, query,
		StatusReplied, reply, adminID, time.Now().UTC(), messageID, StatusPending)
	if err != nil {
		s.logger.ErrorContext(ctx, "Error recording reply",
			"message_id", messageID, "admin_id", adminID, "error", err)
		return false, fmt.Errorf("failed to record reply for message %d: %w", messageID, err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("failed to read affected rows for message %d: %w", messageID, err)
	}

	s.logger.DebugContext(ctx, "Record reply result",
		"message_id", messageID, "admin_id", adminID, "affected", affected)
	return affected == 1, nil
}

// IgnoreUserMessages transitions every pending message from userID to ignored.
func (s *sqlxStore) IgnoreUserMessages(ctx context.Context, userID int64) (int64, error) {
	query := `UPDATE admin_messages SET status = ? WHERE user_id = ? AND status = ?;`

	result, err := s.db.ExecContext(ctx, query, StatusIgnored, userID, StatusPending)
	if err != nil {
		s.logger.ErrorContext(ctx, "Error ignoring user messages", "user_id", userID, "error", err)
		return 0, fmt.Errorf("failed to ignore messages from user %d: %w", userID, err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("failed to read affected rows for user %d: %w", userID, err)
	}

	s.logger.InfoContext(ctx, "Ignored pending user messages", "user_id", userID, "count", affected)
	return affected, nil
}

// GetHistory returns up to limit messages from userID, newest first.
func (s *sqlxStore) GetHistory(ctx context.Context, userID int64, limit int) ([]AdminMessage, error) {
	if limit <= 0 {
		limit = DefaultHistoryLimit
	}

	var messages []AdminMessage
	query := `
        SELECT id, user_id, content, status, created_at, reply_content, replied_by, replied_at
        FROM admin_messages
        WHERE user_id = ?
        ORDER BY created_at DESC, id DESC
        LIMIT ?;
    `

	if err := s.db.SelectContext(ctx, &messages, query, userID, limit); err != nil {
		s.logger.ErrorContext(ctx, "Error getting message history",
			"user_id", userID, "limit", limit, "error", err)
		return nil, fmt.Errorf("failed to get history for user %d: %w", userID, err)
	}

	s.logger.DebugContext(ctx, "Fetched message history", "user_id", userID, "count", len(messages))
	return messages, nil
}

// GetPendingMessages returns up to limit pending messages, newest first.
func (s *sqlxStore) GetPendingMessages(ctx context.Context, limit int) ([]AdminMessage, error) {
	if limit <= 0 {
		limit = DefaultHistoryLimit
	}

	var messages []AdminMessage
	query := `
        SELECT id, user_id, content, status, created_at, reply_content, replied_by, replied_at
        FROM admin_messages
        WHERE status = ?
        ORDER BY created_at DESC, id DESC
        LIMIT ?;
    `

	if err := s.db.SelectContext(ctx, &messages, query, StatusPending, limit); err != nil {
		s.logger.ErrorContext(ctx, "Error getting pending messages", "limit", limit, "error", err)
		return nil, fmt.Errorf("failed to get pending messages: %w", err)
	}

	return messages, nil
}

// CountByStatus returns the number of messages per status.
func (s *sqlxStore) CountByStatus(ctx context.Context) (map[Status]int64, error) {
	rows := []struct {
		Status Status `db:"status"`
		Count  int64  `db:"count"`
	}{}

	query := `SELECT status, COUNT(*) AS count FROM admin_messages GROUP BY status;`
	if err := s.db.SelectContext(ctx, &rows, query); err != nil {
		s.logger.ErrorContext(ctx, "Error counting messages by status", "error", err)
		return nil, fmt.Errorf("failed to count messages by status: %w", err)
	}

	counts := make(map[Status]int64, len(rows))
	for _, row := range rows {
		counts[row.Status] = row.Count
	}
	return counts, nil
}

// UpsertUser inserts or updates a user record. The join date and the blocked
// flag survive updates so re-contacting the bot never unblocks a user.
func (s *sqlxStore) UpsertUser(ctx context.Context, user *User) error {
	if user == nil {
		return fmt.Errorf("cannot save nil user")
	}
	if user.UserID == 0 {
		return fmt.Errorf("user must have a non-zero user_id")
	}

	if user.JoinedAt.IsZero() {
		user.JoinedAt = time.Now().UTC()
	}

	query := `
        INSERT INTO users (user_id, username, first_name, joined_at, blocked)
        VALUES (:user_id, :username, :first_name, :joined_at, :blocked)
        ON CONFLICT (user_id) DO UPDATE SET
            username = excluded.username,
            first_name = excluded.first_name;
    `

	if _, err := s.db.NamedExecContext(ctx, query, user); err != nil {
		s.logger.ErrorContext(ctx, "Error upserting user", "user_id", user.UserID, "error", err)
		return fmt.Errorf("failed to upsert user %d: %w", user.UserID, err)
	}

	return nil
}

// IsUserBlocked reports whether userID is blocked.
func (s *sqlxStore) IsUserBlocked(ctx context.Context, userID int64) (bool, error) {
	var blocked bool
	query := `SELECT blocked FROM users WHERE user_id = ?;`

	err := s.db.GetContext(ctx, &blocked, query, userID)
	switch {
	case errors.Is(err, sql.ErrNoRows):
		return false, nil
	case err != nil:
		s.logger.ErrorContext(ctx, "Error checking blocked status", "user_id", userID, "error", err)
		return false, fmt.Errorf("failed to check blocked status for user %d: %w", userID, err)
	}

	return blocked, nil
}

// SetUserBlocked sets the blocked flag for userID, inserting a minimal user
// record if the user has never contacted the bot.
func (s *sqlxStore) SetUserBlocked(ctx context.Context, userID int64, blocked bool) error {
	query := `
        INSERT INTO users (user_id, joined_at, blocked)
        VALUES (?, ?, ?)
        ON CONFLICT (user_id) DO UPDATE SET blocked = excluded.blocked;
    `

	if _, err := s.db.ExecContext(ctx, query, userID, time.Now().UTC(), blocked); err != nil {
		s.logger.ErrorContext(ctx, "Error setting blocked flag",
			"user_id", userID, "blocked", blocked, "error", err)
		return fmt.Errorf("failed to set blocked flag for user %d: %w", userID, err)
	}

	s.logger.InfoContext(ctx, "Updated user blocked flag", "user_id", userID, "blocked", blocked)
	return nil
}

// RunSQLMaintenance executes a VACUUM command on the SQLite database.
func (s *sqlxStore) RunSQLMaintenance(ctx context.Context) error {
	if ctx.Err() != nil {
		return ctx.Err()
	}

	s.logger.InfoContext(ctx, "Starting database maintenance (VACUUM)...")

	// VACUUM must run outside a transaction in SQLite.
	if _, err := s.db.ExecContext(ctx, "VACUUM;"); err != nil {
		s.logger.ErrorContext(ctx, "Database maintenance (VACUUM) failed", "error", err)
		return fmt.Errorf("failed to execute VACUUM: %w", err)
	}

	s.logger.InfoContext(ctx, "Database maintenance (VACUUM) completed successfully")
	return nil
}
