package database

import (
	"database/sql"
	"time"
)

// Status is the lifecycle state of an AdminMessage. A message starts as
// StatusPending and moves exactly once to one of the resolved states;
// there is no transition back to pending.
type Status string

const (
	StatusPending Status = "pending"
	StatusReplied Status = "replied"
	StatusRead    Status = "read"
	StatusIgnored Status = "ignored"
)

// AdminMessage represents one anonymous message a user sent to the
// administrators. ReplyContent, RepliedBy, and RepliedAt are populated
// if and only if Status is StatusReplied.
type AdminMessage struct {
	ID        int64     `db:"id"`
	UserID    int64     `db:"user_id"`
	Content   string    `db:"content"`
	Status    Status    `db:"status"`
	CreatedAt time.Time `db:"created_at"`

	ReplyContent sql.NullString `db:"reply_content"`
	RepliedBy    sql.NullInt64  `db:"replied_by"`
	RepliedAt    sql.NullTime   `db:"replied_at"`
}

// User represents a Telegram user known to the bot. Blocked users cannot
// submit new messages to the administrators.
type User struct {
	UserID    int64     `db:"user_id"`
	Username  string    `db:"username"`
	FirstName string    `db:"first_name"`
	JoinedAt  time.Time `db:"joined_at"`
	Blocked   bool      `db:"blocked"`
}
