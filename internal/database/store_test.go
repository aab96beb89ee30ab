package database_test

import (
	"context"
	"errors"
	"testing"

	"github.com/isrelgetu251-dotcom/Telee-b/internal/database"
)

func newTestStore(t *testing.T) database.Store {
	t.Helper()

	db, err := database.NewDB(":memory:")
	if err != nil {
		t.Fatalf("failed to open test database: %v", err)
	}
	t.Cleanup(func() { database.CloseDB(db) })

	return database.NewStore(db, nil)
}

func TestCreateMessage_StartsPending(t *testing.T) {
	t.Parallel()

	store := newTestStore(t)
	ctx := context.Background()

	msg, err := store.CreateMessage(ctx, 100, "Please help me with my order.")
	if err != nil {
		t.Fatalf("CreateMessage failed: %v", err)
	}
	if msg.ID == 0 {
		t.Error("CreateMessage did not populate the message ID")
	}
	if msg.Status != database.StatusPending {
		t.Errorf("new message status = %q, want %q", msg.Status, database.StatusPending)
	}

	stored, err := store.GetMessage(ctx, msg.ID)
	if err != nil {
		t.Fatalf("GetMessage failed: %v", err)
	}
	if stored.Content != "Please help me with my order." {
		t.Errorf("stored content = %q", stored.Content)
	}
	if stored.Status != database.StatusPending {
		t.Errorf("stored status = %q, want %q", stored.Status, database.StatusPending)
	}
	if stored.ReplyContent.Valid || stored.RepliedBy.Valid || stored.RepliedAt.Valid {
		t.Error("new message has reply fields populated")
	}
}

func TestCreateMessage_Validation(t *testing.T) {
	t.Parallel()

	store := newTestStore(t)
	ctx := context.Background()

	if _, err := store.CreateMessage(ctx, 0, "content"); err == nil {
		t.Error("CreateMessage accepted a zero user_id")
	}
	if _, err := store.CreateMessage(ctx, 100, ""); err == nil {
		t.Error("CreateMessage accepted empty content")
	}
}

func TestGetMessage_NotFound(t *testing.T) {
	t.Parallel()

	store := newTestStore(t)

	_, err := store.GetMessage(context.Background(), 9999)
	if !errors.Is(err, database.ErrNotFound) {
		t.Errorf("GetMessage error = %v, want ErrNotFound", err)
	}
}

func TestRecordReply_TransitionsOnce(t *testing.T) {
	t.Parallel()

	store := newTestStore(t)
	ctx := context.Background()

	msg, err := store.CreateMessage(ctx, 100, "Please help me with my order.")
	if err != nil {
		t.Fatalf("CreateMessage failed: %v", err)
	}

	ok, err := store.RecordReply(ctx, msg.ID, 1, "On it, give me a minute.")
	if err != nil {
		t.Fatalf("RecordReply failed: %v", err)
	}
	if !ok {
		t.Fatal("RecordReply reported no-op for a pending message")
	}

	stored, err := store.GetMessage(ctx, msg.ID)
	if err != nil {
		t.Fatalf("GetMessage failed: %v", err)
	}
	if stored.Status != database.StatusReplied {
		t.Errorf("status after reply = %q, want %q", stored.Status, database.StatusReplied)
	}
	if !stored.ReplyContent.Valid || stored.ReplyContent.String != "On it, give me a minute." {
		t.Errorf("reply content = %+v", stored.ReplyContent)
	}
	if !stored.RepliedBy.Valid || stored.RepliedBy.Int64 != 1 {
		t.Errorf("replied_by = %+v, want 1", stored.RepliedBy)
	}
	if !stored.RepliedAt.Valid {
		t.Error("replied_at not set")
	}

	// A second reply must not overwrite the first.
	ok, err = store.RecordReply(ctx, msg.ID, 2, "Different answer.")
	if err != nil {
		t.Fatalf("second RecordReply errored: %v", err)
	}
	if ok {
		t.Error("RecordReply succeeded twice for the same message")
	}

	stored, err = store.GetMessage(ctx, msg.ID)
	if err != nil {
		t.Fatalf("GetMessage failed: %v", err)
	}
	if stored.ReplyContent.String != "On it, give me a minute." || stored.RepliedBy.Int64 != 1 {
		t.Errorf("first reply was overwritten: %+v", stored)
	}
}

func TestRecordReply_EmptyReply(t *testing.T) {
	t.Parallel()

	store := newTestStore(t)

	if _, err := store.RecordReply(context.Background(), 1, 1, ""); err == nil {
		t.Error("RecordReply accepted empty reply content")
	}
}

func TestMarkRead_OnlyPending(t *testing.T) {
	t.Parallel()

	store := newTestStore(t)
	ctx := context.Background()

	msg, err := store.CreateMessage(ctx, 100, "Please help me with my order.")
	if err != nil {
		t.Fatalf("CreateMessage failed: %v", err)
	}

	ok, err := store.MarkRead(ctx, msg.ID)
	if err != nil {
		t.Fatalf("MarkRead failed: %v", err)
	}
	if !ok {
		t.Fatal("MarkRead reported no-op for a pending message")
	}

	// Resolved messages cannot transition again, in either direction.
	if ok, err := store.MarkRead(ctx, msg.ID); err != nil || ok {
		t.Errorf("second MarkRead = (%v, %v), want (false, nil)", ok, err)
	}
	if ok, err := store.RecordReply(ctx, msg.ID, 1, "too late"); err != nil || ok {
		t.Errorf("RecordReply on read message = (%v, %v), want (false, nil)", ok, err)
	}

	// Missing messages are a no-op too, not an error.
	if ok, err := store.MarkRead(ctx, 9999); err != nil || ok {
		t.Errorf("MarkRead on missing message = (%v, %v), want (false, nil)", ok, err)
	}
}

func TestIgnoreUserMessages(t *testing.T) {
	t.Parallel()

	store := newTestStore(t)
	ctx := context.Background()

	first, err := store.CreateMessage(ctx, 100, "First pending message here.")
	if err != nil {
		t.Fatalf("CreateMessage failed: %v", err)
	}
	if _, err := store.CreateMessage(ctx, 100, "Second pending message here."); err != nil {
		t.Fatalf("CreateMessage failed: %v", err)
	}
	other, err := store.CreateMessage(ctx, 200, "Message from another user.")
	if err != nil {
		t.Fatalf("CreateMessage failed: %v", err)
	}
	if _, err := store.RecordReply(ctx, first.ID, 1, "Answered before the ignore."); err != nil {
		t.Fatalf("RecordReply failed: %v", err)
	}

	count, err := store.IgnoreUserMessages(ctx, 100)
	if err != nil {
		t.Fatalf("IgnoreUserMessages failed: %v", err)
	}
	if count != 1 {
		t.Errorf("IgnoreUserMessages dismissed %d messages, want 1", count)
	}

	// Replied messages keep their resolution.
	stored, err := store.GetMessage(ctx, first.ID)
	if err != nil {
		t.Fatalf("GetMessage failed: %v", err)
	}
	if stored.Status != database.StatusReplied {
		t.Errorf("replied message status after ignore = %q", stored.Status)
	}

	// Other users are untouched.
	stored, err = store.GetMessage(ctx, other.ID)
	if err != nil {
		t.Fatalf("GetMessage failed: %v", err)
	}
	if stored.Status != database.StatusPending {
		t.Errorf("other user's message status after ignore = %q", stored.Status)
	}

	// A second ignore has nothing left to dismiss.
	count, err = store.IgnoreUserMessages(ctx, 100)
	if err != nil {
		t.Fatalf("second IgnoreUserMessages failed: %v", err)
	}
	if count != 0 {
		t.Errorf("second IgnoreUserMessages dismissed %d messages, want 0", count)
	}
}

func TestGetHistory_NewestFirstLimited(t *testing.T) {
	t.Parallel()

	store := newTestStore(t)
	ctx := context.Background()

	var lastID int64
	for i := 0; i < database.DefaultHistoryLimit+2; i++ {
		msg, err := store.CreateMessage(ctx, 100, "A message long enough to store.")
		if err != nil {
			t.Fatalf("CreateMessage failed: %v", err)
		}
		lastID = msg.ID
	}
	if _, err := store.CreateMessage(ctx, 200, "Message from another user."); err != nil {
		t.Fatalf("CreateMessage failed: %v", err)
	}

	history, err := store.GetHistory(ctx, 100, database.DefaultHistoryLimit)
	if err != nil {
		t.Fatalf("GetHistory failed: %v", err)
	}
	if len(history) != database.DefaultHistoryLimit {
		t.Fatalf("GetHistory returned %d messages, want %d", len(history), database.DefaultHistoryLimit)
	}
	if history[0].ID != lastID {
		t.Errorf("GetHistory[0].ID = %d, want newest message %d", history[0].ID, lastID)
	}
	for i := 1; i < len(history); i++ {
		if history[i].ID > history[i-1].ID {
			t.Fatalf("GetHistory not newest-first at index %d", i)
		}
	}
	for _, m := range history {
		if m.UserID != 100 {
			t.Errorf("GetHistory returned message from user %d", m.UserID)
		}
	}
}

func TestGetPendingMessages(t *testing.T) {
	t.Parallel()

	store := newTestStore(t)
	ctx := context.Background()

	msg, err := store.CreateMessage(ctx, 100, "A pending message to resolve.")
	if err != nil {
		t.Fatalf("CreateMessage failed: %v", err)
	}
	if _, err := store.CreateMessage(ctx, 200, "A message that stays pending."); err != nil {
		t.Fatalf("CreateMessage failed: %v", err)
	}
	if _, err := store.MarkRead(ctx, msg.ID); err != nil {
		t.Fatalf("MarkRead failed: %v", err)
	}

	pending, err := store.GetPendingMessages(ctx, 10)
	if err != nil {
		t.Fatalf("GetPendingMessages failed: %v", err)
	}
	if len(pending) != 1 {
		t.Fatalf("GetPendingMessages returned %d messages, want 1", len(pending))
	}
	if pending[0].UserID != 200 {
		t.Errorf("pending message from user %d, want 200", pending[0].UserID)
	}
}

func TestCountByStatus(t *testing.T) {
	t.Parallel()

	store := newTestStore(t)
	ctx := context.Background()

	first, err := store.CreateMessage(ctx, 100, "A message that gets replied.")
	if err != nil {
		t.Fatalf("CreateMessage failed: %v", err)
	}
	if _, err := store.CreateMessage(ctx, 100, "A message that stays pending."); err != nil {
		t.Fatalf("CreateMessage failed: %v", err)
	}
	if _, err := store.RecordReply(ctx, first.ID, 1, "Here is your answer."); err != nil {
		t.Fatalf("RecordReply failed: %v", err)
	}

	counts, err := store.CountByStatus(ctx)
	if err != nil {
		t.Fatalf("CountByStatus failed: %v", err)
	}
	if counts[database.StatusPending] != 1 {
		t.Errorf("pending count = %d, want 1", counts[database.StatusPending])
	}
	if counts[database.StatusReplied] != 1 {
		t.Errorf("replied count = %d, want 1", counts[database.StatusReplied])
	}
	if counts[database.StatusRead] != 0 {
		t.Errorf("read count = %d, want 0", counts[database.StatusRead])
	}
}

func TestUpsertUser_PreservesBlockedFlag(t *testing.T) {
	t.Parallel()

	store := newTestStore(t)
	ctx := context.Background()

	if err := store.UpsertUser(ctx, &database.User{UserID: 100, Username: "alice", FirstName: "Alice"}); err != nil {
		t.Fatalf("UpsertUser failed: %v", err)
	}
	if err := store.SetUserBlocked(ctx, 100, true); err != nil {
		t.Fatalf("SetUserBlocked failed: %v", err)
	}

	// Re-contacting the bot updates the profile but never unblocks.
	if err := store.UpsertUser(ctx, &database.User{UserID: 100, Username: "alice2", FirstName: "Alice"}); err != nil {
		t.Fatalf("second UpsertUser failed: %v", err)
	}

	blocked, err := store.IsUserBlocked(ctx, 100)
	if err != nil {
		t.Fatalf("IsUserBlocked failed: %v", err)
	}
	if !blocked {
		t.Error("UpsertUser cleared the blocked flag")
	}
}

func TestIsUserBlocked_UnknownUser(t *testing.T) {
	t.Parallel()

	store := newTestStore(t)

	blocked, err := store.IsUserBlocked(context.Background(), 9999)
	if err != nil {
		t.Fatalf("IsUserBlocked failed: %v", err)
	}
	if blocked {
		t.Error("unknown user reported as blocked")
	}
}

func TestSetUserBlocked_UnknownUser(t *testing.T) {
	t.Parallel()

	store := newTestStore(t)
	ctx := context.Background()

	if err := store.SetUserBlocked(ctx, 555, true); err != nil {
		t.Fatalf("SetUserBlocked failed: %v", err)
	}

	blocked, err := store.IsUserBlocked(ctx, 555)
	if err != nil {
		t.Fatalf("IsUserBlocked failed: %v", err)
	}
	if !blocked {
		t.Error("SetUserBlocked did not create a blocked record for an unknown user")
	}
}

func TestRunSQLMaintenance(t *testing.T) {
	t.Parallel()

	store := newTestStore(t)

	if err := store.RunSQLMaintenance(context.Background()); err != nil {
		t.Fatalf("RunSQLMaintenance failed: %v", err)
	}
}
