// Package session tracks in-flight conversational state: which admin is
// composing a quick reply to which message, and which user is composing a
// message to the admins. State is process-local and lost on restart; the
// affected person simply restarts the flow.
package session

import (
	"sync"
	"time"

	"github.com/jonboulle/clockwork"
)

// Reply is an admin's in-progress quick reply. It pins the target user and
// message so the admin's next text input can be dispatched as the reply.
type Reply struct {
	UserID    int64
	MessageID int64
	StartedAt time.Time
}

// Tracker holds per-admin reply sessions and per-user compose sessions.
// Sessions older than the configured TTL are treated as abandoned: Take
// refuses them and ExpireStale removes them. A TTL of zero disables expiry.
type Tracker struct {
	mu        sync.Mutex
	clock     clockwork.Clock
	ttl       time.Duration
	replies   map[int64]Reply
	composing map[int64]time.Time
}

// NewTracker creates a Tracker using the given clock and session TTL.
func NewTracker(clock clockwork.Clock, ttl time.Duration) *Tracker {
	if clock == nil {
		clock = clockwork.NewRealClock()
	}
	return &Tracker{
		clock:     clock,
		ttl:       ttl,
		replies:   make(map[int64]Reply),
		composing: make(map[int64]time.Time),
	}
}

// BeginReply starts a quick-reply session for adminID targeting the given
// user and message. Any existing session for adminID is overwritten
// (last writer wins; the abandoned session needs no cleanup).
func (t *Tracker) BeginReply(adminID, userID, messageID int64) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.replies[adminID] = Reply{
		UserID:    userID,
		MessageID: messageID,
		StartedAt: t.clock.Now(),
	}
}

// TakeReply atomically reads and clears the reply session for adminID, so
// only one reply is consumed per BeginReply. Returns false if there is no
// session or the session has exceeded the TTL.
func (t *Tracker) TakeReply(adminID int64) (Reply, bool) {
	t.mu.Lock()
	defer t.mu.Unlock()

	r, ok := t.replies[adminID]
	if !ok {
		return Reply{}, false
	}
	delete(t.replies, adminID)

	if t.expired(r.StartedAt) {
		return Reply{}, false
	}
	return r, true
}

// ClearReply cancels any reply session for adminID.
func (t *Tracker) ClearReply(adminID int64) {
	t.mu.Lock()
	defer t.mu.Unlock()
	delete(t.replies, adminID)
}

// BeginCompose marks userID as composing a message to the admins.
func (t *Tracker) BeginCompose(userID int64) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.composing[userID] = t.clock.Now()
}

// TakeCompose atomically reads and clears the compose flag for userID.
// Returns false if the user is not composing or the session expired.
func (t *Tracker) TakeCompose(userID int64) bool {
	t.mu.Lock()
	defer t.mu.Unlock()

	startedAt, ok := t.composing[userID]
	if !ok {
		return false
	}
	delete(t.composing, userID)

	return !t.expired(startedAt)
}

// ClearCompose cancels any compose session for userID.
func (t *Tracker) ClearCompose(userID int64) {
	t.mu.Lock()
	defer t.mu.Unlock()
	delete(t.composing, userID)
}

// ExpireStale removes every session older than the TTL and returns how many
// were removed. Intended to run from a scheduled task.
func (t *Tracker) ExpireStale() int {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.ttl <= 0 {
		return 0
	}

	removed := 0
	for adminID, r := range t.replies {
		if t.expired(r.StartedAt) {
			delete(t.replies, adminID)
			removed++
		}
	}
	for userID, startedAt := range t.composing {
		if t.expired(startedAt) {
			delete(t.composing, userID)
			removed++
		}
	}
	return removed
}

func (t *Tracker) expired(startedAt time.Time) bool {
	return t.ttl > 0 && t.clock.Since(startedAt) > t.ttl
}
