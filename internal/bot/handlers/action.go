package handlers

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/isrelgetu251-dotcom/Telee-b/internal/format"
)

// ActionKind identifies an admin inline action.
type ActionKind int

const (
	// ActionReply starts a quick reply to a message. ID is a message ID.
	ActionReply ActionKind = iota
	// ActionHistory requests a user's message history. ID is a user ID.
	ActionHistory
	// ActionRead marks a message as read. ID is a message ID.
	ActionRead
	// ActionIgnore dismisses a user's pending messages and blocks the user.
	// ID is a user ID.
	ActionIgnore
)

// Action is a parsed admin callback: what to do and the message or user it
// applies to. Parsing the transport payload once here keeps the dispatch
// itself free of string handling.
type Action struct {
	Kind ActionKind
	ID   int64
}

// ParseAction parses callback data of the form "<prefix><numeric id>" into
// a typed Action.
func ParseAction(data string) (Action, error) {
	prefixes := map[string]ActionKind{
		format.CallbackReplyPrefix:   ActionReply,
		format.CallbackHistoryPrefix: ActionHistory,
		format.CallbackReadPrefix:    ActionRead,
		format.CallbackIgnorePrefix:  ActionIgnore,
	}

	for prefix, kind := range prefixes {
		if !strings.HasPrefix(data, prefix) {
			continue
		}
		id, err := strconv.ParseInt(strings.TrimPrefix(data, prefix), 10, 64)
		if err != nil {
			return Action{}, fmt.Errorf("invalid callback id in %q: %w", data, err)
		}
		return Action{Kind: kind, ID: id}, nil
	}

	return Action{}, fmt.Errorf("unknown callback action %q", data)
}
