package handlers_test

import (
	"testing"

	"github.com/isrelgetu251-dotcom/Telee-b/internal/bot/handlers"
)

func TestParseAction(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		data     string
		wantKind handlers.ActionKind
		wantID   int64
		wantErr  bool
	}{
		{name: "Reply", data: "admin_reply_42", wantKind: handlers.ActionReply, wantID: 42},
		{name: "History", data: "admin_history_100", wantKind: handlers.ActionHistory, wantID: 100},
		{name: "Read", data: "admin_read_7", wantKind: handlers.ActionRead, wantID: 7},
		{name: "Ignore", data: "admin_ignore_100", wantKind: handlers.ActionIgnore, wantID: 100},
		{name: "Unknown prefix", data: "admin_unknown_1", wantErr: true},
		{name: "Missing id", data: "admin_reply_", wantErr: true},
		{name: "Non-numeric id", data: "admin_reply_abc", wantErr: true},
		{name: "Empty data", data: "", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			action, err := handlers.ParseAction(tt.data)
			if tt.wantErr {
				if err == nil {
					t.Fatalf("ParseAction(%q) succeeded, want error", tt.data)
				}
				return
			}
			if err != nil {
				t.Fatalf("ParseAction(%q) failed: %v", tt.data, err)
			}
			if action.Kind != tt.wantKind || action.ID != tt.wantID {
				t.Errorf("ParseAction(%q) = %+v, want Kind=%v ID=%d", tt.data, action, tt.wantKind, tt.wantID)
			}
		})
	}
}
