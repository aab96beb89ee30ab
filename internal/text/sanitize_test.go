package text_test

import (
	"errors"
	"strings"
	"testing"

	"github.com/isrelgetu251-dotcom/Telee-b/internal/text"
)

func TestSanitize(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name      string
		input     string
		spamWords []string
		expected  string
		wantErr   error
	}{
		{
			name:     "Plain message passes through",
			input:    "Hello, I need some help with my account.",
			expected: "Hello, I need some help with my account.",
		},
		{
			name:     "Whitespace is collapsed and trimmed",
			input:    "  Hello,\n\nI need   some\thelp.  ",
			expected: "Hello, I need some help.",
		},
		{
			name:    "Empty message",
			input:   "",
			wantErr: text.ErrEmpty,
		},
		{
			name:    "Whitespace only",
			input:   " \n\t ",
			wantErr: text.ErrEmpty,
		},
		{
			name:    "Too short",
			input:   "hi there",
			wantErr: text.ErrTooShort,
		},
		{
			name:    "Too long",
			input:   strings.Repeat("a", text.MaxMessageLength+1),
			wantErr: text.ErrTooLong,
		},
		{
			name:      "Spam keyword is matched case-insensitively",
			input:     "Buy cheap CRYPTO now, great deal for you!",
			spamWords: []string{"crypto"},
			wantErr:   text.ErrSpam,
		},
		{
			name:      "Empty spam word never matches",
			input:     "A perfectly normal support request.",
			spamWords: []string{""},
			expected:  "A perfectly normal support request.",
		},
		{
			name:     "Exactly at minimum length",
			input:    strings.Repeat("a", text.MinMessageLength),
			expected: strings.Repeat("a", text.MinMessageLength),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got, err := text.Sanitize(tt.input, tt.spamWords)
			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Fatalf("Sanitize(%q) error = %v, want %v", tt.input, err, tt.wantErr)
				}
				return
			}
			if err != nil {
				t.Fatalf("Sanitize(%q) unexpected error: %v", tt.input, err)
			}
			if got != tt.expected {
				t.Errorf("Sanitize(%q) = %q, want %q", tt.input, got, tt.expected)
			}
		})
	}
}
