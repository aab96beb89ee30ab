// Package text provides content sanitation for user-submitted messages.
package text

import (
	"errors"
	"regexp"
	"strings"
)

var whitespaceRegex = regexp.MustCompile(`\s+`)

// Bounds for an acceptable message to the administrators. Telegram caps
// message text at 4096 characters; the minimum filters accidental taps.
const (
	MinMessageLength = 10
	MaxMessageLength = 4000
)

var (
	ErrEmpty    = errors.New("message is empty")
	ErrTooShort = errors.New("message is too short")
	ErrTooLong  = errors.New("message is too long")
	ErrSpam     = errors.New("message looks like spam")
)

// Sanitize normalizes user-submitted content and validates it against the
// length bounds and the configured spam keywords. It returns the cleaned
// content or one of the package sentinel errors.
func Sanitize(content string, spamWords []string) (string, error) {
	cleaned := strings.TrimSpace(whitespaceRegex.ReplaceAllString(content, " "))
	if cleaned == "" {
		return "", ErrEmpty
	}
	if len(cleaned) < MinMessageLength {
		return "", ErrTooShort
	}
	if len(cleaned) > MaxMessageLength {
		return "", ErrTooLong
	}

	lowered := strings.ToLower(cleaned)
	for _, word := range spamWords {
		if word != "" && strings.Contains(lowered, strings.ToLower(word)) {
			return "", ErrSpam
		}
	}

	return cleaned, nil
}
