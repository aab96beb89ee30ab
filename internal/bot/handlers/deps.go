package handlers

import (
	"log/slog"

	"github.com/isrelgetu251-dotcom/Telee-b/internal/config"
	"github.com/isrelgetu251-dotcom/Telee-b/internal/database"
	"github.com/isrelgetu251-dotcom/Telee-b/internal/gemini"
	"github.com/isrelgetu251-dotcom/Telee-b/internal/session"
)

// HandlerDeps provides dependencies for Telegram command, text, and callback
// handlers. GeminiClient is nil when reply-draft suggestions are disabled.
type HandlerDeps struct {
	Logger       *slog.Logger
	Config       *config.Config
	Store        database.Store
	Sessions     *session.Tracker
	GeminiClient gemini.Client
}
