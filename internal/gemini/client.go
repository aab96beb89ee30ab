// Package gemini implements the optional integration with Google's Gemini
// API. It generates suggested reply drafts an admin can use when answering
// an anonymous user message.
package gemini

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"google.golang.org/genai"

	"github.com/isrelgetu251-dotcom/Telee-b/internal/config"
	"github.com/isrelgetu251-dotcom/Telee-b/internal/database"
)

// Client generates reply drafts from a user's recent message history.
type Client interface {
	// GenerateReplyDraft returns a short suggested reply to the newest
	// message in history. History is ordered newest first.
	GenerateReplyDraft(ctx context.Context, history []database.AdminMessage) (string, error)
}

type sdkClient struct {
	genaiClient   *genai.Client
	log           *slog.Logger
	contentConfig *genai.GenerateContentConfig
	modelName     string
	maxRetries    int
	retryDelay    time.Duration
}

// NewClient creates a new Gemini client with the provided configuration.
func NewClient(ctx context.Context, cfg config.GeminiConfig, log *slog.Logger) (Client, error) {
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("gemini API key is required")
	}

	gi, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  cfg.APIKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create genai client: %w", err)
	}

	baseCfg := &genai.GenerateContentConfig{
		Temperature: &cfg.Temperature,
		SafetySettings: []*genai.SafetySetting{
			{Category: genai.HarmCategoryHarassment, Threshold: genai.HarmBlockThresholdBlockNone},
			{Category: genai.HarmCategoryHateSpeech, Threshold: genai.HarmBlockThresholdBlockNone},
			{Category: genai.HarmCategorySexuallyExplicit, Threshold: genai.HarmBlockThresholdBlockNone},
			{Category: genai.HarmCategoryDangerousContent, Threshold: genai.HarmBlockThresholdBlockNone},
		},
	}
	if cfg.Instruction != "" {
		baseCfg.SystemInstruction = &genai.Content{Parts: []*genai.Part{{Text: cfg.Instruction}}}
	}

	logger := log.With("component", "gemini_client")
	logger.Info("Gemini client initialized successfully", "model", cfg.ModelName)
	return &sdkClient{
		genaiClient:   gi,
		log:           logger,
		contentConfig: baseCfg,
		modelName:     cfg.ModelName,
		maxRetries:    cfg.MaxRetries,
		retryDelay:    time.Duration(cfg.RetryDelaySeconds) * time.Second,
	}, nil
}

// GenerateReplyDraft builds a prompt from the user's recent messages and asks
// the model for a short reply draft.
func (c *sdkClient) GenerateReplyDraft(ctx context.Context, history []database.AdminMessage) (string, error) {
	if len(history) == 0 {
		return "", fmt.Errorf("no messages to draft a reply for")
	}

	var b strings.Builder
	b.WriteString("Recent messages from the user, newest first:\n")
	for _, msg := range history {
		fmt.Fprintf(&b, "[%s] %s\n", msg.CreatedAt.Format("2006-01-02 15:04:05"), msg.Content)
		if msg.Status == database.StatusReplied && msg.ReplyContent.Valid {
			fmt.Fprintf(&b, "[admin replied] %s\n", msg.ReplyContent.String)
		}
	}
	b.WriteString("\nDraft a reply to the newest message.")

	contents := []*genai.Content{
		{Role: genai.RoleUser, Parts: []*genai.Part{{Text: b.String()}}},
	}

	resp, err := c.generateContentWithRetries(ctx, contents)
	if err != nil {
		return "", err
	}

	draft := strings.TrimSpace(resp.Text())
	if draft == "" {
		return "", fmt.Errorf("gemini returned an empty draft")
	}
	return draft, nil
}

func (c *sdkClient) generateContentWithRetries(ctx context.Context, contents []*genai.Content) (*genai.GenerateContentResponse, error) {
	var lastErr error

	for attempt := 0; attempt <= c.maxRetries; attempt++ {
		if attempt > 0 {
			c.log.WarnContext(ctx, "Retrying Gemini request",
				"attempt", attempt, "max_retries", c.maxRetries, "error", lastErr)
			select {
			case <-ctx.Done():
				return nil, ctx.Err()
			case <-time.After(c.retryDelay):
			}
		}

		resp, err := c.genaiClient.Models.GenerateContent(ctx, c.modelName, contents, c.contentConfig)
		if err == nil {
			return resp, nil
		}
		lastErr = err
	}

	return nil, fmt.Errorf("gemini request failed after %d attempts: %w", c.maxRetries+1, lastErr)
}
