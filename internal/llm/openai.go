// SPDX-License-Identifier: Apache-2.0

package llm

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/haldre/assistant-gateway/internal/domain"
	"github.com/haldre/assistant-gateway/internal/metrics"
	openai "github.com/sashabaranov/go-openai"
)

const systemPrompt = `You are a personal assistant.
Your current capability is ONLY to propose creating filesystem notes.

Rules:
- If the user asks to create/save/remember/write a note, set should_create_note=true and extract a clear title + content.
- If the user is not asking for a note, set should_create_note=false.
- Be conservative: if unsure, set should_create_note=false.

Respond with a single JSON object:
{"should_create_note": bool, "title": string, "content": string, "confidence": number between 0 and 1}`

// OpenAIDrafter produces note drafts via the OpenAI chat completions
// API in JSON mode.
type OpenAIDrafter struct {
	client *openai.Client
	model  string
	logger *slog.Logger
}

// NewOpenAIDrafter fails fast on a missing credential: a service that
// cannot draft must not start and silently answer "no note".
func NewOpenAIDrafter(apiKey, model string, logger *slog.Logger) (*OpenAIDrafter, error) {
	if strings.TrimSpace(apiKey) == "" {
		return nil, fmt.Errorf("%w: OPENAI_API_KEY is not set", domain.ErrDrafterUnavailable)
	}
	if logger == nil {
		logger = slog.Default()
	}

	return &OpenAIDrafter{
		client: openai.NewClient(apiKey),
		model:  model,
		logger: logger,
	}, nil
}

func (d *OpenAIDrafter) Draft(ctx context.Context, userText string) (domain.NoteDraft, error) {
	started := time.Now()

	resp, err := d.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model:       d.model,
		Temperature: 0.2,
		ResponseFormat: &openai.ChatCompletionResponseFormat{
			Type: openai.ChatCompletionResponseFormatTypeJSONObject,
		},
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: systemPrompt},
			{Role: openai.ChatMessageRoleUser, Content: userText},
		},
	})
	metrics.ObserveDraftLatency(time.Since(started))
	if err != nil {
		d.logger.Error("draft completion failed", "error", err)
		return domain.NoteDraft{}, fmt.Errorf("draft completion: %w", err)
	}

	if len(resp.Choices) == 0 {
		return domain.NoteDraft{}, fmt.Errorf("draft completion: empty response")
	}

	draft, err := parseDraft(resp.Choices[0].Message.Content)
	if err != nil {
		d.logger.Error("draft parse failed", "error", err)
		return domain.NoteDraft{}, err
	}

	d.logger.Debug("draft produced",
		"should_create_note", draft.ShouldCreateNote,
		"confidence", draft.Confidence,
		"duration_ms", time.Since(started).Milliseconds(),
	)
	return draft, nil
}

func parseDraft(content string) (domain.NoteDraft, error) {
	trimmed := strings.TrimSpace(content)

	// Some models wrap JSON-mode output in a fence anyway.
	if strings.HasPrefix(trimmed, "```") {
		trimmed = strings.TrimPrefix(trimmed, "```json")
		trimmed = strings.TrimPrefix(trimmed, "```")
		trimmed = strings.TrimSuffix(strings.TrimSpace(trimmed), "```")
		trimmed = strings.TrimSpace(trimmed)
	}

	var draft domain.NoteDraft
	if err := json.Unmarshal([]byte(trimmed), &draft); err != nil {
		return domain.NoteDraft{}, fmt.Errorf("parse draft response: %w", err)
	}
	return draft, nil
}
