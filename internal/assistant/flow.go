// SPDX-License-Identifier: Apache-2.0

// Package assistant sequences the chat and approval flows: drafting a
// note from free text, recording a proposal, and later executing the
// proposed tool once a human approves it.
package assistant

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"

	"github.com/google/uuid"
	"github.com/haldre/assistant-gateway/internal/domain"
	"github.com/haldre/assistant-gateway/internal/llm"
	"github.com/haldre/assistant-gateway/internal/metrics"
)

const ToolWriteNote = "write_note"

const fallbackResponse = "Got it. For now I can only create filesystem notes (with approval). " +
	"If you'd like, tell me what note to create (title + what to include)."

type ChatResult struct {
	Response        string
	ProposalID      uuid.UUID
	ProposalSummary string
	Proposed        bool
}

// Flow is stateless per invocation: it holds no conversation memory.
type Flow struct {
	store   ProposalStore
	drafter llm.Drafter
	logger  *slog.Logger
}

func NewFlow(store ProposalStore, drafter llm.Drafter, logger *slog.Logger) *Flow {
	if logger == nil {
		logger = slog.Default()
	}
	return &Flow{
		store:   store,
		drafter: drafter,
		logger:  logger,
	}
}

// Chat drafts a note from the user message and records a proposal when
// the draft qualifies. Drafter failures propagate: silently answering
// "no note" would discard user intent.
func (f *Flow) Chat(ctx context.Context, message string) (ChatResult, error) {
	draft, err := f.drafter.Draft(ctx, message)
	if err != nil {
		return ChatResult{}, fmt.Errorf("draft note: %w", err)
	}

	title := strings.TrimSpace(draft.Title)
	content := strings.TrimSpace(draft.Content)
	if !draft.ShouldCreateNote || title == "" || content == "" {
		metrics.IncDraftDeclined()
		f.logger.Debug("draft declined",
			"should_create_note", draft.ShouldCreateNote,
			"confidence", draft.Confidence,
		)
		return ChatResult{Response: fallbackResponse}, nil
	}

	args, err := json.Marshal(map[string]string{
		"title":   title,
		"content": content,
	})
	if err != nil {
		return ChatResult{}, fmt.Errorf("encode tool args: %w", err)
	}

	summary := fmt.Sprintf("Create a note titled '%s'", title)
	proposal, err := f.store.Create(ctx, domain.CreateProposalParams{
		ToolName: ToolWriteNote,
		Args:     args,
		Summary:  summary,
		Risk:     domain.RiskLow,
	})
	if err != nil {
		return ChatResult{}, fmt.Errorf("record proposal: %w", err)
	}

	response := fmt.Sprintf(
		"I drafted a note and created a proposal: **%s**.\n\n"+
			"To approve and execute it, POST to `/proposals/approve/%s` with `{\"approve\": true}`. "+
			"To reject: `{\"approve\": false}`.",
		proposal.Summary, proposal.ID,
	)

	return ChatResult{
		Response:        response,
		ProposalID:      proposal.ID,
		ProposalSummary: proposal.Summary,
		Proposed:        true,
	}, nil
}
