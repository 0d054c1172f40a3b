// SPDX-License-Identifier: Apache-2.0

package httptransport

import (
	"context"
	"log/slog"

	"github.com/google/uuid"
	"github.com/haldre/assistant-gateway/internal/assistant"
	"github.com/haldre/assistant-gateway/internal/domain"
)

type Chatter interface {
	Chat(ctx context.Context, message string) (assistant.ChatResult, error)
}

type ProposalApprover interface {
	Approve(ctx context.Context, id uuid.UUID, approve bool) (assistant.ApprovalOutcome, error)
}

type ProposalLister interface {
	ListPending(ctx context.Context) ([]domain.ProposalView, error)
}

type HealthChecker interface {
	Check(ctx context.Context) error
}

type Deps struct {
	Chat           Chatter
	Approver       ProposalApprover
	Proposals      ProposalLister
	Health         HealthChecker
	Logger         *slog.Logger
	AdminToken     string
	ChatRatePerMin int
	Version        string
	Commit         string
	BuildDate      string
}
