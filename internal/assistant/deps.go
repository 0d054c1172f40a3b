// SPDX-License-Identifier: Apache-2.0

package assistant

import (
	"context"
	"encoding/json"

	"github.com/google/uuid"
	"github.com/haldre/assistant-gateway/internal/domain"
)

type ProposalStore interface {
	Create(ctx context.Context, params domain.CreateProposalParams) (domain.Proposal, error)
	Get(ctx context.Context, id uuid.UUID) (domain.Proposal, error)
	Reject(ctx context.Context, id uuid.UUID) (bool, error)
	Claim(ctx context.Context, id uuid.UUID) (bool, error)
	Resolve(ctx context.Context, id uuid.UUID, status domain.Status, result json.RawMessage) error
}

type ToolExecutor interface {
	Execute(ctx context.Context, name string, args json.RawMessage) (json.RawMessage, error)
}
