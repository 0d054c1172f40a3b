// SPDX-License-Identifier: Apache-2.0

package assistant

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/google/uuid"
	"github.com/haldre/assistant-gateway/internal/domain"
)

type ApprovalOutcome struct {
	ID              uuid.UUID
	Status          domain.Status
	Result          json.RawMessage
	AlreadyResolved bool
}

// Approver drives a proposal out of pending. The claim-then-execute
// ordering keeps execution at-most-once: only the caller whose
// conditional update wins runs the tool, and every outcome (including
// tool failure) lands back in the proposal row before it is surfaced.
type Approver struct {
	store    ProposalStore
	registry ToolExecutor
	logger   *slog.Logger
}

func NewApprover(store ProposalStore, registry ToolExecutor, logger *slog.Logger) *Approver {
	if logger == nil {
		logger = slog.Default()
	}
	return &Approver{
		store:    store,
		registry: registry,
		logger:   logger,
	}
}

// Approve resolves a proposal. Repeated calls on a resolved proposal
// are no-ops reporting the existing status. When the tool fails, the
// proposal transitions to failed with the error recorded and the error
// is also returned so the transport can surface it.
func (a *Approver) Approve(ctx context.Context, id uuid.UUID, approve bool) (ApprovalOutcome, error) {
	proposal, err := a.store.Get(ctx, id)
	if err != nil {
		return ApprovalOutcome{}, err
	}

	if proposal.Status != domain.StatusPending {
		return ApprovalOutcome{
			ID:              id,
			Status:          proposal.Status,
			Result:          proposal.Result,
			AlreadyResolved: true,
		}, nil
	}

	if !approve {
		won, err := a.store.Reject(ctx, id)
		if err != nil {
			return ApprovalOutcome{}, err
		}
		if !won {
			return a.reportResolved(ctx, id)
		}
		return ApprovalOutcome{ID: id, Status: domain.StatusRejected}, nil
	}

	won, err := a.store.Claim(ctx, id)
	if err != nil {
		return ApprovalOutcome{}, err
	}
	if !won {
		return a.reportResolved(ctx, id)
	}

	result, execErr := a.registry.Execute(ctx, proposal.ToolName, proposal.Args)
	if execErr != nil {
		payload, marshalErr := json.Marshal(map[string]string{"error": execErr.Error()})
		if marshalErr != nil {
			payload = json.RawMessage(`{"error":"tool execution failed"}`)
		}
		if resolveErr := a.store.Resolve(ctx, id, domain.StatusFailed, payload); resolveErr != nil {
			return ApprovalOutcome{}, fmt.Errorf("record failure outcome: %w", resolveErr)
		}
		return ApprovalOutcome{
			ID:     id,
			Status: domain.StatusFailed,
			Result: payload,
		}, execErr
	}

	if err := a.store.Resolve(ctx, id, domain.StatusExecuted, result); err != nil {
		// The side effect happened but the outcome write failed; the
		// row stays claimed and the startup stuck-proposal check will
		// flag it.
		return ApprovalOutcome{}, fmt.Errorf("record execution outcome: %w", err)
	}

	return ApprovalOutcome{
		ID:     id,
		Status: domain.StatusExecuted,
		Result: result,
	}, nil
}

// reportResolved handles the loser of a claim race: re-read and report
// whatever the winner produced instead of executing anything.
func (a *Approver) reportResolved(ctx context.Context, id uuid.UUID) (ApprovalOutcome, error) {
	proposal, err := a.store.Get(ctx, id)
	if err != nil {
		return ApprovalOutcome{}, err
	}

	a.logger.Info("approval raced, reporting existing status",
		"proposal_id", id,
		"status", proposal.Status,
	)
	return ApprovalOutcome{
		ID:              id,
		Status:          proposal.Status,
		Result:          proposal.Result,
		AlreadyResolved: true,
	}, nil
}
