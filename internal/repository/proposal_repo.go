// SPDX-License-Identifier: Apache-2.0

package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"

	"github.com/google/uuid"
	"github.com/haldre/assistant-gateway/internal/domain"
	"github.com/haldre/assistant-gateway/internal/metrics"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// ProposalRepository is the durable proposal table. The persisted row is
// the source of truth for status transitions: every transition is a
// conditional UPDATE checked via RowsAffected, so the at-most-once
// guarantee holds across processes and restarts without in-memory locks.
type ProposalRepository struct {
	pool   *pgxpool.Pool
	logger *slog.Logger
}

func NewProposalRepository(pool *pgxpool.Pool, logger *slog.Logger) *ProposalRepository {
	return &ProposalRepository{
		pool:   pool,
		logger: logger,
	}
}

func (r *ProposalRepository) Create(ctx context.Context, params domain.CreateProposalParams) (domain.Proposal, error) {
	proposal := domain.Proposal{
		ID:       uuid.New(),
		ToolName: params.ToolName,
		Args:     params.Args,
		Summary:  params.Summary,
		Risk:     params.Risk,
		Status:   domain.StatusPending,
	}
	if proposal.Risk == "" {
		proposal.Risk = domain.RiskLow
	}

	err := r.pool.QueryRow(ctx, `
		INSERT INTO proposals (id, tool_name, args, summary, risk, status)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING created_at
	`,
		proposal.ID,
		proposal.ToolName,
		[]byte(proposal.Args),
		proposal.Summary,
		proposal.Risk,
		proposal.Status,
	).Scan(&proposal.CreatedAt)
	if err != nil {
		r.logger.Error("insert proposal failed", "tool", params.ToolName, "error", err)
		return domain.Proposal{}, fmt.Errorf("insert proposal: %w", err)
	}

	metrics.IncProposalStatus(string(domain.StatusPending))
	r.logger.Info("proposal created",
		"proposal_id", proposal.ID,
		"tool", proposal.ToolName,
		"risk", proposal.Risk,
	)
	return proposal, nil
}

func (r *ProposalRepository) Get(ctx context.Context, id uuid.UUID) (domain.Proposal, error) {
	var (
		p      domain.Proposal
		args   []byte
		result []byte
	)

	err := r.pool.QueryRow(ctx, `
		SELECT id, tool_name, args, summary, risk, status, created_at, executed_at, result
		FROM proposals
		WHERE id = $1
	`, id).Scan(
		&p.ID,
		&p.ToolName,
		&args,
		&p.Summary,
		&p.Risk,
		&p.Status,
		&p.CreatedAt,
		&p.ExecutedAt,
		&result,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.Proposal{}, domain.ErrProposalNotFound
		}
		r.logger.Error("get proposal failed", "proposal_id", id, "error", err)
		return domain.Proposal{}, fmt.Errorf("get proposal: %w", err)
	}

	p.Args = json.RawMessage(args)
	if result != nil {
		p.Result = json.RawMessage(result)
	}
	return p, nil
}

// ListPending returns pending proposals newest first. The view shape
// never carries args or result.
func (r *ProposalRepository) ListPending(ctx context.Context) ([]domain.ProposalView, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT id, tool_name, summary, risk, status, created_at
		FROM proposals
		WHERE status = $1
		ORDER BY created_at DESC
	`, domain.StatusPending)
	if err != nil {
		r.logger.Error("list pending proposals failed", "error", err)
		return nil, fmt.Errorf("list pending proposals: %w", err)
	}
	defer rows.Close()

	views := make([]domain.ProposalView, 0, 16)
	for rows.Next() {
		var v domain.ProposalView
		if err := rows.Scan(&v.ID, &v.ToolName, &v.Summary, &v.Risk, &v.Status, &v.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan proposal view: %w", err)
		}
		views = append(views, v)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list pending proposals: %w", err)
	}

	return views, nil
}

// Reject atomically moves a pending proposal to rejected. Returns false
// when the proposal was no longer pending, so a racing caller can take
// the already-resolved branch.
func (r *ProposalRepository) Reject(ctx context.Context, id uuid.UUID) (bool, error) {
	cmd, err := r.pool.Exec(ctx, `
		UPDATE proposals
		SET status = $2
		WHERE id = $1
		  AND status = $3
	`, id, domain.StatusRejected, domain.StatusPending)
	if err != nil {
		r.logger.Error("reject proposal failed", "proposal_id", id, "error", err)
		return false, fmt.Errorf("reject proposal: %w", err)
	}

	if cmd.RowsAffected() == 0 {
		r.logger.Info("reject skipped (not pending)", "proposal_id", id)
		return false, nil
	}

	metrics.IncProposalStatus(string(domain.StatusRejected))
	r.logger.Info("proposal rejected", "proposal_id", id)
	return true, nil
}

// Claim atomically moves a pending proposal to approved. Exactly one of
// N concurrent claimers observes true; the rest must re-read and report
// the terminal status produced by the winner.
func (r *ProposalRepository) Claim(ctx context.Context, id uuid.UUID) (bool, error) {
	cmd, err := r.pool.Exec(ctx, `
		UPDATE proposals
		SET status = $2
		WHERE id = $1
		  AND status = $3
	`, id, domain.StatusApproved, domain.StatusPending)
	if err != nil {
		r.logger.Error("claim proposal failed", "proposal_id", id, "error", err)
		return false, fmt.Errorf("claim proposal: %w", err)
	}

	if cmd.RowsAffected() == 0 {
		r.logger.Info("claim lost (not pending)", "proposal_id", id)
		return false, nil
	}

	metrics.IncProposalStatus(string(domain.StatusApproved))
	r.logger.Info("proposal claimed", "proposal_id", id)
	return true, nil
}

// Resolve records the execution outcome of a claimed proposal, stamping
// executed_at and result together exactly once.
func (r *ProposalRepository) Resolve(ctx context.Context, id uuid.UUID, status domain.Status, result json.RawMessage) error {
	if status != domain.StatusExecuted && status != domain.StatusFailed {
		return fmt.Errorf("resolve proposal %s: status %q is not an execution outcome", id, status)
	}

	cmd, err := r.pool.Exec(ctx, `
		UPDATE proposals
		SET status = $2,
		    executed_at = NOW(),
		    result = $3
		WHERE id = $1
		  AND status = $4
	`, id, status, []byte(result), domain.StatusApproved)
	if err != nil {
		r.logger.Error("resolve proposal failed", "proposal_id", id, "status", status, "error", err)
		return fmt.Errorf("resolve proposal: %w", err)
	}

	if cmd.RowsAffected() == 0 {
		r.logger.Error("resolve without claim", "proposal_id", id, "status", status)
		return fmt.Errorf("resolve proposal %s: row is not claimed", id)
	}

	metrics.IncProposalStatus(string(status))
	r.logger.Info("proposal resolved", "proposal_id", id, "status", status)
	return nil
}

// CountStuck reports proposals parked in approved, i.e. a previous
// process crashed between claiming and recording an outcome. They are
// surfaced at startup for the operator; nothing re-drives the tool
// because whether the side effect happened is unknown.
func (r *ProposalRepository) CountStuck(ctx context.Context) (int, error) {
	var count int
	err := r.pool.QueryRow(ctx, `
		SELECT COUNT(*)
		FROM proposals
		WHERE status = $1
	`, domain.StatusApproved).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("count stuck proposals: %w", err)
	}
	return count, nil
}
