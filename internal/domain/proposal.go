package domain

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

type Status string

const (
	StatusPending  Status = "pending"
	StatusApproved Status = "approved"
	StatusRejected Status = "rejected"
	StatusExecuted Status = "executed"
	StatusFailed   Status = "failed"
)

// Terminal reports whether no further transition is permitted.
// "approved" is not terminal: it only exists inside a single approval
// call, between claiming a proposal and recording its outcome.
func (s Status) Terminal() bool {
	return s == StatusRejected || s == StatusExecuted || s == StatusFailed
}

type Risk string

const (
	RiskLow    Risk = "low"
	RiskMedium Risk = "medium"
	RiskHigh   Risk = "high"
)

type CreateProposalParams struct {
	ToolName string
	Args     json.RawMessage
	Summary  string
	Risk     Risk
}

type Proposal struct {
	ID         uuid.UUID       `json:"id"`
	ToolName   string          `json:"tool_name"`
	Args       json.RawMessage `json:"args"`
	Summary    string          `json:"summary"`
	Risk       Risk            `json:"risk"`
	Status     Status          `json:"status"`
	CreatedAt  time.Time       `json:"created_at"`
	ExecutedAt *time.Time      `json:"executed_at,omitempty"`
	Result     json.RawMessage `json:"result,omitempty"`
}

// ProposalView is the listing shape. It deliberately carries neither
// args nor result so raw tool arguments never leak through the
// pending-proposals endpoint.
type ProposalView struct {
	ID        uuid.UUID `json:"id"`
	ToolName  string    `json:"tool_name"`
	Summary   string    `json:"summary"`
	Risk      Risk      `json:"risk"`
	Status    Status    `json:"status"`
	CreatedAt time.Time `json:"created_at"`
}
