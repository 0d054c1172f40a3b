// SPDX-License-Identifier: Apache-2.0

package assistant

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/haldre/assistant-gateway/internal/domain"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// fakeStore mirrors the repository's conditional-update semantics in
// memory so race behavior can be exercised without a database.
type fakeStore struct {
	mu        sync.Mutex
	proposals map[uuid.UUID]*domain.Proposal
	createErr error
}

func newFakeStore() *fakeStore {
	return &fakeStore{proposals: make(map[uuid.UUID]*domain.Proposal)}
}

func (s *fakeStore) Create(ctx context.Context, params domain.CreateProposalParams) (domain.Proposal, error) {
	if s.createErr != nil {
		return domain.Proposal{}, s.createErr
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	p := &domain.Proposal{
		ID:        uuid.New(),
		ToolName:  params.ToolName,
		Args:      params.Args,
		Summary:   params.Summary,
		Risk:      params.Risk,
		Status:    domain.StatusPending,
		CreatedAt: time.Now().UTC(),
	}
	s.proposals[p.ID] = p
	return *p, nil
}

func (s *fakeStore) Get(ctx context.Context, id uuid.UUID) (domain.Proposal, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	p, ok := s.proposals[id]
	if !ok {
		return domain.Proposal{}, domain.ErrProposalNotFound
	}
	return *p, nil
}

func (s *fakeStore) Reject(ctx context.Context, id uuid.UUID) (bool, error) {
	return s.cas(id, domain.StatusPending, domain.StatusRejected), nil
}

func (s *fakeStore) Claim(ctx context.Context, id uuid.UUID) (bool, error) {
	return s.cas(id, domain.StatusPending, domain.StatusApproved), nil
}

func (s *fakeStore) cas(id uuid.UUID, from, to domain.Status) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	p, ok := s.proposals[id]
	if !ok || p.Status != from {
		return false
	}
	p.Status = to
	return true
}

func (s *fakeStore) Resolve(ctx context.Context, id uuid.UUID, status domain.Status, result json.RawMessage) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	p, ok := s.proposals[id]
	if !ok || p.Status != domain.StatusApproved {
		return fmt.Errorf("resolve proposal %s: row is not claimed", id)
	}

	now := time.Now().UTC()
	p.Status = status
	p.Result = result
	p.ExecutedAt = &now
	return nil
}

type stubDrafter struct {
	draft domain.NoteDraft
	err   error
}

func (d *stubDrafter) Draft(ctx context.Context, userText string) (domain.NoteDraft, error) {
	return d.draft, d.err
}

type stubRegistry struct {
	mu     sync.Mutex
	result json.RawMessage
	err    error
	calls  int
}

func (r *stubRegistry) Execute(ctx context.Context, name string, args json.RawMessage) (json.RawMessage, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.calls++
	return r.result, r.err
}

func (r *stubRegistry) callCount() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.calls
}
