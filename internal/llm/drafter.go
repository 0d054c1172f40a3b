// SPDX-License-Identifier: Apache-2.0

// Package llm holds the drafting collaborator: the component that turns
// free text into a structured note draft. The rest of the system only
// sees the Drafter interface, so any provider (API client, rule engine,
// test stub) can stand in.
package llm

import (
	"context"

	"github.com/haldre/assistant-gateway/internal/domain"
)

type Drafter interface {
	Draft(ctx context.Context, userText string) (domain.NoteDraft, error)
}
