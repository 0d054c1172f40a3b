// SPDX-License-Identifier: Apache-2.0

package tools

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/haldre/assistant-gateway/internal/domain"
	"github.com/haldre/assistant-gateway/internal/metrics"
)

// Tool is a named executable action: validated arguments in, a
// structured result describing the side effect out. Tools do not touch
// the proposal table; the caller records whichever outcome occurred.
type Tool interface {
	Execute(ctx context.Context, args json.RawMessage) (json.RawMessage, error)
}

type Registry struct {
	logger *slog.Logger
	tools  map[string]Tool
}

func NewRegistry(logger *slog.Logger) *Registry {
	if logger == nil {
		logger = slog.Default()
	}
	return &Registry{
		logger: logger,
		tools:  make(map[string]Tool, 4),
	}
}

// Register makes a tool addressable by name. Adding a tool is a
// registration call, not a code branch in the approval path.
func (r *Registry) Register(name string, tool Tool) {
	r.tools[name] = tool
	r.logger.Info("tool registered", "tool", name)
}

func (r *Registry) Execute(ctx context.Context, name string, args json.RawMessage) (json.RawMessage, error) {
	tool, ok := r.tools[name]
	if !ok {
		return nil, fmt.Errorf("%w: %s", domain.ErrUnknownTool, name)
	}

	started := time.Now()
	result, err := tool.Execute(ctx, args)
	metrics.ObserveToolExecutionDuration(time.Since(started))

	if err != nil {
		metrics.IncToolExecution(name, "error")
		r.logger.Error("tool execution failed", "tool", name, "error", err)
		return nil, err
	}

	metrics.IncToolExecution(name, "ok")
	r.logger.Info("tool executed", "tool", name, "duration_ms", time.Since(started).Milliseconds())
	return result, nil
}
