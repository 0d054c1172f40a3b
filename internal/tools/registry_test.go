// SPDX-License-Identifier: Apache-2.0

package tools

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"testing"

	"github.com/haldre/assistant-gateway/internal/domain"
)

type stubTool struct {
	result json.RawMessage
	err    error
	calls  int
}

func (s *stubTool) Execute(ctx context.Context, args json.RawMessage) (json.RawMessage, error) {
	s.calls++
	return s.result, s.err
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestRegistryExecute(t *testing.T) {
	registry := NewRegistry(discardLogger())
	tool := &stubTool{result: json.RawMessage(`{"ok":true}`)}
	registry.Register("write_note", tool)

	result, err := registry.Execute(context.Background(), "write_note", json.RawMessage(`{}`))
	if err != nil {
		t.Fatalf("execute: %v", err)
	}
	if string(result) != `{"ok":true}` {
		t.Fatalf("unexpected result: %s", result)
	}
	if tool.calls != 1 {
		t.Fatalf("expected one tool call got %d", tool.calls)
	}
}

func TestRegistryUnknownTool(t *testing.T) {
	registry := NewRegistry(discardLogger())

	_, err := registry.Execute(context.Background(), "launch_rocket", nil)
	if !errors.Is(err, domain.ErrUnknownTool) {
		t.Fatalf("expected ErrUnknownTool got %v", err)
	}
}

func TestRegistryToolError(t *testing.T) {
	registry := NewRegistry(discardLogger())
	toolErr := errors.New("disk full")
	registry.Register("write_note", &stubTool{err: toolErr})

	_, err := registry.Execute(context.Background(), "write_note", json.RawMessage(`{}`))
	if !errors.Is(err, toolErr) {
		t.Fatalf("expected tool error to propagate, got %v", err)
	}
}
