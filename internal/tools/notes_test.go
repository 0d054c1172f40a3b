// SPDX-License-Identifier: Apache-2.0

package tools

import (
	"context"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/haldre/assistant-gateway/internal/domain"
)

func TestSafeFilename(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{in: "Groceries", want: "groceries"},
		{in: "  Weekly   Meal Plan  ", want: "weekly-meal-plan"},
		{in: "Q3 / Budget!!", want: "q3-budget"},
		{in: "déjà vu", want: "dj-vu"},
		{in: "!!!", want: "note"},
		{in: "", want: "note"},
		{in: strings.Repeat("a", 200), want: strings.Repeat("a", 80)},
	}

	for _, tc := range cases {
		if got := safeFilename(tc.in); got != tc.want {
			t.Fatalf("safeFilename(%q): expected %q got %q", tc.in, tc.want, got)
		}
	}
}

func TestNoteWriterExecute(t *testing.T) {
	dir := t.TempDir()
	writer := NewNoteWriter(dir)
	writer.now = func() time.Time {
		return time.Date(2025, 1, 1, 12, 0, 0, 0, time.UTC)
	}

	raw, err := writer.Execute(context.Background(), json.RawMessage(`{"title":"Groceries","content":"milk, eggs"}`))
	if err != nil {
		t.Fatalf("execute: %v", err)
	}

	var result noteResult
	if err := json.Unmarshal(raw, &result); err != nil {
		t.Fatalf("unmarshal result: %v", err)
	}

	if filepath.Base(result.Path) != "20250101_120000__groceries.md" {
		t.Fatalf("unexpected file name: %s", result.Path)
	}

	body, err := os.ReadFile(result.Path)
	if err != nil {
		t.Fatalf("read note: %v", err)
	}
	if string(body) != "# Groceries\n\nmilk, eggs\n" {
		t.Fatalf("unexpected note body: %q", string(body))
	}
	if result.Bytes != len(body) {
		t.Fatalf("expected bytes %d got %d", len(body), result.Bytes)
	}
}

func TestNoteWriterCreatesDirectory(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "nested", "notes")
	writer := NewNoteWriter(dir)

	if _, err := writer.Execute(context.Background(), json.RawMessage(`{"title":"Hi","content":"there"}`)); err != nil {
		t.Fatalf("execute: %v", err)
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		t.Fatalf("read dir: %v", err)
	}
	if len(entries) != 1 {
		t.Fatalf("expected one note file got %d", len(entries))
	}
}

func TestNoteWriterDistinctTimestampsDistinctPaths(t *testing.T) {
	dir := t.TempDir()
	writer := NewNoteWriter(dir)

	stamps := []time.Time{
		time.Date(2025, 1, 1, 12, 0, 0, 0, time.UTC),
		time.Date(2025, 1, 1, 12, 0, 1, 0, time.UTC),
	}

	paths := make(map[string]bool, 2)
	for _, ts := range stamps {
		stamp := ts
		writer.now = func() time.Time { return stamp }

		raw, err := writer.Execute(context.Background(), json.RawMessage(`{"title":"Same Title","content":"body"}`))
		if err != nil {
			t.Fatalf("execute: %v", err)
		}
		var result noteResult
		if err := json.Unmarshal(raw, &result); err != nil {
			t.Fatalf("unmarshal result: %v", err)
		}
		paths[result.Path] = true
	}

	if len(paths) != 2 {
		t.Fatalf("expected two distinct paths got %d", len(paths))
	}
}

func TestNoteWriterRejectsMissingFields(t *testing.T) {
	writer := NewNoteWriter(t.TempDir())

	cases := []string{
		`{"title":"","content":"x"}`,
		`{"title":"x","content":""}`,
		`{"title":"   ","content":"x"}`,
		`{}`,
		`not-json`,
	}

	for _, args := range cases {
		_, err := writer.Execute(context.Background(), json.RawMessage(args))
		if !errors.Is(err, domain.ErrInvalidToolArgs) {
			t.Fatalf("args %s: expected ErrInvalidToolArgs got %v", args, err)
		}
	}
}
