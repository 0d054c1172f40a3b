// SPDX-License-Identifier: Apache-2.0

package tools

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"time"

	"github.com/haldre/assistant-gateway/internal/domain"
)

const maxSlugLen = 80

var whitespaceRuns = regexp.MustCompile(`\s+`)
var disallowedChars = regexp.MustCompile(`[^a-z0-9\-_]+`)

type noteArgs struct {
	Title   string `json:"title"`
	Content string `json:"content"`
}

type noteResult struct {
	Path  string `json:"path"`
	Bytes int    `json:"bytes"`
}

// NoteWriter writes a markdown note into the configured directory.
// File names embed the creation timestamp so identical titles do not
// collide across invocations.
type NoteWriter struct {
	dir string
	now func() time.Time
}

func NewNoteWriter(dir string) *NoteWriter {
	return &NoteWriter{
		dir: dir,
		now: time.Now,
	}
}

func (n *NoteWriter) Execute(ctx context.Context, args json.RawMessage) (json.RawMessage, error) {
	var parsed noteArgs
	if err := json.Unmarshal(args, &parsed); err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrInvalidToolArgs, err)
	}

	title := strings.TrimSpace(parsed.Title)
	content := strings.TrimSpace(parsed.Content)
	if title == "" || content == "" {
		return nil, fmt.Errorf("%w: title and content are required", domain.ErrInvalidToolArgs)
	}

	if err := os.MkdirAll(n.dir, 0o755); err != nil {
		return nil, fmt.Errorf("create notes dir: %w", err)
	}

	timestamp := n.now().UTC().Format("20060102_150405")
	name := timestamp + "__" + safeFilename(title) + ".md"
	path := filepath.Join(n.dir, name)

	body := "# " + title + "\n\n" + content + "\n"
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		return nil, fmt.Errorf("write note: %w", err)
	}

	absPath, err := filepath.Abs(path)
	if err != nil {
		absPath = path
	}

	return json.Marshal(noteResult{
		Path:  absPath,
		Bytes: len(body),
	})
}

// safeFilename reduces a title to a conservative slug: lowercase,
// whitespace runs collapsed to a dash, everything outside [a-z0-9-_]
// stripped, capped at maxSlugLen with "note" as the empty fallback.
func safeFilename(title string) string {
	t := strings.ToLower(strings.TrimSpace(title))
	t = whitespaceRuns.ReplaceAllString(t, "-")
	t = disallowedChars.ReplaceAllString(t, "")
	if len(t) > maxSlugLen {
		t = t[:maxSlugLen]
	}
	if t == "" {
		return "note"
	}
	return t
}
