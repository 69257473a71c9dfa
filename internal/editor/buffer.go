// Package editor provides Editor implementations for footnote workflows and
// a session that couples an editor with renumbering and backups.
package editor

import (
	"context"
	"sync"

	"github.com/goliatone/go-footnotes/pkg/interfaces"
)

// Buffer is an in-memory editor for hosts that hold document text themselves.
type Buffer struct {
	mu       sync.RWMutex
	document string
	cursor   int
}

var _ interfaces.Editor = (*Buffer)(nil)

// NewBuffer creates a buffer holding the given document with the cursor at
// the start.
func NewBuffer(document string) *Buffer {
	return &Buffer{document: document}
}

func (b *Buffer) Document(ctx context.Context) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.document, nil
}

func (b *Buffer) Apply(ctx context.Context, document string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	b.document = document
	b.cursor = clampOffset(b.cursor, len(document))
	return nil
}

func (b *Buffer) Cursor(ctx context.Context) (int, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.cursor, nil
}

func (b *Buffer) MoveCursor(ctx context.Context, offset int) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	b.cursor = clampOffset(offset, len(b.document))
	return nil
}

func clampOffset(offset, limit int) int {
	if offset < 0 {
		return 0
	}
	if offset > limit {
		return limit
	}
	return offset
}
