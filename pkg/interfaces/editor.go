package interfaces

import "context"

// Editor abstracts the surface footnote workflows operate on: an in-memory
// buffer, a file on disk, or a host editor pane. Offsets are byte offsets
// into the document text.
type Editor interface {
	// Document returns the current document text.
	Document(ctx context.Context) (string, error)
	// Apply replaces the document text wholesale.
	Apply(ctx context.Context, document string) error
	// Cursor returns the current cursor offset.
	Cursor(ctx context.Context) (int, error)
	// MoveCursor positions the cursor. Implementations clamp the offset into
	// the valid range instead of failing.
	MoveCursor(ctx context.Context, offset int) error
}
