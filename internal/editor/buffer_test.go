package editor

import (
	"context"
	"testing"
)

func TestBufferRoundTrip(t *testing.T) {
	t.Parallel()

	buffer := NewBuffer("hello world")
	ctx := context.Background()

	document, err := buffer.Document(ctx)
	if err != nil {
		t.Fatalf("Document: %v", err)
	}
	if document != "hello world" {
		t.Fatalf("expected %q, got %q", "hello world", document)
	}

	if err := buffer.Apply(ctx, "rewritten"); err != nil {
		t.Fatalf("Apply: %v", err)
	}
	document, err = buffer.Document(ctx)
	if err != nil {
		t.Fatalf("Document after Apply: %v", err)
	}
	if document != "rewritten" {
		t.Fatalf("expected %q, got %q", "rewritten", document)
	}
}

func TestBufferCursorClamps(t *testing.T) {
	t.Parallel()

	buffer := NewBuffer("0123456789")
	ctx := context.Background()

	if err := buffer.MoveCursor(ctx, -4); err != nil {
		t.Fatalf("MoveCursor: %v", err)
	}
	if cursor, _ := buffer.Cursor(ctx); cursor != 0 {
		t.Fatalf("expected cursor 0, got %d", cursor)
	}

	if err := buffer.MoveCursor(ctx, 7); err != nil {
		t.Fatalf("MoveCursor: %v", err)
	}
	if cursor, _ := buffer.Cursor(ctx); cursor != 7 {
		t.Fatalf("expected cursor 7, got %d", cursor)
	}

	if err := buffer.MoveCursor(ctx, 99); err != nil {
		t.Fatalf("MoveCursor: %v", err)
	}
	if cursor, _ := buffer.Cursor(ctx); cursor != 10 {
		t.Fatalf("expected cursor 10, got %d", cursor)
	}

	// Shrinking the document pulls the cursor back inside it.
	if err := buffer.Apply(ctx, "abc"); err != nil {
		t.Fatalf("Apply: %v", err)
	}
	if cursor, _ := buffer.Cursor(ctx); cursor != 3 {
		t.Fatalf("expected cursor 3, got %d", cursor)
	}
}

func TestBufferRejectsCancelledContext(t *testing.T) {
	t.Parallel()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	buffer := NewBuffer("doc")

	if _, err := buffer.Document(ctx); err == nil {
		t.Fatal("expected Document to report the cancelled context")
	}
	if err := buffer.Apply(ctx, "x"); err == nil {
		t.Fatal("expected Apply to report the cancelled context")
	}
}
