package editor

import (
	"context"
	"errors"

	"github.com/google/uuid"

	"github.com/goliatone/go-footnotes/backups"
	"github.com/goliatone/go-footnotes/internal/logging"
	"github.com/goliatone/go-footnotes/internal/renumber"
	"github.com/goliatone/go-footnotes/pkg/interfaces"
)

// Backups captures the snapshot operation a session needs before it rewrites
// a document. interfaces.BackupService satisfies it.
type Backups interface {
	Snapshot(ctx context.Context, documentKey string, document string) (*backups.Snapshot, error)
}

// RenumberOutcome reports what RenumberDocument did.
type RenumberOutcome struct {
	// Changed reports whether the document was rewritten.
	Changed bool
	// Count is the number of distinct referenced footnote labels.
	Count int
	// SnapshotID identifies the pre-change snapshot. It is uuid.Nil when no
	// backup was taken, either because backups are not configured or because
	// the document did not change.
	SnapshotID uuid.UUID
}

// Session couples an editor with footnote renumbering and optional backups.
// When backups are configured, the original document is snapshotted before
// any rewrite reaches the editor.
type Session struct {
	editor  interfaces.Editor
	backups Backups
	key     string
	logger  interfaces.Logger
}

// SessionOption configures a session.
type SessionOption func(*Session)

// SessionWithBackups snapshots documents under the given key before rewrites.
func SessionWithBackups(backups Backups, documentKey string) SessionOption {
	return func(s *Session) {
		s.backups = backups
		s.key = documentKey
	}
}

// SessionWithLogger attaches a logger to the session.
func SessionWithLogger(logger interfaces.Logger) SessionOption {
	return func(s *Session) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// NewSession creates a session over the given editor.
func NewSession(editor interfaces.Editor, opts ...SessionOption) (*Session, error) {
	if editor == nil {
		return nil, errors.New("editor: session requires an editor")
	}
	session := &Session{
		editor: editor,
		logger: logging.NoOp(),
	}
	for _, opt := range opts {
		if opt != nil {
			opt(session)
		}
	}
	return session, nil
}

// Editor returns the underlying editor.
func (s *Session) Editor() interfaces.Editor {
	return s.editor
}

// DocumentKey returns the key snapshots are stored under, if any.
func (s *Session) DocumentKey() string {
	return s.key
}

// RenumberDocument renumbers the session document. The editor is only
// written when renumbering changed the text, and the prior content is
// snapshotted first when backups are configured.
func (s *Session) RenumberDocument(ctx context.Context) (*RenumberOutcome, error) {
	document, err := s.editor.Document(ctx)
	if err != nil {
		return nil, err
	}

	result := renumber.Renumber(document)
	outcome := &RenumberOutcome{
		Changed: result.Changed,
		Count:   result.Count,
	}
	if !result.Changed {
		return outcome, nil
	}

	if s.backups != nil {
		snapshot, err := s.backups.Snapshot(ctx, s.key, document)
		if err != nil {
			return nil, err
		}
		outcome.SnapshotID = snapshot.ID
	}

	if err := s.editor.Apply(ctx, result.Document); err != nil {
		return nil, err
	}
	s.logger.Info("editor.renumber.applied",
		"document_key", s.key,
		"footnotes", result.Count,
		"snapshot_id", outcome.SnapshotID.String(),
	)
	return outcome, nil
}
