package insertcmd

import (
	"context"
	"errors"

	"github.com/goliatone/go-footnotes/backups"
	"github.com/goliatone/go-footnotes/internal/commands"
	"github.com/goliatone/go-footnotes/internal/editor"
	"github.com/goliatone/go-footnotes/internal/insert"
	"github.com/goliatone/go-footnotes/internal/logging"
	"github.com/goliatone/go-footnotes/pkg/interfaces"
	command "github.com/goliatone/go-command"
)

const insertOperation = "insert.footnote"

// ErrInsertFeatureDisabled is returned when the insert workflow is disabled at runtime.
var ErrInsertFeatureDisabled = errors.New("insert command: feature disabled")

var _ command.Commander[InsertFootnoteCommand] = (*InsertFootnoteHandler)(nil)

// Inserter captures the insert service surface the handler needs.
type Inserter interface {
	InsertAt(ctx context.Context, ed interfaces.Editor, offset int, text string) (*insert.InsertResult, error)
}

// Backups captures the snapshot operation taken before a file is edited.
type Backups interface {
	Snapshot(ctx context.Context, documentKey string, document string) (*backups.Snapshot, error)
}

// InsertFootnoteHandler performs file-level footnote inserts via the shared
// command handler foundation. When a backup service is supplied, the original
// document is snapshotted before the edit lands.
type InsertFootnoteHandler struct {
	inner *commands.Handler[InsertFootnoteCommand]
}

// NewInsertFootnoteHandler creates a handler bound to the supplied insert service.
func NewInsertFootnoteHandler(service Inserter, backupService Backups, logger interfaces.Logger, gates FeatureGates, opts ...commands.HandlerOption[InsertFootnoteCommand]) *InsertFootnoteHandler {
	baseLogger := logger
	if baseLogger == nil {
		baseLogger = logging.NoOp()
	}

	exec := func(ctx context.Context, msg InsertFootnoteCommand) error {
		if !gates.insertEnabled() {
			return ErrInsertFeatureDisabled
		}

		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}

		target, err := editor.NewFile(msg.Path)
		if err != nil {
			return err
		}

		offset := msg.Offset
		if msg.AtEnd || backupService != nil {
			document, err := target.Document(ctx)
			if err != nil {
				return err
			}
			if msg.AtEnd {
				offset = len(document)
			}
			if backupService != nil {
				if _, err := backupService.Snapshot(ctx, msg.Path, document); err != nil {
					return err
				}
			}
		}

		result, err := service.InsertAt(ctx, target, offset, msg.Text)
		if err != nil {
			return err
		}
		logging.WithFields(baseLogger, map[string]any{
			"path":      msg.Path,
			"label":     result.Label,
			"number":    result.Number,
			"footnotes": result.Count,
		}).Info("insert.command.footnote.completed")
		return nil
	}

	handlerOpts := []commands.HandlerOption[InsertFootnoteCommand]{
		commands.WithLogger[InsertFootnoteCommand](baseLogger),
		commands.WithOperation[InsertFootnoteCommand](insertOperation),
		commands.WithMessageFields(func(msg InsertFootnoteCommand) map[string]any {
			fields := map[string]any{
				"path": msg.Path,
			}
			if msg.AtEnd {
				fields["at_end"] = true
			} else {
				fields["offset"] = msg.Offset
			}
			return fields
		}),
		commands.WithTelemetry(commands.DefaultTelemetry[InsertFootnoteCommand](baseLogger)),
	}
	handlerOpts = append(handlerOpts, opts...)

	return &InsertFootnoteHandler{
		inner: commands.NewHandler(exec, handlerOpts...),
	}
}

// Execute satisfies command.Commander[InsertFootnoteCommand].
func (h *InsertFootnoteHandler) Execute(ctx context.Context, msg InsertFootnoteCommand) error {
	return h.inner.Execute(ctx, msg)
}
