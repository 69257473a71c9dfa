package renumbercmd

import (
	"context"
	"errors"

	"github.com/goliatone/go-footnotes/internal/commands"
	"github.com/goliatone/go-footnotes/internal/logging"
	"github.com/goliatone/go-footnotes/pkg/interfaces"
	command "github.com/goliatone/go-command"
)

const (
	fileOperation      = "renumber.file"
	directoryOperation = "renumber.directory"
)

// ErrDocumentsFeatureDisabled is returned when the documents feature flag is disabled at runtime.
var ErrDocumentsFeatureDisabled = errors.New("renumber command: documents feature disabled")

var (
	_ command.Commander[RenumberFileCommand]      = (*RenumberFileHandler)(nil)
	_ command.Commander[RenumberDirectoryCommand] = (*RenumberDirectoryHandler)(nil)
)

// RenumberFileHandler renumbers single files via the document service using the
// shared command handler foundation.
type RenumberFileHandler struct {
	inner *commands.Handler[RenumberFileCommand]
}

// NewRenumberFileHandler creates a handler bound to the supplied document service.
func NewRenumberFileHandler(service interfaces.DocumentService, logger interfaces.Logger, gates FeatureGates, opts ...commands.HandlerOption[RenumberFileCommand]) *RenumberFileHandler {
	baseLogger := logger
	if baseLogger == nil {
		baseLogger = logging.NoOp()
	}

	exec := func(ctx context.Context, msg RenumberFileCommand) error {
		if !gates.documentsEnabled() {
			return ErrDocumentsFeatureDisabled
		}

		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}

		report, err := service.Process(ctx, msg.Path, interfaces.ProcessOptions{
			DryRun: msg.DryRun,
		})
		if err != nil {
			return err
		}
		if report != nil {
			logging.WithFields(baseLogger, map[string]any{
				"path":      report.Path,
				"changed":   report.Changed,
				"footnotes": report.Count,
				"dry_run":   msg.DryRun,
			}).Info("renumber.command.file.completed")
		}
		return nil
	}

	handlerOpts := []commands.HandlerOption[RenumberFileCommand]{
		commands.WithLogger[RenumberFileCommand](baseLogger),
		commands.WithOperation[RenumberFileCommand](fileOperation),
		commands.WithMessageFields(func(msg RenumberFileCommand) map[string]any {
			fields := map[string]any{
				"path": msg.Path,
			}
			if msg.DryRun {
				fields["dry_run"] = true
			}
			return fields
		}),
		commands.WithTelemetry(commands.DefaultTelemetry[RenumberFileCommand](baseLogger)),
	}
	handlerOpts = append(handlerOpts, opts...)

	return &RenumberFileHandler{
		inner: commands.NewHandler(exec, handlerOpts...),
	}
}

// Execute satisfies command.Commander[RenumberFileCommand].
func (h *RenumberFileHandler) Execute(ctx context.Context, msg RenumberFileCommand) error {
	return h.inner.Execute(ctx, msg)
}

// RenumberDirectoryHandler renumbers whole directories via the document service.
type RenumberDirectoryHandler struct {
	inner *commands.Handler[RenumberDirectoryCommand]
}

// NewRenumberDirectoryHandler creates a handler bound to the supplied document service.
func NewRenumberDirectoryHandler(service interfaces.DocumentService, logger interfaces.Logger, gates FeatureGates, opts ...commands.HandlerOption[RenumberDirectoryCommand]) *RenumberDirectoryHandler {
	baseLogger := logger
	if baseLogger == nil {
		baseLogger = logging.NoOp()
	}

	exec := func(ctx context.Context, msg RenumberDirectoryCommand) error {
		if !gates.documentsEnabled() {
			return ErrDocumentsFeatureDisabled
		}

		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}

		result, err := service.ProcessDirectory(ctx, msg.Directory, interfaces.ProcessOptions{
			DryRun:    msg.DryRun,
			Pattern:   msg.Pattern,
			Recursive: msg.Recursive,
		})
		if err != nil {
			return err
		}
		if result != nil {
			logging.WithFields(baseLogger, map[string]any{
				"processed":   result.Processed,
				"changed":     result.Changed,
				"footnotes":   result.Footnotes,
				"error_count": len(result.Errors),
				"dry_run":     msg.DryRun,
			}).Info("renumber.command.directory.completed")
		}
		return nil
	}

	handlerOpts := []commands.HandlerOption[RenumberDirectoryCommand]{
		commands.WithLogger[RenumberDirectoryCommand](baseLogger),
		commands.WithOperation[RenumberDirectoryCommand](directoryOperation),
		commands.WithMessageFields(func(msg RenumberDirectoryCommand) map[string]any {
			fields := map[string]any{
				"directory": msg.Directory,
			}
			if msg.Pattern != "" {
				fields["pattern"] = msg.Pattern
			}
			if msg.Recursive != nil {
				fields["recursive"] = *msg.Recursive
			}
			if msg.DryRun {
				fields["dry_run"] = true
			}
			return fields
		}),
		commands.WithTelemetry(commands.DefaultTelemetry[RenumberDirectoryCommand](baseLogger)),
	}
	handlerOpts = append(handlerOpts, opts...)

	return &RenumberDirectoryHandler{
		inner: commands.NewHandler(exec, handlerOpts...),
	}
}

// Execute satisfies command.Commander[RenumberDirectoryCommand].
func (h *RenumberDirectoryHandler) Execute(ctx context.Context, msg RenumberDirectoryCommand) error {
	return h.inner.Execute(ctx, msg)
}
