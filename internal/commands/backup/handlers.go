package backupcmd

import (
	"context"
	"errors"
	"os"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/goliatone/go-footnotes/internal/commands"
	"github.com/goliatone/go-footnotes/internal/editor"
	"github.com/goliatone/go-footnotes/internal/logging"
	"github.com/goliatone/go-footnotes/pkg/interfaces"
	command "github.com/goliatone/go-command"
)

const (
	snapshotOperation = "backups.snapshot"
	pruneOperation    = "backups.prune"
	restoreOperation  = "backups.restore"
)

// ErrBackupsFeatureDisabled is returned when the backups feature flag is disabled at runtime.
var ErrBackupsFeatureDisabled = errors.New("backup command: backups feature disabled")

var (
	_ command.Commander[SnapshotDocumentCommand] = (*SnapshotDocumentHandler)(nil)
	_ command.Commander[PruneBackupsCommand]     = (*PruneBackupsHandler)(nil)
	_ command.Commander[RestoreBackupCommand]    = (*RestoreBackupHandler)(nil)
)

type pruneHandlerConfig struct {
	cronConfig command.HandlerConfig
	timeout    time.Duration
}

// PruneHandlerOption customises the prune handler.
type PruneHandlerOption func(*pruneHandlerConfig)

// PruneWithCronConfig overrides the cron registration options for the prune handler.
func PruneWithCronConfig(config command.HandlerConfig) PruneHandlerOption {
	return func(cfg *pruneHandlerConfig) {
		cfg.cronConfig = config
	}
}

// PruneWithCronExpression overrides the cron expression for the prune handler.
func PruneWithCronExpression(expression string) PruneHandlerOption {
	return func(cfg *pruneHandlerConfig) {
		if trimmed := strings.TrimSpace(expression); trimmed != "" {
			cfg.cronConfig.Expression = trimmed
		}
	}
}

// PruneWithTimeout overrides the default execution timeout.
func PruneWithTimeout(timeout time.Duration) PruneHandlerOption {
	return func(cfg *pruneHandlerConfig) {
		cfg.timeout = timeout
	}
}

// PruneBackupsHandler applies the snapshot retention policy through the backup
// service. It doubles as a cron command so schedulers can run it unattended.
type PruneBackupsHandler struct {
	service    interfaces.BackupService
	logger     interfaces.Logger
	gates      FeatureGates
	cronConfig command.HandlerConfig
	timeout    time.Duration
}

// NewPruneBackupsHandler constructs a handler that delegates to the provided backup service.
func NewPruneBackupsHandler(service interfaces.BackupService, logger interfaces.Logger, gates FeatureGates, opts ...PruneHandlerOption) *PruneBackupsHandler {
	cfg := pruneHandlerConfig{
		cronConfig: command.HandlerConfig{
			Expression: "@daily",
		},
		timeout: commands.DefaultCommandTimeout,
	}
	for _, opt := range opts {
		if opt != nil {
			opt(&cfg)
		}
	}

	return &PruneBackupsHandler{
		service:    service,
		logger:     commands.EnsureLogger(logger),
		gates:      gates,
		cronConfig: cfg.cronConfig,
		timeout:    cfg.timeout,
	}
}

// Execute satisfies command.Commander[PruneBackupsCommand].
func (h *PruneBackupsHandler) Execute(ctx context.Context, msg PruneBackupsCommand) error {
	if err := commands.WrapValidationError(command.ValidateMessage(msg)); err != nil {
		return err
	}
	if !h.gates.backupsEnabled() {
		return commands.WrapExecuteError(ErrBackupsFeatureDisabled)
	}
	if h.service == nil {
		return commands.WrapExecuteError(errors.New("backup command: service is unavailable"))
	}
	ctx = commands.EnsureContext(ctx)
	ctx, cancel := commands.WithCommandTimeout(ctx, h.timeout)
	defer cancel()

	if err := ctx.Err(); err != nil {
		return commands.WrapContextError(err)
	}

	logger := logging.WithFields(h.logger, map[string]any{
		"operation": pruneOperation,
	})

	if msg.DryRun {
		snapshots, err := h.service.List(ctx, "")
		if err != nil {
			return commands.WrapExecuteError(err)
		}
		logging.WithFields(logger, map[string]any{
			"dry_run":        true,
			"existing_count": len(snapshots),
		}).Debug("backup.command.prune.dry_run")
		return nil
	}

	report, err := h.service.Prune(ctx)
	if err != nil {
		return commands.WrapExecuteError(err)
	}

	logging.WithFields(logger, map[string]any{
		"examined":      report.Examined,
		"removed":       report.Removed,
		"blobs_removed": report.BlobsRemoved,
	}).Info("backup.command.prune.completed")
	return nil
}

// CronHandler satisfies command.CronCommand by binding prune execution to a cron runner.
func (h *PruneBackupsHandler) CronHandler() func() error {
	return func() error {
		return h.Execute(context.Background(), PruneBackupsCommand{})
	}
}

// CronOptions satisfies command.CronCommand by returning the configured cron metadata.
func (h *PruneBackupsHandler) CronOptions() command.HandlerConfig {
	return h.cronConfig
}

// CLIHandler exposes the prune handler to CLI integrations.
func (h *PruneBackupsHandler) CLIHandler() any {
	return h
}

// CLIOptions describes the CLI metadata for snapshot pruning.
func (h *PruneBackupsHandler) CLIOptions() command.CLIConfig {
	return command.CLIConfig{
		Path:        []string{"backups", "prune"},
		Group:       "backups",
		Description: "Apply the retention policy to stored snapshots; supports dry-run",
	}
}

// SnapshotDocumentHandler stores a copy of a file through the backup service.
type SnapshotDocumentHandler struct {
	inner *commands.Handler[SnapshotDocumentCommand]
}

// NewSnapshotDocumentHandler creates a handler bound to the supplied backup service.
func NewSnapshotDocumentHandler(service interfaces.BackupService, logger interfaces.Logger, gates FeatureGates, opts ...commands.HandlerOption[SnapshotDocumentCommand]) *SnapshotDocumentHandler {
	baseLogger := logger
	if baseLogger == nil {
		baseLogger = logging.NoOp()
	}

	exec := func(ctx context.Context, msg SnapshotDocumentCommand) error {
		if !gates.backupsEnabled() {
			return ErrBackupsFeatureDisabled
		}
		if service == nil {
			return errors.New("backup command: service is unavailable")
		}

		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}

		data, err := os.ReadFile(msg.Path)
		if err != nil {
			return err
		}
		document := string(data)

		key := strings.TrimSpace(msg.DocumentKey)
		if key == "" {
			key = msg.Path
		}
		snapshot, err := service.Snapshot(ctx, key, document)
		if err != nil {
			return err
		}

		logging.WithFields(baseLogger, map[string]any{
			"document_key": key,
			"snapshot_id":  snapshot.ID.String(),
			"bytes":        len(document),
		}).Info("backup.command.snapshot.completed")
		return nil
	}

	handlerOpts := []commands.HandlerOption[SnapshotDocumentCommand]{
		commands.WithLogger[SnapshotDocumentCommand](baseLogger),
		commands.WithOperation[SnapshotDocumentCommand](snapshotOperation),
		commands.WithMessageFields(func(msg SnapshotDocumentCommand) map[string]any {
			fields := map[string]any{
				"path": msg.Path,
			}
			if msg.DocumentKey != "" {
				fields["document_key"] = msg.DocumentKey
			}
			return fields
		}),
		commands.WithTelemetry(commands.DefaultTelemetry[SnapshotDocumentCommand](baseLogger)),
	}
	handlerOpts = append(handlerOpts, opts...)

	return &SnapshotDocumentHandler{
		inner: commands.NewHandler(exec, handlerOpts...),
	}
}

// Execute satisfies command.Commander[SnapshotDocumentCommand].
func (h *SnapshotDocumentHandler) Execute(ctx context.Context, msg SnapshotDocumentCommand) error {
	return h.inner.Execute(ctx, msg)
}

// RestoreBackupHandler writes stored snapshot content back to a file on disk.
type RestoreBackupHandler struct {
	inner *commands.Handler[RestoreBackupCommand]
}

// NewRestoreBackupHandler creates a handler bound to the supplied backup service.
func NewRestoreBackupHandler(service interfaces.BackupService, logger interfaces.Logger, gates FeatureGates, opts ...commands.HandlerOption[RestoreBackupCommand]) *RestoreBackupHandler {
	baseLogger := logger
	if baseLogger == nil {
		baseLogger = logging.NoOp()
	}

	exec := func(ctx context.Context, msg RestoreBackupCommand) error {
		if !gates.backupsEnabled() {
			return ErrBackupsFeatureDisabled
		}
		if service == nil {
			return errors.New("backup command: service is unavailable")
		}

		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}

		var (
			document string
			err      error
		)
		if msg.SnapshotID != uuid.Nil {
			document, err = service.Restore(ctx, msg.SnapshotID)
		} else {
			document, err = service.RestoreLatest(ctx, msg.DocumentKey)
		}
		if err != nil {
			return err
		}

		target, err := editor.NewFile(msg.OutputPath)
		if err != nil {
			return err
		}
		if err := target.Apply(ctx, document); err != nil {
			return err
		}

		logging.WithFields(baseLogger, map[string]any{
			"output_path": msg.OutputPath,
			"bytes":       len(document),
		}).Info("backup.command.restore.completed")
		return nil
	}

	handlerOpts := []commands.HandlerOption[RestoreBackupCommand]{
		commands.WithLogger[RestoreBackupCommand](baseLogger),
		commands.WithOperation[RestoreBackupCommand](restoreOperation),
		commands.WithMessageFields(func(msg RestoreBackupCommand) map[string]any {
			fields := map[string]any{
				"output_path": msg.OutputPath,
			}
			if msg.SnapshotID != uuid.Nil {
				fields["snapshot_id"] = msg.SnapshotID.String()
			}
			if msg.DocumentKey != "" {
				fields["document_key"] = msg.DocumentKey
			}
			return fields
		}),
		commands.WithTelemetry(commands.DefaultTelemetry[RestoreBackupCommand](baseLogger)),
	}
	handlerOpts = append(handlerOpts, opts...)

	return &RestoreBackupHandler{
		inner: commands.NewHandler(exec, handlerOpts...),
	}
}

// Execute satisfies command.Commander[RestoreBackupCommand].
func (h *RestoreBackupHandler) Execute(ctx context.Context, msg RestoreBackupCommand) error {
	return h.inner.Execute(ctx, msg)
}
