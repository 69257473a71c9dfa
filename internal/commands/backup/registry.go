package backupcmd

import (
	"errors"

	"github.com/goliatone/go-footnotes/internal/commands"
	"github.com/goliatone/go-footnotes/pkg/interfaces"
)

// CommandRegistry is the minimal registration contract expected when wiring command handlers.
type CommandRegistry interface {
	RegisterCommand(handler any) error
}

// HandlerSet groups the backup command handlers produced by RegisterBackupCommands.
type HandlerSet struct {
	Snapshot *SnapshotDocumentHandler
	Prune    *PruneBackupsHandler
	Restore  *RestoreBackupHandler
}

// Option customises handler wiring during registration.
type Option func(*options)

type options struct {
	snapshotHandlerOpts []commands.HandlerOption[SnapshotDocumentCommand]
	pruneHandlerOpts    []PruneHandlerOption
	restoreHandlerOpts  []commands.HandlerOption[RestoreBackupCommand]
}

// WithSnapshotHandlerOptions forwards options to the SnapshotDocumentHandler constructor.
func WithSnapshotHandlerOptions(opts ...commands.HandlerOption[SnapshotDocumentCommand]) Option {
	return func(cfg *options) {
		cfg.snapshotHandlerOpts = append(cfg.snapshotHandlerOpts, opts...)
	}
}

// WithPruneHandlerOptions forwards options to the PruneBackupsHandler constructor.
func WithPruneHandlerOptions(opts ...PruneHandlerOption) Option {
	return func(cfg *options) {
		cfg.pruneHandlerOpts = append(cfg.pruneHandlerOpts, opts...)
	}
}

// WithRestoreHandlerOptions forwards options to the RestoreBackupHandler constructor.
func WithRestoreHandlerOptions(opts ...commands.HandlerOption[RestoreBackupCommand]) Option {
	return func(cfg *options) {
		cfg.restoreHandlerOpts = append(cfg.restoreHandlerOpts, opts...)
	}
}

// RegisterBackupCommands builds the backup command handlers and registers them
// with the provided registry. The prune handler also satisfies
// command.CronCommand, so registries with cron support schedule it as well.
func RegisterBackupCommands(reg CommandRegistry, service interfaces.BackupService, provider interfaces.LoggerProvider, gates FeatureGates, opts ...Option) (*HandlerSet, error) {
	if service == nil {
		return nil, errors.New("backup command registration: service is nil")
	}

	cfg := options{}
	for _, opt := range opts {
		if opt != nil {
			opt(&cfg)
		}
	}

	logger := commands.CommandLogger(provider, "backups")

	snapshotHandler := NewSnapshotDocumentHandler(service, logger, gates, cfg.snapshotHandlerOpts...)
	pruneHandler := NewPruneBackupsHandler(service, logger, gates, cfg.pruneHandlerOpts...)
	restoreHandler := NewRestoreBackupHandler(service, logger, gates, cfg.restoreHandlerOpts...)

	if reg != nil {
		if err := reg.RegisterCommand(snapshotHandler); err != nil {
			return nil, err
		}
		if err := reg.RegisterCommand(pruneHandler); err != nil {
			return nil, err
		}
		if err := reg.RegisterCommand(restoreHandler); err != nil {
			return nil, err
		}
	}

	return &HandlerSet{
		Snapshot: snapshotHandler,
		Prune:    pruneHandler,
		Restore:  restoreHandler,
	}, nil
}
