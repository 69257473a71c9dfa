package commands

import (
	"errors"
	"strings"

	renumberadapter "github.com/goliatone/go-footnotes/commands/renumber"
	backupcmd "github.com/goliatone/go-footnotes/internal/commands/backup"
	insertcmd "github.com/goliatone/go-footnotes/internal/commands/insert"
	renumbercmd "github.com/goliatone/go-footnotes/internal/commands/renumber"
	"github.com/goliatone/go-footnotes/internal/di"
	"github.com/goliatone/go-footnotes/pkg/interfaces"
	command "github.com/goliatone/go-command"
)

// CommandRegistry records command handlers so hosts can expose them via CLI or cron.
type CommandRegistry interface {
	RegisterCommand(handler any) error
}

// CommandDispatcher subscribes command handlers to a dispatcher implementation.
type CommandDispatcher interface {
	RegisterCommand(handler any) (CommandSubscription, error)
}

// CommandSubscription allows hosts to tear down dispatcher subscriptions.
type CommandSubscription interface {
	Unsubscribe()
}

// CronRegistrar registers command handlers with a cron scheduler.
type CronRegistrar func(command.HandlerConfig, any) error

// RegistrationOptions configures how handlers are registered during construction.
type RegistrationOptions struct {
	Registry       CommandRegistry
	Dispatcher     CommandDispatcher
	CronRegistrar  CronRegistrar
	LoggerProvider interfaces.LoggerProvider
	// PruneBackupsCron overrides the default cron expression applied to the snapshot prune handler.
	PruneBackupsCron string
}

// RegistrationResult captures the constructed command handlers and any dispatcher subscriptions.
type RegistrationResult struct {
	Handlers      []any
	Subscriptions []CommandSubscription
}

// RegisterContainerCommands builds the command handlers exposed by the provided container and
// optionally registers them with registry/dispatcher/cron integrations.
func RegisterContainerCommands(container *di.Container, opts RegistrationOptions) (*RegistrationResult, error) {
	if container == nil {
		return &RegistrationResult{}, nil
	}

	cfg := container.Config

	provider := opts.LoggerProvider
	if provider == nil {
		provider = container.LoggerProvider()
	}

	if opts.Registry != nil && opts.CronRegistrar != nil {
		if reg, ok := opts.Registry.(interface {
			SetCronRegister(func(command.HandlerConfig, any) error) *command.Registry
		}); ok && reg != nil {
			reg.SetCronRegister(opts.CronRegistrar)
		}
	}

	result := &RegistrationResult{
		Handlers:      make([]any, 0),
		Subscriptions: make([]CommandSubscription, 0),
	}

	var errs error

	register := func(handler any) {
		if handler == nil {
			return
		}
		result.Handlers = append(result.Handlers, handler)

		if opts.Registry != nil {
			if err := opts.Registry.RegisterCommand(handler); err != nil {
				errs = errors.Join(errs, err)
			}
		}

		if opts.Dispatcher != nil {
			subscription, err := opts.Dispatcher.RegisterCommand(handler)
			if err != nil {
				errs = errors.Join(errs, err)
			} else if subscription != nil {
				result.Subscriptions = append(result.Subscriptions, subscription)
			}
		}

		if opts.CronRegistrar != nil {
			if cronCmd, ok := handler.(command.CronCommand); ok {
				if err := opts.CronRegistrar(cronCmd.CronOptions(), cronCmd.CronHandler()); err != nil {
					errs = errors.Join(errs, err)
				}
			}
		}
	}

	// Renumber commands.
	if service := container.DocumentService(); service != nil && cfg.Features.Documents {
		gates := renumbercmd.FeatureGates{
			DocumentsEnabled: func() bool { return cfg.Features.Documents },
		}
		handlerSet, err := renumberadapter.RegisterRenumberCommands(nil, service, provider, gates)
		if err != nil {
			errs = errors.Join(errs, err)
		} else if handlerSet != nil {
			register(handlerSet.File)
			register(handlerSet.Directory)
		}
	}

	// Insert commands.
	if service := container.InsertService(); service != nil {
		gates := insertcmd.FeatureGates{
			InsertEnabled: func() bool { return cfg.Enabled },
		}
		handlerSet, err := insertcmd.RegisterInsertCommands(nil, service, container.BackupService(), provider, gates)
		if err != nil {
			errs = errors.Join(errs, err)
		} else if handlerSet != nil {
			register(handlerSet.Insert)
		}
	}

	// Backup commands.
	if service := container.BackupService(); service != nil && cfg.Features.Backups {
		gates := backupcmd.FeatureGates{
			BackupsEnabled: func() bool { return cfg.Features.Backups && cfg.Backups.Enabled },
		}
		pruneOpts := []backupcmd.PruneHandlerOption{}
		if expr := strings.TrimSpace(opts.PruneBackupsCron); expr != "" {
			pruneOpts = append(pruneOpts, backupcmd.PruneWithCronExpression(expr))
		} else if expr := strings.TrimSpace(cfg.Commands.PruneBackupsCron); expr != "" {
			pruneOpts = append(pruneOpts, backupcmd.PruneWithCronExpression(expr))
		}
		handlerSet, err := backupcmd.RegisterBackupCommands(nil, service, provider, gates,
			backupcmd.WithPruneHandlerOptions(pruneOpts...))
		if err != nil {
			errs = errors.Join(errs, err)
		} else if handlerSet != nil {
			register(handlerSet.Snapshot)
			register(handlerSet.Prune)
			register(handlerSet.Restore)
		}
	}

	if errs != nil && len(result.Handlers) == 0 {
		return result, errs
	}

	if len(result.Handlers) == 0 {
		return result, errors.New("no command handlers registered; ensure services are configured and required features enabled")
	}

	return result, errs
}
