package renumberadapter

import (
	"context"
	"errors"

	internalcommands "github.com/goliatone/go-footnotes/internal/commands"
	renumbercmd "github.com/goliatone/go-footnotes/internal/commands/renumber"
	"github.com/goliatone/go-footnotes/pkg/interfaces"
	command "github.com/goliatone/go-command"
)

// CommandRegistry is the minimal registration contract expected when wiring command handlers.
type CommandRegistry interface {
	RegisterCommand(handler any) error
}

// CronRegistrar matches the function signature used by go-command registries.
type CronRegistrar func(command.HandlerConfig, any) error

// HandlerSet groups the renumber command handlers produced by RegisterRenumberCommands.
type HandlerSet struct {
	File      *renumbercmd.RenumberFileHandler
	Directory *renumbercmd.RenumberDirectoryHandler
}

// Option customises handler wiring during registration.
type Option func(*options)

type options struct {
	fileHandlerOpts      []internalcommands.HandlerOption[renumbercmd.RenumberFileCommand]
	directoryHandlerOpts []internalcommands.HandlerOption[renumbercmd.RenumberDirectoryCommand]
}

// WithFileHandlerOptions forwards options to the RenumberFileHandler constructor.
func WithFileHandlerOptions(opts ...internalcommands.HandlerOption[renumbercmd.RenumberFileCommand]) Option {
	return func(cfg *options) {
		cfg.fileHandlerOpts = append(cfg.fileHandlerOpts, opts...)
	}
}

// WithDirectoryHandlerOptions forwards options to the RenumberDirectoryHandler constructor.
func WithDirectoryHandlerOptions(opts ...internalcommands.HandlerOption[renumbercmd.RenumberDirectoryCommand]) Option {
	return func(cfg *options) {
		cfg.directoryHandlerOpts = append(cfg.directoryHandlerOpts, opts...)
	}
}

// RegisterRenumberCommands builds renumber command handlers and registers them with the provided
// registry. A HandlerSet containing the constructed handlers is returned so callers can wire
// additional integrations (dispatcher, cron) as needed.
func RegisterRenumberCommands(reg CommandRegistry, service interfaces.DocumentService, provider interfaces.LoggerProvider, gates renumbercmd.FeatureGates, opts ...Option) (*HandlerSet, error) {
	if service == nil {
		return nil, errors.New("renumber command registration: service is nil")
	}

	cfg := options{}
	for _, opt := range opts {
		if opt != nil {
			opt(&cfg)
		}
	}

	inner, err := renumbercmd.RegisterRenumberCommands(nil, service, provider, gates,
		renumbercmd.WithFileHandlerOptions(cfg.fileHandlerOpts...),
		renumbercmd.WithDirectoryHandlerOptions(cfg.directoryHandlerOpts...),
	)
	if err != nil {
		return nil, err
	}

	if reg != nil {
		if err := reg.RegisterCommand(inner.File); err != nil {
			return nil, err
		}
		if err := reg.RegisterCommand(inner.Directory); err != nil {
			return nil, err
		}
	}

	return &HandlerSet{
		File:      inner.File,
		Directory: inner.Directory,
	}, nil
}

// RegisterRenumberCron wires the provided directory handler into a cron registrar using the
// supplied command configuration and message payload. The handler is executed with a background context.
func RegisterRenumberCron(reg CronRegistrar, handler *renumbercmd.RenumberDirectoryHandler, cfg command.HandlerConfig, msg renumbercmd.RenumberDirectoryCommand) error {
	if reg == nil || handler == nil {
		return nil
	}
	return reg(cfg, func() error {
		return handler.Execute(context.Background(), msg)
	})
}
