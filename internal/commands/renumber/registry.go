package renumbercmd

import (
	"errors"

	"github.com/goliatone/go-footnotes/internal/commands"
	"github.com/goliatone/go-footnotes/pkg/interfaces"
)

// CommandRegistry is the minimal registration contract expected when wiring command handlers.
type CommandRegistry interface {
	RegisterCommand(handler any) error
}

// HandlerSet groups the renumber command handlers produced by RegisterRenumberCommands.
type HandlerSet struct {
	File      *RenumberFileHandler
	Directory *RenumberDirectoryHandler
}

// Option customises handler wiring during registration.
type Option func(*options)

type options struct {
	fileHandlerOpts      []commands.HandlerOption[RenumberFileCommand]
	directoryHandlerOpts []commands.HandlerOption[RenumberDirectoryCommand]
}

// WithFileHandlerOptions forwards options to the RenumberFileHandler constructor.
func WithFileHandlerOptions(opts ...commands.HandlerOption[RenumberFileCommand]) Option {
	return func(cfg *options) {
		cfg.fileHandlerOpts = append(cfg.fileHandlerOpts, opts...)
	}
}

// WithDirectoryHandlerOptions forwards options to the RenumberDirectoryHandler constructor.
func WithDirectoryHandlerOptions(opts ...commands.HandlerOption[RenumberDirectoryCommand]) Option {
	return func(cfg *options) {
		cfg.directoryHandlerOpts = append(cfg.directoryHandlerOpts, opts...)
	}
}

// RegisterRenumberCommands builds the renumber command handlers and registers
// them with the provided registry. The HandlerSet is returned so callers can
// wire additional integrations (dispatcher, cron) as needed.
func RegisterRenumberCommands(reg CommandRegistry, service interfaces.DocumentService, provider interfaces.LoggerProvider, gates FeatureGates, opts ...Option) (*HandlerSet, error) {
	if service == nil {
		return nil, errors.New("renumber command registration: service is nil")
	}

	cfg := options{}
	for _, opt := range opts {
		if opt != nil {
			opt(&cfg)
		}
	}

	logger := commands.CommandLogger(provider, "renumber")

	fileHandler := NewRenumberFileHandler(service, logger, gates, cfg.fileHandlerOpts...)
	directoryHandler := NewRenumberDirectoryHandler(service, logger, gates, cfg.directoryHandlerOpts...)

	if reg != nil {
		if err := reg.RegisterCommand(fileHandler); err != nil {
			return nil, err
		}
		if err := reg.RegisterCommand(directoryHandler); err != nil {
			return nil, err
		}
	}

	return &HandlerSet{
		File:      fileHandler,
		Directory: directoryHandler,
	}, nil
}
