package insertcmd

import (
	"errors"

	"github.com/goliatone/go-footnotes/internal/commands"
	"github.com/goliatone/go-footnotes/pkg/interfaces"
)

// CommandRegistry is the minimal registration contract expected when wiring command handlers.
type CommandRegistry interface {
	RegisterCommand(handler any) error
}

// HandlerSet groups the insert command handlers produced by RegisterInsertCommands.
type HandlerSet struct {
	Insert *InsertFootnoteHandler
}

// Option customises handler wiring during registration.
type Option func(*options)

type options struct {
	insertHandlerOpts []commands.HandlerOption[InsertFootnoteCommand]
}

// WithInsertHandlerOptions forwards options to the InsertFootnoteHandler constructor.
func WithInsertHandlerOptions(opts ...commands.HandlerOption[InsertFootnoteCommand]) Option {
	return func(cfg *options) {
		cfg.insertHandlerOpts = append(cfg.insertHandlerOpts, opts...)
	}
}

// RegisterInsertCommands builds the insert command handlers and registers
// them with the provided registry. The backup service is optional; when nil,
// inserts land without a prior snapshot.
func RegisterInsertCommands(reg CommandRegistry, service Inserter, backupService Backups, provider interfaces.LoggerProvider, gates FeatureGates, opts ...Option) (*HandlerSet, error) {
	if service == nil {
		return nil, errors.New("insert command registration: service is nil")
	}

	cfg := options{}
	for _, opt := range opts {
		if opt != nil {
			opt(&cfg)
		}
	}

	logger := commands.CommandLogger(provider, "insert")

	insertHandler := NewInsertFootnoteHandler(service, backupService, logger, gates, cfg.insertHandlerOpts...)

	if reg != nil {
		if err := reg.RegisterCommand(insertHandler); err != nil {
			return nil, err
		}
	}

	return &HandlerSet{
		Insert: insertHandler,
	}, nil
}
