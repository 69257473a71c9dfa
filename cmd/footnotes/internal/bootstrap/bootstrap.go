package bootstrap

import (
	"context"
	"fmt"
	"strings"

	footnotes "github.com/goliatone/go-footnotes"
	"github.com/goliatone/go-footnotes/internal/di"
	"github.com/goliatone/go-footnotes/internal/logging"
	"github.com/goliatone/go-footnotes/pkg/interfaces"
	"github.com/google/uuid"
)

// Options captures configuration for footnotes CLI bootstraps.
type Options struct {
	DocumentsDir   string
	Pattern        string
	Recursive      bool
	BackupsEnabled bool
	BackupsDir     string
	Compression    string
	// IndexDriver and IndexDSN bind the snapshot index to a database so it
	// survives between CLI invocations. Empty keeps the in-memory index.
	IndexDriver    string
	IndexDSN       string
	LoggerProvider interfaces.LoggerProvider
}

// Module wraps the footnotes module and the configured services/logger.
type Module struct {
	Module    *footnotes.Module
	Documents interfaces.DocumentService
	Backups   interfaces.BackupService
	Insert    *footnotes.InsertService
	Logger    interfaces.Logger
}

// BuildModule constructs a footnotes module configured for file operations.
func BuildModule(opts Options) (*Module, error) {
	cfg := footnotes.DefaultConfig()
	cfg.Features.Documents = true
	cfg.Documents.BaseDir = strings.TrimSpace(opts.DocumentsDir)
	if cfg.Documents.BaseDir == "" {
		cfg.Documents.BaseDir = "content"
	}
	if trimmed := strings.TrimSpace(opts.Pattern); trimmed != "" {
		cfg.Documents.Pattern = trimmed
	}
	cfg.Documents.Recursive = opts.Recursive

	if opts.BackupsEnabled {
		cfg.Features.Backups = true
		cfg.Backups.Enabled = true
		if trimmed := strings.TrimSpace(opts.BackupsDir); trimmed != "" {
			cfg.Backups.Dir = trimmed
		}
		if trimmed := strings.TrimSpace(opts.Compression); trimmed != "" {
			cfg.Backups.Compression = trimmed
		}
	}
	if trimmed := strings.TrimSpace(opts.IndexDSN); trimmed != "" {
		cfg.Storage.DSN = trimmed
		cfg.Storage.Driver = strings.TrimSpace(opts.IndexDriver)
		if cfg.Storage.Driver == "" {
			cfg.Storage.Driver = "sqlite"
		}
	}

	diOpts := []di.Option{}
	if opts.LoggerProvider != nil {
		diOpts = append(diOpts, di.WithLoggerProvider(opts.LoggerProvider))
	}

	module, err := footnotes.New(cfg, diOpts...)
	if err != nil {
		return nil, fmt.Errorf("initialise footnotes module: %w", err)
	}

	if db := module.Container().BunDB(); db != nil {
		if err := footnotes.CreateSnapshotTables(context.Background(), db); err != nil {
			module.Close()
			return nil, fmt.Errorf("prepare snapshot index: %w", err)
		}
	}

	service := module.Documents()
	if service == nil {
		module.Close()
		return nil, fmt.Errorf("document service not configured; ensure documents feature is enabled")
	}

	logger := logging.DocumentsLogger(module.Container().LoggerProvider())

	return &Module{
		Module:    module,
		Documents: service,
		Backups:   module.Backups(),
		Insert:    module.Insert(),
		Logger:    logger,
	}, nil
}

// ParseUUID converts the supplied string into a UUID, returning uuid.Nil when the input is empty.
func ParseUUID(value string) (uuid.UUID, error) {
	trimmed := strings.TrimSpace(value)
	if trimmed == "" {
		return uuid.Nil, nil
	}
	return uuid.Parse(trimmed)
}

// ParseUUIDPointer returns a pointer to the parsed UUID, or nil when the value is empty.
func ParseUUIDPointer(value string) (*uuid.UUID, error) {
	id, err := ParseUUID(value)
	if err != nil {
		return nil, err
	}
	if id == uuid.Nil {
		return nil, nil
	}
	return &id, nil
}
