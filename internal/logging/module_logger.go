package logging

import (
	"context"
	"strings"

	"github.com/goliatone/go-footnotes/pkg/interfaces"
)

const (
	rootModule      = "footnotes"
	editorModule    = "footnotes.editor"
	insertModule    = "footnotes.insert"
	backupModule    = "footnotes.backup"
	documentsModule = "footnotes.documents"
)

const (
	fieldDocumentPath = "document_path"
	fieldDocumentKey  = "document_key"
	fieldAction       = "action"
)

// ModuleLogger returns a module-scoped logger, defaulting to a no-op
// implementation when no provider is supplied. The returned logger attaches
// the module identifier as structured context so downstream entries can be
// filtered predictably.
func ModuleLogger(provider interfaces.LoggerProvider, module string) interfaces.Logger {
	if module == "" {
		module = rootModule
	}

	logger := NoOp()
	if provider != nil {
		if provided := provider.GetLogger(module); provided != nil {
			logger = provided
		}
	}

	if fieldsLogger, ok := logger.(interfaces.FieldsLogger); ok {
		return fieldsLogger.WithFields(map[string]any{
			"module": module,
		})
	}

	return WithFields(logger, map[string]any{
		"module": module,
	})
}

// EditorLogger returns the logger namespace reserved for editor sessions.
func EditorLogger(provider interfaces.LoggerProvider) interfaces.Logger {
	return ModuleLogger(provider, editorModule)
}

// InsertLogger returns the logger namespace reserved for insertion flows.
func InsertLogger(provider interfaces.LoggerProvider) interfaces.Logger {
	return ModuleLogger(provider, insertModule)
}

// BackupLogger returns the logger namespace reserved for snapshot storage.
func BackupLogger(provider interfaces.LoggerProvider) interfaces.Logger {
	return ModuleLogger(provider, backupModule)
}

// DocumentsLogger returns the logger namespace reserved for file workflows.
func DocumentsLogger(provider interfaces.LoggerProvider) interfaces.Logger {
	return ModuleLogger(provider, documentsModule)
}

// WithDocumentContext enriches the provided logger with common document
// fields such as file path, document key, and the running action. Empty
// values are ignored.
func WithDocumentContext(logger interfaces.Logger, path, key, action string) interfaces.Logger {
	fields := map[string]any{}
	if trimmed := strings.TrimSpace(path); trimmed != "" {
		fields[fieldDocumentPath] = trimmed
	}
	if trimmed := strings.TrimSpace(key); trimmed != "" {
		fields[fieldDocumentKey] = trimmed
	}
	if trimmed := strings.TrimSpace(action); trimmed != "" {
		fields[fieldAction] = trimmed
	}
	return WithFields(logger, fields)
}

// NoOp returns a logger that drops every log entry. It satisfies the Logger
// contract so services can safely operate when logging is disabled.
func NoOp() interfaces.Logger {
	return noopLogger{}
}

type noopLogger struct{}

var _ interfaces.Logger = noopLogger{}

func (noopLogger) Trace(string, ...any) {}
func (noopLogger) Debug(string, ...any) {}
func (noopLogger) Info(string, ...any)  {}
func (noopLogger) Warn(string, ...any)  {}
func (noopLogger) Error(string, ...any) {}
func (noopLogger) Fatal(string, ...any) {}

func (n noopLogger) WithFields(map[string]any) interfaces.Logger {
	return n
}

func (n noopLogger) WithContext(context.Context) interfaces.Logger {
	return n
}
