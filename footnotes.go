package footnotes

import (
	"errors"

	"github.com/goliatone/go-footnotes/backups"
	"github.com/goliatone/go-footnotes/internal/backup"
	"github.com/goliatone/go-footnotes/internal/di"
	"github.com/goliatone/go-footnotes/internal/editor"
	"github.com/goliatone/go-footnotes/internal/insert"
	"github.com/goliatone/go-footnotes/internal/logging"
	"github.com/goliatone/go-footnotes/internal/settings"
	"github.com/goliatone/go-footnotes/pkg/interfaces"
)

// BackupService exports the snapshot service contract for consumers of the footnotes package.
type BackupService = interfaces.BackupService

// DocumentService exports the file workflow contract.
type DocumentService = interfaces.DocumentService

// InsertService exports the footnote insertion service.
type InsertService = insert.Service

// SettingsStore exports the file-backed settings store.
type SettingsStore = settings.Store

// Sweeper exports the retention sweeper that spaces out prune runs.
type Sweeper = backup.Sweeper

// Document exports the parsed Markdown document DTO.
type Document = interfaces.Document

// FrontMatter exports the parsed front matter DTO.
type FrontMatter = interfaces.FrontMatter

// LoadOptions exports the document loading options.
type LoadOptions = interfaces.LoadOptions

// ParseOptions exports the Markdown rendering options.
type ParseOptions = interfaces.ParseOptions

// ProcessOptions exports the renumber workflow options.
type ProcessOptions = interfaces.ProcessOptions

// ProcessReport exports the per-file renumber report.
type ProcessReport = interfaces.ProcessReport

// ProcessResult exports the directory renumber summary.
type ProcessResult = interfaces.ProcessResult

// PruneReport exports the retention prune summary.
type PruneReport = interfaces.PruneReport

// Snapshot exports the snapshot index record.
type Snapshot = backups.Snapshot

// InsertRequest exports the low-level insertion request.
type InsertRequest = insert.InsertRequest

// InsertResult exports the insertion outcome DTO.
type InsertResult = insert.InsertResult

// Editor exports the document editing contract.
type Editor = interfaces.Editor

// Buffer exports the in-memory editor implementation.
type Buffer = editor.Buffer

// File exports the file-backed editor implementation.
type File = editor.File

// Session exports the renumbering session bound to an editor.
type Session = editor.Session

// RenumberOutcome exports the session renumber outcome DTO.
type RenumberOutcome = editor.RenumberOutcome

// Logger exports the structured logging contract.
type Logger = interfaces.Logger

// LoggerProvider exports the named logger factory contract.
type LoggerProvider = interfaces.LoggerProvider

var errNilModule = errors.New("footnotes: module is nil")

// NewBuffer creates an in-memory editor seeded with the given document.
func NewBuffer(document string) *Buffer {
	return editor.NewBuffer(document)
}

// NewFile creates a file-backed editor for the given path.
func NewFile(path string) (*File, error) {
	return editor.NewFile(path)
}

// Module is the top level footnotes runtime facade.
type Module struct {
	container *di.Container
}

// New constructs a footnotes module using the provided configuration and
// optional DI overrides.
func New(cfg Config, opts ...di.Option) (*Module, error) {
	container, err := di.NewContainer(cfg, opts...)
	if err != nil {
		return nil, err
	}
	return &Module{container: container}, nil
}

// Container exposes the underlying DI container for advanced integrations.
func (m *Module) Container() *di.Container {
	return m.container
}

// Close releases connections the module opened from configuration. Handles
// injected through DI options remain the caller's responsibility.
func (m *Module) Close() error {
	if m == nil || m.container == nil {
		return nil
	}
	return m.container.Close()
}

// Backups returns the configured backup service, nil when backups are disabled.
func (m *Module) Backups() BackupService {
	if m == nil || m.container == nil {
		return nil
	}
	return m.container.BackupService()
}

// Documents returns the configured document service, nil when documents are disabled.
func (m *Module) Documents() DocumentService {
	if m == nil || m.container == nil {
		return nil
	}
	return m.container.DocumentService()
}

// Insert returns the configured insertion service.
func (m *Module) Insert() *InsertService {
	if m == nil || m.container == nil {
		return nil
	}
	return m.container.InsertService()
}

// Settings returns the settings store, nil when no settings path is configured.
func (m *Module) Settings() *SettingsStore {
	if m == nil || m.container == nil {
		return nil
	}
	return m.container.SettingsStore()
}

// RetentionSweeper returns the sweeper that gates prune frequency, nil when
// backups are disabled or no sweep interval is configured.
func (m *Module) RetentionSweeper() *Sweeper {
	if m == nil || m.container == nil {
		return nil
	}
	return m.container.Sweeper()
}

// Session opens a renumbering session over the supplied editor. Snapshots
// are stored under documentKey before each rewrite when backups are enabled.
func (m *Module) Session(ed Editor, documentKey string) (*Session, error) {
	if m == nil || m.container == nil {
		return nil, errNilModule
	}

	opts := []editor.SessionOption{
		editor.SessionWithLogger(logging.EditorLogger(m.container.LoggerProvider())),
	}
	if backupSvc := m.container.BackupService(); backupSvc != nil {
		opts = append(opts, editor.SessionWithBackups(backupSvc, documentKey))
	}
	return editor.NewSession(ed, opts...)
}

// FileSession opens a renumbering session over a file on disk, keyed by its path.
func (m *Module) FileSession(path string) (*Session, error) {
	file, err := editor.NewFile(path)
	if err != nil {
		return nil, err
	}
	return m.Session(file, path)
}
