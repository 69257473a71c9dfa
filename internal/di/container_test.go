package di_test

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/google/uuid"

	"github.com/goliatone/go-footnotes/internal/di"
	"github.com/goliatone/go-footnotes/internal/editor"
	"github.com/goliatone/go-footnotes/internal/runtimeconfig"
	"github.com/goliatone/go-footnotes/pkg/interfaces"
)

func TestNewContainerDefaults(t *testing.T) {
	container, err := di.NewContainer(runtimeconfig.DefaultConfig())
	if err != nil {
		t.Fatalf("NewContainer returned error: %v", err)
	}

	if container.BackupService() != nil {
		t.Fatal("expected no backup service with backups disabled")
	}
	if container.DocumentService() != nil {
		t.Fatal("expected no document service with documents disabled")
	}
	if container.Sweeper() != nil {
		t.Fatal("expected no sweeper with backups disabled")
	}
	if container.SettingsStore() != nil {
		t.Fatal("expected no settings store without a settings path")
	}
	if container.InsertService() == nil {
		t.Fatal("expected insert service to always be available")
	}
}

func TestNewContainerValidatesConfig(t *testing.T) {
	cfg := runtimeconfig.DefaultConfig()
	cfg.Backups.Enabled = true
	cfg.Features.Backups = false

	if _, err := di.NewContainer(cfg); !errors.Is(err, runtimeconfig.ErrBackupsFeatureRequired) {
		t.Fatalf("expected backups feature error, got %v", err)
	}
}

func TestNewContainerBackupsInMemory(t *testing.T) {
	cfg := runtimeconfig.DefaultConfig()
	cfg.Features.Backups = true
	cfg.Backups.Enabled = true
	cfg.Backups.Dir = t.TempDir()

	container, err := di.NewContainer(cfg)
	if err != nil {
		t.Fatalf("NewContainer returned error: %v", err)
	}

	service := container.BackupService()
	if service == nil {
		t.Fatal("expected backup service")
	}
	if container.Sweeper() == nil {
		t.Fatal("expected sweeper with a positive sweep interval")
	}

	ctx := context.Background()
	snapshot, err := service.Snapshot(ctx, "docs/guide.md", "Alpha[^1].\n\n[^1]: one\n")
	if err != nil {
		t.Fatalf("snapshot: %v", err)
	}
	if snapshot.ID == uuid.Nil {
		t.Fatal("expected snapshot ID")
	}

	restored, err := service.RestoreLatest(ctx, "docs/guide.md")
	if err != nil {
		t.Fatalf("restore latest: %v", err)
	}
	if restored != "Alpha[^1].\n\n[^1]: one\n" {
		t.Fatalf("unexpected restored document %q", restored)
	}
}

func TestNewContainerDocumentsWiredToBackups(t *testing.T) {
	base := t.TempDir()
	if err := os.WriteFile(filepath.Join(base, "guide.md"), []byte("Doc[^2].\n\n[^2]: two\n"), 0o644); err != nil {
		t.Fatalf("write fixture: %v", err)
	}

	cfg := runtimeconfig.DefaultConfig()
	cfg.Features.Backups = true
	cfg.Backups.Enabled = true
	cfg.Backups.Dir = t.TempDir()
	cfg.Features.Documents = true
	cfg.Documents.BaseDir = base

	container, err := di.NewContainer(cfg)
	if err != nil {
		t.Fatalf("NewContainer returned error: %v", err)
	}

	service := container.DocumentService()
	if service == nil {
		t.Fatal("expected document service")
	}

	report, err := service.Process(context.Background(), "guide.md", interfaces.ProcessOptions{})
	if err != nil {
		t.Fatalf("process: %v", err)
	}
	if !report.Changed {
		t.Fatal("expected the document to change")
	}
	if report.SnapshotID == uuid.Nil {
		t.Fatal("expected a snapshot before the rewrite")
	}

	restored, err := container.BackupService().RestoreLatest(context.Background(), "guide.md")
	if err != nil {
		t.Fatalf("restore latest: %v", err)
	}
	if restored != "Doc[^2].\n\n[^2]: two\n" {
		t.Fatalf("expected the original document in the snapshot, got %q", restored)
	}

	data, err := os.ReadFile(filepath.Join(base, "guide.md"))
	if err != nil {
		t.Fatalf("read rewritten file: %v", err)
	}
	if string(data) != "Doc[^1].\n\n[^1]: two\n" {
		t.Fatalf("unexpected rewritten document %q", string(data))
	}
}

func TestNewContainerInsertHonoursCursorConfig(t *testing.T) {
	cfg := runtimeconfig.DefaultConfig()
	cfg.Insert.CursorToDefinition = true

	container, err := di.NewContainer(cfg)
	if err != nil {
		t.Fatalf("NewContainer returned error: %v", err)
	}

	buffer := editor.NewBuffer("Plain text.")
	result, err := container.InsertService().InsertAt(context.Background(), buffer, 5, "note")
	if err != nil {
		t.Fatalf("insert: %v", err)
	}

	cursor, err := buffer.Cursor(context.Background())
	if err != nil {
		t.Fatalf("cursor: %v", err)
	}
	if cursor != result.DefTextStart {
		t.Fatalf("expected cursor at definition text %d, got %d", result.DefTextStart, cursor)
	}
}

func TestNewContainerSettingsStore(t *testing.T) {
	cfg := runtimeconfig.DefaultConfig()
	cfg.Settings.Path = filepath.Join(t.TempDir(), "settings.json")

	container, err := di.NewContainer(cfg)
	if err != nil {
		t.Fatalf("NewContainer returned error: %v", err)
	}
	if container.SettingsStore() == nil {
		t.Fatal("expected settings store when a path is configured")
	}
}

func TestNewContainerBackupsConfiguredLog(t *testing.T) {
	cfg := runtimeconfig.DefaultConfig()
	cfg.Features.Logger = true
	cfg.Features.Backups = true
	cfg.Backups.Enabled = true
	cfg.Backups.Dir = t.TempDir()

	rec := newRecordingProvider()

	if _, err := di.NewContainer(cfg, di.WithLoggerProvider(rec)); err != nil {
		t.Fatalf("NewContainer returned error: %v", err)
	}

	entry := rec.find("backups.configured")
	if entry == nil {
		t.Fatalf("expected backups.configured log entry, got %#v", rec.entries)
	}
	if got := entry.fields["provider"]; got != "memory" {
		t.Fatalf("expected provider field to be memory, got %v", got)
	}
	if got := entry.fields["module"]; got != "footnotes.backup" {
		t.Fatalf("expected module field to be footnotes.backup, got %v", got)
	}
}

type recordingProvider struct {
	entries []recordedEntry
}

type recordedEntry struct {
	level  string
	msg    string
	fields map[string]any
}

func newRecordingProvider() *recordingProvider {
	return &recordingProvider{entries: []recordedEntry{}}
}

func (p *recordingProvider) GetLogger(name string) interfaces.Logger {
	return &recordingLogger{
		provider: p,
		fields: map[string]any{
			"logger": name,
		},
	}
}

func (p *recordingProvider) record(entry recordedEntry) {
	p.entries = append(p.entries, entry)
}

func (p *recordingProvider) find(msg string) *recordedEntry {
	for i := range p.entries {
		if p.entries[i].msg == msg {
			return &p.entries[i]
		}
	}
	return nil
}

type recordingLogger struct {
	provider *recordingProvider
	fields   map[string]any
}

var _ interfaces.Logger = (*recordingLogger)(nil)

func (l *recordingLogger) Trace(msg string, args ...any) { l.log("TRACE", msg, args...) }
func (l *recordingLogger) Debug(msg string, args ...any) { l.log("DEBUG", msg, args...) }
func (l *recordingLogger) Info(msg string, args ...any)  { l.log("INFO", msg, args...) }
func (l *recordingLogger) Warn(msg string, args ...any)  { l.log("WARN", msg, args...) }
func (l *recordingLogger) Error(msg string, args ...any) { l.log("ERROR", msg, args...) }
func (l *recordingLogger) Fatal(msg string, args ...any) { l.log("FATAL", msg, args...) }

func (l *recordingLogger) WithFields(fields map[string]any) interfaces.Logger {
	if len(fields) == 0 {
		return l
	}
	merged := make(map[string]any, len(l.fields)+len(fields))
	for key, value := range l.fields {
		merged[key] = value
	}
	for key, value := range fields {
		merged[key] = value
	}
	return &recordingLogger{
		provider: l.provider,
		fields:   merged,
	}
}

func (l *recordingLogger) WithContext(context.Context) interfaces.Logger {
	return &recordingLogger{
		provider: l.provider,
		fields:   cloneFields(l.fields),
	}
}

func (l *recordingLogger) log(level, msg string, args ...any) {
	fields := cloneFields(l.fields)
	for i := 0; i < len(args); i += 2 {
		if i+1 >= len(args) {
			break
		}
		key, _ := args[i].(string)
		if key == "" {
			continue
		}
		fields[key] = args[i+1]
	}
	l.provider.record(recordedEntry{
		level:  level,
		msg:    msg,
		fields: fields,
	})
}

func cloneFields(fields map[string]any) map[string]any {
	if len(fields) == 0 {
		return map[string]any{}
	}
	copied := make(map[string]any, len(fields))
	for key, value := range fields {
		copied[key] = value
	}
	return copied
}
