package backupcmd

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/google/uuid"

	"github.com/goliatone/go-footnotes/backups"
	"github.com/goliatone/go-footnotes/internal/logging"
	"github.com/goliatone/go-footnotes/pkg/interfaces"
	goerrors "github.com/goliatone/go-errors"
)

type stubBackupService struct {
	snapshotCalls int
	restoreCalls  int
	latestCalls   int
	listCalls     int
	pruneCalls    int

	restoredID   uuid.UUID
	latestKey    string
	listKey      string
	snapshotKey  string
	snapshotBody string

	document  string
	snapshots []*backups.Snapshot
	report    *interfaces.PruneReport

	restoreErr error
	pruneErr   error
}

var _ interfaces.BackupService = (*stubBackupService)(nil)

func (s *stubBackupService) Snapshot(_ context.Context, documentKey, document string) (*backups.Snapshot, error) {
	s.snapshotCalls++
	s.snapshotKey = documentKey
	s.snapshotBody = document
	return &backups.Snapshot{ID: uuid.New(), DocumentKey: documentKey}, nil
}

func (s *stubBackupService) Restore(_ context.Context, id uuid.UUID) (string, error) {
	s.restoreCalls++
	s.restoredID = id
	if s.restoreErr != nil {
		return "", s.restoreErr
	}
	return s.document, nil
}

func (s *stubBackupService) RestoreLatest(_ context.Context, documentKey string) (string, error) {
	s.latestCalls++
	s.latestKey = documentKey
	if s.restoreErr != nil {
		return "", s.restoreErr
	}
	return s.document, nil
}

func (s *stubBackupService) List(_ context.Context, documentKey string) ([]*backups.Snapshot, error) {
	s.listCalls++
	s.listKey = documentKey
	return s.snapshots, nil
}

func (s *stubBackupService) Prune(context.Context) (*interfaces.PruneReport, error) {
	s.pruneCalls++
	if s.pruneErr != nil {
		return nil, s.pruneErr
	}
	if s.report != nil {
		return s.report, nil
	}
	return &interfaces.PruneReport{}, nil
}

func TestSnapshotDocumentHandlerStoresFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "guide.md")
	if err := os.WriteFile(path, []byte("Alpha[^1].\n\n[^1]: one\n"), 0o644); err != nil {
		t.Fatalf("write fixture: %v", err)
	}

	service := &stubBackupService{}
	handler := NewSnapshotDocumentHandler(service, logging.NoOp(), FeatureGates{})

	if err := handler.Execute(context.Background(), SnapshotDocumentCommand{Path: path}); err != nil {
		t.Fatalf("execute snapshot: %v", err)
	}
	if service.snapshotCalls != 1 {
		t.Fatalf("expected 1 snapshot call, got %d", service.snapshotCalls)
	}
	if service.snapshotKey != path {
		t.Fatalf("expected key to default to path, got %q", service.snapshotKey)
	}
	if service.snapshotBody != "Alpha[^1].\n\n[^1]: one\n" {
		t.Fatalf("unexpected snapshot content %q", service.snapshotBody)
	}
}

func TestSnapshotDocumentHandlerUsesExplicitKey(t *testing.T) {
	path := filepath.Join(t.TempDir(), "guide.md")
	if err := os.WriteFile(path, []byte("body\n"), 0o644); err != nil {
		t.Fatalf("write fixture: %v", err)
	}

	service := &stubBackupService{}
	handler := NewSnapshotDocumentHandler(service, logging.NoOp(), FeatureGates{})

	err := handler.Execute(context.Background(), SnapshotDocumentCommand{
		Path:        path,
		DocumentKey: "docs/guide.md",
	})
	if err != nil {
		t.Fatalf("execute snapshot: %v", err)
	}
	if service.snapshotKey != "docs/guide.md" {
		t.Fatalf("unexpected document key %q", service.snapshotKey)
	}
}

func TestSnapshotDocumentHandlerValidation(t *testing.T) {
	service := &stubBackupService{}
	handler := NewSnapshotDocumentHandler(service, logging.NoOp(), FeatureGates{})

	err := handler.Execute(context.Background(), SnapshotDocumentCommand{})
	if err == nil {
		t.Fatal("expected validation error for missing path")
	}
	if !goerrors.IsCategory(err, goerrors.CategoryValidation) {
		t.Fatalf("expected validation category, got %v", err)
	}
	if service.snapshotCalls != 0 {
		t.Fatal("expected no service calls on validation failure")
	}
}

func TestSnapshotDocumentHandlerMissingFile(t *testing.T) {
	service := &stubBackupService{}
	handler := NewSnapshotDocumentHandler(service, logging.NoOp(), FeatureGates{})

	err := handler.Execute(context.Background(), SnapshotDocumentCommand{
		Path: filepath.Join(t.TempDir(), "missing.md"),
	})
	if err == nil {
		t.Fatal("expected error for missing file")
	}
	if !goerrors.IsCategory(err, goerrors.CategoryCommand) {
		t.Fatalf("expected command category, got %v", err)
	}
	if service.snapshotCalls != 0 {
		t.Fatal("expected no snapshot for missing file")
	}
}

func TestSnapshotDocumentHandlerFeatureDisabled(t *testing.T) {
	service := &stubBackupService{}
	handler := NewSnapshotDocumentHandler(service, logging.NoOp(), FeatureGates{
		BackupsEnabled: func() bool { return false },
	})

	err := handler.Execute(context.Background(), SnapshotDocumentCommand{Path: "guide.md"})
	if !errors.Is(err, ErrBackupsFeatureDisabled) {
		t.Fatalf("expected feature disabled error, got %v", err)
	}
	if service.snapshotCalls != 0 {
		t.Fatal("expected no service calls when the feature is disabled")
	}
}

func TestPruneBackupsHandlerInvokesService(t *testing.T) {
	service := &stubBackupService{
		report: &interfaces.PruneReport{Examined: 5, Removed: 2, BlobsRemoved: 1},
	}
	handler := NewPruneBackupsHandler(service, logging.NoOp(), FeatureGates{})

	if err := handler.Execute(context.Background(), PruneBackupsCommand{}); err != nil {
		t.Fatalf("execute prune: %v", err)
	}
	if service.pruneCalls != 1 {
		t.Fatalf("expected 1 prune call, got %d", service.pruneCalls)
	}
	if service.listCalls != 0 {
		t.Fatalf("expected no list calls, got %d", service.listCalls)
	}
}

func TestPruneBackupsHandlerDryRun(t *testing.T) {
	service := &stubBackupService{
		snapshots: []*backups.Snapshot{{}, {}, {}},
	}
	handler := NewPruneBackupsHandler(service, logging.NoOp(), FeatureGates{})

	if err := handler.Execute(context.Background(), PruneBackupsCommand{DryRun: true}); err != nil {
		t.Fatalf("execute prune dry run: %v", err)
	}
	if service.pruneCalls != 0 {
		t.Fatalf("expected no prune calls on dry run, got %d", service.pruneCalls)
	}
	if service.listCalls != 1 {
		t.Fatalf("expected 1 list call, got %d", service.listCalls)
	}
	if service.listKey != "" {
		t.Fatalf("expected dry run to list every snapshot, got key %q", service.listKey)
	}
}

func TestPruneBackupsHandlerPruneError(t *testing.T) {
	pruneErr := errors.New("boom")
	service := &stubBackupService{pruneErr: pruneErr}
	handler := NewPruneBackupsHandler(service, logging.NoOp(), FeatureGates{})

	err := handler.Execute(context.Background(), PruneBackupsCommand{})
	if err == nil {
		t.Fatal("expected prune error")
	}
	if !errors.Is(err, pruneErr) {
		t.Fatalf("expected wrapped prune error, got %v", err)
	}
	if !goerrors.IsCategory(err, goerrors.CategoryCommand) {
		t.Fatalf("expected command category, got %v", err)
	}
}

func TestPruneBackupsHandlerFeatureDisabled(t *testing.T) {
	service := &stubBackupService{}
	handler := NewPruneBackupsHandler(service, logging.NoOp(), FeatureGates{
		BackupsEnabled: func() bool { return false },
	})

	err := handler.Execute(context.Background(), PruneBackupsCommand{})
	if !errors.Is(err, ErrBackupsFeatureDisabled) {
		t.Fatalf("expected feature disabled error, got %v", err)
	}
	if service.pruneCalls != 0 || service.listCalls != 0 {
		t.Fatal("expected no service calls when the feature is disabled")
	}
}

func TestPruneBackupsHandlerCronMetadata(t *testing.T) {
	service := &stubBackupService{}
	handler := NewPruneBackupsHandler(service, logging.NoOp(), FeatureGates{})

	if got := handler.CronOptions().Expression; got != "@daily" {
		t.Fatalf("expected default cron expression @daily, got %q", got)
	}

	hourly := NewPruneBackupsHandler(service, logging.NoOp(), FeatureGates{},
		PruneWithCronExpression("@hourly"))
	if got := hourly.CronOptions().Expression; got != "@hourly" {
		t.Fatalf("expected @hourly, got %q", got)
	}

	cli := handler.CLIOptions()
	if len(cli.Path) != 2 || cli.Path[0] != "backups" || cli.Path[1] != "prune" {
		t.Fatalf("unexpected CLI path %v", cli.Path)
	}
}

func TestPruneBackupsHandlerCronHandlerRuns(t *testing.T) {
	service := &stubBackupService{}
	handler := NewPruneBackupsHandler(service, logging.NoOp(), FeatureGates{})

	if err := handler.CronHandler()(); err != nil {
		t.Fatalf("cron handler: %v", err)
	}
	if service.pruneCalls != 1 {
		t.Fatalf("expected 1 prune call via cron, got %d", service.pruneCalls)
	}
}

func TestRestoreBackupHandlerBySnapshotID(t *testing.T) {
	id := uuid.New()
	service := &stubBackupService{document: "restored body\n"}
	handler := NewRestoreBackupHandler(service, logging.NoOp(), FeatureGates{})
	output := filepath.Join(t.TempDir(), "restored.md")

	err := handler.Execute(context.Background(), RestoreBackupCommand{
		SnapshotID: id,
		OutputPath: output,
	})
	if err != nil {
		t.Fatalf("execute restore: %v", err)
	}

	if service.restoreCalls != 1 {
		t.Fatalf("expected 1 restore call, got %d", service.restoreCalls)
	}
	if service.restoredID != id {
		t.Fatalf("expected restore by %s, got %s", id, service.restoredID)
	}
	data, err := os.ReadFile(output)
	if err != nil {
		t.Fatalf("read restored file: %v", err)
	}
	if string(data) != "restored body\n" {
		t.Fatalf("unexpected restored content %q", string(data))
	}
}

func TestRestoreBackupHandlerLatestByKey(t *testing.T) {
	service := &stubBackupService{document: "latest body\n"}
	handler := NewRestoreBackupHandler(service, logging.NoOp(), FeatureGates{})
	output := filepath.Join(t.TempDir(), "restored.md")

	err := handler.Execute(context.Background(), RestoreBackupCommand{
		DocumentKey: "docs/guide.md",
		OutputPath:  output,
	})
	if err != nil {
		t.Fatalf("execute restore: %v", err)
	}

	if service.latestCalls != 1 {
		t.Fatalf("expected 1 restore-latest call, got %d", service.latestCalls)
	}
	if service.latestKey != "docs/guide.md" {
		t.Fatalf("unexpected document key %q", service.latestKey)
	}
	data, err := os.ReadFile(output)
	if err != nil {
		t.Fatalf("read restored file: %v", err)
	}
	if string(data) != "latest body\n" {
		t.Fatalf("unexpected restored content %q", string(data))
	}
}

func TestRestoreBackupHandlerValidation(t *testing.T) {
	service := &stubBackupService{}
	handler := NewRestoreBackupHandler(service, logging.NoOp(), FeatureGates{})

	err := handler.Execute(context.Background(), RestoreBackupCommand{
		SnapshotID: uuid.New(),
	})
	if err == nil {
		t.Fatal("expected validation error for missing output path")
	}
	if !goerrors.IsCategory(err, goerrors.CategoryValidation) {
		t.Fatalf("expected validation category, got %v", err)
	}

	err = handler.Execute(context.Background(), RestoreBackupCommand{
		OutputPath: "out.md",
	})
	if err == nil {
		t.Fatal("expected validation error for missing selector")
	}
	if !goerrors.IsCategory(err, goerrors.CategoryValidation) {
		t.Fatalf("expected validation category, got %v", err)
	}
	if service.restoreCalls != 0 || service.latestCalls != 0 {
		t.Fatal("expected no service calls on validation failure")
	}
}

func TestRestoreBackupHandlerFeatureDisabled(t *testing.T) {
	service := &stubBackupService{}
	handler := NewRestoreBackupHandler(service, logging.NoOp(), FeatureGates{
		BackupsEnabled: func() bool { return false },
	})

	err := handler.Execute(context.Background(), RestoreBackupCommand{
		DocumentKey: "docs/guide.md",
		OutputPath:  filepath.Join(t.TempDir(), "restored.md"),
	})
	if !errors.Is(err, ErrBackupsFeatureDisabled) {
		t.Fatalf("expected feature disabled error, got %v", err)
	}
	if service.restoreCalls != 0 || service.latestCalls != 0 {
		t.Fatal("expected no service calls when the feature is disabled")
	}
}
