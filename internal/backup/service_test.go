package backup

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"
)

func newTestService(t *testing.T, opts ...ServiceOption) (*Service, SnapshotRepository) {
	t.Helper()

	store, err := NewBlobStore(t.TempDir(), WithCompression(CompressionGzip))
	if err != nil {
		t.Fatalf("NewBlobStore: %v", err)
	}
	repo := NewMemorySnapshotRepository()
	service, err := NewService(store, repo, opts...)
	if err != nil {
		t.Fatalf("NewService: %v", err)
	}
	return service, repo
}

func TestServiceSnapshotAndRestore(t *testing.T) {
	t.Parallel()

	service, _ := newTestService(t)
	ctx := context.Background()

	document := "First[^1] note.\n\n[^1]: Original reference.\n"
	snapshot, err := service.Snapshot(ctx, "notes/today", document)
	if err != nil {
		t.Fatalf("Snapshot: %v", err)
	}
	if snapshot.DocumentKey != "notes/today" {
		t.Fatalf("expected key %q, got %q", "notes/today", snapshot.DocumentKey)
	}
	if snapshot.Size != int64(len(document)) {
		t.Fatalf("expected size %d, got %d", len(document), snapshot.Size)
	}
	if snapshot.Compression != string(CompressionGzip) {
		t.Fatalf("expected gzip compression, got %q", snapshot.Compression)
	}

	restored, err := service.Restore(ctx, snapshot.ID)
	if err != nil {
		t.Fatalf("Restore: %v", err)
	}
	if restored != document {
		t.Fatalf("expected %q, got %q", document, restored)
	}
}

func TestServiceSnapshotDeduplicatesContent(t *testing.T) {
	t.Parallel()

	service, _ := newTestService(t)
	ctx := context.Background()

	document := "Same[^1] body.\n\n[^1]: Same definition.\n"
	first, err := service.Snapshot(ctx, "notes", document)
	if err != nil {
		t.Fatalf("first Snapshot: %v", err)
	}
	second, err := service.Snapshot(ctx, "notes", document)
	if err != nil {
		t.Fatalf("second Snapshot: %v", err)
	}
	if first.ID != second.ID {
		t.Fatalf("expected identical snapshot ids, got %s and %s", first.ID, second.ID)
	}

	records, err := service.List(ctx, "notes")
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(records) != 1 {
		t.Fatalf("expected one snapshot, got %d", len(records))
	}
}

func TestServiceSnapshotSameContentDifferentKeys(t *testing.T) {
	t.Parallel()

	service, _ := newTestService(t)
	ctx := context.Background()

	document := "Shared content"
	a, err := service.Snapshot(ctx, "alpha", document)
	if err != nil {
		t.Fatalf("Snapshot alpha: %v", err)
	}
	b, err := service.Snapshot(ctx, "beta", document)
	if err != nil {
		t.Fatalf("Snapshot beta: %v", err)
	}
	if a.ID == b.ID {
		t.Fatal("expected distinct snapshot ids per document key")
	}
	if a.SHA256 != b.SHA256 {
		t.Fatalf("expected shared blob address, got %s and %s", a.SHA256, b.SHA256)
	}
}

func TestServiceSnapshotRequiresKey(t *testing.T) {
	t.Parallel()

	service, _ := newTestService(t)

	if _, err := service.Snapshot(context.Background(), "   ", "content"); err == nil {
		t.Fatal("expected an error for an empty document key")
	}
}

func TestServiceRestoreLatest(t *testing.T) {
	t.Parallel()

	current := time.Date(2024, 3, 1, 10, 0, 0, 0, time.UTC)
	service, _ := newTestService(t, WithClock(func() time.Time { return current }))
	ctx := context.Background()

	if _, err := service.Snapshot(ctx, "notes", "first version"); err != nil {
		t.Fatalf("first Snapshot: %v", err)
	}
	current = current.Add(time.Minute)
	if _, err := service.Snapshot(ctx, "notes", "second version"); err != nil {
		t.Fatalf("second Snapshot: %v", err)
	}

	restored, err := service.RestoreLatest(ctx, "notes")
	if err != nil {
		t.Fatalf("RestoreLatest: %v", err)
	}
	if restored != "second version" {
		t.Fatalf("expected the newest snapshot, got %q", restored)
	}
}

func TestServiceRestoreLatestMissingKey(t *testing.T) {
	t.Parallel()

	service, _ := newTestService(t)

	_, err := service.RestoreLatest(context.Background(), "ghost")
	var notFound *NotFoundError
	if !errors.As(err, &notFound) {
		t.Fatalf("expected NotFoundError, got %v", err)
	}
}

func TestServiceRestoreDetectsTamperedIndex(t *testing.T) {
	t.Parallel()

	service, repo := newTestService(t)
	ctx := context.Background()

	snapshot, err := service.Snapshot(ctx, "notes", "trusted content")
	if err != nil {
		t.Fatalf("Snapshot: %v", err)
	}

	if err := repo.Delete(ctx, snapshot.ID); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	tampered := *snapshot
	tampered.BLAKE3 = strings.Repeat("0", 64)
	if _, err := repo.Create(ctx, &tampered); err != nil {
		t.Fatalf("Create: %v", err)
	}

	if _, err := service.Restore(ctx, snapshot.ID); !errors.Is(err, ErrBlobCorrupt) {
		t.Fatalf("expected ErrBlobCorrupt, got %v", err)
	}
}

func TestServicePruneByAge(t *testing.T) {
	t.Parallel()

	current := time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)
	service, _ := newTestService(t,
		WithClock(func() time.Time { return current }),
		WithRetention(RetentionPolicy{MaxAge: 24 * time.Hour}),
	)
	ctx := context.Background()

	old, err := service.Snapshot(ctx, "notes", "old content")
	if err != nil {
		t.Fatalf("old Snapshot: %v", err)
	}
	current = current.Add(48 * time.Hour)
	fresh, err := service.Snapshot(ctx, "notes", "fresh content")
	if err != nil {
		t.Fatalf("fresh Snapshot: %v", err)
	}

	report, err := service.Prune(ctx)
	if err != nil {
		t.Fatalf("Prune: %v", err)
	}
	if report.Examined != 2 || report.Removed != 1 || report.BlobsRemoved != 1 {
		t.Fatalf("unexpected report: %+v", report)
	}

	var notFound *NotFoundError
	if _, err := service.Restore(ctx, old.ID); !errors.As(err, &notFound) {
		t.Fatalf("expected expired snapshot to be gone, got %v", err)
	}
	restored, err := service.Restore(ctx, fresh.ID)
	if err != nil {
		t.Fatalf("Restore fresh: %v", err)
	}
	if restored != "fresh content" {
		t.Fatalf("expected %q, got %q", "fresh content", restored)
	}
}

func TestServicePruneKeepsNewestPerKey(t *testing.T) {
	t.Parallel()

	current := time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)
	service, _ := newTestService(t,
		WithClock(func() time.Time { return current }),
		WithRetention(RetentionPolicy{MaxPerKey: 2}),
	)
	ctx := context.Background()

	for _, version := range []string{"v1", "v2", "v3"} {
		if _, err := service.Snapshot(ctx, "notes", version); err != nil {
			t.Fatalf("Snapshot %s: %v", version, err)
		}
		current = current.Add(time.Minute)
	}

	report, err := service.Prune(ctx)
	if err != nil {
		t.Fatalf("Prune: %v", err)
	}
	if report.Removed != 1 || report.BlobsRemoved != 1 {
		t.Fatalf("unexpected report: %+v", report)
	}

	restored, err := service.RestoreLatest(ctx, "notes")
	if err != nil {
		t.Fatalf("RestoreLatest: %v", err)
	}
	if restored != "v3" {
		t.Fatalf("expected v3 to survive, got %q", restored)
	}
	records, err := service.List(ctx, "notes")
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(records) != 2 {
		t.Fatalf("expected two surviving snapshots, got %d", len(records))
	}
}

func TestServicePruneKeepsSharedBlobs(t *testing.T) {
	t.Parallel()

	current := time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)
	service, _ := newTestService(t,
		WithClock(func() time.Time { return current }),
		WithRetention(RetentionPolicy{MaxAge: 24 * time.Hour}),
	)
	ctx := context.Background()

	if _, err := service.Snapshot(ctx, "old-key", "shared content"); err != nil {
		t.Fatalf("old Snapshot: %v", err)
	}
	current = current.Add(48 * time.Hour)
	fresh, err := service.Snapshot(ctx, "fresh-key", "shared content")
	if err != nil {
		t.Fatalf("fresh Snapshot: %v", err)
	}

	report, err := service.Prune(ctx)
	if err != nil {
		t.Fatalf("Prune: %v", err)
	}
	if report.Removed != 1 {
		t.Fatalf("expected one removed snapshot, got %d", report.Removed)
	}
	if report.BlobsRemoved != 0 {
		t.Fatalf("expected the shared blob to stay, removed %d", report.BlobsRemoved)
	}

	restored, err := service.Restore(ctx, fresh.ID)
	if err != nil {
		t.Fatalf("Restore: %v", err)
	}
	if restored != "shared content" {
		t.Fatalf("expected %q, got %q", "shared content", restored)
	}
}

func TestServiceListAllKeys(t *testing.T) {
	t.Parallel()

	service, _ := newTestService(t)
	ctx := context.Background()

	if _, err := service.Snapshot(ctx, "alpha", "doc a"); err != nil {
		t.Fatalf("Snapshot alpha: %v", err)
	}
	if _, err := service.Snapshot(ctx, "beta", "doc b"); err != nil {
		t.Fatalf("Snapshot beta: %v", err)
	}

	all, err := service.List(ctx, "")
	if err != nil {
		t.Fatalf("List all: %v", err)
	}
	if len(all) != 2 {
		t.Fatalf("expected two snapshots, got %d", len(all))
	}

	alpha, err := service.List(ctx, "alpha")
	if err != nil {
		t.Fatalf("List alpha: %v", err)
	}
	if len(alpha) != 1 {
		t.Fatalf("expected one snapshot for alpha, got %d", len(alpha))
	}
}
