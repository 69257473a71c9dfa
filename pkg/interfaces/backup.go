package interfaces

import (
	"context"

	"github.com/goliatone/go-footnotes/backups"
	"github.com/google/uuid"
)

// BackupService stores and restores point-in-time copies of documents so
// destructive rewrites always have an undo path. Snapshots are deduplicated
// by content hash: storing the same bytes twice returns the same record.
type BackupService interface {
	// Snapshot stores the document under the given key and returns its
	// index record.
	Snapshot(ctx context.Context, documentKey, document string) (*backups.Snapshot, error)
	// Restore returns the document bytes behind a snapshot ID.
	Restore(ctx context.Context, id uuid.UUID) (string, error)
	// RestoreLatest returns the most recent snapshot content for a key.
	RestoreLatest(ctx context.Context, documentKey string) (string, error)
	// List returns snapshots for a key, newest first. An empty key lists
	// every snapshot.
	List(ctx context.Context, documentKey string) ([]*backups.Snapshot, error)
	// Prune applies the retention policy and removes expired snapshots
	// together with blobs nothing references anymore.
	Prune(ctx context.Context) (*PruneReport, error)
}
