package backup

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
)

// SnapshotRepository stores and queries the snapshot index.
type SnapshotRepository interface {
	Create(ctx context.Context, snapshot *Snapshot) (*Snapshot, error)
	GetByID(ctx context.Context, id uuid.UUID) (*Snapshot, error)
	// ListByKey returns the snapshots for a document key, newest first.
	ListByKey(ctx context.Context, documentKey string) ([]*Snapshot, error)
	// List returns every snapshot in the index, newest first.
	List(ctx context.Context) ([]*Snapshot, error)
	Delete(ctx context.Context, id uuid.UUID) error
	// CountByHash reports how many snapshots still reference a blob.
	CountByHash(ctx context.Context, sha256 string) (int, error)
}

// NotFoundError indicates a requested backup resource does not exist.
type NotFoundError struct {
	Resource string
	Key      string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s not found: %s", e.Resource, e.Key)
}

// IsNotFound reports whether err wraps a NotFoundError.
func IsNotFound(err error) bool {
	var notFound *NotFoundError
	return errors.As(err, &notFound)
}
