package backup

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/goliatone/go-footnotes/internal/identity"
	"github.com/goliatone/go-footnotes/internal/logging"
	"github.com/goliatone/go-footnotes/pkg/interfaces"
)

// RetentionPolicy bounds how many snapshots the prune pass keeps.
type RetentionPolicy struct {
	// MaxAge removes snapshots older than the duration. Zero disables the
	// age rule.
	MaxAge time.Duration
	// MaxPerKey keeps only the newest N snapshots per document key. Zero
	// disables the cap.
	MaxPerKey int
}

// Service snapshots documents into the blob store and tracks them in the
// snapshot index. Snapshot identifiers are derived from the document key
// and content hash, so storing the same content twice yields the same row.
type Service struct {
	store     *BlobStore
	snapshots SnapshotRepository
	logger    interfaces.Logger
	retention RetentionPolicy
	now       func() time.Time
}

var _ interfaces.BackupService = (*Service)(nil)

// ServiceOption configures the backup service.
type ServiceOption func(*Service)

// WithLogger attaches a logger to the service.
func WithLogger(logger interfaces.Logger) ServiceOption {
	return func(s *Service) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// WithRetention sets the retention policy applied by Prune.
func WithRetention(policy RetentionPolicy) ServiceOption {
	return func(s *Service) {
		s.retention = policy
	}
}

// WithClock overrides the time source, mainly for tests.
func WithClock(now func() time.Time) ServiceOption {
	return func(s *Service) {
		if now != nil {
			s.now = now
		}
	}
}

// NewService builds a backup service over the given blob store and index.
func NewService(store *BlobStore, snapshots SnapshotRepository, opts ...ServiceOption) (*Service, error) {
	if store == nil {
		return nil, errors.New("backup: blob store is required")
	}
	if snapshots == nil {
		return nil, errors.New("backup: snapshot repository is required")
	}
	service := &Service{
		store:     store,
		snapshots: snapshots,
		logger:    logging.NoOp(),
		now:       time.Now,
	}
	for _, opt := range opts {
		if opt != nil {
			opt(service)
		}
	}
	return service, nil
}

// Snapshot stores the document and records an index row for it. Repeated
// calls with identical content return the existing row.
func (s *Service) Snapshot(ctx context.Context, documentKey string, document string) (*Snapshot, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	key := NormalizeDocumentKey(documentKey)
	if key == "" {
		return nil, errors.New("backup: document key is required")
	}
	info, err := s.store.Store([]byte(document))
	if err != nil {
		return nil, err
	}
	id := identity.SnapshotUUID(key, info.SHA256)
	existing, err := s.snapshots.GetByID(ctx, id)
	if err == nil {
		s.logger.Debug("backup.snapshot.deduplicated",
			"snapshot_id", id.String(),
			"document_key", key,
		)
		return existing, nil
	}
	if !IsNotFound(err) {
		return nil, err
	}
	record := &Snapshot{
		ID:          id,
		DocumentKey: key,
		SHA256:      info.SHA256,
		BLAKE3:      info.BLAKE3,
		Size:        info.Size,
		Compression: string(info.Compression),
		CreatedAt:   s.now().UTC(),
	}
	created, err := s.snapshots.Create(ctx, record)
	if err != nil {
		return nil, err
	}
	s.logger.Info("backup.snapshot.created",
		"snapshot_id", created.ID.String(),
		"document_key", key,
		"sha256", info.SHA256,
		"size", info.Size,
	)
	return created, nil
}

// Restore returns the document content recorded by a snapshot, verifying
// both digests before handing it back.
func (s *Service) Restore(ctx context.Context, id uuid.UUID) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	record, err := s.snapshots.GetByID(ctx, id)
	if err != nil {
		return "", err
	}
	return s.restoreRecord(record)
}

// RestoreLatest returns the content of the newest snapshot for a document key.
func (s *Service) RestoreLatest(ctx context.Context, documentKey string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	key := NormalizeDocumentKey(documentKey)
	records, err := s.snapshots.ListByKey(ctx, key)
	if err != nil {
		return "", err
	}
	if len(records) == 0 {
		return "", &NotFoundError{Resource: "snapshot", Key: key}
	}
	return s.restoreRecord(records[0])
}

// List returns snapshots for a document key, or every snapshot when the key
// is empty. Results are newest first.
func (s *Service) List(ctx context.Context, documentKey string) ([]*Snapshot, error) {
	if strings.TrimSpace(documentKey) == "" {
		return s.snapshots.List(ctx)
	}
	return s.snapshots.ListByKey(ctx, NormalizeDocumentKey(documentKey))
}

// Prune applies the retention policy, deleting expired index rows and any
// blobs no remaining row references.
func (s *Service) Prune(ctx context.Context) (*interfaces.PruneReport, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	records, err := s.snapshots.List(ctx)
	if err != nil {
		return nil, err
	}

	report := &interfaces.PruneReport{Examined: len(records)}
	doomed := s.selectExpired(records)
	if len(doomed) == 0 {
		return report, nil
	}

	hashes := make(map[string]struct{})
	for _, record := range doomed {
		if err := s.snapshots.Delete(ctx, record.ID); err != nil {
			return report, err
		}
		report.Removed++
		hashes[record.SHA256] = struct{}{}
	}

	for hash := range hashes {
		remaining, err := s.snapshots.CountByHash(ctx, hash)
		if err != nil {
			return report, err
		}
		if remaining > 0 {
			continue
		}
		// The same content may exist under more than one codec when the
		// store configuration changed between snapshots. Sweep them all.
		for _, codec := range allCompressions {
			if !s.store.Exists(hash, codec) {
				continue
			}
			if err := s.store.Remove(hash, codec); err != nil {
				return report, err
			}
			report.BlobsRemoved++
		}
	}

	s.logger.Info("backup.prune.completed",
		"examined", report.Examined,
		"removed", report.Removed,
		"blobs_removed", report.BlobsRemoved,
	)
	return report, nil
}

// selectExpired applies the age rule first, then the per-key cap over
// whatever the age rule kept.
func (s *Service) selectExpired(records []*Snapshot) []*Snapshot {
	var doomed []*Snapshot
	var cutoff time.Time
	if s.retention.MaxAge > 0 {
		cutoff = s.now().Add(-s.retention.MaxAge)
	}

	survivors := make(map[string][]*Snapshot)
	for _, record := range records {
		if !cutoff.IsZero() && record.CreatedAt.Before(cutoff) {
			doomed = append(doomed, record)
			continue
		}
		survivors[record.DocumentKey] = append(survivors[record.DocumentKey], record)
	}

	if s.retention.MaxPerKey > 0 {
		for _, group := range survivors {
			sortSnapshots(group)
			if len(group) > s.retention.MaxPerKey {
				doomed = append(doomed, group[s.retention.MaxPerKey:]...)
			}
		}
	}
	return doomed
}

func (s *Service) restoreRecord(record *Snapshot) (string, error) {
	data, err := s.store.Retrieve(record.SHA256, Compression(record.Compression))
	if err != nil {
		return "", err
	}
	if record.BLAKE3 != "" && hashBlake3(data) != record.BLAKE3 {
		return "", fmt.Errorf("%w: snapshot %s", ErrBlobCorrupt, record.ID)
	}
	return string(data), nil
}
