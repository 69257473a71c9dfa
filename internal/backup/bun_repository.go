package backup

import (
	"context"
	"fmt"

	goerrors "github.com/goliatone/go-errors"
	repository "github.com/goliatone/go-repository-bun"
	"github.com/goliatone/go-repository-cache/cache"
	"github.com/goliatone/go-repository-cache/repositorycache"
	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

const snapshotNamespace = "snapshot"

// NewSnapshotModelRepository builds the generic bun repository for snapshots.
func NewSnapshotModelRepository(db *bun.DB) repository.Repository[*Snapshot] {
	handlers := repository.ModelHandlers[*Snapshot]{
		NewRecord: func() *Snapshot { return &Snapshot{} },
		GetID: func(record *Snapshot) uuid.UUID {
			if record == nil {
				return uuid.Nil
			}
			return record.ID
		},
		SetID: func(record *Snapshot, id uuid.UUID) {
			if record != nil {
				record.ID = id
			}
		},
		GetIdentifier: func() string { return "id" },
		GetIdentifierValue: func(record *Snapshot) string {
			if record == nil {
				return ""
			}
			return record.ID.String()
		},
	}
	return repository.MustNewRepository[*Snapshot](db, handlers)
}

// BunSnapshotRepository implements SnapshotRepository with optional caching.
type BunSnapshotRepository struct {
	db           *bun.DB
	repo         repository.Repository[*Snapshot]
	cacheService cache.CacheService
	cachePrefix  string
}

// NewBunSnapshotRepository creates a snapshot repository without caching.
func NewBunSnapshotRepository(db *bun.DB) *BunSnapshotRepository {
	return NewBunSnapshotRepositoryWithCache(db, nil, nil)
}

// NewBunSnapshotRepositoryWithCache creates a snapshot repository with caching services.
func NewBunSnapshotRepositoryWithCache(db *bun.DB, cacheService cache.CacheService, serializer cache.KeySerializer) *BunSnapshotRepository {
	base := NewSnapshotModelRepository(db)
	var svc cache.CacheService
	if cacheService != nil && serializer != nil {
		base = repositorycache.New(base, cacheService, serializer)
		svc = cacheService
	}
	prefix := ""
	if svc != nil {
		prefix = snapshotNamespace + cache.KeySeparator
	}
	return &BunSnapshotRepository{
		db:           db,
		repo:         base,
		cacheService: svc,
		cachePrefix:  prefix,
	}
}

func (r *BunSnapshotRepository) Create(ctx context.Context, snapshot *Snapshot) (*Snapshot, error) {
	record, err := r.repo.Create(ctx, snapshot)
	if err != nil {
		return nil, mapRepositoryError(err, "snapshot", snapshot.ID.String())
	}
	return record, nil
}

func (r *BunSnapshotRepository) GetByID(ctx context.Context, id uuid.UUID) (*Snapshot, error) {
	record, err := r.repo.GetByID(ctx, id.String())
	if err != nil {
		return nil, mapRepositoryError(err, "snapshot", id.String())
	}
	return record, nil
}

func (r *BunSnapshotRepository) ListByKey(ctx context.Context, documentKey string) ([]*Snapshot, error) {
	records, _, err := r.repo.List(ctx,
		repository.SelectRawProcessor(func(q *bun.SelectQuery) *bun.SelectQuery {
			return q.Where("?TableAlias.document_key = ?", documentKey).
				OrderExpr("?TableAlias.created_at DESC, ?TableAlias.id ASC")
		}),
	)
	if err != nil {
		return nil, mapRepositoryError(err, "snapshot", documentKey)
	}
	return records, nil
}

func (r *BunSnapshotRepository) List(ctx context.Context) ([]*Snapshot, error) {
	records, _, err := r.repo.List(ctx,
		repository.SelectRawProcessor(func(q *bun.SelectQuery) *bun.SelectQuery {
			return q.OrderExpr("?TableAlias.created_at DESC, ?TableAlias.id ASC")
		}),
	)
	if err != nil {
		return nil, mapRepositoryError(err, "snapshot", "all")
	}
	return records, nil
}

func (r *BunSnapshotRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return r.repo.Delete(ctx, &Snapshot{ID: id})
}

func (r *BunSnapshotRepository) CountByHash(ctx context.Context, sha256 string) (int, error) {
	count, err := r.db.NewSelect().
		Model((*Snapshot)(nil)).
		Where("?TableAlias.sha256 = ?", sha256).
		Count(ctx)
	if err != nil {
		return 0, fmt.Errorf("snapshot repository error: %w", err)
	}
	return count, nil
}

// InvalidateCache drops every cached snapshot entry.
func (r *BunSnapshotRepository) InvalidateCache(ctx context.Context) error {
	if r.cacheService == nil || r.cachePrefix == "" {
		return nil
	}
	return r.cacheService.DeleteByPrefix(ctx, r.cachePrefix)
}

func mapRepositoryError(err error, resource, key string) error {
	if err == nil {
		return nil
	}

	if goerrors.IsCategory(err, repository.CategoryDatabaseNotFound) {
		return &NotFoundError{Resource: resource, Key: key}
	}

	return fmt.Errorf("%s repository error: %w", resource, err)
}
