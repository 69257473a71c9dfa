package backup

import (
	"context"
	"sort"
	"sync"

	"github.com/google/uuid"
)

type memorySnapshotRepository struct {
	mu   sync.RWMutex
	byID map[uuid.UUID]*Snapshot
}

// NewMemorySnapshotRepository constructs an in-memory snapshot index
func NewMemorySnapshotRepository() SnapshotRepository {
	return &memorySnapshotRepository{
		byID: make(map[uuid.UUID]*Snapshot),
	}
}

func (m *memorySnapshotRepository) Create(_ context.Context, snapshot *Snapshot) (*Snapshot, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	cloned := cloneSnapshot(snapshot)
	if cloned.ID == uuid.Nil {
		cloned.ID = uuid.New()
	}
	m.byID[cloned.ID] = cloned
	return cloneSnapshot(cloned), nil
}

func (m *memorySnapshotRepository) GetByID(_ context.Context, id uuid.UUID) (*Snapshot, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	record, ok := m.byID[id]
	if !ok {
		return nil, &NotFoundError{Resource: "snapshot", Key: id.String()}
	}
	return cloneSnapshot(record), nil
}

func (m *memorySnapshotRepository) ListByKey(_ context.Context, documentKey string) ([]*Snapshot, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	records := make([]*Snapshot, 0)
	for _, record := range m.byID {
		if record.DocumentKey == documentKey {
			records = append(records, cloneSnapshot(record))
		}
	}
	sortSnapshots(records)
	return records, nil
}

func (m *memorySnapshotRepository) List(_ context.Context) ([]*Snapshot, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	records := make([]*Snapshot, 0, len(m.byID))
	for _, record := range m.byID {
		records = append(records, cloneSnapshot(record))
	}
	sortSnapshots(records)
	return records, nil
}

func (m *memorySnapshotRepository) Delete(_ context.Context, id uuid.UUID) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	delete(m.byID, id)
	return nil
}

func (m *memorySnapshotRepository) CountByHash(_ context.Context, sha256 string) (int, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	count := 0
	for _, record := range m.byID {
		if record.SHA256 == sha256 {
			count++
		}
	}
	return count, nil
}

// sortSnapshots orders newest first, breaking timestamp ties by ID so the
// ordering stays deterministic.
func sortSnapshots(records []*Snapshot) {
	sort.SliceStable(records, func(i, j int) bool {
		if records[i].CreatedAt.Equal(records[j].CreatedAt) {
			return records[i].ID.String() < records[j].ID.String()
		}
		return records[i].CreatedAt.After(records[j].CreatedAt)
	})
}

func cloneSnapshot(snapshot *Snapshot) *Snapshot {
	if snapshot == nil {
		return nil
	}
	cloned := *snapshot
	return &cloned
}
