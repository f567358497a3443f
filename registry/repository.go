package registry

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"github.com/mmuldo/scaler/palette"
)

// Record is one named color style.
type Record struct {
	ID    string      `json:"id"`
	Name  string      `json:"name"`
	Color palette.RGB `json:"color"`
}

// Repository is the host-managed collection of style records. Records are
// never deleted through it.
type Repository interface {
	FindAll(ctx context.Context) ([]Record, error)
	// FindByName matches the stored name exactly.
	FindByName(ctx context.Context, name string) (Record, bool, error)
	Create(ctx context.Context, name string, c palette.RGB) (Record, error)
	Update(ctx context.Context, r Record) error
}

// MemoryRepository keeps records in memory in creation order.
type MemoryRepository struct {
	mu      sync.RWMutex
	records []Record
	next    int
	writes  int
}

// NewMemoryRepository returns a repository seeded with records.
func NewMemoryRepository(records ...Record) *MemoryRepository {
	m := &MemoryRepository{}
	for _, r := range records {
		if r.ID == "" {
			m.next++
			r.ID = fmt.Sprintf("style-%d", m.next)
		}
		m.records = append(m.records, r)
	}
	return m
}

func (m *MemoryRepository) FindAll(ctx context.Context) ([]Record, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return append([]Record(nil), m.records...), nil
}

func (m *MemoryRepository) FindByName(ctx context.Context, name string) (Record, bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	for _, r := range m.records {
		if r.Name == name {
			return r, true, nil
		}
	}
	return Record{}, false, nil
}

func (m *MemoryRepository) Create(ctx context.Context, name string, c palette.RGB) (Record, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.next++
	m.writes++
	r := Record{ID: fmt.Sprintf("style-%d", m.next), Name: name, Color: c}
	m.records = append(m.records, r)
	return r, nil
}

func (m *MemoryRepository) Update(ctx context.Context, r Record) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for i := range m.records {
		if m.records[i].ID == r.ID {
			m.records[i] = r
			m.writes++
			return nil
		}
	}
	return fmt.Errorf("style %s not found", r.ID)
}

// Writes returns the number of creates and updates applied so far.
func (m *MemoryRepository) Writes() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.writes
}

type byName []Record

func (rs byName) Len() int           { return len(rs) }
func (rs byName) Less(i, j int) bool { return rs[i].Name < rs[j].Name }
func (rs byName) Swap(i, j int)      { rs[i], rs[j] = rs[j], rs[i] }

// SortByName sorts records by name in place.
func SortByName(rs []Record) {
	sort.Sort(byName(rs))
}
