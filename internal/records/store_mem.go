package records

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
)

type memoryStore struct {
	mu    sync.RWMutex
	seq   int64
	data  map[string]map[string]Record // collection -> id -> record
	order map[string]int64             // insertion order for newest-first listing
}

func NewMemoryStore() Store {
	return &memoryStore{data: map[string]map[string]Record{}, order: map[string]int64{}}
}

func (m *memoryStore) coll(name string) map[string]Record {
	c, ok := m.data[name]
	if !ok {
		c = map[string]Record{}
		m.data[name] = c
	}
	return c
}

func (m *memoryStore) Create(ctx context.Context, collection string, doc map[string]any) (Record, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if doc == nil {
		doc = map[string]any{}
	}
	m.seq++
	now := time.Now().Unix()
	rec := Record{ID: uuid.NewString(), Doc: copyDoc(doc), CreatedAt: now, UpdatedAt: now}
	m.coll(collection)[rec.ID] = rec
	m.order[rec.ID] = m.seq
	return rec, nil
}

func copyDoc(doc map[string]any) map[string]any {
	out := make(map[string]any, len(doc))
	for k, v := range doc {
		out[k] = v
	}
	return out
}

func (m *memoryStore) Get(ctx context.Context, collection, id string) (Record, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	rec, ok := m.data[collection][id]
	if !ok {
		return Record{}, ErrNotFound
	}
	return rec, nil
}

func matches(rec Record, field, value string) bool {
	v, ok := rec.Doc[field]
	return ok && fmt.Sprintf("%v", v) == value
}

func (m *memoryStore) FindBy(ctx context.Context, collection, field, value string) (Record, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	for _, rec := range m.data[collection] {
		if matches(rec, field, value) {
			return rec, nil
		}
	}
	return Record{}, ErrNotFound
}

func (m *memoryStore) list(collection string, filter func(Record) bool) []Record {
	out := []Record{}
	for _, rec := range m.data[collection] {
		if filter(rec) {
			out = append(out, rec)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		return m.order[out[i].ID] > m.order[out[j].ID]
	})
	return out
}

func (m *memoryStore) List(ctx context.Context, collection string) ([]Record, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.list(collection, func(Record) bool { return true }), nil
}

func (m *memoryStore) ListBy(ctx context.Context, collection, field, value string) ([]Record, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.list(collection, func(r Record) bool { return matches(r, field, value) }), nil
}

func (m *memoryStore) Update(ctx context.Context, collection, id string, doc map[string]any) (Record, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	rec, ok := m.coll(collection)[id]
	if !ok {
		return Record{}, ErrNotFound
	}
	merged := copyDoc(rec.Doc)
	for k, v := range doc {
		merged[k] = v
	}
	rec.Doc = merged
	rec.UpdatedAt = time.Now().Unix()
	m.coll(collection)[id] = rec
	return rec, nil
}

func (m *memoryStore) Delete(ctx context.Context, collection, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.coll(collection)[id]; !ok {
		return ErrNotFound
	}
	delete(m.coll(collection), id)
	return nil
}

func (m *memoryStore) DeleteBy(ctx context.Context, collection, field, value string) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var n int64
	for id, rec := range m.coll(collection) {
		if matches(rec, field, value) {
			delete(m.coll(collection), id)
			n++
		}
	}
	return n, nil
}
