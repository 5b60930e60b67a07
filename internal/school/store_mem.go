package school

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/edukita/schoolhub/internal/rbac"
)

type memoryStore struct {
	mu    sync.RWMutex
	seq   int64
	users map[string]User
	order map[string]int64
}

func NewMemoryStore() Store {
	return &memoryStore{users: map[string]User{}, order: map[string]int64{}}
}

func (m *memoryStore) Create(ctx context.Context, u User) (User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, ex := range m.users {
		if ex.Username == u.Username {
			return User{}, ErrExists
		}
	}
	m.users[u.ID] = u
	m.seq++
	m.order[u.ID] = m.seq
	return u, nil
}

func (m *memoryStore) Get(ctx context.Context, id string) (User, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	u, ok := m.users[id]
	if !ok {
		return User{}, ErrNotFound
	}
	return u, nil
}

func (m *memoryStore) GetByUsername(ctx context.Context, username string) (User, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	for _, u := range m.users {
		if u.Username == username {
			return u, nil
		}
	}
	return User{}, ErrNotFound
}

func (m *memoryStore) ListByRole(ctx context.Context, role rbac.Role) ([]User, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := []User{}
	for _, u := range m.users {
		if u.Role == role {
			out = append(out, u)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		return m.order[out[i].ID] > m.order[out[j].ID]
	})
	return out, nil
}

func (m *memoryStore) Update(ctx context.Context, id string, upd UserUpdate, newHash string) (User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	u, ok := m.users[id]
	if !ok {
		return User{}, ErrNotFound
	}
	if upd.Username != nil && *upd.Username != u.Username {
		for _, ex := range m.users {
			if ex.Username == *upd.Username {
				return User{}, ErrExists
			}
		}
	}
	apply := func(dst *string, src *string) {
		if src != nil {
			*dst = *src
		}
	}
	apply(&u.Name, upd.Name)
	apply(&u.Username, upd.Username)
	apply(&u.NIS, upd.NIS)
	apply(&u.Major, upd.Major)
	apply(&u.Grade, upd.Grade)
	apply(&u.Class, upd.Class)
	apply(&u.Subject, upd.Subject)
	apply(&u.Email, upd.Email)
	apply(&u.Phone, upd.Phone)
	apply(&u.Avatar, upd.Avatar)
	if newHash != "" {
		u.PasswordHash = newHash
	}
	u.UpdatedAt = time.Now().Unix()
	m.users[id] = u
	return u, nil
}

func (m *memoryStore) UpdateRole(ctx context.Context, id string, role rbac.Role) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	u, ok := m.users[id]
	if !ok {
		return ErrNotFound
	}
	u.Role = role
	u.UpdatedAt = time.Now().Unix()
	m.users[id] = u
	return nil
}

func (m *memoryStore) Delete(ctx context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.users[id]; !ok {
		return ErrNotFound
	}
	delete(m.users, id)
	return nil
}
