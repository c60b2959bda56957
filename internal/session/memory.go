package session

import (
	"context"
	"sync"
	"time"
)

type memoryEntry struct {
	scalars  map[string]string
	lists    map[string][]string
	deadline time.Time
}

// Memory is an in-process Store used in tests and when no Redis endpoint is
// configured. The whole namespace of a user expires together; any write
// pushes the deadline out by the TTL.
type Memory struct {
	mu    sync.Mutex
	users map[int64]*memoryEntry
	ttl   time.Duration
	now   func() time.Time
}

// NewMemory creates an in-memory session store with the given TTL.
// A zero ttl falls back to DefaultTTL.
func NewMemory(ttl time.Duration) *Memory {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &Memory{
		users: make(map[int64]*memoryEntry),
		ttl:   ttl,
		now:   time.Now,
	}
}

// SetClock replaces the time source. Tests use it to force expiry.
func (m *Memory) SetClock(now func() time.Time) {
	m.mu.Lock()
	m.now = now
	m.mu.Unlock()
}

// entry returns the live namespace for a user, dropping it first if expired.
// Creates the namespace when create is set.
func (m *Memory) entry(userID int64, create bool) *memoryEntry {
	e, ok := m.users[userID]
	if ok && m.now().After(e.deadline) {
		delete(m.users, userID)
		ok = false
	}
	if !ok {
		if !create {
			return nil
		}
		e = &memoryEntry{
			scalars: make(map[string]string),
			lists:   make(map[string][]string),
		}
		m.users[userID] = e
	}
	return e
}

func (m *Memory) Put(ctx context.Context, userID int64, field, value string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	e := m.entry(userID, true)
	e.scalars[field] = value
	e.deadline = m.now().Add(m.ttl)
	return nil
}

func (m *Memory) Get(ctx context.Context, userID int64, field string) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	e := m.entry(userID, false)
	if e == nil {
		return "", ErrNotFound
	}
	value, ok := e.scalars[field]
	if !ok {
		return "", ErrNotFound
	}
	return value, nil
}

func (m *Memory) AppendList(ctx context.Context, userID int64, field, value string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	e := m.entry(userID, true)
	e.lists[field] = append(e.lists[field], value)
	e.deadline = m.now().Add(m.ttl)
	return nil
}

func (m *Memory) GetList(ctx context.Context, userID int64, field string) ([]string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	e := m.entry(userID, false)
	if e == nil {
		return nil, nil
	}
	list := e.lists[field]
	out := make([]string, len(list))
	copy(out, list)
	return out, nil
}

func (m *Memory) Clear(ctx context.Context, userID int64) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	delete(m.users, userID)
	return nil
}
