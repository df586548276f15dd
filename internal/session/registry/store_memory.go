package registry

import (
	"context"
	"sync"
	"time"

	id "stride/pkg/domain"
	dErrors "stride/pkg/domain-errors"
)

// MemoryStore is the in-memory registry used in tests and single-instance
// deployments. Records are copied on the way in and out.
type MemoryStore struct {
	mu      sync.RWMutex
	records map[id.SessionID]Record
}

// NewMemoryStore creates an empty in-memory registry.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{records: make(map[id.SessionID]Record)}
}

func (m *MemoryStore) Save(_ context.Context, record *Record) error {
	if record == nil || record.ID == "" {
		return dErrors.New(dErrors.CodeInvalidInput, "record requires a session id")
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.records[record.ID] = *record
	return nil
}

func (m *MemoryStore) Find(_ context.Context, sessionID id.SessionID) (*Record, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	record, ok := m.records[sessionID]
	if !ok {
		return nil, dErrors.New(dErrors.CodeNotFound, "session not found")
	}
	r := record
	return &r, nil
}

func (m *MemoryStore) Touch(_ context.Context, sessionID id.SessionID, lastSeen time.Time) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	record, ok := m.records[sessionID]
	if !ok {
		return dErrors.New(dErrors.CodeNotFound, "session not found")
	}
	record.LastSeenAt = lastSeen
	m.records[sessionID] = record
	return nil
}

func (m *MemoryStore) Delete(_ context.Context, sessionID id.SessionID) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.records, sessionID)
	return nil
}

func (m *MemoryStore) DeleteExpired(_ context.Context, now time.Time) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	removed := 0
	for sid, record := range m.records {
		if record.Expired(now) {
			delete(m.records, sid)
			removed++
		}
	}
	return removed, nil
}
