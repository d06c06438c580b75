package store

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"

	"github.com/ecotrip/orchestrator/domain"
)

// MemoryStore implements Store with an in-process map. Records are kept as
// marshaled JSON so callers never share memory with the store.
type MemoryStore struct {
	mu        sync.RWMutex
	sessions  map[string][]byte
	snapshots map[string][]byte
}

var _ Store = (*MemoryStore)(nil)

// NewMemoryStore creates an empty in-memory store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		sessions:  make(map[string][]byte),
		snapshots: make(map[string][]byte),
	}
}

// Get retrieves a session by ID, returning (nil, nil) when absent.
func (m *MemoryStore) Get(ctx context.Context, sessionID string) (*domain.Session, error) {
	m.mu.RLock()
	data, ok := m.sessions[sessionID]
	m.mu.RUnlock()
	if !ok {
		return nil, nil
	}

	var session domain.Session
	if err := json.Unmarshal(data, &session); err != nil {
		return nil, fmt.Errorf("failed to decode session: %w", err)
	}
	return &session, nil
}

// Put stores the full session record, replacing any previous one.
func (m *MemoryStore) Put(ctx context.Context, session *domain.Session) error {
	data, err := json.Marshal(session)
	if err != nil {
		return fmt.Errorf("failed to encode session: %w", err)
	}

	m.mu.Lock()
	m.sessions[session.SessionID] = data
	m.mu.Unlock()
	return nil
}

// Update merges the patch into the stored record under the write lock,
// creating a fresh record when absent, and refreshes last_active.
func (m *MemoryStore) Update(ctx context.Context, sessionID string, patch *Patch) (*domain.Session, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	session := domain.NewSession(sessionID, "")
	if data, ok := m.sessions[sessionID]; ok {
		session = &domain.Session{}
		if err := json.Unmarshal(data, session); err != nil {
			return nil, fmt.Errorf("failed to decode session: %w", err)
		}
	}

	patch.Apply(session)

	encoded, err := json.Marshal(session)
	if err != nil {
		return nil, fmt.Errorf("failed to encode session: %w", err)
	}
	m.sessions[sessionID] = encoded

	return session, nil
}

// Delete removes a session record.
func (m *MemoryStore) Delete(ctx context.Context, sessionID string) error {
	m.mu.Lock()
	delete(m.sessions, sessionID)
	m.mu.Unlock()
	return nil
}

// PutSnapshot stores the snapshot at key, replacing any previous one.
func (m *MemoryStore) PutSnapshot(ctx context.Context, key string, snap *domain.Snapshot) error {
	data, err := json.Marshal(snap)
	if err != nil {
		return fmt.Errorf("failed to encode snapshot: %w", err)
	}

	m.mu.Lock()
	m.snapshots[key] = data
	m.mu.Unlock()
	return nil
}

// GetSnapshot retrieves a snapshot by key, returning (nil, nil) when absent.
func (m *MemoryStore) GetSnapshot(ctx context.Context, key string) (*domain.Snapshot, error) {
	m.mu.RLock()
	data, ok := m.snapshots[key]
	m.mu.RUnlock()
	if !ok {
		return nil, nil
	}

	var snap domain.Snapshot
	if err := json.Unmarshal(data, &snap); err != nil {
		return nil, fmt.Errorf("failed to decode snapshot: %w", err)
	}
	return &snap, nil
}

// Close is a no-op for the in-memory store.
func (m *MemoryStore) Close() error {
	return nil
}
