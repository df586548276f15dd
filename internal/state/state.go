// Package state assembles one client session's stores into an explicit,
// injected container and maps gateway session IDs to containers. This
// replaces the original design's module-level store singletons: every browser
// session gets isolated stores, and tests construct containers directly.
package state

import (
	"sync"

	"stride/internal/habits"
	"stride/internal/leaderboard"
	"stride/internal/rewards"
	"stride/internal/session"
	id "stride/pkg/domain"
)

// Container bundles the four stores owned by one client session.
type Container struct {
	Session     *session.Store
	Habits      *habits.Store
	Leaderboard *leaderboard.Store
	Rewards     *rewards.Store
}

// Factory builds a fresh container. Wiring (backend repositories, logger,
// metrics, audit) is closed over by the caller in cmd/server.
type Factory func() *Container

// Manager tracks live containers keyed by gateway session ID. Containers are
// created lazily and dropped on sign-out or expiry; the durable part of a
// session lives in the registry, not here.
type Manager struct {
	factory Factory

	mu         sync.Mutex
	containers map[id.SessionID]*Container
}

// NewManager creates a container manager.
func NewManager(factory Factory) *Manager {
	return &Manager{
		factory:    factory,
		containers: make(map[id.SessionID]*Container),
	}
}

// GetOrCreate returns the container for sessionID, building one if needed.
func (m *Manager) GetOrCreate(sessionID id.SessionID) *Container {
	m.mu.Lock()
	defer m.mu.Unlock()
	if c, ok := m.containers[sessionID]; ok {
		return c
	}
	c := m.factory()
	m.containers[sessionID] = c
	return c
}

// Get returns the container for sessionID, or nil when none exists.
func (m *Manager) Get(sessionID id.SessionID) *Container {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.containers[sessionID]
}

// Remove drops the container for sessionID.
func (m *Manager) Remove(sessionID id.SessionID) {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.containers, sessionID)
}

// Len reports the number of live containers.
func (m *Manager) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.containers)
}
