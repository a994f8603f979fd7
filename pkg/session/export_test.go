package session

// LockCount reports how many per-session lock entries are alive.
func (m *Manager) LockCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.locks)
}
