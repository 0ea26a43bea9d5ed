package storage

import "sync"

// MemHost is an in-memory Host, standing in for the contract runtime's real
// storage during tests and the cmd/kvcli demo. It plays the role the
// teacher's store/testutil in-memory helpers play: the same code path every
// collection exercises in production, just backed by a map instead of a
// host call.
type MemHost struct {
	mu   sync.RWMutex
	data map[string][]byte
}

// NewMemHost returns an empty in-memory host.
func NewMemHost() *MemHost {
	return &MemHost{data: make(map[string][]byte)}
}

func (m *MemHost) Read(key []byte) ([]byte, bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	v, ok := m.data[string(key)]
	if !ok {
		return nil, false, nil
	}
	out := make([]byte, len(v))
	copy(out, v)
	return out, true, nil
}

func (m *MemHost) Write(key, value []byte) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	_, prior := m.data[string(key)]
	cp := make([]byte, len(value))
	copy(cp, value)
	m.data[string(key)] = cp
	return prior, nil
}

func (m *MemHost) Remove(key []byte) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	_, prior := m.data[string(key)]
	delete(m.data, string(key))
	return prior, nil
}

func (m *MemHost) Has(key []byte) (bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	_, ok := m.data[string(key)]
	return ok, nil
}

// Len returns the number of keys currently stored. Test-only convenience,
// not part of the Host interface.
func (m *MemHost) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.data)
}
