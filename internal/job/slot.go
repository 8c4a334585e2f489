package job

import (
	"context"
	"sync"
)

// Slot is a single named blob in persistent storage. The store keeps the
// whole collection in one slot and overwrites it on every mutation.
type Slot interface {
	// Load returns the stored blob, or nil when the slot has never been written.
	Load(ctx context.Context) ([]byte, error)
	Save(ctx context.Context, data []byte) error
}

// MemorySlot keeps the blob in memory. Used for tests and ephemeral runs.
type MemorySlot struct {
	mu   sync.Mutex
	data []byte
}

// NewMemorySlot returns a slot pre-filled with data (nil for an empty slot).
func NewMemorySlot(data []byte) *MemorySlot {
	return &MemorySlot{data: data}
}

func (m *MemorySlot) Load(_ context.Context) ([]byte, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.data == nil {
		return nil, nil
	}
	return append([]byte(nil), m.data...), nil
}

func (m *MemorySlot) Save(_ context.Context, data []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.data = append([]byte(nil), data...)
	return nil
}
