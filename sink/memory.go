package sink

import (
	"slices"
	"sync"

	"github.com/gogpu/shapeset"
)

// Key addresses one stored composite.
type Key struct {
	Class int
	Index int
}

// Memory keeps composites in memory. It is safe for concurrent use.
type Memory struct {
	mu     sync.Mutex
	images map[Key]*shapeset.Canvas
	order  []Key
}

// NewMemory returns an empty in-memory sink.
func NewMemory() *Memory {
	return &Memory{images: make(map[Key]*shapeset.Canvas)}
}

// Save implements shapeset.Sink. Saving an existing key replaces the image.
func (m *Memory) Save(class, index int, img *shapeset.Canvas) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	k := Key{Class: class, Index: index}
	if _, ok := m.images[k]; !ok {
		m.order = append(m.order, k)
	}
	m.images[k] = img
	return nil
}

// Get returns a stored composite.
func (m *Memory) Get(class, index int) (*shapeset.Canvas, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	img, ok := m.images[Key{Class: class, Index: index}]
	return img, ok
}

// Len returns the number of stored composites.
func (m *Memory) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.images)
}

// Keys returns the stored keys in save order.
func (m *Memory) Keys() []Key {
	m.mu.Lock()
	defer m.mu.Unlock()
	return slices.Clone(m.order)
}

// Class returns the indices stored for class, sorted ascending.
func (m *Memory) Class(class int) []int {
	m.mu.Lock()
	defer m.mu.Unlock()
	var idx []int
	for k := range m.images {
		if k.Class == class {
			idx = append(idx, k.Index)
		}
	}
	slices.Sort(idx)
	return idx
}
