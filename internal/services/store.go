package services

import (
	"context"
	"sync"
)

// Keys under which the two collections are mirrored.
const (
	KeyMedications    = "medications"
	KeyMedicationLogs = "medicationLogs"
)

// StateStore is the key-value mirror the tracker writes after every mutation.
// Values are whole JSON documents; Put replaces every given key.
type StateStore interface {
	// Get returns the value under key; ok is false when the key is absent.
	Get(ctx context.Context, key string) (value string, ok bool, err error)
	// Put writes all values, atomically where the backend allows it.
	Put(ctx context.Context, values map[string]string) error
}

// MemoryStore is a StateStore kept in process memory.
type MemoryStore struct {
	mu   sync.Mutex
	data map[string]string
}

// NewMemoryStore returns an empty MemoryStore.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{data: map[string]string{}}
}

// Get implements StateStore.
func (m *MemoryStore) Get(_ context.Context, key string) (string, bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	v, ok := m.data[key]
	return v, ok, nil
}

// Put implements StateStore.
func (m *MemoryStore) Put(_ context.Context, values map[string]string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for k, v := range values {
		m.data[k] = v
	}
	return nil
}
