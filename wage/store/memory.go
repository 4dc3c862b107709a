// Package store provides BlobStore implementations.
package store

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"

	"github.com/warp/wage-watcher/wage"
)

// =============================================================================
// MEMORY STORE - In-memory implementation (for testing/dev)
// =============================================================================

// Memory keeps the blob as encoded JSON, so decoding behaves like a real
// key-value store (including corrupt records).
type Memory struct {
	mu   sync.RWMutex
	data []byte

	// Err, when set, is returned by every operation.
	Err error

	saves int
}

// NewMemory creates an empty in-memory store.
func NewMemory() *Memory {
	return &Memory{}
}

func (m *Memory) Load(_ context.Context) (*wage.Blob, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	if m.Err != nil {
		return nil, m.Err
	}
	if m.data == nil {
		return nil, nil
	}
	var b wage.Blob
	if err := json.Unmarshal(m.data, &b); err != nil {
		return nil, fmt.Errorf("%w: %v", wage.ErrCorruptBlob, err)
	}
	return &b, nil
}

func (m *Memory) Save(_ context.Context, b wage.Blob) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.Err != nil {
		return m.Err
	}
	data, err := json.Marshal(b)
	if err != nil {
		return err
	}
	m.data = data
	m.saves++
	return nil
}

func (m *Memory) Clear(_ context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.Err != nil {
		return m.Err
	}
	m.data = nil
	return nil
}

// SetRaw replaces the stored record with arbitrary bytes.
func (m *Memory) SetRaw(data []byte) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.data = data
}

// Raw returns the stored record, or nil when empty.
func (m *Memory) Raw() []byte {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return append([]byte(nil), m.data...)
}

// Saves counts successful Save calls.
func (m *Memory) Saves() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.saves
}

var _ wage.BlobStore = (*Memory)(nil)
