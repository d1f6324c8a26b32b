package store

import (
	"context"
	"sync"
	"time"

	"github.com/zhouzirui/daptic/internal/model/chat"
)

// Memory is an in-process Store, handy for tests and for running without a database file.
type Memory struct {
	mu       sync.RWMutex
	messages map[string][]chat.Message
}

// NewMemory returns an empty Memory store.
func NewMemory() *Memory {
	return &Memory{messages: make(map[string][]chat.Message)}
}

// Append stores msg for username, stamping the current time when CreatedAt is zero.
func (m *Memory) Append(_ context.Context, username string, msg chat.Message) error {
	if msg.CreatedAt.IsZero() {
		msg.CreatedAt = time.Now().UTC()
	}

	m.mu.Lock()
	m.messages[username] = append(m.messages[username], msg)
	m.mu.Unlock()
	return nil
}

// List returns a copy of the messages stored for username.
func (m *Memory) List(_ context.Context, username string) ([]chat.Message, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	messages := m.messages[username]
	copied := make([]chat.Message, len(messages))
	copy(copied, messages)
	return copied, nil
}

// Close is a no-op.
func (m *Memory) Close() error { return nil }
