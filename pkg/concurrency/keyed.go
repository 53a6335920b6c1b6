package concurrency

import "sync"

// KeyedMutex serializes writers per key. Every state-mutating ledger
// operation locks the target user before it starts, so only one operation
// is ever in flight against a user's positions.
type KeyedMutex struct {
	locks sync.Map
}

// NewKeyedMutex new keyed mutex
func NewKeyedMutex() *KeyedMutex {
	return &KeyedMutex{}
}

// Lock locks the mutex for key, creating it on first use.
func (m *KeyedMutex) Lock(key string) {
	mu, _ := m.locks.LoadOrStore(key, &sync.Mutex{})
	mu.(*sync.Mutex).Lock()
}

// Unlock unlocks the mutex for key.
func (m *KeyedMutex) Unlock(key string) {
	mu, ok := m.locks.Load(key)
	if !ok {
		return
	}
	mu.(*sync.Mutex).Unlock()
}
