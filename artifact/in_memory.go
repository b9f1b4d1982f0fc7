package artifact

import (
	"sort"
	"sync"
)

// InMemoryStore is an in-process ArtifactStore useful for tests and
// single-process servers. Data is copied on save and retrieval.
//
// Layout: chatID -> name -> versions (oldest first)
type InMemoryStore struct {
	mu        sync.RWMutex
	artifacts map[string]map[string][][]byte
}

// NewInMemoryStore returns an empty in-memory artifact store.
func NewInMemoryStore() *InMemoryStore {
	return &InMemoryStore{artifacts: make(map[string]map[string][][]byte)}
}

// Save appends a new version of the named artifact and returns its 1-based
// version number.
func (a *InMemoryStore) Save(chatID, name string, data []byte) (int, error) {
	a.mu.Lock()
	defer a.mu.Unlock()

	chat, ok := a.artifacts[chatID]
	if !ok {
		chat = make(map[string][][]byte)
		a.artifacts[chatID] = chat
	}

	chat[name] = append(chat[name], clone(data))

	return len(chat[name]), nil
}

// Get returns a copy of the latest version or ErrNotFound.
func (a *InMemoryStore) Get(chatID, name string) ([]byte, error) {
	return a.GetVersion(chatID, name, 0)
}

// GetVersion returns a copy of a specific version; version 0 means latest.
func (a *InMemoryStore) GetVersion(chatID, name string, version int) ([]byte, error) {
	a.mu.RLock()
	defer a.mu.RUnlock()

	versions := a.artifacts[chatID][name]
	if len(versions) == 0 {
		return nil, ErrNotFound
	}

	if version == 0 {
		version = len(versions)
	}
	if version < 1 || version > len(versions) {
		return nil, ErrNotFound
	}

	return clone(versions[version-1]), nil
}

// List returns the artifact names stored for the chat in lexical order.
func (a *InMemoryStore) List(chatID string) ([]string, error) {
	a.mu.RLock()
	defer a.mu.RUnlock()

	names := make([]string, 0, len(a.artifacts[chatID]))
	for name := range a.artifacts[chatID] {
		names = append(names, name)
	}
	sort.Strings(names)

	return names, nil
}

// Delete removes every version of the artifact or returns ErrNotFound.
func (a *InMemoryStore) Delete(chatID, name string) error {
	a.mu.Lock()
	defer a.mu.Unlock()

	chat, ok := a.artifacts[chatID]
	if !ok {
		return ErrNotFound
	}
	if _, ok := chat[name]; !ok {
		return ErrNotFound
	}

	delete(chat, name)

	return nil
}

func clone(data []byte) []byte {
	cp := make([]byte, len(data))
	copy(cp, data)
	return cp
}
