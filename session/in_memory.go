package session

import (
	"sort"
	"sync"

	"github.com/hupe1980/contractsmith/core"
)

// InMemoryStore is a volatile SessionStore keeping transcripts in a process
// local map. It is safe for concurrent access and best suited for tests or
// ephemeral servers. Turns are copied on save and on retrieval.
type InMemoryStore struct {
	mu    sync.RWMutex
	chats map[string][]core.Turn
}

// NewInMemoryStore constructs an empty in-memory session store.
func NewInMemoryStore() *InMemoryStore {
	return &InMemoryStore{chats: make(map[string][]core.Turn)}
}

// Get returns a copy of the chat's committed turns; unknown chats yield an
// empty transcript.
func (s *InMemoryStore) Get(chatID string) ([]core.Turn, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return cloneTurns(s.chats[chatID]), nil
}

// Save replaces the chat's committed turns.
func (s *InMemoryStore) Save(chatID string, turns []core.Turn) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.chats[chatID] = cloneTurns(turns)

	return nil
}

// Delete forgets a chat. Deleting an unknown chat is a no-op.
func (s *InMemoryStore) Delete(chatID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.chats, chatID)

	return nil
}

// List returns the known chat ids in lexical order.
func (s *InMemoryStore) List() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()

	ids := make([]string, 0, len(s.chats))
	for id := range s.chats {
		ids = append(ids, id)
	}
	sort.Strings(ids)

	return ids
}

func cloneTurns(in []core.Turn) []core.Turn {
	out := make([]core.Turn, len(in))
	for i, t := range in {
		t.Parts = append([]core.Part(nil), t.Parts...)
		out[i] = t
	}
	return out
}
