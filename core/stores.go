package core

// SessionStore persists the committed transcript of each chat between
// exchanges. Implementations must be safe for concurrent use and must copy
// turns on the way in and out.
type SessionStore interface {
	// Get returns the committed turns of a chat, or an empty slice for an
	// unknown chat.
	Get(chatID string) ([]Turn, error)
	// Save replaces the committed turns of a chat.
	Save(chatID string, turns []Turn) error
	// Delete forgets a chat.
	Delete(chatID string) error
}

// ArtifactStore keeps versioned artifacts (generated contracts) per chat.
// Save returns the 1-based version it stored; Get returns the latest.
type ArtifactStore interface {
	Save(chatID, name string, data []byte) (int, error)
	Get(chatID, name string) ([]byte, error)
	GetVersion(chatID, name string, version int) ([]byte, error)
	List(chatID string) ([]string, error)
	Delete(chatID, name string) error
}
