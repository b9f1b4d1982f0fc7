package session

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hupe1980/contractsmith/core"
)

// Interface compliance (compile-time assertion)
var _ core.SessionStore = (*InMemoryStore)(nil)

func TestInMemoryStore_UnknownChatIsEmpty(t *testing.T) {
	s := NewInMemoryStore()

	turns, err := s.Get("missing")
	require.NoError(t, err)
	assert.Empty(t, turns)
	assert.NotNil(t, turns)
}

func TestInMemoryStore_SaveGetIsolation(t *testing.T) {
	s := NewInMemoryStore()
	turns := []core.Turn{core.NewTextTurn(core.RoleUser, "hello")}

	require.NoError(t, s.Save("c1", turns))

	turns[0].Parts[0] = core.TextPart{Text: "mutated"}

	got, err := s.Get("c1")
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "hello", got[0].Text())

	got[0].Parts[0] = core.TextPart{Text: "again"}
	again, _ := s.Get("c1")
	assert.Equal(t, "hello", again[0].Text())
}

func TestInMemoryStore_ListAndDelete(t *testing.T) {
	s := NewInMemoryStore()
	require.NoError(t, s.Save("b", nil))
	require.NoError(t, s.Save("a", nil))

	assert.Equal(t, []string{"a", "b"}, s.List())

	require.NoError(t, s.Delete("a"))
	require.NoError(t, s.Delete("unknown"))
	assert.Equal(t, []string{"b"}, s.List())
}
