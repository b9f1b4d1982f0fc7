package artifact

import (
	"fmt"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hupe1980/contractsmith/core"
)

// Interface compliance (compile-time assertion)
var _ core.ArtifactStore = (*InMemoryStore)(nil)

func TestInMemoryStore_SaveGetIsolation(t *testing.T) {
	s := NewInMemoryStore()
	data := []byte("contract A {}")

	v, err := s.Save("c1", "contract.sol", data)
	require.NoError(t, err)
	assert.Equal(t, 1, v)

	data[0] = 'X'
	out, err := s.Get("c1", "contract.sol")
	require.NoError(t, err)
	assert.Equal(t, "contract A {}", string(out))

	out[0] = 'Y'
	again, _ := s.Get("c1", "contract.sol")
	assert.Equal(t, "contract A {}", string(again))
}

func TestInMemoryStore_Versions(t *testing.T) {
	s := NewInMemoryStore()
	for i := 1; i <= 3; i++ {
		v, err := s.Save("c1", "contract.sol", []byte(fmt.Sprintf("v%d", i)))
		require.NoError(t, err)
		assert.Equal(t, i, v)
	}

	tests := []struct {
		version int
		want    string
		wantErr error
	}{
		{version: 0, want: "v3"},
		{version: 1, want: "v1"},
		{version: 3, want: "v3"},
		{version: 4, wantErr: ErrNotFound},
		{version: -1, wantErr: ErrNotFound},
	}

	for _, tt := range tests {
		t.Run(fmt.Sprint(tt.version), func(t *testing.T) {
			got, err := s.GetVersion("c1", "contract.sol", tt.version)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, string(got))
		})
	}
}

func TestInMemoryStore_ListAndDelete(t *testing.T) {
	s := NewInMemoryStore()
	_, _ = s.Save("c1", "b.sol", []byte("1"))
	_, _ = s.Save("c1", "a.sol", []byte("2"))

	names, err := s.List("c1")
	require.NoError(t, err)
	assert.Equal(t, []string{"a.sol", "b.sol"}, names)

	require.NoError(t, s.Delete("c1", "a.sol"))
	assert.ErrorIs(t, s.Delete("c1", "a.sol"), ErrNotFound)
	assert.ErrorIs(t, s.Delete("other", "a.sol"), ErrNotFound)

	_, err = s.Get("c1", "a.sol")
	assert.ErrorIs(t, err, ErrNotFound)

	empty, err := s.List("unknown")
	require.NoError(t, err)
	assert.Empty(t, empty)
}

func TestInMemoryStore_ConcurrentSaves(t *testing.T) {
	s := NewInMemoryStore()

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, _ = s.Save("c1", "contract.sol", []byte("x"))
		}()
	}
	wg.Wait()

	_, err := s.GetVersion("c1", "contract.sol", 50)
	assert.NoError(t, err)
}
