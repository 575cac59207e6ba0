package checkout

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestFlowStorePutGetDelete(t *testing.T) {
	t.Parallel()

	s := NewFlowStore(0)
	f := New(&fakeBackend{preview: stockedPreview()}, staticToken("tok"), nil)

	_, ok := s.Get("sess-1")
	require.False(t, ok)

	s.Put("sess-1", f)
	got, ok := s.Get("sess-1")
	require.True(t, ok)
	require.Same(t, f, got)
	require.Equal(t, 1, s.Len())

	s.Delete("sess-1")
	_, ok = s.Get("sess-1")
	require.False(t, ok)
	require.Zero(t, s.Len())
}

func TestFlowStoreExpiry(t *testing.T) {
	t.Parallel()

	now := time.Now()
	s := NewFlowStore(10 * time.Minute)
	s.now = func() time.Time { return now }

	s.Put("sess-1", New(&fakeBackend{}, staticToken("tok"), nil))

	now = now.Add(9 * time.Minute)
	_, ok := s.Get("sess-1")
	require.True(t, ok)

	// the read refreshed the deadline
	now = now.Add(9 * time.Minute)
	_, ok = s.Get("sess-1")
	require.True(t, ok)

	now = now.Add(11 * time.Minute)
	_, ok = s.Get("sess-1")
	require.False(t, ok)
	require.Zero(t, s.Len())
}
