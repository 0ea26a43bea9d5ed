package lookup

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"github.com/chainkv/onchain-collections/codec"
	"github.com/chainkv/onchain-collections/storage"
)

func newTestMap(t *testing.T) *Map[string, string] {
	t.Helper()
	a := storage.New(storage.NewMemHost())
	return NewMap[string, string](a, []byte(uuid.NewString()), codec.String{}, codec.String{})
}

func TestSetThenRemoveUpdatesLengthAndValues(t *testing.T) {
	m := newTestMap(t)
	require.NoError(t, m.Set("k1", "v1"))
	require.NoError(t, m.Set("k2", "v2"))
	require.NoError(t, m.Set("k1", "v1'"))

	removed, ok, err := m.Remove("k2")
	require.NoError(t, err)
	require.True(t, ok)
	require.Equal(t, "v2", removed)

	v, ok, err := m.Get("k1")
	require.NoError(t, err)
	require.True(t, ok)
	require.Equal(t, "v1'", v)

	l, err := m.Len()
	require.NoError(t, err)
	require.Equal(t, uint64(1), l)
}

// Removing an already-absent key is a no-op, not an error.
func TestIdempotentRemove(t *testing.T) {
	m := newTestMap(t)
	require.NoError(t, m.Set("k", "v"))

	l0, _ := m.Len()
	v, ok, err := m.Remove("k")
	require.NoError(t, err)
	require.True(t, ok)
	require.Equal(t, "v", v)

	l1, _ := m.Len()
	require.Equal(t, l0-1, l1)

	_, ok, err = m.Remove("k")
	require.NoError(t, err)
	require.False(t, ok)

	l2, _ := m.Len()
	require.Equal(t, l1, l2)
}

func TestClearOrphansPayloadStorage(t *testing.T) {
	a := storage.New(storage.NewMemHost())
	s := NewSet[string](a, []byte(uuid.NewString()), codec.String{})

	require.NoError(t, s.Add("x"))
	require.NoError(t, s.Clear())

	l, err := s.Len()
	require.NoError(t, err)
	require.Equal(t, uint64(0), l)

	ok, err := s.Contains("x")
	require.NoError(t, err)
	require.True(t, ok, "clear on Lookup Set must orphan existing payload entries")
}

func TestDrainKnownKeysRemovesOnlyGivenKeysWithoutIteration(t *testing.T) {
	m := newTestMap(t)
	require.NoError(t, m.Set("a", "1"))
	require.NoError(t, m.Set("b", "2"))
	require.NoError(t, m.Set("c", "3"))

	removed, err := m.DrainKnownKeys([]string{"a", "c", "missing"})
	require.NoError(t, err)
	require.Equal(t, uint64(2), removed)

	l, err := m.Len()
	require.NoError(t, err)
	require.Equal(t, uint64(1), l)

	_, ok, err := m.Get("b")
	require.NoError(t, err)
	require.True(t, ok)
}

func TestMustGetRaisesKeyAbsent(t *testing.T) {
	m := newTestMap(t)
	_, err := m.MustGet("missing")
	require.Error(t, err)
}
