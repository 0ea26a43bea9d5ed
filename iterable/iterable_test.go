package iterable

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"github.com/chainkv/onchain-collections/codec"
	"github.com/chainkv/onchain-collections/storage"
)

func testPrefix(t *testing.T) []byte {
	t.Helper()
	return []byte(uuid.NewString())
}

func newTestMap(t *testing.T) *Map[string, string] {
	t.Helper()
	a := storage.New(storage.NewMemHost())
	m, err := NewMap[string, string](a, testPrefix(t), codec.String{}, codec.String{})
	require.NoError(t, err)
	return m
}

func drainKeys(t *testing.T, m *Map[string, string]) []string {
	t.Helper()
	it, err := m.Keys()
	require.NoError(t, err)
	var out []string
	for {
		k, ok, err := it.Next()
		require.NoError(t, err)
		if !ok {
			break
		}
		out = append(out, k)
	}
	return out
}

// Insert three keys, remove a middle one, and confirm iteration visits
// every remaining key exactly once.
func TestIterationVisitsEveryRemainingKeyExactlyOnce(t *testing.T) {
	m := newTestMap(t)
	require.NoError(t, m.Set("a", "1"))
	require.NoError(t, m.Set("b", "2"))
	require.NoError(t, m.Set("c", "3"))

	_, ok, err := m.Remove("b")
	require.NoError(t, err)
	require.True(t, ok)

	keys := drainKeys(t, m)
	require.ElementsMatch(t, []string{"a", "c"}, keys)

	l, err := m.Len()
	require.NoError(t, err)
	require.Equal(t, uint64(2), l)
}

// An iterator captured before a mutation is invalidated by it.
func TestIteratorInvalidatedByMutation(t *testing.T) {
	m := newTestMap(t)
	require.NoError(t, m.Set("a", "1"))
	require.NoError(t, m.Set("b", "2"))

	it, err := m.IterEntries()
	require.NoError(t, err)

	_, _, ok, err := it.Next()
	require.NoError(t, err)
	require.True(t, ok)

	require.NoError(t, m.Set("c", "3"))

	_, _, _, err = it.Next()
	require.Error(t, err)
}

// Clear must remove every entry and the Key Index: unlike Lookup Map's
// Clear, nothing is left orphaned.
func TestClearRemovesEverything(t *testing.T) {
	m := newTestMap(t)
	require.NoError(t, m.Set("a", "1"))
	require.NoError(t, m.Set("b", "2"))

	require.NoError(t, m.Clear())

	l, err := m.Len()
	require.NoError(t, err)
	require.Equal(t, uint64(0), l)

	_, ok, err := m.Get("a")
	require.NoError(t, err)
	require.False(t, ok, "clear on an Iterable Map must not orphan entries")

	keys := drainKeys(t, m)
	require.Empty(t, keys)
}

func TestRemoveSwapsKeyIndexSlot(t *testing.T) {
	m := newTestMap(t)
	require.NoError(t, m.Set("a", "1"))
	require.NoError(t, m.Set("b", "2"))
	require.NoError(t, m.Set("c", "3"))

	v, ok, err := m.Remove("a")
	require.NoError(t, err)
	require.True(t, ok)
	require.Equal(t, "1", v)

	keys := drainKeys(t, m)
	require.ElementsMatch(t, []string{"b", "c"}, keys)

	_, ok, err = m.Get("a")
	require.NoError(t, err)
	require.False(t, ok)
}

func TestWithoutReverseIndexMatchesDefaultBehavior(t *testing.T) {
	a := storage.New(storage.NewMemHost())
	m, err := NewMap[string, string](a, testPrefix(t), codec.String{}, codec.String{}, WithoutReverseIndex())
	require.NoError(t, err)

	require.NoError(t, m.Set("a", "1"))
	require.NoError(t, m.Set("b", "2"))
	require.NoError(t, m.Set("c", "3"))

	_, ok, err := m.Remove("b")
	require.NoError(t, err)
	require.True(t, ok)

	keys := drainKeys(t, m)
	require.ElementsMatch(t, []string{"a", "c"}, keys)
}

func TestReverseIndexChoiceIsPinnedAfterFirstCreation(t *testing.T) {
	a := storage.New(storage.NewMemHost())
	prefix := testPrefix(t)
	m, err := NewMap[string, string](a, prefix, codec.String{}, codec.String{})
	require.NoError(t, err)
	require.NoError(t, m.Set("a", "1"))

	_, err = NewMap[string, string](a, prefix, codec.String{}, codec.String{}, WithoutReverseIndex())
	require.Error(t, err, "reopening with a different reverse-index choice must fail")
}

func TestIterableSetValuesAndRemove(t *testing.T) {
	a := storage.New(storage.NewMemHost())
	s, err := NewSet[string](a, testPrefix(t), codec.String{})
	require.NoError(t, err)

	require.NoError(t, s.Add("x"))
	require.NoError(t, s.Add("y"))

	ok, err := s.Remove("x")
	require.NoError(t, err)
	require.True(t, ok)

	it, err := s.Values()
	require.NoError(t, err)
	var members []string
	for {
		k, ok, err := it.Next()
		require.NoError(t, err)
		if !ok {
			break
		}
		members = append(members, k)
	}
	require.Equal(t, []string{"y"}, members)

	l, err := s.Len()
	require.NoError(t, err)
	require.Equal(t, uint64(1), l)
}

func TestIterableSetClear(t *testing.T) {
	a := storage.New(storage.NewMemHost())
	s, err := NewSet[string](a, testPrefix(t), codec.String{})
	require.NoError(t, err)

	require.NoError(t, s.Add("x"))
	require.NoError(t, s.Clear())

	l, err := s.Len()
	require.NoError(t, err)
	require.Equal(t, uint64(0), l)

	ok, err := s.Contains("x")
	require.NoError(t, err)
	require.False(t, ok, "clear on an Iterable Set must not orphan members")
}
