package ordered

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"github.com/chainkv/onchain-collections/codec"
	"github.com/chainkv/onchain-collections/storage"
)

func drainKeys[K, V any](t *testing.T, m *Map[K, V]) []K {
	t.Helper()
	it, err := m.Keys()
	require.NoError(t, err)
	var out []K
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

func newLexTestMap(t *testing.T) *Map[string, uint64] {
	t.Helper()
	a := storage.New(storage.NewMemHost())
	m, err := NewMap[string, uint64](a, []byte(uuid.NewString()), codec.LexString{}, codec.Uint64{})
	require.NoError(t, err)
	return m
}

func newNumericTestMap(t *testing.T) *Map[uint64, string] {
	t.Helper()
	a := storage.New(storage.NewMemHost())
	m, err := NewMap[uint64, string](a, []byte(uuid.NewString()), codec.OrderedUint64{}, codec.String{})
	require.NoError(t, err)
	return m
}

// Keys sort lexicographically over their encoded bytes, with working
// Floor/Ceiling and half-open Range queries.
func TestLexicographicOrderingWithFloorCeilingAndRange(t *testing.T) {
	m := newLexTestMap(t)
	require.NoError(t, m.Set("banana", 1))
	require.NoError(t, m.Set("apple", 2))
	require.NoError(t, m.Set("cherry", 3))

	require.Equal(t, []string{"apple", "banana", "cherry"}, drainKeys(t, m))

	floor, ok, err := m.Floor("blueberry")
	require.NoError(t, err)
	require.True(t, ok)
	require.Equal(t, "banana", floor)

	ceil, ok, err := m.Ceiling("blueberry")
	require.NoError(t, err)
	require.True(t, ok)
	require.Equal(t, "cherry", ceil)

	it, err := m.Range(Inclusive("apple"), Exclusive("cherry"))
	require.NoError(t, err)
	var got []string
	for {
		k, ok, err := it.Next()
		require.NoError(t, err)
		if !ok {
			break
		}
		got = append(got, k)
	}
	require.Equal(t, []string{"apple", "banana"}, got)
}

// Keys sort numerically when the codec itself is order-preserving.
func TestNumericOrderingWithMinMaxAndRange(t *testing.T) {
	m := newNumericTestMap(t)
	require.NoError(t, m.Set(10, "ten"))
	require.NoError(t, m.Set(2, "two"))
	require.NoError(t, m.Set(30, "thirty"))

	min, err := m.MinKey()
	require.NoError(t, err)
	require.Equal(t, uint64(2), min)

	max, err := m.MaxKey()
	require.NoError(t, err)
	require.Equal(t, uint64(30), max)

	it, err := m.Range(Inclusive(uint64(3)), Inclusive(uint64(30)))
	require.NoError(t, err)
	var got []uint64
	for {
		k, ok, err := it.Next()
		require.NoError(t, err)
		if !ok {
			break
		}
		got = append(got, k)
	}
	require.Equal(t, []uint64{10, 30}, got)
}

// Keys() stays strictly ascending after a removal from the middle.
func TestOrderedInvariantHoldsAfterRemovals(t *testing.T) {
	m := newNumericTestMap(t)
	for _, k := range []uint64{50, 10, 30, 20, 40} {
		require.NoError(t, m.Set(k, "v"))
	}
	_, _, err := m.Remove(30)
	require.NoError(t, err)

	keys := drainKeys(t, m)
	require.Equal(t, []uint64{10, 20, 40, 50}, keys)
	for i := 1; i < len(keys); i++ {
		require.Less(t, keys[i-1], keys[i])
	}
}

func TestFloorCeilingEdgeCases(t *testing.T) {
	m := newNumericTestMap(t)

	_, ok, err := m.Floor(5)
	require.NoError(t, err)
	require.False(t, ok, "floor on an empty map returns Absent")

	require.NoError(t, m.Set(10, "ten"))
	require.NoError(t, m.Set(20, "twenty"))

	_, ok, err = m.Floor(5)
	require.NoError(t, err)
	require.False(t, ok, "floor below the minimum returns Absent")

	_, ok, err = m.Ceiling(25)
	require.NoError(t, err)
	require.False(t, ok, "ceiling above the maximum returns Absent")

	_, err = m.MinKey()
	require.NoError(t, err)
}

func TestMinMaxEmptyIsCollectionEmpty(t *testing.T) {
	m := newNumericTestMap(t)
	_, err := m.MinKey()
	require.Error(t, err)
	_, err = m.MaxKey()
	require.Error(t, err)
}

func TestRangeUnboundedEqualsKeys(t *testing.T) {
	m := newNumericTestMap(t)
	for _, k := range []uint64{3, 1, 2} {
		require.NoError(t, m.Set(k, "v"))
	}
	it, err := m.Range(Unbounded[uint64](), Unbounded[uint64]())
	require.NoError(t, err)
	var got []uint64
	for {
		k, ok, err := it.Next()
		require.NoError(t, err)
		if !ok {
			break
		}
		got = append(got, k)
	}
	require.Equal(t, []uint64{1, 2, 3}, got)
}

func TestRangeOutOfOrderYieldsEmpty(t *testing.T) {
	m := newNumericTestMap(t)
	require.NoError(t, m.Set(10, "ten"))
	require.NoError(t, m.Set(20, "twenty"))

	it, err := m.Range(Inclusive(uint64(20)), Inclusive(uint64(10)))
	require.NoError(t, err)
	_, ok, err := it.Next()
	require.NoError(t, err)
	require.False(t, ok)
}

func TestClearRemovesIndexAndEntries(t *testing.T) {
	m := newNumericTestMap(t)
	require.NoError(t, m.Set(1, "a"))
	require.NoError(t, m.Set(2, "b"))

	require.NoError(t, m.Clear())

	l, err := m.Len()
	require.NoError(t, err)
	require.Equal(t, uint64(0), l)

	_, ok, err := m.Get(1)
	require.NoError(t, err)
	require.False(t, ok)
}
