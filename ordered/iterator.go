package ordered

import "github.com/chainkv/onchain-collections/errkind"

// RangeIterator walks the Key Index in ascending order over [start, end), a
// slot range resolved from a Bound pair at creation time. Out-of-order
// bounds (from > to) resolve to an empty range rather than an error.
type RangeIterator[K, V any] struct {
	m          *Map[K, V]
	generation uint64
	next       uint64
	end        uint64
}

// Range returns an iterator over keys in [from, to) per their Bound kind.
func (m *Map[K, V]) Range(from, to Bound[K]) (*RangeIterator[K, V], error) {
	h, err := m.header()
	if err != nil {
		return nil, err
	}
	length, err := m.keyIndex.Len()
	if err != nil {
		return nil, err
	}

	start := uint64(0)
	switch from.kind {
	case boundInclusive:
		pos, _, err := m.search(from.key)
		if err != nil {
			return nil, err
		}
		start = pos
	case boundExclusive:
		pos, found, err := m.search(from.key)
		if err != nil {
			return nil, err
		}
		start = pos
		if found {
			start = pos + 1
		}
	case boundUnbounded:
		start = 0
	}

	end := length
	switch to.kind {
	case boundInclusive:
		pos, found, err := m.search(to.key)
		if err != nil {
			return nil, err
		}
		if found {
			end = pos + 1
		} else {
			end = pos
		}
	case boundExclusive:
		pos, _, err := m.search(to.key)
		if err != nil {
			return nil, err
		}
		end = pos
	case boundUnbounded:
		end = length
	}

	if end < start {
		end = start
	}

	return &RangeIterator[K, V]{m: m, generation: h.Generation, next: start, end: end}, nil
}

// Keys returns an iterator over every key in ascending order.
func (m *Map[K, V]) Keys() (*RangeIterator[K, V], error) {
	return m.Range(Unbounded[K](), Unbounded[K]())
}

// Next returns the next key in range, or ok=false once exhausted.
func (it *RangeIterator[K, V]) Next() (K, bool, error) {
	var zero K
	if it.next >= it.end {
		return zero, false, nil
	}
	h, err := it.m.header()
	if err != nil {
		return zero, false, err
	}
	if h.Generation != it.generation {
		return zero, false, errkind.Plain(errkind.Invalidated)
	}
	k, err := it.m.keyIndex.Get(it.next)
	if err != nil {
		return zero, false, err
	}
	it.next++
	return k, true, nil
}

// EntryIterator walks (key, value) pairs in ascending key order.
type EntryIterator[K, V any] struct {
	inner *RangeIterator[K, V]
}

// IterEntries returns an iterator over every (key, value) pair.
func (m *Map[K, V]) IterEntries() (*EntryIterator[K, V], error) {
	inner, err := m.Keys()
	if err != nil {
		return nil, err
	}
	return &EntryIterator[K, V]{inner: inner}, nil
}

// Next returns the next (key, value) pair, or ok=false once exhausted.
func (it *EntryIterator[K, V]) Next() (K, V, bool, error) {
	var zeroK K
	var zeroV V
	k, ok, err := it.inner.Next()
	if err != nil || !ok {
		return zeroK, zeroV, ok, err
	}
	v, ok2, err := it.inner.m.Get(k)
	if err != nil {
		return zeroK, zeroV, false, err
	}
	if !ok2 {
		return zeroK, zeroV, false, errkind.Plain(errkind.Invalidated)
	}
	return k, v, true, nil
}

// ValueIterator walks values in ascending key order.
type ValueIterator[K, V any] struct {
	inner *EntryIterator[K, V]
}

// Values returns an iterator over every value, in ascending key order.
func (m *Map[K, V]) Values() (*ValueIterator[K, V], error) {
	inner, err := m.IterEntries()
	if err != nil {
		return nil, err
	}
	return &ValueIterator[K, V]{inner: inner}, nil
}

// Next returns the next value, or ok=false once exhausted.
func (it *ValueIterator[K, V]) Next() (V, bool, error) {
	_, v, ok, err := it.inner.Next()
	return v, ok, err
}
