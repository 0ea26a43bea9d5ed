package iterable

import "github.com/chainkv/onchain-collections/errkind"

// EntryIterator walks a Map's entries in Key Index order, captured at
// creation time. Any mutation to the Map after creation (including one
// observed through a different handle on the same prefix) invalidates it.
type EntryIterator[K, V any] struct {
	m          *Map[K, V]
	length     uint64
	generation uint64
	next       uint64
}

// IterEntries returns an iterator over (key, value) pairs.
func (m *Map[K, V]) IterEntries() (*EntryIterator[K, V], error) {
	h, err := m.header()
	if err != nil {
		return nil, err
	}
	return &EntryIterator[K, V]{m: m, length: h.Length, generation: h.Generation}, nil
}

// Next returns the next (key, value) pair, or ok=false once exhausted.
func (it *EntryIterator[K, V]) Next() (K, V, bool, error) {
	var zeroK K
	var zeroV V
	if it.next >= it.length {
		return zeroK, zeroV, false, nil
	}
	h, err := it.m.header()
	if err != nil {
		return zeroK, zeroV, false, err
	}
	if h.Generation != it.generation {
		return zeroK, zeroV, false, errkind.Plain(errkind.Invalidated)
	}
	k, err := it.m.keyIndex.Get(it.next)
	if err != nil {
		return zeroK, zeroV, false, err
	}
	v, ok, err := it.m.Get(k)
	if err != nil {
		return zeroK, zeroV, false, err
	}
	if !ok {
		return zeroK, zeroV, false, errkind.Plain(errkind.Invalidated)
	}
	it.next++
	return k, v, true, nil
}

// KeyIterator walks a Map's keys in Key Index order.
type KeyIterator[K, V any] struct {
	inner *EntryIterator[K, V]
}

// Keys returns an iterator over keys alone.
func (m *Map[K, V]) Keys() (*KeyIterator[K, V], error) {
	inner, err := m.IterEntries()
	if err != nil {
		return nil, err
	}
	return &KeyIterator[K, V]{inner: inner}, nil
}

// Next returns the next key, or ok=false once exhausted.
func (it *KeyIterator[K, V]) Next() (K, bool, error) {
	k, _, ok, err := it.inner.Next()
	return k, ok, err
}

// ValueIterator walks a Map's values in Key Index order.
type ValueIterator[K, V any] struct {
	inner *EntryIterator[K, V]
}

// Values returns an iterator over values alone.
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
