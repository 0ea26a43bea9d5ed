// Package ordered implements the Ordered Map: all Iterable Map operations
// plus min/max, floor/ceiling, and half-open range scans, kept in strictly
// ascending order by an ordering predicate. The Key Index is a Sequence
// maintained in sorted order by binary search plus a shift-insert, the
// simpler of the two maintenance strategies, trading O(n) writes per
// insert/remove for a flat, uniform slot layout.
package ordered

import (
	"bytes"

	"github.com/chainkv/onchain-collections/codec"
	"github.com/chainkv/onchain-collections/errkind"
	"github.com/chainkv/onchain-collections/meta"
	"github.com/chainkv/onchain-collections/sequence"
	"github.com/chainkv/onchain-collections/storage"
)

// Option configures a Map at construction time.
type Option[K any] func(*options[K])

type options[K any] struct {
	cmp func(a, b K) int
}

// WithComparator overrides the default lexicographic-over-encoded-bytes
// ordering predicate. Ties must never occur: Set treats equal keys (per
// cmp) as the same map entry.
func WithComparator[K any](cmp func(a, b K) int) Option[K] {
	return func(o *options[K]) { o.cmp = cmp }
}

// Map is a key-sorted map.
type Map[K, V any] struct {
	a        *storage.Adapter
	prefix   []byte
	keyCodec codec.Codec[K]
	valCodec codec.Codec[V]
	cmp      func(a, b K) int

	keyIndex *sequence.Sequence[K]
}

// NewMap returns a handle to the Ordered Map stored at prefix. Absent an
// explicit WithComparator, keys are ordered lexicographically over their
// encoded bytes; pass a Codec whose encoding is itself order-preserving
// (codec.LexString, codec.OrderedUint64/OrderedInt64) to get lexicographic
// or numeric ordering respectively.
func NewMap[K, V any](a *storage.Adapter, prefix []byte, kc codec.Codec[K], vc codec.Codec[V], opts ...Option[K]) (*Map[K, V], error) {
	o := options[K]{}
	for _, opt := range opts {
		opt(&o)
	}
	if _, err := meta.Load(a, prefix, meta.KindOrderedMap); err != nil {
		return nil, err
	}
	cmp := o.cmp
	if cmp == nil {
		cmp = func(x, y K) int {
			xb, _ := kc.Encode(x)
			yb, _ := kc.Encode(y)
			return bytes.Compare(xb, yb)
		}
	}
	return &Map[K, V]{
		a:        a,
		prefix:   append([]byte(nil), prefix...),
		keyCodec: kc,
		valCodec: vc,
		cmp:      cmp,
		keyIndex: sequence.New[K](a, storage.IndexPrefix(prefix), kc),
	}, nil
}

// Prefix returns the storage prefix this handle is bound to.
func (m *Map[K, V]) Prefix() []byte { return m.prefix }

func (m *Map[K, V]) header() (*meta.Header, error) {
	return meta.Load(m.a, m.prefix, meta.KindOrderedMap)
}

func (m *Map[K, V]) valueKey(k K) ([]byte, error) {
	enc, err := m.keyCodec.Encode(k)
	if err != nil {
		return nil, errkind.Wrap(errkind.EncodeFailure, err)
	}
	return storage.EntryKey(m.prefix, enc), nil
}

// Len returns the number of entries.
func (m *Map[K, V]) Len() (uint64, error) {
	h, err := m.header()
	if err != nil {
		return 0, err
	}
	return h.Length, nil
}

// Contains reports whether k has a value.
func (m *Map[K, V]) Contains(k K) (bool, error) {
	key, err := m.valueKey(k)
	if err != nil {
		return false, err
	}
	return m.a.Has(key)
}

// Get returns the value for k, or ok=false if absent.
func (m *Map[K, V]) Get(k K) (V, bool, error) {
	var zero V
	key, err := m.valueKey(k)
	if err != nil {
		return zero, false, err
	}
	raw, ok, err := m.a.Read(key)
	if err != nil {
		return zero, false, err
	}
	if !ok {
		return zero, false, nil
	}
	v, err := m.valCodec.Decode(raw)
	if err != nil {
		return zero, false, err
	}
	return v, true, nil
}

// search returns the position of k in the Key Index if present (found=true),
// or the insertion point that keeps the index sorted otherwise.
func (m *Map[K, V]) search(k K) (pos uint64, found bool, err error) {
	length, err := m.keyIndex.Len()
	if err != nil {
		return 0, false, err
	}
	lo, hi := uint64(0), length
	for lo < hi {
		mid := lo + (hi-lo)/2
		cur, err := m.keyIndex.Get(mid)
		if err != nil {
			return 0, false, err
		}
		c := m.cmp(cur, k)
		switch {
		case c == 0:
			return mid, true, nil
		case c < 0:
			lo = mid + 1
		default:
			hi = mid
		}
	}
	return lo, false, nil
}

// insertAt shifts the Key Index right from pos and writes k at pos. O(n).
func (m *Map[K, V]) insertAt(pos uint64, k K) error {
	length, err := m.keyIndex.Len()
	if err != nil {
		return err
	}
	if _, err := m.keyIndex.Append(k); err != nil {
		return err
	}
	for i := length; i > pos; i-- {
		v, err := m.keyIndex.Get(i - 1)
		if err != nil {
			return err
		}
		if err := m.keyIndex.Set(i, v); err != nil {
			return err
		}
	}
	return m.keyIndex.Set(pos, k)
}

// removeAt shifts the Key Index left over pos and shrinks it by one. O(n).
func (m *Map[K, V]) removeAt(pos uint64) error {
	length, err := m.keyIndex.Len()
	if err != nil {
		return err
	}
	for i := pos; i < length-1; i++ {
		v, err := m.keyIndex.Get(i + 1)
		if err != nil {
			return err
		}
		if err := m.keyIndex.Set(i, v); err != nil {
			return err
		}
	}
	_, err = m.keyIndex.Pop()
	return err
}

// Set writes v at k, inserting k into the sorted Key Index if new.
func (m *Map[K, V]) Set(k K, v V) error {
	key, err := m.valueKey(k)
	if err != nil {
		return err
	}
	enc, err := m.valCodec.Encode(v)
	if err != nil {
		return errkind.Wrap(errkind.EncodeFailure, err)
	}
	pos, found, err := m.search(k)
	if err != nil {
		return err
	}
	if !found {
		if err := m.insertAt(pos, k); err != nil {
			return err
		}
	}
	if _, err := m.a.Write(key, enc); err != nil {
		return err
	}
	h, err := m.header()
	if err != nil {
		return err
	}
	if !found {
		h.Length++
	}
	h.Bump()
	return h.Save(m.a, m.prefix)
}

// Remove deletes k if present, shifting the Key Index left over its slot.
func (m *Map[K, V]) Remove(k K) (V, bool, error) {
	var zero V
	key, err := m.valueKey(k)
	if err != nil {
		return zero, false, err
	}
	raw, ok, err := m.a.Read(key)
	if err != nil {
		return zero, false, err
	}
	if !ok {
		return zero, false, nil
	}
	v, err := m.valCodec.Decode(raw)
	if err != nil {
		return zero, false, err
	}
	pos, found, err := m.search(k)
	if err != nil {
		return zero, false, err
	}
	if !found {
		return zero, false, errkind.Plain(errkind.Invalidated)
	}
	if err := m.removeAt(pos); err != nil {
		return zero, false, err
	}
	if _, err := m.a.Remove(key); err != nil {
		return zero, false, err
	}
	h, err := m.header()
	if err != nil {
		return zero, false, err
	}
	h.Length--
	h.Bump()
	if err := h.Save(m.a, m.prefix); err != nil {
		return zero, false, err
	}
	return v, true, nil
}

// Clear removes every entry and the Key Index itself.
func (m *Map[K, V]) Clear() error {
	length, err := m.keyIndex.Len()
	if err != nil {
		return err
	}
	for i := uint64(0); i < length; i++ {
		k, err := m.keyIndex.Get(i)
		if err != nil {
			return err
		}
		key, err := m.valueKey(k)
		if err != nil {
			return err
		}
		if _, err := m.a.Remove(key); err != nil {
			return err
		}
	}
	if err := m.keyIndex.Clear(); err != nil {
		return err
	}
	h, err := m.header()
	if err != nil {
		return err
	}
	h.Length = 0
	h.Bump()
	return h.Save(m.a, m.prefix)
}

// MinKey returns the smallest stored key, or Collection::Empty if empty.
func (m *Map[K, V]) MinKey() (K, error) {
	var zero K
	length, err := m.keyIndex.Len()
	if err != nil {
		return zero, err
	}
	if length == 0 {
		return zero, errkind.Plain(errkind.Empty)
	}
	return m.keyIndex.Get(0)
}

// MaxKey returns the largest stored key, or Collection::Empty if empty.
func (m *Map[K, V]) MaxKey() (K, error) {
	var zero K
	length, err := m.keyIndex.Len()
	if err != nil {
		return zero, err
	}
	if length == 0 {
		return zero, errkind.Plain(errkind.Empty)
	}
	return m.keyIndex.Get(length - 1)
}

// Floor returns the greatest stored key <= k, or ok=false if none.
func (m *Map[K, V]) Floor(k K) (K, bool, error) {
	var zero K
	pos, found, err := m.search(k)
	if err != nil {
		return zero, false, err
	}
	if found {
		return k, true, nil
	}
	if pos == 0 {
		return zero, false, nil
	}
	v, err := m.keyIndex.Get(pos - 1)
	if err != nil {
		return zero, false, err
	}
	return v, true, nil
}

// Ceiling returns the least stored key >= k, or ok=false if none.
func (m *Map[K, V]) Ceiling(k K) (K, bool, error) {
	var zero K
	pos, found, err := m.search(k)
	if err != nil {
		return zero, false, err
	}
	if found {
		return k, true, nil
	}
	length, err := m.keyIndex.Len()
	if err != nil {
		return zero, false, err
	}
	if pos >= length {
		return zero, false, nil
	}
	v, err := m.keyIndex.Get(pos)
	if err != nil {
		return zero, false, err
	}
	return v, true, nil
}
