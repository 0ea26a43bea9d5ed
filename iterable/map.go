// Package iterable implements Iterable Map and Iterable Set: Lookup Map/Set
// semantics plus a companion Key Index Sequence that records
// currently-present keys, enabling enumeration and a real (non-orphaning)
// clear. Removal swaps with the last Key Index slot, so iteration order is
// not preserved across removals.
package iterable

import (
	"bytes"
	"fmt"

	"github.com/chainkv/onchain-collections/codec"
	"github.com/chainkv/onchain-collections/errkind"
	"github.com/chainkv/onchain-collections/lookup"
	"github.com/chainkv/onchain-collections/meta"
	"github.com/chainkv/onchain-collections/sequence"
	"github.com/chainkv/onchain-collections/storage"
)

// Option configures a Map or Set at construction time.
type Option func(*options)

type options struct {
	reverseIndex bool
}

// WithoutReverseIndex selects the O(n) linear-scan removal variant instead
// of the default reverse index: less write traffic per Set, slower Remove.
// The choice is stamped into the metadata header and fixed for the life of
// a stored instance.
func WithoutReverseIndex() Option {
	return func(o *options) { o.reverseIndex = false }
}

// Map is an Iterable Map: Lookup Map semantics plus enumeration.
type Map[K, V any] struct {
	a        *storage.Adapter
	prefix   []byte
	keyCodec codec.Codec[K]
	valCodec codec.Codec[V]
	kind     meta.Kind

	keyIndex   *sequence.Sequence[K]
	reverse    *lookup.Map[K, uint64]
	hasReverse bool
}

// kindSet is the metadata Kind stamped by iterable.Set, which is built on
// the same Map machinery with the value type fixed to marker.
const kindSet = meta.KindIterableSet

// NewMap returns a handle to the Iterable Map stored at prefix. If a
// collection already exists at prefix, its stored reverse-index choice
// must match opts, or construction fails: once the strategy is chosen for
// a prefix, it must be preserved for the life of that stored instance.
func NewMap[K, V any](a *storage.Adapter, prefix []byte, kc codec.Codec[K], vc codec.Codec[V], opts ...Option) (*Map[K, V], error) {
	return newMapWithKind[K, V](a, prefix, kc, vc, meta.KindIterableMap, opts...)
}

func newMapWithKind[K, V any](a *storage.Adapter, prefix []byte, kc codec.Codec[K], vc codec.Codec[V], kind meta.Kind, opts ...Option) (*Map[K, V], error) {
	o := options{reverseIndex: true}
	for _, opt := range opts {
		opt(&o)
	}

	h, existed, err := meta.LoadExists(a, prefix, kind)
	if err != nil {
		return nil, err
	}
	if existed && h.ReverseIndex != o.reverseIndex {
		return nil, errkind.WrapKey(errkind.KindMismatch, prefix,
			fmt.Errorf("iterable collection was created with reverseIndex=%v, cannot reopen with %v", h.ReverseIndex, o.reverseIndex))
	}

	m := &Map[K, V]{
		a:          a,
		prefix:     append([]byte(nil), prefix...),
		keyCodec:   kc,
		valCodec:   vc,
		kind:       kind,
		keyIndex:   sequence.New[K](a, storage.IndexPrefix(prefix), kc),
		hasReverse: o.reverseIndex,
	}
	if o.reverseIndex {
		m.reverse = lookup.NewMap[K, uint64](a, storage.ReverseIndexPrefix(prefix), kc, codec.Uint64{})
	}
	return m, nil
}

// Prefix returns the storage prefix this handle is bound to.
func (m *Map[K, V]) Prefix() []byte { return m.prefix }

func (m *Map[K, V]) header() (*meta.Header, error) {
	h, err := meta.Load(m.a, m.prefix, m.kind)
	if err != nil {
		return nil, err
	}
	h.ReverseIndex = m.hasReverse
	return h, nil
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

// Set writes v at k. If k is new, it is appended to the Key Index first;
// updating an existing key only overwrites the value.
func (m *Map[K, V]) Set(k K, v V) error {
	key, err := m.valueKey(k)
	if err != nil {
		return err
	}
	enc, err := m.valCodec.Encode(v)
	if err != nil {
		return errkind.Wrap(errkind.EncodeFailure, err)
	}
	present, err := m.a.Has(key)
	if err != nil {
		return err
	}
	if !present {
		idx, err := m.keyIndex.Append(k)
		if err != nil {
			return err
		}
		if m.hasReverse {
			if err := m.reverse.Set(k, idx); err != nil {
				return err
			}
		}
	}
	if _, err := m.a.Write(key, enc); err != nil {
		return err
	}
	h, err := m.header()
	if err != nil {
		return err
	}
	if !present {
		h.Length++
	}
	h.Bump()
	return h.Save(m.a, m.prefix)
}

// findPosition locates k's slot in the Key Index: O(1) via the reverse
// index if enabled, O(n) linear scan otherwise.
func (m *Map[K, V]) findPosition(k K) (uint64, bool, error) {
	if m.hasReverse {
		pos, ok, err := m.reverse.Get(k)
		return pos, ok, err
	}
	length, err := m.keyIndex.Len()
	if err != nil {
		return 0, false, err
	}
	target, err := m.keyCodec.Encode(k)
	if err != nil {
		return 0, false, errkind.Wrap(errkind.EncodeFailure, err)
	}
	for i := uint64(0); i < length; i++ {
		cur, err := m.keyIndex.Get(i)
		if err != nil {
			return 0, false, err
		}
		curEnc, err := m.keyCodec.Encode(cur)
		if err != nil {
			return 0, false, errkind.Wrap(errkind.EncodeFailure, err)
		}
		if bytes.Equal(target, curEnc) {
			return i, true, nil
		}
	}
	return 0, false, nil
}

// Remove deletes k if present, swap-removing its Key Index slot.
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

	pos, found, err := m.findPosition(k)
	if err != nil {
		return zero, false, err
	}
	if !found {
		return zero, false, errkind.WithKey(errkind.Invalidated, key)
	}

	if _, err := m.keyIndex.SwapRemove(pos); err != nil {
		return zero, false, err
	}

	if m.hasReverse {
		if _, _, err := m.reverse.Remove(k); err != nil {
			return zero, false, err
		}
		newLen, err := m.keyIndex.Len()
		if err != nil {
			return zero, false, err
		}
		if pos < newLen {
			movedKey, err := m.keyIndex.Get(pos)
			if err != nil {
				return zero, false, err
			}
			if err := m.reverse.Set(movedKey, pos); err != nil {
				return zero, false, err
			}
		}
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

// Clear removes every entry and the Key Index itself: after Clear, both the
// payload keys and the index keys are absent from storage.
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
		if m.hasReverse {
			if _, _, err := m.reverse.Remove(k); err != nil {
				return err
			}
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
