// Package lookup implements the non-iterable Lookup Map and Lookup Set:
// plain key-value/key-only stores with no iter, keys, or values method — a
// clear that is cheap precisely because it never has to enumerate what it
// is clearing.
package lookup

import (
	"github.com/chainkv/onchain-collections/codec"
	"github.com/chainkv/onchain-collections/errkind"
	"github.com/chainkv/onchain-collections/meta"
	"github.com/chainkv/onchain-collections/storage"
)

// Map is a non-iterable key-value store.
type Map[K, V any] struct {
	a        *storage.Adapter
	prefix   []byte
	keyCodec codec.Codec[K]
	valCodec codec.Codec[V]
	kind     meta.Kind
}

// NewMap returns a handle to the Lookup Map stored at prefix.
func NewMap[K, V any](a *storage.Adapter, prefix []byte, kc codec.Codec[K], vc codec.Codec[V]) *Map[K, V] {
	return newMap(a, prefix, kc, vc, meta.KindLookupMap)
}

func newMap[K, V any](a *storage.Adapter, prefix []byte, kc codec.Codec[K], vc codec.Codec[V], kind meta.Kind) *Map[K, V] {
	return &Map[K, V]{a: a, prefix: append([]byte(nil), prefix...), keyCodec: kc, valCodec: vc, kind: kind}
}

// Prefix returns the storage prefix this handle is bound to.
func (m *Map[K, V]) Prefix() []byte { return m.prefix }

func (m *Map[K, V]) header() (*meta.Header, error) {
	return meta.Load(m.a, m.prefix, m.kind)
}

func (m *Map[K, V]) entryKey(k K) ([]byte, error) {
	enc, err := m.keyCodec.Encode(k)
	if err != nil {
		return nil, errkind.Wrap(errkind.EncodeFailure, err)
	}
	return storage.EntryKey(m.prefix, enc), nil
}

// Len returns the tracked entry count: Set adds one only when the key had
// no stored value, and Remove subtracts one only when it had.
func (m *Map[K, V]) Len() (uint64, error) {
	h, err := m.header()
	if err != nil {
		return 0, err
	}
	return h.Length, nil
}

// Contains reports whether k currently has a value, without decoding it.
func (m *Map[K, V]) Contains(k K) (bool, error) {
	key, err := m.entryKey(k)
	if err != nil {
		return false, err
	}
	return m.a.Has(key)
}

// Get returns the value for k, or ok=false if absent (no error).
func (m *Map[K, V]) Get(k K) (V, bool, error) {
	var zero V
	key, err := m.entryKey(k)
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

// MustGet is the explicit `[]`-style lookup, distinct from Get: it raises
// a KeyAbsent error instead of returning an absent optional.
func (m *Map[K, V]) MustGet(k K) (V, error) {
	v, ok, err := m.Get(k)
	if err != nil {
		return v, err
	}
	if !ok {
		enc, _ := m.keyCodec.Encode(k)
		return v, errkind.WithKey(errkind.KeyAbsent, enc)
	}
	return v, nil
}

// Set writes v at k, creating the entry if absent or overwriting it if
// present. Length only increments the first time a key is written.
func (m *Map[K, V]) Set(k K, v V) error {
	key, err := m.entryKey(k)
	if err != nil {
		return err
	}
	enc, err := m.valCodec.Encode(v)
	if err != nil {
		return errkind.Wrap(errkind.EncodeFailure, err)
	}
	h, err := m.header()
	if err != nil {
		return err
	}
	prior, err := m.a.Write(key, enc)
	if err != nil {
		return err
	}
	if !prior {
		h.Length++
	}
	h.Bump()
	return h.Save(m.a, m.prefix)
}

// Remove deletes k if present, returning (value, true) if it was, or
// (zero, false) if not. Returning false is non-mutating.
func (m *Map[K, V]) Remove(k K) (V, bool, error) {
	var zero V
	key, err := m.entryKey(k)
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
	h, err := m.header()
	if err != nil {
		return zero, false, err
	}
	if _, err := m.a.Remove(key); err != nil {
		return zero, false, err
	}
	h.Length--
	h.Bump()
	if err := h.Save(m.a, m.prefix); err != nil {
		return zero, false, err
	}
	return v, true, nil
}

// Clear resets the length to 0 but does not touch payload entries: prior
// entries remain in host storage (orphaned) until rewritten through the
// same keys, or removed explicitly via DrainKnownKeys. This kind is
// non-iterable by design, so Clear never performs implicit iteration.
func (m *Map[K, V]) Clear() error {
	h, err := m.header()
	if err != nil {
		return err
	}
	h.Length = 0
	h.Bump()
	return h.Save(m.a, m.prefix)
}

// DrainKnownKeys removes exactly the given keys, decrementing length only
// for keys that were actually present. It performs no iteration of its own:
// the caller supplies the exact key set to remove, an explicit alternative
// to silent clear-time iteration.
func (m *Map[K, V]) DrainKnownKeys(keys []K) (removed uint64, err error) {
	h, err := m.header()
	if err != nil {
		return 0, err
	}
	for _, k := range keys {
		key, err := m.entryKey(k)
		if err != nil {
			return removed, err
		}
		prior, err := m.a.Remove(key)
		if err != nil {
			return removed, err
		}
		if prior {
			removed++
		}
	}
	if removed > 0 {
		if removed > h.Length {
			h.Length = 0
		} else {
			h.Length -= removed
		}
		h.Bump()
		if err := h.Save(m.a, m.prefix); err != nil {
			return removed, err
		}
	}
	return removed, nil
}
