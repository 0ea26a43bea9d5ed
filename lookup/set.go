package lookup

import (
	"github.com/chainkv/onchain-collections/codec"
	"github.com/chainkv/onchain-collections/meta"
	"github.com/chainkv/onchain-collections/storage"
)

// marker is the zero-size presence value stored for every Set member.
type marker struct{}

type markerCodec struct{}

func (markerCodec) Encode(marker) ([]byte, error) { return []byte{1}, nil }
func (markerCodec) Decode([]byte) (marker, error)  { return marker{}, nil }

// Set is a non-iterable, key-only store: identical storage and cost
// profile to Map with the value fixed to a single presence marker byte.
type Set[K any] struct {
	m *Map[K, marker]
}

// NewSet returns a handle to the Lookup Set stored at prefix.
func NewSet[K any](a *storage.Adapter, prefix []byte, kc codec.Codec[K]) *Set[K] {
	return &Set[K]{m: newMap[K, marker](a, prefix, kc, markerCodec{}, meta.KindLookupSet)}
}

// Prefix returns the storage prefix this handle is bound to.
func (s *Set[K]) Prefix() []byte { return s.m.Prefix() }

// Len returns the number of members.
func (s *Set[K]) Len() (uint64, error) { return s.m.Len() }

// Contains reports whether k is a member.
func (s *Set[K]) Contains(k K) (bool, error) { return s.m.Contains(k) }

// Add inserts k as a member. Adding an already-present member is a no-op
// beyond overwriting the marker byte (length does not change).
func (s *Set[K]) Add(k K) error { return s.m.Set(k, marker{}) }

// Remove deletes k if present, returning whether it was.
func (s *Set[K]) Remove(k K) (bool, error) {
	_, ok, err := s.m.Remove(k)
	return ok, err
}

// Clear resets the length to 0 without touching stored markers, the same
// orphan-storage consequence as Map.Clear.
func (s *Set[K]) Clear() error { return s.m.Clear() }

// DrainKnownKeys removes exactly the given members, the explicit
// alternative to implicit iteration.
func (s *Set[K]) DrainKnownKeys(keys []K) (uint64, error) {
	return s.m.DrainKnownKeys(keys)
}
