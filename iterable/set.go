package iterable

import (
	"github.com/chainkv/onchain-collections/codec"
	"github.com/chainkv/onchain-collections/storage"
)

// marker is the zero-size presence value stored for every Set member.
type marker struct{}

type markerCodec struct{}

func (markerCodec) Encode(marker) ([]byte, error) { return []byte{1}, nil }
func (markerCodec) Decode([]byte) (marker, error)  { return marker{}, nil }

// Set is an Iterable Set: Lookup Set semantics plus enumeration, built the
// same way Map is, with its own header, a Key Index Sequence, and an
// optional reverse index.
type Set[K any] struct {
	m *Map[K, marker]
}

// NewSet returns a handle to the Iterable Set stored at prefix.
func NewSet[K any](a *storage.Adapter, prefix []byte, kc codec.Codec[K], opts ...Option) (*Set[K], error) {
	m, err := newSetMap[K](a, prefix, kc, opts...)
	if err != nil {
		return nil, err
	}
	return &Set[K]{m: m}, nil
}

func newSetMap[K any](a *storage.Adapter, prefix []byte, kc codec.Codec[K], opts ...Option) (*Map[K, marker], error) {
	return newMapWithKind[K, marker](a, prefix, kc, markerCodec{}, kindSet, opts...)
}

// Prefix returns the storage prefix this handle is bound to.
func (s *Set[K]) Prefix() []byte { return s.m.Prefix() }

// Len returns the number of members.
func (s *Set[K]) Len() (uint64, error) { return s.m.Len() }

// Contains reports whether k is a member.
func (s *Set[K]) Contains(k K) (bool, error) { return s.m.Contains(k) }

// Add inserts k as a member.
func (s *Set[K]) Add(k K) error { return s.m.Set(k, marker{}) }

// Remove deletes k if present, returning whether it was.
func (s *Set[K]) Remove(k K) (bool, error) {
	_, ok, err := s.m.Remove(k)
	return ok, err
}

// Clear removes every member and the Key Index itself.
func (s *Set[K]) Clear() error { return s.m.Clear() }

// Values returns an iterator over members, in Key Index order.
func (s *Set[K]) Values() (*KeyIterator[K, marker], error) { return s.m.Keys() }
