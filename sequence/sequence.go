// Package sequence implements the indexed, append-friendly ordered
// container: O(1) index access, append, pop-back, and O(1) out-of-order
// removal via swap-with-last.
package sequence

import (
	"encoding/binary"

	"github.com/chainkv/onchain-collections/codec"
	"github.com/chainkv/onchain-collections/errkind"
	"github.com/chainkv/onchain-collections/meta"
	"github.com/chainkv/onchain-collections/storage"
)

// Sequence is a handle to an indexed container stored under prefix. Holding
// one allocates no host resources until an operation is called.
type Sequence[T any] struct {
	a      *storage.Adapter
	prefix []byte
	codec  codec.Codec[T]
}

// New returns a handle to the Sequence stored at prefix, using c to encode
// and decode elements.
func New[T any](a *storage.Adapter, prefix []byte, c codec.Codec[T]) *Sequence[T] {
	return &Sequence[T]{a: a, prefix: append([]byte(nil), prefix...), codec: c}
}

// Prefix returns the storage prefix this handle is bound to.
func (s *Sequence[T]) Prefix() []byte { return s.prefix }

func (s *Sequence[T]) header() (*meta.Header, error) {
	return meta.Load(s.a, s.prefix, meta.KindSequence)
}

func indexBytes(i uint64) []byte {
	var b [8]byte
	binary.BigEndian.PutUint64(b[:], i)
	return b[:]
}

func (s *Sequence[T]) slotKey(i uint64) []byte {
	return storage.EntryKey(s.prefix, indexBytes(i))
}

// Len returns the number of elements, from the metadata header.
func (s *Sequence[T]) Len() (uint64, error) {
	h, err := s.header()
	if err != nil {
		return 0, err
	}
	return h.Length, nil
}

// Get returns the element at index i, or Collection::OutOfRange if i is out
// of bounds.
func (s *Sequence[T]) Get(i uint64) (T, error) {
	var zero T
	h, err := s.header()
	if err != nil {
		return zero, err
	}
	if i >= h.Length {
		return zero, errkind.WithIndex(errkind.OutOfRange, i)
	}
	raw, ok, err := s.a.Read(s.slotKey(i))
	if err != nil {
		return zero, err
	}
	if !ok {
		return zero, errkind.WithIndex(errkind.OutOfRange, i)
	}
	return s.codec.Decode(raw)
}

// Set overwrites the element at index i, or returns Collection::OutOfRange
// if i >= Len().
func (s *Sequence[T]) Set(i uint64, v T) error {
	h, err := s.header()
	if err != nil {
		return err
	}
	if i >= h.Length {
		return errkind.WithIndex(errkind.OutOfRange, i)
	}
	enc, err := s.codec.Encode(v)
	if err != nil {
		return err
	}
	if _, err := s.a.Write(s.slotKey(i), enc); err != nil {
		return err
	}
	h.Bump()
	return h.Save(s.a, s.prefix)
}

// Append writes v at index Len() and increments the length. O(1).
func (s *Sequence[T]) Append(v T) (uint64, error) {
	h, err := s.header()
	if err != nil {
		return 0, err
	}
	enc, err := s.codec.Encode(v)
	if err != nil {
		return 0, err
	}
	idx := h.Length
	if _, err := s.a.Write(s.slotKey(idx), enc); err != nil {
		return 0, err
	}
	h.Length++
	h.Bump()
	if err := h.Save(s.a, s.prefix); err != nil {
		return 0, err
	}
	return idx, nil
}

// Pop removes and returns the last element, or Collection::Empty if the
// sequence is empty.
func (s *Sequence[T]) Pop() (T, error) {
	var zero T
	h, err := s.header()
	if err != nil {
		return zero, err
	}
	if h.Length == 0 {
		return zero, errkind.Plain(errkind.Empty)
	}
	idx := h.Length - 1
	raw, ok, err := s.a.Read(s.slotKey(idx))
	if err != nil {
		return zero, err
	}
	if !ok {
		return zero, errkind.WithIndex(errkind.OutOfRange, idx)
	}
	v, err := s.codec.Decode(raw)
	if err != nil {
		return zero, err
	}
	if _, err := s.a.Remove(s.slotKey(idx)); err != nil {
		return zero, err
	}
	h.Length--
	h.Bump()
	if err := h.Save(s.a, s.prefix); err != nil {
		return zero, err
	}
	return v, nil
}

// SwapRemove removes the element at index i, moving the last element into
// its place (order is not preserved). If i is the last index this behaves
// exactly like Pop. O(1).
func (s *Sequence[T]) SwapRemove(i uint64) (T, error) {
	var zero T
	h, err := s.header()
	if err != nil {
		return zero, err
	}
	if i >= h.Length {
		return zero, errkind.WithIndex(errkind.OutOfRange, i)
	}
	lastIdx := h.Length - 1

	raw, ok, err := s.a.Read(s.slotKey(i))
	if err != nil {
		return zero, err
	}
	if !ok {
		return zero, errkind.WithIndex(errkind.OutOfRange, i)
	}
	removed, err := s.codec.Decode(raw)
	if err != nil {
		return zero, err
	}

	if i != lastIdx {
		lastRaw, ok, err := s.a.Read(s.slotKey(lastIdx))
		if err != nil {
			return zero, err
		}
		if !ok {
			return zero, errkind.WithIndex(errkind.OutOfRange, lastIdx)
		}
		if _, err := s.a.Write(s.slotKey(i), lastRaw); err != nil {
			return zero, err
		}
	}
	if _, err := s.a.Remove(s.slotKey(lastIdx)); err != nil {
		return zero, err
	}

	h.Length--
	h.Bump()
	if err := h.Save(s.a, s.prefix); err != nil {
		return zero, err
	}
	return removed, nil
}

// Clear removes every element and resets the length to 0. O(Len()) host
// calls.
func (s *Sequence[T]) Clear() error {
	h, err := s.header()
	if err != nil {
		return err
	}
	for i := uint64(0); i < h.Length; i++ {
		if _, err := s.a.Remove(s.slotKey(i)); err != nil {
			return err
		}
	}
	h.Length = 0
	h.Bump()
	return h.Save(s.a, s.prefix)
}
