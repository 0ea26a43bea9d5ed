package sequence

import "github.com/chainkv/onchain-collections/errkind"

// Iterator walks a Sequence's elements in index order. It captures the
// length and generation at creation time as an explicit cursor (prefix,
// captured length, captured generation, next index). It is finite and
// restartable: create a new Iterator to walk again.
type Iterator[T any] struct {
	s          *Sequence[T]
	length     uint64
	generation uint64
	next       uint64
}

// Iter returns a new Iterator positioned before the first element.
func (s *Sequence[T]) Iter() (*Iterator[T], error) {
	h, err := s.header()
	if err != nil {
		return nil, err
	}
	return &Iterator[T]{s: s, length: h.Length, generation: h.Generation}, nil
}

// Next returns the next element, or ok=false once the captured length is
// exhausted. Each step reads the header to re-check the generation counter
// and then reads one element slot; a mutation since Iter() was called surfaces as
// Iteration::Invalidated on the first step taken after it.
func (it *Iterator[T]) Next() (T, bool, error) {
	var zero T
	if it.next >= it.length {
		return zero, false, nil
	}
	h, err := it.s.header()
	if err != nil {
		return zero, false, err
	}
	if h.Generation != it.generation {
		return zero, false, errkind.Plain(errkind.Invalidated)
	}
	v, err := it.s.Get(it.next)
	if err != nil {
		return zero, false, err
	}
	it.next++
	return v, true, nil
}
