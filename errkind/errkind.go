// Package errkind defines the small set of error kinds shared across the
// collections library, following the typed-sentinel style of
// store/types/errors.go in the teacher repo this module descends from.
package errkind

import "fmt"

// Kind discriminates the handful of failure modes the collections library
// can raise. It implements error so that callers can write
// errors.Is(err, errkind.OutOfRange) without reaching for the *Error type.
type Kind uint8

const (
	_ Kind = iota

	// OutOfRange: index >= length on a Sequence operation.
	OutOfRange
	// Empty: pop/min/max on an empty collection.
	Empty
	// KeyAbsent: an explicit (non-optional) lookup found no value for the key.
	KeyAbsent
	// KindMismatch: a prefix already holds a collection of a different kind.
	KindMismatch
	// EncodeFailure: a value could not be encoded by the codec.
	EncodeFailure
	// DecodeFailure: stored bytes could not be decoded (truncated, wrong
	// version, or a failed integrity check).
	DecodeFailure
	// Invalidated: an iterator's captured generation no longer matches the
	// collection's current generation.
	Invalidated
	// HostError: the storage host returned an error.
	HostError
)

func (k Kind) String() string {
	switch k {
	case OutOfRange:
		return "collection: out of range"
	case Empty:
		return "collection: empty"
	case KeyAbsent:
		return "collection: key absent"
	case KindMismatch:
		return "meta: kind mismatch"
	case EncodeFailure:
		return "codec: encode failure"
	case DecodeFailure:
		return "codec: decode failure"
	case Invalidated:
		return "iteration: invalidated"
	case HostError:
		return "storage: host error"
	default:
		return "errkind: unknown"
	}
}

// Error lets a bare Kind satisfy the error interface, so it can be used
// directly as the target of errors.Is.
func (k Kind) Error() string { return k.String() }

// Error carries a Kind plus whatever diagnostic context is available: the
// offending key, the offending index, and/or a wrapped cause, so a caller can
// diagnose a failure without re-deriving which key or index triggered it.
type Error struct {
	Kind Kind

	Key      []byte
	HasIndex bool
	Index    uint64
	Cause    error
}

func (e *Error) Error() string {
	switch {
	case e.HasIndex && e.Key != nil:
		return fmt.Sprintf("%s: key %x index %d", e.Kind, e.Key, e.Index)
	case e.HasIndex:
		return fmt.Sprintf("%s: index %d", e.Kind, e.Index)
	case e.Key != nil:
		return fmt.Sprintf("%s: key %x", e.Kind, e.Key)
	case e.Cause != nil:
		return fmt.Sprintf("%s: %v", e.Kind, e.Cause)
	default:
		return e.Kind.String()
	}
}

// Unwrap exposes the wrapped cause, if any, to errors.Unwrap/errors.As.
func (e *Error) Unwrap() error { return e.Cause }

// Is lets errors.Is(err, errkind.OutOfRange) and errors.Is(err, otherErr)
// match purely on Kind.
func (e *Error) Is(target error) bool {
	if k, ok := target.(Kind); ok {
		return e.Kind == k
	}
	if te, ok := target.(*Error); ok {
		return e.Kind == te.Kind
	}
	return false
}

// WithIndex builds an *Error carrying an offending index.
func WithIndex(kind Kind, index uint64) error {
	return &Error{Kind: kind, HasIndex: true, Index: index}
}

// WithKey builds an *Error carrying an offending key.
func WithKey(kind Kind, key []byte) error {
	return &Error{Kind: kind, Key: append([]byte(nil), key...)}
}

// Wrap builds an *Error carrying a wrapped cause (used for Storage::HostError
// and Codec::Decode passthrough).
func Wrap(kind Kind, cause error) error {
	return &Error{Kind: kind, Cause: cause}
}

// WrapKey builds an *Error carrying both a key and a wrapped cause.
func WrapKey(kind Kind, key []byte, cause error) error {
	return &Error{Kind: kind, Key: append([]byte(nil), key...), Cause: cause}
}

// Plain builds a bare *Error with no extra diagnostic context.
func Plain(kind Kind) error {
	return &Error{Kind: kind}
}
