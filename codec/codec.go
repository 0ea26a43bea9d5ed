// Package codec converts caller-supplied values and logical keys to and
// from the deterministic byte representation the collections library
// persists. Encoding must be canonical (equal values always produce
// byte-equal encodings) and stable across process restarts.
package codec

import (
	"bytes"
	"fmt"

	bin "github.com/gagliardetto/binary"
	"github.com/cespare/xxhash/v2"

	"github.com/chainkv/onchain-collections/errkind"
)

// Codec encodes and decodes values of type T to and from bytes. An
// implementation must be total (every T encodes) and bijective over the
// universe of values it supports.
type Codec[T any] interface {
	Encode(v T) ([]byte, error)
	Decode(b []byte) (T, error)
}

// checksumSize is the length, in bytes, of the trailing xxhash64 digest the
// default codecs append to every encoded payload.
const checksumSize = 8

// appendChecksum appends an xxhash64 digest of payload to itself, so a
// truncated or bit-flipped stored value is caught as Codec::Decode instead
// of silently decoding into garbage.
func appendChecksum(payload []byte) []byte {
	sum := xxhash.Sum64(payload)
	out := make([]byte, len(payload)+checksumSize)
	copy(out, payload)
	var sumBuf [checksumSize]byte
	for i := 0; i < checksumSize; i++ {
		sumBuf[i] = byte(sum >> (8 * (checksumSize - 1 - i)))
	}
	copy(out[len(payload):], sumBuf[:])
	return out
}

// stripChecksum verifies and removes the trailing checksum appended by
// appendChecksum.
func stripChecksum(b []byte) ([]byte, error) {
	if len(b) < checksumSize {
		return nil, fmt.Errorf("truncated: %d bytes, want at least %d", len(b), checksumSize)
	}
	payload := b[:len(b)-checksumSize]
	want := b[len(b)-checksumSize:]
	got := xxhash.Sum64(payload)
	var gotBuf [checksumSize]byte
	for i := 0; i < checksumSize; i++ {
		gotBuf[i] = byte(got >> (8 * (checksumSize - 1 - i)))
	}
	if !bytes.Equal(gotBuf[:], want) {
		return nil, fmt.Errorf("checksum mismatch: stored value is corrupt")
	}
	return payload, nil
}

// Bytes is the identity Codec over []byte, with a corruption-detecting
// checksum appended the way every default codec in this package does.
type Bytes struct{}

func (Bytes) Encode(v []byte) ([]byte, error) {
	return appendChecksum(v), nil
}

func (Bytes) Decode(b []byte) ([]byte, error) {
	payload, err := stripChecksum(b)
	if err != nil {
		return nil, errkind.Wrap(errkind.DecodeFailure, err)
	}
	out := make([]byte, len(payload))
	copy(out, payload)
	return out, nil
}

// RawBytes is Bytes without the checksum: useful for Key Index entries and
// other internal uses where the value is already checksummed by its own
// primary storage.
type RawBytes struct{}

func (RawBytes) Encode(v []byte) ([]byte, error) {
	out := make([]byte, len(v))
	copy(out, v)
	return out, nil
}

func (RawBytes) Decode(b []byte) ([]byte, error) {
	out := make([]byte, len(b))
	copy(out, b)
	return out, nil
}

// LexString encodes a string as its raw UTF-8 bytes, with no length prefix
// and no checksum. Unlike String, byte-lexicographic order over LexString's
// encoding matches Go's native string ordering, which is what Ordered Map's
// default ordering predicate (lexicographic over encoded bytes) requires. It
// is not checksummed, the same tradeoff RawBytes makes for Key Index
// payloads.
type LexString struct{}

func (LexString) Encode(v string) ([]byte, error) {
	return []byte(v), nil
}

func (LexString) Decode(b []byte) (string, error) {
	return string(b), nil
}

// String is the default Codec over string values.
type String struct{}

func (String) Encode(v string) ([]byte, error) {
	var buf bytes.Buffer
	enc := bin.NewBorshEncoder(&buf)
	if err := enc.WriteString(v); err != nil {
		return nil, errkind.Wrap(errkind.EncodeFailure, err)
	}
	return appendChecksum(buf.Bytes()), nil
}

func (String) Decode(b []byte) (string, error) {
	payload, err := stripChecksum(b)
	if err != nil {
		return "", errkind.Wrap(errkind.DecodeFailure, err)
	}
	dec := bin.NewBorshDecoder(payload)
	s, err := dec.ReadString()
	if err != nil {
		return "", errkind.Wrap(errkind.DecodeFailure, err)
	}
	return s, nil
}

// Bool is the default Codec over bool values.
type Bool struct{}

func (Bool) Encode(v bool) ([]byte, error) {
	var buf bytes.Buffer
	enc := bin.NewBorshEncoder(&buf)
	b := uint8(0)
	if v {
		b = 1
	}
	if err := enc.WriteUint8(b); err != nil {
		return nil, errkind.Wrap(errkind.EncodeFailure, err)
	}
	return appendChecksum(buf.Bytes()), nil
}

func (Bool) Decode(b []byte) (bool, error) {
	payload, err := stripChecksum(b)
	if err != nil {
		return false, errkind.Wrap(errkind.DecodeFailure, err)
	}
	if len(payload) != 1 {
		return false, errkind.Wrap(errkind.DecodeFailure, fmt.Errorf("bool payload must be 1 byte, got %d", len(payload)))
	}
	return payload[0] != 0, nil
}

// Uint64 is the default (non order-preserving) Codec over uint64 values.
// Use OrderedUint64 for Ordered Map keys instead.
type Uint64 struct{}

func (Uint64) Encode(v uint64) ([]byte, error) {
	var buf bytes.Buffer
	enc := bin.NewBorshEncoder(&buf)
	if err := enc.WriteUint64(v, bin.LE); err != nil {
		return nil, errkind.Wrap(errkind.EncodeFailure, err)
	}
	return appendChecksum(buf.Bytes()), nil
}

func (Uint64) Decode(b []byte) (uint64, error) {
	payload, err := stripChecksum(b)
	if err != nil {
		return 0, errkind.Wrap(errkind.DecodeFailure, err)
	}
	dec := bin.NewBorshDecoder(payload)
	v, err := dec.ReadUint64(bin.LE)
	if err != nil {
		return 0, errkind.Wrap(errkind.DecodeFailure, err)
	}
	return v, nil
}

// Uint32 is the default (non order-preserving) Codec over uint32 values.
type Uint32 struct{}

func (Uint32) Encode(v uint32) ([]byte, error) {
	var buf bytes.Buffer
	enc := bin.NewBorshEncoder(&buf)
	if err := enc.WriteUint32(v, bin.LE); err != nil {
		return nil, errkind.Wrap(errkind.EncodeFailure, err)
	}
	return appendChecksum(buf.Bytes()), nil
}

func (Uint32) Decode(b []byte) (uint32, error) {
	payload, err := stripChecksum(b)
	if err != nil {
		return 0, errkind.Wrap(errkind.DecodeFailure, err)
	}
	dec := bin.NewBorshDecoder(payload)
	v, err := dec.ReadUint32(bin.LE)
	if err != nil {
		return 0, errkind.Wrap(errkind.DecodeFailure, err)
	}
	return v, nil
}
